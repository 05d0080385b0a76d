package llm

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/joho/godotenv"
)

// AnthropicSearcher implements Searcher against the Anthropic messages API.
type AnthropicSearcher struct {
	client    *anthropic.Client
	model     anthropic.Model
	maxTokens int64
}

// NewAnthropicSearcher creates an Anthropic-backed searcher. The API key is
// read from ANTHROPIC_API_KEY (a .env.local file is loaded first if present).
func NewAnthropicSearcher(cfg Config) (*AnthropicSearcher, error) {
	_ = godotenv.Load(".env.local")

	apiKey := os.Getenv("ANTHROPIC_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("llm: ANTHROPIC_API_KEY is not set")
	}
	model := anthropic.ModelClaude3_7SonnetLatest
	if cfg.Model != "" {
		model = anthropic.Model(cfg.Model)
	}
	maxTokens := int64(cfg.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &AnthropicSearcher{
		client:    &client,
		model:     model,
		maxTokens: maxTokens,
	}, nil
}

// FindText asks the model for the document passage corresponding to target.
// Returns (nil, nil) when the model reports no match.
func (s *AnthropicSearcher) FindText(ctx context.Context, target, haystack string) (*Match, error) {
	message, err := s.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     s.model,
		MaxTokens: s.maxTokens,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(buildUserPrompt(target, haystack))),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("llm: anthropic message: %w", err)
	}
	var b strings.Builder
	for _, content := range message.Content {
		if content.Type == "text" {
			b.WriteString(content.Text)
		}
	}
	return parseMatch(b.String())
}
