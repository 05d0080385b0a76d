package llm

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	openai "github.com/sashabaranov/go-openai"
)

const defaultOpenAIModel = openai.GPT4oMini

// OpenAISearcher implements Searcher against the OpenAI chat API.
type OpenAISearcher struct {
	client    *openai.Client
	model     string
	maxTokens int
}

// NewOpenAISearcher creates an OpenAI-backed searcher. The API key is read
// from OPENAI_API_KEY (a .env.local file is loaded first if present).
func NewOpenAISearcher(cfg Config) (*OpenAISearcher, error) {
	_ = godotenv.Load(".env.local")

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("llm: OPENAI_API_KEY is not set")
	}
	model := cfg.Model
	if model == "" {
		model = defaultOpenAIModel
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	return &OpenAISearcher{
		client:    openai.NewClient(apiKey),
		model:     model,
		maxTokens: maxTokens,
	}, nil
}

// FindText asks the model for the document passage corresponding to target.
// Returns (nil, nil) when the model reports no match.
func (s *OpenAISearcher) FindText(ctx context.Context, target, haystack string) (*Match, error) {
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     s.model,
		MaxTokens: s.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildUserPrompt(target, haystack)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("llm: openai completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("llm: openai returned no choices")
	}
	return parseMatch(resp.Choices[0].Message.Content)
}
