// Package llm provides the model-assisted text search collaborator used as
// the last-resort location strategy. The model's output is untrusted: the
// locator re-validates any returned quote against the document before use.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Match is a model-reported best guess at the document passage that
// corresponds to a target snippet.
type Match struct {
	QuotedText  string  `json:"quote"`
	Explanation string  `json:"explanation,omitempty"`
	// Confidence is the model's self-reported confidence in [0,1].
	// 0 means the model did not report one.
	Confidence float64 `json:"confidence,omitempty"`
}

// Searcher locates a target snippet inside a haystack using a text model.
type Searcher interface {
	FindText(ctx context.Context, target, haystack string) (*Match, error)
}

// Config selects and configures a Searcher implementation.
type Config struct {
	// Provider is "openai" or "anthropic".
	Provider  string
	Model     string
	MaxTokens int
}

// NewSearcher creates the Searcher for cfg.Provider.
func NewSearcher(cfg Config) (Searcher, error) {
	switch cfg.Provider {
	case "openai":
		return NewOpenAISearcher(cfg)
	case "anthropic":
		return NewAnthropicSearcher(cfg)
	default:
		return nil, fmt.Errorf("llm: unknown provider %q", cfg.Provider)
	}
}

const systemPrompt = `You locate quotes in documents. Given a TARGET snippet and a DOCUMENT, find the passage in the DOCUMENT that the TARGET refers to. The TARGET may be paraphrased, truncated, or differ in whitespace and quote style. Respond with JSON only:
{"quote": "<the passage copied verbatim from the DOCUMENT>", "explanation": "<one sentence>", "confidence": <0.0-1.0>}
If no passage corresponds to the TARGET, respond with {"quote": ""}.`

// buildUserPrompt assembles the user message for a search request.
func buildUserPrompt(target, haystack string) string {
	var b strings.Builder
	b.WriteString("TARGET:\n")
	b.WriteString(target)
	b.WriteString("\n\nDOCUMENT:\n")
	b.WriteString(haystack)
	return b.String()
}

// parseMatch extracts a Match from a model response. Models sometimes wrap
// the JSON in prose or code fences, so the first balanced object is parsed.
// Returns nil when the response contains no usable quote.
func parseMatch(response string) (*Match, error) {
	start := strings.IndexByte(response, '{')
	end := strings.LastIndexByte(response, '}')
	if start < 0 || end <= start {
		return nil, fmt.Errorf("llm: no JSON object in response")
	}
	var m Match
	if err := json.Unmarshal([]byte(response[start:end+1]), &m); err != nil {
		return nil, fmt.Errorf("llm: parse response: %w", err)
	}
	if strings.TrimSpace(m.QuotedText) == "" {
		return nil, nil
	}
	if m.Confidence < 0 || m.Confidence > 1 {
		m.Confidence = 0
	}
	return &m, nil
}
