package engine

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/hyperjump/tensaku/internal/locator"
	"github.com/hyperjump/tensaku/internal/models"
	"github.com/hyperjump/tensaku/internal/plugin"
)

type stubPlugin struct {
	name    string
	analyze func(ctx context.Context, chunks []*models.Chunk, doc string) (*plugin.Result, error)
}

func (s *stubPlugin) Name() string                      { return s.name }
func (s *stubPlugin) ShouldRun(c *models.Chunk) bool    { return true }
func (s *stubPlugin) Analyze(ctx context.Context, chunks []*models.Chunk, doc string) (*plugin.Result, error) {
	return s.analyze(ctx, chunks, doc)
}

func finding(target string, hint int) *models.Finding {
	return &models.Finding{
		Type:       "stub",
		Severity:   models.SeverityLow,
		Message:    "issue near " + target,
		TargetText: target,
		LineHint:   hint,
	}
}

const testDoc = "Revenue grew by 15% last year.\n" +
	"Costs fell sharply in the second half.\n" +
	"Headcount stayed flat across all teams.\n"

func defaultOpts() Options {
	return Options{Locator: locator.DefaultConfig()}
}

func TestAnalyzeEmptyDocument(t *testing.T) {
	e := New(defaultOpts(), nil, nil, nil)
	if _, err := e.Analyze(context.Background(), "   \n  "); err == nil {
		t.Fatal("expected structural error for empty document")
	}
}

func TestAnalyzeEndToEnd(t *testing.T) {
	p := &stubPlugin{
		name: "checker",
		analyze: func(ctx context.Context, chunks []*models.Chunk, doc string) (*plugin.Result, error) {
			return &plugin.Result{
				Summary: "2 issues",
				Findings: []*models.Finding{
					finding("Costs fell sharply", 2),
					finding("grew by 15%", 1),
				},
				Cost: 0.01,
			}, nil
		},
	}

	e := New(defaultOpts(), []plugin.Plugin{p}, nil, nil)
	res, err := e.Analyze(context.Background(), testDoc)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(res.Annotations) != 2 {
		t.Fatalf("expected 2 annotations, got %d", len(res.Annotations))
	}
	// Sorted by document offset, not finding order.
	if res.Annotations[0].Highlight.QuotedText != "grew by 15%" {
		t.Errorf("first annotation %q, want the earlier span", res.Annotations[0].Highlight.QuotedText)
	}
	for _, ann := range res.Annotations {
		h := ann.Highlight
		if h.StartOffset < 0 || h.StartOffset >= h.EndOffset || h.EndOffset > len(testDoc) {
			t.Errorf("offsets out of range: %+v", h)
		}
		if testDoc[h.StartOffset:h.EndOffset] != h.QuotedText {
			t.Errorf("quoted text mismatch: %q vs %q", testDoc[h.StartOffset:h.EndOffset], h.QuotedText)
		}
	}
	if res.Stats.TotalFindings != 2 || res.Stats.DroppedFindings != 0 {
		t.Errorf("stats = %+v", res.Stats)
	}
	if res.Stats.CommentsByPlugin["checker"] != 2 {
		t.Errorf("CommentsByPlugin = %v", res.Stats.CommentsByPlugin)
	}
	if res.Stats.TotalCost != 0.01 {
		t.Errorf("TotalCost = %v", res.Stats.TotalCost)
	}
	if res.Stats.TotalChunks < 1 {
		t.Errorf("TotalChunks = %d", res.Stats.TotalChunks)
	}
	if !strings.Contains(res.Summary, "2 issues") {
		t.Errorf("Summary = %q", res.Summary)
	}
}

func TestAnalyzePluginFailureIsolated(t *testing.T) {
	failing := &stubPlugin{
		name: "broken",
		analyze: func(ctx context.Context, chunks []*models.Chunk, doc string) (*plugin.Result, error) {
			return nil, errors.New("chunk 2 exploded")
		},
	}
	working := &stubPlugin{
		name: "working",
		analyze: func(ctx context.Context, chunks []*models.Chunk, doc string) (*plugin.Result, error) {
			return &plugin.Result{
				Findings: []*models.Finding{finding("Headcount stayed flat", 3)},
			}, nil
		},
	}

	e := New(defaultOpts(), []plugin.Plugin{failing, working}, nil, nil)
	res, err := e.Analyze(context.Background(), testDoc)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(res.Annotations) != 1 || res.Annotations[0].Plugin != "working" {
		t.Fatalf("working plugin's annotations missing: %+v", res.Annotations)
	}
	if len(res.Stats.PluginErrors) != 1 {
		t.Fatalf("expected 1 plugin error, got %d", len(res.Stats.PluginErrors))
	}
	pe := res.Stats.PluginErrors[0]
	if pe.Plugin != "broken" || !strings.Contains(pe.Message, "exploded") {
		t.Errorf("plugin error = %+v", pe)
	}
	if !strings.Contains(res.Summary, "1 plugin failures") {
		t.Errorf("Summary = %q", res.Summary)
	}
}

func TestAnalyzeDropsUnlocatableFindings(t *testing.T) {
	p := &stubPlugin{
		name: "hallucinator",
		analyze: func(ctx context.Context, chunks []*models.Chunk, doc string) (*plugin.Result, error) {
			return &plugin.Result{
				Findings: []*models.Finding{
					finding("this sentence was never written anywhere", 1),
					finding("Costs fell sharply", 2),
				},
			}, nil
		},
	}

	e := New(defaultOpts(), []plugin.Plugin{p}, nil, nil)
	res, err := e.Analyze(context.Background(), testDoc)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(res.Annotations) != 1 {
		t.Fatalf("expected 1 annotation, got %d", len(res.Annotations))
	}
	if res.Stats.DroppedFindings != 1 {
		t.Errorf("DroppedFindings = %d, want 1", res.Stats.DroppedFindings)
	}
	if res.Stats.TotalFindings != 2 {
		t.Errorf("TotalFindings = %d, want 2", res.Stats.TotalFindings)
	}
}

func TestAnalyzeCancellation(t *testing.T) {
	blocked := &stubPlugin{
		name: "blocked",
		analyze: func(ctx context.Context, chunks []*models.Chunk, doc string) (*plugin.Result, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	e := New(defaultOpts(), []plugin.Plugin{blocked}, nil, nil)
	if _, err := e.Analyze(ctx, testDoc); !errors.Is(err, context.Canceled) {
		t.Errorf("Analyze error = %v, want context.Canceled", err)
	}
}
