package mathcheck

import (
	"context"
	"strings"
	"testing"

	"github.com/hyperjump/tensaku/internal/models"
)

func singleChunk(text string) []*models.Chunk {
	return []*models.Chunk{{ID: "c0", Text: text, StartOffset: 0, StartLine: 0}}
}

func TestShouldRun(t *testing.T) {
	p := New(nil)
	if p.ShouldRun(&models.Chunk{Text: "no numbers here"}) {
		t.Error("chunk without digits should be skipped")
	}
	if !p.ShouldRun(&models.Chunk{Text: "the answer is 42"}) {
		t.Error("chunk with digits should run")
	}
}

func TestAnalyzeCorrectStatements(t *testing.T) {
	p := New(nil)
	res, err := p.Analyze(context.Background(), singleChunk("We know 2 + 2 = 4 and 10 / 4 = 2.5."), "")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(res.Findings) != 0 {
		t.Errorf("correct statements produced %d findings", len(res.Findings))
	}
}

func TestAnalyzeWrongStatement(t *testing.T) {
	p := New(nil)
	doc := "Intro.\nThe total is 2 + 2 = 5 according to the draft.\nEnd."
	res, err := p.Analyze(context.Background(), singleChunk(doc), doc)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(res.Findings) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(res.Findings))
	}
	f := res.Findings[0]
	if f.TargetText != "2 + 2 = 5" {
		t.Errorf("TargetText = %q", f.TargetText)
	}
	if f.LineHint != 2 {
		t.Errorf("LineHint = %d, want 2", f.LineHint)
	}
	if f.Severity != models.SeverityMedium {
		t.Errorf("Severity = %s, want medium", f.Severity)
	}
	if !strings.Contains(f.Message, "2 + 2 = 5") || !strings.Contains(f.Message, "= 4") {
		t.Errorf("Message = %q", f.Message)
	}
}

func TestAnalyzeSeverityScaling(t *testing.T) {
	p := New(nil)
	tests := []struct {
		name string
		text string
		want models.Severity
	}{
		{"wildly wrong", "10 * 10 = 5", models.SeverityHigh},
		{"moderately wrong", "10 * 10 = 90", models.SeverityMedium},
		{"rounding slip", "1000 + 1 = 1001.001", models.SeverityLow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := p.Analyze(context.Background(), singleChunk(tt.text), tt.text)
			if err != nil {
				t.Fatalf("Analyze: %v", err)
			}
			if len(res.Findings) != 1 {
				t.Fatalf("expected 1 finding, got %d", len(res.Findings))
			}
			if res.Findings[0].Severity != tt.want {
				t.Errorf("severity = %s, want %s", res.Findings[0].Severity, tt.want)
			}
		})
	}
}

func TestAnalyzeLineHintAcrossChunks(t *testing.T) {
	p := New(nil)
	// A chunk that starts mid-document must still report document lines.
	chunk := &models.Chunk{
		ID:        "c1",
		Text:      "filler line\nhere 3 * 3 = 10 is wrong\n",
		StartLine: 40,
	}
	res, err := p.Analyze(context.Background(), []*models.Chunk{chunk}, "")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(res.Findings) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(res.Findings))
	}
	if got := res.Findings[0].LineHint; got != 42 {
		t.Errorf("LineHint = %d, want 42", got)
	}
}

func TestAnalyzeDedupAcrossOverlappingChunks(t *testing.T) {
	p := New(nil)
	text := "here 3 * 3 = 10 is wrong"
	chunks := []*models.Chunk{
		{ID: "c0", Text: text, StartLine: 0},
		{ID: "c1", Text: text, StartLine: 0}, // overlap repeats the statement
	}
	res, err := p.Analyze(context.Background(), chunks, text)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(res.Findings) != 1 {
		t.Errorf("expected deduplicated finding, got %d", len(res.Findings))
	}
}

func TestAnalyzeDivisionByZero(t *testing.T) {
	p := New(nil)
	res, err := p.Analyze(context.Background(), singleChunk("weird claim: 5 / 0 = 7"), "")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(res.Findings) != 0 {
		t.Errorf("division by zero should be skipped, got %d findings", len(res.Findings))
	}
}
