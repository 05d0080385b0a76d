// Package spellcheck is an analysis plugin that flags likely typos.
//
// It needs no external dictionary: the document's own vocabulary serves as
// one. A word that appears once and sits within a small edit distance of a
// word the document uses repeatedly is very likely a typo of that word
// ("propodal" in a document that says "proposal" nine times).
package spellcheck

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hyperjump/tensaku/internal/models"
	"github.com/hyperjump/tensaku/internal/plugin"
)

var wordRe = regexp.MustCompile(`[A-Za-z]+(?:'[A-Za-z]+)?`)

const (
	// minTypoLen is the minimum length of a word considered as a typo
	// candidate; short words collide with too many neighbors.
	minTypoLen = 5
	// minKnownFreq is how often a word must occur to count as vocabulary.
	minKnownFreq = 3
	// maxDistance is the maximum edit distance between a typo and its
	// correction.
	maxDistance = 2
	// maxFindings caps the findings per document.
	maxFindings = 20
)

// Plugin flags likely typos against the document's own vocabulary.
type Plugin struct {
	logger *zap.Logger
}

// New creates the spellcheck plugin. logger may be nil.
func New(logger *zap.Logger) *Plugin {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Plugin{logger: logger}
}

// Name implements plugin.Plugin.
func (p *Plugin) Name() string { return "spellcheck" }

// ShouldRun skips chunks that contain no letters.
func (p *Plugin) ShouldRun(chunk *models.Chunk) bool {
	return strings.IndexFunc(chunk.Text, func(r rune) bool {
		return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
	}) >= 0
}

// Analyze builds a frequency table over the whole document, then walks it
// line by line looking for singleton words within maxDistance of a frequent
// word.
func (p *Plugin) Analyze(ctx context.Context, chunks []*models.Chunk, documentText string) (*plugin.Result, error) {
	freq := make(map[string]int)
	for _, w := range wordRe.FindAllString(documentText, -1) {
		freq[strings.ToLower(w)]++
	}

	// Vocabulary: words the document uses repeatedly.
	var vocab []string
	for w, n := range freq {
		if n >= minKnownFreq && len(w) >= minTypoLen-1 {
			vocab = append(vocab, w)
		}
	}

	var findings []*models.Finding
	reported := make(map[string]struct{})
	for lineIdx, line := range strings.Split(documentText, "\n") {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if len(findings) >= maxFindings {
			break
		}
		for _, word := range wordRe.FindAllString(line, -1) {
			lower := strings.ToLower(word)
			if len(word) < minTypoLen || freq[lower] != 1 {
				continue
			}
			if _, ok := reported[lower]; ok {
				continue
			}
			suggestion, dist := closest(lower, vocab)
			if suggestion == "" {
				continue
			}
			reported[lower] = struct{}{}

			severity := models.SeverityLow
			if dist > 1 {
				severity = models.SeverityInfo
			}
			findings = append(findings, &models.Finding{
				ID:         uuid.New().String(),
				Type:       "possible-typo",
				Severity:   severity,
				Message:    fmt.Sprintf("Possible typo: %q (did you mean %q?)", word, suggestion),
				TargetText: word,
				LineHint:   lineIdx + 1,
				Metadata:   map[string]interface{}{"suggestion": suggestion, "distance": dist},
			})
			if len(findings) >= maxFindings {
				break
			}
		}
	}

	p.logger.Debug("spellcheck complete",
		zap.Int("vocabulary", len(vocab)), zap.Int("candidates", len(findings)))
	return &plugin.Result{
		Summary:  fmt.Sprintf("Flagged %d possible typos", len(findings)),
		Findings: findings,
	}, nil
}

// closest returns the vocabulary word nearest to w within maxDistance, or ""
// when none qualifies. Distance wins; length similarity breaks ties.
func closest(w string, vocab []string) (string, int) {
	best := ""
	bestDist := maxDistance + 1
	for _, v := range vocab {
		if v == w {
			continue
		}
		// Cheap length screen before computing the full matrix.
		if diff := len(v) - len(w); diff > maxDistance || diff < -maxDistance {
			continue
		}
		d := damerauLevenshtein(w, v)
		if d >= 1 && d < bestDist {
			best = v
			bestDist = d
		}
	}
	if best == "" {
		return "", 0
	}
	return best, bestDist
}
