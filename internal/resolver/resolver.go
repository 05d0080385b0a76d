// Package resolver anchors plugin findings to exact byte ranges.
//
// A finding arrives with approximate location information, at best a line
// hint. The resolver first checks a small window around the hint via the
// text index, then escalates to the fuzzy locator over the whole document,
// since the hint itself may be wrong. Findings that cannot be anchored are
// dropped silently; that is the expected fate of hallucinated quotes.
package resolver

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hyperjump/tensaku/internal/locator"
	"github.com/hyperjump/tensaku/internal/models"
	"github.com/hyperjump/tensaku/internal/textindex"
)

// StrategyLineWindow marks spans found via the line-hint window rather than
// the locator cascade.
const StrategyLineWindow = "line-window"

// contextPrefixLen is how many bytes of leading context each annotation
// carries for disambiguation in a UI.
const contextPrefixLen = 120

// importanceFor maps finding severity onto the 1-10 annotation scale.
var importanceFor = map[models.Severity]int{
	models.SeverityInfo:   2,
	models.SeverityLow:    3,
	models.SeverityMedium: 5,
	models.SeverityHigh:   8,
}

// Resolver turns Findings into offset-anchored Annotations.
type Resolver struct {
	locator       *locator.Locator
	lineTolerance int
	logger        *zap.Logger
}

// New creates a resolver. lineTolerance is the number of lines searched on
// each side of a finding's line hint; values below zero are treated as zero.
// logger may be nil.
func New(loc *locator.Locator, lineTolerance int, logger *zap.Logger) *Resolver {
	if lineTolerance < 0 {
		lineTolerance = 0
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{locator: loc, lineTolerance: lineTolerance, logger: logger}
}

// Resolve anchors a single finding against the indexed document. It returns
// nil (and no error) when the finding's text cannot be located anywhere.
func (r *Resolver) Resolve(ctx context.Context, finding *models.Finding, pluginName string, index *textindex.Index, opts locator.Options) *models.Annotation {
	if finding == nil || finding.TargetText == "" {
		return nil
	}

	span := r.hintWindow(finding, index)
	if span == nil {
		span = r.locator.Locate(ctx, finding.TargetText, index.Text(), opts)
	}
	if span == nil {
		r.logger.Debug("finding unlocatable",
			zap.String("plugin", pluginName),
			zap.String("type", finding.Type),
			zap.Int("line_hint", finding.LineHint))
		return nil
	}

	importance, ok := importanceFor[finding.Severity]
	if !ok {
		importance = importanceFor[models.SeverityLow]
	}
	return &models.Annotation{
		ID:          uuid.New().String(),
		Plugin:      pluginName,
		Description: finding.Message,
		Importance:  importance,
		Highlight: models.Highlight{
			StartOffset:   span.StartOffset,
			EndOffset:     span.EndOffset,
			QuotedText:    span.MatchedText,
			ContextPrefix: index.ContextSnippet(span.StartOffset, contextPrefixLen, 0),
		},
		Strategy:   span.Strategy,
		Confidence: span.Confidence,
	}
}

// hintWindow checks the lines around the finding's hint for a literal match.
func (r *Resolver) hintWindow(finding *models.Finding, index *textindex.Index) *models.LocatedSpan {
	if !finding.HasLineHint() {
		return nil
	}
	line := finding.LineHint - 1
	span := index.FindInLineRange(finding.TargetText, line-r.lineTolerance, line+r.lineTolerance)
	if span == nil {
		return nil
	}
	confidence := 1.0
	if span.CaseInsensitive {
		confidence = 0.85
	}
	return &models.LocatedSpan{
		StartOffset: span.StartOffset,
		EndOffset:   span.EndOffset,
		MatchedText: index.Text()[span.StartOffset:span.EndOffset],
		Strategy:    StrategyLineWindow,
		Confidence:  confidence,
	}
}
