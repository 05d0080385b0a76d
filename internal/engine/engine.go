// Package engine runs the full analysis pipeline over a document: chunking,
// parallel plugin analysis, and anchoring of the resulting findings to exact
// byte offsets.
package engine

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/tensaku/internal/chunker"
	"github.com/hyperjump/tensaku/internal/llm"
	"github.com/hyperjump/tensaku/internal/locator"
	"github.com/hyperjump/tensaku/internal/models"
	"github.com/hyperjump/tensaku/internal/orchestrator"
	"github.com/hyperjump/tensaku/internal/plugin"
	"github.com/hyperjump/tensaku/internal/resolver"
	"github.com/hyperjump/tensaku/internal/textindex"
)

// Options configure one engine instance. The zero value gets sensible
// defaults applied by New.
type Options struct {
	ChunkSize            int
	ChunkByParagraph     bool
	ChunkOverlap         int
	LineTolerance        int
	MaxConcurrentPlugins int

	Locator locator.Config
	Locate  locator.Options
}

// DefaultLineTolerance is how many lines around a finding's hint are
// searched before escalating to the fuzzy locator.
const DefaultLineTolerance = 2

// Engine analyzes documents with a fixed plugin set.
type Engine struct {
	opts     Options
	plugins  []plugin.Plugin
	chunker  *chunker.Chunker
	orch     *orchestrator.Orchestrator
	resolver *resolver.Resolver
	logger   *zap.Logger
}

// New creates an engine. searcher may be nil when the model-assisted
// locator fallback is disabled; logger may be nil.
func New(opts Options, plugins []plugin.Plugin, searcher llm.Searcher, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.LineTolerance == 0 {
		opts.LineTolerance = DefaultLineTolerance
	}
	loc := locator.New(opts.Locator, searcher, logger)
	return &Engine{
		opts:    opts,
		plugins: plugins,
		chunker: chunker.New(chunker.Options{
			TargetSize:  opts.ChunkSize,
			ByParagraph: opts.ChunkByParagraph,
			Overlap:     opts.ChunkOverlap,
		}),
		orch:     orchestrator.New(opts.MaxConcurrentPlugins, logger),
		resolver: resolver.New(loc, opts.LineTolerance, logger),
		logger:   logger,
	}
}

// Analyze runs every plugin over documentText and returns the anchored
// annotations, sorted by start offset, together with run statistics. An
// empty document is a structural error.
func (e *Engine) Analyze(ctx context.Context, documentText string) (*models.AnalysisResult, error) {
	if strings.TrimSpace(documentText) == "" {
		return nil, fmt.Errorf("engine: empty document")
	}
	started := time.Now()

	index, err := textindex.New(documentText)
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}
	chunks := e.chunker.Chunk(documentText)
	e.logger.Debug("document chunked",
		zap.Int("chunks", len(chunks)), zap.Int("bytes", len(documentText)))

	orchRes, err := e.orch.Run(ctx, documentText, chunks, e.plugins)
	if err != nil {
		return nil, fmt.Errorf("engine: plugin run: %w", err)
	}

	stats := models.AnalysisStats{
		TotalChunks:      len(chunks),
		CommentsByPlugin: make(map[string]int),
		TotalCost:        orchRes.TotalCost,
		PluginErrors:     orchRes.Errors(),
	}

	var annotations []*models.Annotation
	var summaries []string
resolution:
	for _, oc := range orchRes.Outcomes {
		if oc.Err != nil || oc.Result == nil {
			continue
		}
		if oc.Result.Summary != "" {
			summaries = append(summaries, oc.Result.Summary)
		}
		stats.TotalFindings += len(oc.Result.Findings)
		for _, f := range oc.Result.Findings {
			// Cancellation mid-resolution keeps what was already anchored.
			if ctx.Err() != nil {
				break resolution
			}
			ann := e.resolver.Resolve(ctx, f, oc.Plugin, index, e.opts.Locate)
			if ann == nil {
				stats.DroppedFindings++
				continue
			}
			annotations = append(annotations, ann)
			stats.CommentsByPlugin[oc.Plugin]++
		}
	}

	// Plugins settle in arbitrary order; document order makes output
	// deterministic for callers.
	sort.SliceStable(annotations, func(i, j int) bool {
		return annotations[i].Highlight.StartOffset < annotations[j].Highlight.StartOffset
	})

	stats.ProcessingTimeMs = time.Since(started).Milliseconds()

	return &models.AnalysisResult{
		Summary:     e.buildSummary(summaries, len(annotations), stats),
		Annotations: annotations,
		Stats:       stats,
	}, nil
}

func (e *Engine) buildSummary(pluginSummaries []string, annotated int, stats models.AnalysisStats) string {
	head := fmt.Sprintf("%d annotations from %d plugins", annotated, len(e.plugins))
	if n := len(stats.PluginErrors); n > 0 {
		head += fmt.Sprintf(" (%d plugin failures)", n)
	}
	if len(pluginSummaries) == 0 {
		return head
	}
	return head + ": " + strings.Join(pluginSummaries, "; ")
}
