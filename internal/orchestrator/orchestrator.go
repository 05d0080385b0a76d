// Package orchestrator fans a chunked document out to analysis plugins.
//
// Every plugin runs in its own goroutine against the same immutable chunk
// set and document text. A plugin failing, or panicking, never disturbs the
// others: its outcome carries the error and zero findings while the rest
// contribute normally.
package orchestrator

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/hyperjump/tensaku/internal/models"
	"github.com/hyperjump/tensaku/internal/plugin"
)

// Outcome is the result of running a single plugin.
type Outcome struct {
	Plugin   string
	Result   *plugin.Result
	Err      error
	Skipped  bool
	Duration time.Duration
}

// Result aggregates all plugin outcomes for one document.
type Result struct {
	// Outcomes is ordered like the plugin list passed to Run, regardless of
	// completion order.
	Outcomes  []Outcome
	TotalCost float64
	Duration  time.Duration
}

// Errors collects the failures recorded across outcomes.
func (r *Result) Errors() []models.PluginError {
	var errs []models.PluginError
	for _, o := range r.Outcomes {
		if o.Err != nil {
			errs = append(errs, models.PluginError{Plugin: o.Plugin, Message: o.Err.Error()})
		}
	}
	return errs
}

// Orchestrator runs plugins concurrently with a bounded degree of
// parallelism.
type Orchestrator struct {
	maxConcurrent int64
	logger        *zap.Logger
}

// New creates an orchestrator. maxConcurrent <= 0 means one goroutine per
// plugin with no cap. logger may be nil.
func New(maxConcurrent int, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{maxConcurrent: int64(maxConcurrent), logger: logger}
}

// Run invokes every plugin over the chunk set and waits for all of them to
// settle. Chunks are filtered per plugin through ShouldRun; a plugin with no
// relevant chunks is skipped without being invoked. If ctx is cancelled
// before the plugins settle, Run returns the context error and in-flight
// plugins are abandoned.
func (o *Orchestrator) Run(ctx context.Context, documentText string, chunks []*models.Chunk, plugins []plugin.Plugin) (*Result, error) {
	if len(plugins) == 0 {
		return &Result{}, nil
	}

	started := time.Now()
	outcomes := make([]Outcome, len(plugins))

	limit := o.maxConcurrent
	if limit <= 0 {
		limit = int64(len(plugins))
	}
	sem := semaphore.NewWeighted(limit)

	done := make(chan struct{})
	go func() {
		defer close(done)
		inner := make(chan int, len(plugins))
		for i, p := range plugins {
			go func(i int, p plugin.Plugin) {
				defer func() { inner <- i }()
				outcomes[i] = o.runOne(ctx, sem, p, documentText, chunks)
			}(i, p)
		}
		for range plugins {
			<-inner
		}
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	result := &Result{Outcomes: outcomes, Duration: time.Since(started)}
	for _, oc := range outcomes {
		if oc.Result != nil {
			result.TotalCost += oc.Result.Cost
		}
		switch {
		case oc.Err != nil:
			o.logger.Warn("plugin failed",
				zap.String("plugin", oc.Plugin), zap.Error(oc.Err))
		case oc.Skipped:
			o.logger.Debug("plugin skipped, no relevant chunks",
				zap.String("plugin", oc.Plugin))
		default:
			o.logger.Debug("plugin complete",
				zap.String("plugin", oc.Plugin),
				zap.Int("findings", len(oc.Result.Findings)),
				zap.Duration("duration", oc.Duration))
		}
	}
	return result, nil
}

func (o *Orchestrator) runOne(ctx context.Context, sem *semaphore.Weighted, p plugin.Plugin, documentText string, chunks []*models.Chunk) (out Outcome) {
	out.Plugin = p.Name()
	started := time.Now()
	defer func() {
		out.Duration = time.Since(started)
		if r := recover(); r != nil {
			out.Result = nil
			out.Err = fmt.Errorf("plugin panicked: %v", r)
		}
	}()

	if err := sem.Acquire(ctx, 1); err != nil {
		out.Err = err
		return out
	}
	defer sem.Release(1)

	relevant := make([]*models.Chunk, 0, len(chunks))
	for _, c := range chunks {
		if p.ShouldRun(c) {
			relevant = append(relevant, c)
		}
	}
	if len(relevant) == 0 {
		out.Skipped = true
		out.Result = &plugin.Result{}
		return out
	}

	res, err := p.Analyze(ctx, relevant, documentText)
	if err != nil {
		out.Err = err
		return out
	}
	if res == nil {
		res = &plugin.Result{}
	}
	out.Result = res
	return out
}
