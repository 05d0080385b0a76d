// Package plugin defines the contract analysis plugins implement.
package plugin

import (
	"context"

	"github.com/hyperjump/tensaku/internal/models"
)

// Result is what a plugin's Analyze returns: a human-readable summary, the
// findings to anchor, and the cost (in dollars) of any collaborator calls the
// plugin made.
type Result struct {
	Summary  string
	Findings []*models.Finding
	Cost     float64
}

// Plugin is one analysis agent. Implementations must be safe to run
// concurrently with other plugins over the same immutable chunk set and
// document text, and must never mutate either.
type Plugin interface {
	// Name identifies the plugin in results and stats.
	Name() string
	// ShouldRun is a cheap relevance filter: chunks for which it returns
	// false are withheld from Analyze.
	ShouldRun(chunk *models.Chunk) bool
	// Analyze inspects the chunks (and may consult the full document text for
	// global context) and reports findings. Finding line hints are 1-based
	// document line numbers and may be approximate.
	Analyze(ctx context.Context, chunks []*models.Chunk, documentText string) (*Result, error)
}
