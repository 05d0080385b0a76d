// Package registry assembles analysis plugins by name.
package registry

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/hyperjump/tensaku/internal/plugin"
	"github.com/hyperjump/tensaku/internal/plugin/mathcheck"
	"github.com/hyperjump/tensaku/internal/plugin/spellcheck"
)

// Available returns the names of all known plugins.
func Available() []string {
	return []string{"mathcheck", "spellcheck"}
}

// Build constructs the named plugins. Unknown names are an error so a
// misspelled config entry fails loudly instead of silently analyzing less.
func Build(names []string, logger *zap.Logger) ([]plugin.Plugin, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	plugins := make([]plugin.Plugin, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		switch name {
		case "mathcheck":
			plugins = append(plugins, mathcheck.New(logger))
		case "spellcheck":
			plugins = append(plugins, spellcheck.New(logger))
		default:
			return nil, fmt.Errorf("unknown plugin: %q", name)
		}
	}
	return plugins, nil
}
