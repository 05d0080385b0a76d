package main

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/hyperjump/tensaku/internal/config"
)

func TestArgsReorder(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected []string
	}{
		{
			name:     "flags after file are moved first",
			args:     []string{"essay.txt", "-output", "json"},
			expected: []string{"-output", "json", "essay.txt"},
		},
		{
			name:     "flags first returns unchanged",
			args:     []string{"-output", "json", "essay.txt"},
			expected: []string{"-output", "json", "essay.txt"},
		},
		{
			name:     "file only returns unchanged",
			args:     []string{"essay.txt"},
			expected: []string{"essay.txt"},
		},
		{
			name:     "empty args returns unchanged",
			args:     []string{},
			expected: []string{},
		},
		{
			name:     "stdin dash is not a flag",
			args:     []string{"-", "-output", "json"},
			expected: []string{"-output", "json", "-"},
		},
		{
			name:     "multiple positionals then flags",
			args:     []string{"one.txt", "two.txt", "-plugins", "spellcheck"},
			expected: []string{"-plugins", "spellcheck", "one.txt", "two.txt"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := argsReorder(tt.args)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("argsReorder() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestSplitPluginList(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"single", "spellcheck", []string{"spellcheck"}},
		{"two", "spellcheck,mathcheck", []string{"spellcheck", "mathcheck"}},
		{"spaces", " spellcheck , mathcheck ", []string{"spellcheck", "mathcheck"}},
		{"trailing comma", "spellcheck,", []string{"spellcheck"}},
		{"empty", "", nil},
		{"only commas", ",,", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitPluginList(tt.input)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("splitPluginList(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestLoadConfig_prefersCwdConfigWhenDefaultPath(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	content := `
debug: true
server:
  host: "localhost"
  port: 8080
storage:
  database_path: "test.db"
`
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	origWd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.Chdir(origWd) }()
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, err := loadConfig(defaultConfigPath)
	if err != nil {
		t.Fatal(err)
	}
	// On macOS, cwd can be /private/var/... while configPath from t.TempDir() is /var/...; compare canonical paths.
	resolvedCanon, _ := filepath.EvalSymlinks(resolved)
	configPathCanon, _ := filepath.EvalSymlinks(configPath)
	if resolvedCanon != configPathCanon {
		t.Errorf("resolved path = %s (canon %s), want %s (canon %s)", resolved, resolvedCanon, configPath, configPathCanon)
	}
	if !cfg.Debug {
		t.Error("debug should be true from cwd config.yaml")
	}
}

func TestLoadConfig_usesExplicitPath(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	content := `
server:
  host: "127.0.0.1"
  port: 9000
storage:
  database_path: "test.db"
`
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, err := loadConfig(configPath)
	if err != nil {
		t.Fatal(err)
	}
	if resolved != configPath {
		t.Errorf("resolved path = %s, want %s", resolved, configPath)
	}
	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 9000 {
		t.Errorf("unexpected server config: %+v", cfg.Server)
	}
}

func TestLocatorConfigFromAnalysis(t *testing.T) {
	cfg, _, err := loadConfigFromLiteral(t, `
analysis:
  window_min_score: 0.5
  fuzzy_floor: 0.45
`)
	if err != nil {
		t.Fatal(err)
	}
	lc := locatorConfigFromAnalysis(&cfg.Analysis)
	if lc.WindowMinScore != 0.5 {
		t.Errorf("WindowMinScore = %f, want 0.5", lc.WindowMinScore)
	}
	if lc.FuzzyFloor != 0.45 {
		t.Errorf("FuzzyFloor = %f, want 0.45", lc.FuzzyFloor)
	}
	// Unset fields keep built-in defaults
	if lc.ShortTargetLen != 30 {
		t.Errorf("ShortTargetLen = %d, want 30", lc.ShortTargetLen)
	}
}

func TestLocateOptionsFromAnalysis(t *testing.T) {
	cfg, _, err := loadConfigFromLiteral(t, `
analysis:
  normalize_quotes: true
  partial_match: true
`)
	if err != nil {
		t.Fatal(err)
	}
	opts := locateOptionsFromAnalysis(&cfg.Analysis)
	if !opts.NormalizeQuotes || !opts.PartialMatch {
		t.Errorf("expected normalize_quotes and partial_match enabled, got %+v", opts)
	}
	if opts.UseLLMFallback {
		t.Error("use_llm_fallback should default to false")
	}
}

func loadConfigFromLiteral(t *testing.T, yaml string) (cfg *config.Config, path string, err error) {
	t.Helper()
	dir := t.TempDir()
	p := filepath.Join(dir, "config.yaml")
	if werr := os.WriteFile(p, []byte(yaml), 0600); werr != nil {
		t.Fatal(werr)
	}
	c, resolved, lerr := loadConfig(p)
	return c, resolved, lerr
}
