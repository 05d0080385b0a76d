// Package config provides configuration loading and structs for the Tensaku server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug    bool           `yaml:"debug"`
	Server   ServerConfig   `yaml:"server"`
	Storage  StorageConfig  `yaml:"storage"`
	Analysis AnalysisConfig `yaml:"analysis"`
	LLM      LLMConfig      `yaml:"llm"`
	Watch    WatchConfig    `yaml:"watch"`
}

// WatchConfig holds directory watch settings.
type WatchConfig struct {
	Directories []string `yaml:"directories"`
	Extensions  []string `yaml:"extensions"`
	Recursive   *bool    `yaml:"recursive"`
}

// RecursiveOrDefault returns whether to watch recursively; defaults to true when unset.
func (w *WatchConfig) RecursiveOrDefault() bool {
	if w.Recursive != nil {
		return *w.Recursive
	}
	return true
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// StorageConfig holds the database path.
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// AnalysisConfig holds chunking, plugin, and locator settings.
type AnalysisConfig struct {
	ChunkSize            int      `yaml:"chunk_size"`
	ChunkByParagraph     *bool    `yaml:"chunk_by_paragraph"`
	ChunkOverlap         int      `yaml:"chunk_overlap"`
	LineTolerance        int      `yaml:"line_tolerance"`
	MaxConcurrentPlugins int      `yaml:"max_concurrent_plugins"`
	Plugins              []string `yaml:"plugins"`

	NormalizeQuotes    bool `yaml:"normalize_quotes"`
	PartialMatch       bool `yaml:"partial_match"`
	UseLLMFallback     bool `yaml:"use_llm_fallback"`
	IncludeExplanation bool `yaml:"include_explanation"`

	// Similarity cutoffs for the fuzzy location strategies. Tuned
	// empirically; zero values fall back to the built-in defaults.
	WindowMinScore float64 `yaml:"window_min_score"`
	FuzzyFloor     float64 `yaml:"fuzzy_floor"`
	CacheSize      int     `yaml:"cache_size"`
}

// ChunkByParagraphOrDefault returns whether chunking prefers paragraph
// boundaries; defaults to true when unset.
func (a *AnalysisConfig) ChunkByParagraphOrDefault() bool {
	if a.ChunkByParagraph != nil {
		return *a.ChunkByParagraph
	}
	return true
}

// LLMConfig holds settings for the model-assisted location fallback.
type LLMConfig struct {
	Provider  string `yaml:"provider"`
	Model     string `yaml:"model"`
	MaxTokens int    `yaml:"max_tokens"`
}

// Load reads and parses the config file at path, expands paths, and applies defaults.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	cfg.Storage.DatabasePath = expandPath(cfg.Storage.DatabasePath, configDir)
	for i := range cfg.Watch.Directories {
		cfg.Watch.Directories[i] = expandPath(cfg.Watch.Directories[i], configDir)
	}

	return &cfg, nil
}

// Save writes the config to path. Used for persisting watch directory add/remove.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
