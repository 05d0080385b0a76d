package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  host: "127.0.0.1"
  port: 9000
storage:
  database_path: "test.db"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 9000 {
		t.Errorf("unexpected server config: %+v", cfg.Server)
	}
	if cfg.Storage.DatabasePath == "" {
		t.Error("database_path should be set")
	}
	if cfg.Debug {
		t.Error("debug should default to false when unset")
	}
}

func TestLoad_analysisSection(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
analysis:
  chunk_size: 2000
  chunk_by_paragraph: false
  plugins: ["mathcheck"]
  normalize_quotes: true
  use_llm_fallback: true
llm:
  provider: "anthropic"
  model: "claude-3-7-sonnet-latest"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Analysis.ChunkSize != 2000 {
		t.Errorf("chunk_size = %d", cfg.Analysis.ChunkSize)
	}
	if cfg.Analysis.ChunkByParagraphOrDefault() {
		t.Error("chunk_by_paragraph: explicit false was overridden")
	}
	if len(cfg.Analysis.Plugins) != 1 || cfg.Analysis.Plugins[0] != "mathcheck" {
		t.Errorf("plugins = %v", cfg.Analysis.Plugins)
	}
	if !cfg.Analysis.NormalizeQuotes || !cfg.Analysis.UseLLMFallback {
		t.Errorf("locator flags not read: %+v", cfg.Analysis)
	}
	if cfg.LLM.Provider != "anthropic" {
		t.Errorf("llm provider = %s", cfg.LLM.Provider)
	}
	if cfg.LLM.MaxTokens != 1024 {
		t.Errorf("llm max_tokens default = %d, want 1024", cfg.LLM.MaxTokens)
	}
}

func TestLoad_expandPathDotSlashRelativeToConfigDir(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  host: "localhost"
  port: 8080
storage:
  database_path: "./data/db/documents.db"
watch:
  directories: ["./dev/sample"]
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	wantDB := filepath.Join(dir, "data", "db", "documents.db")
	if cfg.Storage.DatabasePath != wantDB {
		t.Errorf("database_path = %s, want %s", cfg.Storage.DatabasePath, wantDB)
	}
	if len(cfg.Watch.Directories) != 1 {
		t.Fatalf("watch directories: got %d", len(cfg.Watch.Directories))
	}
	wantWatch := filepath.Join(dir, "dev", "sample")
	if cfg.Watch.Directories[0] != wantWatch {
		t.Errorf("watch directory = %s, want %s", cfg.Watch.Directories[0], wantWatch)
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)
	if cfg.Server.Host != "localhost" {
		t.Errorf("default host: got %s", cfg.Server.Host)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("default port: got %d", cfg.Server.Port)
	}
	if cfg.Analysis.ChunkSize != 4000 {
		t.Errorf("default chunk_size: got %d", cfg.Analysis.ChunkSize)
	}
	if cfg.Analysis.LineTolerance != 2 {
		t.Errorf("default line_tolerance: got %d", cfg.Analysis.LineTolerance)
	}
	if cfg.Analysis.MaxConcurrentPlugins != 4 {
		t.Errorf("default max_concurrent_plugins: got %d", cfg.Analysis.MaxConcurrentPlugins)
	}
	if len(cfg.Analysis.Plugins) != 2 {
		t.Errorf("default plugins: got %v", cfg.Analysis.Plugins)
	}
	if !cfg.Analysis.ChunkByParagraphOrDefault() {
		t.Error("chunk_by_paragraph should default to true")
	}
	if cfg.Analysis.WindowMinScore != 0.35 || cfg.Analysis.FuzzyFloor != 0.4 {
		t.Errorf("default similarity cutoffs: %+v", cfg.Analysis)
	}
	if cfg.LLM.Provider != "openai" {
		t.Errorf("default llm provider: got %s", cfg.LLM.Provider)
	}
	if cfg.Watch.Extensions == nil {
		t.Error("watch extensions should be set by default")
	}
	if len(cfg.Watch.Extensions) != 8 || cfg.Watch.Extensions[0] != ".txt" {
		t.Errorf("watch extensions: got %v", cfg.Watch.Extensions)
	}
}

func TestApplyDefaults_WatchRecursiveWhenDirectoriesSet(t *testing.T) {
	cfg := &Config{Watch: WatchConfig{Directories: []string{"/tmp/docs"}}}
	ApplyDefaults(cfg)
	if cfg.Watch.Recursive == nil || !*cfg.Watch.Recursive {
		t.Error("recursive should default to true when directories are set")
	}
}

func TestWatchConfig_RecursiveOrDefault(t *testing.T) {
	t.Run("nil_returns_true", func(t *testing.T) {
		w := &WatchConfig{}
		if got := w.RecursiveOrDefault(); !got {
			t.Errorf("RecursiveOrDefault() = %v, want true", got)
		}
	})
	t.Run("true_returns_true", func(t *testing.T) {
		v := true
		w := &WatchConfig{Recursive: &v}
		if got := w.RecursiveOrDefault(); !got {
			t.Errorf("RecursiveOrDefault() = %v, want true", got)
		}
	})
	t.Run("false_returns_false", func(t *testing.T) {
		f := false
		w := &WatchConfig{Recursive: &f}
		if got := w.RecursiveOrDefault(); got {
			t.Errorf("RecursiveOrDefault() = %v, want false", got)
		}
	})
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "saved.yaml")
	cfg := &Config{
		Server:  ServerConfig{Host: "localhost", Port: 9090},
		Storage: StorageConfig{DatabasePath: "/tmp/db"},
	}
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Server.Port != 9090 {
		t.Errorf("loaded port: got %d", loaded.Server.Port)
	}
}
