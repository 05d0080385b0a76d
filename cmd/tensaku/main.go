// Package main is the Tensaku CLI entry point.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hyperjump/tensaku/internal/cli"
	"github.com/hyperjump/tensaku/internal/config"
	"github.com/hyperjump/tensaku/internal/engine"
	"github.com/hyperjump/tensaku/internal/extract"
	"github.com/hyperjump/tensaku/internal/fileid"
	"github.com/hyperjump/tensaku/internal/llm"
	"github.com/hyperjump/tensaku/internal/locator"
	"github.com/hyperjump/tensaku/internal/models"
	"github.com/hyperjump/tensaku/internal/plugin/registry"
	"github.com/hyperjump/tensaku/internal/server"
	"github.com/hyperjump/tensaku/internal/storage"
	"github.com/hyperjump/tensaku/internal/watcher"
	"github.com/hyperjump/tensaku/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/tensaku/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks for
// config.yaml in the current directory (for development); if that exists it is used,
// so that "tensaku server" from the project dir uses the project's config (including debug).
// Returns the config and the path that was actually loaded (for saving, etc.).
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "analyze":
		runAnalyze()
	case "locate":
		runLocate()
	case "watch":
		runWatch()
	case "status":
		runStatus()
	case "version", "--version", "-v":
		fmt.Printf("tensaku version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

// locatorConfigFromAnalysis builds a locator config from the analysis section,
// keeping built-in defaults for anything unset.
func locatorConfigFromAnalysis(a *config.AnalysisConfig) locator.Config {
	cfg := locator.DefaultConfig()
	if a.WindowMinScore > 0 {
		cfg.WindowMinScore = a.WindowMinScore
	}
	if a.FuzzyFloor > 0 {
		cfg.FuzzyFloor = a.FuzzyFloor
	}
	if a.CacheSize > 0 {
		cfg.CacheSize = a.CacheSize
	}
	return cfg
}

// locateOptionsFromAnalysis builds the per-call matching switches from config.
func locateOptionsFromAnalysis(a *config.AnalysisConfig) locator.Options {
	return locator.Options{
		NormalizeQuotes:    a.NormalizeQuotes,
		PartialMatch:       a.PartialMatch,
		UseLLMFallback:     a.UseLLMFallback,
		IncludeExplanation: a.IncludeExplanation,
	}
}

// buildSearcher creates the model-assisted locator fallback when enabled.
// Returns nil (no fallback) when disabled.
func buildSearcher(cfg *config.Config, logger *zap.Logger) llm.Searcher {
	if !cfg.Analysis.UseLLMFallback {
		return nil
	}
	searcher, err := llm.NewSearcher(llm.Config{
		Provider:  cfg.LLM.Provider,
		Model:     cfg.LLM.Model,
		MaxTokens: cfg.LLM.MaxTokens,
	})
	if err != nil {
		logger.Warn("llm fallback disabled", zap.Error(err))
		return nil
	}
	return searcher
}

// buildEngine assembles the analysis engine from config.
func buildEngine(cfg *config.Config, logger *zap.Logger) (*engine.Engine, error) {
	plugins, err := registry.Build(cfg.Analysis.Plugins, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build plugins: %w", err)
	}
	opts := engine.Options{
		ChunkSize:            cfg.Analysis.ChunkSize,
		ChunkByParagraph:     cfg.Analysis.ChunkByParagraphOrDefault(),
		ChunkOverlap:         cfg.Analysis.ChunkOverlap,
		LineTolerance:        cfg.Analysis.LineTolerance,
		MaxConcurrentPlugins: cfg.Analysis.MaxConcurrentPlugins,
		Locator:              locatorConfigFromAnalysis(&cfg.Analysis),
		Locate:               locateOptionsFromAnalysis(&cfg.Analysis),
	}
	return engine.New(opts, plugins, buildSearcher(cfg, logger), logger), nil
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging (directory changes, file analysis, etc.)")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	store, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
	if err != nil {
		logger.Fatal("Failed to initialize storage", zap.Error(err))
	}
	defer store.Close()

	eng, err := buildEngine(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize engine", zap.Error(err))
	}

	extractor := extract.NewExtractor()
	watchOpts := []watcher.Option{}
	if debugMode {
		watchOpts = append(watchOpts, watcher.WithLogger(logger))
	}
	watchSvc := watcher.New(
		cfg.Watch.Directories,
		cfg.Watch.Extensions,
		cfg.Watch.RecursiveOrDefault(),
		func(path string) {
			if err := analyzeWatchedFile(context.Background(), path, extractor, store, eng); err != nil {
				logger.Warn("watch analyze failed", zap.String("path", path), zap.Error(err))
			}
		},
		func(path string) {
			if err := store.DeleteDocument(context.Background(), fileid.FileDocID(path)); err != nil {
				logger.Warn("watch delete by path failed", zap.String("path", path), zap.Error(err))
			}
		},
		watchOpts...,
	)
	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	if err := watchSvc.Start(watchCtx); err != nil {
		logger.Fatal("Failed to start watcher", zap.Error(err))
	}
	watchSvc.SyncExistingFiles()

	srv := server.NewServer(eng, store, cfg, logger,
		server.WithWatcher(watchSvc),
		server.WithConfigPersistence(resolvedConfigPath),
	)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	watchCancel()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

// analyzeWatchedFile extracts a changed file, upserts it as a document, and
// stores a fresh evaluation for it. Earlier evaluations for the same file are
// replaced so the latest one reflects the file on disk.
func analyzeWatchedFile(ctx context.Context, path string, extractor *extract.Extractor, store storage.Storage, eng *engine.Engine) error {
	text, err := extractor.Extract(path)
	if err != nil {
		return fmt.Errorf("extract: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return nil
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}
	docID := fileid.FileDocID(absPath)
	doc := &models.Document{
		ID:      docID,
		Title:   filepath.Base(path),
		Content: text,
		Metadata: map[string]interface{}{
			"source_path": absPath,
		},
	}
	if _, getErr := store.GetDocument(ctx, docID); getErr == nil {
		if err := store.UpdateDocument(ctx, doc); err != nil {
			return fmt.Errorf("update document: %w", err)
		}
	} else {
		if err := store.CreateDocument(ctx, doc); err != nil {
			return fmt.Errorf("create document: %w", err)
		}
	}

	result, err := eng.Analyze(ctx, text)
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}
	if err := store.DeleteEvaluationsByDocument(ctx, docID); err != nil {
		return fmt.Errorf("clear evaluations: %w", err)
	}
	eval := &models.Evaluation{
		ID:          uuid.New().String(),
		DocumentID:  docID,
		Summary:     result.Summary,
		Annotations: result.Annotations,
		Stats:       result.Stats,
	}
	if err := store.CreateEvaluation(ctx, eval); err != nil {
		return fmt.Errorf("store evaluation: %w", err)
	}
	return nil
}

// printAnalyzeUsage prints analyze subcommand usage.
func printAnalyzeUsage(fs *flag.FlagSet) {
	fmt.Fprintf(fs.Output(), "Usage: tensaku analyze [flags] <file>\n\n")
	fmt.Fprintf(fs.Output(), "Runs every configured plugin over the file and prints the anchored annotations.\n")
	fmt.Fprintf(fs.Output(), "Use \"-\" as the file to read plain text from stdin.\n\n")
	fs.PrintDefaults()
	fmt.Fprintf(fs.Output(), `
Examples:
  tensaku analyze essay.txt
  tensaku analyze --output json report.docx
  tensaku analyze --plugins spellcheck draft.md
  cat notes.txt | tensaku analyze -
`)
}

// argsReorder moves any flags (and their values) that appear after positional
// arguments to the front of the slice so that flag.Parse() sees them. Go's
// flag package stops at the first non-flag argument, so "tensaku analyze
// essay.txt -output json" would otherwise leave -output unparsed.
func argsReorder(args []string) []string {
	for i, a := range args {
		if len(a) > 1 && a[0] == '-' {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
}

// splitPluginList parses a comma-separated plugin list, dropping blanks.
func splitPluginList(s string) []string {
	var names []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			names = append(names, part)
		}
	}
	return names
}

// readAnalyzeInput reads the document text for the analyze and locate
// subcommands. "-" reads plain text from stdin; anything else goes through
// the format-aware extractor.
func readAnalyzeInput(path string, extractor *extract.Extractor) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	return extractor.Extract(path)
}

func runAnalyze() {
	analyzeArgs := argsReorder(os.Args[2:])

	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	outputFormat := fs.String("output", "text", "output format: text (human-readable) or json (parseable)")
	pluginList := fs.String("plugins", "", "comma-separated plugin names (default: from config)")
	fs.Usage = func() { printAnalyzeUsage(fs) }
	_ = fs.Parse(analyzeArgs)

	if fs.NArg() < 1 {
		printAnalyzeUsage(fs)
		os.Exit(1)
	}
	path := fs.Arg(0)

	format := cli.OutputText
	switch *outputFormat {
	case "json":
		format = cli.OutputJSON
	case "text":
		format = cli.OutputText
	default:
		fmt.Printf("Unknown output format %q; use text or json\n", *outputFormat)
		os.Exit(1)
	}

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *pluginList != "" {
		cfg.Analysis.Plugins = splitPluginList(*pluginList)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	eng, err := buildEngine(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize engine: %v\n", err)
		os.Exit(1)
	}

	text, err := readAnalyzeInput(path, extract.NewExtractor())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read document: %v\n", err)
		os.Exit(1)
	}

	result, err := eng.Analyze(context.Background(), text)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Analysis failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteAnalysisResult(os.Stdout, result, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func runLocate() {
	locateArgs := argsReorder(os.Args[2:])

	fs := flag.NewFlagSet("locate", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	target := fs.String("target", "", "text snippet to locate (required)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(locateArgs)

	if *target == "" || fs.NArg() < 1 {
		fmt.Println("Usage: tensaku locate --target \"snippet\" <file>")
		os.Exit(1)
	}
	path := fs.Arg(0)

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	text, err := readAnalyzeInput(path, extract.NewExtractor())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read document: %v\n", err)
		os.Exit(1)
	}

	loc := locator.New(locatorConfigFromAnalysis(&cfg.Analysis), buildSearcher(cfg, logger), logger)
	span := loc.Locate(context.Background(), *target, text, locateOptionsFromAnalysis(&cfg.Analysis))
	if span == nil {
		fmt.Println("Not found")
		os.Exit(1)
	}
	switch *outputFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(span); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
	default:
		fmt.Printf("Found at %d-%d via %s (confidence %.2f)\n",
			span.StartOffset, span.EndOffset, span.Strategy, span.Confidence)
		fmt.Printf("%q\n", cli.Truncate(span.MatchedText, 200))
	}
}

// statusConfigResponse holds configuration info returned by status.
type statusConfigResponse struct {
	Plugins        []string `json:"plugins"`
	ChunkSize      int      `json:"chunk_size,omitempty"`
	ChunkOverlap   int      `json:"chunk_overlap,omitempty"`
	LineTolerance  int      `json:"line_tolerance,omitempty"`
	UseLLMFallback bool     `json:"use_llm_fallback,omitempty"`
	DatabasePath   string   `json:"database_path,omitempty"`
}

// statusResponse is the shape of GET /api/v1/status response.
type statusResponse struct {
	Documents      int64                 `json:"documents"`
	Evaluations    int64                 `json:"evaluations"`
	DiskUsageBytes *int64                `json:"disk_usage_bytes,omitempty"`
	Config         *statusConfigResponse `json:"config,omitempty"`
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", "http://localhost:8080", "server URL (empty = use direct storage)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	var status statusResponse
	if *serverURL != "" {
		res, err := statusViaHTTP(*serverURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Status failed: %v\n", err)
			os.Exit(1)
		}
		status = *res
	} else {
		cfg, _, err := loadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
			os.Exit(1)
		}
		store, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open storage: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()
		ctx := context.Background()
		docCount, err := store.CountDocuments(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Count documents failed: %v\n", err)
			os.Exit(1)
		}
		evalCount, err := store.CountEvaluations(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Count evaluations failed: %v\n", err)
			os.Exit(1)
		}
		status = statusResponse{
			Documents:   docCount,
			Evaluations: evalCount,
			Config: &statusConfigResponse{
				Plugins:        cfg.Analysis.Plugins,
				ChunkSize:      cfg.Analysis.ChunkSize,
				ChunkOverlap:   cfg.Analysis.ChunkOverlap,
				LineTolerance:  cfg.Analysis.LineTolerance,
				UseLLMFallback: cfg.Analysis.UseLLMFallback,
				DatabasePath:   cfg.Storage.DatabasePath,
			},
		}
		diskBytes, err := storage.DiskUsageBytes(cfg.Storage.DatabasePath)
		if err == nil {
			status.DiskUsageBytes = &diskBytes
		}
	}

	switch *outputFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(status); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
	case "text":
		fmt.Printf("documents:          %d   # count of stored documents\n", status.Documents)
		fmt.Printf("evaluations:        %d   # count of stored analysis runs\n", status.Evaluations)
		if status.DiskUsageBytes != nil {
			fmt.Printf("disk_usage_bytes:   %d   # storage on disk\n", *status.DiskUsageBytes)
		}
		if status.Config != nil {
			fmt.Println()
			fmt.Println("# configuration")
			fmt.Printf("plugins:            %s\n", strings.Join(status.Config.Plugins, ", "))
			if status.Config.ChunkSize > 0 {
				fmt.Printf("chunk_size:         %d\n", status.Config.ChunkSize)
			}
			if status.Config.ChunkOverlap > 0 {
				fmt.Printf("chunk_overlap:      %d\n", status.Config.ChunkOverlap)
			}
			if status.Config.LineTolerance > 0 {
				fmt.Printf("line_tolerance:     %d\n", status.Config.LineTolerance)
			}
			fmt.Printf("use_llm_fallback:   %t\n", status.Config.UseLLMFallback)
			if status.Config.DatabasePath != "" {
				fmt.Printf("database_path:      %s\n", status.Config.DatabasePath)
			}
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown output format %q; use text or json\n", *outputFormat)
		os.Exit(1)
	}
}

func statusViaHTTP(serverURL string) (*statusResponse, error) {
	resp, err := http.Get(serverURL + "/api/v1/status")
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var s statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &s, nil
}

func runWatch() {
	if len(os.Args) < 3 {
		fmt.Println("Usage: tensaku watch <add|remove|list> [path]")
		fmt.Println("  tensaku watch add <path>     Add directory to watch")
		fmt.Println("  tensaku watch remove <path>  Remove directory from watch")
		fmt.Println("  tensaku watch list           List watched directories")
		os.Exit(1)
	}
	sub := os.Args[2]
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	serverURL := fs.String("server", "http://localhost:8080", "server URL")
	_ = fs.Parse(os.Args[3:])
	switch sub {
	case "add":
		if fs.NArg() < 1 {
			fmt.Println("Usage: tensaku watch add <path>")
			os.Exit(1)
		}
		path, _ := filepath.Abs(fs.Arg(0))
		body, _ := json.Marshal(map[string]interface{}{"path": path, "sync": true})
		resp, err := http.Post(*serverURL+"/api/v1/watch/directories", "application/json", bytes.NewReader(body))
		if err != nil {
			fmt.Printf("Request failed: %v\n", err)
			os.Exit(1)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusCreated {
			b, _ := io.ReadAll(resp.Body)
			fmt.Printf("Add failed (%d): %s\n", resp.StatusCode, string(b))
			os.Exit(1)
		}
		fmt.Printf("Added: %s\n", path)
	case "remove":
		if fs.NArg() < 1 {
			fmt.Println("Usage: tensaku watch remove <path>")
			os.Exit(1)
		}
		path, _ := filepath.Abs(fs.Arg(0))
		req, _ := http.NewRequest(http.MethodDelete, *serverURL+"/api/v1/watch/directories?path="+url.QueryEscape(path), nil)
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			fmt.Printf("Request failed: %v\n", err)
			os.Exit(1)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			b, _ := io.ReadAll(resp.Body)
			fmt.Printf("Remove failed (%d): %s\n", resp.StatusCode, string(b))
			os.Exit(1)
		}
		fmt.Printf("Removed: %s\n", path)
	case "list":
		resp, err := http.Get(*serverURL + "/api/v1/watch/directories")
		if err != nil {
			fmt.Printf("Request failed: %v\n", err)
			os.Exit(1)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			b, _ := io.ReadAll(resp.Body)
			fmt.Printf("List failed (%d): %s\n", resp.StatusCode, string(b))
			os.Exit(1)
		}
		var out struct {
			Directories []string `json:"directories"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			fmt.Printf("Parse failed: %v\n", err)
			os.Exit(1)
		}
		for _, d := range out.Directories {
			fmt.Println(d)
		}
	default:
		fmt.Printf("Unknown watch subcommand: %s\n", sub)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`tensaku - Document analysis and annotation engine

Usage:
  tensaku server [flags]             Start the HTTP server
  tensaku analyze [flags] <file>     Analyze a document and print annotations
  tensaku locate [flags] <file>      Locate a text snippet in a document
  tensaku status [flags]             Show storage and configuration status
  tensaku watch <add|remove|list>    Manage watched directories
  tensaku version                    Show version
  tensaku help                       Show this help

Server Flags:
  --config string    Config file path (default: /usr/local/etc/tensaku/config.yaml)
  --debug            Enable debug logging (directory changes, file analysis, etc.)

Analyze Flags:
  --config string    Config file path
  --output string    Output format: text or json (default: text)
  --plugins string   Comma-separated plugin names (default: from config)

Locate Flags:
  --config string    Config file path
  --target string    Text snippet to locate (required)
  --output string    Output format: text or json (default: text)

Status Flags:
  --config string    Config file path (for direct storage mode)
  --server string    Server URL (default: http://localhost:8080). Use empty (--server "") for direct storage.
  --output string    Output format: text or json (default: text)

Watch Flags:
  --server string    Server URL (default: http://localhost:8080)

Examples:
  tensaku server
  tensaku analyze essay.txt
  tensaku analyze --output json report.docx
  tensaku locate --target "the results were conclusive" essay.txt
  tensaku status
  tensaku status --output json
  tensaku watch add /path/to/docs
  tensaku watch list`)
}
