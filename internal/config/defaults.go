package config

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Storage.DatabasePath == "" {
		cfg.Storage.DatabasePath = "/usr/local/var/tensaku/data/db/documents.db"
	}
	if cfg.Analysis.ChunkSize == 0 {
		cfg.Analysis.ChunkSize = 4000
	}
	if cfg.Analysis.LineTolerance == 0 {
		cfg.Analysis.LineTolerance = 2
	}
	if cfg.Analysis.MaxConcurrentPlugins == 0 {
		cfg.Analysis.MaxConcurrentPlugins = 4
	}
	if cfg.Analysis.Plugins == nil {
		cfg.Analysis.Plugins = []string{"mathcheck", "spellcheck"}
	}
	if cfg.Analysis.WindowMinScore == 0 {
		cfg.Analysis.WindowMinScore = 0.35
	}
	if cfg.Analysis.FuzzyFloor == 0 {
		cfg.Analysis.FuzzyFloor = 0.4
	}
	if cfg.Analysis.CacheSize == 0 {
		cfg.Analysis.CacheSize = 256
	}
	// ChunkByParagraph defaults to true when unset (nil).
	if cfg.Analysis.ChunkByParagraph == nil {
		t := true
		cfg.Analysis.ChunkByParagraph = &t
	}
	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = "openai"
	}
	if cfg.LLM.MaxTokens == 0 {
		cfg.LLM.MaxTokens = 1024
	}
	if cfg.Watch.Extensions == nil {
		cfg.Watch.Extensions = []string{".txt", ".md", ".rst", ".pdf", ".docx", ".xlsx", ".odt", ".rtf"}
	}
	// Recursive defaults to true when unset (nil).
	if len(cfg.Watch.Directories) > 0 && cfg.Watch.Recursive == nil {
		t := true
		cfg.Watch.Recursive = &t
	}
}
