// Package config provides configuration loading and structs for the lawdex
// server and CLI.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hanbeop/lawdex/internal/index"
	"github.com/hanbeop/lawdex/internal/models"
)

// Config holds all configuration for the application.
type Config struct {
	Debug     bool            `yaml:"debug"`
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	Index     IndexConfig     `yaml:"index"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	Analysis  AnalysisConfig  `yaml:"analysis"`
	Collector CollectorConfig `yaml:"collector"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// StorageConfig selects the corpus snapshot backend.
type StorageConfig struct {
	// Backend is "disk" (JSON snapshot file) or "sqlite".
	Backend string `yaml:"backend"`
	// SnapshotPath is the JSON snapshot location for the disk backend. It is
	// also the file the watcher observes for external updates.
	SnapshotPath string `yaml:"snapshot_path"`
	// DatabasePath is the SQLite database location for the sqlite backend.
	DatabasePath string `yaml:"database_path"`
	// WatchSnapshot reloads the engine when the snapshot file changes
	// (disk backend only).
	WatchSnapshot bool `yaml:"watch_snapshot"`
}

// IndexConfig holds relevance index settings.
type IndexConfig struct {
	// Strategy is tfidf, embedding or keyword.
	Strategy string `yaml:"strategy"`
	// MaxVocabulary bounds the tfidf vocabulary; 0 means unbounded.
	MaxVocabulary int `yaml:"max_vocabulary"`
	// Encoder selects the embedding backend: "hash" (local, deterministic)
	// or "openai".
	Encoder string `yaml:"encoder"`
	// Dimensions is the embedding width for the hash encoder.
	Dimensions int `yaml:"dimensions"`
	// EmbeddingModel overrides the openai encoder's model name.
	EmbeddingModel string `yaml:"embedding_model"`
	// CacheSize bounds the embedding LRU cache; 0 disables caching.
	CacheSize int `yaml:"cache_size"`
}

// RetrievalConfig holds result-count and chunking settings.
type RetrievalConfig struct {
	TopK         int `yaml:"top_k"`
	ExcerptRunes int `yaml:"excerpt_runes"`
	ChunkSize    int `yaml:"chunk_size"`
	ChunkOverlap int `yaml:"chunk_overlap"`
}

// AnalysisConfig holds analyzer settings.
type AnalysisConfig struct {
	// Mode is local or external.
	Mode string `yaml:"mode"`
	// Model is the chat model for the external analyzer.
	Model string `yaml:"model"`
	// BaseURL overrides the external service endpoint.
	BaseURL string `yaml:"base_url"`
	// APIKeyEnv names the environment variable holding the API key.
	APIKeyEnv string `yaml:"api_key_env"`
}

// CollectorConfig holds law portal scraper settings.
type CollectorConfig struct {
	BaseURL  string   `yaml:"base_url"`
	Keywords []string `yaml:"keywords"`
	// DelayMS is the wait between statute fetches in milliseconds.
	DelayMS int `yaml:"delay_ms"`
}

// ApplyDefaults fills unset fields with working defaults.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "127.0.0.1"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8470
	}
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = "disk"
	}
	if cfg.Storage.SnapshotPath == "" {
		cfg.Storage.SnapshotPath = "./data/fair_trade_laws.json"
	}
	if cfg.Storage.DatabasePath == "" {
		cfg.Storage.DatabasePath = "./data/lawdex.db"
	}
	if cfg.Index.Strategy == "" {
		cfg.Index.Strategy = index.StrategyTFIDF
	}
	if cfg.Index.MaxVocabulary == 0 {
		cfg.Index.MaxVocabulary = 1000
	}
	if cfg.Index.Encoder == "" {
		cfg.Index.Encoder = "hash"
	}
	if cfg.Index.Dimensions == 0 {
		cfg.Index.Dimensions = 256
	}
	if cfg.Retrieval.TopK == 0 {
		cfg.Retrieval.TopK = 5
	}
	if cfg.Retrieval.ExcerptRunes == 0 {
		cfg.Retrieval.ExcerptRunes = 400
	}
	if cfg.Retrieval.ChunkSize == 0 {
		cfg.Retrieval.ChunkSize = 200
	}
	if cfg.Retrieval.ChunkOverlap == 0 {
		cfg.Retrieval.ChunkOverlap = 40
	}
	if cfg.Analysis.Mode == "" {
		cfg.Analysis.Mode = string(models.ModeLocal)
	}
	if cfg.Analysis.APIKeyEnv == "" {
		cfg.Analysis.APIKeyEnv = "OPENAI_API_KEY"
	}
	if cfg.Collector.BaseURL == "" {
		cfg.Collector.BaseURL = "https://www.law.go.kr"
	}
	if cfg.Collector.DelayMS == 0 {
		cfg.Collector.DelayMS = 1000
	}
}

// Validate rejects values the engine cannot run with.
func (cfg *Config) Validate() error {
	switch cfg.Index.Strategy {
	case index.StrategyTFIDF, index.StrategyEmbedding, index.StrategyKeyword:
	default:
		return fmt.Errorf("unknown index strategy %q", cfg.Index.Strategy)
	}
	switch cfg.Storage.Backend {
	case "disk", "sqlite":
	default:
		return fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
	switch cfg.Analysis.Mode {
	case string(models.ModeLocal), string(models.ModeExternal):
	default:
		return fmt.Errorf("unknown analysis mode %q", cfg.Analysis.Mode)
	}
	return nil
}

// Load reads and parses the config file at path, applies defaults and
// expands storage paths relative to the config file.
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
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	configDir := filepath.Dir(path)
	cfg.Storage.SnapshotPath = expandPath(cfg.Storage.SnapshotPath, configDir)
	cfg.Storage.DatabasePath = expandPath(cfg.Storage.DatabasePath, configDir)
	return &cfg, nil
}

// Default returns the configuration used when no config file is given.
func Default() *Config {
	var cfg Config
	ApplyDefaults(&cfg)
	cfg.Storage.SnapshotPath = expandPath(cfg.Storage.SnapshotPath, ".")
	cfg.Storage.DatabasePath = expandPath(cfg.Storage.DatabasePath, ".")
	return &cfg
}

// Save writes the config to path.
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

// expandPath converts a path to absolute. Paths starting with "./" are
// relative to configDir; other relative paths are relative to the home
// directory.
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
