// Package config provides configuration loading and structs for the kode server.
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
	Debug     bool            `yaml:"debug"`
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Expander  ExpanderConfig  `yaml:"expander"`
	Recommend RecommendConfig `yaml:"recommend"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// StorageConfig holds the product database path.
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// CatalogConfig holds catalog seed settings. SeedPath points at a JSON or
// XLSX product file loaded into the store at startup; when Watch is true
// the file is watched and reloaded on change.
type CatalogConfig struct {
	SeedPath string `yaml:"seed_path"`
	Watch    bool   `yaml:"watch"`
}

// ExpanderConfig holds natural-language service settings for keyword expansion.
type ExpanderConfig struct {
	BaseURL        string `yaml:"base_url"`
	APIKey         string `yaml:"api_key"`
	Model          string `yaml:"model"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	MaxRetries     int    `yaml:"max_retries"`
}

// RecommendConfig holds recommendation pipeline tunables. The scoring
// weights themselves live in matcher.Weights; these are the pipeline-level
// knobs.
type RecommendConfig struct {
	DefaultCount   int     `yaml:"default_count"`
	MaxCount       int     `yaml:"max_count"`
	MaxCandidates  int     `yaml:"max_candidates"`
	RelevanceFloor float64 `yaml:"relevance_floor"`
	RelaxedFloor   float64 `yaml:"relaxed_floor"`
	BalanceFill    int     `yaml:"balance_fill"`
	PairLimit      int     `yaml:"pair_limit"`
	StatementFloor float64 `yaml:"statement_floor"`
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
	if cfg.Catalog.SeedPath != "" {
		cfg.Catalog.SeedPath = expandPath(cfg.Catalog.SeedPath, configDir)
	}

	return &cfg, nil
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
