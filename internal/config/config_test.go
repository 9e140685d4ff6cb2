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
debug: true
server:
  host: 0.0.0.0
  port: 9090
storage:
  database_path: ./catalog.db
catalog:
  seed_path: ./products.json
  watch: true
expander:
  model: test-model
  timeout_seconds: 3
recommend:
  default_count: 5
  relevance_floor: 0.2
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !cfg.Debug {
		t.Error("expected debug true")
	}
	if cfg.Server.Host != "0.0.0.0" || cfg.Server.Port != 9090 {
		t.Errorf("server config = %+v", cfg.Server)
	}
	if cfg.Storage.DatabasePath != filepath.Join(dir, "catalog.db") {
		t.Errorf("database path not expanded relative to config dir: %s", cfg.Storage.DatabasePath)
	}
	if cfg.Catalog.SeedPath != filepath.Join(dir, "products.json") {
		t.Errorf("seed path not expanded: %s", cfg.Catalog.SeedPath)
	}
	if cfg.Expander.Model != "test-model" || cfg.Expander.TimeoutSeconds != 3 {
		t.Errorf("expander config = %+v", cfg.Expander)
	}
	if cfg.Recommend.DefaultCount != 5 {
		t.Errorf("default count = %d", cfg.Recommend.DefaultCount)
	}
	if cfg.Recommend.RelevanceFloor != 0.2 {
		t.Errorf("relevance floor = %v", cfg.Recommend.RelevanceFloor)
	}
	// Untouched fields get defaults.
	if cfg.Recommend.MaxCandidates != 15 {
		t.Errorf("max candidates default = %d", cfg.Recommend.MaxCandidates)
	}
	if cfg.Recommend.PairLimit != 3 {
		t.Errorf("pair limit default = %d", cfg.Recommend.PairLimit)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server: [not a map"), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for invalid yaml")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if cfg.Server.Host != "localhost" || cfg.Server.Port != 8080 {
		t.Errorf("server defaults = %+v", cfg.Server)
	}
	if cfg.Expander.TimeoutSeconds != 5 {
		t.Errorf("expander timeout default = %d", cfg.Expander.TimeoutSeconds)
	}
	if cfg.Expander.MaxRetries != 1 {
		t.Errorf("expander retries default = %d", cfg.Expander.MaxRetries)
	}
	if cfg.Recommend.DefaultCount != 3 || cfg.Recommend.MaxCount != 10 {
		t.Errorf("count defaults = %+v", cfg.Recommend)
	}
	if cfg.Recommend.RelevanceFloor != 0.15 || cfg.Recommend.RelaxedFloor != 0.01 {
		t.Errorf("floor defaults = %+v", cfg.Recommend)
	}
	if cfg.Recommend.BalanceFill != 3 || cfg.Recommend.StatementFloor != 0.5 {
		t.Errorf("assembler defaults = %+v", cfg.Recommend)
	}
}
