package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Version != 1 {
		t.Errorf("Version = %d, want 1", cfg.Version)
	}
	if cfg.Database.Path == "" {
		t.Error("Database.Path should not be empty")
	}
	if cfg.Extraction.Workers != 1 {
		t.Errorf("Workers = %d, want 1", cfg.Extraction.Workers)
	}
	if cfg.Extraction.LegacyFirstRoot {
		t.Error("LegacyFirstRoot should default to false")
	}
	if cfg.ExtractionTimeout() != 0 {
		t.Errorf("ExtractionTimeout() = %s, want 0", cfg.ExtractionTimeout())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error: %v", err)
	}
}

func TestParseAppliesDefaults(t *testing.T) {
	cfg, err := Parse([]byte("log:\n  level: debug\n"))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	if cfg.LogLevel() != slog.LevelDebug {
		t.Errorf("LogLevel() = %s, want DEBUG", cfg.LogLevel())
	}
	if cfg.Log.Format != "text" {
		t.Errorf("Log.Format = %s, want text", cfg.Log.Format)
	}
	if cfg.Cache.Entries != defaultCacheEntries {
		t.Errorf("Cache.Entries = %d, want %d", cfg.Cache.Entries, defaultCacheEntries)
	}
	if cfg.Extraction.Workers != 1 {
		t.Errorf("Workers = %d, want 1", cfg.Extraction.Workers)
	}
}

func TestParseExtraction(t *testing.T) {
	cfg, err := Parse([]byte(`
log:
  format: json
extraction:
  workers: 4
  legacy_first_root: true
  timeout: 90s
`))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	if !cfg.JSONLogs() {
		t.Error("JSONLogs() should be true")
	}
	if cfg.Extraction.Workers != 4 {
		t.Errorf("Workers = %d, want 4", cfg.Extraction.Workers)
	}
	if !cfg.Extraction.LegacyFirstRoot {
		t.Error("LegacyFirstRoot should be true")
	}
	if cfg.ExtractionTimeout() != 90*time.Second {
		t.Errorf("ExtractionTimeout() = %s, want 1m30s", cfg.ExtractionTimeout())
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"bad format", "log:\n  format: xml\n"},
		{"negative workers", "extraction:\n  workers: -2\n"},
		{"negative cache", "cache:\n  entries: -1\n"},
		{"negative timeout", "extraction:\n  timeout: -5s\n"},
	}

	for _, tt := range tests {
		_, err := Parse([]byte(tt.input))
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("%s: Parse() error = %v, want ErrInvalidConfig", tt.name, err)
		}
	}

	if _, err := Parse([]byte("extraction:\n  timeout: soon\n")); err == nil {
		t.Error("Parse() should reject an unparseable duration")
	}
}

func TestAdapterConfigs(t *testing.T) {
	cfg, err := Parse([]byte(`
adapters:
  text:
    enabled: false
  json:
    settings:
      selectors: ["$.name", "$.version"]
`))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	configs := cfg.AdapterConfigs()
	if len(configs) != 2 {
		t.Fatalf("len(AdapterConfigs()) = %d, want 2", len(configs))
	}
	if configs["text"].Enabled {
		t.Error("text adapter should be disabled")
	}
	js := configs["json"]
	if !js.Enabled {
		t.Error("json adapter should be enabled when enabled is omitted")
	}
	selectors, ok := js.Settings["selectors"].([]any)
	if !ok || len(selectors) != 2 {
		t.Errorf("json selectors = %#v, want two entries", js.Settings["selectors"])
	}

	if !strings.Contains(cfg.Summary(), "Disabled adapter: text") {
		t.Errorf("Summary() = %q, should name the disabled adapter", cfg.Summary())
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Extraction.Workers = 3
	timeout := Duration(2 * time.Minute)
	cfg.Extraction.Timeout = &timeout
	disabled := false
	cfg.Adapters = map[string]AdapterConfig{"nmap": {Enabled: &disabled}}

	if err := cfg.Save(configPath); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	loaded, path, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("LoadFromPath() error: %v", err)
	}
	if path != configPath {
		t.Errorf("path = %s, want %s", path, configPath)
	}
	if loaded.Extraction.Workers != 3 {
		t.Errorf("Workers = %d, want 3", loaded.Extraction.Workers)
	}
	if loaded.ExtractionTimeout() != 2*time.Minute {
		t.Errorf("ExtractionTimeout() = %s, want 2m0s", loaded.ExtractionTimeout())
	}
	if loaded.AdapterConfigs()["nmap"].Enabled {
		t.Error("nmap adapter should stay disabled after reload")
	}
}

func TestFindConfigPath(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, ConfigFileName)

	cfg := DefaultConfig()
	if err := cfg.Save(configPath); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	oldWd, _ := os.Getwd()
	os.Chdir(tmpDir)
	defer os.Chdir(oldWd)

	found := FindConfigPath()
	if found == "" {
		t.Error("FindConfigPath() should find config in working directory")
	}

	// Explicit path doesn't exist, should fall back
	t.Setenv(EnvConfigPath, "/nonexistent/path.yaml")
	found = FindConfigPath()
	if found == "" {
		t.Error("FindConfigPath() should fall back when env path doesn't exist")
	}

	explicit := filepath.Join(t.TempDir(), "explicit.yaml")
	if err := cfg.Save(explicit); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	t.Setenv(EnvConfigPath, explicit)
	if found = FindConfigPath(); found != explicit {
		t.Errorf("FindConfigPath() = %s, want %s", found, explicit)
	}
}

func TestSearchPathsOrder(t *testing.T) {
	t.Setenv(EnvConfigPath, "/explicit.yaml")
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	t.Setenv("HOME", "/home/u")

	paths := SearchPaths()
	if len(paths) != 5 {
		t.Fatalf("len(SearchPaths()) = %d, want 5: %v", len(paths), paths)
	}
	if paths[0] != "/explicit.yaml" {
		t.Errorf("paths[0] = %s, want /explicit.yaml", paths[0])
	}
	if filepath.Base(paths[1]) != ConfigFileName {
		t.Errorf("paths[1] = %s, want working directory %s", paths[1], ConfigFileName)
	}
	if paths[2] != "/xdg/adaptkit/config.yaml" {
		t.Errorf("paths[2] = %s", paths[2])
	}
	if paths[4] != "/etc/adaptkit/config.yaml" {
		t.Errorf("paths[4] = %s", paths[4])
	}
}

func TestDuration(t *testing.T) {
	d := Duration(5 * time.Minute)

	if d.Duration() != 5*time.Minute {
		t.Errorf("Duration() = %s, want 5m", d.Duration())
	}

	marshaled, err := d.MarshalYAML()
	if err != nil {
		t.Fatalf("MarshalYAML() error: %v", err)
	}
	if marshaled != "5m0s" {
		t.Errorf("MarshalYAML() = %v, want 5m0s", marshaled)
	}
}
