// Package config provides configuration management for adaptkit.
//
// The config file tunes the tool; the variants model is supplied per run:
// - Config file persists logging, storage and adapter overrides
// - Model files describe what to extract and are never read from here
//
// Config file locations (priority order):
//  1. $ADAPTKIT_CONFIG
//  2. ./adaptkit.yaml
//  3. $XDG_CONFIG_HOME/adaptkit/config.yaml
//  4. ~/.config/adaptkit/config.yaml
//  5. /etc/adaptkit/config.yaml
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"adaptkit/internal/adapter"
	"adaptkit/internal/logging"
)

const (
	defaultDatabasePath = "./adaptkit.db"
	defaultCacheEntries = 256
)

// ErrInvalidConfig wraps every validation failure
var ErrInvalidConfig = errors.New("invalid config")

// Load finds and loads the config file, or returns defaults if none found
func Load() (*Config, string, error) {
	path := FindConfigPath()

	if path == "" {
		return DefaultConfig(), "", nil
	}

	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}

// Parse decodes, defaults and validates a config document
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes config to the specified path
func (c *Config) Save(path string) error {
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultConfig returns sensible defaults for a new installation
func DefaultConfig() *Config {
	return &Config{
		Version:    1,
		Log:        LogConfig{Level: "info", Format: "text"},
		Database:   DatabaseConfig{Path: defaultDatabasePath},
		Cache:      CacheConfig{Entries: defaultCacheEntries},
		Extraction: ExtractionConfig{Workers: 1},
	}
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = 1
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Database.Path == "" {
		c.Database.Path = defaultDatabasePath
	}
	if c.Cache.Entries == 0 {
		c.Cache.Entries = defaultCacheEntries
	}
	if c.Extraction.Workers == 0 {
		c.Extraction.Workers = 1
	}
}

// Validate rejects values the rest of the program cannot honor
func (c *Config) Validate() error {
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log.format %q", ErrInvalidConfig, c.Log.Format)
	}
	if c.Cache.Entries < 0 {
		return fmt.Errorf("%w: cache.entries must not be negative", ErrInvalidConfig)
	}
	if c.Extraction.Workers < 0 {
		return fmt.Errorf("%w: extraction.workers must not be negative", ErrInvalidConfig)
	}
	if t := c.Extraction.Timeout; t != nil && t.Duration() < 0 {
		return fmt.Errorf("%w: extraction.timeout must not be negative", ErrInvalidConfig)
	}
	return nil
}

// JSONLogs reports whether logs should be emitted as JSON
func (c *Config) JSONLogs() bool {
	return c.Log.Format == "json"
}

// LogLevel returns the parsed log level
func (c *Config) LogLevel() slog.Level {
	return logging.ParseLevel(c.Log.Level)
}

// ExtractionTimeout returns the per-run limit, zero meaning none
func (c *Config) ExtractionTimeout() time.Duration {
	if c.Extraction.Timeout == nil {
		return 0
	}
	return c.Extraction.Timeout.Duration()
}

// AdapterConfigs converts the adapter overrides for registration.
// Adapters without an entry are registered with adapter.DefaultAdapterConfig.
func (c *Config) AdapterConfigs() map[string]adapter.AdapterConfig {
	out := make(map[string]adapter.AdapterConfig, len(c.Adapters))
	for id, ac := range c.Adapters {
		out[id] = ac.Resolve()
	}
	return out
}

// Summary returns a human-readable config summary
func (c *Config) Summary() string {
	timeout := "none"
	if d := c.ExtractionTimeout(); d > 0 {
		timeout = d.String()
	}

	summary := fmt.Sprintf("Log: %s/%s, Database: %s, Cache: %d entries\n",
		c.Log.Level, c.Log.Format, c.Database.Path, c.Cache.Entries)
	summary += fmt.Sprintf("Workers: %d, Legacy first root: %v, Timeout: %s",
		c.Extraction.Workers, c.Extraction.LegacyFirstRoot, timeout)
	for id, ac := range c.Adapters {
		if !ac.Resolve().Enabled {
			summary += fmt.Sprintf("\nDisabled adapter: %s", id)
		}
	}
	return summary
}
