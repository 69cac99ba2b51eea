package config

import (
	"time"

	"adaptkit/internal/adapter"
)

// Config is the root configuration structure
type Config struct {
	Version    int                      `yaml:"version"`
	Log        LogConfig                `yaml:"log"`
	Database   DatabaseConfig           `yaml:"database"`
	Cache      CacheConfig              `yaml:"cache"`
	Extraction ExtractionConfig         `yaml:"extraction"`
	Adapters   map[string]AdapterConfig `yaml:"adapters,omitempty"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// DatabaseConfig holds database settings
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// CacheConfig sizes the shared artifact cache
type CacheConfig struct {
	Entries int `yaml:"entries"`
}

// ExtractionConfig tunes resolution and extraction
type ExtractionConfig struct {
	Workers         int       `yaml:"workers"`
	LegacyFirstRoot bool      `yaml:"legacy_first_root"`
	Timeout         *Duration `yaml:"timeout,omitempty"` // nil = no limit
}

// AdapterConfig overrides a single adapter
type AdapterConfig struct {
	Enabled  *bool          `yaml:"enabled,omitempty"` // nil = enabled
	Settings map[string]any `yaml:"settings,omitempty"`
}

// Resolve converts the YAML form into the registry's config
func (a AdapterConfig) Resolve() adapter.AdapterConfig {
	return adapter.AdapterConfig{
		Enabled:  a.Enabled == nil || *a.Enabled,
		Settings: a.Settings,
	}
}

// Duration wraps time.Duration for YAML unmarshaling
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Duration returns the underlying time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}
