// Package config handles configuration loading and defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Atharva-Kanherkar/reverie/internal/insights"
	"github.com/Atharva-Kanherkar/reverie/internal/logging"
)

// Environment variables that override file values.
const (
	EnvStoragePath = "REVERIE_STORAGE_PATH"
	EnvLogLevel    = "REVERIE_LOG_LEVEL"
	EnvTimezone    = "REVERIE_TIMEZONE"
)

// Config holds all configuration for the CLI.
type Config struct {
	StoragePath string `yaml:"storage_path"`
	// Timezone is an IANA name used to bucket timestamps into local dates.
	// Empty means the system zone.
	Timezone string `yaml:"timezone"`

	Log      logging.Config `yaml:"log"`
	Insights InsightsConfig `yaml:"insights"`
}

// InsightsConfig seeds insight settings when none are persisted, and tunes
// the analysis pass.
type InsightsConfig struct {
	insights.Settings `yaml:",inline"`

	LookbackDays int    `yaml:"lookback_days"`
	ContextLimit int    `yaml:"context_limit"`
	CatalogPath  string `yaml:"catalog_path"` // optional replacement pattern catalog
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "/tmp"
	}

	return &Config{
		StoragePath: filepath.Join(home, ".local", "share", "reverie"),
		Log:         logging.DefaultConfig(),
		Insights: InsightsConfig{
			Settings:     insights.DefaultSettings(),
			LookbackDays: insights.DefaultLookbackDays,
			ContextLimit: insights.DefaultContextLimit,
		},
	}
}

// DefaultPath is where Save writes and the first place Load looks.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "reverie", "config.yaml"), nil
}

// Load loads configuration from the default paths, falling back to defaults.
// Environment overrides are applied last.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	home, err := os.UserHomeDir()
	if err == nil {
		configPaths := []string{
			filepath.Join(home, ".config", "reverie", "config.yaml"),
			filepath.Join(home, ".local", "share", "reverie", "config.yaml"),
		}
		for _, path := range configPaths {
			if err := loadFromFile(cfg, path); err == nil {
				break
			} else if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to load %s: %w", path, err)
			}
		}
	}

	cfg.applyEnv()
	return cfg, cfg.Validate()
}

// LoadFile loads configuration from an explicit path on top of defaults.
func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := loadFromFile(cfg, expandTilde(path)); err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	cfg.applyEnv()
	return cfg, cfg.Validate()
}

// loadFromFile reads a YAML config file and merges it into cfg.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return err
	}
	// Expand ~ in paths
	cfg.StoragePath = expandTilde(cfg.StoragePath)
	cfg.Insights.CatalogPath = expandTilde(cfg.Insights.CatalogPath)
	return nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvStoragePath); v != "" {
		c.StoragePath = expandTilde(v)
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv(EnvTimezone); v != "" {
		c.Timezone = v
	}
}

// Validate checks values that would otherwise fail later at runtime.
func (c *Config) Validate() error {
	if c.StoragePath == "" {
		return fmt.Errorf("storage_path cannot be empty")
	}
	if err := c.Log.Validate(); err != nil {
		return err
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	switch c.Insights.Frequency {
	case insights.FrequencyDaily, insights.FrequencyWeekly, insights.FrequencyManual:
	default:
		return fmt.Errorf("invalid insights frequency %q", c.Insights.Frequency)
	}
	if c.Insights.MinConfidence < 0 || c.Insights.MinConfidence > 1 {
		return fmt.Errorf("insights min_confidence must be between 0 and 1")
	}
	return nil
}

// Location resolves Timezone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// expandTilde expands ~ to the user's home directory.
func expandTilde(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}

// Save writes the current config to the default location.
func (c *Config) Save() error {
	path, err := DefaultPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the current config to path.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}

// EnsureStorageDir creates the storage directory if it doesn't exist.
func (c *Config) EnsureStorageDir() error {
	return os.MkdirAll(c.StoragePath, 0700)
}
