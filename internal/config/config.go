// Package config loads and manages sdschat configuration.
// Configuration source priority (highest to lowest):
// 1. Environment variables (SDSCHAT_DATA_DIR, SDSCHAT_THEME, SDSCHAT_EXPORT_DIR)
// 2. the config file path given by the --config flag
// 3. ~/.config/sdschat/config.yaml
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the full sdschat configuration.
type Config struct {
	// DataDir overrides where the database and log file live
	// (default ~/.local/share/sdschat).
	DataDir string `yaml:"data_dir"`

	// Theme is the default theme ("light" or "dark"), used only when no
	// theme preference has been persisted yet.
	Theme string `yaml:"theme"`

	// ExportDir is where exported conversations are written (default ".").
	ExportDir string `yaml:"export_dir"`

	// ResponseDelayMS is the simulated latency of the placeholder response
	// provider, in milliseconds.
	ResponseDelayMS int `yaml:"response_delay_ms"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Theme:           "light",
		ExportDir:       ".",
		ResponseDelayMS: 1500,
	}
}

// Load reads the config file and applies environment overrides. A missing
// file is fine; a malformed one is an error.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath == "" {
		home, err := os.UserHomeDir()
		if err == nil {
			configPath = filepath.Join(home, ".config", "sdschat", "config.yaml")
		}
	}

	if data, err := os.ReadFile(configPath); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("invalid config file %s: %w", configPath, err)
		}
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

// DarkDefault reports whether the configured default theme is dark.
func (c *Config) DarkDefault() bool {
	return c.Theme == "dark"
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SDSCHAT_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("SDSCHAT_THEME"); v != "" {
		cfg.Theme = v
	}
	if v := os.Getenv("SDSCHAT_EXPORT_DIR"); v != "" {
		cfg.ExportDir = v
	}
}
