// Package config provides configuration management.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"virgin-history/internal/logging"
)

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version"`

	// API contains provider API settings
	API APIConfig `json:"api"`

	// Auth contains authentication settings
	Auth AuthConfig `json:"auth"`

	// Output contains output configuration
	Output OutputConfig `json:"output"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging"`
}

// APIConfig contains provider API settings
type APIConfig struct {
	// BaseURL is the root of the provider's web API
	BaseURL string `json:"base_url"`

	// PageSize is the number of records requested per page
	PageSize int `json:"page_size"`

	// WindowDays is the widest date range one request may cover
	WindowDays int `json:"window_days"`

	// TimeoutSeconds is the per-request HTTP timeout
	TimeoutSeconds int `json:"timeout_seconds"`
}

// AuthConfig contains authentication settings.
// Passwords are never persisted; they come from flags, the environment
// or an interactive prompt.
type AuthConfig struct {
	// Username is the portal login name
	Username string `json:"username,omitempty"`
}

// OutputConfig contains output-related settings
type OutputConfig struct {
	// DefaultFormat is the default output format (table, csv)
	DefaultFormat string `json:"default_format"`
}

// Default returns a default configuration
func Default() *Config {
	return &Config{
		Version: "1.0",
		API: APIConfig{
			BaseURL:        "https://virginmobile.pl/spitfire-web-api/api/v1",
			PageSize:       500,
			WindowDays:     15,
			TimeoutSeconds: 60,
		},
		Output: OutputConfig{
			DefaultFormat: "table",
		},
		Logging: logging.DefaultConfig(),
	}
}

// Load loads configuration from a file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, err
	}

	return config, nil
}

// Save saves configuration to a file
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Global configuration instance
var globalConfig = Default()

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// Set sets the global configuration
func Set(config *Config) {
	globalConfig = config
}
