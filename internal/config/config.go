// Package config provides configuration loading and validation for the CLI
// and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the application configuration that can be loaded from a
// JSON file. All fields are optional; missing values use defaults or must be
// provided via CLI flags or environment variables.
type Config struct {
	// Content service
	APIKey   string `json:"api_key,omitempty"`  // Content service API key
	Provider string `json:"provider,omitempty"` // "anthropic" (default) or "gemini"
	Model    string `json:"model,omitempty"`    // Model override

	// Persistence
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL archive (optional)
	CachePath   string `json:"cache_path,omitempty"`   // SQLite session cache path

	// Session
	OwnerID     string `json:"owner_id,omitempty"` // Owner id for cache scoping
	ProfilePath string `json:"profile,omitempty"`  // Path to intake profile JSON

	// Behavior
	Verbose bool `json:"verbose,omitempty"` // Print detailed progress information
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Provider != "" && c.Provider != "anthropic" && c.Provider != "gemini" {
		return fmt.Errorf("config error: unknown provider %q", c.Provider)
	}

	if c.ProfilePath != "" {
		if _, err := os.Stat(c.ProfilePath); os.IsNotExist(err) {
			return fmt.Errorf("config error: profile file not found: %s", c.ProfilePath)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from
// defaults. This is used to apply config file values as defaults for CLI
// flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.Provider == "" {
		result.Provider = defaults.Provider
	}
	if result.Model == "" {
		result.Model = defaults.Model
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.CachePath == "" {
		result.CachePath = defaults.CachePath
	}
	if result.OwnerID == "" {
		result.OwnerID = defaults.OwnerID
	}
	if result.ProfilePath == "" {
		result.ProfilePath = defaults.ProfilePath
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
