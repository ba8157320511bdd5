// Package config provides configuration loading and validation for the server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Config represents the server configuration that can be loaded from a JSON
// file. All fields are optional; missing values fall back to defaults or
// environment variables.
type Config struct {
	// Server
	Port           int      `json:"port,omitempty"`            // HTTP listen port
	AllowedOrigins []string `json:"allowed_origins,omitempty"` // CORS origins

	// Paths
	ChartsDir      string `json:"charts_dir,omitempty"`      // Directory for rendered charts
	DataDir        string `json:"data_dir,omitempty"`        // Directory for persisted state
	SessionFile    string `json:"session_file,omitempty"`    // Session data file path
	PreferenceFile string `json:"preference_file,omitempty"` // Persistent color preference path

	// Behavior
	APIKey  string `json:"api_key,omitempty"` // Gemini API key; empty disables the LLM strategy
	Verbose bool   `json:"verbose,omitempty"` // Print detailed debug information
}

// Defaults returns the baseline configuration, reading GEMINI_API_KEY and
// PORT from the environment.
func Defaults() Config {
	cfg := Config{
		Port:    8000,
		DataDir: "data",
		APIKey:  os.Getenv("GEMINI_API_KEY"),
		AllowedOrigins: []string{
			"http://localhost:5173",
			"http://localhost:3000",
			"http://127.0.0.1:5173",
			"http://127.0.0.1:3000",
		},
	}
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Port = p
		}
	}
	return cfg
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
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}
	return nil
}

// MergeWithDefaults returns a new Config with unset fields filled from
// defaults. Derived paths are resolved last so charts_dir, session_file and
// preference_file follow data_dir unless set explicitly.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if len(result.AllowedOrigins) == 0 {
		result.AllowedOrigins = defaults.AllowedOrigins
	}
	if result.DataDir == "" {
		result.DataDir = defaults.DataDir
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}

	if result.ChartsDir == "" {
		result.ChartsDir = defaults.ChartsDir
	}
	if result.ChartsDir == "" {
		result.ChartsDir = "charts"
	}
	if result.SessionFile == "" {
		result.SessionFile = filepath.Join(result.DataDir, "sessions.json")
	}
	if result.PreferenceFile == "" {
		result.PreferenceFile = filepath.Join(result.DataDir, "preferences.json")
	}

	return result
}
