// Package config provides configuration management for spurdeck.
//
// This file contains config loading functionality including:
// - XDG config path detection
// - TOML file parsing
// - Environment variable overrides
// - Validation
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	deckerrors "github.com/chazuruo/spurdeck/internal/errors"
)

// DefaultConfigPath returns ~/.config/spurdeck/config.toml, whether or not it exists.
func DefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".config", "spurdeck", "config.toml")
}

// DetectConfigPath searches for a config file using XDG standard paths.
// Returns the first config file found, or empty string if none exists.
//
// Search order:
// 1. $XDG_CONFIG_HOME/spurdeck/config.toml
// 2. ~/.config/spurdeck/config.toml
func DetectConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		configPath := filepath.Join(xdg, "spurdeck", "config.toml")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
	}

	configPath := DefaultConfigPath()
	if configPath == "" {
		return ""
	}
	if _, err := os.Stat(configPath); err == nil {
		return configPath
	}

	return ""
}

// Load loads a config from the specified path.
// If the file doesn't exist, returns an error.
// After loading, applies environment variable overrides and validates.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, &deckerrors.ConfigError{Path: path, Err: deckerrors.ErrNotFound}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &deckerrors.ConfigError{Path: path, Err: fmt.Errorf("failed to read: %w", err)}
	}

	// Start with defaults
	cfg := DefaultConfig()

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, &deckerrors.ConfigError{Path: path, Err: fmt.Errorf("failed to parse: %w", err)}
	}

	applyEnvOverrides(cfg)
	expandPath(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, &deckerrors.ConfigError{Path: path, Err: fmt.Errorf("%w: %w", deckerrors.ErrInvalid, err)}
	}

	return cfg, nil
}

// LoadWithDefaults attempts to load a config from XDG standard paths.
// If no config file is found, returns a config with all default values.
// If a config file is found but fails to load/validate, returns an error.
func LoadWithDefaults() (*Config, error) {
	configPath := DetectConfigPath()
	if configPath == "" {
		cfg := DefaultConfig()
		applyEnvOverrides(cfg)
		expandPath(cfg)
		if err := cfg.Validate(); err != nil {
			return nil, &deckerrors.ConfigError{Err: fmt.Errorf("%w: %w", deckerrors.ErrInvalid, err)}
		}
		return cfg, nil
	}

	return Load(configPath)
}

// LoadFrom loads path when it is non-empty and falls back to LoadWithDefaults otherwise.
func LoadFrom(path string) (*Config, error) {
	if path == "" {
		return LoadWithDefaults()
	}
	return Load(path)
}

// applyEnvOverrides applies environment variable overrides to the config.
// Environment variables follow the pattern: SPURDECK_<SECTION>_<FIELD>
//
// Examples:
// - SPURDECK_API_BASE_URL overrides [api].base_url
// - SPURDECK_DASHBOARD_USER_ID overrides [dashboard].user_id
// - SPURDECK_LOGGING_LEVEL overrides [logging].level
//
// Boolean fields: use "true"/"false" strings
func applyEnvOverrides(c *Config) {
	applyString := func(key string, target *string) {
		if val, ok := os.LookupEnv(key); ok && val != "" {
			*target = val
		}
	}

	applyBool := func(key string, target *bool) {
		if val, ok := os.LookupEnv(key); ok && val != "" {
			switch strings.ToLower(val) {
			case "true", "1", "yes", "on":
				*target = true
			case "false", "0", "no", "off":
				*target = false
			}
		}
	}

	applyInt := func(key string, target *int) {
		if val, ok := os.LookupEnv(key); ok && val != "" {
			if i, err := strconv.Atoi(val); err == nil {
				*target = i
			}
		}
	}

	applyFloat := func(key string, target *float64) {
		if val, ok := os.LookupEnv(key); ok && val != "" {
			if f, err := strconv.ParseFloat(val, 64); err == nil {
				*target = f
			}
		}
	}

	// API section
	applyString("SPURDECK_API_BASE_URL", &c.API.BaseURL)
	applyString("SPURDECK_API_TOKEN_ENV", &c.API.TokenEnv)
	applyInt("SPURDECK_API_TIMEOUT_SECONDS", &c.API.TimeoutSeconds)
	applyFloat("SPURDECK_API_RATE_LIMIT", &c.API.RateLimit)
	applyInt("SPURDECK_API_RATE_BURST", &c.API.RateBurst)

	// Dashboard section
	applyString("SPURDECK_DASHBOARD_USER_ID", &c.Dashboard.UserID)
	applyString("SPURDECK_DASHBOARD_EDITOR_URL", &c.Dashboard.EditorURL)
	applyString("SPURDECK_DASHBOARD_TRACE_URL", &c.Dashboard.TraceURL)
	applyInt("SPURDECK_DASHBOARD_FANOUT", &c.Dashboard.Fanout)

	// Preferences section
	applyBool("SPURDECK_PREFERENCES_HAS_SEEN_WELCOME", &c.Preferences.HasSeenWelcome)

	// TUI section
	applyBool("SPURDECK_TUI_ENABLED", &c.TUI.Enabled)
	applyString("SPURDECK_TUI_THEME", &c.TUI.Theme)
	applyBool("SPURDECK_TUI_SHOW_HELP", &c.TUI.ShowHelp)
	applyInt("SPURDECK_TUI_REFRESH_MILLIS", &c.TUI.RefreshMillis)

	// Logging section
	applyString("SPURDECK_LOGGING_LEVEL", &c.Logging.Level)
	applyString("SPURDECK_LOGGING_FORMAT", &c.Logging.Format)
	applyString("SPURDECK_LOGGING_FILE", &c.Logging.File)
}

// expandPath expands ~ to the home directory in the log file path.
func expandPath(c *Config) {
	c.Logging.File = ExpandHome(c.Logging.File)
}

// ExpandHome replaces a leading ~ in p with the user's home directory.
func ExpandHome(p string) string {
	if strings.HasPrefix(p, "~/") || p == "~" {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(homeDir, strings.TrimPrefix(strings.TrimPrefix(p, "~"), "/"))
		}
	}
	return p
}
