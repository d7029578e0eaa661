// Package config provides configuration management for spurdeck.
//
// The configuration is stored in TOML format and supports validation
// and default values for all fields.
package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Config is the top-level configuration struct for spurdeck.
// It contains all configuration sections as embedded structs.
type Config struct {
	API         APIConfig         `toml:"api"`
	Dashboard   DashboardConfig   `toml:"dashboard"`
	Preferences PreferencesConfig `toml:"preferences"`
	TUI         TUIConfig         `toml:"tui"`
	Logging     LoggingConfig     `toml:"logging"`
}

// APIConfig contains settings for the workflow backend.
type APIConfig struct {
	// BaseURL is the root of the backend API (e.g., "http://localhost:6080/api").
	BaseURL string `toml:"base_url"`

	// TokenEnv is the environment variable holding the bearer token.
	// An unset or empty variable sends no Authorization header.
	TokenEnv string `toml:"token_env"`

	// TimeoutSeconds bounds each HTTP request.
	TimeoutSeconds int `toml:"timeout_seconds"`

	// RateLimit is the sustained request rate per second.
	RateLimit float64 `toml:"rate_limit"`

	// RateBurst is the token bucket size.
	RateBurst int `toml:"rate_burst"`
}

// DashboardConfig contains settings for the workflow and paused-run controllers.
type DashboardConfig struct {
	// UserID is sent with every pause decision.
	UserID string `toml:"user_id"`

	// EditorURL is the workflow editor link; "{id}" is replaced by the workflow id.
	EditorURL string `toml:"editor_url"`

	// TraceURL is the run trace link; "{id}" is replaced by the run id.
	TraceURL string `toml:"trace_url"`

	// Fanout bounds concurrent run fetches during a page load.
	Fanout int `toml:"fanout"`
}

// PreferencesConfig contains per-user flags persisted between sessions.
type PreferencesConfig struct {
	// HasSeenWelcome is set once the welcome banner has been dismissed.
	HasSeenWelcome bool `toml:"has_seen_welcome"`
}

// TUIConfig contains terminal UI settings.
type TUIConfig struct {
	// Enabled controls whether to use the TUI (when false, falls back to CLI).
	Enabled bool `toml:"enabled"`

	// Theme is the TUI theme name.
	// Valid values: "default", "mono".
	Theme string `toml:"theme"`

	// ShowHelp controls whether to show the key help line by default.
	ShowHelp bool `toml:"show_help"`

	// RefreshMillis is the repaint interval for timer-driven state.
	RefreshMillis int `toml:"refresh_millis"`
}

// LoggingConfig contains logger settings.
type LoggingConfig struct {
	// Level is the minimum level.
	// Valid values: "debug", "info", "warn", "error".
	Level string `toml:"level"`

	// Format selects the encoder.
	// Valid values: "console", "json".
	Format string `toml:"format"`

	// File is the log destination. Empty means stderr for commands and
	// discarded while the dashboard owns the terminal.
	File string `toml:"file"`
}

// DefaultConfig returns a Config with all default values set.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:        "http://localhost:6080/api",
			TokenEnv:       "SPURDECK_API_TOKEN",
			TimeoutSeconds: 10,
			RateLimit:      10,
			RateBurst:      10,
		},
		Dashboard: DashboardConfig{
			UserID:    "current-user",
			EditorURL: "http://localhost:6080/workflows/{id}",
			TraceURL:  "http://localhost:6080/trace/{id}",
			Fanout:    10,
		},
		Preferences: PreferencesConfig{
			HasSeenWelcome: false,
		},
		TUI: TUIConfig{
			Enabled:       true,
			Theme:         "default",
			ShowHelp:      true,
			RefreshMillis: 500,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			File:   "",
		},
	}
}

// Validate checks the configuration for valid values.
// Returns a nil error if the config is valid, or an error describing the problem.
func (c *Config) Validate() error {
	// Validate API section
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url cannot be empty")
	}
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("api.base_url must be an absolute http(s) URL; got %q", c.API.BaseURL)
	}
	if c.API.TimeoutSeconds <= 0 {
		return fmt.Errorf("api.timeout_seconds must be > 0; got %d", c.API.TimeoutSeconds)
	}
	if c.API.RateLimit < 0 {
		return fmt.Errorf("api.rate_limit must be >= 0; got %v", c.API.RateLimit)
	}
	if c.API.RateLimit > 0 && c.API.RateBurst < 1 {
		return fmt.Errorf("api.rate_burst must be >= 1 when api.rate_limit is set; got %d", c.API.RateBurst)
	}

	// Validate Dashboard section
	if c.Dashboard.UserID == "" {
		return fmt.Errorf("dashboard.user_id cannot be empty")
	}
	if c.Dashboard.EditorURL != "" && !strings.Contains(c.Dashboard.EditorURL, "{id}") {
		return fmt.Errorf("dashboard.editor_url must contain {id}; got %q", c.Dashboard.EditorURL)
	}
	if c.Dashboard.TraceURL != "" && !strings.Contains(c.Dashboard.TraceURL, "{id}") {
		return fmt.Errorf("dashboard.trace_url must contain {id}; got %q", c.Dashboard.TraceURL)
	}
	if c.Dashboard.Fanout < 1 {
		return fmt.Errorf("dashboard.fanout must be >= 1; got %d", c.Dashboard.Fanout)
	}

	// Validate TUI section
	validThemes := map[string]bool{
		"default": true,
		"mono":    true,
	}
	if !validThemes[c.TUI.Theme] {
		return fmt.Errorf("tui.theme must be one of: default, mono; got %q", c.TUI.Theme)
	}
	if c.TUI.RefreshMillis < 50 {
		return fmt.Errorf("tui.refresh_millis must be >= 50; got %d", c.TUI.RefreshMillis)
	}

	// Validate Logging section
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error; got %q", c.Logging.Level)
	}
	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format must be one of: console, json; got %q", c.Logging.Format)
	}

	return nil
}

// EditorLink returns the editor URL for a workflow id, or "" if unset.
func (c *DashboardConfig) EditorLink(workflowID string) string {
	return expandLink(c.EditorURL, workflowID)
}

// TraceLink returns the trace URL for a run id, or "" if unset.
func (c *DashboardConfig) TraceLink(runID string) string {
	return expandLink(c.TraceURL, runID)
}

func expandLink(tmpl, id string) string {
	if tmpl == "" || id == "" {
		return ""
	}
	return strings.ReplaceAll(tmpl, "{id}", url.PathEscape(id))
}
