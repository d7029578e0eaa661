package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	deckerrors "github.com/chazuruo/spurdeck/internal/errors"
)

// TestDetectConfigPath_XDG tests that $XDG_CONFIG_HOME is searched first.
func TestDetectConfigPath_XDG(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	t.Setenv("HOME", t.TempDir())

	if got := DetectConfigPath(); got != "" {
		t.Fatalf("DetectConfigPath() = %q, want empty when no file exists", got)
	}

	configPath := filepath.Join(xdg, "spurdeck", "config.toml")
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(configPath, []byte(""), 0644); err != nil {
		t.Fatal(err)
	}

	if got := DetectConfigPath(); got != configPath {
		t.Errorf("DetectConfigPath() = %q, want %q", got, configPath)
	}
}

// TestLoad_ValidConfig tests loading a valid config file.
func TestLoad_ValidConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	configContent := `
[api]
base_url = "https://spurs.example.com/api"
timeout_seconds = 30

[dashboard]
user_id = "ops-oncall"
fanout = 4

[preferences]
has_seen_welcome = true

[logging]
format = "json"
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.API.BaseURL != "https://spurs.example.com/api" {
		t.Errorf("expected api.base_url from file, got %q", cfg.API.BaseURL)
	}
	if cfg.API.TimeoutSeconds != 30 {
		t.Errorf("expected api.timeout_seconds 30, got %d", cfg.API.TimeoutSeconds)
	}
	if cfg.Dashboard.UserID != "ops-oncall" {
		t.Errorf("expected dashboard.user_id 'ops-oncall', got %q", cfg.Dashboard.UserID)
	}
	if cfg.Dashboard.Fanout != 4 {
		t.Errorf("expected dashboard.fanout 4, got %d", cfg.Dashboard.Fanout)
	}
	if !cfg.Preferences.HasSeenWelcome {
		t.Error("expected preferences.has_seen_welcome true")
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("expected logging.format 'json', got %q", cfg.Logging.Format)
	}

	// Untouched sections keep defaults
	if cfg.API.TokenEnv != "SPURDECK_API_TOKEN" {
		t.Errorf("expected default api.token_env, got %q", cfg.API.TokenEnv)
	}
	if cfg.TUI.RefreshMillis != 500 {
		t.Errorf("expected default tui.refresh_millis, got %d", cfg.TUI.RefreshMillis)
	}
}

// TestLoad_InvalidTOML tests that invalid TOML returns error.
func TestLoad_InvalidTOML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	configContent := `
[api
base_url = "http://localhost"
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	_, err := Load(configPath)
	if err == nil {
		t.Fatal("expected error for invalid TOML config, got nil")
	}
	if !strings.Contains(err.Error(), "failed to parse") {
		t.Errorf("error should mention parsing failure, got: %v", err)
	}
	if _, ok := deckerrors.AsConfigError(err); !ok {
		t.Errorf("expected *ConfigError, got %T", err)
	}
}

// TestLoad_ValidationFailed tests that validation failures are returned.
func TestLoad_ValidationFailed(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	configContent := `
[logging]
level = "verbose"
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	_, err := Load(configPath)
	if err == nil {
		t.Fatal("expected error for invalid config, got nil")
	}
	if !deckerrors.IsInvalid(err) {
		t.Errorf("expected ErrInvalid, got: %v", err)
	}
	if !strings.Contains(err.Error(), "logging.level") {
		t.Errorf("error should name the field, got: %v", err)
	}
}

// TestLoad_FileNotExist tests that Load returns error for non-existent file.
func TestLoad_FileNotExist(t *testing.T) {
	_, err := Load("/nonexistent/path/config.toml")
	if err == nil {
		t.Fatal("expected error for non-existent file, got nil")
	}
	if !deckerrors.IsNotFound(err) {
		t.Errorf("error should be ErrNotFound, got: %v", err)
	}
}

// TestEnvOverrides tests environment variable overrides of each kind.
func TestEnvOverrides(t *testing.T) {
	t.Setenv("SPURDECK_API_BASE_URL", "https://override.example.com/api")
	t.Setenv("SPURDECK_API_RATE_LIMIT", "2.5")
	t.Setenv("SPURDECK_DASHBOARD_FANOUT", "3")
	t.Setenv("SPURDECK_TUI_ENABLED", "off")
	t.Setenv("SPURDECK_PREFERENCES_HAS_SEEN_WELCOME", "yes")
	t.Setenv("SPURDECK_LOGGING_LEVEL", "debug")

	cfg := DefaultConfig()
	applyEnvOverrides(cfg)

	if cfg.API.BaseURL != "https://override.example.com/api" {
		t.Errorf("api.base_url = %q", cfg.API.BaseURL)
	}
	if cfg.API.RateLimit != 2.5 {
		t.Errorf("api.rate_limit = %v", cfg.API.RateLimit)
	}
	if cfg.Dashboard.Fanout != 3 {
		t.Errorf("dashboard.fanout = %d", cfg.Dashboard.Fanout)
	}
	if cfg.TUI.Enabled {
		t.Error("tui.enabled should be false")
	}
	if !cfg.Preferences.HasSeenWelcome {
		t.Error("preferences.has_seen_welcome should be true")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("logging.level = %q", cfg.Logging.Level)
	}
}

// TestEnvOverrides_IgnoresGarbage tests that unparseable and empty values are skipped.
func TestEnvOverrides_IgnoresGarbage(t *testing.T) {
	t.Setenv("SPURDECK_DASHBOARD_FANOUT", "many")
	t.Setenv("SPURDECK_TUI_ENABLED", "maybe")
	t.Setenv("SPURDECK_DASHBOARD_USER_ID", "")

	cfg := DefaultConfig()
	applyEnvOverrides(cfg)

	if cfg.Dashboard.Fanout != 10 {
		t.Errorf("dashboard.fanout = %d, want default", cfg.Dashboard.Fanout)
	}
	if !cfg.TUI.Enabled {
		t.Error("tui.enabled should keep its default")
	}
	if cfg.Dashboard.UserID != "current-user" {
		t.Errorf("dashboard.user_id = %q, want default", cfg.Dashboard.UserID)
	}
}

// TestLoad_WithEnvOverrides tests that env overrides win over the file.
func TestLoad_WithEnvOverrides(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	configContent := `
[dashboard]
user_id = "from-file"
fanout = 2
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	t.Setenv("SPURDECK_DASHBOARD_USER_ID", "from-env")

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.Dashboard.UserID != "from-env" {
		t.Errorf("expected dashboard.user_id from env override, got %q", cfg.Dashboard.UserID)
	}
	if cfg.Dashboard.Fanout != 2 {
		t.Errorf("expected dashboard.fanout from config, got %d", cfg.Dashboard.Fanout)
	}
}

// TestExpandHome tests tilde expansion of the log file path.
func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg := DefaultConfig()
	cfg.Logging.File = "~/logs/spurdeck.log"
	expandPath(cfg)

	if want := filepath.Join(home, "logs", "spurdeck.log"); cfg.Logging.File != want {
		t.Errorf("logging.file = %q, want %q", cfg.Logging.File, want)
	}
	if got := ExpandHome("/var/log/x.log"); got != "/var/log/x.log" {
		t.Errorf("ExpandHome(abs) = %q", got)
	}
}

// TestWriteAndPreferences tests that MarkWelcomeSeen persists through Write.
func TestWriteAndPreferences(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg := DefaultConfig()
	cfg.Dashboard.UserID = "writer"
	if err := Write(configPath, cfg); err != nil {
		t.Fatalf("Write() returned error: %v", err)
	}

	prefs := NewPreferences(cfg, configPath)
	if prefs.HasSeenWelcome() {
		t.Fatal("HasSeenWelcome() should start false")
	}
	if err := prefs.MarkWelcomeSeen(); err != nil {
		t.Fatalf("MarkWelcomeSeen() returned error: %v", err)
	}

	reloaded, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if !reloaded.Preferences.HasSeenWelcome {
		t.Error("has_seen_welcome was not persisted")
	}
	if reloaded.Dashboard.UserID != "writer" {
		t.Errorf("dashboard.user_id = %q, want 'writer'", reloaded.Dashboard.UserID)
	}

	memOnly := NewPreferences(DefaultConfig(), "")
	if err := memOnly.MarkWelcomeSeen(); err != nil {
		t.Fatalf("in-memory MarkWelcomeSeen() returned error: %v", err)
	}
	if !memOnly.HasSeenWelcome() {
		t.Error("in-memory preference not recorded")
	}
}
