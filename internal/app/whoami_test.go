package app

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWhoami(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	configContent := `
[api]
base_url = "https://spurs.example.com/api/"
token_env = "WHOAMI_TEST_TOKEN"

[dashboard]
user_id = "ops-oncall"

[logging]
level = "debug"
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	t.Setenv("WHOAMI_TEST_TOKEN", "secret")

	output, err := Whoami(configPath)
	if err != nil {
		t.Fatalf("Whoami() error = %v", err)
	}

	if output.ConfigPath != configPath {
		t.Errorf("ConfigPath = %q, want %q", output.ConfigPath, configPath)
	}
	if output.BaseURL != "https://spurs.example.com/api" {
		t.Errorf("BaseURL = %q", output.BaseURL)
	}
	if output.UserID != "ops-oncall" {
		t.Errorf("UserID = %q", output.UserID)
	}
	if !output.TokenSet {
		t.Error("TokenSet = false, want true")
	}
	if output.LogLevel != "debug" {
		t.Errorf("LogLevel = %q", output.LogLevel)
	}
}

func TestWhoami_Defaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	output, err := Whoami("")
	if err != nil {
		t.Fatalf("Whoami() error = %v", err)
	}
	if output.ConfigPath != "(defaults)" {
		t.Errorf("ConfigPath = %q", output.ConfigPath)
	}
	if output.UserID != "current-user" {
		t.Errorf("UserID = %q", output.UserID)
	}
}

func TestWhoami_MissingFile(t *testing.T) {
	if _, err := Whoami(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("Whoami() should fail for a missing explicit config")
	}
}

func TestPrintWhoami(t *testing.T) {
	out := &WhoamiOutput{
		ConfigPath: "/tmp/config.toml",
		BaseURL:    "http://localhost:6080/api",
		UserID:     "current-user",
		TokenEnv:   "SPURDECK_API_TOKEN",
	}

	var buf bytes.Buffer
	PrintWhoami(&buf, out)
	for _, want := range []string{"Config: /tmp/config.toml", "API: http://localhost:6080/api", "Token: $SPURDECK_API_TOKEN (not set)"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("output missing %q:\n%s", want, buf.String())
		}
	}

	buf.Reset()
	if err := PrintWhoamiJSON(&buf, out); err != nil {
		t.Fatalf("PrintWhoamiJSON() error = %v", err)
	}
	var decoded WhoamiOutput
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if decoded.UserID != "current-user" {
		t.Errorf("decoded UserID = %q", decoded.UserID)
	}
}
