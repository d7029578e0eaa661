package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/facebookgo/clock"
)

func TestOpen_PrefsPersistToConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")
	if err := os.WriteFile(configPath, []byte("[dashboard]\nfanout = 3\n"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	s, err := Open(SessionOptions{ConfigPath: configPath, Interactive: true, SkipDotenv: true})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer s.Close()

	if got := s.Options(clock.NewMock()).Fanout; got != 3 {
		t.Errorf("Fanout = %d, want 3", got)
	}
	if s.Prefs.Path() != configPath {
		t.Errorf("Prefs.Path() = %q, want %q", s.Prefs.Path(), configPath)
	}

	if err := s.Prefs.MarkWelcomeSeen(); err != nil {
		t.Fatalf("MarkWelcomeSeen() error = %v", err)
	}

	reopened, err := Open(SessionOptions{ConfigPath: configPath, Interactive: true, SkipDotenv: true})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if !reopened.Prefs.HasSeenWelcome() {
		t.Error("welcome flag was not persisted")
	}
}

func TestOpen_DashboardUsesSessionClient(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	s, err := Open(SessionOptions{Interactive: true, SkipDotenv: true})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer s.Close()

	d := s.Dashboard(clock.NewMock())
	defer d.Close()
	if d.Workflows == nil || d.Paused == nil || d.Notifier == nil {
		t.Fatal("Dashboard() returned unwired controllers")
	}
}

func TestOpen_InvalidConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(configPath, []byte("[api]\nbase_url = \"ftp://nope\"\n"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	if _, err := Open(SessionOptions{ConfigPath: configPath, SkipDotenv: true}); err == nil {
		t.Error("Open() should reject an invalid config")
	}
}
