// Package app wires configuration, logging and the backend client into the
// objects the commands and the TUI operate on.
package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/facebookgo/clock"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/chazuruo/spurdeck/internal/api"
	"github.com/chazuruo/spurdeck/internal/config"
	"github.com/chazuruo/spurdeck/internal/dashboard"
	"github.com/chazuruo/spurdeck/internal/logger"
)

// SessionOptions controls how a Session is opened.
type SessionOptions struct {
	// ConfigPath overrides config detection.
	ConfigPath string
	// Interactive discards log output unless [logging].file is set, so the
	// TUI owns the terminal.
	Interactive bool
	// SkipDotenv disables best-effort .env loading.
	SkipDotenv bool
}

// Session holds the collaborators shared by one invocation.
type Session struct {
	Config     *config.Config
	ConfigPath string
	Logger     *zap.Logger
	Client     *api.Client
	Prefs      *config.Preferences
}

// Open loads .env and the config, builds the logger and the API client.
// Without an explicit or detected config file the defaults are used and
// preferences are written to the default config path.
func Open(opts SessionOptions) (*Session, error) {
	if !opts.SkipDotenv {
		loadDotenvBestEffort()
	}

	path := opts.ConfigPath
	if path == "" {
		path = config.DetectConfigPath()
	}

	cfg, err := config.LoadFrom(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	prefsPath := path
	if prefsPath == "" {
		prefsPath = config.DefaultConfigPath()
	}

	var log *zap.Logger
	if opts.Interactive && cfg.Logging.File == "" {
		log = logger.Nop()
	} else {
		log, err = logger.New(cfg.Logging)
		if err != nil {
			return nil, fmt.Errorf("failed to create logger: %w", err)
		}
	}

	return &Session{
		Config:     cfg,
		ConfigPath: path,
		Logger:     log,
		Client:     api.NewFromConfig(cfg.API, log),
		Prefs:      config.NewPreferences(cfg, prefsPath),
	}, nil
}

// Options returns the controller options derived from the config.
func (s *Session) Options(clk clock.Clock) dashboard.Options {
	return dashboard.Options{
		Clock:  clk,
		Logger: s.Logger,
		Fanout: s.Config.Dashboard.Fanout,
		UserID: s.Config.Dashboard.UserID,
	}
}

// Dashboard builds a Dashboard backed by the session's client.
func (s *Session) Dashboard(clk clock.Clock) *dashboard.Dashboard {
	return dashboard.New(s.Client, s.Prefs, &dashboard.MemoryKeyCache{}, s.Options(clk))
}

// Close flushes the logger.
func (s *Session) Close() {
	_ = s.Logger.Sync()
}

func loadDotenvBestEffort() {
	if dir := os.Getenv("SPURDECK_ENV_DIR"); dir != "" {
		_ = godotenv.Load(filepath.Join(dir, ".env"))
		return
	}
	_ = godotenv.Load()
}
