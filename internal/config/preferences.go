package config

import (
	"sync"
)

// Preferences exposes the [preferences] section of a loaded config and
// persists changes back to the file it came from.
type Preferences struct {
	mu   sync.Mutex
	cfg  *Config
	path string
}

// NewPreferences returns Preferences backed by cfg. When path is empty,
// changes are kept in memory only.
func NewPreferences(cfg *Config, path string) *Preferences {
	return &Preferences{cfg: cfg, path: path}
}

// HasSeenWelcome reports whether the welcome banner was dismissed before.
func (p *Preferences) HasSeenWelcome() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cfg.Preferences.HasSeenWelcome
}

// MarkWelcomeSeen records that the welcome banner was dismissed and writes the
// config back to disk.
func (p *Preferences) MarkWelcomeSeen() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cfg.Preferences.HasSeenWelcome {
		return nil
	}
	p.cfg.Preferences.HasSeenWelcome = true
	if p.path == "" {
		return nil
	}
	return Write(p.path, p.cfg)
}

// Path returns the file preferences are written to.
func (p *Preferences) Path() string { return p.path }
