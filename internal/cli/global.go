// Package cli provides global state and utilities for CLI commands.
package cli

import (
	"os"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	// NoTUI indicates that TUI/interactive mode should be disabled.
	// This is set by the global --no-tui flag.
	NoTUI bool

	// ConfigPath overrides config file detection.
	// This is set by the global --config flag.
	ConfigPath string

	// globalMutex protects the global flag values for concurrent access.
	globalMutex sync.RWMutex
)

// AddGlobalFlags adds global flags to a command.
func AddGlobalFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().BoolVar(&NoTUI, "no-tui", false,
		"disable TUI/interactive mode; use plain text or JSON output")
	cmd.PersistentFlags().StringVar(&ConfigPath, "config", "",
		"config file path (default: $XDG_CONFIG_HOME/spurdeck/config.toml or ~/.config/spurdeck/config.toml)")
}

// IsNoTUI returns true if TUI mode is disabled.
func IsNoTUI() bool {
	globalMutex.RLock()
	defer globalMutex.RUnlock()
	return NoTUI
}

// ConfigPathFlag returns the --config value.
func ConfigPathFlag() string {
	globalMutex.RLock()
	defer globalMutex.RUnlock()
	return ConfigPath
}

// IsInteractive reports whether prompts and the dashboard may take over the
// terminal.
func IsInteractive() bool {
	return !IsNoTUI() && term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}
