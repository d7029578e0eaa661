package cli

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/chazuruo/spurdeck/internal/dashboard"
	"github.com/chazuruo/spurdeck/internal/tui"
)

// runDashboard is replaced in tests.
var runDashboard = tui.RunDashboard

// NewDashboardCommand creates the dashboard command.
func NewDashboardCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "dashboard",
		Aliases: []string{"ui"},
		Short:   "Open the interactive dashboard",
		Long: `Open the interactive dashboard: recent spurs, runs awaiting approval and
starter templates on one screen.

This is also what 'spurdeck' runs without a subcommand in a terminal.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunDashboard(cmd)
		},
	}

	return cmd
}

// RunDashboard opens the dashboard, or explains why it cannot.
func RunDashboard(cmd *cobra.Command) error {
	return withRuntime(cmd, func(ctx context.Context, rt *Runtime) error {
		if !rt.Interactive {
			return errors.New("the dashboard needs a terminal; use 'spurdeck list' and 'spurdeck paused' instead")
		}
		if !rt.Config.TUI.Enabled {
			return errors.New("the dashboard is disabled by tui.enabled = false")
		}
		return launchDashboard(ctx, rt)
	})
}

// RunDefault is the root command's action: the dashboard when attached to a
// terminal with the TUI enabled, otherwise help.
func RunDefault(cmd *cobra.Command) error {
	if !IsInteractive() {
		return cmd.Help()
	}
	return withRuntime(cmd, func(ctx context.Context, rt *Runtime) error {
		if !rt.Interactive || !rt.Config.TUI.Enabled {
			return cmd.Help()
		}
		return launchDashboard(ctx, rt)
	})
}

func launchDashboard(ctx context.Context, rt *Runtime) error {
	d := dashboard.New(rt.Service, rt.Prefs, &dashboard.MemoryKeyCache{}, rt.Options())
	return runDashboard(ctx, d, tui.DashboardOptions{
		Clock:      rt.Clock,
		Refresh:    time.Duration(rt.Config.TUI.RefreshMillis) * time.Millisecond,
		Theme:      rt.Config.TUI.Theme,
		ShowHelp:   rt.Config.TUI.ShowHelp,
		EditorLink: rt.EditorLink,
	})
}
