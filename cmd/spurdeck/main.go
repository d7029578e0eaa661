package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/chazuruo/spurdeck/internal/cli"
	"github.com/spf13/cobra"
)

// Version is set at build time using ldflags
var Version = "dev"

// Commit is set at build time using ldflags
var Commit = "unknown"

// Date is set at build time using ldflags
var Date = "unknown"

func main() {
	rootCmd := &cobra.Command{
		Use:   "spurdeck",
		Short: "Terminal dashboard for spurs workflows",
		Long: `spurdeck is a terminal front end for a spurs workflow backend.

Run it without a subcommand to open the dashboard: recent workflows and
chatbots with their latest runs, runs waiting on a human decision, and
starter templates. Every dashboard action is also available as a command.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.RunDefault(cmd)
		},
	}

	// Add global flags
	cli.AddGlobalFlags(rootCmd)

	rootCmd.CompletionOptions.DisableDefaultCmd = true

	// Add subcommands
	rootCmd.AddCommand(cli.NewDashboardCommand())
	rootCmd.AddCommand(cli.NewListCommand())
	rootCmd.AddCommand(cli.NewNewCommand())
	rootCmd.AddCommand(cli.NewImportCommand())
	rootCmd.AddCommand(cli.NewDuplicateCommand())
	rootCmd.AddCommand(cli.NewDeleteCommand())
	rootCmd.AddCommand(cli.NewExportCommand())
	rootCmd.AddCommand(cli.NewPausedCommand())
	rootCmd.AddCommand(cli.NewApproveCommand())
	rootCmd.AddCommand(cli.NewDeclineCommand())
	rootCmd.AddCommand(cli.NewResumeCommand())
	rootCmd.AddCommand(cli.NewCancelCommand())
	rootCmd.AddCommand(cli.NewTemplatesCommand())
	rootCmd.AddCommand(cli.NewKeysCommand())
	rootCmd.AddCommand(cli.NewWhoamiCommand())
	rootCmd.AddCommand(cli.NewVersionCommand(Version, Commit, Date))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
