package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chazuruo/spurdeck/internal/app"
)

// WhoamiOptions contains the options for the whoami command.
type WhoamiOptions struct {
	JSON bool
}

// NewWhoamiCommand creates the whoami command.
func NewWhoamiCommand() *cobra.Command {
	opts := &WhoamiOptions{}

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Display the active configuration",
		Long: `Display the config file in use, the backend URL, the user id attached to
decisions and whether an API token is present.

By default, output is in plain text format. Use --json for JSON output.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWhoami(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.JSON, "json", false, "output in JSON format")

	return cmd
}

func runWhoami(cmd *cobra.Command, opts *WhoamiOptions) error {
	output, err := app.Whoami(ConfigPathFlag())
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	if opts.JSON {
		if err := app.PrintWhoamiJSON(cmd.OutOrStdout(), output); err != nil {
			return fmt.Errorf("failed to output JSON: %w", err)
		}
		return nil
	}

	app.PrintWhoami(cmd.OutOrStdout(), output)
	return nil
}
