package cli

import (
	"context"

	"github.com/spf13/cobra"
)

// CancelOptions contains the options for the cancel command.
type CancelOptions struct {
	Yes bool
}

// NewCancelCommand creates the cancel command.
func NewCancelCommand() *cobra.Command {
	opts := &CancelOptions{}

	cmd := &cobra.Command{
		Use:   "cancel <run-id>",
		Short: "Cancel a paused run",
		Long: `Cancel a paused run after confirmation. This cannot be undone.

Without a terminal the command refuses to run unless --yes is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd, func(ctx context.Context, rt *Runtime) error {
				return runCancel(ctx, rt, args[0], opts)
			})
		},
	}

	cmd.Flags().BoolVarP(&opts.Yes, "yes", "y", false, "skip the confirmation prompt")

	return cmd
}

func runCancel(ctx context.Context, rt *Runtime, runID string, opts *CancelOptions) error {
	p := rt.Paused()
	defer p.Close()

	pw, err := findPaused(ctx, p, runID)
	if err != nil {
		return err
	}
	return aborted(rt, p.Cancel(ctx, pw, rt.Confirmer(opts.Yes)))
}
