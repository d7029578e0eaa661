package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	deckerrors "github.com/chazuruo/spurdeck/internal/errors"
	"github.com/chazuruo/spurdeck/internal/spurs"
)

// DeleteOptions contains the options for the delete command.
type DeleteOptions struct {
	Yes bool
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand() *cobra.Command {
	opts := &DeleteOptions{}

	cmd := &cobra.Command{
		Use:     "delete <workflow-id>",
		Aliases: []string{"rm"},
		Short:   "Delete a saved spur",
		Long: `Delete a saved spur after confirmation.

Without a terminal the command refuses to run unless --yes is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd, func(ctx context.Context, rt *Runtime) error {
				return runDelete(ctx, rt, args[0], opts)
			})
		},
	}

	cmd.Flags().BoolVarP(&opts.Yes, "yes", "y", false, "skip the confirmation prompt")

	return cmd
}

func runDelete(ctx context.Context, rt *Runtime, id string, opts *DeleteOptions) error {
	wf := spurs.Workflow{ID: id, Name: id}
	found, err := rt.Service.GetWorkflow(ctx, id)
	switch {
	case err == nil && found != nil:
		wf = *found
		if wf.Name == "" {
			wf.Name = id
		}
	case deckerrors.IsNotFound(err):
		return fmt.Errorf("workflow %q not found: %w", id, err)
	case err != nil:
		rt.Logger.Debug("could not resolve workflow name", zap.String("workflow_id", id), zap.Error(err))
	}

	w := rt.Workflows()
	defer w.Close()

	if err := w.Delete(ctx, wf, rt.Confirmer(opts.Yes)); err != nil {
		return aborted(rt, err)
	}
	fmt.Fprintf(rt.Out, "Deleted %q (%s)\n", wf.Name, wf.ID)
	return nil
}
