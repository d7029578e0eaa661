package cli

import (
	"context"

	"github.com/spf13/cobra"
)

// NewDuplicateCommand creates the duplicate command.
func NewDuplicateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "duplicate <workflow-id>",
		Aliases: []string{"dup", "cp"},
		Short:   "Copy a saved spur",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd, func(ctx context.Context, rt *Runtime) error {
				return runDuplicate(ctx, rt, args[0])
			})
		},
	}

	return cmd
}

func runDuplicate(ctx context.Context, rt *Runtime, id string) error {
	w := rt.Workflows()
	defer w.Close()

	wf, err := w.Duplicate(ctx, id)
	if err != nil {
		return err
	}
	printCreated(rt, "Duplicated as", wf)
	return nil
}
