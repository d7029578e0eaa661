package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chazuruo/spurdeck/internal/spurs"
)

// NewOptions contains the options for the new command.
type NewOptions struct {
	Type string
}

// NewNewCommand creates the new command.
func NewNewCommand() *cobra.Command {
	opts := &NewOptions{}

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create an empty workflow or chatbot",
		Long: `Create an empty spur named after the current time and print its editor link.

Examples:
  spurdeck new                 # New workflow
  spurdeck new --type chatbot  # New chatbot`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd, func(ctx context.Context, rt *Runtime) error {
				return runNew(ctx, rt, opts)
			})
		},
	}

	cmd.Flags().StringVarP(&opts.Type, "type", "t", "workflow", "spur type (workflow, chatbot)")

	return cmd
}

func runNew(ctx context.Context, rt *Runtime, opts *NewOptions) error {
	t, err := spurs.ParseSpurType(opts.Type)
	if err != nil {
		return err
	}

	w := rt.Workflows()
	defer w.Close()

	wf, err := w.Create(ctx, t)
	if err != nil {
		return err
	}
	printCreated(rt, "Created", wf)
	return nil
}

// printCreated reports a newly created workflow and where to edit it.
func printCreated(rt *Runtime, verb string, wf *spurs.Workflow) {
	fmt.Fprintf(rt.Out, "%s %s %q (%s)\n", verb, wf.SpurType().Label(), wf.Name, wf.ID)
	if link := rt.EditorLink(wf.ID); link != "" {
		fmt.Fprintf(rt.Out, "Edit: %s\n", link)
	}
}
