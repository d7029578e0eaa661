package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/chazuruo/spurdeck/internal/tui"
)

// ResumeOptions contains the options for the resume command.
type ResumeOptions struct {
	Action   string
	Inputs   string
	Comments string
}

// NewResumeCommand creates the resume command.
func NewResumeCommand() *cobra.Command {
	opts := &ResumeOptions{}

	cmd := &cobra.Command{
		Use:   "resume <run-id>",
		Short: "Resume a paused run with a detailed decision",
		Long: `Resume a paused run with an action, optional inputs and comments.

Without --action a form is shown when running in a terminal.

Examples:
  spurdeck resume run_42                  # Interactive form
  spurdeck resume run_42 --action override --inputs '{"approved_amount": 40}' \
      --comment "partial refund"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd, func(ctx context.Context, rt *Runtime) error {
				return runResume(ctx, rt, args[0], opts)
			})
		},
	}

	cmd.Flags().StringVarP(&opts.Action, "action", "a", "", "decision (approve, decline, override)")
	cmd.Flags().StringVarP(&opts.Inputs, "inputs", "i", "", "decision inputs as a JSON object")
	cmd.Flags().StringVarP(&opts.Comments, "comment", "m", "", "comment attached to the decision")

	return cmd
}

func runResume(ctx context.Context, rt *Runtime, runID string, opts *ResumeOptions) error {
	p := rt.Paused()
	defer p.Close()

	pw, err := findPaused(ctx, p, runID)
	if err != nil {
		return err
	}

	in := tui.DecisionInput{Action: opts.Action, Inputs: opts.Inputs, Comments: opts.Comments}
	if in.Action == "" {
		if !rt.Interactive {
			return errors.New("--action is required when not running in a terminal")
		}
		p.Open(pw)
		err := tui.NewDecisionForm(pw, &in).RunWithContext(ctx)
		if errors.Is(err, huh.ErrUserAborted) {
			p.CloseDialog()
			fmt.Fprintln(rt.Err, "Aborted.")
			return nil
		}
		if err != nil {
			p.CloseDialog()
			return err
		}
	}

	action, inputs, err := in.Parse()
	if err != nil {
		return err
	}
	return p.DetailedDecision(ctx, pw, action, inputs, in.Comments)
}
