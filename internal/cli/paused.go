package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/chazuruo/spurdeck/internal/spurs"
	"github.com/chazuruo/spurdeck/internal/tui"
)

// PausedOptions contains the options for the paused command.
type PausedOptions struct {
	Format string
}

// NewPausedCommand creates the paused command.
func NewPausedCommand() *cobra.Command {
	opts := &PausedOptions{}

	cmd := &cobra.Command{
		Use:   "paused",
		Short: "List runs awaiting approval",
		Long: `List runs paused at a human-in-the-loop node.

Decide on a run with 'spurdeck approve', 'spurdeck decline', 'spurdeck resume'
or stop it with 'spurdeck cancel'.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd, func(ctx context.Context, rt *Runtime) error {
				return runPaused(ctx, rt, opts)
			})
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "table", "output format (table, json, yaml, plain)")

	return cmd
}

func runPaused(ctx context.Context, rt *Runtime, opts *PausedOptions) error {
	format, err := parseOutputFormat(opts.Format)
	if err != nil {
		return err
	}

	p := rt.Paused()
	defer p.Close()

	if err := p.Refresh(ctx); err != nil {
		return err
	}
	paused := p.Snapshot().Paused
	if paused == nil {
		paused = []spurs.PausedWorkflow{}
	}

	switch format {
	case FormatJSON:
		return writeJSON(rt.Out, paused)
	case FormatYAML:
		return writeYAML(rt.Out, paused)
	case FormatPlain:
		printPausedPlain(rt, paused)
	default:
		printPausedTable(rt.Out, paused, rt.Clock.Now())
	}
	return nil
}

func pausedName(pw spurs.PausedWorkflow) string {
	if pw.Workflow.Name != "" {
		return pw.Workflow.Name
	}
	return pw.Run.WorkflowID
}

func printPausedTable(out io.Writer, paused []spurs.PausedWorkflow, now time.Time) {
	if len(paused) == 0 {
		fmt.Fprintln(out, "No runs are awaiting approval.")
		return
	}

	tbl := newTable(out, "Run", "Workflow", "Node", "Message", "Paused")
	for _, pw := range paused {
		tbl.AddRow(pw.RunID(), tui.Truncate(pausedName(pw), 30), pw.CurrentPause.NodeID, tui.Truncate(pw.CurrentPause.Message, 50), tui.Ago(now, pw.CurrentPause.PauseTime))
	}
	tbl.Print()
}

func printPausedPlain(rt *Runtime, paused []spurs.PausedWorkflow) {
	if len(paused) == 0 {
		fmt.Fprintln(rt.Out, "No runs are awaiting approval.")
		return
	}

	for i, pw := range paused {
		fmt.Fprintf(rt.Out, "%d. %s (run %s)\n", i+1, pausedName(pw), pw.RunID())
		fmt.Fprintf(rt.Out, "   Node: %s\n", pw.CurrentPause.NodeID)
		if pw.CurrentPause.Message != "" {
			fmt.Fprintf(rt.Out, "   Message: %s\n", pw.CurrentPause.Message)
		}
		if !pw.CurrentPause.PauseTime.IsZero() {
			fmt.Fprintf(rt.Out, "   Paused: %s\n", pw.CurrentPause.PauseTime.Format(time.RFC3339))
		}
		if link := rt.TraceLink(pw.RunID()); link != "" {
			fmt.Fprintf(rt.Out, "   Trace: %s\n", link)
		}
		fmt.Fprintln(rt.Out)
	}
}

// NewApproveCommand creates the approve command.
func NewApproveCommand() *cobra.Command {
	return newQuickDecisionCommand(spurs.ActionApprove)
}

// NewDeclineCommand creates the decline command.
func NewDeclineCommand() *cobra.Command {
	return newQuickDecisionCommand(spurs.ActionDecline)
}

func newQuickDecisionCommand(action spurs.PauseAction) *cobra.Command {
	verb := strings.ToLower(string(action))
	return &cobra.Command{
		Use:   verb + " <run-id>",
		Short: fmt.Sprintf("Resume a paused run with %s", action),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd, func(ctx context.Context, rt *Runtime) error {
				p := rt.Paused()
				defer p.Close()

				pw, err := findPaused(ctx, p, args[0])
				if err != nil {
					return err
				}
				return p.QuickDecision(ctx, pw, action)
			})
		},
	}
}
