// Package cli provides Cobra command definitions for spurdeck.
package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/chazuruo/spurdeck/internal/spurs"
	"github.com/chazuruo/spurdeck/internal/tui"
)

// ListOptions contains the options for the list command.
type ListOptions struct {
	All    bool
	Format string
}

// listItem is a workflow with its most recent runs, as emitted by list.
type listItem struct {
	spurs.Workflow `yaml:",inline"`
	RecentRuns     []spurs.Run `json:"recent_runs" yaml:"recent_runs"`
}

// NewListCommand creates the list command for listing workflows.
func NewListCommand() *cobra.Command {
	opts := &ListOptions{}

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List saved spurs with their recent runs",
		Long: `List saved workflows and chatbots, most recently modified first.

Each spur is shown with up to five of its most recent runs. Only the first
page is fetched unless --all is given.

Examples:
  spurdeck list                  # First page in table format
  spurdeck list --all            # Every page
  spurdeck list --format json    # JSON output`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd, func(ctx context.Context, rt *Runtime) error {
				return runList(ctx, rt, opts)
			})
		},
	}

	cmd.Flags().BoolVarP(&opts.All, "all", "a", false, "fetch every page")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "table", "output format (table, json, yaml, plain)")

	return cmd
}

func runList(ctx context.Context, rt *Runtime, opts *ListOptions) error {
	format, err := parseOutputFormat(opts.Format)
	if err != nil {
		return err
	}

	w := rt.Workflows()
	defer w.Close()

	if err := w.Load(ctx); err != nil {
		return err
	}
	for opts.All && w.Snapshot().Cursor.HasMore {
		before := len(w.Snapshot().Workflows)
		if err := w.LoadMore(ctx); err != nil {
			return err
		}
		if len(w.Snapshot().Workflows) == before {
			break
		}
	}

	snap := w.Snapshot()
	items := make([]listItem, len(snap.Workflows))
	for i, wf := range snap.Workflows {
		runs := snap.RunsFor(wf.ID)
		if runs == nil {
			runs = []spurs.Run{}
		}
		items[i] = listItem{Workflow: wf, RecentRuns: runs}
	}

	switch format {
	case FormatJSON:
		return writeJSON(rt.Out, items)
	case FormatYAML:
		return writeYAML(rt.Out, items)
	case FormatPlain:
		printListPlain(rt.Out, items, rt.TraceLink)
	default:
		printListTable(rt.Out, items, rt.Clock.Now())
	}

	if snap.Cursor.HasMore && !opts.All {
		fmt.Fprintln(rt.Err, "More spurs available; use --all to fetch every page.")
	}
	if snap.ShowWelcome {
		fmt.Fprintln(rt.Err, "No spurs yet. Create one with 'spurdeck new' or start from 'spurdeck templates'.")
	}
	return nil
}

func printListTable(out io.Writer, items []listItem, now time.Time) {
	if len(items) == 0 {
		fmt.Fprintln(out, "No spurs found.")
		return
	}

	tbl := newTable(out, "ID", "Name", "Type", "Recent Runs", "Last Modified")
	for _, it := range items {
		tbl.AddRow(it.ID, tui.Truncate(it.Name, 40), it.SpurType().Label(), tui.RunSummary(it.RecentRuns), tui.Ago(now, it.UpdatedAt))
	}
	tbl.Print()

	fmt.Fprintf(out, "\nTotal: %d spur(s)\n", len(items))
}

func printListPlain(out io.Writer, items []listItem, traceLink func(string) string) {
	if len(items) == 0 {
		fmt.Fprintln(out, "No spurs found.")
		return
	}

	for i, it := range items {
		fmt.Fprintf(out, "%d. %s (%s)\n", i+1, it.Name, it.ID)
		fmt.Fprintf(out, "   Type: %s\n", it.SpurType().Label())
		if !it.UpdatedAt.IsZero() {
			fmt.Fprintf(out, "   Updated: %s\n", it.UpdatedAt.Format(time.RFC3339))
		}
		fmt.Fprintf(out, "   Recent runs: %s\n", tui.RunSummary(it.RecentRuns))
		for _, run := range it.RecentRuns {
			if link := traceLink(run.ID); link != "" {
				fmt.Fprintf(out, "     %s %s %s\n", run.ID, run.Status, link)
			}
		}
		fmt.Fprintln(out)
	}

	fmt.Fprintf(out, "Total: %d spur(s)\n", len(items))
}
