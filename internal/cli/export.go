package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chazuruo/spurdeck/internal/export"
)

// ExportOptions contains the options for the export command.
type ExportOptions struct {
	Format         string
	Out            string
	CustomTemplate string
}

// NewExportCommand creates the export command.
func NewExportCommand() *cobra.Command {
	opts := &ExportOptions{}

	cmd := &cobra.Command{
		Use:   "export <workflow-id>",
		Short: "Export a spur to a file",
		Long: `Export a saved spur to JSON, YAML or Markdown.

JSON exports can be re-imported with 'spurdeck import'. Without --output the
export is written to a file named after the spur (e.g. ticket-triage.json).
Use --output - to print to stdout.

Template locations for Markdown (searched in order):
1. --template <file>
2. ~/.config/spurdeck/templates/export.md
3. Built-in template

Examples:
  spurdeck export wf_123                      # ticket-triage.json
  spurdeck export wf_123 --format yaml        # ticket-triage.yaml
  spurdeck export wf_123 --format md --output -  # Markdown to stdout`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd, func(ctx context.Context, rt *Runtime) error {
				return runExport(ctx, rt, args[0], opts)
			})
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "json", "output format (json, yaml, md)")
	cmd.Flags().StringVarP(&opts.Out, "output", "o", "", "output path, - for stdout (default: <spur-name>.<format>)")
	cmd.Flags().StringVarP(&opts.CustomTemplate, "template", "t", "", "custom Markdown template file")

	return cmd
}

func runExport(ctx context.Context, rt *Runtime, id string, opts *ExportOptions) error {
	format, err := export.ParseFormat(opts.Format)
	if err != nil {
		return err
	}

	exporter, err := export.NewExporter(export.Options{
		Format:         format,
		CustomTemplate: opts.CustomTemplate,
	})
	if err != nil {
		return fmt.Errorf("failed to create exporter: %w", err)
	}

	wf, err := rt.Service.GetWorkflow(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load workflow: %w", err)
	}

	if opts.Out == "-" {
		output, err := exporter.Export(*wf)
		if err != nil {
			return fmt.Errorf("failed to export workflow: %w", err)
		}
		fmt.Fprint(rt.Out, output)
		return nil
	}

	path := opts.Out
	if path == "" {
		path = exporter.DefaultFileName(*wf)
	}
	if err := exporter.ExportToFile(*wf, path); err != nil {
		return fmt.Errorf("failed to export workflow: %w", err)
	}
	fmt.Fprintf(rt.Out, "Exported %q to %s\n", wf.Name, path)
	return nil
}
