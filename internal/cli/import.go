package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// NewImportCommand creates the import command.
func NewImportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a workflow from a JSON file",
		Long: `Create a spur from an exported JSON document.

The document must contain "name" and "definition"; "description" is optional.
Use - to read the document from stdin.

Examples:
  spurdeck import ticket-triage.json
  cat ticket-triage.json | spurdeck import -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd, func(ctx context.Context, rt *Runtime) error {
				return runImport(ctx, rt, cmd.InOrStdin(), args[0])
			})
		},
	}

	return cmd
}

func runImport(ctx context.Context, rt *Runtime, stdin io.Reader, path string) error {
	w := rt.Workflows()
	defer w.Close()

	if path == "-" {
		raw, err := io.ReadAll(stdin)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		wf, err := w.Import(ctx, raw)
		if err != nil {
			return err
		}
		printCreated(rt, "Imported", wf)
		return nil
	}

	wf, err := w.ImportFile(ctx, path)
	if err != nil {
		return err
	}
	printCreated(rt, "Imported", wf)
	return nil
}
