package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	deckerrors "github.com/chazuruo/spurdeck/internal/errors"
	"github.com/chazuruo/spurdeck/internal/tui"
)

// TemplatesOptions contains the options for the templates list command.
type TemplatesOptions struct {
	Format string
}

// NewTemplatesCommand creates the templates command and its subcommands.
func NewTemplatesCommand() *cobra.Command {
	opts := &TemplatesOptions{}

	cmd := &cobra.Command{
		Use:     "templates",
		Aliases: []string{"template"},
		Short:   "Browse starter templates",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd, func(ctx context.Context, rt *Runtime) error {
				return runTemplatesList(ctx, rt, opts)
			})
		},
	}
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "table", "output format (table, json, yaml, plain)")

	list := &cobra.Command{
		Use:   "list",
		Short: "List starter templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd, func(ctx context.Context, rt *Runtime) error {
				return runTemplatesList(ctx, rt, opts)
			})
		},
	}
	list.Flags().StringVarP(&opts.Format, "format", "f", "table", "output format (table, json, yaml, plain)")

	use := &cobra.Command{
		Use:   "use <name>",
		Short: "Create a spur from a template",
		Long: `Create a spur from a starter template. The template is matched by name
or file name, case-insensitively.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd, func(ctx context.Context, rt *Runtime) error {
				return runTemplatesUse(ctx, rt, args[0])
			})
		},
	}

	cmd.AddCommand(list, use)
	return cmd
}

func runTemplatesList(ctx context.Context, rt *Runtime, opts *TemplatesOptions) error {
	format, err := parseOutputFormat(opts.Format)
	if err != nil {
		return err
	}

	t := rt.Templates()
	defer t.Close()

	if err := t.Load(ctx); err != nil {
		return err
	}
	templates := t.Snapshot().Templates

	switch format {
	case FormatJSON:
		return writeJSON(rt.Out, templates)
	case FormatYAML:
		return writeYAML(rt.Out, templates)
	}

	if len(templates) == 0 {
		fmt.Fprintln(rt.Out, "No templates available.")
		return nil
	}

	if format == FormatPlain {
		for _, tmpl := range templates {
			fmt.Fprintf(rt.Out, "%s (%s)\n", tmpl.Name, tmpl.FileName)
			if tmpl.Description != "" {
				fmt.Fprintf(rt.Out, "   %s\n", tmpl.Description)
			}
			if len(tmpl.Features) > 0 {
				fmt.Fprintf(rt.Out, "   Features: %s\n", strings.Join(tmpl.Features, ", "))
			}
		}
		return nil
	}

	tbl := newTable(rt.Out, "Name", "File", "Description", "Features")
	for _, tmpl := range templates {
		tbl.AddRow(tmpl.Name, tmpl.FileName, tui.Truncate(tmpl.Description, 50), strings.Join(tmpl.Features, ", "))
	}
	tbl.Print()
	return nil
}

func runTemplatesUse(ctx context.Context, rt *Runtime, name string) error {
	t := rt.Templates()
	defer t.Close()

	if err := t.Load(ctx); err != nil {
		return err
	}
	tmpl, ok := t.Snapshot().Find(name)
	if !ok {
		return fmt.Errorf("template %q: %w", name, deckerrors.ErrNotFound)
	}

	wf, err := t.Use(ctx, tmpl)
	if err != nil {
		return err
	}
	printCreated(rt, "Created", wf)
	return nil
}
