package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chazuruo/spurdeck/internal/dashboard"
)

// NewKeysCommand creates the keys command.
func NewKeysCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Show which API keys are configured",
		Long: `Show the API keys stored by the backend. Values are masked.

A warning is printed when no key has a value, since most nodes need at
least one provider key to run.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd, runKeys)
		},
	}

	return cmd
}

func runKeys(ctx context.Context, rt *Runtime) error {
	keys := dashboard.NewAPIKeys(rt.Service, nil, rt.Options())
	defer keys.Close()

	if err := keys.Load(ctx); err != nil {
		return err
	}
	status := keys.Status()

	if len(status.Keys) > 0 {
		tbl := newTable(rt.Out, "Name", "Value")
		for _, k := range status.Keys {
			value := k.Masked()
			if !k.Set() {
				value = "(not set)"
			}
			tbl.AddRow(k.Name, value)
		}
		tbl.Print()
	}

	if status.Missing() {
		rt.Sink().Notify(dashboard.MsgNoAPIKeys, dashboard.SeverityWarning)
	} else {
		fmt.Fprintf(rt.Err, "%d key(s) configured.\n", countSet(status))
	}
	return nil
}

func countSet(status dashboard.KeyStatus) int {
	n := 0
	for _, k := range status.Keys {
		if k.Set() {
			n++
		}
	}
	return n
}
