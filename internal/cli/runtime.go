package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/facebookgo/clock"
	"github.com/rodaine/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/chazuruo/spurdeck/internal/app"
	"github.com/chazuruo/spurdeck/internal/config"
	"github.com/chazuruo/spurdeck/internal/dashboard"
	deckerrors "github.com/chazuruo/spurdeck/internal/errors"
	"github.com/chazuruo/spurdeck/internal/spurs"
)

// errConfirmationRequired is returned when a destructive command needs a
// confirmation but nobody is at the terminal to give it.
var errConfirmationRequired = errors.New("confirmation required: re-run with --yes")

// Runtime is what a command needs to reach the backend and report back.
type Runtime struct {
	Config      *config.Config
	Service     dashboard.Service
	Prefs       dashboard.Preferences
	Logger      *zap.Logger
	Clock       clock.Clock
	Out         io.Writer
	Err         io.Writer
	Interactive bool

	close func()
}

// openRuntime opens the session for cmd. Tests replace it with a fake backend.
var openRuntime = func(cmd *cobra.Command) (*Runtime, error) {
	s, err := app.Open(app.SessionOptions{ConfigPath: ConfigPathFlag(), Interactive: true})
	if err != nil {
		return nil, err
	}
	return &Runtime{
		Config:      s.Config,
		Service:     s.Client,
		Prefs:       s.Prefs,
		Logger:      s.Logger,
		Clock:       clock.New(),
		Out:         cmd.OutOrStdout(),
		Err:         cmd.ErrOrStderr(),
		Interactive: IsInteractive(),
		close:       s.Close,
	}, nil
}

// Close releases the session.
func (r *Runtime) Close() {
	if r.close != nil {
		r.close()
	}
}

// Options returns the controller options for this runtime.
func (r *Runtime) Options() dashboard.Options {
	return dashboard.Options{
		Clock:  r.Clock,
		Logger: r.Logger,
		Fanout: r.Config.Dashboard.Fanout,
		UserID: r.Config.Dashboard.UserID,
	}
}

// Sink prints controller notifications to the error stream.
func (r *Runtime) Sink() dashboard.Sink {
	return printSink{w: r.Err}
}

// Workflows returns a workflow list controller that reports to Sink.
func (r *Runtime) Workflows() *dashboard.Workflows {
	return dashboard.NewWorkflows(r.Service, r.Sink(), r.Prefs, r.Options())
}

// Paused returns a paused run controller that reports to Sink.
func (r *Runtime) Paused() *dashboard.Paused {
	return dashboard.NewPaused(r.Service, r.Sink(), r.Options())
}

// Templates returns a template controller that reports to Sink.
func (r *Runtime) Templates() *dashboard.Templates {
	return dashboard.NewTemplates(r.Service, r.Sink(), r.Options())
}

// Confirmer returns the confirmation policy for a destructive command.
func (r *Runtime) Confirmer(yes bool) dashboard.Confirmer {
	if yes {
		return dashboard.AlwaysConfirm
	}
	if !r.Interactive {
		return dashboard.ConfirmFunc(func(context.Context, string) (bool, error) {
			return false, errConfirmationRequired
		})
	}
	return dashboard.ConfirmFunc(func(ctx context.Context, prompt string) (bool, error) {
		ok := false
		err := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(prompt).
					Affirmative("Yes").
					Negative("No").
					Value(&ok),
			),
		).RunWithContext(ctx)
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return ok, err
	})
}

// EditorLink returns the editor URL for a workflow id, or "".
func (r *Runtime) EditorLink(id string) string {
	return r.Config.Dashboard.EditorLink(id)
}

// TraceLink returns the trace URL for a run id, or "".
func (r *Runtime) TraceLink(id string) string {
	return r.Config.Dashboard.TraceLink(id)
}

// withRuntime opens a runtime for the duration of fn.
func withRuntime(cmd *cobra.Command, fn func(ctx context.Context, rt *Runtime) error) error {
	rt, err := openRuntime(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()
	return fn(cmd.Context(), rt)
}

// aborted reports a declined confirmation and swallows it.
func aborted(rt *Runtime, err error) error {
	if deckerrors.IsCanceled(err) {
		fmt.Fprintln(rt.Err, "Aborted.")
		return nil
	}
	return err
}

// findPaused refreshes p and returns the paused run with runID.
func findPaused(ctx context.Context, p *dashboard.Paused, runID string) (spurs.PausedWorkflow, error) {
	if err := p.Refresh(ctx); err != nil {
		return spurs.PausedWorkflow{}, err
	}
	for _, pw := range p.Snapshot().Paused {
		if pw.RunID() == strings.TrimSpace(runID) {
			return pw, nil
		}
	}
	return spurs.PausedWorkflow{}, fmt.Errorf("no paused run %q: %w", runID, deckerrors.ErrNotFound)
}

var severityStyles = map[dashboard.Severity]lipgloss.Style{
	dashboard.SeveritySuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
	dashboard.SeverityDanger:  lipgloss.NewStyle().Foreground(lipgloss.Color("160")).Bold(true),
	dashboard.SeverityWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	dashboard.SeverityDefault: lipgloss.NewStyle(),
}

type printSink struct {
	w io.Writer
}

func (s printSink) Notify(message string, severity dashboard.Severity) {
	style, ok := severityStyles[severity]
	if !ok {
		style = severityStyles[dashboard.SeverityDefault]
	}
	fmt.Fprintln(s.w, style.Render(message))
}

// OutputFormat defines the output format for listing commands.
type OutputFormat string

const (
	FormatTable OutputFormat = "table"
	FormatJSON  OutputFormat = "json"
	FormatYAML  OutputFormat = "yaml"
	FormatPlain OutputFormat = "plain"
)

func parseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(strings.ToLower(s)) {
	case "", FormatTable:
		return FormatTable, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	case FormatPlain:
		return FormatPlain, nil
	}
	return "", fmt.Errorf("invalid format: %s (must be table, json, yaml, or plain)", s)
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

func writeYAML(w io.Writer, v any) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return encoder.Close()
}

var headerStyle = lipgloss.NewStyle().Bold(true)

func newTable(w io.Writer, headers ...interface{}) table.Table {
	return table.New(headers...).
		WithWriter(w).
		WithHeaderFormatter(func(format string, vals ...interface{}) string {
			return headerStyle.Render(strings.ToUpper(fmt.Sprintf(format, vals...)))
		})
}
