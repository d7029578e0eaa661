// Package dashboard holds the controllers behind the spurdeck dashboard.
//
// Workflows owns the paginated list of saved workflows and their recent runs.
// Paused owns the runs waiting on a human decision. Templates and APIKeys back
// the starter gallery and the missing-key banner. Every controller reports
// transient outcomes to a shared Sink and exposes a read-only Snapshot.
//
// Operations on one controller are serialized. Each runs under a context that
// is cancelled when the caller's context ends or the controller is closed;
// results that arrive after Close are discarded with errors.ErrDisposed.
package dashboard

import (
	"context"
	"time"

	"github.com/facebookgo/clock"
	"go.uber.org/zap"

	"github.com/chazuruo/spurdeck/internal/logger"
	"github.com/chazuruo/spurdeck/internal/spurs"
)

// Service is the workflow backend as seen by the controllers.
type Service interface {
	ListWorkflows(ctx context.Context, page, pageSize int) ([]spurs.Workflow, error)
	GetWorkflow(ctx context.Context, id string) (*spurs.Workflow, error)
	ListRuns(ctx context.Context, workflowID string) ([]spurs.Run, error)
	CreateWorkflow(ctx context.Context, req spurs.WorkflowCreateRequest) (*spurs.Workflow, error)
	DeleteWorkflow(ctx context.Context, id string) error
	DuplicateWorkflow(ctx context.Context, id string) (*spurs.Workflow, error)
	ListPausedWorkflows(ctx context.Context) ([]spurs.PausedWorkflow, error)
	TakePauseAction(ctx context.Context, runID string, action spurs.ResumeAction) error
	CancelWorkflow(ctx context.Context, runID string) error
	ListTemplates(ctx context.Context) ([]spurs.Template, error)
	InstantiateTemplate(ctx context.Context, tmpl spurs.Template) (*spurs.Workflow, error)
	ListAPIKeyNames(ctx context.Context) ([]string, error)
	GetAPIKey(ctx context.Context, name string) (*spurs.APIKey, error)
}

// Confirmer asks the user to approve a destructive action.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

// Confirm calls f.
func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}

// AlwaysConfirm approves every prompt. Used for --yes.
var AlwaysConfirm = ConfirmFunc(func(context.Context, string) (bool, error) { return true, nil })

// NeverConfirm declines every prompt.
var NeverConfirm = ConfirmFunc(func(context.Context, string) (bool, error) { return false, nil })

// Preferences is the persisted per-user state the dashboard reads and writes.
type Preferences interface {
	HasSeenWelcome() bool
	MarkWelcomeSeen() error
}

// DefaultFanout bounds concurrent run fetches when Options.Fanout is unset.
const DefaultFanout = 10

// HighlightDuration is how long a freshly duplicated workflow stays highlighted.
const HighlightDuration = 2 * time.Second

// Options carries the collaborators shared by every controller.
type Options struct {
	// Clock drives highlight and alert timers. Defaults to the wall clock.
	Clock clock.Clock
	// Logger receives operation failures. Defaults to a no-op logger.
	Logger *zap.Logger
	// Fanout bounds concurrent run fetches per page.
	Fanout int
	// UserID is attached to pause decisions.
	UserID string
}

func (o Options) withDefaults() Options {
	if o.Clock == nil {
		o.Clock = clock.New()
	}
	o.Logger = logger.OrNop(o.Logger)
	if o.Fanout < 1 {
		o.Fanout = DefaultFanout
	}
	if o.UserID == "" {
		o.UserID = "current-user"
	}
	return o
}
