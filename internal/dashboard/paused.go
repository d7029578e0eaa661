package dashboard

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	deckerrors "github.com/chazuruo/spurdeck/internal/errors"
	"github.com/chazuruo/spurdeck/internal/spurs"
)

// Notification texts reported by Paused.
const (
	MsgPausedLoadFailed      = "Failed to load paused workflows"
	MsgQuickMissingRunID     = "Cannot perform action: missing run ID"
	MsgResumeMissingRunID    = "Cannot resume workflow: missing run ID"
	MsgCancelMissingRunID    = "Cannot cancel workflow: missing run ID"
	MsgResumeFailed          = "Failed to resume workflow"
	MsgCancelFailed          = "Failed to cancel workflow"
	MsgCanceled              = "Workflow canceled successfully"
	cancelConfirmationPrompt = "Are you sure you want to cancel this workflow? This action cannot be undone."
)

// PausedSnapshot is a copy of the Paused state.
type PausedSnapshot struct {
	Paused     []spurs.PausedWorkflow
	Loaded     bool
	Loading    bool
	DialogOpen bool
	Selected   *spurs.PausedWorkflow
}

// Paused owns the set of runs suspended awaiting a human decision and the
// decision dialog's selection.
type Paused struct {
	svc    Service
	sink   Sink
	log    *zap.Logger
	userID string
	life   lifetime

	mu         sync.Mutex
	paused     []spurs.PausedWorkflow
	loaded     bool
	loading    bool
	selected   *spurs.PausedWorkflow
	dialogOpen bool
}

// NewPaused returns a Paused controller.
func NewPaused(svc Service, sink Sink, opts Options) *Paused {
	opts = opts.withDefaults()
	return &Paused{
		svc:    svc,
		sink:   sink,
		log:    opts.Logger.Named("paused"),
		userID: opts.UserID,
		life:   newLifetime(),
	}
}

// Refresh replaces the paused set with the backend's current view. On
// failure the previous set is kept.
func (p *Paused) Refresh(ctx context.Context) error {
	ctx, release, err := p.life.begin(ctx)
	if err != nil {
		return err
	}
	defer release()
	return p.refreshLocked(ctx)
}

// QuickDecision approves or declines pw with no inputs. The paused set is
// refreshed only when the decision was accepted. Any other action is a caller
// bug: it returns ErrInvalid without notifying or contacting the backend.
func (p *Paused) QuickDecision(ctx context.Context, pw spurs.PausedWorkflow, action spurs.PauseAction) error {
	op := strings.ToLower(string(action))
	if !action.Quick() {
		return &deckerrors.RunError{Op: "quick decision", Err: fmt.Errorf("%w: action %q", deckerrors.ErrInvalid, action), RunID: pw.RunID()}
	}

	runID := pw.RunID()
	if runID == "" {
		p.log.Error("cannot perform action: run id is missing", zap.String("workflow_id", pw.Run.WorkflowID))
		p.sink.Notify(MsgQuickMissingRunID, SeverityDanger)
		return &deckerrors.RunError{Op: op, Err: deckerrors.ErrPrecondition}
	}

	ctx, release, err := p.life.begin(ctx)
	if err != nil {
		return err
	}
	defer release()

	err = p.svc.TakePauseAction(ctx, runID, spurs.ResumeAction{
		Action:   action,
		Inputs:   map[string]any{},
		Comments: spurs.QuickComment(action),
		UserID:   p.userID,
	})
	if err := p.life.abandoned(ctx); err != nil {
		return err
	}
	if err != nil {
		p.log.Error("failed to take pause action", zap.String("run_id", runID), zap.String("action", string(action)), zap.Error(err))
		p.sink.Notify(fmt.Sprintf("Failed to %s workflow", op), SeverityDanger)
		return &deckerrors.RunError{Op: op, Err: err, RunID: runID}
	}

	p.log.Info("took pause action", zap.String("run_id", runID), zap.String("action", string(action)))
	p.sink.Notify(fmt.Sprintf("Workflow %s successfully", action.Past()), SeveritySuccess)
	_ = p.refreshLocked(ctx)
	return nil
}

// DetailedDecision resumes pw with caller supplied inputs and comments. On
// success the decision dialog is closed and the selection cleared. The paused
// set is refreshed afterwards whether or not the decision was accepted.
func (p *Paused) DetailedDecision(ctx context.Context, pw spurs.PausedWorkflow, action spurs.PauseAction, inputs map[string]any, comments string) error {
	if !action.Valid() {
		return &deckerrors.RunError{Op: "resume", Err: fmt.Errorf("%w: action %q", deckerrors.ErrInvalid, action), RunID: pw.RunID()}
	}

	runID := pw.RunID()
	if runID == "" {
		p.log.Error("cannot resume workflow: run id is missing", zap.String("workflow_id", pw.Run.WorkflowID))
		p.sink.Notify(MsgResumeMissingRunID, SeverityDanger)
		return &deckerrors.RunError{Op: "resume", Err: deckerrors.ErrPrecondition}
	}
	if inputs == nil {
		inputs = map[string]any{}
	}

	ctx, release, err := p.life.begin(ctx)
	if err != nil {
		return err
	}
	defer release()

	submitErr := p.svc.TakePauseAction(ctx, runID, spurs.ResumeAction{
		Action:   action,
		Inputs:   inputs,
		Comments: comments,
		UserID:   p.userID,
	})
	if err := p.life.abandoned(ctx); err != nil {
		return err
	}

	var result error
	if submitErr != nil {
		p.log.Error("failed to resume workflow", zap.String("run_id", runID), zap.String("action", string(action)), zap.Error(submitErr))
		p.sink.Notify(MsgResumeFailed, SeverityDanger)
		result = &deckerrors.RunError{Op: "resume", Err: submitErr, RunID: runID}
	} else {
		p.log.Info("resumed workflow", zap.String("run_id", runID), zap.String("action", string(action)))
		p.sink.Notify(fmt.Sprintf("Workflow resumed with action: %s", action), SeveritySuccess)
		p.mu.Lock()
		p.dialogOpen = false
		p.selected = nil
		p.mu.Unlock()
	}

	_ = p.refreshLocked(ctx)
	return result
}

// Cancel asks confirm for approval and cancels pw's run. A declined
// confirmation returns ErrCanceled without contacting the backend.
func (p *Paused) Cancel(ctx context.Context, pw spurs.PausedWorkflow, confirm Confirmer) error {
	runID := pw.RunID()
	if runID == "" {
		p.log.Error("cannot cancel workflow: run id is missing", zap.String("workflow_id", pw.Run.WorkflowID))
		p.sink.Notify(MsgCancelMissingRunID, SeverityDanger)
		return &deckerrors.RunError{Op: "cancel", Err: deckerrors.ErrPrecondition}
	}

	if confirm != nil {
		ok, err := confirm.Confirm(ctx, cancelConfirmationPrompt)
		if err != nil {
			return &deckerrors.RunError{Op: "cancel", Err: err, RunID: runID}
		}
		if !ok {
			return &deckerrors.RunError{Op: "cancel", Err: deckerrors.ErrCanceled, RunID: runID}
		}
	}

	ctx, release, err := p.life.begin(ctx)
	if err != nil {
		return err
	}
	defer release()

	err = p.svc.CancelWorkflow(ctx, runID)
	if err := p.life.abandoned(ctx); err != nil {
		return err
	}
	if err != nil {
		p.log.Error("failed to cancel workflow", zap.String("run_id", runID), zap.Error(err))
		p.sink.Notify(MsgCancelFailed, SeverityDanger)
		return &deckerrors.RunError{Op: "cancel", Err: err, RunID: runID}
	}

	p.log.Info("canceled workflow", zap.String("run_id", runID))
	p.sink.Notify(MsgCanceled, SeveritySuccess)
	_ = p.refreshLocked(ctx)
	return nil
}

// Open selects pw and opens the decision dialog.
func (p *Paused) Open(pw spurs.PausedWorkflow) {
	p.mu.Lock()
	defer p.mu.Unlock()
	sel := pw
	p.selected = &sel
	p.dialogOpen = true
}

// CloseDialog closes the decision dialog and clears the selection.
func (p *Paused) CloseDialog() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.dialogOpen = false
	p.selected = nil
}

// Selected returns the paused workflow chosen for the decision dialog.
func (p *Paused) Selected() (spurs.PausedWorkflow, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.selected == nil {
		return spurs.PausedWorkflow{}, false
	}
	return *p.selected, true
}

// DialogOpen reports whether the decision dialog is open.
func (p *Paused) DialogOpen() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dialogOpen
}

// Snapshot returns a copy of the current state.
func (p *Paused) Snapshot() PausedSnapshot {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]spurs.PausedWorkflow, len(p.paused))
	copy(out, p.paused)

	var sel *spurs.PausedWorkflow
	if p.selected != nil {
		cp := *p.selected
		sel = &cp
	}

	return PausedSnapshot{
		Paused:     out,
		Loaded:     p.loaded,
		Loading:    p.loading,
		DialogOpen: p.dialogOpen,
		Selected:   sel,
	}
}

// Close cancels in-flight operations.
func (p *Paused) Close() {
	p.life.close()
}

// refreshLocked refetches the paused set. The caller holds the gate.
func (p *Paused) refreshLocked(ctx context.Context) error {
	p.mu.Lock()
	p.loading = true
	p.mu.Unlock()
	defer func() {
		p.mu.Lock()
		p.loading = false
		p.mu.Unlock()
	}()

	paused, err := p.svc.ListPausedWorkflows(ctx)
	if err := p.life.abandoned(ctx); err != nil {
		return err
	}
	if err != nil {
		p.log.Error("failed to load paused workflows", zap.Error(err))
		p.sink.Notify(MsgPausedLoadFailed, SeverityDanger)
		return &deckerrors.RunError{Op: "refresh", Err: err}
	}

	p.mu.Lock()
	p.paused = paused
	p.loaded = true
	p.mu.Unlock()
	return nil
}
