package dashboard

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/facebookgo/clock"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	deckerrors "github.com/chazuruo/spurdeck/internal/errors"
	"github.com/chazuruo/spurdeck/internal/spurs"
)

// Notification texts reported by Workflows.
const (
	MsgLoadFailed        = "Failed to load spurs"
	MsgLoadMoreFailed    = "Failed to load more spurs"
	MsgCreateFailed      = "Failed to create new spur"
	MsgImportFailed      = "Failed to import workflow. Please ensure the file is a valid JSON."
	MsgNoFileSelected    = "No file selected. Please try again."
	MsgDuplicateFailed   = "Failed to duplicate workflow. Please try again."
	MsgDeleteFailed      = "Failed to delete workflow. Please try again."
	MsgWelcomeSaveFailed = "Failed to save welcome preference"
)

// WorkflowsSnapshot is a copy of the Workflows state.
type WorkflowsSnapshot struct {
	Workflows   []spurs.Workflow
	Runs        map[string][]spurs.Run
	Cursor      spurs.PageCursor
	Loaded      bool
	Loading     bool
	LoadingMore bool
	Highlighted string
	ShowWelcome bool
}

// RunsFor returns the recent runs of the workflow with the given id.
func (s WorkflowsSnapshot) RunsFor(id string) []spurs.Run {
	return s.Runs[id]
}

// Find returns the first workflow with the given id.
func (s WorkflowsSnapshot) Find(id string) (spurs.Workflow, bool) {
	for _, w := range s.Workflows {
		if w.ID == id {
			return w, true
		}
	}
	return spurs.Workflow{}, false
}

// Workflows owns the paginated list of saved workflows and their recent runs.
type Workflows struct {
	svc    Service
	sink   Sink
	prefs  Preferences
	clock  clock.Clock
	log    *zap.Logger
	fanout int
	life   lifetime

	mu             sync.Mutex
	workflows      []spurs.Workflow
	runs           map[string][]spurs.Run
	cursor         spurs.PageCursor
	loaded         bool
	loading        bool
	loadingMore    bool
	highlighted    string
	highlightSeq   uint64
	highlightTimer *clock.Timer
	showWelcome    bool
}

// NewWorkflows returns a Workflows controller. prefs may be nil, in which
// case the welcome banner is never shown.
func NewWorkflows(svc Service, sink Sink, prefs Preferences, opts Options) *Workflows {
	opts = opts.withDefaults()
	return &Workflows{
		svc:    svc,
		sink:   sink,
		prefs:  prefs,
		clock:  opts.Clock,
		log:    opts.Logger.Named("workflows"),
		fanout: opts.Fanout,
		life:   newLifetime(),
		runs:   map[string][]spurs.Run{},
		cursor: spurs.PageCursor{Page: 1},
	}
}

// Load fetches the first page and replaces the collection with it.
//
// On failure the previous collection is kept, a danger notification is
// posted and the error is returned.
func (w *Workflows) Load(ctx context.Context) error {
	ctx, release, err := w.life.begin(ctx)
	if err != nil {
		return err
	}
	defer release()

	w.setFlag(&w.loading, true)
	defer w.setFlag(&w.loading, false)

	page, runs, err := w.fetchPage(ctx, 1)
	if err := w.life.abandoned(ctx); err != nil {
		return err
	}
	if err != nil {
		w.log.Error("failed to load spurs", zap.Int("page", 1), zap.Error(err))
		w.sink.Notify(MsgLoadFailed, SeverityDanger)
		return &deckerrors.WorkflowError{Op: "load", Err: err}
	}

	spurs.SortByUpdated(page)
	showWelcome := len(page) == 0 && w.prefs != nil && !w.prefs.HasSeenWelcome()

	w.mu.Lock()
	w.workflows = page
	w.runs = runs
	w.cursor = spurs.PageCursor{Page: 1, HasMore: len(page) == spurs.PageSize}
	w.loaded = true
	w.showWelcome = showWelcome
	w.mu.Unlock()

	w.log.Debug("loaded spurs", zap.Int("count", len(page)))
	return nil
}

// LoadMore fetches the page after the cursor and appends it. It is a no-op
// once the last page has been seen. An empty page ends pagination without
// advancing the cursor. Entries already present are not de-duplicated.
func (w *Workflows) LoadMore(ctx context.Context) error {
	ctx, release, err := w.life.begin(ctx)
	if err != nil {
		return err
	}
	defer release()

	w.mu.Lock()
	if !w.cursor.HasMore {
		w.mu.Unlock()
		return nil
	}
	next := w.cursor.Page + 1
	w.loadingMore = true
	w.mu.Unlock()
	defer w.setFlag(&w.loadingMore, false)

	page, runs, err := w.fetchPage(ctx, next)
	if err := w.life.abandoned(ctx); err != nil {
		return err
	}
	if err != nil {
		w.log.Error("failed to load more spurs", zap.Int("page", next), zap.Error(err))
		w.sink.Notify(MsgLoadMoreFailed, SeverityDanger)
		return &deckerrors.WorkflowError{Op: "load more", Err: err}
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if len(page) > 0 {
		merged := make([]spurs.Workflow, 0, len(w.workflows)+len(page))
		merged = append(merged, w.workflows...)
		merged = append(merged, page...)
		spurs.SortByUpdated(merged)
		w.workflows = merged
		for id, rs := range runs {
			w.runs[id] = rs
		}
	}
	w.cursor.Advance(next, len(page))
	return nil
}

// Create submits an empty workflow of type t and returns it.
func (w *Workflows) Create(ctx context.Context, t spurs.SpurType) (*spurs.Workflow, error) {
	ctx, release, err := w.life.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	if t == "" {
		t = spurs.SpurTypeWorkflow
	}
	req := spurs.NewCreateRequest(t, w.clock.Now())

	created, err := w.svc.CreateWorkflow(ctx, req)
	if err := w.life.abandoned(ctx); err != nil {
		return nil, err
	}
	if err != nil {
		w.log.Error("failed to create spur", zap.String("spur_type", string(t)), zap.Error(err))
		w.sink.Notify(MsgCreateFailed, SeverityDanger)
		return nil, &deckerrors.WorkflowError{Op: "create", Err: err}
	}

	w.log.Info("created spur", zap.String("workflow_id", created.ID))
	return created, nil
}

// Import creates a workflow from an exported JSON document. The collection
// is never modified; malformed input yields an error wrapping ErrParse.
func (w *Workflows) Import(ctx context.Context, raw []byte) (*spurs.Workflow, error) {
	ctx, release, err := w.life.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	req, err := spurs.ParseImport(raw, w.clock.Now())
	if err != nil {
		w.log.Warn("rejected import", zap.Error(err))
		w.sink.Notify(MsgImportFailed, SeverityDanger)
		return nil, &deckerrors.WorkflowError{Op: "import", Err: err}
	}

	created, err := w.svc.CreateWorkflow(ctx, req)
	if err := w.life.abandoned(ctx); err != nil {
		return nil, err
	}
	if err != nil {
		w.log.Error("failed to import spur", zap.Error(err))
		w.sink.Notify(MsgImportFailed, SeverityDanger)
		return nil, &deckerrors.WorkflowError{Op: "import", Err: err}
	}

	w.log.Info("imported spur", zap.String("workflow_id", created.ID))
	return created, nil
}

// ImportFile reads path and imports it. An empty path fails with
// ErrPrecondition.
func (w *Workflows) ImportFile(ctx context.Context, path string) (*spurs.Workflow, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		w.sink.Notify(MsgNoFileSelected, SeverityWarning)
		return nil, &deckerrors.WorkflowError{Op: "import", Err: fmt.Errorf("%w: no file selected", deckerrors.ErrPrecondition)}
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		w.log.Warn("failed to read import file", zap.String("path", path), zap.Error(err))
		w.sink.Notify(MsgImportFailed, SeverityDanger)
		return nil, &deckerrors.WorkflowError{Op: "import", Err: err, ID: path}
	}
	return w.Import(ctx, raw)
}

// Duplicate copies the workflow server-side, puts the copy at the front of
// the collection and highlights it for HighlightDuration.
func (w *Workflows) Duplicate(ctx context.Context, id string) (*spurs.Workflow, error) {
	ctx, release, err := w.life.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	dup, err := w.svc.DuplicateWorkflow(ctx, id)
	if err != nil {
		if err := w.life.abandoned(ctx); err != nil {
			return nil, err
		}
		w.log.Error("failed to duplicate spur", zap.String("workflow_id", id), zap.Error(err))
		w.sink.Notify(MsgDuplicateFailed, SeverityDanger)
		return nil, &deckerrors.WorkflowError{Op: "duplicate", Err: err, ID: id}
	}

	// Close stops the highlight under mu; re-check disposal here.
	w.mu.Lock()
	if err := w.life.abandoned(ctx); err != nil {
		w.mu.Unlock()
		return nil, err
	}
	w.workflows = append([]spurs.Workflow{*dup}, w.workflows...)
	if _, ok := w.runs[dup.ID]; !ok {
		w.runs[dup.ID] = []spurs.Run{}
	}
	w.stopHighlightLocked()
	w.highlightSeq++
	seq := w.highlightSeq
	w.highlighted = dup.ID
	w.highlightTimer = w.clock.AfterFunc(HighlightDuration, func() { w.expireHighlight(seq) })
	w.mu.Unlock()

	w.log.Info("duplicated spur", zap.String("workflow_id", id), zap.String("duplicate_id", dup.ID))
	return dup, nil
}

// Delete asks confirm for approval and deletes wf. A declined confirmation
// returns ErrCanceled without contacting the backend or notifying. On success
// every local entry with wf's id is removed along with its runs.
func (w *Workflows) Delete(ctx context.Context, wf spurs.Workflow, confirm Confirmer) error {
	if strings.TrimSpace(wf.ID) == "" {
		return &deckerrors.WorkflowError{Op: "delete", Err: fmt.Errorf("%w: workflow id is empty", deckerrors.ErrInvalid)}
	}

	if confirm != nil {
		ok, err := confirm.Confirm(ctx, fmt.Sprintf("Are you sure you want to delete workflow %q?", wf.Name))
		if err != nil {
			return &deckerrors.WorkflowError{Op: "delete", Err: err, ID: wf.ID}
		}
		if !ok {
			return &deckerrors.WorkflowError{Op: "delete", Err: deckerrors.ErrCanceled, ID: wf.ID}
		}
	}

	ctx, release, err := w.life.begin(ctx)
	if err != nil {
		return err
	}
	defer release()

	err = w.svc.DeleteWorkflow(ctx, wf.ID)
	if err := w.life.abandoned(ctx); err != nil {
		return err
	}
	if err != nil {
		w.log.Error("failed to delete spur", zap.String("workflow_id", wf.ID), zap.Error(err))
		w.sink.Notify(MsgDeleteFailed, SeverityDanger)
		return &deckerrors.WorkflowError{Op: "delete", Err: err, ID: wf.ID}
	}

	w.mu.Lock()
	kept := w.workflows[:0:0]
	for _, existing := range w.workflows {
		if existing.ID != wf.ID {
			kept = append(kept, existing)
		}
	}
	w.workflows = kept
	delete(w.runs, wf.ID)
	if w.highlighted == wf.ID {
		w.stopHighlightLocked()
		w.highlighted = ""
	}
	w.mu.Unlock()

	w.log.Info("deleted spur", zap.String("workflow_id", wf.ID))
	return nil
}

// DismissWelcome hides the welcome banner and records that it was seen.
func (w *Workflows) DismissWelcome() error {
	w.mu.Lock()
	w.showWelcome = false
	w.mu.Unlock()

	if w.prefs == nil {
		return nil
	}
	if err := w.prefs.MarkWelcomeSeen(); err != nil {
		w.log.Warn("failed to persist welcome preference", zap.Error(err))
		return err
	}
	return nil
}

// Snapshot returns a copy of the current state.
func (w *Workflows) Snapshot() WorkflowsSnapshot {
	w.mu.Lock()
	defer w.mu.Unlock()

	ws := make([]spurs.Workflow, len(w.workflows))
	copy(ws, w.workflows)
	runs := make(map[string][]spurs.Run, len(w.runs))
	for id, rs := range w.runs {
		cp := make([]spurs.Run, len(rs))
		copy(cp, rs)
		runs[id] = cp
	}

	return WorkflowsSnapshot{
		Workflows:   ws,
		Runs:        runs,
		Cursor:      w.cursor,
		Loaded:      w.loaded,
		Loading:     w.loading,
		LoadingMore: w.loadingMore,
		Highlighted: w.highlighted,
		ShowWelcome: w.showWelcome,
	}
}

// Close cancels in-flight operations and stops the highlight timer.
func (w *Workflows) Close() {
	w.life.close()
	w.mu.Lock()
	w.stopHighlightLocked()
	w.mu.Unlock()
}

// fetchPage loads one page and the recent runs of every workflow on it.
// A failed run fetch degrades to an empty run list; only the page fetch
// itself can fail.
func (w *Workflows) fetchPage(ctx context.Context, page int) ([]spurs.Workflow, map[string][]spurs.Run, error) {
	ws, err := w.svc.ListWorkflows(ctx, page, spurs.PageSize)
	if err != nil {
		return nil, nil, err
	}

	results := make([][]spurs.Run, len(ws))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.fanout)
	for i, wf := range ws {
		g.Go(func() error {
			runs, err := w.svc.ListRuns(gctx, wf.ID)
			if err != nil {
				w.log.Warn("failed to fetch runs",
					zap.String("workflow_id", wf.ID),
					zap.Int("page", page),
					zap.Error(err),
				)
				runs = nil
			}
			results[i] = spurs.RecentRuns(runs)
			return nil
		})
	}
	_ = g.Wait()

	runs := make(map[string][]spurs.Run, len(ws))
	for i, wf := range ws {
		runs[wf.ID] = results[i]
	}
	return ws, runs, nil
}

func (w *Workflows) expireHighlight(seq uint64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if seq != w.highlightSeq {
		return
	}
	w.highlighted = ""
	w.highlightTimer = nil
}

func (w *Workflows) stopHighlightLocked() {
	if w.highlightTimer != nil {
		w.highlightTimer.Stop()
		w.highlightTimer = nil
	}
}

func (w *Workflows) setFlag(flag *bool, v bool) {
	w.mu.Lock()
	*flag = v
	w.mu.Unlock()
}
