package dashboard

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	deckerrors "github.com/chazuruo/spurdeck/internal/errors"
	"github.com/chazuruo/spurdeck/internal/spurs"
)

// Notification texts reported by Templates.
const (
	MsgTemplatesLoadFailed = "Failed to load templates"
	MsgTemplateUseFailed   = "Failed to use template"
)

// TemplatesSnapshot is a copy of the Templates state.
type TemplatesSnapshot struct {
	Templates []spurs.Template
	Loaded    bool
	Loading   bool
}

// Find returns the template with the given name, compared case-insensitively.
func (s TemplatesSnapshot) Find(name string) (spurs.Template, bool) {
	for _, t := range s.Templates {
		if strings.EqualFold(t.Name, name) || strings.EqualFold(t.FileName, name) {
			return t, true
		}
	}
	return spurs.Template{}, false
}

// Templates owns the starter template gallery.
type Templates struct {
	svc  Service
	sink Sink
	log  *zap.Logger
	life lifetime

	mu        sync.Mutex
	templates []spurs.Template
	loaded    bool
	loading   bool
}

// NewTemplates returns a Templates controller.
func NewTemplates(svc Service, sink Sink, opts Options) *Templates {
	opts = opts.withDefaults()
	return &Templates{
		svc:  svc,
		sink: sink,
		log:  opts.Logger.Named("templates"),
		life: newLifetime(),
	}
}

// Load fetches the template gallery.
func (t *Templates) Load(ctx context.Context) error {
	ctx, release, err := t.life.begin(ctx)
	if err != nil {
		return err
	}
	defer release()

	t.mu.Lock()
	t.loading = true
	t.mu.Unlock()
	defer func() {
		t.mu.Lock()
		t.loading = false
		t.mu.Unlock()
	}()

	templates, err := t.svc.ListTemplates(ctx)
	if err := t.life.abandoned(ctx); err != nil {
		return err
	}
	if err != nil {
		t.log.Error("failed to load templates", zap.Error(err))
		t.sink.Notify(MsgTemplatesLoadFailed, SeverityDanger)
		return deckerrors.Wrap(err, "load templates")
	}

	t.mu.Lock()
	t.templates = templates
	t.loaded = true
	t.mu.Unlock()
	return nil
}

// Use instantiates tmpl and returns the new workflow.
func (t *Templates) Use(ctx context.Context, tmpl spurs.Template) (*spurs.Workflow, error) {
	ctx, release, err := t.life.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	wf, err := t.svc.InstantiateTemplate(ctx, tmpl)
	if err := t.life.abandoned(ctx); err != nil {
		return nil, err
	}
	if err != nil {
		t.log.Error("failed to use template", zap.String("template", tmpl.Name), zap.Error(err))
		t.sink.Notify(MsgTemplateUseFailed, SeverityDanger)
		return nil, &deckerrors.WorkflowError{Op: "use template", Err: err, ID: tmpl.Name}
	}

	t.log.Info("instantiated template", zap.String("template", tmpl.Name), zap.String("workflow_id", wf.ID))
	return wf, nil
}

// Snapshot returns a copy of the current state.
func (t *Templates) Snapshot() TemplatesSnapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]spurs.Template, len(t.templates))
	copy(out, t.templates)
	return TemplatesSnapshot{Templates: out, Loaded: t.loaded, Loading: t.loading}
}

// Close cancels in-flight operations.
func (t *Templates) Close() {
	t.life.close()
}
