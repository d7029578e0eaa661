package dashboard

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Dashboard groups the controllers behind one screen and the Notifier they
// share.
type Dashboard struct {
	Workflows *Workflows
	Paused    *Paused
	Templates *Templates
	APIKeys   *APIKeys
	Notifier  *Notifier

	log *zap.Logger
}

// New wires every controller to svc and a fresh Notifier.
func New(svc Service, prefs Preferences, keys KeyCache, opts Options) *Dashboard {
	opts = opts.withDefaults()
	n := NewNotifier(opts.Clock)
	return &Dashboard{
		Workflows: NewWorkflows(svc, n, prefs, opts),
		Paused:    NewPaused(svc, n, opts),
		Templates: NewTemplates(svc, n, opts),
		APIKeys:   NewAPIKeys(svc, keys, opts),
		Notifier:  n,
		log:       opts.Logger,
	}
}

// Mount performs the initial loads concurrently. Each controller reports its
// own failures; Mount returns the first error seen.
func (d *Dashboard) Mount(ctx context.Context) error {
	var g errgroup.Group
	g.Go(func() error { return d.Workflows.Load(ctx) })
	g.Go(func() error { return d.Paused.Refresh(ctx) })
	g.Go(func() error { return d.Templates.Load(ctx) })
	g.Go(func() error { return d.APIKeys.Load(ctx) })
	err := g.Wait()
	if err != nil {
		d.log.Debug("dashboard mounted with errors", zap.Error(err))
	}
	return err
}

// Close disposes every controller and the Notifier.
func (d *Dashboard) Close() {
	d.Workflows.Close()
	d.Paused.Close()
	d.Templates.Close()
	d.APIKeys.Close()
	d.Notifier.Close()
}
