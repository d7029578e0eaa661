package dashboard

import (
	"context"

	deckerrors "github.com/chazuruo/spurdeck/internal/errors"
)

// lifetime ties operation contexts to a controller. Closing it cancels every
// in-flight operation and turns away new ones.
type lifetime struct {
	ctx    context.Context
	cancel context.CancelFunc
	// gate admits one operation at a time; waiters queue on the channel send.
	gate chan struct{}
}

func newLifetime() lifetime {
	ctx, cancel := context.WithCancel(context.Background())
	return lifetime{ctx: ctx, cancel: cancel, gate: make(chan struct{}, 1)}
}

// begin waits for the controller's turn and returns a context cancelled by
// either ctx or Close. release must be called when the operation ends.
func (l lifetime) begin(ctx context.Context) (context.Context, func(), error) {
	if l.disposed() {
		return nil, nil, deckerrors.ErrDisposed
	}

	select {
	case l.gate <- struct{}{}:
	case <-ctx.Done():
		return nil, nil, ctx.Err()
	case <-l.ctx.Done():
		return nil, nil, deckerrors.ErrDisposed
	}

	opCtx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(l.ctx, cancel)

	release := func() {
		stop()
		cancel()
		<-l.gate
	}
	return opCtx, release, nil
}

// abandoned reports why an operation's result must be discarded: ErrDisposed
// after Close, or ctx's error when the caller gave up. It returns nil otherwise.
func (l lifetime) abandoned(ctx context.Context) error {
	if l.disposed() {
		return deckerrors.ErrDisposed
	}
	return ctx.Err()
}

func (l lifetime) disposed() bool {
	return l.ctx.Err() != nil
}

func (l lifetime) close() {
	l.cancel()
}
