package dashboard

import (
	"sync"
	"time"

	"github.com/facebookgo/clock"
)

// AlertDuration is how long a notification stays visible.
const AlertDuration = 5 * time.Second

// Severity classifies a notification.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityDanger  Severity = "danger"
	SeverityWarning Severity = "warning"
	SeverityDefault Severity = "default"
)

// Sink receives transient outcome messages from the controllers.
type Sink interface {
	Notify(message string, severity Severity)
}

// Notification is a message posted to a Notifier.
type Notification struct {
	Message  string
	Severity Severity
	PostedAt time.Time
}

// Notifier is a Sink that shows one notification at a time. A newer message
// replaces the visible one; each message hides AlertDuration after it was
// posted.
type Notifier struct {
	clock clock.Clock

	mu        sync.Mutex
	current   Notification
	visible   bool
	seq       uint64
	timer     *clock.Timer
	closed    bool
	observers []func(Notification, bool)
}

// NewNotifier returns a Notifier whose timers run on clk.
func NewNotifier(clk clock.Clock) *Notifier {
	if clk == nil {
		clk = clock.New()
	}
	return &Notifier{clock: clk}
}

// Notify posts message, replacing any visible notification.
func (n *Notifier) Notify(message string, severity Severity) {
	if severity == "" {
		severity = SeverityDefault
	}

	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return
	}
	n.stopTimerLocked()
	n.seq++
	seq := n.seq
	n.current = Notification{Message: message, Severity: severity, PostedAt: n.clock.Now()}
	n.visible = true
	n.timer = n.clock.AfterFunc(AlertDuration, func() { n.expire(seq) })
	cur, observers := n.current, n.observersLocked()
	n.mu.Unlock()

	for _, fn := range observers {
		fn(cur, true)
	}
}

// Current returns the visible notification, if any.
func (n *Notifier) Current() (Notification, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current, n.visible
}

// Dismiss hides the visible notification.
func (n *Notifier) Dismiss() {
	n.mu.Lock()
	if !n.visible {
		n.mu.Unlock()
		return
	}
	n.stopTimerLocked()
	n.visible = false
	cur, observers := n.current, n.observersLocked()
	n.mu.Unlock()

	for _, fn := range observers {
		fn(cur, false)
	}
}

// OnChange registers fn to be called after every show or hide.
// fn must not call back into the Notifier synchronously.
func (n *Notifier) OnChange(fn func(Notification, bool)) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.observers = append(n.observers, fn)
}

// Close stops the pending hide timer and ignores further messages.
func (n *Notifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.stopTimerLocked()
	n.closed = true
}

func (n *Notifier) expire(seq uint64) {
	n.mu.Lock()
	if seq != n.seq || !n.visible || n.closed {
		n.mu.Unlock()
		return
	}
	n.visible = false
	n.timer = nil
	cur, observers := n.current, n.observersLocked()
	n.mu.Unlock()

	for _, fn := range observers {
		fn(cur, false)
	}
}

func (n *Notifier) stopTimerLocked() {
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
}

func (n *Notifier) observersLocked() []func(Notification, bool) {
	out := make([]func(Notification, bool), len(n.observers))
	copy(out, n.observers)
	return out
}
