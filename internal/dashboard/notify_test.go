package dashboard

import (
	"sync"
	"testing"
	"time"

	"github.com/facebookgo/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifierLastWriteWins(t *testing.T) {
	clk := clock.NewMock()
	n := NewNotifier(clk)
	defer n.Close()

	n.Notify("first", SeveritySuccess)
	n.Notify("second", SeverityDanger)

	cur, ok := n.Current()
	require.True(t, ok)
	assert.Equal(t, "second", cur.Message)
	assert.Equal(t, SeverityDanger, cur.Severity)
	assert.Equal(t, clk.Now(), cur.PostedAt)
}

func TestNotifierHidesAfterAlertDuration(t *testing.T) {
	clk := clock.NewMock()
	n := NewNotifier(clk)
	defer n.Close()

	n.Notify("saved", SeveritySuccess)
	clk.Add(AlertDuration - time.Millisecond)
	_, ok := n.Current()
	assert.True(t, ok)

	clk.Add(time.Millisecond)
	require.Eventually(t, func() bool {
		_, ok := n.Current()
		return !ok
	}, time.Second, 5*time.Millisecond)
}

func TestNotifierReplacementRestartsTimer(t *testing.T) {
	clk := clock.NewMock()
	n := NewNotifier(clk)
	defer n.Close()

	n.Notify("first", SeverityDefault)
	clk.Add(3 * time.Second)
	n.Notify("second", SeverityWarning)

	clk.Add(2 * time.Second)
	cur, ok := n.Current()
	require.True(t, ok)
	assert.Equal(t, "second", cur.Message)

	clk.Add(3 * time.Second)
	require.Eventually(t, func() bool {
		_, ok := n.Current()
		return !ok
	}, time.Second, 5*time.Millisecond)
}

func TestNotifierEmptySeverityDefaults(t *testing.T) {
	n := NewNotifier(clock.NewMock())
	defer n.Close()

	n.Notify("hello", "")
	cur, _ := n.Current()
	assert.Equal(t, SeverityDefault, cur.Severity)
}

func TestNotifierObserversAndDismiss(t *testing.T) {
	clk := clock.NewMock()
	n := NewNotifier(clk)
	defer n.Close()

	var mu sync.Mutex
	var events []bool
	n.OnChange(func(_ Notification, visible bool) {
		mu.Lock()
		events = append(events, visible)
		mu.Unlock()
	})

	n.Notify("a", SeveritySuccess)
	n.Dismiss()
	n.Dismiss()

	_, ok := n.Current()
	assert.False(t, ok)

	clk.Add(AlertDuration)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []bool{true, false}, events)
}

func TestNotifierCloseIgnoresMessages(t *testing.T) {
	n := NewNotifier(clock.NewMock())
	n.Close()

	n.Notify("late", SeverityDanger)
	_, ok := n.Current()
	assert.False(t, ok)
}
