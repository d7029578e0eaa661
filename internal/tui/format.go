package tui

import (
	"strings"
	"time"

	"github.com/docker/go-units"

	"github.com/chazuruo/spurdeck/internal/spurs"
)

// Ago renders how long before now t was, e.g. "5 minutes ago".
// A zero t renders as "-".
func Ago(now time.Time, t spurs.Timestamp) string {
	if t.IsZero() {
		return "-"
	}
	d := now.Sub(t.Time)
	if d < 0 {
		d = 0
	}
	return units.HumanDuration(d) + " ago"
}

// RunSummary renders recent run statuses, newest first, e.g. "COMPLETED FAILED".
func RunSummary(runs []spurs.Run) string {
	if len(runs) == 0 {
		return "-"
	}
	parts := make([]string, len(runs))
	for i, r := range runs {
		parts[i] = string(r.Status)
	}
	return strings.Join(parts, " ")
}

// Truncate shortens s to at most n runes, marking the cut with "…".
func Truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}
