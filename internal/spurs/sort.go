package spurs

import "sort"

// SortByUpdated orders workflows by UpdatedAt, newest first. Workflows with
// equal timestamps keep their relative order.
func SortByUpdated(ws []Workflow) {
	sort.SliceStable(ws, func(i, j int) bool {
		return ws[i].UpdatedAt.After(ws[j].UpdatedAt.Time)
	})
}

// RecentRuns returns at most MaxRecentRuns runs from the head of runs.
// The backend returns runs newest first.
func RecentRuns(runs []Run) []Run {
	if len(runs) > MaxRecentRuns {
		runs = runs[:MaxRecentRuns]
	}
	out := make([]Run, len(runs))
	copy(out, runs)
	return out
}
