package models

import "time"

// Window is the time range every aggregation is scoped to.
// Both bounds are inclusive, matching the BETWEEN semantics of the stores.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewWindow builds a window from explicit bounds.
func NewWindow(start, end time.Time) Window {
	return Window{Start: start, End: end}
}

// Today returns the default window: local midnight to 23:59:59.
func Today() Window {
	now := time.Now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	end := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, now.Location())
	return Window{Start: start, End: end}
}

// Hours returns the window length in whole hours, used for throughput rates.
func (w Window) Hours() int64 {
	return int64(w.End.Sub(w.Start) / time.Hour)
}

// Key returns a stable cache key for the window.
func (w Window) Key() string {
	return w.Start.UTC().Format(time.RFC3339) + "_" + w.End.UTC().Format(time.RFC3339)
}
