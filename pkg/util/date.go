package util

import (
	"strconv"
	"time"
)

// ParseTime accepts RFC3339 (with or without fractional seconds) and
// positive unix-seconds timestamps, the two formats the dashboard
// frontend sends for window bounds.
func ParseTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339, time.RFC3339Nano} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	if secs, err := strconv.ParseInt(s, 10, 64); err == nil && secs > 0 {
		return time.Unix(secs, 0), true
	}
	return time.Time{}, false
}

// ParseTimeDefault falls back to def when s is empty or unparseable.
func ParseTimeDefault(s string, def time.Time) time.Time {
	if t, ok := ParseTime(s); ok {
		return t
	}
	return def
}
