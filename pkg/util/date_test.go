package util

import (
	"strconv"
	"testing"
	"time"
)

func TestParseTime(t *testing.T) {
	unix := time.Date(2026, 3, 15, 8, 30, 0, 0, time.UTC)

	cases := []struct {
		name string
		in   string
		ok   bool
		want time.Time
	}{
		{"rfc3339", "2026-03-15T08:30:00Z", true, unix},
		{"rfc3339 nano", "2026-03-15T08:30:00.000000001Z", true, unix.Add(time.Nanosecond)},
		{"unix seconds", strconv.FormatInt(unix.Unix(), 10), true, unix},
		{"empty", "", false, time.Time{}},
		{"garbage", "not-a-time", false, time.Time{}},
		{"negative unix", "-42", false, time.Time{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ParseTime(tc.in)
			if ok != tc.ok {
				t.Fatalf("ok = %v, want %v", ok, tc.ok)
			}
			if ok && !got.Equal(tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestParseTimeDefault(t *testing.T) {
	def := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	if got := ParseTimeDefault("", def); !got.Equal(def) {
		t.Fatalf("empty input should yield default, got %v", got)
	}
	if got := ParseTimeDefault("2026-03-16T00:00:00Z", def); got.Equal(def) {
		t.Fatalf("valid input should not yield default")
	}
}

func TestParseIntDefault(t *testing.T) {
	if got := ParseIntDefault("25", 0); got != 25 {
		t.Fatalf("got %d, want 25", got)
	}
	if got := ParseIntDefault("", 7); got != 7 {
		t.Fatalf("got %d, want 7", got)
	}
	if got := ParseIntDefault("x", 7); got != 7 {
		t.Fatalf("got %d, want 7", got)
	}
}
