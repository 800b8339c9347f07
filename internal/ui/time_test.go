package ui

import (
	"testing"
	"time"
)

func TestFormatTimeAgo(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		name string
		then time.Time
		want string
	}{
		{name: "zero", then: time.Time{}, want: "-"},
		{name: "minutes", then: now.Add(-2 * time.Minute), want: "2 minutes ago"},
		{name: "hours", then: now.Add(-3 * time.Hour), want: "3 hours ago"},
		{name: "days", then: now.Add(-72 * time.Hour), want: "3 days ago"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := FormatTimeAgo(tc.then, now); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestFormatDeadline(t *testing.T) {
	now := time.Date(2026, 3, 4, 18, 30, 0, 0, time.UTC)
	cases := []struct {
		deadline string
		want     string
	}{
		{deadline: "2026-03-04", want: "today"},
		{deadline: "2026-03-07", want: "in 3d"},
		{deadline: "2026-03-02", want: "2d overdue"},
		{deadline: "", want: "-"},
		{deadline: "soon", want: "-"},
	}
	for _, tc := range cases {
		t.Run(tc.deadline, func(t *testing.T) {
			if got := FormatDeadline(tc.deadline, now); got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}
