package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/amonks/guidex/internal/state"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func TestTimer_StartStop(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
	timer := NewTimer(NewMemoryBackend(), TimerOptions{Now: clock.Now})

	status, err := timer.Status()
	if err != nil {
		t.Fatalf("failed to read status: %v", err)
	}
	if status.Active() {
		t.Fatalf("expected idle timer, got %+v", status)
	}

	started, err := timer.Start()
	if err != nil {
		t.Fatalf("failed to start: %v", err)
	}
	if !started.Active() || !started.StartedAt.Equal(clock.now) {
		t.Fatalf("unexpected start status %+v", started)
	}

	clock.now = clock.now.Add(75 * time.Second)
	elapsed, err := timer.Elapsed()
	if err != nil {
		t.Fatalf("failed to read elapsed: %v", err)
	}
	if elapsed != 75*time.Second {
		t.Errorf("expected 75s elapsed, got %v", elapsed)
	}

	if _, err := timer.Start(); !errors.Is(err, ErrSessionAlreadyActive) {
		t.Errorf("expected ErrSessionAlreadyActive, got %v", err)
	}

	stopped, err := timer.Stop()
	if err != nil {
		t.Fatalf("failed to stop: %v", err)
	}
	if stopped != 75*time.Second {
		t.Errorf("expected 75s at stop, got %v", stopped)
	}

	if elapsed, _ := timer.Elapsed(); elapsed != 0 {
		t.Errorf("expected elapsed reset to zero, got %v", elapsed)
	}
	if _, err := timer.Stop(); !errors.Is(err, ErrSessionNotActive) {
		t.Errorf("expected ErrSessionNotActive, got %v", err)
	}
}

func TestTimer_SurvivesRestart(t *testing.T) {
	dir := t.TempDir()
	clock := &fakeClock{now: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}

	first := NewTimer(state.NewStore(dir), TimerOptions{Now: clock.Now})
	if _, err := first.Start(); err != nil {
		t.Fatalf("failed to start: %v", err)
	}

	clock.now = clock.now.Add(10*time.Minute + 5*time.Second)
	second := NewTimer(state.NewStore(dir), TimerOptions{Now: clock.Now})
	elapsed, err := second.Elapsed()
	if err != nil {
		t.Fatalf("failed to read elapsed: %v", err)
	}
	if got := FormatElapsed(elapsed); got != "10m 5s" {
		t.Fatalf("expected 10m 5s after restart, got %q", got)
	}
}

func TestTimer_CorruptStartIsIdle(t *testing.T) {
	backend := NewMemoryBackend()
	backend.Set(map[string]string{KeyActive: "true", KeyStart: "yesterday"})

	status, err := NewTimer(backend, TimerOptions{}).Status()
	if err != nil {
		t.Fatalf("failed to read status: %v", err)
	}
	if status.Active() {
		t.Fatalf("expected corrupt session to read as idle, got %+v", status)
	}
}

func TestFormatElapsed(t *testing.T) {
	cases := []struct {
		name     string
		duration time.Duration
		want     string
	}{
		{name: "zero", duration: 0, want: "0m 0s"},
		{name: "seconds", duration: 7 * time.Second, want: "0m 7s"},
		{name: "truncates fractions", duration: 61*time.Second + 900*time.Millisecond, want: "1m 1s"},
		{name: "no hour rollover", duration: 2*time.Hour + 3*time.Second, want: "120m 3s"},
		{name: "negative", duration: -time.Second, want: "0m 0s"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := FormatElapsed(tc.duration); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestStatus_ElapsedAtFutureStart(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	status := Status{State: StateActive, StartedAt: now.Add(time.Minute)}
	if got := status.ElapsedAt(now); got != 0 {
		t.Fatalf("expected zero for future start, got %v", got)
	}
}

func TestTimer_Watch(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
	timer := NewTimer(NewMemoryBackend(), TimerOptions{Now: clock.Now})
	if _, err := timer.Start(); err != nil {
		t.Fatalf("failed to start: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	ticks := 0
	err := timer.Watch(ctx, time.Millisecond, func(status Status, elapsed time.Duration) {
		if !status.Active() {
			t.Errorf("expected active status on tick")
		}
		ticks++
		if ticks == 3 {
			cancel()
		}
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if ticks < 3 {
		t.Fatalf("expected at least 3 ticks, got %d", ticks)
	}
}
