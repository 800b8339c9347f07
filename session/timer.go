package session

import (
	"context"
	"fmt"
	"maps"
	"strconv"
	"sync"
	"time"

	"github.com/amonks/guidex/internal/telemetry"
)

// Backend is the durable key-value storage a Timer persists to.
// internal/state.Store satisfies it.
type Backend interface {
	Get(key string) (string, bool, error)
	Set(values map[string]string) error
	Delete(keys ...string) error
}

// TimerOptions configures a Timer.
type TimerOptions struct {
	// Now overrides the clock. Defaults to time.Now.
	Now func() time.Time
}

// Timer is the focus session state machine.
type Timer struct {
	backend Backend
	now     func() time.Time
}

// NewTimer returns a timer persisting to backend.
func NewTimer(backend Backend, opts TimerOptions) *Timer {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Timer{backend: backend, now: now}
}

// Status reads the persisted session. A missing or unreadable start
// timestamp means the session is idle.
func (t *Timer) Status() (Status, error) {
	active, ok, err := t.backend.Get(KeyActive)
	if err != nil {
		return Status{}, fmt.Errorf("read focus session: %w", err)
	}
	if !ok || active != "true" {
		return Status{State: StateIdle}, nil
	}
	raw, ok, err := t.backend.Get(KeyStart)
	if err != nil {
		return Status{}, fmt.Errorf("read focus session: %w", err)
	}
	if !ok {
		return Status{State: StateIdle}, nil
	}
	millis, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return Status{State: StateIdle}, nil
	}
	return Status{State: StateActive, StartedAt: time.UnixMilli(millis)}, nil
}

// Start moves Idle to Active and persists the start time.
func (t *Timer) Start() (Status, error) {
	current, err := t.Status()
	if err != nil {
		return Status{}, err
	}
	if current.Active() {
		return current, ErrSessionAlreadyActive
	}

	startedAt := t.now().Truncate(time.Millisecond)
	err = t.backend.Set(map[string]string{
		KeyActive: "true",
		KeyStart:  strconv.FormatInt(startedAt.UnixMilli(), 10),
	})
	if err != nil {
		return Status{}, fmt.Errorf("start focus session: %w", err)
	}
	telemetry.FocusSessions.WithLabelValues("started").Inc()
	return Status{State: StateActive, StartedAt: startedAt}, nil
}

// Stop moves Active to Idle, clears the persisted keys, and returns the
// elapsed time of the session that ended.
func (t *Timer) Stop() (time.Duration, error) {
	current, err := t.Status()
	if err != nil {
		return 0, err
	}
	if !current.Active() {
		return 0, ErrSessionNotActive
	}
	elapsed := current.ElapsedAt(t.now())
	if err := t.backend.Delete(KeyActive, KeyStart); err != nil {
		return 0, fmt.Errorf("stop focus session: %w", err)
	}
	telemetry.FocusSessions.WithLabelValues("stopped").Inc()
	return elapsed, nil
}

// Elapsed returns the running session's elapsed time, or zero when idle.
func (t *Timer) Elapsed() (time.Duration, error) {
	current, err := t.Status()
	if err != nil {
		return 0, err
	}
	return current.ElapsedAt(t.now()), nil
}

// Watch calls fn with the current status and elapsed time every interval
// until ctx is done. The status is re-read from the backend on each tick.
func (t *Timer) Watch(ctx context.Context, interval time.Duration, fn func(Status, time.Duration)) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		current, err := t.Status()
		if err != nil {
			return err
		}
		fn(current, current.ElapsedAt(t.now()))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// MemoryBackend is an in-process Backend.
type MemoryBackend struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMemoryBackend returns an empty MemoryBackend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{values: make(map[string]string)}
}

func (m *MemoryBackend) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.values[key]
	return value, ok, nil
}

func (m *MemoryBackend) Set(values map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	maps.Copy(m.values, values)
	return nil
}

func (m *MemoryBackend) Delete(keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.values, key)
	}
	return nil
}
