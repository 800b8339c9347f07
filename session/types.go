// Package session implements the focus session timer.
//
// A focus session is Idle or Active. Starting persists an active flag and a
// start timestamp to a durable key-value backend; stopping clears both. The
// elapsed time is always derived from the persisted start timestamp, so a
// timer survives process restarts. One focus session exists per backend.
package session

import (
	"fmt"
	"time"
)

// State is the focus session lifecycle state.
type State string

const (
	// StateIdle indicates no focus session is running.
	StateIdle State = "idle"
	// StateActive indicates a focus session is running.
	StateActive State = "active"
)

// ValidStates returns all valid state values.
func ValidStates() []State {
	return []State{StateIdle, StateActive}
}

// Keys in the durable backend.
const (
	KeyActive = "focus_session_active"
	KeyStart  = "focus_session_start"
)

// Status is a snapshot of the focus session.
type Status struct {
	State     State     `json:"state"`
	StartedAt time.Time `json:"started_at,omitzero"`
}

// Active reports whether the session is running.
func (s Status) Active() bool {
	return s.State == StateActive
}

// ElapsedAt returns how long the session has run at now. Idle sessions and
// start times in the future report zero.
func (s Status) ElapsedAt(now time.Time) time.Duration {
	if !s.Active() {
		return 0
	}
	elapsed := now.Sub(s.StartedAt)
	if elapsed < 0 {
		return 0
	}
	return elapsed
}

// FormatElapsed renders whole seconds as "{minutes}m {seconds}s". Minutes
// do not roll over into hours.
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	return fmt.Sprintf("%dm %ds", total/60, total%60)
}
