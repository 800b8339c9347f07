package session

import "errors"

var (
	// ErrSessionAlreadyActive indicates a focus session is already running.
	ErrSessionAlreadyActive = errors.New("focus session already active")
	// ErrSessionNotActive indicates no focus session is running.
	ErrSessionNotActive = errors.New("focus session not active")
)
