package web

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/amonks/guidex/dashboard"
	"github.com/amonks/guidex/draft"
	"github.com/amonks/guidex/session"
)

func TestStatusForConflicts(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"session already active", session.ErrSessionAlreadyActive},
		{"draft already open", draft.ErrAlreadyEditing},
		{"draft not open", fmt.Errorf("edit goal: %w", draft.ErrNotEditing)},
		{"goal write pending", dashboard.ErrTogglePending},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := statusFor(tt.err); got != http.StatusConflict {
				t.Fatalf("expected 409, got %d", got)
			}
		})
	}
}
