package web

import (
	"errors"
	"net/http"

	"github.com/amonks/guidex/dashboard"
	"github.com/amonks/guidex/draft"
	"github.com/amonks/guidex/goal"
	"github.com/amonks/guidex/journal"
	"github.com/amonks/guidex/mentor"
	"github.com/amonks/guidex/profile"
	"github.com/amonks/guidex/session"
	"github.com/amonks/guidex/store"
	"github.com/gin-gonic/gin"
)

// errorResponse is the body of every failed request.
type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// statusFor maps an error to its HTTP status.
func statusFor(err error) int {
	var validationErr *draft.ValidationError
	var storeErr *store.Error
	switch {
	case errors.Is(err, store.ErrAuth):
		return http.StatusUnauthorized
	case errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.Is(err, goal.ErrGoalNotFound),
		errors.Is(err, goal.ErrTaskNotFound),
		errors.Is(err, journal.ErrEntryNotFound):
		return http.StatusNotFound
	case errors.Is(err, goal.ErrEmptyTitle),
		errors.Is(err, goal.ErrInvalidCategory),
		errors.Is(err, goal.ErrInvalidDeadline),
		errors.Is(err, goal.ErrInvalidStatus),
		errors.Is(err, goal.ErrAmbiguousGoalIDPrefix),
		errors.Is(err, journal.ErrEmptyContent),
		errors.Is(err, profile.ErrEmptyInterest),
		errors.Is(err, mentor.ErrEmptyPrompt),
		errors.Is(err, mentor.ErrNoGoals):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrSessionAlreadyActive),
		errors.Is(err, session.ErrSessionNotActive),
		errors.Is(err, draft.ErrAlreadyEditing),
		errors.Is(err, draft.ErrNotEditing),
		errors.Is(err, dashboard.ErrTogglePending):
		return http.StatusConflict
	case errors.Is(err, mentor.ErrReportUnavailable):
		return http.StatusBadGateway
	case errors.As(err, &storeErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, err error) {
	body := errorResponse{Error: err.Error()}
	var validationErr *draft.ValidationError
	if errors.As(err, &validationErr) {
		body.Field = validationErr.Field
	}
	c.AbortWithStatusJSON(statusFor(err), body)
}
