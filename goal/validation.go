package goal

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/amonks/guidex/internal/validation"
)

var (
	// ErrEmptyTitle is returned when a goal or task title is blank.
	ErrEmptyTitle = errors.New("title cannot be empty")

	// ErrInvalidStatus is returned when an invalid status is provided.
	ErrInvalidStatus = errors.New("invalid status")

	// ErrInvalidCategory is returned when a category is not configured.
	ErrInvalidCategory = errors.New("invalid category")

	// ErrInvalidDeadline is returned when a deadline is not a calendar date.
	ErrInvalidDeadline = errors.New("invalid deadline")

	// ErrGoalNotFound is returned when a goal with the given ID doesn't exist.
	ErrGoalNotFound = errors.New("goal not found")

	// ErrTaskNotFound is returned when a task ID is not part of the goal.
	ErrTaskNotFound = errors.New("task not found")

	// ErrAmbiguousGoalIDPrefix is returned when an ID prefix matches multiple goals.
	ErrAmbiguousGoalIDPrefix = errors.New("ambiguous goal ID prefix")
)

// ValidateTitle checks that the title is not blank.
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return ErrEmptyTitle
	}
	return nil
}

// ValidateStatus checks if the status is valid.
func ValidateStatus(status Status) error {
	if !status.IsValid() {
		return validation.FormatInvalidValueError(ErrInvalidStatus, status, ValidStatuses())
	}
	return nil
}

// ValidateCategory checks the category against the allowed set.
// An empty allowed set means DefaultCategories.
func ValidateCategory(category Category, allowed []Category) error {
	if len(allowed) == 0 {
		allowed = DefaultCategories()
	}
	for _, candidate := range allowed {
		if strings.EqualFold(string(candidate), string(category)) {
			return nil
		}
	}
	return validation.FormatInvalidValueError(ErrInvalidCategory, category, allowed)
}

// NormalizeCategory returns the configured spelling of category.
func NormalizeCategory(category Category, allowed []Category) Category {
	if len(allowed) == 0 {
		allowed = DefaultCategories()
	}
	for _, candidate := range allowed {
		if strings.EqualFold(string(candidate), string(category)) {
			return candidate
		}
	}
	return category
}

// ValidateDeadline checks that a non-empty deadline parses as a date.
func ValidateDeadline(deadline string) error {
	if deadline == "" {
		return nil
	}
	if _, err := time.Parse(DeadlineLayout, deadline); err != nil {
		return fmt.Errorf("%w: %q (want YYYY-MM-DD)", ErrInvalidDeadline, deadline)
	}
	return nil
}
