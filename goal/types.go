// Package goal models user goals and their milestone checklists.
//
// A Goal owns an ordered list of Tasks. Task order is insertion order and
// is significant for display. The stored Status may lag behind the task
// list; progress computations in package metrics are the authority on
// whether a goal is done.
package goal

import (
	"time"
)

// Status represents the stored lifecycle state of a goal.
type Status string

const (
	// StatusActive indicates the goal is being worked on.
	StatusActive Status = "active"

	// StatusCompleted indicates every milestone was finished.
	StatusCompleted Status = "completed"

	// StatusOnHold indicates the goal is paused.
	StatusOnHold Status = "on-hold"
)

// ValidStatuses returns all valid status values.
func ValidStatuses() []Status {
	return []Status{StatusActive, StatusCompleted, StatusOnHold}
}

// IsValid returns true if the status is a known valid value.
func (s Status) IsValid() bool {
	for _, valid := range ValidStatuses() {
		if s == valid {
			return true
		}
	}
	return false
}

// Category groups goals for display. The set is configurable.
type Category string

// DefaultCategory is used when a goal is created without a category.
const DefaultCategory Category = "Coding"

// DefaultCategories returns the built-in category set.
func DefaultCategories() []Category {
	return []Category{"Coding", "Design", "Business", "Health", "Psychology", "Marketing"}
}

// DeadlineLayout is the calendar-date format for deadlines.
const DeadlineLayout = "2006-01-02"

// Goal is a user-defined objective decomposed into tasks.
type Goal struct {
	ID        string    `json:"id" toml:"-"`
	Title     string    `json:"title" validate:"notblank"`
	Deadline  string    `json:"deadline,omitempty"`
	Category  Category  `json:"category"`
	Status    Status    `json:"status"`
	Tasks     []Task    `json:"tasks" validate:"dive"`
	CreatedAt time.Time `json:"created_at"`
}

// Task is a single checkable milestone owned by one goal.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title" validate:"notblank"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// RecordID returns the goal's identifier.
func (g Goal) RecordID() string { return g.ID }

// RecordCreatedAt returns the goal's creation time.
func (g Goal) RecordCreatedAt() time.Time { return g.CreatedAt }

// CompletedCount returns the number of completed tasks.
func (g Goal) CompletedCount() int {
	count := 0
	for _, task := range g.Tasks {
		if task.Completed {
			count++
		}
	}
	return count
}

// TaskIndex returns the position of the task with the given ID, or -1.
func (g Goal) TaskIndex(taskID string) int {
	for i, task := range g.Tasks {
		if task.ID == taskID {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy of g that shares no memory with it.
func (g Goal) Clone() Goal {
	out := g
	if g.Tasks != nil {
		out.Tasks = make([]Task, len(g.Tasks))
		for i, task := range g.Tasks {
			out.Tasks[i] = task.clone()
		}
	}
	return out
}

func (t Task) clone() Task {
	if t.CompletedAt != nil {
		at := *t.CompletedAt
		t.CompletedAt = &at
	}
	return t
}
