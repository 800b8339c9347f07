package goal

import (
	"fmt"
	"strconv"
	"time"

	"github.com/amonks/guidex/internal/ids"
	internalstrings "github.com/amonks/guidex/internal/strings"
)

// taskIDLength is shorter than goal IDs since task IDs only need to be
// unique within their goal.
const taskIDLength = 6

// CreateOptions configures a new goal.
type CreateOptions struct {
	Title      string
	Deadline   string
	Category   Category
	Milestones []string
}

// New builds an active goal. Blank milestone titles are skipped.
func New(opts CreateOptions, now time.Time) (Goal, error) {
	title := internalstrings.NormalizeWhitespace(opts.Title)
	if err := ValidateTitle(title); err != nil {
		return Goal{}, err
	}
	if err := ValidateDeadline(opts.Deadline); err != nil {
		return Goal{}, err
	}
	category := opts.Category
	if category == "" {
		category = DefaultCategory
	}

	g := Goal{
		ID:        GenerateID(title, now),
		Title:     title,
		Deadline:  opts.Deadline,
		Category:  category,
		Status:    StatusActive,
		Tasks:     []Task{},
		CreatedAt: now,
	}
	for _, milestone := range opts.Milestones {
		milestone = internalstrings.NormalizeWhitespace(milestone)
		if milestone == "" {
			continue
		}
		g.Tasks = append(g.Tasks, Task{ID: g.nextTaskID(milestone, now), Title: milestone})
	}
	return g, nil
}

// GenerateID creates an 8-character ID from a title and timestamp.
func GenerateID(title string, timestamp time.Time) string {
	return ids.GenerateWithTimestamp(title, timestamp, ids.DefaultLength)
}

// AddTask returns a copy of g with a new incomplete task appended.
// Adding a milestone reopens the goal.
func (g Goal) AddTask(title string, now time.Time) (Goal, error) {
	title = internalstrings.NormalizeWhitespace(title)
	if err := ValidateTitle(title); err != nil {
		return Goal{}, err
	}
	out := g.Clone()
	out.Tasks = append(out.Tasks, Task{ID: out.nextTaskID(title, now), Title: title})
	out.Status = StatusActive
	return out, nil
}

// ToggleTask returns a copy of g with the task's completion flipped.
// completedAt is set to now on completion and cleared on reopen. The
// stored status is left for the caller to recompute.
func (g Goal) ToggleTask(taskID string, now time.Time) (Goal, error) {
	idx := g.TaskIndex(taskID)
	if idx < 0 {
		return Goal{}, fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
	}
	out := g.Clone()
	task := &out.Tasks[idx]
	task.Completed = !task.Completed
	if task.Completed {
		at := now
		task.CompletedAt = &at
	} else {
		task.CompletedAt = nil
	}
	return out, nil
}

func (g Goal) nextTaskID(title string, now time.Time) string {
	seed := g.ID + "/" + title + "/" + strconv.Itoa(len(g.Tasks))
	for attempt := 0; ; attempt++ {
		id := ids.GenerateWithTimestamp(seed+"/"+strconv.Itoa(attempt), now, taskIDLength)
		if g.TaskIndex(id) < 0 {
			return id
		}
	}
}
