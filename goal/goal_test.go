package goal

import (
	"errors"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	g, err := New(CreateOptions{
		Title:      "  Learn X ",
		Deadline:   "2025-06-01",
		Milestones: []string{"read docs", "  ", "ship demo"},
	}, now)
	if err != nil {
		t.Fatalf("failed to create goal: %v", err)
	}

	if g.Title != "Learn X" {
		t.Errorf("expected trimmed title, got %q", g.Title)
	}
	if g.Status != StatusActive {
		t.Errorf("expected status active, got %q", g.Status)
	}
	if g.Category != DefaultCategory {
		t.Errorf("expected default category, got %q", g.Category)
	}
	if len(g.ID) != 8 {
		t.Errorf("expected 8-char ID, got %q", g.ID)
	}
	if len(g.Tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(g.Tasks))
	}
	if g.Tasks[0].ID == g.Tasks[1].ID {
		t.Errorf("expected distinct task IDs, got %q twice", g.Tasks[0].ID)
	}
	if !g.CreatedAt.Equal(now) {
		t.Errorf("expected created_at %v, got %v", now, g.CreatedAt)
	}
}

func TestNew_Validation(t *testing.T) {
	now := time.Now()
	if _, err := New(CreateOptions{Title: "   "}, now); !errors.Is(err, ErrEmptyTitle) {
		t.Errorf("expected ErrEmptyTitle, got %v", err)
	}
	if _, err := New(CreateOptions{Title: "x", Deadline: "June 1"}, now); !errors.Is(err, ErrInvalidDeadline) {
		t.Errorf("expected ErrInvalidDeadline, got %v", err)
	}
}

func TestGoal_AddTask(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	g, _ := New(CreateOptions{Title: "Run", Milestones: []string{"5k"}}, now)
	g.Status = StatusCompleted

	next, err := g.AddTask(" 10k ", now)
	if err != nil {
		t.Fatalf("failed to add task: %v", err)
	}
	if len(next.Tasks) != 2 || next.Tasks[1].Title != "10k" {
		t.Fatalf("expected appended task 10k, got %+v", next.Tasks)
	}
	if next.Status != StatusActive {
		t.Errorf("expected status active after add, got %q", next.Status)
	}
	if len(g.Tasks) != 1 {
		t.Errorf("expected original goal untouched, got %d tasks", len(g.Tasks))
	}

	if _, err := g.AddTask(" ", now); !errors.Is(err, ErrEmptyTitle) {
		t.Errorf("expected ErrEmptyTitle, got %v", err)
	}
}

func TestGoal_ToggleTask(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	g, _ := New(CreateOptions{Title: "Run", Milestones: []string{"5k"}}, now)
	taskID := g.Tasks[0].ID

	done, err := g.ToggleTask(taskID, now.Add(time.Hour))
	if err != nil {
		t.Fatalf("failed to toggle: %v", err)
	}
	if !done.Tasks[0].Completed || done.Tasks[0].CompletedAt == nil {
		t.Fatalf("expected completed task with completedAt, got %+v", done.Tasks[0])
	}
	if !done.Tasks[0].CompletedAt.Equal(now.Add(time.Hour)) {
		t.Errorf("expected completedAt %v, got %v", now.Add(time.Hour), done.Tasks[0].CompletedAt)
	}
	if g.Tasks[0].Completed {
		t.Errorf("expected original goal untouched")
	}

	undone, err := done.ToggleTask(taskID, now.Add(2*time.Hour))
	if err != nil {
		t.Fatalf("failed to toggle back: %v", err)
	}
	if undone.Tasks[0].Completed || undone.Tasks[0].CompletedAt != nil {
		t.Errorf("expected cleared completion, got %+v", undone.Tasks[0])
	}

	if _, err := g.ToggleTask("missing", now); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestGoal_CloneDoesNotAlias(t *testing.T) {
	at := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	g := Goal{ID: "g1", Title: "x", Tasks: []Task{{ID: "t1", Title: "a", Completed: true, CompletedAt: &at}}}

	clone := g.Clone()
	clone.Tasks[0].Title = "changed"
	*clone.Tasks[0].CompletedAt = at.Add(time.Hour)

	if g.Tasks[0].Title != "a" {
		t.Errorf("expected original title a, got %q", g.Tasks[0].Title)
	}
	if !g.Tasks[0].CompletedAt.Equal(at) {
		t.Errorf("expected original completedAt %v, got %v", at, g.Tasks[0].CompletedAt)
	}
}

func TestValidateCategory(t *testing.T) {
	if err := ValidateCategory("design", nil); err != nil {
		t.Errorf("expected case-insensitive match, got %v", err)
	}
	if err := ValidateCategory("Cooking", nil); !errors.Is(err, ErrInvalidCategory) {
		t.Errorf("expected ErrInvalidCategory, got %v", err)
	}
	if err := ValidateCategory("Cooking", []Category{"Cooking"}); err != nil {
		t.Errorf("expected configured category to pass, got %v", err)
	}
	if got := NormalizeCategory("health", nil); got != "Health" {
		t.Errorf("expected Health, got %q", got)
	}
}

func TestIDIndexResolve(t *testing.T) {
	index := NewIDIndex([]Goal{{ID: "abc12345"}, {ID: "abd12345"}})

	if id, err := index.Resolve("ABC"); err != nil || id != "abc12345" {
		t.Errorf("expected abc12345, got %q (%v)", id, err)
	}
	if _, err := index.Resolve("ab"); !errors.Is(err, ErrAmbiguousGoalIDPrefix) {
		t.Errorf("expected ErrAmbiguousGoalIDPrefix, got %v", err)
	}
	if _, err := index.Resolve("zz"); !errors.Is(err, ErrGoalNotFound) {
		t.Errorf("expected ErrGoalNotFound, got %v", err)
	}
}
