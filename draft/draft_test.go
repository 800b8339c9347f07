package draft

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/amonks/guidex/goal"
	"github.com/amonks/guidex/journal"
	"github.com/amonks/guidex/profile"
	"github.com/google/go-cmp/cmp"
)

func committedGoal() goal.Goal {
	at := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	return goal.Goal{
		ID:        "g1",
		Title:     "Learn X",
		Category:  "Coding",
		Status:    goal.StatusActive,
		Tasks:     []goal.Task{{ID: "t1", Title: "read", Completed: true, CompletedAt: &at}},
		CreatedAt: at,
	}
}

func goalOptions(save func(context.Context, goal.Goal) error) Options[goal.Goal] {
	return Options[goal.Goal]{Clone: goal.Goal.Clone, Save: save}
}

func TestDraft_SetDoesNotTouchCommitted(t *testing.T) {
	d := New(committedGoal(), goalOptions(nil))
	if err := d.Begin(); err != nil {
		t.Fatalf("failed to begin: %v", err)
	}

	err := d.Set(func(g *goal.Goal) {
		g.Title = "Learn Y"
		g.Tasks[0].Title = "changed"
		*g.Tasks[0].CompletedAt = time.Time{}
	})
	if err != nil {
		t.Fatalf("failed to set: %v", err)
	}

	if diff := cmp.Diff(committedGoal(), d.Committed()); diff != "" {
		t.Fatalf("committed value changed during edit (-want +got):\n%s", diff)
	}
	if got := d.Current(); got.Title != "Learn Y" || got.Category != "Coding" {
		t.Fatalf("expected only title to change, got %+v", got)
	}
}

func TestDraft_DiscardRestoresByteForByte(t *testing.T) {
	before, err := json.Marshal(committedGoal())
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}

	d := New(committedGoal(), goalOptions(nil))
	d.Begin()
	d.Set(func(g *goal.Goal) {
		g.Title = ""
		g.Tasks = append(g.Tasks, goal.Task{ID: "t2", Title: "extra"})
	})
	if err := d.Commit(context.Background()); err == nil {
		t.Fatalf("expected validation error before discard")
	}
	d.Discard()

	if d.State() != StateViewing {
		t.Fatalf("expected viewing after discard, got %q", d.State())
	}
	if d.Err() != nil {
		t.Fatalf("expected discard to clear errors, got %v", d.Err())
	}
	after, err := json.Marshal(d.Current())
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}
	if string(before) != string(after) {
		t.Fatalf("expected byte-identical value after discard:\nbefore %s\nafter  %s", before, after)
	}
}

func TestDraft_CommitSuccess(t *testing.T) {
	var saved []goal.Goal
	d := New(committedGoal(), goalOptions(func(_ context.Context, g goal.Goal) error {
		saved = append(saved, g)
		return nil
	}))
	d.Begin()
	d.Set(func(g *goal.Goal) { g.Title = "Learn Y" })

	if err := d.Commit(context.Background()); err != nil {
		t.Fatalf("failed to commit: %v", err)
	}
	if d.State() != StateViewing {
		t.Errorf("expected viewing after commit, got %q", d.State())
	}
	if got := d.Committed().Title; got != "Learn Y" {
		t.Errorf("expected committed title Learn Y, got %q", got)
	}
	if len(saved) != 1 || saved[0].Title != "Learn Y" {
		t.Errorf("expected one save of Learn Y, got %+v", saved)
	}
}

func TestDraft_CommitStoreFailureKeepsDraft(t *testing.T) {
	storeErr := errors.New("network down")
	d := New(committedGoal(), goalOptions(func(context.Context, goal.Goal) error {
		return storeErr
	}))
	d.Begin()
	d.Set(func(g *goal.Goal) { g.Title = "Learn Y" })

	err := d.Commit(context.Background())
	if !errors.Is(err, storeErr) {
		t.Fatalf("expected store error, got %v", err)
	}
	if d.State() != StateEditing {
		t.Errorf("expected to remain editing, got %q", d.State())
	}
	if got := d.Current().Title; got != "Learn Y" {
		t.Errorf("expected draft preserved, got %q", got)
	}
	if got := d.Committed().Title; got != "Learn X" {
		t.Errorf("expected committed unchanged, got %q", got)
	}
	if !errors.Is(d.Err(), storeErr) {
		t.Errorf("expected error to stay reported, got %v", d.Err())
	}
	d.DismissError()
	if d.Err() != nil || d.State() != StateEditing {
		t.Errorf("expected dismiss to clear error and keep draft")
	}
}

func TestDraft_CommitValidation(t *testing.T) {
	cases := []struct {
		name  string
		field string
		run   func(t *testing.T) error
	}{
		{
			name:  "goal title",
			field: "title",
			run: func(t *testing.T) error {
				d := New(committedGoal(), goalOptions(nil))
				d.Begin()
				d.Set(func(g *goal.Goal) { g.Title = "   " })
				return d.Commit(context.Background())
			},
		},
		{
			name:  "task title",
			field: "title",
			run: func(t *testing.T) error {
				d := New(committedGoal(), goalOptions(nil))
				d.Begin()
				d.Set(func(g *goal.Goal) { g.Tasks[0].Title = "" })
				return d.Commit(context.Background())
			},
		},
		{
			name:  "entry content",
			field: "content",
			run: func(t *testing.T) error {
				d := New(journal.Entry{}, Options[journal.Entry]{})
				d.Begin()
				d.Set(func(e *journal.Entry) { e.Mood = journal.MoodCalm })
				return d.Commit(context.Background())
			},
		},
		{
			name:  "profile name",
			field: "name",
			run: func(t *testing.T) error {
				d := New(profile.Profile{ID: "u", Name: "ada"}, Options[profile.Profile]{Clone: profile.Profile.Clone})
				d.Begin()
				d.Set(func(p *profile.Profile) { p.Name = "" })
				return d.Commit(context.Background())
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.run(t)
			var validationErr *ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if validationErr.Field != tc.field {
				t.Fatalf("expected field %q, got %q", tc.field, validationErr.Field)
			}
			if validationErr.Error() != tc.field+" is required" {
				t.Fatalf("unexpected message %q", validationErr.Error())
			}
		})
	}
}

func TestDraft_PrepareDoesNotLeakIntoDraft(t *testing.T) {
	storeErr := errors.New("fail")
	d := New(journal.Entry{}, Options[journal.Entry]{
		Prepare: func(e journal.Entry) journal.Entry {
			return e.Stamp(time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC))
		},
		Save: func(context.Context, journal.Entry) error { return storeErr },
	})
	d.Begin()
	d.Set(func(e *journal.Entry) { e.Content = "hello" })

	if err := d.Commit(context.Background()); !errors.Is(err, storeErr) {
		t.Fatalf("expected store error, got %v", err)
	}
	if got := d.Current(); got.ID != "" || got.Date != "" {
		t.Fatalf("expected draft untouched by prepare, got %+v", got)
	}
}

func TestDraft_StateErrors(t *testing.T) {
	d := New(committedGoal(), goalOptions(nil))
	if err := d.Set(func(*goal.Goal) {}); !errors.Is(err, ErrNotEditing) {
		t.Errorf("expected ErrNotEditing from Set, got %v", err)
	}
	if err := d.Commit(context.Background()); !errors.Is(err, ErrNotEditing) {
		t.Errorf("expected ErrNotEditing from Commit, got %v", err)
	}
	d.Begin()
	if err := d.Begin(); !errors.Is(err, ErrAlreadyEditing) {
		t.Errorf("expected ErrAlreadyEditing, got %v", err)
	}
}

func TestDraft_IndependentInstances(t *testing.T) {
	goals := New(committedGoal(), goalOptions(nil))
	profiles := New(profile.Profile{ID: "u", Name: "ada"}, Options[profile.Profile]{Clone: profile.Profile.Clone})

	goals.Begin()
	profiles.Begin()
	profiles.Discard()

	if goals.State() != StateEditing {
		t.Fatalf("expected goal draft to stay open, got %q", goals.State())
	}
}
