package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/amonks/guidex/draft"
	"github.com/amonks/guidex/goal"
	"github.com/amonks/guidex/insight"
	"github.com/amonks/guidex/journal"
	"github.com/amonks/guidex/profile"
	"github.com/amonks/guidex/store"
	"github.com/google/go-cmp/cmp"
)

func TestGoalComposerBlocksUntilValid(t *testing.T) {
	st := store.NewMemory()
	defer st.Close()
	board := openBoard(t, st, Options{})
	ctx := context.Background()

	composer := board.GoalComposer()
	if err := composer.Begin(); err != nil {
		t.Fatalf("begin: %v", err)
	}
	if err := composer.Set(func(g *goal.Goal) {
		g.Tasks = append(g.Tasks, goal.Task{Title: "Outline"}, goal.Task{Title: "  "})
	}); err != nil {
		t.Fatalf("set: %v", err)
	}

	err := composer.Commit(ctx)
	var validationErr *draft.ValidationError
	if !errors.As(err, &validationErr) || validationErr.Field != "title" {
		t.Fatalf("expected title validation error, got %v", err)
	}
	if composer.State() != draft.StateEditing {
		t.Fatalf("expected draft to stay open")
	}
	if UserMessage(composer.Err()) != "title is required" {
		t.Fatalf("unexpected message %q", UserMessage(composer.Err()))
	}

	if err := composer.Set(func(g *goal.Goal) {
		g.Title = " Write a book "
		g.Deadline = "2026-12-01"
		g.Category = "design"
	}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := composer.Commit(ctx); err != nil {
		t.Fatalf("commit: %v", err)
	}

	created := composer.Committed()
	if created.ID == "" || created.Title != "Write a book" || created.Category != "Design" {
		t.Fatalf("unexpected goal %+v", created)
	}
	if len(created.Tasks) != 1 || created.Tasks[0].ID == "" {
		t.Fatalf("expected one stamped task, got %+v", created.Tasks)
	}
	if _, err := board.Goal(created.ID); err != nil {
		t.Fatalf("expected goal on board: %v", err)
	}
}

func TestGoalEditorRejectsBadDeadline(t *testing.T) {
	st := store.NewMemory()
	defer st.Close()
	board := openBoard(t, st, Options{})
	ctx := context.Background()

	created, err := board.CreateGoal(ctx, goal.CreateOptions{Title: "Garden"})
	if err != nil {
		t.Fatalf("create goal: %v", err)
	}
	editor, err := board.GoalEditor(created.ID)
	if err != nil {
		t.Fatalf("editor: %v", err)
	}
	if err := editor.Begin(); err != nil {
		t.Fatalf("begin: %v", err)
	}
	_ = editor.Set(func(g *goal.Goal) { g.Deadline = "next week" })

	err = editor.Commit(ctx)
	var validationErr *draft.ValidationError
	if !errors.As(err, &validationErr) || validationErr.Field != "deadline" {
		t.Fatalf("expected deadline validation error, got %v", err)
	}

	_ = editor.Set(func(g *goal.Goal) {
		g.Deadline = "2027-01-01"
		g.Status = goal.StatusOnHold
	})
	if err := editor.Commit(ctx); err != nil {
		t.Fatalf("commit: %v", err)
	}
	updated, err := board.Goal(created.ID)
	if err != nil {
		t.Fatalf("goal: %v", err)
	}
	if updated.Status != goal.StatusOnHold || updated.Deadline != "2027-01-01" {
		t.Fatalf("unexpected goal %+v", updated)
	}
	view := board.View()
	if len(view.Completed) != 1 {
		t.Fatalf("expected on-hold goal in completed partition")
	}
}

func TestProfileDiscardRestoresCommittedBytes(t *testing.T) {
	st := store.NewMemory()
	defer st.Close()
	board := openBoard(t, st, Options{Email: "ada@example.com"})

	editor := board.ProfileEditor()
	before, err := json.Marshal(editor.Committed())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := editor.Begin(); err != nil {
		t.Fatalf("begin: %v", err)
	}
	_ = editor.Set(func(p *profile.Profile) {
		p.Name = "Someone else"
		p.Interests = append(p.Interests, "Chess")
	})
	editor.Discard()

	after, err := json.Marshal(editor.Committed())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if diff := cmp.Diff(string(before), string(after)); diff != "" {
		t.Fatalf("discard leaked draft fields (-before +after):\n%s", diff)
	}
	if board.Profile().Name != "ada" {
		t.Fatalf("expected board profile untouched")
	}
}

func TestProfileEditorSaves(t *testing.T) {
	st := store.NewMemory()
	defer st.Close()
	board := openBoard(t, st, Options{})
	ctx := context.Background()

	editor := board.ProfileEditor()
	_ = editor.Begin()
	_ = editor.Set(func(p *profile.Profile) { p.Name = "  " })
	var validationErr *draft.ValidationError
	if err := editor.Commit(ctx); !errors.As(err, &validationErr) || validationErr.Field != "name" {
		t.Fatalf("expected name validation error, got %v", err)
	}
	_ = editor.Set(func(p *profile.Profile) {
		p.Name = " Ada "
		p.Title = "Engineer"
	})
	if err := editor.Commit(ctx); err != nil {
		t.Fatalf("commit: %v", err)
	}
	stored, _, err := st.Profiles().Get(ctx, "ada", "ada")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.Name != "Ada" || stored.Title != "Engineer" {
		t.Fatalf("unexpected stored profile %+v", stored)
	}
}

func TestInterests(t *testing.T) {
	st := store.NewMemory()
	defer st.Close()
	board := openBoard(t, st, Options{})
	ctx := context.Background()

	if _, err := board.AddInterest(ctx, " "); err == nil {
		t.Fatalf("expected error for blank interest")
	}
	if _, err := board.AddInterest(ctx, "Go"); err != nil {
		t.Fatalf("add: %v", err)
	}
	prof, err := board.AddInterest(ctx, " Go ")
	if err != nil {
		t.Fatalf("add again: %v", err)
	}
	if diff := cmp.Diff([]string{"Go"}, prof.Interests); diff != "" {
		t.Fatalf("unexpected interests (-want +got):\n%s", diff)
	}
	prof, err = board.RemoveInterest(ctx, "Go")
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(prof.Interests) != 0 {
		t.Fatalf("expected no interests, got %v", prof.Interests)
	}
}

func TestWriteEntryWithoutAnalysisUsesDefaults(t *testing.T) {
	st := store.NewMemory()
	defer st.Close()
	now := time.Date(2026, time.March, 4, 21, 15, 0, 0, time.UTC)
	board := openBoard(t, st, Options{Now: func() time.Time { return now }})

	entry, err := board.WriteEntry(context.Background(), "  Long day.  ", "", true)
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if entry.Content != "Long day." {
		t.Fatalf("expected trimmed content, got %q", entry.Content)
	}
	if entry.Mood != journal.DefaultMood || entry.Sentiment != journal.DefaultSentiment || entry.Summary != journal.DefaultSummary {
		t.Fatalf("expected defaults, got %+v", entry)
	}
	if entry.Date != "Mar 4, 2026" || entry.Day != journal.DayOf(now) {
		t.Fatalf("unexpected date stamp %q / %d", entry.Date, entry.Day)
	}
}

func TestWriteEntryAppliesAnalysis(t *testing.T) {
	st := store.NewMemory()
	defer st.Close()
	service := fakeInsight{ok: true, analysis: insight.Analysis{Mood: "focused", Summary: "Deep work.", Sentiment: 88}}
	board := openBoard(t, st, Options{Insight: service})

	entry, err := board.WriteEntry(context.Background(), "Wrote the parser.", journal.MoodTired, true)
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if entry.Mood != journal.MoodFocused || entry.Summary != "Deep work." || entry.Sentiment != 88 {
		t.Fatalf("expected analysis applied, got %+v", entry)
	}

	manual, err := board.WriteEntry(context.Background(), "Skipped analysis.", journal.MoodTired, false)
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if manual.Mood != journal.MoodTired {
		t.Fatalf("expected selected mood, got %q", manual.Mood)
	}
}

func TestWriteEntryRequiresContent(t *testing.T) {
	st := store.NewMemory()
	defer st.Close()
	board := openBoard(t, st, Options{})

	_, err := board.WriteEntry(context.Background(), "   ", "", false)
	var validationErr *draft.ValidationError
	if !errors.As(err, &validationErr) || validationErr.Field != "content" {
		t.Fatalf("expected content validation error, got %v", err)
	}
	if len(board.Entries()) != 0 {
		t.Fatalf("expected nothing saved")
	}
}

func TestJournalEditorKeepsCreatedAt(t *testing.T) {
	st := store.NewMemory()
	defer st.Close()
	clk := &clock{now: time.Date(2026, time.March, 4, 9, 0, 0, 0, time.UTC)}
	board := openBoard(t, st, Options{Now: clk.Now})
	ctx := context.Background()

	entry, err := board.WriteEntry(ctx, "First draft", "", false)
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	clk.Advance(48 * time.Hour)

	editor, err := board.JournalEditor(entry.ID[:4])
	if err != nil {
		t.Fatalf("editor: %v", err)
	}
	_ = editor.Begin()
	_ = editor.Set(func(e *journal.Entry) { e.Content = "Second draft" })
	if err := editor.Commit(ctx); err != nil {
		t.Fatalf("commit: %v", err)
	}
	updated, err := board.Entry(entry.ID)
	if err != nil {
		t.Fatalf("entry: %v", err)
	}
	if updated.Content != "Second draft" || !updated.CreatedAt.Equal(entry.CreatedAt) || updated.Date != "Mar 4, 2026" {
		t.Fatalf("unexpected edited entry %+v", updated)
	}
	if len(board.Entries()) != 1 {
		t.Fatalf("expected edit in place")
	}
}
