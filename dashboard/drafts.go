package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/amonks/guidex/draft"
	"github.com/amonks/guidex/goal"
	"github.com/amonks/guidex/journal"
	"github.com/amonks/guidex/profile"
	"github.com/amonks/guidex/store"
	"go.uber.org/zap"
)

func titleRequired() error {
	return &draft.ValidationError{Field: "title", Rule: "required"}
}

func interestRequired() error {
	return &draft.ValidationError{Field: "interest", Rule: "required"}
}

// validateGoal checks struct tags, then the category and deadline.
func (b *Board) validateGoal(g goal.Goal) error {
	if err := draft.ValidateStruct(g); err != nil {
		return err
	}
	if err := goal.ValidateCategory(g.Category, b.categories); err != nil {
		return &draft.ValidationError{Field: "category", Rule: "oneof"}
	}
	if err := goal.ValidateDeadline(g.Deadline); err != nil {
		return &draft.ValidationError{Field: "deadline", Rule: "datetime"}
	}
	if err := goal.ValidateStatus(g.Status); err != nil {
		return &draft.ValidationError{Field: "status", Rule: "oneof"}
	}
	return nil
}

// GoalComposer returns a draft for a new goal. Milestones are added to the
// draft as tasks with a title only; blank ones are dropped on commit.
func (b *Board) GoalComposer() *draft.Draft[goal.Goal] {
	blank := goal.Goal{Category: b.defaultCategory(), Status: goal.StatusActive, Tasks: []goal.Task{}}
	return draft.New(blank, draft.Options[goal.Goal]{
		Clone: goal.Goal.Clone,
		Prepare: func(g goal.Goal) goal.Goal {
			milestones := make([]string, 0, len(g.Tasks))
			for _, task := range g.Tasks {
				milestones = append(milestones, task.Title)
			}
			created, err := goal.New(goal.CreateOptions{
				Title:      g.Title,
				Deadline:   strings.TrimSpace(g.Deadline),
				Category:   goal.NormalizeCategory(g.Category, b.categories),
				Milestones: milestones,
			}, b.now())
			if err != nil {
				// Validation reports the problem on the unprepared value.
				return g
			}
			return created
		},
		Validate: b.validateGoal,
		Save: func(ctx context.Context, g goal.Goal) error {
			if err := b.saveGoal(ctx, g); err != nil {
				return err
			}
			b.logger.Info("goal_created", zap.String("goal_id", g.ID), zap.Int("tasks", len(g.Tasks)))
			return nil
		},
	})
}

// GoalEditor returns a draft over an existing goal.
func (b *Board) GoalEditor(goalID string) (*draft.Draft[goal.Goal], error) {
	current, err := b.Goal(goalID)
	if err != nil {
		return nil, err
	}
	return draft.New(current, draft.Options[goal.Goal]{
		Clone: goal.Goal.Clone,
		Prepare: func(g goal.Goal) goal.Goal {
			g.Title = strings.TrimSpace(g.Title)
			g.Deadline = strings.TrimSpace(g.Deadline)
			g.Category = goal.NormalizeCategory(g.Category, b.categories)
			return g
		},
		Validate: b.validateGoal,
		Save:     b.saveGoal,
	}), nil
}

// JournalComposer returns a draft for a new journal entry. The entry is
// stamped with its ID, date label and day key on commit.
func (b *Board) JournalComposer() *draft.Draft[journal.Entry] {
	return draft.New(journal.Entry{Mood: journal.DefaultMood}, b.entryOptions())
}

// JournalEditor returns a draft over an existing entry.
func (b *Board) JournalEditor(entryID string) (*draft.Draft[journal.Entry], error) {
	current, err := b.Entry(entryID)
	if err != nil {
		return nil, err
	}
	return draft.New(current, b.entryOptions()), nil
}

func (b *Board) entryOptions() draft.Options[journal.Entry] {
	return draft.Options[journal.Entry]{
		Clone: journal.Entry.Clone,
		Prepare: func(e journal.Entry) journal.Entry {
			e.Content = strings.TrimSpace(e.Content)
			return e.Stamp(b.now())
		},
		Save: b.saveEntry,
	}
}

// Analyze runs sentiment analysis on the open journal draft and applies
// the result. It reports whether an analysis was applied; an unavailable
// analysis leaves the draft alone so the defaults apply on commit.
func (b *Board) Analyze(ctx context.Context, d *draft.Draft[journal.Entry]) (bool, error) {
	if d.State() != draft.StateEditing {
		return false, draft.ErrNotEditing
	}
	content := d.Current().Content
	if err := journal.ValidateContent(content); err != nil {
		return false, &draft.ValidationError{Field: "content", Rule: "required"}
	}
	analysis, ok := b.insight.AnalyzeSentiment(ctx, content)
	if !ok {
		return false, nil
	}
	err := d.Set(func(e *journal.Entry) {
		if mood := journal.ParseMood(analysis.Mood); mood != "" {
			e.Mood = mood
		}
		e.Summary = analysis.Summary
		e.Sentiment = analysis.Sentiment
	})
	return err == nil, err
}

// WriteEntry composes, optionally analyzes, and saves a journal entry in
// one step. mood is used when no analysis is applied.
func (b *Board) WriteEntry(ctx context.Context, content string, mood journal.Mood, analyze bool) (journal.Entry, error) {
	d := b.JournalComposer()
	if err := d.Begin(); err != nil {
		return journal.Entry{}, err
	}
	if err := d.Set(func(e *journal.Entry) {
		e.Content = content
		if mood != "" {
			e.Mood = mood
		}
	}); err != nil {
		return journal.Entry{}, err
	}
	if analyze {
		if _, err := b.Analyze(ctx, d); err != nil {
			return journal.Entry{}, err
		}
	}
	if err := d.Commit(ctx); err != nil {
		return journal.Entry{}, err
	}
	return d.Committed(), nil
}

// ProfileEditor returns a draft over the owner's profile.
func (b *Board) ProfileEditor() *draft.Draft[profile.Profile] {
	return draft.New(b.Profile(), draft.Options[profile.Profile]{
		Clone: profile.Profile.Clone,
		Prepare: func(p profile.Profile) profile.Profile {
			p.ID = b.owner
			p.Name = strings.TrimSpace(p.Name)
			p.Title = strings.TrimSpace(p.Title)
			p.Location = strings.TrimSpace(p.Location)
			p.Website = strings.TrimSpace(p.Website)
			return p
		},
		Save: b.saveProfile,
	})
}

// UserMessage renders err the way it is shown next to a form.
func UserMessage(err error) string {
	var validationErr *draft.ValidationError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, store.ErrAuth):
		return store.ErrAuth.Error()
	case errors.As(err, &validationErr):
		return validationErr.Error()
	default:
		return fmt.Sprintf("could not save: %v", err)
	}
}
