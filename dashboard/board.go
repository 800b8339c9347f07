// Package dashboard coordinates the record store, the insight service and
// the metrics engine for one signed-in owner.
//
// A Board keeps the owner's goals, journal entries and profile in memory,
// recomputes analytics from them on demand, and refreshes them when the
// store reports a change. Explicit writes go through the store first and
// return its error; background refreshes only log.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/amonks/guidex/goal"
	"github.com/amonks/guidex/insight"
	"github.com/amonks/guidex/internal/logging"
	"github.com/amonks/guidex/internal/telemetry"
	"github.com/amonks/guidex/journal"
	"github.com/amonks/guidex/metrics"
	"github.com/amonks/guidex/profile"
	"github.com/amonks/guidex/store"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrTogglePending is returned when a goal already has an unconfirmed write.
	ErrTogglePending = errors.New("goal has a pending change")
)

// Settings tunes the analytics.
type Settings struct {
	// MoodWindow is the dashboard mood trend length. Zero or less keeps all.
	MoodWindow int
	// TopActive is how many active goals the dashboard highlights.
	TopActive int
	Weights   metrics.EffortWeights
}

// DefaultSettings returns the dashboard defaults.
func DefaultSettings() Settings {
	return Settings{
		MoodWindow: metrics.DashboardMoodWindow,
		TopActive:  3,
		Weights:    metrics.DefaultEffortWeights(),
	}
}

// Options configures Open.
type Options struct {
	Store   store.Store
	Insight insight.Service
	// Owner is the signed-in owner. Empty means nobody is signed in.
	Owner string
	Email string
	// Categories restricts goal categories. Empty means the defaults.
	Categories []goal.Category
	Settings   Settings
	// Now defaults to time.Now.
	Now    func() time.Time
	Logger *zap.Logger
}

// Board is the in-memory view of one owner's records.
type Board struct {
	store      store.Store
	insight    insight.Service
	owner      string
	email      string
	categories []goal.Category
	settings   Settings
	now        func() time.Time
	logger     *zap.Logger

	mu      sync.RWMutex
	goals   []goal.Goal
	entries []journal.Entry
	profile profile.Profile
	pending map[string]bool
}

// Open loads the owner's records in parallel, creating the profile on
// first access.
func Open(ctx context.Context, opts Options) (*Board, error) {
	if strings.TrimSpace(opts.Owner) == "" {
		return nil, store.ErrAuth
	}
	if opts.Store == nil {
		return nil, fmt.Errorf("dashboard: store is required")
	}
	if opts.Insight == nil {
		opts.Insight = insight.Offline{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Settings == (Settings{}) {
		opts.Settings = DefaultSettings()
	}
	if len(opts.Categories) == 0 {
		opts.Categories = goal.DefaultCategories()
	}

	b := &Board{
		store:      opts.Store,
		insight:    opts.Insight,
		owner:      opts.Owner,
		email:      opts.Email,
		categories: opts.Categories,
		settings:   opts.Settings,
		now:        opts.Now,
		logger:     logging.OrNop(opts.Logger),
		pending:    make(map[string]bool),
	}

	var (
		goals   []goal.Goal
		entries []journal.Entry
		prof    profile.Profile
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		goals, err = b.store.Goals().List(gctx, b.owner)
		return err
	})
	g.Go(func() error {
		var err error
		entries, err = b.store.Journal().List(gctx, b.owner)
		return err
	})
	g.Go(func() error {
		var err error
		prof, err = b.ensureProfile(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	b.goals = goals
	b.entries = entries
	b.profile = prof
	return b, nil
}

// Owner returns the signed-in owner.
func (b *Board) Owner() string { return b.owner }

// Categories returns the allowed goal categories.
func (b *Board) Categories() []goal.Category { return slices.Clone(b.categories) }

// Insight returns the insight service the board analyzes with.
func (b *Board) Insight() insight.Service { return b.insight }

// Goals returns a copy of the loaded goals, newest first.
func (b *Board) Goals() []goal.Goal {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return cloneGoals(b.goals)
}

// Entries returns a copy of the loaded journal entries, newest first.
func (b *Board) Entries() []journal.Entry {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return slices.Clone(b.entries)
}

// Profile returns a copy of the loaded profile.
func (b *Board) Profile() profile.Profile {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.profile.Clone()
}

// Goal returns the goal with the given ID.
func (b *Board) Goal(id string) (goal.Goal, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	idx := goalIndex(b.goals, id)
	if idx < 0 {
		return goal.Goal{}, fmt.Errorf("%w: %s", goal.ErrGoalNotFound, id)
	}
	return b.goals[idx].Clone(), nil
}

// ResolveGoal returns the goal whose ID matches prefix.
func (b *Board) ResolveGoal(prefix string) (goal.Goal, error) {
	b.mu.RLock()
	index := goal.NewIDIndex(b.goals)
	b.mu.RUnlock()
	id, err := index.Resolve(prefix)
	if err != nil {
		return goal.Goal{}, err
	}
	return b.Goal(id)
}

// Entry returns the journal entry with the given ID or unique ID prefix.
func (b *Board) Entry(prefix string) (journal.Entry, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	var match *journal.Entry
	for i := range b.entries {
		entry := &b.entries[i]
		if entry.ID == prefix {
			return *entry, nil
		}
		if prefix != "" && strings.HasPrefix(entry.ID, prefix) {
			if match != nil {
				return journal.Entry{}, fmt.Errorf("ambiguous entry ID prefix: %s", prefix)
			}
			match = entry
		}
	}
	if match == nil {
		return journal.Entry{}, fmt.Errorf("%w: %s", journal.ErrEntryNotFound, prefix)
	}
	return *match, nil
}

// Refresh reloads every collection. On failure the previous data is kept,
// the failure is logged, and the error is returned.
func (b *Board) Refresh(ctx context.Context) error {
	var errs []error
	for _, kind := range store.Kinds() {
		if err := b.RefreshKind(ctx, kind); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RefreshKind reloads one collection.
func (b *Board) RefreshKind(ctx context.Context, kind store.Kind) error {
	var err error
	switch kind {
	case store.KindGoals:
		var goals []goal.Goal
		if goals, err = b.store.Goals().List(ctx, b.owner); err == nil {
			b.mu.Lock()
			b.goals = b.keepPending(goals)
			b.mu.Unlock()
		}
	case store.KindJournal:
		var entries []journal.Entry
		if entries, err = b.store.Journal().List(ctx, b.owner); err == nil {
			b.mu.Lock()
			b.entries = entries
			b.mu.Unlock()
		}
	case store.KindProfiles:
		var prof profile.Profile
		var found bool
		if prof, found, err = b.store.Profiles().Get(ctx, b.owner, b.owner); err == nil && found {
			b.mu.Lock()
			b.profile = prof
			b.mu.Unlock()
		}
	default:
		err = fmt.Errorf("unknown record kind %q", kind)
	}
	if err != nil {
		telemetry.StoreErrors.WithLabelValues(string(kind), "refresh").Inc()
		b.logger.Warn("store_refresh_failed", zap.String("kind", string(kind)), zap.Error(err))
	}
	return err
}

// keepPending returns loaded with any goal that has an unconfirmed toggle
// replaced by the local optimistic version. Callers hold b.mu.
func (b *Board) keepPending(loaded []goal.Goal) []goal.Goal {
	if len(b.pending) == 0 {
		return loaded
	}
	for i := range loaded {
		if !b.pending[loaded[i].ID] {
			continue
		}
		if idx := goalIndex(b.goals, loaded[i].ID); idx >= 0 {
			loaded[i] = b.goals[idx].Clone()
		}
	}
	return loaded
}

// Subscribe registers for change notifications on every record kind.
// Each notification refreshes the changed collection and then calls
// onUpdate, if set. The returned stop function unsubscribes and waits for
// in-flight callbacks; it must not be called from onUpdate.
func (b *Board) Subscribe(ctx context.Context, onUpdate func(store.Kind)) (stop func(), err error) {
	var subs []*store.Subscription
	stop = func() {
		for _, sub := range subs {
			sub.Unsubscribe()
		}
		for _, sub := range subs {
			<-sub.Done()
		}
	}
	for _, kind := range store.Kinds() {
		sub, err := b.store.Subscribe(b.owner, kind, func() {
			if ctx.Err() != nil {
				return
			}
			if err := b.RefreshKind(ctx, kind); err != nil {
				return
			}
			if onUpdate != nil {
				onUpdate(kind)
			}
		})
		if err != nil {
			stop()
			return nil, err
		}
		subs = append(subs, sub)
	}
	return stop, nil
}

// Watch is Subscribe until ctx is done.
func (b *Board) Watch(ctx context.Context, onUpdate func(store.Kind)) error {
	stop, err := b.Subscribe(ctx, onUpdate)
	if err != nil {
		return err
	}
	defer stop()
	<-ctx.Done()
	return nil
}

// CreateGoal validates opts and saves a new goal.
func (b *Board) CreateGoal(ctx context.Context, opts goal.CreateOptions) (goal.Goal, error) {
	if opts.Category != "" {
		if err := goal.ValidateCategory(opts.Category, b.categories); err != nil {
			return goal.Goal{}, err
		}
	}
	if opts.Category == "" {
		opts.Category = b.defaultCategory()
	}
	opts.Category = goal.NormalizeCategory(opts.Category, b.categories)
	created, err := goal.New(opts, b.now())
	if err != nil {
		return goal.Goal{}, err
	}
	if err := b.saveGoal(ctx, created); err != nil {
		return goal.Goal{}, err
	}
	b.logger.Info("goal_created", zap.String("goal_id", created.ID), zap.Int("tasks", len(created.Tasks)))
	return created, nil
}

// defaultCategory is Coding when configured, else the first configured category.
func (b *Board) defaultCategory() goal.Category {
	if goal.ValidateCategory(goal.DefaultCategory, b.categories) == nil {
		return goal.NormalizeCategory(goal.DefaultCategory, b.categories)
	}
	return b.categories[0]
}

// saveGoal writes g and then mirrors it locally. A goal with an unconfirmed
// write is rejected with ErrTogglePending, so a toggle that later reverts
// never discards a save that reached the store.
func (b *Board) saveGoal(ctx context.Context, g goal.Goal) error {
	b.mu.Lock()
	if b.pending[g.ID] {
		b.mu.Unlock()
		return ErrTogglePending
	}
	b.pending[g.ID] = true
	b.mu.Unlock()

	err := b.store.Goals().Upsert(ctx, b.owner, g)

	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.pending, g.ID)
	if err != nil {
		telemetry.StoreErrors.WithLabelValues(string(store.KindGoals), "upsert").Inc()
		return err
	}
	b.goals = upsertLocal(b.goals, g.Clone(), goalID)
	return nil
}

// ToggleTask flips a task's completion and recomputes the goal status from
// its tasks. The change is applied locally before the store confirms it;
// if the store write fails the goal reverts to its previous state and the
// error is returned.
func (b *Board) ToggleTask(ctx context.Context, goalID, taskID string) (goal.Goal, error) {
	b.mu.Lock()
	idx := goalIndex(b.goals, goalID)
	if idx < 0 {
		b.mu.Unlock()
		return goal.Goal{}, fmt.Errorf("%w: %s", goal.ErrGoalNotFound, goalID)
	}
	if b.pending[goalID] {
		b.mu.Unlock()
		return goal.Goal{}, ErrTogglePending
	}
	previous := b.goals[idx].Clone()
	next, err := previous.ToggleTask(taskID, b.now())
	if err != nil {
		b.mu.Unlock()
		return goal.Goal{}, err
	}
	next.Status = metrics.EffectiveStatus(next)
	b.goals[idx] = next.Clone()
	b.pending[goalID] = true
	b.mu.Unlock()

	err = b.store.Goals().Upsert(ctx, b.owner, next)

	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.pending, goalID)
	if err != nil {
		if idx := goalIndex(b.goals, goalID); idx >= 0 {
			b.goals[idx] = previous
		}
		telemetry.StoreErrors.WithLabelValues(string(store.KindGoals), "upsert").Inc()
		telemetry.TaskToggles.WithLabelValues("reverted").Inc()
		b.logger.Warn("task_toggle_reverted",
			zap.String("goal_id", goalID),
			zap.String("task_id", taskID),
			zap.Error(err),
		)
		return previous.Clone(), err
	}
	telemetry.TaskToggles.WithLabelValues("applied").Inc()
	return next, nil
}

// Pending reports whether goalID has an unconfirmed write.
func (b *Board) Pending(goalID string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.pending[goalID]
}

// AddMilestone appends a task to a goal and saves it. Adding a milestone
// reopens a completed goal.
func (b *Board) AddMilestone(ctx context.Context, goalID, title string) (goal.Goal, error) {
	current, err := b.Goal(goalID)
	if err != nil {
		return goal.Goal{}, err
	}
	next, err := current.AddTask(title, b.now())
	if errors.Is(err, goal.ErrEmptyTitle) {
		return goal.Goal{}, titleRequired()
	}
	if err != nil {
		return goal.Goal{}, err
	}
	if err := b.saveGoal(ctx, next); err != nil {
		return goal.Goal{}, err
	}
	return next, nil
}

// DeleteGoal removes a goal.
func (b *Board) DeleteGoal(ctx context.Context, goalID string) error {
	if err := b.store.Goals().Delete(ctx, b.owner, goalID); err != nil {
		telemetry.StoreErrors.WithLabelValues(string(store.KindGoals), "delete").Inc()
		return err
	}
	b.mu.Lock()
	b.goals = slices.DeleteFunc(b.goals, func(g goal.Goal) bool { return g.ID == goalID })
	b.mu.Unlock()
	b.logger.Info("goal_deleted", zap.String("goal_id", goalID))
	return nil
}

// DeleteEntry removes a journal entry.
func (b *Board) DeleteEntry(ctx context.Context, entryID string) error {
	if err := b.store.Journal().Delete(ctx, b.owner, entryID); err != nil {
		telemetry.StoreErrors.WithLabelValues(string(store.KindJournal), "delete").Inc()
		return err
	}
	b.mu.Lock()
	b.entries = slices.DeleteFunc(b.entries, func(e journal.Entry) bool { return e.ID == entryID })
	b.mu.Unlock()
	return nil
}

// AddInterest adds an interest to the profile and saves it.
func (b *Board) AddInterest(ctx context.Context, interest string) (profile.Profile, error) {
	next, err := b.Profile().AddInterest(interest)
	if errors.Is(err, profile.ErrEmptyInterest) {
		return profile.Profile{}, interestRequired()
	}
	if err != nil {
		return profile.Profile{}, err
	}
	return next, b.saveProfile(ctx, next)
}

// RemoveInterest removes an interest from the profile and saves it.
func (b *Board) RemoveInterest(ctx context.Context, interest string) (profile.Profile, error) {
	next := b.Profile().RemoveInterest(interest)
	return next, b.saveProfile(ctx, next)
}

func (b *Board) saveProfile(ctx context.Context, p profile.Profile) error {
	if err := b.store.Profiles().Upsert(ctx, b.owner, p); err != nil {
		telemetry.StoreErrors.WithLabelValues(string(store.KindProfiles), "upsert").Inc()
		return err
	}
	b.mu.Lock()
	b.profile = p.Clone()
	b.mu.Unlock()
	return nil
}

func (b *Board) saveEntry(ctx context.Context, e journal.Entry) error {
	if err := b.store.Journal().Upsert(ctx, b.owner, e); err != nil {
		telemetry.StoreErrors.WithLabelValues(string(store.KindJournal), "upsert").Inc()
		return err
	}
	b.mu.Lock()
	b.entries = upsertLocal(b.entries, e, entryID)
	b.mu.Unlock()
	return nil
}

func goalID(g goal.Goal) string { return g.ID }

func entryID(e journal.Entry) string { return e.ID }

func goalIndex(goals []goal.Goal, id string) int {
	return slices.IndexFunc(goals, func(g goal.Goal) bool { return g.ID == id })
}

// upsertLocal replaces the record with the same ID or prepends record.
func upsertLocal[T any](records []T, record T, id func(T) string) []T {
	key := id(record)
	if idx := slices.IndexFunc(records, func(r T) bool { return id(r) == key }); idx >= 0 {
		records[idx] = record
		return records
	}
	return append([]T{record}, records...)
}

func cloneGoals(goals []goal.Goal) []goal.Goal {
	out := make([]goal.Goal, len(goals))
	for i, g := range goals {
		out[i] = g.Clone()
	}
	return out
}
