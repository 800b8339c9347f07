package store

import (
	"context"
	"sync"

	"github.com/amonks/guidex/goal"
	"github.com/amonks/guidex/journal"
	"github.com/amonks/guidex/profile"
)

// Memory is an in-process Store. Nothing survives the process.
type Memory struct {
	hub      *Hub
	goals    *memCollection[goal.Goal]
	journal  *memCollection[journal.Entry]
	profiles *memCollection[profile.Profile]
}

// NewMemory returns an empty Memory store.
func NewMemory() *Memory {
	hub := NewHub()
	return &Memory{
		hub:      hub,
		goals:    newMemCollection(KindGoals, hub, goal.Goal.Clone),
		journal:  newMemCollection(KindJournal, hub, journal.Entry.Clone),
		profiles: newMemCollection(KindProfiles, hub, profile.Profile.Clone),
	}
}

func (m *Memory) Goals() Collection[goal.Goal]          { return m.goals }
func (m *Memory) Journal() Collection[journal.Entry]    { return m.journal }
func (m *Memory) Profiles() Collection[profile.Profile] { return m.profiles }

// Subscribe registers onChange for writes to kind by owner.
func (m *Memory) Subscribe(owner string, kind Kind, onChange func()) (*Subscription, error) {
	if err := requireOwner(owner); err != nil {
		return nil, err
	}
	return m.hub.Subscribe(owner, kind, onChange), nil
}

// Close stops every subscription.
func (m *Memory) Close() error {
	m.hub.Close()
	return nil
}

type memCollection[T Record] struct {
	mu      sync.Mutex
	kind    Kind
	hub     *Hub
	clone   func(T) T
	byOwner map[string][]T
}

func newMemCollection[T Record](kind Kind, hub *Hub, clone func(T) T) *memCollection[T] {
	return &memCollection[T]{kind: kind, hub: hub, clone: clone, byOwner: make(map[string][]T)}
}

func (c *memCollection[T]) List(ctx context.Context, owner string) ([]T, error) {
	if err := requireOwner(owner); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, wrapErr("list", c.kind, err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	stored := c.byOwner[owner]
	out := make([]T, 0, len(stored))
	for _, record := range stored {
		out = append(out, c.clone(record))
	}
	sortNewestFirst(out)
	return out, nil
}

func (c *memCollection[T]) Get(ctx context.Context, owner, id string) (T, bool, error) {
	var zero T
	if err := requireOwner(owner); err != nil {
		return zero, false, err
	}
	if err := ctx.Err(); err != nil {
		return zero, false, wrapErr("get", c.kind, err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	record, ok := find(c.byOwner[owner], id)
	if !ok {
		return zero, false, nil
	}
	return c.clone(record), true, nil
}

func (c *memCollection[T]) Upsert(ctx context.Context, owner string, record T) error {
	if err := requireOwner(owner); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return wrapErr("upsert", c.kind, err)
	}
	c.mu.Lock()
	c.byOwner[owner] = upsertInto(c.byOwner[owner], c.clone(record))
	c.mu.Unlock()
	c.hub.Publish(owner, c.kind)
	return nil
}

func (c *memCollection[T]) Delete(ctx context.Context, owner, id string) error {
	if err := requireOwner(owner); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return wrapErr("delete", c.kind, err)
	}
	c.mu.Lock()
	var removed bool
	c.byOwner[owner], removed = deleteFrom(c.byOwner[owner], id)
	c.mu.Unlock()
	if removed {
		c.hub.Publish(owner, c.kind)
	}
	return nil
}
