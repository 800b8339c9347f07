// Package store defines the record store the application persists goals,
// journal entries, and profiles to, and provides its backends.
//
// Every record is scoped to an owner. Lists come back newest created_at
// first. Deletes are idempotent. Subscribers are told that something of a
// kind changed for an owner, never what changed, and are expected to list
// again.
package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/amonks/guidex/goal"
	"github.com/amonks/guidex/journal"
	"github.com/amonks/guidex/profile"
)

// Kind names a record type.
type Kind string

const (
	KindGoals    Kind = "goals"
	KindJournal  Kind = "journal"
	KindProfiles Kind = "profiles"
)

// Kinds returns every record kind.
func Kinds() []Kind {
	return []Kind{KindGoals, KindJournal, KindProfiles}
}

var (
	// ErrAuth is returned when an operation runs without an owner.
	ErrAuth = errors.New("please sign in")

	// ErrClosed is returned by operations on a closed store.
	ErrClosed = errors.New("store is closed")
)

// Error is a failure inside a store backend.
type Error struct {
	Op   string
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func wrapErr(op string, kind Kind, err error) error {
	if err == nil {
		return nil
	}
	var storeErr *Error
	if errors.Is(err, ErrAuth) || errors.As(err, &storeErr) {
		return err
	}
	return &Error{Op: op, Kind: kind, Err: err}
}

// Record is a stored entity.
type Record interface {
	RecordID() string
	RecordCreatedAt() time.Time
}

// Collection is the store of one record kind.
type Collection[T Record] interface {
	// List returns the owner's records, newest created_at first. An owner
	// with no records gets an empty slice.
	List(ctx context.Context, owner string) ([]T, error)
	// Get returns the record with the given ID.
	Get(ctx context.Context, owner, id string) (T, bool, error)
	// Upsert inserts the record or replaces the one with the same ID.
	Upsert(ctx context.Context, owner string, record T) error
	// Delete removes the record. Deleting a missing record succeeds.
	Delete(ctx context.Context, owner, id string) error
}

// Store holds every record kind.
type Store interface {
	Goals() Collection[goal.Goal]
	Journal() Collection[journal.Entry]
	Profiles() Collection[profile.Profile]
	// Subscribe calls onChange after any write to kind for owner,
	// including writes from other processes where the backend can see
	// them. Bursts of changes may be coalesced into one call.
	Subscribe(owner string, kind Kind, onChange func()) (*Subscription, error)
	Close() error
}

func requireOwner(owner string) error {
	if owner == "" {
		return ErrAuth
	}
	return nil
}

// sortNewestFirst orders records by descending created_at. Records with
// equal timestamps keep their relative order.
func sortNewestFirst[T Record](records []T) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].RecordCreatedAt().After(records[j].RecordCreatedAt())
	})
}

func find[T Record](records []T, id string) (T, bool) {
	for _, record := range records {
		if record.RecordID() == id {
			return record, true
		}
	}
	var zero T
	return zero, false
}

func upsertInto[T Record](records []T, record T) []T {
	for i, existing := range records {
		if existing.RecordID() == record.RecordID() {
			records[i] = record
			return records
		}
	}
	return append(records, record)
}

func deleteFrom[T Record](records []T, id string) ([]T, bool) {
	out := records[:0]
	removed := false
	for _, record := range records {
		if record.RecordID() == id {
			removed = true
			continue
		}
		out = append(out, record)
	}
	return out, removed
}
