// Package draft implements the Viewing/Editing state machine used for
// every editable entity.
//
// Begin snapshots the committed value into a separate draft. Set mutates
// only the draft. Commit validates and saves it and adopts it as the
// committed value once the save succeeds; on failure the draft stays open
// and untouched. Discard drops the draft.
package draft

import (
	"context"
	"errors"
	"sync"
)

// State is the editing state of a Draft.
type State string

const (
	// StateViewing indicates no edit is in progress.
	StateViewing State = "viewing"
	// StateEditing indicates a draft is open.
	StateEditing State = "editing"
)

var (
	// ErrNotEditing is returned when an edit operation runs while viewing.
	ErrNotEditing = errors.New("no draft is open")
	// ErrAlreadyEditing is returned when Begin runs while a draft is open.
	ErrAlreadyEditing = errors.New("draft is already open")
)

// Options configures a Draft.
type Options[T any] struct {
	// Clone deep-copies a value. Required for types holding slices,
	// maps, or pointers.
	Clone func(T) T
	// Prepare normalizes the draft just before validation and saving,
	// for example by stamping IDs or trimming fields. The open draft is
	// never modified by Prepare.
	Prepare func(T) T
	// Validate checks the prepared value. Defaults to ValidateStruct.
	Validate func(T) error
	// Save persists the prepared value.
	Save func(context.Context, T) error
}

// Draft holds a committed value and, while editing, a separate mutable
// copy of it. It is safe for concurrent use.
type Draft[T any] struct {
	mu        sync.Mutex
	opts      Options[T]
	committed T
	draft     T
	state     State
	err       error
}

// New returns a Draft in StateViewing over committed.
func New[T any](committed T, opts Options[T]) *Draft[T] {
	if opts.Clone == nil {
		opts.Clone = func(v T) T { return v }
	}
	if opts.Validate == nil {
		opts.Validate = func(v T) error { return ValidateStruct(v) }
	}
	return &Draft[T]{opts: opts, committed: opts.Clone(committed), state: StateViewing}
}

// State returns the current editing state.
func (d *Draft[T]) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Begin opens a draft as a copy of the committed value.
func (d *Draft[T]) Begin() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state == StateEditing {
		return ErrAlreadyEditing
	}
	d.draft = d.opts.Clone(d.committed)
	d.state = StateEditing
	d.err = nil
	return nil
}

// Set applies fn to the open draft.
func (d *Draft[T]) Set(fn func(*T)) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state != StateEditing {
		return ErrNotEditing
	}
	fn(&d.draft)
	return nil
}

// Commit validates and saves the draft. The committed value is replaced
// and the draft closed only after Save succeeds. Validation and save
// errors are returned, kept available from Err, and leave the draft open
// and unchanged.
//
// The lock is not held while Save runs, so Save may take as long as it
// needs. Edits made concurrently with a Commit are lost once it succeeds.
func (d *Draft[T]) Commit(ctx context.Context) error {
	d.mu.Lock()
	if d.state != StateEditing {
		d.mu.Unlock()
		return ErrNotEditing
	}
	candidate := d.opts.Clone(d.draft)
	d.mu.Unlock()

	if d.opts.Prepare != nil {
		candidate = d.opts.Prepare(candidate)
	}
	if err := d.opts.Validate(candidate); err != nil {
		return d.fail(err)
	}
	if d.opts.Save != nil {
		if err := d.opts.Save(ctx, d.opts.Clone(candidate)); err != nil {
			return d.fail(err)
		}
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.committed = candidate
	var zero T
	d.draft = zero
	d.state = StateViewing
	d.err = nil
	return nil
}

func (d *Draft[T]) fail(err error) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.err = err
	return err
}

// Discard drops the open draft and any reported error. The committed
// value is untouched. Discarding while viewing is a no-op.
func (d *Draft[T]) Discard() {
	d.mu.Lock()
	defer d.mu.Unlock()
	var zero T
	d.draft = zero
	d.state = StateViewing
	d.err = nil
}

// Err returns the error from the last failed Commit, if it has not been
// dismissed or superseded.
func (d *Draft[T]) Err() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.err
}

// DismissError clears the reported error without closing the draft.
func (d *Draft[T]) DismissError() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.err = nil
}

// Committed returns a copy of the committed value.
func (d *Draft[T]) Committed() T {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.opts.Clone(d.committed)
}

// Current returns a copy of the draft while editing and of the committed
// value otherwise.
func (d *Draft[T]) Current() T {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state == StateEditing {
		return d.opts.Clone(d.draft)
	}
	return d.opts.Clone(d.committed)
}

// Reset replaces the committed value, for example after the record store
// reports a newer version. An open draft is left alone.
func (d *Draft[T]) Reset(committed T) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.committed = d.opts.Clone(committed)
}
