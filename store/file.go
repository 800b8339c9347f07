package store

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/amonks/guidex/goal"
	"github.com/amonks/guidex/internal/fsutil"
	"github.com/amonks/guidex/journal"
	"github.com/amonks/guidex/profile"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const (
	recordExt = ".jsonl"
	lockExt   = ".lock"
)

// FileOptions configures a FileStore.
type FileOptions struct {
	// Dir is the root data directory.
	Dir string
	// Watch enables change notifications for writes made by other
	// processes.
	Watch  bool
	Logger *zap.Logger
}

// FileStore keeps one JSONL file per owner and kind under Dir:
//
//	<dir>/<kind>/<owner>.jsonl
//
// Writes rewrite the whole file atomically under an flock, so several
// processes can share a directory.
type FileStore struct {
	dir    string
	hub    *Hub
	logger *zap.Logger

	watcher *fsnotify.Watcher
	stop    chan struct{}
	done    chan struct{}
	closeMu sync.Once

	goals    *fileCollection[goal.Goal]
	journal  *fileCollection[journal.Entry]
	profiles *fileCollection[profile.Profile]
}

// OpenFile opens or creates a FileStore.
func OpenFile(opts FileOptions) (*FileStore, error) {
	if opts.Dir == "" {
		return nil, fmt.Errorf("open file store: directory is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	for _, kind := range Kinds() {
		if err := os.MkdirAll(filepath.Join(opts.Dir, string(kind)), 0755); err != nil {
			return nil, fmt.Errorf("create store dir: %w", err)
		}
	}

	s := &FileStore{dir: opts.Dir, hub: NewHub(), logger: logger}
	s.goals = &fileCollection[goal.Goal]{store: s, kind: KindGoals}
	s.journal = &fileCollection[journal.Entry]{store: s, kind: KindJournal}
	s.profiles = &fileCollection[profile.Profile]{store: s, kind: KindProfiles}

	if opts.Watch {
		if err := s.startWatcher(); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *FileStore) Goals() Collection[goal.Goal]          { return s.goals }
func (s *FileStore) Journal() Collection[journal.Entry]    { return s.journal }
func (s *FileStore) Profiles() Collection[profile.Profile] { return s.profiles }

// Subscribe registers onChange for writes to kind by owner.
func (s *FileStore) Subscribe(owner string, kind Kind, onChange func()) (*Subscription, error) {
	if err := requireOwner(owner); err != nil {
		return nil, err
	}
	return s.hub.Subscribe(owner, kind, onChange), nil
}

// Close stops the watcher and every subscription.
func (s *FileStore) Close() error {
	var err error
	s.closeMu.Do(func() {
		if s.watcher != nil {
			close(s.stop)
			<-s.done
			err = s.watcher.Close()
		}
		s.hub.Close()
	})
	return err
}

func (s *FileStore) recordPath(kind Kind, owner string) string {
	return filepath.Join(s.dir, string(kind), url.PathEscape(owner)+recordExt)
}

func (s *FileStore) startWatcher() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	for _, kind := range Kinds() {
		if err := watcher.Add(filepath.Join(s.dir, string(kind))); err != nil {
			watcher.Close()
			return fmt.Errorf("watch %s: %w", kind, err)
		}
	}
	s.watcher = watcher
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	go s.watch()
	return nil
}

func (s *FileStore) watch() {
	defer close(s.done)
	for {
		select {
		case <-s.stop:
			return
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			kind, owner, ok := s.parseRecordPath(event.Name)
			if !ok {
				continue
			}
			s.hub.Publish(owner, kind)
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.logger.Warn("store_watch_failed", zap.Error(err))
		}
	}
}

func (s *FileStore) parseRecordPath(path string) (Kind, string, bool) {
	base := filepath.Base(path)
	if !strings.HasSuffix(base, recordExt) {
		return "", "", false
	}
	kind := Kind(filepath.Base(filepath.Dir(path)))
	known := false
	for _, candidate := range Kinds() {
		if candidate == kind {
			known = true
			break
		}
	}
	if !known {
		return "", "", false
	}
	owner, err := url.PathUnescape(strings.TrimSuffix(base, recordExt))
	if err != nil || owner == "" {
		return "", "", false
	}
	return kind, owner, true
}

type fileCollection[T Record] struct {
	store *FileStore
	kind  Kind
}

func (c *fileCollection[T]) read(owner string) ([]T, error) {
	// Writers rename complete files into place, so reads need no lock.
	return readRecords[T](c.store.recordPath(c.kind, owner))
}

func (c *fileCollection[T]) update(owner string, fn func([]T) ([]T, bool)) error {
	path := c.store.recordPath(c.kind, owner)
	changed := false
	err := fsutil.WithLock(path+lockExt, func() error {
		items, err := readRecords[T](path)
		if err != nil {
			return err
		}
		var next []T
		next, changed = fn(items)
		if !changed {
			return nil
		}
		return writeRecords(path, next)
	})
	if err != nil {
		return err
	}
	if changed {
		c.store.hub.Publish(owner, c.kind)
	}
	return nil
}

func (c *fileCollection[T]) List(ctx context.Context, owner string) ([]T, error) {
	if err := requireOwner(owner); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, wrapErr("list", c.kind, err)
	}
	items, err := c.read(owner)
	if err != nil {
		return nil, wrapErr("list", c.kind, err)
	}
	if items == nil {
		items = []T{}
	}
	sortNewestFirst(items)
	return items, nil
}

func (c *fileCollection[T]) Get(ctx context.Context, owner, id string) (T, bool, error) {
	var zero T
	if err := requireOwner(owner); err != nil {
		return zero, false, err
	}
	if err := ctx.Err(); err != nil {
		return zero, false, wrapErr("get", c.kind, err)
	}
	items, err := c.read(owner)
	if err != nil {
		return zero, false, wrapErr("get", c.kind, err)
	}
	record, ok := find(items, id)
	return record, ok, nil
}

func (c *fileCollection[T]) Upsert(ctx context.Context, owner string, record T) error {
	if err := requireOwner(owner); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return wrapErr("upsert", c.kind, err)
	}
	err := c.update(owner, func(items []T) ([]T, bool) {
		return upsertInto(items, record), true
	})
	return wrapErr("upsert", c.kind, err)
}

func (c *fileCollection[T]) Delete(ctx context.Context, owner, id string) error {
	if err := requireOwner(owner); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return wrapErr("delete", c.kind, err)
	}
	err := c.update(owner, func(items []T) ([]T, bool) {
		return deleteFrom(items, id)
	})
	return wrapErr("delete", c.kind, err)
}
