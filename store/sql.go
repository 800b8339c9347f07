package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/amonks/guidex/goal"
	"github.com/amonks/guidex/journal"
	"github.com/amonks/guidex/profile"
	"go.uber.org/zap"

	_ "modernc.org/sqlite"
)

const defaultPollInterval = 500 * time.Millisecond

// SQLOptions configures a SQLStore.
type SQLOptions struct {
	// Path is the database file.
	Path string
	// Watch enables change notifications for commits made by other
	// connections, such as another gx process.
	Watch bool
	// PollInterval is how often Watch checks for outside commits.
	PollInterval time.Duration
	Logger       *zap.Logger
}

// SQLStore keeps records as JSON documents in a SQLite database.
//
// With Watch set, outside commits are found by polling PRAGMA data_version,
// which changes only when another connection commits. The changed rows are
// unknown, so every subscriber is notified.
type SQLStore struct {
	db     *sql.DB
	hub    *Hub
	logger *zap.Logger

	stop    chan struct{}
	done    chan struct{}
	closeMu sync.Once

	goals    *sqlCollection[goal.Goal]
	journal  *sqlCollection[journal.Entry]
	profiles *sqlCollection[profile.Profile]
}

// OpenSQL opens or creates the database at opts.Path.
func OpenSQL(ctx context.Context, opts SQLOptions) (*SQLStore, error) {
	if opts.Path == "" {
		return nil, fmt.Errorf("open database: path is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	db, err := sql.Open("sqlite", opts.Path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// SQLite serializes writers; a single connection avoids SQLITE_BUSY.
	// Keeping it open also keeps data_version comparable between polls.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if err := migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	s := &SQLStore{db: db, hub: NewHub(), logger: logger}
	s.goals = &sqlCollection[goal.Goal]{store: s, kind: KindGoals}
	s.journal = &sqlCollection[journal.Entry]{store: s, kind: KindJournal}
	s.profiles = &sqlCollection[profile.Profile]{store: s, kind: KindProfiles}

	if opts.Watch {
		interval := opts.PollInterval
		if interval <= 0 {
			interval = defaultPollInterval
		}
		version, err := s.dataVersion(ctx)
		if err != nil {
			db.Close()
			return nil, err
		}
		s.stop = make(chan struct{})
		s.done = make(chan struct{})
		go s.poll(interval, version)
	}
	return s, nil
}

func (s *SQLStore) dataVersion(ctx context.Context) (int64, error) {
	var version int64
	if err := s.db.QueryRowContext(ctx, `PRAGMA data_version`).Scan(&version); err != nil {
		return 0, fmt.Errorf("read data version: %w", err)
	}
	return version, nil
}

func (s *SQLStore) poll(interval time.Duration, last int64) {
	defer close(s.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			version, err := s.dataVersion(context.Background())
			if err != nil {
				s.logger.Warn("store_watch_failed", zap.Error(err))
				continue
			}
			if version == last {
				continue
			}
			last = version
			s.hub.PublishAll()
		}
	}
}

func migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`PRAGMA journal_mode=WAL`,
		`PRAGMA busy_timeout=5000`,
		`CREATE TABLE IF NOT EXISTS records (
			kind TEXT NOT NULL,
			owner TEXT NOT NULL,
			id TEXT NOT NULL,
			created_at INTEGER NOT NULL,
			body TEXT NOT NULL,
			PRIMARY KEY (kind, owner, id)
		)`,
		`CREATE INDEX IF NOT EXISTS records_by_created ON records (kind, owner, created_at DESC)`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

func (s *SQLStore) Goals() Collection[goal.Goal]          { return s.goals }
func (s *SQLStore) Journal() Collection[journal.Entry]    { return s.journal }
func (s *SQLStore) Profiles() Collection[profile.Profile] { return s.profiles }

// Subscribe registers onChange for writes to kind by owner.
func (s *SQLStore) Subscribe(owner string, kind Kind, onChange func()) (*Subscription, error) {
	if err := requireOwner(owner); err != nil {
		return nil, err
	}
	return s.hub.Subscribe(owner, kind, onChange), nil
}

// Close stops the poller and every subscription, then closes the database.
func (s *SQLStore) Close() error {
	var err error
	s.closeMu.Do(func() {
		if s.stop != nil {
			close(s.stop)
			<-s.done
		}
		s.hub.Close()
		err = s.db.Close()
	})
	return err
}

type sqlCollection[T Record] struct {
	store *SQLStore
	kind  Kind
}

func (c *sqlCollection[T]) List(ctx context.Context, owner string) ([]T, error) {
	if err := requireOwner(owner); err != nil {
		return nil, err
	}
	rows, err := c.store.db.QueryContext(ctx,
		`SELECT body FROM records WHERE kind = ? AND owner = ? ORDER BY created_at DESC, rowid ASC`,
		string(c.kind), owner)
	if err != nil {
		return nil, wrapErr("list", c.kind, err)
	}
	defer rows.Close()

	items := []T{}
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, wrapErr("list", c.kind, err)
		}
		var item T
		if err := json.Unmarshal([]byte(body), &item); err != nil {
			return nil, wrapErr("list", c.kind, fmt.Errorf("decode record: %w", err))
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("list", c.kind, err)
	}
	return items, nil
}

func (c *sqlCollection[T]) Get(ctx context.Context, owner, id string) (T, bool, error) {
	var zero T
	if err := requireOwner(owner); err != nil {
		return zero, false, err
	}
	var body string
	err := c.store.db.QueryRowContext(ctx,
		`SELECT body FROM records WHERE kind = ? AND owner = ? AND id = ?`,
		string(c.kind), owner, id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, wrapErr("get", c.kind, err)
	}
	var item T
	if err := json.Unmarshal([]byte(body), &item); err != nil {
		return zero, false, wrapErr("get", c.kind, fmt.Errorf("decode record: %w", err))
	}
	return item, true, nil
}

func (c *sqlCollection[T]) Upsert(ctx context.Context, owner string, record T) error {
	if err := requireOwner(owner); err != nil {
		return err
	}
	body, err := json.Marshal(record)
	if err != nil {
		return wrapErr("upsert", c.kind, fmt.Errorf("encode record: %w", err))
	}
	_, err = c.store.db.ExecContext(ctx,
		`INSERT INTO records (kind, owner, id, created_at, body) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (kind, owner, id) DO UPDATE SET created_at = excluded.created_at, body = excluded.body`,
		string(c.kind), owner, record.RecordID(), record.RecordCreatedAt().UnixMilli(), string(body))
	if err != nil {
		return wrapErr("upsert", c.kind, err)
	}
	c.store.hub.Publish(owner, c.kind)
	return nil
}

func (c *sqlCollection[T]) Delete(ctx context.Context, owner, id string) error {
	if err := requireOwner(owner); err != nil {
		return err
	}
	result, err := c.store.db.ExecContext(ctx,
		`DELETE FROM records WHERE kind = ? AND owner = ? AND id = ?`,
		string(c.kind), owner, id)
	if err != nil {
		return wrapErr("delete", c.kind, err)
	}
	if n, err := result.RowsAffected(); err == nil && n > 0 {
		c.store.hub.Publish(owner, c.kind)
	}
	return nil
}
