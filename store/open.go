package store

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Backend names a Store implementation.
type Backend string

const (
	BackendFile   Backend = "file"
	BackendSQLite Backend = "sqlite"
	BackendMemory Backend = "memory"
)

// ValidBackends returns every backend name.
func ValidBackends() []Backend {
	return []Backend{BackendFile, BackendSQLite, BackendMemory}
}

// OpenOptions selects and configures a backend.
type OpenOptions struct {
	Backend Backend
	// Path is the data directory for BackendFile and the database file
	// for BackendSQLite.
	Path   string
	Watch  bool
	Logger *zap.Logger
}

// Open opens the configured backend. An empty backend means BackendFile.
func Open(ctx context.Context, opts OpenOptions) (Store, error) {
	switch opts.Backend {
	case BackendFile, "":
		s, err := OpenFile(FileOptions{Dir: opts.Path, Watch: opts.Watch, Logger: opts.Logger})
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendSQLite:
		s, err := OpenSQL(ctx, SQLOptions{Path: opts.Path, Watch: opts.Watch, Logger: opts.Logger})
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", opts.Backend)
	}
}
