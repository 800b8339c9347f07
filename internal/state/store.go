package state

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"

	"github.com/amonks/guidex/internal/fsutil"
)

const (
	stateFileName = "state.json"
	lockFileName  = "state.lock"
)

// Store manages the state file with locking.
type Store struct {
	dir string
}

// NewStore creates a new state store using the given directory.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the directory holding the state file.
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) statePath() string {
	return filepath.Join(s.dir, stateFileName)
}

// Load reads the state from disk. A missing file is an empty state.
func (s *Store) Load() (*State, error) {
	data, err := os.ReadFile(s.statePath())
	if os.IsNotExist(err) {
		return &State{Values: map[string]string{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read state file: %w", err)
	}

	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("unmarshal state: %w", err)
	}
	if st.Values == nil {
		st.Values = map[string]string{}
	}
	return &st, nil
}

// Save writes the state to disk. Saving an unchanged state leaves the
// file untouched.
func (s *Store) Save(st *State) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	existing, err := os.ReadFile(s.statePath())
	switch {
	case err == nil && bytes.Equal(existing, data):
		return nil
	case err != nil && !os.IsNotExist(err):
		return fmt.Errorf("read state file: %w", err)
	}

	return fsutil.WriteAtomic(s.statePath(), func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}

// Update reads, modifies, and writes the state while holding the lock.
func (s *Store) Update(fn func(st *State) error) error {
	return fsutil.WithLock(filepath.Join(s.dir, lockFileName), func() error {
		st, err := s.Load()
		if err != nil {
			return err
		}
		if err := fn(st); err != nil {
			return err
		}
		return s.Save(st)
	})
}

// Get returns the value stored under key.
func (s *Store) Get(key string) (string, bool, error) {
	st, err := s.Load()
	if err != nil {
		return "", false, err
	}
	value, ok := st.Values[key]
	return value, ok, nil
}

// Set stores every key in values in a single locked write.
func (s *Store) Set(values map[string]string) error {
	return s.Update(func(st *State) error {
		maps.Copy(st.Values, values)
		return nil
	})
}

// Delete removes keys. Missing keys are ignored.
func (s *Store) Delete(keys ...string) error {
	return s.Update(func(st *State) error {
		for _, key := range keys {
			delete(st.Values, key)
		}
		return nil
	})
}
