package fsutil

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func TestWriteAtomicReplacesContents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "goals.jsonl")

	for _, body := range []string{"first\n", "second\n"} {
		err := WriteAtomic(path, func(w io.Writer) error {
			_, err := io.WriteString(w, body)
			return err
		})
		if err != nil {
			t.Fatalf("WriteAtomic: %v", err)
		}
		got, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if string(got) != body {
			t.Fatalf("expected %q, got %q", body, got)
		}
	}
}

func TestWriteAtomicKeepsOldContentsOnError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "state.json")
	if err := os.WriteFile(path, []byte("old"), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}

	boom := errors.New("encode failed")
	err := WriteAtomic(path, func(w io.Writer) error {
		io.WriteString(w, "partial")
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected %v, got %v", boom, err)
	}

	got, _ := os.ReadFile(path)
	if string(got) != "old" {
		t.Fatalf("expected old contents, got %q", got)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Fatalf("expected temp file cleanup, found %d entries", len(entries))
	}
}

func TestWithLockSerializesWriters(t *testing.T) {
	dir := t.TempDir()
	lockPath := filepath.Join(dir, "counter.lock")
	path := filepath.Join(dir, "counter")

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := WithLock(lockPath, func() error {
				var n int
				if data, err := os.ReadFile(path); err == nil {
					fmt.Sscan(string(data), &n)
				}
				return WriteAtomic(path, func(w io.Writer) error {
					_, err := fmt.Fprint(w, n+1)
					return err
				})
			})
			if err != nil {
				t.Errorf("WithLock: %v", err)
			}
		}()
	}
	wg.Wait()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "8" {
		t.Fatalf("expected 8 increments, got %s", data)
	}
}
