package store

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/amonks/guidex/internal/fsutil"
)

// maxRecordLineBytes bounds a single encoded record. Journal entries are
// the largest records and stay well under it.
const maxRecordLineBytes = 4 * 1024 * 1024

// readRecords decodes one JSON value per line. A missing file is an
// empty collection.
func readRecords[T any](path string) ([]T, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open records: %w", err)
	}
	defer f.Close()
	return decodeRecords[T](f)
}

func decodeRecords[T any](r io.Reader) ([]T, error) {
	var records []T
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxRecordLineBytes)
	for line := 1; scanner.Scan(); line++ {
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var record T
		if err := json.Unmarshal(raw, &record); err != nil {
			return nil, fmt.Errorf("decode record on line %d: %w", line, err)
		}
		records = append(records, record)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan records: %w", err)
	}
	return records, nil
}

// writeRecords replaces path with records, one JSON value per line.
func writeRecords[T any](path string, records []T) error {
	return fsutil.WriteAtomic(path, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		for i, record := range records {
			if err := enc.Encode(record); err != nil {
				return fmt.Errorf("encode record %d: %w", i, err)
			}
		}
		return nil
	})
}
