package bench

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// WriteCheckpoint atomically overwrites path with the accumulated rows.
// The file is complete or untouched; a crash mid-write leaves the previous
// checkpoint loadable.
func WriteCheckpoint(path string, rows []Row) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return errors.New("bench: empty checkpoint path")
	}
	if rows == nil {
		rows = []Row{}
	}

	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("bench: create checkpoint dir: %w", err)
		}
	}

	b, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return fmt.Errorf("bench: marshal checkpoint: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("bench: create temp checkpoint: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("bench: write checkpoint: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("bench: close checkpoint: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("bench: replace checkpoint: %w", err)
	}
	return nil
}

// LoadCheckpoint reads a prior checkpoint. A missing file is an empty run,
// not an error; a corrupt file is surfaced since overwriting it would
// silently discard completed work.
func LoadCheckpoint(path string) ([]Row, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("bench: empty checkpoint path")
	}

	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("bench: read checkpoint %q: %w", path, err)
	}

	var rows []Row
	if err := json.Unmarshal(b, &rows); err != nil {
		return nil, fmt.Errorf("bench: parse checkpoint %q: %w", path, err)
	}
	return rows, nil
}
