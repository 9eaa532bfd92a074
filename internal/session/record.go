package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ErrNoRecord is returned by Load when no execution record exists on disk.
var ErrNoRecord = errors.New("no previous execution")

// ExecutionRecord captures one completed execution for later inspection.
type ExecutionRecord struct {
	ID          string    `json:"id"`
	CommandLine string    `json:"command_line"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Stdout      string    `json:"stdout"`
	Stderr      string    `json:"stderr"`
	// Failed marks the record for display purposes only: a launch/exit
	// error or non-empty stderr. It never aborts the session.
	Failed bool `json:"failed"`
}

// Store persists the most recent ExecutionRecord to disk.
type Store interface {
	Save(r *ExecutionRecord) error
	Load() (*ExecutionRecord, error) // returns ErrNoRecord if none exists
}

// diskStore is the concrete Store that writes to the XDG data directory.
type diskStore struct {
	path string // full path to last.json
}

// NewStore returns a Store backed by the XDG data directory.
// Path: $XDG_DATA_HOME/rewatch/last.json or ~/.local/share/rewatch/last.json
func NewStore() (Store, error) {
	dir, err := dataDir()
	if err != nil {
		return nil, fmt.Errorf("resolving data directory: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return &diskStore{path: filepath.Join(dir, "last.json")}, nil
}

// dataDir returns the rewatch-specific XDG data directory.
func dataDir() (string, error) {
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(base, "rewatch"), nil
}

// Save marshals r to JSON and writes it atomically via a temp file + os.Rename.
func (d *diskStore) Save(r *ExecutionRecord) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to persist execution record: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(d.path), "last-*.json.tmp")
	if err != nil {
		return fmt.Errorf("failed to persist execution record: %w", err)
	}
	tmpName := tmp.Name()

	// Clean up the temp file on any error path.
	defer func() {
		if err != nil {
			os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to persist execution record: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to persist execution record: %w", err)
	}

	if err = os.Rename(tmpName, d.path); err != nil {
		return fmt.Errorf("failed to persist execution record: %w", err)
	}
	return nil
}

// Load reads and unmarshals the record file.
// Returns ErrNoRecord if the file does not exist.
func (d *diskStore) Load() (*ExecutionRecord, error) {
	data, err := os.ReadFile(d.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoRecord
		}
		return nil, fmt.Errorf("failed to read execution record: %w", err)
	}

	var r ExecutionRecord
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to parse execution record: %w", err)
	}
	return &r, nil
}
