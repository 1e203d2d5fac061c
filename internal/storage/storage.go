// Package storage provides the durable key-value store behind the session
// container. State lives under three fixed logical keys; each value is a
// single JSON document. A missing key is reported as absent, never as an
// error, so first run and post-logout restores need no special casing.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Logical keys. The store never invents keys of its own.
const (
	KeyUser        = "user"
	KeyComplaints  = "complaints"
	KeyCommunities = "communities"
)

// Store is the persistence contract of the session container.
type Store interface {
	// Load returns the document saved under key, or ok=false if the key
	// has never been saved (or was cleared).
	Load(key string) (value json.RawMessage, ok bool, err error)
	// Save serializes value to JSON and durably replaces the document
	// under key.
	Save(key string, value any) error
	// Clear removes the key. Clearing an absent key is not an error.
	Clear(key string) error
}

// FileStore keeps one <key>.json document per logical key under a state
// directory. It is the default backend for a single-device deployment.
type FileStore struct {
	dir string
}

// NewFileStore creates the state directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, errors.New("storage: state directory required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create state dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

func (s *FileStore) Load(key string) (json.RawMessage, bool, error) {
	data, err := os.ReadFile(s.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("storage: load %q: %w", key, err)
	}
	return data, true, nil
}

func (s *FileStore) Save(key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("storage: encode %q: %w", key, err)
	}
	// Write-then-rename so a crash mid-write never leaves a truncated
	// document under the live key.
	tmp := s.path(key) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("storage: write %q: %w", key, err)
	}
	if err := os.Rename(tmp, s.path(key)); err != nil {
		return fmt.Errorf("storage: commit %q: %w", key, err)
	}
	return nil
}

func (s *FileStore) Clear(key string) error {
	err := os.Remove(s.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("storage: clear %q: %w", key, err)
	}
	return nil
}
