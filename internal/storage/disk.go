package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hanbeop/lawdex/internal/models"
)

// DiskStore keeps the corpus as a single JSON array file, the same structure
// the collector writes, so a snapshot can be rebuilt without refetching.
type DiskStore struct {
	path string
}

// NewDiskStore returns a store backed by the JSON snapshot at path.
func NewDiskStore(path string) *DiskStore {
	return &DiskStore{path: path}
}

// Path returns the snapshot file location.
func (s *DiskStore) Path() string { return s.path }

// LoadAll reads the snapshot. A missing file is the normal "no corpus yet"
// state and returns an empty slice with a nil error.
func (s *DiskStore) LoadAll(_ context.Context) ([]models.Statute, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []models.Statute{}, nil
		}
		return nil, fmt.Errorf("read corpus snapshot: %w", err)
	}
	var statutes []models.Statute
	if err := json.Unmarshal(data, &statutes); err != nil {
		return nil, fmt.Errorf("parse corpus snapshot %s: %w", s.path, err)
	}
	return statutes, nil
}

// SaveAll writes the snapshot atomically: serialize to a temp file in the
// same directory, then rename over the target so a concurrent reader or the
// file watcher never observes a partial write.
func (s *DiskStore) SaveAll(_ context.Context, statutes []models.Statute) error {
	if statutes == nil {
		statutes = []models.Statute{}
	}
	data, err := json.MarshalIndent(statutes, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal corpus snapshot: %w", err)
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create snapshot directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".corpus-*.json")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write temp snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close temp snapshot: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace corpus snapshot: %w", err)
	}
	return nil
}

// Close is a no-op for the disk store.
func (s *DiskStore) Close() error { return nil }
