// Package storage persists the statute corpus snapshot. Two backends are
// provided: a JSON file matching the collector's on-disk format, and SQLite
// for deployments that want queryable storage.
package storage

import (
	"context"

	"github.com/hanbeop/lawdex/internal/models"
)

// StatuteStore persists and reloads the statute corpus snapshot. A store
// that has never been written behaves as an empty corpus: LoadAll returns an
// empty slice and a nil error.
type StatuteStore interface {
	LoadAll(ctx context.Context) ([]models.Statute, error)
	// SaveAll replaces the whole snapshot. Statute order is preserved.
	SaveAll(ctx context.Context, statutes []models.Statute) error
	Close() error
}
