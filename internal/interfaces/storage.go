package interfaces

import (
	"context"
	"errors"

	"github.com/ternarybob/bosbiss/internal/models"
)

// ErrWatchlistSlotNotFound is returned when the named slot has never been written
var ErrWatchlistSlotNotFound = errors.New("watchlist slot not found")

// WatchlistStorage persists the ordered watchlist as one unit in a single named slot
type WatchlistStorage interface {
	// LoadWatchlist reads the slot. A missing or corrupt slot yields an empty list
	// and no error; only I/O failures are returned.
	LoadWatchlist(ctx context.Context) ([]models.WatchlistItem, error)

	// SaveWatchlist replaces the slot contents with items, in order
	SaveWatchlist(ctx context.Context, items []models.WatchlistItem) error
}

// StorageManager aggregates the storages backed by one database
type StorageManager interface {
	WatchlistStorage() WatchlistStorage
	// RunMaintenance reclaims space in the underlying store
	RunMaintenance(ctx context.Context, discardRatio float64) error
	Close() error
}
