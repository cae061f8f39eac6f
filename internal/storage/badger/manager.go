package badger

import (
	"context"
	"errors"
	"fmt"

	badgerdb "github.com/dgraph-io/badger/v4"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/bosbiss/internal/common"
	"github.com/ternarybob/bosbiss/internal/interfaces"
)

// Manager implements the StorageManager interface for Badger
type Manager struct {
	db        *BadgerDB
	watchlist *WatchlistStorage
	logger    arbor.ILogger
}

var _ interfaces.StorageManager = (*Manager)(nil)

// NewManager creates a new Badger storage manager
func NewManager(logger arbor.ILogger, config *common.BadgerConfig) (*Manager, error) {
	db, err := NewBadgerDB(logger, config)
	if err != nil {
		return nil, err
	}

	manager := &Manager{
		db:        db,
		watchlist: NewWatchlistStorage(db, config.WatchlistSlot, logger),
		logger:    logger,
	}

	logger.Info().
		Str("path", config.Path).
		Str("slot", manager.watchlist.slot).
		Msg("Badger storage manager initialized")

	return manager, nil
}

// WatchlistStorage returns the watchlist storage
func (m *Manager) WatchlistStorage() interfaces.WatchlistStorage {
	return m.watchlist
}

// RunMaintenance runs value-log GC until badger reports nothing left to rewrite
func (m *Manager) RunMaintenance(ctx context.Context, discardRatio float64) error {
	if discardRatio <= 0 || discardRatio >= 1 {
		return fmt.Errorf("discard ratio must be between 0 and 1, got %v", discardRatio)
	}

	rewrites := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := m.db.Store().Badger().RunValueLogGC(discardRatio)
		if errors.Is(err, badgerdb.ErrNoRewrite) || errors.Is(err, badgerdb.ErrRejected) {
			break
		}
		if err != nil {
			return fmt.Errorf("value log gc failed: %w", err)
		}
		rewrites++
	}

	m.logger.Debug().
		Int("rewrites", rewrites).
		Float64("discard_ratio", discardRatio).
		Msg("Badger value log GC complete")

	return nil
}

// Close closes the database connection
func (m *Manager) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}
