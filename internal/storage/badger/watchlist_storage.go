package badger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/ternarybob/bosbiss/internal/interfaces"
	"github.com/ternarybob/bosbiss/internal/models"
)

// DefaultWatchlistSlot is the slot name used when none is configured
const DefaultWatchlistSlot = "bosbissWatchlist"

// WatchlistStorage keeps the whole watchlist in one named slot
type WatchlistStorage struct {
	db     *BadgerDB
	slot   string
	logger arbor.ILogger
}

var _ interfaces.WatchlistStorage = (*WatchlistStorage)(nil)

// NewWatchlistStorage creates a watchlist storage bound to slot
func NewWatchlistStorage(db *BadgerDB, slot string, logger arbor.ILogger) *WatchlistStorage {
	if slot == "" {
		slot = DefaultWatchlistSlot
	}
	return &WatchlistStorage{
		db:     db,
		slot:   slot,
		logger: logger,
	}
}

// LoadWatchlist reads the slot. Missing or unreadable payloads give an empty list.
func (s *WatchlistStorage) LoadWatchlist(ctx context.Context) ([]models.WatchlistItem, error) {
	record, err := s.getSlot()
	if errors.Is(err, interfaces.ErrWatchlistSlotNotFound) {
		return []models.WatchlistItem{}, nil
	}
	if err != nil {
		return nil, err
	}

	var items []models.WatchlistItem
	if err := json.Unmarshal(record.Payload, &items); err != nil {
		s.logger.Warn().
			Err(err).
			Str("slot", s.slot).
			Int("payload_bytes", len(record.Payload)).
			Msg("Watchlist payload is corrupt, starting with an empty watchlist")
		return []models.WatchlistItem{}, nil
	}
	if items == nil {
		items = []models.WatchlistItem{}
	}

	s.logger.Debug().
		Str("slot", s.slot).
		Int("items", len(items)).
		Msg("Watchlist loaded")

	return items, nil
}

// SaveWatchlist overwrites the slot with items, order preserved
func (s *WatchlistStorage) SaveWatchlist(ctx context.Context, items []models.WatchlistItem) error {
	if items == nil {
		items = []models.WatchlistItem{}
	}

	payload, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode watchlist: %w", err)
	}

	record := models.WatchlistSlot{
		Name:      s.slot,
		Payload:   payload,
		ItemCount: len(items),
		UpdatedAt: time.Now(),
	}

	if err := s.db.Store().Upsert(s.slot, &record); err != nil {
		return fmt.Errorf("failed to save watchlist slot %s: %w", s.slot, err)
	}

	s.logger.Debug().
		Str("slot", s.slot).
		Int("items", len(items)).
		Msg("Watchlist saved")

	return nil
}

func (s *WatchlistStorage) getSlot() (*models.WatchlistSlot, error) {
	var record models.WatchlistSlot
	err := s.db.Store().Get(s.slot, &record)
	if errors.Is(err, badgerhold.ErrNotFound) {
		return nil, interfaces.ErrWatchlistSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read watchlist slot %s: %w", s.slot, err)
	}
	return &record, nil
}
