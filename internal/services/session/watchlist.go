package session

import (
	"context"
	"fmt"

	"github.com/ternarybob/bosbiss/internal/common"
	"github.com/ternarybob/bosbiss/internal/interfaces"
	"github.com/ternarybob/bosbiss/internal/models"
)

// Watchlist returns a copy of the watchlist, most recently saved first
func (s *Session) Watchlist() []models.WatchlistItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyItems(s.watchlist)
}

// SaveToWatchlist pins the form to the watchlist, replacing any entry for the
// same ticker and moving it to the front. An incomplete form is ignored and
// reported as (false, nil). A failed write is returned but the in-memory list
// keeps the change.
func (s *Session) SaveToWatchlist(ctx context.Context, form models.StockForm) (bool, error) {
	form = form.Trimmed()
	if verr := s.validateForm(form); verr != nil {
		s.logger.Debug().Str("field", verr.Field).Msg("Save ignored, form incomplete")
		return false, nil
	}

	input, err := form.Parse()
	if err != nil {
		s.logger.Debug().Err(err).Msg("Save ignored, form not numeric")
		return false, nil
	}
	input.Ticker = common.NormalizeTicker(input.Ticker)

	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	s.mu.Lock()
	item := models.WatchlistItem{
		StockInput:  input,
		LastUpdated: s.nextStamp(),
	}
	updated := make([]models.WatchlistItem, 0, len(s.watchlist)+1)
	updated = append(updated, item)
	for _, existing := range s.watchlist {
		if common.NormalizeTicker(existing.Ticker) != input.Ticker {
			updated = append(updated, existing)
		}
	}
	s.watchlist = updated
	items := copyItems(updated)
	s.mu.Unlock()

	s.logger.Info().
		Str("ticker", input.Ticker).
		Int("watchlist_items", len(items)).
		Msg("Saved to watchlist")

	persistErr := s.persist(ctx, items)
	s.publish(ctx, interfaces.EventWatchlistChanged, models.SessionEvent{
		Ticker:    input.Ticker,
		Message:   SavedMessage(input.Ticker),
		Watchlist: items,
	})

	return true, persistErr
}

// LoadFromWatchlist copies the saved entry for ticker into the form and
// clears the analysis.
func (s *Session) LoadFromWatchlist(ticker string) (models.StockForm, error) {
	ticker = common.NormalizeTicker(ticker)

	s.mu.Lock()
	var found *models.WatchlistItem
	for i := range s.watchlist {
		if common.NormalizeTicker(s.watchlist[i].Ticker) == ticker {
			item := s.watchlist[i]
			found = &item
			break
		}
	}
	s.mu.Unlock()

	if found == nil {
		return models.StockForm{}, fmt.Errorf("%s: %w", ticker, ErrNotInWatchlist)
	}

	return s.LoadItem(*found), nil
}

// LoadItem copies item into the form, clears the price source and resets the
// analysis. Pending insight and price responses are discarded.
func (s *Session) LoadItem(item models.WatchlistItem) models.StockForm {
	form := models.FormFromInput(item.StockInput)

	s.mu.Lock()
	s.form = form
	s.priceSource = ""
	s.fetchingPrice = false
	s.priceGeneration++
	s.generation++
	gen := s.generation
	s.analysis = models.NewAnalysisState()
	s.analysis.Generation = gen
	s.mu.Unlock()

	s.logger.Debug().
		Str("ticker", item.Ticker).
		Int64("generation", int64(gen)).
		Msg("Loaded watchlist item into form")

	s.publish(context.Background(), interfaces.EventAnalysisReset, models.SessionEvent{
		Generation: gen,
		Ticker:     item.Ticker,
		Form:       &form,
	})

	return form
}

// DeleteFromWatchlist removes ticker from the watchlist. Nothing happens
// unless confirmed is true; deleting an absent ticker is a no-op.
func (s *Session) DeleteFromWatchlist(ctx context.Context, ticker string, confirmed bool) error {
	if !confirmed {
		return ErrConfirmationRequired
	}
	ticker = common.NormalizeTicker(ticker)

	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	s.mu.Lock()
	updated := make([]models.WatchlistItem, 0, len(s.watchlist))
	for _, existing := range s.watchlist {
		if common.NormalizeTicker(existing.Ticker) != ticker {
			updated = append(updated, existing)
		}
	}
	if len(updated) == len(s.watchlist) {
		s.mu.Unlock()
		return nil
	}
	s.watchlist = updated
	items := copyItems(updated)
	s.mu.Unlock()

	s.logger.Info().
		Str("ticker", ticker).
		Int("watchlist_items", len(items)).
		Msg("Deleted from watchlist")

	persistErr := s.persist(ctx, items)
	s.publish(ctx, interfaces.EventWatchlistChanged, models.SessionEvent{
		Ticker:    ticker,
		Watchlist: items,
	})

	return persistErr
}

// nextStamp returns the current time in milliseconds, bumped past the last
// stamp so save order is always recoverable. Caller holds s.mu.
func (s *Session) nextStamp() int64 {
	stamp := s.clock().UnixMilli()
	if stamp <= s.lastStamp {
		stamp = s.lastStamp + 1
	}
	s.lastStamp = stamp
	return stamp
}

func (s *Session) persist(ctx context.Context, items []models.WatchlistItem) error {
	if s.storage == nil {
		return nil
	}
	if err := s.storage.SaveWatchlist(ctx, items); err != nil {
		s.logger.Error().Err(err).Int("items", len(items)).Msg("Failed to persist watchlist")
		return fmt.Errorf("failed to persist watchlist: %w", err)
	}
	return nil
}
