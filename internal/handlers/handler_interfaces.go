package handlers

import (
	"context"

	"github.com/ternarybob/bosbiss/internal/models"
)

// SessionService is the session surface used by the HTTP handlers
type SessionService interface {
	Snapshot() models.SessionSnapshot
	SetForm(form models.StockForm)
	Analyze(ctx context.Context, form models.StockForm) (*models.CalculationResult, error)
	FetchCurrentPrice(ctx context.Context, ticker string) error
	Watchlist() []models.WatchlistItem
	SaveToWatchlist(ctx context.Context, form models.StockForm) (bool, error)
	LoadFromWatchlist(ticker string) (models.StockForm, error)
	DeleteFromWatchlist(ctx context.Context, ticker string, confirmed bool) error
}

// Snapshotter provides the state sent to a newly connected WebSocket client
type Snapshotter interface {
	Snapshot() models.SessionSnapshot
}
