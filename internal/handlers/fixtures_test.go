package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/bosbiss/internal/models"
	"github.com/ternarybob/bosbiss/internal/services/events"
	"github.com/ternarybob/bosbiss/internal/services/session"
)

type staticInsight struct{}

func (staticInsight) GenerateInsight(ctx context.Context, input models.StockInput, result models.CalculationResult) string {
	return "**Diskon** " + input.Ticker + ". Disclaimer On."
}

type staticPrices struct{}

func (staticPrices) LookupPrice(ctx context.Context, ticker string) (*models.PriceQuote, error) {
	return &models.PriceQuote{Price: 9875, Source: "https://example.com/" + ticker}, nil
}

type memoryStorage struct {
	mu    sync.Mutex
	items []models.WatchlistItem
}

func (m *memoryStorage) LoadWatchlist(ctx context.Context) ([]models.WatchlistItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.WatchlistItem(nil), m.items...), nil
}

func (m *memoryStorage) SaveWatchlist(ctx context.Context, items []models.WatchlistItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = append([]models.WatchlistItem(nil), items...)
	return nil
}

type testEnv struct {
	session *session.Session
	events  *events.Service
	router  chi.Router
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := arbor.NewLogger()
	eventService := events.NewService(logger)
	t.Cleanup(func() { eventService.Close() })

	s := session.New(context.Background(), session.Options{
		Insight:        staticInsight{},
		Prices:         staticPrices{},
		Storage:        &memoryStorage{},
		Events:         eventService,
		InsightTimeout: time.Second,
		PriceTimeout:   time.Second,
	}, logger)
	t.Cleanup(s.Wait)

	sessionHandler := NewSessionHandler(s, logger)
	watchlistHandler := NewWatchlistHandler(s, logger)

	r := chi.NewRouter()
	r.Get("/api/session", sessionHandler.GetSessionHandler)
	r.Put("/api/session/form", sessionHandler.UpdateFormHandler)
	r.Post("/api/session/analyze", sessionHandler.AnalyzeHandler)
	r.Post("/api/session/price", sessionHandler.FetchPriceHandler)
	r.Get("/api/watchlist", watchlistHandler.ListHandler)
	r.Post("/api/watchlist", watchlistHandler.SaveHandler)
	r.Post("/api/watchlist/{ticker}/load", watchlistHandler.LoadHandler)
	r.Delete("/api/watchlist/{ticker}", watchlistHandler.DeleteHandler)
	r.Get("/api/valuation", ValuationHandler)

	return &testEnv{session: s, events: eventService, router: r}
}

func (e *testEnv) serve(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}
