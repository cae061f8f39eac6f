package session

import (
	"context"
	"errors"
	"sync"

	"github.com/ternarybob/bosbiss/internal/interfaces"
	"github.com/ternarybob/bosbiss/internal/models"
)

type fakeInsight struct {
	mu       sync.Mutex
	calls    int
	generate func(ctx context.Context, input models.StockInput, result models.CalculationResult) string
}

func (f *fakeInsight) GenerateInsight(ctx context.Context, input models.StockInput, result models.CalculationResult) string {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return f.generate(ctx, input, result)
}

func (f *fakeInsight) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakePrices struct {
	mu     sync.Mutex
	calls  int
	lookup func(ctx context.Context, ticker string) (*models.PriceQuote, error)
}

func (f *fakePrices) LookupPrice(ctx context.Context, ticker string) (*models.PriceQuote, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return f.lookup(ctx, ticker)
}

func (f *fakePrices) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeStorage struct {
	mu      sync.Mutex
	items   []models.WatchlistItem
	loadErr error
	saveErr error
	saves   int
}

func (f *fakeStorage) LoadWatchlist(ctx context.Context) ([]models.WatchlistItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	out := make([]models.WatchlistItem, len(f.items))
	copy(out, f.items)
	return out, nil
}

func (f *fakeStorage) SaveWatchlist(ctx context.Context, items []models.WatchlistItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saves++
	if f.saveErr != nil {
		return f.saveErr
	}
	f.items = make([]models.WatchlistItem, len(items))
	copy(f.items, items)
	return nil
}

func (f *fakeStorage) saveCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saves
}

func (f *fakeStorage) stored() []models.WatchlistItem {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.WatchlistItem, len(f.items))
	copy(out, f.items)
	return out
}

// recordingEvents keeps every published event in order
type recordingEvents struct {
	mu     sync.Mutex
	events []interfaces.Event
}

func (r *recordingEvents) Subscribe(eventType interfaces.EventType, handler interfaces.EventHandler) (interfaces.SubscriptionID, error) {
	return "", errors.New("not supported")
}

func (r *recordingEvents) Unsubscribe(eventType interfaces.EventType, id interfaces.SubscriptionID) error {
	return nil
}

func (r *recordingEvents) Publish(ctx context.Context, event interfaces.Event) error {
	return r.PublishSync(ctx, event)
}

func (r *recordingEvents) PublishSync(ctx context.Context, event interfaces.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *recordingEvents) Close() error { return nil }

func (r *recordingEvents) types() []interfaces.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]interfaces.EventType, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

func (r *recordingEvents) last(eventType interfaces.EventType) (models.SessionEvent, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].Type == eventType {
			payload, ok := r.events[i].Payload.(models.SessionEvent)
			return payload, ok
		}
	}
	return models.SessionEvent{}, false
}
