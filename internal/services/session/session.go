// Package session holds one user's analysis session: the editable form, the
// latest valuation and insight, a pending price lookup and the watchlist.
//
// Collaborator calls (insight and price lookup) run in background goroutines.
// Each call captures a generation number when issued; a response is applied
// only if its generation is still current, so answers that arrive after the
// user moved on are dropped.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/bosbiss/internal/common"
	"github.com/ternarybob/bosbiss/internal/interfaces"
	"github.com/ternarybob/bosbiss/internal/models"
)

const (
	DefaultInsightTimeout = 60 * time.Second
	DefaultPriceTimeout   = 30 * time.Second
)

// Options carries the collaborators of a session. Events is optional.
type Options struct {
	Insight        interfaces.InsightGenerator
	Prices         interfaces.PriceLookup
	Storage        interfaces.WatchlistStorage
	Events         interfaces.EventService
	InsightTimeout time.Duration
	PriceTimeout   time.Duration
	Clock          func() time.Time
}

// Session is the orchestrator for a single user. Safe for concurrent use.
type Session struct {
	id             string
	insight        interfaces.InsightGenerator
	prices         interfaces.PriceLookup
	storage        interfaces.WatchlistStorage
	events         interfaces.EventService
	logger         arbor.ILogger
	validate       *validator.Validate
	insightTimeout time.Duration
	priceTimeout   time.Duration
	clock          func() time.Time

	mu              sync.Mutex
	form            models.StockForm
	priceSource     string
	fetchingPrice   bool
	analysis        models.AnalysisState
	generation      uint64
	priceGeneration uint64
	watchlist       []models.WatchlistItem
	lastStamp       int64

	// persistMu orders watchlist writes so the store always holds the latest list
	persistMu sync.Mutex
	inflight  sync.WaitGroup
}

// New creates a session and loads the saved watchlist. A watchlist that
// cannot be read is logged and the session starts with an empty list.
func New(ctx context.Context, opts Options, logger arbor.ILogger) *Session {
	if opts.InsightTimeout <= 0 {
		opts.InsightTimeout = DefaultInsightTimeout
	}
	if opts.PriceTimeout <= 0 {
		opts.PriceTimeout = DefaultPriceTimeout
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}

	s := &Session{
		id:             uuid.NewString(),
		insight:        opts.Insight,
		prices:         opts.Prices,
		storage:        opts.Storage,
		events:         opts.Events,
		logger:         logger,
		validate:       newValidator(),
		insightTimeout: opts.InsightTimeout,
		priceTimeout:   opts.PriceTimeout,
		clock:          opts.Clock,
		analysis:       models.NewAnalysisState(),
		watchlist:      []models.WatchlistItem{},
	}

	s.loadWatchlist(ctx)

	logger.Info().
		Str("session_id", s.id).
		Int("watchlist_items", len(s.watchlist)).
		Msg("Session started")

	return s
}

// ID returns the session identifier
func (s *Session) ID() string {
	return s.id
}

func (s *Session) loadWatchlist(ctx context.Context) {
	if s.storage == nil {
		return
	}

	items, err := s.storage.LoadWatchlist(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to load watchlist, starting empty")
		return
	}

	for _, item := range items {
		if item.LastUpdated > s.lastStamp {
			s.lastStamp = item.LastUpdated
		}
	}
	s.watchlist = items
}

// SetForm replaces the editable form
func (s *Session) SetForm(form models.StockForm) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form = form
}

// Form returns the editable form
func (s *Session) Form() models.StockForm {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.form
}

// Snapshot returns a copy of the session state
func (s *Session) Snapshot() models.SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return models.SessionSnapshot{
		SessionID:     s.id,
		Form:          s.form,
		PriceSource:   s.priceSource,
		FetchingPrice: s.fetchingPrice,
		Analysis:      s.analysis,
		Watchlist:     copyItems(s.watchlist),
	}
}

// Analysis returns the current analysis state
func (s *Session) Analysis() models.AnalysisState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.analysis
}

// Wait blocks until every in-flight collaborator call has been applied or discarded
func (s *Session) Wait() {
	s.inflight.Wait()
}

// publish delivers an event in order. Handler failures are logged only.
func (s *Session) publish(ctx context.Context, eventType interfaces.EventType, payload models.SessionEvent) {
	if s.events == nil {
		return
	}
	payload.SessionID = s.id
	if err := s.events.PublishSync(ctx, interfaces.Event{Type: eventType, Payload: payload}); err != nil {
		s.logger.Warn().
			Err(err).
			Str("event_type", string(eventType)).
			Msg("Session event delivery failed")
	}
}

// spawn runs fn in the background with panic recovery. onPanic runs instead of
// the normal completion when fn panics.
func (s *Session) spawn(name string, fn func(), onPanic func(recovered interface{})) {
	s.inflight.Add(1)
	common.SafeGoWithRecover(s.logger, name, func() {
		fn()
		s.inflight.Done()
	}, func(recovered interface{}) {
		defer s.inflight.Done()
		onPanic(recovered)
	})
}

func copyItems(items []models.WatchlistItem) []models.WatchlistItem {
	out := make([]models.WatchlistItem, len(items))
	copy(out, items)
	return out
}
