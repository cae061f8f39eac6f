package interfaces

import "context"

// EventType represents different event types in the system
type EventType string

const (
	// EventAnalysisResult carries the computed valuation, published before the insight is requested
	EventAnalysisResult EventType = "analysis.result"
	// EventAnalysisInsight carries the insight text for the current generation
	EventAnalysisInsight EventType = "analysis.insight"
	// EventAnalysisError carries a user-facing analysis error message
	EventAnalysisError EventType = "analysis.error"
	// EventAnalysisReset is published when a watchlist item is loaded into the form
	EventAnalysisReset EventType = "analysis.reset"
	// EventPriceUpdated carries a new price and its source
	EventPriceUpdated EventType = "price.updated"
	// EventPriceFailed carries the price lookup failure message
	EventPriceFailed EventType = "price.failed"
	// EventWatchlistChanged carries the full ordered watchlist
	EventWatchlistChanged EventType = "watchlist.changed"
)

// AllEventTypes lists every event a session can publish
var AllEventTypes = []EventType{
	EventAnalysisResult,
	EventAnalysisInsight,
	EventAnalysisError,
	EventAnalysisReset,
	EventPriceUpdated,
	EventPriceFailed,
	EventWatchlistChanged,
}

// Event represents a system event
type Event struct {
	Type    EventType
	Payload interface{}
}

// EventHandler is a function that handles events
type EventHandler func(ctx context.Context, event Event) error

// SubscriptionID identifies a registered handler so it can be removed
type SubscriptionID string

// EventService manages pub/sub event bus
type EventService interface {
	// Subscribe to an event type
	Subscribe(eventType EventType, handler EventHandler) (SubscriptionID, error)

	// Unsubscribe removes a handler registered with Subscribe
	Unsubscribe(eventType EventType, id SubscriptionID) error

	// Publish an event to all subscribers
	Publish(ctx context.Context, event Event) error

	// PublishSync publishes event and waits for all handlers to complete
	PublishSync(ctx context.Context, event Event) error

	// Close shuts down the event service
	Close() error
}
