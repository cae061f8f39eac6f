package events

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/bosbiss/internal/interfaces"
	"github.com/ternarybob/bosbiss/internal/models"
)

// NewLoggerSubscriber creates an event handler that logs all events
func NewLoggerSubscriber(logger arbor.ILogger) interfaces.EventHandler {
	return func(ctx context.Context, event interfaces.Event) error {
		logEvent := logger.Debug().
			Str("event_type", string(event.Type))

		if payload, ok := event.Payload.(models.SessionEvent); ok {
			logEvent = logEvent.Str("session_id", payload.SessionID)
			if payload.Generation > 0 {
				logEvent = logEvent.Int64("generation", int64(payload.Generation))
			}
			if payload.Ticker != "" {
				logEvent = logEvent.Str("ticker", payload.Ticker)
			}
			if payload.Message != "" {
				logEvent = logEvent.Str("message", payload.Message)
			}
			if payload.Watchlist != nil {
				logEvent = logEvent.Int("watchlist_size", len(payload.Watchlist))
			}
		}

		logEvent.Msg("Event published")

		return nil
	}
}

// SubscribeLoggerToAllEvents subscribes the logger to all known event types
func SubscribeLoggerToAllEvents(eventService interfaces.EventService, logger arbor.ILogger) error {
	subscriber := NewLoggerSubscriber(logger)

	for _, eventType := range interfaces.AllEventTypes {
		if _, err := eventService.Subscribe(eventType, subscriber); err != nil {
			return fmt.Errorf("failed to subscribe logger to event type %s: %w", eventType, err)
		}
	}

	logger.Debug().
		Int("event_type_count", len(interfaces.AllEventTypes)).
		Msg("Logger subscribed to all event types")

	return nil
}
