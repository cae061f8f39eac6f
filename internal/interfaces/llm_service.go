package interfaces

import (
	"context"

	"github.com/ternarybob/bosbiss/internal/models"
)

// Message represents a single message in a chat conversation
type Message struct {
	// Role identifies the message sender: "user", "assistant", or "system"
	Role string

	// Content contains the text content of the message
	Content string
}

// InsightGenerator turns a calculation into short prose commentary.
//
// Implementations never fail: any internal error is replaced by a
// human-readable fallback message, so the returned text is always displayable.
type InsightGenerator interface {
	// GenerateInsight produces commentary for a computed result.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeout control
	//   - input: The parsed analysis request
	//   - result: The valuation computed from input
	//
	// Returns:
	//   - string: Insight text or a fallback message, never empty
	GenerateInsight(ctx context.Context, input models.StockInput, result models.CalculationResult) string
}

// PriceLookup fetches the current market price of a ticker.
//
// A nil quote or a non-nil error means the lookup failed and the caller must
// keep its current price.
type PriceLookup interface {
	LookupPrice(ctx context.Context, ticker string) (*models.PriceQuote, error)
}
