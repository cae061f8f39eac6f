package models

// SessionEvent is the payload of every session event.
// Only the fields relevant to the event type are set.
type SessionEvent struct {
	SessionID  string             `json:"sessionId"`
	Generation uint64             `json:"generation,omitempty"`
	Ticker     string             `json:"ticker,omitempty"`
	Result     *CalculationResult `json:"result,omitempty"`
	Insight    string             `json:"insight,omitempty"`
	Message    string             `json:"message,omitempty"`
	Quote      *PriceQuote        `json:"quote,omitempty"`
	Form       *StockForm         `json:"form,omitempty"`
	Watchlist  []WatchlistItem    `json:"watchlist,omitempty"`
}
