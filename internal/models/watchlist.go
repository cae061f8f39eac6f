package models

import "time"

// WatchlistItem is a saved StockInput. Identity is the upper-cased ticker.
type WatchlistItem struct {
	StockInput
	LastUpdated int64 `json:"lastUpdated"` // Unix epoch milliseconds at save time
}

// LastUpdatedTime converts LastUpdated to a time.Time
func (w WatchlistItem) LastUpdatedTime() time.Time {
	return time.UnixMilli(w.LastUpdated)
}

// WatchlistSlot is the stored record holding the serialized watchlist.
// Payload is the JSON encoding of the ordered []WatchlistItem.
type WatchlistSlot struct {
	Name      string    `json:"name" badgerhold:"key"`
	Payload   []byte    `json:"payload"`
	ItemCount int       `json:"item_count"`
	UpdatedAt time.Time `json:"updated_at"`
}
