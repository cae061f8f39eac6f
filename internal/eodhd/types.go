// Package eodhd provides a small client for the EODHD (End of Day Historical Data) API,
// used as a market-data price source.
package eodhd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// RealTimeQuote is the /real-time/{symbol} response.
// EODHD reports missing values as the string "NA".
type RealTimeQuote struct {
	Code          string    `json:"code"`
	Timestamp     Number    `json:"timestamp"`
	GMTOffset     int       `json:"gmtoffset"`
	Open          Number    `json:"open"`
	High          Number    `json:"high"`
	Low           Number    `json:"low"`
	Close         Number    `json:"close"`
	Volume        Number    `json:"volume"`
	PreviousClose Number    `json:"previousClose"`
	Change        Number    `json:"change"`
	ChangePercent Number    `json:"change_p"`
	Time          time.Time `json:"-"`
}

// Number is a float that decodes from a JSON number, a numeric string or "NA".
// Valid is false when no value was present.
type Number struct {
	Value float64
	Valid bool
}

// UnmarshalJSON implements json.Unmarshaler
func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*n = Number{}
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" || s == "NA" {
			*n = Number{}
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("invalid number %q: %w", s, err)
		}
		*n = Number{Value: v, Valid: true}
		return nil
	}

	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*n = Number{Value: v, Valid: true}
	return nil
}

// APIError represents an error from the EODHD API.
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("EODHD API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// RateLimitError represents a rate limit error.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("EODHD rate limit exceeded, retry after %v", e.RetryAfter)
}
