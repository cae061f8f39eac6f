// Package common provides shared utilities across the application.
package common

import (
	"strings"
)

// DefaultExchangeSuffix is the EODHD exchange code for the Indonesia Stock Exchange.
const DefaultExchangeSuffix = "JK"

// NormalizeTicker trims whitespace and upper-cases a ticker.
// Watchlist identity is the normalized form.
//   - " bbca " -> "BBCA"
//   - "Bbri"   -> "BBRI"
func NormalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}

// EODHDSymbol converts a ticker to the EODHD CODE.EXCHANGE form.
// Tickers that already carry an exchange suffix are kept as-is.
//   - ("bbca", "JK")    -> "BBCA.JK"
//   - ("BBCA.JK", "JK") -> "BBCA.JK"
//   - ("AAPL", "US")    -> "AAPL.US"
func EODHDSymbol(ticker, exchange string) string {
	code := NormalizeTicker(ticker)
	if code == "" {
		return ""
	}
	if strings.Contains(code, ".") {
		return code
	}
	exchange = strings.ToUpper(strings.TrimSpace(exchange))
	if exchange == "" {
		exchange = DefaultExchangeSuffix
	}
	return code + "." + exchange
}
