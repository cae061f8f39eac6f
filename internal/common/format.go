package common

import (
	"fmt"
	"math"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// NotAvailable is printed in place of values that cannot be computed
const NotAvailable = "n/a"

// IsFinite reports whether v is neither NaN nor infinite
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// FormatRupiah formats an amount in the id-ID locale, e.g. "Rp 1.643,168".
// Up to three fraction digits are kept.
func FormatRupiah(v float64) string {
	return formatRupiah(v, 3)
}

// FormatRupiahRounded formats an amount without fraction digits, e.g. "Rp 1.643".
func FormatRupiahRounded(v float64) string {
	return formatRupiah(v, 0)
}

func formatRupiah(v float64, fractionDigits int) string {
	if !IsFinite(v) {
		return NotAvailable
	}
	// Printers carry per-call state
	p := message.NewPrinter(language.Indonesian)
	return "Rp " + p.Sprint(number.Decimal(v, number.MaxFractionDigits(fractionDigits)))
}

// FormatSignedPct formats a percentage with one decimal and a leading "+" when positive
func FormatSignedPct(v float64) string {
	if !IsFinite(v) {
		return NotAvailable
	}
	if v > 0 {
		return fmt.Sprintf("+%.1f%%", v)
	}
	return fmt.Sprintf("%.1f%%", v)
}

// FormatPct formats a percentage with two decimals
func FormatPct(v float64) string {
	if !IsFinite(v) {
		return NotAvailable
	}
	return fmt.Sprintf("%.2f%%", v)
}

// FormatPlain renders a number the shortest way that round-trips, e.g. 15.5 -> "15.5", 150 -> "150"
func FormatPlain(v float64) string {
	if !IsFinite(v) {
		return NotAvailable
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
