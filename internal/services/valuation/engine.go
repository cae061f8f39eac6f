// Package valuation computes fair-value estimates for a single stock.
//
// Two estimates are produced:
//   - Graham number: sqrt(22.5 * EPS * BVPS)
//   - Historical PER valuation: meanPER * EPS (only when a non-zero mean PER is given)
//
// Each estimate carries a margin of safety against the market price and a verdict.
// Everything here is pure: no I/O, no state.
package valuation

import (
	"math"

	"github.com/ternarybob/bosbiss/internal/models"
)

const (
	// grahamMultiplier is 15 (max PER) x 1.5 (max PBV)
	grahamMultiplier = 22.5

	// StatusThreshold is the margin of safety, in percent, beyond which a price is
	// classed as under- or over-valued. Exactly +/-15 stays FAIR.
	StatusThreshold = 15.0
)

// GrahamNumber returns sqrt(22.5 * eps * bvps). NaN when eps and bvps have opposite signs.
func GrahamNumber(eps, bvps float64) float64 {
	return math.Sqrt(grahamMultiplier * eps * bvps)
}

// MarginOfSafety returns the percentage by which fairValue exceeds (positive)
// or falls short of (negative) price.
func MarginOfSafety(fairValue, price float64) float64 {
	return (fairValue - price) / fairValue * 100
}

// Classify maps a margin of safety to a verdict using strict thresholds
func Classify(mos float64) models.ValuationStatus {
	switch {
	case math.IsNaN(mos) || math.IsInf(mos, 0):
		return models.StatusNotComputable
	case mos > StatusThreshold:
		return models.StatusUndervalued
	case mos < -StatusThreshold:
		return models.StatusOvervalued
	default:
		return models.StatusFair
	}
}

// classifyEstimate also rejects a non-finite estimate whose margin happens to be finite
func classifyEstimate(fairValue, mos float64) models.ValuationStatus {
	if math.IsNaN(fairValue) || math.IsInf(fairValue, 0) {
		return models.StatusNotComputable
	}
	return Classify(mos)
}

// ComputeFairValue runs both valuations. The historical branch is computed only
// when meanPER is non-nil and non-zero; otherwise its fields stay nil.
// Non-finite estimates or margins are reported as StatusNotComputable.
func ComputeFairValue(price, eps, bvps float64, meanPER *float64) models.CalculationResult {
	graham := GrahamNumber(eps, bvps)
	grahamMOS := MarginOfSafety(graham, price)

	result := models.CalculationResult{
		GrahamNumber: graham,
		GrahamStatus: classifyEstimate(graham, grahamMOS),
		GrahamMOS:    grahamMOS,
	}

	if meanPER != nil && *meanPER != 0 {
		hist := *meanPER * eps
		histMOS := MarginOfSafety(hist, price)
		histStatus := classifyEstimate(hist, histMOS)

		result.HistValuation = &hist
		result.HistMOS = &histMOS
		result.HistStatus = &histStatus
	}

	return result
}

// Compute is ComputeFairValue for a parsed StockInput
func Compute(input models.StockInput) models.CalculationResult {
	return ComputeFairValue(input.Price, input.EPS, input.BVPS, input.MeanPER)
}
