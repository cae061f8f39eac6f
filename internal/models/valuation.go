package models

import (
	"encoding/json"
	"math"
)

// ValuationStatus is the verdict for one fair-value estimate
type ValuationStatus string

const (
	StatusUndervalued ValuationStatus = "UNDERVALUED"
	StatusFair        ValuationStatus = "FAIR"
	StatusOvervalued  ValuationStatus = "OVERVALUED"
	// StatusNotComputable marks an estimate or margin that is NaN or infinite
	StatusNotComputable ValuationStatus = "NOT_COMPUTABLE"
)

// Emoji returns the badge shown next to a verdict
func (s ValuationStatus) Emoji() string {
	switch s {
	case StatusUndervalued:
		return "💎"
	case StatusOvervalued:
		return "🥵"
	case StatusFair:
		return "⚖️"
	default:
		return "⚠️"
	}
}

// Valuation branch names used in anomaly reports
const (
	BranchGraham     = "graham"
	BranchHistorical = "historical"
)

// CalculationResult is the immutable output of the valuation engine.
// The historical fields are all set or all nil.
type CalculationResult struct {
	GrahamNumber float64         `json:"grahamNumber"`
	GrahamStatus ValuationStatus `json:"grahamStatus"`
	GrahamMOS    float64         `json:"grahamMos"`

	HistValuation *float64         `json:"histValuation"`
	HistStatus    *ValuationStatus `json:"histStatus"`
	HistMOS       *float64         `json:"histMos"`
}

// HasHistorical reports whether the historical PER branch was computed
func (r CalculationResult) HasHistorical() bool {
	return r.HistValuation != nil
}

// Anomalies lists the branches whose values are not finite
func (r CalculationResult) Anomalies() []string {
	var branches []string
	if r.GrahamStatus == StatusNotComputable {
		branches = append(branches, BranchGraham)
	}
	if r.HistStatus != nil && *r.HistStatus == StatusNotComputable {
		branches = append(branches, BranchHistorical)
	}
	return branches
}

// MarshalJSON writes non-finite numbers as null since JSON has no NaN or Inf
func (r CalculationResult) MarshalJSON() ([]byte, error) {
	type wire struct {
		GrahamNumber *float64         `json:"grahamNumber"`
		GrahamStatus ValuationStatus  `json:"grahamStatus"`
		GrahamMOS    *float64         `json:"grahamMos"`
		HistValue    *float64         `json:"histValuation"`
		HistStatus   *ValuationStatus `json:"histStatus"`
		HistMOS      *float64         `json:"histMos"`
		Anomalies    []string         `json:"anomalies,omitempty"`
	}

	w := wire{
		GrahamNumber: finiteOrNil(&r.GrahamNumber),
		GrahamStatus: r.GrahamStatus,
		GrahamMOS:    finiteOrNil(&r.GrahamMOS),
		HistValue:    finiteOrNil(r.HistValuation),
		HistStatus:   r.HistStatus,
		HistMOS:      finiteOrNil(r.HistMOS),
		Anomalies:    r.Anomalies(),
	}
	return json.Marshal(w)
}

func finiteOrNil(v *float64) *float64 {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return nil
	}
	value := *v
	return &value
}
