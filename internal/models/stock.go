package models

import (
	"fmt"
	"strconv"
	"strings"
)

// StockInput is a parsed analysis request
type StockInput struct {
	Ticker  string   `json:"ticker"`
	Price   float64  `json:"price"`
	EPS     float64  `json:"eps"`
	BVPS    float64  `json:"bvps"`
	MeanPER *float64 `json:"meanPer,omitempty"` // 5-year average PER, nil when not supplied
}

// HasMeanPER reports whether the historical PER branch applies (non-nil and non-zero)
func (s StockInput) HasMeanPER() bool {
	return s.MeanPER != nil && *s.MeanPER != 0
}

// StockForm is the editable, string-valued form of a StockInput.
// Fields stay as typed so an incomplete form can be held by a session.
type StockForm struct {
	Ticker  string `json:"ticker" validate:"required"`
	Price   string `json:"price" validate:"required,numeric"`
	EPS     string `json:"eps" validate:"required,numeric"`
	BVPS    string `json:"bvps" validate:"required,numeric"`
	MeanPER string `json:"meanPer" validate:"omitempty,numeric"`
}

// Trimmed returns a copy with surrounding whitespace removed from every field
func (f StockForm) Trimmed() StockForm {
	return StockForm{
		Ticker:  strings.TrimSpace(f.Ticker),
		Price:   strings.TrimSpace(f.Price),
		EPS:     strings.TrimSpace(f.EPS),
		BVPS:    strings.TrimSpace(f.BVPS),
		MeanPER: strings.TrimSpace(f.MeanPER),
	}
}

// Parse converts the form into a StockInput. The ticker is kept as typed;
// callers normalize it where identity matters.
func (f StockForm) Parse() (StockInput, error) {
	f = f.Trimmed()

	price, err := parseField("price", f.Price)
	if err != nil {
		return StockInput{}, err
	}
	eps, err := parseField("eps", f.EPS)
	if err != nil {
		return StockInput{}, err
	}
	bvps, err := parseField("bvps", f.BVPS)
	if err != nil {
		return StockInput{}, err
	}

	input := StockInput{
		Ticker: f.Ticker,
		Price:  price,
		EPS:    eps,
		BVPS:   bvps,
	}

	if f.MeanPER != "" {
		meanPER, err := parseField("meanPer", f.MeanPER)
		if err != nil {
			return StockInput{}, err
		}
		input.MeanPER = &meanPER
	}

	return input, nil
}

func parseField(name, value string) (float64, error) {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, value, err)
	}
	return v, nil
}

// FormFromInput renders a StockInput back into editable form.
// An absent or zero mean PER renders as an empty field.
func FormFromInput(input StockInput) StockForm {
	form := StockForm{
		Ticker: input.Ticker,
		Price:  formatEditable(input.Price),
		EPS:    formatEditable(input.EPS),
		BVPS:   formatEditable(input.BVPS),
	}
	if input.HasMeanPER() {
		form.MeanPER = formatEditable(*input.MeanPER)
	}
	return form
}

func formatEditable(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// PriceQuote is the result of a current price lookup
type PriceQuote struct {
	Price  float64 `json:"price"`
	Source string  `json:"source,omitempty"` // provenance, displayed but never parsed
}
