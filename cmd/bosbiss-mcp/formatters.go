package main

import (
	"fmt"
	"strings"

	"github.com/ternarybob/bosbiss/internal/common"
	"github.com/ternarybob/bosbiss/internal/models"
	"github.com/ternarybob/bosbiss/internal/report"
)

// formatAnalysis formats the valuation followed by the commentary
func formatAnalysis(input models.StockInput, result models.CalculationResult, insight string) string {
	var sb strings.Builder
	sb.WriteString(report.Result(input, result))
	sb.WriteString("\n### Kata Bosbiss\n\n")
	sb.WriteString(strings.TrimSpace(insight))
	sb.WriteString("\n")
	return sb.String()
}

// formatQuote formats a price lookup result
func formatQuote(ticker string, quote models.PriceQuote) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("**%s:** %s\n", ticker, common.FormatRupiah(quote.Price)))
	if quote.Source != "" {
		sb.WriteString(fmt.Sprintf("**Source:** %s\n", quote.Source))
	}
	return sb.String()
}
