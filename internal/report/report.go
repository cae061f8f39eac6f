// Package report renders valuations and watchlist entries as text for the
// CLI and the MCP tools.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/bosbiss/internal/common"
	"github.com/ternarybob/bosbiss/internal/models"
)

var shortMonths = [...]string{"Jan", "Feb", "Mar", "Apr", "Mei", "Jun", "Jul", "Agu", "Sep", "Okt", "Nov", "Des"}

// Verdict renders one estimate, e.g. "Rp 1.643 💎 UNDERVALUED (MOS +39.1%)"
func Verdict(value float64, status models.ValuationStatus, mos float64) string {
	if status == models.StatusNotComputable {
		return fmt.Sprintf("%s %s %s", common.NotAvailable, status.Emoji(), status)
	}
	return fmt.Sprintf("%s %s %s (MOS %s)", common.FormatRupiahRounded(value), status.Emoji(), status, common.FormatSignedPct(mos))
}

// Result renders a calculation as markdown
func Result(input models.StockInput, result models.CalculationResult) string {
	var sb strings.Builder
	ticker := common.NormalizeTicker(input.Ticker)
	if ticker == "" {
		ticker = "Saham"
	}

	sb.WriteString(fmt.Sprintf("## %s @ %s\n\n", ticker, common.FormatRupiah(input.Price)))
	sb.WriteString(fmt.Sprintf("**Graham Number:** %s\n", Verdict(result.GrahamNumber, result.GrahamStatus, result.GrahamMOS)))

	if result.HasHistorical() {
		sb.WriteString(fmt.Sprintf("**Historical PER (%sx):** %s\n",
			common.FormatPlain(*input.MeanPER),
			Verdict(*result.HistValuation, *result.HistStatus, *result.HistMOS)))
	} else {
		sb.WriteString("**Historical PER:** Tidak ada data\n")
	}

	if anomalies := result.Anomalies(); len(anomalies) > 0 {
		sb.WriteString(fmt.Sprintf("\n_Tidak bisa dihitung: %s_\n", strings.Join(anomalies, ", ")))
	}

	return sb.String()
}

// ShortDate renders a day the way the watchlist card shows it, e.g. "15 Okt"
func ShortDate(t time.Time) string {
	return fmt.Sprintf("%d %s", t.Day(), shortMonths[t.Month()-1])
}

// WatchlistCard renders one saved entry on two lines
func WatchlistCard(item models.WatchlistItem) string {
	return fmt.Sprintf("%s (%s)\n  EPS: %s | BVPS: %s | Last Price: %s",
		common.NormalizeTicker(item.Ticker),
		ShortDate(item.LastUpdatedTime()),
		common.FormatPlain(item.EPS),
		common.FormatPlain(item.BVPS),
		common.FormatRupiah(item.Price))
}

// Watchlist renders every entry, most recent first
func Watchlist(items []models.WatchlistItem) string {
	if len(items) == 0 {
		return "Belum ada saham di pantauan.\n"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Pantauan (%d saham)\n\n", len(items)))
	for i, item := range items {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, WatchlistCard(item)))
	}
	return sb.String()
}
