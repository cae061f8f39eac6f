package llm

import (
	"fmt"
	"strings"

	"github.com/ternarybob/bosbiss/internal/common"
	"github.com/ternarybob/bosbiss/internal/models"
)

const insightPersona = `Role: Anda adalah "Bosbiss Stock Analyst", asisten pribadi yang ahli dalam valuasi saham fundamental. Gaya bicara Anda santai, to the point, ala Gen-Z, tapi sangat teliti dalam perhitungan angka.`

const insightTask = `Tugas:
Berikan "Insight Bosbiss" satu paragraf pendek saja.
- Bandingkan harga sekarang dengan hasil hitungan.
- Gunakan bahasa gaul tapi sopan (misal: "Diskon abis", "Hati-hati boncos", "Masih wajar").
- Wajib ada Disclaimer On di akhir kalimat.
- Jangan ulangi angka detail (karena sudah ditampilkan di UI), fokus ke kesimpulan dan saran strategi.`

// buildInsightPrompt renders the analyst prompt for one calculation
func buildInsightPrompt(input models.StockInput, result models.CalculationResult) string {
	var sb strings.Builder

	sb.WriteString(insightPersona)
	sb.WriteString("\n\nData Saham User:\n")
	sb.WriteString(fmt.Sprintf("- Kode: %s\n", common.NormalizeTicker(input.Ticker)))
	sb.WriteString(fmt.Sprintf("- Harga Sekarang: %s\n", common.FormatRupiah(input.Price)))
	sb.WriteString(fmt.Sprintf("- EPS (TTM): %s\n", common.FormatPlain(input.EPS)))
	sb.WriteString(fmt.Sprintf("- BVPS: %s\n", common.FormatPlain(input.BVPS)))
	if input.HasMeanPER() {
		sb.WriteString(fmt.Sprintf("- Rata-rata PER 5 Tahun: %s\n", common.FormatPlain(*input.MeanPER)))
	} else {
		sb.WriteString("- Rata-rata PER 5 Tahun: Tidak ada data\n")
	}

	sb.WriteString("\nHasil Perhitungan Internal:\n")
	sb.WriteString(valuationLine("Graham Number", result.GrahamNumber, result.GrahamStatus, result.GrahamMOS))
	if result.HasHistorical() {
		sb.WriteString(valuationLine("Valuasi PER Historis", *result.HistValuation, *result.HistStatus, *result.HistMOS))
	}

	sb.WriteString("\n")
	sb.WriteString(insightTask)
	sb.WriteString("\n")

	return sb.String()
}

func valuationLine(label string, value float64, status models.ValuationStatus, mos float64) string {
	if status == models.StatusNotComputable {
		return fmt.Sprintf("- %s: tidak bisa dihitung dari data ini (jangan tebak angkanya)\n", label)
	}
	return fmt.Sprintf("- %s: %s (Status: %s, MOS: %s)\n", label, common.FormatRupiah(value), status, common.FormatPct(mos))
}

// buildPricePrompt asks for the latest price as bare digits
func buildPricePrompt(ticker, market string) string {
	if market == "" {
		market = "Indonesia (IDX)"
	}
	return fmt.Sprintf(`Berapa harga saham %s %s saat ini/terbaru?
Jawab HANYA dengan angkanya saja tanpa format mata uang, tanpa titik/koma pemisah ribuan.
Contoh jika harga 4.500, jawab: 4500.`, common.NormalizeTicker(ticker), market)
}
