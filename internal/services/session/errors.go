package session

import (
	"errors"
	"fmt"

	"github.com/ternarybob/bosbiss/internal/common"
)

// User-facing messages
const (
	MsgTickerRequired    = "Isi Kode Saham dulu Bos!"
	MsgAnalysisFields    = "Waduh Bos, data Harga, EPS, dan BVPS wajib diisi ya!"
	MsgPriceLookupFailed = "Gagal ambil harga. Coba input manual aja ya."
	MsgInsightFailed     = "Yah error Bos. Coba cek angkanya lagi."
	msgSaved             = "Mantap! %s udah masuk pantauan."
	msgConfirmDelete     = "Yakin mau hapus %s dari pantauan?"
)

var (
	// ErrNotInWatchlist is returned when loading a ticker that is not saved
	ErrNotInWatchlist = errors.New("ticker is not in the watchlist")

	// ErrConfirmationRequired is returned by DeleteFromWatchlist when the caller has not confirmed
	ErrConfirmationRequired = errors.New("delete requires confirmation")
)

// ValidationError rejects a request before any calculation or network call
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// SavedMessage is the confirmation shown after a save
func SavedMessage(ticker string) string {
	return fmt.Sprintf(msgSaved, common.NormalizeTicker(ticker))
}

// ConfirmDeletePrompt is the question asked before a delete
func ConfirmDeletePrompt(ticker string) string {
	return fmt.Sprintf(msgConfirmDelete, common.NormalizeTicker(ticker))
}
