package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/bosbiss/internal/models"
	"github.com/ternarybob/bosbiss/internal/services/session"
)

// WatchlistHandler serves the saved watchlist
type WatchlistHandler struct {
	session SessionService
	logger  arbor.ILogger
}

func NewWatchlistHandler(session SessionService, logger arbor.ILogger) *WatchlistHandler {
	return &WatchlistHandler{
		session: session,
		logger:  logger,
	}
}

type saveResponse struct {
	Saved     bool                   `json:"saved"`
	Message   string                 `json:"message,omitempty"`
	Error     string                 `json:"error,omitempty"`
	Watchlist []models.WatchlistItem `json:"watchlist"`
}

type loadResponse struct {
	Form models.StockForm `json:"form"`
}

// ListHandler returns the watchlist, most recent first
func (h *WatchlistHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, h.session.Watchlist())
}

// SaveHandler saves the posted form. An incomplete form is ignored and
// reported as saved=false.
func (h *WatchlistHandler) SaveHandler(w http.ResponseWriter, r *http.Request) {
	var form models.StockForm
	if err := DecodeJSON(r, &form); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	saved, err := h.session.SaveToWatchlist(r.Context(), form)
	if err != nil {
		// The in-memory list already holds the item
		h.logger.Error().Err(err).Str("ticker", form.Ticker).Msg("Failed to persist watchlist")
		WriteJSON(w, http.StatusInternalServerError, saveResponse{
			Saved:     saved,
			Error:     "Failed to persist watchlist",
			Watchlist: h.session.Watchlist(),
		})
		return
	}

	resp := saveResponse{
		Saved:     saved,
		Watchlist: h.session.Watchlist(),
	}
	if saved {
		resp.Message = session.SavedMessage(form.Ticker)
	}
	WriteJSON(w, http.StatusOK, resp)
}

// LoadHandler copies a saved item into the session form
func (h *WatchlistHandler) LoadHandler(w http.ResponseWriter, r *http.Request) {
	ticker := chi.URLParam(r, "ticker")

	form, err := h.session.LoadFromWatchlist(ticker)
	if err != nil {
		if errors.Is(err, session.ErrNotInWatchlist) {
			WriteError(w, http.StatusNotFound, err.Error())
			return
		}
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, loadResponse{Form: form})
}

// DeleteHandler removes a saved item. The caller must pass confirm=true.
func (h *WatchlistHandler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	ticker := chi.URLParam(r, "ticker")

	err := h.session.DeleteFromWatchlist(r.Context(), ticker, QueryBool(r, "confirm"))
	switch {
	case err == nil:
		WriteJSON(w, http.StatusOK, h.session.Watchlist())
	case errors.Is(err, session.ErrConfirmationRequired):
		WriteError(w, http.StatusPreconditionRequired, session.ConfirmDeletePrompt(ticker))
	default:
		h.logger.Error().Err(err).Str("ticker", ticker).Msg("Failed to persist watchlist")
		WriteError(w, http.StatusInternalServerError, "Failed to persist watchlist")
	}
}
