package handlers

import (
	"errors"
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/bosbiss/internal/models"
	"github.com/ternarybob/bosbiss/internal/services/session"
)

// SessionHandler exposes the analysis session over HTTP
type SessionHandler struct {
	session SessionService
	logger  arbor.ILogger
}

func NewSessionHandler(session SessionService, logger arbor.ILogger) *SessionHandler {
	return &SessionHandler{
		session: session,
		logger:  logger,
	}
}

// priceRequest is the body of POST /api/session/price
type priceRequest struct {
	Ticker string `json:"ticker"`
}

// analyzeResponse returns the numbers immediately; the insight follows on /ws
type analyzeResponse struct {
	Status     string                    `json:"status"`
	Result     *models.CalculationResult `json:"result"`
	Generation uint64                    `json:"generation"`
}

// GetSessionHandler returns the current session snapshot
func (h *SessionHandler) GetSessionHandler(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, h.session.Snapshot())
}

// UpdateFormHandler replaces the editable form without analysing it
func (h *SessionHandler) UpdateFormHandler(w http.ResponseWriter, r *http.Request) {
	var form models.StockForm
	if err := DecodeJSON(r, &form); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.session.SetForm(form)
	WriteJSON(w, http.StatusOK, h.session.Snapshot())
}

// AnalyzeHandler validates the form and returns the computed valuation
func (h *SessionHandler) AnalyzeHandler(w http.ResponseWriter, r *http.Request) {
	var form models.StockForm
	if err := DecodeJSON(r, &form); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.session.Analyze(r.Context(), form)
	if err != nil {
		var verr *session.ValidationError
		if errors.As(err, &verr) {
			WriteFieldError(w, verr.Field, verr.Message)
			return
		}
		h.logger.Error().Err(err).Msg("Analysis failed")
		WriteError(w, http.StatusInternalServerError, "Failed to analyse stock")
		return
	}

	WriteJSON(w, http.StatusOK, analyzeResponse{
		Status:     "computed",
		Result:     result,
		Generation: h.session.Snapshot().Analysis.Generation,
	})
}

// FetchPriceHandler starts a background price lookup
func (h *SessionHandler) FetchPriceHandler(w http.ResponseWriter, r *http.Request) {
	var req priceRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.session.FetchCurrentPrice(r.Context(), req.Ticker); err != nil {
		var verr *session.ValidationError
		if errors.As(err, &verr) {
			WriteFieldError(w, verr.Field, verr.Message)
			return
		}
		h.logger.Error().Err(err).Str("ticker", req.Ticker).Msg("Price lookup failed to start")
		WriteError(w, http.StatusInternalServerError, "Failed to start price lookup")
		return
	}

	WriteStarted(w, "Price lookup started")
}
