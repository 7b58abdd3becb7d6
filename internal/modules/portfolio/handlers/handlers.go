// Package handlers provides HTTP handlers for the portfolio ledger.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/aristath/coindash/internal/modules/portfolio"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handler handles portfolio HTTP requests
type Handler struct {
	service *portfolio.Service
	log     zerolog.Logger
}

// NewHandler creates a new portfolio handler
func NewHandler(service *portfolio.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "portfolio").Logger(),
	}
}

// RecordTransactionRequest is the body of POST /portfolio/transactions
type RecordTransactionRequest struct {
	AssetID   string  `json:"cryptoId"`
	Kind      string  `json:"type"`
	Quantity  float64 `json:"amount"`
	UnitPrice float64 `json:"price"`
	Date      string  `json:"date"`
}

// HandleGetPortfolio returns every position valued at current prices
func (h *Handler) HandleGetPortfolio(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.service.Summary())
}

// HandleGetPosition returns one valued position
func (h *Handler) HandleGetPosition(w http.ResponseWriter, r *http.Request) {
	assetID := chi.URLParam(r, "assetId")

	valuation, ok := h.service.Valuation(assetID)
	if !ok {
		h.writeError(w, http.StatusNotFound, "no position for "+assetID)
		return
	}
	h.writeJSON(w, http.StatusOK, valuation)
}

// HandleGetTransactions returns the asset's transactions in insertion order
func (h *Handler) HandleGetTransactions(w http.ResponseWriter, r *http.Request) {
	assetID := chi.URLParam(r, "assetId")
	h.writeJSON(w, http.StatusOK, h.service.Transactions(assetID))
}

// HandleRecordTransaction records a buy or sell
func (h *Handler) HandleRecordTransaction(w http.ResponseWriter, r *http.Request) {
	var req RecordTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	date := req.Date
	if date == "" {
		date = time.Now().Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", date); err != nil {
		h.writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	tx, err := h.service.RecordTransaction(req.AssetID, portfolio.Kind(req.Kind), req.Quantity, req.UnitPrice, date)
	if err != nil {
		if errors.Is(err, portfolio.ErrInvalidTransaction) {
			h.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.log.Error().Err(err).Msg("Failed to record transaction")
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	pos, _ := h.service.Position(tx.AssetID)
	h.writeJSON(w, http.StatusCreated, map[string]interface{}{
		"transaction": tx,
		"position":    pos,
	})
}

// HandleRemoveTransaction deletes a transaction and undoes its effect
func (h *Handler) HandleRemoveTransaction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !h.service.RemoveTransaction(id) {
		h.writeError(w, http.StatusNotFound, "transaction not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleClear empties the portfolio
func (h *Handler) HandleClear(w http.ResponseWriter, r *http.Request) {
	h.service.Clear()
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
