// Package handlers provides HTTP handlers for price alerts.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/aristath/coindash/internal/modules/alerts"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handler handles alert HTTP requests
type Handler struct {
	service *alerts.Service
	log     zerolog.Logger
}

// NewHandler creates a new alerts handler
func NewHandler(service *alerts.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "alerts").Logger(),
	}
}

// AddAlertRequest is the body of POST /alerts
type AddAlertRequest struct {
	AssetID     string  `json:"cryptoId"`
	AssetSymbol string  `json:"cryptoSymbol"`
	Condition   string  `json:"condition"`
	Threshold   float64 `json:"price"`
}

// HandleList returns the visible alerts. show_triggered defaults to true;
// symbol narrows the list to one asset symbol.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	show := true
	if raw := r.URL.Query().Get("show_triggered"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "show_triggered must be a boolean")
			return
		}
		show = parsed
	}

	if symbol := r.URL.Query().Get("symbol"); symbol != "" {
		list := h.service.BySymbol(symbol)
		if !show {
			active := list[:0]
			for _, a := range list {
				if !a.Triggered {
					active = append(active, a)
				}
			}
			list = active
		}
		h.writeJSON(w, http.StatusOK, list)
		return
	}

	h.writeJSON(w, http.StatusOK, h.service.Visible(show))
}

// HandleListActive returns alerts that have not fired
func (h *Handler) HandleListActive(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.service.Active())
}

// HandleListTriggered returns alerts that have fired
func (h *Handler) HandleListTriggered(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.service.Triggered())
}

// HandleAdd creates an alert
func (h *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	var req AddAlertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	a, err := h.service.Add(req.AssetID, req.AssetSymbol, alerts.Condition(req.Condition), req.Threshold)
	if err != nil {
		if errors.Is(err, alerts.ErrInvalidAlert) {
			h.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.log.Error().Err(err).Msg("Failed to add alert")
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.writeJSON(w, http.StatusCreated, a)
}

// HandleRemove deletes one alert
func (h *Handler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	if !h.service.Remove(chi.URLParam(r, "id")) {
		h.writeError(w, http.StatusNotFound, "alert not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleClearTriggered deletes every triggered alert
func (h *Handler) HandleClearTriggered(w http.ResponseWriter, r *http.Request) {
	removed := h.service.ClearTriggered()
	h.writeJSON(w, http.StatusOK, map[string]int{"removed": removed})
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
