// Package handlers provides HTTP handlers for the market listing.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/aristath/coindash/internal/modules/market"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handler handles market HTTP requests
type Handler struct {
	service        *market.Service
	defaultPerPage int
	log            zerolog.Logger
}

// NewHandler creates a new market handler; perPage is the default page size
func NewHandler(service *market.Service, perPage int, log zerolog.Logger) *Handler {
	if perPage < 1 {
		perPage = market.DefaultPerPage
	}
	return &Handler{
		service:        service,
		defaultPerPage: perPage,
		log:            log.With().Str("handler", "market").Logger(),
	}
}

// SetPriceRequest is the body of POST /market/{id}/price
type SetPriceRequest struct {
	Price float64 `json:"price"`
}

// ParseQuery reads a listing query from the request.
// Supported parameters: search, favorites, sort, dir, page, per_page.
func ParseQuery(r *http.Request, defaultPerPage int) (market.Query, error) {
	values := r.URL.Query()
	q := market.Query{
		Search:  values.Get("search"),
		SortKey: values.Get("sort"),
		SortDir: market.SortDir(values.Get("dir")),
		PerPage: defaultPerPage,
	}

	if raw := values.Get("favorites"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return q, errors.New("favorites must be a boolean")
		}
		q.FavoritesOnly = v
	}
	if raw := values.Get("page"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			return q, errors.New("page must be a positive integer")
		}
		q.Page = v
	}
	if raw := values.Get("per_page"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			return q, errors.New("per_page must be a positive integer")
		}
		q.PerPage = min(v, market.MaxPerPage)
	}
	return q, nil
}

// HandleList returns one page of the listing
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	q, err := ParseQuery(r, h.defaultPerPage)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	page, err := h.service.Query(q)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, page)
}

// HandleGetAsset returns one asset with its favorite flag
func (h *Handler) HandleGetAsset(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	asset, ok := h.service.Get(id)
	if !ok {
		h.writeError(w, http.StatusNotFound, "asset not found")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"asset":    asset,
		"favorite": h.service.IsFavorite(id),
	})
}

// HandleGetChart returns synthetic price history. days defaults to 7;
// timeframe (24h, 7d, 30d, 90d, 1y) takes precedence over days.
func (h *Handler) HandleGetChart(w http.ResponseWriter, r *http.Request) {
	days := 7
	if raw := r.URL.Query().Get("days"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 || v > market.MaxChartDays {
			h.writeError(w, http.StatusBadRequest, "days must be between 0 and 365")
			return
		}
		days = v
	}
	if tf := r.URL.Query().Get("timeframe"); tf != "" {
		v, ok := market.Timeframes[tf]
		if !ok {
			h.writeError(w, http.StatusBadRequest, "unknown timeframe "+tf)
			return
		}
		days = v
	}

	series, err := h.service.Chart(chi.URLParam(r, "id"), days)
	if err != nil {
		if errors.Is(err, market.ErrUnknownAsset) {
			h.writeError(w, http.StatusNotFound, err.Error())
			return
		}
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, series)
}

// HandleSetPrice applies a manual price, which flows through the same path as feed ticks
func (h *Handler) HandleSetPrice(w http.ResponseWriter, r *http.Request) {
	var req SetPriceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	asset, err := h.service.SetPrice(chi.URLParam(r, "id"), req.Price)
	switch {
	case errors.Is(err, market.ErrUnknownAsset):
		h.writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, market.ErrInvalidPrice):
		h.writeError(w, http.StatusBadRequest, err.Error())
	case err != nil:
		h.writeError(w, http.StatusInternalServerError, err.Error())
	default:
		h.writeJSON(w, http.StatusOK, asset)
	}
}

// HandleToggleFavorite flips the asset's favorite flag
func (h *Handler) HandleToggleFavorite(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	favorite, err := h.service.ToggleFavorite(id)
	if err != nil {
		h.writeError(w, http.StatusNotFound, err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"id":       id,
		"favorite": favorite,
	})
}

// HandleListFavorites returns the favorite assets
func (h *Handler) HandleListFavorites(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.service.Favorites())
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
