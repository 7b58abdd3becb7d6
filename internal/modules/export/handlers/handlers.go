// Package handlers provides HTTP handlers for dataset exports.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/aristath/coindash/internal/modules/export"
	"github.com/aristath/coindash/internal/modules/market"
	markethandlers "github.com/aristath/coindash/internal/modules/market/handlers"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handler handles export HTTP requests
type Handler struct {
	service *export.Service
	log     zerolog.Logger
}

// NewHandler creates a new export handler
func NewHandler(service *export.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "export").Logger(),
	}
}

// parseRequest reads dataset, format, basename and the per-dataset filters
func parseRequest(r *http.Request) (export.Request, error) {
	values := r.URL.Query()

	format, err := export.ParseFormat(values.Get("format"))
	if err != nil {
		return export.Request{}, err
	}

	req := export.Request{
		Dataset:  export.Dataset(chi.URLParam(r, "dataset")),
		Format:   format,
		Basename: values.Get("basename"),
		AssetID:  values.Get("asset"),
	}

	if req.Dataset == export.DatasetMarket {
		q, err := markethandlers.ParseQuery(r, market.DefaultPerPage)
		if err != nil {
			return export.Request{}, err
		}
		req.Market = q
	}
	if raw := values.Get("active_only"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return export.Request{}, errors.New("active_only must be a boolean")
		}
		req.ActiveOnly = v
	}
	return req, nil
}

func knownDataset(d export.Dataset) bool {
	for _, known := range export.Datasets {
		if d == known {
			return true
		}
	}
	return false
}

// HandleDownload streams the encoded dataset as an attachment
func (h *Handler) HandleDownload(w http.ResponseWriter, r *http.Request) {
	req, err := parseRequest(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !knownDataset(req.Dataset) {
		h.writeError(w, http.StatusNotFound, "unknown dataset "+string(req.Dataset))
		return
	}

	doc, err := h.service.Build(req)
	if err != nil {
		h.writeBuildError(w, err)
		return
	}

	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+doc.FileName+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(doc.Data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(doc.Data); err != nil {
		h.log.Error().Err(err).Str("file_name", doc.FileName).Msg("Failed to stream export")
	}
}

// HandleSave writes the encoded dataset into the export directory
func (h *Handler) HandleSave(w http.ResponseWriter, r *http.Request) {
	req, err := parseRequest(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !knownDataset(req.Dataset) {
		h.writeError(w, http.StatusNotFound, "unknown dataset "+string(req.Dataset))
		return
	}

	doc, path, err := h.service.Save(req)
	if err != nil {
		h.writeBuildError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, map[string]interface{}{
		"fileName": doc.FileName,
		"path":     path,
		"records":  doc.Records,
		"bytes":    len(doc.Data),
	})
}

func (h *Handler) writeBuildError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, export.ErrNoRecords):
		h.writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, market.ErrInvalidQuery):
		h.writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.log.Error().Err(err).Msg("Export failed")
		h.writeError(w, http.StatusInternalServerError, err.Error())
	}
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
