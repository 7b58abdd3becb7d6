package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all alert routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/alerts", func(r chi.Router) {
		r.Get("/", h.HandleList)                       // Visible alerts (?show_triggered=&symbol=)
		r.Post("/", h.HandleAdd)                       // Create alert
		r.Get("/active", h.HandleListActive)           // Not yet fired
		r.Get("/triggered", h.HandleListTriggered)     // Already fired
		r.Delete("/triggered", h.HandleClearTriggered) // Drop fired alerts
		r.Delete("/{id}", h.HandleRemove)              // Drop one alert
	})
}
