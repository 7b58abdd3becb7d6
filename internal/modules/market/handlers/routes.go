package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all market routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/market", func(r chi.Router) {
		r.Get("/", h.HandleList)                         // Filtered, sorted, paginated listing
		r.Get("/favorites", h.HandleListFavorites)       // Favorite assets
		r.Get("/{id}", h.HandleGetAsset)                 // One asset
		r.Get("/{id}/chart", h.HandleGetChart)           // Synthetic history (?days=|?timeframe=)
		r.Post("/{id}/price", h.HandleSetPrice)          // Manual price update
		r.Post("/{id}/favorite", h.HandleToggleFavorite) // Toggle favorite
	})
}
