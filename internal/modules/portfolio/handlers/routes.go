package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all portfolio routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/portfolio", func(r chi.Router) {
		r.Get("/", h.HandleGetPortfolio)                          // Valued positions and totals
		r.Delete("/", h.HandleClear)                              // Remove every transaction
		r.Post("/transactions", h.HandleRecordTransaction)        // Record buy/sell
		r.Delete("/transactions/{id}", h.HandleRemoveTransaction) // Undo one transaction
		r.Get("/{assetId}", h.HandleGetPosition)                  // One valued position
		r.Get("/{assetId}/transactions", h.HandleGetTransactions) // Asset transaction history
	})
}
