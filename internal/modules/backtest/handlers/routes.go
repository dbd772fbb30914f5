package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers the back-test routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/backtest", h.HandleRunBacktest)
}
