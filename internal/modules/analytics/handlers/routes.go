package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers the analytics routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/analytics", h.HandleComputeAnalytics)
}
