package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers the market data routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/market-data", func(r chi.Router) {
		r.Get("/symbols", h.HandleListSymbols)

		r.Route("/{symbol}", func(r chi.Router) {
			r.Get("/prices", h.HandleGetPrices)
			r.Put("/prices", h.HandlePutPrices)
			r.Get("/metadata", h.HandleGetMetadata)
			r.Put("/metadata", h.HandlePutMetadata)
		})
	})
}
