package server

import (
	"net/http"

	"github.com/axiome/analytics/internal/server/respond"
	"github.com/axiome/analytics/internal/version"
)

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":  "healthy",
		"version": version.Version,
		"service": "axiome-analytics",
	}

	respond.JSON(w, http.StatusOK, response, s.log)
}
