// Package handlers provides HTTP handlers for portfolio analytics.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/axiome/analytics/internal/domain"
	"github.com/axiome/analytics/internal/modules/analytics"
	"github.com/axiome/analytics/internal/server/respond"
	"github.com/rs/zerolog"
)

// AnalyticsComputer is the service behind the handler
type AnalyticsComputer interface {
	ComputeAnalytics(ctx context.Context, req analytics.Request) *analytics.PortfolioAnalytics
}

// Request is the POST /api/analytics body
type Request struct {
	Holdings  []domain.HoldingInput `json:"holdings"`
	Benchmark string                `json:"benchmark,omitempty"`
	StartDate string                `json:"start_date,omitempty"`
	EndDate   string                `json:"end_date,omitempty"`
}

// Handler handles analytics HTTP requests
type Handler struct {
	service AnalyticsComputer
	log     zerolog.Logger
}

// NewHandler creates a new analytics handler
func NewHandler(service AnalyticsComputer, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "analytics").Logger(),
	}
}

// HandleComputeAnalytics handles POST /api/analytics
func (h *Handler) HandleComputeAnalytics(w http.ResponseWriter, r *http.Request) {
	var body Request
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body: "+err.Error(), h.log)
		return
	}

	req, err := body.Validate()
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error(), h.log)
		return
	}

	result := h.service.ComputeAnalytics(r.Context(), req)
	respond.Write(w, r, http.StatusOK, result, h.log)
}

// Validate checks the body and converts it into a service request
func (b Request) Validate() (analytics.Request, error) {
	holdings, err := domain.ToHoldings(b.Holdings)
	if err != nil {
		return analytics.Request{}, err
	}
	start, err := domain.ParseOptionalDay(b.StartDate)
	if err != nil {
		return analytics.Request{}, errInvalidDate("start_date", err)
	}
	end, err := domain.ParseOptionalDay(b.EndDate)
	if err != nil {
		return analytics.Request{}, errInvalidDate("end_date", err)
	}
	if !start.IsZero() && !end.IsZero() && !start.Before(end) {
		return analytics.Request{}, errStartAfterEnd
	}

	return analytics.Request{
		Holdings:  holdings,
		Benchmark: strings.ToUpper(strings.TrimSpace(b.Benchmark)),
		Start:     start,
		End:       end,
	}, nil
}
