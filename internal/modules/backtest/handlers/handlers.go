// Package handlers provides HTTP handlers for back-tests.
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/axiome/analytics/internal/domain"
	"github.com/axiome/analytics/internal/modules/backtest"
	"github.com/axiome/analytics/internal/server/respond"
	"github.com/rs/zerolog"
)

const (
	// MinWindowDays is the shortest accepted back-test window
	MinWindowDays = 30
	// MaxWindowYears is the longest accepted back-test window
	MaxWindowYears = 20
)

// BacktestRunner is the service behind the handler
type BacktestRunner interface {
	RunBacktest(ctx context.Context, req backtest.Request) *backtest.Result
}

// Request is the POST /api/backtest body
type Request struct {
	Holdings           []domain.HoldingInput `json:"holdings,omitempty"`
	Weights            map[string]float64    `json:"weights,omitempty"`
	StartDate          string                `json:"start_date"`
	EndDate            string                `json:"end_date"`
	InitialCapital     float64               `json:"initial_capital,omitempty"`
	Benchmark          string                `json:"benchmark,omitempty"`
	RebalanceFrequency string                `json:"rebalance_frequency,omitempty"`
}

// Handler handles back-test HTTP requests
type Handler struct {
	service BacktestRunner
	log     zerolog.Logger
}

// NewHandler creates a new back-test handler
func NewHandler(service BacktestRunner, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "backtest").Logger(),
	}
}

// HandleRunBacktest handles POST /api/backtest
func (h *Handler) HandleRunBacktest(w http.ResponseWriter, r *http.Request) {
	var body Request
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body: "+err.Error(), h.log)
		return
	}

	req, err := body.Validate()
	if err != nil {
		h.log.Debug().Err(err).Msg("Rejected back-test request")
		respond.Error(w, http.StatusBadRequest, err.Error(), h.log)
		return
	}

	result := h.service.RunBacktest(r.Context(), req)
	respond.Write(w, r, http.StatusOK, result, h.log)
}

// Validate checks the body and converts it into a service request
func (b Request) Validate() (backtest.Request, error) {
	if len(b.Holdings) == 0 && len(b.Weights) == 0 {
		return backtest.Request{}, fmt.Errorf("holdings or weights are required")
	}

	start, err := domain.ParseDay(strings.TrimSpace(b.StartDate))
	if err != nil {
		return backtest.Request{}, fmt.Errorf("invalid start_date (want YYYY-MM-DD): %w", err)
	}
	end, err := domain.ParseDay(strings.TrimSpace(b.EndDate))
	if err != nil {
		return backtest.Request{}, fmt.Errorf("invalid end_date (want YYYY-MM-DD): %w", err)
	}
	if err := validateWindow(start, end); err != nil {
		return backtest.Request{}, err
	}

	freq, err := backtest.ParseFrequency(b.RebalanceFrequency)
	if err != nil {
		return backtest.Request{}, err
	}

	if b.InitialCapital < 0 || math.IsNaN(b.InitialCapital) || math.IsInf(b.InitialCapital, 0) {
		return backtest.Request{}, fmt.Errorf("initial_capital must be a positive number")
	}

	holdings, err := domain.ToHoldings(b.Holdings)
	if err != nil {
		return backtest.Request{}, err
	}

	var custom map[string]float64
	if len(b.Weights) > 0 {
		custom = make(map[string]float64, len(b.Weights))
		for sym, w := range b.Weights {
			if math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
				return backtest.Request{}, fmt.Errorf("weight for %s must be a non-negative number", sym)
			}
			key := strings.ToUpper(strings.TrimSpace(sym))
			if key == "" {
				return backtest.Request{}, fmt.Errorf("weights must not contain an empty symbol")
			}
			custom[key] += w
		}
	}

	return backtest.Request{
		Holdings:       holdings,
		Weights:        custom,
		Start:          start,
		End:            end,
		InitialCapital: b.InitialCapital,
		Benchmark:      strings.ToUpper(strings.TrimSpace(b.Benchmark)),
		Frequency:      freq,
	}, nil
}

func validateWindow(start, end time.Time) error {
	if !start.Before(end) {
		return fmt.Errorf("start_date must be before end_date")
	}
	if end.Sub(start) < MinWindowDays*24*time.Hour {
		return fmt.Errorf("back-test window must span at least %d days", MinWindowDays)
	}
	if start.Before(end.AddDate(-MaxWindowYears, 0, 0)) {
		return fmt.Errorf("back-test window must not exceed %d years", MaxWindowYears)
	}
	return nil
}
