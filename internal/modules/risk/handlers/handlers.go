// Package handlers provides HTTP handlers for risk metrics operations.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/axiome/analytics/internal/domain"
	"github.com/axiome/analytics/internal/modules/marketdata"
	"github.com/axiome/analytics/internal/modules/risk"
	"github.com/axiome/analytics/internal/modules/series"
	"github.com/axiome/analytics/internal/server/respond"
)

// Config holds the defaults for requests that leave them out
type Config struct {
	DefaultBenchmark     string
	LookbackDays         int
	MaxConcurrentFetches int
}

// SecurityRisk is the GET /api/risk/securities/{symbol} response
type SecurityRisk struct {
	Symbol       string       `json:"symbol"`
	Benchmark    string       `json:"benchmark"`
	StartDate    string       `json:"start_date"`
	EndDate      string       `json:"end_date"`
	Observations int          `json:"observations"`
	Metrics      risk.Metrics `json:"metrics"`
}

// ReturnsRequest is the POST /api/risk/metrics body. Without benchmark
// returns the benchmark is flat.
type ReturnsRequest struct {
	Dates            []string  `json:"dates"`
	Returns          []float64 `json:"returns"`
	BenchmarkReturns []float64 `json:"benchmark_returns,omitempty"`
}

// Handler handles risk metrics HTTP requests
type Handler struct {
	prices domain.PriceHistoryProvider
	clock  domain.Clock
	cfg    Config
	log    zerolog.Logger
}

// NewHandler creates a new risk metrics handler
func NewHandler(prices domain.PriceHistoryProvider, clock domain.Clock, cfg Config, log zerolog.Logger) *Handler {
	if clock == nil {
		clock = domain.SystemClock{}
	}
	if cfg.MaxConcurrentFetches < 1 {
		cfg.MaxConcurrentFetches = 1
	}
	return &Handler{
		prices: prices,
		clock:  clock,
		cfg:    cfg,
		log:    log.With().Str("handler", "risk").Logger(),
	}
}

// HandleGetSecurityRisk handles GET /api/risk/securities/{symbol}
func (h *Handler) HandleGetSecurityRisk(w http.ResponseWriter, r *http.Request) {
	symbol := strings.ToUpper(strings.TrimSpace(chi.URLParam(r, "symbol")))
	q := r.URL.Query()

	benchmark := strings.ToUpper(strings.TrimSpace(q.Get("benchmark")))
	if benchmark == "" {
		benchmark = h.cfg.DefaultBenchmark
	}

	start, end, err := h.window(q.Get("start_date"), q.Get("end_date"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error(), h.log)
		return
	}

	symbols := []string{symbol, benchmark}
	history, err := marketdata.FetchHistories(r.Context(), h.log, h.prices, symbols, start, end, h.cfg.MaxConcurrentFetches)
	if err != nil {
		h.log.Warn().Err(err).Str("symbol", symbol).Msg("Price fetch aborted")
		respond.Error(w, http.StatusServiceUnavailable, "price fetch aborted", h.log)
		return
	}

	m, err := series.Align(symbols, history)
	if err != nil || !m.Has(symbol) {
		respond.Error(w, http.StatusNotFound, fmt.Sprintf("not enough prices for %s", symbol), h.log)
		return
	}

	returns := m.Returns()
	metrics := risk.Evaluate(h.log, returns.Column(symbol), returns.ColumnOrZero(benchmark), returns.Dates).Rounded()

	respond.Write(w, r, http.StatusOK, SecurityRisk{
		Symbol:       symbol,
		Benchmark:    benchmark,
		StartDate:    domain.FormatDay(m.Dates[0]),
		EndDate:      domain.FormatDay(m.Dates[m.Len()-1]),
		Observations: returns.Len(),
		Metrics:      metrics,
	}, h.log)
}

// HandleComputeMetrics handles POST /api/risk/metrics
func (h *Handler) HandleComputeMetrics(w http.ResponseWriter, r *http.Request) {
	var body ReturnsRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body: "+err.Error(), h.log)
		return
	}

	dates, pf, bench, err := body.Validate()
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error(), h.log)
		return
	}

	respond.Write(w, r, http.StatusOK, risk.Evaluate(h.log, pf, bench, dates).Rounded(), h.log)
}

// Validate checks the body and returns aligned dates and return series
func (b ReturnsRequest) Validate() ([]time.Time, []float64, []float64, error) {
	if len(b.Returns) < 2 {
		return nil, nil, nil, errors.New("at least two returns are required")
	}
	if len(b.Dates) != len(b.Returns) {
		return nil, nil, nil, errors.New("dates and returns must have the same length")
	}

	bench := b.BenchmarkReturns
	if len(bench) == 0 {
		bench = make([]float64, len(b.Returns))
	} else if len(bench) != len(b.Returns) {
		return nil, nil, nil, errors.New("benchmark_returns and returns must have the same length")
	}

	dates := make([]time.Time, len(b.Dates))
	for i, s := range b.Dates {
		d, err := domain.ParseDay(strings.TrimSpace(s))
		if err != nil {
			return nil, nil, nil, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
		}
		if i > 0 && !d.After(dates[i-1]) {
			return nil, nil, nil, fmt.Errorf("dates must be strictly increasing (at %s)", s)
		}
		dates[i] = d
	}

	for i := range b.Returns {
		if b.Returns[i] <= -1 || math.IsInf(b.Returns[i], 0) || bench[i] <= -1 || math.IsInf(bench[i], 0) {
			return nil, nil, nil, fmt.Errorf("return on %s must be greater than -1", b.Dates[i])
		}
	}

	return dates, b.Returns, bench, nil
}

// window resolves the optional query dates. The end defaults to today and the
// start to LookbackDays before the end.
func (h *Handler) window(rawStart, rawEnd string) (time.Time, time.Time, error) {
	start, err := domain.ParseOptionalDay(rawStart)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid start_date (want YYYY-MM-DD): %w", err)
	}
	end, err := domain.ParseOptionalDay(rawEnd)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid end_date (want YYYY-MM-DD): %w", err)
	}

	if end.IsZero() {
		end = domain.Day(h.clock.Now())
	}
	if start.IsZero() {
		start = end.AddDate(0, 0, -h.cfg.LookbackDays)
	}
	if !start.Before(end) {
		return time.Time{}, time.Time{}, errors.New("start_date must be before end_date")
	}
	return start, end, nil
}
