// Package handlers provides HTTP handlers for stored market data.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/axiome/analytics/internal/domain"
	"github.com/axiome/analytics/internal/modules/marketdata"
	"github.com/axiome/analytics/internal/server/respond"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Store is the market data persistence used by the handlers
type Store interface {
	GetPriceHistory(ctx context.Context, symbol string, start, end time.Time) ([]domain.PricePoint, error)
	SavePrices(ctx context.Context, points []domain.PricePoint) error
	Symbols(ctx context.Context) ([]string, error)
	Metadata(ctx context.Context, symbol string) (*domain.InstrumentMetadata, error)
	SaveMetadata(ctx context.Context, md domain.InstrumentMetadata) error
}

// PriceInput is one daily price in a JSON upload
type PriceInput struct {
	Date          string   `json:"date"`
	Close         float64  `json:"close"`
	AdjustedClose *float64 `json:"adjusted_close,omitempty"`
}

// PriceOutput is one stored daily price
type PriceOutput struct {
	Date          string   `json:"date"`
	Close         float64  `json:"close"`
	AdjustedClose *float64 `json:"adjusted_close,omitempty"`
}

// UploadResult summarises a price upload
type UploadResult struct {
	Symbol   string                 `json:"symbol"`
	Saved    int                    `json:"saved"`
	Rejected []marketdata.Rejection `json:"rejected"`
}

// Handler handles market data HTTP requests
type Handler struct {
	store Store
	log   zerolog.Logger
}

// NewHandler creates a new market data handler
func NewHandler(store Store, log zerolog.Logger) *Handler {
	return &Handler{
		store: store,
		log:   log.With().Str("handler", "market_data").Logger(),
	}
}

func symbolParam(r *http.Request) string {
	return strings.ToUpper(strings.TrimSpace(chi.URLParam(r, "symbol")))
}

// HandleListSymbols handles GET /api/market-data/symbols
func (h *Handler) HandleListSymbols(w http.ResponseWriter, r *http.Request) {
	symbols, err := h.store.Symbols(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list symbols")
		respond.Error(w, http.StatusInternalServerError, "failed to list symbols", h.log)
		return
	}
	if symbols == nil {
		symbols = []string{}
	}
	respond.Write(w, r, http.StatusOK, map[string]interface{}{"symbols": symbols}, h.log)
}

// HandleGetPrices handles GET /api/market-data/{symbol}/prices?start=&end=
func (h *Handler) HandleGetPrices(w http.ResponseWriter, r *http.Request) {
	symbol := symbolParam(r)

	start, err := domain.ParseOptionalDay(r.URL.Query().Get("start"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid start (want YYYY-MM-DD)", h.log)
		return
	}
	end, err := domain.ParseOptionalDay(r.URL.Query().Get("end"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid end (want YYYY-MM-DD)", h.log)
		return
	}

	points, err := h.store.GetPriceHistory(r.Context(), symbol, start, end)
	if err != nil {
		h.log.Error().Err(err).Str("symbol", symbol).Msg("Failed to read prices")
		respond.Error(w, http.StatusInternalServerError, "failed to read prices", h.log)
		return
	}

	out := make([]PriceOutput, len(points))
	for i, p := range points {
		out[i] = PriceOutput{Date: domain.FormatDay(p.Date), Close: p.Close, AdjustedClose: p.AdjustedClose}
	}
	respond.Write(w, r, http.StatusOK, map[string]interface{}{"symbol": symbol, "prices": out}, h.log)
}

// HandlePutPrices handles PUT /api/market-data/{symbol}/prices with either a
// JSON array of prices or a text/csv body.
func (h *Handler) HandlePutPrices(w http.ResponseWriter, r *http.Request) {
	symbol := symbolParam(r)
	if symbol == "" {
		respond.Error(w, http.StatusBadRequest, "symbol is required", h.log)
		return
	}

	points, err := h.decodePrices(r, symbol)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error(), h.log)
		return
	}

	valid, rejected := marketdata.ValidatePoints(points)
	kept := valid[:0]
	for _, p := range valid {
		if p.Symbol != symbol {
			rejected = append(rejected, marketdata.Rejection{Symbol: p.Symbol, Date: domain.FormatDay(p.Date), Reason: "symbol_mismatch"})
			continue
		}
		kept = append(kept, p)
	}

	if err := h.store.SavePrices(r.Context(), kept); err != nil {
		h.log.Error().Err(err).Str("symbol", symbol).Msg("Failed to save prices")
		respond.Error(w, http.StatusInternalServerError, "failed to save prices", h.log)
		return
	}

	if len(rejected) > 0 {
		h.log.Warn().Str("symbol", symbol).Int("rejected", len(rejected)).Msg("Some uploaded prices were rejected")
	}
	if rejected == nil {
		rejected = []marketdata.Rejection{}
	}
	respond.Write(w, r, http.StatusOK, UploadResult{Symbol: symbol, Saved: len(kept), Rejected: rejected}, h.log)
}

func (h *Handler) decodePrices(r *http.Request, symbol string) ([]domain.PricePoint, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "text/csv" {
		return marketdata.ParsePricesCSV(r.Body, symbol)
	}

	var inputs []PriceInput
	if err := json.NewDecoder(r.Body).Decode(&inputs); err != nil {
		return nil, errors.New("invalid request body: " + err.Error())
	}

	points := make([]domain.PricePoint, 0, len(inputs))
	for _, in := range inputs {
		d, err := domain.ParseDay(strings.TrimSpace(in.Date))
		if err != nil {
			return nil, errors.New("invalid price date " + in.Date + " (want YYYY-MM-DD)")
		}
		points = append(points, domain.PricePoint{Symbol: symbol, Date: d, Close: in.Close, AdjustedClose: in.AdjustedClose})
	}
	return points, nil
}

// HandleGetMetadata handles GET /api/market-data/{symbol}/metadata
func (h *Handler) HandleGetMetadata(w http.ResponseWriter, r *http.Request) {
	symbol := symbolParam(r)

	md, err := h.store.Metadata(r.Context(), symbol)
	if errors.Is(err, marketdata.ErrNotFound) {
		respond.Error(w, http.StatusNotFound, "no metadata for "+symbol, h.log)
		return
	}
	if err != nil {
		h.log.Error().Err(err).Str("symbol", symbol).Msg("Failed to read metadata")
		respond.Error(w, http.StatusInternalServerError, "failed to read metadata", h.log)
		return
	}
	respond.Write(w, r, http.StatusOK, md, h.log)
}

// HandlePutMetadata handles PUT /api/market-data/{symbol}/metadata
func (h *Handler) HandlePutMetadata(w http.ResponseWriter, r *http.Request) {
	symbol := symbolParam(r)
	if symbol == "" {
		respond.Error(w, http.StatusBadRequest, "symbol is required", h.log)
		return
	}

	var md domain.InstrumentMetadata
	if err := json.NewDecoder(r.Body).Decode(&md); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body: "+err.Error(), h.log)
		return
	}
	md.Symbol = symbol

	if err := h.store.SaveMetadata(r.Context(), md); err != nil {
		h.log.Error().Err(err).Str("symbol", symbol).Msg("Failed to save metadata")
		respond.Error(w, http.StatusInternalServerError, "failed to save metadata", h.log)
		return
	}

	saved, err := h.store.Metadata(r.Context(), symbol)
	if err != nil {
		respond.Error(w, http.StatusInternalServerError, "failed to read metadata", h.log)
		return
	}
	respond.Write(w, r, http.StatusOK, saved, h.log)
}
