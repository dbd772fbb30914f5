package handlers

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/axiome/analytics/internal/domain"
	"github.com/axiome/analytics/internal/modules/backtest"
	"github.com/axiome/analytics/internal/modules/marketdata"
	testingpkg "github.com/axiome/analytics/internal/testing"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func newRouter(svc BacktestRunner) http.Handler {
	router := chi.NewRouter()
	NewHandler(svc, zerolog.Nop()).RegisterRoutes(router)
	return router
}

func post(h http.Handler, body, accept string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/backtest", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func newService() *backtest.Service {
	start := testingpkg.Day(2024, time.January, 1)
	closes := func(daily float64) []float64 {
		out := make([]float64, 60)
		for i := range out {
			out[i] = 100 * math.Pow(1+daily, float64(i))
		}
		return out
	}

	provider := marketdata.NewMemoryProvider()
	provider.AddPrices(testingpkg.NewPriceSeries("AAPL", start, closes(0.002)...)...)
	provider.AddPrices(testingpkg.NewPriceSeries("AGG", start, closes(0.0005)...)...)
	provider.AddPrices(testingpkg.NewPriceSeries("SPY", start, closes(0.001)...)...)
	return backtest.NewService(provider, backtest.Config{}, zerolog.Nop())
}

func TestHandleRunBacktest(t *testing.T) {
	w := post(newRouter(newService()), `{
		"weights": {"aapl": 60, "AGG": 40},
		"start_date": "2024-01-01",
		"end_date": "2024-03-29",
		"initial_capital": 50000,
		"rebalance_frequency": "monthly"
	}`, "")

	require.Equal(t, http.StatusOK, w.Code)

	var res backtest.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.NotEmpty(t, res.RunID)
	require.NotEmpty(t, res.EquityCurve)
	assert.Greater(t, res.Summary.FinalValue, 50000.0)
	assert.Len(t, res.PositionAttribution, 2)
	assert.NotEmpty(t, res.TradeLog)
}

func TestHandleRunBacktest_Msgpack(t *testing.T) {
	w := post(newRouter(newService()), `{
		"holdings": [{"symbol": "AAPL", "quantity": 1}],
		"start_date": "2024-01-01",
		"end_date": "2024-03-29"
	}`, "application/msgpack")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/msgpack", w.Header().Get("Content-Type"))

	var res map[string]interface{}
	require.NoError(t, msgpack.Unmarshal(w.Body.Bytes(), &res))
	assert.Contains(t, res, "equityCurve")
	assert.Contains(t, res, "weightHistory")
}

type nopRunner struct{ calls int }

func (n *nopRunner) RunBacktest(context.Context, backtest.Request) *backtest.Result {
	n.calls++
	return backtest.EmptyResult()
}

func TestHandleRunBacktest_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed", `{`},
		{"no targets", `{"start_date": "2024-01-01", "end_date": "2024-06-01"}`},
		{"missing dates", `{"weights": {"A": 1}}`},
		{"inverted", `{"weights": {"A": 1}, "start_date": "2024-06-01", "end_date": "2024-01-01"}`},
		{"too short", `{"weights": {"A": 1}, "start_date": "2024-01-01", "end_date": "2024-01-20"}`},
		{"too long", `{"weights": {"A": 1}, "start_date": "2000-01-01", "end_date": "2024-01-02"}`},
		{"bad frequency", `{"weights": {"A": 1}, "start_date": "2024-01-01", "end_date": "2024-06-01", "rebalance_frequency": "weekly"}`},
		{"negative capital", `{"weights": {"A": 1}, "start_date": "2024-01-01", "end_date": "2024-06-01", "initial_capital": -5}`},
		{"negative weight", `{"weights": {"A": -1}, "start_date": "2024-01-01", "end_date": "2024-06-01"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &nopRunner{}
			w := post(newRouter(runner), tt.body, "")

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Zero(t, runner.calls)
		})
	}
}

func TestRequest_Validate(t *testing.T) {
	req, err := Request{
		Holdings:           []domain.HoldingInput{{Symbol: "msft", Quantity: 2}},
		Weights:            map[string]float64{"aapl": 1, "AAPL ": 1},
		StartDate:          "2004-01-02",
		EndDate:            "2024-01-01",
		Benchmark:          " qqq",
		RebalanceFrequency: "quarterly",
	}.Validate()
	require.NoError(t, err)

	assert.Equal(t, map[string]float64{"AAPL": 2}, req.Weights)
	assert.Equal(t, "MSFT", req.Holdings[0].Symbol)
	assert.Equal(t, "QQQ", req.Benchmark)
	assert.Equal(t, backtest.FrequencyQuarterly, req.Frequency)
}
