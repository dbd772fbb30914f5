package backtest

import (
	"context"
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/axiome/analytics/internal/domain"
	"github.com/axiome/analytics/internal/modules/marketdata"
	testingpkg "github.com/axiome/analytics/internal/testing"
	"github.com/axiome/analytics/pkg/formulas"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var serviceStart = testingpkg.Day(2024, time.January, 1)

func geometric(symbol string, n int, daily float64) []domain.PricePoint {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = 100 * math.Pow(1+daily, float64(i))
	}
	return testingpkg.NewPriceSeries(symbol, serviceStart, closes...)
}

func newTestService(points ...[]domain.PricePoint) *Service {
	provider := marketdata.NewMemoryProvider()
	for _, p := range points {
		provider.AddPrices(p...)
	}
	return NewService(provider, Config{}, zerolog.Nop())
}

func TestRunBacktest_NoTargets(t *testing.T) {
	svc := newTestService(geometric("SPY", 30, 0))

	res := svc.RunBacktest(context.Background(), Request{})

	assert.NotEmpty(t, res.RunID)
	assert.NotNil(t, res.EquityCurve)
	assert.Empty(t, res.EquityCurve)
	assert.Equal(t, Summary{}, res.Summary)
}

func TestRunBacktest_InsufficientHistory(t *testing.T) {
	svc := newTestService(geometric("AAPL", 4, 0.01), geometric("SPY", 4, 0))

	res := svc.RunBacktest(context.Background(), Request{Weights: map[string]float64{"AAPL": 1}})

	assert.Empty(t, res.EquityCurve)
	assert.Equal(t, 0, res.Summary.TradingDays)
}

func TestRunBacktest_SingleAssetCompounding(t *testing.T) {
	svc := newTestService(geometric("AAPL", 30, 0.01), geometric("SPY", 30, 0))

	res := svc.RunBacktest(context.Background(), Request{
		Weights:        map[string]float64{"AAPL": 2, "MISSING": 3},
		InitialCapital: 10000,
	})

	growth := math.Pow(1.01, 29)
	assert.Equal(t, 29, res.Summary.TradingDays)
	assert.Equal(t, 10000.0, res.Summary.InitialCapital)
	assert.Equal(t, formulas.Round(10000*growth, 2), res.Summary.FinalValue)
	assert.Equal(t, formulas.Round((growth-1)*100, 2), res.Summary.TotalReturn)
	assert.Equal(t, 0.0, res.Summary.BenchmarkTotalReturn)
	assert.Equal(t, 0.0, res.Summary.MaxDrawdown)
	assert.Equal(t, 0, res.Summary.RebalanceEvents)

	require.Len(t, res.EquityCurve, 29)
	assert.Equal(t, "2024-01-02", res.EquityCurve[0].Date)
	assert.Equal(t, 10100.0, res.EquityCurve[0].Portfolio)
	assert.Equal(t, 10000.0, res.EquityCurve[0].Benchmark)

	require.Len(t, res.PositionAttribution, 1)
	assert.Equal(t, "AAPL", res.PositionAttribution[0].Symbol)
	assert.Equal(t, 100.0, res.PositionAttribution[0].Weight)
	assert.Equal(t, 29.0, res.PositionAttribution[0].Contribution)
	assert.Equal(t, res.Summary.TotalReturn, res.PositionAttribution[0].TotalReturn)

	// flat benchmark: beta falls back to 1
	assert.Equal(t, 1.0, res.RiskMetrics.Beta)
	assert.Equal(t, res.DrawdownData, res.UnderwaterData)
	require.Len(t, res.MonthlyHeatmap, 2)
	assert.Equal(t, HeatmapCell{Year: 2024, Month: 1, Value: res.MonthlyHeatmap[0].Value}, res.MonthlyHeatmap[0])
}

func TestRunBacktest_ZeroPriceIsForwardFilled(t *testing.T) {
	svc := newTestService(
		testingpkg.NewPriceSeries("A", serviceStart, 100, 0, 50, 60, 70, 80, 90),
		geometric("SPY", 7, 0),
	)

	res := svc.RunBacktest(context.Background(), Request{
		Weights:        map[string]float64{"A": 1},
		InitialCapital: 10000,
	})

	require.Len(t, res.EquityCurve, 6)
	for _, p := range res.EquityCurve {
		assert.Positive(t, p.Portfolio, p.Date)
	}
	assert.Equal(t, 9000.0, res.Summary.FinalValue)
	assert.Equal(t, -50.0, res.RiskMetrics.WorstDay)
}

func TestRunBacktest_HoldingsDerivedTargets(t *testing.T) {
	svc := newTestService(geometric("AAPL", 30, 0.01), geometric("MSFT", 30, -0.005), geometric("SPY", 30, 0.002))

	price := 50.0
	res := svc.RunBacktest(context.Background(), Request{
		Holdings: []domain.Holding{
			{Symbol: "AAPL", Quantity: 1, CurrentPrice: &price},
			{Symbol: "AAPL", Quantity: 1, CurrentPrice: &price},
			{Symbol: "MSFT", Quantity: 1, EntryPrice: 300},
		},
	})

	require.Len(t, res.PositionAttribution, 2)
	weightsBySymbol := map[string]float64{}
	for _, p := range res.PositionAttribution {
		weightsBySymbol[p.Symbol] = p.Weight
	}
	assert.Equal(t, 25.0, weightsBySymbol["AAPL"])
	assert.Equal(t, 75.0, weightsBySymbol["MSFT"])
	// sorted by contribution
	assert.Equal(t, "AAPL", res.PositionAttribution[0].Symbol)
	assert.Equal(t, DefaultInitialCapital, res.Summary.InitialCapital)
	assert.NotZero(t, res.Summary.BenchmarkTotalReturn)
}

func TestRunBacktest_MonthlyRebalanceTradeLog(t *testing.T) {
	start := testingpkg.Day(2023, time.January, 2)
	svc := newTestService(
		testingpkg.NewRandomWalk("AAPL", start, 300, 11, 0.0006, 0.015),
		testingpkg.NewRandomWalk("AGG", start, 300, 12, 0.0001, 0.004),
		testingpkg.NewRandomWalk("SPY", start, 300, 13, 0.0004, 0.01),
	)

	res := svc.RunBacktest(context.Background(), Request{
		Weights:   map[string]float64{"AAPL": 0.6, "AGG": 0.4},
		Frequency: FrequencyMonthly,
	})

	require.NotEmpty(t, res.TradeLog)
	assert.Equal(t, len(res.TradeLog), res.Summary.RebalanceEvents)
	for _, entry := range res.TradeLog {
		sum := 0.0
		for _, tr := range entry.Trades {
			sum += tr.Delta
		}
		assert.InDelta(t, 0, sum, 0.011)
	}

	assert.NotEmpty(t, res.RollingVolatility)
	assert.NotEmpty(t, res.RollingCorrelation)
	assert.NotEmpty(t, res.WeightHistory)
	assert.Len(t, res.YearlyReturns, 2)
	assert.Len(t, res.CumulativeReturn, len(res.EquityCurve))
}

func TestRunBacktest_JSONShape(t *testing.T) {
	svc := newTestService(geometric("AAPL", 30, 0.01), geometric("SPY", 30, 0))
	res := svc.RunBacktest(context.Background(), Request{Weights: map[string]float64{"AAPL": 1}})

	data, err := json.Marshal(res)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	for _, key := range []string{"equityCurve", "cumulativeReturn", "drawdownData", "monthlyHeatmap", "yearlyReturns",
		"riskMetrics", "summary", "positionAttribution", "tradeLog", "weightHistory", "rollingVolatility",
		"rollingCorrelation", "underwaterData"} {
		assert.Contains(t, decoded, key)
	}

	history := decoded["weightHistory"].([]interface{})
	require.NotEmpty(t, history)
	first := history[0].(map[string]interface{})
	assert.Equal(t, "2024-01-02", first["date"])
	assert.Equal(t, 100.0, first["AAPL"])
}

func TestWeightSample_RoundTrip(t *testing.T) {
	in := WeightSample{Date: "2024-03-28", Weights: map[string]float64{"SPY": 60, "AGG": 40}}
	data, err := json.Marshal(in)
	require.NoError(t, err)

	var out WeightSample
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, in, out)
}
