package attribution

import (
	"testing"
	"time"

	"github.com/axiome/analytics/internal/modules/series"
	"github.com/axiome/analytics/internal/modules/weights"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(n int) time.Time {
	return time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func growth(start, r float64, n int) []float64 {
	out := make([]float64, n)
	v := start
	for i := range out {
		out[i] = v
		v *= 1 + r
	}
	return out
}

func dates(n int) []time.Time {
	out := make([]time.Time, n)
	for i := range out {
		out[i] = day(i)
	}
	return out
}

func TestLagged(t *testing.T) {
	w := &weights.Series{Rows: [][]float64{{1, 0}, {0.5, 0.5}, {0.4, 0.6}}}
	got := Lagged(w)
	assert.Equal(t, [][]float64{{1, 0}, {1, 0}, {0.5, 0.5}}, got)
}

func TestCompute_SingleHoldingMatchesAssetReturns(t *testing.T) {
	m := series.NewPriceMatrix(dates(7), []string{"A", "SPY"}, map[string][]float64{
		"A":   growth(100, 0.01, 7),
		"SPY": growth(400, 0.002, 7),
	})
	w := weights.DateAware(m, []weights.Position{{Symbol: "A", Quantity: 3, EntryDate: day(0)}})

	res, err := Compute(m, w, "SPY")
	require.NoError(t, err)
	require.Len(t, res.Portfolio, 6)

	for k := range res.Portfolio {
		assert.InDelta(t, 0.01, res.Portfolio[k], 1e-12)
		assert.InDelta(t, 0.002, res.Benchmark[k], 1e-12)
	}
	assert.Equal(t, day(1), res.Dates[0])
}

func TestCompute_ExcludesDaysBeforeAnyEntry(t *testing.T) {
	m := series.NewPriceMatrix(dates(10), []string{"A"}, map[string][]float64{
		"A": growth(100, 0.01, 10),
	})
	w := weights.DateAware(m, []weights.Position{{Symbol: "A", Quantity: 1, EntryDate: day(3)}})

	res, err := Compute(m, w, "SPY")
	require.NoError(t, err)

	// returns for days 3..9 are kept; the entry day uses the previous (empty) weights
	require.Len(t, res.Dates, 7)
	assert.Equal(t, day(3), res.Dates[0])
	assert.Equal(t, 0.0, res.Portfolio[0])
	assert.InDelta(t, 0.01, res.Portfolio[1], 1e-12)
	assert.Equal(t, []float64{0, 0, 0, 0, 0, 0, 0}, res.Benchmark)
}

func TestCompute_LateEntryOnlyAffectsItsOwnWeight(t *testing.T) {
	m := series.NewPriceMatrix(dates(8), []string{"A", "B"}, map[string][]float64{
		"A": growth(100, 0.01, 8),
		"B": growth(100, 0.05, 8),
	})
	w := weights.DateAware(m, []weights.Position{
		{Symbol: "A", Quantity: 1, EntryDate: day(0)},
		{Symbol: "B", Quantity: 1, EntryDate: day(4)},
	})

	res, err := Compute(m, w, "SPY")
	require.NoError(t, err)
	require.Len(t, res.Portfolio, 7)

	// before B is held the portfolio earns exactly A's return
	for k := 0; k < 4; k++ {
		assert.InDelta(t, 0.01, res.Portfolio[k], 1e-12, "day %d", k+1)
	}
	// once B is held the return is a blend of both
	assert.Greater(t, res.Portfolio[5], 0.01)
	assert.Less(t, res.Portfolio[5], 0.05)
}

func TestCompute_InsufficientActiveDays(t *testing.T) {
	m := series.NewPriceMatrix(dates(6), []string{"A"}, map[string][]float64{
		"A": growth(100, 0.01, 6),
	})
	w := weights.DateAware(m, []weights.Position{{Symbol: "A", Quantity: 1, EntryDate: day(3)}})

	_, err := Compute(m, w, "SPY")
	assert.ErrorIs(t, err, series.ErrInsufficientData)
}
