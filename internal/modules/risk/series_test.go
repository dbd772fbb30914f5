package risk

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonthlyAndYearlyReturns(t *testing.T) {
	dates := []time.Time{
		time.Date(2023, 12, 28, 0, 0, 0, 0, time.UTC),
		time.Date(2023, 12, 29, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
	}
	returns := []float64{0.01, 0.02, -0.01, 0.05}

	monthly := MonthlyReturns(dates, returns)
	require.Len(t, monthly, 3)
	assert.Equal(t, 2023, monthly[0].Year)
	assert.Equal(t, 12, monthly[0].Month)
	assert.InDelta(t, 1.01*1.02-1, monthly[0].Return, 1e-12)
	assert.InDelta(t, -0.01, monthly[1].Return, 1e-12)
	assert.InDelta(t, 0.05, monthly[2].Return, 1e-12)

	yearly := YearlyReturns(dates, returns)
	require.Len(t, yearly, 2)
	assert.Equal(t, 0, yearly[1].Month)
	assert.InDelta(t, 0.99*1.05-1, yearly[1].Return, 1e-12)

	assert.Empty(t, MonthlyReturns(nil, nil))
}

func TestDrawdownCurve(t *testing.T) {
	dates := tradingDays(jan2024, 3)
	curve := DrawdownCurve(dates, []float64{0.05, -0.10, 0.05})
	require.Len(t, curve, 3)

	assert.Equal(t, "2024-01-02", curve[0].Date)
	assert.Equal(t, 0.0, curve[0].Drawdown)
	assert.Equal(t, 0.0, curve[0].CumReturn)
	assert.Equal(t, -10.0, curve[1].Drawdown)
	assert.Equal(t, -10.0, curve[1].CumReturn)
	assert.Equal(t, -5.5, curve[2].Drawdown)

	water := UnderwaterCurve(dates, []float64{0.05, -0.10, 0.05})
	assert.Equal(t, -10.0, water[1].Drawdown)
}

func TestReturnDistribution(t *testing.T) {
	bins := ReturnDistribution([]float64{0.001, -0.039, 0.05, 0.04, -0.04, math.NaN()})
	require.Len(t, bins, 40)

	assert.Equal(t, "-3.9%", bins[0].Bin)
	assert.Equal(t, "-0.1%", bins[19].Bin)
	assert.Equal(t, "0.1%", bins[20].Bin)
	assert.Equal(t, "3.9%", bins[39].Bin)

	assert.Equal(t, 2, bins[0].Frequency)
	assert.Equal(t, 1, bins[20].Frequency)
	assert.Equal(t, 1, bins[39].Frequency)

	total := 0
	for _, b := range bins {
		total += b.Frequency
	}
	assert.Equal(t, 4, total)
}

func TestRollingVolatility(t *testing.T) {
	n := 70
	dates := tradingDays(jan2024, n)
	pf := make([]float64, n)
	for i := range pf {
		pf[i] = 0.01 * float64(i%3-1)
	}

	points := RollingVolatility(dates, pf, constant(0, n))
	require.Len(t, points, 3)
	assert.Equal(t, dates[59].Format("2006-01-02"), points[0].Date)
	assert.Equal(t, dates[64].Format("2006-01-02"), points[1].Date)
	assert.Greater(t, points[0].Portfolio, 0.0)
	assert.Equal(t, 0.0, points[0].Benchmark)
}

func TestRollingCorrelation(t *testing.T) {
	n := 65
	dates := tradingDays(jan2024, n)
	bench := make([]float64, n)
	pf := make([]float64, n)
	for i := range bench {
		bench[i] = 0.01 * float64(i%4-2)
		pf[i] = 0.5 * bench[i]
	}

	points := RollingCorrelation(dates, pf, bench)
	require.Len(t, points, 2)
	assert.Equal(t, 1.0, points[0].Correlation)

	assert.Empty(t, RollingCorrelation(dates, pf, constant(0, n)))
}
