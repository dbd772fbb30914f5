// Package risk computes the portfolio risk and performance metric record and
// the derived chart series (drawdown, monthly, distribution, rolling windows).
package risk

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/axiome/analytics/pkg/formulas"
)

// ErrNoReturns is returned when there is nothing to measure.
var ErrNoReturns = errors.New("no returns")

// Metrics is the risk/performance record. Percent-valued fields are already
// multiplied by 100; ratios are unitless.
type Metrics struct {
	AnnualizedReturn     float64 `json:"annualizedReturn"`
	AnnualizedVolatility float64 `json:"annualizedVolatility"`
	SharpeRatio          float64 `json:"sharpeRatio"`
	SortinoRatio         float64 `json:"sortinoRatio"`
	CalmarRatio          float64 `json:"calmarRatio"`
	InformationRatio     float64 `json:"informationRatio"`
	MaxDrawdown          float64 `json:"maxDrawdown"`
	MaxDrawdownDuration  int     `json:"maxDrawdownDuration"`
	Beta                 float64 `json:"beta"`
	Alpha                float64 `json:"alpha"`
	TrackingError        float64 `json:"trackingError"`
	RSquared             float64 `json:"rSquared"`
	VaR95                float64 `json:"var95"`
	VaR99                float64 `json:"var99"`
	CVaR95               float64 `json:"cvar95"`
	CVaR99               float64 `json:"cvar99"`
	DownsideDeviation    float64 `json:"downsideDeviation"`
	Skewness             float64 `json:"skewness"`
	Kurtosis             float64 `json:"kurtosis"`
	BestDay              float64 `json:"bestDay"`
	WorstDay             float64 `json:"worstDay"`
	BestMonth            float64 `json:"bestMonth"`
	WorstMonth           float64 `json:"worstMonth"`
	PositiveMonths       int     `json:"positiveMonths"`
	WinRate              float64 `json:"winRate"`
}

// Calculate derives the metric record from aligned daily portfolio and
// benchmark returns. dates drive the monthly aggregates. Intermediate values
// are not rounded and may be non-finite; use SafeEvaluate for a sanitised record.
func Calculate(pf, bench []float64, dates []time.Time) (Metrics, error) {
	n := len(pf)
	if n == 0 {
		return Metrics{}, ErrNoReturns
	}
	if len(bench) != n || len(dates) != n {
		return Metrics{}, fmt.Errorf("misaligned inputs: %d portfolio, %d benchmark, %d dates", n, len(bench), len(dates))
	}

	sqrtYear := math.Sqrt(formulas.TradingDaysPerYear)

	// Ratios use the arithmetic annual mean; the reported annual return is CAGR.
	annMean := formulas.Mean(pf) * formulas.TradingDaysPerYear
	annVol := formulas.StdDev(pf) * sqrtYear
	cagr := formulas.CAGR(formulas.CompoundReturn(pf), n)

	var m Metrics
	m.AnnualizedReturn = cagr * 100
	m.AnnualizedVolatility = annVol * 100
	m.SharpeRatio = ratio(annMean, annVol)

	downside, ok := formulas.DownsideDeviation(pf)
	if !ok {
		downside = annVol
	}
	m.DownsideDeviation = downside * 100
	m.SortinoRatio = ratio(annMean, downside)

	drawdowns := formulas.DrawdownSeries(formulas.CumulativeGrowth(pf))
	worstDD, _ := formulas.MinMax(drawdowns)
	m.MaxDrawdown = worstDD * 100
	m.MaxDrawdownDuration = formulas.LongestDrawdown(drawdowns)
	if m.MaxDrawdown != 0 {
		m.CalmarRatio = cagr * 100 / math.Abs(m.MaxDrawdown)
	}

	benchVar := formulas.Variance(bench)
	m.Beta = 1.0
	if benchVar > 0 {
		m.Beta = formulas.Covariance(pf, bench) / benchVar
		if corr := formulas.Correlation(pf, bench); !math.IsNaN(corr) {
			m.RSquared = corr * corr
		}
	}
	m.Alpha = (annMean - m.Beta*formulas.Mean(bench)*formulas.TradingDaysPerYear) * 100

	active := formulas.Subtract(pf, bench)
	te := formulas.StdDev(active) * sqrtYear
	m.TrackingError = te * 100
	m.InformationRatio = ratio(formulas.Mean(active)*formulas.TradingDaysPerYear, te)

	m.VaR95 = formulas.HistoricalVaR(pf, 5) * 100
	m.VaR99 = formulas.HistoricalVaR(pf, 1) * 100
	m.CVaR95 = formulas.HistoricalCVaR(pf, 5) * 100
	m.CVaR99 = formulas.HistoricalCVaR(pf, 1) * 100

	m.Skewness = formulas.Skewness(pf)
	m.Kurtosis = formulas.Kurtosis(pf)

	worstDay, bestDay := formulas.MinMax(pf)
	m.BestDay = bestDay * 100
	m.WorstDay = worstDay * 100

	monthly := periodValues(MonthlyReturns(dates, pf))
	if len(monthly) > 0 {
		worstMonth, bestMonth := formulas.MinMax(monthly)
		m.BestMonth = bestMonth * 100
		m.WorstMonth = worstMonth * 100
		m.PositiveMonths = int(formulas.FractionPositive(monthly) * 100)
	}
	m.WinRate = formulas.FractionPositive(pf) * 100

	return m, nil
}

// ratio returns num/den when den is strictly positive, else 0.
func ratio(num, den float64) float64 {
	if den > 0 {
		return num / den
	}
	return 0
}

// Sanitized replaces every non-finite field with 0.
func (m Metrics) Sanitized() Metrics {
	m.apply(formulas.Finite, formulas.Finite)
	return m
}

// Rounded applies output rounding: two decimals, one for the win rate.
func (m Metrics) Rounded() Metrics {
	m.apply(func(v float64) float64 { return formulas.Round(v, 2) }, func(v float64) float64 { return formulas.Round(v, 1) })
	return m
}

func (m *Metrics) apply(f, winRate func(float64) float64) {
	for _, p := range []*float64{
		&m.AnnualizedReturn, &m.AnnualizedVolatility, &m.SharpeRatio, &m.SortinoRatio,
		&m.CalmarRatio, &m.InformationRatio, &m.MaxDrawdown, &m.Beta, &m.Alpha,
		&m.TrackingError, &m.RSquared, &m.VaR95, &m.VaR99, &m.CVaR95, &m.CVaR99,
		&m.DownsideDeviation, &m.Skewness, &m.Kurtosis, &m.BestDay, &m.WorstDay,
		&m.BestMonth, &m.WorstMonth,
	} {
		*p = f(*p)
	}
	m.WinRate = winRate(m.WinRate)
}
