package risk

import (
	"fmt"
	"math"
	"time"

	"github.com/axiome/analytics/internal/domain"
	"github.com/axiome/analytics/pkg/formulas"
)

// RollingWindow is the trailing window, in trading days, of the rolling series.
const RollingWindow = 60

// RollingSampleStep keeps every n-th rolling observation.
const RollingSampleStep = 5

// PeriodReturn is the compounded return over one calendar period present in the data
type PeriodReturn struct {
	Year   int
	Month  int // 0 for yearly periods
	Return float64
}

// MonthlyReturns compounds daily returns per calendar month, in date order.
func MonthlyReturns(dates []time.Time, returns []float64) []PeriodReturn {
	return compoundBy(dates, returns, func(t time.Time) (int, int) { return t.Year(), int(t.Month()) })
}

// YearlyReturns compounds daily returns per calendar year, in date order.
func YearlyReturns(dates []time.Time, returns []float64) []PeriodReturn {
	return compoundBy(dates, returns, func(t time.Time) (int, int) { return t.Year(), 0 })
}

func compoundBy(dates []time.Time, returns []float64, key func(time.Time) (int, int)) []PeriodReturn {
	var out []PeriodReturn
	growth := 1.0
	for i, d := range dates {
		y, m := key(d)
		if len(out) == 0 || out[len(out)-1].Year != y || out[len(out)-1].Month != m {
			if len(out) > 0 {
				out[len(out)-1].Return = growth - 1
			}
			out = append(out, PeriodReturn{Year: y, Month: m})
			growth = 1.0
		}
		growth *= 1 + returns[i]
	}
	if len(out) > 0 {
		out[len(out)-1].Return = growth - 1
	}
	return out
}

func periodValues(periods []PeriodReturn) []float64 {
	out := make([]float64, len(periods))
	for i, p := range periods {
		out[i] = p.Return
	}
	return out
}

// DrawdownPoint is one day of the drawdown chart, in percent
type DrawdownPoint struct {
	Date      string  `json:"date"`
	Drawdown  float64 `json:"drawdown"`
	CumReturn float64 `json:"cumReturn"`
}

// UnderwaterPoint is one day of the underwater chart, in percent
type UnderwaterPoint struct {
	Date     string  `json:"date"`
	Drawdown float64 `json:"drawdown"`
}

// DrawdownCurve returns the running drawdown and the cumulative return
// measured from the first observation.
func DrawdownCurve(dates []time.Time, returns []float64) []DrawdownPoint {
	cum := formulas.CumulativeGrowth(returns)
	dd := formulas.DrawdownSeries(cum)
	out := make([]DrawdownPoint, len(dates))
	for i, d := range dates {
		out[i] = DrawdownPoint{
			Date:      domain.FormatDay(d),
			Drawdown:  formulas.Round(dd[i]*100, 2),
			CumReturn: formulas.Round((cum[i]/cum[0]-1)*100, 2),
		}
	}
	return out
}

// UnderwaterCurve returns the running drawdown only.
func UnderwaterCurve(dates []time.Time, returns []float64) []UnderwaterPoint {
	dd := formulas.DrawdownSeries(formulas.CumulativeGrowth(returns))
	out := make([]UnderwaterPoint, len(dates))
	for i, d := range dates {
		out[i] = UnderwaterPoint{Date: domain.FormatDay(d), Drawdown: formulas.Round(dd[i]*100, 2)}
	}
	return out
}

// DistributionBin is one bucket of the daily return histogram
type DistributionBin struct {
	Bin       string `json:"bin"`
	Frequency int    `json:"frequency"`
}

const (
	distributionLow   = -4.0
	distributionWidth = 0.2
	distributionBins  = 40
)

// ReturnDistribution histograms daily returns (in percent) into 0.2% buckets
// spanning -4%..+4%. Buckets are half-open except the last, which includes
// its upper edge; values outside the range are not counted.
func ReturnDistribution(returns []float64) []DistributionBin {
	edges := make([]float64, distributionBins+1)
	for i := range edges {
		edges[i] = distributionLow + float64(i)*distributionWidth
	}

	counts := make([]int, distributionBins)
	for _, r := range returns {
		x := r * 100
		if math.IsNaN(x) || x < edges[0] || x > edges[distributionBins] {
			continue
		}
		idx := int((x - edges[0]) / distributionWidth)
		if idx >= distributionBins {
			idx = distributionBins - 1
		}
		if idx > 0 && x < edges[idx] {
			idx--
		}
		if idx < distributionBins-1 && x >= edges[idx+1] {
			idx++
		}
		counts[idx]++
	}

	out := make([]DistributionBin, distributionBins)
	for i := range out {
		center := (edges[i] + edges[i+1]) / 2
		out[i] = DistributionBin{Bin: fmt.Sprintf("%.1f%%", center), Frequency: counts[i]}
	}
	return out
}

// RollingVolatilityPoint is an annualised rolling volatility sample, in percent
type RollingVolatilityPoint struct {
	Date      string  `json:"date"`
	Portfolio float64 `json:"portfolio"`
	Benchmark float64 `json:"benchmark"`
}

// RollingVolatility samples the trailing-window annualised volatility of both
// series every RollingSampleStep days once the first window is full.
func RollingVolatility(dates []time.Time, pf, bench []float64) []RollingVolatilityPoint {
	scale := math.Sqrt(formulas.TradingDaysPerYear) * 100
	pfVol := formulas.RollingStdDev(pf, RollingWindow)
	benchVol := formulas.RollingStdDev(bench, RollingWindow)

	var out []RollingVolatilityPoint
	for _, i := range sampleDefined(pfVol) {
		out = append(out, RollingVolatilityPoint{
			Date:      domain.FormatDay(dates[i]),
			Portfolio: formulas.Round(pfVol[i]*scale, 2),
			Benchmark: formulas.Round(benchVol[i]*scale, 2),
		})
	}
	return out
}

// RollingCorrelationPoint is a trailing-window correlation sample
type RollingCorrelationPoint struct {
	Date        string  `json:"date"`
	Correlation float64 `json:"correlation"`
}

// RollingCorrelation samples the trailing-window correlation of pf against
// bench. Undefined windows (a flat side) are skipped before sampling.
func RollingCorrelation(dates []time.Time, pf, bench []float64) []RollingCorrelationPoint {
	corr := formulas.RollingCorrelation(pf, bench, RollingWindow)

	var out []RollingCorrelationPoint
	for _, i := range sampleDefined(corr) {
		out = append(out, RollingCorrelationPoint{
			Date:        domain.FormatDay(dates[i]),
			Correlation: formulas.Round(corr[i], 3),
		})
	}
	return out
}

// sampleDefined returns every RollingSampleStep-th index among the finite values.
func sampleDefined(values []float64) []int {
	var idx []int
	seen := 0
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		if seen%RollingSampleStep == 0 {
			idx = append(idx, i)
		}
		seen++
	}
	return idx
}
