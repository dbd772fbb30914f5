package formulas

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// TradingDaysPerYear is the annualisation factor used by every metric.
const TradingDaysPerYear = 252

// Mean calculates the arithmetic mean of a slice of float64 values
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.Mean(data, nil)
}

// StdDev calculates the sample standard deviation (n-1 denominator).
// A single observation yields NaN; callers sanitise at the output boundary.
func StdDev(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.StdDev(data, nil)
}

// Variance calculates the sample variance of a slice of float64 values
func Variance(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.Variance(data, nil)
}

// Covariance calculates the sample covariance between two datasets
func Covariance(x, y []float64) float64 {
	if len(x) == 0 || len(y) == 0 || len(x) != len(y) {
		return 0
	}
	return stat.Covariance(x, y, nil)
}

// Correlation calculates the Pearson correlation coefficient between two datasets.
// NaN is returned when either side has zero variance.
func Correlation(x, y []float64) float64 {
	if len(x) == 0 || len(y) == 0 || len(x) != len(y) {
		return 0
	}
	return stat.Correlation(x, y, nil)
}

// Skewness returns the bias-corrected sample skewness.
func Skewness(data []float64) float64 {
	if len(data) < 3 {
		return math.NaN()
	}
	return stat.Skew(data, nil)
}

// Kurtosis returns the bias-corrected sample excess kurtosis.
func Kurtosis(data []float64) float64 {
	if len(data) < 4 {
		return math.NaN()
	}
	return stat.ExKurtosis(data, nil)
}

// AnnualizedVolatility calculates annualized volatility from daily returns
// Formula: Std Dev of Daily Returns × sqrt(252 trading days)
func AnnualizedVolatility(dailyReturns []float64) float64 {
	if len(dailyReturns) == 0 {
		return 0
	}
	return StdDev(dailyReturns) * math.Sqrt(TradingDaysPerYear)
}

// CalculateReturns converts prices to simple returns.
// Returns[i] = (Price[i+1] - Price[i]) / Price[i]; a zero base price yields 0.
func CalculateReturns(prices []float64) []float64 {
	if len(prices) < 2 {
		return []float64{}
	}

	returns := make([]float64, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		if prices[i-1] != 0 {
			returns[i-1] = (prices[i] - prices[i-1]) / prices[i-1]
		}
	}

	return returns
}

// CompoundReturn returns Π(1+r) - 1.
func CompoundReturn(returns []float64) float64 {
	growth := 1.0
	for _, r := range returns {
		growth *= 1 + r
	}
	return growth - 1
}

// CumulativeGrowth returns the running product Π(1+r) for every prefix of returns.
func CumulativeGrowth(returns []float64) []float64 {
	out := make([]float64, len(returns))
	growth := 1.0
	for i, r := range returns {
		growth *= 1 + r
		out[i] = growth
	}
	return out
}

// CAGR annualises a compounded return observed over n trading days:
// (1+total)^(252/n) - 1. The observation span is floored at 0.01 years and a
// total loss of 100% or more yields 0.
func CAGR(totalReturn float64, n int) float64 {
	if totalReturn <= -1 || n <= 0 {
		return 0
	}
	years := math.Max(float64(n)/TradingDaysPerYear, 0.01)
	return math.Pow(1+totalReturn, 1/years) - 1
}

// DownsideDeviation is the annualised sample std of the negative returns.
// ok is false when there are no negative returns.
func DownsideDeviation(returns []float64) (dev float64, ok bool) {
	negatives := make([]float64, 0, len(returns))
	for _, r := range returns {
		if r < 0 {
			negatives = append(negatives, r)
		}
	}
	if len(negatives) == 0 {
		return 0, false
	}
	return StdDev(negatives) * math.Sqrt(TradingDaysPerYear), true
}

// Subtract returns a - b element-wise over the shorter length.
func Subtract(a, b []float64) []float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = a[i] - b[i]
	}
	return out
}

// MinMax returns the smallest and largest values; zeros for empty input.
func MinMax(data []float64) (float64, float64) {
	if len(data) == 0 {
		return 0, 0
	}
	lo, hi := data[0], data[0]
	for _, v := range data[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

// FractionPositive returns the share of strictly positive values.
func FractionPositive(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	count := 0
	for _, v := range data {
		if v > 0 {
			count++
		}
	}
	return float64(count) / float64(len(data))
}
