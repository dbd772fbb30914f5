package formulas

import (
	"math"

	"github.com/markcheno/go-talib"
	"gonum.org/v1/gonum/stat"
)

// RollingStdDev returns the trailing sample standard deviation over window
// observations. Positions before the first full window are NaN.
func RollingStdDev(data []float64, window int) []float64 {
	out := nanSlice(len(data))
	if window < 2 || len(data) < window {
		return out
	}

	// talib reports population variance; rescale to the sample estimator.
	variance := talib.Var(data, window)
	scale := float64(window) / float64(window-1)
	for i := window - 1; i < len(data); i++ {
		v := variance[i] * scale
		if v < 0 {
			v = 0
		}
		out[i] = math.Sqrt(v)
	}

	return out
}

// RollingCorrelation returns the trailing Pearson correlation of x and y over
// window observations. Windows where either side is flat are NaN.
func RollingCorrelation(x, y []float64, window int) []float64 {
	n := len(x)
	if len(y) < n {
		n = len(y)
	}
	out := nanSlice(n)
	if window < 2 || n < window {
		return out
	}

	for i := window - 1; i < n; i++ {
		xs := x[i-window+1 : i+1]
		ys := y[i-window+1 : i+1]
		out[i] = stat.Correlation(xs, ys, nil)
	}

	return out
}

func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
