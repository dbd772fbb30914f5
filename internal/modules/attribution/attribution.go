// Package attribution combines per-instrument daily returns with lagged,
// position-aware weights into one portfolio return series aligned with the
// benchmark.
package attribution

import (
	"fmt"
	"time"

	"github.com/axiome/analytics/internal/modules/series"
	"github.com/axiome/analytics/internal/modules/weights"
)

// Result holds the aligned portfolio and benchmark daily returns
type Result struct {
	Dates     []time.Time
	Portfolio []float64
	Benchmark []float64

	// Returns is the unfiltered per-symbol return matrix the series were derived from.
	Returns *series.ReturnMatrix
}

// Lagged shifts weight rows forward by one day: row i carries the weights
// observed at the close of row i-1. Row 0 is back-filled with its own weights,
// a bootstrap convention kept for compatibility with existing reports.
func Lagged(w *weights.Series) [][]float64 {
	out := make([][]float64, len(w.Rows))
	for i := range w.Rows {
		if i == 0 {
			out[i] = w.Rows[0]
			continue
		}
		out[i] = w.Rows[i-1]
	}
	return out
}

// Compute derives the portfolio return for every return date as
// Σ r[sym] × laggedWeight[sym] × held[sym]. Dates before any position is held
// are removed rather than counted as flat days. The benchmark column is read
// from the same matrix, or taken as flat when it is absent.
func Compute(m *series.PriceMatrix, w *weights.Series, benchmark string) (*Result, error) {
	returns := m.Returns()
	lagged := Lagged(w)

	// returns row k corresponds to price row k+1
	cols := make([][]float64, len(w.Symbols))
	for j, sym := range w.Symbols {
		cols[j] = returns.Column(sym)
	}
	bench := returns.ColumnOrZero(benchmark)

	res := &Result{Returns: returns}
	for k, d := range returns.Dates {
		i := k + 1
		if !w.Active[i] {
			continue
		}

		r := 0.0
		for j := range w.Symbols {
			if !w.Held(i, j) {
				continue
			}
			r += cols[j][k] * lagged[i][j]
		}

		res.Dates = append(res.Dates, d)
		res.Portfolio = append(res.Portfolio, r)
		res.Benchmark = append(res.Benchmark, bench[k])
	}

	if len(res.Dates) < series.MinRows {
		return res, fmt.Errorf("%d active return days: %w", len(res.Dates), series.ErrInsufficientData)
	}

	return res, nil
}
