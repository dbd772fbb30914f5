// Package series aligns per-instrument price histories onto a common trading
// calendar and derives simple daily returns from them.
package series

import (
	"errors"
	"time"

	"github.com/axiome/analytics/pkg/formulas"
)

// MinRows is the fewest aligned observations any downstream statistic accepts.
const MinRows = 5

// ErrInsufficientData is returned when fewer than MinRows aligned rows remain.
var ErrInsufficientData = errors.New("insufficient data")

// PriceMatrix is a date-indexed, symbol-columned table of prices with no
// missing cells. Dates are strictly increasing UTC days.
type PriceMatrix struct {
	Dates   []time.Time
	Symbols []string
	columns map[string][]float64
}

// NewPriceMatrix builds a matrix from already aligned columns. Every column
// must have len(dates) entries.
func NewPriceMatrix(dates []time.Time, symbols []string, columns map[string][]float64) *PriceMatrix {
	return &PriceMatrix{Dates: dates, Symbols: symbols, columns: columns}
}

// Len returns the number of rows.
func (m *PriceMatrix) Len() int {
	return len(m.Dates)
}

// Has reports whether sym is a column of the matrix.
func (m *PriceMatrix) Has(sym string) bool {
	_, ok := m.columns[sym]
	return ok
}

// Column returns the price column for sym, or nil. The slice is shared; do not modify it.
func (m *PriceMatrix) Column(sym string) []float64 {
	return m.columns[sym]
}

// Last returns the latest price of sym, or 0 when absent.
func (m *PriceMatrix) Last(sym string) float64 {
	col := m.columns[sym]
	if len(col) == 0 {
		return 0
	}
	return col[len(col)-1]
}

// Returns computes simple daily returns for every column. The first row has
// no prior value and is dropped.
func (m *PriceMatrix) Returns() *ReturnMatrix {
	rm := &ReturnMatrix{Symbols: m.Symbols, columns: make(map[string][]float64, len(m.Symbols))}
	if m.Len() < 2 {
		return rm
	}
	rm.Dates = m.Dates[1:]
	for _, sym := range m.Symbols {
		rm.columns[sym] = formulas.CalculateReturns(m.columns[sym])
	}
	return rm
}

// ReturnMatrix holds simple daily returns aligned on Dates.
type ReturnMatrix struct {
	Dates   []time.Time
	Symbols []string
	columns map[string][]float64
}

// NewReturnMatrix builds a return matrix from aligned columns.
func NewReturnMatrix(dates []time.Time, symbols []string, columns map[string][]float64) *ReturnMatrix {
	return &ReturnMatrix{Dates: dates, Symbols: symbols, columns: columns}
}

// Len returns the number of rows.
func (r *ReturnMatrix) Len() int {
	return len(r.Dates)
}

// Has reports whether sym is a column.
func (r *ReturnMatrix) Has(sym string) bool {
	_, ok := r.columns[sym]
	return ok
}

// Column returns the return column for sym, or nil. The slice is shared; do not modify it.
func (r *ReturnMatrix) Column(sym string) []float64 {
	return r.columns[sym]
}

// ColumnOrZero returns the column for sym, or a zero series of matching length.
func (r *ReturnMatrix) ColumnOrZero(sym string) []float64 {
	if col, ok := r.columns[sym]; ok {
		return col
	}
	return make([]float64, r.Len())
}
