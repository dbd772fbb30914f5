package series

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/axiome/analytics/internal/domain"
)

// Align builds a PriceMatrix from raw per-symbol histories.
//
// Points are deduplicated per calendar day keeping the first occurrence, valued
// at adjusted close when available, outer-joined on date and forward filled.
// Leading rows where any column is still empty are dropped. Symbols listed in
// order but absent from history (or with no points) are left out of the matrix.
func Align(order []string, history map[string][]domain.PricePoint) (*PriceMatrix, error) {
	perSymbol := make(map[string]map[time.Time]float64, len(order))
	symbols := make([]string, 0, len(order))
	calendar := make(map[time.Time]struct{})

	for _, sym := range order {
		if _, dup := perSymbol[sym]; dup {
			continue
		}
		points := history[sym]
		if len(points) == 0 {
			continue
		}

		values := make(map[time.Time]float64, len(points))
		for _, p := range points {
			day := domain.Day(p.Date)
			if _, seen := values[day]; seen {
				continue
			}
			v := p.Value()
			if !p.Valid() {
				v = math.NaN()
			}
			values[day] = v
			calendar[day] = struct{}{}
		}

		perSymbol[sym] = values
		symbols = append(symbols, sym)
	}

	dates := make([]time.Time, 0, len(calendar))
	for d := range calendar {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	// Forward fill and record the first fully populated row
	filled := make(map[string][]float64, len(symbols))
	kept := symbols[:0]
	firstComplete := 0
	for _, sym := range symbols {
		col := make([]float64, len(dates))
		last := math.NaN()
		firstValid := -1
		for i, d := range dates {
			if v, ok := perSymbol[sym][d]; ok && !math.IsNaN(v) {
				last = v
			}
			col[i] = last
			if firstValid < 0 && !math.IsNaN(last) {
				firstValid = i
			}
		}
		if firstValid < 0 {
			// only unusable values
			continue
		}
		if firstValid > firstComplete {
			firstComplete = firstValid
		}
		filled[sym] = col
		kept = append(kept, sym)
	}
	symbols = kept

	rows := len(dates) - firstComplete
	if len(symbols) == 0 || rows < MinRows {
		return nil, fmt.Errorf("aligned %d rows across %d symbols: %w", max(rows, 0), len(symbols), ErrInsufficientData)
	}

	for sym, col := range filled {
		filled[sym] = col[firstComplete:]
	}

	return NewPriceMatrix(dates[firstComplete:], symbols, filled), nil
}
