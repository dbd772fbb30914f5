package weights

import (
	"time"

	"github.com/axiome/analytics/internal/domain"
	"github.com/axiome/analytics/internal/modules/series"
)

// Snapshot maps symbol to fraction of total value. It sums to 1 or is empty.
type Snapshot map[string]float64

// SnapshotWeights weights each position by quantity × latest price.
// Positions whose symbol is missing from the matrix are ignored. An empty
// snapshot is returned when the total value is not positive.
func SnapshotWeights(m *series.PriceMatrix, positions []Position) Snapshot {
	values := make(map[string]float64, len(positions))
	total := 0.0
	for _, p := range positions {
		if !m.Has(p.Symbol) {
			continue
		}
		v := p.Quantity * m.Last(p.Symbol)
		values[p.Symbol] = v
		total += v
	}

	if total <= 0 {
		return Snapshot{}
	}

	out := make(Snapshot, len(values))
	for sym, v := range values {
		out[sym] = v / total
	}
	return out
}

// Series is a date-indexed weight table. Rows with Active[i] set sum to 1;
// inactive rows are all zero and must not be treated as zero-return days.
type Series struct {
	Dates      []time.Time
	Symbols    []string
	EntryDates []time.Time
	Rows       [][]float64
	Active     []bool
}

// Held reports whether symbol column j has reached its entry date on row i.
func (s *Series) Held(i, j int) bool {
	return !s.Dates[i].Before(s.EntryDates[j])
}

// DateAware weights positions per day by market value, counting a position only
// from its entry date on.
func DateAware(m *series.PriceMatrix, positions []Position) *Series {
	held := make([]Position, 0, len(positions))
	for _, p := range positions {
		if m.Has(p.Symbol) {
			held = append(held, p)
		}
	}

	s := &Series{
		Dates:      m.Dates,
		Symbols:    make([]string, len(held)),
		EntryDates: make([]time.Time, len(held)),
		Rows:       make([][]float64, m.Len()),
		Active:     make([]bool, m.Len()),
	}
	for j, p := range held {
		s.Symbols[j] = p.Symbol
		s.EntryDates[j] = p.EntryDate
	}

	for i, d := range m.Dates {
		row := make([]float64, len(held))
		total := 0.0
		for j, p := range held {
			if d.Before(p.EntryDate) {
				continue
			}
			s.Active[i] = true
			row[j] = p.Quantity * m.Column(p.Symbol)[i]
			total += row[j]
		}

		for j := range row {
			if total != 0 {
				row[j] /= total
			} else {
				row[j] = 0
			}
		}
		s.Rows[i] = row
	}

	return s
}

// Normalize rescales raw weights over the symbols accepted by valid, keeping
// the given order. It returns nil when the retained total is not positive.
func Normalize(raw map[string]float64, order []string, valid func(string) bool) (map[string]float64, []string) {
	kept := make([]string, 0, len(order))
	total := 0.0
	for _, sym := range order {
		w, ok := raw[sym]
		if !ok || (valid != nil && !valid(sym)) {
			continue
		}
		kept = append(kept, sym)
		total += w
	}

	if total <= 0 {
		return nil, nil
	}

	out := make(map[string]float64, len(kept))
	for _, sym := range kept {
		out[sym] = raw[sym] / total
	}
	return out, kept
}

// TargetFromHoldings derives back-test target weights from holdings valued at
// CurrentPrice, else EntryPrice, else the latest aligned price. The result is
// normalised over symbols present in m.
func TargetFromHoldings(holdings []domain.Holding, m *series.PriceMatrix) (map[string]float64, []string) {
	values := make(map[string]float64, len(holdings))
	for _, h := range holdings {
		values[h.Symbol] += h.Quantity * holdingPrice(h, m)
	}
	return Normalize(values, Symbols(holdings), m.Has)
}

func holdingPrice(h domain.Holding, m *series.PriceMatrix) float64 {
	if h.CurrentPrice != nil && *h.CurrentPrice != 0 {
		return *h.CurrentPrice
	}
	if h.EntryPrice != 0 {
		return h.EntryPrice
	}
	return m.Last(h.Symbol)
}
