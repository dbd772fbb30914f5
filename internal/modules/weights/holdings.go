// Package weights turns holdings and aligned prices into portfolio weights:
// a point-in-time snapshot, a date-aware series for return attribution, and
// back-test target weights.
package weights

import (
	"sort"
	"time"

	"github.com/axiome/analytics/internal/domain"
)

// Position is the aggregate of every holding of one symbol
type Position struct {
	Symbol    string
	Quantity  float64
	EntryDate time.Time
}

// Aggregate sums quantities per symbol and keeps the earliest entry date.
// Holdings without an entry date start at defaultEntry. Symbols rejected by
// include are skipped; order follows first appearance.
func Aggregate(holdings []domain.Holding, defaultEntry time.Time, include func(string) bool) []Position {
	index := make(map[string]int, len(holdings))
	positions := make([]Position, 0, len(holdings))

	for _, h := range holdings {
		if include != nil && !include(h.Symbol) {
			continue
		}

		entry := defaultEntry
		if h.HasEntryDate() {
			entry = h.EntryDate
		}
		entry = domain.Day(entry)

		i, ok := index[h.Symbol]
		if !ok {
			index[h.Symbol] = len(positions)
			positions = append(positions, Position{Symbol: h.Symbol, Quantity: h.Quantity, EntryDate: entry})
			continue
		}

		positions[i].Quantity += h.Quantity
		if entry.Before(positions[i].EntryDate) {
			positions[i].EntryDate = entry
		}
	}

	return positions
}

// EarliestEntry returns the earliest explicit entry date across holdings.
func EarliestEntry(holdings []domain.Holding) (time.Time, bool) {
	var earliest time.Time
	found := false
	for _, h := range holdings {
		if !h.HasEntryDate() {
			continue
		}
		if !found || h.EntryDate.Before(earliest) {
			earliest = h.EntryDate
			found = true
		}
	}
	return earliest, found
}

// Symbols returns the distinct holding symbols in first-appearance order.
func Symbols(holdings []domain.Holding) []string {
	seen := make(map[string]struct{}, len(holdings))
	out := make([]string, 0, len(holdings))
	for _, h := range holdings {
		if _, ok := seen[h.Symbol]; ok {
			continue
		}
		seen[h.Symbol] = struct{}{}
		out = append(out, h.Symbol)
	}
	return out
}

// SortedKeys returns the keys of a weight map in lexical order.
func SortedKeys(w map[string]float64) []string {
	keys := make([]string, 0, len(w))
	for k := range w {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
