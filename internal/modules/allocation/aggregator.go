// Package allocation breaks a weight snapshot down by instrument category.
package allocation

import (
	"sort"

	"github.com/axiome/analytics/internal/domain"
	"github.com/axiome/analytics/internal/modules/weights"
	"github.com/axiome/analytics/pkg/formulas"
)

// Dimension is the category attribute allocations are grouped by
type Dimension string

const (
	DimensionAssetClass Dimension = "asset_class"
	DimensionSector     Dimension = "sector"
	DimensionCountry    Dimension = "country"
)

// Palette colours items by rank, cycling past the tenth
var Palette = []string{
	"#3b82f6", "#10b981", "#6366f1", "#f59e0b", "#ef4444",
	"#ec4899", "#8b5cf6", "#14b8a6", "#94a3b8", "#f97316",
}

// Item is one category slice of an allocation chart
type Item struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"` // percent, one decimal
	Color string  `json:"color"`
}

// Aggregate sums snapshot weights per normalised category of dim. Each symbol
// counts once, using the metadata of its first holding; symbols without
// metadata fall into Unknown. Items are ordered by descending weight, then name.
func Aggregate(holdings []domain.Holding, snapshot weights.Snapshot, dim Dimension) []Item {
	totals := make(map[string]float64)
	seen := make(map[string]bool, len(holdings))

	for _, h := range holdings {
		if seen[h.Symbol] {
			continue
		}
		seen[h.Symbol] = true

		w, ok := snapshot[h.Symbol]
		if !ok {
			continue
		}
		totals[NormalizeKey(dim, attribute(h.Metadata, dim))] += w
	}

	names := make([]string, 0, len(totals))
	for name := range totals {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if totals[names[i]] != totals[names[j]] {
			return totals[names[i]] > totals[names[j]]
		}
		return names[i] < names[j]
	})

	items := make([]Item, len(names))
	for i, name := range names {
		items[i] = Item{
			Name:  name,
			Value: formulas.Round(totals[name]*100, 1),
			Color: Palette[i%len(Palette)],
		}
	}
	return items
}

func attribute(md *domain.InstrumentMetadata, dim Dimension) string {
	if md == nil {
		return ""
	}
	switch dim {
	case DimensionAssetClass:
		return md.AssetClass
	case DimensionSector:
		return md.Sector
	case DimensionCountry:
		return md.Country
	}
	return ""
}
