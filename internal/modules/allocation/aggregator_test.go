package allocation

import (
	"testing"

	"github.com/axiome/analytics/internal/domain"
	"github.com/axiome/analytics/internal/modules/weights"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func holding(symbol string, md *domain.InstrumentMetadata) domain.Holding {
	return domain.Holding{Symbol: symbol, Quantity: 1, Metadata: md}
}

func TestAggregate_MergesSynonymsAndDedupes(t *testing.T) {
	us := &domain.InstrumentMetadata{Country: "US"}
	usa := &domain.InstrumentMetadata{Country: "USA"}
	de := &domain.InstrumentMetadata{Country: "DE"}

	holdings := []domain.Holding{
		holding("AAPL", us),
		holding("AAPL", us), // duplicate must not double count
		holding("MSFT", usa),
		holding("SAP", de),
	}
	snapshot := weights.Snapshot{"AAPL": 0.5, "MSFT": 0.3, "SAP": 0.2}

	items := Aggregate(holdings, snapshot, DimensionCountry)

	require.Len(t, items, 2)
	assert.Equal(t, Item{Name: "United States", Value: 80, Color: Palette[0]}, items[0])
	assert.Equal(t, Item{Name: "Germany", Value: 20, Color: Palette[1]}, items[1])
}

func TestAggregate_UnknownBuckets(t *testing.T) {
	holdings := []domain.Holding{
		holding("A", nil),
		holding("B", &domain.InstrumentMetadata{Sector: "  "}),
		holding("C", &domain.InstrumentMetadata{Sector: "health care"}),
		holding("D", &domain.InstrumentMetadata{Sector: "Healthcare"}),
		holding("E", &domain.InstrumentMetadata{Sector: "Technology"}), // not in snapshot
	}
	snapshot := weights.Snapshot{"A": 0.25, "B": 0.25, "C": 0.25, "D": 0.25}

	items := Aggregate(holdings, snapshot, DimensionSector)

	require.Len(t, items, 2)
	// equal weights order by name
	assert.Equal(t, "Healthcare", items[0].Name)
	assert.Equal(t, 50.0, items[0].Value)
	assert.Equal(t, Unknown, items[1].Name)
}

func TestAggregate_PaletteCycles(t *testing.T) {
	var holdings []domain.Holding
	snapshot := weights.Snapshot{}
	for i := 0; i < 12; i++ {
		sym := string(rune('A' + i))
		holdings = append(holdings, holding(sym, &domain.InstrumentMetadata{Sector: "Sector " + sym}))
		snapshot[sym] = float64(12-i) / 78
	}

	items := Aggregate(holdings, snapshot, DimensionSector)

	require.Len(t, items, 12)
	assert.Equal(t, "Sector A", items[0].Name)
	assert.Equal(t, Palette[0], items[10].Color)
	assert.Equal(t, Palette[1], items[11].Color)
}

func TestAggregate_EmptySnapshot(t *testing.T) {
	items := Aggregate([]domain.Holding{holding("A", nil)}, weights.Snapshot{}, DimensionAssetClass)
	assert.Empty(t, items)
}
