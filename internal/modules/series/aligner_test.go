package series

import (
	"math"
	"testing"
	"time"

	"github.com/axiome/analytics/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(n int) time.Time {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func points(sym string, startDay int, closes ...float64) []domain.PricePoint {
	out := make([]domain.PricePoint, len(closes))
	for i, c := range closes {
		out[i] = domain.PricePoint{Symbol: sym, Date: day(startDay + i), Close: c}
	}
	return out
}

func TestAlign_ForwardFillsGaps(t *testing.T) {
	a := points("A", 0, 10, 11, 12, 13, 14, 15)
	b := points("B", 0, 20, 21, 22, 23, 24, 25)
	b = append(b[:2], b[3:]...) // B does not trade on day 2

	m, err := Align([]string{"A", "B"}, map[string][]domain.PricePoint{"A": a, "B": b})
	require.NoError(t, err)

	assert.Equal(t, 6, m.Len())
	assert.Equal(t, []string{"A", "B"}, m.Symbols)
	assert.Equal(t, []float64{20, 21, 21, 23, 24, 25}, m.Column("B"))
}

func TestAlign_DropsLeadingRowsUntilAllListed(t *testing.T) {
	a := points("A", 0, 1, 2, 3, 4, 5, 6, 7, 8)
	b := points("B", 2, 10, 11, 12, 13, 14, 15)

	m, err := Align([]string{"A", "B"}, map[string][]domain.PricePoint{"A": a, "B": b})
	require.NoError(t, err)

	assert.Equal(t, day(2), m.Dates[0])
	assert.Equal(t, []float64{3, 4, 5, 6, 7, 8}, m.Column("A"))
}

func TestAlign_DeduplicatesKeepingFirst(t *testing.T) {
	a := points("A", 0, 1, 2, 3, 4, 5)
	a = append(a, domain.PricePoint{Symbol: "A", Date: day(1).Add(9 * time.Hour), Close: 99})

	m, err := Align([]string{"A"}, map[string][]domain.PricePoint{"A": a})
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3, 4, 5}, m.Column("A"))
}

func TestAlign_SortsUnorderedInput(t *testing.T) {
	a := points("A", 0, 1, 2, 3, 4, 5)
	a[0], a[4] = a[4], a[0]

	m, err := Align([]string{"A"}, map[string][]domain.PricePoint{"A": a})
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3, 4, 5}, m.Column("A"))
	for i := 1; i < m.Len(); i++ {
		assert.True(t, m.Dates[i].After(m.Dates[i-1]))
	}
}

func TestAlign_PrefersAdjustedClose(t *testing.T) {
	a := points("A", 0, 1, 2, 3, 4, 5)
	adj := 1.5
	a[4].AdjustedClose = &adj

	m, err := Align([]string{"A"}, map[string][]domain.PricePoint{"A": a})
	require.NoError(t, err)
	assert.Equal(t, 1.5, m.Last("A"))
}

func TestAlign_NaNIsTreatedAsMissing(t *testing.T) {
	a := points("A", 0, 1, math.NaN(), 3, 4, 5)

	m, err := Align([]string{"A"}, map[string][]domain.PricePoint{"A": a})
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 1, 3, 4, 5}, m.Column("A"))
}

func TestAlign_NonPositivePriceIsTreatedAsMissing(t *testing.T) {
	a := points("A", 0, 100, 0, 50, -1, 70, 80, 90)

	m, err := Align([]string{"A"}, map[string][]domain.PricePoint{"A": a})
	require.NoError(t, err)
	assert.Equal(t, []float64{100, 100, 50, 50, 70, 80, 90}, m.Column("A"))

	r := m.Returns()
	assert.Equal(t, 0.0, r.Column("A")[0])
	assert.InDelta(t, -0.5, r.Column("A")[1], 1e-12)
}

func TestAlign_ExcludesSymbolsWithoutData(t *testing.T) {
	a := points("A", 0, 1, 2, 3, 4, 5)
	bad := points("C", 0, math.NaN(), math.NaN())

	m, err := Align([]string{"A", "B", "C"}, map[string][]domain.PricePoint{"A": a, "C": bad})
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, m.Symbols)
	assert.False(t, m.Has("B"))
	assert.False(t, m.Has("C"))
}

func TestAlign_InsufficientData(t *testing.T) {
	tests := []struct {
		name    string
		history map[string][]domain.PricePoint
	}{
		{"no symbols", map[string][]domain.PricePoint{}},
		{"four rows", map[string][]domain.PricePoint{"A": points("A", 0, 1, 2, 3, 4)}},
		{"overlap too short", map[string][]domain.PricePoint{
			"A": points("A", 0, 1, 2, 3, 4, 5, 6),
			"B": points("B", 3, 1, 2, 3),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Align([]string{"A", "B"}, tt.history)
			assert.ErrorIs(t, err, ErrInsufficientData)
		})
	}
}

func TestPriceMatrix_Returns(t *testing.T) {
	m := NewPriceMatrix(
		[]time.Time{day(0), day(1), day(2)},
		[]string{"A"},
		map[string][]float64{"A": {100, 105, 94.5}},
	)

	r := m.Returns()
	require.Equal(t, 2, r.Len())
	assert.Equal(t, day(1), r.Dates[0])
	assert.InDeltaSlice(t, []float64{0.05, -0.1}, r.Column("A"), 1e-12)
	assert.Equal(t, []float64{0, 0}, r.ColumnOrZero("SPY"))
}
