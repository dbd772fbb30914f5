package domain

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

func TestPricePoint_Value(t *testing.T) {
	tests := []struct {
		name     string
		point    PricePoint
		expected float64
	}{
		{"close only", PricePoint{Close: 10}, 10},
		{"adjusted preferred", PricePoint{Close: 10, AdjustedClose: ptr(9.5)}, 9.5},
		{"zero adjusted falls back", PricePoint{Close: 10, AdjustedClose: ptr(0)}, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.point.Value())
		})
	}
}

func TestPricePoint_Valid(t *testing.T) {
	assert.True(t, PricePoint{Close: 1}.Valid())
	assert.False(t, PricePoint{Close: math.NaN()}.Valid())
	assert.False(t, PricePoint{Close: 1, AdjustedClose: ptr(math.Inf(1))}.Valid())
	assert.False(t, PricePoint{Close: 0}.Valid())
	assert.False(t, PricePoint{Close: -3}.Valid())
	assert.False(t, PricePoint{Close: 1, AdjustedClose: ptr(-0.5)}.Valid())
}

func TestDayHelpers(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	d := Day(time.Date(2024, 3, 15, 22, 30, 0, 0, loc))
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), d)

	parsed, err := ParseDay("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, "2024-02-29", FormatDay(parsed))

	_, err = ParseDay("29/02/2024")
	assert.Error(t, err)
}
