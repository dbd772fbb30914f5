package formulas

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPercentile(t *testing.T) {
	data := []float64{5, 1, 4, 2, 3}

	tests := []struct {
		name     string
		p        float64
		expected float64
	}{
		{"minimum", 0, 1},
		{"fifth interpolates", 5, 1.2},
		{"median", 50, 3},
		{"quartile", 75, 4},
		{"maximum", 100, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Percentile(data, tt.p), 1e-12)
		})
	}

	assert.Equal(t, []float64{5, 1, 4, 2, 3}, data, "input must not be reordered")
	assert.Equal(t, 0.0, Percentile(nil, 50))
}

func TestHistoricalCVaR(t *testing.T) {
	returns := []float64{-0.05, -0.02, 0.01, 0.02, 0.03}

	// threshold = -0.05 + 0.2*(0.03) = -0.044, only -0.05 is at or below it
	assert.InDelta(t, -0.044, HistoricalVaR(returns, 5), 1e-12)
	assert.InDelta(t, -0.05, HistoricalCVaR(returns, 5), 1e-12)

	// median threshold covers the three lowest
	assert.InDelta(t, (-0.05-0.02+0.01)/3, HistoricalCVaR(returns, 50), 1e-12)

	assert.Equal(t, 0.0, HistoricalCVaR(nil, 5))
}
