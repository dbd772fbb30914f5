package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseList(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "empty string",
			input:    "",
			expected: nil,
		},
		{
			name:     "single value",
			input:    "http://localhost:3000",
			expected: []string{"http://localhost:3000"},
		},
		{
			name:     "varied spacing",
			input:    "a,  b , c",
			expected: []string{"a", "b", "c"},
		},
		{
			name:     "only separators and whitespace",
			input:    " , ,, ",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseList(tt.input))
		})
	}
}

func TestParseWeights(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected map[string]float64
		wantErr  bool
	}{
		{"pairs", "aapl=0.6, AGG = 0.4", map[string]float64{"AAPL": 0.6, "AGG": 0.4}, false},
		{"repeated symbols sum", "SPY=1,spy=2", map[string]float64{"SPY": 3}, false},
		{"empty", "", nil, false},
		{"missing equals", "AAPL", nil, true},
		{"missing symbol", "=1", nil, true},
		{"bad number", "AAPL=lots", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseWeights(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}
