package backtest

import (
	"testing"
	"time"

	testingpkg "github.com/axiome/analytics/internal/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFrequency(t *testing.T) {
	tests := []struct {
		input    string
		expected Frequency
		wantErr  bool
	}{
		{"", FrequencyNone, false},
		{"none", FrequencyNone, false},
		{"Monthly", FrequencyMonthly, false},
		{" quarterly ", FrequencyQuarterly, false},
		{"semi-annual", FrequencySemiAnnual, false},
		{"annual", FrequencyAnnual, false},
		{"weekly", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			f, err := ParseFrequency(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownFrequency)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, f)
		})
	}
}

func days(ds ...time.Time) []time.Time { return ds }

func keys(m map[time.Time]bool) []time.Time {
	var out []time.Time
	for d := range m {
		out = append(out, d)
	}
	return out
}

func TestRebalanceDates(t *testing.T) {
	d := testingpkg.Day

	tests := []struct {
		name     string
		dates    []time.Time
		freq     Frequency
		expected []time.Time
	}{
		{
			name:     "none never rebalances",
			dates:    testingpkg.BusinessDays(d(2024, time.January, 1), 60),
			freq:     FrequencyNone,
			expected: nil,
		},
		{
			name:     "monthly uses last trading day and complete trailing month",
			dates:    testingpkg.BusinessDays(d(2024, time.January, 29), 24), // through Thu 2024-02-29
			freq:     FrequencyMonthly,
			expected: days(d(2024, time.January, 31), d(2024, time.February, 29)),
		},
		{
			name:     "incomplete trailing month is skipped",
			dates:    testingpkg.BusinessDays(d(2024, time.January, 29), 8), // through Wed 2024-02-07
			freq:     FrequencyMonthly,
			expected: days(d(2024, time.January, 31)),
		},
		{
			name:     "quarter end falling on a holiday uses the prior trading day",
			dates:    days(d(2024, time.March, 27), d(2024, time.March, 28), d(2024, time.April, 1), d(2024, time.April, 2)),
			freq:     FrequencyQuarterly,
			expected: days(d(2024, time.March, 28)),
		},
		{
			name:     "semi-annual splits at June",
			dates:    days(d(2024, time.March, 28), d(2024, time.June, 28), d(2024, time.July, 1), d(2024, time.July, 2)),
			freq:     FrequencySemiAnnual,
			expected: days(d(2024, time.June, 28)),
		},
		{
			name:     "trailing period ending on a weekend counts",
			dates:    days(d(2024, time.August, 28), d(2024, time.August, 29), d(2024, time.August, 30)),
			freq:     FrequencyMonthly,
			expected: days(d(2024, time.August, 30)),
		},
		{
			name:     "annual",
			dates:    days(d(2023, time.December, 28), d(2023, time.December, 29), d(2024, time.January, 2), d(2024, time.December, 31)),
			freq:     FrequencyAnnual,
			expected: days(d(2023, time.December, 29), d(2024, time.December, 31)),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RebalanceDates(tt.dates, tt.freq)
			assert.ElementsMatch(t, tt.expected, keys(got))
		})
	}
}

func TestRebalanceDates_Empty(t *testing.T) {
	assert.Empty(t, RebalanceDates(nil, FrequencyMonthly))
}
