// Package backtest simulates a target allocation walking forward through
// historical returns, with optional calendar rebalancing.
package backtest

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrUnknownFrequency is returned for unsupported rebalance frequencies.
var ErrUnknownFrequency = errors.New("unknown rebalance frequency")

// Frequency is a rebalance schedule
type Frequency string

const (
	FrequencyNone       Frequency = "none"
	FrequencyMonthly    Frequency = "monthly"
	FrequencyQuarterly  Frequency = "quarterly"
	FrequencySemiAnnual Frequency = "semi-annual"
	FrequencyAnnual     Frequency = "annual"
)

// ParseFrequency validates a frequency name. Empty means none.
func ParseFrequency(s string) (Frequency, error) {
	f := Frequency(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case "":
		return FrequencyNone, nil
	case FrequencyNone, FrequencyMonthly, FrequencyQuarterly, FrequencySemiAnnual, FrequencyAnnual:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFrequency, s)
}

// monthsPerPeriod returns the calendar length of one period, 0 for none.
func (f Frequency) monthsPerPeriod() int {
	switch f {
	case FrequencyMonthly:
		return 1
	case FrequencyQuarterly:
		return 3
	case FrequencySemiAnnual:
		return 6
	case FrequencyAnnual:
		return 12
	}
	return 0
}

// period identifies the calendar period containing t as year*12 + first month index.
func (f Frequency) period(t time.Time) int {
	span := f.monthsPerPeriod()
	m := int(t.Month()) - 1
	return t.Year()*12 + m - m%span
}

// periodEnd is the last calendar day of the period containing t.
func (f Frequency) periodEnd(t time.Time) time.Time {
	p := f.period(t)
	start := time.Date(p/12, time.Month(p%12+1), 1, 0, 0, 0, 0, time.UTC)
	return start.AddDate(0, f.monthsPerPeriod(), -1)
}

// RebalanceDates returns the last trading day of every calendar period
// covered by dates (sorted ascending). Semi-annual periods are January-June
// and July-December. The period containing the final date only counts when no
// weekday of that period remains after it.
func RebalanceDates(dates []time.Time, f Frequency) map[time.Time]bool {
	out := make(map[time.Time]bool)
	if f.monthsPerPeriod() == 0 || len(dates) == 0 {
		return out
	}

	last := len(dates) - 1
	for i := 0; i < last; i++ {
		if f.period(dates[i]) != f.period(dates[i+1]) {
			out[dates[i]] = true
		}
	}

	if !weekdayBetween(dates[last].AddDate(0, 0, 1), f.periodEnd(dates[last])) {
		out[dates[last]] = true
	}

	return out
}

// weekdayBetween reports whether any Monday-Friday falls in [from, to].
func weekdayBetween(from, to time.Time) bool {
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if d.Weekday() != time.Saturday && d.Weekday() != time.Sunday {
			return true
		}
	}
	return false
}
