package formulas

// DrawdownSeries returns (value - runningPeak) / runningPeak for each point.
// Values are fractions, always <= 0.
func DrawdownSeries(values []float64) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}

	peak := values[0]
	for i, v := range values {
		if v > peak {
			peak = v
		}
		if peak != 0 {
			out[i] = (v - peak) / peak
		}
	}

	return out
}

// MaxDrawdown returns the deepest drawdown as a fraction (<= 0) and the index it occurs at.
func MaxDrawdown(values []float64) (float64, int) {
	dd := DrawdownSeries(values)
	worst := 0.0
	at := 0
	for i, d := range dd {
		if d < worst {
			worst = d
			at = i
		}
	}
	return worst, at
}

// LongestDrawdown returns the longest run of consecutive points strictly under water.
func LongestDrawdown(drawdowns []float64) int {
	longest := 0
	current := 0
	for _, d := range drawdowns {
		if d < 0 {
			current++
			if current > longest {
				longest = current
			}
			continue
		}
		current = 0
	}
	return longest
}
