package formulas

// HistoricalVaR returns the tail percentile of the return distribution
// (e.g. tail=5 for VaR 95). The result is a return, negative for losses.
func HistoricalVaR(returns []float64, tail float64) float64 {
	return Percentile(returns, tail)
}

// HistoricalCVaR is the mean of all returns at or below the VaR threshold.
// Falls back to the VaR itself when no observation qualifies.
func HistoricalCVaR(returns []float64, tail float64) float64 {
	if len(returns) == 0 {
		return 0
	}

	threshold := HistoricalVaR(returns, tail)
	sum := 0.0
	count := 0
	for _, r := range returns {
		if r <= threshold {
			sum += r
			count++
		}
	}
	if count == 0 {
		return threshold
	}

	return sum / float64(count)
}
