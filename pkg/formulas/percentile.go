package formulas

import "sort"

// Percentile returns the p-th percentile (0..100) of data using linear
// interpolation between closest ranks. Input is not modified.
func Percentile(data []float64, p float64) float64 {
	if len(data) == 0 {
		return 0
	}
	vals := make([]float64, len(data))
	copy(vals, data)
	sort.Float64s(vals)
	return percentileSorted(vals, p/100)
}

func percentileSorted(vals []float64, q float64) float64 {
	if q <= 0 {
		return vals[0]
	}
	if q >= 1 {
		return vals[len(vals)-1]
	}
	pos := q * float64(len(vals)-1)
	lo := int(pos)
	hi := lo + 1
	if hi >= len(vals) {
		return vals[lo]
	}
	frac := pos - float64(lo)
	return vals[lo]*(1-frac) + vals[hi]*frac
}
