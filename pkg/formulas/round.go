package formulas

import (
	"math"

	"github.com/shopspring/decimal"
)

// Finite replaces NaN and ±Inf with 0.
func Finite(v float64) float64 {
	return FiniteOr(v, 0)
}

// FiniteOr replaces NaN and ±Inf with fallback.
func FiniteOr(v, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return v
}

// Round sanitises v and rounds it half-to-even at the given number of decimal places.
// Ties are judged on the shortest decimal form of v, not its binary value, so
// 2.675 rounds to 2.68 where a binary-exact round gives 2.67.
func Round(v float64, places int32) float64 {
	v = Finite(v)
	if v == 0 {
		return 0
	}
	return decimal.NewFromFloat(v).RoundBank(places).InexactFloat64()
}
