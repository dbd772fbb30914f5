package marketdata

import (
	"math"

	"github.com/axiome/analytics/internal/domain"
)

// Rejection explains why an ingested point was dropped
type Rejection struct {
	Symbol string `json:"symbol"`
	Date   string `json:"date"`
	Reason string `json:"reason"`
}

// ValidatePoints filters points that cannot be stored: an empty symbol, a zero
// date, a non-finite or non-positive close, or a non-finite or negative adjusted close.
func ValidatePoints(points []domain.PricePoint) ([]domain.PricePoint, []Rejection) {
	valid := make([]domain.PricePoint, 0, len(points))
	var rejected []Rejection

	for _, p := range points {
		if reason := rejectReason(p); reason != "" {
			rejected = append(rejected, Rejection{Symbol: p.Symbol, Date: domain.FormatDay(p.Date), Reason: reason})
			continue
		}
		valid = append(valid, p)
	}
	return valid, rejected
}

func rejectReason(p domain.PricePoint) string {
	switch {
	case p.Symbol == "":
		return "missing_symbol"
	case p.Date.IsZero():
		return "missing_date"
	case math.IsNaN(p.Close) || math.IsInf(p.Close, 0):
		return "non_finite_close"
	case p.Close <= 0:
		return "non_positive_close"
	case p.AdjustedClose != nil && (math.IsNaN(*p.AdjustedClose) || math.IsInf(*p.AdjustedClose, 0)):
		return "non_finite_adjusted_close"
	case p.AdjustedClose != nil && *p.AdjustedClose < 0:
		return "negative_adjusted_close"
	}
	return ""
}
