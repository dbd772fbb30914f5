package testing

import (
	"math"
	"math/rand"
	"time"

	"github.com/axiome/analytics/internal/domain"
)

// Day builds a UTC calendar day
func Day(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// BusinessDays returns n consecutive weekdays starting at start (moved forward to a weekday).
func BusinessDays(start time.Time, n int) []time.Time {
	out := make([]time.Time, 0, n)
	d := domain.Day(start)
	for len(out) < n {
		if d.Weekday() != time.Saturday && d.Weekday() != time.Sunday {
			out = append(out, d)
		}
		d = d.AddDate(0, 0, 1)
	}
	return out
}

// NewPriceSeries pairs closes with consecutive business days from start
func NewPriceSeries(symbol string, start time.Time, closes ...float64) []domain.PricePoint {
	days := BusinessDays(start, len(closes))
	out := make([]domain.PricePoint, len(closes))
	for i, c := range closes {
		out[i] = domain.PricePoint{Symbol: symbol, Date: days[i], Close: c}
	}
	return out
}

// NewRandomWalk generates a deterministic log-normal price path of n business days.
// drift and vol are daily; the same seed always yields the same path.
func NewRandomWalk(symbol string, start time.Time, n int, seed int64, drift, vol float64) []domain.PricePoint {
	rng := rand.New(rand.NewSource(seed))
	closes := make([]float64, n)
	price := 100.0
	for i := range closes {
		if i > 0 {
			price *= math.Exp(drift + vol*rng.NormFloat64())
		}
		closes[i] = price
	}
	return NewPriceSeries(symbol, start, closes...)
}

// NewMetadataFixtures returns instrument metadata for the symbols used in tests
func NewMetadataFixtures() []domain.InstrumentMetadata {
	return []domain.InstrumentMetadata{
		{Symbol: "AAPL", Name: "Apple Inc.", AssetClass: "stock", Sector: "Information Technology", Country: "USA", Currency: "USD"},
		{Symbol: "MSFT", Name: "Microsoft Corp.", AssetClass: "Equity", Sector: "Technology", Country: "US", Currency: "USD"},
		{Symbol: "AGG", Name: "iShares Core US Aggregate Bond", AssetClass: "etf", Sector: "", Country: "United States", Currency: "USD"},
		{Symbol: "SAP", Name: "SAP SE", AssetClass: "Equity", Sector: "software", Country: "DE", Currency: "EUR"},
	}
}

// FloatPtr returns a pointer to the given float64 value
func FloatPtr(f float64) *float64 {
	return &f
}
