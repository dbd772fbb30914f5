// Package domain provides core domain models and types.
package domain

import (
	"math"
	"time"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// AssetClass represents the canonical class of an instrument
type AssetClass string

const (
	AssetClassEquity   AssetClass = "Equity"
	AssetClassETF      AssetClass = "ETF"
	AssetClassBond     AssetClass = "Bond"
	AssetClassFutures  AssetClass = "Futures"
	AssetClassOption   AssetClass = "Option"
	AssetClassIndex    AssetClass = "Index"
	AssetClassCrypto   AssetClass = "Crypto"
	AssetClassCurrency AssetClass = "Currency"
)

// PricePoint is one daily observation of an instrument
type PricePoint struct {
	Symbol        string    `json:"symbol"`
	Date          time.Time `json:"date"`
	Close         float64   `json:"close"`
	AdjustedClose *float64  `json:"adjusted_close,omitempty"` // Dividend/split adjusted, preferred when set
}

// Value returns the adjusted close when present and non-zero, else the close.
func (p PricePoint) Value() float64 {
	if p.AdjustedClose != nil && *p.AdjustedClose != 0 {
		return *p.AdjustedClose
	}
	return p.Close
}

// Valid reports whether the point carries a usable price: finite and positive.
func (p PricePoint) Valid() bool {
	v := p.Value()
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}

// InstrumentMetadata holds the category attributes used for allocation breakdowns
type InstrumentMetadata struct {
	Symbol     string `json:"symbol"`
	Name       string `json:"name,omitempty"`
	AssetClass string `json:"asset_class,omitempty"`
	Sector     string `json:"sector,omitempty"`
	Country    string `json:"country,omitempty"`
	Currency   string `json:"currency,omitempty"`
}

// Holding is a position as supplied by the caller. Several holdings may
// reference the same symbol.
type Holding struct {
	Symbol       string              `json:"symbol"`
	Quantity     float64             `json:"quantity"`
	EntryDate    time.Time           `json:"entry_date,omitempty"` // Zero means "from the window start"
	EntryPrice   float64             `json:"entry_price,omitempty"`
	CurrentPrice *float64            `json:"current_price,omitempty"`
	Metadata     *InstrumentMetadata `json:"metadata,omitempty"`
}

// HasEntryDate reports whether an explicit entry date was supplied.
func (h Holding) HasEntryDate() bool {
	return !h.EntryDate.IsZero()
}

// Day truncates t to its UTC calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDay parses a YYYY-MM-DD string into a UTC calendar day.
func ParseDay(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}

// FormatDay renders t as YYYY-MM-DD.
func FormatDay(t time.Time) string {
	return t.Format(DateLayout)
}
