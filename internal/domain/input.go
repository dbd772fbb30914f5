package domain

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// HoldingInput is the wire form of a Holding, with dates as YYYY-MM-DD strings
type HoldingInput struct {
	Symbol       string              `json:"symbol"`
	Quantity     float64             `json:"quantity"`
	EntryDate    string              `json:"entry_date,omitempty"`
	EntryPrice   float64             `json:"entry_price,omitempty"`
	CurrentPrice *float64            `json:"current_price,omitempty"`
	Metadata     *InstrumentMetadata `json:"metadata,omitempty"`
}

// ToHolding validates the input and converts it. Symbols are upper-cased.
func (in HoldingInput) ToHolding() (Holding, error) {
	symbol := strings.ToUpper(strings.TrimSpace(in.Symbol))
	if symbol == "" {
		return Holding{}, fmt.Errorf("holding symbol is required")
	}
	if math.IsNaN(in.Quantity) || math.IsInf(in.Quantity, 0) {
		return Holding{}, fmt.Errorf("holding %s: quantity must be finite", symbol)
	}

	entry, err := ParseOptionalDay(in.EntryDate)
	if err != nil {
		return Holding{}, fmt.Errorf("holding %s: invalid entry_date: %w", symbol, err)
	}

	h := Holding{
		Symbol:       symbol,
		Quantity:     in.Quantity,
		EntryDate:    entry,
		EntryPrice:   in.EntryPrice,
		CurrentPrice: in.CurrentPrice,
	}
	if in.Metadata != nil {
		md := *in.Metadata
		md.Symbol = symbol
		h.Metadata = &md
	}
	return h, nil
}

// ToHoldings converts a list of inputs, stopping at the first invalid one
func ToHoldings(inputs []HoldingInput) ([]Holding, error) {
	out := make([]Holding, 0, len(inputs))
	for _, in := range inputs {
		h, err := in.ToHolding()
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, nil
}

// ParseOptionalDay parses a YYYY-MM-DD string; empty yields the zero time.
func ParseOptionalDay(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	return ParseDay(s)
}
