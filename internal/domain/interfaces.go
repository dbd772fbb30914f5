package domain

import (
	"context"
	"time"
)

// PriceHistoryProvider supplies daily price points for a symbol over a window.
// Implementations may return points unordered, duplicated or incomplete at the
// edges; the caller aligns and truncates.
type PriceHistoryProvider interface {
	GetPriceHistory(ctx context.Context, symbol string, start, end time.Time) ([]PricePoint, error)
}

// MetadataProvider supplies category attributes for a symbol.
// A nil result without error means "unknown instrument".
type MetadataProvider interface {
	GetMetadata(ctx context.Context, symbol string) (*InstrumentMetadata, error)
}

// Clock abstracts "today" so default date windows stay deterministic in tests
type Clock interface {
	Now() time.Time
}

// SystemClock is the wall clock
type SystemClock struct{}

// Now returns the current time
func (SystemClock) Now() time.Time { return time.Now() }
