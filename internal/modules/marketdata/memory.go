package marketdata

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/axiome/analytics/internal/domain"
)

// MemoryProvider is an in-process price and metadata source. It is safe for
// concurrent use.
type MemoryProvider struct {
	mu       sync.RWMutex
	prices   map[string][]domain.PricePoint
	metadata map[string]domain.InstrumentMetadata
}

// NewMemoryProvider creates an empty provider
func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{
		prices:   make(map[string][]domain.PricePoint),
		metadata: make(map[string]domain.InstrumentMetadata),
	}
}

// AddPrices appends points, grouping them by their Symbol.
func (p *MemoryProvider) AddPrices(points ...domain.PricePoint) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, pt := range points {
		p.prices[pt.Symbol] = append(p.prices[pt.Symbol], pt)
	}
}

// SetMetadata stores md under its Symbol
func (p *MemoryProvider) SetMetadata(md domain.InstrumentMetadata) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.metadata[md.Symbol] = md
}

// GetPriceHistory returns a copy of the points of symbol inside [start, end],
// in insertion order. Zero bounds are open.
func (p *MemoryProvider) GetPriceHistory(ctx context.Context, symbol string, start, end time.Time) ([]domain.PricePoint, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	var out []domain.PricePoint
	for _, pt := range p.prices[symbol] {
		d := domain.Day(pt.Date)
		if !start.IsZero() && d.Before(domain.Day(start)) {
			continue
		}
		if !end.IsZero() && d.After(domain.Day(end)) {
			continue
		}
		out = append(out, pt)
	}
	return out, nil
}

// GetMetadata returns nil for unknown symbols
func (p *MemoryProvider) GetMetadata(ctx context.Context, symbol string) (*domain.InstrumentMetadata, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	md, ok := p.metadata[symbol]
	if !ok {
		return nil, nil
	}
	return &md, nil
}

// Symbols lists the symbols with prices, sorted
func (p *MemoryProvider) Symbols() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]string, 0, len(p.prices))
	for sym := range p.prices {
		out = append(out, sym)
	}
	sort.Strings(out)
	return out
}
