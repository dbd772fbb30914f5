package testing

import (
	"context"
	"sync"
	"time"

	"github.com/axiome/analytics/internal/domain"
)

// MockPriceProvider is a mock implementation of domain.PriceHistoryProvider and
// domain.MetadataProvider. Errors can be injected per symbol.
type MockPriceProvider struct {
	mu       sync.RWMutex
	prices   map[string][]domain.PricePoint
	metadata map[string]*domain.InstrumentMetadata
	errs     map[string]error
	calls    map[string]int
}

// NewMockPriceProvider creates a new mock price provider
func NewMockPriceProvider() *MockPriceProvider {
	return &MockPriceProvider{
		prices:   make(map[string][]domain.PricePoint),
		metadata: make(map[string]*domain.InstrumentMetadata),
		errs:     make(map[string]error),
		calls:    make(map[string]int),
	}
}

// SetPrices sets the points returned for symbol, regardless of the requested window
func (m *MockPriceProvider) SetPrices(symbol string, points []domain.PricePoint) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prices[symbol] = points
}

// SetMetadata sets the metadata returned for md.Symbol
func (m *MockPriceProvider) SetMetadata(md domain.InstrumentMetadata) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.metadata[md.Symbol] = &md
}

// SetError sets the error to return for symbol
func (m *MockPriceProvider) SetError(symbol string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs[symbol] = err
}

// Calls returns how many times symbol was requested
func (m *MockPriceProvider) Calls(symbol string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calls[symbol]
}

// GetPriceHistory returns the configured points for symbol
func (m *MockPriceProvider) GetPriceHistory(ctx context.Context, symbol string, start, end time.Time) ([]domain.PricePoint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls[symbol]++
	if err := m.errs[symbol]; err != nil {
		return nil, err
	}
	return m.prices[symbol], nil
}

// GetMetadata returns the configured metadata, nil when unknown
func (m *MockPriceProvider) GetMetadata(ctx context.Context, symbol string) (*domain.InstrumentMetadata, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.errs[symbol]; err != nil {
		return nil, err
	}
	return m.metadata[symbol], nil
}
