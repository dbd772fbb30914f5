package marketdata

import (
	"context"
	"sync"
	"time"

	"github.com/axiome/analytics/internal/domain"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// DefaultMaxConcurrentFetches bounds parallel provider calls when no limit is configured.
const DefaultMaxConcurrentFetches = 8

// FetchHistories loads the history of every symbol concurrently, at most limit
// at a time. A symbol whose fetch fails or returns no points is logged and left
// out of the result; it never fails the batch. Only context cancellation is
// reported as an error.
func FetchHistories(ctx context.Context, log zerolog.Logger, provider domain.PriceHistoryProvider, symbols []string, start, end time.Time, limit int) (map[string][]domain.PricePoint, error) {
	if limit <= 0 {
		limit = DefaultMaxConcurrentFetches
	}

	var mu sync.Mutex
	out := make(map[string][]domain.PricePoint, len(symbols))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for _, sym := range dedupe(symbols) {
		sym := sym
		g.Go(func() error {
			points, err := provider.GetPriceHistory(gctx, sym, start, end)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				log.Warn().Err(err).Str("symbol", sym).Msg("Price history unavailable, excluding symbol")
				return nil
			}
			if len(points) == 0 {
				log.Warn().Str("symbol", sym).Msg("No price history in window, excluding symbol")
				return nil
			}

			mu.Lock()
			out[sym] = points
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// FetchMetadata resolves metadata for symbols sequentially. Lookup errors
// are logged and the symbol is reported as unknown.
func FetchMetadata(ctx context.Context, log zerolog.Logger, provider domain.MetadataProvider, symbols []string) map[string]*domain.InstrumentMetadata {
	out := make(map[string]*domain.InstrumentMetadata, len(symbols))
	if provider == nil {
		return out
	}

	for _, sym := range dedupe(symbols) {
		md, err := provider.GetMetadata(ctx, sym)
		if err != nil {
			log.Warn().Err(err).Str("symbol", sym).Msg("Metadata lookup failed")
			continue
		}
		if md != nil {
			out[sym] = md
		}
	}
	return out
}

func dedupe(symbols []string) []string {
	seen := make(map[string]bool, len(symbols))
	out := make([]string, 0, len(symbols))
	for _, s := range symbols {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
