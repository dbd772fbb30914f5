// Package analytics computes the risk, performance and allocation analytics
// of a portfolio of holdings against a benchmark.
package analytics

import (
	"context"
	"time"

	"github.com/axiome/analytics/internal/domain"
	"github.com/axiome/analytics/internal/modules/allocation"
	"github.com/axiome/analytics/internal/modules/attribution"
	"github.com/axiome/analytics/internal/modules/marketdata"
	"github.com/axiome/analytics/internal/modules/risk"
	"github.com/axiome/analytics/internal/modules/series"
	"github.com/axiome/analytics/internal/modules/weights"
	"github.com/axiome/analytics/internal/utils"
	"github.com/axiome/analytics/pkg/formulas"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	// DefaultLookbackDays is the window used when no holding has an entry date.
	DefaultLookbackDays = 365 * 2
	// EntryPaddingDays moves the default start before the earliest entry so the
	// first held day has a prior price.
	EntryPaddingDays = 5
	// DefaultBenchmark is used when neither request nor config names one.
	DefaultBenchmark = "SPY"
)

// Config tunes the service
type Config struct {
	DefaultBenchmark     string
	MaxConcurrentFetches int
}

// Request describes one analytics run. Zero Start/End select the default window.
type Request struct {
	Holdings  []domain.Holding
	Benchmark string
	Start     time.Time
	End       time.Time
}

// Service computes portfolio analytics
type Service struct {
	prices   domain.PriceHistoryProvider
	metadata domain.MetadataProvider
	clock    domain.Clock
	cfg      Config
	log      zerolog.Logger
}

// NewService creates an analytics service. metadata may be nil, in which case
// only metadata attached to the holdings is used.
func NewService(prices domain.PriceHistoryProvider, metadata domain.MetadataProvider, clock domain.Clock, cfg Config, log zerolog.Logger) *Service {
	if clock == nil {
		clock = domain.SystemClock{}
	}
	if cfg.DefaultBenchmark == "" {
		cfg.DefaultBenchmark = DefaultBenchmark
	}
	return &Service{
		prices:   prices,
		metadata: metadata,
		clock:    clock,
		cfg:      cfg,
		log:      log.With().Str("service", "analytics").Logger(),
	}
}

// Window resolves the analysis window of req: end defaults to today, start to
// the earliest entry date (or end minus two years) padded by EntryPaddingDays.
func (s *Service) Window(req Request) (time.Time, time.Time) {
	end := req.End
	if end.IsZero() {
		end = s.clock.Now()
	}
	end = domain.Day(end)

	if !req.Start.IsZero() {
		return domain.Day(req.Start), end
	}

	start := end.AddDate(0, 0, -DefaultLookbackDays)
	if earliest, ok := weights.EarliestEntry(req.Holdings); ok {
		start = domain.Day(earliest)
	}
	return start.AddDate(0, 0, -EntryPaddingDays), end
}

// ComputeAnalytics never fails: insufficient data yields EmptyAnalytics and
// faults inside individual sections degrade only that section.
func (s *Service) ComputeAnalytics(ctx context.Context, req Request) *PortfolioAnalytics {
	log := s.log.With().Str("run_id", uuid.NewString()).Logger()
	defer utils.OperationTimer("compute_analytics", log)()

	if len(req.Holdings) == 0 {
		return EmptyAnalytics()
	}

	benchmark := req.Benchmark
	if benchmark == "" {
		benchmark = s.cfg.DefaultBenchmark
	}
	start, end := s.Window(req)

	symbols := weights.Symbols(req.Holdings)
	all := append(append([]string{}, symbols...), benchmark)

	history, err := marketdata.FetchHistories(ctx, log, s.prices, all, start, end, s.cfg.MaxConcurrentFetches)
	if err != nil {
		log.Warn().Err(err).Msg("Price fetch aborted")
		return EmptyAnalytics()
	}

	m, err := series.Align(all, history)
	if err != nil {
		log.Info().Err(err).Msg("Not enough aligned prices for analytics")
		return EmptyAnalytics()
	}

	positions := weights.Aggregate(req.Holdings, start, m.Has)
	snapshot := weights.SnapshotWeights(m, positions)
	if len(snapshot) == 0 {
		log.Info().Msg("Portfolio has no positive value")
		return EmptyAnalytics()
	}

	held := make([]weights.Position, 0, len(positions))
	for _, p := range positions {
		if _, ok := snapshot[p.Symbol]; ok {
			held = append(held, p)
		}
	}

	attr, err := attribution.Compute(m, weights.DateAware(m, held), benchmark)
	if err != nil {
		log.Info().Err(err).Msg("Not enough active return days for analytics")
		return EmptyAnalytics()
	}

	out := EmptyAnalytics()
	dates, pf, bench := attr.Dates, attr.Portfolio, attr.Benchmark

	out.RiskMetrics = risk.Evaluate(log, pf, bench, dates).Rounded()
	out.PerformanceData = performance(dates, pf, bench)
	out.MonthlyReturns = risk.Guard(log, "monthly_returns", []MonthlyReturn{}, func() []MonthlyReturn {
		return monthly(dates, pf, bench)
	})
	out.ReturnDistribution = risk.Guard(log, "return_distribution", []risk.DistributionBin{}, func() []risk.DistributionBin {
		return risk.ReturnDistribution(pf)
	})

	withMeta := s.attachMetadata(ctx, log, req.Holdings)
	out.AllocationByClass = allocation.Aggregate(withMeta, snapshot, allocation.DimensionAssetClass)
	out.AllocationBySector = allocation.Aggregate(withMeta, snapshot, allocation.DimensionSector)
	out.AllocationByCountry = allocation.Aggregate(withMeta, snapshot, allocation.DimensionCountry)

	out.CorrelationMatrix = risk.Guard(log, "correlation_matrix", out.CorrelationMatrix, func() risk.CorrelationMatrix {
		labels := make([]string, len(held))
		columns := make([][]float64, len(held))
		for i, p := range held {
			labels[i] = p.Symbol
			columns[i] = attr.Returns.Column(p.Symbol)
		}
		return risk.NewCorrelationMatrix(labels, columns)
	})

	out.DrawdownData = risk.Guard(log, "drawdown", []risk.DrawdownPoint{}, func() []risk.DrawdownPoint {
		return risk.DrawdownCurve(dates, pf)
	})
	out.RollingVolatility = risk.Guard(log, "rolling_volatility", []risk.RollingVolatilityPoint{}, func() []risk.RollingVolatilityPoint {
		return nonNil(risk.RollingVolatility(dates, pf, bench))
	})
	out.RollingCorrelation = risk.Guard(log, "rolling_correlation", []risk.RollingCorrelationPoint{}, func() []risk.RollingCorrelationPoint {
		return nonNil(risk.RollingCorrelation(dates, pf, bench))
	})

	log.Debug().
		Int("symbols", len(held)).
		Int("return_days", len(dates)).
		Str("benchmark", benchmark).
		Msg("Analytics computed")

	return out
}

// attachMetadata returns a copy of holdings where missing metadata is looked up.
func (s *Service) attachMetadata(ctx context.Context, log zerolog.Logger, holdings []domain.Holding) []domain.Holding {
	var missing []string
	for _, h := range holdings {
		if h.Metadata == nil {
			missing = append(missing, h.Symbol)
		}
	}

	found := marketdata.FetchMetadata(ctx, log, s.metadata, missing)

	out := make([]domain.Holding, len(holdings))
	for i, h := range holdings {
		if h.Metadata == nil {
			h.Metadata = found[h.Symbol]
		}
		out[i] = h
	}
	return out
}

func performance(dates []time.Time, pf, bench []float64) []PerformancePoint {
	pfGrowth := formulas.CumulativeGrowth(pf)
	benchGrowth := formulas.CumulativeGrowth(bench)

	out := make([]PerformancePoint, len(dates))
	for i, d := range dates {
		out[i] = PerformancePoint{
			Date:            domain.FormatDay(d),
			Portfolio:       formulas.Round(formulas.FiniteOr(pfGrowth[i]*100, 100), 2),
			Benchmark:       formulas.Round(formulas.FiniteOr(benchGrowth[i]*100, 100), 2),
			PortfolioReturn: formulas.Round((pfGrowth[i]-1)*100, 2),
			BenchmarkReturn: formulas.Round((benchGrowth[i]-1)*100, 2),
		}
	}
	return out
}

func monthly(dates []time.Time, pf, bench []float64) []MonthlyReturn {
	benchMonths := risk.MonthlyReturns(dates, bench)

	var out []MonthlyReturn
	for i, p := range risk.MonthlyReturns(dates, pf) {
		label := time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, time.UTC).Format("Jan 06")
		out = append(out, MonthlyReturn{
			Month:     label,
			Portfolio: formulas.Round(p.Return*100, 2),
			Benchmark: formulas.Round(benchMonths[i].Return*100, 2),
		})
	}
	return nonNil(out)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
