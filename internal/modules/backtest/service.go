package backtest

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/axiome/analytics/internal/domain"
	"github.com/axiome/analytics/internal/modules/marketdata"
	"github.com/axiome/analytics/internal/modules/risk"
	"github.com/axiome/analytics/internal/modules/series"
	"github.com/axiome/analytics/internal/modules/weights"
	"github.com/axiome/analytics/internal/utils"
	"github.com/axiome/analytics/pkg/formulas"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Defaults applied to zero-valued request fields
const (
	DefaultInitialCapital = 10_000.0
	DefaultBenchmark      = "SPY"
)

// Config tunes the service
type Config struct {
	DefaultBenchmark     string
	DefaultCapital       float64
	MaxConcurrentFetches int
}

// Request describes one back-test. Weights, when non-empty, override the
// allocation derived from Holdings.
type Request struct {
	Holdings       []domain.Holding
	Weights        map[string]float64
	Start          time.Time
	End            time.Time
	InitialCapital float64
	Benchmark      string
	Frequency      Frequency
}

// Service runs back-tests against a price history provider
type Service struct {
	prices domain.PriceHistoryProvider
	cfg    Config
	log    zerolog.Logger
}

// NewService creates a back-test service
func NewService(prices domain.PriceHistoryProvider, cfg Config, log zerolog.Logger) *Service {
	if cfg.DefaultBenchmark == "" {
		cfg.DefaultBenchmark = DefaultBenchmark
	}
	if cfg.DefaultCapital <= 0 {
		cfg.DefaultCapital = DefaultInitialCapital
	}
	return &Service{
		prices: prices,
		cfg:    cfg,
		log:    log.With().Str("service", "backtest").Logger(),
	}
}

// RunBacktest simulates the requested allocation. It never fails: missing
// data, no resolvable target weights or a cancelled context yield EmptyResult.
func (s *Service) RunBacktest(ctx context.Context, req Request) *Result {
	runID := uuid.NewString()
	log := s.log.With().Str("run_id", runID).Logger()
	defer utils.OperationTimer("run_backtest", log)()

	capital := req.InitialCapital
	if capital <= 0 {
		capital = s.cfg.DefaultCapital
	}
	benchmark := req.Benchmark
	if benchmark == "" {
		benchmark = s.cfg.DefaultBenchmark
	}

	empty := func(reason string) *Result {
		log.Info().Str("reason", reason).Msg("Back-test produced no result")
		res := EmptyResult()
		res.RunID = runID
		return res
	}

	order := weights.Symbols(req.Holdings)
	if len(req.Weights) > 0 {
		order = weights.SortedKeys(req.Weights)
	}
	if len(order) == 0 {
		return empty("no target symbols")
	}

	all := append(append([]string{}, order...), benchmark)
	history, err := marketdata.FetchHistories(ctx, log, s.prices, all, req.Start, req.End, s.cfg.MaxConcurrentFetches)
	if err != nil {
		log.Warn().Err(err).Msg("Price fetch aborted")
		return empty("price fetch aborted")
	}

	m, err := series.Align(all, history)
	if err != nil {
		return empty(err.Error())
	}

	var target map[string]float64
	var symbols []string
	if len(req.Weights) > 0 {
		target, symbols = weights.Normalize(req.Weights, order, m.Has)
	} else {
		target, symbols = weights.TargetFromHoldings(req.Holdings, m)
	}
	if len(symbols) == 0 {
		return empty("no positive target weight over resolvable symbols")
	}

	returns := m.Returns()
	sim := Simulate(returns, symbols, target, capital, RebalanceDates(returns.Dates, req.Frequency))
	bench := returns.ColumnOrZero(benchmark)

	log.Debug().
		Int("symbols", len(symbols)).
		Int("trading_days", len(sim.Dates)).
		Int("rebalances", len(sim.TradeLog)).
		Msg("Simulation complete")

	res := s.buildResult(log, sim, bench, returns, symbols, target, capital)
	res.RunID = runID
	return res
}

func (s *Service) buildResult(log zerolog.Logger, sim *Simulation, bench []float64, returns *series.ReturnMatrix, symbols []string, target map[string]float64, capital float64) *Result {
	res := EmptyResult()
	dates, pf := sim.Dates, sim.Returns

	pfGrowth := formulas.CumulativeGrowth(pf)
	benchGrowth := formulas.CumulativeGrowth(bench)
	for i, d := range dates {
		day := domain.FormatDay(d)
		res.EquityCurve = append(res.EquityCurve, ComparisonPoint{
			Date:      day,
			Portfolio: formulas.Round(sim.Values[i], 2),
			Benchmark: formulas.Round(capital*benchGrowth[i], 2),
		})
		res.CumulativeReturn = append(res.CumulativeReturn, ComparisonPoint{
			Date:      day,
			Portfolio: formulas.Round((pfGrowth[i]-1)*100, 2),
			Benchmark: formulas.Round((benchGrowth[i]-1)*100, 2),
		})
	}

	res.DrawdownData = risk.Guard(log, "drawdown", []risk.UnderwaterPoint{}, func() []risk.UnderwaterPoint {
		return risk.UnderwaterCurve(dates, pf)
	})
	res.UnderwaterData = res.DrawdownData

	for _, p := range risk.MonthlyReturns(dates, pf) {
		res.MonthlyHeatmap = append(res.MonthlyHeatmap, HeatmapCell{Year: p.Year, Month: p.Month, Value: formulas.Round(p.Return*100, 2)})
	}

	benchYearly := risk.YearlyReturns(dates, bench)
	for i, p := range risk.YearlyReturns(dates, pf) {
		res.YearlyReturns = append(res.YearlyReturns, YearlyReturn{
			Year:      p.Year,
			Portfolio: formulas.Round(p.Return*100, 2),
			Benchmark: formulas.Round(benchYearly[i].Return*100, 2),
		})
	}

	res.RiskMetrics = risk.Evaluate(log, pf, bench, dates).Rounded()
	res.Summary = summarize(sim, pf, bench, capital, res.RiskMetrics)
	res.PositionAttribution = attribute(returns, symbols, target)
	res.TradeLog = sim.TradeLog
	res.WeightHistory = sim.WeightHistory

	res.RollingVolatility = risk.Guard(log, "rolling_volatility", []risk.RollingVolatilityPoint{}, func() []risk.RollingVolatilityPoint {
		return nonNil(risk.RollingVolatility(dates, pf, bench))
	})
	res.RollingCorrelation = risk.Guard(log, "rolling_correlation", []risk.RollingCorrelationPoint{}, func() []risk.RollingCorrelationPoint {
		return nonNil(risk.RollingCorrelation(dates, pf, bench))
	})

	return res
}

func summarize(sim *Simulation, pf, bench []float64, capital float64, metrics risk.Metrics) Summary {
	n := len(pf)
	total := formulas.CompoundReturn(pf)

	cagr := -100.0
	if total > -1 {
		years := math.Max(float64(n)/formulas.TradingDaysPerYear, 0.01)
		cagr = (math.Pow(1+total, 1/years) - 1) * 100
	}

	finalValue := capital
	if len(sim.Values) > 0 {
		finalValue = sim.Values[len(sim.Values)-1]
	}

	worst, _ := formulas.MaxDrawdown(formulas.CumulativeGrowth(pf))

	return Summary{
		InitialCapital:       capital,
		FinalValue:           formulas.Round(finalValue, 2),
		TotalReturn:          formulas.Round(total*100, 2),
		CAGR:                 formulas.Round(cagr, 2),
		BenchmarkTotalReturn: formulas.Round(formulas.CompoundReturn(bench)*100, 2),
		MaxDrawdown:          formulas.Round(worst*100, 2),
		SharpeRatio:          metrics.SharpeRatio,
		SortinoRatio:         metrics.SortinoRatio,
		Volatility:           metrics.AnnualizedVolatility,
		CalmarRatio:          metrics.CalmarRatio,
		WinRate:              metrics.WinRate,
		BestDay:              metrics.BestDay,
		WorstDay:             metrics.WorstDay,
		TradingDays:          n,
		RebalanceEvents:      len(sim.TradeLog),
	}
}

// attribute sums each symbol's daily return times its fixed target weight.
func attribute(returns *series.ReturnMatrix, symbols []string, target map[string]float64) []PositionContribution {
	out := make([]PositionContribution, 0, len(symbols))
	for _, sym := range symbols {
		col := returns.ColumnOrZero(sym)
		contrib := 0.0
		for _, r := range col {
			contrib += r * target[sym]
		}
		out = append(out, PositionContribution{
			Symbol:       sym,
			Weight:       formulas.Round(target[sym]*100, 2),
			Contribution: formulas.Round(contrib*100, 2),
			TotalReturn:  formulas.Round(formulas.CompoundReturn(col)*100, 2),
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Contribution > out[j].Contribution })
	return out
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
