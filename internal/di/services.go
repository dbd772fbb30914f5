package di

import (
	"fmt"

	"github.com/axiome/analytics/internal/config"
	"github.com/axiome/analytics/internal/domain"
	"github.com/axiome/analytics/internal/modules/analytics"
	"github.com/axiome/analytics/internal/modules/backtest"
	"github.com/axiome/analytics/internal/modules/marketdata"
	"github.com/rs/zerolog"
)

// InitializeServices creates the repositories and services on top of the databases
func InitializeServices(container *Container, cfg *config.Config, log zerolog.Logger) error {
	if container.MarketDB == nil {
		return fmt.Errorf("market database not initialized")
	}

	container.HistoryStore = marketdata.NewHistoryStore(container.MarketDB.Conn(), log)

	container.AnalyticsService = analytics.NewService(
		container.HistoryStore,
		container.HistoryStore,
		domain.SystemClock{},
		analytics.Config{
			DefaultBenchmark:     cfg.Analytics.Benchmark,
			MaxConcurrentFetches: cfg.Analytics.MaxConcurrentFetches,
		},
		log,
	)

	container.BacktestService = backtest.NewService(
		container.HistoryStore,
		backtest.Config{
			DefaultBenchmark:     cfg.Analytics.Benchmark,
			DefaultCapital:       cfg.Analytics.InitialCapital,
			MaxConcurrentFetches: cfg.Analytics.MaxConcurrentFetches,
		},
		log,
	)

	log.Info().Msg("Services initialized")
	return nil
}
