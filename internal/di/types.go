/**
 * Package di provides dependency injection type definitions.
 *
 * The Container is the single source of truth for all service instances and is
 * passed to the server and the CLI for access to services.
 */
package di

import (
	"github.com/axiome/analytics/internal/database"
	"github.com/axiome/analytics/internal/modules/analytics"
	"github.com/axiome/analytics/internal/modules/backtest"
	"github.com/axiome/analytics/internal/modules/marketdata"
	"github.com/axiome/analytics/internal/reliability"
	"github.com/axiome/analytics/internal/scheduler"
)

// Container holds all dependencies for the application
type Container struct {
	// Databases
	MarketDB *database.DB // market.db - daily prices and instrument metadata

	// Repositories
	HistoryStore *marketdata.HistoryStore

	// Services
	AnalyticsService *analytics.Service
	BacktestService  *backtest.Service
	BackupService    *reliability.CloudBackupService // nil unless a backup bucket is configured

	// Background jobs
	Scheduler *scheduler.Scheduler
}

// JobInstances holds the registered maintenance jobs for manual triggering
type JobInstances struct {
	WALCheckpoint  scheduler.Job
	PriceRetention scheduler.Job
	Backup         scheduler.Job // nil when backups are disabled
}

// Close releases every database held by the container
func (c *Container) Close() error {
	if c == nil || c.MarketDB == nil {
		return nil
	}
	return c.MarketDB.Close()
}
