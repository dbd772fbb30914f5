package di

import (
	"context"
	"testing"

	"github.com/axiome/analytics/internal/config"
	"github.com/axiome/analytics/internal/database"
	testingpkg "github.com/axiome/analytics/internal/testing"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	cfg := config.Defaults()
	cfg.DataDir = t.TempDir()
	return cfg
}

func TestWire(t *testing.T) {
	cfg := testConfig(t)

	container, jobs, err := Wire(cfg, zerolog.Nop())
	require.NoError(t, err)
	defer container.Close()

	assert.NotNil(t, container.MarketDB)
	assert.NotNil(t, container.HistoryStore)
	assert.NotNil(t, container.AnalyticsService)
	assert.NotNil(t, container.BacktestService)
	assert.Equal(t, 2, container.Scheduler.Jobs())
	assert.Equal(t, "wal_checkpoint", jobs.WALCheckpoint.Name())
	assert.Equal(t, "price_retention", jobs.PriceRetention.Name())

	// The schema is applied: the store can read and write
	ctx := context.Background()
	require.NoError(t, container.HistoryStore.SavePrices(ctx, testingpkg.NewPriceSeries("AAPL", testingpkg.Day(2024, 1, 2), 100, 101)))
	symbols, err := container.HistoryStore.Symbols(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL"}, symbols)

	assert.NoError(t, jobs.WALCheckpoint.Run())
	assert.NoError(t, jobs.PriceRetention.Run())
}

func TestWire_MattnDriver(t *testing.T) {
	cfg := testConfig(t)
	cfg.DBDriver = database.DriverMattn

	container, _, err := Wire(cfg, zerolog.Nop())
	require.NoError(t, err)
	defer container.Close()

	assert.Equal(t, database.DriverMattn, container.MarketDB.Driver())
}

func TestWire_DisabledJobs(t *testing.T) {
	cfg := testConfig(t)
	cfg.Maintenance.WALCheckpointSchedule = ""
	cfg.Maintenance.PriceRetentionSchedule = ""

	container, _, err := Wire(cfg, zerolog.Nop())
	require.NoError(t, err)
	defer container.Close()

	assert.Equal(t, 0, container.Scheduler.Jobs())
}

func TestInitializeServices_NoDatabase(t *testing.T) {
	err := InitializeServices(&Container{}, config.Defaults(), zerolog.Nop())
	assert.Error(t, err)
}

func TestWire_BackupEnabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.Backup.Bucket = "axiome-backups"
	cfg.Backup.Endpoint = "http://127.0.0.1:9000"
	cfg.Backup.AccessKeyID = "key"
	cfg.Backup.SecretAccessKey = "secret"

	container, jobs, err := Wire(cfg, zerolog.Nop())
	require.NoError(t, err)
	defer container.Close()

	assert.NotNil(t, container.BackupService)
	require.NotNil(t, jobs.Backup)
	assert.Equal(t, "cloud_backup", jobs.Backup.Name())
	assert.Equal(t, 3, container.Scheduler.Jobs())
}

func TestWire_BackupDisabledByDefault(t *testing.T) {
	container, jobs, err := Wire(testConfig(t), zerolog.Nop())
	require.NoError(t, err)
	defer container.Close()

	assert.Nil(t, container.BackupService)
	assert.Nil(t, jobs.Backup)
}
