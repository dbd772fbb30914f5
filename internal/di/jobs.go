package di

import (
	"context"
	"fmt"

	"github.com/axiome/analytics/internal/config"
	"github.com/axiome/analytics/internal/database"
	"github.com/axiome/analytics/internal/domain"
	"github.com/axiome/analytics/internal/reliability"
	"github.com/axiome/analytics/internal/scheduler"
	"github.com/axiome/analytics/internal/version"
	"github.com/rs/zerolog"
)

// RegisterJobs creates the maintenance jobs and schedules them. The scheduler
// is created but not started.
func RegisterJobs(container *Container, cfg *config.Config, log zerolog.Logger) (*JobInstances, error) {
	container.Scheduler = scheduler.New(log)

	jobs := &JobInstances{
		WALCheckpoint: scheduler.NewWALCheckpointJob(log, container.MarketDB),
		PriceRetention: scheduler.NewPriceRetentionJob(
			log,
			container.HistoryStore,
			container.MarketDB,
			domain.SystemClock{},
			cfg.Maintenance.PriceRetentionYears,
		),
	}

	if err := container.Scheduler.AddJob(cfg.Maintenance.WALCheckpointSchedule, jobs.WALCheckpoint); err != nil {
		return nil, fmt.Errorf("failed to register WAL checkpoint job: %w", err)
	}
	if err := container.Scheduler.AddJob(cfg.Maintenance.PriceRetentionSchedule, jobs.PriceRetention); err != nil {
		return nil, fmt.Errorf("failed to register price retention job: %w", err)
	}

	if !cfg.Backup.Enabled() {
		log.Info().Msg("Cloud backup disabled (no bucket configured)")
		return jobs, nil
	}

	if err := InitializeBackup(context.Background(), container, cfg, log); err != nil {
		return nil, err
	}
	jobs.Backup = reliability.NewBackupJob(container.BackupService, cfg.Backup.RetentionDays, log)
	if err := container.Scheduler.AddJob(cfg.Backup.Schedule, jobs.Backup); err != nil {
		return nil, fmt.Errorf("failed to register backup job: %w", err)
	}

	return jobs, nil
}

// InitializeBackup connects the object store and creates the backup service
func InitializeBackup(ctx context.Context, container *Container, cfg *config.Config, log zerolog.Logger) error {
	store, err := reliability.NewS3Store(ctx, reliability.S3Config{
		Bucket:          cfg.Backup.Bucket,
		Endpoint:        cfg.Backup.Endpoint,
		Region:          cfg.Backup.Region,
		AccessKeyID:     cfg.Backup.AccessKeyID,
		SecretAccessKey: cfg.Backup.SecretAccessKey,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize backup storage: %w", err)
	}

	container.BackupService = reliability.NewCloudBackupService(
		store,
		[]*database.DB{container.MarketDB},
		cfg.DataDir,
		cfg.Backup.Prefix,
		version.Version,
		domain.SystemClock{},
		log,
	)

	log.Info().Str("bucket", store.Bucket()).Str("schedule", cfg.Backup.Schedule).Msg("Cloud backup enabled")
	return nil
}
