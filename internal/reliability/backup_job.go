package reliability

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// BackupJob uploads a fresh archive and then rotates old ones
type BackupJob struct {
	service       *CloudBackupService
	retentionDays int
	timeout       time.Duration
	log           zerolog.Logger
}

// NewBackupJob creates the scheduled backup job
func NewBackupJob(service *CloudBackupService, retentionDays int, log zerolog.Logger) *BackupJob {
	return &BackupJob{
		service:       service,
		retentionDays: retentionDays,
		timeout:       30 * time.Minute,
		log:           log.With().Str("job", "cloud_backup").Logger(),
	}
}

// Name returns the job name
func (j *BackupJob) Name() string {
	return "cloud_backup"
}

// Run executes the job. A failed rotation is logged, not returned.
func (j *BackupJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	if _, err := j.service.CreateAndUploadBackup(ctx); err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}

	if _, err := j.service.RotateOldBackups(ctx, j.retentionDays); err != nil {
		j.log.Warn().Err(err).Msg("Backup rotation failed")
	}
	return nil
}
