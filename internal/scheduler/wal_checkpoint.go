package scheduler

import (
	"github.com/axiome/analytics/internal/database"
	"github.com/rs/zerolog"
)

// walFramesWarning is the WAL size, in frames, above which a warning is logged
const walFramesWarning = 1000

// WALCheckpointJob checks WAL growth and truncates it
type WALCheckpointJob struct {
	log       zerolog.Logger
	databases []*database.DB
}

// NewWALCheckpointJob creates a job covering the given databases. Nil entries are skipped.
func NewWALCheckpointJob(log zerolog.Logger, databases ...*database.DB) *WALCheckpointJob {
	return &WALCheckpointJob{
		log:       log.With().Str("job", "wal_checkpoint").Logger(),
		databases: databases,
	}
}

// Name returns the job name
func (j *WALCheckpointJob) Name() string {
	return "wal_checkpoint"
}

// Run executes the checkpoint. A failing database does not stop the others.
func (j *WALCheckpointJob) Run() error {
	checked := 0
	for _, db := range j.databases {
		if db == nil {
			continue
		}

		// PRAGMA wal_checkpoint returns: busy, log, checkpointed
		var busy, frames, checkpointed int
		if err := db.Conn().QueryRow("PRAGMA wal_checkpoint(PASSIVE)").Scan(&busy, &frames, &checkpointed); err != nil {
			j.log.Warn().
				Err(err).
				Str("database", db.Name()).
				Msg("Failed to check WAL checkpoint")
			continue
		}

		if frames > walFramesWarning {
			j.log.Warn().
				Str("database", db.Name()).
				Int("wal_frames", frames).
				Int("checkpointed", checkpointed).
				Msg("WAL file is large, truncating")
		}

		if err := db.WALCheckpoint("TRUNCATE"); err != nil {
			j.log.Warn().Err(err).Str("database", db.Name()).Msg("WAL truncate failed")
			continue
		}
		checked++
	}

	j.log.Info().Int("checked", checked).Msg("WAL checkpoint completed")
	return nil
}
