package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/axiome/analytics/internal/domain"
	"github.com/axiome/analytics/internal/utils"
	"github.com/rs/zerolog"
)

// vacuumPages is how many free pages one retention run hands back to the filesystem
const vacuumPages = 1000

// PriceStore is the part of the history store the retention job needs
type PriceStore interface {
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Vacuumer releases free pages after deletes
type Vacuumer interface {
	IncrementalVacuum(pages int) error
}

// PriceRetentionJob deletes daily prices older than the retention window
type PriceRetentionJob struct {
	log     zerolog.Logger
	store   PriceStore
	vacuum  Vacuumer
	clock   domain.Clock
	years   int
	timeout time.Duration
}

// NewPriceRetentionJob creates the job. years <= 0 keeps all prices. vacuum may be nil.
func NewPriceRetentionJob(log zerolog.Logger, store PriceStore, vacuum Vacuumer, clock domain.Clock, years int) *PriceRetentionJob {
	if clock == nil {
		clock = domain.SystemClock{}
	}
	return &PriceRetentionJob{
		log:     log.With().Str("job", "price_retention").Logger(),
		store:   store,
		vacuum:  vacuum,
		clock:   clock,
		years:   years,
		timeout: 5 * time.Minute,
	}
}

// Name returns the job name
func (j *PriceRetentionJob) Name() string {
	return "price_retention"
}

// Cutoff is the first day that is kept
func (j *PriceRetentionJob) Cutoff() time.Time {
	return domain.Day(j.clock.Now()).AddDate(-j.years, 0, 0)
}

// Run deletes expired prices
func (j *PriceRetentionJob) Run() error {
	if j.years <= 0 {
		j.log.Debug().Msg("Price retention disabled")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	cutoff := j.Cutoff()
	done := utils.MeasureDBQuery("delete_expired_prices", j.log)
	deleted, err := j.store.DeleteBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to delete prices before %s: %w", domain.FormatDay(cutoff), err)
	}
	done(deleted)

	if deleted > 0 && j.vacuum != nil {
		if err := j.vacuum.IncrementalVacuum(vacuumPages); err != nil {
			j.log.Warn().Err(err).Msg("Incremental vacuum failed")
		}
	}

	j.log.Info().
		Int64("deleted", deleted).
		Str("cutoff", domain.FormatDay(cutoff)).
		Msg("Price retention completed")
	return nil
}
