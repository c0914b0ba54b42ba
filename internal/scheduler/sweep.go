package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog/log"

	"github.com/courtbook/courtbook/internal/clock"
	"github.com/courtbook/courtbook/internal/config"
	"github.com/courtbook/courtbook/internal/db"
	dbgen "github.com/courtbook/courtbook/internal/db/generated"
)

const sweepJobTimeout = time.Minute

// RegisterBookingSweepJob registers the lifecycle sweep: CONFIRMED bookings
// whose start has passed move to IN_PROGRESS, and IN_PROGRESS bookings whose
// end has passed move to COMPLETED. The comparison runs per club because
// "now" is a club-local wall-clock question.
func RegisterBookingSweepJob(database *db.DB, cfg *config.Config) error {
	if database == nil {
		return fmt.Errorf("booking sweep job requires database")
	}

	jobName := "booking_sweep"
	cronExpr := cfg.Scheduler.BookingSweepCron
	jobLogger := log.With().
		Str("component", "booking_sweep_job").
		Str("job_name", jobName).
		Str("cron", cronExpr).
		Logger()

	_, err := AddJob(jobName, cronExpr, func() {
		ctx, cancel := context.WithTimeout(context.Background(), sweepJobTimeout)
		defer cancel()
		ctx = jobLogger.WithContext(ctx)

		clubs, err := database.Queries.ListActiveClubs(ctx)
		if err != nil {
			jobLogger.Error().Err(err).Msg("Failed to load clubs for booking sweep")
			return
		}

		for _, club := range clubs {
			started, completed, err := sweepClub(ctx, database.Queries, club)
			if err != nil {
				jobLogger.Error().Err(err).Int64("club_id", club.ID).Msg("Booking sweep failed for club")
				continue
			}
			if started > 0 || completed > 0 {
				jobLogger.Info().
					Int64("club_id", club.ID).
					Int64("started", started).
					Int64("completed", completed).
					Msg("Booking sweep advanced bookings")
			}
		}
	}, gocron.WithSingletonMode(gocron.LimitModeWait))
	if err != nil {
		return fmt.Errorf("add booking sweep job: %w", err)
	}

	jobLogger.Info().Msg("Booking sweep job registered")
	return nil
}

func sweepClub(ctx context.Context, q *dbgen.Queries, club dbgen.Club) (started, completed int64, err error) {
	now, err := clock.NowIn(club.Timezone)
	if err != nil {
		return 0, 0, fmt.Errorf("resolve club timezone: %w", err)
	}
	date := now.Format("2006-01-02")
	hhmm := now.Format("15:04")

	started, err = q.StartDueBookings(ctx, dbgen.StartDueBookingsParams{
		ClubID:    club.ID,
		Date:      date,
		StartTime: hhmm,
	})
	if err != nil {
		return 0, 0, fmt.Errorf("start due bookings: %w", err)
	}

	completed, err = q.CompleteDueBookings(ctx, dbgen.CompleteDueBookingsParams{
		ClubID:  club.ID,
		Date:    date,
		Date_2:  date,
		EndTime: hhmm,
	})
	if err != nil {
		return started, 0, fmt.Errorf("complete due bookings: %w", err)
	}

	return started, completed, nil
}
