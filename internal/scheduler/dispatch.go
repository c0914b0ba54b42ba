package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/courtbook/courtbook/internal/api/apiutil"
	"github.com/courtbook/courtbook/internal/config"
	"github.com/courtbook/courtbook/internal/db"
	dbgen "github.com/courtbook/courtbook/internal/db/generated"
	"github.com/courtbook/courtbook/internal/email"
	"github.com/courtbook/courtbook/internal/notify"
)

const dispatchJobTimeout = 2 * time.Minute

// RegisterNotificationDispatchJob registers the outbox drain: pending
// notification rows become WhatsApp click-to-chat links in the log plus an
// email receipt when the booking has an address and SES is configured.
func RegisterNotificationDispatchJob(database *db.DB, cfg *config.Config, emailClient email.EmailSender) error {
	if database == nil {
		return fmt.Errorf("notification dispatch job requires database")
	}

	jobName := "notification_dispatch"
	cronExpr := cfg.Scheduler.NotificationDispatchCron
	batchSize := cfg.Scheduler.NotificationBatchSize
	jobLogger := log.With().
		Str("component", "notification_dispatch_job").
		Str("job_name", jobName).
		Str("cron", cronExpr).
		Logger()

	_, err := AddJob(jobName, cronExpr, func() {
		ctx, cancel := context.WithTimeout(context.Background(), dispatchJobTimeout)
		defer cancel()
		ctx = jobLogger.WithContext(ctx)

		pending, err := database.Queries.ListPendingNotifications(ctx, int64(batchSize))
		if err != nil {
			jobLogger.Error().Err(err).Msg("Failed to load pending notifications")
			return
		}

		for _, row := range pending {
			if err := dispatchNotification(ctx, database.Queries, emailClient, row, &jobLogger); err != nil {
				jobLogger.Error().Err(err).Int64("notification_id", row.ID).Msg("Failed to dispatch notification")
				if markErr := database.Queries.MarkNotificationFailed(ctx, row.ID); markErr != nil {
					jobLogger.Error().Err(markErr).Int64("notification_id", row.ID).Msg("Failed to mark notification failed")
				}
				continue
			}
			if err := database.Queries.MarkNotificationSent(ctx, dbgen.MarkNotificationSentParams{
				SentAt: apiutil.ToNullTime(time.Now().UTC()),
				ID:     row.ID,
			}); err != nil {
				jobLogger.Error().Err(err).Int64("notification_id", row.ID).Msg("Failed to mark notification sent")
			}
		}
	}, gocron.WithSingletonMode(gocron.LimitModeWait))
	if err != nil {
		return fmt.Errorf("add notification dispatch job: %w", err)
	}

	jobLogger.Info().Msg("Notification dispatch job registered")
	return nil
}

// dispatchNotification performs the two delivery channels for one outbox row.
// There is no WhatsApp API integration; the click-to-chat link is logged for
// the front desk to forward.
func dispatchNotification(ctx context.Context, q *dbgen.Queries, emailClient email.EmailSender, row dbgen.Notification, logger *zerolog.Logger) error {
	if row.RecipientPhone.Valid {
		logger.Info().
			Int64("notification_id", row.ID).
			Int64("booking_id", row.BookingID).
			Str("type", row.Type).
			Str("whatsapp_link", notify.WhatsAppLink(row.RecipientPhone.String, row.Message)).
			Msg("WhatsApp notification ready")
	}

	if emailClient == nil {
		return nil
	}

	b, err := q.GetBooking(ctx, dbgen.GetBookingParams{ID: row.BookingID, ClubID: row.ClubID})
	if err != nil {
		return fmt.Errorf("load booking: %w", err)
	}
	if !b.PlayerEmail.Valid {
		return nil
	}

	message, ok := buildEmailForNotification(ctx, q, row, b, logger)
	if !ok {
		return nil
	}
	email.SendBookingEmail(ctx, emailClient, b.PlayerEmail.String, message, logger)
	return nil
}

func buildEmailForNotification(ctx context.Context, q *dbgen.Queries, row dbgen.Notification, b dbgen.Booking, logger *zerolog.Logger) (email.BookingEmail, bool) {
	clubName := ""
	currency := ""
	if club, err := q.GetClub(ctx, b.ClubID); err == nil {
		clubName = club.Name
		currency = club.Currency
	} else {
		logger.Warn().Err(err).Int64("club_id", b.ClubID).Msg("Failed to load club for notification email")
	}
	courtName := ""
	if court, err := q.GetCourt(ctx, dbgen.GetCourtParams{ID: b.CourtID, ClubID: b.ClubID}); err == nil {
		courtName = court.Name
	}

	switch row.Type {
	case notify.TypeBookingConfirmed:
		return email.BuildBookingConfirmation(email.ConfirmationDetails{
			ClubName:   clubName,
			CourtName:  courtName,
			Date:       b.Date,
			TimeRange:  email.FormatTimeRange(b.StartTime, b.EndTime),
			Price:      b.Price,
			Currency:   currency,
			SplitCount: b.SplitPaymentCount,
		}), true
	case notify.TypeBookingCancelled:
		return email.BuildBookingCancellation(email.CancellationDetails{
			ClubName:  clubName,
			CourtName: courtName,
			Date:      b.Date,
			TimeRange: email.FormatTimeRange(b.StartTime, b.EndTime),
			Currency:  currency,
		}), true
	}
	// payment_received stays WhatsApp-only.
	return email.BookingEmail{}, false
}
