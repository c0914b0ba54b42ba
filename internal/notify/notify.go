// Package notify implements the outbound-message outbox. Lifecycle handlers
// enqueue rows after their transaction commits; a scheduler job drains the
// outbox. Enqueue failures are logged by callers and never fail a booking
// operation.
package notify

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"

	"github.com/nyaruka/phonenumbers"
	"github.com/rs/zerolog/log"

	dbgen "github.com/courtbook/courtbook/internal/db/generated"
)

// Notification types stored on outbox rows.
const (
	TypeBookingConfirmed = "booking_confirmed"
	TypeBookingCancelled = "booking_cancelled"
	TypePaymentReceived  = "payment_received"
)

const defaultPhoneRegion = "MX"

// Outbox enqueues notifications into the store for later dispatch.
type Outbox struct {
	queries *dbgen.Queries
}

func NewOutbox(q *dbgen.Queries) *Outbox {
	return &Outbox{queries: q}
}

// EnqueueBookingCancelled records a cancellation message for the booking's
// player. The dedupe key makes re-enqueueing the same event a no-op at the
// storage layer.
func (o *Outbox) EnqueueBookingCancelled(ctx context.Context, b dbgen.Booking, reason string) error {
	message := fmt.Sprintf(
		"Hola %s, tu reserva del %s %s-%s fue cancelada.",
		b.PlayerName, b.Date, b.StartTime, b.EndTime,
	)
	if reason != "" {
		message += " Motivo: " + reason
	}
	return o.enqueue(ctx, b, TypeBookingCancelled, message)
}

// EnqueueBookingConfirmed records a confirmation message for a new booking.
func (o *Outbox) EnqueueBookingConfirmed(ctx context.Context, b dbgen.Booking) error {
	message := fmt.Sprintf(
		"Hola %s, tu reserva del %s %s-%s esta confirmada.",
		b.PlayerName, b.Date, b.StartTime, b.EndTime,
	)
	return o.enqueue(ctx, b, TypeBookingConfirmed, message)
}

// EnqueuePaymentReceived records a message for a completed split share.
func (o *Outbox) EnqueuePaymentReceived(ctx context.Context, b dbgen.Booking, shareID int64, playerName string) error {
	message := fmt.Sprintf(
		"Pago recibido de %s para la reserva del %s %s-%s.",
		playerName, b.Date, b.StartTime, b.EndTime,
	)
	key := fmt.Sprintf("%s:%d:%d", TypePaymentReceived, b.ID, shareID)
	return o.insert(ctx, b, TypePaymentReceived, key, message)
}

func (o *Outbox) enqueue(ctx context.Context, b dbgen.Booking, notifType, message string) error {
	key := fmt.Sprintf("%s:%d", notifType, b.ID)
	return o.insert(ctx, b, notifType, key, message)
}

func (o *Outbox) insert(ctx context.Context, b dbgen.Booking, notifType, dedupeKey, message string) error {
	if o == nil || o.queries == nil {
		return fmt.Errorf("notification outbox not initialized")
	}

	phone := normalizePhone(b.PlayerPhone.String)

	_, err := o.queries.CreateNotification(ctx, dbgen.CreateNotificationParams{
		BookingID:      b.ID,
		ClubID:         b.ClubID,
		DedupeKey:      dedupeKey,
		Type:           notifType,
		RecipientPhone: phone,
		Message:        message,
	})
	if err != nil {
		// A duplicate dedupe key means this event was already enqueued.
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			log.Ctx(ctx).Debug().Str("dedupe_key", dedupeKey).Msg("Notification already enqueued")
			return nil
		}
		return fmt.Errorf("enqueue notification: %w", err)
	}
	return nil
}

// normalizePhone formats the stored phone as E.164 when parseable. Unparseable
// numbers come back null; the dispatcher skips WhatsApp delivery for those.
func normalizePhone(raw string) sql.NullString {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return sql.NullString{}
	}
	parsed, err := phonenumbers.Parse(raw, defaultPhoneRegion)
	if err != nil || !phonenumbers.IsValidNumber(parsed) {
		return sql.NullString{}
	}
	return sql.NullString{
		String: phonenumbers.Format(parsed, phonenumbers.E164),
		Valid:  true,
	}
}

// WhatsAppLink builds a click-to-chat URL for an E.164 phone and message.
func WhatsAppLink(phoneE164, message string) string {
	digits := strings.TrimPrefix(phoneE164, "+")
	return "https://wa.me/" + digits + "?text=" + url.QueryEscape(message)
}
