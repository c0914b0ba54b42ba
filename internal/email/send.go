package email

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const bookingEmailTimeout = 5 * time.Second

// SendBookingEmail delivers a booking email asynchronously. Bookings carry
// their contact address directly, so the recipient comes from the caller
// rather than a user lookup.
func SendBookingEmail(ctx context.Context, client EmailSender, recipient string, message BookingEmail, logger *zerolog.Logger) {
	if client == nil {
		return
	}
	if message.Subject == "" || message.Body == "" {
		return
	}
	recipient = strings.TrimSpace(recipient)
	if recipient == "" {
		return
	}

	go func() {
		sendCtx, cancel := newEmailContext(ctx, bookingEmailTimeout)
		defer cancel()
		if sendCtx.Err() != nil {
			return
		}
		if err := client.Send(sendCtx, recipient, message.Subject, message.Body); err != nil && logger != nil {
			logger.Error().Err(err).Str("recipient", recipient).Msg("Failed to send booking email")
		}
	}()
}

// SendBookingEmailFrom is SendBookingEmail with a per-club sender override.
func SendBookingEmailFrom(ctx context.Context, client EmailSender, recipient string, message BookingEmail, sender string, logger *zerolog.Logger) {
	if client == nil {
		return
	}
	if message.Subject == "" || message.Body == "" {
		return
	}
	recipient = strings.TrimSpace(recipient)
	if recipient == "" {
		return
	}

	go func() {
		sendCtx, cancel := newEmailContext(ctx, bookingEmailTimeout)
		defer cancel()
		if sendCtx.Err() != nil {
			return
		}
		if err := client.SendFrom(sendCtx, recipient, message.Subject, message.Body, sender); err != nil && logger != nil {
			logger.Error().Err(err).Str("recipient", recipient).Msg("Failed to send booking email")
		}
	}()
}
