// internal/api/notifications/handlers.go
package notifications

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/courtbook/courtbook/internal/api/apiutil"
	"github.com/courtbook/courtbook/internal/api/authz"
	dbgen "github.com/courtbook/courtbook/internal/db/generated"
)

var (
	queries     *dbgen.Queries
	queriesOnce sync.Once
)

const notificationsQueryTimeout = 5 * time.Second

func InitHandlers(q *dbgen.Queries) {
	if q == nil {
		return
	}
	queriesOnce.Do(func() {
		queries = q
	})
}

type notificationResponse struct {
	ID             int64  `json:"id"`
	BookingID      int64  `json:"bookingId"`
	Type           string `json:"type"`
	RecipientPhone string `json:"recipientPhone,omitempty"`
	Message        string `json:"message"`
	Status         string `json:"status"`
	Attempts       int64  `json:"attempts"`
	CreatedAt      string `json:"createdAt"`
	SentAt         string `json:"sentAt,omitempty"`
}

// HandleNotificationsForBooking serves the delivery log for one booking so
// front-desk staff can confirm a guest was actually notified.
// GET /api/v1/notifications?booking_id=&club_id=
func HandleNotificationsForBooking(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	q := queries
	if q == nil {
		logger.Error().Msg("Database queries not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	user := authz.UserFromContext(r.Context())
	if user == nil || !user.IsStaff {
		apiutil.WriteError(w, r, apiutil.HandlerError{
			Status:  http.StatusUnauthorized,
			Code:    apiutil.CodeUnauthorized,
			Message: "staff access required",
		})
		return
	}

	clubID, err := apiutil.ClubIDFromQuery(r)
	if err != nil {
		apiutil.WriteError(w, r, apiutil.ValidationError(err.Error(), err))
		return
	}
	if !apiutil.RequireClubAccess(w, r, clubID) {
		return
	}
	bookingID, err := apiutil.ParsePositiveInt64Field(r.URL.Query().Get("booking_id"), "booking_id")
	if err != nil {
		apiutil.WriteError(w, r, apiutil.ValidationError(err.Error(), err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), notificationsQueryTimeout)
	defer cancel()

	if _, err := q.GetBooking(ctx, dbgen.GetBookingParams{ID: bookingID, ClubID: clubID}); err != nil {
		apiutil.WriteError(w, r, apiutil.HandlerError{
			Status:  http.StatusNotFound,
			Code:    apiutil.CodeNotFound,
			Message: "booking not found",
		})
		return
	}

	rows, err := q.ListNotificationsForBooking(ctx, bookingID)
	if err != nil {
		logger.Error().Err(err).Int64("booking_id", bookingID).Msg("Failed to list notifications")
		apiutil.WriteError(w, r, apiutil.HandlerError{
			Status:  http.StatusInternalServerError,
			Code:    apiutil.CodeInternal,
			Message: "failed to load notifications",
		})
		return
	}

	out := make([]notificationResponse, 0, len(rows))
	for _, row := range rows {
		item := notificationResponse{
			ID:        row.ID,
			BookingID: row.BookingID,
			Type:      row.Type,
			Message:   row.Message,
			Status:    row.Status,
			Attempts:  row.Attempts,
			CreatedAt: row.CreatedAt.UTC().Format(time.RFC3339),
		}
		if row.RecipientPhone.Valid {
			item.RecipientPhone = row.RecipientPhone.String
		}
		if row.SentAt.Valid {
			item.SentAt = row.SentAt.Time.UTC().Format(time.RFC3339)
		}
		out = append(out, item)
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, map[string]any{"notifications": out}); err != nil {
		logger.Error().Err(err).Msg("Failed to write notifications response")
	}
}
