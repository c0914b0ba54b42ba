// internal/api/splitpayments/handlers.go
//
// Split payments divide a booking's price into equal shares, each paid
// separately. Shares move pending -> completed (or failed); when every share
// configured on the booking is completed the booking's payment status flips
// to completed.
package splitpayments

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/courtbook/courtbook/internal/api/apiutil"
	"github.com/courtbook/courtbook/internal/booking"
	appdb "github.com/courtbook/courtbook/internal/db"
	dbgen "github.com/courtbook/courtbook/internal/db/generated"
	"github.com/courtbook/courtbook/internal/notify"
	"github.com/courtbook/courtbook/internal/payments"
)

var (
	queries     *dbgen.Queries
	store       *appdb.DB
	outbox      *notify.Outbox
	queriesOnce sync.Once
)

const splitQueryTimeout = 5 * time.Second

func InitHandlers(database *appdb.DB) {
	if database == nil {
		return
	}
	queriesOnce.Do(func() {
		queries = database.Queries
		store = database
		outbox = notify.NewOutbox(database.Queries)
	})
}

type shareResponse struct {
	ID          int64  `json:"id"`
	PlayerName  string `json:"playerName"`
	Amount      int64  `json:"amount"`
	Status      string `json:"status"`
	CompletedAt string `json:"completedAt,omitempty"`
}

type splitStatusResponse struct {
	BookingID     int64              `json:"bookingId"`
	PaymentStatus string             `json:"paymentStatus"`
	Shares        []shareResponse    `json:"shares"`
	Aggregate     payments.Aggregate `json:"aggregate"`
}

// GET /api/v1/bookings/{id}/split-payments?club_id=
func HandleSplitStatus(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if queries == nil {
		logger.Error().Msg("Database queries not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
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

	rawBookingID := strings.TrimSpace(r.PathValue("id"))
	if rawBookingID == "" {
		rawBookingID = r.URL.Query().Get("booking_id")
	}
	bookingID, err := strconv.ParseInt(rawBookingID, 10, 64)
	if err != nil || bookingID <= 0 {
		apiutil.WriteError(w, r, apiutil.ValidationError("booking_id must be a positive integer", err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), splitQueryTimeout)
	defer cancel()

	b, err := queries.GetBooking(ctx, dbgen.GetBookingParams{ID: bookingID, ClubID: clubID})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			apiutil.WriteError(w, r, apiutil.HandlerError{
				Status: http.StatusNotFound, Code: apiutil.CodeNotFound,
				Message: "booking not found", Err: err,
			})
			return
		}
		apiutil.WriteError(w, r, err)
		return
	}
	if !b.SplitPaymentEnabled {
		apiutil.WriteError(w, r, apiutil.HandlerError{
			Status: http.StatusBadRequest, Code: apiutil.CodeInvalidState,
			Message: "booking does not use split payments",
		})
		return
	}

	shares, err := queries.ListSplitPaymentsForBooking(ctx, bookingID)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	_ = apiutil.WriteJSON(w, http.StatusOK, splitStatusResponse{
		BookingID:     b.ID,
		PaymentStatus: b.PaymentStatus,
		Shares:        toShareResponses(shares),
		Aggregate:     payments.AggregateShares(b.Price, int(b.SplitPaymentCount), toShares(shares)),
	})
}

type completeShareRequest struct {
	ClubID    int64  `json:"clubId"`
	Method    string `json:"method,omitempty"`
	Reference string `json:"reference,omitempty"`
}

type completeShareResponse struct {
	Share         shareResponse      `json:"share"`
	PaymentStatus string             `json:"paymentStatus"`
	Aggregate     payments.Aggregate `json:"aggregate"`
	Settled       bool               `json:"settled"`
}

// POST /api/v1/split-payments/{id}/complete
//
// Records the share as paid. The share completion, the mirroring payment row,
// and the booking payment-status flip all commit together.
func HandleCompleteShare(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if queries == nil || store == nil {
		logger.Error().Msg("Database queries not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	shareID, err := strconv.ParseInt(strings.TrimSpace(r.PathValue("id")), 10, 64)
	if err != nil || shareID <= 0 {
		apiutil.WriteError(w, r, apiutil.ValidationError("invalid share ID", err))
		return
	}

	var req completeShareRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, r, apiutil.ValidationError("invalid request body", err))
		return
	}
	if !apiutil.RequireClubAccess(w, r, req.ClubID) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), splitQueryTimeout)
	defer cancel()

	var (
		completed dbgen.SplitPayment
		b         dbgen.Booking
		aggregate payments.Aggregate
	)
	err = store.RunInTx(ctx, func(txdb *appdb.DB) error {
		qtx := txdb.Queries

		share, err := qtx.GetSplitPayment(ctx, shareID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return apiutil.HandlerError{Status: http.StatusNotFound, Code: apiutil.CodeNotFound, Message: "split payment not found", Err: err}
			}
			return apiutil.HandlerError{Status: http.StatusInternalServerError, Code: apiutil.CodeInternal, Message: "failed to fetch split payment", Err: err}
		}

		b, err = qtx.GetBooking(ctx, dbgen.GetBookingParams{ID: share.BookingID, ClubID: req.ClubID})
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return apiutil.HandlerError{Status: http.StatusNotFound, Code: apiutil.CodeNotFound, Message: "booking not found", Err: err}
			}
			return apiutil.HandlerError{Status: http.StatusInternalServerError, Code: apiutil.CodeInternal, Message: "failed to fetch booking", Err: err}
		}
		if b.Status == booking.StatusCancelled {
			return apiutil.HandlerError{Status: http.StatusBadRequest, Code: apiutil.CodeInvalidState, Message: "cannot pay a share of a cancelled booking"}
		}

		switch share.Status {
		case booking.ShareStatusCompleted:
			return apiutil.HandlerError{Status: http.StatusBadRequest, Code: apiutil.CodeInvalidState, Message: "share is already paid"}
		case booking.ShareStatusCancelled:
			return apiutil.HandlerError{Status: http.StatusBadRequest, Code: apiutil.CodeInvalidState, Message: "share was cancelled"}
		}

		completed, err = qtx.CompleteSplitPayment(ctx, dbgen.CompleteSplitPaymentParams{
			CompletedAt: sql.NullTime{Time: time.Now().UTC(), Valid: true},
			ID:          shareID,
		})
		if err != nil {
			return apiutil.HandlerError{Status: http.StatusInternalServerError, Code: apiutil.CodeInternal, Message: "failed to complete split payment", Err: err}
		}

		method := req.Method
		if method == "" {
			method = "card"
		}
		if _, err := qtx.CreatePayment(ctx, dbgen.CreatePaymentParams{
			BookingID: b.ID,
			ClubID:    b.ClubID,
			Amount:    completed.Amount,
			Currency:  clubCurrency(ctx, qtx, b.ClubID),
			Method:    method,
			Status:    booking.PaymentCompleted,
			Reference: apiutil.ToNullString(req.Reference),
		}); err != nil {
			return apiutil.HandlerError{Status: http.StatusInternalServerError, Code: apiutil.CodeInternal, Message: "failed to record payment", Err: err}
		}

		shares, err := qtx.ListSplitPaymentsForBooking(ctx, b.ID)
		if err != nil {
			return apiutil.HandlerError{Status: http.StatusInternalServerError, Code: apiutil.CodeInternal, Message: "failed to list split payments", Err: err}
		}
		aggregate = payments.AggregateShares(b.Price, int(b.SplitPaymentCount), toShares(shares))

		if aggregate.Settled() && b.PaymentStatus != booking.PaymentCompleted {
			if err := qtx.UpdateBookingPaymentStatus(ctx, dbgen.UpdateBookingPaymentStatusParams{
				PaymentStatus: booking.PaymentCompleted,
				ID:            b.ID,
			}); err != nil {
				return apiutil.HandlerError{Status: http.StatusInternalServerError, Code: apiutil.CodeInternal, Message: "failed to update booking payment status", Err: err}
			}
			b.PaymentStatus = booking.PaymentCompleted
		}
		return nil
	})
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	if err := outbox.EnqueuePaymentReceived(ctx, b, completed.ID, completed.PlayerName); err != nil {
		logger.Warn().Err(err).Int64("share_id", completed.ID).Msg("Failed to enqueue payment notification")
	}

	logger.Info().
		Int64("booking_id", b.ID).
		Int64("share_id", completed.ID).
		Int64("amount", completed.Amount).
		Bool("settled", aggregate.Settled()).
		Msg("Split payment completed")

	_ = apiutil.WriteJSON(w, http.StatusOK, completeShareResponse{
		Share:         toShareResponse(completed),
		PaymentStatus: b.PaymentStatus,
		Aggregate:     aggregate,
		Settled:       aggregate.Settled(),
	})
}

func clubCurrency(ctx context.Context, q *dbgen.Queries, clubID int64) string {
	club, err := q.GetClub(ctx, clubID)
	if err != nil || club.Currency == "" {
		return "MXN"
	}
	return club.Currency
}

func toShareResponse(row dbgen.SplitPayment) shareResponse {
	resp := shareResponse{
		ID:         row.ID,
		PlayerName: row.PlayerName,
		Amount:     row.Amount,
		Status:     row.Status,
	}
	if row.CompletedAt.Valid {
		resp.CompletedAt = row.CompletedAt.Time.UTC().Format(time.RFC3339)
	}
	return resp
}

func toShareResponses(rows []dbgen.SplitPayment) []shareResponse {
	out := make([]shareResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, toShareResponse(row))
	}
	return out
}

func toShares(rows []dbgen.SplitPayment) []payments.Share {
	out := make([]payments.Share, 0, len(rows))
	for _, row := range rows {
		out = append(out, payments.Share{
			ID:         row.ID,
			PlayerName: row.PlayerName,
			Amount:     row.Amount,
			Status:     row.Status,
		})
	}
	return out
}
