// internal/api/bookings/handlers.go
package bookings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/courtbook/courtbook/internal/api/apiutil"
	"github.com/courtbook/courtbook/internal/api/authz"
	"github.com/courtbook/courtbook/internal/booking"
	"github.com/courtbook/courtbook/internal/clock"
	"github.com/courtbook/courtbook/internal/config"
	appdb "github.com/courtbook/courtbook/internal/db"
	dbgen "github.com/courtbook/courtbook/internal/db/generated"
	"github.com/courtbook/courtbook/internal/notify"
	"github.com/courtbook/courtbook/internal/payments"
)

var (
	queries     *dbgen.Queries
	store       *appdb.DB
	outbox      *notify.Outbox
	appConfig   *config.Config
	queriesOnce sync.Once
)

const bookingQueryTimeout = 5 * time.Second

// Club settings fallbacks used when a club has no settings row.
const (
	defaultSlotDuration    = 90
	defaultBufferTime      = 15
	defaultAdvanceDays     = 30
	defaultCancellationFee = 0
)

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(database *appdb.DB, cfg *config.Config) {
	if database == nil {
		return
	}
	queriesOnce.Do(func() {
		queries = database.Queries
		store = database
		outbox = notify.NewOutbox(database.Queries)
		appConfig = cfg
	})
}

type participantRequest struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

type bookingCreateRequest struct {
	ClubID              int64                `json:"clubId"`
	CourtID             int64                `json:"courtId"`
	Date                string               `json:"date"`
	StartTime           string               `json:"startTime"`
	DurationMinutes     int64                `json:"durationMinutes,omitempty"`
	Price               int64                `json:"price"`
	PlayerName          string               `json:"playerName"`
	PlayerEmail         string               `json:"playerEmail,omitempty"`
	PlayerPhone         string               `json:"playerPhone,omitempty"`
	TotalPlayers        int64                `json:"totalPlayers,omitempty"`
	Notes               string               `json:"notes,omitempty"`
	SplitPaymentEnabled bool                 `json:"splitPaymentEnabled,omitempty"`
	SplitPaymentCount   int64                `json:"splitPaymentCount,omitempty"`
	Participants        []participantRequest `json:"participants,omitempty"`
}

type bookingCancelRequest struct {
	Reason       string `json:"reason,omitempty"`
	RefundAmount *int64 `json:"refundAmount,omitempty"`
}

type bookingResponse struct {
	ID                  int64  `json:"id"`
	ClubID              int64  `json:"clubId"`
	CourtID             int64  `json:"courtId"`
	Date                string `json:"date"`
	StartTime           string `json:"startTime"`
	EndTime             string `json:"endTime"`
	Duration            int64  `json:"duration"`
	Price               int64  `json:"price"`
	Status              string `json:"status"`
	PaymentStatus       string `json:"paymentStatus"`
	SplitPaymentEnabled bool   `json:"splitPaymentEnabled"`
	SplitPaymentCount   int64  `json:"splitPaymentCount"`
	PlayerName          string `json:"playerName"`
	PlayerEmail         string `json:"playerEmail,omitempty"`
	PlayerPhone         string `json:"playerPhone,omitempty"`
	TotalPlayers        int64  `json:"totalPlayers"`
	Notes               string `json:"notes,omitempty"`
	CheckedIn           bool   `json:"checkedIn"`
	CancelledAt         string `json:"cancelledAt,omitempty"`
}

func newBookingResponse(b dbgen.Booking) bookingResponse {
	resp := bookingResponse{
		ID:                  b.ID,
		ClubID:              b.ClubID,
		CourtID:             b.CourtID,
		Date:                b.Date,
		StartTime:           b.StartTime,
		EndTime:             b.EndTime,
		Duration:            b.Duration,
		Price:               b.Price,
		Status:              b.Status,
		PaymentStatus:       b.PaymentStatus,
		SplitPaymentEnabled: b.SplitPaymentEnabled,
		SplitPaymentCount:   b.SplitPaymentCount,
		PlayerName:          b.PlayerName,
		PlayerEmail:         b.PlayerEmail.String,
		PlayerPhone:         b.PlayerPhone.String,
		TotalPlayers:        b.TotalPlayers,
		Notes:               b.Notes.String,
		CheckedIn:           b.CheckedIn,
	}
	if b.CancelledAt.Valid {
		resp.CancelledAt = b.CancelledAt.Time.UTC().Format(time.RFC3339)
	}
	return resp
}

type refundResponse struct {
	Amount int64  `json:"amount"`
	Status string `json:"status"`
}

// POST /api/v1/bookings
func HandleBookingCreate(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if queries == nil || store == nil {
		logger.Error().Msg("Database queries not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	var req bookingCreateRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, r, apiutil.ValidationError("invalid request body", err))
		return
	}

	if !apiutil.RequireClubAccess(w, r, req.ClubID) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), bookingQueryTimeout)
	defer cancel()

	club, err := queries.GetClub(ctx, req.ClubID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			apiutil.WriteError(w, r, apiutil.HandlerError{
				Status: http.StatusNotFound, Code: apiutil.CodeNotFound,
				Message: "club not found", Err: err,
			})
			return
		}
		apiutil.WriteError(w, r, err)
		return
	}
	settings, err := loadSettings(ctx, req.ClubID)
	if err != nil {
		apiutil.WriteError(w, r, apiutil.HandlerError{
			Status: http.StatusInternalServerError, Code: apiutil.CodeInternal,
			Message: "failed to load club settings", Err: err,
		})
		return
	}

	court, err := queries.GetCourt(ctx, dbgen.GetCourtParams{ID: req.CourtID, ClubID: req.ClubID})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			apiutil.WriteError(w, r, apiutil.HandlerError{
				Status: http.StatusNotFound, Code: apiutil.CodeNotFound,
				Message: "court not found", Err: err,
			})
			return
		}
		apiutil.WriteError(w, r, err)
		return
	}
	if !court.Active {
		apiutil.WriteError(w, r, apiutil.HandlerError{
			Status: http.StatusBadRequest, Code: apiutil.CodeValidation,
			Message: "court is not active",
		})
		return
	}

	duration := req.DurationMinutes
	if duration == 0 {
		duration = settings.SlotDuration
	}
	if err := validateCreateInput(req, duration); err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	endTime, err := computeEndTime(req.StartTime, duration)
	if err != nil {
		apiutil.WriteError(w, r, apiutil.ValidationError(err.Error(), err))
		return
	}

	if herr := validateBookingWindow(ctx, club, settings, req.Date, req.StartTime, endTime); herr != nil {
		apiutil.WriteError(w, r, *herr)
		return
	}

	var created dbgen.Booking
	err = store.RunInTx(ctx, func(txdb *appdb.DB) error {
		qtx := txdb.Queries

		// Re-check for overlap inside the transaction. SQLite's single
		// writer plus the partial unique index on (court_id, date,
		// start_time) close the read-then-write race.
		existing, err := qtx.ListActiveBookingsForCourtDay(ctx, dbgen.ListActiveBookingsForCourtDayParams{
			CourtID: req.CourtID,
			Date:    req.Date,
		})
		if err != nil {
			return apiutil.HandlerError{Status: http.StatusInternalServerError, Code: apiutil.CodeInternal, Message: "failed to check availability", Err: err}
		}
		conflicted, conflict, err := booking.HasConflict(req.StartTime, endTime, toExisting(existing), int(settings.BufferTime))
		if err != nil {
			return apiutil.ValidationError(err.Error(), err)
		}
		if conflicted {
			return apiutil.HandlerError{
				Status: http.StatusConflict, Code: apiutil.CodeConflict,
				Message: fmt.Sprintf("slot %s-%s is already booked by %s", req.StartTime, endTime, conflict.PlayerName),
			}
		}

		totalPlayers := req.TotalPlayers
		if totalPlayers == 0 {
			totalPlayers = 1
		}
		created, err = qtx.CreateBooking(ctx, dbgen.CreateBookingParams{
			ClubID:              req.ClubID,
			CourtID:             req.CourtID,
			Date:                req.Date,
			StartTime:           req.StartTime,
			EndTime:             endTime,
			Duration:            duration,
			Price:               req.Price,
			Status:              booking.StatusConfirmed,
			PlayerName:          strings.TrimSpace(req.PlayerName),
			PlayerEmail:         apiutil.ToNullString(req.PlayerEmail),
			PlayerPhone:         apiutil.ToNullString(req.PlayerPhone),
			TotalPlayers:        totalPlayers,
			SplitPaymentEnabled: req.SplitPaymentEnabled,
			SplitPaymentCount:   req.SplitPaymentCount,
			Notes:               apiutil.ToNullString(strings.TrimSpace(req.Notes)),
		})
		if err != nil {
			if strings.Contains(err.Error(), "UNIQUE constraint failed") {
				return apiutil.HandlerError{
					Status: http.StatusConflict, Code: apiutil.CodeConflict,
					Message: fmt.Sprintf("slot %s-%s is already booked", req.StartTime, endTime),
					Err:     err,
				}
			}
			return apiutil.HandlerError{Status: http.StatusInternalServerError, Code: apiutil.CodeInternal, Message: "failed to create booking", Err: err}
		}

		if req.SplitPaymentEnabled {
			if err := createSplitShares(ctx, qtx, created, req); err != nil {
				return apiutil.HandlerError{Status: http.StatusInternalServerError, Code: apiutil.CodeInternal, Message: "failed to create split shares", Err: err}
			}
		}
		return nil
	})
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	// Fire-and-forget: a failed enqueue never unwinds the booking.
	if err := outbox.EnqueueBookingConfirmed(ctx, created); err != nil {
		logger.Warn().Err(err).Int64("booking_id", created.ID).Msg("Failed to enqueue confirmation notification")
	}

	logger.Info().
		Int64("booking_id", created.ID).
		Int64("club_id", created.ClubID).
		Int64("court_id", created.CourtID).
		Str("date", created.Date).
		Msg("Booking created")

	_ = apiutil.WriteJSON(w, http.StatusCreated, newBookingResponse(created))
}

// GET /api/v1/bookings/{id}?club_id=...
func HandleBookingGet(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if queries == nil {
		logger.Error().Msg("Database queries not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	bookingID, clubID, ok := bookingScopeFromRequest(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), bookingQueryTimeout)
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

	totalPaid, err := queries.SumCompletedPayments(ctx, bookingID)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	resp := map[string]any{
		"booking":   newBookingResponse(b),
		"totalPaid": totalPaid,
	}
	if b.SplitPaymentEnabled {
		shares, err := queries.ListSplitPaymentsForBooking(ctx, bookingID)
		if err != nil {
			apiutil.WriteError(w, r, err)
			return
		}
		resp["splitPayments"] = toShareResponses(shares)
		resp["aggregate"] = payments.AggregateShares(b.Price, int(b.SplitPaymentCount), toShares(shares))
	}

	_ = apiutil.WriteJSON(w, http.StatusOK, resp)
}

// DELETE /api/v1/bookings/{id}?club_id=...
func HandleBookingCancel(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if queries == nil || store == nil {
		logger.Error().Msg("Database queries not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	bookingID, clubID, ok := bookingScopeFromRequest(w, r)
	if !ok {
		return
	}

	var req bookingCancelRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := apiutil.DecodeJSON(r, &req); err != nil {
			apiutil.WriteError(w, r, apiutil.ValidationError("invalid request body", err))
			return
		}
	}
	if req.RefundAmount != nil && *req.RefundAmount < 0 {
		apiutil.WriteError(w, r, apiutil.ValidationError("refundAmount must be 0 or greater", nil))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), bookingQueryTimeout)
	defer cancel()

	settings, err := loadSettings(ctx, clubID)
	if err != nil {
		apiutil.WriteError(w, r, apiutil.HandlerError{
			Status: http.StatusInternalServerError, Code: apiutil.CodeInternal,
			Message: "failed to load club settings", Err: err,
		})
		return
	}
	clampFloor := true
	if appConfig != nil && appConfig.Booking.ClampRefundFloor != nil {
		clampFloor = *appConfig.Booking.ClampRefundFloor
	}

	var (
		cancelled    dbgen.Booking
		refundAmount int64
	)
	err = store.RunInTx(ctx, func(txdb *appdb.DB) error {
		qtx := txdb.Queries

		b, err := qtx.GetBooking(ctx, dbgen.GetBookingParams{ID: bookingID, ClubID: clubID})
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return apiutil.HandlerError{Status: http.StatusNotFound, Code: apiutil.CodeNotFound, Message: "booking not found", Err: err}
			}
			return apiutil.HandlerError{Status: http.StatusInternalServerError, Code: apiutil.CodeInternal, Message: "failed to fetch booking", Err: err}
		}

		switch b.Status {
		case booking.StatusCancelled:
			return apiutil.HandlerError{Status: http.StatusBadRequest, Code: apiutil.CodeInvalidState, Message: "booking is already cancelled"}
		case booking.StatusInProgress:
			return apiutil.HandlerError{Status: http.StatusBadRequest, Code: apiutil.CodeInvalidState, Message: "cannot cancel a booking that is in progress"}
		case booking.StatusCompleted:
			return apiutil.HandlerError{Status: http.StatusBadRequest, Code: apiutil.CodeInvalidState, Message: "cannot cancel a booking that has finished"}
		}

		totalPaid, err := qtx.SumCompletedPayments(ctx, bookingID)
		if err != nil {
			return apiutil.HandlerError{Status: http.StatusInternalServerError, Code: apiutil.CodeInternal, Message: "failed to sum payments", Err: err}
		}

		refundAmount = payments.RefundAmount(totalPaid, settings.CancellationFee, req.RefundAmount, clampFloor)

		paymentStatus := b.PaymentStatus
		if refundAmount > 0 {
			if _, err := qtx.CreatePayment(ctx, dbgen.CreatePaymentParams{
				BookingID: bookingID,
				ClubID:    clubID,
				Amount:    -refundAmount,
				Currency:  clubCurrency(ctx, qtx, clubID),
				Method:    "refund",
				Status:    booking.PaymentRefunded,
			}); err != nil {
				return apiutil.HandlerError{Status: http.StatusInternalServerError, Code: apiutil.CodeInternal, Message: "failed to create refund payment", Err: err}
			}
			paymentStatus = booking.PaymentRefunded
		}

		cancelled, err = qtx.CancelBooking(ctx, dbgen.CancelBookingParams{
			PaymentStatus: paymentStatus,
			CancelledAt:   sql.NullTime{Time: time.Now().UTC(), Valid: true},
			Notes:         appendNote(b.Notes, req.Reason),
			ID:            bookingID,
			ClubID:        clubID,
		})
		if err != nil {
			return apiutil.HandlerError{Status: http.StatusInternalServerError, Code: apiutil.CodeInternal, Message: "failed to cancel booking", Err: err}
		}

		if b.SplitPaymentEnabled {
			// Completed and failed shares keep their state; only
			// pending shares cascade.
			if _, err := qtx.CancelPendingSplitPayments(ctx, bookingID); err != nil {
				return apiutil.HandlerError{Status: http.StatusInternalServerError, Code: apiutil.CodeInternal, Message: "failed to cancel split shares", Err: err}
			}
		}
		return nil
	})
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	if err := outbox.EnqueueBookingCancelled(ctx, cancelled, req.Reason); err != nil {
		logger.Warn().Err(err).Int64("booking_id", bookingID).Msg("Failed to enqueue cancellation notification")
	}

	logger.Info().
		Int64("booking_id", bookingID).
		Int64("refund_amount", refundAmount).
		Msg("Booking cancelled")

	var refund *refundResponse
	if refundAmount > 0 {
		refund = &refundResponse{Amount: refundAmount, Status: booking.PaymentProcessing}
	}
	_ = apiutil.WriteJSON(w, http.StatusOK, map[string]any{
		"booking": newBookingResponse(cancelled),
		"refund":  refund,
	})
}

// POST /api/v1/bookings/{id}/checkin?club_id=...
func HandleBookingCheckIn(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if queries == nil {
		logger.Error().Msg("Database queries not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	bookingID, clubID, ok := bookingScopeFromRequest(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), bookingQueryTimeout)
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

	switch b.Status {
	case booking.StatusCancelled:
		apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusBadRequest, Code: apiutil.CodeInvalidState, Message: "cannot check in a cancelled booking"})
		return
	case booking.StatusCompleted:
		apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusBadRequest, Code: apiutil.CodeInvalidState, Message: "cannot check in a finished booking"})
		return
	}
	if b.CheckedIn {
		apiutil.WriteError(w, r, apiutil.HandlerError{Status: http.StatusBadRequest, Code: apiutil.CodeInvalidState, Message: "booking is already checked in"})
		return
	}

	var checkedInBy sql.NullInt64
	if user := authUserID(r); user != 0 {
		checkedInBy = sql.NullInt64{Int64: user, Valid: true}
	}

	updated, err := queries.CheckInBooking(ctx, dbgen.CheckInBookingParams{
		CheckedInAt: sql.NullTime{Time: time.Now().UTC(), Valid: true},
		CheckedInBy: checkedInBy,
		ID:          bookingID,
		ClubID:      clubID,
	})
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	logger.Info().Int64("booking_id", bookingID).Msg("Booking checked in")
	_ = apiutil.WriteJSON(w, http.StatusOK, newBookingResponse(updated))
}

func validateCreateInput(req bookingCreateRequest, duration int64) error {
	switch {
	case req.CourtID <= 0:
		return apiutil.ValidationError("courtId must be a positive integer", nil)
	case strings.TrimSpace(req.PlayerName) == "":
		return apiutil.ValidationError("playerName is required", nil)
	case req.Price < 0:
		return apiutil.ValidationError("price must be 0 or greater", nil)
	case duration <= 0:
		return apiutil.ValidationError("durationMinutes must be greater than 0", nil)
	case req.TotalPlayers < 0:
		return apiutil.ValidationError("totalPlayers must be 0 or greater", nil)
	}
	if req.SplitPaymentEnabled && req.SplitPaymentCount < 2 {
		return apiutil.ValidationError("splitPaymentCount must be at least 2", nil)
	}
	if req.SplitPaymentEnabled && len(req.Participants) > int(req.SplitPaymentCount) {
		return apiutil.ValidationError("more participants than configured shares", nil)
	}
	return nil
}

func computeEndTime(startTime string, duration int64) (string, error) {
	start, err := clock.ParseClockTime(startTime)
	if err != nil {
		return "", fmt.Errorf("invalid startTime: %w", err)
	}
	end := start + int(duration)
	if end > 24*60 {
		return "", fmt.Errorf("booking may not extend past midnight")
	}
	return clock.FormatClockTime(end), nil
}

// validateBookingWindow enforces the clock rules: parseable date in the
// club's timezone, no bookings in the past, the advance-booking horizon, and
// the day's operating hours when a schedule rule exists.
func validateBookingWindow(ctx context.Context, club dbgen.Club, settings dbgen.ClubSetting, date, startTime, endTime string) *apiutil.HandlerError {
	dayStart, _, err := clock.DayBoundaries(date, club.Timezone)
	if err != nil {
		return clockError(err)
	}

	now, err := clock.NowIn(club.Timezone)
	if err != nil {
		return clockError(err)
	}

	startInstant, err := clock.SlotStart(date, startTime, club.Timezone)
	if err != nil {
		return clockError(err)
	}
	if startInstant.Before(now) {
		return &apiutil.HandlerError{
			Status: http.StatusBadRequest, Code: apiutil.CodeValidation,
			Message: "cannot book a slot in the past",
		}
	}

	isToday, err := clock.SameLocalDay(date, now, club.Timezone)
	if err != nil {
		return clockError(err)
	}
	if isToday && !settings.AllowSameDayBooking {
		return &apiutil.HandlerError{
			Status: http.StatusBadRequest, Code: apiutil.CodeValidation,
			Message: "same-day booking is not allowed for this club",
		}
	}

	horizon := now.AddDate(0, 0, int(settings.AdvanceBookingDays))
	if dayStart.After(horizon) {
		return &apiutil.HandlerError{
			Status: http.StatusBadRequest, Code: apiutil.CodeValidation,
			Message: fmt.Sprintf("bookings may only be made up to %d days in advance", settings.AdvanceBookingDays),
		}
	}

	weekday := int64(startInstant.In(now.Location()).Weekday())
	rule, err := queries.GetScheduleRule(ctx, dbgen.GetScheduleRuleParams{ClubID: club.ID, DayOfWeek: weekday})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		herr := apiutil.HandlerError{Status: http.StatusInternalServerError, Code: apiutil.CodeInternal, Message: "failed to load schedule", Err: err}
		return &herr
	}
	if !rule.Enabled {
		return &apiutil.HandlerError{
			Status: http.StatusBadRequest, Code: apiutil.CodeValidation,
			Message: "the club is closed on that day",
		}
	}
	if startTime < rule.OpensAt || endTime > rule.ClosesAt {
		return &apiutil.HandlerError{
			Status: http.StatusBadRequest, Code: apiutil.CodeValidation,
			Message: fmt.Sprintf("booking must fall within operating hours %s-%s", rule.OpensAt, rule.ClosesAt),
		}
	}
	return nil
}

func clockError(err error) *apiutil.HandlerError {
	code := apiutil.CodeValidation
	switch {
	case errors.Is(err, clock.ErrInvalidTimezone):
		code = apiutil.CodeInvalidTimezone
	case errors.Is(err, clock.ErrInvalidDate):
		code = apiutil.CodeInvalidDate
	}
	return &apiutil.HandlerError{
		Status: http.StatusBadRequest, Code: code,
		Message: err.Error(), Err: err,
	}
}

// createSplitShares divides the price into equal rounded-up shares. The first
// share belongs to the organizer and carries their contact details.
func createSplitShares(ctx context.Context, qtx *dbgen.Queries, b dbgen.Booking, req bookingCreateRequest) error {
	shareAmount := payments.ShareAmount(b.Price, int(b.SplitPaymentCount))
	for i := int64(0); i < b.SplitPaymentCount; i++ {
		params := dbgen.CreateSplitPaymentParams{
			BookingID:  b.ID,
			PlayerName: fmt.Sprintf("Player %d", i+1),
			Amount:     shareAmount,
		}
		if i == 0 {
			params.PlayerName = b.PlayerName
			params.PlayerEmail = b.PlayerEmail
			params.PlayerPhone = b.PlayerPhone
		} else if int(i-1) < len(req.Participants) {
			p := req.Participants[i-1]
			if strings.TrimSpace(p.Name) != "" {
				params.PlayerName = strings.TrimSpace(p.Name)
			}
			params.PlayerEmail = apiutil.ToNullString(p.Email)
			params.PlayerPhone = apiutil.ToNullString(p.Phone)
		}
		if _, err := qtx.CreateSplitPayment(ctx, params); err != nil {
			return err
		}
	}
	return nil
}

func appendNote(existing sql.NullString, reason string) sql.NullString {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return existing
	}
	note := "Cancelled: " + reason
	if existing.Valid && existing.String != "" {
		return sql.NullString{String: existing.String + "\n" + note, Valid: true}
	}
	return sql.NullString{String: note, Valid: true}
}

// loadSettings falls back to defaults only when the club has no settings row.
// Any other store error is surfaced: defaulting on a transient failure would
// silently zero the cancellation fee mid-refund.
func loadSettings(ctx context.Context, clubID int64) (dbgen.ClubSetting, error) {
	settings, err := queries.GetClubSettings(ctx, clubID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return dbgen.ClubSetting{
				ClubID:              clubID,
				SlotDuration:        defaultSlotDuration,
				BufferTime:          defaultBufferTime,
				AdvanceBookingDays:  defaultAdvanceDays,
				AllowSameDayBooking: true,
				CancellationFee:     defaultCancellationFee,
			}, nil
		}
		return dbgen.ClubSetting{}, fmt.Errorf("load club settings: %w", err)
	}
	return settings, nil
}

func clubCurrency(ctx context.Context, q *dbgen.Queries, clubID int64) string {
	club, err := q.GetClub(ctx, clubID)
	if err != nil || club.Currency == "" {
		if appConfig != nil && appConfig.Booking.DefaultCurrency != "" {
			return appConfig.Booking.DefaultCurrency
		}
		return "MXN"
	}
	return club.Currency
}

func bookingScopeFromRequest(w http.ResponseWriter, r *http.Request) (bookingID, clubID int64, ok bool) {
	rawID := strings.TrimSpace(r.PathValue("id"))
	bookingID, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil || bookingID <= 0 {
		apiutil.WriteError(w, r, apiutil.ValidationError("invalid booking ID", err))
		return 0, 0, false
	}

	clubID, err = apiutil.ClubIDFromQuery(r)
	if err != nil {
		apiutil.WriteError(w, r, apiutil.ValidationError(err.Error(), err))
		return 0, 0, false
	}

	if !apiutil.RequireClubAccess(w, r, clubID) {
		return 0, 0, false
	}
	return bookingID, clubID, true
}

func authUserID(r *http.Request) int64 {
	if user := authz.UserFromContext(r.Context()); user != nil {
		return user.ID
	}
	return 0
}

func toExisting(rows []dbgen.Booking) []booking.Existing {
	out := make([]booking.Existing, 0, len(rows))
	for _, row := range rows {
		out = append(out, booking.Existing{
			BookingID:  row.ID,
			PlayerName: row.PlayerName,
			StartTime:  row.StartTime,
			EndTime:    row.EndTime,
		})
	}
	return out
}

type shareResponse struct {
	ID          int64  `json:"id"`
	PlayerName  string `json:"playerName"`
	Amount      int64  `json:"amount"`
	Status      string `json:"status"`
	CompletedAt string `json:"completedAt,omitempty"`
}

func toShareResponses(rows []dbgen.SplitPayment) []shareResponse {
	out := make([]shareResponse, 0, len(rows))
	for _, row := range rows {
		resp := shareResponse{
			ID:         row.ID,
			PlayerName: row.PlayerName,
			Amount:     row.Amount,
			Status:     row.Status,
		}
		if row.CompletedAt.Valid {
			resp.CompletedAt = row.CompletedAt.Time.UTC().Format(time.RFC3339)
		}
		out = append(out, resp)
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
