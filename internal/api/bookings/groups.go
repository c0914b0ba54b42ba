// internal/api/bookings/groups.go
package bookings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/courtbook/courtbook/internal/api/apiutil"
	"github.com/courtbook/courtbook/internal/booking"
	appdb "github.com/courtbook/courtbook/internal/db"
	dbgen "github.com/courtbook/courtbook/internal/db/generated"
	"github.com/courtbook/courtbook/internal/payments"
)

// A booking group reserves the same slot on several courts for one organizer,
// e.g. a clinic taking over half the club. Each member row is a full booking:
// conflict checks, cancellation, and payment all work per court.

type groupCreateRequest struct {
	ClubID          int64   `json:"clubId"`
	CourtIDs        []int64 `json:"courtIds"`
	Date            string  `json:"date"`
	StartTime       string  `json:"startTime"`
	DurationMinutes int64   `json:"durationMinutes,omitempty"`
	PricePerCourt   int64   `json:"pricePerCourt"`
	PlayerName      string  `json:"playerName"`
	PlayerEmail     string  `json:"playerEmail,omitempty"`
	PlayerPhone     string  `json:"playerPhone,omitempty"`
	TotalPlayers    int64   `json:"totalPlayers,omitempty"`
	Notes           string  `json:"notes,omitempty"`
}

type groupResponse struct {
	ID         int64             `json:"id"`
	ClubID     int64             `json:"clubId"`
	PlayerName string            `json:"playerName"`
	Bookings   []bookingResponse `json:"bookings"`
}

// POST /api/v1/booking-groups
func HandleGroupCreate(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if queries == nil || store == nil {
		logger.Error().Msg("Database queries not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	var req groupCreateRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, r, apiutil.ValidationError("invalid request body", err))
		return
	}
	if !apiutil.RequireClubAccess(w, r, req.ClubID) {
		return
	}
	if err := validateGroupCreateInput(req); err != nil {
		apiutil.WriteError(w, r, err)
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

	duration := req.DurationMinutes
	if duration == 0 {
		duration = settings.SlotDuration
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

	var (
		group   dbgen.BookingGroup
		members []dbgen.Booking
	)
	err = store.RunInTx(ctx, func(txdb *appdb.DB) error {
		qtx := txdb.Queries

		group, err = qtx.CreateBookingGroup(ctx, dbgen.CreateBookingGroupParams{
			ClubID:     req.ClubID,
			PlayerName: strings.TrimSpace(req.PlayerName),
		})
		if err != nil {
			return apiutil.HandlerError{Status: http.StatusInternalServerError, Code: apiutil.CodeInternal, Message: "failed to create booking group", Err: err}
		}

		for _, courtID := range req.CourtIDs {
			court, err := qtx.GetCourt(ctx, dbgen.GetCourtParams{ID: courtID, ClubID: req.ClubID})
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					return apiutil.HandlerError{
						Status: http.StatusNotFound, Code: apiutil.CodeNotFound,
						Message: fmt.Sprintf("court %d not found", courtID), Err: err,
					}
				}
				return apiutil.HandlerError{Status: http.StatusInternalServerError, Code: apiutil.CodeInternal, Message: "failed to load court", Err: err}
			}
			if !court.Active {
				return apiutil.HandlerError{
					Status: http.StatusBadRequest, Code: apiutil.CodeValidation,
					Message: fmt.Sprintf("court %d is not active", courtID),
				}
			}

			existing, err := qtx.ListActiveBookingsForCourtDay(ctx, dbgen.ListActiveBookingsForCourtDayParams{
				CourtID: courtID,
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
					Message: fmt.Sprintf("court %d slot %s-%s is already booked by %s", courtID, req.StartTime, endTime, conflict.PlayerName),
				}
			}

			totalPlayers := req.TotalPlayers
			if totalPlayers == 0 {
				totalPlayers = 1
			}
			member, err := qtx.CreateBooking(ctx, dbgen.CreateBookingParams{
				ClubID:         req.ClubID,
				CourtID:        courtID,
				BookingGroupID: sql.NullInt64{Int64: group.ID, Valid: true},
				Date:           req.Date,
				StartTime:      req.StartTime,
				EndTime:        endTime,
				Duration:       duration,
				Price:          req.PricePerCourt,
				Status:         booking.StatusConfirmed,
				PlayerName:     strings.TrimSpace(req.PlayerName),
				PlayerEmail:    apiutil.ToNullString(req.PlayerEmail),
				PlayerPhone:    apiutil.ToNullString(req.PlayerPhone),
				TotalPlayers:   totalPlayers,
				Notes:          apiutil.ToNullString(strings.TrimSpace(req.Notes)),
			})
			if err != nil {
				if strings.Contains(err.Error(), "UNIQUE constraint failed") {
					return apiutil.HandlerError{
						Status: http.StatusConflict, Code: apiutil.CodeConflict,
						Message: fmt.Sprintf("court %d slot %s-%s is already booked", courtID, req.StartTime, endTime),
						Err:     err,
					}
				}
				return apiutil.HandlerError{Status: http.StatusInternalServerError, Code: apiutil.CodeInternal, Message: "failed to create booking", Err: err}
			}
			members = append(members, member)
		}
		return nil
	})
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	for _, member := range members {
		if err := outbox.EnqueueBookingConfirmed(ctx, member); err != nil {
			logger.Warn().Err(err).Int64("booking_id", member.ID).Msg("Failed to enqueue confirmation notification")
		}
	}

	logger.Info().
		Int64("group_id", group.ID).
		Int64("club_id", group.ClubID).
		Int("courts", len(members)).
		Msg("Booking group created")

	_ = apiutil.WriteJSON(w, http.StatusCreated, newGroupResponse(group, members))
}

// GET /api/v1/booking-groups/{id}?club_id=...
func HandleGroupGet(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if queries == nil {
		logger.Error().Msg("Database queries not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	groupID, clubID, ok := groupScopeFromRequest(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), bookingQueryTimeout)
	defer cancel()

	group, err := queries.GetBookingGroup(ctx, dbgen.GetBookingGroupParams{ID: groupID, ClubID: clubID})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			apiutil.WriteError(w, r, apiutil.HandlerError{
				Status: http.StatusNotFound, Code: apiutil.CodeNotFound,
				Message: "booking group not found", Err: err,
			})
			return
		}
		apiutil.WriteError(w, r, err)
		return
	}

	members, err := queries.ListBookingsForGroup(ctx, groupID)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	_ = apiutil.WriteJSON(w, http.StatusOK, newGroupResponse(group, members))
}

// DELETE /api/v1/booking-groups/{id}?club_id=...
//
// Cancels every member booking that is still cancellable. Members already
// cancelled, in progress, or finished keep their state; each cancelled member
// gets its own refund computed from its own payments.
func HandleGroupCancel(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if queries == nil || store == nil {
		logger.Error().Msg("Database queries not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	groupID, clubID, ok := groupScopeFromRequest(w, r)
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
		cancelled   []dbgen.Booking
		totalRefund int64
		skipped     int
	)
	err = store.RunInTx(ctx, func(txdb *appdb.DB) error {
		qtx := txdb.Queries

		if _, err := qtx.GetBookingGroup(ctx, dbgen.GetBookingGroupParams{ID: groupID, ClubID: clubID}); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return apiutil.HandlerError{Status: http.StatusNotFound, Code: apiutil.CodeNotFound, Message: "booking group not found", Err: err}
			}
			return apiutil.HandlerError{Status: http.StatusInternalServerError, Code: apiutil.CodeInternal, Message: "failed to fetch booking group", Err: err}
		}

		members, err := qtx.ListBookingsForGroup(ctx, groupID)
		if err != nil {
			return apiutil.HandlerError{Status: http.StatusInternalServerError, Code: apiutil.CodeInternal, Message: "failed to list group bookings", Err: err}
		}

		for _, member := range members {
			switch member.Status {
			case booking.StatusCancelled, booking.StatusInProgress, booking.StatusCompleted:
				skipped++
				continue
			}

			totalPaid, err := qtx.SumCompletedPayments(ctx, member.ID)
			if err != nil {
				return apiutil.HandlerError{Status: http.StatusInternalServerError, Code: apiutil.CodeInternal, Message: "failed to sum payments", Err: err}
			}
			refund := payments.RefundAmount(totalPaid, settings.CancellationFee, nil, clampFloor)

			paymentStatus := member.PaymentStatus
			if refund > 0 {
				if _, err := qtx.CreatePayment(ctx, dbgen.CreatePaymentParams{
					BookingID: member.ID,
					ClubID:    clubID,
					Amount:    -refund,
					Currency:  clubCurrency(ctx, qtx, clubID),
					Method:    "refund",
					Status:    booking.PaymentRefunded,
				}); err != nil {
					return apiutil.HandlerError{Status: http.StatusInternalServerError, Code: apiutil.CodeInternal, Message: "failed to create refund payment", Err: err}
				}
				paymentStatus = booking.PaymentRefunded
				totalRefund += refund
			}

			updated, err := qtx.CancelBooking(ctx, dbgen.CancelBookingParams{
				PaymentStatus: paymentStatus,
				CancelledAt:   sql.NullTime{Time: time.Now().UTC(), Valid: true},
				Notes:         appendNote(member.Notes, req.Reason),
				ID:            member.ID,
				ClubID:        clubID,
			})
			if err != nil {
				return apiutil.HandlerError{Status: http.StatusInternalServerError, Code: apiutil.CodeInternal, Message: "failed to cancel booking", Err: err}
			}
			if member.SplitPaymentEnabled {
				if _, err := qtx.CancelPendingSplitPayments(ctx, member.ID); err != nil {
					return apiutil.HandlerError{Status: http.StatusInternalServerError, Code: apiutil.CodeInternal, Message: "failed to cancel split shares", Err: err}
				}
			}
			cancelled = append(cancelled, updated)
		}
		return nil
	})
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	for _, member := range cancelled {
		if err := outbox.EnqueueBookingCancelled(ctx, member, req.Reason); err != nil {
			logger.Warn().Err(err).Int64("booking_id", member.ID).Msg("Failed to enqueue cancellation notification")
		}
	}

	logger.Info().
		Int64("group_id", groupID).
		Int("cancelled", len(cancelled)).
		Int("skipped", skipped).
		Int64("total_refund", totalRefund).
		Msg("Booking group cancelled")

	out := make([]bookingResponse, 0, len(cancelled))
	for _, member := range cancelled {
		out = append(out, newBookingResponse(member))
	}
	_ = apiutil.WriteJSON(w, http.StatusOK, map[string]any{
		"cancelled":   out,
		"skipped":     skipped,
		"totalRefund": totalRefund,
	})
}

func validateGroupCreateInput(req groupCreateRequest) error {
	switch {
	case len(req.CourtIDs) == 0:
		return apiutil.ValidationError("courtIds must not be empty", nil)
	case strings.TrimSpace(req.PlayerName) == "":
		return apiutil.ValidationError("playerName is required", nil)
	case req.PricePerCourt < 0:
		return apiutil.ValidationError("pricePerCourt must be 0 or greater", nil)
	case req.TotalPlayers < 0:
		return apiutil.ValidationError("totalPlayers must be 0 or greater", nil)
	}
	seen := make(map[int64]bool, len(req.CourtIDs))
	for _, id := range req.CourtIDs {
		if id <= 0 {
			return apiutil.ValidationError("courtIds must be positive integers", nil)
		}
		if seen[id] {
			return apiutil.ValidationError(fmt.Sprintf("court %d listed more than once", id), nil)
		}
		seen[id] = true
	}
	return nil
}

func newGroupResponse(group dbgen.BookingGroup, members []dbgen.Booking) groupResponse {
	resp := groupResponse{
		ID:         group.ID,
		ClubID:     group.ClubID,
		PlayerName: group.PlayerName,
		Bookings:   make([]bookingResponse, 0, len(members)),
	}
	for _, member := range members {
		resp.Bookings = append(resp.Bookings, newBookingResponse(member))
	}
	return resp
}

func groupScopeFromRequest(w http.ResponseWriter, r *http.Request) (groupID, clubID int64, ok bool) {
	rawID := strings.TrimSpace(r.PathValue("id"))
	groupID, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil || groupID <= 0 {
		apiutil.WriteError(w, r, apiutil.ValidationError("invalid booking group ID", err))
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
	return groupID, clubID, true
}
