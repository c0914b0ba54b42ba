package bookings

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/courtbook/courtbook/internal/api/apiutil"
	"github.com/courtbook/courtbook/internal/booking"
	dbgen "github.com/courtbook/courtbook/internal/db/generated"
)

func seedSecondCourt(t *testing.T, env *bookingsTestEnv) dbgen.Court {
	t.Helper()
	court, err := env.db.Queries.CreateCourt(context.Background(), dbgen.CreateCourtParams{
		ClubID:      env.club.ID,
		Name:        "Cancha 2",
		CourtNumber: 2,
	})
	if err != nil {
		t.Fatalf("create second court: %v", err)
	}
	return court
}

func createGroup(t *testing.T, env *bookingsTestEnv, courtIDs []int64) groupResponse {
	t.Helper()
	req := authedRequest(http.MethodPost, "/api/v1/booking-groups", groupCreateRequest{
		ClubID:          env.club.ID,
		CourtIDs:        courtIDs,
		Date:            futureDate(t),
		StartTime:       "10:00",
		DurationMinutes: 90,
		PricePerCourt:   80000,
		PlayerName:      "Marta Ruiz",
		PlayerEmail:     "marta@example.com",
	})
	w := httptest.NewRecorder()
	HandleGroupCreate(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("create group status = %d: %s", w.Code, w.Body.String())
	}
	var resp groupResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode group response: %v", err)
	}
	return resp
}

func TestHandleGroupCreate(t *testing.T) {
	env := setupBookingsTest(t)
	second := seedSecondCourt(t, env)

	resp := createGroup(t, env, []int64{env.court.ID, second.ID})

	if len(resp.Bookings) != 2 {
		t.Fatalf("members = %d, want 2", len(resp.Bookings))
	}
	for _, member := range resp.Bookings {
		if member.Status != booking.StatusConfirmed {
			t.Errorf("member %d status = %q, want %q", member.ID, member.Status, booking.StatusConfirmed)
		}
		if member.Price != 80000 {
			t.Errorf("member %d price = %d, want 80000", member.ID, member.Price)
		}
		if member.EndTime != "11:30" {
			t.Errorf("member %d endTime = %q, want 11:30", member.ID, member.EndTime)
		}
	}
	if resp.Bookings[0].CourtID == resp.Bookings[1].CourtID {
		t.Error("members should land on different courts")
	}
}

func TestHandleGroupCreateConflictRollsBack(t *testing.T) {
	env := setupBookingsTest(t)
	second := seedSecondCourt(t, env)

	// Occupy the second court so the group's second member collides.
	seedBooking(t, env, dbgen.CreateBookingParams{
		CourtID:    second.ID,
		Date:       futureDate(t),
		StartTime:  "10:00",
		EndTime:    "11:30",
		Duration:   90,
		PlayerName: "Luis Vega",
	})

	req := authedRequest(http.MethodPost, "/api/v1/booking-groups", groupCreateRequest{
		ClubID:          env.club.ID,
		CourtIDs:        []int64{env.court.ID, second.ID},
		Date:            futureDate(t),
		StartTime:       "10:00",
		DurationMinutes: 90,
		PricePerCourt:   80000,
		PlayerName:      "Marta Ruiz",
	})
	w := httptest.NewRecorder()
	HandleGroupCreate(w, req)

	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409: %s", w.Code, w.Body.String())
	}
	payload := decodeErrorPayload(t, w)
	if payload.Code != apiutil.CodeConflict {
		t.Errorf("code = %q, want %q", payload.Code, apiutil.CodeConflict)
	}

	// The first member must not survive the failed transaction.
	first, err := env.db.Queries.ListActiveBookingsForCourtDay(context.Background(), dbgen.ListActiveBookingsForCourtDayParams{
		CourtID: env.court.ID,
		Date:    futureDate(t),
	})
	if err != nil {
		t.Fatalf("list bookings: %v", err)
	}
	if len(first) != 0 {
		t.Errorf("bookings on first court = %d, want 0 after rollback", len(first))
	}
}

func TestHandleGroupGet(t *testing.T) {
	env := setupBookingsTest(t)
	second := seedSecondCourt(t, env)
	created := createGroup(t, env, []int64{env.court.ID, second.ID})

	req := authedRequest(http.MethodGet,
		fmt.Sprintf("/api/v1/booking-groups/%d?club_id=%d", created.ID, env.club.ID), nil)
	req.SetPathValue("id", fmt.Sprintf("%d", created.ID))
	w := httptest.NewRecorder()
	HandleGroupGet(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	var resp groupResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.PlayerName != "Marta Ruiz" {
		t.Errorf("playerName = %q, want organizer", resp.PlayerName)
	}
	if len(resp.Bookings) != 2 {
		t.Errorf("members = %d, want 2", len(resp.Bookings))
	}
}

func TestHandleGroupCancel(t *testing.T) {
	env := setupBookingsTest(t)
	second := seedSecondCourt(t, env)
	created := createGroup(t, env, []int64{env.court.ID, second.ID})

	ctx := context.Background()
	// Pay one member in full; its refund is total paid minus the fee.
	paid := created.Bookings[0]
	if _, err := env.db.Queries.CreatePayment(ctx, dbgen.CreatePaymentParams{
		BookingID: paid.ID,
		ClubID:    env.club.ID,
		Amount:    80000,
		Currency:  "MXN",
		Method:    "card",
		Status:    booking.PaymentCompleted,
	}); err != nil {
		t.Fatalf("create payment: %v", err)
	}

	req := authedRequest(http.MethodDelete,
		fmt.Sprintf("/api/v1/booking-groups/%d?club_id=%d", created.ID, env.club.ID),
		map[string]string{"reason": "rain"})
	req.SetPathValue("id", fmt.Sprintf("%d", created.ID))
	w := httptest.NewRecorder()
	HandleGroupCancel(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Cancelled   []bookingResponse `json:"cancelled"`
		Skipped     int               `json:"skipped"`
		TotalRefund int64             `json:"totalRefund"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Cancelled) != 2 {
		t.Fatalf("cancelled = %d, want 2", len(resp.Cancelled))
	}
	if resp.Skipped != 0 {
		t.Errorf("skipped = %d, want 0", resp.Skipped)
	}
	// 80000 paid minus the 5000 cancellation fee.
	if resp.TotalRefund != 75000 {
		t.Errorf("totalRefund = %d, want 75000", resp.TotalRefund)
	}
	for _, member := range resp.Cancelled {
		if member.Status != booking.StatusCancelled {
			t.Errorf("member %d status = %q, want %q", member.ID, member.Status, booking.StatusCancelled)
		}
		if member.CancelledAt == "" {
			t.Errorf("member %d missing cancelledAt", member.ID)
		}
	}
}

func TestHandleGroupCancelSkipsFinishedMembers(t *testing.T) {
	env := setupBookingsTest(t)
	second := seedSecondCourt(t, env)
	created := createGroup(t, env, []int64{env.court.ID, second.ID})

	ctx := context.Background()
	if err := env.db.Queries.UpdateBookingStatus(ctx, dbgen.UpdateBookingStatusParams{
		Status: booking.StatusCompleted,
		ID:     created.Bookings[0].ID,
		ClubID: env.club.ID,
	}); err != nil {
		t.Fatalf("complete member: %v", err)
	}

	req := authedRequest(http.MethodDelete,
		fmt.Sprintf("/api/v1/booking-groups/%d?club_id=%d", created.ID, env.club.ID), nil)
	req.SetPathValue("id", fmt.Sprintf("%d", created.ID))
	w := httptest.NewRecorder()
	HandleGroupCancel(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Cancelled []bookingResponse `json:"cancelled"`
		Skipped   int               `json:"skipped"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Cancelled) != 1 {
		t.Errorf("cancelled = %d, want 1", len(resp.Cancelled))
	}
	if resp.Skipped != 1 {
		t.Errorf("skipped = %d, want 1", resp.Skipped)
	}
}

func TestHandleGroupCancelNotFound(t *testing.T) {
	env := setupBookingsTest(t)

	req := authedRequest(http.MethodDelete,
		fmt.Sprintf("/api/v1/booking-groups/9999?club_id=%d", env.club.ID), nil)
	req.SetPathValue("id", "9999")
	w := httptest.NewRecorder()
	HandleGroupCancel(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404: %s", w.Code, w.Body.String())
	}
	payload := decodeErrorPayload(t, w)
	if payload.Code != apiutil.CodeNotFound {
		t.Errorf("code = %q, want %q", payload.Code, apiutil.CodeNotFound)
	}
}
