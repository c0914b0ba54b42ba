package splitpayments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/courtbook/courtbook/internal/api/apiutil"
	"github.com/courtbook/courtbook/internal/api/authz"
	"github.com/courtbook/courtbook/internal/booking"
	appdb "github.com/courtbook/courtbook/internal/db"
	dbgen "github.com/courtbook/courtbook/internal/db/generated"
	"github.com/courtbook/courtbook/internal/notify"
	"github.com/courtbook/courtbook/internal/testutil"
)

type splitTestEnv struct {
	db      *appdb.DB
	club    dbgen.Club
	booking dbgen.Booking
	shares  []dbgen.SplitPayment
}

func setupSplitTest(t *testing.T) *splitTestEnv {
	t.Helper()

	database := testutil.NewTestDB(t)

	prevQueries, prevStore, prevOutbox := queries, store, outbox
	queries = database.Queries
	store = database
	outbox = notify.NewOutbox(database.Queries)
	t.Cleanup(func() {
		queries, store, outbox = prevQueries, prevStore, prevOutbox
	})

	ctx := context.Background()
	club, err := database.Queries.CreateClub(ctx, dbgen.CreateClubParams{
		Name:     "Club Deportivo Norte",
		Slug:     "norte",
		Timezone: "America/Mexico_City",
		Currency: "MXN",
	})
	if err != nil {
		t.Fatalf("create club: %v", err)
	}
	court, err := database.Queries.CreateCourt(ctx, dbgen.CreateCourtParams{
		ClubID:      club.ID,
		Name:        "Cancha 1",
		CourtNumber: 1,
	})
	if err != nil {
		t.Fatalf("create court: %v", err)
	}
	b, err := database.Queries.CreateBooking(ctx, dbgen.CreateBookingParams{
		ClubID:              club.ID,
		CourtID:             court.ID,
		Date:                "2030-05-10",
		StartTime:           "10:00",
		EndTime:             "11:30",
		Duration:            90,
		Price:               100000,
		Status:              booking.StatusConfirmed,
		PlayerName:          "Ana Torres",
		TotalPlayers:        4,
		SplitPaymentEnabled: true,
		SplitPaymentCount:   4,
	})
	if err != nil {
		t.Fatalf("create booking: %v", err)
	}

	names := []string{"Ana Torres", "Luis Vega", "Marta Ruiz", "Pedro Gil"}
	var shares []dbgen.SplitPayment
	for _, name := range names {
		share, err := database.Queries.CreateSplitPayment(ctx, dbgen.CreateSplitPaymentParams{
			BookingID:  b.ID,
			PlayerName: name,
			Amount:     25000,
		})
		if err != nil {
			t.Fatalf("create share: %v", err)
		}
		shares = append(shares, share)
	}

	return &splitTestEnv{db: database, club: club, booking: b, shares: shares}
}

func splitRequest(method, target string, body any) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	ctx := authz.ContextWithUser(req.Context(), &authz.AuthUser{
		ID:      1,
		Name:    "Front Desk",
		IsStaff: true,
	})
	return req.WithContext(ctx)
}

func completeShare(t *testing.T, env *splitTestEnv, shareID int64) *httptest.ResponseRecorder {
	t.Helper()
	req := splitRequest(http.MethodPost,
		fmt.Sprintf("/api/v1/split-payments/%d/complete", shareID),
		map[string]any{"clubId": env.club.ID})
	req.SetPathValue("id", fmt.Sprint(shareID))
	rec := httptest.NewRecorder()
	HandleCompleteShare(rec, req)
	return rec
}

func TestHandleSplitStatus(t *testing.T) {
	env := setupSplitTest(t)

	req := splitRequest(http.MethodGet,
		fmt.Sprintf("/api/v1/split-payments?booking_id=%d&club_id=%d", env.booking.ID, env.club.ID), nil)
	rec := httptest.NewRecorder()
	HandleSplitStatus(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
	var resp splitStatusResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Shares) != 4 {
		t.Fatalf("shares = %d, want 4", len(resp.Shares))
	}
	agg := resp.Aggregate
	if agg.TotalPayments != 4 || agg.SharesCreated != 4 {
		t.Errorf("counts = (%d, %d), want (4, 4)", agg.TotalPayments, agg.SharesCreated)
	}
	if agg.TotalAmount != 100000 || agg.CompletedAmount != 0 || agg.PendingAmount != 100000 {
		t.Errorf("amounts = (%d, %d, %d), want (100000, 0, 100000)",
			agg.TotalAmount, agg.CompletedAmount, agg.PendingAmount)
	}
}

func TestHandleCompleteShare(t *testing.T) {
	env := setupSplitTest(t)

	rec := completeShare(t, env, env.shares[0].ID)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
	var resp completeShareResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Share.Status != booking.ShareStatusCompleted {
		t.Errorf("share status = %q, want completed", resp.Share.Status)
	}
	if resp.Settled {
		t.Error("settled after one of four shares")
	}
	// completedAmount + pendingAmount always equals the booking price.
	if got := resp.Aggregate.CompletedAmount + resp.Aggregate.PendingAmount; got != 100000 {
		t.Errorf("completed+pending = %d, want 100000", got)
	}
	if resp.Aggregate.CompletedAmount != 25000 {
		t.Errorf("completedAmount = %d, want 25000", resp.Aggregate.CompletedAmount)
	}

	// A completed share maps to a payment row.
	rows, err := env.db.Queries.ListPaymentsForBooking(context.Background(), env.booking.ID)
	if err != nil {
		t.Fatalf("list payments: %v", err)
	}
	if len(rows) != 1 || rows[0].Amount != 25000 || rows[0].Status != booking.PaymentCompleted {
		t.Errorf("unexpected payment rows: %+v", rows)
	}
}

func TestHandleCompleteShareSettlesBooking(t *testing.T) {
	env := setupSplitTest(t)

	var last completeShareResponse
	for _, share := range env.shares {
		rec := completeShare(t, env, share.ID)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
		}
		if err := json.NewDecoder(rec.Body).Decode(&last); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}

	if !last.Settled {
		t.Error("booking not settled after all shares paid")
	}
	if last.PaymentStatus != booking.PaymentCompleted {
		t.Errorf("paymentStatus = %q, want completed", last.PaymentStatus)
	}

	b, err := env.db.Queries.GetBooking(context.Background(), dbgen.GetBookingParams{
		ID: env.booking.ID, ClubID: env.club.ID,
	})
	if err != nil {
		t.Fatalf("get booking: %v", err)
	}
	if b.PaymentStatus != booking.PaymentCompleted {
		t.Errorf("stored paymentStatus = %q, want completed", b.PaymentStatus)
	}
}

func TestHandleCompleteShareTwiceRejected(t *testing.T) {
	env := setupSplitTest(t)

	if rec := completeShare(t, env, env.shares[0].ID); rec.Code != http.StatusOK {
		t.Fatalf("first completion status = %d, want 200", rec.Code)
	}
	rec := completeShare(t, env, env.shares[0].ID)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("second completion status = %d, want 400 (body %s)", rec.Code, rec.Body.String())
	}
	var payload apiutil.ErrorPayload
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("decode error payload: %v", err)
	}
	if payload.Code != apiutil.CodeInvalidState {
		t.Errorf("code = %q, want %q", payload.Code, apiutil.CodeInvalidState)
	}
}

func TestHandleCompleteShareCancelledBooking(t *testing.T) {
	env := setupSplitTest(t)
	ctx := context.Background()

	if err := env.db.Queries.UpdateBookingStatus(ctx, dbgen.UpdateBookingStatusParams{
		Status: booking.StatusCancelled,
		ID:     env.booking.ID,
		ClubID: env.club.ID,
	}); err != nil {
		t.Fatalf("cancel booking: %v", err)
	}

	rec := completeShare(t, env, env.shares[0].ID)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 (body %s)", rec.Code, rec.Body.String())
	}
}

func TestHandleCompleteShareNotFound(t *testing.T) {
	env := setupSplitTest(t)

	rec := completeShare(t, env, 9999)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404 (body %s)", rec.Code, rec.Body.String())
	}
}
