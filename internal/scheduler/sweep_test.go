package scheduler

import (
	"context"
	"testing"

	"github.com/courtbook/courtbook/internal/booking"
	"github.com/courtbook/courtbook/internal/clock"
	appdb "github.com/courtbook/courtbook/internal/db"
	dbgen "github.com/courtbook/courtbook/internal/db/generated"
	"github.com/courtbook/courtbook/internal/testutil"
)

func seedSweepClub(t *testing.T, database *appdb.DB) (dbgen.Club, dbgen.Court) {
	t.Helper()
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
	return club, court
}

func TestSweepClub(t *testing.T) {
	database := testutil.NewTestDB(t)
	club, court := seedSweepClub(t, database)
	ctx := context.Background()

	now, err := clock.NowIn(club.Timezone)
	if err != nil {
		t.Fatalf("load timezone: %v", err)
	}
	today := now.Format("2006-01-02")

	// Confirmed booking that started at club-local midnight today.
	due, err := database.Queries.CreateBooking(ctx, dbgen.CreateBookingParams{
		ClubID:       club.ID,
		CourtID:      court.ID,
		Date:         today,
		StartTime:    "00:00",
		EndTime:      "23:59",
		Duration:     60,
		Status:       booking.StatusConfirmed,
		PlayerName:   "Ana Torres",
		TotalPlayers: 2,
	})
	if err != nil {
		t.Fatalf("seed due booking: %v", err)
	}

	// In-progress booking from a past day that should finish.
	stale, err := database.Queries.CreateBooking(ctx, dbgen.CreateBookingParams{
		ClubID:       club.ID,
		CourtID:      court.ID,
		Date:         "2000-01-01",
		StartTime:    "10:00",
		EndTime:      "11:00",
		Duration:     60,
		Status:       booking.StatusInProgress,
		PlayerName:   "Luis Vega",
		TotalPlayers: 2,
	})
	if err != nil {
		t.Fatalf("seed stale booking: %v", err)
	}

	// Future booking that must not move.
	future, err := database.Queries.CreateBooking(ctx, dbgen.CreateBookingParams{
		ClubID:       club.ID,
		CourtID:      court.ID,
		Date:         "2099-01-01",
		StartTime:    "10:00",
		EndTime:      "11:00",
		Duration:     60,
		Status:       booking.StatusConfirmed,
		PlayerName:   "Marta Ruiz",
		TotalPlayers: 2,
	})
	if err != nil {
		t.Fatalf("seed future booking: %v", err)
	}

	started, completed, err := sweepClub(ctx, database.Queries, club)
	if err != nil {
		t.Fatalf("sweepClub: %v", err)
	}
	if started != 1 {
		t.Errorf("started = %d, want 1", started)
	}
	if completed != 1 {
		t.Errorf("completed = %d, want 1", completed)
	}

	assertStatus := func(id int64, want string) {
		t.Helper()
		b, err := database.Queries.GetBooking(ctx, dbgen.GetBookingParams{ID: id, ClubID: club.ID})
		if err != nil {
			t.Fatalf("get booking %d: %v", id, err)
		}
		if b.Status != want {
			t.Errorf("booking %d status = %q, want %q", id, b.Status, want)
		}
	}
	assertStatus(due.ID, booking.StatusInProgress)
	assertStatus(stale.ID, booking.StatusCompleted)
	assertStatus(future.ID, booking.StatusConfirmed)
}

func TestSweepClubInvalidTimezone(t *testing.T) {
	database := testutil.NewTestDB(t)

	club, err := database.Queries.CreateClub(context.Background(), dbgen.CreateClubParams{
		Name:     "Broken",
		Slug:     "broken",
		Timezone: "Not/AZone",
		Currency: "MXN",
	})
	if err != nil {
		t.Fatalf("create club: %v", err)
	}

	if _, _, err := sweepClub(context.Background(), database.Queries, club); err == nil {
		t.Fatal("expected error for invalid timezone")
	}
}
