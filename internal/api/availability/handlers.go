// internal/api/availability/handlers.go
package availability

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/courtbook/courtbook/internal/api/apiutil"
	"github.com/courtbook/courtbook/internal/booking"
	"github.com/courtbook/courtbook/internal/clock"
	appdb "github.com/courtbook/courtbook/internal/db"
	dbgen "github.com/courtbook/courtbook/internal/db/generated"
)

var (
	queries     *dbgen.Queries
	queriesOnce sync.Once
)

const availabilityQueryTimeout = 5 * time.Second

// Operating window used when a club has no schedule rule for the day.
const (
	defaultOpensAt  = "07:00"
	defaultClosesAt = "22:00"
)

func InitHandlers(database *appdb.DB) {
	if database == nil {
		return
	}
	queriesOnce.Do(func() {
		queries = database.Queries
	})
}

type availabilityResponse struct {
	Date    string                  `json:"date"`
	CourtID int64                   `json:"courtId"`
	Slots   []booking.AnnotatedSlot `json:"slots"`
	Summary booking.Summary         `json:"summary"`
}

// GET /api/v1/bookings/availability?club_id=&court_id=&date=&duration=
func HandleAvailability(w http.ResponseWriter, r *http.Request) {
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

	courtID, err := strconv.ParseInt(r.URL.Query().Get("court_id"), 10, 64)
	if err != nil || courtID <= 0 {
		apiutil.WriteError(w, r, apiutil.ValidationError("court_id must be a positive integer", err))
		return
	}
	date := r.URL.Query().Get("date")
	if date == "" {
		apiutil.WriteError(w, r, apiutil.ValidationError("date is required", nil))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), availabilityQueryTimeout)
	defer cancel()

	club, err := queries.GetClub(ctx, clubID)
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

	court, err := queries.GetCourt(ctx, dbgen.GetCourtParams{ID: courtID, ClubID: clubID})
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
		// An inactive court offers no slots, same shape as a closed day.
		_ = apiutil.WriteJSON(w, http.StatusOK, availabilityResponse{
			Date:    date,
			CourtID: courtID,
			Slots:   []booking.AnnotatedSlot{},
		})
		return
	}

	duration := int64(0)
	if raw := r.URL.Query().Get("duration"); raw != "" {
		duration, err = strconv.ParseInt(raw, 10, 64)
		if err != nil || duration <= 0 {
			apiutil.WriteError(w, r, apiutil.ValidationError("duration must be a positive integer", err))
			return
		}
	}

	settings, err := clubSettingsOrDefaults(ctx, clubID)
	if err != nil {
		apiutil.WriteError(w, r, apiutil.HandlerError{
			Status: http.StatusInternalServerError, Code: apiutil.CodeInternal,
			Message: "failed to load club settings", Err: err,
		})
		return
	}
	if duration == 0 {
		duration = settings.SlotDuration
	}

	opensAt, closesAt, open, err := operatingWindow(ctx, club, date)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}
	if !open {
		_ = apiutil.WriteJSON(w, http.StatusOK, availabilityResponse{
			Date:    date,
			CourtID: courtID,
			Slots:   []booking.AnnotatedSlot{},
		})
		return
	}

	slots, err := booking.GenerateSlots(opensAt, closesAt, int(duration))
	if err != nil {
		apiutil.WriteError(w, r, apiutil.ValidationError(err.Error(), err))
		return
	}

	existing, err := queries.ListActiveBookingsForCourtDay(ctx, dbgen.ListActiveBookingsForCourtDayParams{
		CourtID: courtID,
		Date:    date,
	})
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	annotated, err := booking.Annotate(slots, toExisting(existing), booking.AnnotateParams{
		Date:          date,
		Timezone:      club.Timezone,
		Now:           time.Now(),
		BufferMinutes: int(settings.BufferTime),
	})
	if err != nil {
		apiutil.WriteError(w, r, clockError(err))
		return
	}
	if annotated == nil {
		annotated = []booking.AnnotatedSlot{}
	}

	_ = apiutil.WriteJSON(w, http.StatusOK, availabilityResponse{
		Date:    date,
		CourtID: courtID,
		Slots:   annotated,
		Summary: booking.Summarize(annotated),
	})
}

// operatingWindow resolves the day's opening hours from the club's schedule
// rule, falling back to the default window when no rule exists. open is false
// when a rule exists but marks the day closed.
func operatingWindow(ctx context.Context, club dbgen.Club, date string) (opensAt, closesAt string, open bool, err error) {
	loc, err := clock.LoadLocation(club.Timezone)
	if err != nil {
		return "", "", false, clockError(err)
	}
	d, err := clock.ParseDate(date)
	if err != nil {
		return "", "", false, clockError(err)
	}
	weekday := int64(time.Date(d.Year(), d.Month(), d.Day(), 12, 0, 0, 0, loc).Weekday())

	rule, err := queries.GetScheduleRule(ctx, dbgen.GetScheduleRuleParams{ClubID: club.ID, DayOfWeek: weekday})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return defaultOpensAt, defaultClosesAt, true, nil
		}
		return "", "", false, fmt.Errorf("load schedule rule: %w", err)
	}
	if !rule.Enabled {
		return "", "", false, nil
	}
	return rule.OpensAt, rule.ClosesAt, true, nil
}

func clockError(err error) apiutil.HandlerError {
	code := apiutil.CodeValidation
	switch {
	case errors.Is(err, clock.ErrInvalidTimezone):
		code = apiutil.CodeInvalidTimezone
	case errors.Is(err, clock.ErrInvalidDate):
		code = apiutil.CodeInvalidDate
	}
	return apiutil.HandlerError{
		Status: http.StatusBadRequest, Code: code,
		Message: err.Error(), Err: err,
	}
}

// clubSettingsOrDefaults falls back to defaults only when the club has no
// settings row; other store errors propagate.
func clubSettingsOrDefaults(ctx context.Context, clubID int64) (dbgen.ClubSetting, error) {
	settings, err := queries.GetClubSettings(ctx, clubID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return dbgen.ClubSetting{
				ClubID:             clubID,
				SlotDuration:       90,
				BufferTime:         15,
				AdvanceBookingDays: 30,
			}, nil
		}
		return dbgen.ClubSetting{}, fmt.Errorf("load club settings: %w", err)
	}
	return settings, nil
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
