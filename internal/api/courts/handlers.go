// internal/api/courts/handlers.go
package courts

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
	dbgen "github.com/courtbook/courtbook/internal/db/generated"
)

var (
	queries     *dbgen.Queries
	queriesOnce sync.Once
)

const courtsQueryTimeout = 5 * time.Second

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(q *dbgen.Queries) {
	if q == nil {
		return
	}
	queriesOnce.Do(func() {
		queries = q
	})
}

type courtResponse struct {
	ID          int64  `json:"id"`
	ClubID      int64  `json:"clubId"`
	Name        string `json:"name"`
	CourtNumber int64  `json:"courtNumber"`
	Active      bool   `json:"active"`
}

func newCourtResponse(c dbgen.Court) courtResponse {
	return courtResponse{
		ID:          c.ID,
		ClubID:      c.ClubID,
		Name:        c.Name,
		CourtNumber: c.CourtNumber,
		Active:      c.Active,
	}
}

// GET /api/v1/courts?club_id=
func HandleCourtsList(w http.ResponseWriter, r *http.Request) {
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

	ctx, cancel := context.WithTimeout(r.Context(), courtsQueryTimeout)
	defer cancel()

	courts, err := queries.ListCourts(ctx, clubID)
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	out := make([]courtResponse, 0, len(courts))
	for _, c := range courts {
		out = append(out, newCourtResponse(c))
	}
	_ = apiutil.WriteJSON(w, http.StatusOK, map[string]any{"courts": out})
}

type courtCreateRequest struct {
	ClubID      int64  `json:"clubId"`
	Name        string `json:"name"`
	CourtNumber int64  `json:"courtNumber"`
}

// POST /api/v1/courts
func HandleCourtCreate(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if queries == nil {
		logger.Error().Msg("Database queries not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	var req courtCreateRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, r, apiutil.ValidationError("invalid request body", err))
		return
	}
	if !apiutil.RequireClubAccess(w, r, req.ClubID) {
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	switch {
	case req.Name == "":
		apiutil.WriteError(w, r, apiutil.ValidationError("name is required", nil))
		return
	case req.CourtNumber <= 0:
		apiutil.WriteError(w, r, apiutil.ValidationError("courtNumber must be a positive integer", nil))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), courtsQueryTimeout)
	defer cancel()

	if _, err := queries.GetClub(ctx, req.ClubID); err != nil {
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

	court, err := queries.CreateCourt(ctx, dbgen.CreateCourtParams{
		ClubID:      req.ClubID,
		Name:        req.Name,
		CourtNumber: req.CourtNumber,
	})
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			apiutil.WriteError(w, r, apiutil.HandlerError{
				Status: http.StatusConflict, Code: apiutil.CodeConflict,
				Message: "a court with that number already exists", Err: err,
			})
			return
		}
		apiutil.WriteError(w, r, err)
		return
	}

	logger.Info().Int64("court_id", court.ID).Int64("club_id", court.ClubID).Msg("Court created")
	_ = apiutil.WriteJSON(w, http.StatusCreated, newCourtResponse(court))
}

type courtActiveRequest struct {
	ClubID int64 `json:"clubId"`
	Active bool  `json:"active"`
}

// PATCH /api/v1/courts/{id}/active
//
// Deactivated courts stay out of availability and reject new bookings but
// keep their history.
func HandleCourtSetActive(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if queries == nil {
		logger.Error().Msg("Database queries not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	courtID, err := strconv.ParseInt(strings.TrimSpace(r.PathValue("id")), 10, 64)
	if err != nil || courtID <= 0 {
		apiutil.WriteError(w, r, apiutil.ValidationError("invalid court ID", err))
		return
	}

	var req courtActiveRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, r, apiutil.ValidationError("invalid request body", err))
		return
	}
	if !apiutil.RequireClubAccess(w, r, req.ClubID) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), courtsQueryTimeout)
	defer cancel()

	if _, err := queries.GetCourt(ctx, dbgen.GetCourtParams{ID: courtID, ClubID: req.ClubID}); err != nil {
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

	if err := queries.SetCourtActive(ctx, dbgen.SetCourtActiveParams{
		Active: req.Active,
		ID:     courtID,
		ClubID: req.ClubID,
	}); err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	court, err := queries.GetCourt(ctx, dbgen.GetCourtParams{ID: courtID, ClubID: req.ClubID})
	if err != nil {
		apiutil.WriteError(w, r, err)
		return
	}

	logger.Info().Int64("court_id", courtID).Bool("active", req.Active).Msg("Court active flag updated")
	_ = apiutil.WriteJSON(w, http.StatusOK, newCourtResponse(court))
}
