package courts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/courtbook/courtbook/internal/api/authz"
	appdb "github.com/courtbook/courtbook/internal/db"
	dbgen "github.com/courtbook/courtbook/internal/db/generated"
	"github.com/courtbook/courtbook/internal/testutil"
)

func setupCourtsTest(t *testing.T) (*appdb.DB, dbgen.Club) {
	t.Helper()

	database := testutil.NewTestDB(t)

	prevQueries := queries
	queries = database.Queries
	t.Cleanup(func() { queries = prevQueries })

	club, err := database.Queries.CreateClub(context.Background(), dbgen.CreateClubParams{
		Name:     "Club Deportivo Norte",
		Slug:     "norte",
		Timezone: "America/Mexico_City",
		Currency: "MXN",
	})
	if err != nil {
		t.Fatalf("create club: %v", err)
	}
	return database, club
}

func courtsRequest(method, target string, body any) *http.Request {
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

func TestHandleCourtCreateAndList(t *testing.T) {
	_, club := setupCourtsTest(t)

	rec := httptest.NewRecorder()
	HandleCourtCreate(rec, courtsRequest(http.MethodPost, "/api/v1/courts", map[string]any{
		"clubId":      club.ID,
		"name":        "Cancha Central",
		"courtNumber": 1,
	}))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, want 201 (body %s)", rec.Code, rec.Body.String())
	}
	var created courtResponse
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !created.Active {
		t.Error("new court should start active")
	}

	rec = httptest.NewRecorder()
	HandleCourtsList(rec, courtsRequest(http.MethodGet,
		fmt.Sprintf("/api/v1/courts?club_id=%d", club.ID), nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
	var listResp struct {
		Courts []courtResponse `json:"courts"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&listResp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(listResp.Courts) != 1 || listResp.Courts[0].Name != "Cancha Central" {
		t.Errorf("unexpected courts list: %+v", listResp.Courts)
	}
}

func TestHandleCourtCreateDuplicateNumber(t *testing.T) {
	_, club := setupCourtsTest(t)

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		HandleCourtCreate(rec, courtsRequest(http.MethodPost, "/api/v1/courts", map[string]any{
			"clubId":      club.ID,
			"name":        "Cancha 1",
			"courtNumber": 1,
		}))
		if i == 0 && rec.Code != http.StatusCreated {
			t.Fatalf("first create status = %d, want 201", rec.Code)
		}
		if i == 1 && rec.Code != http.StatusConflict {
			t.Fatalf("duplicate create status = %d, want 409 (body %s)", rec.Code, rec.Body.String())
		}
	}
}

func TestHandleCourtSetActive(t *testing.T) {
	database, club := setupCourtsTest(t)

	court, err := database.Queries.CreateCourt(context.Background(), dbgen.CreateCourtParams{
		ClubID:      club.ID,
		Name:        "Cancha 1",
		CourtNumber: 1,
	})
	if err != nil {
		t.Fatalf("create court: %v", err)
	}

	req := courtsRequest(http.MethodPatch,
		fmt.Sprintf("/api/v1/courts/%d/active", court.ID),
		map[string]any{"clubId": club.ID, "active": false})
	req.SetPathValue("id", fmt.Sprint(court.ID))
	rec := httptest.NewRecorder()
	HandleCourtSetActive(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
	var resp courtResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Active {
		t.Error("court should be inactive")
	}
}
