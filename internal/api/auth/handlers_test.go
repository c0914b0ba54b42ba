package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/courtbook/courtbook/internal/config"
	dbgen "github.com/courtbook/courtbook/internal/db/generated"
	"github.com/courtbook/courtbook/internal/testutil"
)

func setupAuthTest(t *testing.T) int64 {
	t.Helper()

	database := testutil.NewTestDB(t)

	// Save and restore global state
	prevConfig := appConfig
	prevQueries := queries
	t.Cleanup(func() {
		appConfig = prevConfig
		queries = prevQueries
	})

	appConfig = &config.Config{}
	appConfig.App.Environment = "development"
	appConfig.App.SecretKey = "test-secret-key"

	queries = dbgen.New(database.DB)

	ctx := context.Background()

	clubResult, err := database.ExecContext(ctx,
		"INSERT INTO clubs (name, slug, timezone, currency) VALUES (?, ?, ?, ?)",
		"Test Club", "test-club", "America/Mexico_City", "MXN",
	)
	if err != nil {
		t.Fatalf("insert club: %v", err)
	}
	clubID, _ := clubResult.LastInsertId()

	hash, err := HashPassword("correct horse battery")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	_, err = database.ExecContext(ctx,
		"INSERT INTO users (club_id, email, password_hash, name, is_staff) VALUES (?, ?, ?, ?, ?)",
		clubID, "staff@test.com", hash, "Test Staff", true,
	)
	if err != nil {
		t.Fatalf("insert user: %v", err)
	}

	return clubID
}

func TestHandleLoginSuccess(t *testing.T) {
	setupAuthTest(t)

	body := `{"email": "staff@test.com", "password": "correct horse battery"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	HandleLogin(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp loginResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success || !resp.IsStaff || resp.Name != "Test Staff" {
		t.Errorf("unexpected response: %+v", resp)
	}

	var hasSession, hasAuth bool
	for _, c := range rec.Result().Cookies() {
		switch c.Name {
		case sessionCookieName:
			hasSession = true
		case authCookieName:
			hasAuth = true
		}
	}
	if !hasSession || !hasAuth {
		t.Errorf("expected both cookies set, got session=%v auth=%v", hasSession, hasAuth)
	}
}

func TestHandleLoginWrongPassword(t *testing.T) {
	setupAuthTest(t)

	body := `{"email": "staff@test.com", "password": "wrong"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	HandleLogin(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestHandleLoginUnknownUser(t *testing.T) {
	setupAuthTest(t)

	body := `{"email": "nobody@test.com", "password": "whatever"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	HandleLogin(rec, req)

	// Unknown user and wrong password are indistinguishable.
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestHandleLoginMissingFields(t *testing.T) {
	setupAuthTest(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email": ""}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	HandleLogin(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestHandleLogoutClearsCookies(t *testing.T) {
	setupAuthTest(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	rec := httptest.NewRecorder()

	HandleLogout(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	for _, c := range rec.Result().Cookies() {
		if c.MaxAge >= 0 {
			t.Errorf("cookie %s not expired: MaxAge=%d", c.Name, c.MaxAge)
		}
	}
}
