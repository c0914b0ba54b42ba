package auth

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/courtbook/courtbook/internal/config"
)

func withTestSecret(t *testing.T) {
	t.Helper()
	prevConfig := appConfig
	appConfig = &config.Config{}
	appConfig.App.SecretKey = "test-secret"
	t.Cleanup(func() {
		appConfig = prevConfig
	})
}

func TestParseAuthCookieStaffSession(t *testing.T) {
	withTestSecret(t)

	clubID := int64(3)
	sessionPayload := authSession{
		UserID:      42,
		SessionType: SessionTypeStaff,
		ClubID:      &clubID,
		ExpiresAt:   time.Now().Add(time.Hour).Unix(),
	}

	payloadBytes, err := json.Marshal(sessionPayload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}

	req := makeAuthRequest(t, payloadBytes)

	session, err := parseAuthCookie(req)
	if err != nil {
		t.Fatalf("parse auth cookie: %v", err)
	}
	if session == nil {
		t.Fatal("expected session, got nil")
	}
	if session.SessionType != SessionTypeStaff {
		t.Fatalf("expected session type %q, got %q", SessionTypeStaff, session.SessionType)
	}
	if session.ClubID == nil || *session.ClubID != 3 {
		t.Fatalf("expected club id 3, got %v", session.ClubID)
	}
}

func TestParseAuthCookieExpired(t *testing.T) {
	withTestSecret(t)

	sessionPayload := authSession{
		UserID:      42,
		SessionType: SessionTypePlayer,
		ExpiresAt:   time.Now().Add(-time.Minute).Unix(),
	}

	payloadBytes, err := json.Marshal(sessionPayload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}

	req := makeAuthRequest(t, payloadBytes)

	if _, err := parseAuthCookie(req); err == nil {
		t.Fatal("expected error for expired session")
	}
}

func TestParseAuthCookieTamperedSignature(t *testing.T) {
	withTestSecret(t)

	sessionPayload := authSession{
		UserID:      42,
		SessionType: SessionTypePlayer,
		ExpiresAt:   time.Now().Add(time.Hour).Unix(),
	}
	payloadBytes, err := json.Marshal(sessionPayload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}

	encodedPayload := base64.RawURLEncoding.EncodeToString(payloadBytes)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{
		Name:  authCookieName,
		Value: encodedPayload + ".bogus-signature",
	})

	if _, err := parseAuthCookie(req); err == nil {
		t.Fatal("expected error for tampered signature")
	}
}

func TestNormalizeSessionTypeUnknownDefaultsToPlayer(t *testing.T) {
	normalized := normalizeSessionType("unknown")
	if normalized != SessionTypePlayer {
		t.Fatalf("expected session type %q, got %q", SessionTypePlayer, normalized)
	}
}

func makeAuthRequest(t *testing.T, payload []byte) *http.Request {
	t.Helper()

	encodedPayload := base64.RawURLEncoding.EncodeToString(payload)
	signature, err := signPayload(encodedPayload)
	if err != nil {
		t.Fatalf("sign payload: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{
		Name:  authCookieName,
		Value: encodedPayload + "." + signature,
	})

	return req
}
