package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

// mockClock implements Clock for deterministic tests.
type mockClock struct {
	mu  sync.Mutex
	now time.Time
}

func newMockClock() *mockClock {
	return &mockClock{now: time.Date(2030, 5, 10, 12, 0, 0, 0, time.UTC)}
}

func (m *mockClock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *mockClock) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
}

func newTestLimiter(t *testing.T, cfg *Config) (*Limiter, *mockClock) {
	t.Helper()
	clock := newMockClock()
	if cfg == nil {
		cfg = &Config{RequestsPerMinute: 60, BurstSize: 3}
	}
	cfg.Clock = clock
	l := New(cfg)
	t.Cleanup(l.Close)
	return l, clock
}

func TestAllowBurst(t *testing.T) {
	l, _ := newTestLimiter(t, &Config{RequestsPerMinute: 60, BurstSize: 3})

	for i := 0; i < 3; i++ {
		if result := l.Allow("203.0.113.5"); !result.Allowed {
			t.Fatalf("request %d should be allowed within burst", i+1)
		}
	}
	result := l.Allow("203.0.113.5")
	if result.Allowed {
		t.Fatal("request beyond burst should be blocked")
	}
	if result.RetryAfter <= 0 {
		t.Errorf("RetryAfter = %v, want positive", result.RetryAfter)
	}
}

func TestRefillOverTime(t *testing.T) {
	// 60/min = one token per second.
	l, clock := newTestLimiter(t, &Config{RequestsPerMinute: 60, BurstSize: 2})

	l.Allow("203.0.113.5")
	l.Allow("203.0.113.5")
	if l.Allow("203.0.113.5").Allowed {
		t.Fatal("bucket should be empty")
	}

	clock.Advance(time.Second)
	if !l.Allow("203.0.113.5").Allowed {
		t.Fatal("one token should have refilled after a second")
	}
	if l.Allow("203.0.113.5").Allowed {
		t.Fatal("only one token should have refilled")
	}
}

func TestRefillCapsAtBurst(t *testing.T) {
	l, clock := newTestLimiter(t, &Config{RequestsPerMinute: 60, BurstSize: 2})

	l.Allow("203.0.113.5")
	clock.Advance(time.Hour)

	allowed := 0
	for i := 0; i < 5; i++ {
		if l.Allow("203.0.113.5").Allowed {
			allowed++
		}
	}
	if allowed != 2 {
		t.Errorf("allowed = %d after long idle, want burst size 2", allowed)
	}
}

func TestClientsIsolated(t *testing.T) {
	l, _ := newTestLimiter(t, &Config{RequestsPerMinute: 60, BurstSize: 1})

	if !l.Allow("203.0.113.5").Allowed {
		t.Fatal("first client should be allowed")
	}
	if l.Allow("203.0.113.5").Allowed {
		t.Fatal("first client should now be blocked")
	}
	if !l.Allow("198.51.100.7").Allowed {
		t.Fatal("second client must not share the first client's bucket")
	}
}

func TestNilLimiterFailsOpen(t *testing.T) {
	var l *Limiter
	if !l.Allow("203.0.113.5").Allowed {
		t.Fatal("nil limiter must allow everything")
	}
}

func TestZeroConfigFailsOpen(t *testing.T) {
	l, _ := newTestLimiter(t, &Config{RequestsPerMinute: 0, BurstSize: 0})
	for i := 0; i < 100; i++ {
		if !l.Allow("203.0.113.5").Allowed {
			t.Fatal("zero-valued config must not block requests")
		}
	}
}

func TestCleanupRemovesIdleBuckets(t *testing.T) {
	l, clock := newTestLimiter(t, &Config{RequestsPerMinute: 60, BurstSize: 2})

	l.Allow("203.0.113.5")
	l.Allow("198.51.100.7")

	clock.Advance(time.Hour)
	l.cleanup()

	l.mu.Lock()
	remaining := len(l.byIP)
	l.mu.Unlock()
	if remaining != 0 {
		t.Errorf("buckets remaining after cleanup = %d, want 0", remaining)
	}
}

func TestMiddlewareBlocksWith429(t *testing.T) {
	l, _ := newTestLimiter(t, &Config{RequestsPerMinute: 60, BurstSize: 1})

	calls := 0
	handler := Middleware(l)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
	}))

	makeRequest := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", nil)
		req.RemoteAddr = "203.0.113.5:4431"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w
	}

	if w := makeRequest(); w.Code != http.StatusOK {
		t.Fatalf("first request status = %d, want 200", w.Code)
	}
	w := makeRequest()
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("second request status = %d, want 429", w.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Error("blocked response missing Retry-After header")
	}
	if calls != 1 {
		t.Errorf("handler calls = %d, want 1", calls)
	}
}

func TestMiddlewareNilLimiterPassesThrough(t *testing.T) {
	handler := Middleware(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		xff        string
		xRealIP    string
		trustProxy bool
		want       string
	}{
		{
			name:       "direct connection",
			remoteAddr: "203.0.113.5:4431",
			want:       "203.0.113.5",
		},
		{
			name:       "untrusted proxy ignores XFF",
			remoteAddr: "10.0.0.1:4431",
			xff:        "203.0.113.5",
			trustProxy: false,
			want:       "10.0.0.1",
		},
		{
			name:       "trusted proxy rightmost public IP",
			remoteAddr: "10.0.0.1:4431",
			xff:        "198.51.100.7, 203.0.113.5, 10.0.0.2",
			trustProxy: true,
			want:       "203.0.113.5",
		},
		{
			name:       "trusted proxy all private uses last",
			remoteAddr: "10.0.0.1:4431",
			xff:        "192.168.1.5, 10.0.0.2",
			trustProxy: true,
			want:       "10.0.0.2",
		},
		{
			name:       "trusted proxy X-Real-IP fallback",
			remoteAddr: "10.0.0.1:4431",
			xRealIP:    "203.0.113.5",
			trustProxy: true,
			want:       "203.0.113.5",
		},
		{
			name:       "remote addr without port",
			remoteAddr: "203.0.113.5",
			want:       "203.0.113.5",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tc.remoteAddr
			if tc.xff != "" {
				req.Header.Set("X-Forwarded-For", tc.xff)
			}
			if tc.xRealIP != "" {
				req.Header.Set("X-Real-IP", tc.xRealIP)
			}
			if got := GetClientIP(req, tc.trustProxy); got != tc.want {
				t.Errorf("GetClientIP() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestIsPrivateIP(t *testing.T) {
	tests := []struct {
		ip   string
		want bool
	}{
		{"10.0.0.1", true},
		{"172.16.0.1", true},
		{"192.168.1.1", true},
		{"127.0.0.1", true},
		{"::1", true},
		{"::ffff:192.168.1.1", true},
		{"203.0.113.5", false},
		{"not-an-ip", false},
	}
	for _, tc := range tests {
		if got := isPrivateIP(tc.ip); got != tc.want {
			t.Errorf("isPrivateIP(%q) = %v, want %v", tc.ip, got, tc.want)
		}
	}
}
