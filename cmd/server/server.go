// cmd/server/server.go
package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/courtbook/courtbook/internal/api"
	"github.com/courtbook/courtbook/internal/api/auth"
	"github.com/courtbook/courtbook/internal/api/availability"
	"github.com/courtbook/courtbook/internal/api/bookings"
	"github.com/courtbook/courtbook/internal/api/courts"
	"github.com/courtbook/courtbook/internal/api/notifications"
	"github.com/courtbook/courtbook/internal/api/splitpayments"
	"github.com/courtbook/courtbook/internal/config"
	"github.com/courtbook/courtbook/internal/ratelimit"
)

func newServer(cfg *config.Config) (*http.Server, *ratelimit.Limiter) {
	router := http.NewServeMux()

	var limiter *ratelimit.Limiter
	if cfg.RateLimit.Enabled {
		limiter = ratelimit.New(&ratelimit.Config{
			RequestsPerMinute: cfg.RateLimit.RequestsPerMinute,
			BurstSize:         cfg.RateLimit.BurstSize,
			TrustProxy:        cfg.App.Environment != "development",
		})
	}

	registerRoutes(router, limiter)

	handler := api.ChainMiddleware(
		router,
		api.WithLogging,
		api.WithRecovery,
		api.WithRequestID,
		api.WithContentType,
		api.WithAuth,
	)

	return &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}, limiter
}

func registerRoutes(mux *http.ServeMux, limiter *ratelimit.Limiter) {
	staff := func(h http.HandlerFunc) http.Handler {
		return api.WithStaffAuth(h)
	}
	limited := ratelimit.Middleware(limiter)

	// Health check
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Auth
	mux.HandleFunc("POST /api/v1/auth/login", auth.HandleLogin)
	mux.HandleFunc("POST /api/v1/auth/logout", auth.HandleLogout)

	// Bookings
	mux.Handle("POST /api/v1/bookings", limited(http.HandlerFunc(bookings.HandleBookingCreate)))
	mux.HandleFunc("GET /api/v1/bookings/{id}", bookings.HandleBookingGet)
	mux.HandleFunc("DELETE /api/v1/bookings/{id}", bookings.HandleBookingCancel)
	mux.Handle("POST /api/v1/bookings/{id}/checkin", staff(bookings.HandleBookingCheckIn))

	// Booking groups
	mux.Handle("POST /api/v1/booking-groups", limited(http.HandlerFunc(bookings.HandleGroupCreate)))
	mux.HandleFunc("GET /api/v1/booking-groups/{id}", bookings.HandleGroupGet)
	mux.HandleFunc("DELETE /api/v1/booking-groups/{id}", bookings.HandleGroupCancel)

	// Availability
	mux.HandleFunc("GET /api/v1/bookings/availability", availability.HandleAvailability)

	// Split payments
	mux.HandleFunc("GET /api/v1/bookings/{id}/split-payments", splitpayments.HandleSplitStatus)
	mux.HandleFunc("POST /api/v1/split-payments/{id}/complete", splitpayments.HandleCompleteShare)

	// Courts
	mux.HandleFunc("GET /api/v1/courts", courts.HandleCourtsList)
	mux.Handle("POST /api/v1/courts", staff(courts.HandleCourtCreate))
	mux.Handle("PATCH /api/v1/courts/{id}/active", staff(courts.HandleCourtSetActive))

	// Notification delivery log (staff)
	mux.Handle("GET /api/v1/notifications", staff(notifications.HandleNotificationsForBooking))
}
