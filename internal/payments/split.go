// Package payments holds the pure money arithmetic for bookings: refund
// computation and split-payment aggregation. All amounts are integers in
// minor currency units (cents); no floating point anywhere.
package payments

import (
	"github.com/courtbook/courtbook/internal/booking"
)

// Share is one participant's portion of a split-payment booking.
type Share struct {
	ID         int64  `json:"id"`
	PlayerName string `json:"playerName"`
	Amount     int64  `json:"amount"`
	Status     string `json:"status"`
}

// Aggregate is the read-side reconciliation of a booking's split shares.
// TotalPayments reflects the configured share count on the booking, which can
// diverge from SharesCreated if share creation was interrupted; both are
// reported so the divergence is visible. Failed shares are excluded from the
// completed sum and reported separately under FailedAmount.
type Aggregate struct {
	TotalPayments     int   `json:"totalPayments"`
	SharesCreated     int   `json:"sharesCreated"`
	CompletedPayments int   `json:"completedPayments"`
	PendingPayments   int   `json:"pendingPayments"`
	FailedPayments    int   `json:"failedPayments"`
	TotalAmount       int64 `json:"totalAmount"`
	CompletedAmount   int64 `json:"completedAmount"`
	PendingAmount     int64 `json:"pendingAmount"`
	FailedAmount      int64 `json:"failedAmount"`
}

// AggregateShares derives the split-payment reconciliation for a booking
// priced at totalAmount with configuredCount shares. Pure function, no
// mutation: the result is recomputed from current share state on every read.
func AggregateShares(totalAmount int64, configuredCount int, shares []Share) Aggregate {
	agg := Aggregate{
		TotalPayments: configuredCount,
		SharesCreated: len(shares),
		TotalAmount:   totalAmount,
	}
	for _, s := range shares {
		switch s.Status {
		case booking.ShareStatusCompleted:
			agg.CompletedPayments++
			agg.CompletedAmount += s.Amount
		case booking.ShareStatusFailed:
			agg.FailedPayments++
			agg.FailedAmount += s.Amount
		case booking.ShareStatusPending, booking.ShareStatusProcessing:
			// In-flight money has not settled; it stays in the pending tally.
			agg.PendingPayments++
		}
	}
	agg.PendingAmount = agg.TotalAmount - agg.CompletedAmount
	return agg
}

// Settled reports whether every configured share has completed payment.
func (a Aggregate) Settled() bool {
	return a.TotalPayments > 0 && a.CompletedPayments >= a.TotalPayments
}

// ShareAmount divides a booking price into count equal shares, rounding up so
// the booking is never underfunded when every share pays.
func ShareAmount(totalAmount int64, count int) int64 {
	if count <= 0 {
		return totalAmount
	}
	return (totalAmount + int64(count) - 1) / int64(count)
}
