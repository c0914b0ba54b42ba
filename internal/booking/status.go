// Package booking holds the slot generation, conflict detection, and status
// vocabulary for court reservations. Everything here is pure computation over
// club-local "HH:MM" times; persistence lives in the db package and handlers.
package booking

// Booking status values stored on the bookings table.
const (
	StatusPending    = "PENDING"
	StatusConfirmed  = "CONFIRMED"
	StatusInProgress = "IN_PROGRESS"
	StatusCompleted  = "COMPLETED"
	StatusCancelled  = "CANCELLED"
)

// Payment status values for the denormalized bookings.payment_status column
// and the payments table.
const (
	PaymentPending    = "pending"
	PaymentProcessing = "processing"
	PaymentCompleted  = "completed"
	PaymentRefunded   = "refunded"
	PaymentFailed     = "failed"
)

// Split-payment share status values. A processing share has a payment in
// flight that has not settled; until it does the money counts as pending.
const (
	ShareStatusPending    = "pending"
	ShareStatusProcessing = "processing"
	ShareStatusCompleted  = "completed"
	ShareStatusCancelled  = "cancelled"
	ShareStatusFailed     = "failed"
)
