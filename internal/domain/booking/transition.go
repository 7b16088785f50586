package booking

import "time"

// PaymentGracePeriod is how long after service end a booking may sit in
// AWAITING_PAYMENT before it becomes OVERDUE.
const PaymentGracePeriod = 48 * time.Hour

// Recency windows for the inbox query, keyed off updated_at.
const (
	ClosedRecencyWindow  = 30 * 24 * time.Hour // CANCELLED, REJECTED
	SettledRecencyWindow = 90 * 24 * time.Hour // OVERDUE, PAID
)

// RefreshedStatus computes the time-driven status a booking should hold at
// the given instant. It is a pure function; persistence is the caller's job.
//
// A single call advances at most one edge. A booking read long after its
// window closed moves ACCEPTED -> AWAITING_PAYMENT on one read and
// AWAITING_PAYMENT -> OVERDUE on the next, so no edge is ever skipped.
// Both boundaries are strict: at now == end the booking stays ACCEPTED, at
// now == end+grace it stays AWAITING_PAYMENT.
func RefreshedStatus(status BookingStatus, endAt, now time.Time) BookingStatus {
	switch status {
	case StatusAccepted:
		if now.After(endAt) {
			return StatusAwaitingPayment
		}
	case StatusAwaitingPayment:
		if now.After(endAt.Add(PaymentGracePeriod)) {
			return StatusOverdue
		}
	}
	return status
}
