package booking

import "fmt"

// BookingStatus represents the current state of a booking in its lifecycle.
type BookingStatus string

const (
	StatusPending         BookingStatus = "PENDING"
	StatusAccepted        BookingStatus = "ACCEPTED"
	StatusRejected        BookingStatus = "REJECTED"
	StatusCancelled       BookingStatus = "CANCELLED"
	StatusAwaitingPayment BookingStatus = "AWAITING_PAYMENT"
	StatusOverdue         BookingStatus = "OVERDUE"
	StatusPaid            BookingStatus = "PAID"
)

// validTransitions defines the state machine for booking status transitions.
// PENDING is the only initial state and is never re-enterable.
var validTransitions = map[BookingStatus][]BookingStatus{
	StatusPending:         {StatusAccepted, StatusRejected, StatusCancelled},
	StatusAccepted:        {StatusAwaitingPayment},
	StatusAwaitingPayment: {StatusOverdue, StatusPaid},
	StatusOverdue:         {StatusPaid},
	StatusRejected:        {},
	StatusCancelled:       {},
	StatusPaid:            {},
}

// IsValid returns true if the status is a recognized booking status.
func (s BookingStatus) IsValid() bool {
	_, exists := validTransitions[s]
	return exists
}

// CanTransitionTo returns true if a transition from this status to the target is allowed.
func (s BookingStatus) CanTransitionTo(target BookingStatus) bool {
	allowed, exists := validTransitions[s]
	if !exists {
		return false
	}
	for _, t := range allowed {
		if t == target {
			return true
		}
	}
	return false
}

// IsTerminal returns true if no further transitions are possible from this status.
func (s BookingStatus) IsTerminal() bool {
	allowed, exists := validTransitions[s]
	if !exists {
		return true
	}
	return len(allowed) == 0
}

// AwaitsSettlement returns true if a payment-completion event may move the
// booking to PAID from this status.
func (s BookingStatus) AwaitsSettlement() bool {
	return s == StatusAwaitingPayment || s == StatusOverdue
}

// String returns the string representation of the status.
func (s BookingStatus) String() string {
	return string(s)
}

// ParseBookingStatus converts a string to a BookingStatus, returning an error if invalid.
func ParseBookingStatus(s string) (BookingStatus, error) {
	status := BookingStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid booking status: %s", s)
	}
	return status, nil
}
