package events

import (
	"time"

	"github.com/google/uuid"
)

// Kafka topics.
const (
	TopicBookingEvents = "booking.events"
	TopicPaymentEvents = "payment.events"
)

// Event types published on booking.events.
const (
	BookingRequested       = "booking.requested"
	BookingAccepted        = "booking.accepted"
	BookingRejected        = "booking.rejected"
	BookingCancelled       = "booking.cancelled"
	BookingAwaitingPayment = "booking.awaiting_payment"
	BookingOverdue         = "booking.overdue"
	BookingPaid            = "booking.paid"
)

// Event types consumed from payment.events.
const (
	PaymentCompleted = "payment.completed"
)

// BookingRequestedEvent is emitted when a client creates a booking.
type BookingRequestedEvent struct {
	BookingID     uuid.UUID `json:"booking_id"`
	BookingNumber string    `json:"booking_number"`
	ClientID      uuid.UUID `json:"client_id"`
	ProviderID    uuid.UUID `json:"provider_id"`
	PriceCents    int64     `json:"price_cents"`
	Currency      string    `json:"currency"`
	StartAt       time.Time `json:"start_at"`
	EndAt         time.Time `json:"end_at"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// BookingStatusChangedEvent is emitted on every status transition after
// creation, including the lazy time-driven ones.
type BookingStatusChangedEvent struct {
	BookingID     uuid.UUID `json:"booking_id"`
	BookingNumber string    `json:"booking_number"`
	ClientID      uuid.UUID `json:"client_id"`
	ProviderID    uuid.UUID `json:"provider_id"`
	Status        string    `json:"status"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// PaymentCompletedEvent is the settlement event from the payment bridge.
type PaymentCompletedEvent struct {
	BookingID     uuid.UUID `json:"booking_id"`
	PaymentID     string    `json:"payment_id"`
	PaymentStatus string    `json:"payment_status"`
	AmountCents   int64     `json:"amount_cents"`
	Currency      string    `json:"currency"`
	OccurredAt    time.Time `json:"occurred_at"`
}
