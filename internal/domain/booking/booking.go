package booking

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"

	"github.com/pawfect-care/service-marketplace/internal/domain"
)

const bookingNumberChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// Booking is the aggregate root for the booking domain. The party pair
// (client, provider), the schedule and the price snapshot are fixed at
// creation; only status, version and updatedAt change afterwards.
type Booking struct {
	id              uuid.UUID
	bookingNumber   string
	seq             int64
	clientID        uuid.UUID
	providerID      uuid.UUID
	advertisementID uuid.UUID
	petIDs          []uuid.UUID
	status          BookingStatus

	startAt time.Time
	endAt   time.Time

	priceCents int64
	currency   string
	message    string

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// generateBookingNumber creates a booking number in the format "BK-XXXXXX".
func generateBookingNumber() (string, error) {
	result := make([]byte, 6)
	for i := range result {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(bookingNumberChars))))
		if err != nil {
			return "", fmt.Errorf("failed to generate booking number: %w", err)
		}
		result[i] = bookingNumberChars[n.Int64()]
	}
	return "BK-" + string(result), nil
}

// NewBooking creates a new Booking aggregate with status=PENDING.
func NewBooking(
	clientID uuid.UUID,
	providerID uuid.UUID,
	advertisementID uuid.UUID,
	petIDs []uuid.UUID,
	startAt time.Time,
	endAt time.Time,
	priceCents int64,
	currency string,
	message string,
	now time.Time,
) (*Booking, error) {
	if clientID == uuid.Nil {
		return nil, domain.NewValidationError("client ID is required")
	}
	if providerID == uuid.Nil {
		return nil, domain.NewValidationError("provider ID is required")
	}
	if advertisementID == uuid.Nil {
		return nil, domain.NewValidationError("advertisement ID is required")
	}
	if len(petIDs) == 0 {
		return nil, domain.NewValidationError("at least one pet is required")
	}
	for _, id := range petIDs {
		if id == uuid.Nil {
			return nil, domain.NewValidationError("pet ID is required")
		}
	}
	if !endAt.After(startAt) {
		return nil, domain.NewValidationError("end time must be after start time")
	}
	if priceCents <= 0 {
		return nil, domain.NewValidationError("price must be positive")
	}

	bookingNumber, err := generateBookingNumber()
	if err != nil {
		return nil, err
	}

	return &Booking{
		id:              uuid.New(),
		bookingNumber:   bookingNumber,
		clientID:        clientID,
		providerID:      providerID,
		advertisementID: advertisementID,
		petIDs:          petIDs,
		status:          StatusPending,
		startAt:         startAt,
		endAt:           endAt,
		priceCents:      priceCents,
		currency:        currency,
		message:         message,
		version:         1,
		createdAt:       now,
		updatedAt:       now,
	}, nil
}

// ReconstructBooking rebuilds a Booking from persistence data (no validation).
func ReconstructBooking(
	id uuid.UUID,
	bookingNumber string,
	seq int64,
	clientID uuid.UUID,
	providerID uuid.UUID,
	advertisementID uuid.UUID,
	petIDs []uuid.UUID,
	status BookingStatus,
	startAt time.Time,
	endAt time.Time,
	priceCents int64,
	currency string,
	message string,
	version int64,
	createdAt time.Time,
	updatedAt time.Time,
) *Booking {
	return &Booking{
		id:              id,
		bookingNumber:   bookingNumber,
		seq:             seq,
		clientID:        clientID,
		providerID:      providerID,
		advertisementID: advertisementID,
		petIDs:          petIDs,
		status:          status,
		startAt:         startAt,
		endAt:           endAt,
		priceCents:      priceCents,
		currency:        currency,
		message:         message,
		version:         version,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

// --- Getters ---

// ID returns the booking's unique identifier.
func (b *Booking) ID() uuid.UUID { return b.id }

// BookingNumber returns the human-readable booking number.
func (b *Booking) BookingNumber() string { return b.bookingNumber }

// Seq returns the monotonically increasing creation sequence.
func (b *Booking) Seq() int64 { return b.seq }

// ClientID returns the owning client's profile ID.
func (b *Booking) ClientID() uuid.UUID { return b.clientID }

// ProviderID returns the owning provider's profile ID.
func (b *Booking) ProviderID() uuid.UUID { return b.providerID }

// AdvertisementID returns the advertisement this booking was created against.
func (b *Booking) AdvertisementID() uuid.UUID { return b.advertisementID }

// PetIDs returns the pets covered by this booking.
func (b *Booking) PetIDs() []uuid.UUID { return b.petIDs }

// Status returns the current booking status.
func (b *Booking) Status() BookingStatus { return b.status }

// StartAt returns the scheduled service start.
func (b *Booking) StartAt() time.Time { return b.startAt }

// EndAt returns the scheduled service end.
func (b *Booking) EndAt() time.Time { return b.endAt }

// PriceCents returns the price snapshot taken from the advertisement at creation.
func (b *Booking) PriceCents() int64 { return b.priceCents }

// Currency returns the currency code.
func (b *Booking) Currency() string { return b.currency }

// Message returns the client's free-text message, if any.
func (b *Booking) Message() string { return b.message }

// Version returns the entity version for optimistic locking.
func (b *Booking) Version() int64 { return b.version }

// CreatedAt returns the creation timestamp.
func (b *Booking) CreatedAt() time.Time { return b.createdAt }

// UpdatedAt returns the timestamp of the last status change.
func (b *Booking) UpdatedAt() time.Time { return b.updatedAt }

// --- Behavior ---

// Accept transitions the booking from PENDING to ACCEPTED.
func (b *Booking) Accept(now time.Time) error {
	if !b.status.CanTransitionTo(StatusAccepted) {
		return domain.NewInvalidStateError(string(b.status), string(StatusAccepted))
	}
	b.status = StatusAccepted
	b.updatedAt = now
	return nil
}

// Reject transitions the booking from PENDING to REJECTED.
func (b *Booking) Reject(now time.Time) error {
	if !b.status.CanTransitionTo(StatusRejected) {
		return domain.NewInvalidStateError(string(b.status), string(StatusRejected))
	}
	b.status = StatusRejected
	b.updatedAt = now
	return nil
}

// Cancel transitions the booking from PENDING to CANCELLED.
func (b *Booking) Cancel(now time.Time) error {
	if !b.status.CanTransitionTo(StatusCancelled) {
		return domain.NewInvalidStateError(string(b.status), string(StatusCancelled))
	}
	b.status = StatusCancelled
	b.updatedAt = now
	return nil
}

// AdvanceForTime applies the time-driven transition rule, returning true if
// the status changed. Callers persist the change when it reports true.
func (b *Booking) AdvanceForTime(now time.Time) bool {
	next := RefreshedStatus(b.status, b.endAt, now)
	if next == b.status {
		return false
	}
	b.status = next
	b.updatedAt = now
	return true
}

// MarkPaid applies a payment-completion event. It returns true if the status
// changed and false if the event was a no-op (already PAID, or the booking is
// in a state where settlement does not apply). Re-delivery of the same event
// is therefore harmless.
func (b *Booking) MarkPaid(now time.Time) bool {
	if !b.status.AwaitsSettlement() {
		return false
	}
	b.status = StatusPaid
	b.updatedAt = now
	return true
}

// IncrementVersion bumps the version for optimistic locking.
func (b *Booking) IncrementVersion() {
	b.version++
}
