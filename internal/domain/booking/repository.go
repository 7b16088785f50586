package booking

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Party distinguishes which side of a booking a query targets.
type Party string

const (
	PartyClient   Party = "client"
	PartyProvider Party = "provider"
)

// BookingRepository defines the persistence contract for booking aggregates.
type BookingRepository interface {
	// FindByID retrieves a booking by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Booking, error)

	// FindByNumber retrieves a booking by its human-readable booking number.
	FindByNumber(ctx context.Context, number string) (*Booking, error)

	// FindForInbox retrieves the bookings relevant for a party's inbox at the
	// given instant: PENDING, ACCEPTED and AWAITING_PAYMENT regardless of age,
	// CANCELLED and REJECTED updated within the closed-recency window,
	// OVERDUE and PAID updated within the settled-recency window.
	// Ordered newest-created first by the monotonic sequence.
	FindForInbox(ctx context.Context, party Party, partyIDs []uuid.UUID, now time.Time) ([]*Booking, error)

	// FindByClientID retrieves bookings belonging to a client with pagination.
	FindByClientID(ctx context.Context, clientID uuid.UUID, page, limit int) ([]*Booking, int64, error)

	// FindByProviderID retrieves bookings assigned to a provider with pagination.
	FindByProviderID(ctx context.Context, providerID uuid.UUID, page, limit int) ([]*Booking, int64, error)

	// ListAll retrieves all bookings with pagination (admin).
	ListAll(ctx context.Context, page, limit int) ([]*Booking, int64, error)

	// CountByStatus returns booking counts grouped by status (admin).
	CountByStatus(ctx context.Context) (map[string]int64, error)

	// Save persists a new booking together with its pet links, atomically.
	Save(ctx context.Context, booking *Booking) error

	// Update persists a status change with optimistic locking. A stale version
	// yields a conflict error and nothing is written.
	Update(ctx context.Context, booking *Booking) error
}
