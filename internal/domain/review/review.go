package review

import (
	"time"

	"github.com/google/uuid"

	"github.com/pawfect-care/service-marketplace/internal/domain"
)

// Review is a client's rating of a completed (PAID) booking. A booking gets
// at most one review; the uniqueness is enforced both here (existence check)
// and by a unique index on booking_id.
type Review struct {
	id         uuid.UUID
	bookingID  uuid.UUID
	clientID   uuid.UUID
	providerID uuid.UUID
	rating     int
	comment    string
	createdAt  time.Time
}

// NewReview creates a review for a booking.
func NewReview(bookingID, clientID, providerID uuid.UUID, rating int, comment string, now time.Time) (*Review, error) {
	if bookingID == uuid.Nil {
		return nil, domain.NewValidationError("booking ID is required")
	}
	if rating < 1 || rating > 5 {
		return nil, domain.NewValidationError("rating must be between 1 and 5")
	}

	return &Review{
		id:         uuid.New(),
		bookingID:  bookingID,
		clientID:   clientID,
		providerID: providerID,
		rating:     rating,
		comment:    comment,
		createdAt:  now,
	}, nil
}

// Reconstruct rebuilds a Review from persistence data (no validation).
func Reconstruct(id, bookingID, clientID, providerID uuid.UUID, rating int, comment string, createdAt time.Time) *Review {
	return &Review{
		id:         id,
		bookingID:  bookingID,
		clientID:   clientID,
		providerID: providerID,
		rating:     rating,
		comment:    comment,
		createdAt:  createdAt,
	}
}

func (r *Review) ID() uuid.UUID         { return r.id }
func (r *Review) BookingID() uuid.UUID  { return r.bookingID }
func (r *Review) ClientID() uuid.UUID   { return r.clientID }
func (r *Review) ProviderID() uuid.UUID { return r.providerID }
func (r *Review) Rating() int           { return r.rating }
func (r *Review) Comment() string       { return r.comment }
func (r *Review) CreatedAt() time.Time  { return r.createdAt }
