package review

import (
	"context"

	"github.com/google/uuid"
)

// ReviewRepository defines persistence operations for reviews.
type ReviewRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Review, error)
	ExistsForBooking(ctx context.Context, bookingID uuid.UUID) (bool, error)
	FindByProviderID(ctx context.Context, providerID uuid.UUID, page, limit int) ([]*Review, int64, error)
	Save(ctx context.Context, review *Review) error
}
