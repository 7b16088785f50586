package advertisement

import (
	"context"

	"github.com/google/uuid"
)

// AdvertisementRepository defines persistence operations for advertisements.
type AdvertisementRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Advertisement, error)
	FindByProviderID(ctx context.Context, providerID uuid.UUID) ([]*Advertisement, error)

	// ListActive retrieves bookable advertisements with pagination, optionally
	// filtered by city and service type (empty values match everything).
	ListActive(ctx context.Context, city string, serviceType ServiceType, page, limit int) ([]*Advertisement, int64, error)

	Save(ctx context.Context, ad *Advertisement) error
	Update(ctx context.Context, ad *Advertisement) error
}
