package advertisement

import (
	"time"

	"github.com/google/uuid"

	"github.com/pawfect-care/service-marketplace/internal/domain"
)

// ServiceType is the kind of service an advertisement offers.
type ServiceType string

const (
	ServiceWalking   ServiceType = "walking"
	ServiceSitting   ServiceType = "sitting"
	ServiceGrooming  ServiceType = "grooming"
	ServiceBoarding  ServiceType = "boarding"
	ServiceDaycare   ServiceType = "daycare"
	ServiceTraining  ServiceType = "training"
)

// IsValid returns true if the service type is recognized.
func (t ServiceType) IsValid() bool {
	switch t {
	case ServiceWalking, ServiceSitting, ServiceGrooming, ServiceBoarding, ServiceDaycare, ServiceTraining:
		return true
	}
	return false
}

// AdStatus represents the lifecycle state of an advertisement.
type AdStatus string

const (
	AdStatusActive   AdStatus = "ACTIVE"
	AdStatusPaused   AdStatus = "PAUSED"
	AdStatusArchived AdStatus = "ARCHIVED"
)

// Advertisement is a provider's service listing. Bookings snapshot its price
// at creation, so later price edits never affect existing bookings.
type Advertisement struct {
	id          uuid.UUID
	providerID  uuid.UUID
	title       string
	description string
	serviceType ServiceType
	city        string
	priceCents  int64
	currency    string
	status      AdStatus
	createdAt   time.Time
	updatedAt   time.Time
}

// NewAdvertisement creates an active advertisement for the given provider.
func NewAdvertisement(
	providerID uuid.UUID,
	title, description string,
	serviceType ServiceType,
	city string,
	priceCents int64,
	currency string,
	now time.Time,
) (*Advertisement, error) {
	if providerID == uuid.Nil {
		return nil, domain.NewValidationError("provider ID is required")
	}
	if title == "" {
		return nil, domain.NewValidationError("title is required")
	}
	if !serviceType.IsValid() {
		return nil, domain.NewValidationError("invalid service type: " + string(serviceType))
	}
	if priceCents <= 0 {
		return nil, domain.NewValidationError("price must be positive")
	}
	if currency == "" {
		return nil, domain.NewValidationError("currency is required")
	}

	return &Advertisement{
		id:          uuid.New(),
		providerID:  providerID,
		title:       title,
		description: description,
		serviceType: serviceType,
		city:        city,
		priceCents:  priceCents,
		currency:    currency,
		status:      AdStatusActive,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// Reconstruct rebuilds an Advertisement from persistence data (no validation).
func Reconstruct(
	id, providerID uuid.UUID,
	title, description string,
	serviceType ServiceType,
	city string,
	priceCents int64,
	currency string,
	status AdStatus,
	createdAt, updatedAt time.Time,
) *Advertisement {
	return &Advertisement{
		id:          id,
		providerID:  providerID,
		title:       title,
		description: description,
		serviceType: serviceType,
		city:        city,
		priceCents:  priceCents,
		currency:    currency,
		status:      status,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

func (a *Advertisement) ID() uuid.UUID            { return a.id }
func (a *Advertisement) ProviderID() uuid.UUID    { return a.providerID }
func (a *Advertisement) Title() string            { return a.title }
func (a *Advertisement) Description() string      { return a.description }
func (a *Advertisement) ServiceType() ServiceType { return a.serviceType }
func (a *Advertisement) City() string             { return a.city }
func (a *Advertisement) PriceCents() int64        { return a.priceCents }
func (a *Advertisement) Currency() string         { return a.currency }
func (a *Advertisement) Status() AdStatus         { return a.status }
func (a *Advertisement) CreatedAt() time.Time     { return a.createdAt }
func (a *Advertisement) UpdatedAt() time.Time     { return a.updatedAt }

// IsBookable reports whether new bookings may be created against this listing.
func (a *Advertisement) IsBookable() bool {
	return a.status == AdStatusActive
}

// Pause takes the advertisement off the public listing.
func (a *Advertisement) Pause(now time.Time) {
	a.status = AdStatusPaused
	a.updatedAt = now
}

// Resume reactivates a paused advertisement.
func (a *Advertisement) Resume(now time.Time) error {
	if a.status == AdStatusArchived {
		return domain.NewInvalidStateError(string(a.status), string(AdStatusActive))
	}
	a.status = AdStatusActive
	a.updatedAt = now
	return nil
}

// Archive permanently retires the advertisement.
func (a *Advertisement) Archive(now time.Time) {
	a.status = AdStatusArchived
	a.updatedAt = now
}

// UpdateDetails replaces the mutable listing fields. Existing bookings keep
// their price snapshot.
func (a *Advertisement) UpdateDetails(title, description, city string, priceCents int64, now time.Time) error {
	if title != "" {
		a.title = title
	}
	if priceCents != 0 {
		if priceCents < 0 {
			return domain.NewValidationError("price must be positive")
		}
		a.priceCents = priceCents
	}
	a.description = description
	a.city = city
	a.updatedAt = now
	return nil
}
