package identity

import (
	"time"

	"github.com/google/uuid"

	"github.com/pawfect-care/service-marketplace/internal/domain"
)

// Provider is a service provider profile (walker, sitter, groomer).
// A deactivated provider cannot accept bookings or publish advertisements;
// bookings it already accepted remain valid.
type Provider struct {
	id          uuid.UUID
	userID      uuid.UUID
	displayName string
	email       string
	phone       string
	city        string
	bio         string
	active      bool
	createdAt   time.Time
	updatedAt   time.Time
}

// NewProvider creates an active provider profile for the given user.
func NewProvider(userID uuid.UUID, displayName, email, phone, city, bio string, now time.Time) (*Provider, error) {
	if userID == uuid.Nil {
		return nil, domain.NewValidationError("user ID is required")
	}
	if displayName == "" {
		return nil, domain.NewValidationError("display name is required")
	}
	if email == "" {
		return nil, domain.NewValidationError("email is required")
	}

	return &Provider{
		id:          uuid.New(),
		userID:      userID,
		displayName: displayName,
		email:       email,
		phone:       phone,
		city:        city,
		bio:         bio,
		active:      true,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// ReconstructProvider rebuilds a Provider from persistence data (no validation).
func ReconstructProvider(id, userID uuid.UUID, displayName, email, phone, city, bio string, active bool, createdAt, updatedAt time.Time) *Provider {
	return &Provider{
		id:          id,
		userID:      userID,
		displayName: displayName,
		email:       email,
		phone:       phone,
		city:        city,
		bio:         bio,
		active:      active,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

func (p *Provider) ID() uuid.UUID        { return p.id }
func (p *Provider) UserID() uuid.UUID    { return p.userID }
func (p *Provider) DisplayName() string  { return p.displayName }
func (p *Provider) Email() string        { return p.email }
func (p *Provider) Phone() string        { return p.phone }
func (p *Provider) City() string         { return p.city }
func (p *Provider) Bio() string          { return p.bio }
func (p *Provider) Active() bool         { return p.active }
func (p *Provider) CreatedAt() time.Time { return p.createdAt }
func (p *Provider) UpdatedAt() time.Time { return p.updatedAt }

// Deactivate marks the provider inactive.
func (p *Provider) Deactivate(now time.Time) {
	p.active = false
	p.updatedAt = now
}

// Reactivate marks the provider active again.
func (p *Provider) Reactivate(now time.Time) {
	p.active = true
	p.updatedAt = now
}
