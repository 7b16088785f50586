package identity

import (
	"time"

	"github.com/google/uuid"

	"github.com/pawfect-care/service-marketplace/internal/domain"
)

// Client is a pet owner who requests services.
type Client struct {
	id          uuid.UUID
	userID      uuid.UUID
	displayName string
	email       string
	phone       string
	city        string
	createdAt   time.Time
	updatedAt   time.Time
}

// NewClient creates a client profile for the given user.
func NewClient(userID uuid.UUID, displayName, email, phone, city string, now time.Time) (*Client, error) {
	if userID == uuid.Nil {
		return nil, domain.NewValidationError("user ID is required")
	}
	if displayName == "" {
		return nil, domain.NewValidationError("display name is required")
	}
	if email == "" {
		return nil, domain.NewValidationError("email is required")
	}

	return &Client{
		id:          uuid.New(),
		userID:      userID,
		displayName: displayName,
		email:       email,
		phone:       phone,
		city:        city,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// ReconstructClient rebuilds a Client from persistence data (no validation).
func ReconstructClient(id, userID uuid.UUID, displayName, email, phone, city string, createdAt, updatedAt time.Time) *Client {
	return &Client{
		id:          id,
		userID:      userID,
		displayName: displayName,
		email:       email,
		phone:       phone,
		city:        city,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

func (c *Client) ID() uuid.UUID        { return c.id }
func (c *Client) UserID() uuid.UUID    { return c.userID }
func (c *Client) DisplayName() string  { return c.displayName }
func (c *Client) Email() string        { return c.email }
func (c *Client) Phone() string        { return c.phone }
func (c *Client) City() string         { return c.city }
func (c *Client) CreatedAt() time.Time { return c.createdAt }
func (c *Client) UpdatedAt() time.Time { return c.updatedAt }
