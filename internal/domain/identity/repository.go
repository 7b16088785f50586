package identity

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines persistence for client and provider profiles.
type Repository interface {
	// ResolveActor builds the capability set for a user from the side tables.
	ResolveActor(ctx context.Context, userID uuid.UUID, isAdmin bool) (Actor, error)

	FindClientByID(ctx context.Context, id uuid.UUID) (*Client, error)
	FindClientByUserID(ctx context.Context, userID uuid.UUID) (*Client, error)
	SaveClient(ctx context.Context, client *Client) error

	FindProviderByID(ctx context.Context, id uuid.UUID) (*Provider, error)
	FindProvidersByUserID(ctx context.Context, userID uuid.UUID) ([]*Provider, error)
	SaveProvider(ctx context.Context, provider *Provider) error
	UpdateProvider(ctx context.Context, provider *Provider) error

	// DeleteClientCascade removes a client profile together with its bookings,
	// booking-pet links, reviews and pets in a single transaction.
	DeleteClientCascade(ctx context.Context, clientID uuid.UUID) error
}
