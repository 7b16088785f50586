package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pawfect-care/service-marketplace/internal/domain"
	"github.com/pawfect-care/service-marketplace/internal/domain/identity"
	"github.com/pawfect-care/service-marketplace/internal/platform/clock"
)

// RegisterClientRequest creates a client profile for the authenticated user.
type RegisterClientRequest struct {
	DisplayName string `json:"display_name" binding:"required"`
	Email       string `json:"email" binding:"required"`
	Phone       string `json:"phone"`
	City        string `json:"city"`
}

// RegisterProviderRequest creates a provider profile for the authenticated user.
type RegisterProviderRequest struct {
	DisplayName string `json:"display_name" binding:"required"`
	Email       string `json:"email" binding:"required"`
	Phone       string `json:"phone"`
	City        string `json:"city"`
	Bio         string `json:"bio"`
}

// ClientDTO is the API representation of a client profile.
type ClientDTO struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	DisplayName string    `json:"display_name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone,omitempty"`
	City        string    `json:"city,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ProviderDTO is the API representation of a provider profile.
type ProviderDTO struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	DisplayName string    `json:"display_name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone,omitempty"`
	City        string    `json:"city,omitempty"`
	Bio         string    `json:"bio,omitempty"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
}

// IdentityService manages client/provider profiles and actor resolution.
type IdentityService struct {
	repo   identity.Repository
	clock  clock.Clock
	logger *zap.Logger
}

// NewIdentityService creates a new IdentityService.
func NewIdentityService(repo identity.Repository, clk clock.Clock, logger *zap.Logger) *IdentityService {
	return &IdentityService{repo: repo, clock: clk, logger: logger}
}

// ResolveActor builds the request's capability set from the side tables.
func (s *IdentityService) ResolveActor(ctx context.Context, userID uuid.UUID, isAdmin bool) (identity.Actor, error) {
	return s.repo.ResolveActor(ctx, userID, isAdmin)
}

// RegisterClient creates a client profile for the user.
func (s *IdentityService) RegisterClient(ctx context.Context, userID uuid.UUID, req RegisterClientRequest) (*ClientDTO, error) {
	if existing, err := s.repo.FindClientByUserID(ctx, userID); err == nil && existing != nil {
		return nil, domain.NewConflictError("user already has a client profile")
	}

	client, err := identity.NewClient(userID, req.DisplayName, req.Email, req.Phone, req.City, s.clock.Now())
	if err != nil {
		return nil, err
	}
	if err := s.repo.SaveClient(ctx, client); err != nil {
		return nil, fmt.Errorf("failed to save client profile: %w", err)
	}

	s.logger.Info("client profile registered",
		zap.String("client_id", client.ID().String()),
		zap.String("user_id", userID.String()),
	)
	result := toClientDTO(client)
	return &result, nil
}

// RegisterProvider creates an active provider profile for the user.
func (s *IdentityService) RegisterProvider(ctx context.Context, userID uuid.UUID, req RegisterProviderRequest) (*ProviderDTO, error) {
	provider, err := identity.NewProvider(userID, req.DisplayName, req.Email, req.Phone, req.City, req.Bio, s.clock.Now())
	if err != nil {
		return nil, err
	}
	if err := s.repo.SaveProvider(ctx, provider); err != nil {
		return nil, fmt.Errorf("failed to save provider profile: %w", err)
	}

	s.logger.Info("provider profile registered",
		zap.String("provider_id", provider.ID().String()),
		zap.String("user_id", userID.String()),
	)
	result := toProviderDTO(provider)
	return &result, nil
}

// GetProvider returns a provider's public profile.
func (s *IdentityService) GetProvider(ctx context.Context, providerID uuid.UUID) (*ProviderDTO, error) {
	provider, err := s.repo.FindProviderByID(ctx, providerID)
	if err != nil {
		return nil, err
	}
	result := toProviderDTO(provider)
	return &result, nil
}

// DeactivateProvider marks a provider inactive (admin). Accepted bookings
// stay valid; the provider just cannot accept or publish anymore.
func (s *IdentityService) DeactivateProvider(ctx context.Context, providerID uuid.UUID) error {
	provider, err := s.repo.FindProviderByID(ctx, providerID)
	if err != nil {
		return err
	}
	provider.Deactivate(s.clock.Now())
	if err := s.repo.UpdateProvider(ctx, provider); err != nil {
		return fmt.Errorf("failed to deactivate provider: %w", err)
	}

	s.logger.Info("provider deactivated", zap.String("provider_id", providerID.String()))
	return nil
}

// DeleteClientAccount removes a client profile and everything hanging off it
// (bookings, pet links, reviews, pets) in one transaction (admin).
func (s *IdentityService) DeleteClientAccount(ctx context.Context, clientID uuid.UUID) error {
	if _, err := s.repo.FindClientByID(ctx, clientID); err != nil {
		return err
	}
	if err := s.repo.DeleteClientCascade(ctx, clientID); err != nil {
		return fmt.Errorf("failed to delete client account: %w", err)
	}

	s.logger.Info("client account deleted", zap.String("client_id", clientID.String()))
	return nil
}

func toClientDTO(c *identity.Client) ClientDTO {
	return ClientDTO{
		ID:          c.ID(),
		UserID:      c.UserID(),
		DisplayName: c.DisplayName(),
		Email:       c.Email(),
		Phone:       c.Phone(),
		City:        c.City(),
		CreatedAt:   c.CreatedAt(),
	}
}

func toProviderDTO(p *identity.Provider) ProviderDTO {
	return ProviderDTO{
		ID:          p.ID(),
		UserID:      p.UserID(),
		DisplayName: p.DisplayName(),
		Email:       p.Email(),
		Phone:       p.Phone(),
		City:        p.City(),
		Bio:         p.Bio(),
		Active:      p.Active(),
		CreatedAt:   p.CreatedAt(),
	}
}
