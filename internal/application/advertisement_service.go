package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pawfect-care/service-marketplace/internal/domain"
	adDomain "github.com/pawfect-care/service-marketplace/internal/domain/advertisement"
	"github.com/pawfect-care/service-marketplace/internal/domain/identity"
	"github.com/pawfect-care/service-marketplace/internal/platform/clock"
)

// CreateAdvertisementRequest is the request DTO for publishing a listing.
type CreateAdvertisementRequest struct {
	ProviderID  uuid.UUID `json:"provider_id" binding:"required"`
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description"`
	ServiceType string    `json:"service_type" binding:"required"`
	City        string    `json:"city"`
	PriceCents  int64     `json:"price_cents" binding:"required"`
	Currency    string    `json:"currency" binding:"required"`
}

// UpdateAdvertisementRequest is the request DTO for editing a listing.
type UpdateAdvertisementRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	City        string `json:"city"`
	PriceCents  int64  `json:"price_cents"`
}

// AdvertisementDTO is the API response representation of a listing.
type AdvertisementDTO struct {
	ID          uuid.UUID `json:"id"`
	ProviderID  uuid.UUID `json:"provider_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	ServiceType string    `json:"service_type"`
	City        string    `json:"city,omitempty"`
	PriceCents  int64     `json:"price_cents"`
	Currency    string    `json:"currency"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// AdvertisementService implements use cases for provider listings.
type AdvertisementService struct {
	repo         adDomain.AdvertisementRepository
	identityRepo identity.Repository
	clock        clock.Clock
	logger       *zap.Logger
}

// NewAdvertisementService creates a new AdvertisementService.
func NewAdvertisementService(repo adDomain.AdvertisementRepository, identityRepo identity.Repository, clk clock.Clock, logger *zap.Logger) *AdvertisementService {
	return &AdvertisementService{repo: repo, identityRepo: identityRepo, clock: clk, logger: logger}
}

// CreateAdvertisement publishes a new active listing. Only an active provider
// profile owned by the actor may publish.
func (s *AdvertisementService) CreateAdvertisement(ctx context.Context, actor identity.Actor, req CreateAdvertisementRequest) (*AdvertisementDTO, error) {
	if !actor.OwnsProvider(req.ProviderID) {
		return nil, domain.NewForbiddenError("provider profile does not belong to this user")
	}

	provider, err := s.identityRepo.FindProviderByID(ctx, req.ProviderID)
	if err != nil {
		return nil, err
	}
	if !provider.Active() {
		return nil, domain.NewForbiddenError("deactivated providers cannot publish advertisements")
	}

	ad, err := adDomain.NewAdvertisement(
		req.ProviderID,
		req.Title, req.Description,
		adDomain.ServiceType(req.ServiceType),
		req.City,
		req.PriceCents,
		req.Currency,
		s.clock.Now(),
	)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, ad); err != nil {
		s.logger.Error("failed to save advertisement", zap.Error(err))
		return nil, fmt.Errorf("failed to save advertisement: %w", err)
	}

	s.logger.Info("advertisement published",
		zap.String("advertisement_id", ad.ID().String()),
		zap.String("provider_id", req.ProviderID.String()),
	)
	result := toAdvertisementDTO(ad)
	return &result, nil
}

// BrowseAdvertisements returns the public, bookable listings.
func (s *AdvertisementService) BrowseAdvertisements(ctx context.Context, city, serviceType string, page, limit int) (*domain.PaginatedResult[AdvertisementDTO], error) {
	ads, total, err := s.repo.ListActive(ctx, city, adDomain.ServiceType(serviceType), page, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list advertisements: %w", err)
	}

	dtos := make([]AdvertisementDTO, len(ads))
	for i, ad := range ads {
		dtos[i] = toAdvertisementDTO(ad)
	}
	result := domain.NewPaginatedResult(dtos, total, page, limit)
	return &result, nil
}

// GetAdvertisement returns a single listing.
func (s *AdvertisementService) GetAdvertisement(ctx context.Context, id uuid.UUID) (*AdvertisementDTO, error) {
	ad, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	result := toAdvertisementDTO(ad)
	return &result, nil
}

// GetMyAdvertisements returns all listings owned by the actor's providers.
func (s *AdvertisementService) GetMyAdvertisements(ctx context.Context, actor identity.Actor) ([]AdvertisementDTO, error) {
	if !actor.IsProvider() {
		return nil, domain.NewForbiddenError("user has no provider profile")
	}

	var dtos []AdvertisementDTO
	for _, providerID := range actor.ProviderIDs {
		ads, err := s.repo.FindByProviderID(ctx, providerID)
		if err != nil {
			return nil, fmt.Errorf("failed to list advertisements: %w", err)
		}
		for _, ad := range ads {
			dtos = append(dtos, toAdvertisementDTO(ad))
		}
	}
	return dtos, nil
}

// UpdateAdvertisement edits listing details. Price edits do not touch the
// snapshots on existing bookings.
func (s *AdvertisementService) UpdateAdvertisement(ctx context.Context, actor identity.Actor, id uuid.UUID, req UpdateAdvertisementRequest) (*AdvertisementDTO, error) {
	ad, err := s.ownedAdvertisement(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if err := ad.UpdateDetails(req.Title, req.Description, req.City, req.PriceCents, s.clock.Now()); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, ad); err != nil {
		return nil, fmt.Errorf("failed to update advertisement: %w", err)
	}

	result := toAdvertisementDTO(ad)
	return &result, nil
}

// PauseAdvertisement takes a listing off the public feed.
func (s *AdvertisementService) PauseAdvertisement(ctx context.Context, actor identity.Actor, id uuid.UUID) error {
	ad, err := s.ownedAdvertisement(ctx, actor, id)
	if err != nil {
		return err
	}
	ad.Pause(s.clock.Now())
	return s.repo.Update(ctx, ad)
}

// ResumeAdvertisement reactivates a paused listing.
func (s *AdvertisementService) ResumeAdvertisement(ctx context.Context, actor identity.Actor, id uuid.UUID) error {
	ad, err := s.ownedAdvertisement(ctx, actor, id)
	if err != nil {
		return err
	}

	provider, err := s.identityRepo.FindProviderByID(ctx, ad.ProviderID())
	if err != nil {
		return err
	}
	if !provider.Active() {
		return domain.NewForbiddenError("deactivated providers cannot publish advertisements")
	}

	if err := ad.Resume(s.clock.Now()); err != nil {
		return err
	}
	return s.repo.Update(ctx, ad)
}

// ArchiveAdvertisement permanently retires a listing.
func (s *AdvertisementService) ArchiveAdvertisement(ctx context.Context, actor identity.Actor, id uuid.UUID) error {
	ad, err := s.ownedAdvertisement(ctx, actor, id)
	if err != nil {
		return err
	}
	ad.Archive(s.clock.Now())
	return s.repo.Update(ctx, ad)
}

func (s *AdvertisementService) ownedAdvertisement(ctx context.Context, actor identity.Actor, id uuid.UUID) (*adDomain.Advertisement, error) {
	ad, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.OwnsProvider(ad.ProviderID()) {
		return nil, domain.NewForbiddenError("advertisement does not belong to this user")
	}
	return ad, nil
}

func toAdvertisementDTO(ad *adDomain.Advertisement) AdvertisementDTO {
	return AdvertisementDTO{
		ID:          ad.ID(),
		ProviderID:  ad.ProviderID(),
		Title:       ad.Title(),
		Description: ad.Description(),
		ServiceType: string(ad.ServiceType()),
		City:        ad.City(),
		PriceCents:  ad.PriceCents(),
		Currency:    ad.Currency(),
		Status:      string(ad.Status()),
		CreatedAt:   ad.CreatedAt(),
		UpdatedAt:   ad.UpdatedAt(),
	}
}
