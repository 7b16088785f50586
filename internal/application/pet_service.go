package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pawfect-care/service-marketplace/internal/domain"
	"github.com/pawfect-care/service-marketplace/internal/domain/identity"
	petDomain "github.com/pawfect-care/service-marketplace/internal/domain/pet"
	"github.com/pawfect-care/service-marketplace/internal/platform/clock"
)

// CreatePetRequest is the request DTO for creating a pet profile.
type CreatePetRequest struct {
	Name         string  `json:"name" binding:"required"`
	Species      string  `json:"species" binding:"required"`
	Breed        string  `json:"breed"`
	WeightKg     float64 `json:"weight_kg"`
	AgeMonths    int     `json:"age_months"`
	Allergies    string  `json:"allergies"`
	SpecialNeeds string  `json:"special_needs"`
	Notes        string  `json:"notes"`
}

// UpdatePetRequest is the request DTO for updating a pet profile.
type UpdatePetRequest struct {
	Name         string  `json:"name"`
	Species      string  `json:"species"`
	Breed        string  `json:"breed"`
	WeightKg     float64 `json:"weight_kg"`
	AgeMonths    int     `json:"age_months"`
	Allergies    string  `json:"allergies"`
	SpecialNeeds string  `json:"special_needs"`
	Notes        string  `json:"notes"`
}

// PetDTO is the API response representation of a pet profile.
type PetDTO struct {
	ID           uuid.UUID `json:"id"`
	ClientID     uuid.UUID `json:"client_id"`
	Name         string    `json:"name"`
	Species      string    `json:"species"`
	Breed        string    `json:"breed,omitempty"`
	WeightKg     float64   `json:"weight_kg,omitempty"`
	AgeMonths    int       `json:"age_months,omitempty"`
	Allergies    string    `json:"allergies,omitempty"`
	SpecialNeeds string    `json:"special_needs,omitempty"`
	Notes        string    `json:"notes,omitempty"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PetService implements use cases for pet profile management.
type PetService struct {
	repo   petDomain.PetRepository
	clock  clock.Clock
	logger *zap.Logger
}

// NewPetService creates a new PetService.
func NewPetService(repo petDomain.PetRepository, clk clock.Clock, logger *zap.Logger) *PetService {
	return &PetService{repo: repo, clock: clk, logger: logger}
}

// CreatePet creates a new pet profile for the acting client.
func (s *PetService) CreatePet(ctx context.Context, actor identity.Actor, req CreatePetRequest) (*PetDTO, error) {
	if !actor.IsClient() {
		return nil, domain.NewForbiddenError("only clients can register pets")
	}

	p, err := petDomain.NewPet(
		*actor.ClientID,
		req.Name, petDomain.Species(req.Species), req.Breed,
		req.WeightKg, req.AgeMonths,
		req.Allergies, req.SpecialNeeds, req.Notes,
		s.clock.Now(),
	)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, p); err != nil {
		s.logger.Error("failed to create pet", zap.Error(err))
		return nil, fmt.Errorf("failed to create pet: %w", err)
	}

	s.logger.Info("pet profile created",
		zap.String("pet_id", p.ID().String()),
		zap.String("client_id", actor.ClientID.String()),
	)
	result := toPetDTO(p)
	return &result, nil
}

// GetMyPets returns all pet profiles for the acting client.
func (s *PetService) GetMyPets(ctx context.Context, actor identity.Actor) ([]PetDTO, error) {
	if !actor.IsClient() {
		return nil, domain.NewForbiddenError("user has no client profile")
	}
	pets, err := s.repo.FindByClientID(ctx, *actor.ClientID)
	if err != nil {
		return nil, fmt.Errorf("failed to get pets: %w", err)
	}
	dtos := make([]PetDTO, len(pets))
	for i, p := range pets {
		dtos[i] = toPetDTO(p)
	}
	return dtos, nil
}

// GetPet returns a single pet profile by ID, verifying ownership.
func (s *PetService) GetPet(ctx context.Context, actor identity.Actor, petID uuid.UUID) (*PetDTO, error) {
	p, err := s.repo.FindByID(ctx, petID)
	if err != nil {
		return nil, err
	}
	if actor.ClientID == nil || !p.IsOwnedBy(*actor.ClientID) {
		return nil, domain.NewForbiddenError("you do not own this pet profile")
	}
	result := toPetDTO(p)
	return &result, nil
}

// UpdatePet updates a pet profile, verifying ownership.
func (s *PetService) UpdatePet(ctx context.Context, actor identity.Actor, petID uuid.UUID, req UpdatePetRequest) (*PetDTO, error) {
	p, err := s.repo.FindByID(ctx, petID)
	if err != nil {
		return nil, err
	}
	if actor.ClientID == nil || !p.IsOwnedBy(*actor.ClientID) {
		return nil, domain.NewForbiddenError("you do not own this pet profile")
	}

	p.Update(
		req.Name, petDomain.Species(req.Species), req.Breed,
		req.WeightKg, req.AgeMonths,
		req.Allergies, req.SpecialNeeds, req.Notes,
		s.clock.Now(),
	)

	if err := s.repo.Update(ctx, p); err != nil {
		s.logger.Error("failed to update pet", zap.Error(err))
		return nil, fmt.Errorf("failed to update pet: %w", err)
	}

	result := toPetDTO(p)
	return &result, nil
}

// ArchivePet soft-deletes a pet profile, verifying ownership.
func (s *PetService) ArchivePet(ctx context.Context, actor identity.Actor, petID uuid.UUID) error {
	p, err := s.repo.FindByID(ctx, petID)
	if err != nil {
		return err
	}
	if actor.ClientID == nil || !p.IsOwnedBy(*actor.ClientID) {
		return domain.NewForbiddenError("you do not own this pet profile")
	}

	p.Archive(s.clock.Now())
	if err := s.repo.Update(ctx, p); err != nil {
		s.logger.Error("failed to archive pet", zap.Error(err))
		return fmt.Errorf("failed to archive pet: %w", err)
	}

	s.logger.Info("pet profile archived", zap.String("pet_id", petID.String()))
	return nil
}

func toPetDTO(p *petDomain.Pet) PetDTO {
	return PetDTO{
		ID:           p.ID(),
		ClientID:     p.ClientID(),
		Name:         p.Name(),
		Species:      string(p.Species()),
		Breed:        p.Breed(),
		WeightKg:     p.WeightKg(),
		AgeMonths:    p.AgeMonths(),
		Allergies:    p.Allergies(),
		SpecialNeeds: p.SpecialNeeds(),
		Notes:        p.Notes(),
		Status:       string(p.Status()),
		CreatedAt:    p.CreatedAt(),
		UpdatedAt:    p.UpdatedAt(),
	}
}
