package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pawfect-care/service-marketplace/internal/domain"
	petDomain "github.com/pawfect-care/service-marketplace/internal/domain/pet"
)

// PetModel is the GORM model for the pets table.
type PetModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	ClientID     uuid.UUID `gorm:"type:uuid;index;not null"`
	Name         string    `gorm:"not null;size:100"`
	Species      string    `gorm:"not null;size:20"`
	Breed        string    `gorm:"size:100"`
	WeightKg     float64   `gorm:""`
	AgeMonths    int       `gorm:""`
	Allergies    string    `gorm:"size:500"`
	SpecialNeeds string    `gorm:"size:500"`
	Notes        string    `gorm:"size:1000"`
	Status       string    `gorm:"not null;size:20;index"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (PetModel) TableName() string {
	return "pets"
}

// GormPetRepository is the GORM-based implementation of PetRepository.
type GormPetRepository struct {
	db *gorm.DB
}

// NewGormPetRepository creates a new GormPetRepository.
func NewGormPetRepository(db *gorm.DB) *GormPetRepository {
	return &GormPetRepository{db: db}
}

// FindByID retrieves a pet by its unique identifier.
func (r *GormPetRepository) FindByID(ctx context.Context, id uuid.UUID) (*petDomain.Pet, error) {
	var model PetModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Pet", id.String())
		}
		return nil, fmt.Errorf("failed to find pet by ID: %w", err)
	}
	return toDomainPet(&model)
}

// FindByIDs retrieves the pets matching the given identifiers.
func (r *GormPetRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*petDomain.Pet, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var models []PetModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find pets by IDs: %w", err)
	}

	pets := make([]*petDomain.Pet, len(models))
	for i, m := range models {
		p, err := toDomainPet(&m)
		if err != nil {
			return nil, err
		}
		pets[i] = p
	}
	return pets, nil
}

// FindByClientID retrieves all pets belonging to a client.
func (r *GormPetRepository) FindByClientID(ctx context.Context, clientID uuid.UUID) ([]*petDomain.Pet, error) {
	var models []PetModel
	if err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("created_at DESC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find pets by client: %w", err)
	}

	pets := make([]*petDomain.Pet, len(models))
	for i, m := range models {
		p, err := toDomainPet(&m)
		if err != nil {
			return nil, err
		}
		pets[i] = p
	}
	return pets, nil
}

// Save persists a new pet.
func (r *GormPetRepository) Save(ctx context.Context, p *petDomain.Pet) error {
	if err := r.db.WithContext(ctx).Create(toPetModel(p)).Error; err != nil {
		return fmt.Errorf("failed to save pet: %w", err)
	}
	return nil
}

// Update persists changes to an existing pet.
func (r *GormPetRepository) Update(ctx context.Context, p *petDomain.Pet) error {
	result := r.db.WithContext(ctx).
		Model(&PetModel{}).
		Where("id = ?", p.ID()).
		Updates(map[string]interface{}{
			"name":          p.Name(),
			"species":       string(p.Species()),
			"breed":         p.Breed(),
			"weight_kg":     p.WeightKg(),
			"age_months":    p.AgeMonths(),
			"allergies":     p.Allergies(),
			"special_needs": p.SpecialNeeds(),
			"notes":         p.Notes(),
			"status":        string(p.Status()),
			"updated_at":    p.UpdatedAt(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update pet: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Pet", p.ID().String())
	}
	return nil
}

// --- Conversion Helpers ---

func toPetModel(p *petDomain.Pet) *PetModel {
	return &PetModel{
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

func toDomainPet(m *PetModel) (*petDomain.Pet, error) {
	species := petDomain.Species(m.Species)
	if !species.IsValid() {
		return nil, domain.NewInternalError(fmt.Sprintf("stored pet has unknown species %q", m.Species))
	}

	return petDomain.Reconstruct(
		m.ID,
		m.ClientID,
		m.Name,
		species,
		m.Breed,
		m.WeightKg,
		m.AgeMonths,
		m.Allergies,
		m.SpecialNeeds,
		m.Notes,
		petDomain.PetStatus(m.Status),
		m.CreatedAt,
		m.UpdatedAt,
	), nil
}
