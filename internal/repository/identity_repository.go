package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pawfect-care/service-marketplace/internal/domain"
	"github.com/pawfect-care/service-marketplace/internal/domain/identity"
)

// ClientModel is the GORM model for the clients table.
type ClientModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID      uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	DisplayName string    `gorm:"not null;size:100"`
	Email       string    `gorm:"not null;size:255"`
	Phone       string    `gorm:"size:30"`
	City        string    `gorm:"size:100"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (ClientModel) TableName() string {
	return "clients"
}

// ProviderModel is the GORM model for the providers table.
type ProviderModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID      uuid.UUID `gorm:"type:uuid;index;not null"`
	DisplayName string    `gorm:"not null;size:100"`
	Email       string    `gorm:"not null;size:255"`
	Phone       string    `gorm:"size:30"`
	City        string    `gorm:"size:100"`
	Bio         string    `gorm:"size:2000"`
	Active      bool      `gorm:"not null;default:true;index"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (ProviderModel) TableName() string {
	return "providers"
}

// GormIdentityRepository is the GORM-based implementation of identity.Repository.
type GormIdentityRepository struct {
	db *gorm.DB
}

// NewGormIdentityRepository creates a new GormIdentityRepository.
func NewGormIdentityRepository(db *gorm.DB) *GormIdentityRepository {
	return &GormIdentityRepository{db: db}
}

// ResolveActor builds a user's capability set from the client and provider tables.
func (r *GormIdentityRepository) ResolveActor(ctx context.Context, userID uuid.UUID, isAdmin bool) (identity.Actor, error) {
	actor := identity.Actor{UserID: userID, IsAdmin: isAdmin}

	var client ClientModel
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&client).Error
	switch {
	case err == nil:
		id := client.ID
		actor.ClientID = &id
	case errors.Is(err, gorm.ErrRecordNotFound):
		// No client profile, fine.
	default:
		return identity.Actor{}, fmt.Errorf("failed to resolve client profile: %w", err)
	}

	var providerIDs []uuid.UUID
	if err := r.db.WithContext(ctx).Model(&ProviderModel{}).
		Where("user_id = ?", userID).
		Pluck("id", &providerIDs).Error; err != nil {
		return identity.Actor{}, fmt.Errorf("failed to resolve provider profiles: %w", err)
	}
	actor.ProviderIDs = providerIDs

	return actor, nil
}

// FindClientByID retrieves a client profile by its identifier.
func (r *GormIdentityRepository) FindClientByID(ctx context.Context, id uuid.UUID) (*identity.Client, error) {
	var model ClientModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Client", id.String())
		}
		return nil, fmt.Errorf("failed to find client by ID: %w", err)
	}
	return toDomainClient(&model), nil
}

// FindClientByUserID retrieves the client profile belonging to a user.
func (r *GormIdentityRepository) FindClientByUserID(ctx context.Context, userID uuid.UUID) (*identity.Client, error) {
	var model ClientModel
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Client", userID.String())
		}
		return nil, fmt.Errorf("failed to find client by user ID: %w", err)
	}
	return toDomainClient(&model), nil
}

// SaveClient persists a new client profile.
func (r *GormIdentityRepository) SaveClient(ctx context.Context, client *identity.Client) error {
	model := &ClientModel{
		ID:          client.ID(),
		UserID:      client.UserID(),
		DisplayName: client.DisplayName(),
		Email:       client.Email(),
		Phone:       client.Phone(),
		City:        client.City(),
		CreatedAt:   client.CreatedAt(),
		UpdatedAt:   client.UpdatedAt(),
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.NewConflictError("user already has a client profile")
		}
		return fmt.Errorf("failed to save client: %w", err)
	}
	return nil
}

// FindProviderByID retrieves a provider profile by its identifier.
func (r *GormIdentityRepository) FindProviderByID(ctx context.Context, id uuid.UUID) (*identity.Provider, error) {
	var model ProviderModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Provider", id.String())
		}
		return nil, fmt.Errorf("failed to find provider by ID: %w", err)
	}
	return toDomainProvider(&model), nil
}

// FindProvidersByUserID retrieves all provider profiles belonging to a user.
func (r *GormIdentityRepository) FindProvidersByUserID(ctx context.Context, userID uuid.UUID) ([]*identity.Provider, error) {
	var models []ProviderModel
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find providers by user ID: %w", err)
	}

	providers := make([]*identity.Provider, len(models))
	for i, m := range models {
		providers[i] = toDomainProvider(&m)
	}
	return providers, nil
}

// SaveProvider persists a new provider profile.
func (r *GormIdentityRepository) SaveProvider(ctx context.Context, provider *identity.Provider) error {
	if err := r.db.WithContext(ctx).Create(toProviderModel(provider)).Error; err != nil {
		return fmt.Errorf("failed to save provider: %w", err)
	}
	return nil
}

// UpdateProvider persists changes to an existing provider profile.
func (r *GormIdentityRepository) UpdateProvider(ctx context.Context, provider *identity.Provider) error {
	result := r.db.WithContext(ctx).
		Model(&ProviderModel{}).
		Where("id = ?", provider.ID()).
		Updates(map[string]interface{}{
			"display_name": provider.DisplayName(),
			"email":        provider.Email(),
			"phone":        provider.Phone(),
			"city":         provider.City(),
			"bio":          provider.Bio(),
			"active":       provider.Active(),
			"updated_at":   provider.UpdatedAt(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update provider: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Provider", provider.ID().String())
	}
	return nil
}

// DeleteClientCascade removes a client profile and everything hanging off it
// in one transaction.
func (r *GormIdentityRepository) DeleteClientCascade(ctx context.Context, clientID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var bookingIDs []uuid.UUID
		if err := tx.Model(&BookingModel{}).
			Where("client_id = ?", clientID).
			Pluck("id", &bookingIDs).Error; err != nil {
			return fmt.Errorf("failed to collect client bookings: %w", err)
		}

		if len(bookingIDs) > 0 {
			if err := tx.Where("booking_id IN ?", bookingIDs).Delete(&BookingPetModel{}).Error; err != nil {
				return fmt.Errorf("failed to delete booking pet links: %w", err)
			}
		}
		if err := tx.Where("client_id = ?", clientID).Delete(&ReviewModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete reviews: %w", err)
		}
		if err := tx.Where("client_id = ?", clientID).Delete(&BookingModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete bookings: %w", err)
		}
		if err := tx.Where("client_id = ?", clientID).Delete(&PetModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete pets: %w", err)
		}

		result := tx.Where("id = ?", clientID).Delete(&ClientModel{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete client: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return domain.NewNotFoundError("Client", clientID.String())
		}
		return nil
	})
}

// --- Conversion Helpers ---

func toProviderModel(p *identity.Provider) *ProviderModel {
	return &ProviderModel{
		ID:          p.ID(),
		UserID:      p.UserID(),
		DisplayName: p.DisplayName(),
		Email:       p.Email(),
		Phone:       p.Phone(),
		City:        p.City(),
		Bio:         p.Bio(),
		Active:      p.Active(),
		CreatedAt:   p.CreatedAt(),
		UpdatedAt:   p.UpdatedAt(),
	}
}

func toDomainClient(m *ClientModel) *identity.Client {
	return identity.ReconstructClient(m.ID, m.UserID, m.DisplayName, m.Email, m.Phone, m.City, m.CreatedAt, m.UpdatedAt)
}

func toDomainProvider(m *ProviderModel) *identity.Provider {
	return identity.ReconstructProvider(m.ID, m.UserID, m.DisplayName, m.Email, m.Phone, m.City, m.Bio, m.Active, m.CreatedAt, m.UpdatedAt)
}
