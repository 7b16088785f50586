package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pawfect-care/service-marketplace/internal/domain"
	adDomain "github.com/pawfect-care/service-marketplace/internal/domain/advertisement"
)

// AdvertisementModel is the GORM model for the advertisements table.
type AdvertisementModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProviderID  uuid.UUID `gorm:"type:uuid;index;not null"`
	Title       string    `gorm:"not null;size:150"`
	Description string    `gorm:"size:2000"`
	ServiceType string    `gorm:"not null;size:20;index"`
	City        string    `gorm:"not null;size:100;index"`
	PriceCents  int64     `gorm:"not null"`
	Currency    string    `gorm:"not null;size:3;default:'EUR'"`
	Status      string    `gorm:"not null;size:20;index"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (AdvertisementModel) TableName() string {
	return "advertisements"
}

// GormAdvertisementRepository is the GORM-based implementation of AdvertisementRepository.
type GormAdvertisementRepository struct {
	db *gorm.DB
}

// NewGormAdvertisementRepository creates a new GormAdvertisementRepository.
func NewGormAdvertisementRepository(db *gorm.DB) *GormAdvertisementRepository {
	return &GormAdvertisementRepository{db: db}
}

// FindByID retrieves an advertisement by its unique identifier.
func (r *GormAdvertisementRepository) FindByID(ctx context.Context, id uuid.UUID) (*adDomain.Advertisement, error) {
	var model AdvertisementModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Advertisement", id.String())
		}
		return nil, fmt.Errorf("failed to find advertisement by ID: %w", err)
	}
	return toDomainAdvertisement(&model)
}

// FindByProviderID retrieves all advertisements of a provider.
func (r *GormAdvertisementRepository) FindByProviderID(ctx context.Context, providerID uuid.UUID) ([]*adDomain.Advertisement, error) {
	var models []AdvertisementModel
	if err := r.db.WithContext(ctx).
		Where("provider_id = ?", providerID).
		Order("created_at DESC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find advertisements by provider: %w", err)
	}
	return toDomainAdvertisements(models)
}

// ListActive retrieves bookable advertisements with pagination and optional
// city and service-type filters.
func (r *GormAdvertisementRepository) ListActive(ctx context.Context, city string, serviceType adDomain.ServiceType, page, limit int) ([]*adDomain.Advertisement, int64, error) {
	query := r.db.WithContext(ctx).Model(&AdvertisementModel{}).
		Where("status = ?", string(adDomain.AdStatusActive))
	if city != "" {
		query = query.Where("city = ?", city)
	}
	if serviceType != "" {
		query = query.Where("service_type = ?", string(serviceType))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count advertisements: %w", err)
	}

	var models []AdvertisementModel
	offset := (page - 1) * limit
	if err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list advertisements: %w", err)
	}

	ads, err := toDomainAdvertisements(models)
	if err != nil {
		return nil, 0, err
	}
	return ads, total, nil
}

// Save persists a new advertisement.
func (r *GormAdvertisementRepository) Save(ctx context.Context, ad *adDomain.Advertisement) error {
	if err := r.db.WithContext(ctx).Create(toAdvertisementModel(ad)).Error; err != nil {
		return fmt.Errorf("failed to save advertisement: %w", err)
	}
	return nil
}

// Update persists changes to an existing advertisement.
func (r *GormAdvertisementRepository) Update(ctx context.Context, ad *adDomain.Advertisement) error {
	result := r.db.WithContext(ctx).
		Model(&AdvertisementModel{}).
		Where("id = ?", ad.ID()).
		Updates(map[string]interface{}{
			"title":        ad.Title(),
			"description":  ad.Description(),
			"service_type": string(ad.ServiceType()),
			"city":         ad.City(),
			"price_cents":  ad.PriceCents(),
			"currency":     ad.Currency(),
			"status":       string(ad.Status()),
			"updated_at":   ad.UpdatedAt(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update advertisement: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Advertisement", ad.ID().String())
	}
	return nil
}

// --- Conversion Helpers ---

func toAdvertisementModel(ad *adDomain.Advertisement) *AdvertisementModel {
	return &AdvertisementModel{
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

func toDomainAdvertisement(m *AdvertisementModel) (*adDomain.Advertisement, error) {
	serviceType := adDomain.ServiceType(m.ServiceType)
	if !serviceType.IsValid() {
		return nil, domain.NewInternalError(fmt.Sprintf("stored advertisement has unknown service type %q", m.ServiceType))
	}

	return adDomain.Reconstruct(
		m.ID,
		m.ProviderID,
		m.Title,
		m.Description,
		serviceType,
		m.City,
		m.PriceCents,
		m.Currency,
		adDomain.AdStatus(m.Status),
		m.CreatedAt,
		m.UpdatedAt,
	), nil
}

func toDomainAdvertisements(models []AdvertisementModel) ([]*adDomain.Advertisement, error) {
	ads := make([]*adDomain.Advertisement, len(models))
	for i, m := range models {
		ad, err := toDomainAdvertisement(&m)
		if err != nil {
			return nil, err
		}
		ads[i] = ad
	}
	return ads, nil
}
