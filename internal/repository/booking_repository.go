package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pawfect-care/service-marketplace/internal/domain"
	bookingDomain "github.com/pawfect-care/service-marketplace/internal/domain/booking"
)

// BookingModel is the GORM model for the bookings table.
type BookingModel struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	BookingNumber   string    `gorm:"uniqueIndex;not null;size:20"`
	Seq             int64     `gorm:"uniqueIndex;not null;autoIncrement"`
	ClientID        uuid.UUID `gorm:"type:uuid;index;not null"`
	ProviderID      uuid.UUID `gorm:"type:uuid;index;not null"`
	AdvertisementID uuid.UUID `gorm:"type:uuid;index;not null"`
	Status          string    `gorm:"not null;size:30;index"`
	StartAt         time.Time `gorm:"not null"`
	EndAt           time.Time `gorm:"not null;index"`
	PriceCents      int64     `gorm:"not null"`
	Currency        string    `gorm:"not null;size:3;default:'EUR'"`
	Message         string    `gorm:"size:1000"`
	Version         int64     `gorm:"not null;default:1"`
	CreatedAt       time.Time `gorm:"not null"`
	UpdatedAt       time.Time `gorm:"not null;index"`
}

// TableName returns the table name for the GORM model.
func (BookingModel) TableName() string {
	return "bookings"
}

// BookingPetModel links a booking to the pets it covers.
type BookingPetModel struct {
	BookingID uuid.UUID `gorm:"type:uuid;primaryKey"`
	PetID     uuid.UUID `gorm:"type:uuid;primaryKey;index"`
}

// TableName returns the table name for the GORM model.
func (BookingPetModel) TableName() string {
	return "booking_pets"
}

// GormBookingRepository is the GORM-based implementation of BookingRepository.
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository.
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

// FindByID retrieves a booking by its unique identifier.
func (r *GormBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Booking", id.String())
		}
		return nil, fmt.Errorf("failed to find booking by ID: %w", err)
	}
	return r.toDomainBooking(ctx, &model)
}

// FindByNumber retrieves a booking by its booking number.
func (r *GormBookingRepository) FindByNumber(ctx context.Context, number string) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := r.db.WithContext(ctx).Where("booking_number = ?", number).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Booking", number)
		}
		return nil, fmt.Errorf("failed to find booking by number: %w", err)
	}
	return r.toDomainBooking(ctx, &model)
}

// FindForInbox retrieves the bookings a party should currently see, newest
// first. Open bookings are always included; closed and settled ones only
// while their recency window lasts.
func (r *GormBookingRepository) FindForInbox(ctx context.Context, party bookingDomain.Party, partyIDs []uuid.UUID, now time.Time) ([]*bookingDomain.Booking, error) {
	if len(partyIDs) == 0 {
		return nil, nil
	}

	partyColumn := "client_id"
	if party == bookingDomain.PartyProvider {
		partyColumn = "provider_id"
	}

	closedCutoff := now.Add(-bookingDomain.ClosedRecencyWindow)
	settledCutoff := now.Add(-bookingDomain.SettledRecencyWindow)

	var models []BookingModel
	if err := r.db.WithContext(ctx).
		Where(partyColumn+" IN ?", partyIDs).
		Where(
			r.db.Where("status IN ?", []string{
				string(bookingDomain.StatusPending),
				string(bookingDomain.StatusAccepted),
				string(bookingDomain.StatusAwaitingPayment),
			}).
				Or("status IN ? AND updated_at > ?", []string{
					string(bookingDomain.StatusCancelled),
					string(bookingDomain.StatusRejected),
				}, closedCutoff).
				Or("status IN ? AND updated_at > ?", []string{
					string(bookingDomain.StatusOverdue),
					string(bookingDomain.StatusPaid),
				}, settledCutoff),
		).
		Order("seq DESC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find inbox bookings: %w", err)
	}

	return r.toDomainBookings(ctx, models)
}

// FindByClientID retrieves bookings for a specific client with pagination.
func (r *GormBookingRepository) FindByClientID(ctx context.Context, clientID uuid.UUID, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	return r.findByParty(ctx, "client_id = ?", clientID, page, limit)
}

// FindByProviderID retrieves bookings for a specific provider with pagination.
func (r *GormBookingRepository) FindByProviderID(ctx context.Context, providerID uuid.UUID, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	return r.findByParty(ctx, "provider_id = ?", providerID, page, limit)
}

func (r *GormBookingRepository) findByParty(ctx context.Context, condition string, partyID uuid.UUID, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).Where(condition, partyID).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	var models []BookingModel
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Where(condition, partyID).
		Order("seq DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to find bookings: %w", err)
	}

	bookings, err := r.toDomainBookings(ctx, models)
	if err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

// ListAll retrieves all bookings with pagination (admin).
func (r *GormBookingRepository) ListAll(ctx context.Context, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	var models []BookingModel
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Order("seq DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}

	bookings, err := r.toDomainBookings(ctx, models)
	if err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

// CountByStatus returns booking counts grouped by status (admin).
func (r *GormBookingRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type statusCount struct {
		Status string
		Count  int64
	}
	var results []statusCount
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).
		Select("status, count(*) as count").
		Group("status").
		Find(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to count by status: %w", err)
	}

	counts := make(map[string]int64)
	for _, sc := range results {
		counts[sc.Status] = sc.Count
	}
	return counts, nil
}

// Save persists a new booking and its pet links in one transaction.
func (r *GormBookingRepository) Save(ctx context.Context, bk *bookingDomain.Booking) error {
	model := toBookingModel(bk)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(model).Error; err != nil {
			return fmt.Errorf("failed to save booking: %w", err)
		}
		for _, petID := range bk.PetIDs() {
			link := BookingPetModel{BookingID: bk.ID(), PetID: petID}
			if err := tx.Create(&link).Error; err != nil {
				return fmt.Errorf("failed to save booking pet link: %w", err)
			}
		}
		return nil
	})
}

// Update persists a status change with optimistic locking.
func (r *GormBookingRepository) Update(ctx context.Context, bk *bookingDomain.Booking) error {
	model := toBookingModel(bk)

	// Only update if the stored version matches the version the aggregate was
	// loaded with (one less than the incremented version being written).
	expectedVersion := bk.Version() - 1
	result := r.db.WithContext(ctx).
		Model(&BookingModel{}).
		Where("id = ? AND version = ?", model.ID, expectedVersion).
		Updates(map[string]interface{}{
			"status":     model.Status,
			"version":    model.Version,
			"updated_at": model.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update booking: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return domain.NewConflictError("booking was modified by another transaction")
	}

	return nil
}

// --- Conversion Helpers ---

func toBookingModel(bk *bookingDomain.Booking) *BookingModel {
	return &BookingModel{
		ID:              bk.ID(),
		BookingNumber:   bk.BookingNumber(),
		Seq:             bk.Seq(),
		ClientID:        bk.ClientID(),
		ProviderID:      bk.ProviderID(),
		AdvertisementID: bk.AdvertisementID(),
		Status:          string(bk.Status()),
		StartAt:         bk.StartAt(),
		EndAt:           bk.EndAt(),
		PriceCents:      bk.PriceCents(),
		Currency:        bk.Currency(),
		Message:         bk.Message(),
		Version:         bk.Version(),
		CreatedAt:       bk.CreatedAt(),
		UpdatedAt:       bk.UpdatedAt(),
	}
}

func (r *GormBookingRepository) toDomainBooking(ctx context.Context, m *BookingModel) (*bookingDomain.Booking, error) {
	petIDs, err := r.petIDsFor(ctx, []uuid.UUID{m.ID})
	if err != nil {
		return nil, err
	}
	return reconstructBooking(m, petIDs[m.ID])
}

func (r *GormBookingRepository) toDomainBookings(ctx context.Context, models []BookingModel) ([]*bookingDomain.Booking, error) {
	if len(models) == 0 {
		return nil, nil
	}

	ids := make([]uuid.UUID, len(models))
	for i, m := range models {
		ids[i] = m.ID
	}
	petIDs, err := r.petIDsFor(ctx, ids)
	if err != nil {
		return nil, err
	}

	bookings := make([]*bookingDomain.Booking, len(models))
	for i, m := range models {
		bk, err := reconstructBooking(&m, petIDs[m.ID])
		if err != nil {
			return nil, err
		}
		bookings[i] = bk
	}
	return bookings, nil
}

func (r *GormBookingRepository) petIDsFor(ctx context.Context, bookingIDs []uuid.UUID) (map[uuid.UUID][]uuid.UUID, error) {
	var links []BookingPetModel
	if err := r.db.WithContext(ctx).Where("booking_id IN ?", bookingIDs).Find(&links).Error; err != nil {
		return nil, fmt.Errorf("failed to find booking pet links: %w", err)
	}

	byBooking := make(map[uuid.UUID][]uuid.UUID, len(bookingIDs))
	for _, link := range links {
		byBooking[link.BookingID] = append(byBooking[link.BookingID], link.PetID)
	}
	return byBooking, nil
}

func reconstructBooking(m *BookingModel, petIDs []uuid.UUID) (*bookingDomain.Booking, error) {
	status, err := bookingDomain.ParseBookingStatus(m.Status)
	if err != nil {
		return nil, err
	}

	return bookingDomain.ReconstructBooking(
		m.ID,
		m.BookingNumber,
		m.Seq,
		m.ClientID,
		m.ProviderID,
		m.AdvertisementID,
		petIDs,
		status,
		m.StartAt,
		m.EndAt,
		m.PriceCents,
		m.Currency,
		m.Message,
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	), nil
}
