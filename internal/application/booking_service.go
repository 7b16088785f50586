package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pawfect-care/service-marketplace/internal/domain"
	adDomain "github.com/pawfect-care/service-marketplace/internal/domain/advertisement"
	bookingDomain "github.com/pawfect-care/service-marketplace/internal/domain/booking"
	"github.com/pawfect-care/service-marketplace/internal/domain/identity"
	petDomain "github.com/pawfect-care/service-marketplace/internal/domain/pet"
	"github.com/pawfect-care/service-marketplace/internal/events"
	"github.com/pawfect-care/service-marketplace/internal/platform/clock"
	"github.com/pawfect-care/service-marketplace/internal/platform/kafka"
)

// CreateBookingRequest holds the data needed to create a new booking.
type CreateBookingRequest struct {
	AdvertisementID uuid.UUID   `json:"advertisement_id" binding:"required"`
	PetIDs          []uuid.UUID `json:"pet_ids" binding:"required"`
	StartAt         time.Time   `json:"start_at" binding:"required"`
	EndAt           time.Time   `json:"end_at" binding:"required"`
	Message         string      `json:"message"`
}

// BookingDTO is the response representation of a booking.
type BookingDTO struct {
	ID              uuid.UUID   `json:"id"`
	BookingNumber   string      `json:"booking_number"`
	ClientID        uuid.UUID   `json:"client_id"`
	ProviderID      uuid.UUID   `json:"provider_id"`
	AdvertisementID uuid.UUID   `json:"advertisement_id"`
	PetIDs          []uuid.UUID `json:"pet_ids"`
	Status          string      `json:"status"`
	StartAt         time.Time   `json:"start_at"`
	EndAt           time.Time   `json:"end_at"`
	PriceCents      int64       `json:"price_cents"`
	Currency        string      `json:"currency"`
	Message         string      `json:"message,omitempty"`
	Version         int64       `json:"version"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// ContactDTO is the counterparty contact shown in the inbox.
type ContactDTO struct {
	ID          uuid.UUID `json:"id"`
	DisplayName string    `json:"display_name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone,omitempty"`
}

// PetSummaryDTO is the pet view embedded in inbox items.
type PetSummaryDTO struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Species string    `json:"species"`
	Breed   string    `json:"breed,omitempty"`
}

// InboxItemDTO is one entry of the notification/inbox listing: the booking
// with its current (freshly computed) status, the pets it covers, and the
// counterparty's contact.
type InboxItemDTO struct {
	Booking      BookingDTO      `json:"booking"`
	Pets         []PetSummaryDTO `json:"pets"`
	Counterparty ContactDTO      `json:"counterparty"`
}

// EventPublisher publishes CloudEvents. Satisfied by the Kafka producer.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic string, evt kafka.CloudEvent) error
}

// BookingService is the application service orchestrating booking use cases.
type BookingService struct {
	repo         bookingDomain.BookingRepository
	petRepo      petDomain.PetRepository
	adRepo       adDomain.AdvertisementRepository
	identityRepo identity.Repository
	producer     EventPublisher
	clock        clock.Clock
	logger       *zap.Logger
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	repo bookingDomain.BookingRepository,
	petRepo petDomain.PetRepository,
	adRepo adDomain.AdvertisementRepository,
	identityRepo identity.Repository,
	producer EventPublisher,
	clk clock.Clock,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		repo:         repo,
		petRepo:      petRepo,
		adRepo:       adRepo,
		identityRepo: identityRepo,
		producer:     producer,
		clock:        clk,
		logger:       logger,
	}
}

// CreateBooking creates a new PENDING booking for the acting client against
// an advertisement, snapshotting the advertisement's current price.
func (s *BookingService) CreateBooking(ctx context.Context, actor identity.Actor, req CreateBookingRequest) (*BookingDTO, error) {
	if !actor.IsClient() {
		return nil, domain.NewForbiddenError("only clients can create bookings")
	}
	clientID := *actor.ClientID

	if !req.EndAt.After(req.StartAt) {
		return nil, domain.NewValidationError("end time must be after start time")
	}
	if len(req.PetIDs) == 0 {
		return nil, domain.NewValidationError("at least one pet is required")
	}

	ad, err := s.adRepo.FindByID(ctx, req.AdvertisementID)
	if err != nil {
		return nil, err
	}
	if !ad.IsBookable() {
		return nil, domain.NewInvalidStateError(string(ad.Status()), string(adDomain.AdStatusActive))
	}

	// Booking one's own advertisement is forbidden.
	if actor.OwnsProvider(ad.ProviderID()) {
		return nil, domain.NewForbiddenError("cannot book your own advertisement")
	}

	provider, err := s.identityRepo.FindProviderByID(ctx, ad.ProviderID())
	if err != nil {
		return nil, err
	}
	if !provider.Active() {
		return nil, domain.NewInvalidStateError("deactivated", "active")
	}

	pets, err := s.petRepo.FindByIDs(ctx, req.PetIDs)
	if err != nil {
		return nil, err
	}
	if len(pets) != len(req.PetIDs) {
		return nil, domain.NewNotFoundError("Pet", "one or more of the requested pets")
	}
	for _, p := range pets {
		if !p.IsOwnedBy(clientID) {
			return nil, domain.NewForbiddenError(fmt.Sprintf("pet %s does not belong to this client", p.ID()))
		}
	}

	bk, err := bookingDomain.NewBooking(
		clientID,
		ad.ProviderID(),
		ad.ID(),
		req.PetIDs,
		req.StartAt,
		req.EndAt,
		ad.PriceCents(),
		ad.Currency(),
		req.Message,
		s.clock.Now(),
	)
	if err != nil {
		return nil, err
	}

	// Booking row and pet links are written in one transaction.
	if err := s.repo.Save(ctx, bk); err != nil {
		return nil, fmt.Errorf("failed to save booking: %w", err)
	}

	s.publishBookingRequested(ctx, bk)

	result := toBookingDTO(bk)
	return &result, nil
}

// AcceptBooking lets the owning, active provider accept a PENDING booking.
func (s *BookingService) AcceptBooking(ctx context.Context, actor identity.Actor, bookingID uuid.UUID) (*BookingDTO, error) {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if err := bookingDomain.GuardAccept(actor, bk); err != nil {
		return nil, err
	}

	provider, err := s.identityRepo.FindProviderByID(ctx, bk.ProviderID())
	if err != nil {
		return nil, err
	}
	if !provider.Active() {
		return nil, domain.NewForbiddenError("deactivated providers cannot accept bookings")
	}

	if err := bk.Accept(s.clock.Now()); err != nil {
		return nil, err
	}

	if err := s.persistTransition(ctx, bk); err != nil {
		return nil, err
	}
	s.publishStatusChanged(ctx, events.BookingAccepted, bk)

	result := toBookingDTO(bk)
	return &result, nil
}

// RejectBooking lets the owning provider reject a PENDING booking.
func (s *BookingService) RejectBooking(ctx context.Context, actor identity.Actor, bookingID uuid.UUID) (*BookingDTO, error) {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if err := bookingDomain.GuardReject(actor, bk); err != nil {
		return nil, err
	}
	if err := bk.Reject(s.clock.Now()); err != nil {
		return nil, err
	}

	if err := s.persistTransition(ctx, bk); err != nil {
		return nil, err
	}
	s.publishStatusChanged(ctx, events.BookingRejected, bk)

	result := toBookingDTO(bk)
	return &result, nil
}

// CancelBooking lets the owning client cancel a PENDING booking.
func (s *BookingService) CancelBooking(ctx context.Context, actor identity.Actor, bookingID uuid.UUID) (*BookingDTO, error) {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if err := bookingDomain.GuardCancel(actor, bk); err != nil {
		return nil, err
	}
	if err := bk.Cancel(s.clock.Now()); err != nil {
		return nil, err
	}

	if err := s.persistTransition(ctx, bk); err != nil {
		return nil, err
	}
	s.publishStatusChanged(ctx, events.BookingCancelled, bk)

	result := toBookingDTO(bk)
	return &result, nil
}

// GetBooking retrieves a single booking visible to the actor, with its
// time-driven status refreshed and persisted.
func (s *BookingService) GetBooking(ctx context.Context, actor identity.Actor, bookingID uuid.UUID) (*BookingDTO, error) {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := bookingDomain.GuardView(actor, bk); err != nil {
		return nil, err
	}

	bk, err = s.refreshBooking(ctx, bk)
	if err != nil {
		return nil, err
	}

	result := toBookingDTO(bk)
	return &result, nil
}

// Inbox returns the actor's notification listing for the given party view.
// Every returned booking has its time-driven status applied and persisted
// before it is included.
func (s *BookingService) Inbox(ctx context.Context, actor identity.Actor, party bookingDomain.Party) ([]InboxItemDTO, error) {
	var partyIDs []uuid.UUID
	switch party {
	case bookingDomain.PartyClient:
		if !actor.IsClient() {
			return nil, domain.NewForbiddenError("user has no client profile")
		}
		partyIDs = []uuid.UUID{*actor.ClientID}
	case bookingDomain.PartyProvider:
		if !actor.IsProvider() {
			return nil, domain.NewForbiddenError("user has no provider profile")
		}
		partyIDs = actor.ProviderIDs
	default:
		return nil, domain.NewValidationError("unknown party: " + string(party))
	}

	now := s.clock.Now()
	bookings, err := s.repo.FindForInbox(ctx, party, partyIDs, now)
	if err != nil {
		return nil, fmt.Errorf("failed to load inbox: %w", err)
	}

	items := make([]InboxItemDTO, 0, len(bookings))
	contacts := map[uuid.UUID]ContactDTO{}
	for _, bk := range bookings {
		bk, err = s.refreshBooking(ctx, bk)
		if err != nil {
			return nil, err
		}

		pets, err := s.petRepo.FindByIDs(ctx, bk.PetIDs())
		if err != nil {
			return nil, err
		}

		counterparty, err := s.counterpartyContact(ctx, party, bk, contacts)
		if err != nil {
			return nil, err
		}

		items = append(items, InboxItemDTO{
			Booking:      toBookingDTO(bk),
			Pets:         toPetSummaries(pets),
			Counterparty: counterparty,
		})
	}
	return items, nil
}

// SettleBooking applies a payment-completion event. Settling a booking that
// is already PAID, or one not awaiting settlement, is a no-op so event
// re-delivery is safe.
func (s *BookingService) SettleBooking(ctx context.Context, bookingID uuid.UUID) error {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return err
	}

	if !bk.MarkPaid(s.clock.Now()) {
		s.logger.Info("settlement ignored for booking not awaiting payment",
			zap.String("booking_id", bookingID.String()),
			zap.String("status", bk.Status().String()),
		)
		return nil
	}

	if err := s.persistTransition(ctx, bk); err != nil {
		return err
	}
	s.publishStatusChanged(ctx, events.BookingPaid, bk)

	s.logger.Info("booking settled",
		zap.String("booking_id", bookingID.String()),
	)
	return nil
}

// --- Admin methods ---

// BookingStatsDTO holds booking statistics for the admin dashboard.
type BookingStatsDTO struct {
	TotalBookings int64            `json:"total_bookings"`
	ByStatus      map[string]int64 `json:"by_status"`
}

// ListAllBookings returns a paginated list of all bookings (admin).
func (s *BookingService) ListAllBookings(ctx context.Context, page, limit int) ([]BookingDTO, int64, error) {
	bookings, total, err := s.repo.ListAll(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}

	dtos := make([]BookingDTO, len(bookings))
	for i, bk := range bookings {
		dtos[i] = toBookingDTO(bk)
	}
	return dtos, total, nil
}

// GetBookingStats returns aggregate booking statistics (admin).
func (s *BookingService) GetBookingStats(ctx context.Context) (*BookingStatsDTO, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking stats: %w", err)
	}

	var total int64
	for _, c := range counts {
		total += c
	}

	return &BookingStatsDTO{
		TotalBookings: total,
		ByStatus:      counts,
	}, nil
}

// --- Helpers ---

// persistTransition bumps the version and writes the status change with the
// repository's compare-and-swap. A conflict means another transition won the
// race; the caller's write is not applied.
func (s *BookingService) persistTransition(ctx context.Context, bk *bookingDomain.Booking) error {
	bk.IncrementVersion()
	return s.repo.Update(ctx, bk)
}

// refreshBooking applies the time-driven rule and persists the advancement.
// If a concurrent writer got there first, the stored booking is re-read and
// returned instead.
func (s *BookingService) refreshBooking(ctx context.Context, bk *bookingDomain.Booking) (*bookingDomain.Booking, error) {
	if !bk.AdvanceForTime(s.clock.Now()) {
		return bk, nil
	}

	eventType := events.BookingAwaitingPayment
	if bk.Status() == bookingDomain.StatusOverdue {
		eventType = events.BookingOverdue
	}

	if err := s.persistTransition(ctx, bk); err != nil {
		var de *domain.Error
		if errors.As(err, &de) && de.Kind == domain.KindConflict {
			return s.repo.FindByID(ctx, bk.ID())
		}
		return nil, err
	}

	s.publishStatusChanged(ctx, eventType, bk)
	return bk, nil
}

func (s *BookingService) counterpartyContact(ctx context.Context, party bookingDomain.Party, bk *bookingDomain.Booking, cache map[uuid.UUID]ContactDTO) (ContactDTO, error) {
	if party == bookingDomain.PartyClient {
		if c, ok := cache[bk.ProviderID()]; ok {
			return c, nil
		}
		provider, err := s.identityRepo.FindProviderByID(ctx, bk.ProviderID())
		if err != nil {
			return ContactDTO{}, err
		}
		c := ContactDTO{
			ID:          provider.ID(),
			DisplayName: provider.DisplayName(),
			Email:       provider.Email(),
			Phone:       provider.Phone(),
		}
		cache[bk.ProviderID()] = c
		return c, nil
	}

	if c, ok := cache[bk.ClientID()]; ok {
		return c, nil
	}
	client, err := s.identityRepo.FindClientByID(ctx, bk.ClientID())
	if err != nil {
		return ContactDTO{}, err
	}
	c := ContactDTO{
		ID:          client.ID(),
		DisplayName: client.DisplayName(),
		Email:       client.Email(),
		Phone:       client.Phone(),
	}
	cache[bk.ClientID()] = c
	return c, nil
}

func toBookingDTO(bk *bookingDomain.Booking) BookingDTO {
	return BookingDTO{
		ID:              bk.ID(),
		BookingNumber:   bk.BookingNumber(),
		ClientID:        bk.ClientID(),
		ProviderID:      bk.ProviderID(),
		AdvertisementID: bk.AdvertisementID(),
		PetIDs:          bk.PetIDs(),
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

func toPetSummaries(pets []*petDomain.Pet) []PetSummaryDTO {
	out := make([]PetSummaryDTO, len(pets))
	for i, p := range pets {
		out[i] = PetSummaryDTO{
			ID:      p.ID(),
			Name:    p.Name(),
			Species: string(p.Species()),
			Breed:   p.Breed(),
		}
	}
	return out
}

func (s *BookingService) publishBookingRequested(ctx context.Context, bk *bookingDomain.Booking) {
	evt := events.BookingRequestedEvent{
		BookingID:     bk.ID(),
		BookingNumber: bk.BookingNumber(),
		ClientID:      bk.ClientID(),
		ProviderID:    bk.ProviderID(),
		PriceCents:    bk.PriceCents(),
		Currency:      bk.Currency(),
		StartAt:       bk.StartAt(),
		EndAt:         bk.EndAt(),
		OccurredAt:    s.clock.Now(),
	}
	s.publishEvent(ctx, events.TopicBookingEvents, events.BookingRequested, evt)
}

func (s *BookingService) publishStatusChanged(ctx context.Context, eventType string, bk *bookingDomain.Booking) {
	evt := events.BookingStatusChangedEvent{
		BookingID:     bk.ID(),
		BookingNumber: bk.BookingNumber(),
		ClientID:      bk.ClientID(),
		ProviderID:    bk.ProviderID(),
		Status:        bk.Status().String(),
		OccurredAt:    s.clock.Now(),
	}
	s.publishEvent(ctx, events.TopicBookingEvents, eventType, evt)
}

func (s *BookingService) publishEvent(ctx context.Context, topic, eventType string, data interface{}) {
	cloudEvent, err := kafka.NewCloudEvent("service-marketplace", eventType, data)
	if err != nil {
		s.logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}

	if err := s.producer.PublishEvent(ctx, topic, cloudEvent); err != nil {
		s.logger.Error("failed to publish event",
			zap.String("topic", topic),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}
