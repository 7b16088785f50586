package application

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pawfect-care/service-marketplace/internal/domain"
	adDomain "github.com/pawfect-care/service-marketplace/internal/domain/advertisement"
	bookingDomain "github.com/pawfect-care/service-marketplace/internal/domain/booking"
	"github.com/pawfect-care/service-marketplace/internal/domain/identity"
	petDomain "github.com/pawfect-care/service-marketplace/internal/domain/pet"
	reviewDomain "github.com/pawfect-care/service-marketplace/internal/domain/review"
	"github.com/pawfect-care/service-marketplace/internal/platform/kafka"
)

// fakeClock is a settable clock for driving time-dependent transitions.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(at time.Time) *fakeClock {
	return &fakeClock{now: at}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(at time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = at
}

// recordingPublisher captures published events for assertions.
type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

type publishedEvent struct {
	Topic string
	Event kafka.CloudEvent
}

func (p *recordingPublisher) PublishEvent(_ context.Context, topic string, evt kafka.CloudEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{Topic: topic, Event: evt})
	return nil
}

func (p *recordingPublisher) Types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]string, len(p.events))
	for i, e := range p.events {
		types[i] = e.Event.Type
	}
	return types
}

// memoryBookingRepository is an in-memory BookingRepository with the same
// optimistic-locking behavior as the GORM implementation.
type memoryBookingRepository struct {
	mu       sync.Mutex
	bookings map[uuid.UUID]*bookingDomain.Booking
	nextSeq  int64
}

func newMemoryBookingRepository() *memoryBookingRepository {
	return &memoryBookingRepository{bookings: map[uuid.UUID]*bookingDomain.Booking{}}
}

func (r *memoryBookingRepository) clone(bk *bookingDomain.Booking) *bookingDomain.Booking {
	return bookingDomain.ReconstructBooking(
		bk.ID(), bk.BookingNumber(), bk.Seq(), bk.ClientID(), bk.ProviderID(),
		bk.AdvertisementID(), bk.PetIDs(), bk.Status(), bk.StartAt(), bk.EndAt(),
		bk.PriceCents(), bk.Currency(), bk.Message(), bk.Version(),
		bk.CreatedAt(), bk.UpdatedAt(),
	)
}

func (r *memoryBookingRepository) FindByID(_ context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	bk, ok := r.bookings[id]
	if !ok {
		return nil, domain.NewNotFoundError("Booking", id.String())
	}
	return r.clone(bk), nil
}

func (r *memoryBookingRepository) FindByNumber(_ context.Context, number string) (*bookingDomain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, bk := range r.bookings {
		if bk.BookingNumber() == number {
			return r.clone(bk), nil
		}
	}
	return nil, domain.NewNotFoundError("Booking", number)
}

func (r *memoryBookingRepository) FindForInbox(_ context.Context, party bookingDomain.Party, partyIDs []uuid.UUID, now time.Time) ([]*bookingDomain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := map[uuid.UUID]bool{}
	for _, id := range partyIDs {
		ids[id] = true
	}

	var out []*bookingDomain.Booking
	for _, bk := range r.bookings {
		partyID := bk.ClientID()
		if party == bookingDomain.PartyProvider {
			partyID = bk.ProviderID()
		}
		if !ids[partyID] {
			continue
		}

		include := false
		switch bk.Status() {
		case bookingDomain.StatusPending, bookingDomain.StatusAccepted, bookingDomain.StatusAwaitingPayment:
			include = true
		case bookingDomain.StatusCancelled, bookingDomain.StatusRejected:
			include = bk.UpdatedAt().After(now.Add(-bookingDomain.ClosedRecencyWindow))
		case bookingDomain.StatusOverdue, bookingDomain.StatusPaid:
			include = bk.UpdatedAt().After(now.Add(-bookingDomain.SettledRecencyWindow))
		}
		if include {
			out = append(out, r.clone(bk))
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Seq() > out[j].Seq() })
	return out, nil
}

func (r *memoryBookingRepository) FindByClientID(_ context.Context, clientID uuid.UUID, _, _ int) ([]*bookingDomain.Booking, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*bookingDomain.Booking
	for _, bk := range r.bookings {
		if bk.ClientID() == clientID {
			out = append(out, r.clone(bk))
		}
	}
	return out, int64(len(out)), nil
}

func (r *memoryBookingRepository) FindByProviderID(_ context.Context, providerID uuid.UUID, _, _ int) ([]*bookingDomain.Booking, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*bookingDomain.Booking
	for _, bk := range r.bookings {
		if bk.ProviderID() == providerID {
			out = append(out, r.clone(bk))
		}
	}
	return out, int64(len(out)), nil
}

func (r *memoryBookingRepository) ListAll(_ context.Context, _, _ int) ([]*bookingDomain.Booking, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*bookingDomain.Booking, 0, len(r.bookings))
	for _, bk := range r.bookings {
		out = append(out, r.clone(bk))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Seq() > out[j].Seq() })
	return out, int64(len(out)), nil
}

func (r *memoryBookingRepository) CountByStatus(_ context.Context) (map[string]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := map[string]int64{}
	for _, bk := range r.bookings {
		counts[string(bk.Status())]++
	}
	return counts, nil
}

func (r *memoryBookingRepository) Save(_ context.Context, bk *bookingDomain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextSeq++
	stored := bookingDomain.ReconstructBooking(
		bk.ID(), bk.BookingNumber(), r.nextSeq, bk.ClientID(), bk.ProviderID(),
		bk.AdvertisementID(), bk.PetIDs(), bk.Status(), bk.StartAt(), bk.EndAt(),
		bk.PriceCents(), bk.Currency(), bk.Message(), bk.Version(),
		bk.CreatedAt(), bk.UpdatedAt(),
	)
	r.bookings[bk.ID()] = stored
	return nil
}

func (r *memoryBookingRepository) Update(_ context.Context, bk *bookingDomain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.bookings[bk.ID()]
	if !ok {
		return domain.NewNotFoundError("Booking", bk.ID().String())
	}
	if stored.Version() != bk.Version()-1 {
		return domain.NewConflictError("booking was modified by another transaction")
	}
	r.bookings[bk.ID()] = r.clone(bk)
	return nil
}

// memoryPetRepository is an in-memory PetRepository.
type memoryPetRepository struct {
	mu   sync.Mutex
	pets map[uuid.UUID]*petDomain.Pet
}

func newMemoryPetRepository() *memoryPetRepository {
	return &memoryPetRepository{pets: map[uuid.UUID]*petDomain.Pet{}}
}

func (r *memoryPetRepository) FindByID(_ context.Context, id uuid.UUID) (*petDomain.Pet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.pets[id]
	if !ok {
		return nil, domain.NewNotFoundError("Pet", id.String())
	}
	return p, nil
}

func (r *memoryPetRepository) FindByIDs(_ context.Context, ids []uuid.UUID) ([]*petDomain.Pet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*petDomain.Pet
	for _, id := range ids {
		if p, ok := r.pets[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memoryPetRepository) FindByClientID(_ context.Context, clientID uuid.UUID) ([]*petDomain.Pet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*petDomain.Pet
	for _, p := range r.pets {
		if p.ClientID() == clientID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memoryPetRepository) Save(_ context.Context, p *petDomain.Pet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pets[p.ID()] = p
	return nil
}

func (r *memoryPetRepository) Update(_ context.Context, p *petDomain.Pet) error {
	return r.Save(context.Background(), p)
}

// memoryAdvertisementRepository is an in-memory AdvertisementRepository.
type memoryAdvertisementRepository struct {
	mu  sync.Mutex
	ads map[uuid.UUID]*adDomain.Advertisement
}

func newMemoryAdvertisementRepository() *memoryAdvertisementRepository {
	return &memoryAdvertisementRepository{ads: map[uuid.UUID]*adDomain.Advertisement{}}
}

func (r *memoryAdvertisementRepository) FindByID(_ context.Context, id uuid.UUID) (*adDomain.Advertisement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ad, ok := r.ads[id]
	if !ok {
		return nil, domain.NewNotFoundError("Advertisement", id.String())
	}
	return ad, nil
}

func (r *memoryAdvertisementRepository) FindByProviderID(_ context.Context, providerID uuid.UUID) ([]*adDomain.Advertisement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*adDomain.Advertisement
	for _, ad := range r.ads {
		if ad.ProviderID() == providerID {
			out = append(out, ad)
		}
	}
	return out, nil
}

func (r *memoryAdvertisementRepository) ListActive(_ context.Context, city string, serviceType adDomain.ServiceType, _, _ int) ([]*adDomain.Advertisement, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*adDomain.Advertisement
	for _, ad := range r.ads {
		if !ad.IsBookable() {
			continue
		}
		if city != "" && ad.City() != city {
			continue
		}
		if serviceType != "" && ad.ServiceType() != serviceType {
			continue
		}
		out = append(out, ad)
	}
	return out, int64(len(out)), nil
}

func (r *memoryAdvertisementRepository) Save(_ context.Context, ad *adDomain.Advertisement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ads[ad.ID()] = ad
	return nil
}

func (r *memoryAdvertisementRepository) Update(_ context.Context, ad *adDomain.Advertisement) error {
	return r.Save(context.Background(), ad)
}

// memoryIdentityRepository is an in-memory identity.Repository.
type memoryIdentityRepository struct {
	mu        sync.Mutex
	clients   map[uuid.UUID]*identity.Client
	providers map[uuid.UUID]*identity.Provider
}

func newMemoryIdentityRepository() *memoryIdentityRepository {
	return &memoryIdentityRepository{
		clients:   map[uuid.UUID]*identity.Client{},
		providers: map[uuid.UUID]*identity.Provider{},
	}
}

func (r *memoryIdentityRepository) ResolveActor(_ context.Context, userID uuid.UUID, isAdmin bool) (identity.Actor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	actor := identity.Actor{UserID: userID, IsAdmin: isAdmin}
	for _, c := range r.clients {
		if c.UserID() == userID {
			id := c.ID()
			actor.ClientID = &id
			break
		}
	}
	for _, p := range r.providers {
		if p.UserID() == userID {
			actor.ProviderIDs = append(actor.ProviderIDs, p.ID())
		}
	}
	return actor, nil
}

func (r *memoryIdentityRepository) FindClientByID(_ context.Context, id uuid.UUID) (*identity.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.clients[id]
	if !ok {
		return nil, domain.NewNotFoundError("Client", id.String())
	}
	return c, nil
}

func (r *memoryIdentityRepository) FindClientByUserID(_ context.Context, userID uuid.UUID) (*identity.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.clients {
		if c.UserID() == userID {
			return c, nil
		}
	}
	return nil, domain.NewNotFoundError("Client", userID.String())
}

func (r *memoryIdentityRepository) SaveClient(_ context.Context, c *identity.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[c.ID()] = c
	return nil
}

func (r *memoryIdentityRepository) FindProviderByID(_ context.Context, id uuid.UUID) (*identity.Provider, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.providers[id]
	if !ok {
		return nil, domain.NewNotFoundError("Provider", id.String())
	}
	return p, nil
}

func (r *memoryIdentityRepository) FindProvidersByUserID(_ context.Context, userID uuid.UUID) ([]*identity.Provider, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*identity.Provider
	for _, p := range r.providers {
		if p.UserID() == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memoryIdentityRepository) SaveProvider(_ context.Context, p *identity.Provider) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[p.ID()] = p
	return nil
}

func (r *memoryIdentityRepository) UpdateProvider(_ context.Context, p *identity.Provider) error {
	return r.SaveProvider(context.Background(), p)
}

func (r *memoryIdentityRepository) DeleteClientCascade(_ context.Context, clientID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.clients[clientID]; !ok {
		return domain.NewNotFoundError("Client", clientID.String())
	}
	delete(r.clients, clientID)
	return nil
}

// memoryReviewRepository is an in-memory ReviewRepository.
type memoryReviewRepository struct {
	mu      sync.Mutex
	reviews map[uuid.UUID]*reviewDomain.Review
}

func newMemoryReviewRepository() *memoryReviewRepository {
	return &memoryReviewRepository{reviews: map[uuid.UUID]*reviewDomain.Review{}}
}

func (r *memoryReviewRepository) FindByID(_ context.Context, id uuid.UUID) (*reviewDomain.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rv, ok := r.reviews[id]
	if !ok {
		return nil, domain.NewNotFoundError("Review", id.String())
	}
	return rv, nil
}

func (r *memoryReviewRepository) ExistsForBooking(_ context.Context, bookingID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rv := range r.reviews {
		if rv.BookingID() == bookingID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryReviewRepository) FindByProviderID(_ context.Context, providerID uuid.UUID, _, _ int) ([]*reviewDomain.Review, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*reviewDomain.Review
	for _, rv := range r.reviews {
		if rv.ProviderID() == providerID {
			out = append(out, rv)
		}
	}
	return out, int64(len(out)), nil
}

func (r *memoryReviewRepository) Save(_ context.Context, rv *reviewDomain.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.reviews {
		if existing.BookingID() == rv.BookingID() {
			return domain.NewConflictError("booking already has a review")
		}
	}
	r.reviews[rv.ID()] = rv
	return nil
}
