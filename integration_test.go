//go:build integration

package main_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawfect-care/service-marketplace/internal/domain"
	"github.com/pawfect-care/service-marketplace/internal/domain/identity"
	"github.com/pawfect-care/service-marketplace/internal/domain/review"
	"github.com/pawfect-care/service-marketplace/internal/events"
	"github.com/pawfect-care/service-marketplace/internal/repository"
)

// TestPaymentCompleted_SettlesBooking verifies that when a PaymentCompletedEvent
// is published to payment.events, the marketplace service picks it up and
// transitions the booking to PAID.
func TestPaymentCompleted_SettlesBooking(t *testing.T) {
	infra := setupContainers(t)
	defer infra.Cleanup()

	stack := setupMarketplaceStack(t, infra.DB, infra.KafkaBrokers)
	defer stack.CleanupProducer()
	defer func() { _ = stack.Consumer.Close() }()

	// Seed a booking awaiting settlement.
	bookingID := uuid.New()
	clientID := uuid.New()
	providerID := uuid.New()
	seedBookingAwaitingPayment(t, infra.DB, bookingID, clientID, providerID)

	// Start the consumer.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = stack.Consumer.Start(ctx) }()
	time.Sleep(3 * time.Second) // Wait for consumer group join.

	// Publish PaymentCompletedEvent.
	evt := events.PaymentCompletedEvent{
		BookingID:     bookingID,
		PaymentID:     "cs_test_" + uuid.New().String()[:8],
		PaymentStatus: "paid",
		AmountCents:   2500,
		Currency:      "EUR",
		OccurredAt:    time.Now().UTC(),
	}
	publishTestEvent(t, infra.KafkaBrokers, events.TopicPaymentEvents,
		"service-marketplace/payment-webhook", events.PaymentCompleted, evt)

	// Assert: booking transitions to PAID.
	model := waitForBookingStatus(t, infra.DB, bookingID, "PAID", 15*time.Second)
	assert.Equal(t, int64(4), model.Version, "settlement bumps the entity version once")

	// Assert: booking.paid event on booking.events.
	ce := consumeOneEvent(t, infra.KafkaBrokers, events.TopicBookingEvents,
		events.BookingPaid, 15*time.Second)

	var paid events.BookingStatusChangedEvent
	require.NoError(t, ce.ParseData(&paid))
	assert.Equal(t, bookingID, paid.BookingID)
	assert.Equal(t, clientID, paid.ClientID)
	assert.Equal(t, providerID, paid.ProviderID)
	assert.Equal(t, "PAID", paid.Status)

	// Redelivering the same event leaves the booking untouched.
	publishTestEvent(t, infra.KafkaBrokers, events.TopicPaymentEvents,
		"service-marketplace/payment-webhook", events.PaymentCompleted, evt)
	time.Sleep(3 * time.Second)

	model = waitForBookingStatus(t, infra.DB, bookingID, "PAID", 5*time.Second)
	assert.Equal(t, int64(4), model.Version, "redelivery must not bump the version again")
}

// TestUniqueIndexes_SurfaceAsConflicts verifies that the database unique
// indexes back the one-review-per-booking and one-client-profile-per-user
// rules with a conflict error instead of a generic failure. This is the
// backstop for writers racing past the application-level existence checks.
func TestUniqueIndexes_SurfaceAsConflicts(t *testing.T) {
	infra := setupContainers(t)
	defer infra.Cleanup()
	ctx := context.Background()
	now := time.Now().UTC()

	bookingID := uuid.New()
	clientID := uuid.New()
	providerID := uuid.New()
	seedBookingAwaitingPayment(t, infra.DB, bookingID, clientID, providerID)

	reviewRepo := repository.NewGormReviewRepository(infra.DB)
	first, err := review.NewReview(bookingID, clientID, providerID, 5, "great", now)
	require.NoError(t, err)
	require.NoError(t, reviewRepo.Save(ctx, first))

	second, err := review.NewReview(bookingID, clientID, providerID, 1, "changed my mind", now)
	require.NoError(t, err)
	err = reviewRepo.Save(ctx, second)
	assert.Equal(t, domain.KindConflict, domain.KindOf(err), "duplicate review must map to a conflict")

	identityRepo := repository.NewGormIdentityRepository(infra.DB)
	userID := uuid.New()
	profile, err := identity.NewClient(userID, "Maja", "maja@example.com", "", "Berlin", now)
	require.NoError(t, err)
	require.NoError(t, identityRepo.SaveClient(ctx, profile))

	duplicate, err := identity.NewClient(userID, "Maja Again", "maja2@example.com", "", "Berlin", now)
	require.NoError(t, err)
	err = identityRepo.SaveClient(ctx, duplicate)
	assert.Equal(t, domain.KindConflict, domain.KindOf(err), "duplicate client profile must map to a conflict")
}
