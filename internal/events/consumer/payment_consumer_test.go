package consumer

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pawfect-care/service-marketplace/internal/domain"
	"github.com/pawfect-care/service-marketplace/internal/events"
	"github.com/pawfect-care/service-marketplace/internal/platform/kafka"
)

type fakeSettler struct {
	settled []uuid.UUID
	err     error
}

func (f *fakeSettler) SettleBooking(_ context.Context, bookingID uuid.UUID) error {
	if f.err != nil {
		return f.err
	}
	f.settled = append(f.settled, bookingID)
	return nil
}

func newTestConsumer(settler Settler) *PaymentEventConsumer {
	return NewPaymentEventConsumer([]string{"localhost:9092"}, "test-group", settler, zap.NewNop())
}

func paymentMessage(t *testing.T, bookingID uuid.UUID, paymentStatus string) kafkago.Message {
	t.Helper()
	evt := events.PaymentCompletedEvent{
		BookingID:     bookingID,
		PaymentID:     "cs_test_123",
		PaymentStatus: paymentStatus,
		AmountCents:   2500,
		Currency:      "EUR",
		OccurredAt:    time.Now().UTC(),
	}
	ce, err := kafka.NewCloudEvent("test", events.PaymentCompleted, evt)
	require.NoError(t, err)
	raw, err := json.Marshal(ce)
	require.NoError(t, err)
	return kafkago.Message{Topic: events.TopicPaymentEvents, Value: raw}
}

func TestHandleMessage_SettlesPaidBooking(t *testing.T) {
	settler := &fakeSettler{}
	c := newTestConsumer(settler)
	bookingID := uuid.New()

	err := c.handleMessage(context.Background(), paymentMessage(t, bookingID, "paid"))
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{bookingID}, settler.settled)
}

func TestHandleMessage_IgnoresNonPaidStatus(t *testing.T) {
	settler := &fakeSettler{}
	c := newTestConsumer(settler)

	err := c.handleMessage(context.Background(), paymentMessage(t, uuid.New(), "failed"))
	require.NoError(t, err)
	assert.Empty(t, settler.settled)
}

func TestHandleMessage_MalformedPayloadIsNotRetried(t *testing.T) {
	settler := &fakeSettler{}
	c := newTestConsumer(settler)

	err := c.handleMessage(context.Background(), kafkago.Message{Value: []byte("not json")})
	require.NoError(t, err)
	assert.Empty(t, settler.settled)
}

func TestHandleMessage_UnknownBookingIsNotRetried(t *testing.T) {
	settler := &fakeSettler{err: domain.NewNotFoundError("booking", uuid.New().String())}
	c := newTestConsumer(settler)

	err := c.handleMessage(context.Background(), paymentMessage(t, uuid.New(), "paid"))
	assert.NoError(t, err)
}

func TestHandleMessage_TransientErrorIsRetried(t *testing.T) {
	settler := &fakeSettler{err: domain.NewInternalError("database unavailable")}
	c := newTestConsumer(settler)

	err := c.handleMessage(context.Background(), paymentMessage(t, uuid.New(), "paid"))
	assert.Error(t, err)
}

func TestHandleMessage_IgnoresOtherEventTypes(t *testing.T) {
	settler := &fakeSettler{}
	c := newTestConsumer(settler)

	ce, err := kafka.NewCloudEvent("test", "payment.refunded", map[string]string{"x": "y"})
	require.NoError(t, err)
	raw, err := json.Marshal(ce)
	require.NoError(t, err)

	require.NoError(t, c.handleMessage(context.Background(), kafkago.Message{Value: raw}))
	assert.Empty(t, settler.settled)
}
