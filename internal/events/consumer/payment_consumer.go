package consumer

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/pawfect-care/service-marketplace/internal/domain"
	"github.com/pawfect-care/service-marketplace/internal/events"
	"github.com/pawfect-care/service-marketplace/internal/platform/kafka"
)

// Settler moves a booking awaiting settlement to PAID. Satisfied by the
// booking application service.
type Settler interface {
	SettleBooking(ctx context.Context, bookingID uuid.UUID) error
}

// PaymentEventConsumer listens to payment events and settles the matching
// bookings.
type PaymentEventConsumer struct {
	consumer *kafka.Consumer
	service  Settler
	logger   *zap.Logger
}

// NewPaymentEventConsumer creates a new PaymentEventConsumer.
func NewPaymentEventConsumer(
	brokers []string,
	groupID string,
	service Settler,
	logger *zap.Logger,
) *PaymentEventConsumer {
	consumer := kafka.NewConsumer(brokers, groupID, events.TopicPaymentEvents, logger)
	return &PaymentEventConsumer{
		consumer: consumer,
		service:  service,
		logger:   logger,
	}
}

// Start begins consuming payment events. This blocks until the context is cancelled.
func (c *PaymentEventConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

// Close closes the underlying Kafka consumer.
func (c *PaymentEventConsumer) Close() error {
	return c.consumer.Close()
}

func (c *PaymentEventConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	var cloudEvent kafka.CloudEvent
	if err := json.Unmarshal(msg.Value, &cloudEvent); err != nil {
		c.logger.Error("failed to parse cloud event from payment topic",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return nil // Don't retry malformed messages
	}

	switch cloudEvent.Type {
	case events.PaymentCompleted:
		return c.handlePaymentCompleted(ctx, cloudEvent)
	default:
		c.logger.Debug("ignoring unhandled payment event type",
			zap.String("type", cloudEvent.Type),
		)
		return nil
	}
}

func (c *PaymentEventConsumer) handlePaymentCompleted(ctx context.Context, cloudEvent kafka.CloudEvent) error {
	var evt events.PaymentCompletedEvent
	if err := cloudEvent.ParseData(&evt); err != nil {
		c.logger.Error("failed to parse PaymentCompletedEvent data",
			zap.Error(err),
		)
		return nil // Don't retry malformed data
	}

	if evt.PaymentStatus != "paid" {
		c.logger.Debug("ignoring payment event with non-paid status",
			zap.String("booking_id", evt.BookingID.String()),
			zap.String("payment_status", evt.PaymentStatus),
		)
		return nil
	}

	c.logger.Info("processing payment completed event",
		zap.String("booking_id", evt.BookingID.String()),
		zap.String("payment_id", evt.PaymentID),
	)

	if err := c.service.SettleBooking(ctx, evt.BookingID); err != nil {
		var domainErr *domain.Error
		if errors.As(err, &domainErr) && domainErr.Kind == domain.KindNotFound {
			c.logger.Warn("payment references unknown booking",
				zap.String("booking_id", evt.BookingID.String()),
			)
			return nil // Don't retry payments for bookings we will never know
		}
		c.logger.Error("failed to settle booking after payment",
			zap.String("booking_id", evt.BookingID.String()),
			zap.Error(err),
		)
		return err
	}

	c.logger.Info("booking settled after payment",
		zap.String("booking_id", evt.BookingID.String()),
	)
	return nil
}
