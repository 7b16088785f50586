package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pawfect-care/service-marketplace/internal/application"
	"github.com/pawfect-care/service-marketplace/internal/events"
	"github.com/pawfect-care/service-marketplace/internal/platform/clock"
	"github.com/pawfect-care/service-marketplace/internal/platform/kafka"
	"github.com/pawfect-care/service-marketplace/internal/platform/response"
)

const paymentEventSource = "service-marketplace/payment-webhook"

// PaymentWebhookHandler receives settlement notifications from the payment
// bridge and republishes them as payment events. The booking is settled by
// the payment event consumer, so webhook delivery and settlement share one
// code path.
type PaymentWebhookHandler struct {
	producer application.EventPublisher
	clock    clock.Clock
	logger   *zap.Logger
}

// NewPaymentWebhookHandler creates a new PaymentWebhookHandler.
func NewPaymentWebhookHandler(producer application.EventPublisher, clk clock.Clock, logger *zap.Logger) *PaymentWebhookHandler {
	return &PaymentWebhookHandler{producer: producer, clock: clk, logger: logger}
}

// RegisterRoutes registers the webhook endpoint.
func (h *PaymentWebhookHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/api/v1/payments/webhook", h.HandleWebhook)
}

type paymentWebhookRequest struct {
	BookingID     uuid.UUID `json:"booking_id" binding:"required"`
	PaymentID     string    `json:"payment_id"`
	PaymentStatus string    `json:"payment_status" binding:"required"`
	AmountCents   int64     `json:"amount_cents"`
	Currency      string    `json:"currency"`
}

// HandleWebhook handles POST /api/v1/payments/webhook.
func (h *PaymentWebhookHandler) HandleWebhook(c *gin.Context) {
	var req paymentWebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	event := events.PaymentCompletedEvent{
		BookingID:     req.BookingID,
		PaymentID:     req.PaymentID,
		PaymentStatus: req.PaymentStatus,
		AmountCents:   req.AmountCents,
		Currency:      req.Currency,
		OccurredAt:    h.clock.Now(),
	}

	cloudEvent, err := kafka.NewCloudEvent(paymentEventSource, events.PaymentCompleted, event)
	if err != nil {
		h.logger.Error("failed to build payment event", zap.Error(err))
		response.Error(c, err)
		return
	}

	if err := h.producer.PublishEvent(c.Request.Context(), events.TopicPaymentEvents, cloudEvent); err != nil {
		h.logger.Error("failed to publish payment event",
			zap.String("booking_id", req.BookingID.String()),
			zap.Error(err),
		)
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"accepted": true})
}
