package application

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
	"go.uber.org/zap"

	"github.com/pawfect-care/service-marketplace/internal/domain"
	bookingDomain "github.com/pawfect-care/service-marketplace/internal/domain/booking"
	"github.com/pawfect-care/service-marketplace/internal/domain/identity"
)

// PaymentSessionDTO is the response for a created checkout session.
type PaymentSessionDTO struct {
	SessionID   string `json:"session_id"`
	CheckoutURL string `json:"checkout_url"`
}

// PaymentConfig holds the redirect URLs for Stripe Checkout.
type PaymentConfig struct {
	SuccessURL string
	CancelURL  string
}

// PaymentService creates Stripe Checkout sessions for bookings awaiting
// payment. Settlement itself arrives asynchronously through the payment
// bridge, never from this service.
type PaymentService struct {
	bookingRepo bookingDomain.BookingRepository
	cfg         PaymentConfig
	logger      *zap.Logger
}

// NewPaymentService creates a new PaymentService. The Stripe API key is
// configured globally via stripe.Key at startup.
func NewPaymentService(bookingRepo bookingDomain.BookingRepository, cfg PaymentConfig, logger *zap.Logger) *PaymentService {
	return &PaymentService{bookingRepo: bookingRepo, cfg: cfg, logger: logger}
}

// CreateCheckoutSession creates a Stripe Checkout session for the booking.
// Only the booking's client may pay, and only while the booking awaits
// settlement (AWAITING_PAYMENT or OVERDUE).
func (s *PaymentService) CreateCheckoutSession(ctx context.Context, actor identity.Actor, bookingID uuid.UUID) (*PaymentSessionDTO, error) {
	bk, err := s.bookingRepo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if actor.ClientID == nil || *actor.ClientID != bk.ClientID() {
		return nil, domain.NewForbiddenError("booking does not belong to this client")
	}
	if !bk.Status().AwaitsSettlement() {
		return nil, domain.NewInvalidStateError(string(bk.Status()), string(bookingDomain.StatusPaid))
	}

	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(bk.Currency()),
					UnitAmount: stripe.Int64(bk.PriceCents()),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(fmt.Sprintf("Booking %s", bk.BookingNumber())),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL:        stripe.String(s.cfg.SuccessURL),
		CancelURL:         stripe.String(s.cfg.CancelURL),
		ClientReferenceID: stripe.String(bk.ID().String()),
	}
	params.AddMetadata("booking_id", bk.ID().String())
	params.AddMetadata("booking_number", bk.BookingNumber())

	sess, err := session.New(params)
	if err != nil {
		s.logger.Error("failed to create checkout session",
			zap.String("booking_id", bookingID.String()),
			zap.Error(err),
		)
		return nil, domain.NewInternalError("payment provider unavailable")
	}

	s.logger.Info("checkout session created",
		zap.String("booking_id", bookingID.String()),
		zap.String("session_id", sess.ID),
	)
	return &PaymentSessionDTO{
		SessionID:   sess.ID,
		CheckoutURL: sess.URL,
	}, nil
}
