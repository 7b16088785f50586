package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pawfect-care/service-marketplace/internal/application"
	bookingDomain "github.com/pawfect-care/service-marketplace/internal/domain/booking"
	"github.com/pawfect-care/service-marketplace/internal/domain/identity"
	"github.com/pawfect-care/service-marketplace/internal/platform/response"
)

// BookingHandler handles HTTP requests for booking operations.
type BookingHandler struct {
	service        *application.BookingService
	paymentService *application.PaymentService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(service *application.BookingService, paymentService *application.PaymentService) *BookingHandler {
	return &BookingHandler{service: service, paymentService: paymentService}
}

// RegisterRoutes registers all booking routes on the given router group.
func (h *BookingHandler) RegisterRoutes(r *gin.RouterGroup, authMW, actorMW gin.HandlerFunc) {
	bookings := r.Group("/api/v1/bookings")
	bookings.Use(authMW, actorMW)
	{
		bookings.POST("", h.CreateBooking)
		bookings.GET("/:id", h.GetBooking)
		bookings.POST("/:id/accept", h.AcceptBooking)
		bookings.POST("/:id/reject", h.RejectBooking)
		bookings.POST("/:id/cancel", h.CancelBooking)
		bookings.POST("/:id/payment-session", h.CreatePaymentSession)
	}

	notifications := r.Group("/api/v1/notifications")
	notifications.Use(authMW, actorMW)
	{
		notifications.GET("", h.Notifications)
	}
}

// CreateBooking handles POST /api/v1/bookings.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var req application.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreateBooking(c.Request.Context(), actor, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// GetBooking handles GET /api/v1/bookings/:id.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	result, err := h.service.GetBooking(c.Request.Context(), actor, bookingID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// AcceptBooking handles POST /api/v1/bookings/:id/accept.
func (h *BookingHandler) AcceptBooking(c *gin.Context) {
	h.transition(c, h.service.AcceptBooking)
}

// RejectBooking handles POST /api/v1/bookings/:id/reject.
func (h *BookingHandler) RejectBooking(c *gin.Context) {
	h.transition(c, h.service.RejectBooking)
}

// CancelBooking handles POST /api/v1/bookings/:id/cancel.
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	h.transition(c, h.service.CancelBooking)
}

func (h *BookingHandler) transition(c *gin.Context, op func(ctx context.Context, actor identity.Actor, bookingID uuid.UUID) (*application.BookingDTO, error)) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	result, err := op(c.Request.Context(), actor, bookingID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// Notifications handles GET /api/v1/notifications?role=client|provider.
func (h *BookingHandler) Notifications(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	party := bookingDomain.Party(c.DefaultQuery("role", string(bookingDomain.PartyClient)))
	if party != bookingDomain.PartyClient && party != bookingDomain.PartyProvider {
		response.BadRequest(c, "role must be client or provider")
		return
	}

	items, err := h.service.Inbox(c.Request.Context(), actor, party)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, items)
}

// CreatePaymentSession handles POST /api/v1/bookings/:id/payment-session.
func (h *BookingHandler) CreatePaymentSession(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	result, err := h.paymentService.CreateCheckoutSession(c.Request.Context(), actor, bookingID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}
