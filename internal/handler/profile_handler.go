package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pawfect-care/service-marketplace/internal/application"
	"github.com/pawfect-care/service-marketplace/internal/domain"
	"github.com/pawfect-care/service-marketplace/internal/platform/middleware"
	"github.com/pawfect-care/service-marketplace/internal/platform/response"
)

// ProfileHandler handles HTTP requests for client and provider profiles.
type ProfileHandler struct {
	service *application.IdentityService
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(service *application.IdentityService) *ProfileHandler {
	return &ProfileHandler{service: service}
}

// RegisterRoutes registers profile routes on the given router group.
func (h *ProfileHandler) RegisterRoutes(r *gin.RouterGroup, authMW, actorMW gin.HandlerFunc) {
	profiles := r.Group("/api/v1/profiles")
	profiles.Use(authMW)
	{
		profiles.POST("/client", h.RegisterClient)
		profiles.POST("/provider", h.RegisterProvider)
	}

	me := r.Group("/api/v1/profiles/client")
	me.Use(authMW, actorMW)
	{
		me.DELETE("", h.DeleteOwnClientAccount)
	}

	r.GET("/api/v1/providers/:id", h.GetProvider)
}

// RegisterClient handles POST /api/v1/profiles/client.
func (h *ProfileHandler) RegisterClient(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	var req application.RegisterClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.RegisterClient(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// RegisterProvider handles POST /api/v1/profiles/provider.
func (h *ProfileHandler) RegisterProvider(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
		return
	}

	var req application.RegisterProviderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.RegisterProvider(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// GetProvider handles GET /api/v1/providers/:id.
func (h *ProfileHandler) GetProvider(c *gin.Context) {
	providerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid provider ID")
		return
	}

	result, err := h.service.GetProvider(c.Request.Context(), providerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// DeleteOwnClientAccount handles DELETE /api/v1/profiles/client. It removes
// the caller's client profile together with its pets, bookings and reviews.
func (h *ProfileHandler) DeleteOwnClientAccount(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	if actor.ClientID == nil {
		response.Error(c, domain.NewNotFoundError("Client", actor.UserID.String()))
		return
	}

	if err := h.service.DeleteClientAccount(c.Request.Context(), *actor.ClientID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"deleted": true})
}
