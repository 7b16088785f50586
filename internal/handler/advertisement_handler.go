package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pawfect-care/service-marketplace/internal/application"
	"github.com/pawfect-care/service-marketplace/internal/domain/identity"
	"github.com/pawfect-care/service-marketplace/internal/platform/response"
)

// AdvertisementHandler handles HTTP requests for service advertisements.
type AdvertisementHandler struct {
	service *application.AdvertisementService
}

// NewAdvertisementHandler creates a new AdvertisementHandler.
func NewAdvertisementHandler(service *application.AdvertisementService) *AdvertisementHandler {
	return &AdvertisementHandler{service: service}
}

// RegisterRoutes registers advertisement routes. Browsing is public, managing
// requires authentication.
func (h *AdvertisementHandler) RegisterRoutes(r *gin.RouterGroup, authMW, actorMW gin.HandlerFunc) {
	public := r.Group("/api/v1/advertisements")
	{
		public.GET("", h.Browse)
		public.GET("/:id", h.GetAdvertisement)
	}

	managed := r.Group("/api/v1/advertisements")
	managed.Use(authMW, actorMW)
	{
		managed.POST("", h.CreateAdvertisement)
		managed.GET("/mine", h.ListMyAdvertisements)
		managed.PUT("/:id", h.UpdateAdvertisement)
		managed.POST("/:id/pause", h.PauseAdvertisement)
		managed.POST("/:id/resume", h.ResumeAdvertisement)
		managed.POST("/:id/archive", h.ArchiveAdvertisement)
	}
}

// Browse handles GET /api/v1/advertisements.
func (h *AdvertisementHandler) Browse(c *gin.Context) {
	page, limit := parsePagination(c)

	result, err := h.service.BrowseAdvertisements(
		c.Request.Context(),
		c.Query("city"),
		c.Query("service_type"),
		page,
		limit,
	)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// GetAdvertisement handles GET /api/v1/advertisements/:id.
func (h *AdvertisementHandler) GetAdvertisement(c *gin.Context) {
	adID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid advertisement ID")
		return
	}

	result, err := h.service.GetAdvertisement(c.Request.Context(), adID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// CreateAdvertisement handles POST /api/v1/advertisements.
func (h *AdvertisementHandler) CreateAdvertisement(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var req application.CreateAdvertisementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreateAdvertisement(c.Request.Context(), actor, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// ListMyAdvertisements handles GET /api/v1/advertisements/mine.
func (h *AdvertisementHandler) ListMyAdvertisements(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	result, err := h.service.GetMyAdvertisements(c.Request.Context(), actor)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// UpdateAdvertisement handles PUT /api/v1/advertisements/:id.
func (h *AdvertisementHandler) UpdateAdvertisement(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	adID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid advertisement ID")
		return
	}

	var req application.UpdateAdvertisementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.UpdateAdvertisement(c.Request.Context(), actor, adID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// PauseAdvertisement handles POST /api/v1/advertisements/:id/pause.
func (h *AdvertisementHandler) PauseAdvertisement(c *gin.Context) {
	h.lifecycle(c, h.service.PauseAdvertisement)
}

// ResumeAdvertisement handles POST /api/v1/advertisements/:id/resume.
func (h *AdvertisementHandler) ResumeAdvertisement(c *gin.Context) {
	h.lifecycle(c, h.service.ResumeAdvertisement)
}

// ArchiveAdvertisement handles POST /api/v1/advertisements/:id/archive.
func (h *AdvertisementHandler) ArchiveAdvertisement(c *gin.Context) {
	h.lifecycle(c, h.service.ArchiveAdvertisement)
}

func (h *AdvertisementHandler) lifecycle(c *gin.Context, op func(ctx context.Context, actor identity.Actor, id uuid.UUID) error) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	adID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid advertisement ID")
		return
	}

	if err := op(c.Request.Context(), actor, adID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"updated": true})
}
