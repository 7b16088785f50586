package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pawfect-care/service-marketplace/internal/application"
	"github.com/pawfect-care/service-marketplace/internal/platform/response"
)

// ReviewHandler handles HTTP requests for reviews.
type ReviewHandler struct {
	service *application.ReviewService
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(service *application.ReviewService) *ReviewHandler {
	return &ReviewHandler{service: service}
}

// RegisterRoutes registers review routes. Reading a provider's reviews is
// public, writing requires authentication.
func (h *ReviewHandler) RegisterRoutes(r *gin.RouterGroup, authMW, actorMW gin.HandlerFunc) {
	reviews := r.Group("/api/v1/reviews")
	reviews.Use(authMW, actorMW)
	{
		reviews.POST("", h.CreateReview)
	}

	r.GET("/api/v1/providers/:id/reviews", h.ListProviderReviews)
}

// CreateReview handles POST /api/v1/reviews.
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var req application.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreateReview(c.Request.Context(), actor, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// ListProviderReviews handles GET /api/v1/providers/:id/reviews.
func (h *ReviewHandler) ListProviderReviews(c *gin.Context) {
	providerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid provider ID")
		return
	}

	page, limit := parsePagination(c)
	result, err := h.service.ListProviderReviews(c.Request.Context(), providerID, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}
