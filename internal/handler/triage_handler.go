package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/pawfect-care/service-marketplace/internal/application"
	"github.com/pawfect-care/service-marketplace/internal/platform/response"
)

// TriageHandler handles HTTP requests for symptom triage.
type TriageHandler struct {
	service *application.TriageService
}

// NewTriageHandler creates a new TriageHandler.
func NewTriageHandler(service *application.TriageService) *TriageHandler {
	return &TriageHandler{service: service}
}

// RegisterRoutes registers the triage endpoint on the given router group.
func (h *TriageHandler) RegisterRoutes(r *gin.RouterGroup, authMW gin.HandlerFunc) {
	triage := r.Group("/api/v1/triage")
	triage.Use(authMW)
	{
		triage.POST("", h.AssessSymptoms)
	}
}

// AssessSymptoms handles POST /api/v1/triage.
func (h *TriageHandler) AssessSymptoms(c *gin.Context) {
	var req application.TriageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.AssessSymptoms(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
