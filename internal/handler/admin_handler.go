package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pawfect-care/service-marketplace/internal/application"
	"github.com/pawfect-care/service-marketplace/internal/platform/middleware"
	"github.com/pawfect-care/service-marketplace/internal/platform/response"
)

// AdminHandler handles administrative HTTP endpoints.
type AdminHandler struct {
	bookingService  *application.BookingService
	identityService *application.IdentityService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(bookingService *application.BookingService, identityService *application.IdentityService) *AdminHandler {
	return &AdminHandler{bookingService: bookingService, identityService: identityService}
}

// RegisterRoutes registers admin routes, all gated on the admin role.
func (h *AdminHandler) RegisterRoutes(r *gin.RouterGroup, authMW gin.HandlerFunc) {
	admin := r.Group("/api/v1/admin")
	admin.Use(authMW, middleware.RequireAdmin())
	{
		admin.GET("/bookings", h.ListBookings)
		admin.GET("/stats", h.BookingStats)
		admin.POST("/providers/:id/deactivate", h.DeactivateProvider)
		admin.DELETE("/clients/:id", h.DeleteClient)
	}
}

// ListBookings handles GET /api/v1/admin/bookings.
func (h *AdminHandler) ListBookings(c *gin.Context) {
	page, limit := parsePagination(c)

	items, total, err := h.bookingService.ListAllBookings(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, items, total, page, limit)
}

// BookingStats handles GET /api/v1/admin/stats.
func (h *AdminHandler) BookingStats(c *gin.Context) {
	stats, err := h.bookingService.GetBookingStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, stats)
}

// DeactivateProvider handles POST /api/v1/admin/providers/:id/deactivate.
func (h *AdminHandler) DeactivateProvider(c *gin.Context) {
	providerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid provider ID")
		return
	}

	if err := h.identityService.DeactivateProvider(c.Request.Context(), providerID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"deactivated": true})
}

// DeleteClient handles DELETE /api/v1/admin/clients/:id.
func (h *AdminHandler) DeleteClient(c *gin.Context) {
	clientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid client ID")
		return
	}

	if err := h.identityService.DeleteClientAccount(c.Request.Context(), clientID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"deleted": true})
}
