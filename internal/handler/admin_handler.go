package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Wayfarer-Travel/service-itinerary/internal/application"
)

// AdminHandler serves read-only admin views of saga activity and itineraries.
type AdminHandler struct {
	ledger      *application.SagaLedger
	itineraries *application.ItineraryService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(ledger *application.SagaLedger, itineraries *application.ItineraryService) *AdminHandler {
	return &AdminHandler{ledger: ledger, itineraries: itineraries}
}

// RegisterRoutes registers admin routes.
func (h *AdminHandler) RegisterRoutes(r *gin.RouterGroup) {
	admin := r.Group("/api/v1/admin")
	{
		admin.GET("/stats/sagas", h.SagaStats)
		admin.GET("/customers/:id/itineraries", h.CustomerItineraries)
	}
}

// SagaStats handles GET /api/v1/admin/stats/sagas.
func (h *AdminHandler) SagaStats(c *gin.Context) {
	respondSuccess(c, h.ledger.Stats())
}

// CustomerItineraries handles GET /api/v1/admin/customers/:id/itineraries.
func (h *AdminHandler) CustomerItineraries(c *gin.Context) {
	customerID := c.Param("id")
	if customerID == "" {
		respondBadRequest(c, "customer id is required")
		return
	}

	itineraries, err := h.itineraries.List(c.Request.Context(), customerID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, itineraries)
}
