package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthHandler serves liveness and Prometheus scrape endpoints.
type HealthHandler struct {
	service   string
	startedAt time.Time
	metrics   http.Handler
}

// NewHealthHandler creates a new HealthHandler. metrics may be nil.
func NewHealthHandler(service string, metrics http.Handler) *HealthHandler {
	return &HealthHandler{service: service, startedAt: time.Now().UTC(), metrics: metrics}
}

// RegisterRoutes registers /health and, when available, /metrics.
func (h *HealthHandler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)
	if h.metrics != nil {
		r.GET("/metrics", gin.WrapH(h.metrics))
	}
}

// Health handles GET /health.
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"service":    h.service,
		"uptime_sec": int64(time.Since(h.startedAt).Seconds()),
	})
}
