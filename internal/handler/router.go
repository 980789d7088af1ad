package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Wayfarer-Travel/service-itinerary/internal/application"
)

// RouterDeps collects what the ops router serves.
type RouterDeps struct {
	Service     string
	Logger      *zap.Logger
	Metrics     HTTPMetrics
	MetricsHTTP http.Handler
	Ledger      *application.SagaLedger
	Itineraries *application.ItineraryService
}

// NewRouter builds the ops HTTP router.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()
	router.Use(RecoveryMiddleware(deps.Logger))
	router.Use(LoggerMiddleware(deps.Logger))
	if deps.Metrics != nil {
		router.Use(MetricsMiddleware(deps.Metrics))
	}

	NewHealthHandler(deps.Service, deps.MetricsHTTP).RegisterRoutes(router)
	NewAdminHandler(deps.Ledger, deps.Itineraries).RegisterRoutes(&router.RouterGroup)
	return router
}
