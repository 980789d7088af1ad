package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Wayfarer-Travel/service-itinerary/internal/application"
	"github.com/Wayfarer-Travel/service-itinerary/internal/domain"
	customerDomain "github.com/Wayfarer-Travel/service-itinerary/internal/domain/customer"
	"github.com/Wayfarer-Travel/service-itinerary/internal/metrics"
	"github.com/Wayfarer-Travel/service-itinerary/internal/repository"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	router  *gin.Engine
	ledger  *application.SagaLedger
	repo    *repository.MemoryCustomerRepository
	metrics *metrics.Metrics
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := zap.NewNop()
	repo := repository.NewMemoryCustomerRepository()
	ledger := application.NewSagaLedger()
	saga := application.NewBookingSaga(time.Second, logger, ledger)
	m := metrics.NewMetrics(prometheus.NewRegistry())

	router := NewRouter(RouterDeps{
		Service:     "service-itinerary",
		Logger:      logger,
		Metrics:     m,
		MetricsHTTP: m.Handler(),
		Ledger:      ledger,
		Itineraries: application.NewItineraryService(repo, saga, logger),
	})
	return &testEnv{router: router, ledger: ledger, repo: repo, metrics: m}
}

func (e *testEnv) get(path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	w := env.get("/health")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "service-itinerary", body["service"])
}

func TestMetricsEndpointExposesHTTPCounters(t *testing.T) {
	env := newTestEnv(t)
	env.get("/health")

	w := env.get("/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")
}

func TestSagaStats(t *testing.T) {
	env := newTestEnv(t)
	env.ledger.Record(application.SagaEvent{Type: application.SagaStarted})
	env.ledger.Record(application.SagaEvent{Type: application.SagaCommitted, AmountCents: 63000})

	w := env.get("/api/v1/admin/stats/sagas")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Success bool                     `json:"success"`
		Data    application.SagaStatsDTO `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, int64(1), body.Data.Started)
	assert.Equal(t, int64(1), body.Data.Committed)
	assert.Equal(t, int64(63000), body.Data.CommittedAmountCents)
}

func TestCustomerItineraries(t *testing.T) {
	env := newTestEnv(t)
	c, err := customerDomain.NewCustomer("1304", "user", "1234")
	require.NoError(t, err)
	require.NoError(t, env.repo.Save(t.Context(), c))

	t.Run("known customer", func(t *testing.T) {
		w := env.get("/api/v1/admin/customers/1304/itineraries")
		require.Equal(t, http.StatusOK, w.Code)
		body := decode(t, w)
		assert.Equal(t, true, body["success"])
		assert.Empty(t, body["data"])
	})

	t.Run("unknown customer", func(t *testing.T) {
		w := env.get("/api/v1/admin/customers/nope/itineraries")
		require.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, decode(t, w)["error"], "not found")
	})
}

func TestRespondErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", domain.NewValidationError("bad"), http.StatusBadRequest},
		{"not found", domain.NewNotFoundError("Customer", "1"), http.StatusNotFound},
		{"state", domain.NewInvalidStateError("draft", "committed"), http.StatusConflict},
		{"unauthorized", domain.NewUnauthorizedError(domain.ErrInvalidCredentials), http.StatusUnauthorized},
		{"internal", assert.AnError, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			respondError(c, tt.err)
			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusInternalServerError {
				assert.False(t, strings.Contains(w.Body.String(), assert.AnError.Error()))
			}
		})
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(RecoveryMiddleware(zap.NewNop()))
	router.GET("/panic", func(*gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
