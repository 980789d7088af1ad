package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Wayfarer-Travel/service-itinerary/internal/application"
	"github.com/Wayfarer-Travel/service-itinerary/internal/domain/itinerary"
)

var (
	_ application.SagaObserver    = (*Metrics)(nil)
	_ application.ProviderMetrics = (*Metrics)(nil)
)

// Metrics holds the Prometheus collectors for the itinerary service.
type Metrics struct {
	SagaOutcomes         *prometheus.CounterVec
	SagaSteps            *prometheus.CounterVec
	CompensationFailures *prometheus.CounterVec
	CommittedAmount      prometheus.Counter
	StepLatency          *prometheus.HistogramVec

	ProviderErrors  *prometheus.CounterVec
	ProviderLatency *prometheus.HistogramVec

	HTTPRequestDuration *prometheus.HistogramVec
	HTTPRequestsTotal   *prometheus.CounterVec
	Registry            *prometheus.Registry
}

// NewMetrics creates the collectors and registers them on the registry.
func NewMetrics(r *prometheus.Registry) *Metrics {
	m := &Metrics{
		SagaOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "itinerary_saga_outcomes_total",
			Help: "Booking sagas by final outcome",
		}, []string{"outcome"}),
		SagaSteps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "itinerary_saga_steps_total",
			Help: "Saga steps by event type and provider",
		}, []string{"event", "provider"}),
		CompensationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "itinerary_compensation_failures_total",
			Help: "Refund or cancellation steps that failed during rollback",
		}, []string{"step", "provider"}),
		CommittedAmount: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "itinerary_committed_amount_cents_total",
			Help: "Sum of committed itinerary totals in cents",
		}),
		StepLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "itinerary_saga_step_duration_seconds",
			Help:    "Latency of payment and provider calls made by the saga",
			Buckets: prometheus.DefBuckets,
		}, []string{"event"}),
		ProviderErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "provider_search_errors_total",
			Help: "Search errors returned by each provider",
		}, []string{"provider", "kind"}),
		ProviderLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "provider_search_latency_ms",
			Help:    "Latency of provider searches",
			Buckets: prometheus.LinearBuckets(5, 20, 15),
		}, []string{"provider", "kind"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		}, []string{"method", "path", "status"}),
		Registry: r,
	}

	r.MustRegister(
		m.SagaOutcomes,
		m.SagaSteps,
		m.CompensationFailures,
		m.CommittedAmount,
		m.StepLatency,
		m.ProviderErrors,
		m.ProviderLatency,
		m.HTTPRequestDuration,
		m.HTTPRequestsTotal,
	)
	return m
}

// Observe records a saga event.
func (m *Metrics) Observe(_ context.Context, evt application.SagaEvent) {
	m.SagaSteps.WithLabelValues(string(evt.Type), evt.Provider).Inc()
	if evt.Duration > 0 {
		m.StepLatency.WithLabelValues(string(evt.Type)).Observe(evt.Duration.Seconds())
	}

	switch evt.Type {
	case application.SagaCommitted:
		m.SagaOutcomes.WithLabelValues("committed").Inc()
		m.CommittedAmount.Add(float64(evt.AmountCents))
	case application.SagaAborted:
		m.SagaOutcomes.WithLabelValues("aborted").Inc()
	case application.RefundFailed:
		m.CompensationFailures.WithLabelValues("refund", evt.Provider).Inc()
	case application.CancellationFailed:
		m.CompensationFailures.WithLabelValues("cancel", evt.Provider).Inc()
	}
}

// ObserveSearch records one provider search call.
func (m *Metrics) ObserveSearch(provider string, kind itinerary.Kind, d time.Duration, err error) {
	m.ProviderLatency.WithLabelValues(provider, string(kind)).Observe(float64(d.Milliseconds()))
	if err != nil {
		m.ProviderErrors.WithLabelValues(provider, string(kind)).Inc()
	}
}

func (m *Metrics) ObserveHTTPRequestDuration(method, path, status string, seconds float64) {
	m.HTTPRequestDuration.WithLabelValues(method, path, status).Observe(seconds)
}

func (m *Metrics) IncHTTPRequestsTotal(method, path, status string) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
