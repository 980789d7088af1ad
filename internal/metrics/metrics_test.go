package metrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/Wayfarer-Travel/service-itinerary/internal/application"
	"github.com/Wayfarer-Travel/service-itinerary/internal/domain/itinerary"
)

func TestObserve_SagaEvents(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	ctx := context.Background()

	m.Observe(ctx, application.SagaEvent{Type: application.PaymentSucceeded, Provider: "Hilton", Duration: time.Millisecond})
	m.Observe(ctx, application.SagaEvent{Type: application.SagaCommitted, AmountCents: 80000})
	m.Observe(ctx, application.SagaEvent{Type: application.RefundFailed, Provider: "Hilton"})
	m.Observe(ctx, application.SagaEvent{Type: application.CancellationFailed, Provider: "Air Canada"})
	m.Observe(ctx, application.SagaEvent{Type: application.SagaAborted})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.SagaOutcomes.WithLabelValues("committed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SagaOutcomes.WithLabelValues("aborted")))
	assert.Equal(t, 80000.0, testutil.ToFloat64(m.CommittedAmount))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CompensationFailures.WithLabelValues("refund", "Hilton")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CompensationFailures.WithLabelValues("cancel", "Air Canada")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SagaSteps.WithLabelValues(string(application.PaymentSucceeded), "Hilton")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.StepLatency))
}

func TestObserveSearch(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.ObserveSearch("Marriott", itinerary.KindHotel, 12*time.Millisecond, nil)
	m.ObserveSearch("Marriott", itinerary.KindHotel, 40*time.Millisecond, errors.New("down"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ProviderErrors.WithLabelValues("Marriott", "hotel")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.ProviderLatency))
}
