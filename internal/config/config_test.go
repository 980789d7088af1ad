package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "service-itinerary", cfg.AppName)
	assert.Equal(t, 5*time.Second, cfg.SagaConfig.CallTimeout)
	assert.Equal(t, 30*time.Second, cfg.SagaConfig.DrainTimeout)
	assert.Equal(t, 2*time.Second, cfg.KafkaConfig.PublishTimeout)
	assert.Equal(t, 3*time.Second, cfg.SearchTimeout)
	assert.Equal(t, 150*time.Millisecond, cfg.ProviderConfig.AvgLatency)
	assert.False(t, cfg.KafkaConfig.Enabled())
	assert.Equal(t, "itinerary.events", cfg.KafkaConfig.Topic)
	assert.Equal(t, "1304", cfg.SeedCustomer.ID)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("ITINERARY_APP_ENV", "production")
	t.Setenv("ITINERARY_SAGA_CALL_TIMEOUT", "750ms")
	t.Setenv("ITINERARY_PROVIDERS_FAIL_RATE", "0.5")
	t.Setenv("ITINERARY_KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092")
	t.Setenv("ITINERARY_OPS_ADDR", ":9090")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.AppEnv)
	assert.Equal(t, 750*time.Millisecond, cfg.SagaConfig.CallTimeout)
	assert.InDelta(t, 0.5, cfg.ProviderConfig.FailRate, 1e-9)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaConfig.Brokers)
	assert.True(t, cfg.KafkaConfig.Enabled())
	assert.Equal(t, ":9090", cfg.OpsAddr)
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	t.Setenv("ITINERARY_PROVIDERS_PAYMENT_FAIL_RATE", "1.5")
	_, err := Load()
	assert.ErrorContains(t, err, "providers.payment_fail_rate")
}

func TestValidate(t *testing.T) {
	cfg := &ServiceConfig{SearchTimeout: time.Second}
	assert.ErrorContains(t, cfg.Validate(), "saga.call_timeout")

	cfg.SagaConfig.CallTimeout = time.Second
	assert.ErrorContains(t, cfg.Validate(), "saga.drain_timeout")

	cfg.SagaConfig.DrainTimeout = time.Second
	assert.ErrorContains(t, cfg.Validate(), "kafka.publish_timeout")

	cfg.KafkaConfig.PublishTimeout = time.Second
	cfg.KafkaConfig.Brokers = []string{"localhost:9092"}
	assert.ErrorContains(t, cfg.Validate(), "kafka.topic")
}
