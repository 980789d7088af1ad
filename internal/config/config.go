package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ServiceConfig holds all configuration for the itinerary service.
type ServiceConfig struct {
	AppEnv         string
	AppName        string
	SagaConfig     SagaConfig
	SearchTimeout  time.Duration
	ProviderConfig ProviderConfig
	KafkaConfig    KafkaConfig
	OpsAddr        string
	SeedCustomer   SeedCustomer
}

// SagaConfig tunes the booking saga.
type SagaConfig struct {
	CallTimeout time.Duration
	// DrainTimeout bounds how long shutdown waits for in-flight reservations
	// to finish their compensation.
	DrainTimeout time.Duration
}

// ProviderConfig tunes the simulated vendors.
type ProviderConfig struct {
	FailRate        float64
	PaymentFailRate float64
	AvgLatency      time.Duration
	Seed            int64
}

// KafkaConfig locates the event broker. No brokers means in-process delivery.
type KafkaConfig struct {
	Brokers        []string
	Topic          string
	GroupID        string
	PublishTimeout time.Duration
}

// Enabled reports whether any broker is configured.
func (k KafkaConfig) Enabled() bool { return len(k.Brokers) > 0 }

// SeedCustomer is the account created at start-up.
type SeedCustomer struct {
	ID       string
	Username string
	Password string
}

// Load reads configuration from defaults, an optional config file, a .env
// file and ITINERARY_* environment variables, in increasing precedence.
func Load() (*ServiceConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix("ITINERARY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "development")
	v.SetDefault("app.name", "service-itinerary")
	v.SetDefault("saga.call_timeout", "5s")
	v.SetDefault("saga.drain_timeout", "30s")
	v.SetDefault("search.timeout", "3s")
	v.SetDefault("providers.fail_rate", 0.05)
	v.SetDefault("providers.payment_fail_rate", 0.05)
	v.SetDefault("providers.avg_latency", "150ms")
	v.SetDefault("providers.seed", 0)
	v.SetDefault("kafka.brokers", []string{})
	v.SetDefault("kafka.topic", "itinerary.events")
	v.SetDefault("kafka.group_id", "itinerary-ledger")
	v.SetDefault("kafka.publish_timeout", "2s")
	v.SetDefault("ops.addr", "")
	v.SetDefault("seed.customer_id", "1304")
	v.SetDefault("seed.username", "user")
	v.SetDefault("seed.password", "1234")
}

func fromViper(v *viper.Viper) (*ServiceConfig, error) {
	cfg := &ServiceConfig{
		AppEnv:  v.GetString("app.env"),
		AppName: v.GetString("app.name"),
		SagaConfig: SagaConfig{
			CallTimeout:  v.GetDuration("saga.call_timeout"),
			DrainTimeout: v.GetDuration("saga.drain_timeout"),
		},
		SearchTimeout: v.GetDuration("search.timeout"),
		ProviderConfig: ProviderConfig{
			FailRate:        v.GetFloat64("providers.fail_rate"),
			PaymentFailRate: v.GetFloat64("providers.payment_fail_rate"),
			AvgLatency:      v.GetDuration("providers.avg_latency"),
			Seed:            v.GetInt64("providers.seed"),
		},
		KafkaConfig: KafkaConfig{
			Brokers:        splitBrokers(v.GetStringSlice("kafka.brokers")),
			Topic:          v.GetString("kafka.topic"),
			GroupID:        v.GetString("kafka.group_id"),
			PublishTimeout: v.GetDuration("kafka.publish_timeout"),
		},
		OpsAddr: v.GetString("ops.addr"),
		SeedCustomer: SeedCustomer{
			ID:       v.GetString("seed.customer_id"),
			Username: v.GetString("seed.username"),
			Password: v.GetString("seed.password"),
		},
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the service cannot run with.
func (c *ServiceConfig) Validate() error {
	if c.SagaConfig.CallTimeout <= 0 {
		return errors.New("saga.call_timeout must be positive")
	}
	if c.SagaConfig.DrainTimeout <= 0 {
		return errors.New("saga.drain_timeout must be positive")
	}
	if c.KafkaConfig.PublishTimeout <= 0 {
		return errors.New("kafka.publish_timeout must be positive")
	}
	if c.SearchTimeout <= 0 {
		return errors.New("search.timeout must be positive")
	}
	for name, rate := range map[string]float64{
		"providers.fail_rate":         c.ProviderConfig.FailRate,
		"providers.payment_fail_rate": c.ProviderConfig.PaymentFailRate,
	} {
		if rate < 0 || rate > 1 {
			return fmt.Errorf("%s must be between 0 and 1", name)
		}
	}
	if c.KafkaConfig.Enabled() && c.KafkaConfig.Topic == "" {
		return errors.New("kafka.topic is required when brokers are set")
	}
	return nil
}

// splitBrokers accepts both list values and a comma-separated env string.
func splitBrokers(raw []string) []string {
	var out []string
	for _, entry := range raw {
		for _, b := range strings.Split(entry, ",") {
			if b = strings.TrimSpace(b); b != "" {
				out = append(out, b)
			}
		}
	}
	return out
}
