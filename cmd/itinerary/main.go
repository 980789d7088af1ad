package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/Wayfarer-Travel/service-itinerary/internal/application"
	"github.com/Wayfarer-Travel/service-itinerary/internal/config"
	"github.com/Wayfarer-Travel/service-itinerary/internal/console"
	customerDomain "github.com/Wayfarer-Travel/service-itinerary/internal/domain/customer"
	"github.com/Wayfarer-Travel/service-itinerary/internal/domain/itinerary"
	"github.com/Wayfarer-Travel/service-itinerary/internal/events"
	"github.com/Wayfarer-Travel/service-itinerary/internal/handler"
	"github.com/Wayfarer-Travel/service-itinerary/internal/logger"
	"github.com/Wayfarer-Travel/service-itinerary/internal/metrics"
	"github.com/Wayfarer-Travel/service-itinerary/internal/providers"
	"github.com/Wayfarer-Travel/service-itinerary/internal/repository"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewNamed(cfg.AppEnv, cfg.AppName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting "+cfg.AppName,
		zap.String("env", cfg.AppEnv),
		zap.Bool("kafka", cfg.KafkaConfig.Enabled()),
		zap.Duration("call_timeout", cfg.SagaConfig.CallTimeout),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics(reg)

	// The ledger outlives the signal so compensation events raised while
	// draining are still recorded.
	consumerCtx, consumerCancel := context.WithCancel(context.Background())
	defer consumerCancel()

	// Event transport: Kafka when brokers are configured, in-process otherwise
	var (
		publisher events.Publisher
		source    events.Source
	)
	if cfg.KafkaConfig.Enabled() {
		publisher = events.NewKafkaProducer(cfg.KafkaConfig.Brokers, log)
		source = events.NewKafkaConsumer(cfg.KafkaConfig.Brokers, cfg.KafkaConfig.GroupID, cfg.KafkaConfig.Topic, log)
	} else {
		bus := events.NewChannelBus(log)
		publisher = bus
		source, err = bus.Subscribe(consumerCtx, cfg.KafkaConfig.Topic)
		if err != nil {
			log.Fatal("failed to subscribe itinerary ledger", zap.Error(err))
		}
	}
	defer func() { _ = publisher.Close() }()

	ledger := application.NewSagaLedger()
	ledgerConsumer := events.NewLedgerConsumer(source, ledger, log)
	defer func() { _ = ledgerConsumer.Close() }()

	consumerDone := make(chan struct{})
	go func() {
		defer close(consumerDone)
		log.Info("starting itinerary ledger consumer", zap.String("topic", cfg.KafkaConfig.Topic))
		if err := ledgerConsumer.Start(consumerCtx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("itinerary ledger consumer error", zap.Error(err))
		}
	}()

	// Simulated vendors
	vendorCfg := providers.SimConfig{
		AvgLatency: cfg.ProviderConfig.AvgLatency,
		FailRate:   cfg.ProviderConfig.FailRate,
		Seed:       cfg.ProviderConfig.Seed,
	}
	paymentCfg := vendorCfg
	paymentCfg.FailRate = cfg.ProviderConfig.PaymentFailRate

	flights := []itinerary.FlightProvider{
		providers.NewTurkishAirlines(vendorCfg),
		providers.NewAirCanada(vendorCfg),
	}
	hotels := []itinerary.HotelProvider{
		providers.NewHilton(vendorCfg),
		providers.NewMarriott(vendorCfg),
	}

	// Repositories and seed account
	customerRepo := repository.NewMemoryCustomerRepository()
	if err := seedCustomer(ctx, customerRepo, cfg.SeedCustomer, paymentCfg); err != nil {
		log.Fatal("failed to seed customer", zap.Error(err))
	}

	// Application services
	saga := application.NewBookingSaga(cfg.SagaConfig.CallTimeout, log,
		m,
		events.NewSagaPublisher(publisher, cfg.KafkaConfig.Topic, cfg.AppName, cfg.KafkaConfig.PublishTimeout, log),
	)
	authService := application.NewAuthService(customerRepo, log)
	searchService := application.NewSearchService(flights, hotels, cfg.SearchTimeout, m, log)
	itineraryService := application.NewItineraryService(customerRepo, saga, log)

	// Optional ops server
	var srv *http.Server
	if cfg.OpsAddr != "" {
		gin.SetMode(gin.ReleaseMode)
		router := handler.NewRouter(handler.RouterDeps{
			Service:     cfg.AppName,
			Logger:      log,
			Metrics:     m,
			MetricsHTTP: m.Handler(),
			Ledger:      ledger,
			Itineraries: itineraryService,
		})
		srv = &http.Server{
			Addr:         cfg.OpsAddr,
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		}
		go func() {
			log.Info("ops server starting", zap.String("addr", cfg.OpsAddr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("ops server error", zap.Error(err))
			}
		}()
	}

	// Run the console until the user exits or a signal arrives
	ui := console.New(os.Stdin, os.Stdout, authService, searchService, itineraryService, log)
	done := make(chan error, 1)
	go func() { done <- ui.Run(ctx) }()

	select {
	case err := <-done:
		if err != nil {
			log.Error("console session ended with error", zap.Error(err))
		}
	case <-ctx.Done():
		log.Info("shutdown signal received")
	}

	log.Info("shutting down " + cfg.AppName + "...")
	stop()

	// Let reservations already under way finish their compensation before
	// the transports close.
	drainCtx, drainCancel := context.WithTimeout(context.Background(), cfg.SagaConfig.DrainTimeout)
	defer drainCancel()
	if err := itineraryService.Drain(drainCtx); err != nil {
		log.Error("in-flight reservations did not finish before drain timeout",
			zap.Duration("drain_timeout", cfg.SagaConfig.DrainTimeout),
			zap.Error(err),
		)
	}
	consumerCancel()
	<-consumerDone

	if srv != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("ops server forced shutdown", zap.Error(err))
		}
	}

	stats := ledger.Stats()
	log.Info(cfg.AppName+" stopped",
		zap.Int64("sagas_committed", stats.Committed),
		zap.Int64("sagas_aborted", stats.Aborted),
		zap.Int64("compensation_failures", stats.CompensationFailures),
	)
}

// seedCustomer registers the bootstrap account with a PayPal and a Stripe method.
func seedCustomer(ctx context.Context, repo *repository.MemoryCustomerRepository, seed config.SeedCustomer, cfg providers.SimConfig) error {
	c, err := customerDomain.NewCustomer(seed.ID, seed.Username, seed.Password)
	if err != nil {
		return err
	}
	if err := c.AddPaymentMethod(providers.NewPayPal(seed.Username+"@example.com", cfg)); err != nil {
		return err
	}
	if err := c.AddPaymentMethod(providers.NewStripe("4242424242424242", cfg)); err != nil {
		return err
	}
	return repo.Save(ctx, c)
}
