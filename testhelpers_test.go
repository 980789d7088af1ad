//go:build integration

package main_test

import (
	"context"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	kafkamodule "github.com/testcontainers/testcontainers-go/modules/kafka"
	"go.uber.org/zap"

	"github.com/Wayfarer-Travel/service-itinerary/internal/application"
	"github.com/Wayfarer-Travel/service-itinerary/internal/domain/itinerary"
	"github.com/Wayfarer-Travel/service-itinerary/internal/events"
	"github.com/Wayfarer-Travel/service-itinerary/internal/providers"
)

const itineraryTopic = "itinerary.events"

// testInfra holds shared test infrastructure.
type testInfra struct {
	KafkaBrokers []string
	Cleanup      func()
}

// sagaStack holds a booking saga that publishes to Kafka and a ledger fed back from it.
type sagaStack struct {
	Saga            *application.BookingSaga
	Ledger          *application.SagaLedger
	Consumer        *events.LedgerConsumer
	CleanupProducer func()
}

// setupContainers starts a Kafka testcontainer and creates the itinerary topic.
func setupContainers(t *testing.T) *testInfra {
	t.Helper()
	ctx := context.Background()

	// Start Kafka container using confluent-local (supports KRaft natively).
	kafkaContainer, err := kafkamodule.Run(ctx, "confluentinc/confluent-local:7.5.0")
	require.NoError(t, err, "failed to start Kafka container")

	kafkaBrokers, err := kafkaContainer.Brokers(ctx)
	require.NoError(t, err, "failed to get Kafka brokers")

	createTopics(t, kafkaBrokers, itineraryTopic)

	cleanup := func() {
		if err := kafkaContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate Kafka container: %v", err)
		}
	}

	return &testInfra{
		KafkaBrokers: kafkaBrokers,
		Cleanup:      cleanup,
	}
}

// setupSagaStack wires the saga to a Kafka producer and the ledger to a Kafka consumer.
func setupSagaStack(t *testing.T, brokers []string) *sagaStack {
	t.Helper()
	logger, _ := zap.NewDevelopment()

	producer := events.NewKafkaProducer(brokers, logger)
	publisher := events.NewSagaPublisher(producer, itineraryTopic, "service-itinerary", 2*time.Second, logger)
	saga := application.NewBookingSaga(10*time.Second, logger, publisher)

	ledger := application.NewSagaLedger()
	groupID := fmt.Sprintf("test-ledger-%s", uuid.New().String()[:8])
	consumer := events.NewLedgerConsumer(
		events.NewKafkaConsumer(brokers, groupID, itineraryTopic, logger),
		ledger,
		logger,
	)

	return &sagaStack{
		Saga:            saga,
		Ledger:          ledger,
		Consumer:        consumer,
		CleanupProducer: func() { _ = producer.Close() },
	}
}

// firstFlight searches a reliable airline and returns its first offer.
func firstFlight(t *testing.T, airline itinerary.FlightProvider) itinerary.FlightOffer {
	t.Helper()
	depart := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	offers, err := airline.SearchFlights(context.Background(), itinerary.FlightCriteria{
		Origin:      "IST",
		Destination: "YYZ",
		DepartOn:    depart,
		ReturnOn:    depart.AddDate(0, 0, 7),
		Adults:      1,
	})
	require.NoError(t, err)
	require.NotEmpty(t, offers)
	return offers[0]
}

// addFlight binds offer to provider and appends it to the itinerary.
func addFlight(t *testing.T, it *itinerary.Itinerary, provider itinerary.FlightProvider, offer itinerary.FlightOffer) {
	t.Helper()
	r, err := itinerary.NewFlightReservation(it.CustomerID(), provider, offer, itinerary.CustomerInfo{"username": "user"})
	require.NoError(t, err)
	require.NoError(t, it.Add(r))
}

func reliableConfig() providers.SimConfig {
	return providers.SimConfig{Seed: 11}
}

// consumeEvents reads the topic until every expected type has been seen.
func consumeEvents(t *testing.T, brokers []string, topic, subject string, expected []string, timeout time.Duration) map[string]events.CloudEvent {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	groupID := fmt.Sprintf("test-assert-%s", uuid.New().String()[:8])
	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     brokers,
		GroupID:     groupID,
		Topic:       topic,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafkago.FirstOffset,
	})
	defer func() { _ = reader.Close() }()

	want := make(map[string]bool, len(expected))
	for _, e := range expected {
		want[e] = true
	}
	seen := make(map[string]events.CloudEvent)
	for len(seen) < len(want) {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				t.Fatalf("timed out waiting for %v on topic %q, saw %d", expected, topic, len(seen))
			}
			continue
		}
		ce, err := events.ParseCloudEvent(msg.Value)
		if err != nil || ce.Subject != subject {
			continue
		}
		if want[ce.Type] {
			seen[ce.Type] = ce
		}
	}
	return seen
}

// createTopics pre-creates Kafka topics so producers don't fail with "Unknown Topic".
func createTopics(t *testing.T, brokers []string, topics ...string) {
	t.Helper()
	conn, err := kafkago.Dial("tcp", brokers[0])
	require.NoError(t, err, "failed to dial Kafka for topic creation")
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err, "failed to get Kafka controller")

	controllerConn, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, fmt.Sprintf("%d", controller.Port)))
	require.NoError(t, err, "failed to connect to Kafka controller")
	defer controllerConn.Close()

	topicConfigs := make([]kafkago.TopicConfig, len(topics))
	for i, topic := range topics {
		topicConfigs[i] = kafkago.TopicConfig{
			Topic:             topic,
			NumPartitions:     1,
			ReplicationFactor: 1,
		}
	}
	err = controllerConn.CreateTopics(topicConfigs...)
	require.NoError(t, err, "failed to create Kafka topics")

	// Give Kafka a moment to propagate topic metadata.
	time.Sleep(1 * time.Second)
}
