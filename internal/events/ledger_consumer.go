package events

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/Wayfarer-Travel/service-itinerary/internal/application"
)

// LedgerConsumer listens to itinerary events and folds them into the saga ledger.
type LedgerConsumer struct {
	source Source
	ledger *application.SagaLedger
	logger *zap.Logger
}

// NewLedgerConsumer creates a new LedgerConsumer.
func NewLedgerConsumer(source Source, ledger *application.SagaLedger, logger *zap.Logger) *LedgerConsumer {
	return &LedgerConsumer{source: source, ledger: ledger, logger: logger}
}

// Start begins consuming itinerary events. This blocks until the context is cancelled.
func (c *LedgerConsumer) Start(ctx context.Context) error {
	return c.source.Consume(ctx, c.handleMessage)
}

// Close closes the underlying source.
func (c *LedgerConsumer) Close() error {
	return c.source.Close()
}

func (c *LedgerConsumer) handleMessage(_ context.Context, payload []byte) error {
	cloudEvent, err := ParseCloudEvent(payload)
	if err != nil {
		c.logger.Error("failed to parse cloud event from itinerary topic",
			zap.Error(err),
			zap.String("raw", string(payload)),
		)
		return nil // Don't retry malformed messages
	}

	if !strings.HasPrefix(cloudEvent.Type, "itinerary.") {
		c.logger.Debug("ignoring unhandled event type",
			zap.String("type", cloudEvent.Type),
		)
		return nil
	}

	var evt application.SagaEvent
	if err := cloudEvent.ParseData(&evt); err != nil {
		c.logger.Error("failed to parse saga event data",
			zap.String("type", cloudEvent.Type),
			zap.Error(err),
		)
		return nil // Don't retry malformed data
	}

	c.ledger.Record(evt)
	c.logger.Debug("saga event recorded",
		zap.String("type", cloudEvent.Type),
		zap.String("itinerary_id", evt.ItineraryID.String()),
	)
	return nil
}
