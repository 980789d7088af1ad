package events

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Wayfarer-Travel/service-itinerary/internal/application"
)

var _ application.SagaObserver = (*SagaPublisher)(nil)

// SagaPublisher forwards saga events as CloudEvents, keyed by itinerary id.
// Publishing failures are logged and never reach the saga.
type SagaPublisher struct {
	publisher Publisher
	topic     string
	source    string
	timeout   time.Duration
	logger    *zap.Logger
}

// NewSagaPublisher creates a new SagaPublisher. A positive timeout bounds
// each publish, including those made during compensation where the saga
// context carries no deadline.
func NewSagaPublisher(publisher Publisher, topic, source string, timeout time.Duration, logger *zap.Logger) *SagaPublisher {
	return &SagaPublisher{
		publisher: publisher,
		topic:     topic,
		source:    source,
		timeout:   timeout,
		logger:    logger,
	}
}

func (p *SagaPublisher) Observe(ctx context.Context, evt application.SagaEvent) {
	cloudEvent, err := NewCloudEvent(p.source, string(evt.Type), evt.ItineraryID.String(), evt)
	if err != nil {
		p.logger.Error("failed to create cloud event",
			zap.String("event_type", string(evt.Type)),
			zap.Error(err),
		)
		return
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	if err := p.publisher.PublishEvent(ctx, p.topic, cloudEvent); err != nil {
		p.logger.Error("failed to publish event",
			zap.String("topic", p.topic),
			zap.String("event_type", string(evt.Type)),
			zap.String("itinerary_id", evt.ItineraryID.String()),
			zap.Error(err),
		)
	}
}
