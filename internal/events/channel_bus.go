package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"go.uber.org/zap"
)

// ChannelBus is the in-process event transport used when no brokers are configured.
type ChannelBus struct {
	pubSub *gochannel.GoChannel
	logger *zap.Logger
}

// NewChannelBus creates an in-memory pub/sub. Nothing is retained: events
// published to a topic with no subscriber are dropped.
func NewChannelBus(logger *zap.Logger) *ChannelBus {
	pubSub := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: 256,
	}, NewZapLoggerAdapter(logger))
	return &ChannelBus{pubSub: pubSub, logger: logger}
}

func (b *ChannelBus) PublishEvent(_ context.Context, topic string, ce CloudEvent) error {
	payload, err := json.Marshal(ce)
	if err != nil {
		return fmt.Errorf("failed to marshal cloud event: %w", err)
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set("ce_type", ce.Type)
	msg.Metadata.Set("key", ce.Key())
	return b.pubSub.Publish(topic, msg)
}

// Subscribe attaches to the topic immediately and returns a Source over that
// subscription. Events published from here on are buffered until consumed.
// The subscription ends when ctx is done or the bus is closed.
func (b *ChannelBus) Subscribe(ctx context.Context, topic string) (Source, error) {
	messages, err := b.pubSub.Subscribe(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to %s: %w", topic, err)
	}
	return &channelSource{bus: b, topic: topic, messages: messages}, nil
}

func (b *ChannelBus) Close() error {
	return b.pubSub.Close()
}

type channelSource struct {
	bus      *ChannelBus
	topic    string
	messages <-chan *message.Message
}

func (s *channelSource) Consume(ctx context.Context, handle MessageHandler) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-s.messages:
			if !ok {
				return ctx.Err()
			}
			if err := handle(msg.Context(), msg.Payload); err != nil {
				s.bus.logger.Error("message handler failed",
					zap.String("topic", s.topic),
					zap.String("message_uuid", msg.UUID),
					zap.Error(err),
				)
				msg.Nack()
				continue
			}
			msg.Ack()
		}
	}
}

// Close is a no-op; the subscription ends with the Subscribe context.
func (s *channelSource) Close() error { return nil }
