package events

import (
	"context"
	"errors"
	"fmt"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// messageReader is the subset of *kafkago.Reader the consumer drives.
type messageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// KafkaConsumer reads one topic as part of a consumer group.
type KafkaConsumer struct {
	reader messageReader
	topic  string
	logger *zap.Logger
}

// NewKafkaConsumer creates a consumer starting from the earliest uncommitted offset.
func NewKafkaConsumer(brokers []string, groupID, topic string, logger *zap.Logger) *KafkaConsumer {
	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     brokers,
		GroupID:     groupID,
		Topic:       topic,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafkago.FirstOffset,
	})
	return &KafkaConsumer{reader: reader, topic: topic, logger: logger}
}

// Consume blocks until the context is cancelled. A message the handler
// rejects is logged and skipped; its offset is committed with the rest so the
// group does not replay it.
func (c *KafkaConsumer) Consume(ctx context.Context, handle MessageHandler) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("failed to fetch from %s: %w", c.topic, err)
		}

		if err := handle(ctx, msg.Value); err != nil {
			c.logger.Error("message handler failed, skipping message",
				zap.String("topic", msg.Topic),
				zap.Int("partition", msg.Partition),
				zap.Int64("offset", msg.Offset),
				zap.Error(err),
			)
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			c.logger.Warn("failed to commit offset",
				zap.String("topic", msg.Topic),
				zap.Int64("offset", msg.Offset),
				zap.Error(err),
			)
		}
	}
}

func (c *KafkaConsumer) Close() error {
	return c.reader.Close()
}
