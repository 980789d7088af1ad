package events

import "context"

// Publisher delivers CloudEvents to a topic.
type Publisher interface {
	PublishEvent(ctx context.Context, topic string, ce CloudEvent) error
	Close() error
}

// MessageHandler processes one raw message payload. How a returned error is
// treated depends on the Source: Kafka skips the message, the in-process bus
// nacks it for redelivery.
type MessageHandler func(ctx context.Context, payload []byte) error

// Source streams raw message payloads from one topic until ctx is done.
type Source interface {
	Consume(ctx context.Context, handle MessageHandler) error
	Close() error
}
