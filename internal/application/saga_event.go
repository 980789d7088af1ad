package application

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SagaEventType names a step outcome reported by the booking saga.
type SagaEventType string

const (
	SagaStarted           SagaEventType = "itinerary.saga.started"
	PaymentSucceeded      SagaEventType = "itinerary.payment.succeeded"
	PaymentFailed         SagaEventType = "itinerary.payment.failed"
	BookingSucceeded      SagaEventType = "itinerary.booking.succeeded"
	BookingFailed         SagaEventType = "itinerary.booking.failed"
	RefundSucceeded       SagaEventType = "itinerary.refund.succeeded"
	RefundFailed          SagaEventType = "itinerary.refund.failed"
	CancellationSucceeded SagaEventType = "itinerary.cancellation.succeeded"
	CancellationFailed    SagaEventType = "itinerary.cancellation.failed"
	SagaCommitted         SagaEventType = "itinerary.saga.committed"
	SagaAborted           SagaEventType = "itinerary.saga.aborted"
	ItineraryCleared      SagaEventType = "itinerary.cleared"
)

// SagaEvent is the payload delivered to every SagaObserver.
type SagaEvent struct {
	Type           SagaEventType `json:"type"`
	SagaID         uuid.UUID     `json:"saga_id"`
	ItineraryID    uuid.UUID     `json:"itinerary_id"`
	CustomerID     string        `json:"customer_id"`
	ReservationID  string        `json:"reservation_id,omitempty"`
	Provider       string        `json:"provider,omitempty"`
	PaymentMethod  string        `json:"payment_method,omitempty"`
	AmountCents    int64         `json:"amount_cents,omitempty"`
	TransactionID  string        `json:"transaction_id,omitempty"`
	ConfirmationID string        `json:"confirmation_id,omitempty"`
	Compensation   bool          `json:"compensation,omitempty"`
	Duration       time.Duration `json:"duration,omitempty"`
	Error          string        `json:"error,omitempty"`
	OccurredAt     time.Time     `json:"occurred_at"`
}

// IsCompensationFailure reports whether the event records a failed undo step.
func (e SagaEvent) IsCompensationFailure() bool {
	return e.Type == RefundFailed || e.Type == CancellationFailed
}

// SagaObserver receives saga progress. Implementations must not block for long
// and must not fail the saga; errors are theirs to log.
type SagaObserver interface {
	Observe(ctx context.Context, evt SagaEvent)
}

// ObserverFunc adapts a function to SagaObserver.
type ObserverFunc func(ctx context.Context, evt SagaEvent)

func (f ObserverFunc) Observe(ctx context.Context, evt SagaEvent) { f(ctx, evt) }

// MultiObserver fans an event out to several observers in order.
type MultiObserver []SagaObserver

func (m MultiObserver) Observe(ctx context.Context, evt SagaEvent) {
	for _, o := range m {
		if o != nil {
			o.Observe(ctx, evt)
		}
	}
}
