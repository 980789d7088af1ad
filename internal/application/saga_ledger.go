package application

import (
	"context"
	"sync"
	"time"
)

// SagaStatsDTO is the admin view of saga activity.
type SagaStatsDTO struct {
	Started              int64            `json:"started"`
	Committed            int64            `json:"committed"`
	Aborted              int64            `json:"aborted"`
	CommittedAmountCents int64            `json:"committed_amount_cents"`
	CompensationFailures int64            `json:"compensation_failures"`
	Cleared              int64            `json:"cleared"`
	ByEvent              map[string]int64 `json:"by_event"`
	LastEventAt          *time.Time       `json:"last_event_at,omitempty"`
}

// SagaLedger aggregates saga events into running totals.
// It is safe for concurrent use.
type SagaLedger struct {
	mu    sync.RWMutex
	stats SagaStatsDTO
}

// NewSagaLedger creates an empty SagaLedger.
func NewSagaLedger() *SagaLedger {
	return &SagaLedger{stats: SagaStatsDTO{ByEvent: make(map[string]int64)}}
}

// Observe lets the ledger be registered directly on a BookingSaga.
func (l *SagaLedger) Observe(_ context.Context, evt SagaEvent) {
	l.Record(evt)
}

// Record folds one event into the totals.
func (l *SagaLedger) Record(evt SagaEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.stats.ByEvent[string(evt.Type)]++
	switch evt.Type {
	case SagaStarted:
		l.stats.Started++
	case SagaCommitted:
		l.stats.Committed++
		l.stats.CommittedAmountCents += evt.AmountCents
	case SagaAborted:
		l.stats.Aborted++
	case ItineraryCleared:
		l.stats.Cleared++
	}
	if evt.IsCompensationFailure() {
		l.stats.CompensationFailures++
	}

	at := evt.OccurredAt
	if at.IsZero() {
		at = time.Now().UTC()
	}
	if l.stats.LastEventAt == nil || at.After(*l.stats.LastEventAt) {
		l.stats.LastEventAt = &at
	}
}

// Stats returns a snapshot of the totals.
func (l *SagaLedger) Stats() SagaStatsDTO {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := l.stats
	out.ByEvent = make(map[string]int64, len(l.stats.ByEvent))
	for k, v := range l.stats.ByEvent {
		out.ByEvent[k] = v
	}
	if l.stats.LastEventAt != nil {
		at := *l.stats.LastEventAt
		out.LastEventAt = &at
	}
	return out
}
