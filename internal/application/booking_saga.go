package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Wayfarer-Travel/service-itinerary/internal/domain"
	"github.com/Wayfarer-Travel/service-itinerary/internal/domain/itinerary"
	"github.com/Wayfarer-Travel/service-itinerary/internal/domain/payment"
)

// CompensationFailure records an undo step that did not succeed.
// Failed compensations are reported, never retried.
type CompensationFailure struct {
	ReservationID  uuid.UUID
	Provider       string
	Step           string
	TransactionID  string
	ConfirmationID string
	Err            error
}

func (f CompensationFailure) Error() string {
	return fmt.Sprintf("%s of reservation %s failed: %v", f.Step, f.ReservationID, f.Err)
}

func (f CompensationFailure) Unwrap() error { return f.Err }

// Outcome is the business result of one commit attempt.
type Outcome struct {
	SagaID    uuid.UUID
	Committed bool
	// Cause is the payment or booking failure that aborted the saga.
	Cause error
	// FailedReservation is the reservation whose step failed.
	FailedReservation uuid.UUID
	// RolledBack lists the previously booked reservations that were compensated.
	RolledBack           []uuid.UUID
	CompensationFailures []CompensationFailure
	// Dropped lists the reservations removed from the itinerary after the abort.
	Dropped []*itinerary.Reservation
}

// BookingSaga pays for and books every reservation of an itinerary in order,
// compensating already booked reservations when a step fails.
type BookingSaga struct {
	callTimeout time.Duration
	observer    SagaObserver
	logger      *zap.Logger
}

// NewBookingSaga creates a new BookingSaga.
func NewBookingSaga(callTimeout time.Duration, logger *zap.Logger, observers ...SagaObserver) *BookingSaga {
	return &BookingSaga{
		callTimeout: callTimeout,
		observer:    MultiObserver(observers),
		logger:      logger,
	}
}

// sagaRun carries the per-commit state.
type sagaRun struct {
	id          uuid.UUID
	itinerary   *itinerary.Itinerary
	coordinator *PaymentCoordinator
	logger      *zap.Logger
	outcome     *Outcome
}

// Commit runs the saga. The returned error is reserved for invalid calls;
// payment and booking failures are reported through the Outcome.
func (s *BookingSaga) Commit(ctx context.Context, it *itinerary.Itinerary, method payment.Method) (*Outcome, error) {
	if it == nil {
		return nil, domain.NewValidationError("itinerary is required")
	}
	if method == nil {
		return nil, domain.NewValidationError("payment method is required")
	}
	if it.IsCommitted() {
		return nil, domain.ErrItineraryCommitted
	}
	if it.IsEmpty() {
		return nil, domain.ErrEmptyItinerary
	}
	reservations := it.Reservations()
	for _, r := range reservations {
		if r.Status() != itinerary.StatusPending {
			return nil, fmt.Errorf("reservation %s: %w", r.ID(),
				domain.NewInvalidStateError(string(r.Status()), string(itinerary.StatusPaid)))
		}
	}

	run := &sagaRun{
		id:          uuid.New(),
		itinerary:   it,
		coordinator: NewPaymentCoordinator(method, s.callTimeout),
		outcome:     &Outcome{},
	}
	run.outcome.SagaID = run.id
	run.logger = s.logger.With(
		zap.String("saga_id", run.id.String()),
		zap.String("itinerary_id", it.ID().String()),
		zap.String("payment_method", method.Name()),
	)

	run.logger.Info("itinerary saga started",
		zap.Int("reservations", len(reservations)),
		zap.String("total", it.TotalCost().String()),
	)
	s.emit(ctx, run, nil, SagaEvent{Type: SagaStarted, AmountCents: int64(it.TotalCost())})

	var booked []*itinerary.Reservation
	for _, r := range reservations {
		start := time.Now()
		transactionID, err := run.coordinator.ProcessPayment(ctx, r.Cost())
		if err != nil {
			if markErr := r.RecordPaymentFailure(); markErr != nil {
				return nil, markErr
			}
			run.logger.Warn("reservation payment failed",
				zap.String("reservation_id", r.ID().String()),
				zap.String("amount", r.Cost().String()),
				zap.Error(err),
			)
			s.emit(ctx, run, r, SagaEvent{
				Type:        PaymentFailed,
				AmountCents: int64(r.Cost()),
				Duration:    time.Since(start),
				Error:       err.Error(),
			})
			return s.abort(ctx, run, r, err, booked), nil
		}
		if err := r.RecordPayment(transactionID); err != nil {
			return nil, err
		}
		s.emit(ctx, run, r, SagaEvent{
			Type:          PaymentSucceeded,
			AmountCents:   int64(r.Cost()),
			TransactionID: transactionID,
			Duration:      time.Since(start),
		})

		start = time.Now()
		bookCtx, cancel := withCallTimeout(ctx, s.callTimeout)
		err = r.Book(bookCtx)
		cancel()
		if err != nil {
			run.logger.Warn("reservation booking failed",
				zap.String("reservation_id", r.ID().String()),
				zap.String("provider", r.Provider()),
				zap.Error(err),
			)
			s.emit(ctx, run, r, SagaEvent{
				Type:          BookingFailed,
				TransactionID: transactionID,
				Duration:      time.Since(start),
				Error:         err.Error(),
			})
			// The charge for this reservation is refunded once; a failed refund is only reported.
			s.refund(context.WithoutCancel(ctx), run, r)
			return s.abort(ctx, run, r, err, booked), nil
		}

		confirmationID, _ := r.ConfirmationID()
		s.emit(ctx, run, r, SagaEvent{
			Type:           BookingSucceeded,
			TransactionID:  transactionID,
			ConfirmationID: confirmationID,
			Duration:       time.Since(start),
		})
		booked = append(booked, r)
	}

	if err := it.MarkCommitted(); err != nil {
		return nil, fmt.Errorf("failed to mark itinerary committed: %w", err)
	}
	run.outcome.Committed = true

	run.logger.Info("itinerary saga committed",
		zap.Int("reservations", len(booked)),
		zap.String("total", it.TotalCost().String()),
	)
	s.emit(ctx, run, nil, SagaEvent{Type: SagaCommitted, AmountCents: int64(it.TotalCost())})
	return run.outcome, nil
}

// CancelAll removes every reservation from a draft itinerary. It has no
// payment or booking side effects; calling it on an empty itinerary succeeds.
func (s *BookingSaga) CancelAll(ctx context.Context, it *itinerary.Itinerary) error {
	if it == nil {
		return domain.NewValidationError("itinerary is required")
	}
	removed := it.Len()
	if err := it.Clear(); err != nil {
		return err
	}

	s.logger.Info("itinerary cleared",
		zap.String("itinerary_id", it.ID().String()),
		zap.Int("removed", removed),
	)
	s.observer.Observe(ctx, SagaEvent{
		Type:        ItineraryCleared,
		ItineraryID: it.ID(),
		CustomerID:  it.CustomerID(),
		OccurredAt:  time.Now().UTC(),
	})
	return nil
}

// abort compensates every reservation booked before the failure, in booking
// order, then drops whatever is left without a confirmation.
func (s *BookingSaga) abort(ctx context.Context, run *sagaRun, failed *itinerary.Reservation, cause error, booked []*itinerary.Reservation) *Outcome {
	// Compensation must run even when the caller's context is already done.
	compCtx := context.WithoutCancel(ctx)

	run.outcome.Cause = cause
	run.outcome.FailedReservation = failed.ID()

	for _, r := range booked {
		s.refund(compCtx, run, r)
		s.cancel(compCtx, run, r)
		run.outcome.RolledBack = append(run.outcome.RolledBack, r.ID())
	}

	run.outcome.Dropped = run.itinerary.DropUnconfirmed()

	run.logger.Warn("itinerary saga aborted",
		zap.String("failed_reservation_id", failed.ID().String()),
		zap.Int("rolled_back", len(run.outcome.RolledBack)),
		zap.Int("dropped", len(run.outcome.Dropped)),
		zap.Int("compensation_failures", len(run.outcome.CompensationFailures)),
		zap.Error(cause),
	)
	s.emit(compCtx, run, failed, SagaEvent{Type: SagaAborted, Error: cause.Error()})
	return run.outcome
}

func (s *BookingSaga) refund(ctx context.Context, run *sagaRun, r *itinerary.Reservation) {
	transactionID, _ := r.PaymentTransactionID()
	start := time.Now()
	if err := run.coordinator.ProcessRefund(ctx, transactionID); err != nil {
		s.compensationFailed(ctx, run, r, "refund", transactionID, err, time.Since(start))
		return
	}
	if err := r.RecordRefund(); err != nil {
		s.logger.Error("failed to record refund", zap.String("reservation_id", r.ID().String()), zap.Error(err))
	}
	s.emit(ctx, run, r, SagaEvent{
		Type:          RefundSucceeded,
		AmountCents:   int64(r.Cost()),
		TransactionID: transactionID,
		Compensation:  true,
		Duration:      time.Since(start),
	})
}

func (s *BookingSaga) cancel(ctx context.Context, run *sagaRun, r *itinerary.Reservation) {
	confirmationID, _ := r.ConfirmationID()
	transactionID, _ := r.PaymentTransactionID()
	start := time.Now()

	cancelCtx, cancelFn := withCallTimeout(ctx, s.callTimeout)
	err := r.Cancel(cancelCtx)
	cancelFn()
	if err != nil {
		s.compensationFailed(ctx, run, r, "cancel", transactionID, err, time.Since(start))
		return
	}
	s.emit(ctx, run, r, SagaEvent{
		Type:           CancellationSucceeded,
		ConfirmationID: confirmationID,
		Compensation:   true,
		Duration:       time.Since(start),
	})
}

func (s *BookingSaga) compensationFailed(ctx context.Context, run *sagaRun, r *itinerary.Reservation, step, transactionID string, err error, elapsed time.Duration) {
	confirmationID, _ := r.ConfirmationID()
	run.outcome.CompensationFailures = append(run.outcome.CompensationFailures, CompensationFailure{
		ReservationID:  r.ID(),
		Provider:       r.Provider(),
		Step:           step,
		TransactionID:  transactionID,
		ConfirmationID: confirmationID,
		Err:            err,
	})

	run.logger.Error("compensation step failed, not retrying",
		zap.String("step", step),
		zap.String("reservation_id", r.ID().String()),
		zap.String("provider", r.Provider()),
		zap.String("transaction_id", transactionID),
		zap.String("confirmation_id", confirmationID),
		zap.Error(err),
	)

	evtType := RefundFailed
	if step == "cancel" {
		evtType = CancellationFailed
	}
	s.emit(ctx, run, r, SagaEvent{
		Type:           evtType,
		AmountCents:    int64(r.Cost()),
		TransactionID:  transactionID,
		ConfirmationID: confirmationID,
		Compensation:   true,
		Duration:       elapsed,
		Error:          err.Error(),
	})
}

// emit fills the common fields and hands the event to the observers.
func (s *BookingSaga) emit(ctx context.Context, run *sagaRun, r *itinerary.Reservation, evt SagaEvent) {
	evt.SagaID = run.id
	evt.ItineraryID = run.itinerary.ID()
	evt.CustomerID = run.itinerary.CustomerID()
	evt.PaymentMethod = run.coordinator.Method().Name()
	if r != nil {
		evt.ReservationID = r.ID().String()
		evt.Provider = r.Provider()
	}
	evt.OccurredAt = time.Now().UTC()
	s.observer.Observe(ctx, evt)
}
