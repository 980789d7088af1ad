package itinerary

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Wayfarer-Travel/service-itinerary/internal/domain"
)

// Item is a bookable line item bound to one provider and one fetched offer.
// New variants only need to implement this interface.
type Item interface {
	Kind() Kind
	Provider() string
	Cost() domain.Money
	Book(ctx context.Context, info CustomerInfo) (string, error)
	Cancel(ctx context.Context, confirmationID string) error
	String() string
}

// Reservation is the aggregate for a single line item in an itinerary.
// All fields are unexported to enforce invariants through methods.
type Reservation struct {
	id                   uuid.UUID
	customerID           string
	customerInfo         CustomerInfo
	item                 Item
	cost                 domain.Money
	status               ReservationStatus
	confirmationID       string
	paymentTransactionID string
	createdAt            time.Time
	updatedAt            time.Time
}

// NewReservation creates a pending reservation for the given item.
func NewReservation(customerID string, item Item, info CustomerInfo) (*Reservation, error) {
	if customerID == "" {
		return nil, domain.NewValidationError("customer_id is required")
	}
	if item == nil {
		return nil, domain.NewValidationError("item is required")
	}
	cost := item.Cost()
	if cost < 0 {
		return nil, domain.NewValidationError("cost cannot be negative")
	}

	copied := make(CustomerInfo, len(info))
	for k, v := range info {
		copied[k] = v
	}

	now := time.Now().UTC()
	return &Reservation{
		id:           uuid.New(),
		customerID:   customerID,
		customerInfo: copied,
		item:         item,
		cost:         cost,
		status:       StatusPending,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

// --- Getters ---

func (r *Reservation) ID() uuid.UUID             { return r.id }
func (r *Reservation) CustomerID() string        { return r.customerID }
func (r *Reservation) Kind() Kind                { return r.item.Kind() }
func (r *Reservation) Provider() string          { return r.item.Provider() }
func (r *Reservation) Cost() domain.Money        { return r.cost }
func (r *Reservation) Status() ReservationStatus { return r.status }
func (r *Reservation) CreatedAt() time.Time      { return r.createdAt }
func (r *Reservation) UpdatedAt() time.Time      { return r.updatedAt }

// Describe returns the display form of the booked item.
func (r *Reservation) Describe() string { return r.item.String() }

// ConfirmationID returns the provider confirmation and whether one is held.
func (r *Reservation) ConfirmationID() (string, bool) {
	return r.confirmationID, r.confirmationID != ""
}

// PaymentTransactionID returns the payment transaction and whether one is held.
func (r *Reservation) PaymentTransactionID() (string, bool) {
	return r.paymentTransactionID, r.paymentTransactionID != ""
}

// IsBooked reports whether the provider currently holds a booking for this reservation.
func (r *Reservation) IsBooked() bool { return r.confirmationID != "" }

// --- State Transitions ---

// RecordPayment stores the transaction id of a successful charge.
func (r *Reservation) RecordPayment(transactionID string) error {
	if transactionID == "" {
		return domain.ErrMissingTransaction
	}
	if err := r.transitionTo(StatusPaid); err != nil {
		return err
	}
	r.paymentTransactionID = transactionID
	return nil
}

// RecordPaymentFailure marks a charge attempt as failed.
func (r *Reservation) RecordPaymentFailure() error {
	return r.transitionTo(StatusPaymentFailed)
}

// Book asks the bound provider to confirm the paid reservation.
// A provider error or an empty confirmation id is a booking failure.
func (r *Reservation) Book(ctx context.Context) error {
	if r.status != StatusPaid {
		return domain.NewInvalidStateError(string(r.status), string(StatusBooked))
	}

	confirmationID, err := r.item.Book(ctx, r.customerInfo)
	if err == nil && confirmationID == "" {
		err = domain.ErrMissingConfirmation
	}
	if err != nil {
		r.status = StatusBookingFailed
		r.updatedAt = time.Now().UTC()
		return domain.NewBookingError(r.item.Provider(), err)
	}

	r.confirmationID = confirmationID
	r.status = StatusBooked
	r.updatedAt = time.Now().UTC()
	return nil
}

// RecordRefund clears the transaction id after the payment provider accepted a refund.
func (r *Reservation) RecordRefund() error {
	if r.paymentTransactionID == "" {
		return domain.ErrMissingTransaction
	}
	if r.status.CanTransitionTo(StatusRefunded) {
		r.status = StatusRefunded
	}
	r.paymentTransactionID = ""
	r.updatedAt = time.Now().UTC()
	return nil
}

// Cancel asks the bound provider to release the booking.
// On success both the confirmation and transaction ids are cleared.
func (r *Reservation) Cancel(ctx context.Context) error {
	if r.confirmationID == "" {
		return domain.NewCancellationError(r.item.Provider(), "", domain.ErrMissingConfirmation)
	}
	if err := r.item.Cancel(ctx, r.confirmationID); err != nil {
		return domain.NewCancellationError(r.item.Provider(), r.confirmationID, err)
	}

	r.confirmationID = ""
	r.paymentTransactionID = ""
	r.status = StatusCancelled
	r.updatedAt = time.Now().UTC()
	return nil
}

func (r *Reservation) transitionTo(target ReservationStatus) error {
	if !r.status.CanTransitionTo(target) {
		return domain.NewInvalidStateError(string(r.status), string(target))
	}
	r.status = target
	r.updatedAt = time.Now().UTC()
	return nil
}
