package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidAmount is returned when a payment amount is zero or negative.
	ErrInvalidAmount = errors.New("amount must be positive")
	// ErrMissingTransaction is returned when a refund is requested without a transaction id.
	ErrMissingTransaction = errors.New("payment transaction id is required")
	// ErrMissingConfirmation is returned when a cancellation is requested without a confirmation id.
	ErrMissingConfirmation = errors.New("booking confirmation id is required")
	// ErrEmptyItinerary is returned when committing an itinerary with no reservations.
	ErrEmptyItinerary = errors.New("itinerary has no reservations")
	// ErrItineraryCommitted is returned when mutating an itinerary that has already been committed.
	ErrItineraryCommitted = errors.New("itinerary is already committed")
	// ErrInvalidCredentials is returned when a username/password pair does not match.
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// ValidationError reports invalid input supplied by the caller.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return "validation error: " + e.Message }

// NewValidationError creates a ValidationError.
func NewValidationError(message string) error {
	return &ValidationError{Message: message}
}

// InvalidStateError reports a state machine transition that is not allowed.
type InvalidStateError struct {
	From string
	To   string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("invalid state transition from %s to %s", e.From, e.To)
}

// NewInvalidStateError creates an InvalidStateError.
func NewInvalidStateError(from, to string) error {
	return &InvalidStateError{From: from, To: to}
}

// NotFoundError reports a missing entity.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Entity, e.ID)
}

// NewNotFoundError creates a NotFoundError.
func NewNotFoundError(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// UnauthorizedError reports a failed authentication attempt.
type UnauthorizedError struct {
	Err error
}

func (e *UnauthorizedError) Error() string { return "unauthorized: " + e.Err.Error() }

func (e *UnauthorizedError) Unwrap() error { return e.Err }

// NewUnauthorizedError creates an UnauthorizedError.
func NewUnauthorizedError(err error) error {
	return &UnauthorizedError{Err: err}
}

// PaymentProcessingError reports that a pay or refund call did not succeed.
type PaymentProcessingError struct {
	Method string
	Op     string
	Err    error
}

func (e *PaymentProcessingError) Error() string {
	return fmt.Sprintf("payment %s via %s failed: %v", e.Op, e.Method, e.Err)
}

func (e *PaymentProcessingError) Unwrap() error { return e.Err }

// NewPaymentProcessingError creates a PaymentProcessingError for the given operation ("pay" or "refund").
func NewPaymentProcessingError(method, op string, err error) error {
	return &PaymentProcessingError{Method: method, Op: op, Err: err}
}

// BookingError reports that a provider did not accept a booking.
type BookingError struct {
	Provider string
	Err      error
}

func (e *BookingError) Error() string {
	return fmt.Sprintf("booking with %s failed: %v", e.Provider, e.Err)
}

func (e *BookingError) Unwrap() error { return e.Err }

// NewBookingError creates a BookingError.
func NewBookingError(provider string, err error) error {
	return &BookingError{Provider: provider, Err: err}
}

// CancellationError reports that a compensating cancellation did not succeed.
type CancellationError struct {
	Provider       string
	ConfirmationID string
	Err            error
}

func (e *CancellationError) Error() string {
	return fmt.Sprintf("cancellation of %s with %s failed: %v", e.ConfirmationID, e.Provider, e.Err)
}

func (e *CancellationError) Unwrap() error { return e.Err }

// NewCancellationError creates a CancellationError.
func NewCancellationError(provider, confirmationID string, err error) error {
	return &CancellationError{Provider: provider, ConfirmationID: confirmationID, Err: err}
}
