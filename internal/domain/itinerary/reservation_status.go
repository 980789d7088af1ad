package itinerary

import "fmt"

// ReservationStatus represents where a reservation is in the pay→book lifecycle.
type ReservationStatus string

const (
	StatusPending       ReservationStatus = "pending"
	StatusPaid          ReservationStatus = "paid"
	StatusBooked        ReservationStatus = "booked"
	StatusPaymentFailed ReservationStatus = "payment_failed"
	StatusBookingFailed ReservationStatus = "booking_failed"
	StatusRefunded      ReservationStatus = "refunded"
	StatusCancelled     ReservationStatus = "cancelled"
)

// validTransitions defines the state machine for reservation status transitions.
var validTransitions = map[ReservationStatus][]ReservationStatus{
	StatusPending:       {StatusPaid, StatusPaymentFailed},
	StatusPaid:          {StatusBooked, StatusBookingFailed},
	StatusBooked:        {StatusCancelled},
	StatusBookingFailed: {StatusRefunded},
	StatusPaymentFailed: {},
	StatusRefunded:      {},
	StatusCancelled:     {},
}

// IsValid returns true if the status is a recognized reservation status.
func (s ReservationStatus) IsValid() bool {
	_, exists := validTransitions[s]
	return exists
}

// CanTransitionTo returns true if a transition from this status to the target is allowed.
func (s ReservationStatus) CanTransitionTo(target ReservationStatus) bool {
	for _, t := range validTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// IsTerminal returns true if no further transitions are possible from this status.
func (s ReservationStatus) IsTerminal() bool {
	return len(validTransitions[s]) == 0
}

// String returns the string representation of the status.
func (s ReservationStatus) String() string {
	return string(s)
}

// ParseReservationStatus converts a string to a ReservationStatus, returning an error if invalid.
func ParseReservationStatus(s string) (ReservationStatus, error) {
	status := ReservationStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid reservation status: %s", s)
	}
	return status, nil
}
