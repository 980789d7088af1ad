package itinerary

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"

	"github.com/Wayfarer-Travel/service-itinerary/internal/domain"
)

const referenceChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// Status is the lifecycle state of an itinerary.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusCommitted Status = "committed"
)

// Itinerary is the aggregate root for an ordered set of reservations.
// Insertion order is booking order.
type Itinerary struct {
	id           uuid.UUID
	reference    string
	customerID   string
	reservations []*Reservation
	totalCost    domain.Money
	status       Status
	committedAt  *time.Time
	createdAt    time.Time
	updatedAt    time.Time
}

// generateReference creates a reference in the format "IT-XXXXXX".
func generateReference() (string, error) {
	result := make([]byte, 6)
	for i := range result {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(referenceChars))))
		if err != nil {
			return "", fmt.Errorf("failed to generate itinerary reference: %w", err)
		}
		result[i] = referenceChars[n.Int64()]
	}
	return "IT-" + string(result), nil
}

// New creates an empty draft itinerary for the customer.
func New(customerID string) (*Itinerary, error) {
	if customerID == "" {
		return nil, domain.NewValidationError("customer_id is required")
	}
	reference, err := generateReference()
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &Itinerary{
		id:         uuid.New(),
		reference:  reference,
		customerID: customerID,
		status:     StatusDraft,
		createdAt:  now,
		updatedAt:  now,
	}, nil
}

// --- Getters ---

func (it *Itinerary) ID() uuid.UUID           { return it.id }
func (it *Itinerary) Reference() string       { return it.reference }
func (it *Itinerary) CustomerID() string      { return it.customerID }
func (it *Itinerary) TotalCost() domain.Money { return it.totalCost }
func (it *Itinerary) Status() Status          { return it.status }
func (it *Itinerary) CommittedAt() *time.Time { return it.committedAt }
func (it *Itinerary) CreatedAt() time.Time    { return it.createdAt }
func (it *Itinerary) UpdatedAt() time.Time    { return it.updatedAt }
func (it *Itinerary) Len() int                { return len(it.reservations) }
func (it *Itinerary) IsEmpty() bool           { return len(it.reservations) == 0 }
func (it *Itinerary) IsCommitted() bool       { return it.status == StatusCommitted }

// Reservations returns the members in booking order.
// The slice is a copy; the reservations are shared.
func (it *Itinerary) Reservations() []*Reservation {
	out := make([]*Reservation, len(it.reservations))
	copy(out, it.reservations)
	return out
}

// Find returns the reservation with the given id.
func (it *Itinerary) Find(id uuid.UUID) (*Reservation, bool) {
	for _, r := range it.reservations {
		if r.id == id {
			return r, true
		}
	}
	return nil, false
}

// Add appends a reservation and adjusts the running total.
func (it *Itinerary) Add(r *Reservation) error {
	if it.IsCommitted() {
		return domain.ErrItineraryCommitted
	}
	if r == nil {
		return domain.NewValidationError("reservation is required")
	}
	if r.customerID != it.customerID {
		return domain.NewValidationError("reservation belongs to a different customer")
	}
	if _, exists := it.Find(r.id); exists {
		return domain.NewValidationError("reservation is already in the itinerary")
	}
	it.reservations = append(it.reservations, r)
	it.totalCost += r.cost
	it.updatedAt = time.Now().UTC()
	return nil
}

// Remove detaches the reservation with the given id and adjusts the running total.
func (it *Itinerary) Remove(id uuid.UUID) (*Reservation, error) {
	if it.IsCommitted() {
		return nil, domain.ErrItineraryCommitted
	}
	for i, r := range it.reservations {
		if r.id == id {
			it.removeAt(i)
			return r, nil
		}
	}
	return nil, domain.NewNotFoundError("reservation", id.String())
}

// DropUnconfirmed removes every reservation the provider does not hold a
// booking for and returns them in their original order.
func (it *Itinerary) DropUnconfirmed() []*Reservation {
	var dropped []*Reservation
	kept := it.reservations[:0]
	var total domain.Money
	for _, r := range it.reservations {
		if !r.IsBooked() {
			dropped = append(dropped, r)
			continue
		}
		kept = append(kept, r)
		total += r.cost
	}
	for i := len(kept); i < len(it.reservations); i++ {
		it.reservations[i] = nil
	}
	it.reservations = kept
	it.totalCost = total
	if len(dropped) > 0 {
		it.updatedAt = time.Now().UTC()
	}
	return dropped
}

// Clear removes every reservation. Clearing an empty draft is a no-op.
func (it *Itinerary) Clear() error {
	if it.IsCommitted() {
		return domain.ErrItineraryCommitted
	}
	if len(it.reservations) == 0 {
		return nil
	}
	it.reservations = nil
	it.totalCost = 0
	it.updatedAt = time.Now().UTC()
	return nil
}

// MarkCommitted seals the itinerary once every member is booked.
func (it *Itinerary) MarkCommitted() error {
	if it.IsCommitted() {
		return domain.ErrItineraryCommitted
	}
	if len(it.reservations) == 0 {
		return domain.ErrEmptyItinerary
	}
	for _, r := range it.reservations {
		if r.status != StatusBooked {
			return domain.NewInvalidStateError(string(r.status), string(StatusBooked))
		}
	}
	now := time.Now().UTC()
	it.status = StatusCommitted
	it.committedAt = &now
	it.updatedAt = now
	return nil
}

func (it *Itinerary) removeAt(i int) {
	r := it.reservations[i]
	it.reservations = append(it.reservations[:i], it.reservations[i+1:]...)
	it.totalCost -= r.cost
	it.updatedAt = time.Now().UTC()
}
