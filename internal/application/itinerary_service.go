package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Wayfarer-Travel/service-itinerary/internal/domain"
	customerDomain "github.com/Wayfarer-Travel/service-itinerary/internal/domain/customer"
	"github.com/Wayfarer-Travel/service-itinerary/internal/domain/itinerary"
)

// ErrDraining is returned by Reserve once Drain has been called.
var ErrDraining = errors.New("itinerary service is shutting down")

// ReservationDTO is the display view of a reservation.
type ReservationDTO struct {
	ID             uuid.UUID `json:"id"`
	Kind           string    `json:"kind"`
	Provider       string    `json:"provider"`
	Description    string    `json:"description"`
	Cost           string    `json:"cost"`
	CostCents      int64     `json:"cost_cents"`
	Status         string    `json:"status"`
	ConfirmationID string    `json:"confirmation_id,omitempty"`
}

// ItineraryDTO is the display view of an itinerary.
type ItineraryDTO struct {
	ID             uuid.UUID        `json:"id"`
	Reference      string           `json:"reference"`
	CustomerID     string           `json:"customer_id"`
	Status         string           `json:"status"`
	Reservations   []ReservationDTO `json:"reservations"`
	TotalCost      string           `json:"total_cost"`
	TotalCostCents int64            `json:"total_cost_cents"`
	CommittedAt    *time.Time       `json:"committed_at,omitempty"`
}

// ReserveResult is what the presentation layer needs after a commit attempt.
type ReserveResult struct {
	Committed            bool
	Itinerary            ItineraryDTO
	Reason               string
	CompensationFailures []string
	Dropped              int
}

// ItineraryService is the application service behind the itinerary menus.
type ItineraryService struct {
	customers customerDomain.CustomerRepository
	saga      *BookingSaga
	logger    *zap.Logger

	mu       sync.Mutex
	draining bool
	inflight sync.WaitGroup
}

// NewItineraryService creates a new ItineraryService.
func NewItineraryService(customers customerDomain.CustomerRepository, saga *BookingSaga, logger *zap.Logger) *ItineraryService {
	return &ItineraryService{customers: customers, saga: saga, logger: logger}
}

// Start opens an empty draft itinerary for the customer.
func (s *ItineraryService) Start(ctx context.Context, customerID string) (*itinerary.Itinerary, error) {
	if _, err := s.customers.FindByID(ctx, customerID); err != nil {
		return nil, err
	}
	it, err := itinerary.New(customerID)
	if err != nil {
		return nil, err
	}
	s.logger.Info("itinerary started",
		zap.String("itinerary_id", it.ID().String()),
		zap.String("customer_id", customerID),
	)
	return it, nil
}

// AddFlight reserves a flight option into the draft itinerary.
func (s *ItineraryService) AddFlight(ctx context.Context, it *itinerary.Itinerary, option FlightOption, info itinerary.CustomerInfo) (*ReservationDTO, error) {
	r, err := itinerary.NewFlightReservation(it.CustomerID(), option.Provider, option.Offer, info)
	if err != nil {
		return nil, err
	}
	return s.add(it, r)
}

// AddRoom reserves a room option into the draft itinerary.
func (s *ItineraryService) AddRoom(ctx context.Context, it *itinerary.Itinerary, option RoomOption, info itinerary.CustomerInfo) (*ReservationDTO, error) {
	r, err := itinerary.NewHotelReservation(it.CustomerID(), option.Provider, option.Offer, info)
	if err != nil {
		return nil, err
	}
	return s.add(it, r)
}

func (s *ItineraryService) add(it *itinerary.Itinerary, r *itinerary.Reservation) (*ReservationDTO, error) {
	if err := it.Add(r); err != nil {
		return nil, err
	}
	s.logger.Info("reservation added",
		zap.String("itinerary_id", it.ID().String()),
		zap.String("reservation_id", r.ID().String()),
		zap.String("provider", r.Provider()),
		zap.String("cost", r.Cost().String()),
	)
	dto := toReservationDTO(r)
	return &dto, nil
}

// Remove detaches a pending reservation from the draft itinerary.
func (s *ItineraryService) Remove(ctx context.Context, it *itinerary.Itinerary, reservationID uuid.UUID) error {
	r, err := it.Remove(reservationID)
	if err != nil {
		return err
	}
	s.logger.Info("reservation removed",
		zap.String("itinerary_id", it.ID().String()),
		zap.String("reservation_id", r.ID().String()),
	)
	return nil
}

// Reserve pays for and books the whole itinerary with the customer's chosen
// payment method (1-based). A committed itinerary is attached to the customer.
func (s *ItineraryService) Reserve(ctx context.Context, customerID string, it *itinerary.Itinerary, paymentChoice int) (*ReserveResult, error) {
	if err := s.track(); err != nil {
		return nil, err
	}
	defer s.inflight.Done()

	c, err := s.customers.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if it.CustomerID() != c.ID() {
		return nil, domain.NewValidationError("itinerary belongs to a different customer")
	}
	method, err := c.PaymentMethod(paymentChoice)
	if err != nil {
		return nil, err
	}

	outcome, err := s.saga.Commit(ctx, it, method)
	if err != nil {
		return nil, err
	}

	result := &ReserveResult{
		Committed: outcome.Committed,
		Dropped:   len(outcome.Dropped),
	}
	for _, f := range outcome.CompensationFailures {
		result.CompensationFailures = append(result.CompensationFailures, f.Error())
	}
	if !outcome.Committed {
		result.Reason = outcome.Cause.Error()
		result.Itinerary = ToItineraryDTO(it)
		return result, nil
	}

	if err := c.AttachItinerary(it); err != nil {
		return nil, fmt.Errorf("failed to attach itinerary: %w", err)
	}
	if err := s.customers.Save(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to save customer: %w", err)
	}
	result.Itinerary = ToItineraryDTO(it)
	return result, nil
}

// Drain stops new reservations and waits for in-flight ones, including their
// compensation, to finish. It returns ctx.Err() if ctx ends first.
func (s *ItineraryService) Drain(ctx context.Context) error {
	s.mu.Lock()
	s.draining = true
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// track registers a reservation unless the service is draining.
func (s *ItineraryService) track() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draining {
		return ErrDraining
	}
	s.inflight.Add(1)
	return nil
}

// Cancel abandons the draft itinerary, removing every reservation.
func (s *ItineraryService) Cancel(ctx context.Context, it *itinerary.Itinerary) error {
	return s.saga.CancelAll(ctx, it)
}

// List returns the customer's committed itineraries.
func (s *ItineraryService) List(ctx context.Context, customerID string) ([]ItineraryDTO, error) {
	c, err := s.customers.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	its := c.Itineraries()
	dtos := make([]ItineraryDTO, len(its))
	for i, it := range its {
		dtos[i] = ToItineraryDTO(it)
	}
	return dtos, nil
}

// --- Helpers ---

// ToItineraryDTO converts an itinerary into its display view.
func ToItineraryDTO(it *itinerary.Itinerary) ItineraryDTO {
	reservations := it.Reservations()
	dtos := make([]ReservationDTO, len(reservations))
	for i, r := range reservations {
		dtos[i] = toReservationDTO(r)
	}
	return ItineraryDTO{
		ID:             it.ID(),
		Reference:      it.Reference(),
		CustomerID:     it.CustomerID(),
		Status:         string(it.Status()),
		Reservations:   dtos,
		TotalCost:      it.TotalCost().String(),
		TotalCostCents: int64(it.TotalCost()),
		CommittedAt:    it.CommittedAt(),
	}
}

func toReservationDTO(r *itinerary.Reservation) ReservationDTO {
	confirmationID, _ := r.ConfirmationID()
	return ReservationDTO{
		ID:             r.ID(),
		Kind:           string(r.Kind()),
		Provider:       r.Provider(),
		Description:    r.Describe(),
		Cost:           r.Cost().String(),
		CostCents:      int64(r.Cost()),
		Status:         string(r.Status()),
		ConfirmationID: confirmationID,
	}
}
