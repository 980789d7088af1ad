package itinerary

import (
	"context"
	"time"

	"github.com/Wayfarer-Travel/service-itinerary/internal/domain"
)

// Kind identifies the type of item a reservation books.
type Kind string

const (
	KindFlight Kind = "flight"
	KindHotel  Kind = "hotel"
)

// CustomerInfo is the opaque traveller payload forwarded to providers at booking time.
type CustomerInfo map[string]string

// FlightProvider is the capability interface implemented by every airline adapter.
type FlightProvider interface {
	// Name returns the airline name shown to customers.
	Name() string
	// SearchFlights returns the offers matching the criteria.
	SearchFlights(ctx context.Context, criteria FlightCriteria) ([]FlightOffer, error)
	// BookFlight books an offer and returns the airline's confirmation id.
	BookFlight(ctx context.Context, offer FlightOffer, info CustomerInfo) (string, error)
	// CancelFlight cancels a previously confirmed booking.
	CancelFlight(ctx context.Context, confirmationID string) error
}

// HotelProvider is the capability interface implemented by every hotel adapter.
type HotelProvider interface {
	// Name returns the hotel chain name shown to customers.
	Name() string
	// SearchRooms returns the room offers matching the criteria.
	SearchRooms(ctx context.Context, criteria RoomCriteria) ([]RoomOffer, error)
	// BookRoom books a room offer and returns the hotel's confirmation id.
	BookRoom(ctx context.Context, offer RoomOffer, info CustomerInfo) (string, error)
	// CancelRoom cancels a previously confirmed booking.
	CancelRoom(ctx context.Context, confirmationID string) error
}

// FlightCriteria holds the search parameters for flights.
type FlightCriteria struct {
	Origin      string
	Destination string
	DepartOn    time.Time
	ReturnOn    time.Time
	Infants     int
	Children    int
	Adults      int
}

// Validate checks the criteria before any provider is contacted.
func (c FlightCriteria) Validate() error {
	if c.Origin == "" {
		return domain.NewValidationError("departure location is required")
	}
	if c.Destination == "" {
		return domain.NewValidationError("destination is required")
	}
	if c.DepartOn.IsZero() || c.ReturnOn.IsZero() {
		return domain.NewValidationError("departure and return dates are required")
	}
	if c.ReturnOn.Before(c.DepartOn) {
		return domain.NewValidationError("return date cannot be before departure date")
	}
	if c.Adults < 1 {
		return domain.NewValidationError("at least one adult is required")
	}
	if c.Infants < 0 || c.Children < 0 {
		return domain.NewValidationError("passenger counts cannot be negative")
	}
	return nil
}

// RoomCriteria holds the search parameters for hotel rooms.
type RoomCriteria struct {
	Location string
	RoomType string
	CheckIn  time.Time
	CheckOut time.Time
	Rooms    int
	Adults   int
	Children int
}

// Validate checks the criteria before any provider is contacted.
func (c RoomCriteria) Validate() error {
	if c.Location == "" {
		return domain.NewValidationError("location is required")
	}
	if c.CheckIn.IsZero() || c.CheckOut.IsZero() {
		return domain.NewValidationError("check-in and check-out dates are required")
	}
	if StayNights(c.CheckIn, c.CheckOut) < 1 {
		return domain.NewValidationError("stay must be at least one night")
	}
	if c.Rooms < 1 {
		return domain.NewValidationError("at least one room is required")
	}
	if c.Adults < 1 {
		return domain.NewValidationError("at least one adult is required")
	}
	if c.Children < 0 {
		return domain.NewValidationError("children count cannot be negative")
	}
	return nil
}
