package itinerary

import (
	"context"
	"fmt"
	"time"

	"github.com/Wayfarer-Travel/service-itinerary/internal/domain"
)

const displayDate = "02-01-2006"

// FlightOffer is a priced flight fetched from an airline.
type FlightOffer struct {
	OfferID      string
	Airline      string
	FlightNumber string
	Origin       string
	Destination  string
	DepartAt     time.Time
	ReturnAt     time.Time
	Infants      int
	Children     int
	Adults       int
	Fare         domain.Money
}

// String renders the offer for display.
func (o FlightOffer) String() string {
	return fmt.Sprintf("%s %s: Cost %s - From: %s on %s To: %s on %s - #Infants: %d - #Children: %d - #Adults: %d",
		o.Airline, o.FlightNumber, o.Fare,
		o.Origin, o.DepartAt.Format(displayDate),
		o.Destination, o.ReturnAt.Format(displayDate),
		o.Infants, o.Children, o.Adults)
}

// flightItem binds a flight offer to the airline that issued it.
type flightItem struct {
	provider FlightProvider
	offer    FlightOffer
}

func (f *flightItem) Kind() Kind { return KindFlight }
func (f *flightItem) Provider() string { return f.provider.Name() }
func (f *flightItem) Cost() domain.Money { return f.offer.Fare }
func (f *flightItem) String() string { return f.offer.String() }

func (f *flightItem) Book(ctx context.Context, info CustomerInfo) (string, error) {
	return f.provider.BookFlight(ctx, f.offer, info)
}

func (f *flightItem) Cancel(ctx context.Context, confirmationID string) error {
	return f.provider.CancelFlight(ctx, confirmationID)
}

// NewFlightReservation creates a pending reservation for a flight offer.
func NewFlightReservation(customerID string, provider FlightProvider, offer FlightOffer, info CustomerInfo) (*Reservation, error) {
	if provider == nil {
		return nil, domain.NewValidationError("flight provider is required")
	}
	return NewReservation(customerID, &flightItem{provider: provider, offer: offer}, info)
}
