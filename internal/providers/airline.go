package providers

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Wayfarer-Travel/service-itinerary/internal/domain"
	"github.com/Wayfarer-Travel/service-itinerary/internal/domain/itinerary"
)

var _ itinerary.FlightProvider = (*Airline)(nil)

// Airline is a simulated flight vendor.
type Airline struct {
	name     string
	code     string
	baseFare domain.Money
	fares    itinerary.FareStrategy
	sim      *simulator

	mu       sync.Mutex
	bookings map[string]itinerary.FlightOffer
}

func newAirline(name, code string, baseFare domain.Money, cfg SimConfig, offset int64) *Airline {
	return &Airline{
		name:     name,
		code:     code,
		baseFare: baseFare,
		fares:    itinerary.NewStandardFareStrategy(),
		sim:      newSimulator(cfg, offset),
		bookings: make(map[string]itinerary.FlightOffer),
	}
}

// NewTurkishAirlines creates the Turkish Airlines simulator.
func NewTurkishAirlines(cfg SimConfig) *Airline {
	return newAirline("Turkish Airlines", "TK", domain.Money(42000), cfg, 1)
}

// NewAirCanada creates the Air Canada simulator.
func NewAirCanada(cfg SimConfig) *Airline {
	return newAirline("Air Canada", "AC", domain.Money(46500), cfg, 2)
}

func (a *Airline) Name() string { return a.name }

// SearchFlights returns three departures on the requested day.
func (a *Airline) SearchFlights(ctx context.Context, c itinerary.FlightCriteria) ([]itinerary.FlightOffer, error) {
	if err := a.sim.call(ctx); err != nil {
		return nil, err
	}

	departHours := []int{7, 13, 21}
	offers := make([]itinerary.FlightOffer, len(departHours))
	for i, h := range departHours {
		base := a.baseFare + domain.Money(a.sim.intn(200)*100)
		number := fmt.Sprintf("%s%d", a.code, 100+a.sim.intn(900))
		offers[i] = itinerary.FlightOffer{
			OfferID:      fmt.Sprintf("%s-%s-%d", number, c.DepartOn.Format("20060102"), h),
			Airline:      a.name,
			FlightNumber: number,
			Origin:       c.Origin,
			Destination:  c.Destination,
			DepartAt:     c.DepartOn.Add(time.Duration(h) * time.Hour),
			ReturnAt:     c.ReturnOn.Add(time.Duration(h) * time.Hour),
			Infants:      c.Infants,
			Children:     c.Children,
			Adults:       c.Adults,
			Fare:         a.fares.Fare(base, c.Adults, c.Children, c.Infants),
		}
	}
	return offers, nil
}

func (a *Airline) BookFlight(ctx context.Context, offer itinerary.FlightOffer, _ itinerary.CustomerInfo) (string, error) {
	if err := a.sim.call(ctx); err != nil {
		return "", err
	}
	id := newID(a.code)

	a.mu.Lock()
	defer a.mu.Unlock()
	a.bookings[id] = offer
	return id, nil
}

func (a *Airline) CancelFlight(ctx context.Context, confirmationID string) error {
	if err := a.sim.call(ctx); err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.bookings[confirmationID]; !ok {
		return fmt.Errorf("%s: %w", confirmationID, ErrUnknownBooking)
	}
	delete(a.bookings, confirmationID)
	return nil
}

// ActiveBookings returns the number of bookings the airline currently holds.
func (a *Airline) ActiveBookings() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.bookings)
}
