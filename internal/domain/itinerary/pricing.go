package itinerary

import (
	"time"

	"github.com/Wayfarer-Travel/service-itinerary/internal/domain"
)

// FareStrategy defines how a per-seat base fare becomes a party total.
type FareStrategy interface {
	// Fare returns the total fare for the given party.
	Fare(base domain.Money, adults, children, infants int) domain.Money
}

// StandardFareStrategy implements the default passenger pricing.
type StandardFareStrategy struct{}

// NewStandardFareStrategy creates a new StandardFareStrategy.
func NewStandardFareStrategy() *StandardFareStrategy {
	return &StandardFareStrategy{}
}

// Fare computes the party fare.
//
// Pricing formula:
//   - Adult: 100% of base fare
//   - Child: 75% of base fare
//   - Infant (lap, no seat): 10% of base fare
func (s *StandardFareStrategy) Fare(base domain.Money, adults, children, infants int) domain.Money {
	total := int64(base) * int64(adults)
	total += int64(base) * int64(children) * 75 / 100
	total += int64(base) * int64(infants) * 10 / 100
	return domain.Money(total)
}

// StayNights returns the number of whole nights between check-in and check-out.
func StayNights(checkIn, checkOut time.Time) int {
	if checkIn.IsZero() || checkOut.IsZero() || !checkOut.After(checkIn) {
		return 0
	}
	return int(checkOut.Sub(checkIn).Hours() / 24)
}

// StayCost returns nights × price per night × rooms.
func StayCost(pricePerNight domain.Money, nights, rooms int) domain.Money {
	if nights <= 0 || rooms <= 0 {
		return 0
	}
	return pricePerNight * domain.Money(nights) * domain.Money(rooms)
}
