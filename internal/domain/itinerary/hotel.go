package itinerary

import (
	"context"
	"fmt"
	"time"

	"github.com/Wayfarer-Travel/service-itinerary/internal/domain"
)

// RoomOffer is a priced hotel room fetched from a hotel chain.
type RoomOffer struct {
	OfferID       string
	Hotel         string
	RoomType      string
	Location      string
	CheckIn       time.Time
	CheckOut      time.Time
	Rooms         int
	Available     int
	Adults        int
	Children      int
	PricePerNight domain.Money
}

// Nights returns the length of the stay.
func (o RoomOffer) Nights() int { return StayNights(o.CheckIn, o.CheckOut) }

// Cost returns the total price of the stay.
func (o RoomOffer) Cost() domain.Money { return StayCost(o.PricePerNight, o.Nights(), o.Rooms) }

// String renders the offer for display.
func (o RoomOffer) String() string {
	return fmt.Sprintf("%s %s (%s): Per night: %s - Total Cost: %s - From %s - #Nights: %d - #Rooms: %d - #Children: %d - #Adults: %d",
		o.Hotel, o.RoomType, o.Location, o.PricePerNight, o.Cost(),
		o.CheckIn.Format(displayDate), o.Nights(), o.Rooms, o.Children, o.Adults)
}

// roomItem binds a room offer to the hotel that issued it.
type roomItem struct {
	provider HotelProvider
	offer    RoomOffer
}

func (r *roomItem) Kind() Kind { return KindHotel }
func (r *roomItem) Provider() string { return r.provider.Name() }
func (r *roomItem) Cost() domain.Money { return r.offer.Cost() }
func (r *roomItem) String() string { return r.offer.String() }

func (r *roomItem) Book(ctx context.Context, info CustomerInfo) (string, error) {
	return r.provider.BookRoom(ctx, r.offer, info)
}

func (r *roomItem) Cancel(ctx context.Context, confirmationID string) error {
	return r.provider.CancelRoom(ctx, confirmationID)
}

// NewHotelReservation creates a pending reservation for a room offer.
func NewHotelReservation(customerID string, provider HotelProvider, offer RoomOffer, info CustomerInfo) (*Reservation, error) {
	if provider == nil {
		return nil, domain.NewValidationError("hotel provider is required")
	}
	return NewReservation(customerID, &roomItem{provider: provider, offer: offer}, info)
}
