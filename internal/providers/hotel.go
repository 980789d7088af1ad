package providers

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/Wayfarer-Travel/service-itinerary/internal/domain"
	"github.com/Wayfarer-Travel/service-itinerary/internal/domain/itinerary"
)

var _ itinerary.HotelProvider = (*HotelChain)(nil)

// roomRate is a room type with its nightly base price.
type roomRate struct {
	roomType string
	price    domain.Money
}

// HotelChain is a simulated hotel vendor.
type HotelChain struct {
	name  string
	code  string
	rates []roomRate
	sim   *simulator

	mu       sync.Mutex
	bookings map[string]itinerary.RoomOffer
}

func newHotelChain(name, code string, rates []roomRate, cfg SimConfig, offset int64) *HotelChain {
	return &HotelChain{
		name:     name,
		code:     code,
		rates:    rates,
		sim:      newSimulator(cfg, offset),
		bookings: make(map[string]itinerary.RoomOffer),
	}
}

// NewHilton creates the Hilton simulator.
func NewHilton(cfg SimConfig) *HotelChain {
	return newHotelChain("Hilton", "HH", []roomRate{
		{roomType: "single", price: 11000},
		{roomType: "double", price: 15500},
		{roomType: "suite", price: 32000},
	}, cfg, 3)
}

// NewMarriott creates the Marriott simulator.
func NewMarriott(cfg SimConfig) *HotelChain {
	return newHotelChain("Marriott", "MR", []roomRate{
		{roomType: "single", price: 9900},
		{roomType: "double", price: 14900},
		{roomType: "family", price: 21000},
	}, cfg, 4)
}

func (h *HotelChain) Name() string { return h.name }

// SearchRooms returns one offer per room type, filtered by type when one is requested.
func (h *HotelChain) SearchRooms(ctx context.Context, c itinerary.RoomCriteria) ([]itinerary.RoomOffer, error) {
	if err := h.sim.call(ctx); err != nil {
		return nil, err
	}

	var offers []itinerary.RoomOffer
	for _, rate := range h.rates {
		if c.RoomType != "" && !strings.EqualFold(c.RoomType, rate.roomType) {
			continue
		}
		offers = append(offers, itinerary.RoomOffer{
			OfferID:       fmt.Sprintf("%s-%s-%s", h.code, rate.roomType, c.CheckIn.Format("20060102")),
			Hotel:         h.name,
			RoomType:      rate.roomType,
			Location:      c.Location,
			CheckIn:       c.CheckIn,
			CheckOut:      c.CheckOut,
			Rooms:         c.Rooms,
			Available:     h.sim.intn(8),
			Adults:        c.Adults,
			Children:      c.Children,
			PricePerNight: rate.price + domain.Money(h.sim.intn(50)*100),
		})
	}
	return offers, nil
}

func (h *HotelChain) BookRoom(ctx context.Context, offer itinerary.RoomOffer, _ itinerary.CustomerInfo) (string, error) {
	if err := h.sim.call(ctx); err != nil {
		return "", err
	}
	id := newID(h.code)

	h.mu.Lock()
	defer h.mu.Unlock()
	h.bookings[id] = offer
	return id, nil
}

func (h *HotelChain) CancelRoom(ctx context.Context, confirmationID string) error {
	if err := h.sim.call(ctx); err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.bookings[confirmationID]; !ok {
		return fmt.Errorf("%s: %w", confirmationID, ErrUnknownBooking)
	}
	delete(h.bookings, confirmationID)
	return nil
}

// ActiveBookings returns the number of bookings the hotel currently holds.
func (h *HotelChain) ActiveBookings() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.bookings)
}
