package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Wayfarer-Travel/service-itinerary/internal/domain"
	"github.com/Wayfarer-Travel/service-itinerary/internal/domain/itinerary"
)

var errVendor = errors.New("vendor rejected request")

// fakePayments scripts pay/refund results by call number (1-based).
type fakePayments struct {
	mu         sync.Mutex
	failPay    map[int]bool
	failRefund map[string]bool
	block      bool
	blockCall  int    // blocks only the nth pay call, after recording it
	onBlock    func() // runs when a pay call starts blocking
	payCalls   []domain.Money
	refunds    []string
	charges    map[string]domain.Money
}

func newFakePayments() *fakePayments {
	return &fakePayments{
		failPay:    map[int]bool{},
		failRefund: map[string]bool{},
		charges:    map[string]domain.Money{},
	}
}

func (f *fakePayments) Name() string   { return "FakePay" }
func (f *fakePayments) String() string { return "FakePay ****" }

func (f *fakePayments) Pay(ctx context.Context, amount domain.Money) (string, error) {
	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	f.mu.Lock()
	f.payCalls = append(f.payCalls, amount)
	n := len(f.payCalls)
	f.mu.Unlock()

	if n == f.blockCall {
		if f.onBlock != nil {
			f.onBlock()
		}
		<-ctx.Done()
		return "", ctx.Err()
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failPay[n] {
		return "", errVendor
	}
	tx := fmt.Sprintf("TX-%d", n)
	f.charges[tx] = amount
	return tx, nil
}

func (f *fakePayments) Refund(_ context.Context, transactionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refunds = append(f.refunds, transactionID)
	if f.failRefund[transactionID] {
		return errVendor
	}
	delete(f.charges, transactionID)
	return nil
}

// outstanding is the sum of charges that were never refunded.
func (f *fakePayments) outstanding() domain.Money {
	f.mu.Lock()
	defer f.mu.Unlock()
	var total domain.Money
	for _, amount := range f.charges {
		total += amount
	}
	return total
}

// fakeVendor implements both FlightProvider and HotelProvider.
type fakeVendor struct {
	name        string
	mu          sync.Mutex
	failBook    map[string]bool
	failCancel  bool
	failSearch  bool
	panicSearch bool
	searchDelay time.Duration
	cancelDelay time.Duration
	flights     []itinerary.FlightOffer
	rooms       []itinerary.RoomOffer
	seq         int
	active      map[string]bool
	cancels     []string
}

func newFakeVendor(name string) *fakeVendor {
	return &fakeVendor{name: name, failBook: map[string]bool{}, active: map[string]bool{}}
}

func (v *fakeVendor) Name() string { return v.name }

func (v *fakeVendor) search(ctx context.Context) error {
	if v.panicSearch {
		panic("boom")
	}
	if v.searchDelay > 0 {
		select {
		case <-time.After(v.searchDelay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if v.failSearch {
		return errVendor
	}
	return nil
}

func (v *fakeVendor) SearchFlights(ctx context.Context, _ itinerary.FlightCriteria) ([]itinerary.FlightOffer, error) {
	if err := v.search(ctx); err != nil {
		return nil, err
	}
	return v.flights, nil
}

func (v *fakeVendor) SearchRooms(ctx context.Context, _ itinerary.RoomCriteria) ([]itinerary.RoomOffer, error) {
	if err := v.search(ctx); err != nil {
		return nil, err
	}
	return v.rooms, nil
}

func (v *fakeVendor) book(offerID string) (string, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.failBook[offerID] {
		return "", errVendor
	}
	v.seq++
	id := fmt.Sprintf("%s-CONF-%d", v.name, v.seq)
	v.active[id] = true
	return id, nil
}

func (v *fakeVendor) cancel(id string) error {
	if v.cancelDelay > 0 {
		time.Sleep(v.cancelDelay)
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.cancels = append(v.cancels, id)
	if v.failCancel {
		return errVendor
	}
	delete(v.active, id)
	return nil
}

func (v *fakeVendor) BookFlight(_ context.Context, o itinerary.FlightOffer, _ itinerary.CustomerInfo) (string, error) {
	return v.book(o.OfferID)
}

func (v *fakeVendor) CancelFlight(_ context.Context, id string) error { return v.cancel(id) }

func (v *fakeVendor) BookRoom(_ context.Context, o itinerary.RoomOffer, _ itinerary.CustomerInfo) (string, error) {
	return v.book(o.OfferID)
}

func (v *fakeVendor) CancelRoom(_ context.Context, id string) error { return v.cancel(id) }

func (v *fakeVendor) activeCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.active)
}

// recordingObserver captures every saga event type in order.
type recordingObserver struct {
	mu     sync.Mutex
	events []SagaEvent
}

func (o *recordingObserver) Observe(_ context.Context, evt SagaEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, evt)
}

func (o *recordingObserver) types() []SagaEventType {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]SagaEventType, len(o.events))
	for i, e := range o.events {
		out[i] = e.Type
	}
	return out
}

var (
	testDepart  = time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	testReturn  = testDepart.AddDate(0, 0, 10)
	testCheckIn = testDepart
)

func flightOffer(id string, fare float64) itinerary.FlightOffer {
	return itinerary.FlightOffer{
		OfferID:      id,
		Airline:      "Fake Air",
		FlightNumber: id,
		Origin:       "IST",
		Destination:  "YYZ",
		DepartAt:     testDepart,
		ReturnAt:     testReturn,
		Adults:       1,
		Fare:         domain.MoneyFromFloat(fare),
	}
}

// roomOffer builds a one-room, one-night stay so that cost equals price.
func roomOffer(id string, price float64) itinerary.RoomOffer {
	return itinerary.RoomOffer{
		OfferID:       id,
		Hotel:         "Fake Inn",
		RoomType:      "double",
		Location:      "Toronto",
		CheckIn:       testCheckIn,
		CheckOut:      testCheckIn.AddDate(0, 0, 1),
		Rooms:         1,
		Available:     5,
		Adults:        1,
		PricePerNight: domain.MoneyFromFloat(price),
	}
}

func addFlight(t *testing.T, it *itinerary.Itinerary, v *fakeVendor, id string, fare float64) *itinerary.Reservation {
	t.Helper()
	r, err := itinerary.NewFlightReservation(it.CustomerID(), v, flightOffer(id, fare), itinerary.CustomerInfo{"name": "user"})
	require.NoError(t, err)
	require.NoError(t, it.Add(r))
	return r
}

func addRoom(t *testing.T, it *itinerary.Itinerary, v *fakeVendor, id string, price float64) *itinerary.Reservation {
	t.Helper()
	r, err := itinerary.NewHotelReservation(it.CustomerID(), v, roomOffer(id, price), itinerary.CustomerInfo{"name": "user"})
	require.NoError(t, err)
	require.NoError(t, it.Add(r))
	return r
}

func newItinerary(t *testing.T) *itinerary.Itinerary {
	t.Helper()
	it, err := itinerary.New("1304")
	require.NoError(t, err)
	return it
}

func newTestSaga(observers ...SagaObserver) *BookingSaga {
	return NewBookingSaga(time.Second, zap.NewNop(), observers...)
}
