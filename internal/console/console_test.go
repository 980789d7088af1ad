package console

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Wayfarer-Travel/service-itinerary/internal/application"
	customerDomain "github.com/Wayfarer-Travel/service-itinerary/internal/domain/customer"
	"github.com/Wayfarer-Travel/service-itinerary/internal/domain/itinerary"
	"github.com/Wayfarer-Travel/service-itinerary/internal/providers"
	"github.com/Wayfarer-Travel/service-itinerary/internal/repository"
)

var reliable = providers.SimConfig{Seed: 7}

type session struct {
	repo   *repository.MemoryCustomerRepository
	ledger *application.SagaLedger
	out    *bytes.Buffer
}

// run plays the scripted lines through a fresh console seeded with user/1234.
func run(t *testing.T, lines ...string) *session {
	t.Helper()
	logger := zap.NewNop()
	repo := repository.NewMemoryCustomerRepository()

	seed, err := customerDomain.NewCustomer("1304", "user", "1234")
	require.NoError(t, err)
	require.NoError(t, seed.AddPaymentMethod(providers.NewPayPal("user@example.com", reliable)))
	require.NoError(t, seed.AddPaymentMethod(providers.NewStripe("4242424242424242", reliable)))
	require.NoError(t, repo.Save(context.Background(), seed))

	ledger := application.NewSagaLedger()
	saga := application.NewBookingSaga(time.Second, logger, ledger)
	search := application.NewSearchService(
		[]itinerary.FlightProvider{providers.NewTurkishAirlines(reliable), providers.NewAirCanada(reliable)},
		[]itinerary.HotelProvider{providers.NewHilton(reliable), providers.NewMarriott(reliable)},
		time.Second, nil, logger,
	)

	in := strings.NewReader(strings.Join(lines, "\n") + "\n")
	out := &bytes.Buffer{}
	c := New(in, out,
		application.NewAuthService(repo, logger),
		search,
		application.NewItineraryService(repo, saga, logger),
		logger,
	)
	require.NoError(t, c.Run(context.Background()))
	return &session{repo: repo, ledger: ledger, out: out}
}

// flightSearch answers the flight criteria prompts and picks the first offer.
var flightSearch = []string{"IST", "14-08-2026", "YVR", "19-08-2026", "0", "0", "1", "1"}

func script(parts ...[]string) []string {
	var out []string
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func TestConsole_Exit(t *testing.T) {
	s := run(t, "3")
	assert.Contains(t, s.out.String(), "Exiting system.")
}

func TestConsole_EOFEndsSession(t *testing.T) {
	s := run(t)
	assert.Contains(t, s.out.String(), "System Access")
}

func TestConsole_InvalidChoiceIsRetried(t *testing.T) {
	s := run(t, "abc", "9", "3")
	out := s.out.String()
	assert.Contains(t, out, "Please enter a valid number.")
	assert.Contains(t, out, "(from 1 to 3).")
	assert.Contains(t, out, "Exiting system.")
}

func TestConsole_LoginFailure(t *testing.T) {
	s := run(t, "1", "user", "wrong", "3")
	assert.Contains(t, s.out.String(), "Login failed")
	assert.NotContains(t, s.out.String(), "Welcome User")
}

func TestConsole_SignUpThenLogin(t *testing.T) {
	s := run(t, "2", "alice", "secret", "1", "alice", "secret", "1", "4", "3")
	out := s.out.String()
	assert.Contains(t, out, "Account created")
	assert.Contains(t, out, "Hello Alice, this is your profile.")
	assert.Contains(t, out, "No payment methods on file.")
	assert.Equal(t, 2, s.repo.Count())
}

func TestConsole_ReserveFlight(t *testing.T) {
	s := run(t, script(
		[]string{"1", "user", "1234", "2", "1"},
		flightSearch,
		[]string{"4", "2"}, // reserve with Stripe
		[]string{"3", "4", "3"},
	)...)
	out := s.out.String()

	assert.Contains(t, out, "Flight selected successfully.")
	assert.Contains(t, out, "Stripe (****4242)")
	assert.Contains(t, out, "All reservations successfully booked.")
	assert.Contains(t, out, "Listing 1 itineraries")
	assert.Equal(t, int64(1), s.ledger.Stats().Committed)

	c, err := s.repo.FindByID(context.Background(), "1304")
	require.NoError(t, err)
	require.Len(t, c.Itineraries(), 1)
	assert.True(t, c.Itineraries()[0].IsCommitted())
}

func TestConsole_InvalidDateIsRetried(t *testing.T) {
	s := run(t,
		"1", "user", "1234", "2", "1",
		"IST", "2026-08-14", "14-08-2026", "YVR", "19-08-2026", "0", "0", "1", "1",
		"5", "4", "3",
	)
	assert.Contains(t, s.out.String(), "Please enter in DD-MM-YYYY format.")
	assert.Contains(t, s.out.String(), "Itinerary canceled.")
}

func TestConsole_RemoveAndCancel(t *testing.T) {
	s := run(t, script(
		[]string{"1", "user", "1234", "2", "1"},
		flightSearch,
		[]string{"3", "1"}, // remove it again
		[]string{"4"},      // nothing left to reserve
		[]string{"5", "3", "4", "3"},
	)...)
	out := s.out.String()

	assert.Contains(t, out, "Reservation removed. Itinerary total is now 0.00.")
	assert.Contains(t, out, "There are no reservations to book.")
	assert.Contains(t, out, "Itinerary canceled.")
	assert.Contains(t, out, "There are no itineraries to present.")
	assert.Equal(t, int64(1), s.ledger.Stats().Cleared)
}

func TestConsole_InvalidSearchIsReported(t *testing.T) {
	s := run(t,
		"1", "user", "1234", "2", "1",
		"IST", "19-08-2026", "YVR", "14-08-2026", "0", "0", "1",
		"5", "4", "3",
	)
	assert.Contains(t, s.out.String(), "Invalid search:")
}
