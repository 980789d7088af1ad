package console

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"github.com/Wayfarer-Travel/service-itinerary/internal/application"
	"github.com/Wayfarer-Travel/service-itinerary/internal/domain/itinerary"
)

const itineraryMenu = "\nCreate your itinerary:\n1) Add flight\n2) Add hotel\n3) Remove item\n" +
	"4) Reserve itinerary\n5) Cancel itinerary\nEnter your choice (from 1 to 5): "

// makeItinerary runs one itinerary session until it is reserved or cancelled.
func (c *Console) makeItinerary(ctx context.Context) error {
	it, err := c.itineraries.Start(ctx, c.customer.ID())
	if err != nil {
		c.p.println("\nCould not start itinerary:", err)
		return nil
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		choice, err := c.p.Choice(itineraryMenu, 5)
		if err != nil {
			return err
		}

		var done bool
		switch choice {
		case 1:
			err = c.addFlight(ctx, it)
		case 2:
			err = c.addRoom(ctx, it)
		case 3:
			err = c.removeItem(ctx, it)
		case 4:
			done, err = c.reserve(ctx, it)
		case 5:
			if cancelErr := c.itineraries.Cancel(ctx, it); cancelErr != nil {
				c.p.println("\nCould not cancel itinerary:", cancelErr)
				continue
			}
			c.p.println("\nItinerary canceled.")
			return nil
		}
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

func (c *Console) addFlight(ctx context.Context, it *itinerary.Itinerary) error {
	criteria, err := c.flightCriteria()
	if err != nil {
		return err
	}

	options, stats, err := c.search.SearchFlights(ctx, criteria)
	if err != nil {
		c.p.println("\nInvalid search:", err)
		return nil
	}
	c.logger.Debug("flight search finished",
		zap.Int("providers_failed", stats.ProvidersFailed),
		zap.Int("offers", len(options)),
	)
	if len(options) == 0 {
		c.p.println("\nNo flights available for this search.")
		return nil
	}

	c.p.println("Select a flight:")
	for i, o := range options {
		c.p.printf("%d) %s\n", i+1, o.Offer)
	}
	choice, err := c.p.Choice(choicePrompt("Enter a number", len(options)), len(options))
	if err != nil {
		return err
	}

	if _, err := c.itineraries.AddFlight(ctx, it, options[choice-1], c.customerInfo()); err != nil {
		c.p.println("\nCould not add flight:", err)
		return nil
	}
	c.p.println("\nFlight selected successfully.")
	return nil
}

func (c *Console) flightCriteria() (itinerary.FlightCriteria, error) {
	var (
		fc  itinerary.FlightCriteria
		err error
	)
	if fc.Origin, err = c.p.String("Enter departure location: "); err != nil {
		return fc, err
	}
	if fc.DepartOn, err = c.p.Date("Enter departure date (DD-MM-YYYY): "); err != nil {
		return fc, err
	}
	if fc.Destination, err = c.p.String("Enter destination: "); err != nil {
		return fc, err
	}
	if fc.ReturnOn, err = c.p.Date("Enter return date (DD-MM-YYYY): "); err != nil {
		return fc, err
	}
	if fc.Infants, err = c.p.Count("Enter number of infants: ", 0); err != nil {
		return fc, err
	}
	if fc.Children, err = c.p.Count("Enter number of children: ", 0); err != nil {
		return fc, err
	}
	fc.Adults, err = c.p.Count("Enter number of adults: ", 1)
	return fc, err
}

func (c *Console) addRoom(ctx context.Context, it *itinerary.Itinerary) error {
	criteria, err := c.roomCriteria()
	if err != nil {
		return err
	}

	options, stats, err := c.search.SearchRooms(ctx, criteria)
	if err != nil {
		c.p.println("\nInvalid search:", err)
		return nil
	}
	c.logger.Debug("room search finished",
		zap.Int("providers_failed", stats.ProvidersFailed),
		zap.Int("offers", len(options)),
	)
	if len(options) == 0 {
		c.p.println("\nNo rooms available for this search.")
		return nil
	}

	c.p.println("Select a hotel:")
	for i, o := range options {
		c.p.printf("%d) %s\n", i+1, o.Offer)
	}
	choice, err := c.p.Choice(choicePrompt("Enter your choice", len(options)), len(options))
	if err != nil {
		return err
	}

	if _, err := c.itineraries.AddRoom(ctx, it, options[choice-1], c.customerInfo()); err != nil {
		c.p.println("\nCould not add hotel:", err)
		return nil
	}
	c.p.println("\nHotel selected successfully.")
	return nil
}

func (c *Console) roomCriteria() (itinerary.RoomCriteria, error) {
	var (
		rc  itinerary.RoomCriteria
		err error
	)
	if rc.RoomType, err = c.p.String("Enter room type (blank for any): "); err != nil {
		return rc, err
	}
	if rc.CheckIn, err = c.p.Date("Enter from date (DD-MM-YYYY): "); err != nil {
		return rc, err
	}
	if rc.CheckOut, err = c.p.Date("Enter to date (DD-MM-YYYY): "); err != nil {
		return rc, err
	}
	if rc.Location, err = c.p.String("Enter location: "); err != nil {
		return rc, err
	}
	if rc.Rooms, err = c.p.Count("Enter number of rooms: ", 1); err != nil {
		return rc, err
	}
	if rc.Children, err = c.p.Count("Enter number of children: ", 0); err != nil {
		return rc, err
	}
	rc.Adults, err = c.p.Count("Enter number of adults: ", 1)
	return rc, err
}

func (c *Console) removeItem(ctx context.Context, it *itinerary.Itinerary) error {
	reservations := it.Reservations()
	if len(reservations) == 0 {
		c.p.println("\nThere are no reservations to remove.")
		return nil
	}

	c.p.println("Select a reservation to remove:")
	for i, r := range reservations {
		c.p.printf("%d) %s\n", i+1, r.Describe())
	}
	choice, err := c.p.Choice(choicePrompt("Enter your choice", len(reservations)), len(reservations))
	if err != nil {
		return err
	}

	if err := c.itineraries.Remove(ctx, it, reservations[choice-1].ID()); err != nil {
		c.p.println("\nCould not remove reservation:", err)
		return nil
	}
	c.p.printf("\nReservation removed. Itinerary total is now %s.\n", it.TotalCost())
	return nil
}

// reserve reports done once the itinerary is committed.
func (c *Console) reserve(ctx context.Context, it *itinerary.Itinerary) (bool, error) {
	if it.IsEmpty() {
		c.p.println("\nThere are no reservations to book.")
		return false, nil
	}
	methods := c.customer.PaymentMethods()
	if len(methods) == 0 {
		c.p.println("\nThere are no payment methods to reserve with.")
		return false, nil
	}

	c.p.println("\nWhich payment method:")
	for i, m := range methods {
		c.p.printf("%d) %s\n", i+1, m)
	}
	choice, err := c.p.Choice(choicePrompt("Enter your choice", len(methods)), len(methods))
	if err != nil {
		return false, err
	}

	result, err := c.itineraries.Reserve(ctx, c.customer.ID(), it, choice)
	if err != nil {
		c.p.println("\nCould not reserve itinerary:", err)
		return false, nil
	}
	return c.reportReserve(result), nil
}

func (c *Console) reportReserve(result *application.ReserveResult) bool {
	if result.Committed {
		c.p.printf("\nAll reservations successfully booked. Itinerary %s total %s.\n",
			result.Itinerary.Reference, result.Itinerary.TotalCost)
		return true
	}

	c.p.println("\nItinerary reservation failed:", result.Reason)
	if result.Dropped > 0 {
		c.p.printf("%d reservation(s) were rolled back and removed from the itinerary.\n", result.Dropped)
	}
	for _, f := range result.CompensationFailures {
		c.p.println("Attention required:", f)
	}
	if n := len(result.Itinerary.Reservations); n > 0 {
		c.p.printf("%d reservation(s) remain in the itinerary.\n", n)
	}
	return false
}

func choicePrompt(lead string, n int) string {
	if n == 1 {
		return lead + " (1): "
	}
	return lead + " (from 1 to " + strconv.Itoa(n) + "): "
}
