// Package console is the menu-driven terminal front end for customers.
package console

import (
	"context"
	"errors"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/Wayfarer-Travel/service-itinerary/internal/application"
	customerDomain "github.com/Wayfarer-Travel/service-itinerary/internal/domain/customer"
	"github.com/Wayfarer-Travel/service-itinerary/internal/domain/itinerary"
)

// Console drives one interactive session over an input and output stream.
type Console struct {
	p           *prompter
	auth        *application.AuthService
	search      *application.SearchService
	itineraries *application.ItineraryService
	logger      *zap.Logger

	customer *customerDomain.Customer
}

// New creates a Console reading from in and writing to out.
func New(
	in io.Reader,
	out io.Writer,
	auth *application.AuthService,
	search *application.SearchService,
	itineraries *application.ItineraryService,
	logger *zap.Logger,
) *Console {
	return &Console{
		p:           newPrompter(in, out),
		auth:        auth,
		search:      search,
		itineraries: itineraries,
		logger:      logger,
	}
}

// Run shows the access menu until the user exits, the input ends or ctx is done.
func (c *Console) Run(ctx context.Context) error {
	c.p.println("\nWelcome to the Itinerary Reservation System!")
	err := c.accessMenu(ctx)
	if errors.Is(err, errInputClosed) || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (c *Console) accessMenu(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		choice, err := c.p.Choice("\nSystem Access:\n1) Login\n2) Sign up\n3) Exit\nEnter your choice (from 1 to 3): ", 3)
		if err != nil {
			return err
		}
		switch choice {
		case 1:
			err = c.login(ctx)
		case 2:
			err = c.signUp(ctx)
		case 3:
			c.p.println("\nExiting system.")
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (c *Console) login(ctx context.Context) error {
	username, err := c.p.String("Enter Username: ")
	if err != nil {
		return err
	}
	password, err := c.p.String("Enter Password: ")
	if err != nil {
		return err
	}

	customer, err := c.auth.Login(ctx, username, password)
	if err != nil {
		c.p.println("\nLogin failed:", err)
		return nil
	}
	c.customer = customer
	c.p.println("\nLogged in successfully.")
	return c.customerMenu(ctx)
}

func (c *Console) signUp(ctx context.Context) error {
	username, err := c.p.String("Choose a Username: ")
	if err != nil {
		return err
	}
	password, err := c.p.String("Choose a Password: ")
	if err != nil {
		return err
	}

	if _, err := c.auth.Register(ctx, username, password); err != nil {
		c.p.println("\nSign up failed:", err)
		return nil
	}
	c.p.println("\nAccount created. You can now log in.")
	return nil
}

func (c *Console) customerMenu(ctx context.Context) error {
	defer func() { c.customer = nil }()
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		prompt := "\nWelcome " + capitalize(c.customer.Username()) + " | Customer:\n" +
			"1) View Profile\n2) Make itinerary\n3) List my itineraries\n4) Logout\nEnter your choice (from 1 to 4): "
		choice, err := c.p.Choice(prompt, 4)
		if err != nil {
			return err
		}
		switch choice {
		case 1:
			c.viewProfile()
		case 2:
			err = c.makeItinerary(ctx)
		case 3:
			err = c.listItineraries(ctx)
		case 4:
			c.p.println("\nLogging out...")
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (c *Console) viewProfile() {
	profile := c.auth.Profile(c.customer)
	c.p.printf("\nHello %s, this is your profile.\n", capitalize(profile.Username))
	c.p.printf("Customer ID: %s\n", profile.CustomerID)
	c.p.printf("Committed itineraries: %d\n", profile.Itineraries)
	if len(profile.PaymentMethods) == 0 {
		c.p.println("No payment methods on file.")
		return
	}
	c.p.println("Payment methods:")
	for i, m := range profile.PaymentMethods {
		c.p.printf("%d) %s\n", i+1, m)
	}
}

func (c *Console) listItineraries(ctx context.Context) error {
	its, err := c.itineraries.List(ctx, c.customer.ID())
	if err != nil {
		c.p.println("\nCould not list itineraries:", err)
		return nil
	}
	if len(its) == 0 {
		c.p.println("\nThere are no itineraries to present.")
		return nil
	}
	c.p.printf("\nListing %d itineraries\n", len(its))
	for _, it := range its {
		c.p.printf("Itinerary %s total cost %s\n", it.Reference, it.TotalCost)
		for _, r := range it.Reservations {
			c.p.printf("    %s [%s]\n", r.Description, r.ConfirmationID)
		}
	}
	return nil
}

func (c *Console) customerInfo() itinerary.CustomerInfo {
	return itinerary.CustomerInfo{
		"customer_id": c.customer.ID(),
		"username":    c.customer.Username(),
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
