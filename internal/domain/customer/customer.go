package customer

import (
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/Wayfarer-Travel/service-itinerary/internal/domain"
	"github.com/Wayfarer-Travel/service-itinerary/internal/domain/itinerary"
	"github.com/Wayfarer-Travel/service-itinerary/internal/domain/payment"
)

// Customer is the aggregate root for a customer account and its committed itineraries.
type Customer struct {
	id             string
	username       string
	passwordHash   []byte
	paymentMethods []payment.Method
	itineraries    []*itinerary.Itinerary
	createdAt      time.Time
}

// NewCustomer creates a customer, hashing the password with bcrypt.
func NewCustomer(id, username, password string) (*Customer, error) {
	if id == "" {
		return nil, domain.NewValidationError("customer id is required")
	}
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, domain.NewValidationError("username is required")
	}
	if password == "" {
		return nil, domain.NewValidationError("password is required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	return &Customer{
		id:           id,
		username:     username,
		passwordHash: hash,
		createdAt:    time.Now().UTC(),
	}, nil
}

func (c *Customer) ID() string           { return c.id }
func (c *Customer) Username() string     { return c.username }
func (c *Customer) CreatedAt() time.Time { return c.createdAt }

// CheckPassword reports whether the password matches the stored hash.
func (c *Customer) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword(c.passwordHash, []byte(password)) == nil
}

// AddPaymentMethod registers a payment method on the account.
func (c *Customer) AddPaymentMethod(m payment.Method) error {
	if m == nil {
		return domain.NewValidationError("payment method is required")
	}
	c.paymentMethods = append(c.paymentMethods, m)
	return nil
}

// PaymentMethods returns the registered methods in display order.
func (c *Customer) PaymentMethods() []payment.Method {
	out := make([]payment.Method, len(c.paymentMethods))
	copy(out, c.paymentMethods)
	return out
}

// PaymentMethod selects a method by its 1-based display index.
func (c *Customer) PaymentMethod(index int) (payment.Method, error) {
	if index < 1 || index > len(c.paymentMethods) {
		return nil, domain.NewValidationError("invalid payment method selection")
	}
	return c.paymentMethods[index-1], nil
}

// AttachItinerary adds a committed itinerary to the customer's collection.
func (c *Customer) AttachItinerary(it *itinerary.Itinerary) error {
	if it == nil {
		return domain.NewValidationError("itinerary is required")
	}
	if it.CustomerID() != c.id {
		return domain.NewValidationError("itinerary belongs to a different customer")
	}
	if !it.IsCommitted() {
		return domain.NewInvalidStateError(string(it.Status()), string(itinerary.StatusCommitted))
	}
	for _, existing := range c.itineraries {
		if existing.ID() == it.ID() {
			return nil
		}
	}
	c.itineraries = append(c.itineraries, it)
	return nil
}

// Itineraries returns the committed itineraries in the order they were attached.
func (c *Customer) Itineraries() []*itinerary.Itinerary {
	out := make([]*itinerary.Itinerary, len(c.itineraries))
	copy(out, c.itineraries)
	return out
}
