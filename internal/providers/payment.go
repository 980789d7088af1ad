package providers

import (
	"context"
	"fmt"
	"sync"

	"github.com/Wayfarer-Travel/service-itinerary/internal/domain"
	"github.com/Wayfarer-Travel/service-itinerary/internal/domain/payment"
)

var _ payment.Method = (*PaymentGateway)(nil)

type charge struct {
	amount   domain.Money
	refunded bool
}

// PaymentGateway is a simulated payment provider bound to one customer card or account.
type PaymentGateway struct {
	name    string
	prefix  string
	account string
	sim     *simulator

	mu      sync.Mutex
	charges map[string]*charge
}

func newPaymentGateway(name, prefix, account string, cfg SimConfig, offset int64) *PaymentGateway {
	return &PaymentGateway{
		name:    name,
		prefix:  prefix,
		account: account,
		sim:     newSimulator(cfg, offset),
		charges: make(map[string]*charge),
	}
}

// NewPayPal creates a PayPal gateway for the given account email.
func NewPayPal(email string, cfg SimConfig) *PaymentGateway {
	return newPaymentGateway("PayPal", "PAYPAL", email, cfg, 5)
}

// NewStripe creates a Stripe gateway for the given card number.
func NewStripe(cardNumber string, cfg SimConfig) *PaymentGateway {
	return newPaymentGateway("Stripe", "STRIPE", cardNumber, cfg, 6)
}

func (p *PaymentGateway) Name() string { return p.name }

// String masks the account for display.
func (p *PaymentGateway) String() string {
	tail := p.account
	if len(tail) > 4 {
		tail = tail[len(tail)-4:]
	}
	return fmt.Sprintf("%s (****%s)", p.name, tail)
}

func (p *PaymentGateway) Pay(ctx context.Context, amount domain.Money) (string, error) {
	if !amount.IsPositive() {
		return "", domain.ErrInvalidAmount
	}
	if err := p.sim.call(ctx); err != nil {
		return "", err
	}
	id := newID(p.prefix)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.charges[id] = &charge{amount: amount}
	return id, nil
}

func (p *PaymentGateway) Refund(ctx context.Context, transactionID string) error {
	if err := p.sim.call(ctx); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	c, ok := p.charges[transactionID]
	if !ok {
		return fmt.Errorf("%s: %w", transactionID, ErrUnknownTransaction)
	}
	if c.refunded {
		return fmt.Errorf("%s: %w", transactionID, ErrAlreadyRefunded)
	}
	c.refunded = true
	return nil
}

// Balance returns the sum of charges not yet refunded.
func (p *PaymentGateway) Balance() domain.Money {
	p.mu.Lock()
	defer p.mu.Unlock()
	var total domain.Money
	for _, c := range p.charges {
		if !c.refunded {
			total += c.amount
		}
	}
	return total
}
