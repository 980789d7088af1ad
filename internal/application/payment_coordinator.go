package application

import (
	"context"
	"time"

	"github.com/Wayfarer-Travel/service-itinerary/internal/domain"
	"github.com/Wayfarer-Travel/service-itinerary/internal/domain/payment"
)

// PaymentCoordinator wraps the payment method selected for one commit.
type PaymentCoordinator struct {
	method  payment.Method
	timeout time.Duration
}

// NewPaymentCoordinator creates a PaymentCoordinator. A zero timeout leaves calls unbounded.
func NewPaymentCoordinator(method payment.Method, timeout time.Duration) *PaymentCoordinator {
	return &PaymentCoordinator{method: method, timeout: timeout}
}

// Method returns the wrapped payment method.
func (c *PaymentCoordinator) Method() payment.Method { return c.method }

// ProcessPayment charges the amount and returns the transaction id.
// Non-positive amounts are rejected without contacting the provider.
func (c *PaymentCoordinator) ProcessPayment(ctx context.Context, amount domain.Money) (string, error) {
	if !amount.IsPositive() {
		return "", domain.NewPaymentProcessingError(c.method.Name(), "pay", domain.ErrInvalidAmount)
	}

	ctx, cancel := withCallTimeout(ctx, c.timeout)
	defer cancel()

	transactionID, err := c.method.Pay(ctx, amount)
	if err == nil && transactionID == "" {
		err = domain.ErrMissingTransaction
	}
	if err != nil {
		return "", domain.NewPaymentProcessingError(c.method.Name(), "pay", err)
	}
	return transactionID, nil
}

// ProcessRefund reverses a charge. An empty transaction id is rejected
// without contacting the provider.
func (c *PaymentCoordinator) ProcessRefund(ctx context.Context, transactionID string) error {
	if transactionID == "" {
		return domain.NewPaymentProcessingError(c.method.Name(), "refund", domain.ErrMissingTransaction)
	}

	ctx, cancel := withCallTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.method.Refund(ctx, transactionID); err != nil {
		return domain.NewPaymentProcessingError(c.method.Name(), "refund", err)
	}
	return nil
}

func withCallTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
