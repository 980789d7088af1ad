package payment

import (
	"context"

	"github.com/Wayfarer-Travel/service-itinerary/internal/domain"
)

// Method is the capability interface implemented by every payment provider adapter.
// Variants route to different providers but behave the same at this interface.
type Method interface {
	// Name returns the provider name shown to customers.
	Name() string
	// Pay charges the amount and returns the provider transaction id.
	Pay(ctx context.Context, amount domain.Money) (string, error)
	// Refund reverses a previously accepted charge.
	Refund(ctx context.Context, transactionID string) error
	// String returns the masked display form of the method.
	String() string
}
