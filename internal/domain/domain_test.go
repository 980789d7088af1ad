package domain_test

import (
	"errors"
	"testing"

	"github.com/Wayfarer-Travel/service-itinerary/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoney(t *testing.T) {
	tests := []struct {
		name  string
		input float64
		cents domain.Money
		text  string
	}{
		{name: "whole", input: 500, cents: 50000, text: "500.00"},
		{name: "fraction", input: 129.9, cents: 12990, text: "129.90"},
		{name: "rounding", input: 19.99, cents: 1999, text: "19.99"},
		{name: "negative", input: -2.5, cents: -250, text: "-2.50"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := domain.MoneyFromFloat(tt.input)
			assert.Equal(t, tt.cents, m)
			assert.Equal(t, tt.text, m.String())
		})
	}

	assert.False(t, domain.Money(0).IsPositive())
	assert.True(t, domain.Money(1).IsPositive())
	assert.InDelta(t, 129.9, domain.Money(12990).Float(), 0.0001)
}

func TestSagaErrorsUnwrap(t *testing.T) {
	cause := errors.New("gateway declined")

	payErr := domain.NewPaymentProcessingError("PayPal", "pay", cause)
	var ppe *domain.PaymentProcessingError
	require.ErrorAs(t, payErr, &ppe)
	assert.Equal(t, "pay", ppe.Op)
	assert.ErrorIs(t, payErr, cause)

	bookErr := domain.NewBookingError("Hilton", cause)
	var be *domain.BookingError
	require.ErrorAs(t, bookErr, &be)
	assert.Equal(t, "Hilton", be.Provider)
	assert.ErrorIs(t, bookErr, cause)

	cancelErr := domain.NewCancellationError("Air Canada", "AC-1", domain.ErrMissingConfirmation)
	var ce *domain.CancellationError
	require.ErrorAs(t, cancelErr, &ce)
	assert.ErrorIs(t, cancelErr, domain.ErrMissingConfirmation)
	assert.Contains(t, cancelErr.Error(), "AC-1")
}
