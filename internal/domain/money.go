package domain

import (
	"fmt"
	"math"
)

// Money is an amount in minor units (cents). Currency handling is out of scope,
// every amount in the system shares one implicit currency.
type Money int64

// MoneyFromFloat converts a decimal amount to Money, rounding to the nearest cent.
func MoneyFromFloat(amount float64) Money {
	return Money(math.Round(amount * 100))
}

// Float returns the decimal value of the amount.
func (m Money) Float() float64 { return float64(m) / 100 }

// IsPositive reports whether the amount is strictly greater than zero.
func (m Money) IsPositive() bool { return m > 0 }

// String formats the amount with two decimals, e.g. "129.90".
func (m Money) String() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}
