package kernel

import (
	"fmt"

	"orderflow/internal/pkg/errs"
)

// Money is a monetary amount in integer cents. Amounts are never negative;
// refunds are modeled as positive amounts on the return entity.
type Money int64

// NewMoney creates a Money value, rejecting negative amounts.
func NewMoney(cents int64) (Money, error) {
	if cents < 0 {
		return 0, errs.NewValueIsInvalidErrorWithCause("amount",
			fmt.Errorf("%d cents is negative", cents))
	}
	return Money(cents), nil
}

// Cents returns the raw amount in cents.
func (m Money) Cents() int64 {
	return int64(m)
}

// Add returns the sum of two amounts.
func (m Money) Add(other Money) Money {
	return m + other
}

// String formats the amount as a decimal with two fraction digits.
func (m Money) String() string {
	return fmt.Sprintf("%d.%02d", m/100, m%100)
}
