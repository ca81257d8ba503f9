package kernel

import (
	"fmt"
	"math"

	"coffeeshop/internal/pkg/errs"
)

// Money is an amount in minor currency units (kopecks, cents). All arithmetic
// is integer; there is no floating point representation anywhere in the domain.
type Money int64

// NewMoney validates that minor is not negative.
func NewMoney(minor int64) (Money, error) {
	if minor < 0 {
		return 0, errs.NewValueIsOutOfRangeError("amount", minor, 0, int64(math.MaxInt64))
	}
	return Money(minor), nil
}

// Minor returns the raw amount in minor units.
func (m Money) Minor() int64 {
	return int64(m)
}

// Add returns m+other or an error on overflow.
func (m Money) Add(other Money) (Money, error) {
	if other > 0 && m > math.MaxInt64-other {
		return 0, errs.NewValueIsOutOfRangeErrorWithCause("amount", other, 0, int64(math.MaxInt64-m),
			fmt.Errorf("%d + %d overflows", m, other))
	}
	return m + other, nil
}

// Multiply returns m*qty or an error on overflow or negative qty.
func (m Money) Multiply(qty int) (Money, error) {
	if qty < 0 {
		return 0, errs.NewValueIsOutOfRangeError("quantity", qty, 0, math.MaxInt32)
	}
	if qty != 0 && m > Money(math.MaxInt64/int64(qty)) {
		return 0, errs.NewValueIsOutOfRangeErrorWithCause("amount", m, 0, int64(math.MaxInt64/int64(qty)),
			fmt.Errorf("%d * %d overflows", m, qty))
	}
	return m * Money(qty), nil
}

// String formats the amount as major.minor with two decimals, e.g. 800 -> "8.00".
func (m Money) String() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}
