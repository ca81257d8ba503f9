package order

import (
	"fmt"
	"math/rand/v2"
	"regexp"
	"strings"

	"coffeeshop/internal/pkg/errs"
)

var numberPattern = regexp.MustCompile(`^ORD[0-9]{6}$`)

// Number is the human-facing order number ("ORD" followed by six digits). It is
// independent of the storage key and unique across all orders.
type Number string

// GenerateNumber returns a random candidate. Uniqueness is checked by the caller.
func GenerateNumber() Number {
	return Number(fmt.Sprintf("ORD%06d", rand.IntN(1_000_000)))
}

// ParseNumber accepts the number in any letter case.
func ParseNumber(s string) (Number, error) {
	n := Number(strings.ToUpper(strings.TrimSpace(s)))
	if err := n.Validate(); err != nil {
		return "", err
	}
	return n, nil
}

func (n Number) Validate() error {
	if !numberPattern.MatchString(string(n)) {
		return errs.NewValueIsInvalidErrorWithCause("orderNumber", fmt.Errorf("%q does not match ORDnnnnnn", string(n)))
	}
	return nil
}

func (n Number) String() string {
	return string(n)
}
