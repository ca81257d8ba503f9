package commands

import (
	"errors"
	"strings"

	"coffeeshop/internal/pkg/errs"
	"coffeeshop/internal/pkg/guard"
)

var ErrClearCartCommandIsNotConstructed = errors.New(
	"ClearCartCommand must be created via NewClearCartCommand constructor",
)

// ClearCartCommand empties a customer's cart.
type ClearCartCommand struct {
	customerID string

	guard guard.ConstructorGuard
}

func NewClearCartCommand(customerID string) (ClearCartCommand, error) {
	customerID = strings.TrimSpace(customerID)
	if customerID == "" {
		return ClearCartCommand{}, errs.NewValueIsRequiredError("customerID")
	}

	return ClearCartCommand{
		customerID: customerID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c ClearCartCommand) Validate() error {
	return c.guard.Validate(ErrClearCartCommandIsNotConstructed)
}

func (c ClearCartCommand) CustomerID() string {
	return c.customerID
}
