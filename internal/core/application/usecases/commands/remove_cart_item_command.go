package commands

import (
	"errors"
	"strings"

	"coffeeshop/internal/core/domain/model/cart"
	"coffeeshop/internal/pkg/errs"
	"coffeeshop/internal/pkg/guard"
)

var ErrRemoveCartItemCommandIsNotConstructed = errors.New(
	"RemoveCartItemCommand must be created via NewRemoveCartItemCommand constructor",
)

// RemoveCartItemCommand decrements the matching cart entry by quantity.
// The entry disappears once its quantity reaches zero.
type RemoveCartItemCommand struct { //nolint:recvcheck //using for validation
	customerID string
	line       cart.Line

	guard guard.ConstructorGuard
}

func NewRemoveCartItemCommand(
	customerID, itemID, size string,
	addons []string,
	quantity int,
) (RemoveCartItemCommand, error) {
	cmd := RemoveCartItemCommand{
		guard: guard.NewConstructorGuard(),
	}

	line, lineErr := cart.NewLine(itemID, size, addons, quantity)
	if err := errors.Join(cmd.setCustomerID(customerID), lineErr); err != nil {
		return RemoveCartItemCommand{}, err
	}
	cmd.line = line

	return cmd, nil
}

func (c RemoveCartItemCommand) Validate() error {
	return c.guard.Validate(ErrRemoveCartItemCommandIsNotConstructed)
}

func (c RemoveCartItemCommand) CustomerID() string {
	return c.customerID
}

func (c RemoveCartItemCommand) Line() cart.Line {
	return c.line
}

func (c *RemoveCartItemCommand) setCustomerID(customerID string) error {
	customerID = strings.TrimSpace(customerID)
	if customerID == "" {
		return errs.NewValueIsRequiredError("customerID")
	}

	c.customerID = customerID
	return nil
}
