package commands

import (
	"errors"
	"strings"

	"coffeeshop/internal/core/domain/model/cart"
	"coffeeshop/internal/pkg/errs"
	"coffeeshop/internal/pkg/guard"
)

var ErrAddCartItemCommandIsNotConstructed = errors.New(
	"AddCartItemCommand must be created via NewAddCartItemCommand constructor",
)

// AddCartItemCommand puts an item (with its size and addons) into a customer's cart.
// An entry with the same item, size and addon set is merged by summing quantities.
//
// Example:
//
//	cmd, err := NewAddCartItemCommand("42", "cappuccino", "m", []string{"oat-milk"}, 2)
//	if err != nil {
//	    return fmt.Errorf("invalid cart entry: %w", err)
//	}
//	c, err := handler.Handle(ctx, cmd)
type AddCartItemCommand struct { //nolint:recvcheck //using for validation
	customerID string
	line       cart.Line

	guard guard.ConstructorGuard
}

// NewAddCartItemCommand validates the customer id and the entry itself.
// Quantity must be positive; size is normalised and addons are deduplicated.
func NewAddCartItemCommand(
	customerID, itemID, size string,
	addons []string,
	quantity int,
) (AddCartItemCommand, error) {
	cmd := AddCartItemCommand{
		guard: guard.NewConstructorGuard(),
	}

	line, lineErr := cart.NewLine(itemID, size, addons, quantity)
	if err := errors.Join(cmd.setCustomerID(customerID), lineErr); err != nil {
		return AddCartItemCommand{}, err
	}
	cmd.line = line

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c AddCartItemCommand) Validate() error {
	return c.guard.Validate(ErrAddCartItemCommandIsNotConstructed)
}

func (c AddCartItemCommand) CustomerID() string {
	return c.customerID
}

func (c AddCartItemCommand) Line() cart.Line {
	return c.line
}

func (c *AddCartItemCommand) setCustomerID(customerID string) error {
	customerID = strings.TrimSpace(customerID)
	if customerID == "" {
		return errs.NewValueIsRequiredError("customerID")
	}

	c.customerID = customerID
	return nil
}
