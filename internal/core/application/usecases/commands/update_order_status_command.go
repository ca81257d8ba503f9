package commands

import (
	"errors"
	"strings"

	"coffeeshop/internal/core/domain/model/kernel"
	"coffeeshop/internal/core/domain/model/order"
	"coffeeshop/internal/pkg/errs"
	"coffeeshop/internal/pkg/guard"
)

var ErrUpdateOrderStatusCommandIsNotConstructed = errors.New(
	"UpdateOrderStatusCommand must be created via NewUpdateOrderStatusCommand constructor",
)

// UpdateOrderStatusCommand asks to move an order from the status the actor last
// saw (expected) to a target status on behalf of a staff actor.
//
// Example:
//
//	cmd, err := NewUpdateOrderStatusCommand(orderID, order.Pending, order.Confirmed, "staff-7")
//	if err != nil {
//	    return fmt.Errorf("invalid transition request: %w", err)
//	}
//	o, err := handler.Handle(ctx, cmd)
type UpdateOrderStatusCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	expected order.Status
	target   order.Status
	actorID  string

	guard guard.ConstructorGuard
}

func NewUpdateOrderStatusCommand(
	orderID kernel.UUID,
	expected order.Status,
	target order.Status,
	actorID string,
) (UpdateOrderStatusCommand, error) {
	cmd := UpdateOrderStatusCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setExpected(expected),
		cmd.setTarget(target),
		cmd.setActorID(actorID),
	); err != nil {
		return UpdateOrderStatusCommand{}, err
	}

	return cmd, nil
}

func (c UpdateOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrUpdateOrderStatusCommandIsNotConstructed)
}

func (c UpdateOrderStatusCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c UpdateOrderStatusCommand) Expected() order.Status {
	return c.expected
}

func (c UpdateOrderStatusCommand) Target() order.Status {
	return c.target
}

func (c UpdateOrderStatusCommand) ActorID() string {
	return c.actorID
}

func (c *UpdateOrderStatusCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *UpdateOrderStatusCommand) setExpected(expected order.Status) error {
	if err := expected.Validate(); err != nil {
		return err
	}

	c.expected = expected
	return nil
}

func (c *UpdateOrderStatusCommand) setTarget(target order.Status) error {
	if err := target.Validate(); err != nil {
		return err
	}

	c.target = target
	return nil
}

func (c *UpdateOrderStatusCommand) setActorID(actorID string) error {
	actorID = strings.TrimSpace(actorID)
	if actorID == "" {
		return errs.NewValueIsRequiredError("actorId")
	}

	c.actorID = actorID
	return nil
}
