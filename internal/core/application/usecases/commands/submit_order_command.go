package commands

import (
	"errors"
	"strings"
	"time"

	"coffeeshop/internal/core/domain/model/order"
	"coffeeshop/internal/pkg/errs"
	"coffeeshop/internal/pkg/guard"
)

var ErrSubmitOrderCommandIsNotConstructed = errors.New(
	"SubmitOrderCommand must be created via NewSubmitOrderCommand constructor",
)

// SubmitOrderCommand turns the customer's current cart into an order.
// Only the shape of the details is checked here; the handler checks the
// scheduled time against its clock.
//
// Example:
//
//	at := time.Now().Add(time.Hour)
//	cmd, err := NewSubmitOrderCommand("42", order.PickupScheduled, &at, "", "no sugar", order.Card)
//	if err != nil {
//	    return fmt.Errorf("invalid order details: %w", err)
//	}
//	o, err := handler.Handle(ctx, cmd)
type SubmitOrderCommand struct { //nolint:recvcheck //using for validation
	customerID      string
	orderType       order.Type
	scheduledTime   *time.Time
	deliveryAddress string
	notes           string
	paymentMethod   order.PaymentMethod

	guard guard.ConstructorGuard
}

func NewSubmitOrderCommand(
	customerID string,
	orderType order.Type,
	scheduledTime *time.Time,
	deliveryAddress, notes string,
	paymentMethod order.PaymentMethod,
) (SubmitOrderCommand, error) {
	cmd := SubmitOrderCommand{
		deliveryAddress: deliveryAddress,
		notes:           notes,
		guard:           guard.NewConstructorGuard(),
	}

	if scheduledTime != nil {
		at := *scheduledTime
		cmd.scheduledTime = &at
	}

	if err := errors.Join(
		cmd.setCustomerID(customerID),
		cmd.setOrderType(orderType),
		cmd.setPaymentMethod(paymentMethod),
	); err != nil {
		return SubmitOrderCommand{}, err
	}

	return cmd, nil
}

func (c SubmitOrderCommand) Validate() error {
	return c.guard.Validate(ErrSubmitOrderCommandIsNotConstructed)
}

func (c SubmitOrderCommand) CustomerID() string {
	return c.customerID
}

func (c SubmitOrderCommand) OrderType() order.Type {
	return c.orderType
}

func (c SubmitOrderCommand) ScheduledTime() *time.Time {
	if c.scheduledTime == nil {
		return nil
	}
	at := *c.scheduledTime
	return &at
}

func (c SubmitOrderCommand) DeliveryAddress() string {
	return c.deliveryAddress
}

func (c SubmitOrderCommand) Notes() string {
	return c.notes
}

func (c SubmitOrderCommand) PaymentMethod() order.PaymentMethod {
	return c.paymentMethod
}

func (c *SubmitOrderCommand) setCustomerID(customerID string) error {
	customerID = strings.TrimSpace(customerID)
	if customerID == "" {
		return errs.NewValueIsRequiredError("customerID")
	}

	c.customerID = customerID
	return nil
}

func (c *SubmitOrderCommand) setOrderType(orderType order.Type) error {
	if err := orderType.Validate(); err != nil {
		return err
	}

	c.orderType = orderType
	return nil
}

func (c *SubmitOrderCommand) setPaymentMethod(method order.PaymentMethod) error {
	if method == "" {
		method = order.Cash
	}
	if err := method.Validate(); err != nil {
		return err
	}

	c.paymentMethod = method
	return nil
}
