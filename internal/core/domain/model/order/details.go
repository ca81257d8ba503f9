package order

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"coffeeshop/internal/pkg/errs"
	"coffeeshop/internal/pkg/guard"
)

const (
	MaxNotesLength   = 500
	MaxAddressLength = 300
)

var ErrDetailsAreNotConstructed = errors.New("Details must be created via NewDetails or RestoreDetails")

// Type is how the customer receives the order.
type Type string

const (
	PickupNow       Type = "pickup_now"
	PickupScheduled Type = "pickup_scheduled"
	DineIn          Type = "dine_in"
)

func (t Type) Validate() error {
	switch t {
	case PickupNow, PickupScheduled, DineIn:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("orderType", fmt.Errorf("%q is not a known order type", string(t)))
	}
}

// PaymentMethod is recorded on the order for staff; no payment is processed.
type PaymentMethod string

const (
	Cash   PaymentMethod = "cash"
	Card   PaymentMethod = "card"
	Online PaymentMethod = "online"
)

func (p PaymentMethod) Validate() error {
	switch p {
	case Cash, Card, Online:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("paymentMethod", fmt.Errorf("%q is not a known payment method", string(p)))
	}
}

// Details holds the customer choices that accompany the lines of an order.
type Details struct {
	orderType       Type
	scheduledTime   *time.Time
	deliveryAddress string
	notes           string
	paymentMethod   PaymentMethod

	guard guard.ConstructorGuard
}

// NewDetails validates submission input against now:
//   - scheduledTime is required for PickupScheduled and must be strictly after now
//   - scheduledTime is rejected for every other order type
//   - notes and address are trimmed and bounded in characters, not bytes
//   - an empty payment method defaults to Cash
func NewDetails(
	orderType Type,
	scheduledTime *time.Time,
	deliveryAddress, notes string,
	paymentMethod PaymentMethod,
	now time.Time,
) (Details, error) {
	d, err := buildDetails(orderType, scheduledTime, deliveryAddress, notes, paymentMethod)
	if err != nil {
		return Details{}, err
	}

	if d.scheduledTime != nil && !d.scheduledTime.After(now) {
		return Details{}, errs.NewValueIsInvalidErrorWithCause("scheduledTime",
			fmt.Errorf("%s is not in the future", d.scheduledTime.Format(time.RFC3339)))
	}
	return d, nil
}

// RestoreDetails rebuilds persisted details. The scheduled time is not compared
// with the clock because it was validated at submission.
func RestoreDetails(
	orderType Type,
	scheduledTime *time.Time,
	deliveryAddress, notes string,
	paymentMethod PaymentMethod,
) (Details, error) {
	return buildDetails(orderType, scheduledTime, deliveryAddress, notes, paymentMethod)
}

func buildDetails(
	orderType Type,
	scheduledTime *time.Time,
	deliveryAddress, notes string,
	paymentMethod PaymentMethod,
) (Details, error) {
	if paymentMethod == "" {
		paymentMethod = Cash
	}

	d := Details{
		orderType:       orderType,
		deliveryAddress: strings.TrimSpace(deliveryAddress),
		notes:           strings.TrimSpace(notes),
		paymentMethod:   paymentMethod,
		guard:           guard.NewConstructorGuard(),
	}
	if scheduledTime != nil {
		t := scheduledTime.UTC()
		d.scheduledTime = &t
	}

	var scheduleErr, notesErr, addressErr error
	switch {
	case orderType == PickupScheduled && scheduledTime == nil:
		scheduleErr = errs.NewValueIsRequiredError("scheduledTime")
	case orderType != PickupScheduled && scheduledTime != nil:
		scheduleErr = errs.NewValueIsInvalidErrorWithCause("scheduledTime",
			fmt.Errorf("only allowed for %s orders", PickupScheduled))
	}
	if n := utf8.RuneCountInString(d.notes); n > MaxNotesLength {
		notesErr = errs.NewValueIsOutOfRangeError("notes length", n, 0, MaxNotesLength)
	}
	if n := utf8.RuneCountInString(d.deliveryAddress); n > MaxAddressLength {
		addressErr = errs.NewValueIsOutOfRangeError("address length", n, 0, MaxAddressLength)
	}

	if err := errors.Join(orderType.Validate(), paymentMethod.Validate(), scheduleErr, notesErr, addressErr); err != nil {
		return Details{}, err
	}
	return d, nil
}

func (d Details) Validate() error {
	return d.guard.Validate(ErrDetailsAreNotConstructed)
}

func (d Details) Type() Type {
	return d.orderType
}

// ScheduledTime returns a copy of the pickup time, nil unless the type is PickupScheduled.
func (d Details) ScheduledTime() *time.Time {
	if d.scheduledTime == nil {
		return nil
	}
	t := *d.scheduledTime
	return &t
}

func (d Details) DeliveryAddress() string {
	return d.deliveryAddress
}

func (d Details) Notes() string {
	return d.notes
}

func (d Details) PaymentMethod() PaymentMethod {
	return d.paymentMethod
}
