package order

import (
	"errors"
	"slices"
	"strings"
	"time"

	"coffeeshop/internal/core/domain/model/kernel"
	"coffeeshop/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")
)

// Order is the aggregate root for a submitted cart. It is the only place that
// decides whether a status change is legal.
//
// Order follows these invariants:
//   - Number, customer, lines, total, details and creation time never change after creation
//   - Total equals the sum of line totals, computed once by NewOrder
//   - Status is always one of the defined states
//   - History is append-only and its last entry always matches Status
//
// The struct uses private fields so that state can only change through Transition.
type Order struct {
	id         kernel.UUID
	number     Number
	customerID string
	lines      []Line
	total      kernel.Money
	details    Details
	createdAt  time.Time

	status  Status
	history []HistoryEntry

	isConstructed bool
}

// NewOrder creates a Pending order from resolved lines.
//
// Parameters:
//   - id: storage identity of the order (must be valid UUID)
//   - number: human-facing number, already checked for uniqueness
//   - customerID: chat identity of the customer, used for notifications
//   - lines: at least one resolved line
//   - details: validated submission details
//   - createdAt: submission time
//
// Returns:
//   - *Order: the order in Pending status with a single history entry
//   - error: joined validation errors, or an overflow error from the total
//
// Example:
//
//	line, _ := order.NewLine("espresso", "Espresso", 800, 1, "s", nil)
//	details, _ := order.NewDetails(order.PickupNow, nil, "", "", order.Cash, now)
//	o, err := order.NewOrder(kernel.NewUUID(), order.GenerateNumber(), "42", []order.Line{line}, details, now)
func NewOrder(
	id kernel.UUID,
	number Number,
	customerID string,
	lines []Line,
	details Details,
	createdAt time.Time,
) (*Order, error) {
	o := &Order{
		createdAt:     createdAt.UTC(),
		status:        Pending,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setNumber(number),
		o.setCustomerID(customerID),
		o.setLines(lines),
		o.setDetails(details),
	); err != nil {
		return nil, err
	}

	total, err := sumLines(o.lines)
	if err != nil {
		return nil, err
	}
	o.total = total
	o.history = []HistoryEntry{NewHistoryEntry(Pending, o.createdAt, o.customerID)}

	return o, nil
}

// State is the full persisted form of an order, used by RestoreOrder.
type State struct {
	ID         kernel.UUID
	Number     Number
	CustomerID string
	Lines      []Line
	Total      kernel.Money
	Details    Details
	CreatedAt  time.Time
	Status     Status
	History    []HistoryEntry
}

// RestoreOrder rebuilds an order from storage. The stored total is kept as is
// and never recomputed.
func RestoreOrder(s State) (*Order, error) {
	o := &Order{
		total:         s.Total,
		createdAt:     s.CreatedAt.UTC(),
		isConstructed: true,
	}

	var historyErr error
	if len(s.History) == 0 {
		historyErr = errs.NewValueIsRequiredError("status history")
	} else if last := s.History[len(s.History)-1].Status(); last != s.Status {
		historyErr = errs.NewValueIsInvalidErrorWithCause("status history",
			errors.New("last entry "+last.String()+" does not match status "+s.Status.String()))
	}

	if err := errors.Join(
		o.setID(s.ID),
		o.setNumber(s.Number),
		o.setCustomerID(s.CustomerID),
		o.setLines(s.Lines),
		o.setDetails(s.Details),
		s.Status.Validate(),
		historyErr,
	); err != nil {
		return nil, err
	}

	o.status = s.Status
	o.history = slices.Clone(s.History)
	return o, nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by identity.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID {
	return o.id
}

func (o *Order) Number() Number {
	return o.number
}

func (o *Order) CustomerID() string {
	return o.customerID
}

// Lines returns a copy of the line snapshot.
func (o *Order) Lines() []Line {
	return slices.Clone(o.lines)
}

func (o *Order) Total() kernel.Money {
	return o.total
}

func (o *Order) Details() Details {
	return o.details
}

func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

func (o *Order) Status() Status {
	return o.status
}

// History returns a copy of the status history, oldest first.
func (o *Order) History() []HistoryEntry {
	return slices.Clone(o.history)
}

// LastHistoryEntry returns the entry that produced the current status.
func (o *Order) LastHistoryEntry() HistoryEntry {
	return o.history[len(o.history)-1]
}

// NextStatuses lists the statuses staff may move the order to.
func (o *Order) NextStatuses() []Status {
	return o.status.Successors()
}

// CreationEvent returns the none -> pending event for a freshly created order.
func (o *Order) CreationEvent() StatusEvent {
	first := o.history[0]
	return StatusEvent{
		OrderID:     o.id,
		OrderNumber: o.number,
		CustomerID:  o.customerID,
		From:        Unknown,
		To:          first.Status(),
		At:          first.ChangedAt(),
		Actor:       first.Actor(),
	}
}

// Transition moves the order to target on behalf of actor.
//
// Business rules:
//   - target must be a defined status, otherwise a validation error is returned
//   - target equal to the current status is an idempotent no-op: changed is false,
//     no history entry is written and no event is produced
//   - any other target must be a legal successor, otherwise *IllegalTransitionError
//     is returned and the order is unchanged
//
// Returns:
//   - event: the applied change (zero value when nothing changed)
//   - changed: whether status and history were modified
//   - error: validation or illegal transition error
func (o *Order) Transition(target Status, actor string, at time.Time) (StatusEvent, bool, error) {
	if err := target.Validate(); err != nil {
		return StatusEvent{}, false, err
	}

	actor = strings.TrimSpace(actor)
	if actor == "" {
		return StatusEvent{}, false, errs.NewValueIsRequiredError("actorId")
	}

	if target == o.status {
		return StatusEvent{}, false, nil
	}

	if err := o.status.CanTransitionTo(target); err != nil {
		return StatusEvent{}, false, err
	}

	entry := NewHistoryEntry(target, at, actor)
	event := StatusEvent{
		OrderID:     o.id,
		OrderNumber: o.number,
		CustomerID:  o.customerID,
		From:        o.status,
		To:          target,
		At:          entry.ChangedAt(),
		Actor:       actor,
	}

	o.history = append(o.history, entry)
	o.status = target
	return event, true, nil
}

// TransitionFrom is Transition guarded by the status the actor last saw.
// When the order already holds target the call is a no-op; otherwise the
// order must still be in expected, or *IllegalTransitionError is returned.
// Two actors that both saw the same status and picked different targets
// therefore never both change the order.
func (o *Order) TransitionFrom(expected, target Status, actor string, at time.Time) (StatusEvent, bool, error) {
	if err := errors.Join(expected.Validate(), target.Validate()); err != nil {
		return StatusEvent{}, false, err
	}

	if target != o.status && expected != o.status {
		return StatusEvent{}, false, NewIllegalTransitionError(o.status, target)
	}

	return o.Transition(target, actor, at)
}

func sumLines(lines []Line) (kernel.Money, error) {
	var total kernel.Money
	for _, l := range lines {
		lineTotal, err := l.Total()
		if err != nil {
			return 0, err
		}
		if total, err = total.Add(lineTotal); err != nil {
			return 0, err
		}
	}
	return total, nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setNumber(number Number) error {
	if err := number.Validate(); err != nil {
		return err
	}
	o.number = number
	return nil
}

func (o *Order) setCustomerID(customerID string) error {
	customerID = strings.TrimSpace(customerID)
	if customerID == "" {
		return errs.NewValueIsRequiredError("customerId")
	}
	o.customerID = customerID
	return nil
}

func (o *Order) setLines(lines []Line) error {
	if len(lines) == 0 {
		return errs.NewValueIsRequiredError("lines")
	}
	o.lines = slices.Clone(lines)
	return nil
}

func (o *Order) setDetails(details Details) error {
	if err := details.Validate(); err != nil {
		return err
	}
	o.details = details
	return nil
}
