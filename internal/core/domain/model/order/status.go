package order

import (
	"errors"
	"fmt"
	"strings"

	"coffeeshop/internal/pkg/errs"
)

// ErrIllegalTransition is matched by every IllegalTransitionError.
var ErrIllegalTransition = errors.New("illegal status transition")

// IllegalTransitionError is returned when the target status is not a legal
// successor of the current one. The order is left unchanged.
type IllegalTransitionError struct {
	From Status
	To   Status
}

func NewIllegalTransitionError(from, to Status) *IllegalTransitionError {
	return &IllegalTransitionError{From: from, To: to}
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("%s: %s -> %s", ErrIllegalTransition, e.From, e.To)
}

func (e *IllegalTransitionError) Unwrap() error {
	return ErrIllegalTransition
}

// Status represents the preparation state of an order.
//
// State transitions:
//
//	Pending ──> Confirmed ──> Preparing ──> Ready ──> Completed
//	   │            │             │           │
//	   └────────────┴─────────────┴───────────┴──────> Cancelled
//
// Completed and Cancelled are terminal. A transition to the current status is
// not a transition at all; Order.Transition treats it as an idempotent no-op.
type Status int

const (
	// Unknown represents an invalid or undefined status. It also stands for
	// "no previous status" in the creation event.
	Unknown Status = iota

	// Pending is the initial status of every submitted order.
	Pending

	// Confirmed means staff accepted the order.
	Confirmed

	// Preparing means the order is being made.
	Preparing

	// Ready means the order can be picked up or served.
	Ready

	// Completed is terminal: the customer received the order.
	Completed

	// Cancelled is terminal and reachable from every non-terminal status.
	Cancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "unknown",
		Pending:   "pending",
		Confirmed: "confirmed",
		Preparing: "preparing",
		Ready:     "ready",
		Completed: "completed",
		Cancelled: "cancelled",
	}
}

// getSuccessors returns the legal next statuses, in display order.
func getSuccessors() map[Status][]Status {
	return map[Status][]Status{
		Pending:   {Confirmed, Cancelled},
		Confirmed: {Preparing, Cancelled},
		Preparing: {Ready, Cancelled},
		Ready:     {Completed, Cancelled},
		Completed: {},
		Cancelled: {},
	}
}

// ParseStatus converts the persisted or wire name back to a Status.
func ParseStatus(s string) (Status, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for st, str := range getStatusStrings() {
		if st != Unknown && str == name {
			return st, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", s))
}

// Validate checks that s is one of the defined states. Unknown is invalid.
func (s Status) Validate() error {
	if _, ok := getSuccessors()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the lower-case name used in storage, events and the API.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsTerminal reports whether no further transitions are accepted.
func (s Status) IsTerminal() bool {
	return s == Completed || s == Cancelled
}

// Successors returns the statuses s may move to. Terminal and invalid statuses have none.
func (s Status) Successors() []Status {
	next := getSuccessors()[s]
	out := make([]Status, len(next))
	copy(out, next)
	return out
}

// CanTransitionTo returns nil when target is a legal successor of s, a validation
// error when target itself is not a status, and IllegalTransitionError otherwise.
// It does not special-case target == s; callers decide whether that is a no-op.
func (s Status) CanTransitionTo(target Status) error {
	if err := target.Validate(); err != nil {
		return err
	}
	for _, next := range getSuccessors()[s] {
		if next == target {
			return nil
		}
	}
	return NewIllegalTransitionError(s, target)
}
