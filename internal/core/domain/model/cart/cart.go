// Package cart models the per-customer staging area that precedes an order.
package cart

import (
	"errors"
	"math"
	"slices"
	"strings"
	"time"

	"coffeeshop/internal/pkg/errs"
)

var (
	// ErrEmptyCart is returned when an order is submitted from a cart without
	// lines, or when every line was dropped during catalog resolution.
	ErrEmptyCart = errors.New("cart is empty")

	ErrCartIsNotConstructed = errors.New("Cart must be created via NewCart or RestoreCart")
)

// Cart is owned by exactly one customer and has no identity beyond that key.
// Lines keep insertion order for display.
type Cart struct {
	customerID string
	lines      []Line
	updatedAt  time.Time

	isConstructed bool
}

// NewCart returns an empty cart for customerID.
func NewCart(customerID string) (*Cart, error) {
	customerID = strings.TrimSpace(customerID)
	if customerID == "" {
		return nil, errs.NewValueIsRequiredError("customerId")
	}
	return &Cart{customerID: customerID, lines: make([]Line, 0), isConstructed: true}, nil
}

// RestoreCart rebuilds a cart from storage. Lines are re-merged so a corrupted
// row can never yield duplicate mergeable lines.
func RestoreCart(customerID string, lines []Line, updatedAt time.Time) (*Cart, error) {
	c, err := NewCart(customerID)
	if err != nil {
		return nil, err
	}
	for _, l := range lines {
		if l.quantity <= 0 {
			return nil, errs.NewValueIsOutOfRangeError("quantity", l.quantity, 1, math.MaxInt32)
		}
		c.merge(l)
	}
	c.updatedAt = updatedAt
	return c, nil
}

func (c *Cart) Validate() error {
	if c == nil || !c.isConstructed {
		return ErrCartIsNotConstructed
	}
	return nil
}

func (c *Cart) CustomerID() string {
	return c.customerID
}

func (c *Cart) UpdatedAt() time.Time {
	return c.updatedAt
}

// Lines returns a copy of the lines in insertion order.
func (c *Cart) Lines() []Line {
	return slices.Clone(c.lines)
}

func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// ItemCount is the sum of all line quantities.
func (c *Cart) ItemCount() int {
	n := 0
	for _, l := range c.lines {
		n += l.quantity
	}
	return n
}

// Add merges line into an existing mergeable line or appends it.
func (c *Cart) Add(line Line, at time.Time) {
	c.merge(line)
	c.updatedAt = at
}

// Remove takes line.Quantity() units away from the mergeable line, dropping it
// when nothing is left. Removing more than present removes the whole line.
func (c *Cart) Remove(line Line, at time.Time) error {
	idx := slices.IndexFunc(c.lines, line.Mergeable)
	if idx < 0 {
		return errs.NewObjectNotFoundError("cart line", line.Key())
	}

	left := c.lines[idx].quantity - line.quantity
	if left <= 0 {
		c.lines = slices.Delete(c.lines, idx, idx+1)
	} else {
		c.lines[idx] = c.lines[idx].withQuantity(left)
	}
	c.updatedAt = at
	return nil
}

// Clear drops every line.
func (c *Cart) Clear(at time.Time) {
	c.lines = c.lines[:0]
	c.updatedAt = at
}

func (c *Cart) merge(line Line) {
	if idx := slices.IndexFunc(c.lines, line.Mergeable); idx >= 0 {
		c.lines[idx] = c.lines[idx].withQuantity(c.lines[idx].quantity + line.quantity)
		return
	}
	c.lines = append(c.lines, line)
}
