package cart

import (
	"errors"
	"math"
	"slices"
	"strings"

	"coffeeshop/internal/pkg/errs"
)

// Line is one cart entry. Two lines are mergeable when item, size and addon set
// are equal; addon order and duplicates never matter.
type Line struct {
	itemID   string
	size     string
	addons   []string
	quantity int
}

// NewLine normalises size (trimmed, lower case) and addons (trimmed, deduplicated,
// sorted) and validates that itemID is present and quantity is positive.
func NewLine(itemID, size string, addons []string, quantity int) (Line, error) {
	l := Line{
		itemID:   strings.TrimSpace(itemID),
		size:     strings.ToLower(strings.TrimSpace(size)),
		addons:   normalizeAddons(addons),
		quantity: quantity,
	}

	var idErr, qtyErr error
	if l.itemID == "" {
		idErr = errs.NewValueIsRequiredError("catalogItemId")
	}
	if quantity <= 0 {
		qtyErr = errs.NewValueIsOutOfRangeError("quantity", quantity, 1, math.MaxInt32)
	}
	if err := errors.Join(idErr, qtyErr); err != nil {
		return Line{}, err
	}

	return l, nil
}

func normalizeAddons(addons []string) []string {
	out := make([]string, 0, len(addons))
	for _, a := range addons {
		if a = strings.TrimSpace(a); a != "" {
			out = append(out, a)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

func (l Line) ItemID() string {
	return l.itemID
}

func (l Line) Size() string {
	return l.size
}

// Addons returns a sorted copy of the addon ids.
func (l Line) Addons() []string {
	return slices.Clone(l.addons)
}

func (l Line) Quantity() int {
	return l.quantity
}

// Key is the merge identity of the line.
func (l Line) Key() string {
	return l.itemID + "|" + l.size + "|" + strings.Join(l.addons, ",")
}

func (l Line) Mergeable(other Line) bool {
	return l.itemID == other.itemID && l.size == other.size && slices.Equal(l.addons, other.addons)
}

func (l Line) withQuantity(q int) Line {
	l.quantity = q
	return l
}
