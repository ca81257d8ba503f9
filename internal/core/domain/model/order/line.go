package order

import (
	"errors"
	"math"
	"slices"

	"coffeeshop/internal/core/domain/model/kernel"
	"coffeeshop/internal/pkg/errs"
)

// Addon is the snapshot of an addon attached to a line.
type Addon struct {
	ID    string
	Name  string
	Price kernel.Money
}

// Line is an immutable snapshot of one resolved cart line. UnitPrice already
// includes the addon prices, so Total is simply UnitPrice × Quantity.
type Line struct {
	itemID    string
	name      string
	unitPrice kernel.Money
	quantity  int
	size      string
	addons    []Addon
}

func NewLine(itemID, name string, unitPrice kernel.Money, quantity int, size string, addons []Addon) (Line, error) {
	var idErr, nameErr, priceErr, qtyErr error
	if itemID == "" {
		idErr = errs.NewValueIsRequiredError("catalogItemId")
	}
	if name == "" {
		nameErr = errs.NewValueIsRequiredError("name")
	}
	if unitPrice < 0 {
		priceErr = errs.NewValueIsOutOfRangeError("unitPrice", int64(unitPrice), 0, int64(math.MaxInt64))
	}
	if quantity <= 0 {
		qtyErr = errs.NewValueIsOutOfRangeError("quantity", quantity, 1, math.MaxInt32)
	}
	if err := errors.Join(idErr, nameErr, priceErr, qtyErr); err != nil {
		return Line{}, err
	}

	return Line{
		itemID:    itemID,
		name:      name,
		unitPrice: unitPrice,
		quantity:  quantity,
		size:      size,
		addons:    slices.Clone(addons),
	}, nil
}

func (l Line) ItemID() string {
	return l.itemID
}

func (l Line) Name() string {
	return l.name
}

func (l Line) UnitPrice() kernel.Money {
	return l.unitPrice
}

func (l Line) Quantity() int {
	return l.quantity
}

func (l Line) Size() string {
	return l.size
}

func (l Line) Addons() []Addon {
	return slices.Clone(l.addons)
}

// Total returns UnitPrice × Quantity.
func (l Line) Total() (kernel.Money, error) {
	return l.unitPrice.Multiply(l.quantity)
}
