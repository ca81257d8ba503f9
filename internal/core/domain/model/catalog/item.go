// Package catalog models the read-only menu. Items are immutable value objects;
// orders copy name and price at submission so later menu edits never change a placed order.
package catalog

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"coffeeshop/internal/core/domain/model/kernel"
	"coffeeshop/internal/pkg/errs"
	"coffeeshop/internal/pkg/guard"
)

var ErrItemIsNotConstructed = errors.New("Item must be created via NewItem constructor")

// Category groups menu items. Addon items are never ordered on their own; they
// are attached to a cart line and priced into its unit price.
type Category string

const (
	Coffee  Category = "coffee"
	Tea     Category = "tea"
	Food    Category = "food"
	Dessert Category = "dessert"
	Addon   Category = "addon"
)

func (c Category) Validate() error {
	switch c {
	case Coffee, Tea, Food, Dessert, Addon:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("category", fmt.Errorf("%q is not a known category", string(c)))
	}
}

// Item is one menu entry.
type Item struct {
	id       string
	name     string
	price    kernel.Money
	category Category

	guard guard.ConstructorGuard
}

func NewItem(id, name string, price kernel.Money, category Category) (Item, error) {
	item := Item{
		id:       strings.TrimSpace(id),
		name:     strings.TrimSpace(name),
		price:    price,
		category: category,
		guard:    guard.NewConstructorGuard(),
	}

	var idErr, nameErr, priceErr error
	if item.id == "" {
		idErr = errs.NewValueIsRequiredError("item id")
	}
	if item.name == "" {
		nameErr = errs.NewValueIsRequiredError("item name")
	}
	if price < 0 {
		priceErr = errs.NewValueIsOutOfRangeError("price", int64(price), 0, int64(math.MaxInt64))
	}

	if err := errors.Join(idErr, nameErr, priceErr, category.Validate()); err != nil {
		return Item{}, err
	}
	return item, nil
}

func (i Item) Validate() error {
	return i.guard.Validate(ErrItemIsNotConstructed)
}

func (i Item) ID() string {
	return i.id
}

func (i Item) Name() string {
	return i.name
}

func (i Item) Price() kernel.Money {
	return i.price
}

func (i Item) Category() Category {
	return i.category
}

// IsAddon reports whether the item may only be attached to another line.
func (i Item) IsAddon() bool {
	return i.category == Addon
}
