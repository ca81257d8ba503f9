package queries

import (
	"context"
	"errors"
	"strings"
	"time"

	"coffeeshop/internal/core/domain/model/catalog"
	"coffeeshop/internal/core/domain/model/kernel"
	"coffeeshop/internal/core/ports"
	"coffeeshop/internal/pkg/errs"
	"coffeeshop/internal/pkg/guard"
)

var ErrGetCartQueryIsNotConstructed = errors.New(
	"GetCartQuery must be created via NewGetCartQuery constructor",
)

type GetCartQuery struct {
	customerID string

	guard guard.ConstructorGuard
}

func NewGetCartQuery(customerID string) (GetCartQuery, error) {
	customerID = strings.TrimSpace(customerID)
	if customerID == "" {
		return GetCartQuery{}, errs.NewValueIsRequiredError("customerId")
	}

	return GetCartQuery{customerID: customerID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetCartQuery) Validate() error {
	return q.guard.Validate(ErrGetCartQueryIsNotConstructed)
}

// CartView is a cart priced against the current menu. Prices are indicative;
// the order snapshots them again at submission.
type CartView struct {
	CustomerID string
	Lines      []CartViewLine
	Total      kernel.Money
	UpdatedAt  time.Time
}

type CartViewLine struct {
	ItemID    string
	Name      string
	Size      string
	Addons    []string
	Quantity  int
	UnitPrice kernel.Money
	LineTotal kernel.Money
	// Available is false when the item left the menu; such lines are dropped on submit.
	Available bool
}

// GetCartQueryHandler never creates a cart; an unknown customer gets an empty view.
type GetCartQueryHandler struct {
	reader  CartReader
	catalog ports.Catalog
	timeout time.Duration
}

func NewGetCartQueryHandler(reader CartReader, catalog ports.Catalog, timeout time.Duration) GetCartQueryHandler {
	return GetCartQueryHandler{reader: reader, catalog: catalog, timeout: timeout}
}

func (h GetCartQueryHandler) Handle(ctx context.Context, query GetCartQuery) (CartView, error) {
	if err := query.Validate(); err != nil {
		return CartView{}, err
	}

	ctx, cancel := withTimeout(ctx, h.timeout)
	defer cancel()

	c, err := h.reader.Get(ctx, query.customerID)
	if err != nil {
		return CartView{}, err
	}

	view := CartView{
		CustomerID: c.CustomerID(),
		Lines:      make([]CartViewLine, 0, len(c.Lines())),
		UpdatedAt:  c.UpdatedAt(),
	}

	for _, l := range c.Lines() {
		line := CartViewLine{
			ItemID:   l.ItemID(),
			Name:     l.ItemID(),
			Size:     l.Size(),
			Addons:   l.Addons(),
			Quantity: l.Quantity(),
		}

		item, found, err := h.lookup(ctx, l.ItemID())
		if err != nil {
			return CartView{}, err
		}
		if found && !item.IsAddon() {
			if line, err = h.price(ctx, line, item); err != nil {
				return CartView{}, err
			}
			if view.Total, err = view.Total.Add(line.LineTotal); err != nil {
				return CartView{}, err
			}
		}

		view.Lines = append(view.Lines, line)
	}

	return view, nil
}

func (h GetCartQueryHandler) price(ctx context.Context, line CartViewLine, item catalog.Item) (CartViewLine, error) {
	unit := item.Price()
	for _, addonID := range line.Addons {
		addon, found, err := h.lookup(ctx, addonID)
		if err != nil {
			return line, err
		}
		if !found || !addon.IsAddon() {
			continue
		}
		if unit, err = unit.Add(addon.Price()); err != nil {
			return line, err
		}
	}

	total, err := unit.Multiply(line.Quantity)
	if err != nil {
		return line, err
	}

	line.Name = item.Name()
	line.UnitPrice = unit
	line.LineTotal = total
	line.Available = true
	return line, nil
}

func (h GetCartQueryHandler) lookup(ctx context.Context, id string) (catalog.Item, bool, error) {
	item, err := h.catalog.Item(ctx, id)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return catalog.Item{}, false, nil
	}
	if err != nil {
		return catalog.Item{}, false, err
	}
	return item, true, nil
}
