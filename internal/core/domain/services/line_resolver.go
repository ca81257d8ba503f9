package services

import (
	"fmt"

	"coffeeshop/internal/core/domain/model/cart"
	"coffeeshop/internal/core/domain/model/catalog"
	"coffeeshop/internal/core/domain/model/order"
)

// Warning describes a cart entry that was dropped during resolution.
type Warning struct {
	ItemID  string
	AddonID string
	Reason  string
}

func (w Warning) String() string {
	if w.AddonID != "" {
		return fmt.Sprintf("addon %s on %s: %s", w.AddonID, w.ItemID, w.Reason)
	}
	return fmt.Sprintf("item %s: %s", w.ItemID, w.Reason)
}

// LineResolver is a domain service that turns cart lines into priced order line
// snapshots using catalog items the caller already loaded.
//
// Business rules:
//   - A line whose item is unknown, or is itself an addon, is dropped with a warning
//   - An unknown addon, or an addon id that is not in the addon category, is
//     dropped from its line with a warning; the line survives
//   - Unit price is the item price plus the price of every kept addon
//   - Name and prices are copied, so later menu changes never reach placed orders
//
// Example usage:
//
//	resolver := services.NewLineResolver()
//	lines, warnings, err := resolver.Resolve(c.Lines(), itemsByID)
//	if len(lines) == 0 {
//	    return cart.ErrEmptyCart
//	}
type LineResolver struct{}

func NewLineResolver() LineResolver {
	return LineResolver{}
}

// Resolve prices lines against items. It returns an error only when a price
// computation overflows; dropped entries are reported as warnings.
func (LineResolver) Resolve(lines []cart.Line, items map[string]catalog.Item) ([]order.Line, []Warning, error) {
	resolved := make([]order.Line, 0, len(lines))
	var warnings []Warning

	for _, l := range lines {
		item, ok := items[l.ItemID()]
		if !ok {
			warnings = append(warnings, Warning{ItemID: l.ItemID(), Reason: "not in catalog"})
			continue
		}
		if item.IsAddon() {
			warnings = append(warnings, Warning{ItemID: l.ItemID(), Reason: "addons cannot be ordered alone"})
			continue
		}

		unitPrice := item.Price()
		addons := make([]order.Addon, 0, len(l.Addons()))
		for _, addonID := range l.Addons() {
			addon, found := items[addonID]
			switch {
			case !found:
				warnings = append(warnings, Warning{ItemID: l.ItemID(), AddonID: addonID, Reason: "not in catalog"})
				continue
			case !addon.IsAddon():
				warnings = append(warnings, Warning{ItemID: l.ItemID(), AddonID: addonID, Reason: "not an addon"})
				continue
			}

			var err error
			if unitPrice, err = unitPrice.Add(addon.Price()); err != nil {
				return nil, nil, err
			}
			addons = append(addons, order.Addon{ID: addon.ID(), Name: addon.Name(), Price: addon.Price()})
		}

		line, err := order.NewLine(item.ID(), item.Name(), unitPrice, l.Quantity(), l.Size(), addons)
		if err != nil {
			return nil, nil, err
		}
		resolved = append(resolved, line)
	}

	return resolved, warnings, nil
}

// ReferencedIDs lists every item and addon id used by lines, without duplicates.
func ReferencedIDs(lines []cart.Line) []string {
	seen := make(map[string]struct{})
	ids := make([]string, 0, len(lines))
	add := func(id string) {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	for _, l := range lines {
		add(l.ItemID())
		for _, a := range l.Addons() {
			add(a)
		}
	}
	return ids
}
