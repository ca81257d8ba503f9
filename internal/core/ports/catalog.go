package ports

import (
	"context"

	"coffeeshop/internal/core/domain/model/catalog"
)

// Catalog is the read-only menu lookup.
type Catalog interface {
	// Item returns the item with id, or *errs.ObjectNotFoundError when it is not on the menu.
	Item(ctx context.Context, id string) (catalog.Item, error)

	// Items returns the whole menu in display order.
	Items(ctx context.Context) ([]catalog.Item, error)
}
