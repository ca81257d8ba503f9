package ports

import (
	"context"
	"time"

	"coffeeshop/internal/core/domain/model/cart"
)

// CartRepository stores one cart per customer.
type CartRepository interface {
	// Get returns the customer's cart, or a new empty cart when none is stored.
	// It never creates a row.
	Get(ctx context.Context, customerID string) (*cart.Cart, error)

	// Save inserts or replaces the cart. An empty cart is deleted instead of stored.
	Save(ctx context.Context, c *cart.Cart) error

	// Delete removes the customer's cart. Deleting a missing cart is not an error.
	Delete(ctx context.Context, customerID string) error

	// DeleteUpdatedBefore removes carts untouched since cutoff and returns how many were removed.
	DeleteUpdatedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
