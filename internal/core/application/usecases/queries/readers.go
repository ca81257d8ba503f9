// Package queries contains read-only operations over committed state.
// Queries never take locks or open write transactions.
package queries

import (
	"context"
	"time"

	"coffeeshop/internal/core/domain/model/cart"
	"coffeeshop/internal/core/domain/model/kernel"
	"coffeeshop/internal/core/domain/model/order"
)

// OrderReader loads whole order aggregates outside of a unit of work.
type OrderReader interface {
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)
	GetByNumber(ctx context.Context, number order.Number) (*order.Order, error)
}

// OrderLister pages through a customer's orders, newest first.
type OrderLister interface {
	ListByCustomer(ctx context.Context, customerID string, limit, offset int) ([]*order.Order, error)
}

// CartReader loads a customer's cart; a missing cart is returned empty.
type CartReader interface {
	Get(ctx context.Context, customerID string) (*cart.Cart, error)
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
