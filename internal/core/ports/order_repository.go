// Package ports defines the contracts between the application core and its adapters.
// Adapters implement them; command and query handlers depend only on these interfaces.
package ports

import (
	"context"
	"errors"

	"coffeeshop/internal/core/domain/model/kernel"
	"coffeeshop/internal/core/domain/model/order"
)

// ErrStatusConflict is returned by OrderRepository.UpdateStatus when the stored
// status no longer equals the expected one (another transition won the race).
var ErrStatusConflict = errors.New("order status changed concurrently")

// ErrOrderNumberTaken is returned by OrderRepository.Add when another order
// committed the same number after it was checked with NumberExists.
var ErrOrderNumberTaken = errors.New("order number already taken")

// OrderRepository defines the persistence contract for order aggregates.
// Every storage failure is reported as *errs.PersistenceError.
type OrderRepository interface {
	// Add persists a new order with its lines and initial history. A number
	// already in use yields ErrOrderNumberTaken.
	Add(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order by id. Unknown ids yield *errs.ObjectNotFoundError.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetForUpdate is Get that also locks the order row until the transaction ends.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetByNumber retrieves an order by its human-facing number.
	GetByNumber(ctx context.Context, number order.Number) (*order.Order, error)

	// NumberExists reports whether an order already uses number.
	NumberExists(ctx context.Context, number order.Number) (bool, error)

	// UpdateStatus writes the aggregate's current status and appends its last
	// history entry, atomically, only if the stored status still equals expected.
	// It returns ErrStatusConflict otherwise.
	//
	// Example:
	//   from := o.Status()
	//   if _, changed, err := o.Transition(order.Ready, actor, now); err != nil || !changed {
	//       return err
	//   }
	//   err := repo.UpdateStatus(ctx, o, from)
	UpdateStatus(ctx context.Context, aggregate *order.Order, expected order.Status) error
}
