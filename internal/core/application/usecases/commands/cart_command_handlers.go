package commands

import (
	"context"
	"time"

	"coffeeshop/internal/core/domain/model/cart"
	"coffeeshop/internal/core/domain/model/kernel"
	"coffeeshop/internal/core/ports"
	"coffeeshop/internal/pkg/errs"
)

// cartMutator runs one cart change under the customer's cart lock and a
// transaction. Concurrent mutations of the same cart are serialised, so no
// update is lost.
type cartMutator struct {
	uowFactory CartUoWFactory
	locker     ports.Locker
	clock      kernel.Clock
	timeout    time.Duration
}

func (m cartMutator) mutate(
	ctx context.Context,
	customerID string,
	change func(c *cart.Cart, at time.Time) error,
) (*cart.Cart, error) {
	ctx, cancel := withTimeout(ctx, m.timeout)
	defer cancel()

	unlock, err := m.locker.Lock(ctx, ports.CartLockKey(customerID))
	if err != nil {
		return nil, errs.NewPersistenceError("lock cart", err)
	}
	defer func() {
		_ = unlock(context.WithoutCancel(ctx))
	}()

	uow := m.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	cartRepo := uow.CartRepository()
	c, err := cartRepo.Get(ctx, customerID)
	if err != nil {
		return nil, err
	}

	if err = change(c, m.clock.Now()); err != nil {
		return nil, err
	}

	if err = cartRepo.Save(ctx, c); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return c, nil
}

// AddCartItemCommandHandler merges an entry into the customer's cart and
// returns the updated cart.
//
// Example:
//
//	handler := NewAddCartItemCommandHandler(uowFactory, locker, kernel.SystemClock{}, 5*time.Second)
//	c, err := handler.Handle(ctx, cmd)
type AddCartItemCommandHandler struct {
	cartMutator
}

func NewAddCartItemCommandHandler(
	uowFactory CartUoWFactory,
	locker ports.Locker,
	clock kernel.Clock,
	timeout time.Duration,
) AddCartItemCommandHandler {
	return AddCartItemCommandHandler{
		cartMutator{uowFactory: uowFactory, locker: locker, clock: clock, timeout: timeout},
	}
}

func (h AddCartItemCommandHandler) Handle(ctx context.Context, cmd AddCartItemCommand) (*cart.Cart, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return h.mutate(ctx, cmd.CustomerID(), func(c *cart.Cart, at time.Time) error {
		c.Add(cmd.Line(), at)
		return nil
	})
}

// RemoveCartItemCommandHandler decrements an entry. Removing an entry that is
// not in the cart yields *errs.ObjectNotFoundError.
type RemoveCartItemCommandHandler struct {
	cartMutator
}

func NewRemoveCartItemCommandHandler(
	uowFactory CartUoWFactory,
	locker ports.Locker,
	clock kernel.Clock,
	timeout time.Duration,
) RemoveCartItemCommandHandler {
	return RemoveCartItemCommandHandler{
		cartMutator{uowFactory: uowFactory, locker: locker, clock: clock, timeout: timeout},
	}
}

func (h RemoveCartItemCommandHandler) Handle(ctx context.Context, cmd RemoveCartItemCommand) (*cart.Cart, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return h.mutate(ctx, cmd.CustomerID(), func(c *cart.Cart, at time.Time) error {
		return c.Remove(cmd.Line(), at)
	})
}

// ClearCartCommandHandler empties the cart. Clearing an empty cart succeeds.
type ClearCartCommandHandler struct {
	cartMutator
}

func NewClearCartCommandHandler(
	uowFactory CartUoWFactory,
	locker ports.Locker,
	clock kernel.Clock,
	timeout time.Duration,
) ClearCartCommandHandler {
	return ClearCartCommandHandler{
		cartMutator{uowFactory: uowFactory, locker: locker, clock: clock, timeout: timeout},
	}
}

func (h ClearCartCommandHandler) Handle(ctx context.Context, cmd ClearCartCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	_, err := h.mutate(ctx, cmd.CustomerID(), func(c *cart.Cart, at time.Time) error {
		c.Clear(at)
		return nil
	})
	return err
}
