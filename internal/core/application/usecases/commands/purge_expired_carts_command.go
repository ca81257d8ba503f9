package commands

import (
	"context"
	"errors"
	"time"

	"coffeeshop/internal/core/domain/model/kernel"
	"coffeeshop/internal/pkg/errs"
	"coffeeshop/internal/pkg/guard"
)

var ErrPurgeExpiredCartsCommandIsNotConstructed = errors.New(
	"PurgeExpiredCartsCommand must be created via NewPurgeExpiredCartsCommand constructor",
)

// PurgeExpiredCartsCommand removes carts nobody touched for longer than ttl.
type PurgeExpiredCartsCommand struct {
	ttl time.Duration

	guard guard.ConstructorGuard
}

func NewPurgeExpiredCartsCommand(ttl time.Duration) (PurgeExpiredCartsCommand, error) {
	if ttl <= 0 {
		return PurgeExpiredCartsCommand{}, errs.NewValueIsOutOfRangeError("ttl", ttl, time.Nanosecond, "unbounded")
	}

	return PurgeExpiredCartsCommand{
		ttl:   ttl,
		guard: guard.NewConstructorGuard(),
	}, nil
}

func (c PurgeExpiredCartsCommand) Validate() error {
	return c.guard.Validate(ErrPurgeExpiredCartsCommandIsNotConstructed)
}

func (c PurgeExpiredCartsCommand) TTL() time.Duration {
	return c.ttl
}

// PurgeExpiredCartsCommandHandler deletes expired carts and reports how many went away.
type PurgeExpiredCartsCommandHandler struct {
	uowFactory CartUoWFactory
	clock      kernel.Clock
}

func NewPurgeExpiredCartsCommandHandler(uowFactory CartUoWFactory, clock kernel.Clock) PurgeExpiredCartsCommandHandler {
	return PurgeExpiredCartsCommandHandler{
		uowFactory: uowFactory,
		clock:      clock,
	}
}

func (h PurgeExpiredCartsCommandHandler) Handle(ctx context.Context, cmd PurgeExpiredCartsCommand) (int64, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	removed, err := uow.CartRepository().DeleteUpdatedBefore(ctx, h.clock.Now().Add(-cmd.TTL()))
	if err != nil {
		return 0, err
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}

	return removed, nil
}
