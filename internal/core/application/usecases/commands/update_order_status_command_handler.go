package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"coffeeshop/internal/core/domain/model/kernel"
	"coffeeshop/internal/core/domain/model/order"
	"coffeeshop/internal/core/ports"
	"coffeeshop/internal/pkg/errs"
)

// UpdateOrderStatusCommandHandler applies the order state machine.
//
// Concurrent requests for the same order are serialised by the order lock and
// the row lock taken by GetForUpdate. The write itself is a compare-and-set on
// the previous status; if it still loses a race the order is reloaded once
// and the request re-evaluated against the fresh status.
//
// A request applies only while the order is still in the expected status, so
// of two requests made from the same status with different targets exactly
// one changes the order and the other gets an IllegalTransitionError. A
// request for the current status returns the order unchanged, writes no
// history and announces nothing.
type UpdateOrderStatusCommandHandler struct {
	uowFactory OrderUoWFactory
	locker     ports.Locker
	announcer  Announcer
	clock      kernel.Clock
	timeout    time.Duration
	logger     *slog.Logger
}

func NewUpdateOrderStatusCommandHandler(
	uowFactory OrderUoWFactory,
	locker ports.Locker,
	announcer Announcer,
	clock kernel.Clock,
	timeout time.Duration,
	logger *slog.Logger,
) UpdateOrderStatusCommandHandler {
	return UpdateOrderStatusCommandHandler{
		uowFactory: uowFactory,
		locker:     locker,
		announcer:  announcer,
		clock:      clock,
		timeout:    timeout,
		logger:     logger.With("component", "order_status"),
	}
}

// Handle returns the order as stored after the request.
// Errors:
//   - *errs.ObjectNotFoundError for an unknown order
//   - order.ErrIllegalTransition when the order left the expected status or
//     the target is not a legal successor
//   - ports.ErrStatusConflict when the retry also lost a race
//   - *errs.PersistenceError when storage fails
func (h UpdateOrderStatusCommandHandler) Handle(ctx context.Context, cmd UpdateOrderStatusCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	o, event, changed, err := h.transition(ctx, cmd)
	if errors.Is(err, ports.ErrStatusConflict) {
		h.logger.WarnContext(ctx, "status changed concurrently, retrying",
			"order_id", cmd.OrderID().String(),
			"expected", cmd.Expected().String(),
			"target", cmd.Target().String(),
		)
		o, event, changed, err = h.transition(ctx, cmd)
	}
	if err != nil {
		return nil, err
	}

	if changed {
		h.logger.InfoContext(ctx, "order status changed",
			"order_id", event.OrderID.String(),
			"order_number", event.OrderNumber.String(),
			"from", event.From.String(),
			"to", event.To.String(),
			"actor", event.Actor,
		)
		h.announcer.AnnounceStatus(ctx, event)
	}

	return o, nil
}

func (h UpdateOrderStatusCommandHandler) transition(
	ctx context.Context,
	cmd UpdateOrderStatusCommand,
) (*order.Order, order.StatusEvent, bool, error) {
	ctx, cancel := withTimeout(ctx, h.timeout)
	defer cancel()

	unlock, err := h.locker.Lock(ctx, ports.OrderLockKey(cmd.OrderID().String()))
	if err != nil {
		return nil, order.StatusEvent{}, false, errs.NewPersistenceError("lock order", err)
	}
	defer func() {
		_ = unlock(context.WithoutCancel(ctx))
	}()

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, order.StatusEvent{}, false, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return nil, order.StatusEvent{}, false, err
	}

	from := o.Status()
	event, changed, err := o.TransitionFrom(cmd.Expected(), cmd.Target(), cmd.ActorID(), h.clock.Now())
	if err != nil || !changed {
		return o, event, false, err
	}

	if err = orderRepo.UpdateStatus(ctx, o, from); err != nil {
		return nil, order.StatusEvent{}, false, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, order.StatusEvent{}, false, err
	}

	return o, event, true, nil
}
