package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"coffeeshop/internal/core/domain/model/cart"
	"coffeeshop/internal/core/domain/model/catalog"
	"coffeeshop/internal/core/domain/model/kernel"
	"coffeeshop/internal/core/domain/model/order"
	"coffeeshop/internal/core/domain/services"
	"coffeeshop/internal/core/ports"
	"coffeeshop/internal/pkg/errs"
)

// MaxNumberAttempts bounds order number generation per submission, counting
// both numbers found taken up front and numbers lost to a concurrent insert.
const MaxNumberAttempts = 5

// ErrOrderNumberExhausted is returned when every generated number was taken.
var ErrOrderNumberExhausted = errors.New("could not allocate a free order number")

// SubmitOrderCommandHandler is the order factory. In one transaction it reads
// the cart, snapshots catalog prices into order lines, allocates a unique
// number, stores the order and clears the cart. When a concurrent submission
// commits the same number first, the transaction is rolled back and run again
// with a fresh number. Notifications are scheduled only after commit and never
// delay or fail the submission.
//
// Example:
//
//	handler := NewSubmitOrderCommandHandler(uowFactory, menu, locker, dispatcher,
//	    kernel.SystemClock{}, 5*time.Second, logger)
//	o, err := handler.Handle(ctx, cmd)
//	if errors.Is(err, cart.ErrEmptyCart) {
//	    // nothing to order
//	}
type SubmitOrderCommandHandler struct {
	uowFactory UoWFactory
	catalog    ports.Catalog
	locker     ports.Locker
	announcer  Announcer
	clock      kernel.Clock
	numbers    func() order.Number
	timeout    time.Duration
	logger     *slog.Logger
}

func NewSubmitOrderCommandHandler(
	uowFactory UoWFactory,
	catalog ports.Catalog,
	locker ports.Locker,
	announcer Announcer,
	clock kernel.Clock,
	timeout time.Duration,
	logger *slog.Logger,
) SubmitOrderCommandHandler {
	return SubmitOrderCommandHandler{
		uowFactory: uowFactory,
		catalog:    catalog,
		locker:     locker,
		announcer:  announcer,
		clock:      clock,
		numbers:    order.GenerateNumber,
		timeout:    timeout,
		logger:     logger.With("component", "submit_order"),
	}
}

// WithNumberGenerator returns a copy of the handler that draws order numbers from gen.
func (h SubmitOrderCommandHandler) WithNumberGenerator(gen func() order.Number) SubmitOrderCommandHandler {
	h.numbers = gen
	return h
}

// Handle submits the customer's cart. Validation failures leave the cart intact.
// Errors:
//   - cart.ErrEmptyCart when the cart has no lines or none survive resolution
//   - validation errors from order details (see errs.IsValidation)
//   - ErrOrderNumberExhausted after MaxNumberAttempts collisions
//   - *errs.PersistenceError when storage fails
func (h SubmitOrderCommandHandler) Handle(ctx context.Context, cmd SubmitOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	now := h.clock.Now()
	details, err := order.NewDetails(
		cmd.OrderType(),
		cmd.ScheduledTime(),
		cmd.DeliveryAddress(),
		cmd.Notes(),
		cmd.PaymentMethod(),
		now,
	)
	if err != nil {
		return nil, err
	}

	o, err := h.submit(ctx, cmd.CustomerID(), details, now)
	if err != nil {
		return nil, err
	}

	h.logger.InfoContext(ctx, "order submitted",
		"order_id", o.ID().String(),
		"order_number", o.Number().String(),
		"customer_id", o.CustomerID(),
		"total", o.Total().String(),
	)
	h.announcer.AnnounceCreation(ctx, o)

	return o, nil
}

func (h SubmitOrderCommandHandler) submit(
	ctx context.Context,
	customerID string,
	details order.Details,
	now time.Time,
) (*order.Order, error) {
	ctx, cancel := withTimeout(ctx, h.timeout)
	defer cancel()

	unlock, err := h.locker.Lock(ctx, ports.CartLockKey(customerID))
	if err != nil {
		return nil, errs.NewPersistenceError("lock cart", err)
	}
	defer func() {
		_ = unlock(context.WithoutCancel(ctx))
	}()

	attemptsLeft := MaxNumberAttempts
	for {
		o, err := h.submitOnce(ctx, customerID, details, now, &attemptsLeft)
		if !errors.Is(err, ports.ErrOrderNumberTaken) {
			return o, err
		}
		if attemptsLeft == 0 {
			return nil, ErrOrderNumberExhausted
		}
		h.logger.WarnContext(ctx, "order number taken concurrently, retrying",
			"customer_id", customerID,
			"error", err,
		)
	}
}

func (h SubmitOrderCommandHandler) submitOnce(
	ctx context.Context,
	customerID string,
	details order.Details,
	now time.Time,
	attemptsLeft *int,
) (*order.Order, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	cartRepo := uow.CartRepository()
	orderRepo := uow.OrderRepository()

	c, err := cartRepo.Get(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if c.IsEmpty() {
		return nil, cart.ErrEmptyCart
	}

	lines, err := h.resolveLines(ctx, c)
	if err != nil {
		return nil, err
	}

	number, err := h.allocateNumber(ctx, orderRepo, attemptsLeft)
	if err != nil {
		return nil, err
	}

	o, err := order.NewOrder(kernel.NewUUID(), number, customerID, lines, details, now)
	if err != nil {
		return nil, err
	}

	if err = orderRepo.Add(ctx, o); err != nil {
		return nil, err
	}

	if err = cartRepo.Delete(ctx, customerID); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return o, nil
}

func (h SubmitOrderCommandHandler) resolveLines(ctx context.Context, c *cart.Cart) ([]order.Line, error) {
	items := make(map[string]catalog.Item)
	for _, id := range services.ReferencedIDs(c.Lines()) {
		item, err := h.catalog.Item(ctx, id)
		if errors.Is(err, errs.ErrObjectNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		items[id] = item
	}

	lines, warnings, err := services.NewLineResolver().Resolve(c.Lines(), items)
	if err != nil {
		return nil, err
	}

	for _, w := range warnings {
		h.logger.WarnContext(ctx, "cart entry dropped",
			"customer_id", c.CustomerID(),
			"warning", w.String(),
		)
	}

	if len(lines) == 0 {
		return nil, cart.ErrEmptyCart
	}
	return lines, nil
}

// allocateNumber draws numbers until a free one is found, spending one of
// attemptsLeft per draw.
func (h SubmitOrderCommandHandler) allocateNumber(
	ctx context.Context,
	repo ports.OrderRepository,
	attemptsLeft *int,
) (order.Number, error) {
	for *attemptsLeft > 0 {
		*attemptsLeft--
		number := h.numbers()
		taken, err := repo.NumberExists(ctx, number)
		if err != nil {
			return "", err
		}
		if !taken {
			return number, nil
		}
	}
	return "", ErrOrderNumberExhausted
}
