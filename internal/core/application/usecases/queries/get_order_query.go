package queries

import (
	"context"
	"errors"
	"time"

	"coffeeshop/internal/core/domain/model/kernel"
	"coffeeshop/internal/core/domain/model/order"
	"coffeeshop/internal/pkg/guard"
)

var (
	ErrGetOrderQueryIsNotConstructed = errors.New(
		"GetOrderQuery must be created via NewGetOrderQuery or NewGetOrderByNumberQuery constructor",
	)
	errLookupKeyIsMissing = errors.New("either order id or order number is required")
)

// GetOrderQuery looks an order up either by id or by its human-facing number.
//
// Example:
//
//	query, err := NewGetOrderByNumberQuery("ord123456")
//	if err != nil {
//	    return fmt.Errorf("invalid order number: %w", err)
//	}
//	o, err := handler.Handle(ctx, query)
type GetOrderQuery struct {
	orderID *kernel.UUID
	number  order.Number

	guard guard.ConstructorGuard
}

func NewGetOrderQuery(orderID kernel.UUID) (GetOrderQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderQuery{}, err
	}

	return GetOrderQuery{orderID: &orderID, guard: guard.NewConstructorGuard()}, nil
}

// NewGetOrderByNumberQuery accepts the number in any letter case.
func NewGetOrderByNumberQuery(number string) (GetOrderQuery, error) {
	n, err := order.ParseNumber(number)
	if err != nil {
		return GetOrderQuery{}, err
	}

	return GetOrderQuery{number: n, guard: guard.NewConstructorGuard()}, nil
}

func (q GetOrderQuery) Validate() error {
	if err := q.guard.Validate(ErrGetOrderQueryIsNotConstructed); err != nil {
		return err
	}
	if q.orderID == nil && q.number == "" {
		return errLookupKeyIsMissing
	}
	return nil
}

// GetOrderQueryHandler returns the full aggregate: lines, total, details and history.
// Unknown orders yield *errs.ObjectNotFoundError.
type GetOrderQueryHandler struct {
	reader  OrderReader
	timeout time.Duration
}

func NewGetOrderQueryHandler(reader OrderReader, timeout time.Duration) GetOrderQueryHandler {
	return GetOrderQueryHandler{reader: reader, timeout: timeout}
}

func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (*order.Order, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := withTimeout(ctx, h.timeout)
	defer cancel()

	if query.orderID != nil {
		return h.reader.Get(ctx, *query.orderID)
	}
	return h.reader.GetByNumber(ctx, query.number)
}
