package queries

import (
	"context"
	"time"

	"coffeeshop/internal/core/domain/model/order"
)

// ListCustomerOrdersQueryHandler returns a customer's orders as full
// aggregates: lines, addons, details and status history.
//
// Example:
//
//	handler := NewListCustomerOrdersQueryHandler(orderrepo.NewGormOrderRepository(db, nil), 5*time.Second)
//	query, _ := NewListCustomerOrdersQuery("42", 20, 0)
//
//	page, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return err
//	}
type ListCustomerOrdersQueryHandler struct {
	lister  OrderLister
	timeout time.Duration
}

func NewListCustomerOrdersQueryHandler(lister OrderLister, timeout time.Duration) ListCustomerOrdersQueryHandler {
	return ListCustomerOrdersQueryHandler{lister: lister, timeout: timeout}
}

// Handle returns at most query.Limit() orders, newest first. An empty page is
// an empty slice, never nil.
func (h ListCustomerOrdersQueryHandler) Handle(
	ctx context.Context,
	query ListCustomerOrdersQuery,
) ([]*order.Order, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := withTimeout(ctx, h.timeout)
	defer cancel()

	orders, err := h.lister.ListByCustomer(ctx, query.CustomerID(), query.Limit(), query.Offset())
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = make([]*order.Order, 0)
	}
	return orders, nil
}
