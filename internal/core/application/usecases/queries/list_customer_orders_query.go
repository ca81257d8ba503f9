package queries

import (
	"errors"
	"strings"

	"coffeeshop/internal/pkg/errs"
	"coffeeshop/internal/pkg/guard"
)

const (
	DefaultListLimit = 10
	MaxListLimit     = 100
)

var ErrListCustomerOrdersQueryIsNotConstructed = errors.New(
	"ListCustomerOrdersQuery must be created via NewListCustomerOrdersQuery constructor",
)

// ListCustomerOrdersQuery pages through a customer's order history, newest first.
// A zero limit means DefaultListLimit; larger limits are capped at MaxListLimit.
//
// Example:
//
//	query, err := NewListCustomerOrdersQuery("42", 0, 0)
//	if err != nil {
//	    return err
//	}
//	page, err := handler.Handle(ctx, query)
//	for _, o := range page {
//	    fmt.Printf("%s %s %s\n", o.Number(), o.Status(), o.Total())
//	}
type ListCustomerOrdersQuery struct {
	customerID string
	limit      int
	offset     int

	guard guard.ConstructorGuard
}

func NewListCustomerOrdersQuery(customerID string, limit, offset int) (ListCustomerOrdersQuery, error) {
	var idErr, limitErr, offsetErr error

	customerID = strings.TrimSpace(customerID)
	if customerID == "" {
		idErr = errs.NewValueIsRequiredError("customerId")
	}

	switch {
	case limit < 0:
		limitErr = errs.NewValueIsOutOfRangeError("limit", limit, 0, MaxListLimit)
	case limit == 0:
		limit = DefaultListLimit
	case limit > MaxListLimit:
		limit = MaxListLimit
	}

	if offset < 0 {
		offsetErr = errs.NewValueIsOutOfRangeError("offset", offset, 0, "unbounded")
	}

	if err := errors.Join(idErr, limitErr, offsetErr); err != nil {
		return ListCustomerOrdersQuery{}, err
	}

	return ListCustomerOrdersQuery{
		customerID: customerID,
		limit:      limit,
		offset:     offset,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (q ListCustomerOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListCustomerOrdersQueryIsNotConstructed)
}

func (q ListCustomerOrdersQuery) CustomerID() string {
	return q.customerID
}

func (q ListCustomerOrdersQuery) Limit() int {
	return q.limit
}

func (q ListCustomerOrdersQuery) Offset() int {
	return q.offset
}
