package http

import (
	"context"
	"errors"
	"net/http"

	"coffeeshop/internal/core/application/usecases/commands"
	"coffeeshop/internal/core/application/usecases/queries"
	"coffeeshop/internal/core/domain/model/cart"
	"coffeeshop/internal/core/domain/model/kernel"
	"coffeeshop/internal/core/domain/model/order"
	"coffeeshop/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

type AddCartItemHandler interface {
	Handle(ctx context.Context, cmd commands.AddCartItemCommand) (*cart.Cart, error)
}

type RemoveCartItemHandler interface {
	Handle(ctx context.Context, cmd commands.RemoveCartItemCommand) (*cart.Cart, error)
}

type ClearCartHandler interface {
	Handle(ctx context.Context, cmd commands.ClearCartCommand) error
}

type SubmitOrderHandler interface {
	Handle(ctx context.Context, cmd commands.SubmitOrderCommand) (*order.Order, error)
}

type UpdateOrderStatusHandler interface {
	Handle(ctx context.Context, cmd commands.UpdateOrderStatusCommand) (*order.Order, error)
}

type GetCartHandler interface {
	Handle(ctx context.Context, query queries.GetCartQuery) (queries.CartView, error)
}

type GetOrderHandler interface {
	Handle(ctx context.Context, query queries.GetOrderQuery) (*order.Order, error)
}

type ListCustomerOrdersHandler interface {
	Handle(ctx context.Context, query queries.ListCustomerOrdersQuery) ([]*order.Order, error)
}

// Handlers groups the use cases the API exposes.
type Handlers struct {
	// Command handlers
	AddCartItem       AddCartItemHandler
	RemoveCartItem    RemoveCartItemHandler
	ClearCart         ClearCartHandler
	SubmitOrder       SubmitOrderHandler
	UpdateOrderStatus UpdateOrderStatusHandler

	// Query handlers
	GetCart            GetCartHandler
	GetOrder           GetOrderHandler
	ListCustomerOrders ListCustomerOrdersHandler
}

// Server implements ServerInterface by translating requests into commands and
// queries and their results into response bodies.
type Server struct {
	h Handlers
}

func NewServer(h Handlers) *Server {
	return &Server{h: h}
}

// GetCart handles GET /api/v1/customers/{customerId}/cart.
func (s *Server) GetCart(ctx echo.Context, customerID string) error {
	return s.respondCart(ctx, http.StatusOK, customerID)
}

// ClearCart handles DELETE /api/v1/customers/{customerId}/cart.
func (s *Server) ClearCart(ctx echo.Context, customerID string) error {
	cmd, err := commands.NewClearCartCommand(customerID)
	if err != nil {
		return errorResponse(ctx, err)
	}
	if err = s.h.ClearCart.Handle(ctx.Request().Context(), cmd); err != nil {
		return errorResponse(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// AddCartItem handles POST /api/v1/customers/{customerId}/cart/items.
func (s *Server) AddCartItem(ctx echo.Context, customerID string) error {
	var body CartItemRequest
	if err := ctx.Bind(&body); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{Code: http.StatusBadRequest, Message: "Invalid request body"})
	}

	cmd, err := commands.NewAddCartItemCommand(customerID, body.ItemID, body.Size, body.Addons, quantityOrOne(body.Quantity))
	if err != nil {
		return errorResponse(ctx, err)
	}
	if _, err = s.h.AddCartItem.Handle(ctx.Request().Context(), cmd); err != nil {
		return errorResponse(ctx, err)
	}
	return s.respondCart(ctx, http.StatusOK, customerID)
}

// RemoveCartItem handles DELETE /api/v1/customers/{customerId}/cart/items.
func (s *Server) RemoveCartItem(ctx echo.Context, customerID string, params RemoveCartItemParams) error {
	var size string
	if params.Size != nil {
		size = *params.Size
	}
	var addons []string
	if params.Addons != nil {
		addons = *params.Addons
	}

	cmd, err := commands.NewRemoveCartItemCommand(customerID, params.ItemID, size, addons, quantityOrOne(params.Quantity))
	if err != nil {
		return errorResponse(ctx, err)
	}
	if _, err = s.h.RemoveCartItem.Handle(ctx.Request().Context(), cmd); err != nil {
		return errorResponse(ctx, err)
	}
	return s.respondCart(ctx, http.StatusOK, customerID)
}

// SubmitOrder handles POST /api/v1/customers/{customerId}/orders.
func (s *Server) SubmitOrder(ctx echo.Context, customerID string) error {
	var body SubmitOrderRequest
	if err := ctx.Bind(&body); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{Code: http.StatusBadRequest, Message: "Invalid request body"})
	}

	cmd, err := commands.NewSubmitOrderCommand(
		customerID,
		order.Type(body.OrderType),
		body.ScheduledTime,
		body.DeliveryAddress,
		body.Notes,
		order.PaymentMethod(body.PaymentMethod),
	)
	if err != nil {
		return errorResponse(ctx, err)
	}

	o, err := s.h.SubmitOrder.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return errorResponse(ctx, err)
	}
	return respondOrder(ctx, http.StatusCreated, o)
}

// ListCustomerOrders handles GET /api/v1/customers/{customerId}/orders.
func (s *Server) ListCustomerOrders(ctx echo.Context, customerID string, params ListCustomerOrdersParams) error {
	var limit, offset int
	if params.Limit != nil {
		limit = *params.Limit
	}
	if params.Offset != nil {
		offset = *params.Offset
	}

	query, err := queries.NewListCustomerOrdersQuery(customerID, limit, offset)
	if err != nil {
		return errorResponse(ctx, err)
	}

	orders, err := s.h.ListCustomerOrders.Handle(ctx.Request().Context(), query)
	if err != nil {
		return errorResponse(ctx, err)
	}

	response := make([]Order, len(orders))
	for i, o := range orders {
		if response[i], err = orderFromDomain(o); err != nil {
			return errorResponse(ctx, err)
		}
	}
	return ctx.JSON(http.StatusOK, response)
}

// GetOrder handles GET /api/v1/orders/{orderId}.
func (s *Server) GetOrder(ctx echo.Context, orderID string) error {
	id, err := kernel.UUIDFromString(orderID)
	if err != nil {
		return errorResponse(ctx, errs.NewValueIsInvalidErrorWithCause("orderId", err))
	}
	query, err := queries.NewGetOrderQuery(id)
	if err != nil {
		return errorResponse(ctx, err)
	}
	return s.respondQueriedOrder(ctx, query)
}

// GetOrderByNumber handles GET /api/v1/orders/by-number/{number}.
func (s *Server) GetOrderByNumber(ctx echo.Context, number string) error {
	query, err := queries.NewGetOrderByNumberQuery(number)
	if err != nil {
		return errorResponse(ctx, err)
	}
	return s.respondQueriedOrder(ctx, query)
}

// UpdateOrderStatus handles POST /api/v1/orders/{orderId}/status. Repeating the
// current status succeeds without changing anything; a stale expectedStatus is
// answered with 409.
func (s *Server) UpdateOrderStatus(ctx echo.Context, orderID string) error {
	var body StatusUpdateRequest
	if err := ctx.Bind(&body); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{Code: http.StatusBadRequest, Message: "Invalid request body"})
	}

	id, err := kernel.UUIDFromString(orderID)
	if err != nil {
		return errorResponse(ctx, errs.NewValueIsInvalidErrorWithCause("orderId", err))
	}
	expected, expectedErr := order.ParseStatus(body.ExpectedStatus)
	target, targetErr := order.ParseStatus(body.Status)
	if err = errors.Join(expectedErr, targetErr); err != nil {
		return errorResponse(ctx, err)
	}

	cmd, err := commands.NewUpdateOrderStatusCommand(id, expected, target, body.ActorID)
	if err != nil {
		return errorResponse(ctx, err)
	}

	o, err := s.h.UpdateOrderStatus.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return errorResponse(ctx, err)
	}
	return respondOrder(ctx, http.StatusOK, o)
}

func (s *Server) respondCart(ctx echo.Context, code int, customerID string) error {
	query, err := queries.NewGetCartQuery(customerID)
	if err != nil {
		return errorResponse(ctx, err)
	}
	view, err := s.h.GetCart.Handle(ctx.Request().Context(), query)
	if err != nil {
		return errorResponse(ctx, err)
	}
	return ctx.JSON(code, cartFromView(view))
}

func (s *Server) respondQueriedOrder(ctx echo.Context, query queries.GetOrderQuery) error {
	o, err := s.h.GetOrder.Handle(ctx.Request().Context(), query)
	if err != nil {
		return errorResponse(ctx, err)
	}
	return respondOrder(ctx, http.StatusOK, o)
}

func respondOrder(ctx echo.Context, code int, o *order.Order) error {
	resp, err := orderFromDomain(o)
	if err != nil {
		return errorResponse(ctx, err)
	}
	return ctx.JSON(code, resp)
}

func quantityOrOne(q *int) int {
	if q == nil {
		return 1
	}
	return *q
}
