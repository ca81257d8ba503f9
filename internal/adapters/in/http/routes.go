package http

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
)

// ServerInterface lists the API operations of openapi.yaml.
type ServerInterface interface {
	// (GET /api/v1/customers/{customerId}/cart)
	GetCart(ctx echo.Context, customerID string) error
	// (DELETE /api/v1/customers/{customerId}/cart)
	ClearCart(ctx echo.Context, customerID string) error
	// (POST /api/v1/customers/{customerId}/cart/items)
	AddCartItem(ctx echo.Context, customerID string) error
	// (DELETE /api/v1/customers/{customerId}/cart/items)
	RemoveCartItem(ctx echo.Context, customerID string, params RemoveCartItemParams) error
	// (POST /api/v1/customers/{customerId}/orders)
	SubmitOrder(ctx echo.Context, customerID string) error
	// (GET /api/v1/customers/{customerId}/orders)
	ListCustomerOrders(ctx echo.Context, customerID string, params ListCustomerOrdersParams) error
	// (GET /api/v1/orders/{orderId})
	GetOrder(ctx echo.Context, orderID string) error
	// (GET /api/v1/orders/by-number/{number})
	GetOrderByNumber(ctx echo.Context, number string) error
	// (POST /api/v1/orders/{orderId}/status)
	UpdateOrderStatus(ctx echo.Context, orderID string) error
}

// serverInterfaceWrapper converts echo contexts to typed parameters.
type serverInterfaceWrapper struct {
	handler ServerInterface
}

func pathParam(ctx echo.Context, name string) (string, error) {
	var value string
	err := runtime.BindStyledParameterWithOptions("simple", name, ctx.Param(name), &value,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return "", echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter %s: %s", name, err))
	}
	return value, nil
}

func queryParam(ctx echo.Context, name string, explode, required bool, dest any) error {
	if err := runtime.BindQueryParameter("form", explode, required, name, ctx.QueryParams(), dest); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter %s: %s", name, err))
	}
	return nil
}

func (w *serverInterfaceWrapper) GetCart(ctx echo.Context) error {
	customerID, err := pathParam(ctx, "customerId")
	if err != nil {
		return err
	}
	return w.handler.GetCart(ctx, customerID)
}

func (w *serverInterfaceWrapper) ClearCart(ctx echo.Context) error {
	customerID, err := pathParam(ctx, "customerId")
	if err != nil {
		return err
	}
	return w.handler.ClearCart(ctx, customerID)
}

func (w *serverInterfaceWrapper) AddCartItem(ctx echo.Context) error {
	customerID, err := pathParam(ctx, "customerId")
	if err != nil {
		return err
	}
	return w.handler.AddCartItem(ctx, customerID)
}

func (w *serverInterfaceWrapper) RemoveCartItem(ctx echo.Context) error {
	customerID, err := pathParam(ctx, "customerId")
	if err != nil {
		return err
	}

	var params RemoveCartItemParams
	if err = queryParam(ctx, "itemId", true, true, &params.ItemID); err != nil {
		return err
	}
	if err = queryParam(ctx, "size", true, false, &params.Size); err != nil {
		return err
	}
	if err = queryParam(ctx, "addons", true, false, &params.Addons); err != nil {
		return err
	}
	if err = queryParam(ctx, "quantity", true, false, &params.Quantity); err != nil {
		return err
	}

	return w.handler.RemoveCartItem(ctx, customerID, params)
}

func (w *serverInterfaceWrapper) SubmitOrder(ctx echo.Context) error {
	customerID, err := pathParam(ctx, "customerId")
	if err != nil {
		return err
	}
	return w.handler.SubmitOrder(ctx, customerID)
}

func (w *serverInterfaceWrapper) ListCustomerOrders(ctx echo.Context) error {
	customerID, err := pathParam(ctx, "customerId")
	if err != nil {
		return err
	}

	var params ListCustomerOrdersParams
	if err = queryParam(ctx, "limit", true, false, &params.Limit); err != nil {
		return err
	}
	if err = queryParam(ctx, "offset", true, false, &params.Offset); err != nil {
		return err
	}

	return w.handler.ListCustomerOrders(ctx, customerID, params)
}

func (w *serverInterfaceWrapper) GetOrder(ctx echo.Context) error {
	orderID, err := pathParam(ctx, "orderId")
	if err != nil {
		return err
	}
	return w.handler.GetOrder(ctx, orderID)
}

func (w *serverInterfaceWrapper) GetOrderByNumber(ctx echo.Context) error {
	number, err := pathParam(ctx, "number")
	if err != nil {
		return err
	}
	return w.handler.GetOrderByNumber(ctx, number)
}

func (w *serverInterfaceWrapper) UpdateOrderStatus(ctx echo.Context) error {
	orderID, err := pathParam(ctx, "orderId")
	if err != nil {
		return err
	}
	return w.handler.UpdateOrderStatus(ctx, orderID)
}

// EchoRouter is satisfied by *echo.Echo and *echo.Group.
type EchoRouter interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	DELETE(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// RegisterHandlers mounts si on router. Paths are relative to /api/v1, so
// router is normally the /api/v1 group.
func RegisterHandlers(router EchoRouter, si ServerInterface) {
	w := &serverInterfaceWrapper{handler: si}

	router.GET("/customers/:customerId/cart", w.GetCart)
	router.DELETE("/customers/:customerId/cart", w.ClearCart)
	router.POST("/customers/:customerId/cart/items", w.AddCartItem)
	router.DELETE("/customers/:customerId/cart/items", w.RemoveCartItem)
	router.POST("/customers/:customerId/orders", w.SubmitOrder)
	router.GET("/customers/:customerId/orders", w.ListCustomerOrders)
	router.GET("/orders/by-number/:number", w.GetOrderByNumber)
	router.GET("/orders/:orderId", w.GetOrder)
	router.POST("/orders/:orderId/status", w.UpdateOrderStatus)
}
