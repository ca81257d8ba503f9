package http

import (
	"context"
	"errors"
	"net/http"

	"coffeeshop/internal/core/application/usecases/commands"
	"coffeeshop/internal/core/domain/model/cart"
	"coffeeshop/internal/core/domain/model/order"
	"coffeeshop/internal/core/ports"
	"coffeeshop/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// statusCode maps an application error to the response code:
//
//	validation                    400
//	not found                     404
//	illegal transition, conflict  409
//	empty cart                    422
//	storage, timeout, exhausted   503
func statusCode(err error) int {
	switch {
	case errs.IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, order.ErrIllegalTransition), errors.Is(err, ports.ErrStatusConflict):
		return http.StatusConflict
	case errors.Is(err, cart.ErrEmptyCart):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errs.ErrPersistence),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, commands.ErrOrderNumberExhausted):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// errorResponse writes err with its mapped code. Internal errors are not echoed
// to the client.
func errorResponse(c echo.Context, err error) error {
	code := statusCode(err)
	message := err.Error()
	if code >= http.StatusInternalServerError {
		message = http.StatusText(code)
	}
	return c.JSON(code, Error{Code: code, Message: message})
}

// httpErrorHandler renders router and binding errors in the API error shape.
func httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := http.StatusText(code)

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			message = m
		} else {
			message = http.StatusText(code)
		}
	} else {
		c.Logger().Error(err)
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	_ = c.JSON(code, Error{Code: code, Message: message})
}
