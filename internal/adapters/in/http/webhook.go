package http

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"coffeeshop/internal/core/application/usecases/commands"
	"coffeeshop/internal/core/domain/model/order"
	"coffeeshop/internal/core/domain/services"
	"coffeeshop/internal/pkg/errs"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/labstack/echo/v4"
)

// secretTokenHeader carries the secret set with setWebhook.
const secretTokenHeader = "X-Telegram-Bot-Api-Secret-Token"

// CallbackAnswerer acknowledges a button press with a short toast.
type CallbackAnswerer interface {
	AnswerCallback(ctx context.Context, callbackID, text string) error
}

// Webhook turns staff button presses into status updates. The staff member's
// chat id becomes the actor of the transition.
type Webhook struct {
	updateStatus UpdateOrderStatusHandler
	answerer     CallbackAnswerer
	staff        map[string]struct{}
	secret       string
	logger       *slog.Logger
}

// NewWebhook accepts presses only from staffIDs. An empty secret disables the
// secret token check.
func NewWebhook(
	updateStatus UpdateOrderStatusHandler,
	answerer CallbackAnswerer,
	staffIDs []string,
	secret string,
	logger *slog.Logger,
) *Webhook {
	staff := make(map[string]struct{}, len(staffIDs))
	for _, id := range staffIDs {
		staff[id] = struct{}{}
	}
	return &Webhook{
		updateStatus: updateStatus,
		answerer:     answerer,
		staff:        staff,
		secret:       secret,
		logger:       logger.With("component", "telegram_webhook"),
	}
}

// Handle serves POST /telegram/webhook. Telegram retries anything but 2xx, so
// rejected presses are still acknowledged with 200.
func (w *Webhook) Handle(c echo.Context) error {
	if w.secret != "" {
		got := c.Request().Header.Get(secretTokenHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(w.secret)) != 1 {
			return c.JSON(http.StatusUnauthorized, Error{Code: http.StatusUnauthorized, Message: "invalid secret token"})
		}
	}

	var update tgbotapi.Update
	if err := json.NewDecoder(c.Request().Body).Decode(&update); err != nil {
		return c.JSON(http.StatusBadRequest, Error{Code: http.StatusBadRequest, Message: "Invalid update"})
	}

	cq := update.CallbackQuery
	if cq == nil || cq.From == nil {
		return c.NoContent(http.StatusOK)
	}

	ctx := c.Request().Context()
	text := w.press(ctx, strconv.FormatInt(cq.From.ID, 10), cq.Data)

	if err := w.answerer.AnswerCallback(ctx, cq.ID, text); err != nil {
		w.logger.WarnContext(ctx, "answer callback failed", "callback_id", cq.ID, "error", err)
	}
	return c.NoContent(http.StatusOK)
}

// press applies one button press and returns the toast text for it.
func (w *Webhook) press(ctx context.Context, staffID, data string) string {
	if _, ok := w.staff[staffID]; !ok {
		w.logger.WarnContext(ctx, "callback from unknown chat", "chat_id", staffID)
		return "You are not allowed to change orders"
	}

	cb, err := services.DecodeStatusCallback(data)
	if err != nil {
		w.logger.WarnContext(ctx, "undecodable callback", "chat_id", staffID, "error", err)
		return "This button is no longer supported"
	}

	cmd, err := commands.NewUpdateOrderStatusCommand(cb.OrderID, cb.From, cb.Target, staffID)
	if err != nil {
		return "This button is no longer supported"
	}

	o, err := w.updateStatus.Handle(ctx, cmd)
	if err != nil {
		var illegal *order.IllegalTransitionError
		switch {
		case errors.As(err, &illegal):
			return fmt.Sprintf("Order is already %s", illegal.From)
		case errors.Is(err, errs.ErrObjectNotFound):
			return "Order not found"
		default:
			w.logger.ErrorContext(ctx, "status update from callback failed",
				"order_id", cb.OrderID.String(), "target", cb.Target.String(), "error", err)
			return "Could not update the order, try again"
		}
	}

	return fmt.Sprintf("Order %s is %s", o.Number(), o.Status())
}
