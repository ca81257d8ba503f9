// Package telegram delivers notifications as Telegram chat messages and
// answers staff button presses.
package telegram

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"coffeeshop/internal/core/domain/model/notification"
	"coffeeshop/internal/pkg/errs"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Bot is the part of *tgbotapi.BotAPI the messenger uses.
type Bot interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Messenger implements ports.Messenger over the Bot API. Recipient ids are
// Telegram chat ids in decimal form.
type Messenger struct {
	bot Bot
}

// NewMessenger authenticates token against the Bot API using client.
func NewMessenger(token string, client *http.Client) (*Messenger, error) {
	if client == nil {
		client = http.DefaultClient
	}
	bot, err := tgbotapi.NewBotAPIWithClient(token, tgbotapi.APIEndpoint, client)
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}
	return NewMessengerWithBot(bot), nil
}

func NewMessengerWithBot(bot Bot) *Messenger {
	return &Messenger{bot: bot}
}

// Send posts msg to the chat. The Bot API client has no context support, so
// ctx is only checked before the call; callers bound the call themselves.
func (m *Messenger) Send(ctx context.Context, recipientID string, msg notification.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	chatID, err := ParseChatID(recipientID)
	if err != nil {
		return err
	}

	if _, err := m.bot.Send(NewMessageConfig(chatID, msg)); err != nil {
		return fmt.Errorf("send to chat %d: %w", chatID, err)
	}
	return nil
}

// AnswerCallback acknowledges a button press so the client stops its spinner.
// A non-empty text is shown to the staff member as a toast.
func (m *Messenger) AnswerCallback(ctx context.Context, callbackID, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := m.bot.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		return fmt.Errorf("answer callback %s: %w", callbackID, err)
	}
	return nil
}

// NewMessageConfig renders msg with its actions as a single row of inline buttons.
func NewMessageConfig(chatID int64, msg notification.Message) tgbotapi.MessageConfig {
	cfg := tgbotapi.NewMessage(chatID, msg.Text)
	if !msg.HasActions() {
		return cfg
	}

	buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(msg.Actions))
	for _, a := range msg.Actions {
		buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(a.Label, a.Data))
	}
	cfg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(buttons...))
	return cfg
}

// ParseChatID converts a recipient id to a chat id. Group chats are negative.
func ParseChatID(recipientID string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(recipientID), 10, 64)
	if err != nil || id == 0 {
		return 0, errs.NewValueIsInvalidErrorWithCause("recipientId",
			fmt.Errorf("%q is not a chat id", recipientID))
	}
	return id, nil
}
