package telegram

import (
	"context"
	"log/slog"

	"coffeeshop/internal/core/domain/model/notification"
)

// LogMessenger writes messages to the log instead of a chat. It is used when
// no bot token is configured.
type LogMessenger struct {
	logger *slog.Logger
}

func NewLogMessenger(logger *slog.Logger) *LogMessenger {
	return &LogMessenger{logger: logger.With("component", "log_messenger")}
}

func (m *LogMessenger) Send(ctx context.Context, recipientID string, msg notification.Message) error {
	labels := make([]string, 0, len(msg.Actions))
	for _, a := range msg.Actions {
		labels = append(labels, a.Label)
	}
	m.logger.InfoContext(ctx, "message",
		"recipient", recipientID,
		"text", msg.Text,
		"actions", labels,
	)
	return nil
}

func (m *LogMessenger) AnswerCallback(ctx context.Context, callbackID, text string) error {
	m.logger.InfoContext(ctx, "callback answered", "callback_id", callbackID, "text", text)
	return nil
}
