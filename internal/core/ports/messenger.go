package ports

import (
	"context"

	"coffeeshop/internal/core/domain/model/notification"
	"coffeeshop/internal/core/domain/model/order"
)

// Messenger delivers one message to one chat recipient.
type Messenger interface {
	Send(ctx context.Context, recipientID string, msg notification.Message) error
}

// EventPublisher publishes committed status events to the event bus.
type EventPublisher interface {
	Publish(ctx context.Context, event order.StatusEvent) error
}
