// Package nats publishes committed order status events to a NATS subject.
package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"coffeeshop/internal/core/domain/model/order"

	"github.com/nats-io/nats.go"
	"github.com/oklog/ulid/v2"
)

const (
	// StatusSubject carries every status event, including creation.
	StatusSubject = "orders.status"

	eventTypeCreated       = "order.created"
	eventTypeStatusChanged = "order.status_changed"
)

// Envelope is the wire form of a status event. ID is a ULID so consumers can
// deduplicate and sort by it.
type Envelope struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	OccurredAt  time.Time `json:"occurred_at"`
	OrderID     string    `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	CustomerID  string    `json:"customer_id"`
	From        string    `json:"from,omitempty"`
	To          string    `json:"to"`
	Actor       string    `json:"actor"`
}

// NewEnvelope wraps event with a fresh id.
func NewEnvelope(event order.StatusEvent) Envelope {
	env := Envelope{
		ID:          ulid.Make().String(),
		Type:        eventTypeStatusChanged,
		OccurredAt:  event.At.UTC(),
		OrderID:     event.OrderID.String(),
		OrderNumber: event.OrderNumber.String(),
		CustomerID:  event.CustomerID,
		To:          event.To.String(),
		Actor:       event.Actor,
	}
	if event.IsCreation() {
		env.Type = eventTypeCreated
	} else {
		env.From = event.From.String()
	}
	return env
}

// Conn is the part of *nats.Conn the publisher uses.
type Conn interface {
	Publish(subject string, data []byte) error
}

// Publisher implements ports.EventPublisher.
type Publisher struct {
	conn    Conn
	subject string
}

// Connect dials url and returns a publisher with its connection. The caller
// closes the connection.
func Connect(url string) (*Publisher, *nats.Conn, error) {
	conn, err := nats.Connect(url, nats.Name("coffeeshop"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return NewPublisher(conn, StatusSubject), conn, nil
}

func NewPublisher(conn Conn, subject string) *Publisher {
	if subject == "" {
		subject = StatusSubject
	}
	return &Publisher{conn: conn, subject: subject}
}

func (p *Publisher) Publish(ctx context.Context, event order.StatusEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(NewEnvelope(event))
	if err != nil {
		return fmt.Errorf("encode %s event: %w", event.OrderNumber, err)
	}
	if err := p.conn.Publish(p.subject, data); err != nil {
		return fmt.Errorf("publish to %s: %w", p.subject, err)
	}
	return nil
}
