package nats_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"coffeeshop/internal/adapters/out/nats"
	"coffeeshop/internal/core/domain/model/kernel"
	"coffeeshop/internal/core/domain/model/order"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockConn struct {
	mock.Mock
}

func (m *MockConn) Publish(subject string, data []byte) error {
	return m.Called(subject, data).Error(0)
}

func readyEvent() order.StatusEvent {
	return order.StatusEvent{
		OrderID:     kernel.NewUUID(),
		OrderNumber: order.Number("ORD482913"),
		CustomerID:  "42",
		From:        order.Preparing,
		To:          order.Ready,
		At:          time.Date(2026, 3, 1, 12, 0, 0, 0, time.FixedZone("MSK", 3*3600)),
		Actor:       "barista-1",
	}
}

func TestNewEnvelope(t *testing.T) {
	t.Run("should describe a status change", func(t *testing.T) {
		event := readyEvent()
		env := nats.NewEnvelope(event)

		_, err := ulid.ParseStrict(env.ID)
		require.NoError(t, err)
		assert.Equal(t, "order.status_changed", env.Type)
		assert.Equal(t, event.OrderID.String(), env.OrderID)
		assert.Equal(t, "ORD482913", env.OrderNumber)
		assert.Equal(t, "preparing", env.From)
		assert.Equal(t, "ready", env.To)
		assert.Equal(t, time.UTC, env.OccurredAt.Location())
		assert.True(t, env.OccurredAt.Equal(event.At))
	})

	t.Run("should mark creation without a previous status", func(t *testing.T) {
		event := readyEvent()
		event.From, event.To = order.Unknown, order.Pending

		env := nats.NewEnvelope(event)
		assert.Equal(t, "order.created", env.Type)
		assert.Empty(t, env.From)

		data, err := json.Marshal(env)
		require.NoError(t, err)
		assert.NotContains(t, string(data), `"from"`)
	})

	t.Run("should give every envelope its own id", func(t *testing.T) {
		event := readyEvent()
		assert.NotEqual(t, nats.NewEnvelope(event).ID, nats.NewEnvelope(event).ID)
	})
}

func TestPublisher(t *testing.T) {
	t.Run("should publish the encoded envelope to the subject", func(t *testing.T) {
		conn := &MockConn{}
		var published nats.Envelope
		conn.On("Publish", nats.StatusSubject, mock.Anything).
			Run(func(args mock.Arguments) {
				require.NoError(t, json.Unmarshal(args.Get(1).([]byte), &published))
			}).
			Return(nil).Once()

		require.NoError(t, nats.NewPublisher(conn, "").Publish(t.Context(), readyEvent()))

		conn.AssertExpectations(t)
		assert.Equal(t, "ready", published.To)
		assert.Equal(t, "barista-1", published.Actor)
	})

	t.Run("should wrap connection errors", func(t *testing.T) {
		conn := &MockConn{}
		boom := errors.New("nats: connection closed")
		conn.On("Publish", "custom.subject", mock.Anything).Return(boom)

		err := nats.NewPublisher(conn, "custom.subject").Publish(t.Context(), readyEvent())
		assert.ErrorIs(t, err, boom)
	})
}
