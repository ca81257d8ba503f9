package order_test

import (
	"testing"

	"coffeeshop/internal/core/domain/model/order"
	"coffeeshop/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allStatuses = []order.Status{
	order.Pending, order.Confirmed, order.Preparing, order.Ready, order.Completed, order.Cancelled,
}

func TestStatus_Validate(t *testing.T) {
	t.Run("should validate defined statuses", func(t *testing.T) {
		for _, s := range allStatuses {
			require.NoError(t, s.Validate(), s.String())
		}
	})

	t.Run("should reject unknown and out of range values", func(t *testing.T) {
		for _, s := range []order.Status{order.Unknown, order.Status(99), order.Status(-1)} {
			require.ErrorIs(t, s.Validate(), errs.ErrValueIsInvalid)
		}
	})
}

func TestParseStatus(t *testing.T) {
	t.Run("should round trip every status name", func(t *testing.T) {
		for _, s := range allStatuses {
			parsed, err := order.ParseStatus(s.String())
			require.NoError(t, err)
			assert.Equal(t, s, parsed)
		}
	})

	t.Run("should ignore case and spaces", func(t *testing.T) {
		parsed, err := order.ParseStatus("  Ready ")
		require.NoError(t, err)
		assert.Equal(t, order.Ready, parsed)
	})

	t.Run("should reject unknown names", func(t *testing.T) {
		for _, in := range []string{"", "unknown", "new", "done"} {
			_, err := order.ParseStatus(in)
			require.ErrorIs(t, err, errs.ErrValueIsInvalid, in)
		}
	})
}

func TestStatus_CanTransitionTo(t *testing.T) {
	legal := map[order.Status][]order.Status{
		order.Pending:   {order.Confirmed, order.Cancelled},
		order.Confirmed: {order.Preparing, order.Cancelled},
		order.Preparing: {order.Ready, order.Cancelled},
		order.Ready:     {order.Completed, order.Cancelled},
		order.Completed: {},
		order.Cancelled: {},
	}

	for from, targets := range legal {
		for _, to := range allStatuses {
			allowed := false
			for _, l := range targets {
				allowed = allowed || l == to
			}

			err := from.CanTransitionTo(to)
			if allowed {
				assert.NoError(t, err, "%s -> %s", from, to)
				continue
			}

			var illegal *order.IllegalTransitionError
			require.ErrorAs(t, err, &illegal, "%s -> %s", from, to)
			assert.ErrorIs(t, err, order.ErrIllegalTransition)
			assert.Equal(t, from, illegal.From)
			assert.Equal(t, to, illegal.To)
		}
		assert.Equal(t, targets, from.Successors())
	}
}

func TestStatus_Terminal(t *testing.T) {
	for _, s := range allStatuses {
		assert.Equal(t, s == order.Completed || s == order.Cancelled, s.IsTerminal(), s.String())
	}
	assert.Empty(t, order.Completed.Successors())
	assert.Empty(t, order.Cancelled.Successors())
}

func TestStatus_CanTransitionToInvalidTarget(t *testing.T) {
	err := order.Pending.CanTransitionTo(order.Unknown)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	assert.NotErrorIs(t, err, order.ErrIllegalTransition)
}

func TestIllegalTransitionError_Message(t *testing.T) {
	err := order.NewIllegalTransitionError(order.Completed, order.Pending)
	assert.Equal(t, "illegal status transition: completed -> pending", err.Error())
}
