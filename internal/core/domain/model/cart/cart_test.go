package cart_test

import (
	"testing"
	"time"

	"coffeeshop/internal/core/domain/model/cart"
	"coffeeshop/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

func mustLine(t *testing.T, item, size string, addons []string, qty int) cart.Line {
	t.Helper()
	l, err := cart.NewLine(item, size, addons, qty)
	require.NoError(t, err)
	return l
}

func TestNewLine(t *testing.T) {
	t.Run("should normalise size and addons", func(t *testing.T) {
		l := mustLine(t, "latte", " Large ", []string{"syrup", " oat-milk", "syrup", ""}, 1)

		assert.Equal(t, "large", l.Size())
		assert.Equal(t, []string{"oat-milk", "syrup"}, l.Addons())
	})

	t.Run("should reject non-positive quantity", func(t *testing.T) {
		for _, q := range []int{0, -3} {
			_, err := cart.NewLine("latte", "m", nil, q)
			require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
		}
	})

	t.Run("should reject missing item id", func(t *testing.T) {
		_, err := cart.NewLine("  ", "m", nil, 1)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
		assert.True(t, errs.IsValidation(err))
	})

	t.Run("mergeable ignores addon order", func(t *testing.T) {
		a := mustLine(t, "latte", "m", []string{"syrup", "oat-milk"}, 1)
		b := mustLine(t, "latte", "M", []string{"oat-milk", "syrup"}, 4)
		c := mustLine(t, "latte", "m", []string{"syrup"}, 1)

		assert.True(t, a.Mergeable(b))
		assert.Equal(t, a.Key(), b.Key())
		assert.False(t, a.Mergeable(c))
	})
}

func TestCart_Add(t *testing.T) {
	t.Run("should merge same item size and addons", func(t *testing.T) {
		c, err := cart.NewCart("42")
		require.NoError(t, err)

		c.Add(mustLine(t, "espresso", "s", []string{"sugar", "cinnamon"}, 1), now)
		c.Add(mustLine(t, "espresso", "s", []string{"cinnamon", "sugar"}, 2), now)

		lines := c.Lines()
		require.Len(t, lines, 1)
		assert.Equal(t, 3, lines[0].Quantity())
		assert.Equal(t, now, c.UpdatedAt())
	})

	t.Run("should keep insertion order for distinct lines", func(t *testing.T) {
		c, err := cart.NewCart("42")
		require.NoError(t, err)

		c.Add(mustLine(t, "cheesecake", "", nil, 1), now)
		c.Add(mustLine(t, "espresso", "s", nil, 1), now)
		c.Add(mustLine(t, "espresso", "l", nil, 1), now)

		lines := c.Lines()
		require.Len(t, lines, 3)
		assert.Equal(t, "cheesecake", lines[0].ItemID())
		assert.Equal(t, "s", lines[1].Size())
		assert.Equal(t, "l", lines[2].Size())
		assert.Equal(t, 3, c.ItemCount())
	})

	t.Run("lines are returned as a copy", func(t *testing.T) {
		c, err := cart.NewCart("42")
		require.NoError(t, err)
		c.Add(mustLine(t, "espresso", "s", nil, 1), now)

		lines := c.Lines()
		lines[0] = mustLine(t, "tea", "", nil, 9)

		assert.Equal(t, "espresso", c.Lines()[0].ItemID())
	})
}

func TestCart_Remove(t *testing.T) {
	c, err := cart.NewCart("42")
	require.NoError(t, err)
	c.Add(mustLine(t, "espresso", "s", nil, 3), now)

	t.Run("should decrement quantity", func(t *testing.T) {
		require.NoError(t, c.Remove(mustLine(t, "espresso", "S", nil, 1), now))
		assert.Equal(t, 2, c.Lines()[0].Quantity())
	})

	t.Run("should drop the line when nothing is left", func(t *testing.T) {
		require.NoError(t, c.Remove(mustLine(t, "espresso", "s", nil, 5), now))
		assert.True(t, c.IsEmpty())
	})

	t.Run("should fail for an unknown line", func(t *testing.T) {
		err := c.Remove(mustLine(t, "espresso", "s", []string{"sugar"}, 1), now)
		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})
}

func TestCart_Clear(t *testing.T) {
	c, err := cart.NewCart("42")
	require.NoError(t, err)
	c.Add(mustLine(t, "espresso", "s", nil, 1), now)

	c.Clear(now)
	assert.True(t, c.IsEmpty())

	c.Clear(now)
	assert.True(t, c.IsEmpty())
}

func TestRestoreCart(t *testing.T) {
	t.Run("should merge duplicate stored lines", func(t *testing.T) {
		c, err := cart.RestoreCart("42", []cart.Line{
			mustLine(t, "espresso", "s", nil, 1),
			mustLine(t, "espresso", "s", nil, 2),
		}, now)

		require.NoError(t, err)
		require.NoError(t, c.Validate())
		require.Len(t, c.Lines(), 1)
		assert.Equal(t, 3, c.Lines()[0].Quantity())
	})

	t.Run("should reject zero value lines", func(t *testing.T) {
		_, err := cart.RestoreCart("42", []cart.Line{{}}, now)
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("should require customer", func(t *testing.T) {
		_, err := cart.NewCart("")
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("zero value is not constructed", func(t *testing.T) {
		var c *cart.Cart
		require.ErrorIs(t, c.Validate(), cart.ErrCartIsNotConstructed)
	})
}
