package kernel_test

import (
	"math"
	"testing"

	"coffeeshop/internal/core/domain/model/kernel"
	"coffeeshop/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	t.Run("should accept zero and positive amounts", func(t *testing.T) {
		m, err := kernel.NewMoney(800)
		require.NoError(t, err)
		assert.Equal(t, int64(800), m.Minor())

		_, err = kernel.NewMoney(0)
		require.NoError(t, err)
	})

	t.Run("should reject negative amounts", func(t *testing.T) {
		_, err := kernel.NewMoney(-1)
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})
}

func TestMoney_Arithmetic(t *testing.T) {
	t.Run("should add and multiply exactly", func(t *testing.T) {
		price := kernel.Money(1200)

		line, err := price.Multiply(3)
		require.NoError(t, err)
		assert.Equal(t, kernel.Money(3600), line)

		total, err := line.Add(kernel.Money(800))
		require.NoError(t, err)
		assert.Equal(t, kernel.Money(4400), total)
	})

	t.Run("should detect overflow", func(t *testing.T) {
		_, err := kernel.Money(math.MaxInt64).Add(1)
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)

		_, err = kernel.Money(math.MaxInt64 / 2).Multiply(3)
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("should reject negative quantity", func(t *testing.T) {
		_, err := kernel.Money(100).Multiply(-1)
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})
}

func TestMoney_String(t *testing.T) {
	assert.Equal(t, "8.00", kernel.Money(800).String())
	assert.Equal(t, "0.05", kernel.Money(5).String())
	assert.Equal(t, "123.45", kernel.Money(12345).String())
	assert.Equal(t, "-1.50", kernel.Money(-150).String())
}
