package catalog_test

import (
	"testing"

	"coffeeshop/internal/core/domain/model/catalog"
	"coffeeshop/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewItem(t *testing.T) {
	t.Run("should create a valid item", func(t *testing.T) {
		item, err := catalog.NewItem(" espresso ", "Espresso", 800, catalog.Coffee)

		require.NoError(t, err)
		require.NoError(t, item.Validate())
		assert.Equal(t, "espresso", item.ID())
		assert.Equal(t, "Espresso", item.Name())
		assert.Equal(t, int64(800), item.Price().Minor())
		assert.False(t, item.IsAddon())
	})

	t.Run("should flag addons", func(t *testing.T) {
		item, err := catalog.NewItem("syrup-vanilla", "Vanilla syrup", 150, catalog.Addon)

		require.NoError(t, err)
		assert.True(t, item.IsAddon())
	})

	t.Run("should join every validation failure", func(t *testing.T) {
		_, err := catalog.NewItem("", "", -1, catalog.Category("soup"))

		require.Error(t, err)
		assert.True(t, errs.IsValidation(err))
		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
		assert.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("zero value is not constructed", func(t *testing.T) {
		var item catalog.Item
		assert.ErrorIs(t, item.Validate(), catalog.ErrItemIsNotConstructed)
	})
}
