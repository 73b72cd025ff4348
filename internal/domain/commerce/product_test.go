package commerce

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProduct(t *testing.T) {
	t.Run("creates in-stock product with valid inputs", func(t *testing.T) {
		product, err := NewProduct("A Book", "978-0", decimal.NewFromFloat(9.99))
		require.NoError(t, err)
		require.NotNil(t, product)

		assert.Equal(t, "A Book", product.Name)
		assert.Equal(t, "978-0", product.SKU)
		assert.True(t, product.RegularPrice.Equal(decimal.NewFromFloat(9.99)))
		assert.Equal(t, StockStatusInStock, product.StockStatus)
		assert.True(t, product.IsInStock())
		assert.Nil(t, product.LinkedBookID)
		assert.NotEmpty(t, product.ID)
	})

	t.Run("fails with empty name", func(t *testing.T) {
		_, err := NewProduct("", "978-0", decimal.Zero)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "name cannot be empty")
	})

	t.Run("fails with name too long", func(t *testing.T) {
		_, err := NewProduct(strings.Repeat("a", 201), "978-0", decimal.Zero)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot exceed 200 characters")
	})

	t.Run("fails with empty sku", func(t *testing.T) {
		_, err := NewProduct("A Book", "", decimal.Zero)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "SKU cannot be empty")
	})

	t.Run("fails with sku too long", func(t *testing.T) {
		_, err := NewProduct("A Book", strings.Repeat("9", 51), decimal.Zero)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot exceed 50 characters")
	})

	t.Run("fails with negative price", func(t *testing.T) {
		_, err := NewProduct("A Book", "978-0", decimal.NewFromInt(-5))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot be negative")
	})

	t.Run("zero price is allowed", func(t *testing.T) {
		product, err := NewProduct("A Book", "978-0", decimal.Zero)
		require.NoError(t, err)
		assert.True(t, product.RegularPrice.IsZero())
	})
}

func TestProduct_LinkBook(t *testing.T) {
	t.Run("links book", func(t *testing.T) {
		product, err := NewProduct("A Book", "978-0", decimal.Zero)
		require.NoError(t, err)

		bookID := uuid.New()
		err = product.LinkBook(bookID)
		require.NoError(t, err)
		require.NotNil(t, product.LinkedBookID)
		assert.Equal(t, bookID, *product.LinkedBookID)
		assert.True(t, product.IsLinked())
	})

	t.Run("fails when already linked", func(t *testing.T) {
		product, _ := NewProduct("A Book", "978-0", decimal.Zero)
		require.NoError(t, product.LinkBook(uuid.New()))

		err := product.LinkBook(uuid.New())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already linked")
	})

	t.Run("fails with nil book id", func(t *testing.T) {
		product, _ := NewProduct("A Book", "978-0", decimal.Zero)
		err := product.LinkBook(uuid.Nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot be empty")
	})
}
