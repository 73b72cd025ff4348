package commerce

import (
	"context"

	"github.com/bookstore/backend/internal/domain/shared"
)

// ProductRepository defines the persistence contract for commerce products.
// SKU lookup returns the most recent match; SKUs are not unique.
type ProductRepository interface {
	shared.Repository[Product]
	FindBySKU(ctx context.Context, sku string) (*Product, error)
}
