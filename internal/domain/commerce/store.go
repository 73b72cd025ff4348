package commerce

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductSpec describes the product to create for an imported book
type ProductSpec struct {
	Name         string
	SKU          string
	RegularPrice decimal.Decimal
}

// ProductRef identifies a product created by the store
type ProductRef struct {
	ID  uuid.UUID
	SKU string
}

// Store is the narrow interface the import pipeline uses to talk to the
// commerce subsystem. IsAvailable is a capability probe, not a health check:
// it reports whether the subsystem is loaded at all.
type Store interface {
	IsAvailable(ctx context.Context) bool
	CreateProduct(ctx context.Context, spec ProductSpec) (*ProductRef, error)
	LinkBook(ctx context.Context, productID, bookID uuid.UUID) error
}
