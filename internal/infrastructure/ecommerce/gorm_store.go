package ecommerce

import (
	"context"
	"fmt"

	"github.com/bookstore/backend/internal/domain/commerce"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// GormStore is a commerce.Store backed by the product repository.
// Availability is an operator switch so the rest of the system can run
// without the commerce subsystem.
type GormStore struct {
	products commerce.ProductRepository
	enabled  bool
	logger   *zap.Logger
}

// NewGormStore creates a new store adapter
func NewGormStore(products commerce.ProductRepository, enabled bool, logger *zap.Logger) *GormStore {
	return &GormStore{
		products: products,
		enabled:  enabled,
		logger:   logger.Named("commerce"),
	}
}

// IsAvailable reports whether the commerce subsystem is active
func (s *GormStore) IsAvailable(_ context.Context) bool {
	return s.enabled
}

// CreateProduct creates a sellable product from the given spec
func (s *GormStore) CreateProduct(ctx context.Context, spec commerce.ProductSpec) (*commerce.ProductRef, error) {
	product, err := commerce.NewProduct(spec.Name, spec.SKU, spec.RegularPrice)
	if err != nil {
		return nil, err
	}

	if err := s.products.Save(ctx, product); err != nil {
		return nil, fmt.Errorf("saving product: %w", err)
	}

	s.logger.Debug("product created",
		zap.String("product_id", product.ID.String()),
		zap.String("sku", product.SKU),
	)

	return &commerce.ProductRef{ID: product.ID, SKU: product.SKU}, nil
}

// LinkBook records the back-reference from a product to its book
func (s *GormStore) LinkBook(ctx context.Context, productID, bookID uuid.UUID) error {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return err
	}

	if err := product.LinkBook(bookID); err != nil {
		return err
	}

	return s.products.Save(ctx, product)
}

var _ commerce.Store = (*GormStore)(nil)
