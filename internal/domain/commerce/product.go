package commerce

import (
	"time"

	"github.com/bookstore/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockStatus represents the stock availability of a product
type StockStatus string

const (
	StockStatusInStock    StockStatus = "in_stock"
	StockStatusOutOfStock StockStatus = "out_of_stock"
)

// Product represents a sellable product owned by the commerce subsystem.
// Products created by the import pipeline are in stock on creation and carry
// the SKU of the source book's ISBN.
type Product struct {
	shared.BaseAggregateRoot
	Name         string          `gorm:"type:varchar(200);not null"`
	SKU          string          `gorm:"type:varchar(50);not null;index"`
	RegularPrice decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	StockStatus  StockStatus     `gorm:"type:varchar(20);not null;default:'in_stock'"`
	LinkedBookID *uuid.UUID      `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new in-stock product
func NewProduct(name, sku string, regularPrice decimal.Decimal) (*Product, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	if sku == "" {
		return nil, shared.NewDomainError("INVALID_SKU", "Product SKU cannot be empty")
	}
	if len(sku) > 50 {
		return nil, shared.NewDomainError("INVALID_SKU", "Product SKU cannot exceed 50 characters")
	}
	if regularPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Regular price cannot be negative")
	}

	return &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		SKU:               sku,
		RegularPrice:      regularPrice,
		StockStatus:       StockStatusInStock,
	}, nil
}

// LinkBook records the identifier of the book this product was created from.
// A product is linked to exactly one book; linking twice is an error.
func (p *Product) LinkBook(bookID uuid.UUID) error {
	if p.LinkedBookID != nil {
		return shared.NewDomainError("ALREADY_LINKED", "Product is already linked to a book")
	}
	if bookID == uuid.Nil {
		return shared.NewDomainError("INVALID_BOOK_ID", "Book ID cannot be empty")
	}

	p.LinkedBookID = &bookID
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// IsLinked returns true if the product has a linked book
func (p *Product) IsLinked() bool {
	return p.LinkedBookID != nil
}

// IsInStock returns true if the product is in stock
func (p *Product) IsInStock() bool {
	return p.StockStatus == StockStatusInStock
}
