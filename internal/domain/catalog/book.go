package catalog

import (
	"time"

	"github.com/bookstore/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BookStatus represents the publication status of a catalog book
type BookStatus string

const (
	BookStatusPublished BookStatus = "published"
	BookStatusDraft     BookStatus = "draft"
)

// Book represents a catalog book entry.
// It is the aggregate root for the import pipeline's primary entity: every
// successfully imported record produces exactly one Book, published on creation.
type Book struct {
	shared.BaseAggregateRoot
	Title           string          `gorm:"type:varchar(200);not null"`
	Status          BookStatus      `gorm:"type:varchar(20);not null;default:'published'"`
	ISBN            string          `gorm:"type:varchar(50);not null;index"`
	Author          string          `gorm:"type:varchar(200);not null"`
	Price           decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Publisher       string          `gorm:"type:varchar(200)"`
	PublicationYear int             `gorm:"not null;default:0"`
	CoverImageURL   string          `gorm:"type:text"`
	LinkedProductID *uuid.UUID      `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (Book) TableName() string {
	return "books"
}

// NewBook creates a new book. Books are published immediately on creation.
func NewBook(title string) (*Book, error) {
	if err := validateTitle(title); err != nil {
		return nil, err
	}

	book := &Book{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Title:             title,
		Status:            BookStatusPublished,
		Price:             decimal.Zero,
	}

	book.AddDomainEvent(NewBookCreatedEvent(book))

	return book, nil
}

// SetBibliography sets the bibliographic metadata carried by an import record
func (b *Book) SetBibliography(isbn, author string, price decimal.Decimal) error {
	if isbn == "" {
		return shared.NewDomainError("INVALID_ISBN", "ISBN cannot be empty")
	}
	if len(isbn) > 50 {
		return shared.NewDomainError("INVALID_ISBN", "ISBN cannot exceed 50 characters")
	}
	if author == "" {
		return shared.NewDomainError("INVALID_AUTHOR", "Author cannot be empty")
	}
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}

	b.ISBN = isbn
	b.Author = author
	b.Price = price
	b.UpdatedAt = time.Now()
	b.IncrementVersion()

	return nil
}

// SetPublication sets the optional publication details some import sources carry
func (b *Book) SetPublication(publisher string, year int, coverImageURL string) {
	b.Publisher = publisher
	b.PublicationYear = year
	b.CoverImageURL = coverImageURL
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
}

// LinkProduct records the identifier of the sellable product created for this
// book. A book is linked to exactly one product; linking twice is an error.
func (b *Book) LinkProduct(productID uuid.UUID) error {
	if b.LinkedProductID != nil {
		return shared.NewDomainError("ALREADY_LINKED", "Book is already linked to a product")
	}
	if productID == uuid.Nil {
		return shared.NewDomainError("INVALID_PRODUCT_ID", "Product ID cannot be empty")
	}

	b.LinkedProductID = &productID
	b.UpdatedAt = time.Now()
	b.IncrementVersion()

	b.AddDomainEvent(NewBookLinkedEvent(b, productID))

	return nil
}

// IsLinked returns true if the book has a linked product
func (b *Book) IsLinked() bool {
	return b.LinkedProductID != nil
}

// IsPublished returns true if the book is published
func (b *Book) IsPublished() bool {
	return b.Status == BookStatusPublished
}

func validateTitle(title string) error {
	if title == "" {
		return shared.NewDomainError("INVALID_TITLE", "Book title cannot be empty")
	}
	if len(title) > 200 {
		return shared.NewDomainError("INVALID_TITLE", "Book title cannot exceed 200 characters")
	}
	return nil
}
