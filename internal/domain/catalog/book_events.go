package catalog

import (
	"github.com/bookstore/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constant
const AggregateTypeBook = "Book"

// Event type constants
const (
	EventTypeBookCreated = "BookCreated"
	EventTypeBookLinked  = "BookLinked"
)

// BookCreatedEvent is published when a new book is created
type BookCreatedEvent struct {
	shared.BaseDomainEvent
	BookID uuid.UUID `json:"book_id"`
	Title  string    `json:"title"`
	ISBN   string    `json:"isbn,omitempty"`
}

// NewBookCreatedEvent creates a new BookCreatedEvent
func NewBookCreatedEvent(book *Book) *BookCreatedEvent {
	return &BookCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBookCreated, AggregateTypeBook, book.ID),
		BookID:          book.ID,
		Title:           book.Title,
		ISBN:            book.ISBN,
	}
}

// BookLinkedEvent is published when a book is cross-linked to its product
type BookLinkedEvent struct {
	shared.BaseDomainEvent
	BookID    uuid.UUID `json:"book_id"`
	ProductID uuid.UUID `json:"product_id"`
}

// NewBookLinkedEvent creates a new BookLinkedEvent
func NewBookLinkedEvent(book *Book, productID uuid.UUID) *BookLinkedEvent {
	return &BookLinkedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBookLinked, AggregateTypeBook, book.ID),
		BookID:          book.ID,
		ProductID:       productID,
	}
}
