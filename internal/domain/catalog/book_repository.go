package catalog

import (
	"context"

	"github.com/bookstore/backend/internal/domain/shared"
)

// BookRepository defines the persistence contract for books.
// Identifiers are assigned by the store on first save.
// ISBN lookup returns the most recent match; ISBNs are not unique.
type BookRepository interface {
	shared.Repository[Book]
	FindByISBN(ctx context.Context, isbn string) (*Book, error)
}
