package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/bookstore/backend/internal/domain/catalog"
	"github.com/bookstore/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newMockBookRepository creates a GormBookRepository with a mocked SQL connection
func newMockBookRepository(t *testing.T) (*GormBookRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormBookRepository(gormDB), mock, mockDB
}

// newSQLiteBookRepository backs the repository with an in-memory database
func newSQLiteBookRepository(t *testing.T) *GormBookRepository {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&catalog.Book{}))

	return NewGormBookRepository(db)
}

func newPersistedBook(t *testing.T, repo *GormBookRepository, title, author, isbn string) *catalog.Book {
	t.Helper()

	book, err := catalog.NewBook(title)
	require.NoError(t, err)
	require.NoError(t, book.SetBibliography(isbn, author, decimal.NewFromFloat(10)))
	require.NoError(t, repo.Save(context.Background(), book))
	return book
}

func TestGormBookRepository_FindByID(t *testing.T) {
	t.Run("finds existing book", func(t *testing.T) {
		repo, mock, mockDB := newMockBookRepository(t)
		defer mockDB.Close()

		bookID := uuid.New()
		rows := sqlmock.NewRows([]string{"id", "title", "status", "isbn", "author", "price"}).
			AddRow(bookID, "Test Book", "published", "978-0", "An Author", decimal.NewFromFloat(9.99))

		mock.ExpectQuery(`SELECT \* FROM "books" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(bookID, 1).
			WillReturnRows(rows)

		book, err := repo.FindByID(context.Background(), bookID)

		assert.NoError(t, err)
		require.NotNil(t, book)
		assert.Equal(t, bookID, book.ID)
		assert.Equal(t, "Test Book", book.Title)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound for missing book", func(t *testing.T) {
		repo, mock, mockDB := newMockBookRepository(t)
		defer mockDB.Close()

		bookID := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "books" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(bookID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		book, err := repo.FindByID(context.Background(), bookID)

		assert.Nil(t, book)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormBookRepository_FindByISBN(t *testing.T) {
	t.Run("empty isbn is rejected", func(t *testing.T) {
		repo, _, mockDB := newMockBookRepository(t)
		defer mockDB.Close()

		book, err := repo.FindByISBN(context.Background(), "")
		assert.Nil(t, book)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ISBN cannot be empty")
	})

	t.Run("missing isbn returns ErrNotFound", func(t *testing.T) {
		repo, mock, mockDB := newMockBookRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "books" WHERE isbn = \$1 ORDER BY .* LIMIT .*`).
			WithArgs("978-0", 1).
			WillReturnError(gorm.ErrRecordNotFound)

		book, err := repo.FindByISBN(context.Background(), "978-0")
		assert.Nil(t, book)
		assert.Equal(t, shared.ErrNotFound, err)
	})
}

func TestGormBookRepository_CRUD(t *testing.T) {
	ctx := context.Background()

	t.Run("save and find round trip", func(t *testing.T) {
		repo := newSQLiteBookRepository(t)
		book := newPersistedBook(t, repo, "Dune", "Frank Herbert", "978-0441013593")

		found, err := repo.FindByID(ctx, book.ID)
		require.NoError(t, err)
		assert.Equal(t, "Dune", found.Title)
		assert.Equal(t, "Frank Herbert", found.Author)
		assert.True(t, found.Price.Equal(decimal.NewFromFloat(10)))

		byISBN, err := repo.FindByISBN(ctx, "978-0441013593")
		require.NoError(t, err)
		assert.Equal(t, book.ID, byISBN.ID)
	})

	t.Run("save updates existing book", func(t *testing.T) {
		repo := newSQLiteBookRepository(t)
		book := newPersistedBook(t, repo, "Dune", "Frank Herbert", "978-0441013593")

		productID := uuid.New()
		require.NoError(t, book.LinkProduct(productID))
		require.NoError(t, repo.Save(ctx, book))

		found, err := repo.FindByID(ctx, book.ID)
		require.NoError(t, err)
		require.NotNil(t, found.LinkedProductID)
		assert.Equal(t, productID, *found.LinkedProductID)
	})

	t.Run("repeated isbn creates a second book", func(t *testing.T) {
		repo := newSQLiteBookRepository(t)
		first := newPersistedBook(t, repo, "Dune", "Frank Herbert", "978-0441013593")
		second := newPersistedBook(t, repo, "Dune (reissue)", "Frank Herbert", "978-0441013593")
		assert.NotEqual(t, first.ID, second.ID)

		books, err := repo.FindAll(ctx, shared.Filter{Search: "978-0441013593"})
		require.NoError(t, err)
		assert.Len(t, books, 2)
	})

	t.Run("delete removes book", func(t *testing.T) {
		repo := newSQLiteBookRepository(t)
		book := newPersistedBook(t, repo, "Dune", "Frank Herbert", "978-0441013593")

		require.NoError(t, repo.Delete(ctx, book.ID))

		_, err := repo.FindByID(ctx, book.ID)
		assert.Equal(t, shared.ErrNotFound, err)
	})

	t.Run("delete of missing book returns ErrNotFound", func(t *testing.T) {
		repo := newSQLiteBookRepository(t)
		err := repo.Delete(ctx, uuid.New())
		assert.Equal(t, shared.ErrNotFound, err)
	})
}

func TestGormBookRepository_FindAll(t *testing.T) {
	ctx := context.Background()

	seed := func(t *testing.T) *GormBookRepository {
		repo := newSQLiteBookRepository(t)
		newPersistedBook(t, repo, "Dune", "Frank Herbert", "978-1")
		newPersistedBook(t, repo, "Dune Messiah", "Frank Herbert", "978-2")
		linked := newPersistedBook(t, repo, "Neuromancer", "William Gibson", "978-3")
		require.NoError(t, linked.LinkProduct(uuid.New()))
		require.NoError(t, repo.Save(ctx, linked))
		return repo
	}

	t.Run("search matches title and author", func(t *testing.T) {
		repo := seed(t)

		books, err := repo.FindAll(ctx, shared.Filter{Search: "Dune"})
		require.NoError(t, err)
		assert.Len(t, books, 2)

		books, err = repo.FindAll(ctx, shared.Filter{Search: "Gibson"})
		require.NoError(t, err)
		assert.Len(t, books, 1)
	})

	t.Run("author filter", func(t *testing.T) {
		repo := seed(t)

		books, err := repo.FindAll(ctx, shared.Filter{
			Filters: map[string]any{"author": "Frank Herbert"},
		})
		require.NoError(t, err)
		assert.Len(t, books, 2)
	})

	t.Run("linked filter", func(t *testing.T) {
		repo := seed(t)

		linked, err := repo.FindAll(ctx, shared.Filter{
			Filters: map[string]any{"linked": true},
		})
		require.NoError(t, err)
		require.Len(t, linked, 1)
		assert.Equal(t, "Neuromancer", linked[0].Title)

		unlinked, err := repo.FindAll(ctx, shared.Filter{
			Filters: map[string]any{"linked": false},
		})
		require.NoError(t, err)
		assert.Len(t, unlinked, 2)
	})

	t.Run("pagination", func(t *testing.T) {
		repo := seed(t)

		page, err := repo.FindAll(ctx, shared.Filter{Page: 1, PageSize: 2, OrderBy: "isbn", OrderDir: "asc"})
		require.NoError(t, err)
		require.Len(t, page, 2)
		assert.Equal(t, "978-1", page[0].ISBN)

		count, err := repo.Count(ctx, shared.Filter{})
		require.NoError(t, err)
		assert.Equal(t, int64(3), count)
	})
}
