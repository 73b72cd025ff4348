package importer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/bookstore/backend/internal/domain/catalog"
	"github.com/bookstore/backend/internal/domain/commerce"
	"github.com/bookstore/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockBookRepository is a mock implementation of catalog.BookRepository
type MockBookRepository struct {
	mock.Mock
}

func (m *MockBookRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Book, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Book), args.Error(1)
}

func (m *MockBookRepository) FindByISBN(ctx context.Context, isbn string) (*catalog.Book, error) {
	args := m.Called(ctx, isbn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Book), args.Error(1)
}

func (m *MockBookRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Book, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Book), args.Error(1)
}

func (m *MockBookRepository) Save(ctx context.Context, book *catalog.Book) error {
	args := m.Called(ctx, book)
	return args.Error(0)
}

func (m *MockBookRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockBookRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockStore is a mock implementation of commerce.Store
type MockStore struct {
	mock.Mock
}

func (m *MockStore) IsAvailable(ctx context.Context) bool {
	args := m.Called(ctx)
	return args.Bool(0)
}

func (m *MockStore) CreateProduct(ctx context.Context, spec commerce.ProductSpec) (*commerce.ProductRef, error) {
	args := m.Called(ctx, spec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*commerce.ProductRef), args.Error(1)
}

func (m *MockStore) LinkBook(ctx context.Context, productID, bookID uuid.UUID) error {
	args := m.Called(ctx, productID, bookID)
	return args.Error(0)
}

// MockEventPublisher is a mock implementation of shared.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

func floatPtr(v float64) *float64 {
	return &v
}

func newAvailableStore(productID uuid.UUID) *MockStore {
	store := new(MockStore)
	store.On("IsAvailable", mock.Anything).Return(true)
	store.On("CreateProduct", mock.Anything, mock.Anything).
		Return(&commerce.ProductRef{ID: productID}, nil)
	store.On("LinkBook", mock.Anything, productID, mock.Anything).Return(nil)
	return store
}

func TestBookImportService_ImportBatch_FullRecord(t *testing.T) {
	ctx := context.Background()
	productID := uuid.New()

	bookRepo := new(MockBookRepository)
	bookRepo.On("Save", mock.Anything, mock.Anything).Return(nil)
	store := newAvailableStore(productID)
	service := NewBookImportService(bookRepo, store, nil, zap.NewNop())

	outcomes := service.ImportBatch(ctx, []BookRecord{
		{
			Title:  "The Go Programming Language",
			Author: "Donovan & Kernighan",
			ISBN:   "978-0134190440",
			Price:  floatPtr(39.99),
		},
	})

	require.Len(t, outcomes, 1)
	outcome := outcomes[0]
	assert.Equal(t, StatusImported, outcome.Status)
	assert.Equal(t, "The Go Programming Language", outcome.BookTitle)
	assert.Equal(t, "Donovan & Kernighan", outcome.Author)
	assert.Equal(t, "978-0134190440", outcome.ISBN)
	assert.Equal(t, 39.99, outcome.Price)
	assert.NotEmpty(t, outcome.BookID)
	assert.Equal(t, productID.String(), outcome.ProductID)
	assert.Empty(t, outcome.Message)

	bookRepo.AssertNumberOfCalls(t, "Save", 2)
	store.AssertExpectations(t)
}

func TestBookImportService_ImportBatch_AppliesDefaults(t *testing.T) {
	ctx := context.Background()

	bookRepo := new(MockBookRepository)
	bookRepo.On("Save", mock.Anything, mock.Anything).Return(nil)
	store := newAvailableStore(uuid.New())
	service := NewBookImportService(bookRepo, store, nil, zap.NewNop())

	outcomes := service.ImportBatch(ctx, []BookRecord{{}})

	require.Len(t, outcomes, 1)
	outcome := outcomes[0]
	assert.Equal(t, StatusImported, outcome.Status)
	assert.Equal(t, DefaultTitle, outcome.BookTitle)
	assert.Equal(t, DefaultAuthor, outcome.Author)
	assert.True(t, strings.HasPrefix(outcome.ISBN, "BOOK-"), "generated ISBN %q", outcome.ISBN)
	assert.Equal(t, 0.0, outcome.Price)
}

func TestBookImportService_ImportBatch_GeneratedISBNsAreUnique(t *testing.T) {
	ctx := context.Background()

	bookRepo := new(MockBookRepository)
	bookRepo.On("Save", mock.Anything, mock.Anything).Return(nil)
	store := newAvailableStore(uuid.New())
	service := NewBookImportService(bookRepo, store, nil, zap.NewNop())

	outcomes := service.ImportBatch(ctx, []BookRecord{{}, {}, {}})

	require.Len(t, outcomes, 3)
	seen := make(map[string]bool)
	for _, outcome := range outcomes {
		assert.False(t, seen[outcome.ISBN], "duplicate generated ISBN %q", outcome.ISBN)
		seen[outcome.ISBN] = true
	}
}

func TestBookImportService_ImportBatch_RepeatedISBNImportsBoth(t *testing.T) {
	ctx := context.Background()

	bookRepo := new(MockBookRepository)
	bookRepo.On("Save", mock.Anything, mock.Anything).Return(nil)
	store := newAvailableStore(uuid.New())
	service := NewBookImportService(bookRepo, store, nil, zap.NewNop())

	outcomes := service.ImportBatch(ctx, []BookRecord{
		{Title: "Dune", Author: "Frank Herbert", ISBN: "978-0441013593"},
		{Title: "Dune", Author: "Frank Herbert", ISBN: "978-0441013593"},
	})

	require.Len(t, outcomes, 2)
	assert.Equal(t, StatusImported, outcomes[0].Status)
	assert.Equal(t, StatusImported, outcomes[1].Status)
	// No dedup lookup happens; each record gets its own book.
	bookRepo.AssertNotCalled(t, "FindByISBN", mock.Anything, mock.Anything)
	assert.NotEqual(t, outcomes[0].BookID, outcomes[1].BookID)
}

func TestBookImportService_ImportBatch_SaveFailure(t *testing.T) {
	ctx := context.Background()

	bookRepo := new(MockBookRepository)
	bookRepo.On("Save", mock.Anything, mock.Anything).Return(errors.New("connection refused"))
	store := new(MockStore)
	service := NewBookImportService(bookRepo, store, nil, zap.NewNop())

	outcomes := service.ImportBatch(ctx, []BookRecord{
		{Title: "Broken", Author: "Nobody", ISBN: "111"},
	})

	require.Len(t, outcomes, 1)
	assert.Equal(t, StatusError, outcomes[0].Status)
	assert.Equal(t, "connection refused", outcomes[0].Message)
	assert.Empty(t, outcomes[0].BookID)
	store.AssertNotCalled(t, "CreateProduct", mock.Anything, mock.Anything)
}

func TestBookImportService_ImportBatch_CommerceUnavailable(t *testing.T) {
	ctx := context.Background()

	bookRepo := new(MockBookRepository)
	bookRepo.On("Save", mock.Anything, mock.Anything).Return(nil)
	store := new(MockStore)
	store.On("IsAvailable", mock.Anything).Return(false)
	service := NewBookImportService(bookRepo, store, nil, zap.NewNop())

	outcomes := service.ImportBatch(ctx, []BookRecord{
		{Title: "Orphan", Author: "Someone", ISBN: "222"},
	})

	require.Len(t, outcomes, 1)
	outcome := outcomes[0]
	assert.Equal(t, StatusError, outcome.Status)
	assert.Equal(t, shared.ErrCommerceUnavailable.Message, outcome.Message)
	assert.Empty(t, outcome.BookID)
	assert.Empty(t, outcome.ProductID)

	// The book stays persisted by default, no rollback.
	bookRepo.AssertNumberOfCalls(t, "Save", 1)
	bookRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "CreateProduct", mock.Anything, mock.Anything)
}

func TestBookImportService_ImportBatch_CommerceUnavailableWithRollback(t *testing.T) {
	ctx := context.Background()

	bookRepo := new(MockBookRepository)
	bookRepo.On("Save", mock.Anything, mock.Anything).Return(nil)
	bookRepo.On("Delete", mock.Anything, mock.Anything).Return(nil)
	store := new(MockStore)
	store.On("IsAvailable", mock.Anything).Return(false)
	service := NewBookImportService(bookRepo, store, nil, zap.NewNop(), WithOrphanRollback(true))

	outcomes := service.ImportBatch(ctx, []BookRecord{
		{Title: "Orphan", Author: "Someone", ISBN: "333"},
	})

	require.Len(t, outcomes, 1)
	assert.Equal(t, StatusError, outcomes[0].Status)
	assert.Equal(t, shared.ErrCommerceUnavailable.Message, outcomes[0].Message)
	bookRepo.AssertNumberOfCalls(t, "Delete", 1)
}

func TestBookImportService_ImportBatch_ProductCreationFailure(t *testing.T) {
	ctx := context.Background()

	bookRepo := new(MockBookRepository)
	bookRepo.On("Save", mock.Anything, mock.Anything).Return(nil)
	store := new(MockStore)
	store.On("IsAvailable", mock.Anything).Return(true)
	store.On("CreateProduct", mock.Anything, mock.Anything).
		Return(nil, shared.NewDomainError("INVALID_SKU", "Product SKU cannot be empty"))
	service := NewBookImportService(bookRepo, store, nil, zap.NewNop())

	outcomes := service.ImportBatch(ctx, []BookRecord{
		{Title: "Half Imported", Author: "Someone", ISBN: "444"},
	})

	require.Len(t, outcomes, 1)
	assert.Equal(t, StatusError, outcomes[0].Status)
	assert.Equal(t, "Product SKU cannot be empty", outcomes[0].Message)

	// Only the initial save happened, linking never ran.
	bookRepo.AssertNumberOfCalls(t, "Save", 1)
	store.AssertNotCalled(t, "LinkBook", mock.Anything, mock.Anything, mock.Anything)
}

func TestBookImportService_ImportBatch_FailureDoesNotAbortBatch(t *testing.T) {
	ctx := context.Background()
	productID := uuid.New()

	saveErr := errors.New("disk full")
	bookRepo := new(MockBookRepository)
	bookRepo.On("Save", mock.Anything, mock.MatchedBy(func(b *catalog.Book) bool {
		return b.ISBN == "bad"
	})).Return(saveErr)
	bookRepo.On("Save", mock.Anything, mock.Anything).Return(nil)
	store := newAvailableStore(productID)
	service := NewBookImportService(bookRepo, store, nil, zap.NewNop())

	outcomes := service.ImportBatch(ctx, []BookRecord{
		{Title: "First", Author: "A", ISBN: "bad"},
		{Title: "Second", Author: "B", ISBN: "ok"},
	})

	require.Len(t, outcomes, 2)
	assert.Equal(t, StatusError, outcomes[0].Status)
	assert.Equal(t, "First", outcomes[0].BookTitle)
	assert.Equal(t, StatusImported, outcomes[1].Status)
	assert.Equal(t, "Second", outcomes[1].BookTitle)
}

func TestBookImportService_ImportBatch_PublishesEvents(t *testing.T) {
	ctx := context.Background()

	bookRepo := new(MockBookRepository)
	bookRepo.On("Save", mock.Anything, mock.Anything).Return(nil)
	store := newAvailableStore(uuid.New())
	eventBus := new(MockEventPublisher)
	eventBus.On("Publish", mock.Anything, mock.Anything).Return(nil)
	service := NewBookImportService(bookRepo, store, eventBus, zap.NewNop())

	outcomes := service.ImportBatch(ctx, []BookRecord{
		{Title: "Eventful", Author: "C", ISBN: "555"},
	})

	require.Len(t, outcomes, 1)
	assert.Equal(t, StatusImported, outcomes[0].Status)
	// Created event after the first save, linked event after the second.
	eventBus.AssertNumberOfCalls(t, "Publish", 2)
}

func TestBookImportService_ImportBatch_EventPublishFailureIsNonFatal(t *testing.T) {
	ctx := context.Background()

	bookRepo := new(MockBookRepository)
	bookRepo.On("Save", mock.Anything, mock.Anything).Return(nil)
	store := newAvailableStore(uuid.New())
	eventBus := new(MockEventPublisher)
	eventBus.On("Publish", mock.Anything, mock.Anything).Return(errors.New("bus down"))
	service := NewBookImportService(bookRepo, store, eventBus, zap.NewNop())

	outcomes := service.ImportBatch(ctx, []BookRecord{
		{Title: "Still Fine", Author: "D", ISBN: "666"},
	})

	require.Len(t, outcomes, 1)
	assert.Equal(t, StatusImported, outcomes[0].Status)
}

func TestBookImportService_ImportBatch_NegativePrice(t *testing.T) {
	ctx := context.Background()

	bookRepo := new(MockBookRepository)
	store := new(MockStore)
	service := NewBookImportService(bookRepo, store, nil, zap.NewNop())

	outcomes := service.ImportBatch(ctx, []BookRecord{
		{Title: "Cheapskate", Author: "E", ISBN: "777", Price: floatPtr(-1)},
	})

	require.Len(t, outcomes, 1)
	assert.Equal(t, StatusError, outcomes[0].Status)
	assert.Equal(t, "Price cannot be negative", outcomes[0].Message)
	bookRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestBookImportService_ImportBatch_SKUMatchesISBN(t *testing.T) {
	ctx := context.Background()
	productID := uuid.New()

	bookRepo := new(MockBookRepository)
	bookRepo.On("Save", mock.Anything, mock.Anything).Return(nil)
	store := new(MockStore)
	store.On("IsAvailable", mock.Anything).Return(true)
	store.On("CreateProduct", mock.Anything, mock.MatchedBy(func(spec commerce.ProductSpec) bool {
		return spec.SKU == "978-1" && spec.Name == "Skew" &&
			spec.RegularPrice.Equal(decimal.NewFromFloat(12.5))
	})).Return(&commerce.ProductRef{ID: productID, SKU: "978-1"}, nil)
	store.On("LinkBook", mock.Anything, productID, mock.Anything).Return(nil)
	service := NewBookImportService(bookRepo, store, nil, zap.NewNop())

	outcomes := service.ImportBatch(ctx, []BookRecord{
		{Title: "Skew", Author: "F", ISBN: "978-1", Price: floatPtr(12.5)},
	})

	require.Len(t, outcomes, 1)
	assert.Equal(t, StatusImported, outcomes[0].Status)
	store.AssertExpectations(t)
}
