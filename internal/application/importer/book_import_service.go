package importer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bookstore/backend/internal/domain/catalog"
	"github.com/bookstore/backend/internal/domain/commerce"
	"github.com/bookstore/backend/internal/domain/shared"
	"github.com/bookstore/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// Defaults applied to records with missing fields
const (
	DefaultTitle  = "Untitled Book"
	DefaultAuthor = "Unknown Author"
)

// ImportStatus is the per-record outcome status
type ImportStatus string

const (
	StatusImported ImportStatus = "imported"
	StatusError    ImportStatus = "error"
)

// ImportOutcome is the per-record result reported back to the caller.
// It echoes the (defaulted) input fields plus the outcome of the record.
type ImportOutcome struct {
	BookTitle string       `json:"book_title"`
	Author    string       `json:"author"`
	ISBN      string       `json:"isbn"`
	Price     float64      `json:"price"`
	Status    ImportStatus `json:"status"`
	BookID    string       `json:"book_id,omitempty"`
	ProductID string       `json:"product_id,omitempty"`
	Message   string       `json:"message,omitempty"`
}

// BookImportService orchestrates the import of a batch of book records.
// Records are processed sequentially and independently: a failing record
// never aborts the batch, and there is no cross-record transaction.
type BookImportService struct {
	bookRepo catalog.BookRepository
	store    commerce.Store
	eventBus shared.EventPublisher
	logger   *zap.Logger

	// rollbackOrphans controls whether a book created while the commerce
	// subsystem is unavailable is deleted again. The source system kept the
	// orphan silently; that stays the default.
	rollbackOrphans bool

	isbnSeqMu   sync.Mutex
	isbnSeqDate string
	isbnSeqNum  int64
}

// ImportOption configures a BookImportService
type ImportOption func(*BookImportService)

// WithOrphanRollback enables deleting books whose product could not be
// created because the commerce subsystem is unavailable.
func WithOrphanRollback(enabled bool) ImportOption {
	return func(s *BookImportService) {
		s.rollbackOrphans = enabled
	}
}

// NewBookImportService creates a new BookImportService
func NewBookImportService(
	bookRepo catalog.BookRepository,
	store commerce.Store,
	eventBus shared.EventPublisher,
	logger *zap.Logger,
	opts ...ImportOption,
) *BookImportService {
	s := &BookImportService{
		bookRepo: bookRepo,
		store:    store,
		eventBus: eventBus,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ImportBatch imports the given records one at a time and returns one outcome
// per record, in input order. It never returns an error: every failure is
// represented as data in the outcome sequence.
func (s *BookImportService) ImportBatch(ctx context.Context, records []BookRecord) []ImportOutcome {
	ctx, span := telemetry.StartSpan(ctx, "book_import.batch",
		telemetry.WithAttribute("record_count", len(records)),
	)
	defer span.End()

	outcomes := make([]ImportOutcome, 0, len(records))
	for _, record := range records {
		outcomes = append(outcomes, s.importRecord(ctx, record))
	}

	return outcomes
}

// importRecord wraps a single record in its own span so per-record failures
// are visible in traces without failing the batch span.
func (s *BookImportService) importRecord(ctx context.Context, record BookRecord) ImportOutcome {
	ctx, span := telemetry.StartSpan(ctx, "book_import.record")
	defer span.End()

	outcome := s.processRecord(ctx, record)
	telemetry.SetAttributes(ctx, attribute.String("import.status", string(outcome.Status)))
	if outcome.Status == StatusError {
		telemetry.RecordError(span, errors.New(outcome.Message))
	}
	return outcome
}

// processRecord handles defaulting, book creation, product creation, and
// cross-linking. Any store failure is terminal for this record only.
func (s *BookImportService) processRecord(ctx context.Context, record BookRecord) ImportOutcome {
	title, author, isbn, price := s.applyDefaults(record)

	outcome := ImportOutcome{
		BookTitle: title,
		Author:    author,
		ISBN:      isbn,
		Price:     price,
	}

	book, err := catalog.NewBook(title)
	if err != nil {
		return s.recordError(outcome, err)
	}
	if err := book.SetBibliography(isbn, author, decimal.NewFromFloat(price)); err != nil {
		return s.recordError(outcome, err)
	}
	if record.Publisher != "" || record.Year != 0 || record.ImageURL != "" {
		book.SetPublication(record.Publisher, record.Year, record.ImageURL)
	}

	if err := s.bookRepo.Save(ctx, book); err != nil {
		s.logger.Warn("failed to persist book",
			zap.String("isbn", isbn),
			zap.Error(err),
		)
		return s.recordError(outcome, err)
	}
	s.publishEvents(ctx, book)

	if !s.store.IsAvailable(ctx) {
		if s.rollbackOrphans {
			if err := s.bookRepo.Delete(ctx, book.ID); err != nil {
				s.logger.Error("failed to roll back orphan book",
					zap.String("book_id", book.ID.String()),
					zap.Error(err),
				)
			}
		}
		// The book stays persisted (unless rolled back) but the outcome is
		// still an error, and its id is deliberately not surfaced.
		return s.recordError(outcome, shared.ErrCommerceUnavailable)
	}

	ref, err := s.store.CreateProduct(ctx, commerce.ProductSpec{
		Name:         title,
		SKU:          isbn,
		RegularPrice: decimal.NewFromFloat(price),
	})
	if err != nil {
		// The book is kept: partial failure is visible at record granularity.
		return s.recordError(outcome, err)
	}

	if err := book.LinkProduct(ref.ID); err != nil {
		return s.recordError(outcome, err)
	}
	if err := s.bookRepo.Save(ctx, book); err != nil {
		return s.recordError(outcome, err)
	}
	if err := s.store.LinkBook(ctx, ref.ID, book.ID); err != nil {
		return s.recordError(outcome, err)
	}
	s.publishEvents(ctx, book)

	outcome.Status = StatusImported
	outcome.BookID = book.ID.String()
	outcome.ProductID = ref.ID.String()
	return outcome
}

// applyDefaults fills missing record fields per the import contract
func (s *BookImportService) applyDefaults(record BookRecord) (title, author, isbn string, price float64) {
	title = record.Title
	if title == "" {
		title = DefaultTitle
	}
	author = record.Author
	if author == "" {
		author = DefaultAuthor
	}
	isbn = record.ISBN
	if isbn == "" {
		isbn = s.generateISBN()
	}
	if record.Price != nil {
		price = *record.Price
	}
	return title, author, isbn, price
}

func (s *BookImportService) recordError(outcome ImportOutcome, err error) ImportOutcome {
	outcome.Status = StatusError

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		outcome.Message = domainErr.Message
	} else {
		outcome.Message = err.Error()
	}
	return outcome
}

func (s *BookImportService) publishEvents(ctx context.Context, book *catalog.Book) {
	if s.eventBus == nil {
		return
	}
	events := book.GetDomainEvents()
	if len(events) > 0 {
		if err := s.eventBus.Publish(ctx, events...); err != nil {
			s.logger.Warn("failed to publish domain events",
				zap.String("book_id", book.ID.String()),
				zap.Error(err),
			)
		}
	}
	book.ClearDomainEvents()
}

// generateISBN generates a record-unique placeholder token in the format
// BOOK-{YYYYMMDD}-{SEQ}. The sequence is seeded from the clock so it stays
// unique across service restarts within a day.
func (s *BookImportService) generateISBN() string {
	s.isbnSeqMu.Lock()
	defer s.isbnSeqMu.Unlock()

	today := time.Now().Format("20060102")
	if s.isbnSeqDate != today {
		s.isbnSeqDate = today
		s.isbnSeqNum = time.Now().UnixMilli() % 100000
	}

	s.isbnSeqNum++
	return fmt.Sprintf("BOOK-%s-%06d", today, s.isbnSeqNum)
}
