package handler

import (
	"github.com/bookstore/backend/internal/domain/catalog"
	"github.com/bookstore/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// BookHandler handles book read endpoints
type BookHandler struct {
	BaseHandler
	books catalog.BookRepository
}

// NewBookHandler creates a new BookHandler
func NewBookHandler(books catalog.BookRepository) *BookHandler {
	return &BookHandler{books: books}
}

// RegisterRoutes registers the book read routes
func (h *BookHandler) RegisterRoutes(rg *gin.RouterGroup) {
	books := rg.Group("/books")
	{
		books.GET("", h.List)
		books.GET("/:id", h.Get)
	}
}

// List returns a paginated list of books
func (h *BookHandler) List(c *gin.Context) {
	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid list parameters")
		return
	}

	filter := req.ToFilter()

	if status := c.Query("status"); status != "" {
		filter.Filters = map[string]any{"status": status}
	}

	books, err := h.books.FindAll(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	total, err := h.books.Count(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]dto.BookResponse, 0, len(books))
	for i := range books {
		responses = append(responses, toBookResponse(&books[i]))
	}

	h.SuccessWithMeta(c, responses, total, req.Page, req.PageSize)
}

// Get returns a single book by ID
func (h *BookHandler) Get(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid book ID")
		return
	}

	id, err := uuid.Parse(req.ID)
	if err != nil {
		h.BadRequest(c, "Invalid book ID")
		return
	}

	book, err := h.books.FindByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toBookResponse(book))
}

func toBookResponse(book *catalog.Book) dto.BookResponse {
	resp := dto.BookResponse{
		ID:              book.ID.String(),
		Title:           book.Title,
		Author:          book.Author,
		ISBN:            book.ISBN,
		Price:           book.Price.InexactFloat64(),
		Status:          string(book.Status),
		Publisher:       book.Publisher,
		PublicationYear: book.PublicationYear,
		CoverImageURL:   book.CoverImageURL,
		CreatedAt:       book.CreatedAt,
		UpdatedAt:       book.UpdatedAt,
	}
	if book.LinkedProductID != nil {
		resp.ProductID = book.LinkedProductID.String()
	}
	return resp
}
