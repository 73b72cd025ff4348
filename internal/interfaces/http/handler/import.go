package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/bookstore/backend/internal/application/importer"
	"github.com/bookstore/backend/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ImportHandler handles batch book import requests
type ImportHandler struct {
	BaseHandler
	service *importer.BookImportService
	auth    gin.HandlerFunc
}

// NewImportHandler creates a new ImportHandler. The auth middleware guards
// the import route.
func NewImportHandler(service *importer.BookImportService, auth gin.HandlerFunc) *ImportHandler {
	return &ImportHandler{service: service, auth: auth}
}

// RegisterRoutes registers the import routes
func (h *ImportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	if h.auth != nil {
		rg.POST("/import", h.auth, h.Import)
	} else {
		rg.POST("/import", h.Import)
	}
}

// Import ingests a JSON array of book records and returns one outcome per
// record. The response shape is fixed for importer clients: a valid batch
// always gets 200 with an "imported" array, a malformed payload gets 400
// with a bare "error" field.
func (h *ImportHandler) Import(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		logger.GetGinLogger(c).Warn("failed to read import body", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload format."})
		return
	}

	records, err := importer.ParseRecords(body)
	if err != nil {
		if errors.Is(err, importer.ErrInvalidPayload) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload format."})
			return
		}
		h.HandleError(c, err)
		return
	}

	outcomes := h.service.ImportBatch(c.Request.Context(), records)

	c.JSON(http.StatusOK, gin.H{"imported": outcomes})
}
