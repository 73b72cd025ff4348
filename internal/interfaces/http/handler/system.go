package handler

import (
	"net/http"

	"github.com/bookstore/backend/internal/domain/commerce"
	"github.com/bookstore/backend/internal/infrastructure/persistence"
	"github.com/gin-gonic/gin"
)

// SystemHandler serves health and readiness endpoints
type SystemHandler struct {
	db    *persistence.Database
	store commerce.Store
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(db *persistence.Database, store commerce.Store) *SystemHandler {
	return &SystemHandler{db: db, store: store}
}

// RegisterRoutes registers the system routes
func (h *SystemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", h.Health)
	rg.GET("/ready", h.Ready)
}

// Health reports liveness
func (h *SystemHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready reports readiness of downstream dependencies
func (h *SystemHandler) Ready(c *gin.Context) {
	checks := gin.H{
		"database": "ok",
		"commerce": "inactive",
	}
	status := http.StatusOK

	if h.db != nil {
		if err := h.db.Ping(); err != nil {
			checks["database"] = "unavailable"
			status = http.StatusServiceUnavailable
		}
	}

	if h.store != nil && h.store.IsAvailable(c.Request.Context()) {
		checks["commerce"] = "ok"
	}

	c.JSON(status, checks)
}
