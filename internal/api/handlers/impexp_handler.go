package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/satwatch/satwatch/internal/models"
	"github.com/satwatch/satwatch/internal/portfolio"
)

// ImpExpHandler handles portable-document import/export requests
type ImpExpHandler struct {
	store *portfolio.Store
}

// NewImpExpHandler creates a new ImpExpHandler
func NewImpExpHandler(store *portfolio.Store) *ImpExpHandler {
	return &ImpExpHandler{store: store}
}

// Export serves the current collection as a downloadable document
// GET /api/v1/export
func (h *ImpExpHandler) Export(c *gin.Context) {
	data, err := portfolio.Export(h.store.Snapshot())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="satwatch-addresses.json"`)
	c.Data(http.StatusOK, "application/json", data)
}

// Import validates a portable document and replaces the collection with
// it. A document that fails validation leaves the store unchanged.
// POST /api/v1/import
func (h *ImpExpHandler) Import(c *gin.Context) {
	data, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
		return
	}

	records, err := portfolio.Import(data)
	if err != nil {
		if errors.Is(err, models.ErrInvalidFormat) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := h.store.ReplaceAll(records); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"imported": len(records)})
}
