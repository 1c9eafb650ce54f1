package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/satwatch/satwatch/internal/portfolio"
)

// SettingsHandler handles display-settings API requests
type SettingsHandler struct {
	store *portfolio.Store
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(store *portfolio.Store) *SettingsHandler {
	return &SettingsHandler{store: store}
}

// GetPrivacy returns the privacy-display flag
// GET /api/v1/settings/privacy
func (h *SettingsHandler) GetPrivacy(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"privacy": h.store.Privacy()})
}

type privacyRequest struct {
	Privacy *bool `json:"privacy" binding:"required"`
}

// SetPrivacy updates the privacy-display flag
// PUT /api/v1/settings/privacy
func (h *SettingsHandler) SetPrivacy(c *gin.Context) {
	var req privacyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "privacy is required"})
		return
	}

	if err := h.store.SetPrivacy(*req.Privacy); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"privacy": *req.Privacy})
}
