package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/satwatch/satwatch/internal/portfolio"
	"github.com/satwatch/satwatch/internal/refresh"
)

// AggregateHandler handles holdings-breakdown API requests
type AggregateHandler struct {
	store     *portfolio.Store
	refresher *refresh.Refresher
}

// NewAggregateHandler creates a new AggregateHandler
func NewAggregateHandler(store *portfolio.Store, refresher *refresh.Refresher) *AggregateHandler {
	return &AggregateHandler{store: store, refresher: refresher}
}

// GetGroups returns holdings grouped by user-assigned category
// GET /api/v1/aggregates/groups
func (h *AggregateHandler) GetGroups(c *gin.Context) {
	rows := portfolio.ByGroup(h.store.Snapshot(), h.refresher.Price())
	c.JSON(http.StatusOK, gin.H{
		"count": len(rows),
		"rows":  rows,
	})
}

// GetAddresses returns holdings per individual address
// GET /api/v1/aggregates/addresses
func (h *AggregateHandler) GetAddresses(c *gin.Context) {
	rows := portfolio.ByAddress(h.store.Snapshot(), h.refresher.Price())
	c.JSON(http.StatusOK, gin.H{
		"count": len(rows),
		"rows":  rows,
	})
}
