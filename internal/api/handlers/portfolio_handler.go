package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/satwatch/satwatch/internal/models"
	"github.com/satwatch/satwatch/internal/portfolio"
	"github.com/satwatch/satwatch/internal/refresh"
)

// PortfolioHandler handles tracked-address API requests
type PortfolioHandler struct {
	store     *portfolio.Store
	refresher *refresh.Refresher
	balances  refresh.BalanceSource
}

// NewPortfolioHandler creates a new PortfolioHandler
func NewPortfolioHandler(store *portfolio.Store, refresher *refresh.Refresher, balances refresh.BalanceSource) *PortfolioHandler {
	return &PortfolioHandler{
		store:     store,
		refresher: refresher,
		balances:  balances,
	}
}

// Get returns the full portfolio state for display
// GET /api/v1/portfolio
func (h *PortfolioHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"addresses": h.store.Snapshot(),
		"price":     h.refresher.Price(),
		"fees":      h.refresher.Fees(),
		"privacy":   h.store.Privacy(),
	})
}

type createAddressRequest struct {
	Address string `json:"address" binding:"required"`
	Label   string `json:"label"`
	Group   string `json:"group"`
}

// Create tracks a new address. The initial fetch runs first: when the
// ledger service cannot resolve the address, no record is created.
// POST /api/v1/addresses
func (h *PortfolioHandler) Create(c *gin.Context) {
	var req createAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "address is required"})
		return
	}

	res, err := h.balances.FetchAddress(c.Request.Context(), req.Address)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("%v: %s", models.ErrInvalidAddress, req.Address)})
		return
	}

	rec, err := h.store.Add(req.Address, req.Label, req.Group, *res)
	if err != nil {
		if errors.Is(err, portfolio.ErrDuplicateAddress) {
			c.JSON(http.StatusConflict, gin.H{"error": "address already tracked"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, rec)
}

type updateAddressRequest struct {
	Label string `json:"label"`
	Group string `json:"group"`
}

// Update changes a record's label and/or group
// PATCH /api/v1/addresses/:id
func (h *PortfolioHandler) Update(c *gin.Context) {
	var req updateAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	rec, err := h.store.UpdateDetails(c.Param("id"), req.Label, req.Group)
	if err != nil {
		if errors.Is(err, portfolio.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "address not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, rec)
}

// Delete stops tracking an address. Removal is permanent.
// DELETE /api/v1/addresses/:id
func (h *PortfolioHandler) Delete(c *gin.Context) {
	if err := h.store.Remove(c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// Refresh triggers an on-demand refresh cycle
// POST /api/v1/refresh
func (h *PortfolioHandler) Refresh(c *gin.Context) {
	if !h.refresher.Trigger() {
		c.JSON(http.StatusConflict, gin.H{"error": "refresh already running"})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "started"})
}
