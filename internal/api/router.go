package api

import (
	"github.com/gin-gonic/gin"

	"github.com/satwatch/satwatch/internal/api/handlers"
	"github.com/satwatch/satwatch/internal/api/middleware"
	"github.com/satwatch/satwatch/internal/portfolio"
	"github.com/satwatch/satwatch/internal/refresh"
)

// Router wraps the Gin router with handlers
type Router struct {
	engine           *gin.Engine
	portfolioHandler *handlers.PortfolioHandler
	aggregateHandler *handlers.AggregateHandler
	impexpHandler    *handlers.ImpExpHandler
	settingsHandler  *handlers.SettingsHandler
}

// NewRouter creates a new Router with all handlers
func NewRouter(store *portfolio.Store, refresher *refresh.Refresher, balances refresh.BalanceSource) *Router {
	gin.SetMode(gin.ReleaseMode)

	r := &Router{
		engine:           gin.New(),
		portfolioHandler: handlers.NewPortfolioHandler(store, refresher, balances),
		aggregateHandler: handlers.NewAggregateHandler(store, refresher),
		impexpHandler:    handlers.NewImpExpHandler(store),
		settingsHandler:  handlers.NewSettingsHandler(store),
	}

	r.setupMiddleware()
	r.setupRoutes()

	return r
}

// setupMiddleware configures middleware
func (r *Router) setupMiddleware() {
	r.engine.Use(middleware.Recovery())
	r.engine.Use(middleware.Logger())
	r.engine.Use(middleware.CORS())
}

// setupRoutes configures API routes
func (r *Router) setupRoutes() {
	// Health check
	r.engine.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes
	v1 := r.engine.Group("/api/v1")
	{
		v1.GET("/portfolio", r.portfolioHandler.Get)
		v1.POST("/refresh", r.portfolioHandler.Refresh)

		// Tracked address routes
		addresses := v1.Group("/addresses")
		{
			addresses.POST("", r.portfolioHandler.Create)
			addresses.PATCH("/:id", r.portfolioHandler.Update)
			addresses.DELETE("/:id", r.portfolioHandler.Delete)
		}

		// Aggregate view routes
		aggregates := v1.Group("/aggregates")
		{
			aggregates.GET("/groups", r.aggregateHandler.GetGroups)
			aggregates.GET("/addresses", r.aggregateHandler.GetAddresses)
		}

		// Portable document routes
		v1.GET("/export", r.impexpHandler.Export)
		v1.POST("/import", r.impexpHandler.Import)

		// Settings routes
		settings := v1.Group("/settings")
		{
			settings.GET("/privacy", r.settingsHandler.GetPrivacy)
			settings.PUT("/privacy", r.settingsHandler.SetPrivacy)
		}
	}
}

// Engine returns the underlying Gin engine
func (r *Router) Engine() *gin.Engine {
	return r.engine
}

// Run starts the HTTP server
func (r *Router) Run(addr string) error {
	return r.engine.Run(addr)
}
