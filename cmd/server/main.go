package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/satwatch/satwatch/internal/api"
	"github.com/satwatch/satwatch/internal/config"
	"github.com/satwatch/satwatch/internal/esplora"
	"github.com/satwatch/satwatch/internal/feeds"
	"github.com/satwatch/satwatch/internal/portfolio"
	"github.com/satwatch/satwatch/internal/refresh"
	"github.com/satwatch/satwatch/internal/storage"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Println("Starting satwatch server...")

	// Open the local database
	log.Printf("Opening Pebble database at %s", cfg.Pebble.Path)
	db, err := storage.NewPebbleDB(cfg.Pebble.Path)
	if err != nil {
		log.Fatalf("Failed to open Pebble database: %v", err)
	}

	// Load persisted state
	portfolioStore := storage.NewPortfolioStore(db)
	records, err := portfolioStore.LoadAddresses()
	if err != nil {
		log.Fatalf("Failed to load addresses: %v", err)
	}
	privacy, err := portfolioStore.LoadPrivacy()
	if err != nil {
		log.Fatalf("Failed to load settings: %v", err)
	}
	log.Printf("Loaded %d tracked addresses", len(records))

	store := portfolio.NewStore(portfolioStore, records, privacy)

	// External data sources
	balances := esplora.NewClient(cfg.Esplora.BaseURL, time.Duration(cfg.Esplora.TimeoutSeconds)*time.Second)
	prices := feeds.NewPriceClient(cfg.Price.BaseURL, cfg.Price.AssetID, cfg.Price.FiatCurrency, time.Duration(cfg.Price.TimeoutSeconds)*time.Second)
	fees := feeds.NewFeeClient(cfg.Fees.BaseURL, time.Duration(cfg.Fees.TimeoutSeconds)*time.Second)

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start the periodic refresher
	refresher := refresh.NewRefresher(store, balances, prices, fees, time.Duration(cfg.Refresh.IntervalSeconds)*time.Second)
	refresher.Start(ctx)
	log.Printf("Refresher started (interval: %ds)", cfg.Refresh.IntervalSeconds)

	// Initialize API router
	router := api.NewRouter(store, refresher, balances)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router.Engine(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start HTTP server in goroutine
	go func() {
		log.Printf("HTTP server listening on %s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")

	// Stop the refresher; an in-flight cycle completes and merges
	cancel()
	refresher.Stop()

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	// Close the database last: the refresher may persist during shutdown
	if err := db.Close(); err != nil {
		log.Printf("Error closing database: %v", err)
	}

	log.Println("Server stopped")
}
