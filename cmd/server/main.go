package main

import (
	"fmt"
	"log"
	"os"

	"github.com/celiapp/catalog/config"
	httpDelivery "github.com/celiapp/catalog/internal/delivery/http"
	"github.com/celiapp/catalog/internal/infrastructure/runstore"
	"github.com/celiapp/catalog/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting Catalog Engine v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Run Store: %s", cfg.Store.Type)

	// Initialize infrastructure dependencies
	store, err := runstore.Open(cfg.Store.Type, cfg.Store.Path, cfg.Store.TTL)
	if err != nil {
		log.Fatalf("Failed to open run store: %v", err)
	}
	defer store.Close()
	log.Printf("Run report TTL: %s", cfg.Store.TTL)

	// Enable debug logging in development environment
	if cfg.Server.Environment == "development" && !cfg.Log.Debug {
		cfg.Log.Debug = true
		log.Printf("Pipeline debug logging enabled")
	}

	// Initialize usecase layer
	catalogService := usecase.NewCatalogService(store, cfg.CatalogService())

	log.Printf("Matching: duplicates=%s/%s (%.2f), backup=%.2f on %v, primary=%s",
		cfg.Matching.DuplicateMode,
		cfg.Matching.ClusterPolicy,
		cfg.Matching.FuzzyDuplicateThreshold,
		cfg.Matching.BackupThreshold,
		cfg.Matching.ReconciliationFields,
		cfg.Matching.PrimarySource)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(catalogService)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
