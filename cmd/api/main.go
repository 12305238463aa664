package main

import (
	"fmt"
	"os"

	"github.com/kurihiro0119/github-org-snapshot/internal/api"
	"github.com/kurihiro0119/github-org-snapshot/internal/config"
	"github.com/kurihiro0119/github-org-snapshot/internal/logging"
	"github.com/kurihiro0119/github-org-snapshot/internal/storage"
	"github.com/kurihiro0119/github-org-snapshot/internal/storage/postgres"
	"github.com/kurihiro0119/github-org-snapshot/internal/storage/sqlite"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if err := logging.Configure(cfg.LogFormat, cfg.LogLevel, cfg.LogOutput); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to configure logging: %v\n", err)
		os.Exit(1)
	}
	logger := logging.Default()

	// Initialize storage. The server always needs a database, so "none" falls back to SQLite.
	var store storage.Storage
	switch cfg.StorageType {
	case "postgres":
		store, err = postgres.NewPostgresStorage(cfg.PostgresURL)
		if err != nil {
			logger.Error("Failed to initialize PostgreSQL storage", "error", err)
			os.Exit(1)
		}
	default:
		store, err = sqlite.NewSQLiteStorage(cfg.SQLitePath)
		if err != nil {
			logger.Error("Failed to initialize SQLite storage", "error", err)
			os.Exit(1)
		}
	}
	defer store.Close()

	handler := api.NewHandler(store)
	router := api.SetupRoutes(handler, logger)

	// Start server
	addr := fmt.Sprintf("%s:%s", cfg.APIHost, cfg.APIPort)
	logger.Info("Starting API server", "addr", addr, "storage", cfg.StorageType)

	if err := router.Run(addr); err != nil {
		logger.Error("Failed to start server", "error", err)
		os.Exit(1)
	}
}
