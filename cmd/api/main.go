package main

import (
	"fmt"
	"log"
	"os"

	"github.com/rs/zerolog"

	"github.com/kurihiro0119/github-release-delta/internal/api"
	"github.com/kurihiro0119/github-release-delta/internal/collector"
	"github.com/kurihiro0119/github-release-delta/internal/config"
	"github.com/kurihiro0119/github-release-delta/internal/scanner"
	"github.com/kurihiro0119/github-release-delta/internal/storage"
	"github.com/kurihiro0119/github-release-delta/internal/storage/postgres"
	"github.com/kurihiro0119/github-release-delta/internal/storage/sqlite"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Initialize storage
	var store storage.Storage
	switch cfg.StorageType {
	case "postgres":
		store, err = postgres.NewPostgresStorage(cfg.PostgresURL)
		if err != nil {
			log.Fatalf("Failed to initialize PostgreSQL storage: %v", err)
		}
	default:
		store, err = sqlite.NewSQLiteStorage(cfg.SQLitePath)
		if err != nil {
			log.Fatalf("Failed to initialize SQLite storage: %v", err)
		}
	}
	defer store.Close()

	// Initialize scanner
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()
	coll := collector.NewGitHubCollector(cfg.GitHubToken, logger)
	s := scanner.NewScanner(coll, logger, cfg.ScanConcurrency)

	// Initialize handler
	handler := api.NewHandler(s, store)

	// Setup routes
	router := api.SetupRoutes(handler)

	// Start server
	addr := fmt.Sprintf("%s:%s", cfg.APIHost, cfg.APIPort)
	fmt.Printf("Starting API server on %s\n", addr)
	fmt.Printf("Storage type: %s\n", cfg.StorageType)

	if err := router.Run(addr); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start server: %v\n", err)
		os.Exit(1)
	}
}
