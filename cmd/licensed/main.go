package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/vdpcore/licensed/internal/api"
	"github.com/vdpcore/licensed/internal/config"
	"github.com/vdpcore/licensed/internal/db"
	"github.com/vdpcore/licensed/internal/db/repository"
	"github.com/vdpcore/licensed/internal/license"
	"github.com/vdpcore/licensed/internal/store"
)

var (
	// Version information (set via ldflags)
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		fmt.Printf("VDP Core License Server\n")
		fmt.Printf("Version:    %s\n", Version)
		fmt.Printf("Commit:     %s\n", Commit)
		fmt.Printf("Build Time: %s\n", BuildTime)
		os.Exit(0)
	}

	log.Printf("Starting VDP Core License Server %s (commit: %s)", Version, Commit)

	// Load configuration
	log.Printf("Loading configuration from %s", *configPath)
	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := newLogger(cfg.Logging)
	slog.SetDefault(logger)

	// Select the license store
	var licenseStore license.Store
	var audit license.AuditSink

	switch cfg.Storage.Driver {
	case "sqlite":
		log.Printf("Connecting to database: %s", cfg.Storage.Path)
		database, err := db.New(cfg.Storage.Path)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer database.Close()

		log.Printf("Running database migrations...")
		if err := db.RunMigrations(database); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}

		licenseStore = repository.NewLicenseRepository(database.DB)
		audit = repository.NewAuditRepository(database.DB)
	default:
		// The in-memory store is the historical behavior: issued licenses
		// are lost on restart
		log.Printf("Using in-memory license store (records are lost on restart)")
		licenseStore = store.NewMemory()
		audit = license.NewLogAudit(logger)
	}

	issuer := license.NewIssuer(licenseStore)

	// Create HTTP server
	server := api.NewServer(cfg, issuer, audit, logger)

	// Setup graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Start server in a goroutine
	go func() {
		log.Printf("Starting HTTP server on %s", cfg.Server.ListenAddr)
		if err := server.Run(); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	log.Printf("VDP Core License Server is running")

	// Wait for interrupt signal
	<-quit
	log.Printf("Shutting down server...")
	log.Printf("Server stopped")
}

// newLogger builds the structured logger from the logging config
func newLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
