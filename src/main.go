package main

import (
	"log"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/absra47/song-managment/src/features/catalog"
	"github.com/absra47/song-managment/src/features/config"
	"github.com/absra47/song-managment/src/features/enrichment"
	"github.com/absra47/song-managment/src/features/hosting"
	"github.com/absra47/song-managment/src/features/jobs"
	"github.com/absra47/song-managment/src/features/logging"
	"github.com/absra47/song-managment/src/features/lyrics"
	"github.com/absra47/song-managment/src/features/metrics"
	"github.com/absra47/song-managment/src/infra/database"
	"github.com/absra47/song-managment/src/infra/providers"
)

func main() {
	// Load configuration
	cfgManager, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Setup default logger with slog
	logger := logging.SetupLogger(cfgManager)
	slog.SetDefault(logger)

	// Create the database catalog
	db, err := database.NewSqliteCatalog(cfgManager.Get().Database.Path)
	if err != nil {
		log.Fatalf("failed to open catalog database: %v", err)
	}
	defer db.Close()

	m := metrics.New()
	catalogService := catalog.NewService(db)

	// Create the job service and its cleanup loop
	jobService := jobs.NewService(&cfgManager.Get().Jobs)
	cleanupStop := make(chan struct{})
	retention := time.Duration(cfgManager.Get().Jobs.RetentionMinutes) * time.Minute
	cleanupInterval := time.Duration(cfgManager.Get().Jobs.CleanupIntervalMinutes) * time.Minute
	jobService.StartCleanupLoop(cleanupInterval, retention, cleanupStop)
	defer close(cleanupStop)

	// Create the lyrics service
	lyricsProvider := providers.NewLyricsOvhProvider(cfgManager)
	lyricsService := lyrics.NewService(lyricsProvider, db, cfgManager, m)

	// Create the enrichment service and register its task
	enrichmentProvider := providers.NewMockEnrichmentProvider(cfgManager)
	enrichmentService := enrichment.NewService(db, jobService, cfgManager)
	enrichTask := enrichment.NewEnrichTask(db, enrichmentProvider, cfgManager, m)
	jobService.RegisterHandler(enrichment.JobType, jobs.NewBaseTaskHandler(enrichTask))

	// Register the Telegram notifier if enabled
	if cfgManager.Get().Telegram.Enabled {
		notifier, err := hosting.NewTelegramNotifier(cfgManager)
		if err != nil {
			slog.Error("Failed to initialize Telegram notifier", "error", err)
		} else {
			jobService.RegisterNotifier(notifier)
			slog.Info("Telegram notifier registered")
		}
	}

	// Watch the config file for edits
	watcher, err := config.NewWatcher(cfgManager, "config.yaml")
	if err != nil {
		slog.Error("Failed to create config watcher", "error", err)
	} else if err := watcher.Start(); err != nil {
		slog.Error("Failed to start config watcher", "error", err)
	} else {
		defer watcher.Stop()
	}

	// Create and start the HTTP server
	server := hosting.NewServer(cfgManager, catalogService, lyricsService, enrichmentService, jobService, m)
	go func() {
		if err := server.Start(); err != nil {
			slog.Error("Server stopped", "error", err)
		}
	}()
	slog.Info("Server started. Press Ctrl+C to shut down.", "port", cfgManager.Get().Server.Port)

	// Wait for a shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	slog.Info("Shutting down server...")

	// Shutdown the server
	if err := server.Shutdown(); err != nil {
		log.Fatalf("failed to shutdown server: %v", err)
	}
	slog.Info("Server gracefully shut down.")
}
