package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	_ "github.com/lib/pq"

	"github.com/jonesrussell/jobs-dashboard/internal/api"
	"github.com/jonesrussell/jobs-dashboard/internal/cache"
	"github.com/jonesrussell/jobs-dashboard/internal/config"
	"github.com/jonesrussell/jobs-dashboard/internal/handler"
	"github.com/jonesrussell/jobs-dashboard/internal/logger"
	"github.com/jonesrussell/jobs-dashboard/internal/storage"
	"github.com/jonesrussell/jobs-dashboard/internal/view"
	"github.com/jonesrussell/jobs-dashboard/internal/watcher"
)

// Database connection timeout.
const dbPingTimeout = 5 * time.Second

// configPath is the default configuration file location.
const configPath = "config.yml"

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}

	log, err := createLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		return 1
	}
	defer func() { _ = log.Sync() }()

	db, err := connectDatabase(cfg, log)
	if err != nil {
		log.Error("Failed to connect to database", logger.Error(err))
		return 1
	}
	defer func() { _ = db.Close() }()

	return runServer(cfg, log, db)
}

// loadConfig loads and validates configuration. Missing required inputs are
// fatal here, before anything else starts.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if validationErr := cfg.Validate(); validationErr != nil {
		return nil, fmt.Errorf("validate config: %w", validationErr)
	}
	return cfg, nil
}

// createLogger creates a logger instance from configuration.
func createLogger(cfg *config.Config) (logger.Logger, error) {
	log, err := logger.New(logger.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Development: cfg.Service.Debug,
	})
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	return log.With(logger.String("service", cfg.Service.Name)), nil
}

// connectDatabase opens and verifies a database connection. The pool is capped
// so the status store never holds more than a handful of connections.
func connectDatabase(cfg *config.Config, log logger.Logger) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)

	ctx, cancel := context.WithTimeout(context.Background(), dbPingTimeout)
	defer cancel()

	if pingErr := db.PingContext(ctx); pingErr != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", pingErr)
	}

	log.Info("Database connected",
		logger.Int("max_open_conns", cfg.Database.MaxOpenConns),
	)

	return db, nil
}

// runServer creates all dependencies and starts the HTTP server.
func runServer(cfg *config.Config, log logger.Logger, db *sql.DB) int {
	ctx := context.Background()

	store := storage.NewStatusStore(db, log)
	if err := store.Init(ctx); err != nil {
		log.Error("Failed to initialize status store", logger.Error(err))
		return 1
	}

	viewService := view.NewService(
		store,
		cfg.Source.CSVPath,
		cfg.Source.ContentDir,
		cfg.Source.WindowDays,
		log,
	)
	viewCache := cache.New(viewService, cfg.Service.CacheMaxAge, log)

	if cfg.Source.WatchCSV {
		csvWatcher, err := watcher.New(cfg.Source.CSVPath, viewCache, log)
		if err != nil {
			// Best-effort: the staleness bound still keeps the view fresh
			log.Warn("CSV watcher unavailable", logger.Error(err))
		} else {
			csvWatcher.Start()
			defer csvWatcher.Stop()
		}
	}

	jobsHandler := handler.NewJobsHandler(viewCache, store, log)
	healthHandler := handler.NewHealthHandler(cfg.Service.Version, db.Ping)

	server := api.NewServer(cfg, jobsHandler, healthHandler, log)

	log.Info("Jobs dashboard starting",
		logger.Int("port", cfg.Service.Port),
		logger.String("csv_path", cfg.Source.CSVPath),
		logger.String("content_dir", cfg.Source.ContentDir),
		logger.Int("window_days", cfg.Source.WindowDays),
	)

	if err := server.Run(); err != nil {
		log.Error("Server error", logger.Error(err))
		return 1
	}

	log.Info("Jobs dashboard exited cleanly")
	return 0
}
