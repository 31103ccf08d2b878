// @title           Lighthouse API
// @version         1.0
// @description     Heartbeat liveness tracking and outage event classification server.

// @contact.name   API Support

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
// @description API Key authentication

// @host      localhost:8080
// @BasePath  /api/v1

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"
	_ "modernc.org/sqlite"

	_ "lighthouse-v0/docs" // Swagger docs

	apiapp "lighthouse-v0/internal/api"
	apiservice "lighthouse-v0/internal/api/application"
	configapp "lighthouse-v0/internal/config/application"
	"lighthouse-v0/internal/infrastructure/database"
	"lighthouse-v0/internal/infrastructure/logger"
	trackingapp "lighthouse-v0/internal/tracking/application"
	"lighthouse-v0/internal/tracking/domain"
	trackinginfra "lighthouse-v0/internal/tracking/infrastructure"
)

func main() {
	app := &cli.App{
		Name:  "lighthouse",
		Usage: "Heartbeat liveness tracking and outage event classification server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "api-key",
				Usage: "API key required for query and admin routes",
			},
			&cli.StringFlag{
				Name:  "port",
				Usage: "HTTP listen port",
			},
			&cli.StringFlag{
				Name:  "backend",
				Usage: "Storage backend: file, sqlite or nats",
			},
			&cli.StringFlag{
				Name:  "state-file",
				Usage: "Snapshot path for the file backend",
			},
			&cli.StringFlag{
				Name:  "db-path",
				Usage: "Database path for the sqlite backend",
			},
			&cli.StringFlag{
				Name:  "nats-url",
				Usage: "Server URL for the nats backend",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "Liveness timeout before a silent client is marked disconnected",
			},
			&cli.DurationFlag{
				Name:  "sweep-interval",
				Usage: "How often the liveness sweeper runs",
			},
			&cli.DurationFlag{
				Name:  "flush-interval",
				Usage: "How often buffered state is flushed to storage",
			},
			&cli.IntFlag{
				Name:  "max-events",
				Usage: "Maximum number of retained outage events",
			},
			&cli.BoolFlag{
				Name:  "dev",
				Usage: "Enable development mode (Swagger UI)",
			},
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "Path to a .env file",
				Value: ".env",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		// Use default logger for final error message if run() failed early
		logger.DefaultLogger().Error("Application error", "err", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	// Initialize logger first
	appLogger := logger.NewLogger()
	logger.SetDefaultLogger(appLogger)

	configapp.LoadEnvFile(appLogger, c.String("env-file"))

	cfg := configapp.LoadRuntimeConfig(configapp.RuntimeFlags{
		APIKey:          c.String("api-key"),
		APIPort:         c.String("port"),
		DevMode:         c.Bool("dev"),
		Backend:         c.String("backend"),
		StatePath:       c.String("state-file"),
		DBPath:          c.String("db-path"),
		NATSURL:         c.String("nats-url"),
		LivenessTimeout: c.Duration("timeout"),
		SweepInterval:   c.Duration("sweep-interval"),
		FlushInterval:   c.Duration("flush-interval"),
		MaxEvents:       c.Int("max-events"),
	})
	if err := cfg.Validate(); err != nil {
		return err
	}

	appLogger.Info("Starting Lighthouse", "version", "1.0", "backend", cfg.Backend)

	sigCtx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	store, err := openStore(sigCtx, appLogger, cfg)
	if err != nil {
		appLogger.Error("Failed to open storage backend", "backend", cfg.Backend, "err", err)
		return fmt.Errorf("failed to open %s backend: %w", cfg.Backend, err)
	}
	defer store.Close()

	// Initialize the tracker and hydrate it from storage
	tracker := trackingapp.NewTracker(appLogger, store, trackingapp.TrackerConfig{
		LivenessTimeout: cfg.LivenessTimeout,
		MaxEvents:       cfg.MaxEvents,
		WriteTimeout:    cfg.WriteTimeout,
	})
	if err := tracker.Load(sigCtx); err != nil {
		appLogger.Error("Failed to load persisted state", "err", err)
		return fmt.Errorf("failed to load persisted state: %w", err)
	}

	// Background liveness sweeps and periodic flushes
	sweeper := trackingapp.NewSweeper(appLogger, tracker, cfg.SweepInterval)
	sweeper.Start()
	flusher := trackingapp.NewFlusher(appLogger, tracker, cfg.FlushInterval)
	flusher.Start()

	// Initialize API server
	trackerService := apiservice.NewTrackerService(tracker)
	apiServer, err := apiapp.NewServer(appLogger, cfg, trackerService)
	if err != nil {
		appLogger.Error("Failed to create API server", "err", err)
		return fmt.Errorf("failed to create API server: %w", err)
	}

	// Start API server in a goroutine
	serverErrChan := make(chan error, 1)
	go func() {
		if err := apiServer.Start(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("API server error: %w", err)
		}
	}()

	appLogger.Info("Lighthouse started successfully, waiting for shutdown signal")

	// Wait for interrupt or server error
	select {
	case <-sigCtx.Done():
		appLogger.Info("Shutdown signal received, starting graceful shutdown")
	case err := <-serverErrChan:
		appLogger.Error("Server error received", "err", err)
		return err
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	var shutdownErr error
	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		shutdownErr = fmt.Errorf("API server shutdown error: %w", err)
	}
	if err := sweeper.Stop(shutdownCtx); err != nil {
		appLogger.Error("Sweeper shutdown error", "err", err)
		if shutdownErr == nil {
			shutdownErr = fmt.Errorf("sweeper shutdown error: %w", err)
		}
	}
	if err := flusher.Stop(shutdownCtx); err != nil {
		appLogger.Error("Flusher shutdown error", "err", err)
		if shutdownErr == nil {
			shutdownErr = fmt.Errorf("flusher shutdown error: %w", err)
		}
	}

	// One final flush so nothing recorded since the last interval is lost.
	if err := tracker.Flush(shutdownCtx); err != nil {
		appLogger.Error("Final flush error", "err", err)
		if shutdownErr == nil {
			shutdownErr = fmt.Errorf("final flush error: %w", err)
		}
	}

	if shutdownErr == nil {
		appLogger.Info("Graceful shutdown completed")
	}
	return shutdownErr
}

// openStore selects and opens the configured storage backend.
func openStore(ctx context.Context, appLogger *logger.Logger, cfg *configapp.RuntimeConfig) (domain.Store, error) {
	switch cfg.Backend {
	case configapp.BackendFile:
		appLogger.Debug("Using file backend", "path", cfg.StatePath)
		return trackinginfra.NewFileStore(appLogger, cfg.StatePath), nil

	case configapp.BackendSQLite:
		appLogger.Debug("Using sqlite backend", "path", cfg.DBPath)
		db, err := database.ConnectSQLite(cfg.DBPath)
		if err != nil {
			return nil, err
		}
		store, err := trackinginfra.NewSQLiteStore(ctx, db)
		if err != nil {
			db.Close()
			return nil, err
		}
		return store, nil

	case configapp.BackendNATS:
		appLogger.Debug("Using nats backend", "url", cfg.NATSURL)
		return trackinginfra.NewNATSStore(ctx, appLogger, cfg.NATSURL, cfg.MaxEvents)

	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}
