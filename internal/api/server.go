package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog/v3"
	httpSwagger "github.com/swaggo/http-swagger"

	api "lighthouse-v0/internal/api/application"
	"lighthouse-v0/internal/api/handlers"
	apimiddleware "lighthouse-v0/internal/api/middleware"
	configapp "lighthouse-v0/internal/config/application"
	sharedlogger "lighthouse-v0/internal/shared/logger"
)

// Server represents the API server
type Server struct {
	httpServer *http.Server
	logger     sharedlogger.Logger
}

// NewServer creates a new API server
func NewServer(
	logger sharedlogger.Logger,
	runtimeCfg *configapp.RuntimeConfig,
	trackerService *api.TrackerService,
) (*Server, error) {
	// Validate API key is set
	if runtimeCfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required (set LIGHTHOUSE_API_KEY or use --api-key flag)")
	}

	// Initialize handlers
	heartbeatHandler := handlers.NewHeartbeatHandler(trackerService)
	statusHandler := handlers.NewStatusHandler(trackerService)
	cleanupHandler := handlers.NewCleanupHandler(trackerService)

	// Setup chi router
	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	// HTTP logging middleware - need concrete slog.Logger for httplog
	var slogLogger *slog.Logger
	if infraLogger, ok := logger.(interface{ SLog() *slog.Logger }); ok {
		slogLogger = infraLogger.SLog()
	} else {
		slogLogger = slog.Default()
	}

	r.Use(httplog.RequestLogger(slogLogger, &httplog.Options{
		Level:             slog.LevelDebug,
		Schema:            httplog.SchemaECS.Concise(true),
		LogRequestHeaders: []string{},
	}))

	// Swagger UI (only in dev mode, no auth required)
	if runtimeCfg.DevMode {
		swaggerHandler := httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		)
		r.Handle("/swagger/*", swaggerHandler)
		r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/swagger/", http.StatusMovedPermanently)
		})
	}

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Heartbeat ingest is unauthenticated: senders are trusted devices
		// on a private network.
		r.Post("/heartbeat", heartbeatHandler.SubmitHeartbeat)

		// Query and administrative routes require the API key.
		r.Group(func(r chi.Router) {
			r.Use(apimiddleware.APIKeyAuthWithKey(runtimeCfg.APIKey))

			r.Get("/status", statusHandler.GetStatus)
			r.Get("/liveness", statusHandler.GetLivenessReport)
			r.Post("/cleanup", cleanupHandler.Cleanup)
		})
	})

	httpServer := &http.Server{
		Addr:         ":" + runtimeCfg.APIPort,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Debug("Server configured",
		"port", runtimeCfg.APIPort,
		"dev_mode", runtimeCfg.DevMode,
		"middleware", []string{"RequestID", "RealIP", "Recoverer", "httplog"},
	)

	return &Server{
		httpServer: httpServer,
		logger:     logger,
	}, nil
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server", "addr", s.httpServer.Addr)
	err := s.httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		s.logger.Error("Server error", "err", err)
	}
	return err
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	err := s.httpServer.Shutdown(ctx)
	if err != nil {
		s.logger.Error("Server shutdown error", "err", err)
	} else {
		s.logger.Info("Server shutdown complete")
	}
	return err
}
