package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	httpSwagger "github.com/swaggo/http-swagger"
	_ "github.com/videoingest/backend/docs"
	"github.com/videoingest/backend/internal/app"
	"github.com/videoingest/backend/internal/config"
	"github.com/videoingest/backend/internal/handlers"
	"github.com/videoingest/backend/internal/logger"
	"github.com/videoingest/backend/internal/middleware"
	"go.uber.org/zap"
)

const maxRequestSize = 10 * 1024 * 1024 // 10MB, batch requests carry full catalog items

// @title Video Ingest API
// @version 1.0
// @description Search a video catalog and ingest selected videos into object storage and the content store

// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
// @description API key protecting mutating endpoints
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v\n", err)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v\n", err)
	}
	defer logger.Sync()

	logger.Logger.Info("Starting video ingest service")
	for _, warning := range cfg.Warnings() {
		logger.Logger.Warn(warning)
	}

	application, err := app.New(cfg, logger.Logger, nil)
	if err != nil {
		logger.Logger.Fatal("Failed to initialize services", zap.Error(err))
	}

	// Initialize middleware
	apiKeyMw := middleware.APIKey(cfg.APIKey)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(logger.Logger)
	searchHandler := handlers.NewSearchHandler(application.Search, logger.Logger)
	mediaHandler := handlers.NewMediaHandler(application.Downloads, application.Pipeline, logger.Logger, apiKeyMw)
	contentHandler := handlers.NewContentHandler(application.Content, logger.Logger, apiKeyMw)
	pipelineHandler := handlers.NewPipelineHandler(application.Pipeline, application.History, logger.Logger, apiKeyMw)

	// Setup router
	r := chi.NewRouter()

	// Apply middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger.Logger))
	r.Use(middleware.Recovery(logger.Logger))
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))
	r.Use(httprate.LimitByIP(100, time.Minute))
	r.Use(middleware.RequestSizeLimit(maxRequestSize))

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://localhost:%d/swagger/doc.json", cfg.Server.Port)),
	))

	r.Route("/api/v1", func(r chi.Router) {
		healthHandler.RegisterRoutes(r)
		searchHandler.RegisterRoutes(r)
		mediaHandler.RegisterRoutes(r)
		contentHandler.RegisterRoutes(r)
		pipelineHandler.RegisterRoutes(r)
	})

	// Start server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Logger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Logger.Error("Server forced to shutdown", zap.Error(err))
	}
	application.Close(ctx)

	logger.Logger.Info("Server exited")
}
