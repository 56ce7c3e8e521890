// Package app wires the ingestion services shared by the HTTP server and the batch CLI
package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/videoingest/backend/internal/clients/youtube"
	"github.com/videoingest/backend/internal/config"
	"github.com/videoingest/backend/internal/handlers"
	"github.com/videoingest/backend/internal/repositories"
	"github.com/videoingest/backend/internal/runner"
	"github.com/videoingest/backend/internal/services"
	"github.com/videoingest/backend/internal/storage"
	"go.uber.org/zap"
)

// Pipeline is the orchestrator as seen by the entry points
type Pipeline interface {
	handlers.PipelineService
	handlers.LocalPublishService
}

// App holds every wired service of one process
type App struct {
	Search    handlers.SearchService
	Downloads handlers.DownloadService
	Content   handlers.ContentService
	Pipeline  Pipeline
	// History is nil when run history is disabled
	History handlers.RunHistory

	db     *sql.DB
	mongo  *repositories.MongoConnector
	logger *zap.Logger
}

// New builds the services from cfg. onStatus, when not nil, receives every pipeline status update.
func New(cfg *config.Config, logger *zap.Logger, onStatus func(string)) (*App, error) {
	a := &App{logger: logger}

	exec := runner.NewExecRunner()
	workDir := storage.NewWorkDir(cfg.WorkDir, logger)

	objectStore, err := storage.NewObjectStore(storage.ObjectStoreOptions{
		Endpoint:      cfg.Storage.Endpoint,
		AccessKey:     cfg.Storage.AccessKey,
		SecretKey:     cfg.Storage.SecretKey,
		UseSSL:        cfg.Storage.UseSSL,
		Region:        cfg.Storage.Region,
		Container:     cfg.Storage.Container,
		PublicBaseURL: cfg.Storage.PublicBaseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create object store: %w", err)
	}

	// Initialize repositories
	a.mongo = repositories.NewMongoConnector(cfg.Mongo.URI, cfg.Mongo.Database, cfg.Mongo.Collection, logger)
	contentRepo := repositories.NewContentRepository(a.mongo, logger)

	var recorder services.RunRecorder
	if dsn := cfg.DSN(); dsn != "" {
		a.db, err = connectDB(dsn)
		if err != nil {
			return nil, err
		}
		if err := repositories.RunMigrations(a.db, repositories.MigrationsDir("migrations", "../migrations", "../../migrations")); err != nil {
			a.db.Close()
			return nil, err
		}
		runRepo := repositories.NewRunRepository(a.db, logger)
		recorder = runRepo
		a.History = runRepo
		logger.Info("run history enabled", zap.String("host", cfg.Database.Host))
	}

	// Initialize services
	searchService := services.NewSearchService(youtube.NewClient(cfg.YouTube.APIKey, cfg.YouTube.BaseURL), logger)
	acquisitionService := services.NewAcquisitionService(exec, workDir, services.AcquisitionOptions{
		YtDlpPath:   cfg.Tools.YtDlpPath,
		Cookies:     cfg.Tools.YtDlpCookies,
		FFmpegPath:  cfg.Tools.FFmpegPath,
		FFprobePath: cfg.Tools.FFprobePath,
		MaxHeight:   cfg.Tools.MaxVideoHeight,
	}, logger)
	transcodeService := services.NewTranscodeService(exec, cfg.Tools.FFmpegPath, cfg.Tools.PreviewCRF, logger)
	publishService := services.NewPublishService(objectStore, logger)
	contentService := services.NewContentService(contentRepo, services.NewValidator(), cfg.DefaultUserID, logger)

	a.Search = searchService
	a.Downloads = acquisitionService
	a.Content = contentService
	a.Pipeline = services.NewPipelineService(
		acquisitionService,
		transcodeService,
		publishService,
		contentService,
		workDir,
		services.NewStatusTracker(onStatus),
		recorder,
		logger,
	)

	return a, nil
}

// Close releases the database and document store connections
func (a *App) Close(ctx context.Context) {
	if err := a.mongo.Close(ctx); err != nil {
		a.logger.Error("failed to close document store connection", zap.Error(err))
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Error("failed to close database", zap.Error(err))
		}
	}
}

// connectDB connects to the run history database
func connectDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}
