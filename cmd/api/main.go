package main

import (
	"context"
	"database/sql"
	"log"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"vidapi/internal/config"
	"vidapi/internal/database"
	"vidapi/internal/database/migration"
	handlers "vidapi/internal/http/handler"
	"vidapi/internal/http/middleware"
	"vidapi/internal/otel"
	"vidapi/internal/repository"
	"vidapi/internal/repository/memory"
	"vidapi/internal/repository/postgres"
	"vidapi/internal/service"
	"vidapi/internal/storage"
)

func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	ctx := context.Background()

	// Initialize tracing (degrades to noop when the exporter is unavailable)
	shutdownTracing, err := otel.Init(ctx, time.UTC)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer shutdownTracing(ctx)

	// Metadata store: PostgreSQL when configured, in-memory otherwise
	var (
		db   *sql.DB
		repo repository.VideoRepository
	)
	if cfg.Database.Host != "" {
		db, err = database.NewPostgres(cfg.Database)
		if err != nil {
			log.Fatalf("failed to connect to database: %v", err)
		}
		defer db.Close()

		if err := migration.EnsureMigrated(ctx, db, time.UTC, cfg.Database.Host); err != nil {
			log.Fatalf("failed to migrate database: %v", err)
		}
		repo = postgres.NewVideoPostgres(db)
	} else {
		repo = memory.NewVideoMemory()
	}

	// Blob store: local filesystem by default, MinIO when selected
	var blobs storage.BlobStore
	switch cfg.Storage.Backend {
	case "minio":
		blobs, err = storage.NewMinIO(cfg.MinIO)
	default:
		blobs, err = storage.NewFS(cfg.Storage.Dir)
	}
	if err != nil {
		log.Fatalf("failed to initialize blob storage: %v", err)
	}

	videoSvc := service.NewVideoService(blobs, repo)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
	})

	// Register global middleware
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	// JSON Logger middleware for structured request logs
	app.Use(middleware.Logger(time.UTC))
	app.Use(otelfiber.Middleware())

	promMiddleware, err := middleware.NewPrometheusMiddleware(prometheus.DefaultRegisterer)
	if err != nil {
		log.Fatalf("failed to register metrics: %v", err)
	}
	app.Use(promMiddleware.Handler())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Register HTTP routes with injected service
	handlers.RegisterRoutes(app, db, videoSvc)

	addr := ":" + cfg.Port

	if err := app.Listen(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
