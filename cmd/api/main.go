package main

import (
	"context"
	"database/sql"
	"log"
	"strings"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rajpatel923/Study-Solution-sub001/docs"
	"github.com/rajpatel923/Study-Solution-sub001/internal/config"
	"github.com/rajpatel923/Study-Solution-sub001/internal/database"
	"github.com/rajpatel923/Study-Solution-sub001/internal/database/migration"
	handlers "github.com/rajpatel923/Study-Solution-sub001/internal/http/handler"
	"github.com/rajpatel923/Study-Solution-sub001/internal/http/middleware"
	"github.com/rajpatel923/Study-Solution-sub001/internal/otel"
	"github.com/rajpatel923/Study-Solution-sub001/internal/repository"
	"github.com/rajpatel923/Study-Solution-sub001/internal/repository/memory"
	"github.com/rajpatel923/Study-Solution-sub001/internal/repository/postgres"
	"github.com/rajpatel923/Study-Solution-sub001/internal/service"
	"github.com/rajpatel923/Study-Solution-sub001/internal/storage"
)

// @title Document Store API
// @version 1.0
// @BasePath /
func main() {
	ctx := context.Background()

	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	shutdownTracing, err := otel.Init(ctx, time.UTC)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Printf("tracing shutdown: %v", err)
		}
	}()

	// Repository tier: PostgreSQL when configured, otherwise the
	// process-lifetime in-memory store.
	var (
		db      *sql.DB
		docRepo repository.DocumentRepository
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
		docRepo = postgres.NewDocumentPostgres(db)
	} else {
		docRepo = memory.NewDocumentMemory()
	}

	// Storage tier: S3-compatible object storage when configured, otherwise
	// uploads are accepted and the bytes discarded.
	var objStore storage.Storage
	if cfg.MinIO.Endpoint != "" {
		objStore, err = storage.NewMinIO(cfg.MinIO)
		if err != nil {
			log.Fatalf("failed to initialize object storage: %v", err)
		}
	} else {
		objStore = storage.NewDiscard()
	}

	docSvc := service.NewDocumentService(objStore, docRepo, cfg.StoragePublicURL)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
	})

	// Register global middleware. RequestID adds/propagates X-Request-ID,
	// Identity resolves the caller once per request, Logger emits structured
	// request logs.
	app.Use(middleware.RequestID())
	app.Use(middleware.Identity(cfg.Auth.DefaultUserID, cfg.Auth.DefaultUserName))
	app.Use(middleware.Logger())
	app.Use(otelfiber.Middleware())

	promMw, err := middleware.NewPrometheusMiddleware(prometheus.DefaultRegisterer)
	if err != nil {
		log.Fatalf("failed to register metrics: %v", err)
	}
	app.Use(promMw.Handler())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Register HTTP routes with injected service
	handlers.RegisterRoutes(app, db, docSvc)

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	addr := ":" + cfg.Port

	if err := app.Listen(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
