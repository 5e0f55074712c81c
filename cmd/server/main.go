package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anonto42/memory-lane/backend/internal/events"
	"github.com/anonto42/memory-lane/backend/internal/observability"
	"github.com/anonto42/memory-lane/backend/internal/repositories"
	"github.com/anonto42/memory-lane/backend/internal/router"
	"github.com/anonto42/memory-lane/backend/pkg/config"
	"github.com/anonto42/memory-lane/backend/pkg/media"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration
	cfg := config.Load()

	logger := observability.NewLogger(cfg.Env, cfg.LogLevel)
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	if err := run(cfg, logger); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// run owns every process resource; each is released by a deferred call
// before run returns, whatever the outcome.
func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.InitTracing(ctx, observability.TracingConfig{
		ServiceName:  cfg.OTelServiceName,
		Environment:  cfg.Env,
		OTLPEndpoint: cfg.OTelEndpoint,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	defer func() {
		c, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(c)
	}()

	// Initialize database connection
	db, err := config.InitDB(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.CloseDB()

	posts, comments, err := initRepositories(ctx, cfg, db, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize repositories: %w", err)
	}

	gateway, err := initGateway(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize media gateway: %w", err)
	}

	// closed after the server has stopped taking requests
	publisher := events.NewAsyncPublisher(initPublisher(cfg), logger)
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Error("Failed to close event publisher", slog.String("error", err.Error()))
		}
	}()

	e := router.New(logger, cfg.AllowedOrigins)
	router.SetupRoutes(e, router.Dependencies{
		Posts:           posts,
		Comments:        comments,
		Gateway:         gateway,
		Events:          publisher,
		Logger:          logger,
		MultipartMemory: int64(cfg.MultipartMemoryMB) << 20,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           otelhttp.NewHandler(e, "http.server"),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	logger.Info("Backend server running", slog.String("addr", "http://localhost:"+cfg.Port),
		slog.String("db_driver", cfg.DBDriver), slog.String("media_backend", gateway.Name()))
	return serve(ctx, srv, logger)
}

// serve runs srv until ctx is cancelled or the listener fails. On
// cancellation in-flight requests get shutdownTimeout to finish.
func serve(ctx context.Context, srv *http.Server, logger *slog.Logger) error {
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

func initRepositories(ctx context.Context, cfg *config.Config, db *config.DB, logger *slog.Logger) (repositories.PostRepository, repositories.CommentRepository, error) {
	switch cfg.DBDriver {
	case config.DriverMongo:
		database := db.Mongo.Database(cfg.MongoDatabase)
		postRepo := repositories.NewMongoPostRepository(database, logger)
		commentRepo := repositories.NewMongoCommentRepository(database, logger)
		if err := postRepo.EnsureIndexes(ctx); err != nil {
			return nil, nil, err
		}
		if err := commentRepo.EnsureIndexes(ctx); err != nil {
			return nil, nil, err
		}
		return postRepo, commentRepo, nil
	case config.DriverPostgres:
		if err := repositories.AutoMigrate(db.Postgres); err != nil {
			return nil, nil, err
		}
		log.Println("PostgreSQL auto-migrations completed.")
		return repositories.NewGormPostRepository(db.Postgres, logger), repositories.NewGormCommentRepository(db.Postgres, logger), nil
	default:
		return repositories.NewMemoryPostRepository(), repositories.NewMemoryCommentRepository(), nil
	}
}

func initGateway(ctx context.Context, cfg *config.Config) (media.Gateway, error) {
	if cfg.MediaBackend == config.MediaS3 {
		gw, err := media.NewS3Gateway(cfg.S3())
		if err != nil {
			return nil, err
		}
		if err := gw.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return gw, nil
	}
	return media.NewCloudinaryGateway(cfg.Cloudinary())
}

func initPublisher(cfg *config.Config) events.Publisher {
	if cfg.KafkaBrokers == "" {
		return events.NopPublisher{}
	}
	log.Printf("Publishing post events to %s on %s", cfg.KafkaTopic, cfg.KafkaBrokers)
	return events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
}
