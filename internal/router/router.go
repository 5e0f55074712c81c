package router

import (
	"log/slog"

	"github.com/anonto42/memory-lane/backend/internal/events"
	"github.com/anonto42/memory-lane/backend/internal/handlers"
	"github.com/anonto42/memory-lane/backend/internal/repositories"
	"github.com/anonto42/memory-lane/backend/pkg/media"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dependencies are the process-wide clients shared by every request. They
// are built once at startup and never modified afterwards.
type Dependencies struct {
	Posts           repositories.PostRepository
	Comments        repositories.CommentRepository
	Gateway         media.Gateway
	Events          events.Publisher
	Logger          *slog.Logger
	MultipartMemory int64
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, deps Dependencies) {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	e.GET("/health", handlers.HealthCheck)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	postHandler := handlers.NewPostHandler(deps.Posts, deps.Comments, deps.Gateway, deps.Events, logger).
		WithMultipartMemory(deps.MultipartMemory)
	postHandler.RegisterPostRoutes(e)
	logger.Debug("Post routes configured.")

	commentHandler := handlers.NewCommentHandler(deps.Comments)
	commentHandler.RegisterCommentRoutes(e)
	logger.Debug("Comment routes configured.")
}
