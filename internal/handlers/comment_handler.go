package handlers

import (
	"net/http"

	"github.com/anonto42/memory-lane/backend/internal/models"
	"github.com/anonto42/memory-lane/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	commentRepository repositories.CommentRepository
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(commentRepo repositories.CommentRepository) *CommentHandler {
	return &CommentHandler{commentRepository: commentRepo}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(e *echo.Echo) {
	e.POST("/comments", h.CreateComment)
	e.GET("/comments/:postId", h.GetCommentsByPostID)
}

// CreateComment stores a comment. The referenced post is not looked up.
func (h *CommentHandler) CreateComment(c echo.Context) error {
	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return models.NewValidationError("Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	comment := models.NewComment(req)
	if err := h.commentRepository.CreateComment(c.Request().Context(), comment); err != nil {
		return models.NewPersistenceError("Failed to add comment", err)
	}

	return c.JSON(http.StatusCreated, comment)
}

// GetCommentsByPostID lists the comments of a post, newest first. An unknown
// post yields an empty list.
func (h *CommentHandler) GetCommentsByPostID(c echo.Context) error {
	comments, err := h.commentRepository.GetCommentsByPostID(c.Request().Context(), c.Param("postId"))
	if err != nil {
		return models.NewPersistenceError("Failed to fetch comments", err)
	}
	return c.JSON(http.StatusOK, comments)
}
