package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/anonto42/memory-lane/backend/internal/events"
	"github.com/anonto42/memory-lane/backend/internal/models"
	"github.com/anonto42/memory-lane/backend/internal/repositories"
	"github.com/anonto42/memory-lane/backend/pkg/media"
	"github.com/labstack/echo/v4"
)

// defaultMultipartMemory matches net/http's in-memory limit for ParseMultipartForm
const defaultMultipartMemory = 32 << 20

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	postRepository    repositories.PostRepository
	commentRepository repositories.CommentRepository // cascade target of DeletePost
	gateway           media.Gateway
	notifier          *notifier
	multipartMemory   int64
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(
	postRepo repositories.PostRepository,
	commentRepo repositories.CommentRepository,
	gateway media.Gateway,
	publisher events.Publisher,
	logger *slog.Logger,
) *PostHandler {
	return &PostHandler{
		postRepository:    postRepo,
		commentRepository: commentRepo,
		gateway:           gateway,
		notifier:          newNotifier(publisher, logger),
		multipartMemory:   defaultMultipartMemory,
	}
}

// WithMultipartMemory sets how much of an upload is buffered in memory
// before spilling to temporary files.
func (h *PostHandler) WithMultipartMemory(bytes int64) *PostHandler {
	if bytes > 0 {
		h.multipartMemory = bytes
	}
	return h
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(e *echo.Echo) {
	e.GET("/posts", h.GetPosts)
	e.POST("/upload", h.UploadPost)
	e.DELETE("/posts/:id", h.DeletePost)
}

// GetPosts lists every post, newest first
func (h *PostHandler) GetPosts(c echo.Context) error {
	posts, err := h.postRepository.GetAllPosts(c.Request().Context())
	if err != nil {
		return models.NewPersistenceError("Failed to fetch posts", err)
	}
	return c.JSON(http.StatusOK, posts)
}

// UploadPost sends the uploaded file to the media host and records a post
// for it. The response waits for both the upload and the insert.
func (h *PostHandler) UploadPost(c echo.Context) error {
	req, err := h.bindUpload(c)
	if err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return err
	}

	ctx := c.Request().Context()
	result, err := h.gateway.Upload(ctx, req.File, req.Filename)
	if err != nil {
		return models.NewGatewayError(err, gatewayDetail(err))
	}

	post := models.NewPost(result.SecureURL, result.ResourceType, req.Caption, req.Year)
	if err := h.postRepository.CreatePost(ctx, post); err != nil {
		return models.NewPersistenceError("Failed to save post", err)
	}

	h.notifier.notify(ctx, events.PostCreated(post))
	return c.JSON(http.StatusOK, post)
}

// DeletePost removes a post and then its comments. The two deletes are
// independent calls; a failure between them leaves orphaned comments.
func (h *PostHandler) DeletePost(c echo.Context) error {
	postID := c.Param("id")
	ctx := c.Request().Context()

	if _, err := h.postRepository.DeletePost(ctx, postID); err != nil {
		return models.NewPersistenceError("Failed to delete post", err)
	}
	deleted, err := h.commentRepository.DeleteCommentsByPostID(ctx, postID)
	if err != nil {
		return models.NewPersistenceError("Failed to delete post", err)
	}

	h.notifier.notify(ctx, events.PostDeleted(postID, deleted))
	return c.JSON(http.StatusOK, map[string]string{"message": "Post and associated comments deleted"})
}

// bindUpload reads the multipart form into an UploadPostRequest. A request
// that is not multipart at all is treated as one without a file.
func (h *PostHandler) bindUpload(c echo.Context) (*models.UploadPostRequest, error) {
	r := c.Request()
	if err := r.ParseMultipartForm(h.multipartMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return nil, models.NewValidationError("Invalid multipart form")
	}

	req := &models.UploadPostRequest{
		Caption: c.FormValue("caption"),
		Year:    c.FormValue("year"),
	}

	fh, err := c.FormFile("file")
	if err != nil {
		// left empty, Validate reports the missing file
		return req, nil
	}
	file, err := fh.Open()
	if err != nil {
		return nil, models.NewValidationError("Unreadable file")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, models.NewValidationError("Unreadable file")
	}
	req.File = data
	req.Filename = fh.Filename
	return req, nil
}

// gatewayDetail is the payload written to the client for a failed upload
func gatewayDetail(err error) interface{} {
	var uploadErr *media.UploadError
	if errors.As(err, &uploadErr) {
		return uploadErr
	}
	return &media.UploadError{Message: err.Error()}
}
