package handlers_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/anonto42/memory-lane/backend/internal/events"
	"github.com/anonto42/memory-lane/backend/internal/models"
	"github.com/anonto42/memory-lane/backend/internal/repositories"
	"github.com/anonto42/memory-lane/backend/internal/router"
	"github.com/anonto42/memory-lane/backend/pkg/media"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

var errDatabaseDown = errors.New("connection refused")

type stubGateway struct {
	mu       sync.Mutex
	result   *media.UploadResult
	err      error
	calls    int
	lastData []byte
}

func (g *stubGateway) Upload(_ context.Context, data []byte, _ string) (*media.UploadResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	g.lastData = data
	if g.err != nil {
		return nil, g.err
	}
	res := *g.result
	return &res, nil
}

func (g *stubGateway) Name() string { return "stub" }

func (g *stubGateway) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) Types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]string, 0, len(p.events))
	for _, e := range p.events {
		types = append(types, e.Type)
	}
	return types
}

type failingPostRepository struct {
	repositories.PostRepository
}

func (failingPostRepository) CreatePost(context.Context, *models.Post) error {
	return errDatabaseDown
}

func (failingPostRepository) GetAllPosts(context.Context) ([]models.Post, error) {
	return nil, errDatabaseDown
}

func (failingPostRepository) DeletePost(context.Context, string) (int64, error) {
	return 0, errDatabaseDown
}

type failingCommentRepository struct {
	repositories.CommentRepository
}

func (failingCommentRepository) CreateComment(context.Context, *models.Comment) error {
	return errDatabaseDown
}

func (failingCommentRepository) GetCommentsByPostID(context.Context, string) ([]models.Comment, error) {
	return nil, errDatabaseDown
}

func (failingCommentRepository) DeleteCommentsByPostID(context.Context, string) (int64, error) {
	return 0, errDatabaseDown
}

type fixture struct {
	e         *echo.Echo
	posts     repositories.PostRepository
	comments  repositories.CommentRepository
	gateway   *stubGateway
	publisher *recordingPublisher
}

type option func(*router.Dependencies)

func withPosts(r repositories.PostRepository) option {
	return func(d *router.Dependencies) { d.Posts = r }
}

func withEvents(p events.Publisher) option {
	return func(d *router.Dependencies) { d.Events = p }
}

type failingPublisher struct{}

func (failingPublisher) Publish(context.Context, events.Event) error {
	return errors.New("broker down")
}

func (failingPublisher) Close() error { return nil }

func withComments(r repositories.CommentRepository) option {
	return func(d *router.Dependencies) { d.Comments = r }
}

func setup(t *testing.T, opts ...option) *fixture {
	t.Helper()

	gateway := &stubGateway{result: &media.UploadResult{
		SecureURL:    "https://host/x.jpg",
		ResourceType: "image",
		PublicID:     "x",
	}}
	publisher := &recordingPublisher{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	deps := router.Dependencies{
		Posts:    repositories.NewMemoryPostRepository(),
		Comments: repositories.NewMemoryCommentRepository(),
		Gateway:  gateway,
		Events:   publisher,
		Logger:   logger,
	}
	for _, opt := range opts {
		opt(&deps)
	}

	e := router.New(logger, nil)
	router.SetupRoutes(e, deps)

	return &fixture{
		e:         e,
		posts:     deps.Posts,
		comments:  deps.Comments,
		gateway:   gateway,
		publisher: publisher,
	}
}

func (f *fixture) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)
	return rec
}

// uploadRequest builds a multipart /upload request. A nil file leaves the
// file part out entirely.
func uploadRequest(t *testing.T, fields map[string]string, file []byte) *http.Request {
	t.Helper()

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if file != nil {
		fw, err := w.CreateFormFile("file", "photo.jpg")
		require.NoError(t, err)
		_, err = fw.Write(file)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return req
}

func commentRequest(payload string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/comments", strings.NewReader(payload))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}
