package media

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/anonto42/memory-lane/backend/internal/observability"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// S3Config describes an S3-compatible bucket (MinIO in development)
type S3Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
	// PublicURL is the externally reachable base of the endpoint. Defaults
	// to the endpoint itself.
	PublicURL string
}

type objectStore interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// S3Gateway stores uploads in an S3 bucket and classifies them locally
type S3Gateway struct {
	cfg    S3Config
	client objectStore
}

// NewS3Gateway creates the MinIO client for cfg
func NewS3Gateway(cfg S3Config) (*S3Gateway, error) {
	endpoint := strings.TrimPrefix(strings.TrimPrefix(cfg.Endpoint, "http://"), "https://")
	cl, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("error initializing s3 client: %w", err)
	}
	if cfg.PublicURL == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		cfg.PublicURL = scheme + "://" + endpoint
	}
	return &S3Gateway{cfg: cfg, client: cl}, nil
}

func (g *S3Gateway) Name() string { return "s3" }

// EnsureBucket creates the bucket when it does not exist yet
func (g *S3Gateway) EnsureBucket(ctx context.Context) error {
	exists, err := g.client.BucketExists(ctx, g.cfg.Bucket)
	if err != nil {
		return err
	}
	if !exists {
		return g.client.MakeBucket(ctx, g.cfg.Bucket, minio.MakeBucketOptions{})
	}
	return nil
}

// Upload stores data under <resource type>/<uuid><ext> and returns its public URL
func (g *S3Gateway) Upload(ctx context.Context, data []byte, filename string) (*UploadResult, error) {
	ctx, span := tracer.Start(ctx, "media.s3.upload", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	resourceType, contentType := DetectResourceType(data)
	key := resourceType + "/" + uuid.NewString() + strings.ToLower(path.Ext(filename))
	span.SetAttributes(
		attribute.Int("media.size", len(data)),
		attribute.String("media.resource_type", resourceType),
	)

	_, err := g.client.PutObject(ctx, g.cfg.Bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	observability.RecordUpload(g.Name(), err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, &UploadError{Message: err.Error()}
	}

	return &UploadResult{
		SecureURL:    strings.TrimSuffix(g.cfg.PublicURL, "/") + "/" + g.cfg.Bucket + "/" + key,
		ResourceType: resourceType,
		PublicID:     key,
	}, nil
}
