package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/anonto42/memory-lane/backend/internal/observability"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/anonto42/memory-lane/backend/pkg/media")

// CloudinaryConfig holds the credentials of a Cloudinary account. URL, when
// set, takes precedence over the individual fields.
type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
	URL       string
	Folder    string
}

// assetUploader is the part of the Cloudinary upload API used here
type assetUploader interface {
	Upload(ctx context.Context, file interface{}, uploadParams uploader.UploadParams) (*uploader.UploadResult, error)
}

// CloudinaryGateway uploads files to Cloudinary with resource type "auto"
type CloudinaryGateway struct {
	uploader assetUploader
	folder   string
}

// NewCloudinaryGateway initializes the Cloudinary client
func NewCloudinaryGateway(cfg CloudinaryConfig) (*CloudinaryGateway, error) {
	var (
		cld *cloudinary.Cloudinary
		err error
	)
	switch {
	case cfg.URL != "":
		cld, err = cloudinary.NewFromURL(cfg.URL)
	case cfg.CloudName != "" && cfg.APIKey != "" && cfg.APISecret != "":
		cld, err = cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	default:
		return nil, errors.New("cloudinary credentials not provided")
	}
	if err != nil {
		return nil, fmt.Errorf("error initializing cloudinary client: %w", err)
	}

	return &CloudinaryGateway{uploader: &cld.Upload, folder: cfg.Folder}, nil
}

func (g *CloudinaryGateway) Name() string { return "cloudinary" }

// Upload sends data to Cloudinary. An error payload from the API comes back
// as *UploadError.
func (g *CloudinaryGateway) Upload(ctx context.Context, data []byte, _ string) (*UploadResult, error) {
	ctx, span := tracer.Start(ctx, "media.cloudinary.upload", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(attribute.Int("media.size", len(data)))

	params := uploader.UploadParams{
		ResourceType: "auto",
		Folder:       g.folder,
	}
	res, err := g.uploader.Upload(ctx, bytes.NewReader(data), params)
	if err == nil && res == nil {
		err = errors.New("cloudinary returned an empty response")
	}
	if err == nil && res.Error.Message != "" {
		err = &UploadError{Message: res.Error.Message}
	}
	observability.RecordUpload(g.Name(), err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.String("media.resource_type", res.ResourceType))
	return &UploadResult{
		SecureURL:    res.SecureURL,
		ResourceType: res.ResourceType,
		PublicID:     res.PublicID,
	}, nil
}
