// Package media wraps the remote services that host uploaded files.
package media

import (
	"context"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Resource kinds reported by the gateways
const (
	ResourceImage = "image"
	ResourceVideo = "video"
	ResourceRaw   = "raw"
)

// UploadResult is what a successful upload hands back
type UploadResult struct {
	SecureURL    string
	ResourceType string
	PublicID     string
}

// Gateway submits a byte buffer to a media host. The host decides on its
// own whether the content is an image, a video or something else.
type Gateway interface {
	Upload(ctx context.Context, data []byte, filename string) (*UploadResult, error)
	Name() string
}

// UploadError is the error payload returned by the media host. It is
// serialized to clients as-is.
type UploadError struct {
	Message  string `json:"message"`
	HTTPCode int    `json:"http_code,omitempty"`
}

func (e *UploadError) Error() string {
	if e.HTTPCode != 0 {
		return fmt.Sprintf("media upload failed (%d): %s", e.HTTPCode, e.Message)
	}
	return "media upload failed: " + e.Message
}

// DetectResourceType classifies content the way the hosted service does
// with an auto resource type. The detected type and its parents are checked
// so a specific subtype wins over its container (HEIC over MP4).
func DetectResourceType(data []byte) (resourceType, contentType string) {
	detected := mimetype.Detect(data)
	contentType = detected.String()
	for m := detected; m != nil; m = m.Parent() {
		switch {
		case strings.HasPrefix(m.String(), "image/"):
			return ResourceImage, contentType
		// audio is filed under video by Cloudinary
		case strings.HasPrefix(m.String(), "video/"), strings.HasPrefix(m.String(), "audio/"),
			m.Is("application/ogg"):
			return ResourceVideo, contentType
		}
	}
	return ResourceRaw, contentType
}
