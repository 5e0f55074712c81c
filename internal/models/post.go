package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post represents an uploaded media item stored in the posts collection
type Post struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	URL       string             `json:"url" bson:"url"`
	Caption   string             `json:"caption,omitempty" bson:"caption,omitempty"`
	Year      string             `json:"year,omitempty" bson:"year,omitempty"`
	Type      string             `json:"type" bson:"type"` // resource kind reported by the media host, e.g. "image" or "video"
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

// NewPost builds a post from the url and resource type of a completed upload.
// URL and Type are never assigned anywhere else.
func NewPost(url, resourceType, caption, year string) *Post {
	return &Post{
		URL:     url,
		Type:    resourceType,
		Caption: caption,
		Year:    year,
	}
}

// UploadPostRequest is the validated form of a multipart upload
type UploadPostRequest struct {
	Filename string
	File     []byte
	Caption  string
	Year     string
}

// Validate reports a validation error when no file content was supplied
func (r *UploadPostRequest) Validate() error {
	if len(r.File) == 0 {
		return NewValidationError("No file uploaded")
	}
	return nil
}
