package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment represents a comment attached to a post by its identifier.
// PostID is a weak reference: nothing checks that the post exists.
type Comment struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	PostID    string             `json:"postId" bson:"postId"`
	Text      string             `json:"text" bson:"text"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

// NewComment builds an unsaved comment from a validated request
func NewComment(req CreateCommentRequest) *Comment {
	return &Comment{
		PostID: req.PostID,
		Text:   req.Text,
	}
}

// CreateCommentRequest defines the request body for adding a comment
type CreateCommentRequest struct {
	PostID string `json:"postId" validate:"required"`
	Text   string `json:"text" validate:"required"`
}
