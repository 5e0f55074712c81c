// Package events publishes post lifecycle notifications for downstream
// consumers. Publishing is best effort.
package events

import (
	"context"
	"time"

	"github.com/anonto42/memory-lane/backend/internal/models"
)

const (
	TypePostCreated = "post.created"
	TypePostDeleted = "post.deleted"
)

// Event is the JSON message written for every post lifecycle change
type Event struct {
	Type            string    `json:"type"`
	PostID          string    `json:"postId"`
	URL             string    `json:"url,omitempty"`
	ResourceType    string    `json:"resourceType,omitempty"`
	DeletedComments int64     `json:"deletedComments,omitempty"`
	At              time.Time `json:"at"`
}

// Publisher delivers events to a broker
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

func PostCreated(post *models.Post) Event {
	return Event{
		Type:         TypePostCreated,
		PostID:       post.ID.Hex(),
		URL:          post.URL,
		ResourceType: post.Type,
		At:           post.CreatedAt,
	}
}

func PostDeleted(postID string, deletedComments int64) Event {
	return Event{
		Type:            TypePostDeleted,
		PostID:          postID,
		DeletedComments: deletedComments,
		At:              time.Now().UTC(),
	}
}

// NopPublisher drops every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
func (NopPublisher) Close() error                         { return nil }
