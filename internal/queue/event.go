// Package queue defines message payloads exchanged over the message broker.
package queue

import (
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/blog-api/internal/model"
)

// BlogEventsQueue is the durable queue blog lifecycle events go to.
const BlogEventsQueue = "blog.events"

// Event types.
const (
	BlogCreated = "blog.created"
	BlogUpdated = "blog.updated"
	BlogDeleted = "blog.deleted"
)

// BlogEvent is published after a blog has been created, updated or
// deleted.  It carries enough for audit logging without a database read.
type BlogEvent struct {
	EventID    string   `json:"event_id"`
	Type       string   `json:"type"`
	BlogID     uint64   `json:"blog_id"`
	AuthorID   uint64   `json:"author_id"`
	Title      string   `json:"title"`
	Category   string   `json:"category"`
	Tags       []string `json:"tags"`
	OccurredAt string   `json:"occurred_at"`
}

// NewBlogEvent stamps an event of type typ for b.
func NewBlogEvent(typ string, b *model.Blog) BlogEvent {
	return BlogEvent{
		EventID:    uuid.NewString(),
		Type:       typ,
		BlogID:     b.ID,
		AuthorID:   b.AuthorID,
		Title:      b.Title,
		Category:   b.Category,
		Tags:       b.Tags,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
}
