package handlers

import (
	"context"
	"log/slog"

	"github.com/anonto42/memory-lane/backend/internal/events"
)

// notifier reports post lifecycle events. A failed publish is logged and
// never fails the request.
type notifier struct {
	publisher events.Publisher
	logger    *slog.Logger
}

func newNotifier(publisher events.Publisher, logger *slog.Logger) *notifier {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &notifier{publisher: publisher, logger: logger}
}

func (n *notifier) notify(ctx context.Context, event events.Event) {
	if err := n.publisher.Publish(ctx, event); err != nil {
		n.logger.WarnContext(ctx, "failed to publish event",
			slog.String("type", event.Type),
			slog.String("post_id", event.PostID),
			slog.String("error", err.Error()),
		)
	}
}
