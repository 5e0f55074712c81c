package events

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

const defaultPublishTimeout = 5 * time.Second

// ErrPublisherClosed is returned by Publish after Close was called.
var ErrPublisherClosed = errors.New("events: publisher closed")

// AsyncPublisher hands every event to the wrapped publisher on its own
// goroutine so a slow broker never delays a response. Failures are logged.
// Close waits for in-flight events before closing the wrapped publisher.
type AsyncPublisher struct {
	next    Publisher
	logger  *slog.Logger
	timeout time.Duration

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

func NewAsyncPublisher(next Publisher, logger *slog.Logger) *AsyncPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &AsyncPublisher{next: next, logger: logger, timeout: defaultPublishTimeout}
}

// Publish schedules delivery and returns immediately. The request context
// only carries values; its cancellation does not abort delivery.
func (p *AsyncPublisher) Publish(ctx context.Context, event Event) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPublisherClosed
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
		defer cancel()
		if err := p.next.Publish(ctx, event); err != nil {
			p.logger.WarnContext(ctx, "failed to publish event",
				slog.String("type", event.Type),
				slog.String("post_id", event.PostID),
				slog.String("error", err.Error()),
			)
		}
	}()
	return nil
}

// Close drains in-flight events, then closes the wrapped publisher
func (p *AsyncPublisher) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.mu.Unlock()

	p.wg.Wait()
	return p.next.Close()
}
