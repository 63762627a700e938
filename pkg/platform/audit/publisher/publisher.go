// Package publisher emits moderation audit events to a store and to the
// structured log.
//
// In sync mode Emit returns once the store write finished. With
// WithAsyncBuffer, Emit enqueues and a single worker drains the queue; a full
// buffer drops the event with ErrBufferFull. Close drains what is queued.
package publisher

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	audit "placement/pkg/platform/audit"
)

var ErrBufferFull = errors.New("audit buffer full")

type Publisher struct {
	store  audit.Store
	logger *slog.Logger

	queue     chan audit.Event
	wg        sync.WaitGroup
	closeOnce sync.Once
}

type Option func(*Publisher)

// WithAsyncBuffer makes Emit non-blocking with a queue of size n.
func WithAsyncBuffer(n int) Option {
	return func(p *Publisher) {
		if n > 0 {
			p.queue = make(chan audit.Event, n)
		}
	}
}

// WithLogger mirrors every event as a log_type=audit line.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

func NewPublisher(store audit.Store, opts ...Option) *Publisher {
	p := &Publisher{store: store}
	for _, opt := range opts {
		opt(p)
	}
	if p.queue != nil {
		p.wg.Add(1)
		go p.run()
	}
	return p
}

func (p *Publisher) Emit(ctx context.Context, event audit.Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	event.Category = event.Action.Category()
	p.log(ctx, event)

	if p.queue == nil {
		return p.store.Append(ctx, event)
	}
	select {
	case p.queue <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return ErrBufferFull
	}
}

func (p *Publisher) List(ctx context.Context, targetID string) ([]audit.Event, error) {
	return p.store.ListByTarget(ctx, targetID, 0)
}

func (p *Publisher) ListRecent(ctx context.Context, limit int) ([]audit.Event, error) {
	return p.store.ListRecent(ctx, limit)
}

// Close stops the async worker after it drained the queue. Safe to call twice.
func (p *Publisher) Close() {
	if p.queue == nil {
		return
	}
	p.closeOnce.Do(func() {
		close(p.queue)
	})
	p.wg.Wait()
}

func (p *Publisher) run() {
	defer p.wg.Done()
	for event := range p.queue {
		if err := p.store.Append(context.Background(), event); err != nil && p.logger != nil {
			p.logger.Error("failed to persist audit event",
				"action", event.Action,
				"target_id", event.TargetID,
				"error", err,
			)
		}
	}
}

func (p *Publisher) log(ctx context.Context, e audit.Event) {
	if p.logger == nil {
		return
	}
	p.logger.InfoContext(ctx, string(e.Action),
		"log_type", "audit",
		"event", e.Action,
		"category", e.Category,
		"target_type", e.TargetType,
		"target_id", e.TargetID,
		"actor_id", e.ActorID,
		"reason", e.Reason,
		"changed", e.Changed,
		"request_id", e.RequestID,
	)
}
