// Package service implements the notification fan-out: one inbox entry per
// affected recipient, written best-effort. Callers log a failed write and carry on;
// a notification never gates the state change that triggered it.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"placement/internal/notification/models"
	"placement/internal/platform/config"
	"placement/internal/platform/metrics"
	id "placement/pkg/domain"
	dErrors "placement/pkg/domain-errors"
	"placement/pkg/platform/dedupe"
	"placement/pkg/platform/sentinel"
	"placement/pkg/requestcontext"
)

type Store interface {
	Create(ctx context.Context, n *models.Notification) error
	CreateBulk(ctx context.Context, ns []*models.Notification) (int, error)
	ListByRecipient(ctx context.Context, recipientID string, unreadOnly bool, now time.Time, limit int) ([]*models.Notification, error)
	CountUnread(ctx context.Context, recipientID string, now time.Time) (int, error)
	MarkRead(ctx context.Context, recipientID string, nid id.NotificationID, now time.Time) (*models.Notification, error)
	MarkAllRead(ctx context.Context, recipientID string, now time.Time) (int, error)
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}

type UnreadCache interface {
	Get(ctx context.Context, recipientID string) (int, bool, error)
	Set(ctx context.Context, recipientID string, count int) error
	Invalidate(ctx context.Context, recipientIDs ...string) error
}

type Publisher interface {
	Publish(ctx context.Context, ns ...*models.Notification) error
}

type Renderer interface {
	Render(msg models.Message) (models.Template, error)
}

type Service struct {
	store     Store
	renderer  Renderer
	cache     UnreadCache
	publisher Publisher
	logger    *slog.Logger
	metrics   *metrics.Metrics
	ttl       time.Duration
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithUnreadCache(c UnreadCache) Option {
	return func(s *Service) {
		s.cache = c
	}
}

func WithPublisher(p Publisher) Option {
	return func(s *Service) {
		s.publisher = p
	}
}

func New(store Store, renderer Renderer, opts ...Option) *Service {
	s := &Service{
		store:    store,
		renderer: renderer,
		logger:   slog.Default(),
		ttl:      config.NotificationTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create inserts a single notification. The error is informational; moderation
// callers log it and continue.
func (s *Service) Create(ctx context.Context, recipient models.Recipient, tmpl models.Template) (*models.Notification, error) {
	n, err := models.NewNotification(id.NewNotificationID(), recipient, tmpl, requestcontext.Now(ctx), s.ttl)
	if err != nil {
		s.metrics.IncNotificationFailure("validate")
		return nil, dErrors.Wrap(err, dErrors.CodeValidation, "invalid notification")
	}
	if err := s.store.Create(ctx, n); err != nil {
		s.metrics.IncNotificationFailure("insert")
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create notification")
	}
	s.metrics.AddNotificationsCreated(string(n.Type), 1)
	s.afterWrite(ctx, []*models.Notification{n})
	return n, nil
}

// CreateBulk applies one template to every recipient in a single batch insert.
// A recipient listed twice gets one entry. Partial failure is reported in the
// counts and never retried.
func (s *Service) CreateBulk(ctx context.Context, recipients []models.Recipient, tmpl models.Template) models.BulkResult {
	recipients = dedupe.Values(recipients)
	result := models.BulkResult{Requested: len(recipients)}
	if len(recipients) == 0 {
		return result
	}

	now := requestcontext.Now(ctx)
	batch := make([]*models.Notification, 0, len(recipients))
	for _, r := range recipients {
		n, err := models.NewNotification(id.NewNotificationID(), r, tmpl, now, s.ttl)
		if err != nil {
			s.logger.WarnContext(ctx, "skipping invalid notification recipient",
				"recipient_id", r.ID,
				"type", tmpl.Type,
				"error", err,
			)
			result.Failed++
			continue
		}
		batch = append(batch, n)
	}

	inserted, err := s.store.CreateBulk(ctx, batch)
	if err != nil {
		s.logger.ErrorContext(ctx, "bulk notification insert failed",
			"type", tmpl.Type,
			"count", len(batch),
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		s.metrics.IncNotificationFailure("bulk_insert")
		result.Failed += len(batch)
		return result
	}
	result.Inserted = inserted
	result.Failed += len(batch) - inserted
	s.metrics.AddNotificationsCreated(string(tmpl.Type), inserted)
	s.afterWrite(ctx, batch)
	return result
}

// Notify renders msg from the catalogue and creates it for one recipient.
func (s *Service) Notify(ctx context.Context, recipient models.Recipient, msg models.Message) error {
	tmpl, err := s.renderer.Render(msg)
	if err != nil {
		s.metrics.IncNotificationFailure("render")
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to render notification")
	}
	_, err = s.Create(ctx, recipient, tmpl)
	return err
}

// NotifyAll renders msg once and fans it out to every recipient.
func (s *Service) NotifyAll(ctx context.Context, recipients []models.Recipient, msg models.Message) models.BulkResult {
	tmpl, err := s.renderer.Render(msg)
	if err != nil {
		s.metrics.IncNotificationFailure("render")
		s.logger.ErrorContext(ctx, "failed to render notification", "type", msg.Type, "error", err)
		return models.BulkResult{Requested: len(recipients), Failed: len(recipients)}
	}
	return s.CreateBulk(ctx, recipients, tmpl)
}

func (s *Service) List(ctx context.Context, recipientID string, unreadOnly bool, limit int) ([]*models.Notification, error) {
	ns, err := s.store.ListByRecipient(ctx, recipientID, unreadOnly, requestcontext.Now(ctx), limit)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list notifications")
	}
	return ns, nil
}

// UnreadCount reads through the cache when one is configured.
func (s *Service) UnreadCount(ctx context.Context, recipientID string) (int, error) {
	if s.cache != nil {
		count, ok, err := s.cache.Get(ctx, recipientID)
		if err != nil {
			s.logger.WarnContext(ctx, "unread cache read failed", "recipient_id", recipientID, "error", err)
		} else if ok {
			return count, nil
		}
	}

	count, err := s.store.CountUnread(ctx, recipientID, requestcontext.Now(ctx))
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count notifications")
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, recipientID, count); err != nil {
			s.logger.WarnContext(ctx, "unread cache write failed", "recipient_id", recipientID, "error", err)
		}
	}
	return count, nil
}

func (s *Service) MarkRead(ctx context.Context, recipientID string, nid id.NotificationID) (*models.Notification, error) {
	n, err := s.store.MarkRead(ctx, recipientID, nid, requestcontext.Now(ctx))
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "notification not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to mark notification read")
	}
	s.invalidate(ctx, recipientID)
	return n, nil
}

func (s *Service) MarkAllRead(ctx context.Context, recipientID string) (int, error) {
	updated, err := s.store.MarkAllRead(ctx, recipientID, requestcontext.Now(ctx))
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to mark notifications read")
	}
	s.invalidate(ctx, recipientID)
	return updated, nil
}

// DeleteExpired purges notifications past their TTL.
func (s *Service) DeleteExpired(ctx context.Context) (int, error) {
	deleted, err := s.store.DeleteExpired(ctx, requestcontext.Now(ctx))
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete expired notifications")
	}
	s.logger.InfoContext(ctx, "expired notifications purged", "deleted", deleted)
	return deleted, nil
}

func (s *Service) afterWrite(ctx context.Context, ns []*models.Notification) {
	recipients := make([]string, 0, len(ns))
	for _, n := range ns {
		recipients = append(recipients, n.RecipientID)
	}
	s.invalidate(ctx, dedupe.Values(recipients)...)

	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, ns...); err != nil {
		s.metrics.IncNotificationFailure("publish")
		s.logger.WarnContext(ctx, "notification event publish failed",
			"count", len(ns),
			"error", err,
		)
	}
}

func (s *Service) invalidate(ctx context.Context, recipientIDs ...string) {
	if s.cache == nil || len(recipientIDs) == 0 {
		return
	}
	if err := s.cache.Invalidate(ctx, recipientIDs...); err != nil {
		s.logger.WarnContext(ctx, "unread cache invalidation failed", "error", err)
	}
}
