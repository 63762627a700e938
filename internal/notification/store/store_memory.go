// Package store persists notifications and caches unread counts.
//
// Error Contract:
//   - ErrNotFound when the notification does not exist for that recipient
//   - wrapped infrastructure errors otherwise
package store

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"placement/internal/notification/models"
	id "placement/pkg/domain"
	"placement/pkg/platform/sentinel"
)

// InMemory keeps notifications in a map for tests and local runs.
type InMemory struct {
	mu            sync.RWMutex
	notifications map[id.NotificationID]*models.Notification
}

func NewInMemory() *InMemory {
	return &InMemory{notifications: make(map[id.NotificationID]*models.Notification)}
}

func clone(n *models.Notification) *models.Notification {
	c := *n
	c.Metadata = maps.Clone(n.Metadata)
	if n.ReadAt != nil {
		readAt := *n.ReadAt
		c.ReadAt = &readAt
	}
	return &c
}

func (s *InMemory) Create(_ context.Context, n *models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.notifications[n.ID]; ok {
		return fmt.Errorf("notification %s: %w", n.ID, sentinel.ErrAlreadyUsed)
	}
	s.notifications[n.ID] = clone(n)
	return nil
}

// CreateBulk inserts every notification whose id is not taken and reports how many landed.
func (s *InMemory) CreateBulk(_ context.Context, ns []*models.Notification) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inserted := 0
	for _, n := range ns {
		if _, ok := s.notifications[n.ID]; ok {
			continue
		}
		s.notifications[n.ID] = clone(n)
		inserted++
	}
	return inserted, nil
}

func (s *InMemory) ListByRecipient(_ context.Context, recipientID string, unreadOnly bool, now time.Time, limit int) ([]*models.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Notification, 0)
	for _, n := range s.notifications {
		if n.RecipientID != recipientID || n.IsExpired(now) {
			continue
		}
		if unreadOnly && n.Read {
			continue
		}
		out = append(out, clone(n))
	}
	slices.SortFunc(out, func(a, b *models.Notification) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *InMemory) CountUnread(_ context.Context, recipientID string, now time.Time) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, n := range s.notifications {
		if n.RecipientID == recipientID && !n.Read && !n.IsExpired(now) {
			count++
		}
	}
	return count, nil
}

func (s *InMemory) MarkRead(_ context.Context, recipientID string, nid id.NotificationID, now time.Time) (*models.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notifications[nid]
	if !ok || n.RecipientID != recipientID {
		return nil, fmt.Errorf("notification %s: %w", nid, sentinel.ErrNotFound)
	}
	n.MarkRead(now)
	return clone(n), nil
}

func (s *InMemory) MarkAllRead(_ context.Context, recipientID string, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	updated := 0
	for _, n := range s.notifications {
		if n.RecipientID == recipientID && !n.Read {
			n.MarkRead(now)
			updated++
		}
	}
	return updated, nil
}

func (s *InMemory) DeleteExpired(_ context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	deleted := 0
	for nid, n := range s.notifications {
		if n.IsExpired(now) {
			delete(s.notifications, nid)
			deleted++
		}
	}
	return deleted, nil
}
