//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"placement/internal/notification/models"
	"placement/internal/notification/store"
	id "placement/pkg/domain"
	"placement/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.PostgresStore
	now      time.Time
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
	s.now = time.Date(2025, 2, 20, 9, 0, 0, 0, time.UTC)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "notifications"))
}

func (s *PostgresStoreSuite) notification(recipientID string, createdAt time.Time) *models.Notification {
	n, err := models.NewNotification(id.NewNotificationID(), models.Recipient{ID: recipientID, Type: models.RecipientStudent},
		models.Template{
			Type:     models.TypeInterviewBlocked,
			Title:    "Interview cancelled",
			Message:  "Your interview has been cancelled",
			Metadata: map[string]string{"venue": "Hall"},
			Priority: models.PriorityHigh,
		}, createdAt, 30*24*time.Hour)
	s.Require().NoError(err)
	return n
}

func (s *PostgresStoreSuite) TestBulkInboxLifecycle() {
	ctx := context.Background()
	inserted, err := s.store.CreateBulk(ctx, []*models.Notification{
		s.notification("stu-1", s.now),
		s.notification("stu-1", s.now.Add(time.Minute)),
		s.notification("stu-2", s.now),
	})
	s.Require().NoError(err)
	s.Equal(3, inserted)

	unread, err := s.store.CountUnread(ctx, "stu-1", s.now)
	s.Require().NoError(err)
	s.Equal(2, unread)

	inbox, err := s.store.ListByRecipient(ctx, "stu-1", false, s.now, 0)
	s.Require().NoError(err)
	s.Require().Len(inbox, 2)
	s.Equal("Hall", inbox[0].Metadata["venue"])

	read, err := s.store.MarkRead(ctx, "stu-1", inbox[0].ID, s.now)
	s.Require().NoError(err)
	s.True(read.Read)

	marked, err := s.store.MarkAllRead(ctx, "stu-1", s.now)
	s.Require().NoError(err)
	s.Equal(1, marked)

	unreadOnly, err := s.store.ListByRecipient(ctx, "stu-1", true, s.now, 0)
	s.Require().NoError(err)
	s.Empty(unreadOnly)
}

func (s *PostgresStoreSuite) TestDeleteExpired() {
	ctx := context.Background()
	s.Require().NoError(s.store.Create(ctx, s.notification("stu-1", s.now.Add(-31*24*time.Hour))))
	s.Require().NoError(s.store.Create(ctx, s.notification("stu-1", s.now)))

	deleted, err := s.store.DeleteExpired(ctx, s.now)
	s.Require().NoError(err)
	s.Equal(1, deleted)

	inbox, err := s.store.ListByRecipient(ctx, "stu-1", false, s.now, 0)
	s.Require().NoError(err)
	s.Len(inbox, 1)
}
