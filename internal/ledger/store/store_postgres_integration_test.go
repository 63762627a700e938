//go:build integration

package store_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"placement/internal/ledger/models"
	"placement/internal/ledger/store"
	id "placement/pkg/domain"
	"placement/pkg/platform/sentinel"
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
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "applications"))
}

func (s *PostgresStoreSuite) application(studentID id.StudentID, driveID id.DriveID) *models.Application {
	app, err := models.NewApplication(studentID, driveID, "rec-1", "Acme", "SDE-1", s.now)
	s.Require().NoError(err)
	return app
}

// TestConcurrentSubmissionsConverge checks that racing submissions for the same
// (student, drive) pair produce exactly one row and one creator.
func (s *PostgresStoreSuite) TestConcurrentSubmissionsConverge() {
	ctx := context.Background()
	const goroutines = 50

	var wg sync.WaitGroup
	var created, existing atomic.Int32
	for range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, isNew, err := s.store.GetOrCreate(ctx, s.application("stu-1", "d-1"))
			if err != nil {
				return
			}
			if isNew {
				created.Add(1)
			} else {
				existing.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), created.Load())
	s.Equal(int32(goroutines-1), existing.Load())

	apps, err := s.store.ListByDrive(ctx, "d-1")
	s.Require().NoError(err)
	s.Len(apps, 1)
}

func (s *PostgresStoreSuite) TestExecuteAndDelete() {
	ctx := context.Background()
	_, _, err := s.store.GetOrCreate(ctx, s.application("stu-1", "d-1"))
	s.Require().NoError(err)

	updated, err := s.store.Execute(ctx, "stu-1", "d-1",
		func(*models.Application) error { return nil },
		func(a *models.Application) { a.ApplyStatus(models.StatusShortlisted, s.now.Add(time.Hour)) },
	)
	s.Require().NoError(err)
	s.Equal(models.StatusShortlisted, updated.Status)

	byStudent, err := s.store.ListByStudent(ctx, "stu-1")
	s.Require().NoError(err)
	s.Require().Len(byStudent, 1)
	s.Equal(models.StatusShortlisted, byStudent[0].Status)

	removed, err := s.store.Delete(ctx, "stu-1", "d-1")
	s.Require().NoError(err)
	s.Equal(id.DriveID("d-1"), removed.DriveID)

	_, err = s.store.Find(ctx, "stu-1", "d-1")
	s.ErrorIs(err, sentinel.ErrNotFound)
}
