//go:build integration

package store_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"placement/internal/schedule/models"
	"placement/internal/schedule/store"
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
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "schedule_candidates", "schedules"))
}

func (s *PostgresStoreSuite) create(students ...id.StudentID) *models.Schedule {
	sch, err := models.NewSchedule(id.NewScheduleID(), "d-1", "rec-1",
		time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), "10:00 AM", "Seminar Hall", []string{"technical"}, s.now)
	s.Require().NoError(err)
	cands := make([]models.Candidate, 0, len(students))
	for _, sid := range students {
		cands = append(cands, models.Candidate{StudentID: sid, Name: "Student " + sid.String()})
	}
	sch.AddCandidates(cands, s.now)
	s.Require().NoError(s.store.Create(context.Background(), sch))
	return sch
}

func (s *PostgresStoreSuite) TestRoundTrip() {
	ctx := context.Background()
	sch := s.create("stu-1", "stu-2")

	found, err := s.store.FindByID(ctx, sch.ID)
	s.Require().NoError(err)
	s.Equal("Seminar Hall", found.Venue)
	s.Equal([]string{"technical"}, found.Rounds)
	s.Len(found.Candidates, 2)
	s.True(found.Date.Equal(sch.Date))

	_, err = s.store.FindByID(ctx, "missing")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestExecutePersistsRosterChanges() {
	ctx := context.Background()
	sch := s.create("stu-1", "stu-2")
	score := 72.0

	updated, err := s.store.Execute(ctx, sch.ID,
		func(cur *models.Schedule) error { return cur.CanUpdateCandidate("stu-1", models.CandidateAttended) },
		func(cur *models.Schedule) {
			cur.ApplyCandidateUpdate("stu-1", models.CandidateUpdate{Status: models.CandidateAttended, Score: &score}, s.now)
			cur.RemoveCandidate("stu-2", s.now)
		},
	)
	s.Require().NoError(err)
	s.Len(updated.Candidates, 1)

	found, err := s.store.FindByID(ctx, sch.ID)
	s.Require().NoError(err)
	s.Require().Len(found.Candidates, 1)
	s.Equal(models.CandidateAttended, found.Candidates[0].Status)
	s.Require().NotNil(found.Candidates[0].Score)
	s.InDelta(72.0, *found.Candidates[0].Score, 0.001)
}

func (s *PostgresStoreSuite) TestRosterWriteMixesNullAndScoredRows() {
	ctx := context.Background()
	sch := s.create("stu-1", "stu-2", "stu-3")
	score := 91.5
	notes := "strong"

	_, err := s.store.Execute(ctx, sch.ID,
		func(cur *models.Schedule) error { return cur.CanUpdateCandidate("stu-2", models.CandidateAttended) },
		func(cur *models.Schedule) {
			cur.ApplyCandidateUpdate("stu-2", models.CandidateUpdate{Status: models.CandidateAttended, Score: &score, FeedbackNotes: &notes}, s.now)
		},
	)
	s.Require().NoError(err)

	found, err := s.store.FindByID(ctx, sch.ID)
	s.Require().NoError(err)
	s.Require().Len(found.Candidates, 3)

	scored, ok := found.FindCandidate("stu-2")
	s.Require().True(ok)
	s.Equal("strong", scored.FeedbackNotes)
	s.Require().NotNil(scored.Score)
	s.InDelta(91.5, *scored.Score, 0.001)

	for _, sid := range []id.StudentID{"stu-1", "stu-3"} {
		c, ok := found.FindCandidate(sid)
		s.Require().True(ok)
		s.Equal(models.CandidateScheduled, c.Status)
		s.Nil(c.Score, "candidate %s", sid)
	}
}

func (s *PostgresStoreSuite) TestListActiveByCandidate() {
	ctx := context.Background()
	active := s.create("stu-1")
	blocked := s.create("stu-1")
	finished := s.create("stu-1")

	_, err := s.store.Execute(ctx, blocked.ID, func(*models.Schedule) error { return nil }, func(cur *models.Schedule) {
		cur.ApplyBlock(id.ModerationRecord{AdminID: "adm-1", Reason: "venue unavailable", At: s.now})
	})
	s.Require().NoError(err)
	_, err = s.store.Execute(ctx, finished.ID, func(*models.Schedule) error { return nil }, func(cur *models.Schedule) {
		cur.ApplyCandidateUpdate("stu-1", models.CandidateUpdate{Status: models.CandidateAbsent}, s.now)
	})
	s.Require().NoError(err)

	schedules, err := s.store.ListActiveByCandidate(ctx, "stu-1")
	s.Require().NoError(err)
	ids := make([]id.ScheduleID, 0, len(schedules))
	for _, sch := range schedules {
		ids = append(ids, sch.ID)
	}
	s.ElementsMatch([]id.ScheduleID{active.ID, blocked.ID}, ids)
}

// TestConcurrentRemovalsKeepOtherCandidates removes every candidate in
// parallel; row locking must keep each write from resurrecting another.
func (s *PostgresStoreSuite) TestConcurrentRemovalsKeepOtherCandidates() {
	ctx := context.Background()
	students := []id.StudentID{"stu-1", "stu-2", "stu-3", "stu-4", "stu-5", "stu-6"}
	sch := s.create(students...)

	var wg sync.WaitGroup
	for _, sid := range students[:4] {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.store.Execute(ctx, sch.ID, func(*models.Schedule) error { return nil }, func(cur *models.Schedule) {
				cur.RemoveCandidate(sid, s.now)
			})
			s.NoError(err)
		}()
	}
	wg.Wait()

	found, err := s.store.FindByID(ctx, sch.ID)
	s.Require().NoError(err)
	remaining := make([]id.StudentID, 0, len(found.Candidates))
	for _, c := range found.Candidates {
		remaining = append(remaining, c.StudentID)
	}
	s.ElementsMatch([]id.StudentID{"stu-5", "stu-6"}, remaining)
}
