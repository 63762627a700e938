package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	accountservice "placement/internal/account/service"
	accountstore "placement/internal/account/store"
	drivemodels "placement/internal/drive/models"
	driveservice "placement/internal/drive/service"
	drivestore "placement/internal/drive/store"
	"placement/internal/ledger/models"
	"placement/internal/ledger/store"
	notificationmodels "placement/internal/notification/models"
	id "placement/pkg/domain"
	dErrors "placement/pkg/domain-errors"
	"placement/pkg/requestcontext"
)

type recordingNotifier struct {
	mu   sync.Mutex
	sent []notificationmodels.Message
	err  error
}

func (n *recordingNotifier) Notify(_ context.Context, _ notificationmodels.Recipient, msg notificationmodels.Message) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, msg)
	return n.err
}

type LedgerServiceSuite struct {
	suite.Suite
	ctx      context.Context
	store    *store.InMemory
	accounts *accountservice.Service
	drives   *driveservice.Service
	notifier *recordingNotifier
	service  *Service
	drive    *drivemodels.Drive
}

func TestLedgerServiceSuite(t *testing.T) {
	suite.Run(t, new(LedgerServiceSuite))
}

func (s *LedgerServiceSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.ctx = requestcontext.WithTime(context.Background(), time.Date(2025, 2, 20, 9, 0, 0, 0, time.UTC))
	s.store = store.NewInMemory()
	s.accounts = accountservice.New(accountstore.NewInMemory(), accountservice.WithLogger(logger))
	s.drives = driveservice.New(drivestore.NewInMemory(), s.store, driveservice.WithLogger(logger))
	s.notifier = &recordingNotifier{}
	s.service = New(s.store, s.drives, s.accounts, s.notifier, WithLogger(logger))

	for _, stu := range []id.StudentID{"stu-1", "stu-2"} {
		_, err := s.accounts.RegisterStudent(s.ctx, stu, "Student "+stu.String(), stu.String()+"@college.edu", "CSE")
		s.Require().NoError(err)
	}
	d, err := s.drives.Create(s.ctx, "R", drivemodels.Fields{
		CompanyName: "Acme",
		Position:    "SDE-1",
		Salary:      "12 LPA",
		Location:    "Pune",
		DriveDate:   time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Deadline:    time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC),
	})
	s.Require().NoError(err)
	s.drive = d
}

func (s *LedgerServiceSuite) TestSubmit() {
	s.Run("first apply records one entry for that student only", func() {
		app, created, err := s.service.Submit(s.ctx, "stu-1", s.drive.ID, "")
		s.Require().NoError(err)
		s.True(created)
		s.Equal(models.StatusApplied, app.Status)
		s.Equal(id.RecruiterID("R"), app.RecruiterID)
		s.Equal("Acme", app.CompanyName)

		mine, err := s.service.ListByStudent(s.ctx, "stu-1")
		s.Require().NoError(err)
		s.Require().Len(mine, 1)
		s.Equal(s.drive.ID, mine[0].DriveID)

		others, err := s.service.ListByStudent(s.ctx, "stu-2")
		s.Require().NoError(err)
		s.Empty(others)
	})

	s.Run("second apply is idempotent", func() {
		_, created, err := s.service.Submit(s.ctx, "stu-1", s.drive.ID, "R")
		s.Require().NoError(err)
		s.False(created)

		apps, err := s.service.ListByDrive(s.ctx, s.drive.ID)
		s.Require().NoError(err)
		s.Len(apps, 1)
	})

	s.Run("mismatched recruiter id", func() {
		_, _, err := s.service.Submit(s.ctx, "stu-2", s.drive.ID, "someone-else")
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("unknown drive and unknown student", func() {
		_, _, err := s.service.Submit(s.ctx, "stu-1", "missing", "")
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))

		_, _, err = s.service.Submit(s.ctx, "ghost", s.drive.ID, "")
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *LedgerServiceSuite) TestSubmitRejectsInactiveTargets() {
	s.Run("blocked drive", func() {
		_, _, err := s.drives.Block(s.ctx, s.drive.ID, id.ModerationRecord{AdminID: "adm", Reason: "x", At: time.Now()})
		s.Require().NoError(err)

		_, _, err = s.service.Submit(s.ctx, "stu-1", s.drive.ID, "")
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("blocked student", func() {
		_, _, err := s.accounts.Block(s.ctx, "stu-2", id.ModerationRecord{AdminID: "adm", Reason: "spam", At: time.Now()})
		s.Require().NoError(err)

		_, _, err = s.service.Submit(s.ctx, "stu-2", s.drive.ID, "")
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})
}

func (s *LedgerServiceSuite) TestConcurrentSubmitConverges() {
	const callers = 32
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
	)
	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, ok, err := s.service.Submit(s.ctx, "stu-1", s.drive.ID, "")
			s.NoError(err)
			if ok {
				mu.Lock()
				created++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	s.Equal(1, created)
	apps, err := s.service.ListByDrive(s.ctx, s.drive.ID)
	s.Require().NoError(err)
	s.Len(apps, 1)
}

func (s *LedgerServiceSuite) TestUpdateStatus() {
	_, _, err := s.service.Submit(s.ctx, "stu-1", s.drive.ID, "")
	s.Require().NoError(err)
	owner := requestcontext.Principal{ID: "R", Role: requestcontext.RoleRecruiter}

	s.Run("owner updates and the student is notified", func() {
		app, err := s.service.UpdateStatus(s.ctx, "stu-1", s.drive.ID, models.StatusShortlisted, owner)
		s.Require().NoError(err)
		s.Equal(models.StatusShortlisted, app.Status)
		s.Require().Len(s.notifier.sent, 1)
		s.Equal(notificationmodels.TypeApplicationStatusUpdated, s.notifier.sent[0].Type)
	})

	s.Run("notification failure keeps the update", func() {
		s.notifier.err = errors.New("inbox down")
		app, err := s.service.UpdateStatus(s.ctx, "stu-1", s.drive.ID, models.StatusSelected, owner)
		s.Require().NoError(err)
		s.Equal(models.StatusSelected, app.Status)

		stored, err := s.service.Get(s.ctx, "stu-1", s.drive.ID)
		s.Require().NoError(err)
		s.Equal(models.StatusSelected, stored.Status)
	})

	s.Run("other recruiters are refused", func() {
		_, err := s.service.UpdateStatus(s.ctx, "stu-1", s.drive.ID, models.StatusRejected,
			requestcontext.Principal{ID: "R2", Role: requestcontext.RoleRecruiter})
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	s.Run("missing application", func() {
		_, err := s.service.UpdateStatus(s.ctx, "stu-2", s.drive.ID, models.StatusRejected, owner)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *LedgerServiceSuite) TestRemove() {
	_, _, err := s.service.Submit(s.ctx, "stu-1", s.drive.ID, "")
	s.Require().NoError(err)

	removed, err := s.service.Remove(s.ctx, "stu-1", s.drive.ID)
	s.Require().NoError(err)
	s.Equal(id.StudentID("stu-1"), removed.StudentID)

	_, err = s.service.Remove(s.ctx, "stu-1", s.drive.ID)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))

	apps, err := s.service.ListByDrive(s.ctx, s.drive.ID)
	s.Require().NoError(err)
	s.Empty(apps)
}
