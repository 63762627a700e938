package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"placement/internal/drive/models"
	"placement/internal/drive/store"
	ledgermodels "placement/internal/ledger/models"
	ledgerstore "placement/internal/ledger/store"
	id "placement/pkg/domain"
	dErrors "placement/pkg/domain-errors"
	"placement/pkg/requestcontext"
)

type DriveServiceSuite struct {
	suite.Suite
	ctx     context.Context
	now     time.Time
	ledger  *ledgerstore.InMemory
	service *Service
}

func TestDriveServiceSuite(t *testing.T) {
	suite.Run(t, new(DriveServiceSuite))
}

func (s *DriveServiceSuite) SetupTest() {
	s.now = time.Date(2025, 2, 20, 9, 0, 0, 0, time.UTC)
	s.ctx = requestcontext.WithTime(context.Background(), s.now)
	s.ledger = ledgerstore.NewInMemory()
	s.service = New(store.NewInMemory(), s.ledger, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
}

func (s *DriveServiceSuite) fields(position string) models.Fields {
	return models.Fields{
		CompanyName: "Acme",
		Position:    position,
		Salary:      "10 LPA",
		Location:    "Chennai",
		DriveDate:   time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Deadline:    time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (s *DriveServiceSuite) record(reason string) id.ModerationRecord {
	return id.ModerationRecord{AdminID: "adm-1", AdminName: "Placement Office", Reason: reason, At: s.now}
}

func (s *DriveServiceSuite) TestCreate() {
	s.Run("missing required fields are validation errors", func() {
		f := s.fields("SDE-1")
		f.Salary = ""
		_, err := s.service.Create(s.ctx, "R", f)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("new drives are active and listed", func() {
		d, err := s.service.Create(s.ctx, "R", s.fields("SDE-1"))
		s.Require().NoError(err)
		s.Equal(models.StatusActive, d.Status)

		visible, err := s.service.ListVisible(s.ctx)
		s.Require().NoError(err)
		s.Len(visible, 1)
	})
}

func (s *DriveServiceSuite) TestModeratedDrivesLeaveTheListingButNotStorage() {
	blocked, err := s.service.Create(s.ctx, "R", s.fields("SDE-1"))
	s.Require().NoError(err)
	deleted, err := s.service.Create(s.ctx, "R", s.fields("SDE-2"))
	s.Require().NoError(err)
	kept, err := s.service.Create(s.ctx, "R", s.fields("SDE-3"))
	s.Require().NoError(err)

	_, changed, err := s.service.Block(s.ctx, blocked.ID, s.record("budget cut"))
	s.Require().NoError(err)
	s.True(changed)
	_, changed, err = s.service.Delete(s.ctx, deleted.ID, s.record("duplicate posting"))
	s.Require().NoError(err)
	s.True(changed)

	s.Run("listing excludes both tombstones", func() {
		visible, err := s.service.ListVisible(s.ctx)
		s.Require().NoError(err)
		s.Require().Len(visible, 1)
		s.Equal(kept.ID, visible[0].ID)
	})

	s.Run("raw lookup keeps the moderation metadata", func() {
		d, err := s.service.Get(s.ctx, blocked.ID)
		s.Require().NoError(err)
		s.True(d.IsBlocked)
		s.Equal(models.StatusBlocked, d.Status)
		s.Require().NotNil(d.BlockedBy)
		s.Equal("budget cut", d.BlockedBy.Reason)

		d, err = s.service.Get(s.ctx, deleted.ID)
		s.Require().NoError(err)
		s.True(d.IsDeleted)
		s.Equal("duplicate posting", d.DeletedBy.Reason)
	})

	s.Run("recruiter listing still shows every drive", func() {
		mine, err := s.service.ListByRecruiter(s.ctx, "R")
		s.Require().NoError(err)
		s.Len(mine, 3)
	})

	s.Run("repeat block is a no-op", func() {
		d, changed, err := s.service.Block(s.ctx, blocked.ID, s.record("second reason"))
		s.Require().NoError(err)
		s.False(changed)
		s.Equal("budget cut", d.BlockedBy.Reason)

		d, changed, err = s.service.Delete(s.ctx, deleted.ID, s.record("second reason"))
		s.Require().NoError(err)
		s.False(changed)
		s.Equal("duplicate posting", d.DeletedBy.Reason)
	})

	s.Run("unknown drive", func() {
		_, _, err := s.service.Block(s.ctx, "missing", s.record("x"))
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *DriveServiceSuite) TestUpdate() {
	d, err := s.service.Create(s.ctx, "R", s.fields("SDE-1"))
	s.Require().NoError(err)

	s.Run("owner edits and closes", func() {
		updated, err := s.service.Update(s.ctx, "R", d.ID, s.fields("SDE-1 (revised)"), models.StatusClosed)
		s.Require().NoError(err)
		s.Equal("SDE-1 (revised)", updated.Position)
		s.Equal(models.StatusClosed, updated.Status)
	})

	s.Run("non-owner is forbidden", func() {
		_, err := s.service.Update(s.ctx, "R2", d.ID, s.fields("x"), "")
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	s.Run("recruiters cannot set moderation statuses", func() {
		_, err := s.service.Update(s.ctx, "R", d.ID, s.fields("x"), models.StatusBlocked)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("moderated drives conflict", func() {
		_, _, err := s.service.Block(s.ctx, d.ID, s.record("policy"))
		s.Require().NoError(err)
		_, err = s.service.Update(s.ctx, "R", d.ID, s.fields("x"), "")
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})
}

func (s *DriveServiceSuite) TestListApplicantsReadsTheLedger() {
	d, err := s.service.Create(s.ctx, "R", s.fields("SDE-1"))
	s.Require().NoError(err)
	for _, stu := range []id.StudentID{"stu-1", "stu-2"} {
		app, err := ledgermodels.NewApplication(stu, d.ID, "R", "Acme", "SDE-1", s.now)
		s.Require().NoError(err)
		_, created, err := s.ledger.GetOrCreate(s.ctx, app)
		s.Require().NoError(err)
		s.Require().True(created)
	}

	s.Run("owner sees the derived view", func() {
		apps, err := s.service.ListApplicants(s.ctx, d.ID, requestcontext.Principal{ID: "R", Role: requestcontext.RoleRecruiter})
		s.Require().NoError(err)
		s.Len(apps, 2)
	})

	s.Run("admin sees it too", func() {
		apps, err := s.service.ListApplicants(s.ctx, d.ID, requestcontext.Principal{ID: "adm", Role: requestcontext.RoleAdmin})
		s.Require().NoError(err)
		s.Len(apps, 2)
	})

	s.Run("another recruiter does not", func() {
		_, err := s.service.ListApplicants(s.ctx, d.ID, requestcontext.Principal{ID: "R2", Role: requestcontext.RoleRecruiter})
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})
}
