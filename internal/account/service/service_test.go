package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"placement/internal/account/store"
	id "placement/pkg/domain"
	dErrors "placement/pkg/domain-errors"
	"placement/pkg/requestcontext"
)

type AccountServiceSuite struct {
	suite.Suite
	ctx     context.Context
	service *Service
}

func TestAccountServiceSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceSuite))
}

func (s *AccountServiceSuite) SetupTest() {
	s.ctx = requestcontext.WithTime(context.Background(), time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC))
	s.service = New(store.NewInMemory(), WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
}

func (s *AccountServiceSuite) TestRegistration() {
	s.Run("duplicate student id is a hard conflict", func() {
		_, err := s.service.RegisterStudent(s.ctx, "stu-1", "Asha", "asha@college.edu", "CSE")
		s.Require().NoError(err)

		_, err = s.service.RegisterStudent(s.ctx, "stu-1", "Asha Again", "asha2@college.edu", "")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("missing fields are validation errors", func() {
		_, err := s.service.RegisterRecruiter(s.ctx, "rec-1", "Ravi", "ravi@acme.io", "  ")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("recruiter round trip", func() {
		_, err := s.service.RegisterRecruiter(s.ctx, "rec-2", "Ravi", "ravi@acme.io", "Acme")
		s.Require().NoError(err)

		r, err := s.service.GetRecruiter(s.ctx, "rec-2")
		s.Require().NoError(err)
		s.Equal("Acme", r.CompanyName)
	})
}

func (s *AccountServiceSuite) TestBlockCycle() {
	_, err := s.service.RegisterStudent(s.ctx, "stu-9", "Kiran", "kiran@college.edu", "ECE")
	s.Require().NoError(err)
	record := id.ModerationRecord{AdminID: "adm-1", AdminName: "Ops", Reason: "spam", At: requestcontext.Now(s.ctx)}

	s.Run("unblock of an active student conflicts", func() {
		_, err := s.service.Unblock(s.ctx, "stu-9")
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("block then block again", func() {
		st, changed, err := s.service.Block(s.ctx, "stu-9", record)
		s.Require().NoError(err)
		s.True(changed)
		s.True(st.IsBlocked)

		later := record
		later.Reason = "second attempt"
		st, changed, err = s.service.Block(s.ctx, "stu-9", later)
		s.Require().NoError(err)
		s.False(changed)
		s.True(st.IsBlocked)
		s.Require().NotNil(st.BlockedBy)
		s.Equal("spam", st.BlockedBy.Reason)
	})

	s.Run("unblock restores the flag", func() {
		st, err := s.service.Unblock(s.ctx, "stu-9")
		s.Require().NoError(err)
		s.False(st.IsBlocked)
		s.NotNil(st.UnblockedAt)
	})

	s.Run("unknown student", func() {
		_, _, err := s.service.Block(s.ctx, "ghost", record)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}
