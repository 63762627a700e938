package handler

import (
	"testing"

	"github.com/stretchr/testify/suite"

	dErrors "placement/pkg/domain-errors"
)

type RegisterStudentRequestSuite struct {
	suite.Suite
}

func TestRegisterStudentRequestSuite(t *testing.T) {
	suite.Run(t, new(RegisterStudentRequestSuite))
}

func (s *RegisterStudentRequestSuite) valid() *RegisterStudentRequest {
	return &RegisterStudentRequest{FirebaseUID: "stu-1", Name: " Asha ", Email: "asha@college.edu", Department: "CSE"}
}

func (s *RegisterStudentRequestSuite) TestValidate() {
	s.Run("valid request is normalized", func() {
		req := s.valid()
		s.Require().NoError(req.Validate())
		s.Equal("Asha", req.Name)
		s.Equal("stu-1", req.parsedID.String())
	})

	s.Run("bad email", func() {
		req := s.valid()
		req.Email = "not-an-email"
		err := req.Validate()
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("missing uid", func() {
		req := s.valid()
		req.FirebaseUID = "  "
		err := req.Validate()
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("nil request", func() {
		var req *RegisterStudentRequest
		s.True(dErrors.HasCode(req.Validate(), dErrors.CodeBadRequest))
	})
}

func (s *RegisterStudentRequestSuite) TestRecruiterValidate() {
	req := &RegisterRecruiterRequest{ID: "rec-1", Name: "Ravi", Email: "ravi@acme.io"}
	err := req.Validate()
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))

	req.CompanyName = "Acme"
	s.NoError(req.Validate())
}
