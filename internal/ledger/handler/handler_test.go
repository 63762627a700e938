package handler

import (
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"placement/internal/ledger/handler/mocks"
	"placement/internal/ledger/models"
	id "placement/pkg/domain"
	dErrors "placement/pkg/domain-errors"
	"placement/pkg/requestcontext"
	"placement/pkg/testutil"
)

//go:generate mockgen -source=handler.go -destination=mocks/ledger-mocks.go -package=mocks Service
type LedgerHandlerSuite struct {
	suite.Suite
	service *mocks.MockService
	router  chi.Router
}

func TestLedgerHandlerSuite(t *testing.T) {
	suite.Run(t, new(LedgerHandlerSuite))
}

func (s *LedgerHandlerSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.service = mocks.NewMockService(ctrl)
	s.router = chi.NewRouter()
	New(s.service, slog.New(slog.NewTextHandler(io.Discard, nil))).Register(s.router)
}

func application() *models.Application {
	return &models.Application{StudentID: "stu-1", DriveID: "d-1", RecruiterID: "rec-1", Status: models.StatusApplied}
}

func (s *LedgerHandlerSuite) TestApply() {
	s.Run("first submission is 201", func() {
		s.service.EXPECT().Submit(gomock.Any(), id.StudentID("stu-1"), id.DriveID("d-1"), id.RecruiterID("")).
			Return(application(), true, nil)

		req := testutil.AsStudent(testutil.NewRequest(s.T(), http.MethodPost, "/drives/d-1/apply"), "stu-1")
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatus(s.T(), rr, http.StatusCreated)
		testutil.AssertJSONContains(s.T(), rr, "created", true)
	})

	s.Run("repeat submission is 200 with the existing entry", func() {
		s.service.EXPECT().Submit(gomock.Any(), id.StudentID("stu-1"), id.DriveID("d-1"), id.RecruiterID("rec-1")).
			Return(application(), false, nil)

		body := map[string]string{"recruiterId": "rec-1"}
		req := testutil.AsStudent(testutil.NewJSONRequest(s.T(), http.MethodPost, "/drives/d-1/apply", body), "stu-1")
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatusOK(s.T(), rr)
		testutil.AssertJSONContains(s.T(), rr, "created", false)
	})

	s.Run("blocked student", func() {
		s.service.EXPECT().Submit(gomock.Any(), id.StudentID("stu-2"), id.DriveID("d-1"), id.RecruiterID("")).
			Return(nil, false, dErrors.New(dErrors.CodeForbidden, "blocked students cannot apply"))

		req := testutil.AsStudent(testutil.NewRequest(s.T(), http.MethodPost, "/drives/d-1/apply"), "stu-2")
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatusAndError(s.T(), rr, http.StatusForbidden, "forbidden")
	})

	s.Run("recruiters cannot apply", func() {
		req := testutil.AsRecruiter(testutil.NewRequest(s.T(), http.MethodPost, "/drives/d-1/apply"), "rec-1")
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatus(s.T(), rr, http.StatusForbidden)
	})
}

func (s *LedgerHandlerSuite) TestUpdateStatus() {
	s.Run("recruiter shortlists", func() {
		requester := requestcontext.Principal{ID: "rec-1", Role: requestcontext.RoleRecruiter}
		updated := application()
		updated.Status = models.StatusShortlisted
		s.service.EXPECT().UpdateStatus(gomock.Any(), id.StudentID("stu-1"), id.DriveID("d-1"), models.StatusShortlisted, requester).
			Return(updated, nil)

		body := map[string]string{"status": "shortlisted"}
		req := testutil.AsRecruiter(testutil.NewJSONRequest(s.T(), http.MethodPut, "/drives/d-1/applications/stu-1", body), "rec-1")
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatusOK(s.T(), rr)
		testutil.AssertJSONContains(s.T(), rr, "status", "shortlisted")
	})

	s.Run("unknown status", func() {
		body := map[string]string{"status": "hired"}
		req := testutil.AsAdmin(testutil.NewJSONRequest(s.T(), http.MethodPut, "/drives/d-1/applications/stu-1", body), "adm-1")
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "validation_error")
	})
}

func (s *LedgerHandlerSuite) TestListByStudent() {
	s.Run("student reads their own ledger", func() {
		s.service.EXPECT().ListByStudent(gomock.Any(), id.StudentID("stu-1")).Return([]*models.Application{application()}, nil)

		req := testutil.AsStudent(testutil.NewRequest(s.T(), http.MethodGet, "/students/stu-1/applications"), "stu-1")
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatusOK(s.T(), rr)
		testutil.AssertJSONContains(s.T(), rr, "count", float64(1))
	})

	s.Run("student cannot read another student's ledger", func() {
		req := testutil.AsStudent(testutil.NewRequest(s.T(), http.MethodGet, "/students/stu-1/applications"), "stu-9")
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatusAndError(s.T(), rr, http.StatusForbidden, "forbidden")
	})
}
