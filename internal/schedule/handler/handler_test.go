package handler

import (
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"placement/internal/schedule/handler/mocks"
	"placement/internal/schedule/models"
	"placement/internal/schedule/service"
	id "placement/pkg/domain"
	dErrors "placement/pkg/domain-errors"
	"placement/pkg/testutil"
)

//go:generate mockgen -source=handler.go -destination=mocks/schedule-mocks.go -package=mocks Service
type ScheduleHandlerSuite struct {
	suite.Suite
	service *mocks.MockService
	router  chi.Router
}

func TestScheduleHandlerSuite(t *testing.T) {
	suite.Run(t, new(ScheduleHandlerSuite))
}

func (s *ScheduleHandlerSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.service = mocks.NewMockService(ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.router = chi.NewRouter()
	New(s.service, logger).Register(s.router)
}

func (s *ScheduleHandlerSuite) TestCreate() {
	body := map[string]any{
		"driveId": "d-1",
		"date":    "2025-03-01",
		"time":    "10:00 AM",
		"venue":   "Seminar Hall",
		"rounds":  []string{"aptitude", " ", "technical"},
	}

	s.Run("recruiter creates a schedule", func() {
		s.service.EXPECT().
			Create(gomock.Any(), id.RecruiterID("rec-1"), gomock.Any()).
			DoAndReturn(func(_ any, recruiterID id.RecruiterID, in service.CreateInput) (*models.Schedule, error) {
				s.Equal(id.DriveID("d-1"), in.DriveID)
				s.Equal(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), in.Date)
				s.Equal([]string{"aptitude", "technical"}, in.Rounds)
				return &models.Schedule{ID: "sch-1", DriveID: in.DriveID, RecruiterID: recruiterID, Status: models.StatusScheduled}, nil
			})

		req := testutil.AsRecruiter(testutil.NewJSONRequest(s.T(), http.MethodPost, "/schedules", body), "rec-1")
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatus(s.T(), rr, http.StatusCreated)
		testutil.AssertJSONContains(s.T(), rr, "id", "sch-1")
	})

	s.Run("students cannot create schedules", func() {
		req := testutil.AsStudent(testutil.NewJSONRequest(s.T(), http.MethodPost, "/schedules", body), "stu-1")
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatusAndError(s.T(), rr, http.StatusForbidden, "forbidden")
	})

	s.Run("drive owned by someone else", func() {
		s.service.EXPECT().Create(gomock.Any(), id.RecruiterID("rec-2"), gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeForbidden, "only the drive's recruiter may schedule interviews"))

		req := testutil.AsRecruiter(testutil.NewJSONRequest(s.T(), http.MethodPost, "/schedules", body), "rec-2")
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatusAndError(s.T(), rr, http.StatusForbidden, "forbidden")
	})

	s.Run("bad date", func() {
		req := testutil.AsRecruiter(testutil.NewJSONRequest(s.T(), http.MethodPost, "/schedules", map[string]any{
			"driveId": "d-1",
			"date":    "03/01/2025",
			"time":    "10:00 AM",
			"venue":   "Hall",
		}), "rec-1")
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "validation_error")
	})
}

func (s *ScheduleHandlerSuite) TestGetAndList() {
	s.Run("get", func() {
		s.service.EXPECT().Get(gomock.Any(), id.ScheduleID("sch-1")).
			Return(&models.Schedule{ID: "sch-1", Venue: "Hall"}, nil)

		req := testutil.AsStudent(testutil.NewRequest(s.T(), http.MethodGet, "/schedules/sch-1"), "stu-1")
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		testutil.AssertJSONContains(s.T(), rr, "venue", "Hall")
	})

	s.Run("missing", func() {
		s.service.EXPECT().Get(gomock.Any(), id.ScheduleID("nope")).
			Return(nil, dErrors.New(dErrors.CodeNotFound, "schedule not found"))

		req := testutil.AsStudent(testutil.NewRequest(s.T(), http.MethodGet, "/schedules/nope"), "stu-1")
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatusAndError(s.T(), rr, http.StatusNotFound, "not_found")
	})

	s.Run("by drive", func() {
		s.service.EXPECT().ListByDrive(gomock.Any(), id.DriveID("d-1")).
			Return([]*models.Schedule{{ID: "sch-1"}, {ID: "sch-2"}}, nil)

		req := testutil.AsAdmin(testutil.NewRequest(s.T(), http.MethodGet, "/drives/d-1/schedules"), "adm-1")
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		testutil.AssertJSONContains(s.T(), rr, "count", float64(2))
	})
}

func (s *ScheduleHandlerSuite) TestAddCandidates() {
	s.Run("reports skipped duplicates", func() {
		s.service.EXPECT().
			AddCandidates(gomock.Any(), id.RecruiterID("rec-1"), id.ScheduleID("sch-1"), []service.CandidateInput{
				{StudentID: "stu-1"},
				{StudentID: "stu-2", Name: "Ravi", Email: "ravi@college.edu"},
			}).
			Return(&models.Schedule{ID: "sch-1"}, 1, nil)

		req := testutil.AsRecruiter(testutil.NewJSONRequest(s.T(), http.MethodPost, "/schedules/sch-1/candidates", map[string]any{
			"candidates": []map[string]string{
				{"studentId": "stu-1"},
				{"studentId": "stu-2", "name": " Ravi ", "email": "ravi@college.edu"},
			},
		}), "rec-1")
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		testutil.AssertJSONContains(s.T(), rr, "added", float64(1))
		testutil.AssertJSONContains(s.T(), rr, "skipped", float64(1))
	})

	s.Run("blocked schedule", func() {
		s.service.EXPECT().AddCandidates(gomock.Any(), gomock.Any(), id.ScheduleID("sch-2"), gomock.Any()).
			Return(nil, 0, dErrors.New(dErrors.CodeConflict, "schedule is blocked"))

		req := testutil.AsRecruiter(testutil.NewJSONRequest(s.T(), http.MethodPost, "/schedules/sch-2/candidates", map[string]any{
			"candidates": []map[string]string{{"studentId": "stu-1"}},
		}), "rec-1")
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatusAndError(s.T(), rr, http.StatusConflict, "conflict")
	})

	s.Run("empty roster", func() {
		req := testutil.AsRecruiter(testutil.NewJSONRequest(s.T(), http.MethodPost, "/schedules/sch-1/candidates", map[string]any{
			"candidates": []map[string]string{},
		}), "rec-1")
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "validation_error")
	})
}

func (s *ScheduleHandlerSuite) TestUpdateCandidate() {
	s.Run("records a score", func() {
		s.service.EXPECT().
			UpdateCandidateStatus(gomock.Any(), id.RecruiterID("rec-1"), id.ScheduleID("sch-1"), id.StudentID("stu-1"), gomock.Any()).
			DoAndReturn(func(_ any, _ id.RecruiterID, _ id.ScheduleID, _ id.StudentID, u models.CandidateUpdate) (*models.Schedule, error) {
				s.Equal(models.CandidatePassed, u.Status)
				s.Require().NotNil(u.Score)
				s.InDelta(82.5, *u.Score, 0.001)
				return &models.Schedule{ID: "sch-1"}, nil
			})

		req := testutil.AsRecruiter(testutil.NewJSONRequest(s.T(), http.MethodPut, "/schedules/sch-1/candidates/stu-1", map[string]any{
			"status": "passed",
			"score":  82.5,
		}), "rec-1")
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatus(s.T(), rr, http.StatusOK)
	})

	s.Run("ordering violation", func() {
		s.service.EXPECT().UpdateCandidateStatus(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeConflict, "cannot move candidate from scheduled to passed"))

		req := testutil.AsRecruiter(testutil.NewJSONRequest(s.T(), http.MethodPut, "/schedules/sch-1/candidates/stu-1", map[string]any{
			"status": "passed",
		}), "rec-1")
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatusAndError(s.T(), rr, http.StatusConflict, "conflict")
	})

	s.Run("score out of range", func() {
		req := testutil.AsRecruiter(testutil.NewJSONRequest(s.T(), http.MethodPut, "/schedules/sch-1/candidates/stu-1", map[string]any{
			"status": "passed",
			"score":  120,
		}), "rec-1")
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
	})
}
