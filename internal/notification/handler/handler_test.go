package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"placement/internal/notification/handler/mocks"
	"placement/internal/notification/models"
	id "placement/pkg/domain"
	dErrors "placement/pkg/domain-errors"
	"placement/pkg/testutil"
)

//go:generate mockgen -source=handler.go -destination=mocks/notification-mocks.go -package=mocks Service
type NotificationHandlerSuite struct {
	suite.Suite
	service *mocks.MockService
	router  chi.Router
}

func TestNotificationHandlerSuite(t *testing.T) {
	suite.Run(t, new(NotificationHandlerSuite))
}

func (s *NotificationHandlerSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.service = mocks.NewMockService(ctrl)
	h := New(s.service, slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.router = chi.NewRouter()
	h.Register(s.router)
	h.RegisterAdmin(s.router)
}

func (s *NotificationHandlerSuite) TestList() {
	s.Run("lists the caller's inbox", func() {
		s.service.EXPECT().
			List(gomock.Any(), "stu-1", true, 10).
			Return([]*models.Notification{{ID: "n-1", RecipientID: "stu-1"}}, nil)

		req := testutil.AsStudent(testutil.NewRequest(s.T(), http.MethodGet, "/notifications?unread=true&limit=10"), "stu-1")
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		testutil.AssertJSONContains(s.T(), rr, "count", float64(1))
	})

	s.Run("defaults the limit", func() {
		s.service.EXPECT().List(gomock.Any(), "rec-1", false, 50).Return(nil, nil)

		req := testutil.AsRecruiter(testutil.NewRequest(s.T(), http.MethodGet, "/notifications"), "rec-1")
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatus(s.T(), rr, http.StatusOK)
	})

	s.Run("rejects an out of range limit", func() {
		req := testutil.AsStudent(testutil.NewRequest(s.T(), http.MethodGet, "/notifications?limit=500"), "stu-1")
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "validation_error")
	})

	s.Run("storage failure is a 500", func() {
		s.service.EXPECT().List(gomock.Any(), "stu-1", false, 50).
			Return(nil, dErrors.Wrap(errors.New("conn reset"), dErrors.CodeInternal, "failed to list notifications"))

		req := testutil.AsStudent(testutil.NewRequest(s.T(), http.MethodGet, "/notifications"), "stu-1")
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatusAndError(s.T(), rr, http.StatusInternalServerError, "internal_error")
	})
}

func (s *NotificationHandlerSuite) TestUnreadCount() {
	s.service.EXPECT().UnreadCount(gomock.Any(), "stu-1").Return(3, nil)

	req := testutil.AsStudent(testutil.NewRequest(s.T(), http.MethodGet, "/notifications/unread-count"), "stu-1")
	rr := testutil.DoRequest(s.router, req)

	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	testutil.AssertJSONContains(s.T(), rr, "unreadCount", float64(3))
}

func (s *NotificationHandlerSuite) TestMarkRead() {
	s.Run("marks one notification", func() {
		s.service.EXPECT().
			MarkRead(gomock.Any(), "stu-1", id.NotificationID("n-1")).
			Return(&models.Notification{ID: "n-1", Read: true}, nil)

		req := testutil.AsStudent(testutil.NewRequest(s.T(), http.MethodPost, "/notifications/n-1/read"), "stu-1")
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		testutil.AssertJSONContains(s.T(), rr, "read", true)
	})

	s.Run("someone else's notification is not found", func() {
		s.service.EXPECT().
			MarkRead(gomock.Any(), "stu-2", id.NotificationID("n-1")).
			Return(nil, dErrors.New(dErrors.CodeNotFound, "notification not found"))

		req := testutil.AsStudent(testutil.NewRequest(s.T(), http.MethodPost, "/notifications/n-1/read"), "stu-2")
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatusAndError(s.T(), rr, http.StatusNotFound, "not_found")
	})

	s.Run("read-all is not treated as an id", func() {
		s.service.EXPECT().MarkAllRead(gomock.Any(), "stu-1").Return(4, nil)

		req := testutil.AsStudent(testutil.NewRequest(s.T(), http.MethodPost, "/notifications/read-all"), "stu-1")
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		testutil.AssertJSONContains(s.T(), rr, "updated", float64(4))
	})
}

func (s *NotificationHandlerSuite) TestPurgeExpired() {
	s.service.EXPECT().DeleteExpired(gomock.Any()).Return(12, nil)

	req := testutil.AsAdmin(testutil.NewRequest(s.T(), http.MethodPost, "/admin/notifications/purge-expired"), "adm-1")
	rr := testutil.DoRequest(s.router, req)

	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	testutil.AssertJSONContains(s.T(), rr, "deleted", float64(12))
}
