package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"placement/internal/account/models"
	id "placement/pkg/domain"
	dErrors "placement/pkg/domain-errors"
	"placement/pkg/platform/sentinel"
	"placement/pkg/requestcontext"
)

type Store interface {
	CreateStudent(ctx context.Context, student *models.Student) error
	FindStudent(ctx context.Context, studentID id.StudentID) (*models.Student, error)
	ExecuteStudent(ctx context.Context, studentID id.StudentID, validate func(*models.Student) error, mutate func(*models.Student)) (*models.Student, error)
	CreateRecruiter(ctx context.Context, recruiter *models.Recruiter) error
	FindRecruiter(ctx context.Context, recruiterID id.RecruiterID) (*models.Recruiter, error)
}

// Service manages student and recruiter accounts.
type Service struct {
	store  Store
	logger *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func New(store Store, opts ...Option) *Service {
	s := &Service{store: store, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RegisterStudent creates a student. A taken id is a hard conflict.
func (s *Service) RegisterStudent(ctx context.Context, studentID id.StudentID, name, email, department string) (*models.Student, error) {
	student, err := models.NewStudent(studentID, strings.TrimSpace(name), strings.TrimSpace(email), strings.TrimSpace(department), requestcontext.Now(ctx))
	if err != nil {
		return nil, toValidation(err)
	}
	if err := s.store.CreateStudent(ctx, student); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, dErrors.New(dErrors.CodeConflict, "student already registered")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to register student")
	}
	s.logger.InfoContext(ctx, "student registered", "student_id", student.ID)
	return student, nil
}

func (s *Service) RegisterRecruiter(ctx context.Context, recruiterID id.RecruiterID, name, email, company string) (*models.Recruiter, error) {
	recruiter, err := models.NewRecruiter(recruiterID, strings.TrimSpace(name), strings.TrimSpace(email), strings.TrimSpace(company), requestcontext.Now(ctx))
	if err != nil {
		return nil, toValidation(err)
	}
	if err := s.store.CreateRecruiter(ctx, recruiter); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, dErrors.New(dErrors.CodeConflict, "recruiter already registered")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to register recruiter")
	}
	s.logger.InfoContext(ctx, "recruiter registered", "recruiter_id", recruiter.ID)
	return recruiter, nil
}

func (s *Service) GetStudent(ctx context.Context, studentID id.StudentID) (*models.Student, error) {
	student, err := s.store.FindStudent(ctx, studentID)
	if err != nil {
		return nil, wrapStoreErr(err, "student")
	}
	return student, nil
}

func (s *Service) GetRecruiter(ctx context.Context, recruiterID id.RecruiterID) (*models.Recruiter, error) {
	recruiter, err := s.store.FindRecruiter(ctx, recruiterID)
	if err != nil {
		return nil, wrapStoreErr(err, "recruiter")
	}
	return recruiter, nil
}

// Block flips the student to blocked. changed is false when the student was
// already blocked; the original BlockedBy record is kept in that case.
//
// Uses the Execute callback pattern for atomic validate-then-mutate.
func (s *Service) Block(ctx context.Context, studentID id.StudentID, record id.ModerationRecord) (student *models.Student, changed bool, err error) {
	student, err = s.store.ExecuteStudent(ctx, studentID,
		func(st *models.Student) error {
			changed = st.CanBlock() == nil
			return nil
		},
		func(st *models.Student) {
			if changed {
				st.ApplyBlock(record)
			}
		},
	)
	if err != nil {
		return nil, false, wrapStoreErr(err, "student")
	}
	return student, changed, nil
}

// Unblock reverses Block. Unblocking an active student is a conflict.
func (s *Service) Unblock(ctx context.Context, studentID id.StudentID) (*models.Student, error) {
	now := requestcontext.Now(ctx)
	student, err := s.store.ExecuteStudent(ctx, studentID,
		func(st *models.Student) error {
			if err := st.CanUnblock(); err != nil {
				return dErrors.New(dErrors.CodeConflict, "student is not blocked")
			}
			return nil
		},
		func(st *models.Student) {
			st.ApplyUnblock(now)
		},
	)
	if err != nil {
		return nil, wrapStoreErr(err, "student")
	}
	return student, nil
}

func toValidation(err error) error {
	if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
		return dErrors.New(dErrors.CodeValidation, dErrors.MessageOf(err))
	}
	return err
}

func wrapStoreErr(err error, entity string) error {
	var de *dErrors.Error
	if errors.As(err, &de) {
		return err
	}
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, entity+" not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load "+entity)
}
