// Package service owns interview schedules and their candidate rosters.
// Moderation (block, remove) is exposed as primitives here and orchestrated,
// with notifications, by the moderation service.
package service

import (
	"cmp"
	"context"
	"errors"
	"log/slog"
	"time"

	accountmodels "placement/internal/account/models"
	drivemodels "placement/internal/drive/models"
	"placement/internal/schedule/models"
	id "placement/pkg/domain"
	dErrors "placement/pkg/domain-errors"
	"placement/pkg/platform/sentinel"
	"placement/pkg/requestcontext"
)

type Store interface {
	Create(ctx context.Context, sch *models.Schedule) error
	FindByID(ctx context.Context, scheduleID id.ScheduleID) (*models.Schedule, error)
	ListByDrive(ctx context.Context, driveID id.DriveID) ([]*models.Schedule, error)
	ListActiveByCandidate(ctx context.Context, studentID id.StudentID) ([]*models.Schedule, error)
	Execute(ctx context.Context, scheduleID id.ScheduleID, validate func(*models.Schedule) error, mutate func(*models.Schedule)) (*models.Schedule, error)
}

type DriveReader interface {
	Get(ctx context.Context, driveID id.DriveID) (*drivemodels.Drive, error)
}

type StudentReader interface {
	GetStudent(ctx context.Context, studentID id.StudentID) (*accountmodels.Student, error)
}

type Service struct {
	store    Store
	drives   DriveReader
	students StudentReader
	logger   *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func New(store Store, drives DriveReader, students StudentReader, opts ...Option) *Service {
	s := &Service{
		store:    store,
		drives:   drives,
		students: students,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateInput carries the recruiter-supplied schedule fields.
type CreateInput struct {
	DriveID id.DriveID
	Date    time.Time
	Time    string
	Venue   string
	Rounds  []string
}

// Create requires the drive to exist and be owned by the recruiter. A blocked
// or deleted drive is still accepted.
func (s *Service) Create(ctx context.Context, recruiterID id.RecruiterID, in CreateInput) (*models.Schedule, error) {
	drive, err := s.drives.Get(ctx, in.DriveID)
	if err != nil {
		return nil, err
	}
	if drive.RecruiterID != recruiterID {
		return nil, dErrors.New(dErrors.CodeForbidden, "only the owning recruiter may schedule interviews for this drive")
	}
	sch, err := models.NewSchedule(id.NewScheduleID(), in.DriveID, recruiterID, in.Date, in.Time, in.Venue, in.Rounds, requestcontext.Now(ctx))
	if err != nil {
		return nil, dErrors.New(dErrors.CodeValidation, dErrors.MessageOf(err))
	}
	if err := s.store.Create(ctx, sch); err != nil {
		return nil, wrapStoreErr(err)
	}
	s.logger.InfoContext(ctx, "schedule created",
		"schedule_id", sch.ID,
		"drive_id", sch.DriveID,
		"recruiter_id", recruiterID,
	)
	return sch, nil
}

func (s *Service) Get(ctx context.Context, scheduleID id.ScheduleID) (*models.Schedule, error) {
	sch, err := s.store.FindByID(ctx, scheduleID)
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	return sch, nil
}

func (s *Service) ListByDrive(ctx context.Context, driveID id.DriveID) ([]*models.Schedule, error) {
	schedules, err := s.store.ListByDrive(ctx, driveID)
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	return schedules, nil
}

// ListActiveByCandidate finds the schedules where the student is still
// scheduled or ongoing.
func (s *Service) ListActiveByCandidate(ctx context.Context, studentID id.StudentID) ([]*models.Schedule, error) {
	schedules, err := s.store.ListActiveByCandidate(ctx, studentID)
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	return schedules, nil
}

// CandidateInput names a student to put on the roster. Name and email default
// to the student's profile.
type CandidateInput struct {
	StudentID id.StudentID
	Name      string
	Email     string
}

// AddCandidates is idempotent per student: students already on the roster are
// skipped and reported through added. Blocked students are refused.
func (s *Service) AddCandidates(ctx context.Context, recruiterID id.RecruiterID, scheduleID id.ScheduleID, in []CandidateInput) (sch *models.Schedule, added int, err error) {
	if len(in) == 0 {
		return nil, 0, dErrors.New(dErrors.CodeValidation, "at least one candidate is required")
	}
	cands := make([]models.Candidate, 0, len(in))
	for _, c := range in {
		student, err := s.students.GetStudent(ctx, c.StudentID)
		if err != nil {
			return nil, 0, err
		}
		if student.IsBlocked {
			return nil, 0, dErrors.New(dErrors.CodeConflict, "student "+c.StudentID.String()+" is blocked")
		}
		cands = append(cands, models.Candidate{
			StudentID: c.StudentID,
			Name:      cmp.Or(c.Name, student.Name),
			Email:     cmp.Or(c.Email, student.Email),
		})
	}

	now := requestcontext.Now(ctx)
	sch, err = s.store.Execute(ctx, scheduleID,
		func(sch *models.Schedule) error {
			if sch.RecruiterID != recruiterID {
				return dErrors.New(dErrors.CodeForbidden, "only the owning recruiter may change this roster")
			}
			if err := sch.CanChangeRoster(); err != nil {
				return dErrors.New(dErrors.CodeConflict, "schedule is blocked")
			}
			return nil
		},
		func(sch *models.Schedule) {
			added = sch.AddCandidates(cands, now)
		},
	)
	if err != nil {
		return nil, 0, wrapStoreErr(err)
	}
	s.logger.InfoContext(ctx, "candidates added",
		"schedule_id", scheduleID,
		"requested", len(in),
		"added", added,
	)
	return sch, added, nil
}

// UpdateCandidateStatus enforces the candidate status ordering. A same-status
// update may still change notes or score.
func (s *Service) UpdateCandidateStatus(ctx context.Context, recruiterID id.RecruiterID, scheduleID id.ScheduleID, studentID id.StudentID, u models.CandidateUpdate) (*models.Schedule, error) {
	if err := u.Validate(); err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)
	sch, err := s.store.Execute(ctx, scheduleID,
		func(sch *models.Schedule) error {
			if sch.RecruiterID != recruiterID {
				return dErrors.New(dErrors.CodeForbidden, "only the owning recruiter may update candidates")
			}
			if err := sch.CanChangeRoster(); err != nil {
				return dErrors.New(dErrors.CodeConflict, "schedule is blocked")
			}
			if err := sch.CanUpdateCandidate(studentID, u.Status); err != nil {
				if dErrors.HasCode(err, dErrors.CodeNotFound) {
					return err
				}
				return dErrors.New(dErrors.CodeConflict, dErrors.MessageOf(err))
			}
			return nil
		},
		func(sch *models.Schedule) {
			sch.ApplyCandidateUpdate(studentID, u, now)
		},
	)
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	return sch, nil
}

// RemoveCandidate drops the student from the roster and returns the removed
// entry. A student not on the roster is NotFound.
func (s *Service) RemoveCandidate(ctx context.Context, scheduleID id.ScheduleID, studentID id.StudentID) (*models.Schedule, models.Candidate, error) {
	now := requestcontext.Now(ctx)
	var removed models.Candidate
	sch, err := s.store.Execute(ctx, scheduleID,
		func(sch *models.Schedule) error {
			if _, ok := sch.FindCandidate(studentID); !ok {
				return dErrors.New(dErrors.CodeNotFound, "candidate not found on schedule")
			}
			return nil
		},
		func(sch *models.Schedule) {
			removed, _ = sch.RemoveCandidate(studentID, now)
		},
	)
	if err != nil {
		return nil, models.Candidate{}, wrapStoreErr(err)
	}
	return sch, removed, nil
}

// RemoveActiveCandidate is RemoveCandidate restricted to a candidate whose
// interview is still pending. A candidate who has moved past ongoing is a
// conflict and stays on the roster.
func (s *Service) RemoveActiveCandidate(ctx context.Context, scheduleID id.ScheduleID, studentID id.StudentID) (*models.Schedule, models.Candidate, error) {
	now := requestcontext.Now(ctx)
	var removed models.Candidate
	sch, err := s.store.Execute(ctx, scheduleID,
		func(sch *models.Schedule) error {
			c, ok := sch.FindCandidate(studentID)
			if !ok {
				return dErrors.New(dErrors.CodeNotFound, "candidate not found on schedule")
			}
			if !c.Status.IsActive() {
				return dErrors.New(dErrors.CodeConflict, "candidate is no longer active on schedule")
			}
			return nil
		},
		func(sch *models.Schedule) {
			removed, _ = sch.RemoveCandidate(studentID, now)
		},
	)
	if err != nil {
		return nil, models.Candidate{}, wrapStoreErr(err)
	}
	return sch, removed, nil
}

// Block cancels the schedule. changed is false when it was already blocked.
func (s *Service) Block(ctx context.Context, scheduleID id.ScheduleID, record id.ModerationRecord) (sch *models.Schedule, changed bool, err error) {
	sch, err = s.store.Execute(ctx, scheduleID,
		func(*models.Schedule) error { return nil },
		func(sch *models.Schedule) { changed = sch.ApplyBlock(record) },
	)
	if err != nil {
		return nil, false, wrapStoreErr(err)
	}
	return sch, changed, nil
}

func wrapStoreErr(err error) error {
	var de *dErrors.Error
	if errors.As(err, &de) {
		return err
	}
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "schedule not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "schedule storage failure")
}
