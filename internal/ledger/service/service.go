// Package service implements the application ledger, the single source of
// truth for which student applied to which drive.
package service

import (
	"context"
	"errors"
	"log/slog"

	accountmodels "placement/internal/account/models"
	drivemodels "placement/internal/drive/models"
	"placement/internal/ledger/models"
	notificationmodels "placement/internal/notification/models"
	"placement/internal/platform/metrics"
	id "placement/pkg/domain"
	dErrors "placement/pkg/domain-errors"
	"placement/pkg/platform/sentinel"
	"placement/pkg/requestcontext"
)

type Store interface {
	GetOrCreate(ctx context.Context, a *models.Application) (*models.Application, bool, error)
	Find(ctx context.Context, studentID id.StudentID, driveID id.DriveID) (*models.Application, error)
	ListByStudent(ctx context.Context, studentID id.StudentID) ([]*models.Application, error)
	ListByDrive(ctx context.Context, driveID id.DriveID) ([]*models.Application, error)
	Execute(ctx context.Context, studentID id.StudentID, driveID id.DriveID, validate func(*models.Application) error, mutate func(*models.Application)) (*models.Application, error)
	Delete(ctx context.Context, studentID id.StudentID, driveID id.DriveID) (*models.Application, error)
}

type DriveReader interface {
	Get(ctx context.Context, driveID id.DriveID) (*drivemodels.Drive, error)
}

type StudentReader interface {
	GetStudent(ctx context.Context, studentID id.StudentID) (*accountmodels.Student, error)
}

type Notifier interface {
	Notify(ctx context.Context, recipient notificationmodels.Recipient, msg notificationmodels.Message) error
}

type Service struct {
	store    Store
	drives   DriveReader
	students StudentReader
	notifier Notifier
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func New(store Store, drives DriveReader, students StudentReader, notifier Notifier, opts ...Option) *Service {
	s := &Service{
		store:    store,
		drives:   drives,
		students: students,
		notifier: notifier,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit records that the student applied to the drive. It is get-or-create
// on (student, drive): a repeat submission returns the existing entry with
// created=false. recruiterID is optional; when given it must own the drive.
func (s *Service) Submit(ctx context.Context, studentID id.StudentID, driveID id.DriveID, recruiterID id.RecruiterID) (*models.Application, bool, error) {
	student, err := s.students.GetStudent(ctx, studentID)
	if err != nil {
		return nil, false, err
	}
	if student.IsBlocked {
		return nil, false, dErrors.New(dErrors.CodeForbidden, "blocked students cannot apply")
	}

	drive, err := s.drives.Get(ctx, driveID)
	if err != nil {
		return nil, false, err
	}
	if !recruiterID.IsNil() && recruiterID != drive.RecruiterID {
		return nil, false, dErrors.New(dErrors.CodeValidation, "recruiterId does not own this drive")
	}
	if !drive.AcceptsApplications() {
		return nil, false, dErrors.New(dErrors.CodeConflict, "drive is not accepting applications")
	}

	app, err := models.NewApplication(studentID, driveID, drive.RecruiterID, drive.CompanyName, drive.Position, requestcontext.Now(ctx))
	if err != nil {
		return nil, false, dErrors.New(dErrors.CodeValidation, dErrors.MessageOf(err))
	}
	stored, created, err := s.store.GetOrCreate(ctx, app)
	if err != nil {
		return nil, false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to record application")
	}
	if created {
		s.metrics.IncApplicationSubmitted()
		s.logger.InfoContext(ctx, "application submitted",
			"student_id", studentID,
			"drive_id", driveID,
		)
	}
	return stored, created, nil
}

func (s *Service) Get(ctx context.Context, studentID id.StudentID, driveID id.DriveID) (*models.Application, error) {
	a, err := s.store.Find(ctx, studentID, driveID)
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	return a, nil
}

func (s *Service) ListByStudent(ctx context.Context, studentID id.StudentID) ([]*models.Application, error) {
	apps, err := s.store.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list applications")
	}
	return apps, nil
}

// ListByDrive is the drive's applicant view.
func (s *Service) ListByDrive(ctx context.Context, driveID id.DriveID) ([]*models.Application, error) {
	apps, err := s.store.ListByDrive(ctx, driveID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list applicants")
	}
	return apps, nil
}

// UpdateStatus changes the status and notifies the student best-effort.
// Recruiters may only update applications to their own drives.
func (s *Service) UpdateStatus(ctx context.Context, studentID id.StudentID, driveID id.DriveID, status models.Status, requester requestcontext.Principal) (*models.Application, error) {
	now := requestcontext.Now(ctx)
	app, err := s.store.Execute(ctx, studentID, driveID,
		func(a *models.Application) error {
			if requester.Role == requestcontext.RoleRecruiter && a.RecruiterID.String() != requester.ID {
				return dErrors.New(dErrors.CodeForbidden, "only the owning recruiter may update this application")
			}
			return nil
		},
		func(a *models.Application) {
			a.ApplyStatus(status, now)
		},
	)
	if err != nil {
		return nil, wrapStoreErr(err)
	}

	err = s.notifier.Notify(ctx, notificationmodels.Student(studentID), notificationmodels.Message{
		Type:           notificationmodels.TypeApplicationStatusUpdated,
		AffectedItemID: driveID.String(),
		Data: map[string]string{
			"company":  app.CompanyName,
			"position": app.Position,
			"status":   string(status),
			"driveId":  driveID.String(),
		},
	})
	if err != nil {
		s.logger.WarnContext(ctx, "application status notification failed",
			"student_id", studentID,
			"drive_id", driveID,
			"error", err,
		)
	}
	return app, nil
}

// Remove deletes the ledger entry and returns what was removed.
func (s *Service) Remove(ctx context.Context, studentID id.StudentID, driveID id.DriveID) (*models.Application, error) {
	a, err := s.store.Delete(ctx, studentID, driveID)
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	return a, nil
}

func wrapStoreErr(err error) error {
	var de *dErrors.Error
	if errors.As(err, &de) {
		return err
	}
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "application not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "application storage failure")
}
