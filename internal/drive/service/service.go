package service

import (
	"context"
	"errors"
	"log/slog"

	"placement/internal/drive/models"
	ledgermodels "placement/internal/ledger/models"
	id "placement/pkg/domain"
	dErrors "placement/pkg/domain-errors"
	"placement/pkg/platform/sentinel"
	"placement/pkg/requestcontext"
)

type Store interface {
	Create(ctx context.Context, d *models.Drive) error
	FindByID(ctx context.Context, driveID id.DriveID) (*models.Drive, error)
	ListVisible(ctx context.Context) ([]*models.Drive, error)
	ListByRecruiter(ctx context.Context, recruiterID id.RecruiterID) ([]*models.Drive, error)
	Execute(ctx context.Context, driveID id.DriveID, validate func(*models.Drive) error, mutate func(*models.Drive)) (*models.Drive, error)
}

// ApplicationReader exposes the ledger's per-drive view.
type ApplicationReader interface {
	ListByDrive(ctx context.Context, driveID id.DriveID) ([]*ledgermodels.Application, error)
}

// Service is the drive registry: recruiter CRUD plus the moderation primitives
// the moderation service builds on.
type Service struct {
	store        Store
	applications ApplicationReader
	logger       *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func New(store Store, applications ApplicationReader, opts ...Option) *Service {
	s := &Service{store: store, applications: applications, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Create(ctx context.Context, recruiterID id.RecruiterID, fields models.Fields) (*models.Drive, error) {
	d, err := models.NewDrive(id.NewDriveID(), recruiterID, fields, requestcontext.Now(ctx))
	if err != nil {
		return nil, toValidation(err)
	}
	if err := s.store.Create(ctx, d); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create drive")
	}
	s.logger.InfoContext(ctx, "drive created",
		"drive_id", d.ID,
		"recruiter_id", recruiterID,
	)
	return d, nil
}

// Get is the raw lookup: moderated drives are returned with their metadata.
func (s *Service) Get(ctx context.Context, driveID id.DriveID) (*models.Drive, error) {
	d, err := s.store.FindByID(ctx, driveID)
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	return d, nil
}

// ListVisible returns every drive that is neither blocked nor deleted.
func (s *Service) ListVisible(ctx context.Context) ([]*models.Drive, error) {
	drives, err := s.store.ListVisible(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list drives")
	}
	visible := drives[:0]
	for _, d := range drives {
		if d.IsVisible() {
			visible = append(visible, d)
		}
	}
	return visible, nil
}

func (s *Service) ListByRecruiter(ctx context.Context, recruiterID id.RecruiterID) ([]*models.Drive, error) {
	drives, err := s.store.ListByRecruiter(ctx, recruiterID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list drives")
	}
	return drives, nil
}

// Update replaces the recruiter fields. Only the owner may edit, and never
// after moderation.
func (s *Service) Update(ctx context.Context, recruiterID id.RecruiterID, driveID id.DriveID, fields models.Fields, status models.Status) (*models.Drive, error) {
	if status != "" && !status.IsRecruiterSettable() {
		return nil, dErrors.New(dErrors.CodeValidation, "status must be active or closed")
	}
	if err := fields.Validate(); err != nil {
		return nil, toValidation(err)
	}
	now := requestcontext.Now(ctx)
	d, err := s.store.Execute(ctx, driveID,
		func(d *models.Drive) error {
			if d.RecruiterID != recruiterID {
				return dErrors.New(dErrors.CodeForbidden, "only the owning recruiter may edit this drive")
			}
			if err := d.CanEdit(); err != nil {
				return dErrors.New(dErrors.CodeConflict, "drive is blocked or deleted")
			}
			return nil
		},
		func(d *models.Drive) {
			d.ApplyEdit(fields, status, now)
		},
	)
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	return d, nil
}

// Block tombstones the drive. changed is false when the drive was already
// blocked or deleted; the original moderation record is then left intact.
func (s *Service) Block(ctx context.Context, driveID id.DriveID, record id.ModerationRecord) (d *models.Drive, changed bool, err error) {
	d, err = s.store.Execute(ctx, driveID,
		func(*models.Drive) error { return nil },
		func(d *models.Drive) { changed = d.ApplyBlock(record) },
	)
	if err != nil {
		return nil, false, wrapStoreErr(err)
	}
	return d, changed, nil
}

// Delete is Block's sibling with the deleted tombstone.
func (s *Service) Delete(ctx context.Context, driveID id.DriveID, record id.ModerationRecord) (d *models.Drive, changed bool, err error) {
	d, err = s.store.Execute(ctx, driveID,
		func(*models.Drive) error { return nil },
		func(d *models.Drive) { changed = d.ApplyDelete(record) },
	)
	if err != nil {
		return nil, false, wrapStoreErr(err)
	}
	return d, changed, nil
}

// ListApplicants derives the applicant view from the ledger. Recruiters may
// only read their own drives.
func (s *Service) ListApplicants(ctx context.Context, driveID id.DriveID, requester requestcontext.Principal) ([]*ledgermodels.Application, error) {
	d, err := s.Get(ctx, driveID)
	if err != nil {
		return nil, err
	}
	if requester.Role == requestcontext.RoleRecruiter && d.RecruiterID.String() != requester.ID {
		return nil, dErrors.New(dErrors.CodeForbidden, "only the owning recruiter may view applicants")
	}
	apps, err := s.applications.ListByDrive(ctx, driveID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list applicants")
	}
	return apps, nil
}

func toValidation(err error) error {
	if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
		return dErrors.New(dErrors.CodeValidation, dErrors.MessageOf(err))
	}
	return err
}

func wrapStoreErr(err error) error {
	var de *dErrors.Error
	if errors.As(err, &de) {
		return err
	}
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "drive not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "drive storage failure")
}
