package models

import (
	"time"

	id "placement/pkg/domain"
	dErrors "placement/pkg/domain-errors"
)

type Status string

const (
	StatusActive  Status = "active"
	StatusClosed  Status = "closed"
	StatusBlocked Status = "blocked"
	StatusDeleted Status = "deleted"
)

// IsRecruiterSettable reports whether a recruiter may put a drive into s.
// Blocked and deleted are reserved for moderation.
func (s Status) IsRecruiterSettable() bool {
	return s == StatusActive || s == StatusClosed
}

// Fields are the recruiter-owned attributes of a drive.
type Fields struct {
	CompanyName string    `json:"companyName"`
	Position    string    `json:"position"`
	Description string    `json:"description,omitempty"`
	Salary      string    `json:"salary"`
	Location    string    `json:"location"`
	DriveDate   time.Time `json:"driveDate"`
	Deadline    time.Time `json:"deadline"`
	Eligibility string    `json:"eligibility,omitempty"`
}

// Validate checks the required fields.
func (f Fields) Validate() error {
	switch {
	case f.CompanyName == "":
		return dErrors.New(dErrors.CodeInvariantViolation, "companyName is required")
	case f.Position == "":
		return dErrors.New(dErrors.CodeInvariantViolation, "position is required")
	case f.Salary == "":
		return dErrors.New(dErrors.CodeInvariantViolation, "salary is required")
	case f.Location == "":
		return dErrors.New(dErrors.CodeInvariantViolation, "location is required")
	case f.DriveDate.IsZero():
		return dErrors.New(dErrors.CodeInvariantViolation, "driveDate is required")
	case f.Deadline.IsZero():
		return dErrors.New(dErrors.CodeInvariantViolation, "deadline is required")
	case f.Deadline.After(f.DriveDate):
		return dErrors.New(dErrors.CodeInvariantViolation, "deadline cannot be after driveDate")
	}
	return nil
}

// Drive is a recruiter-posted opening.
//
// Invariants:
//   - Once blocked or deleted the drive never becomes visible again
//   - BlockedBy and DeletedBy are written once and never overwritten
//   - Records are soft tombstones; nothing is physically removed
//
// The applicant view is not stored here; it is derived from the ledger on read.
type Drive struct {
	ID          id.DriveID     `json:"id"`
	RecruiterID id.RecruiterID `json:"recruiterId"`

	Fields

	Status    Status               `json:"status"`
	IsBlocked bool                 `json:"isBlocked"`
	IsDeleted bool                 `json:"isDeleted"`
	BlockedBy *id.ModerationRecord `json:"blockedBy,omitempty"`
	DeletedBy *id.ModerationRecord `json:"deletedBy,omitempty"`
	CreatedAt time.Time            `json:"createdAt"`
	UpdatedAt time.Time            `json:"updatedAt"`
}

func NewDrive(driveID id.DriveID, recruiterID id.RecruiterID, fields Fields, now time.Time) (*Drive, error) {
	if recruiterID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "recruiter id cannot be empty")
	}
	if err := fields.Validate(); err != nil {
		return nil, err
	}
	return &Drive{
		ID:          driveID,
		RecruiterID: recruiterID,
		Fields:      fields,
		Status:      StatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// IsModerated reports whether an administrator has tombstoned the drive.
func (d *Drive) IsModerated() bool {
	return d.IsBlocked || d.IsDeleted || d.Status == StatusBlocked || d.Status == StatusDeleted
}

// IsVisible reports whether the drive belongs in the public listing.
func (d *Drive) IsVisible() bool {
	return !d.IsModerated()
}

// AcceptsApplications reports whether students may apply.
func (d *Drive) AcceptsApplications() bool {
	return d.IsVisible() && d.Status == StatusActive
}

// CanEdit checks that the recruiter may still change the drive.
func (d *Drive) CanEdit() error {
	if d.IsModerated() {
		return dErrors.New(dErrors.CodeInvariantViolation, "drive has been moderated and is read-only")
	}
	return nil
}

// ApplyEdit replaces the recruiter fields and optionally the status.
func (d *Drive) ApplyEdit(fields Fields, status Status, now time.Time) {
	d.Fields = fields
	if status != "" {
		d.Status = status
	}
	d.UpdatedAt = now
}

// ApplyBlock tombstones the drive as blocked. It reports false, changing
// nothing, when the drive is already blocked or deleted.
func (d *Drive) ApplyBlock(record id.ModerationRecord) bool {
	if d.IsModerated() {
		return false
	}
	d.IsBlocked = true
	d.Status = StatusBlocked
	d.BlockedBy = &record
	d.UpdatedAt = record.At
	return true
}

// ApplyDelete tombstones the drive as deleted, with the same no-op rule as ApplyBlock.
func (d *Drive) ApplyDelete(record id.ModerationRecord) bool {
	if d.IsModerated() {
		return false
	}
	d.IsDeleted = true
	d.Status = StatusDeleted
	d.DeletedBy = &record
	d.UpdatedAt = record.At
	return true
}
