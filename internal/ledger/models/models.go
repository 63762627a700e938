package models

import (
	"time"

	id "placement/pkg/domain"
	dErrors "placement/pkg/domain-errors"
)

type Status string

const (
	StatusApplied            Status = "applied"
	StatusShortlisted        Status = "shortlisted"
	StatusInterviewScheduled Status = "interview-scheduled"
	StatusSelected           Status = "selected"
	StatusRejected           Status = "rejected"
)

func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusApplied, StatusShortlisted, StatusInterviewScheduled, StatusSelected, StatusRejected:
		return st, nil
	}
	return "", dErrors.New(dErrors.CodeValidation, "status must be one of applied, shortlisted, interview-scheduled, selected, rejected")
}

// Application is the ledger entry for one (student, drive) pair. The ledger is
// the only source of truth for "did student X apply to drive Y"; the drive's
// applicant view is read from here.
//
// Invariants:
//   - At most one Application per (StudentID, DriveID), enforced by the store
//   - CompanyName and Position are snapshotted from the drive at apply time
type Application struct {
	StudentID   id.StudentID   `json:"studentId"`
	DriveID     id.DriveID     `json:"driveId"`
	RecruiterID id.RecruiterID `json:"recruiterId"`
	CompanyName string         `json:"companyName"`
	Position    string         `json:"position"`
	Status      Status         `json:"status"`
	AppliedAt   time.Time      `json:"appliedAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

func NewApplication(studentID id.StudentID, driveID id.DriveID, recruiterID id.RecruiterID, company, position string, now time.Time) (*Application, error) {
	if studentID.IsNil() || driveID.IsNil() || recruiterID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "application requires student, drive and recruiter")
	}
	return &Application{
		StudentID:   studentID,
		DriveID:     driveID,
		RecruiterID: recruiterID,
		CompanyName: company,
		Position:    position,
		Status:      StatusApplied,
		AppliedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func (a *Application) ApplyStatus(status Status, now time.Time) {
	a.Status = status
	a.UpdatedAt = now
}
