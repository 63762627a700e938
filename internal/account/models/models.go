package models

import (
	"time"

	id "placement/pkg/domain"
	dErrors "placement/pkg/domain-errors"
)

// Student is the applicant aggregate. ID is the auth provider UID.
//
// Invariants:
//   - Name and Email are non-empty
//   - BlockedBy is set whenever IsBlocked is true
//   - Active ⇄ Blocked is the only status cycle; both directions are explicit
type Student struct {
	ID          id.StudentID         `json:"id"`
	Name        string               `json:"name"`
	Email       string               `json:"email"`
	Department  string               `json:"department,omitempty"`
	IsBlocked   bool                 `json:"isBlocked"`
	BlockedBy   *id.ModerationRecord `json:"blockedBy,omitempty"`
	UnblockedAt *time.Time           `json:"unblockedAt,omitempty"`
	CreatedAt   time.Time            `json:"createdAt"`
	UpdatedAt   time.Time            `json:"updatedAt"`
}

func NewStudent(studentID id.StudentID, name, email, department string, now time.Time) (*Student, error) {
	if studentID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "student id cannot be empty")
	}
	if name == "" || email == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "student name and email are required")
	}
	return &Student{
		ID:         studentID,
		Name:       name,
		Email:      email,
		Department: department,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// CanBlock checks the Active → Blocked transition.
// Use with ApplyBlock in Execute callbacks.
func (s *Student) CanBlock() error {
	if s.IsBlocked {
		return dErrors.New(dErrors.CodeInvariantViolation, "student is already blocked")
	}
	return nil
}

func (s *Student) ApplyBlock(record id.ModerationRecord) {
	s.IsBlocked = true
	s.BlockedBy = &record
	s.UpdatedAt = record.At
}

// CanUnblock checks the Blocked → Active transition.
func (s *Student) CanUnblock() error {
	if !s.IsBlocked {
		return dErrors.New(dErrors.CodeInvariantViolation, "student is not blocked")
	}
	return nil
}

// ApplyUnblock clears the flag. BlockedBy is kept as the last block on record.
func (s *Student) ApplyUnblock(now time.Time) {
	s.IsBlocked = false
	s.UnblockedAt = &now
	s.UpdatedAt = now
}

// Recruiter owns drives and schedules.
type Recruiter struct {
	ID          id.RecruiterID `json:"id"`
	Name        string         `json:"name"`
	Email       string         `json:"email"`
	CompanyName string         `json:"companyName"`
	CreatedAt   time.Time      `json:"createdAt"`
}

func NewRecruiter(recruiterID id.RecruiterID, name, email, companyName string, now time.Time) (*Recruiter, error) {
	if recruiterID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "recruiter id cannot be empty")
	}
	if name == "" || email == "" || companyName == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "recruiter name, email and company are required")
	}
	return &Recruiter{
		ID:          recruiterID,
		Name:        name,
		Email:       email,
		CompanyName: companyName,
		CreatedAt:   now,
	}, nil
}
