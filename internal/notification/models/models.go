package models

import (
	"time"

	id "placement/pkg/domain"
	dErrors "placement/pkg/domain-errors"
)

type RecipientType string

const (
	RecipientStudent   RecipientType = "student"
	RecipientRecruiter RecipientType = "recruiter"
)

func (t RecipientType) IsValid() bool {
	return t == RecipientStudent || t == RecipientRecruiter
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Type names a notification template in the catalogue.
type Type string

const (
	TypeJobDriveBlocked           Type = "job_drive_blocked"
	TypeJobDriveDeleted           Type = "job_drive_deleted"
	TypeDriveBlockedRecruiter     Type = "drive_blocked"
	TypeDriveDeletedRecruiter     Type = "drive_deleted"
	TypeInterviewBlocked          Type = "interview_blocked"
	TypeInterviewBlockedRecruiter Type = "interview_schedule_blocked"
	TypeCandidateRemoved          Type = "candidate_removed"
	TypeCandidateRemovedRecruiter Type = "schedule_candidate_removed"
	TypeApplicationRemoved        Type = "application_removed"
	TypeApplicationStatusUpdated  Type = "application_status_updated"
	TypeAccountBlocked            Type = "account_blocked"
	TypeAccountUnblocked          Type = "account_unblocked"
)

// Notification is one inbox entry for one recipient.
//
// Invariants:
//   - RecipientID, Title and Message are non-empty
//   - ExpiresAt is exactly CreatedAt plus the fixed TTL
//   - ReadAt is set iff Read is true
type Notification struct {
	ID               id.NotificationID `json:"id"`
	RecipientID      string            `json:"recipientId"`
	RecipientType    RecipientType     `json:"recipientType"`
	Type             Type              `json:"type"`
	Title            string            `json:"title"`
	Message          string            `json:"message"`
	ActionType       string            `json:"actionType,omitempty"`
	AffectedItemID   string            `json:"affectedItemId,omitempty"`
	AffectedItemType string            `json:"affectedItemType,omitempty"`
	Metadata         map[string]string `json:"metadata,omitempty"`
	Read             bool              `json:"read"`
	ReadAt           *time.Time        `json:"readAt,omitempty"`
	Priority         Priority          `json:"priority"`
	CreatedAt        time.Time         `json:"createdAt"`
	ExpiresAt        time.Time         `json:"expiresAt"`
}

// NewNotification builds a notification that expires ttl after now.
func NewNotification(nid id.NotificationID, recipient Recipient, t Template, now time.Time, ttl time.Duration) (*Notification, error) {
	if recipient.ID == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "recipient id cannot be empty")
	}
	if !recipient.Type.IsValid() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "unknown recipient type")
	}
	if t.Title == "" || t.Message == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "notification requires title and message")
	}
	priority := t.Priority
	if !priority.IsValid() {
		priority = PriorityMedium
	}
	return &Notification{
		ID:               nid,
		RecipientID:      recipient.ID,
		RecipientType:    recipient.Type,
		Type:             t.Type,
		Title:            t.Title,
		Message:          t.Message,
		ActionType:       t.ActionType,
		AffectedItemID:   t.AffectedItemID,
		AffectedItemType: t.AffectedItemType,
		Metadata:         t.Metadata,
		Priority:         priority,
		CreatedAt:        now,
		ExpiresAt:        now.Add(ttl),
	}, nil
}

func (n *Notification) IsExpired(now time.Time) bool {
	return !now.Before(n.ExpiresAt)
}

// MarkRead is idempotent; the first read time is kept.
func (n *Notification) MarkRead(now time.Time) {
	if n.Read {
		return
	}
	n.Read = true
	n.ReadAt = &now
}

// Recipient addresses one inbox.
type Recipient struct {
	ID   string
	Type RecipientType
}

func Student(studentID id.StudentID) Recipient {
	return Recipient{ID: studentID.String(), Type: RecipientStudent}
}

func Recruiter(recruiterID id.RecruiterID) Recipient {
	return Recipient{ID: recruiterID.String(), Type: RecipientRecruiter}
}

// Template is a rendered notification body shared by every recipient of a fan-out.
type Template struct {
	Type             Type
	Title            string
	Message          string
	ActionType       string
	AffectedItemID   string
	AffectedItemType string
	Metadata         map[string]string
	Priority         Priority
}

// Message asks for a catalogue template to be rendered with Data.
type Message struct {
	Type           Type
	AffectedItemID string
	Data           map[string]string
}

// BulkResult reports a batch insert. Failures are counted, never retried.
type BulkResult struct {
	Requested int `json:"requested"`
	Inserted  int `json:"inserted"`
	Failed    int `json:"failed"`
}

func (r *BulkResult) Add(other BulkResult) {
	r.Requested += other.Requested
	r.Inserted += other.Inserted
	r.Failed += other.Failed
}
