// Package audit records administrator moderation actions as an append-only
// trail. Drives, schedules and applications are tombstoned rather than removed;
// this trail keeps who did what to which record, and why.
package audit

import (
	"context"
	"time"
)

// Category classifies events by the kind of record they touch.
type Category string

const (
	// CategoryAccount covers actions on student accounts. Long retention.
	CategoryAccount Category = "account"
	// CategoryContent covers actions on recruiter-owned records.
	CategoryContent Category = "content"
)

type Action string

const (
	ActionDriveBlocked       Action = "drive_blocked"
	ActionDriveDeleted       Action = "drive_deleted"
	ActionScheduleBlocked    Action = "schedule_blocked"
	ActionCandidateRemoved   Action = "candidate_removed"
	ActionApplicationRemoved Action = "application_removed"
	ActionStudentBlocked     Action = "student_blocked"
	ActionStudentUnblocked   Action = "student_unblocked"
)

var actionCategories = map[Action]Category{
	ActionStudentBlocked:   CategoryAccount,
	ActionStudentUnblocked: CategoryAccount,
}

// Category returns the category for a; anything not account-related is content.
func (a Action) Category() Category {
	if cat, ok := actionCategories[a]; ok {
		return cat
	}
	return CategoryContent
}

// Event is one moderation action against one target record.
type Event struct {
	ID         string    `json:"id"`
	Category   Category  `json:"category"`
	Timestamp  time.Time `json:"timestamp"`
	Action     Action    `json:"action"`
	TargetType string    `json:"targetType"`
	TargetID   string    `json:"targetId"`
	ActorID    string    `json:"actorId"`
	ActorName  string    `json:"actorName,omitempty"`
	Reason     string    `json:"reason,omitempty"`
	// Changed is false for no-op repeats, e.g. blocking a blocked drive.
	Changed   bool   `json:"changed"`
	RequestID string `json:"requestId,omitempty"`
}

// Store is append-only.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByTarget(ctx context.Context, targetID string, limit int) ([]Event, error)
	ListRecent(ctx context.Context, limit int) ([]Event, error)
}
