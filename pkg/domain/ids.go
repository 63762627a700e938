// Package domain holds identifier types shared across bounded contexts.
//
// Student identifiers are external auth-provider UIDs, so every ID is an opaque
// string rather than a UUID. Generated IDs (drives, schedules, notifications)
// are UUIDv4 strings.
package domain

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"

	dErrors "placement/pkg/domain-errors"
)

const maxIDLength = 128

type (
	StudentID      string
	RecruiterID    string
	AdminID        string
	DriveID        string
	ScheduleID     string
	NotificationID string
)

func (id StudentID) String() string      { return string(id) }
func (id RecruiterID) String() string    { return string(id) }
func (id AdminID) String() string        { return string(id) }
func (id DriveID) String() string        { return string(id) }
func (id ScheduleID) String() string     { return string(id) }
func (id NotificationID) String() string { return string(id) }

func (id StudentID) IsNil() bool      { return id == "" }
func (id RecruiterID) IsNil() bool    { return id == "" }
func (id AdminID) IsNil() bool        { return id == "" }
func (id DriveID) IsNil() bool        { return id == "" }
func (id ScheduleID) IsNil() bool     { return id == "" }
func (id NotificationID) IsNil() bool { return id == "" }

func NewDriveID() DriveID               { return DriveID(uuid.NewString()) }
func NewScheduleID() ScheduleID         { return ScheduleID(uuid.NewString()) }
func NewNotificationID() NotificationID { return NotificationID(uuid.NewString()) }

func ParseStudentID(s string) (StudentID, error) {
	v, err := parseID(s, "student id")
	return StudentID(v), err
}

func ParseRecruiterID(s string) (RecruiterID, error) {
	v, err := parseID(s, "recruiter id")
	return RecruiterID(v), err
}

func ParseAdminID(s string) (AdminID, error) {
	v, err := parseID(s, "admin id")
	return AdminID(v), err
}

func ParseDriveID(s string) (DriveID, error) {
	v, err := parseID(s, "drive id")
	return DriveID(v), err
}

func ParseScheduleID(s string) (ScheduleID, error) {
	v, err := parseID(s, "schedule id")
	return ScheduleID(v), err
}

func ParseNotificationID(s string) (NotificationID, error) {
	v, err := parseID(s, "notification id")
	return NotificationID(v), err
}

// parseID enforces the trust-boundary rules for every identifier: non-empty after
// trimming, valid UTF-8, bounded length and no control or whitespace runes inside.
func parseID(s, label string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", dErrors.New(dErrors.CodeValidation, label+" is required")
	}
	if !utf8.ValidString(s) {
		return "", dErrors.New(dErrors.CodeValidation, label+" must be valid UTF-8")
	}
	if len(s) > maxIDLength {
		return "", dErrors.New(dErrors.CodeValidation, label+" is too long")
	}
	for _, r := range s {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return "", dErrors.New(dErrors.CodeValidation, label+" contains invalid characters")
		}
	}
	return s, nil
}
