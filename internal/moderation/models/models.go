package models

import (
	"time"

	accountmodels "placement/internal/account/models"
	drivemodels "placement/internal/drive/models"
	ledgermodels "placement/internal/ledger/models"
	schedulemodels "placement/internal/schedule/models"
	id "placement/pkg/domain"
)

// Actor is whoever performs a moderation action. Administrators act on
// everything; a recruiter may only remove candidates from their own schedules.
type Actor struct {
	ID   string
	Name string
	// Recruiter is set when a recruiter, not an administrator, is acting.
	Recruiter bool
}

// Request is the common input of every moderation action.
type Request struct {
	Actor  Actor
	Reason string
}

// Record builds the moderation record stamped onto the target.
func (r Request) Record(at time.Time) id.ModerationRecord {
	return id.ModerationRecord{
		AdminID:   id.AdminID(r.Actor.ID),
		AdminName: r.Actor.Name,
		Reason:    r.Reason,
		At:        at,
	}
}

// Outcome reports what a moderation action did beyond the primary write.
// Notification counts are best-effort telemetry: a failure never undoes the
// state change.
type Outcome struct {
	Changed              bool `json:"changed"`
	Notified             int  `json:"notified"`
	NotificationFailures int  `json:"notificationFailures"`
}

func (o *Outcome) Count(ok bool) {
	if ok {
		o.Notified++
	} else {
		o.NotificationFailures++
	}
}

type DriveResult struct {
	Drive *drivemodels.Drive `json:"drive"`
	Outcome
}

type ScheduleResult struct {
	Schedule *schedulemodels.Schedule `json:"schedule"`
	Outcome
}

type CandidateResult struct {
	Schedule *schedulemodels.Schedule `json:"schedule"`
	Removed  schedulemodels.Candidate `json:"removed"`
	Outcome
}

type ApplicationResult struct {
	Application *ledgermodels.Application `json:"application"`
	Outcome
}

// StudentResult carries the block cascade counts. CascadeAttempted is the
// number of schedules found with the student still active on them;
// CascadeSkipped counts those where the interview moved on before the
// removal ran.
type StudentResult struct {
	Student *accountmodels.Student `json:"student"`
	Outcome
	CascadeAttempted int `json:"cascadeAttempted"`
	CascadeRemoved   int `json:"cascadeRemoved"`
	CascadeSkipped   int `json:"cascadeSkipped"`
	CascadeFailed    int `json:"cascadeFailed"`
}
