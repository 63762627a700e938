package models

import (
	"slices"
	"time"

	id "placement/pkg/domain"
	dErrors "placement/pkg/domain-errors"
)

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusBlocked   Status = "blocked"
)

type CandidateStatus string

const (
	CandidateScheduled CandidateStatus = "scheduled"
	CandidateOngoing   CandidateStatus = "ongoing"
	CandidateAttended  CandidateStatus = "attended"
	CandidateAbsent    CandidateStatus = "absent"
	CandidatePassed    CandidateStatus = "passed"
	CandidateFailed    CandidateStatus = "failed"
)

var candidateTransitions = map[CandidateStatus][]CandidateStatus{
	CandidateScheduled: {CandidateOngoing, CandidateAttended, CandidateAbsent},
	CandidateOngoing:   {CandidateAttended, CandidateAbsent},
	CandidateAttended:  {CandidatePassed, CandidateFailed},
}

func ParseCandidateStatus(s string) (CandidateStatus, error) {
	switch st := CandidateStatus(s); st {
	case CandidateScheduled, CandidateOngoing, CandidateAttended, CandidateAbsent, CandidatePassed, CandidateFailed:
		return st, nil
	}
	return "", dErrors.New(dErrors.CodeValidation, "status must be one of scheduled, ongoing, attended, absent, passed, failed")
}

// CanTransitionTo reports whether a candidate in s may move to next.
// Staying in the same status is always allowed.
func (s CandidateStatus) CanTransitionTo(next CandidateStatus) bool {
	return s == next || slices.Contains(candidateTransitions[s], next)
}

// IsActive reports whether the candidate still has an interview pending.
func (s CandidateStatus) IsActive() bool {
	return s == CandidateScheduled || s == CandidateOngoing
}

const (
	MinScore = 0
	MaxScore = 100
)

type Candidate struct {
	StudentID     id.StudentID    `json:"studentId"`
	Name          string          `json:"name,omitempty"`
	Email         string          `json:"email,omitempty"`
	Status        CandidateStatus `json:"status"`
	FeedbackNotes string          `json:"feedbackNotes,omitempty"`
	Score         *float64        `json:"score,omitempty"`
	AddedAt       time.Time       `json:"addedAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// CandidateUpdate carries a status change. Nil notes or score leave the
// current value untouched.
type CandidateUpdate struct {
	Status        CandidateStatus
	FeedbackNotes *string
	Score         *float64
}

func (u CandidateUpdate) Validate() error {
	if u.Score != nil && (*u.Score < MinScore || *u.Score > MaxScore) {
		return dErrors.New(dErrors.CodeValidation, "score must be between 0 and 100")
	}
	return nil
}

// Schedule is an interview event for a drive with an embedded roster.
//
// Invariants:
//   - At most one Candidate per StudentID
//   - Once blocked the schedule is cancelled for good and rejects additions and
//     status updates; removals are still permitted
type Schedule struct {
	ID          id.ScheduleID  `json:"id"`
	DriveID     id.DriveID     `json:"driveId"`
	RecruiterID id.RecruiterID `json:"recruiterId"`
	Date        time.Time      `json:"date"`
	Time        string         `json:"time"`
	Venue       string         `json:"venue"`
	Rounds      []string       `json:"rounds"`

	Status      Status               `json:"status"`
	IsBlocked   bool                 `json:"isBlocked"`
	IsCancelled bool                 `json:"isCancelled"`
	BlockedBy   *id.ModerationRecord `json:"blockedBy,omitempty"`
	Candidates  []Candidate          `json:"candidates"`
	CreatedAt   time.Time            `json:"createdAt"`
	UpdatedAt   time.Time            `json:"updatedAt"`
}

func NewSchedule(scheduleID id.ScheduleID, driveID id.DriveID, recruiterID id.RecruiterID, date time.Time, at, venue string, rounds []string, now time.Time) (*Schedule, error) {
	switch {
	case driveID.IsNil():
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "drive id cannot be empty")
	case recruiterID.IsNil():
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "recruiter id cannot be empty")
	case date.IsZero():
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "date is required")
	case at == "":
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "time is required")
	case venue == "":
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "venue is required")
	}
	if rounds == nil {
		rounds = []string{}
	}
	return &Schedule{
		ID:          scheduleID,
		DriveID:     driveID,
		RecruiterID: recruiterID,
		Date:        date,
		Time:        at,
		Venue:       venue,
		Rounds:      rounds,
		Status:      StatusScheduled,
		Candidates:  []Candidate{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Clone returns a deep copy.
func (s *Schedule) Clone() *Schedule {
	c := *s
	c.Rounds = slices.Clone(s.Rounds)
	c.Candidates = make([]Candidate, len(s.Candidates))
	for i, cand := range s.Candidates {
		if cand.Score != nil {
			score := *cand.Score
			cand.Score = &score
		}
		c.Candidates[i] = cand
	}
	if s.BlockedBy != nil {
		b := *s.BlockedBy
		c.BlockedBy = &b
	}
	return &c
}

func (s *Schedule) CanChangeRoster() error {
	if s.IsBlocked {
		return dErrors.New(dErrors.CodeInvariantViolation, "schedule is blocked")
	}
	return nil
}

func (s *Schedule) indexOf(studentID id.StudentID) int {
	return slices.IndexFunc(s.Candidates, func(c Candidate) bool { return c.StudentID == studentID })
}

func (s *Schedule) FindCandidate(studentID id.StudentID) (Candidate, bool) {
	if i := s.indexOf(studentID); i >= 0 {
		return s.Candidates[i], true
	}
	return Candidate{}, false
}

// HasActiveCandidate reports whether studentID is on the roster with an
// interview still pending.
func (s *Schedule) HasActiveCandidate(studentID id.StudentID) bool {
	c, ok := s.FindCandidate(studentID)
	return ok && c.Status.IsActive()
}

// AddCandidates appends new roster entries in status scheduled. Students
// already on the roster are skipped; the number added is returned.
func (s *Schedule) AddCandidates(cands []Candidate, now time.Time) int {
	added := 0
	for _, c := range cands {
		if s.indexOf(c.StudentID) >= 0 {
			continue
		}
		c.Status = CandidateScheduled
		c.FeedbackNotes = ""
		c.Score = nil
		c.AddedAt = now
		c.UpdatedAt = now
		s.Candidates = append(s.Candidates, c)
		added++
	}
	if added > 0 {
		s.UpdatedAt = now
	}
	return added
}

func (s *Schedule) CanUpdateCandidate(studentID id.StudentID, next CandidateStatus) error {
	c, ok := s.FindCandidate(studentID)
	if !ok {
		return dErrors.New(dErrors.CodeNotFound, "candidate not found on schedule")
	}
	if !c.Status.CanTransitionTo(next) {
		return dErrors.New(dErrors.CodeInvariantViolation, "candidate cannot move from "+string(c.Status)+" to "+string(next))
	}
	return nil
}

// ApplyCandidateUpdate assumes CanUpdateCandidate passed.
func (s *Schedule) ApplyCandidateUpdate(studentID id.StudentID, u CandidateUpdate, now time.Time) {
	i := s.indexOf(studentID)
	if i < 0 {
		return
	}
	c := &s.Candidates[i]
	c.Status = u.Status
	if u.FeedbackNotes != nil {
		c.FeedbackNotes = *u.FeedbackNotes
	}
	if u.Score != nil {
		score := *u.Score
		c.Score = &score
	}
	c.UpdatedAt = now
	s.UpdatedAt = now
}

// RemoveCandidate drops the roster entry and returns it.
func (s *Schedule) RemoveCandidate(studentID id.StudentID, now time.Time) (Candidate, bool) {
	i := s.indexOf(studentID)
	if i < 0 {
		return Candidate{}, false
	}
	removed := s.Candidates[i]
	s.Candidates = slices.Delete(s.Candidates, i, i+1)
	s.UpdatedAt = now
	return removed, true
}

// ApplyBlock cancels the schedule. It reports false when it was already blocked.
func (s *Schedule) ApplyBlock(record id.ModerationRecord) bool {
	if s.IsBlocked {
		return false
	}
	s.IsBlocked = true
	s.IsCancelled = true
	s.Status = StatusBlocked
	s.BlockedBy = &record
	s.UpdatedAt = record.At
	return true
}
