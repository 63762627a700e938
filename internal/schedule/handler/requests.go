package handler

import (
	"strings"
	"time"

	"github.com/asaskevich/govalidator"

	"placement/internal/schedule/models"
	"placement/internal/schedule/service"
	id "placement/pkg/domain"
	dErrors "placement/pkg/domain-errors"
	"placement/pkg/platform/dedupe"
)

const (
	dateLayout    = "2006-01-02"
	maxCandidates = 500
)

// CreateScheduleRequest is the body of POST /schedules. Date is YYYY-MM-DD and
// time is free text such as "10:00 AM".
type CreateScheduleRequest struct {
	DriveID string   `json:"driveId"`
	Date    string   `json:"date"`
	Time    string   `json:"time"`
	Venue   string   `json:"venue"`
	Rounds  []string `json:"rounds,omitempty"`

	input service.CreateInput
}

func (r *CreateScheduleRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	driveID, err := id.ParseDriveID(r.DriveID)
	if err != nil {
		return err
	}
	date, err := time.Parse(dateLayout, strings.TrimSpace(r.Date))
	if err != nil {
		return dErrors.New(dErrors.CodeValidation, "date must be YYYY-MM-DD")
	}
	r.Time = strings.TrimSpace(r.Time)
	r.Venue = strings.TrimSpace(r.Venue)
	if !govalidator.StringLength(r.Time, "1", "32") {
		return dErrors.New(dErrors.CodeValidation, "time is required")
	}
	if !govalidator.StringLength(r.Venue, "1", "200") {
		return dErrors.New(dErrors.CodeValidation, "venue is required and must be at most 200 characters")
	}
	r.input = service.CreateInput{DriveID: driveID, Date: date, Time: r.Time, Venue: r.Venue, Rounds: dedupe.Trimmed(r.Rounds)}
	return nil
}

type CandidateRequest struct {
	StudentID string `json:"studentId"`
	Name      string `json:"name,omitempty"`
	Email     string `json:"email,omitempty"`
}

// AddCandidatesRequest is the body of POST /schedules/{id}/candidates.
type AddCandidatesRequest struct {
	Candidates []CandidateRequest `json:"candidates"`

	inputs []service.CandidateInput
}

func (r *AddCandidatesRequest) Validate() error {
	if r == nil || len(r.Candidates) == 0 {
		return dErrors.New(dErrors.CodeValidation, "candidates are required")
	}
	if len(r.Candidates) > maxCandidates {
		return dErrors.New(dErrors.CodeValidation, "too many candidates in one request")
	}
	r.inputs = make([]service.CandidateInput, 0, len(r.Candidates))
	for _, c := range r.Candidates {
		studentID, err := id.ParseStudentID(c.StudentID)
		if err != nil {
			return err
		}
		email := strings.TrimSpace(c.Email)
		if email != "" && !govalidator.IsEmail(email) {
			return dErrors.New(dErrors.CodeValidation, "candidate email must be a valid address")
		}
		r.inputs = append(r.inputs, service.CandidateInput{
			StudentID: studentID,
			Name:      strings.TrimSpace(c.Name),
			Email:     email,
		})
	}
	return nil
}

// UpdateCandidateRequest is the body of PUT /schedules/{id}/candidates/{studentId}.
type UpdateCandidateRequest struct {
	Status        string   `json:"status"`
	FeedbackNotes *string  `json:"feedbackNotes,omitempty"`
	Score         *float64 `json:"score,omitempty"`

	update models.CandidateUpdate
}

func (r *UpdateCandidateRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	status, err := models.ParseCandidateStatus(strings.TrimSpace(r.Status))
	if err != nil {
		return err
	}
	if r.FeedbackNotes != nil && len(*r.FeedbackNotes) > 5000 {
		return dErrors.New(dErrors.CodeValidation, "feedbackNotes must be at most 5000 characters")
	}
	r.update = models.CandidateUpdate{Status: status, FeedbackNotes: r.FeedbackNotes, Score: r.Score}
	return r.update.Validate()
}
