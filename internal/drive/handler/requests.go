package handler

import (
	"strings"
	"time"

	"github.com/asaskevich/govalidator"

	"placement/internal/drive/models"
	dErrors "placement/pkg/domain-errors"
)

const dateLayout = "2006-01-02"

// DriveRequest is the body of POST /drives and PUT /drives/{id}.
// Dates use YYYY-MM-DD.
type DriveRequest struct {
	CompanyName string `json:"companyName"`
	Position    string `json:"position"`
	Description string `json:"description"`
	Salary      string `json:"salary"`
	Location    string `json:"location"`
	DriveDate   string `json:"driveDate"`
	Deadline    string `json:"deadline"`
	Eligibility string `json:"eligibility"`
	// Status is honoured on update only.
	Status string `json:"status,omitempty"`

	fields models.Fields
}

func (r *DriveRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.CompanyName = strings.TrimSpace(r.CompanyName)
	r.Position = strings.TrimSpace(r.Position)
	r.Salary = strings.TrimSpace(r.Salary)
	r.Location = strings.TrimSpace(r.Location)

	for name, v := range map[string]string{
		"companyName": r.CompanyName,
		"position":    r.Position,
		"salary":      r.Salary,
		"location":    r.Location,
	} {
		if !govalidator.StringLength(v, "1", "200") {
			return dErrors.New(dErrors.CodeValidation, name+" is required and must be at most 200 characters")
		}
	}
	if len(r.Description) > 5000 || len(r.Eligibility) > 2000 {
		return dErrors.New(dErrors.CodeValidation, "description or eligibility too long")
	}

	driveDate, err := time.Parse(dateLayout, strings.TrimSpace(r.DriveDate))
	if err != nil {
		return dErrors.New(dErrors.CodeValidation, "driveDate must be YYYY-MM-DD")
	}
	deadline, err := time.Parse(dateLayout, strings.TrimSpace(r.Deadline))
	if err != nil {
		return dErrors.New(dErrors.CodeValidation, "deadline must be YYYY-MM-DD")
	}
	if r.Status != "" && !models.Status(r.Status).IsRecruiterSettable() {
		return dErrors.New(dErrors.CodeValidation, "status must be active or closed")
	}

	r.fields = models.Fields{
		CompanyName: r.CompanyName,
		Position:    r.Position,
		Description: strings.TrimSpace(r.Description),
		Salary:      r.Salary,
		Location:    r.Location,
		DriveDate:   driveDate,
		Deadline:    deadline,
		Eligibility: strings.TrimSpace(r.Eligibility),
	}
	return nil
}
