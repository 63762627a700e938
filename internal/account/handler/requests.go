package handler

import (
	"strings"

	"github.com/asaskevich/govalidator"

	id "placement/pkg/domain"
	dErrors "placement/pkg/domain-errors"
)

// RegisterStudentRequest is the body of POST /students. FirebaseUID is the
// auth-provider identity and becomes the student id.
type RegisterStudentRequest struct {
	FirebaseUID string `json:"firebaseUid"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Department  string `json:"department"`

	parsedID id.StudentID
}

func (r *RegisterStudentRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	if !govalidator.StringLength(r.Name, "1", "120") {
		return dErrors.New(dErrors.CodeValidation, "name is required and must be at most 120 characters")
	}
	if !govalidator.IsEmail(r.Email) {
		return dErrors.New(dErrors.CodeValidation, "email must be a valid address")
	}
	if len(r.Department) > 120 {
		return dErrors.New(dErrors.CodeValidation, "department must be at most 120 characters")
	}
	studentID, err := id.ParseStudentID(r.FirebaseUID)
	if err != nil {
		return err
	}
	r.parsedID = studentID
	return nil
}

type RegisterRecruiterRequest struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	CompanyName string `json:"companyName"`

	parsedID id.RecruiterID
}

func (r *RegisterRecruiterRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.CompanyName = strings.TrimSpace(r.CompanyName)
	if !govalidator.StringLength(r.Name, "1", "120") {
		return dErrors.New(dErrors.CodeValidation, "name is required and must be at most 120 characters")
	}
	if !govalidator.IsEmail(r.Email) {
		return dErrors.New(dErrors.CodeValidation, "email must be a valid address")
	}
	if !govalidator.StringLength(r.CompanyName, "1", "200") {
		return dErrors.New(dErrors.CodeValidation, "companyName is required")
	}
	recruiterID, err := id.ParseRecruiterID(r.ID)
	if err != nil {
		return err
	}
	r.parsedID = recruiterID
	return nil
}
