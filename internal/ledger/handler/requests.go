package handler

import (
	"strings"

	"placement/internal/ledger/models"
	id "placement/pkg/domain"
	dErrors "placement/pkg/domain-errors"
)

// ApplyRequest is the optional body of POST /drives/{id}/apply.
type ApplyRequest struct {
	RecruiterID string `json:"recruiterId,omitempty"`

	recruiterID id.RecruiterID
}

func (r *ApplyRequest) Validate() error {
	if r == nil {
		return nil
	}
	raw := strings.TrimSpace(r.RecruiterID)
	if raw == "" {
		return nil
	}
	recruiterID, err := id.ParseRecruiterID(raw)
	if err != nil {
		return err
	}
	r.recruiterID = recruiterID
	return nil
}

type UpdateStatusRequest struct {
	Status string `json:"status"`

	status models.Status
}

func (r *UpdateStatusRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	status, err := models.ParseStatus(strings.TrimSpace(r.Status))
	if err != nil {
		return err
	}
	r.status = status
	return nil
}
