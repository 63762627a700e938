package handler

import (
	"cmp"
	"strconv"
	"strings"

	"placement/internal/moderation/models"
	dErrors "placement/pkg/domain-errors"
	"placement/pkg/requestcontext"
)

const maxReasonLength = 1000

// ModerationRequest is the body of every moderation route. The administrator
// identity falls back to the authenticated principal.
type ModerationRequest struct {
	AdminID   string `json:"adminId,omitempty"`
	AdminName string `json:"adminName,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

func (r *ModerationRequest) Validate() error {
	if r == nil {
		return nil
	}
	r.Reason = strings.TrimSpace(r.Reason)
	if len(r.Reason) > maxReasonLength {
		return dErrors.New(dErrors.CodeValidation, "reason must be at most 1000 characters")
	}
	return nil
}

// toRequest builds the service input. A recruiter cannot act under another
// identity, so the body's admin fields only apply to administrators.
func (r *ModerationRequest) toRequest(actor requestcontext.Principal) models.Request {
	if r == nil {
		r = &ModerationRequest{}
	}
	if actor.Role == requestcontext.RoleRecruiter {
		return models.Request{
			Actor:  models.Actor{ID: actor.ID, Name: actor.Name, Recruiter: true},
			Reason: r.Reason,
		}
	}
	return models.Request{
		Actor: models.Actor{
			ID:   cmp.Or(strings.TrimSpace(r.AdminID), actor.ID),
			Name: cmp.Or(strings.TrimSpace(r.AdminName), actor.Name),
		},
		Reason: r.Reason,
	}
}

const (
	defaultAuditLimit = 50
	maxAuditLimit     = 500
)

func parseLimit(raw string) (int, error) {
	if raw == "" {
		return defaultAuditLimit, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, dErrors.New(dErrors.CodeValidation, "limit must be a positive integer")
	}
	return min(n, maxAuditLimit), nil
}
