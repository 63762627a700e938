package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"placement/internal/ledger/models"
	"placement/internal/platform/middleware"
	id "placement/pkg/domain"
	dErrors "placement/pkg/domain-errors"
	"placement/pkg/platform/httputil"
	"placement/pkg/requestcontext"
)

type Service interface {
	Submit(ctx context.Context, studentID id.StudentID, driveID id.DriveID, recruiterID id.RecruiterID) (*models.Application, bool, error)
	ListByStudent(ctx context.Context, studentID id.StudentID) ([]*models.Application, error)
	UpdateStatus(ctx context.Context, studentID id.StudentID, driveID id.DriveID, status models.Status, requester requestcontext.Principal) (*models.Application, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the ledger routes. Removal is moderation and lives with the
// moderation handler.
func (h *Handler) Register(r chi.Router) {
	student := middleware.RequireRole(h.logger, requestcontext.RoleStudent)
	staff := middleware.RequireRole(h.logger, requestcontext.RoleRecruiter, requestcontext.RoleAdmin)

	r.With(student).Post("/drives/{id}/apply", h.HandleApply)
	r.With(staff).Put("/drives/{id}/applications/{studentId}", h.HandleUpdateStatus)
	r.Get("/students/{id}/applications", h.HandleListByStudent)
}

type applyResponse struct {
	Application *models.Application `json:"application"`
	Created     bool                `json:"created"`
}

// HandleApply answers 201 for a new application and 200 when the student had
// already applied.
func (h *Handler) HandleApply(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	driveID, err := id.ParseDriveID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	var req ApplyRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	studentID := id.StudentID(requestcontext.Actor(ctx).ID)
	app, created, err := h.service.Submit(ctx, studentID, driveID, req.recruiterID)
	if err != nil {
		h.logError(ctx, "failed to submit application", err)
		httputil.WriteError(w, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	httputil.WriteJSON(w, status, applyResponse{Application: app, Created: created})
}

func (h *Handler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	driveID, err := id.ParseDriveID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	studentID, err := id.ParseStudentID(chi.URLParam(r, "studentId"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	var req UpdateStatusRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	app, err := h.service.UpdateStatus(ctx, studentID, driveID, req.status, requestcontext.Actor(ctx))
	if err != nil {
		h.logError(ctx, "failed to update application status", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, app)
}

// HandleListByStudent is open to staff and to the student themself.
func (h *Handler) HandleListByStudent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	studentID, err := id.ParseStudentID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	actor := requestcontext.Actor(ctx)
	if actor.Role == requestcontext.RoleStudent && actor.ID != studentID.String() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeForbidden, "students may only view their own applications"))
		return
	}
	apps, err := h.service.ListByStudent(ctx, studentID)
	if err != nil {
		h.logError(ctx, "failed to list applications", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"applications": apps, "count": len(apps)})
}

func (h *Handler) logError(ctx context.Context, msg string, err error) {
	if dErrors.CodeOf(err) != dErrors.CodeInternal {
		return
	}
	h.logger.ErrorContext(ctx, msg, "error", err, "request_id", requestcontext.RequestID(ctx))
}
