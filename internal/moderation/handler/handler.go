package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"placement/internal/moderation/models"
	"placement/internal/platform/middleware"
	id "placement/pkg/domain"
	dErrors "placement/pkg/domain-errors"
	audit "placement/pkg/platform/audit"
	"placement/pkg/platform/httputil"
	"placement/pkg/requestcontext"
)

type Service interface {
	BlockDrive(ctx context.Context, driveID id.DriveID, req models.Request) (*models.DriveResult, error)
	DeleteDrive(ctx context.Context, driveID id.DriveID, req models.Request) (*models.DriveResult, error)
	BlockSchedule(ctx context.Context, scheduleID id.ScheduleID, req models.Request) (*models.ScheduleResult, error)
	RemoveCandidate(ctx context.Context, scheduleID id.ScheduleID, studentID id.StudentID, req models.Request) (*models.CandidateResult, error)
	RemoveApplication(ctx context.Context, studentID id.StudentID, driveID id.DriveID, req models.Request) (*models.ApplicationResult, error)
	BlockStudent(ctx context.Context, studentID id.StudentID, req models.Request) (*models.StudentResult, error)
	UnblockStudent(ctx context.Context, studentID id.StudentID, req models.Request) (*models.StudentResult, error)
}

type AuditReader interface {
	List(ctx context.Context, targetID string) ([]audit.Event, error)
	ListRecent(ctx context.Context, limit int) ([]audit.Event, error)
}

type Handler struct {
	service Service
	audit   AuditReader
	logger  *slog.Logger
}

func New(service Service, auditReader AuditReader, logger *slog.Logger) *Handler {
	return &Handler{service: service, audit: auditReader, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	admin := middleware.RequireRole(h.logger, requestcontext.RoleAdmin)
	staff := middleware.RequireRole(h.logger, requestcontext.RoleRecruiter, requestcontext.RoleAdmin)

	r.With(admin).Post("/drives/{id}/block", h.HandleBlockDrive)
	r.With(admin).Post("/drives/{id}/delete", h.HandleDeleteDrive)
	r.With(admin).Delete("/drives/{id}/applications/{studentId}", h.HandleRemoveApplication)
	r.With(admin).Post("/schedules/{id}/block", h.HandleBlockSchedule)
	r.With(staff).Post("/schedules/{id}/remove-candidate/{studentId}", h.HandleRemoveCandidate)
	r.With(admin).Post("/students/{id}/block", h.HandleBlockStudent)
	r.With(admin).Post("/students/{id}/unblock", h.HandleUnblockStudent)
	r.With(admin).Get("/admin/audit", h.HandleListAudit)
}

func (h *Handler) HandleBlockDrive(w http.ResponseWriter, r *http.Request) {
	h.handleDrive(w, r, h.service.BlockDrive, "failed to block drive")
}

func (h *Handler) HandleDeleteDrive(w http.ResponseWriter, r *http.Request) {
	h.handleDrive(w, r, h.service.DeleteDrive, "failed to delete drive")
}

func (h *Handler) handleDrive(w http.ResponseWriter, r *http.Request, action func(context.Context, id.DriveID, models.Request) (*models.DriveResult, error), failure string) {
	ctx := r.Context()
	driveID, err := id.ParseDriveID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := decodeModeration(w, r)
	if !ok {
		return
	}
	res, err := action(ctx, driveID, req)
	if err != nil {
		h.logError(ctx, failure, err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) HandleRemoveApplication(w http.ResponseWriter, r *http.Request) {
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
	req, ok := decodeModeration(w, r)
	if !ok {
		return
	}
	res, err := h.service.RemoveApplication(ctx, studentID, driveID, req)
	if err != nil {
		h.logError(ctx, "failed to remove application", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) HandleBlockSchedule(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	scheduleID, err := id.ParseScheduleID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := decodeModeration(w, r)
	if !ok {
		return
	}
	res, err := h.service.BlockSchedule(ctx, scheduleID, req)
	if err != nil {
		h.logError(ctx, "failed to block schedule", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, res)
}

// HandleRemoveCandidate is shared by administrators and the schedule's own
// recruiter; ownership is checked by the service.
func (h *Handler) HandleRemoveCandidate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	scheduleID, err := id.ParseScheduleID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	studentID, err := id.ParseStudentID(chi.URLParam(r, "studentId"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := decodeModeration(w, r)
	if !ok {
		return
	}
	res, err := h.service.RemoveCandidate(ctx, scheduleID, studentID, req)
	if err != nil {
		h.logError(ctx, "failed to remove candidate", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) HandleBlockStudent(w http.ResponseWriter, r *http.Request) {
	h.handleStudent(w, r, h.service.BlockStudent, "failed to block student")
}

func (h *Handler) HandleUnblockStudent(w http.ResponseWriter, r *http.Request) {
	h.handleStudent(w, r, h.service.UnblockStudent, "failed to unblock student")
}

func (h *Handler) handleStudent(w http.ResponseWriter, r *http.Request, action func(context.Context, id.StudentID, models.Request) (*models.StudentResult, error), failure string) {
	ctx := r.Context()
	studentID, err := id.ParseStudentID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := decodeModeration(w, r)
	if !ok {
		return
	}
	res, err := action(ctx, studentID, req)
	if err != nil {
		h.logError(ctx, failure, err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, res)
}

// HandleListAudit returns the trail for one target when targetId is given,
// otherwise the most recent events across all targets.
func (h *Handler) HandleListAudit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	limit, err := parseLimit(r.URL.Query().Get("limit"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var events []audit.Event
	if target := r.URL.Query().Get("targetId"); target != "" {
		events, err = h.audit.List(ctx, target)
	} else {
		events, err = h.audit.ListRecent(ctx, limit)
	}
	if err != nil {
		err = dErrors.Wrap(err, dErrors.CodeInternal, "failed to read audit trail")
		h.logError(ctx, "failed to list audit events", err)
		httputil.WriteError(w, err)
		return
	}
	if len(events) > limit {
		events = events[len(events)-limit:]
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"events": events, "count": len(events)})
}

func decodeModeration(w http.ResponseWriter, r *http.Request) (models.Request, bool) {
	var req ModerationRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return models.Request{}, false
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return models.Request{}, false
	}
	return req.toRequest(requestcontext.Actor(r.Context())), true
}

func (h *Handler) logError(ctx context.Context, msg string, err error) {
	if dErrors.CodeOf(err) != dErrors.CodeInternal {
		return
	}
	h.logger.ErrorContext(ctx, msg, "error", err, "request_id", requestcontext.RequestID(ctx))
}
