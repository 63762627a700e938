package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"placement/internal/platform/middleware"
	"placement/internal/schedule/models"
	"placement/internal/schedule/service"
	id "placement/pkg/domain"
	dErrors "placement/pkg/domain-errors"
	"placement/pkg/platform/httputil"
	"placement/pkg/requestcontext"
)

type Service interface {
	Create(ctx context.Context, recruiterID id.RecruiterID, in service.CreateInput) (*models.Schedule, error)
	Get(ctx context.Context, scheduleID id.ScheduleID) (*models.Schedule, error)
	ListByDrive(ctx context.Context, driveID id.DriveID) ([]*models.Schedule, error)
	AddCandidates(ctx context.Context, recruiterID id.RecruiterID, scheduleID id.ScheduleID, in []service.CandidateInput) (*models.Schedule, int, error)
	UpdateCandidateStatus(ctx context.Context, recruiterID id.RecruiterID, scheduleID id.ScheduleID, studentID id.StudentID, u models.CandidateUpdate) (*models.Schedule, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	recruiter := middleware.RequireRole(h.logger, requestcontext.RoleRecruiter)

	r.With(recruiter).Post("/schedules", h.HandleCreate)
	r.Get("/schedules/{id}", h.HandleGet)
	r.Get("/drives/{id}/schedules", h.HandleListByDrive)
	r.With(recruiter).Post("/schedules/{id}/candidates", h.HandleAddCandidates)
	r.With(recruiter).Put("/schedules/{id}/candidates/{studentId}", h.HandleUpdateCandidate)
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req CreateScheduleRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}
	sch, err := h.service.Create(ctx, id.RecruiterID(requestcontext.Actor(ctx).ID), req.input)
	if err != nil {
		h.logError(ctx, "failed to create schedule", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, sch)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	scheduleID, err := id.ParseScheduleID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	sch, err := h.service.Get(ctx, scheduleID)
	if err != nil {
		h.logError(ctx, "failed to load schedule", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, sch)
}

func (h *Handler) HandleListByDrive(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	driveID, err := id.ParseDriveID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	schedules, err := h.service.ListByDrive(ctx, driveID)
	if err != nil {
		h.logError(ctx, "failed to list schedules", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"schedules": schedules, "count": len(schedules)})
}

type addCandidatesResponse struct {
	Schedule *models.Schedule `json:"schedule"`
	Added    int              `json:"added"`
	Skipped  int              `json:"skipped"`
}

func (h *Handler) HandleAddCandidates(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	scheduleID, err := id.ParseScheduleID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	var req AddCandidatesRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}
	sch, added, err := h.service.AddCandidates(ctx, id.RecruiterID(requestcontext.Actor(ctx).ID), scheduleID, req.inputs)
	if err != nil {
		h.logError(ctx, "failed to add candidates", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, addCandidatesResponse{
		Schedule: sch,
		Added:    added,
		Skipped:  len(req.inputs) - added,
	})
}

func (h *Handler) HandleUpdateCandidate(w http.ResponseWriter, r *http.Request) {
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
	var req UpdateCandidateRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}
	sch, err := h.service.UpdateCandidateStatus(ctx, id.RecruiterID(requestcontext.Actor(ctx).ID), scheduleID, studentID, req.update)
	if err != nil {
		h.logError(ctx, "failed to update candidate", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, sch)
}

func (h *Handler) logError(ctx context.Context, msg string, err error) {
	if dErrors.CodeOf(err) != dErrors.CodeInternal {
		return
	}
	h.logger.ErrorContext(ctx, msg, "error", err, "request_id", requestcontext.RequestID(ctx))
}
