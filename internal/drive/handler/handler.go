package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"placement/internal/drive/models"
	ledgermodels "placement/internal/ledger/models"
	"placement/internal/platform/middleware"
	id "placement/pkg/domain"
	dErrors "placement/pkg/domain-errors"
	"placement/pkg/platform/httputil"
	"placement/pkg/requestcontext"
)

type Service interface {
	Create(ctx context.Context, recruiterID id.RecruiterID, fields models.Fields) (*models.Drive, error)
	Get(ctx context.Context, driveID id.DriveID) (*models.Drive, error)
	ListVisible(ctx context.Context) ([]*models.Drive, error)
	ListByRecruiter(ctx context.Context, recruiterID id.RecruiterID) ([]*models.Drive, error)
	Update(ctx context.Context, recruiterID id.RecruiterID, driveID id.DriveID, fields models.Fields, status models.Status) (*models.Drive, error)
	ListApplicants(ctx context.Context, driveID id.DriveID, requester requestcontext.Principal) ([]*ledgermodels.Application, error)
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
	staff := middleware.RequireRole(h.logger, requestcontext.RoleRecruiter, requestcontext.RoleAdmin)

	r.Get("/drives", h.HandleListVisible)
	r.Get("/drives/{id}", h.HandleGet)
	r.With(recruiter).Post("/drives", h.HandleCreate)
	r.With(recruiter).Put("/drives/{id}", h.HandleUpdate)
	r.With(staff).Get("/drives/{id}/applicants", h.HandleListApplicants)
	r.Get("/recruiters/{id}/drives", h.HandleListByRecruiter)
}

type listResponse struct {
	Drives []*models.Drive `json:"drives"`
	Count  int             `json:"count"`
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req DriveRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}
	d, err := h.service.Create(ctx, id.RecruiterID(requestcontext.Actor(ctx).ID), req.fields)
	if err != nil {
		h.logError(ctx, "failed to create drive", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, d)
}

func (h *Handler) HandleListVisible(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	drives, err := h.service.ListVisible(ctx)
	if err != nil {
		h.logError(ctx, "failed to list drives", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, listResponse{Drives: drives, Count: len(drives)})
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	driveID, err := id.ParseDriveID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	d, err := h.service.Get(ctx, driveID)
	if err != nil {
		h.logError(ctx, "failed to load drive", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, d)
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	driveID, err := id.ParseDriveID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	var req DriveRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}
	d, err := h.service.Update(ctx, id.RecruiterID(requestcontext.Actor(ctx).ID), driveID, req.fields, models.Status(req.Status))
	if err != nil {
		h.logError(ctx, "failed to update drive", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, d)
}

func (h *Handler) HandleListApplicants(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	driveID, err := id.ParseDriveID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	apps, err := h.service.ListApplicants(ctx, driveID, requestcontext.Actor(ctx))
	if err != nil {
		h.logError(ctx, "failed to list applicants", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"applicants": apps, "count": len(apps)})
}

func (h *Handler) HandleListByRecruiter(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	recruiterID, err := id.ParseRecruiterID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	drives, err := h.service.ListByRecruiter(ctx, recruiterID)
	if err != nil {
		h.logError(ctx, "failed to list recruiter drives", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, listResponse{Drives: drives, Count: len(drives)})
}

func (h *Handler) logError(ctx context.Context, msg string, err error) {
	if dErrors.CodeOf(err) != dErrors.CodeInternal {
		return
	}
	h.logger.ErrorContext(ctx, msg, "error", err, "request_id", requestcontext.RequestID(ctx))
}
