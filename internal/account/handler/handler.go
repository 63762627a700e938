package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"placement/internal/account/models"
	id "placement/pkg/domain"
	dErrors "placement/pkg/domain-errors"
	"placement/pkg/platform/httputil"
	"placement/pkg/requestcontext"
)

type Service interface {
	RegisterStudent(ctx context.Context, studentID id.StudentID, name, email, department string) (*models.Student, error)
	RegisterRecruiter(ctx context.Context, recruiterID id.RecruiterID, name, email, company string) (*models.Recruiter, error)
	GetStudent(ctx context.Context, studentID id.StudentID) (*models.Student, error)
	GetRecruiter(ctx context.Context, recruiterID id.RecruiterID) (*models.Recruiter, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterPublic mounts the unauthenticated registration routes.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Post("/students", h.HandleRegisterStudent)
	r.Post("/recruiters", h.HandleRegisterRecruiter)
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/students/{id}", h.HandleGetStudent)
	r.Get("/recruiters/{id}", h.HandleGetRecruiter)
}

func (h *Handler) HandleRegisterStudent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req RegisterStudentRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}
	student, err := h.service.RegisterStudent(ctx, req.parsedID, req.Name, req.Email, req.Department)
	if err != nil {
		h.logError(ctx, "failed to register student", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, student)
}

func (h *Handler) HandleRegisterRecruiter(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req RegisterRecruiterRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}
	recruiter, err := h.service.RegisterRecruiter(ctx, req.parsedID, req.Name, req.Email, req.CompanyName)
	if err != nil {
		h.logError(ctx, "failed to register recruiter", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, recruiter)
}

// HandleGetStudent is open to staff and to the student themself.
func (h *Handler) HandleGetStudent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	studentID, err := id.ParseStudentID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	actor := requestcontext.Actor(ctx)
	if actor.Role == requestcontext.RoleStudent && actor.ID != studentID.String() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeForbidden, "students may only view their own profile"))
		return
	}
	student, err := h.service.GetStudent(ctx, studentID)
	if err != nil {
		h.logError(ctx, "failed to load student", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, student)
}

func (h *Handler) HandleGetRecruiter(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	recruiterID, err := id.ParseRecruiterID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	recruiter, err := h.service.GetRecruiter(ctx, recruiterID)
	if err != nil {
		h.logError(ctx, "failed to load recruiter", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, recruiter)
}

func (h *Handler) logError(ctx context.Context, msg string, err error) {
	if dErrors.CodeOf(err) != dErrors.CodeInternal {
		return
	}
	h.logger.ErrorContext(ctx, msg, "error", err, "request_id", requestcontext.RequestID(ctx))
}
