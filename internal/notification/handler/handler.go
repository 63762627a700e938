package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"placement/internal/notification/models"
	id "placement/pkg/domain"
	dErrors "placement/pkg/domain-errors"
	"placement/pkg/platform/httputil"
	"placement/pkg/requestcontext"
)

// Service is the inbox surface the handler needs.
type Service interface {
	List(ctx context.Context, recipientID string, unreadOnly bool, limit int) ([]*models.Notification, error)
	UnreadCount(ctx context.Context, recipientID string) (int, error)
	MarkRead(ctx context.Context, recipientID string, nid id.NotificationID) (*models.Notification, error)
	MarkAllRead(ctx context.Context, recipientID string) (int, error)
	DeleteExpired(ctx context.Context) (int, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the caller inbox routes. The router must already enforce authentication.
func (h *Handler) Register(r chi.Router) {
	r.Get("/notifications", h.HandleList)
	r.Get("/notifications/unread-count", h.HandleUnreadCount)
	r.Post("/notifications/read-all", h.HandleMarkAllRead)
	r.Post("/notifications/{id}/read", h.HandleMarkRead)
}

// RegisterAdmin mounts housekeeping routes. The router must already enforce the admin role.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Post("/admin/notifications/purge-expired", h.HandlePurgeExpired)
}

type listResponse struct {
	Notifications []*models.Notification `json:"notifications"`
	Count         int                    `json:"count"`
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor := requestcontext.Actor(ctx)

	unreadOnly := r.URL.Query().Get("unread") == "true"
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 || v > 200 {
			httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "limit must be between 1 and 200"))
			return
		}
		limit = v
	}

	ns, err := h.service.List(ctx, actor.ID, unreadOnly, limit)
	if err != nil {
		h.logError(ctx, "failed to list notifications", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, listResponse{Notifications: ns, Count: len(ns)})
}

func (h *Handler) HandleUnreadCount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	count, err := h.service.UnreadCount(ctx, requestcontext.Actor(ctx).ID)
	if err != nil {
		h.logError(ctx, "failed to count unread notifications", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]int{"unreadCount": count})
}

func (h *Handler) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	nid, err := id.ParseNotificationID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	n, err := h.service.MarkRead(ctx, requestcontext.Actor(ctx).ID, nid)
	if err != nil {
		h.logError(ctx, "failed to mark notification read", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, n)
}

func (h *Handler) HandleMarkAllRead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	updated, err := h.service.MarkAllRead(ctx, requestcontext.Actor(ctx).ID)
	if err != nil {
		h.logError(ctx, "failed to mark notifications read", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]int{"updated": updated})
}

func (h *Handler) HandlePurgeExpired(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	deleted, err := h.service.DeleteExpired(ctx)
	if err != nil {
		h.logError(ctx, "failed to purge expired notifications", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]int{"deleted": deleted})
}

func (h *Handler) logError(ctx context.Context, msg string, err error) {
	if dErrors.CodeOf(err) != dErrors.CodeInternal {
		return
	}
	h.logger.ErrorContext(ctx, msg,
		"error", err,
		"request_id", requestcontext.RequestID(ctx),
	)
}
