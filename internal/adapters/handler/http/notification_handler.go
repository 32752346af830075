package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vunes/poll/internal/core/domain"
	"github.com/vunes/poll/internal/core/ports"
)

type NotificationHandler struct {
	service ports.NotificationService
	log     *zap.Logger
}

func NewNotificationHandler(service ports.NotificationService, log *zap.Logger) *NotificationHandler {
	return &NotificationHandler{service: service, log: log}
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "missing user context")
		return
	}

	notifications, err := h.service.List(r.Context(), userID)
	if err != nil {
		respondDomainError(w, err, h.log)
		return
	}
	if notifications == nil {
		notifications = []*domain.Notification{}
	}
	respond(w, http.StatusOK, notifications)
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "missing user context")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid notification id")
		return
	}

	if err := h.service.MarkRead(r.Context(), id, userID); err != nil {
		respondDomainError(w, err, h.log)
		return
	}
	respondMessage(w, http.StatusOK, "notification marked as read")
}

func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "missing user context")
		return
	}

	if err := h.service.MarkAllRead(r.Context(), userID); err != nil {
		respondDomainError(w, err, h.log)
		return
	}
	respondMessage(w, http.StatusOK, "all notifications marked as read")
}
