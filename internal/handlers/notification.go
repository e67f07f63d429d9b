package handlers

import (
	"net/http"
	"time"

	"plates-console/internal/services"
)

const defaultNotificationLimit = 50

// NotificationHandler handles the notification bell and list
type NotificationHandler struct {
	notificationService *services.NotificationService
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
	}
}

// List handles GET /notifications?skip=&limit=&unread_only=
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	skip, err := intQuery(r, "skip")
	if err != nil {
		handleError(w, r, err, "list notifications")
		return
	}
	limit, err := intQuery(r, "limit")
	if err != nil {
		handleError(w, r, err, "list notifications")
		return
	}
	if limit <= 0 {
		limit = defaultNotificationLimit
	}
	unreadOnly := r.URL.Query().Get("unread_only") == "true"

	list, err := h.notificationService.List(r.Context(), skip, limit, unreadOnly)
	if err != nil {
		handleError(w, r, err, "list notifications")
		return
	}
	respondJSON(w, http.StatusOK, notificationListView(list, time.Now()))
}

// Unread handles GET /notifications/unread
func (h *NotificationHandler) Unread(w http.ResponseWriter, r *http.Request) {
	list, err := h.notificationService.Unread(r.Context())
	if err != nil {
		handleError(w, r, err, "list unread notifications")
		return
	}
	respondJSON(w, http.StatusOK, notificationListView(list, time.Now()))
}

// MarkRead handles PUT /notifications/{id}/read
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		handleError(w, r, err, "mark notification read")
		return
	}

	if err := h.notificationService.MarkRead(r.Context(), id); err != nil {
		handleError(w, r, err, "mark notification read")
		return
	}
	respondJSON(w, http.StatusOK, MessageResponse{Message: "Notification marked as read"})
}

// MarkAllRead handles PUT /notifications/read-all
func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	if err := h.notificationService.MarkAllRead(r.Context()); err != nil {
		handleError(w, r, err, "mark all notifications read")
		return
	}
	respondJSON(w, http.StatusOK, MessageResponse{Message: "All notifications marked as read"})
}

// Delete handles DELETE /notifications/{id}
func (h *NotificationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		handleError(w, r, err, "delete notification")
		return
	}

	if err := h.notificationService.Delete(r.Context(), id); err != nil {
		handleError(w, r, err, "delete notification")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ClearAll handles DELETE /notifications
func (h *NotificationHandler) ClearAll(w http.ResponseWriter, r *http.Request) {
	if err := h.notificationService.ClearAll(r.Context()); err != nil {
		handleError(w, r, err, "clear notifications")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
