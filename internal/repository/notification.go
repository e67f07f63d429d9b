package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"plates-console/internal/apiclient"
	"plates-console/internal/models"
)

// NotificationRepository handles in-app notification endpoints
type NotificationRepository struct {
	api *apiclient.Client
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(api *apiclient.Client) *NotificationRepository {
	return &NotificationRepository{api: api}
}

// List retrieves a page of notifications
func (r *NotificationRepository) List(ctx context.Context, skip, limit int, unreadOnly bool) (*models.NotificationList, error) {
	query := url.Values{}
	if skip > 0 {
		query.Set("skip", strconv.Itoa(skip))
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	if unreadOnly {
		query.Set("unread_only", "true")
	}
	return r.list(ctx, "/notifications/", query)
}

// Unread retrieves the unread notifications only
func (r *NotificationRepository) Unread(ctx context.Context) (*models.NotificationList, error) {
	return r.list(ctx, "/notifications/unread", nil)
}

func (r *NotificationRepository) list(ctx context.Context, path string, query url.Values) (*models.NotificationList, error) {
	var raw json.RawMessage
	if err := r.api.Get(ctx, path, query, &raw); err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return decodeNotificationList(raw)
}

// MarkRead marks one notification as read
func (r *NotificationRepository) MarkRead(ctx context.Context, id int) error {
	if err := r.api.Put(ctx, fmt.Sprintf("/notifications/%d/read", id), nil, nil); err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return nil
}

// MarkAllRead marks every notification as read
func (r *NotificationRepository) MarkAllRead(ctx context.Context) error {
	if err := r.api.Put(ctx, "/notifications/read-all", nil, nil); err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return nil
}

// Delete removes one notification
func (r *NotificationRepository) Delete(ctx context.Context, id int) error {
	if err := r.api.Delete(ctx, fmt.Sprintf("/notifications/%d", id), nil); err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	return nil
}

// ClearAll removes every notification
func (r *NotificationRepository) ClearAll(ctx context.Context) error {
	if err := r.api.Delete(ctx, "/notifications/clear-all", nil); err != nil {
		return fmt.Errorf("failed to clear notifications: %w", err)
	}
	return nil
}
