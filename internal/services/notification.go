package services

import (
	"context"

	"plates-console/internal/models"
	"plates-console/internal/repository"
)

// NotificationService backs the notification screens. Every change asks the
// hub to push a fresh unread count.
type NotificationService struct {
	notifications *repository.NotificationRepository
	hub           *NotificationHub
}

// NewNotificationService creates a new notification service
func NewNotificationService(notifications *repository.NotificationRepository, hub *NotificationHub) *NotificationService {
	return &NotificationService{
		notifications: notifications,
		hub:           hub,
	}
}

// List returns a page of notifications
func (s *NotificationService) List(ctx context.Context, skip, limit int, unreadOnly bool) (*models.NotificationList, error) {
	return s.notifications.List(ctx, skip, limit, unreadOnly)
}

// Unread returns the unread notifications
func (s *NotificationService) Unread(ctx context.Context) (*models.NotificationList, error) {
	return s.notifications.Unread(ctx)
}

// MarkRead marks one notification as read
func (s *NotificationService) MarkRead(ctx context.Context, id int) error {
	return s.changed(s.notifications.MarkRead(ctx, id))
}

// MarkAllRead marks every notification as read
func (s *NotificationService) MarkAllRead(ctx context.Context) error {
	return s.changed(s.notifications.MarkAllRead(ctx))
}

// Delete removes one notification
func (s *NotificationService) Delete(ctx context.Context, id int) error {
	return s.changed(s.notifications.Delete(ctx, id))
}

// ClearAll removes every notification
func (s *NotificationService) ClearAll(ctx context.Context) error {
	return s.changed(s.notifications.ClearAll(ctx))
}

func (s *NotificationService) changed(err error) error {
	if err == nil && s.hub != nil {
		s.hub.Refresh()
	}
	return err
}
