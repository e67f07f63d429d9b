package services

import (
	"net/http"
	"testing"
	"time"

	"plates-console/internal/models"
	"plates-console/internal/repository"

	"github.com/go-chi/chi/v5"
)

func TestHubPollStoresUnread(t *testing.T) {
	api, sess := newBackend(t, models.RoleDonor, func(r chi.Router) {
		r.Get("/notifications/unread", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, []map[string]any{
				{"id": 1, "notification_type": "donation_confirmed", "title": "Confirmed", "is_read": false},
				{"id": 2, "type": "donation_completed", "title": "Completed", "is_read": false},
			})
		})
	})
	hub := NewNotificationHub(repository.NewNotificationRepository(api), sess, time.Minute)

	if hub.Latest() != nil {
		t.Fatal("Latest should be nil before the first poll")
	}
	hub.poll(t.Context())

	latest := hub.Latest()
	if latest == nil || latest.UnreadCount != 2 || len(latest.Notifications) != 2 {
		t.Fatalf("Latest = %+v", latest)
	}
	if latest.Notifications[0].Type != models.NotificationDonationConfirmed {
		t.Errorf("type = %q, want donation_confirmed", latest.Notifications[0].Type)
	}

	if err := sess.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	hub.poll(t.Context())
	if hub.Latest() != nil {
		t.Error("Latest should be dropped once logged out")
	}
}

func TestHubRefreshNeverBlocks(t *testing.T) {
	hub := NewNotificationHub(nil, nil, time.Minute)
	done := make(chan struct{})
	go func() {
		hub.Refresh()
		hub.Refresh()
		hub.Refresh()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Refresh blocked")
	}
	if len(hub.refresh) != 1 {
		t.Errorf("%d pending refreshes, want 1", len(hub.refresh))
	}
}

func TestNotificationChangesRefreshHub(t *testing.T) {
	api, sess := newBackend(t, models.RoleDonor, func(r chi.Router) {
		r.Put("/notifications/{id}/read", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"message": "ok"})
		})
		r.Put("/notifications/read-all", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "boom"})
		})
	})
	repo := repository.NewNotificationRepository(api)
	hub := NewNotificationHub(repo, sess, time.Minute)
	s := NewNotificationService(repo, hub)

	if err := s.MarkAllRead(t.Context()); err == nil {
		t.Fatal("MarkAllRead should fail")
	}
	if len(hub.refresh) != 0 {
		t.Error("a failed change must not refresh the hub")
	}

	if err := s.MarkRead(t.Context(), 4); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	if len(hub.refresh) != 1 {
		t.Error("a successful change should refresh the hub")
	}
}
