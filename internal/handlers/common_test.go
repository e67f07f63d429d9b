package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"plates-console/internal/apiclient"
	"plates-console/internal/models"
	"plates-console/internal/services"

	"github.com/go-chi/chi/v5"
)

func TestHandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"validation", fmt.Errorf("%w: rating must be between 1 and 5", services.ErrValidation), http.StatusBadRequest, "rating must be between 1 and 5"},
		{"past date", services.ErrPastDate, http.StatusBadRequest, services.ErrPastDate.Error()},
		{"backend detail", &apiclient.APIError{Status: http.StatusConflict, Detail: "Capacity exhausted"}, http.StatusConflict, "Capacity exhausted"},
		{"backend not found", fmt.Errorf("failed to get donation: %w", &apiclient.APIError{Status: http.StatusNotFound}), http.StatusNotFound, "Resource not found"},
		{"backend down", &apiclient.APIError{Status: http.StatusInternalServerError}, http.StatusInternalServerError, "Server error. Please try again later."},
		{"transport", errors.New("dial tcp: connection refused"), http.StatusBadGateway, "dial tcp: connection refused"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handleError(rec, httptest.NewRequest(http.MethodGet, "/", nil), tt.err, "test")

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			var body ErrorResponse
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatal(err)
			}
			if body.Error != tt.wantMsg {
				t.Errorf("error = %q, want %q", body.Error, tt.wantMsg)
			}
		})
	}
}

func TestHandleErrorSessionExpired(t *testing.T) {
	rec := httptest.NewRecorder()
	err := fmt.Errorf("failed to list donations: %w", apiclient.ErrSessionExpired)
	handleError(rec, httptest.NewRequest(http.MethodGet, "/donor/donations", nil), err, "list donations")

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Errorf("Location = %q", loc)
	}
}

func TestIntParam(t *testing.T) {
	r := chi.NewRouter()
	var got int
	var gotErr error
	r.Get("/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		got, gotErr = intParam(r, "id")
	})

	for path, want := range map[string]int{"/items/12": 12, "/items/0": 0, "/items/-3": 0, "/items/abc": 0} {
		got, gotErr = 0, nil
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
		if want == 0 {
			if !errors.Is(gotErr, services.ErrValidation) {
				t.Errorf("%s: err = %v, want validation error", path, gotErr)
			}
			continue
		}
		if gotErr != nil || got != want {
			t.Errorf("%s: got %d, %v", path, got, gotErr)
		}
	}
}

func TestDonationFilterQuery(t *testing.T) {
	f, err := donationFilter(httptest.NewRequest(http.MethodGet, "/?status=completed&q=rice", nil))
	if err != nil {
		t.Fatal(err)
	}
	if f.Status != models.StatusCompleted || f.Query != "rice" {
		t.Errorf("filter = %+v", f)
	}

	if _, err := donationFilter(httptest.NewRequest(http.MethodGet, "/?status=archived", nil)); !errors.Is(err, services.ErrValidation) {
		t.Errorf("err = %v, want validation error", err)
	}
}

func TestDonationViewLabels(t *testing.T) {
	v := donationView(&models.Donation{
		ID:              1,
		Status:          models.StatusConfirmed,
		MealType:        models.MealDinner,
		PickupTimeStart: "18:00",
		PickupTimeEnd:   "19:30",
	})
	if v.StatusText != "Confirmed" || v.MealTypeText != "Dinner" || v.PickupWindow != "6:00 PM - 7:30 PM" {
		t.Errorf("view = %+v", v)
	}
	if !v.CanCancel || v.CanRate {
		t.Errorf("confirmed donation: can_cancel=%v can_rate=%v", v.CanCancel, v.CanRate)
	}
}

func TestNotificationListView(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	list := &models.NotificationList{
		Total:       2,
		UnreadCount: 1,
		Notifications: []*models.Notification{
			{ID: 1, Type: models.NotificationDonationConfirmed, CreatedAt: models.Timestamp{Time: now.Add(-2 * time.Hour)}},
			{ID: 2, Type: models.NotificationDonationRejected, IsRead: true},
		},
	}

	v := notificationListView(list, now)
	if v.Total != 2 || v.UnreadCount != 1 || len(v.Notifications) != 2 {
		t.Fatalf("view = %+v", v)
	}
	if v.Notifications[0].Age != "2 hours ago" || v.Notifications[0].Color != "success" {
		t.Errorf("first = %+v", v.Notifications[0])
	}
	if v.Notifications[1].Age != "" || v.Notifications[1].Color != "danger" {
		t.Errorf("second = %+v", v.Notifications[1])
	}
}
