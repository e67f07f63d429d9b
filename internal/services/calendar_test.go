package services

import (
	"errors"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"plates-console/internal/apiclient"
	"plates-console/internal/models"
	"plates-console/internal/repository"

	"github.com/go-chi/chi/v5"
)

func TestGenerateCalendarShape(t *testing.T) {
	today := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)
	for _, year := range []int{2024, 2025} {
		for month := time.January; month <= time.December; month++ {
			days := GenerateCalendar(year, month, nil, today)
			if len(days) != 42 {
				t.Fatalf("%d-%02d: %d cells, want 42", year, month, len(days))
			}
			if days[0].Date.Weekday() != time.Sunday {
				t.Errorf("%d-%02d: grid starts on %s", year, month, days[0].Date.Weekday())
			}
			for i := 1; i < len(days); i++ {
				if !days[i].Date.Equal(days[i-1].Date.AddDate(0, 0, 1)) {
					t.Fatalf("%d-%02d: cell %d is not the day after cell %d", year, month, i, i-1)
				}
			}

			inMonth := 0
			for _, d := range days {
				if d.IsCurrentMonth {
					inMonth++
				}
			}
			want := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
			if inMonth != want {
				t.Errorf("%d-%02d: %d current-month cells, want %d", year, month, inMonth, want)
			}
		}
	}
}

func TestGenerateCalendarFebruary2024(t *testing.T) {
	today := time.Date(2024, time.February, 15, 18, 30, 0, 0, time.UTC)
	records := map[string]*models.Capacity{
		"2024-02-10": {MaxCapacity: 100, AvailableCapacity: 20},
	}
	days := GenerateCalendar(2024, time.February, records, today)

	if days[0].DateString != "2024-01-28" {
		t.Errorf("first cell = %s, want 2024-01-28", days[0].DateString)
	}
	if days[41].DateString != "2024-03-09" {
		t.Errorf("last cell = %s, want 2024-03-09", days[41].DateString)
	}
	if days[0].IsCurrentMonth || days[41].IsCurrentMonth {
		t.Error("leading and trailing cells must not be in the current month")
	}

	todays := 0
	for _, d := range days {
		if d.IsToday {
			todays++
			if d.DateString != "2024-02-15" {
				t.Errorf("today flagged on %s", d.DateString)
			}
			if d.IsPast {
				t.Error("today must not be past")
			}
		}
		switch d.DateString {
		case "2024-02-14":
			if !d.IsPast {
				t.Error("2024-02-14 should be past")
			}
		case "2024-02-10":
			if d.Status != LevelHigh || d.Capacity == nil {
				t.Errorf("2024-02-10 status = %s, want high", d.Status)
			}
		case "2024-02-20":
			if d.Status != LevelNotSet {
				t.Errorf("2024-02-20 status = %s, want not-set", d.Status)
			}
		}
	}
	if todays != 1 {
		t.Errorf("%d cells flagged today, want 1", todays)
	}
}

func TestCapacityStatus(t *testing.T) {
	tests := []struct {
		name string
		c    *models.Capacity
		want CapacityLevel
	}{
		{"nil", nil, LevelNotSet},
		{"zero max", &models.Capacity{MaxCapacity: 0}, LevelNotSet},
		{"negative max", &models.Capacity{MaxCapacity: -5}, LevelNotSet},
		{"empty", &models.Capacity{MaxCapacity: 100, AvailableCapacity: 100}, LevelLow},
		{"0.49", &models.Capacity{MaxCapacity: 100, AvailableCapacity: 51}, LevelLow},
		{"0.50", &models.Capacity{MaxCapacity: 100, AvailableCapacity: 50}, LevelMedium},
		{"0.79", &models.Capacity{MaxCapacity: 100, AvailableCapacity: 21}, LevelMedium},
		{"0.80", &models.Capacity{MaxCapacity: 100, AvailableCapacity: 20}, LevelHigh},
		{"1.00", &models.Capacity{MaxCapacity: 100, AvailableCapacity: 0}, LevelFull},
		{"overbooked", &models.Capacity{MaxCapacity: 100, AvailableCapacity: -10}, LevelFull},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CapacityStatus(tt.c); got != tt.want {
				t.Errorf("CapacityStatus = %s, want %s", got, tt.want)
			}
		})
	}
}

func newOfflineCapacityService(now string) *CapacityService {
	return &CapacityService{validator: NewValidator(), now: fixedNow(now)}
}

func TestSelectDay(t *testing.T) {
	s := newOfflineCapacityService("2024-02-15T08:00:00Z")

	day, ok := s.Day(2024, time.February, "2024-01-30")
	if !ok {
		t.Fatal("2024-01-30 should be in the February grid")
	}
	if open, err := s.Select(day); open || err != nil {
		t.Errorf("Select(outside month) = %v, %v; want false, nil", open, err)
	}

	day, _ = s.Day(2024, time.February, "2024-02-10")
	if _, err := s.Select(day); !errors.Is(err, ErrPastDate) {
		t.Errorf("Select(past) err = %v, want ErrPastDate", err)
	}

	day, _ = s.Day(2024, time.February, "2024-02-15")
	if open, err := s.Select(day); !open || err != nil {
		t.Errorf("Select(today) = %v, %v; want true, nil", open, err)
	}

	if _, ok := s.Day(2024, time.February, "2024-04-01"); ok {
		t.Error("2024-04-01 is not in the February grid")
	}
}

func TestSetCapacityValidation(t *testing.T) {
	s := newOfflineCapacityService("2024-02-15T08:00:00Z")

	_, err := s.Set(t.Context(), &SetCapacityForm{LocationID: 1, Date: "2024-02-14", MealType: models.MealLunch, Capacity: 10})
	if !errors.Is(err, ErrPastDate) {
		t.Errorf("past date err = %v, want ErrPastDate", err)
	}

	_, err = s.Set(t.Context(), &SetCapacityForm{LocationID: 1, Date: "2024-02-20", MealType: models.MealLunch, Capacity: 0})
	if !errors.Is(err, ErrValidation) {
		t.Errorf("zero capacity err = %v, want ErrValidation", err)
	}

	_, err = s.Set(t.Context(), &SetCapacityForm{LocationID: 1, Date: "2024-02-20", MealType: "supper", Capacity: 10})
	if !errors.Is(err, ErrValidation) {
		t.Errorf("unknown meal err = %v, want ErrValidation", err)
	}

	if err := s.Clear(t.Context(), 1, "2024-02-01", models.MealLunch); !errors.Is(err, ErrPastDate) {
		t.Errorf("clear past err = %v, want ErrPastDate", err)
	}
}

func TestSetCapacity(t *testing.T) {
	var body repository.SetCapacityRequest
	api, _ := newBackend(t, models.RoleNGO, func(r chi.Router) {
		r.Post("/ngos/locations/{id}/capacity", func(w http.ResponseWriter, r *http.Request) {
			decodeBody(t, r, &body)
			writeJSON(w, http.StatusOK, map[string]any{
				"location_id": 5, "date": body.Date, "meal_type": body.MealType,
				"capacity": body.Capacity, "confirmed": 0, "is_manual": true,
			})
		})
	})
	s := NewCapacityService(repository.NewCapacityRepository(api), NewValidator())
	s.now = fixedNow("2024-02-15T08:00:00Z")

	c, err := s.Set(t.Context(), &SetCapacityForm{LocationID: 5, Date: "2024-02-15", MealType: models.MealDinner, Capacity: 120})
	if err != nil {
		t.Fatalf("Set: %v", err)
	}
	if body.LocationID != 5 || body.Capacity != 120 || body.MealType != models.MealDinner {
		t.Errorf("backend received %+v", body)
	}
	if c.MaxCapacity != 120 || c.AvailableCapacity != 120 || !c.IsManual {
		t.Errorf("capacity = %+v", c)
	}
}

func TestCalendarFetchesEveryDay(t *testing.T) {
	var calls atomic.Int32
	api, _ := newBackend(t, models.RoleNGO, func(r chi.Router) {
		r.Get("/ngos/locations/{id}/capacity", func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			if r.URL.Query().Get("meal_type") != "lunch" {
				t.Errorf("meal_type = %q", r.URL.Query().Get("meal_type"))
			}
			if r.URL.Query().Get("target_date") != "2024-02-10" {
				writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Capacity not found"})
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{
				"meal_type": "lunch", "capacity": 100, "available": 40,
			})
		})
	})
	s := NewCapacityService(repository.NewCapacityRepository(api), NewValidator())
	s.now = fixedNow("2024-02-01T08:00:00Z")

	cal, err := s.Calendar(t.Context(), 5, models.MealLunch, 2024, time.February)
	if err != nil {
		t.Fatalf("Calendar: %v", err)
	}
	if n := calls.Load(); n != 29 {
		t.Errorf("%d backend calls, want 29", n)
	}
	if len(cal.Days) != 42 {
		t.Fatalf("%d cells, want 42", len(cal.Days))
	}

	set := 0
	for _, d := range cal.Days {
		if d.Capacity == nil {
			continue
		}
		set++
		if d.DateString != "2024-02-10" || d.Status != LevelMedium {
			t.Errorf("unexpected record on %s with status %s", d.DateString, d.Status)
		}
		if d.Capacity.LocationID != 5 || d.Capacity.CurrentBookings != 60 {
			t.Errorf("capacity = %+v", d.Capacity)
		}
	}
	if set != 1 {
		t.Errorf("%d days with records, want 1", set)
	}
}

func TestCalendarPropagatesErrors(t *testing.T) {
	api, _ := newBackend(t, models.RoleNGO, func(r chi.Router) {
		r.Get("/ngos/locations/{id}/capacity", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "boom"})
		})
	})
	s := NewCapacityService(repository.NewCapacityRepository(api), NewValidator())

	if _, err := s.Calendar(t.Context(), 5, models.MealLunch, 2024, time.February); err == nil {
		t.Fatal("Calendar should fail when the backend does")
	}
	if _, err := s.Calendar(t.Context(), 5, "brunch", 2024, time.February); !errors.Is(err, ErrValidation) {
		t.Errorf("unknown meal err = %v, want ErrValidation", err)
	}
}

func TestGenerateCalendarTodayOnlyInMonth(t *testing.T) {
	today := time.Date(2024, time.January, 30, 9, 0, 0, 0, time.UTC)
	days := GenerateCalendar(2024, time.February, nil, today)

	found := false
	for _, d := range days {
		if d.IsToday {
			t.Errorf("padding day %s flagged as today", d.DateString)
		}
		if d.DateString == "2024-01-30" {
			found = true
			if d.IsCurrentMonth {
				t.Error("2024-01-30 is not in February")
			}
		}
	}
	if !found {
		t.Fatal("2024-01-30 should be a leading padding cell")
	}
}

func TestCalendarStopsAfterSessionExpires(t *testing.T) {
	var capacityCalls, refreshCalls, expired atomic.Int32
	api, sess := newBackendWith(t, models.RoleNGO, func(r chi.Router) {
		r.Get("/ngos/locations/{id}/capacity", func(w http.ResponseWriter, r *http.Request) {
			capacityCalls.Add(1)
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Could not validate credentials"})
		})
		r.Post("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
			refreshCalls.Add(1)
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Invalid refresh token"})
		})
	}, apiclient.WithExpiredHook(func() { expired.Add(1) }))
	s := NewCapacityService(repository.NewCapacityRepository(api), NewValidator())

	_, err := s.Calendar(t.Context(), 5, models.MealLunch, 2024, time.March)
	if !errors.Is(err, apiclient.ErrSessionExpired) {
		t.Fatalf("err = %v, want ErrSessionExpired", err)
	}
	if n := refreshCalls.Load(); n != 1 {
		t.Errorf("%d refresh calls, want 1", n)
	}
	if n := expired.Load(); n != 1 {
		t.Errorf("session expired %d times, want 1", n)
	}
	if n := capacityCalls.Load(); n > monthFetchWorkers {
		t.Errorf("%d capacity calls, want at most %d", n, monthFetchWorkers)
	}
	if sess.IsAuthenticated() {
		t.Error("session should be cleared")
	}
}
