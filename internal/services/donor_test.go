package services

import (
	"errors"
	"net/http"
	"sync/atomic"
	"testing"

	"plates-console/internal/models"
	"plates-console/internal/repository"

	"github.com/go-chi/chi/v5"
)

func newDonorService(t *testing.T, setup func(r chi.Router)) *DonorService {
	t.Helper()
	api, _ := newBackend(t, models.RoleDonor, setup)
	s := NewDonorService(
		repository.NewDonorRepository(api),
		repository.NewDonationRepository(api),
		repository.NewNGORepository(api),
		repository.NewRatingRepository(api),
		NewValidator(),
	)
	s.now = fixedNow("2026-03-01T09:00:00Z")
	return s
}

func TestRateRequiresCompletedDonation(t *testing.T) {
	var status atomic.Value
	status.Store(string(models.StatusConfirmed))
	var created atomic.Int32

	s := newDonorService(t, func(r chi.Router) {
		r.Get("/donations/requests/{id}", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"id": 7, "status": status.Load()})
		})
		r.Post("/ratings/", func(w http.ResponseWriter, r *http.Request) {
			created.Add(1)
			var req repository.CreateRatingRequest
			decodeBody(t, r, &req)
			writeJSON(w, http.StatusCreated, map[string]any{"id": 3, "donation_id": req.DonationID, "rating": req.Rating})
		})
	})

	form := &RateForm{DonationID: 7, Rating: 5, Feedback: "Great pickup"}
	if _, err := s.Rate(t.Context(), form); !errors.Is(err, ErrNotCompleted) {
		t.Fatalf("err = %v, want ErrNotCompleted", err)
	}
	if created.Load() != 0 {
		t.Fatal("a rating was sent for a donation that is not completed")
	}

	status.Store(string(models.StatusCompleted))
	rating, err := s.Rate(t.Context(), form)
	if err != nil {
		t.Fatalf("Rate: %v", err)
	}
	if rating.ID != 3 || rating.Rating != 5 || created.Load() != 1 {
		t.Errorf("rating = %+v, created = %d", rating, created.Load())
	}
}

func TestRateValidatesStars(t *testing.T) {
	s := newDonorService(t, func(r chi.Router) {})
	for _, stars := range []int{0, 6} {
		if _, err := s.Rate(t.Context(), &RateForm{DonationID: 7, Rating: stars}); !errors.Is(err, ErrValidation) {
			t.Errorf("rating %d err = %v, want ErrValidation", stars, err)
		}
	}
}

func TestCreateDonationValidation(t *testing.T) {
	var created atomic.Int32
	s := newDonorService(t, func(r chi.Router) {
		r.Post("/donations/requests", func(w http.ResponseWriter, r *http.Request) {
			created.Add(1)
			writeJSON(w, http.StatusCreated, map[string]any{"id": 11, "status": "pending"})
		})
	})

	valid := models.CreateDonationRequest{
		NGOLocationID:   4,
		FoodType:        "Rice and dal",
		QuantityPlates:  40,
		MealType:        models.MealLunch,
		DonationDate:    "2026-03-02",
		PickupTimeStart: "11:00",
		PickupTimeEnd:   "12:30",
	}

	past := valid
	past.DonationDate = "2026-02-27"
	backwards := valid
	backwards.PickupTimeEnd = "10:00"
	empty := valid
	empty.FoodType = ""

	for name, req := range map[string]models.CreateDonationRequest{"past": past, "backwards": backwards, "empty": empty} {
		if _, err := s.CreateDonation(t.Context(), &req); !errors.Is(err, ErrValidation) {
			t.Errorf("%s: err = %v, want ErrValidation", name, err)
		}
	}
	if created.Load() != 0 {
		t.Fatal("an invalid donation reached the backend")
	}

	d, err := s.CreateDonation(t.Context(), &valid)
	if err != nil {
		t.Fatalf("CreateDonation: %v", err)
	}
	if d.ID != 11 || d.Status != models.StatusPending {
		t.Errorf("donation = %+v", d)
	}
}

func TestHistoryFiltersLocally(t *testing.T) {
	var gotStatus string
	s := newDonorService(t, func(r chi.Router) {
		r.Get("/donations/requests/my-donations", func(w http.ResponseWriter, r *http.Request) {
			gotStatus = r.URL.Query().Get("status")
			writeJSON(w, http.StatusOK, []map[string]any{
				{"id": 1, "status": "completed", "food_type": "Biryani", "ngo_name": "Food Bank"},
				{"id": 2, "status": "completed", "food_type": "Chapati", "ngo_name": "Shelter"},
			})
		})
	})

	got, err := s.History(t.Context(), DonationFilter{Status: models.StatusCompleted, Query: "shel"})
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if gotStatus != "completed" {
		t.Errorf("status query = %q, want completed", gotStatus)
	}
	if len(got) != 1 || got[0].ID != 2 {
		t.Errorf("History = %+v, want donation 2", got)
	}
}

func TestNGODetailsFallsBackToAverage(t *testing.T) {
	s := newDonorService(t, func(r chi.Router) {
		r.Get("/ngos/{id}", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"id": 3, "organization_name": "Food Bank"})
		})
		r.Get("/ratings/ngo/{id}", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "boom"})
		})
		r.Get("/ratings/ngo/{id}/average", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"average_rating": 4.2, "total_ratings": 5})
		})
	})

	details, err := s.NGODetails(t.Context(), 3)
	if err != nil {
		t.Fatalf("NGODetails: %v", err)
	}
	if details.Profile.OrganizationName != "Food Bank" {
		t.Errorf("profile = %+v", details.Profile)
	}
	if details.Ratings == nil || details.Ratings.AverageRating != 4.2 || details.Ratings.NGOID != 3 {
		t.Errorf("ratings = %+v", details.Ratings)
	}
}
