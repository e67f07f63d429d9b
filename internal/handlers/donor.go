package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"plates-console/internal/models"
	"plates-console/internal/repository"
	"plates-console/internal/services"
)

// DonorHandler handles the donor screens
type DonorHandler struct {
	donorService *services.DonorService
	matchService *services.MatchService
}

// NewDonorHandler creates a new donor handler
func NewDonorHandler(donorService *services.DonorService, matchService *services.MatchService) *DonorHandler {
	return &DonorHandler{
		donorService: donorService,
		matchService: matchService,
	}
}

// Dashboard handles GET /donor/dashboard
func (h *DonorHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.donorService.Dashboard(r.Context())
	if err != nil {
		handleError(w, r, err, "get donor dashboard")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"dashboard":        dashboard,
		"recent_donations": donationViews(dashboard.RecentDonations),
	})
}

// GetProfile handles GET /donor/profile
func (h *DonorHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.donorService.Profile(r.Context())
	if err != nil {
		handleError(w, r, err, "get donor profile")
		return
	}
	respondJSON(w, http.StatusOK, profile)
}

// UpdateProfile handles PUT /donor/profile
func (h *DonorHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req repository.UpdateDonorProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err, "update donor profile")
		return
	}

	profile, err := h.donorService.UpdateProfile(r.Context(), &req)
	if err != nil {
		handleError(w, r, err, "update donor profile")
		return
	}
	respondJSON(w, http.StatusOK, profile)
}

func floatQuery(r *http.Request, name string) (float64, bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false, fmt.Errorf("%w: invalid %s", services.ErrValidation, name)
	}
	return v, true, nil
}

// SearchNGOs handles GET /donor/search
func (h *DonorHandler) SearchNGOs(w http.ResponseWriter, r *http.Request) {
	lat, hasLat, err := floatQuery(r, "latitude")
	if err != nil {
		handleError(w, r, err, "search NGOs")
		return
	}
	lng, hasLng, err := floatQuery(r, "longitude")
	if err != nil {
		handleError(w, r, err, "search NGOs")
		return
	}
	radius, _, err := floatQuery(r, "radius")
	if err != nil {
		handleError(w, r, err, "search NGOs")
		return
	}
	minCapacity, err := intQuery(r, "min_capacity")
	if err != nil {
		handleError(w, r, err, "search NGOs")
		return
	}

	params := &repository.SearchParams{
		Latitude:     lat,
		Longitude:    lng,
		RadiusKM:     radius,
		DonationDate: r.URL.Query().Get("donation_date"),
		MealType:     models.MealType(r.URL.Query().Get("meal_type")),
		MinCapacity:  minCapacity,
	}
	if !hasLat || !hasLng {
		profile, err := h.donorService.Profile(r.Context())
		if err != nil {
			handleError(w, r, err, "search NGOs")
			return
		}
		if !profile.HasLocation() {
			respondError(w, "latitude and longitude are required", http.StatusBadRequest)
			return
		}
		params.Latitude, params.Longitude = profile.Latitude, profile.Longitude
	}

	results, err := h.matchService.Search(r.Context(), params)
	if err != nil {
		handleError(w, r, err, "search NGOs")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"total":     len(results),
		"radius_km": params.RadiusKM,
		"ngos":      searchResultViews(results),
	})
}

// VerifiedNGOs handles GET /donor/ngos
func (h *DonorHandler) VerifiedNGOs(w http.ResponseWriter, r *http.Request) {
	ngos, err := h.donorService.VerifiedNGOs(r.Context())
	if err != nil {
		handleError(w, r, err, "list verified NGOs")
		return
	}
	respondJSON(w, http.StatusOK, ngos)
}

// Availability handles GET /donor/locations/{id}/availability?start_date=&end_date=
func (h *DonorHandler) Availability(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		handleError(w, r, err, "get availability")
		return
	}

	q := r.URL.Query()
	availability, err := h.matchService.Availability(r.Context(), id, q.Get("start_date"), q.Get("end_date"))
	if err != nil {
		handleError(w, r, err, "get availability")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"location_id":  id,
		"availability": availability,
	})
}

// NGODetails handles GET /donor/ngos/{id}
func (h *DonorHandler) NGODetails(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		handleError(w, r, err, "get NGO")
		return
	}

	details, err := h.donorService.NGODetails(r.Context(), id)
	if err != nil {
		handleError(w, r, err, "get NGO")
		return
	}
	respondJSON(w, http.StatusOK, details)
}

// SmartDonate handles POST /donor/smart-donate
func (h *DonorHandler) SmartDonate(w http.ResponseWriter, r *http.Request) {
	var req services.SmartDonateRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err, "smart donate")
		return
	}

	result, err := h.matchService.Find(r.Context(), &req)
	if err != nil {
		handleError(w, r, err, "smart donate")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"result": result,
		"ngos":   searchResultViews(result.Results),
	})
}

// CreateDonation handles POST /donor/donations
func (h *DonorHandler) CreateDonation(w http.ResponseWriter, r *http.Request) {
	var req models.CreateDonationRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err, "create donation")
		return
	}

	donation, err := h.donorService.CreateDonation(r.Context(), &req)
	if err != nil {
		handleError(w, r, err, "create donation")
		return
	}
	respondJSON(w, http.StatusCreated, donationView(donation))
}

// ListDonations handles GET /donor/donations
func (h *DonorHandler) ListDonations(w http.ResponseWriter, r *http.Request) {
	f, err := donationFilter(r)
	if err != nil {
		handleError(w, r, err, "list donations")
		return
	}

	donations, err := h.donorService.History(r.Context(), f)
	if err != nil {
		handleError(w, r, err, "list donations")
		return
	}
	respondJSON(w, http.StatusOK, donationViews(donations))
}

// GetDonation handles GET /donor/donations/{id}
func (h *DonorHandler) GetDonation(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		handleError(w, r, err, "get donation")
		return
	}

	donation, err := h.donorService.Donation(r.Context(), id)
	if err != nil {
		handleError(w, r, err, "get donation")
		return
	}

	resp := map[string]any{"donation": donationView(donation)}
	if donation.CanRate() {
		rating, err := h.donorService.DonationRating(r.Context(), id)
		if err != nil {
			handleError(w, r, err, "get donation")
			return
		}
		resp["rating"] = rating
	}
	respondJSON(w, http.StatusOK, resp)
}

// CancelDonation handles POST /donor/donations/{id}/cancel
func (h *DonorHandler) CancelDonation(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		handleError(w, r, err, "cancel donation")
		return
	}

	donation, err := h.donorService.Cancel(r.Context(), id)
	if err != nil {
		handleError(w, r, err, "cancel donation")
		return
	}
	respondJSON(w, http.StatusOK, donationView(donation))
}

// RateDonation handles POST /donor/donations/{id}/rating
func (h *DonorHandler) RateDonation(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		handleError(w, r, err, "rate donation")
		return
	}

	var form services.RateForm
	if err := decodeJSON(r, &form); err != nil {
		handleError(w, r, err, "rate donation")
		return
	}
	form.DonationID = id

	rating, err := h.donorService.Rate(r.Context(), &form)
	if err != nil {
		handleError(w, r, err, "rate donation")
		return
	}
	respondJSON(w, http.StatusCreated, rating)
}

// ListRatings handles GET /donor/ratings
func (h *DonorHandler) ListRatings(w http.ResponseWriter, r *http.Request) {
	ratings, err := h.donorService.Ratings(r.Context())
	if err != nil {
		handleError(w, r, err, "list ratings")
		return
	}
	respondJSON(w, http.StatusOK, ratings)
}

// DeleteRating handles DELETE /donor/ratings/{id}
func (h *DonorHandler) DeleteRating(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		handleError(w, r, err, "delete rating")
		return
	}

	if err := h.donorService.DeleteRating(r.Context(), id); err != nil {
		handleError(w, r, err, "delete rating")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
