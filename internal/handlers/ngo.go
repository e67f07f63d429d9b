package handlers

import (
	"fmt"
	"net/http"
	"time"

	"plates-console/internal/models"
	"plates-console/internal/repository"
	"plates-console/internal/services"
)

// NGOHandler handles the NGO screens
type NGOHandler struct {
	ngoService      *services.NGOService
	capacityService *services.CapacityService
}

// NewNGOHandler creates a new NGO handler
func NewNGOHandler(ngoService *services.NGOService, capacityService *services.CapacityService) *NGOHandler {
	return &NGOHandler{
		ngoService:      ngoService,
		capacityService: capacityService,
	}
}

// Dashboard handles GET /ngo/dashboard
func (h *NGOHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.ngoService.Dashboard(r.Context())
	if err != nil {
		handleError(w, r, err, "get NGO dashboard")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"dashboard":       dashboard,
		"recent_requests": donationViews(dashboard.RecentRequests),
	})
}

// GetProfile handles GET /ngo/profile
func (h *NGOHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.ngoService.Profile(r.Context())
	if err != nil {
		handleError(w, r, err, "get NGO profile")
		return
	}
	respondJSON(w, http.StatusOK, profile)
}

// UpdateProfile handles PUT /ngo/profile
func (h *NGOHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req repository.UpdateNGOProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err, "update NGO profile")
		return
	}

	profile, err := h.ngoService.UpdateProfile(r.Context(), &req)
	if err != nil {
		handleError(w, r, err, "update NGO profile")
		return
	}
	respondJSON(w, http.StatusOK, profile)
}

// ListLocations handles GET /ngo/locations
func (h *NGOHandler) ListLocations(w http.ResponseWriter, r *http.Request) {
	locations, err := h.ngoService.Locations(r.Context())
	if err != nil {
		handleError(w, r, err, "list locations")
		return
	}
	respondJSON(w, http.StatusOK, locations)
}

// GetLocation handles GET /ngo/locations/{id}
func (h *NGOHandler) GetLocation(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		handleError(w, r, err, "get location")
		return
	}

	location, err := h.ngoService.Location(r.Context(), id)
	if err != nil {
		handleError(w, r, err, "get location")
		return
	}
	respondJSON(w, http.StatusOK, location)
}

// CreateLocation handles POST /ngo/locations
func (h *NGOHandler) CreateLocation(w http.ResponseWriter, r *http.Request) {
	var req repository.LocationRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err, "create location")
		return
	}

	location, err := h.ngoService.CreateLocation(r.Context(), &req)
	if err != nil {
		handleError(w, r, err, "create location")
		return
	}
	respondJSON(w, http.StatusCreated, location)
}

// UpdateLocation handles PUT /ngo/locations/{id}
func (h *NGOHandler) UpdateLocation(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		handleError(w, r, err, "update location")
		return
	}

	var req repository.LocationRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err, "update location")
		return
	}

	location, err := h.ngoService.UpdateLocation(r.Context(), id, &req)
	if err != nil {
		handleError(w, r, err, "update location")
		return
	}
	respondJSON(w, http.StatusOK, location)
}

// DeleteLocation handles DELETE /ngo/locations/{id}
func (h *NGOHandler) DeleteLocation(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		handleError(w, r, err, "delete location")
		return
	}

	if err := h.ngoService.DeleteLocation(r.Context(), id); err != nil {
		handleError(w, r, err, "delete location")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Calendar handles GET /ngo/locations/{id}/calendar?meal_type=&month=YYYY-MM
func (h *NGOHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		handleError(w, r, err, "get calendar")
		return
	}

	meal := models.MealType(r.URL.Query().Get("meal_type"))
	if meal == "" {
		meal = models.MealLunch
	}

	month := time.Now()
	if raw := r.URL.Query().Get("month"); raw != "" {
		month, err = time.Parse("2006-01", raw)
		if err != nil {
			handleError(w, r, fmt.Errorf("%w: month must match YYYY-MM", services.ErrValidation), "get calendar")
			return
		}
	}

	cal, err := h.capacityService.Calendar(r.Context(), id, meal, month.Year(), month.Month())
	if err != nil {
		handleError(w, r, err, "get calendar")
		return
	}
	respondJSON(w, http.StatusOK, cal)
}

// SelectDay handles GET /ngo/locations/{id}/calendar/select?month=YYYY-MM&date=
func (h *NGOHandler) SelectDay(w http.ResponseWriter, r *http.Request) {
	month, err := time.Parse("2006-01", r.URL.Query().Get("month"))
	if err != nil {
		handleError(w, r, fmt.Errorf("%w: month must match YYYY-MM", services.ErrValidation), "select day")
		return
	}

	day, ok := h.capacityService.Day(month.Year(), month.Month(), r.URL.Query().Get("date"))
	if !ok {
		handleError(w, r, fmt.Errorf("%w: date is not in the calendar", services.ErrValidation), "select day")
		return
	}

	open, err := h.capacityService.Select(day)
	if err != nil {
		handleError(w, r, err, "select day")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"date": day.DateString,
		"open": open,
	})
}

// GetCapacity handles GET /ngo/locations/{id}/capacity?date=&meal_type=
func (h *NGOHandler) GetCapacity(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		handleError(w, r, err, "get capacity")
		return
	}

	date := r.URL.Query().Get("date")
	meal := models.MealType(r.URL.Query().Get("meal_type"))
	capacity, err := h.capacityService.Get(r.Context(), id, date, meal)
	if err != nil {
		handleError(w, r, err, "get capacity")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"capacity": capacity,
		"status":   services.CapacityStatus(capacity),
	})
}

// DayCapacity handles GET /ngo/locations/{id}/capacity/day?date=
func (h *NGOHandler) DayCapacity(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		handleError(w, r, err, "get day capacity")
		return
	}

	caps, err := h.capacityService.DayCapacities(r.Context(), id, r.URL.Query().Get("date"))
	if err != nil {
		handleError(w, r, err, "get day capacity")
		return
	}
	respondJSON(w, http.StatusOK, caps)
}

// SetCapacity handles POST /ngo/locations/{id}/capacity
func (h *NGOHandler) SetCapacity(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		handleError(w, r, err, "set capacity")
		return
	}

	var form services.SetCapacityForm
	if err := decodeJSON(r, &form); err != nil {
		handleError(w, r, err, "set capacity")
		return
	}
	form.LocationID = id

	capacity, err := h.capacityService.Set(r.Context(), &form)
	if err != nil {
		handleError(w, r, err, "set capacity")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"capacity": capacity,
		"status":   services.CapacityStatus(capacity),
	})
}

// ClearCapacity handles DELETE /ngo/locations/{id}/capacity?date=&meal_type=
func (h *NGOHandler) ClearCapacity(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		handleError(w, r, err, "clear capacity")
		return
	}

	date := r.URL.Query().Get("date")
	meal := models.MealType(r.URL.Query().Get("meal_type"))
	if err := h.capacityService.Clear(r.Context(), id, date, meal); err != nil {
		handleError(w, r, err, "clear capacity")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListManualCapacity handles GET /ngo/locations/{id}/capacity/manual
func (h *NGOHandler) ListManualCapacity(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		handleError(w, r, err, "list manual capacity")
		return
	}

	caps, err := h.capacityService.ListManual(r.Context(), id)
	if err != nil {
		handleError(w, r, err, "list manual capacity")
		return
	}
	respondJSON(w, http.StatusOK, caps)
}

// ListRequests handles GET /ngo/requests
func (h *NGOHandler) ListRequests(w http.ResponseWriter, r *http.Request) {
	f, err := donationFilter(r)
	if err != nil {
		handleError(w, r, err, "list requests")
		return
	}

	donations, err := h.ngoService.Requests(r.Context(), f)
	if err != nil {
		handleError(w, r, err, "list requests")
		return
	}
	respondJSON(w, http.StatusOK, donationViews(donations))
}

// GetRequest handles GET /ngo/requests/{id}
func (h *NGOHandler) GetRequest(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		handleError(w, r, err, "get request")
		return
	}

	donation, err := h.ngoService.Request(r.Context(), id)
	if err != nil {
		handleError(w, r, err, "get request")
		return
	}
	respondJSON(w, http.StatusOK, donationView(donation))
}

// ConfirmRequest handles POST /ngo/requests/{id}/confirm
func (h *NGOHandler) ConfirmRequest(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		handleError(w, r, err, "confirm request")
		return
	}

	donation, err := h.ngoService.Confirm(r.Context(), id)
	if err != nil {
		handleError(w, r, err, "confirm request")
		return
	}
	respondJSON(w, http.StatusOK, donationView(donation))
}

// RejectBody is the body of a rejection
type RejectBody struct {
	Reason string `json:"reason"`
}

// RejectRequest handles POST /ngo/requests/{id}/reject
func (h *NGOHandler) RejectRequest(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		handleError(w, r, err, "reject request")
		return
	}

	var req RejectBody
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err, "reject request")
		return
	}

	donation, err := h.ngoService.Reject(r.Context(), id, req.Reason)
	if err != nil {
		handleError(w, r, err, "reject request")
		return
	}
	respondJSON(w, http.StatusOK, donationView(donation))
}

// CompleteRequest handles POST /ngo/requests/{id}/complete
func (h *NGOHandler) CompleteRequest(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		handleError(w, r, err, "complete request")
		return
	}

	donation, err := h.ngoService.Complete(r.Context(), id)
	if err != nil {
		handleError(w, r, err, "complete request")
		return
	}
	respondJSON(w, http.StatusOK, donationView(donation))
}

// Ratings handles GET /ngo/ratings
func (h *NGOHandler) Ratings(w http.ResponseWriter, r *http.Request) {
	summary, err := h.ngoService.Ratings(r.Context())
	if err != nil {
		handleError(w, r, err, "get ratings")
		return
	}
	respondJSON(w, http.StatusOK, summary)
}
