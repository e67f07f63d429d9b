package handlers

import (
	"net/http"

	"plates-console/internal/models"
	"plates-console/internal/services"
)

// AdminHandler handles the administrator screens
type AdminHandler struct {
	adminService *services.AdminService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(adminService *services.AdminService) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
	}
}

// Dashboard handles GET /admin/dashboard
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.adminService.Dashboard(r.Context())
	if err != nil {
		handleError(w, r, err, "get admin dashboard")
		return
	}
	respondJSON(w, http.StatusOK, dashboard)
}

// PendingNGOs handles GET /admin/ngos/pending
func (h *AdminHandler) PendingNGOs(w http.ResponseWriter, r *http.Request) {
	ngos, err := h.adminService.PendingNGOs(r.Context())
	if err != nil {
		handleError(w, r, err, "list pending NGOs")
		return
	}
	respondJSON(w, http.StatusOK, ngos)
}

// ListNGOs handles GET /admin/ngos?status=
func (h *AdminHandler) ListNGOs(w http.ResponseWriter, r *http.Request) {
	status := models.VerificationStatus(r.URL.Query().Get("status"))
	ngos, err := h.adminService.NGOs(r.Context(), status)
	if err != nil {
		handleError(w, r, err, "list NGOs")
		return
	}
	respondJSON(w, http.StatusOK, ngos)
}

// GetNGO handles GET /admin/ngos/{id}
func (h *AdminHandler) GetNGO(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		handleError(w, r, err, "get NGO")
		return
	}

	ngo, err := h.adminService.NGO(r.Context(), id)
	if err != nil {
		handleError(w, r, err, "get NGO")
		return
	}
	respondJSON(w, http.StatusOK, ngo)
}

// ApproveNGO handles POST /admin/ngos/{id}/verify
func (h *AdminHandler) ApproveNGO(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		handleError(w, r, err, "verify NGO")
		return
	}

	ngo, err := h.adminService.Approve(r.Context(), id)
	if err != nil {
		handleError(w, r, err, "verify NGO")
		return
	}
	respondJSON(w, http.StatusOK, ngo)
}

// RejectNGO handles POST /admin/ngos/{id}/reject
func (h *AdminHandler) RejectNGO(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		handleError(w, r, err, "reject NGO")
		return
	}

	var req RejectBody
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err, "reject NGO")
		return
	}

	ngo, err := h.adminService.Reject(r.Context(), id, req.Reason)
	if err != nil {
		handleError(w, r, err, "reject NGO")
		return
	}
	respondJSON(w, http.StatusOK, ngo)
}

// ListUsers handles GET /admin/users?role=
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	role := models.Role(r.URL.Query().Get("role"))
	users, err := h.adminService.Users(r.Context(), role)
	if err != nil {
		handleError(w, r, err, "list users")
		return
	}

	views := make([]*UserView, 0, len(users))
	for _, u := range users {
		views = append(views, userView(u))
	}
	respondJSON(w, http.StatusOK, views)
}

// ActivateUser handles POST /admin/users/{id}/activate
func (h *AdminHandler) ActivateUser(w http.ResponseWriter, r *http.Request) {
	h.setUserActive(w, r, true)
}

// DeactivateUser handles POST /admin/users/{id}/deactivate
func (h *AdminHandler) DeactivateUser(w http.ResponseWriter, r *http.Request) {
	h.setUserActive(w, r, false)
}

func (h *AdminHandler) setUserActive(w http.ResponseWriter, r *http.Request, active bool) {
	id, err := intParam(r, "id")
	if err != nil {
		handleError(w, r, err, "change user activation")
		return
	}

	if err := h.adminService.SetUserActive(r.Context(), id, active); err != nil {
		handleError(w, r, err, "change user activation")
		return
	}

	msg := "User deactivated"
	if active {
		msg = "User activated"
	}
	respondJSON(w, http.StatusOK, MessageResponse{Message: msg})
}

// ListDonations handles GET /admin/donations?status=&q=
func (h *AdminHandler) ListDonations(w http.ResponseWriter, r *http.Request) {
	f, err := donationFilter(r)
	if err != nil {
		handleError(w, r, err, "list donations")
		return
	}

	donations, err := h.adminService.Donations(r.Context(), f)
	if err != nil {
		handleError(w, r, err, "list donations")
		return
	}
	respondJSON(w, http.StatusOK, donationViews(donations))
}

// Report handles GET /admin/reports?start_date=&end_date=
func (h *AdminHandler) Report(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	report, err := h.adminService.Report(r.Context(), q.Get("start_date"), q.Get("end_date"))
	if err != nil {
		handleError(w, r, err, "get system report")
		return
	}
	respondJSON(w, http.StatusOK, report)
}
