package handlers

import (
	"net/http"

	"plates-console/internal/repository"
	"plates-console/internal/services"

	"github.com/rs/zerolog/log"
)

// UserHandler handles login, registration and account requests
type UserHandler struct {
	authService *services.AuthService
}

// NewUserHandler creates a new user handler
func NewUserHandler(authService *services.AuthService) *UserHandler {
	return &UserHandler{
		authService: authService,
	}
}

// LoginStatus handles GET /login
func (h *UserHandler) LoginStatus(w http.ResponseWriter, r *http.Request) {
	sess := h.authService.Session()
	resp := map[string]any{
		"authenticated": sess.IsAuthenticated(),
		"state":         sess.State().String(),
	}
	if user := sess.User(); user != nil && sess.IsAuthenticated() {
		resp["user"] = userView(user)
		resp["home"] = "/" + string(user.Role) + "/dashboard"
	}
	respondJSON(w, http.StatusOK, resp)
}

// Login handles POST /login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req repository.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err, "login")
		return
	}

	user, err := h.authService.Login(r.Context(), req)
	if err != nil {
		handleError(w, r, err, "login")
		return
	}
	respondJSON(w, http.StatusOK, userView(user))
}

// RegisterDonor handles POST /register/donor
func (h *UserHandler) RegisterDonor(w http.ResponseWriter, r *http.Request) {
	var req services.DonorRegistration
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err, "register donor")
		return
	}

	user, err := h.authService.RegisterDonor(r.Context(), &req)
	if err != nil {
		handleError(w, r, err, "register donor")
		return
	}
	respondJSON(w, http.StatusCreated, userView(user))
}

// RegisterNGO handles POST /register/ngo
func (h *UserHandler) RegisterNGO(w http.ResponseWriter, r *http.Request) {
	var req services.NGORegistration
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err, "register ngo")
		return
	}

	user, err := h.authService.RegisterNGO(r.Context(), &req)
	if err != nil {
		handleError(w, r, err, "register ngo")
		return
	}
	respondJSON(w, http.StatusCreated, userView(user))
}

// Me handles GET /me
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.authService.Me(r.Context())
	if err != nil {
		handleError(w, r, err, "get current user")
		return
	}

	resp := map[string]any{"user": userView(user)}
	if claims, err := h.authService.Session().Claims(); err == nil {
		resp["token_expires_at"] = claims.ExpiresAt
	}
	respondJSON(w, http.StatusOK, resp)
}

// ChangePassword handles PUT /me/password
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req services.ChangePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err, "change password")
		return
	}

	if err := h.authService.ChangePassword(r.Context(), &req); err != nil {
		handleError(w, r, err, "change password")
		return
	}
	respondJSON(w, http.StatusOK, MessageResponse{Message: "Password changed successfully"})
}

// Logout handles POST /logout
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.authService.Logout(r.Context()); err != nil {
		log.Error().Err(err).Msg("Failed to logout")
		respondError(w, "Failed to logout", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
