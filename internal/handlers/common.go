package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"plates-console/internal/apiclient"
	"plates-console/internal/middleware"
	"plates-console/internal/models"
	"plates-console/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse represents a plain acknowledgement
type MessageResponse struct {
	Message string `json:"message"`
}

// respondError sends an error response
func respondError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(v)
}

// handleError logs err and answers with the toast text for it. An expired
// session sends the user back to the login screen.
func handleError(w http.ResponseWriter, r *http.Request, err error, action string) {
	switch {
	case errors.Is(err, apiclient.ErrSessionExpired):
		log.Warn().Err(err).Str("action", action).Msg("Session expired")
		http.Redirect(w, r, middleware.LoginPath, http.StatusSeeOther)
		return
	case errors.Is(err, services.ErrValidation):
		msg := strings.TrimPrefix(err.Error(), services.ErrValidation.Error()+": ")
		respondError(w, msg, http.StatusBadRequest)
		return
	case errors.Is(err, services.ErrPastDate), errors.Is(err, services.ErrNotCompleted):
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	status := apiclient.StatusOf(err)
	if status == 0 {
		status = http.StatusBadGateway
	}
	if status >= 500 {
		log.Error().Err(err).Str("action", action).Msg("Request failed")
	} else {
		log.Warn().Err(err).Str("action", action).Int("status", status).Msg("Request rejected")
	}
	respondError(w, apiclient.Message(err), status)
}

// decodeJSON reads the request body into v
func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: invalid request body", services.ErrValidation)
	}
	return nil
}

// intParam reads a positive integer URL parameter
func intParam(r *http.Request, name string) (int, error) {
	v, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("%w: invalid %s", services.ErrValidation, name)
	}
	return v, nil
}

// intQuery reads an optional integer query parameter
func intQuery(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid %s", services.ErrValidation, name)
	}
	return v, nil
}

// donationFilter reads the status and q query parameters
func donationFilter(r *http.Request) (services.DonationFilter, error) {
	f := services.DonationFilter{
		Status: models.DonationStatus(r.URL.Query().Get("status")),
		Query:  r.URL.Query().Get("q"),
	}
	if f.Status != "" && !f.Status.Valid() {
		return f, fmt.Errorf("%w: invalid status", services.ErrValidation)
	}
	return f, nil
}
