package repository

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"plates-console/internal/apiclient"
	"plates-console/internal/models"
)

// AdminRepository handles administrator endpoints
type AdminRepository struct {
	api *apiclient.Client
}

// NewAdminRepository creates a new admin repository
func NewAdminRepository(api *apiclient.Client) *AdminRepository {
	return &AdminRepository{api: api}
}

// GetDashboard retrieves the system-wide counters
func (r *AdminRepository) GetDashboard(ctx context.Context) (*models.AdminDashboard, error) {
	var w adminDashboardWire
	if err := r.api.Get(ctx, "/admin/dashboard", nil, &w); err != nil {
		return nil, fmt.Errorf("failed to get admin dashboard: %w", err)
	}
	return w.normalize(), nil
}

// ListNGOs retrieves NGOs, optionally filtered by verification status
func (r *AdminRepository) ListNGOs(ctx context.Context, status models.VerificationStatus) ([]*models.NGOProfile, error) {
	var query url.Values
	if status != "" {
		query = url.Values{"status": {string(status)}}
	}
	var ngos []*models.NGOProfile
	if err := r.api.Get(ctx, "/admin/ngos/all", query, &ngos); err != nil {
		return nil, fmt.Errorf("failed to list NGOs: %w", err)
	}
	return ngos, nil
}

// ListPendingNGOs retrieves the NGOs awaiting verification
func (r *AdminRepository) ListPendingNGOs(ctx context.Context) ([]*models.NGOProfile, error) {
	var ngos []*models.NGOProfile
	if err := r.api.Get(ctx, "/admin/ngos/pending", nil, &ngos); err != nil {
		return nil, fmt.Errorf("failed to list pending NGOs: %w", err)
	}
	return ngos, nil
}

// GetNGO retrieves the details of one NGO
func (r *AdminRepository) GetNGO(ctx context.Context, id int) (*models.NGOProfile, error) {
	var ngo models.NGOProfile
	if err := r.api.Get(ctx, fmt.Sprintf("/admin/ngos/%d", id), nil, &ngo); err != nil {
		return nil, fmt.Errorf("failed to get NGO: %w", err)
	}
	return &ngo, nil
}

// VerifyNGO approves an NGO
func (r *AdminRepository) VerifyNGO(ctx context.Context, id int) error {
	err := r.api.Do(ctx, apiclient.Request{
		Method: http.MethodPost,
		Path:   fmt.Sprintf("/admin/ngos/%d/verify", id),
	}, nil)
	if err != nil {
		return fmt.Errorf("failed to verify NGO: %w", err)
	}
	return nil
}

// RejectNGO rejects an NGO with a reason. The reason is sent both as query
// parameter and body field; backend versions differ on which they read.
func (r *AdminRepository) RejectNGO(ctx context.Context, id int, reason string) error {
	err := r.api.Do(ctx, apiclient.Request{
		Method: http.MethodPost,
		Path:   fmt.Sprintf("/admin/ngos/%d/reject", id),
		Query:  url.Values{"rejection_reason": {reason}},
		Body:   map[string]string{"reason": reason},
	}, nil)
	if err != nil {
		return fmt.Errorf("failed to reject NGO: %w", err)
	}
	return nil
}

// ListUsers retrieves user accounts, optionally filtered by role
func (r *AdminRepository) ListUsers(ctx context.Context, role models.Role) ([]*models.User, error) {
	var query url.Values
	if role != "" {
		query = url.Values{"role": {string(role)}}
	}
	var users []*models.User
	if err := r.api.Get(ctx, "/admin/users", query, &users); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// SetUserActive activates or deactivates a user account
func (r *AdminRepository) SetUserActive(ctx context.Context, id int, active bool) error {
	action := "deactivate"
	if active {
		action = "activate"
	}
	err := r.api.Do(ctx, apiclient.Request{
		Method: http.MethodPost,
		Path:   fmt.Sprintf("/admin/users/%d/%s", id, action),
	}, nil)
	if err != nil {
		return fmt.Errorf("failed to %s user: %w", action, err)
	}
	return nil
}

// SystemReport retrieves the report of a date range
func (r *AdminRepository) SystemReport(ctx context.Context, start, end string) (*models.SystemReport, error) {
	var data map[string]any
	query := url.Values{"start_date": {start}, "end_date": {end}}
	if err := r.api.Get(ctx, "/admin/reports/system", query, &data); err != nil {
		return nil, fmt.Errorf("failed to get system report: %w", err)
	}
	return &models.SystemReport{StartDate: start, EndDate: end, Data: data}, nil
}
