package repository

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"plates-console/internal/apiclient"
	"plates-console/internal/models"
)

// DonationRepository handles donation request endpoints
type DonationRepository struct {
	api *apiclient.Client
}

// NewDonationRepository creates a new donation repository
func NewDonationRepository(api *apiclient.Client) *DonationRepository {
	return &DonationRepository{api: api}
}

// Create submits a new donation request
func (r *DonationRepository) Create(ctx context.Context, req *models.CreateDonationRequest) (*models.Donation, error) {
	var donation models.Donation
	if err := r.api.Post(ctx, "/donations/requests", req, &donation); err != nil {
		return nil, fmt.Errorf("failed to create donation: %w", err)
	}
	return &donation, nil
}

// GetByID retrieves a donation by ID
func (r *DonationRepository) GetByID(ctx context.Context, id int) (*models.Donation, error) {
	var donation models.Donation
	if err := r.api.Get(ctx, fmt.Sprintf("/donations/requests/%d", id), nil, &donation); err != nil {
		return nil, fmt.Errorf("failed to get donation: %w", err)
	}
	return &donation, nil
}

func statusQuery(status models.DonationStatus) url.Values {
	if status == "" {
		return nil
	}
	return url.Values{"status": {string(status)}}
}

// ListMine retrieves the donations of the authenticated donor, optionally
// only those in status
func (r *DonationRepository) ListMine(ctx context.Context, status models.DonationStatus) ([]*models.Donation, error) {
	var donations []*models.Donation
	if err := r.api.Get(ctx, "/donations/requests/my-donations", statusQuery(status), &donations); err != nil {
		return nil, fmt.Errorf("failed to list donations: %w", err)
	}
	return donations, nil
}

// ListNGORequests retrieves the requests addressed to the authenticated NGO
func (r *DonationRepository) ListNGORequests(ctx context.Context, status models.DonationStatus) ([]*models.Donation, error) {
	var donations []*models.Donation
	if err := r.api.Get(ctx, "/donations/requests/ngo-requests", statusQuery(status), &donations); err != nil {
		return nil, fmt.Errorf("failed to list donation requests: %w", err)
	}
	return donations, nil
}

// ListAll retrieves every donation (admin)
func (r *DonationRepository) ListAll(ctx context.Context) ([]*models.Donation, error) {
	var donations []*models.Donation
	if err := r.api.Get(ctx, "/admin/donations", nil, &donations); err != nil {
		return nil, fmt.Errorf("failed to list all donations: %w", err)
	}
	return donations, nil
}

// Confirm accepts a pending request (NGO)
func (r *DonationRepository) Confirm(ctx context.Context, id int) (*models.Transition, error) {
	return r.transition(ctx, id, "confirm", nil)
}

// Reject declines a pending request with a reason (NGO)
func (r *DonationRepository) Reject(ctx context.Context, id int, reason string) (*models.Transition, error) {
	return r.transition(ctx, id, "reject", url.Values{"rejection_reason": {reason}})
}

// Complete marks a confirmed donation as delivered (NGO)
func (r *DonationRepository) Complete(ctx context.Context, id int) (*models.Transition, error) {
	return r.transition(ctx, id, "complete", nil)
}

// Cancel withdraws a donation (donor)
func (r *DonationRepository) Cancel(ctx context.Context, id int) (*models.Transition, error) {
	return r.transition(ctx, id, "cancel", nil)
}

func (r *DonationRepository) transition(ctx context.Context, id int, action string, query url.Values) (*models.Transition, error) {
	var t models.Transition
	err := r.api.Do(ctx, apiclient.Request{
		Method: http.MethodPost,
		Path:   fmt.Sprintf("/donations/requests/%d/%s", id, action),
		Query:  query,
	}, &t)
	if err != nil {
		return nil, fmt.Errorf("failed to %s donation: %w", action, err)
	}
	if t.DonationID == 0 {
		t.DonationID = id
	}
	return &t, nil
}
