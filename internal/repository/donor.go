package repository

import (
	"context"
	"fmt"

	"plates-console/internal/apiclient"
	"plates-console/internal/models"
)

// DonorRepository handles donor profile and dashboard endpoints
type DonorRepository struct {
	api *apiclient.Client
}

// NewDonorRepository creates a new donor repository
func NewDonorRepository(api *apiclient.Client) *DonorRepository {
	return &DonorRepository{api: api}
}

// UpdateDonorProfileRequest is the body of a donor profile update
type UpdateDonorProfileRequest struct {
	OrganizationName *string  `json:"organization_name,omitempty" validate:"omitempty,max=255"`
	ContactPerson    *string  `json:"contact_person,omitempty" validate:"omitempty,max=255"`
	Phone            *string  `json:"phone,omitempty" validate:"omitempty,max=20"`
	Address          *string  `json:"address,omitempty"`
	City             *string  `json:"city,omitempty" validate:"omitempty,max=100"`
	State            *string  `json:"state,omitempty" validate:"omitempty,max=100"`
	PostalCode       *string  `json:"postal_code,omitempty" validate:"omitempty,max=20"`
	Latitude         *float64 `json:"latitude,omitempty" validate:"omitempty,latitude"`
	Longitude        *float64 `json:"longitude,omitempty" validate:"omitempty,longitude"`
}

// GetProfile retrieves the authenticated donor's profile
func (r *DonorRepository) GetProfile(ctx context.Context) (*models.DonorProfile, error) {
	var profile models.DonorProfile
	if err := r.api.Get(ctx, "/donors/profile", nil, &profile); err != nil {
		return nil, fmt.Errorf("failed to get donor profile: %w", err)
	}
	return &profile, nil
}

// UpdateProfile updates the authenticated donor's profile
func (r *DonorRepository) UpdateProfile(ctx context.Context, req *UpdateDonorProfileRequest) (*models.DonorProfile, error) {
	var profile models.DonorProfile
	if err := r.api.Put(ctx, "/donors/profile", req, &profile); err != nil {
		return nil, fmt.Errorf("failed to update donor profile: %w", err)
	}
	return &profile, nil
}

// GetDashboard retrieves the donor dashboard
func (r *DonorRepository) GetDashboard(ctx context.Context) (*models.DonorDashboard, error) {
	var dashboard models.DonorDashboard
	if err := r.api.Get(ctx, "/donors/dashboard", nil, &dashboard); err != nil {
		return nil, fmt.Errorf("failed to get donor dashboard: %w", err)
	}
	return &dashboard, nil
}
