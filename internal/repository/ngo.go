package repository

import (
	"context"
	"fmt"
	"net/url"

	"plates-console/internal/apiclient"
	"plates-console/internal/models"
)

// NGORepository handles NGO profile, dashboard and location endpoints
type NGORepository struct {
	api *apiclient.Client
}

// NewNGORepository creates a new NGO repository
func NewNGORepository(api *apiclient.Client) *NGORepository {
	return &NGORepository{api: api}
}

// UpdateNGOProfileRequest is the body of a profile update
type UpdateNGOProfileRequest struct {
	OrganizationName *string `json:"organization_name,omitempty" validate:"omitempty,max=255"`
	ContactPerson    *string `json:"contact_person,omitempty" validate:"omitempty,max=255"`
	Phone            *string `json:"phone,omitempty" validate:"omitempty,max=20"`
	Description      *string `json:"description,omitempty"`
}

// GetProfile retrieves the authenticated NGO's profile
func (r *NGORepository) GetProfile(ctx context.Context) (*models.NGOProfile, error) {
	var profile models.NGOProfile
	if err := r.api.Get(ctx, "/ngos/profile", nil, &profile); err != nil {
		return nil, fmt.Errorf("failed to get NGO profile: %w", err)
	}
	return &profile, nil
}

// UpdateProfile updates the authenticated NGO's profile
func (r *NGORepository) UpdateProfile(ctx context.Context, req *UpdateNGOProfileRequest) (*models.NGOProfile, error) {
	var profile models.NGOProfile
	if err := r.api.Put(ctx, "/ngos/profile", req, &profile); err != nil {
		return nil, fmt.Errorf("failed to update NGO profile: %w", err)
	}
	return &profile, nil
}

// GetDashboard retrieves the NGO dashboard in its canonical shape
func (r *NGORepository) GetDashboard(ctx context.Context) (*models.NGODashboard, error) {
	var w ngoDashboardWire
	if err := r.api.Get(ctx, "/ngos/dashboard", nil, &w); err != nil {
		return nil, fmt.Errorf("failed to get NGO dashboard: %w", err)
	}
	return w.normalize(), nil
}

// GetPublic retrieves the public view of an NGO
func (r *NGORepository) GetPublic(ctx context.Context, ngoID int) (*models.NGOProfile, error) {
	var profile models.NGOProfile
	if err := r.api.Get(ctx, fmt.Sprintf("/ngos/%d", ngoID), nil, &profile); err != nil {
		return nil, fmt.Errorf("failed to get NGO: %w", err)
	}
	return &profile, nil
}

// LocationRequest is the body of a location create or update
type LocationRequest struct {
	LocationName             string  `json:"location_name" validate:"required,max=255"`
	AddressLine1             string  `json:"address_line1" validate:"required,max=255"`
	AddressLine2             *string `json:"address_line2,omitempty" validate:"omitempty,max=255"`
	City                     string  `json:"city" validate:"required,max=100"`
	State                    string  `json:"state" validate:"required,max=100"`
	Country                  string  `json:"country" validate:"required,max=100"`
	ZipCode                  string  `json:"zip_code" validate:"required,max=20"`
	Latitude                 float64 `json:"latitude" validate:"latitude"`
	Longitude                float64 `json:"longitude" validate:"longitude"`
	ContactPerson            *string `json:"contact_person,omitempty" validate:"omitempty,max=255"`
	ContactPhone             *string `json:"contact_phone,omitempty" validate:"omitempty,max=20"`
	OperatingHours           *string `json:"operating_hours,omitempty" validate:"omitempty,max=255"`
	IsActive                 *bool   `json:"is_active,omitempty"`
	DefaultBreakfastCapacity *int    `json:"default_breakfast_capacity,omitempty" validate:"omitempty,gte=0"`
	DefaultLunchCapacity     *int    `json:"default_lunch_capacity,omitempty" validate:"omitempty,gte=0"`
	DefaultSnacksCapacity    *int    `json:"default_snacks_capacity,omitempty" validate:"omitempty,gte=0"`
	DefaultDinnerCapacity    *int    `json:"default_dinner_capacity,omitempty" validate:"omitempty,gte=0"`
}

// ListLocations retrieves the NGO's locations
func (r *NGORepository) ListLocations(ctx context.Context) ([]*models.NGOLocation, error) {
	var locations []*models.NGOLocation
	if err := r.api.Get(ctx, "/ngos/locations", nil, &locations); err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}
	return locations, nil
}

// GetLocation retrieves one location by ID
func (r *NGORepository) GetLocation(ctx context.Context, id int) (*models.NGOLocation, error) {
	var location models.NGOLocation
	if err := r.api.Get(ctx, fmt.Sprintf("/ngos/locations/%d", id), nil, &location); err != nil {
		return nil, fmt.Errorf("failed to get location: %w", err)
	}
	return &location, nil
}

// CreateLocation adds a location
func (r *NGORepository) CreateLocation(ctx context.Context, req *LocationRequest) (*models.NGOLocation, error) {
	var location models.NGOLocation
	if err := r.api.Post(ctx, "/ngos/locations", req, &location); err != nil {
		return nil, fmt.Errorf("failed to create location: %w", err)
	}
	return &location, nil
}

// UpdateLocation updates a location
func (r *NGORepository) UpdateLocation(ctx context.Context, id int, req *LocationRequest) (*models.NGOLocation, error) {
	var location models.NGOLocation
	if err := r.api.Put(ctx, fmt.Sprintf("/ngos/locations/%d", id), req, &location); err != nil {
		return nil, fmt.Errorf("failed to update location: %w", err)
	}
	return &location, nil
}

// DeleteLocation removes a location
func (r *NGORepository) DeleteLocation(ctx context.Context, id int) error {
	if err := r.api.Delete(ctx, fmt.Sprintf("/ngos/locations/%d", id), nil); err != nil {
		return fmt.Errorf("failed to delete location: %w", err)
	}
	return nil
}

// ListVerified retrieves every verified NGO
func (r *NGORepository) ListVerified(ctx context.Context) ([]*models.NGOProfile, error) {
	var ngos []*models.NGOProfile
	if err := r.api.Get(ctx, "/ngos/verified", url.Values{}, &ngos); err != nil {
		return nil, fmt.Errorf("failed to list verified NGOs: %w", err)
	}
	return ngos, nil
}
