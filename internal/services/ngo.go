package services

import (
	"context"
	"fmt"
	"strings"

	"plates-console/internal/models"
	"plates-console/internal/repository"

	"github.com/rs/zerolog/log"
)

// NGOService backs the NGO screens
type NGOService struct {
	ngos      *repository.NGORepository
	donations *repository.DonationRepository
	ratings   *repository.RatingRepository
	validator *Validator
}

// NewNGOService creates a new NGO service
func NewNGOService(
	ngos *repository.NGORepository,
	donations *repository.DonationRepository,
	ratings *repository.RatingRepository,
	v *Validator,
) *NGOService {
	return &NGOService{
		ngos:      ngos,
		donations: donations,
		ratings:   ratings,
		validator: v,
	}
}

// Dashboard returns the NGO's counters
func (s *NGOService) Dashboard(ctx context.Context) (*models.NGODashboard, error) {
	return s.ngos.GetDashboard(ctx)
}

// Profile returns the NGO's profile
func (s *NGOService) Profile(ctx context.Context) (*models.NGOProfile, error) {
	return s.ngos.GetProfile(ctx)
}

// UpdateProfile validates and saves profile changes
func (s *NGOService) UpdateProfile(ctx context.Context, req *repository.UpdateNGOProfileRequest) (*models.NGOProfile, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}
	return s.ngos.UpdateProfile(ctx, req)
}

// Locations lists the NGO's locations
func (s *NGOService) Locations(ctx context.Context) ([]*models.NGOLocation, error) {
	return s.ngos.ListLocations(ctx)
}

// Location returns one location
func (s *NGOService) Location(ctx context.Context, id int) (*models.NGOLocation, error) {
	return s.ngos.GetLocation(ctx, id)
}

// CreateLocation validates and adds a location
func (s *NGOService) CreateLocation(ctx context.Context, req *repository.LocationRequest) (*models.NGOLocation, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}
	loc, err := s.ngos.CreateLocation(ctx, req)
	if err != nil {
		return nil, err
	}
	log.Info().Int("location_id", loc.ID).Str("name", loc.LocationName).Msg("Location created")
	return loc, nil
}

// UpdateLocation validates and saves a location
func (s *NGOService) UpdateLocation(ctx context.Context, id int, req *repository.LocationRequest) (*models.NGOLocation, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}
	return s.ngos.UpdateLocation(ctx, id, req)
}

// DeleteLocation removes a location
func (s *NGOService) DeleteLocation(ctx context.Context, id int) error {
	if err := s.ngos.DeleteLocation(ctx, id); err != nil {
		return err
	}
	log.Info().Int("location_id", id).Msg("Location deleted")
	return nil
}

// Requests returns the donation requests passing the filter
func (s *NGOService) Requests(ctx context.Context, f DonationFilter) ([]*models.Donation, error) {
	donations, err := s.donations.ListNGORequests(ctx, f.Status)
	if err != nil {
		return nil, err
	}
	return FilterDonations(donations, f), nil
}

// Request returns one donation request
func (s *NGOService) Request(ctx context.Context, id int) (*models.Donation, error) {
	return s.donations.GetByID(ctx, id)
}

// Confirm accepts a request and returns its new state
func (s *NGOService) Confirm(ctx context.Context, id int) (*models.Donation, error) {
	if _, err := s.donations.Confirm(ctx, id); err != nil {
		return nil, err
	}
	return s.donations.GetByID(ctx, id)
}

// Reject declines a request. A reason is required.
func (s *NGOService) Reject(ctx context.Context, id int, reason string) (*models.Donation, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, fmt.Errorf("%w: a rejection reason is required", ErrValidation)
	}
	if _, err := s.donations.Reject(ctx, id, reason); err != nil {
		return nil, err
	}
	return s.donations.GetByID(ctx, id)
}

// Complete marks a confirmed request as delivered
func (s *NGOService) Complete(ctx context.Context, id int) (*models.Donation, error) {
	if _, err := s.donations.Complete(ctx, id); err != nil {
		return nil, err
	}
	return s.donations.GetByID(ctx, id)
}

// Ratings returns the rating summary of the logged in NGO
func (s *NGOService) Ratings(ctx context.Context) (*models.RatingSummary, error) {
	profile, err := s.ngos.GetProfile(ctx)
	if err != nil {
		return nil, err
	}
	return s.ratings.GetNGOSummary(ctx, profile.ID)
}
