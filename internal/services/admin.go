package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"plates-console/internal/models"
	"plates-console/internal/repository"

	"github.com/rs/zerolog/log"
)

// AdminService backs the administrator screens
type AdminService struct {
	admin     *repository.AdminRepository
	donations *repository.DonationRepository
}

// NewAdminService creates a new admin service
func NewAdminService(admin *repository.AdminRepository, donations *repository.DonationRepository) *AdminService {
	return &AdminService{
		admin:     admin,
		donations: donations,
	}
}

// Dashboard returns the system-wide counters
func (s *AdminService) Dashboard(ctx context.Context) (*models.AdminDashboard, error) {
	return s.admin.GetDashboard(ctx)
}

// PendingNGOs lists NGOs awaiting verification
func (s *AdminService) PendingNGOs(ctx context.Context) ([]*models.NGOProfile, error) {
	return s.admin.ListPendingNGOs(ctx)
}

// NGOs lists all NGOs, optionally only those in status
func (s *AdminService) NGOs(ctx context.Context, status models.VerificationStatus) ([]*models.NGOProfile, error) {
	return s.admin.ListNGOs(ctx, status)
}

// NGO returns one NGO
func (s *AdminService) NGO(ctx context.Context, id int) (*models.NGOProfile, error) {
	return s.admin.GetNGO(ctx, id)
}

// Approve verifies an NGO and returns its new state
func (s *AdminService) Approve(ctx context.Context, id int) (*models.NGOProfile, error) {
	if err := s.admin.VerifyNGO(ctx, id); err != nil {
		return nil, err
	}
	log.Info().Int("ngo_id", id).Msg("NGO verified")
	return s.admin.GetNGO(ctx, id)
}

// Reject rejects an NGO. A reason is required.
func (s *AdminService) Reject(ctx context.Context, id int, reason string) (*models.NGOProfile, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, fmt.Errorf("%w: a rejection reason is required", ErrValidation)
	}
	if err := s.admin.RejectNGO(ctx, id, reason); err != nil {
		return nil, err
	}
	log.Info().Int("ngo_id", id).Msg("NGO rejected")
	return s.admin.GetNGO(ctx, id)
}

// Users lists accounts, optionally only those with role
func (s *AdminService) Users(ctx context.Context, role models.Role) ([]*models.User, error) {
	if role != "" && !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, role)
	}
	return s.admin.ListUsers(ctx, role)
}

// SetUserActive activates or deactivates an account
func (s *AdminService) SetUserActive(ctx context.Context, id int, active bool) error {
	if err := s.admin.SetUserActive(ctx, id, active); err != nil {
		return err
	}
	log.Info().Int("user_id", id).Bool("active", active).Msg("User activation changed")
	return nil
}

// Donations lists every donation passing the filter
func (s *AdminService) Donations(ctx context.Context, f DonationFilter) ([]*models.Donation, error) {
	donations, err := s.donations.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return FilterDonations(donations, f), nil
}

// Report returns the system report of a date range
func (s *AdminService) Report(ctx context.Context, start, end string) (*models.SystemReport, error) {
	startDate, err := time.Parse(dateLayout, start)
	if err != nil {
		return nil, fmt.Errorf("%w: start date must match %s", ErrValidation, dateLayout)
	}
	endDate, err := time.Parse(dateLayout, end)
	if err != nil {
		return nil, fmt.Errorf("%w: end date must match %s", ErrValidation, dateLayout)
	}
	if endDate.Before(startDate) {
		return nil, fmt.Errorf("%w: start date must not be after end date", ErrValidation)
	}
	return s.admin.SystemReport(ctx, start, end)
}
