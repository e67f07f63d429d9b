package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"plates-console/internal/models"
	"plates-console/internal/repository"

	"github.com/rs/zerolog/log"
)

// ErrNotCompleted is returned when a donation that is not completed would
// be rated
var ErrNotCompleted = errors.New("only completed donations can be rated")

// NGODetails is the donor's view of one NGO
type NGODetails struct {
	Profile *models.NGOProfile    `json:"profile"`
	Ratings *models.RatingSummary `json:"ratings,omitempty"`
}

// DonorService backs the donor screens
type DonorService struct {
	donors    *repository.DonorRepository
	donations *repository.DonationRepository
	ngos      *repository.NGORepository
	ratings   *repository.RatingRepository
	validator *Validator
	now       func() time.Time
}

// NewDonorService creates a new donor service
func NewDonorService(
	donors *repository.DonorRepository,
	donations *repository.DonationRepository,
	ngos *repository.NGORepository,
	ratings *repository.RatingRepository,
	v *Validator,
) *DonorService {
	return &DonorService{
		donors:    donors,
		donations: donations,
		ngos:      ngos,
		ratings:   ratings,
		validator: v,
		now:       time.Now,
	}
}

// Dashboard returns the donor's counters
func (s *DonorService) Dashboard(ctx context.Context) (*models.DonorDashboard, error) {
	return s.donors.GetDashboard(ctx)
}

// Profile returns the donor's profile
func (s *DonorService) Profile(ctx context.Context) (*models.DonorProfile, error) {
	return s.donors.GetProfile(ctx)
}

// UpdateProfile validates and saves profile changes
func (s *DonorService) UpdateProfile(ctx context.Context, req *repository.UpdateDonorProfileRequest) (*models.DonorProfile, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}
	return s.donors.UpdateProfile(ctx, req)
}

// NGODetails returns an NGO's public profile with its rating summary. A
// missing summary is not an error.
func (s *DonorService) NGODetails(ctx context.Context, ngoID int) (*NGODetails, error) {
	profile, err := s.ngos.GetPublic(ctx, ngoID)
	if err != nil {
		return nil, err
	}

	details := &NGODetails{Profile: profile}
	summary, err := s.ratings.GetNGOSummary(ctx, ngoID)
	if err != nil {
		log.Warn().Err(err).Int("ngo_id", ngoID).Msg("Failed to load rating summary")
		// the average endpoint is cheaper and often still answers
		if summary, err = s.ratings.GetNGOAverage(ctx, ngoID); err != nil {
			log.Warn().Err(err).Int("ngo_id", ngoID).Msg("Failed to load average rating")
			return details, nil
		}
	}
	details.Ratings = summary
	return details, nil
}

// VerifiedNGOs lists the NGOs a donor may donate to
func (s *DonorService) VerifiedNGOs(ctx context.Context) ([]*models.NGOProfile, error) {
	return s.ngos.ListVerified(ctx)
}

// CreateDonation validates and submits a donation request
func (s *DonorService) CreateDonation(ctx context.Context, req *models.CreateDonationRequest) (*models.Donation, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}
	if req.DonationDate < s.now().Format(dateLayout) {
		return nil, fmt.Errorf("%w: donation date is in the past", ErrValidation)
	}
	if req.PickupTimeEnd <= req.PickupTimeStart {
		return nil, fmt.Errorf("%w: pickup end must be after pickup start", ErrValidation)
	}

	donation, err := s.donations.Create(ctx, req)
	if err != nil {
		return nil, err
	}

	log.Info().
		Int("donation_id", donation.ID).
		Int("location_id", req.NGOLocationID).
		Int("quantity", req.QuantityPlates).
		Msg("Donation created")
	return donation, nil
}

// History returns the donor's donations passing the filter
func (s *DonorService) History(ctx context.Context, f DonationFilter) ([]*models.Donation, error) {
	donations, err := s.donations.ListMine(ctx, f.Status)
	if err != nil {
		return nil, err
	}
	return FilterDonations(donations, f), nil
}

// Donation returns one donation
func (s *DonorService) Donation(ctx context.Context, id int) (*models.Donation, error) {
	return s.donations.GetByID(ctx, id)
}

// Cancel withdraws a donation and returns its new state
func (s *DonorService) Cancel(ctx context.Context, id int) (*models.Donation, error) {
	if _, err := s.donations.Cancel(ctx, id); err != nil {
		return nil, err
	}
	return s.donations.GetByID(ctx, id)
}

// RateForm is the rating form of a completed donation
type RateForm struct {
	DonationID int    `json:"donation_id" validate:"required,gt=0"`
	Rating     int    `json:"rating" validate:"required,min=1,max=5"`
	Feedback   string `json:"feedback,omitempty" validate:"max=1000"`
}

// Rate submits a rating. The donation is fetched first so that a rating is
// never sent for a donation that is not completed.
func (s *DonorService) Rate(ctx context.Context, form *RateForm) (*models.Rating, error) {
	if err := s.validator.Struct(form); err != nil {
		return nil, err
	}

	donation, err := s.donations.GetByID(ctx, form.DonationID)
	if err != nil {
		return nil, err
	}
	if !donation.CanRate() {
		return nil, ErrNotCompleted
	}

	return s.ratings.Create(ctx, &repository.CreateRatingRequest{
		DonationID: form.DonationID,
		Rating:     form.Rating,
		Feedback:   form.Feedback,
	})
}

// Ratings returns the ratings the donor has given
func (s *DonorService) Ratings(ctx context.Context) ([]*models.Rating, error) {
	return s.ratings.ListMine(ctx)
}

// DonationRating returns the rating of a donation, nil when not rated yet
func (s *DonorService) DonationRating(ctx context.Context, donationID int) (*models.Rating, error) {
	return s.ratings.GetForDonation(ctx, donationID)
}

// DeleteRating withdraws a rating the donor has given
func (s *DonorService) DeleteRating(ctx context.Context, id int) error {
	if err := s.ratings.Delete(ctx, id); err != nil {
		return err
	}
	log.Info().Int("rating_id", id).Msg("Rating deleted")
	return nil
}
