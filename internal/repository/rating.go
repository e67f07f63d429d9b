package repository

import (
	"context"
	"fmt"

	"plates-console/internal/apiclient"
	"plates-console/internal/models"
)

// RatingRepository handles rating endpoints
type RatingRepository struct {
	api *apiclient.Client
}

// NewRatingRepository creates a new rating repository
func NewRatingRepository(api *apiclient.Client) *RatingRepository {
	return &RatingRepository{api: api}
}

// CreateRatingRequest is the body of a new rating
type CreateRatingRequest struct {
	DonationID int    `json:"donation_id" validate:"required,gt=0"`
	Rating     int    `json:"rating" validate:"required,min=1,max=5"`
	Feedback   string `json:"feedback,omitempty" validate:"max=1000"`
}

// Create rates a completed donation
func (r *RatingRepository) Create(ctx context.Context, req *CreateRatingRequest) (*models.Rating, error) {
	var rating models.Rating
	if err := r.api.Post(ctx, "/ratings/", req, &rating); err != nil {
		return nil, fmt.Errorf("failed to create rating: %w", err)
	}
	return &rating, nil
}

// ListMine retrieves the ratings given by the authenticated donor
func (r *RatingRepository) ListMine(ctx context.Context) ([]*models.Rating, error) {
	var ratings []*models.Rating
	if err := r.api.Get(ctx, "/ratings/my-ratings", nil, &ratings); err != nil {
		return nil, fmt.Errorf("failed to list ratings: %w", err)
	}
	return ratings, nil
}

// GetNGOSummary retrieves the rating summary of an NGO
func (r *RatingRepository) GetNGOSummary(ctx context.Context, ngoID int) (*models.RatingSummary, error) {
	var summary models.RatingSummary
	if err := r.api.Get(ctx, fmt.Sprintf("/ratings/ngo/%d", ngoID), nil, &summary); err != nil {
		return nil, fmt.Errorf("failed to get rating summary: %w", err)
	}
	return &summary, nil
}

// GetNGOAverage retrieves only the average and count of an NGO's ratings
func (r *RatingRepository) GetNGOAverage(ctx context.Context, ngoID int) (*models.RatingSummary, error) {
	var summary models.RatingSummary
	if err := r.api.Get(ctx, fmt.Sprintf("/ratings/ngo/%d/average", ngoID), nil, &summary); err != nil {
		return nil, fmt.Errorf("failed to get average rating: %w", err)
	}
	summary.NGOID = ngoID
	return &summary, nil
}

// GetForDonation retrieves the rating of a donation, nil when unrated
func (r *RatingRepository) GetForDonation(ctx context.Context, donationID int) (*models.Rating, error) {
	var rating *models.Rating
	if err := r.api.Get(ctx, fmt.Sprintf("/ratings/donation/%d", donationID), nil, &rating); err != nil {
		if apiclient.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get donation rating: %w", err)
	}
	return rating, nil
}

// Delete removes a rating
func (r *RatingRepository) Delete(ctx context.Context, id int) error {
	if err := r.api.Delete(ctx, fmt.Sprintf("/ratings/%d", id), nil); err != nil {
		return fmt.Errorf("failed to delete rating: %w", err)
	}
	return nil
}
