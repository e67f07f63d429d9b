package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"plates-console/internal/apiclient"
	"plates-console/internal/models"
)

// CapacityRepository handles per-date, per-meal capacity of NGO locations
type CapacityRepository struct {
	api *apiclient.Client
}

// NewCapacityRepository creates a new capacity repository
func NewCapacityRepository(api *apiclient.Client) *CapacityRepository {
	return &CapacityRepository{api: api}
}

// SetCapacityRequest is the body of a manual capacity override
type SetCapacityRequest struct {
	LocationID int             `json:"location_id"`
	Date       string          `json:"date" validate:"required,datetime=2006-01-02"`
	MealType   models.MealType `json:"meal_type" validate:"required,mealtype"`
	Capacity   int             `json:"capacity" validate:"gt=0"`
	Notes      string          `json:"notes,omitempty" validate:"max=500"`
}

func capacityPath(locationID int) string {
	return fmt.Sprintf("/ngos/locations/%d/capacity", locationID)
}

// Get retrieves the capacity of one date and meal type
func (r *CapacityRepository) Get(ctx context.Context, locationID int, date string, meal models.MealType) (*models.Capacity, error) {
	caps, err := r.get(ctx, locationID, date, meal)
	if err != nil {
		return nil, err
	}
	for _, c := range caps {
		if c.MealType == "" || c.MealType == meal {
			if c.LocationID == 0 {
				c.LocationID = locationID
			}
			if c.Date == "" {
				c.Date = date
			}
			c.MealType = meal
			return c, nil
		}
	}
	return nil, fmt.Errorf("failed to get capacity: %w", &apiclient.APIError{Status: 404, Detail: "capacity not set"})
}

// GetDay retrieves the capacity of every meal type on a date
func (r *CapacityRepository) GetDay(ctx context.Context, locationID int, date string) ([]*models.Capacity, error) {
	return r.get(ctx, locationID, date, "")
}

func (r *CapacityRepository) get(ctx context.Context, locationID int, date string, meal models.MealType) ([]*models.Capacity, error) {
	query := url.Values{"target_date": {date}}
	if meal != "" {
		query.Set("meal_type", string(meal))
	}

	var raw json.RawMessage
	if err := r.api.Get(ctx, capacityPath(locationID), query, &raw); err != nil {
		return nil, fmt.Errorf("failed to get capacity: %w", err)
	}
	return decodeCapacities(raw)
}

// Set stores a manual capacity override
func (r *CapacityRepository) Set(ctx context.Context, req *SetCapacityRequest) (*models.Capacity, error) {
	var raw json.RawMessage
	if err := r.api.Post(ctx, capacityPath(req.LocationID), req, &raw); err != nil {
		return nil, fmt.Errorf("failed to set capacity: %w", err)
	}
	caps, err := decodeCapacities(raw)
	if err != nil {
		return nil, err
	}
	if len(caps) == 0 {
		return &models.Capacity{
			LocationID:        req.LocationID,
			Date:              req.Date,
			MealType:          req.MealType,
			MaxCapacity:       req.Capacity,
			AvailableCapacity: req.Capacity,
			IsManual:          true,
			Notes:             req.Notes,
		}, nil
	}
	return caps[0], nil
}

// Clear removes a manual override so the location default applies again
func (r *CapacityRepository) Clear(ctx context.Context, locationID int, date string, meal models.MealType) error {
	query := url.Values{
		"target_date": {date},
		"meal_type":   {string(meal)},
	}
	if err := r.api.Delete(ctx, capacityPath(locationID), query); err != nil {
		return fmt.Errorf("failed to clear capacity: %w", err)
	}
	return nil
}

// ListManual retrieves every manual override of a location
func (r *CapacityRepository) ListManual(ctx context.Context, locationID int) ([]*models.Capacity, error) {
	var raw json.RawMessage
	if err := r.api.Get(ctx, capacityPath(locationID)+"/manual", nil, &raw); err != nil {
		return nil, fmt.Errorf("failed to list manual capacities: %w", err)
	}
	caps, err := decodeCapacities(raw)
	if err != nil {
		return nil, err
	}
	for _, c := range caps {
		c.IsManual = true
		if c.LocationID == 0 {
			c.LocationID = locationID
		}
	}
	return caps, nil
}
