package repository

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"plates-console/internal/apiclient"
	"plates-console/internal/models"
)

// SearchRepository handles proximity search of verified NGO locations
type SearchRepository struct {
	api *apiclient.Client
}

// NewSearchRepository creates a new search repository
func NewSearchRepository(api *apiclient.Client) *SearchRepository {
	return &SearchRepository{api: api}
}

// SearchParams are the query parameters of a proximity search
type SearchParams struct {
	Latitude     float64
	Longitude    float64
	RadiusKM     float64
	DonationDate string
	MealType     models.MealType
	MinCapacity  int
}

func (p *SearchParams) query() url.Values {
	q := url.Values{
		"latitude":  {strconv.FormatFloat(p.Latitude, 'f', -1, 64)},
		"longitude": {strconv.FormatFloat(p.Longitude, 'f', -1, 64)},
	}
	if p.RadiusKM > 0 {
		q.Set("radius", strconv.FormatFloat(p.RadiusKM, 'f', -1, 64))
	}
	if p.DonationDate != "" {
		q.Set("donation_date", p.DonationDate)
	}
	if p.MealType != "" {
		q.Set("meal_type", string(p.MealType))
	}
	if p.MinCapacity > 0 {
		q.Set("min_capacity", strconv.Itoa(p.MinCapacity))
	}
	return q
}

// SearchNGOs returns the locations within the radius, nearest first
func (r *SearchRepository) SearchNGOs(ctx context.Context, params *SearchParams) ([]*models.NGOSearchResult, error) {
	var resp searchResponseWire
	if err := r.api.Get(ctx, "/search/ngos", params.query(), &resp); err != nil {
		return nil, fmt.Errorf("failed to search NGOs: %w", err)
	}

	results := make([]*models.NGOSearchResult, 0, len(resp.NGOs))
	for i := range resp.NGOs {
		results = append(results, resp.NGOs[i].normalize())
	}
	return results, nil
}

// Availability returns the capacity of every meal type for each date of the
// range, keyed by date string
func (r *SearchRepository) Availability(ctx context.Context, locationID int, start, end string) (map[string][]*models.Capacity, error) {
	var resp struct {
		Availability map[string]map[models.MealType]capacityWire `json:"availability"`
	}
	query := url.Values{"start_date": {start}, "end_date": {end}}
	if err := r.api.Get(ctx, fmt.Sprintf("/search/ngos/%d/availability", locationID), query, &resp); err != nil {
		return nil, fmt.Errorf("failed to get availability: %w", err)
	}

	out := make(map[string][]*models.Capacity, len(resp.Availability))
	for date, meals := range resp.Availability {
		for _, meal := range models.MealTypes {
			w, ok := meals[meal]
			if !ok {
				continue
			}
			c := w.normalize()
			c.LocationID, c.Date, c.MealType = locationID, date, meal
			out[date] = append(out[date], c)
		}
	}
	return out, nil
}
