package services

import (
	"context"
	"fmt"
	"math"
	"slices"
	"time"

	"plates-console/internal/config"
	"plates-console/internal/models"
	"plates-console/internal/repository"

	"github.com/rs/zerolog/log"
)

// ratingBand is the rating difference below which two locations are
// considered equally rated and distance decides
const ratingBand = 0.5

func hasCapacity(r *models.NGOSearchResult, quantity int) bool {
	return r.AvailableCapacity != nil && *r.AvailableCapacity >= quantity
}

func ratingOf(r *models.NGOSearchResult) float64 {
	if r.AverageRating == nil {
		return 0
	}
	return *r.AverageRating
}

// Compare orders two search results for a donation of quantity plates.
// It returns a negative number when a ranks before b.
func Compare(a, b *models.NGOSearchResult, quantity int) int {
	aOK, bOK := hasCapacity(a, quantity), hasCapacity(b, quantity)
	if aOK != bOK {
		if aOK {
			return -1
		}
		return 1
	}

	ra, rb := ratingOf(a), ratingOf(b)
	if math.Abs(ra-rb) > ratingBand {
		if ra > rb {
			return -1
		}
		return 1
	}

	switch {
	case a.DistanceKM < b.DistanceKM:
		return -1
	case a.DistanceKM > b.DistanceKM:
		return 1
	}
	return 0
}

// Rank returns a new slice with the results ordered by capacity adequacy,
// then rating, then distance. The input is not modified.
func Rank(results []*models.NGOSearchResult, quantity int) []*models.NGOSearchResult {
	ranked := slices.Clone(results)
	slices.SortStableFunc(ranked, func(a, b *models.NGOSearchResult) int {
		return Compare(a, b, quantity)
	})
	return ranked
}

// SmartDonateRequest is the smart donate form
type SmartDonateRequest struct {
	QuantityPlates     int             `json:"quantity_plates" validate:"required,gte=1"`
	MealType           models.MealType `json:"meal_type" validate:"required,mealtype"`
	DonationDate       string          `json:"donation_date" validate:"required,datetime=2006-01-02"`
	Latitude           *float64        `json:"latitude,omitempty" validate:"omitempty,latitude"`
	Longitude          *float64        `json:"longitude,omitempty" validate:"omitempty,longitude"`
	SelectedLocationID int             `json:"selected_location_id,omitempty"`
}

// Origin is the point a search is centered on
type Origin struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Source    string  `json:"source"`
}

// SmartDonateResult is the ranked outcome of a smart donate search
type SmartDonateResult struct {
	Origin       Origin                    `json:"origin"`
	RadiusKM     float64                   `json:"radius_km"`
	Results      []*models.NGOSearchResult `json:"results"`
	Selected     *models.NGOSearchResult   `json:"selected,omitempty"`
	AutoSelected bool                      `json:"auto_selected"`
	Message      string                    `json:"message,omitempty"`
	Warnings     []string                  `json:"warnings,omitempty"`
}

// MatchService finds and ranks NGO locations for a donation
type MatchService struct {
	search    *repository.SearchRepository
	donors    *repository.DonorRepository
	validator *Validator
	cfg       config.SearchConfig
	now       func() time.Time
}

// NewMatchService creates a new match service
func NewMatchService(search *repository.SearchRepository, donors *repository.DonorRepository, v *Validator, cfg config.SearchConfig) *MatchService {
	return &MatchService{
		search:    search,
		donors:    donors,
		validator: v,
		cfg:       cfg,
		now:       time.Now,
	}
}

// Search lists the locations around an origin, nearest first
func (s *MatchService) Search(ctx context.Context, params *repository.SearchParams) ([]*models.NGOSearchResult, error) {
	if params.RadiusKM <= 0 {
		params.RadiusKM = s.cfg.DefaultRadiusKM
	}
	if params.RadiusKM > s.cfg.MaxRadiusKM {
		params.RadiusKM = s.cfg.MaxRadiusKM
	}
	return s.search.SearchNGOs(ctx, params)
}

// Find runs the smart donate search: the widest radius around the donor,
// filtered to locations able to take the quantity, ranked
func (s *MatchService) Find(ctx context.Context, req *SmartDonateRequest) (*SmartDonateResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}
	if req.DonationDate < s.now().Format(dateLayout) {
		return nil, fmt.Errorf("%w: donation date is in the past", ErrValidation)
	}

	result := &SmartDonateResult{RadiusKM: s.cfg.MaxRadiusKM}
	result.Origin = s.origin(ctx, req, result)

	found, err := s.search.SearchNGOs(ctx, &repository.SearchParams{
		Latitude:     result.Origin.Latitude,
		Longitude:    result.Origin.Longitude,
		RadiusKM:     s.cfg.MaxRadiusKM,
		DonationDate: req.DonationDate,
		MealType:     req.MealType,
		MinCapacity:  req.QuantityPlates,
	})
	if err != nil {
		return nil, err
	}
	result.Results = Rank(found, req.QuantityPlates)

	if len(result.Results) == 0 {
		result.Message = "No NGOs with enough capacity were found. Try another date, meal type or a smaller quantity."
	}
	if req.SelectedLocationID != 0 && len(result.Results) > 0 {
		for _, r := range result.Results {
			if r.LocationID == req.SelectedLocationID {
				result.Selected = r
				break
			}
		}
		if result.Selected == nil {
			result.Warnings = append(result.Warnings, "The previously selected location is no longer available.")
		}
	}
	// a single match is picked even when it replaces a stale selection
	if result.Selected == nil && len(result.Results) == 1 {
		result.Selected = result.Results[0]
		result.AutoSelected = true
	}

	log.Info().
		Int("quantity", req.QuantityPlates).
		Str("meal_type", string(req.MealType)).
		Str("date", req.DonationDate).
		Int("results", len(result.Results)).
		Msg("Smart donate search")

	return result, nil
}

func (s *MatchService) origin(ctx context.Context, req *SmartDonateRequest, result *SmartDonateResult) Origin {
	if req.Latitude != nil && req.Longitude != nil {
		return Origin{Latitude: *req.Latitude, Longitude: *req.Longitude, Source: "request"}
	}

	profile, err := s.donors.GetProfile(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to load donor location")
	} else if profile.HasLocation() {
		return Origin{Latitude: profile.Latitude, Longitude: profile.Longitude, Source: "profile"}
	}

	result.Warnings = append(result.Warnings, "Your location is unknown; searching around the default location.")
	return Origin{Latitude: s.cfg.FallbackLat, Longitude: s.cfg.FallbackLng, Source: "fallback"}
}

// Availability returns the per-day records of a location between start and
// end inclusive, keyed by date
func (s *MatchService) Availability(ctx context.Context, locationID int, start, end string) (map[string][]*models.Capacity, error) {
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
	return s.search.Availability(ctx, locationID, start, end)
}
