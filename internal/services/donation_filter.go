package services

import (
	"strings"

	"plates-console/internal/models"
)

// DonationFilter narrows a donation list the way the history screens do
type DonationFilter struct {
	Status models.DonationStatus
	// Query matches food type, NGO, location or donor name, ignoring case
	Query string
}

func containsFold(s *string, q string) bool {
	return s != nil && strings.Contains(strings.ToLower(*s), q)
}

// Match reports whether d passes the filter
func (f DonationFilter) Match(d *models.Donation) bool {
	if f.Status != "" && d.Status != f.Status {
		return false
	}
	q := strings.ToLower(strings.TrimSpace(f.Query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(d.FoodType), q) ||
		containsFold(d.NGOName, q) ||
		containsFold(d.LocationName, q) ||
		containsFold(d.DonorName, q)
}

// FilterDonations returns the donations passing f, in their original order
func FilterDonations(donations []*models.Donation, f DonationFilter) []*models.Donation {
	out := make([]*models.Donation, 0, len(donations))
	for _, d := range donations {
		if f.Match(d) {
			out = append(out, d)
		}
	}
	return out
}
