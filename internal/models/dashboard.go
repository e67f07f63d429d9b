package models

// DonorDashboard holds the donor's summary counters
type DonorDashboard struct {
	TotalDonations     int         `json:"total_donations"`
	PendingDonations   int         `json:"pending_donations"`
	CompletedDonations int         `json:"completed_donations"`
	CancelledDonations int         `json:"cancelled_donations"`
	AverageRating      *float64    `json:"average_rating"`
	TotalMealsDonated  int         `json:"total_meals_donated"`
	RecentDonations    []*Donation `json:"recent_donations"`
}

// NGODashboard holds the NGO's summary counters in one canonical shape
type NGODashboard struct {
	VerificationStatus VerificationStatus `json:"verification_status,omitempty"`
	TotalRequests      int                `json:"total_requests"`
	PendingRequests    int                `json:"pending_requests"`
	CompletedRequests  int                `json:"completed_requests"`
	RejectedRequests   int                `json:"rejected_requests"`
	AverageRating      *float64           `json:"average_rating"`
	TotalPlates        int                `json:"total_plates_received"`
	RecentRequests     []*Donation        `json:"recent_requests"`
}

// AdminDashboard holds the system-wide counters
type AdminDashboard struct {
	TotalUsers         int `json:"total_users"`
	ActiveUsers        int `json:"active_users"`
	TotalDonors        int `json:"total_donors"`
	TotalNGOs          int `json:"total_ngos"`
	PendingNGOs        int `json:"pending_verifications"`
	VerifiedNGOs       int `json:"verified_ngos"`
	RejectedNGOs       int `json:"rejected_ngos"`
	TotalDonations     int `json:"total_donations"`
	CompletedDonations int `json:"completed_donations"`
	TotalPlatesDonated int `json:"total_plates_donated"`
}

// SystemReport is the admin report for a date range. The backend's report
// body is passed through under Data.
type SystemReport struct {
	StartDate string         `json:"start_date"`
	EndDate   string         `json:"end_date"`
	Data      map[string]any `json:"data"`
}
