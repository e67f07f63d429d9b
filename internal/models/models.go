package models

// Role is the role of a user account
type Role string

const (
	RoleDonor Role = "donor"
	RoleNGO   Role = "ngo"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	switch r {
	case RoleDonor, RoleNGO, RoleAdmin:
		return true
	}
	return false
}

// User represents the authenticated account as last fetched from the backend
type User struct {
	ID        int       `json:"id"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt Timestamp `json:"created_at"`
}

// TokenPair is the token response of login, register and refresh
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// MealType partitions capacity and donations
type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealSnacks    MealType = "snacks"
	MealDinner    MealType = "dinner"
)

// MealTypes lists every meal type in serving order
var MealTypes = []MealType{MealBreakfast, MealLunch, MealSnacks, MealDinner}

// Valid reports whether m is a known meal type
func (m MealType) Valid() bool {
	for _, t := range MealTypes {
		if m == t {
			return true
		}
	}
	return false
}

// DonorProfile represents the profile of a donor organization
type DonorProfile struct {
	ID               int     `json:"id"`
	UserID           int     `json:"user_id"`
	OrganizationName string  `json:"organization_name"`
	ContactPerson    string  `json:"contact_person"`
	Phone            string  `json:"phone"`
	Address          string  `json:"address"`
	City             string  `json:"city"`
	State            string  `json:"state"`
	PostalCode       string  `json:"postal_code"`
	Country          string  `json:"country"`
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
}

// HasLocation reports whether the profile carries usable coordinates
func (p *DonorProfile) HasLocation() bool {
	return p != nil && (p.Latitude != 0 || p.Longitude != 0)
}

// VerificationStatus is the admin verification state of an NGO
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationVerified VerificationStatus = "verified"
	VerificationRejected VerificationStatus = "rejected"
)

// NGOProfile represents the profile of an NGO
type NGOProfile struct {
	ID                      int                `json:"id"`
	UserID                  int                `json:"user_id"`
	OrganizationName        string             `json:"organization_name"`
	RegistrationNumber      string             `json:"registration_number"`
	ContactPerson           string             `json:"contact_person"`
	Phone                   string             `json:"phone"`
	VerificationDocumentURL *string            `json:"verification_document_url"`
	VerificationStatus      VerificationStatus `json:"verification_status"`
	VerifiedAt              *Timestamp         `json:"verified_at"`
	RejectionReason         *string            `json:"rejection_reason"`
	DefaultCapacities
}

// DefaultCapacities holds the per-meal-type capacity used when no manual
// override exists for a date
type DefaultCapacities struct {
	Breakfast int `json:"default_breakfast_capacity,omitempty"`
	Lunch     int `json:"default_lunch_capacity,omitempty"`
	Snacks    int `json:"default_snacks_capacity,omitempty"`
	Dinner    int `json:"default_dinner_capacity,omitempty"`
}

// For returns the default capacity of a meal type
func (d DefaultCapacities) For(meal MealType) int {
	switch meal {
	case MealBreakfast:
		return d.Breakfast
	case MealLunch:
		return d.Lunch
	case MealSnacks:
		return d.Snacks
	case MealDinner:
		return d.Dinner
	}
	return 0
}

// NGOLocation represents one physical location of an NGO
type NGOLocation struct {
	ID             int        `json:"id"`
	NGOID          int        `json:"ngo_id"`
	LocationName   string     `json:"location_name"`
	AddressLine1   string     `json:"address_line1"`
	AddressLine2   *string    `json:"address_line2"`
	City           string     `json:"city"`
	State          string     `json:"state"`
	Country        string     `json:"country"`
	ZipCode        string     `json:"zip_code"`
	Latitude       float64    `json:"latitude"`
	Longitude      float64    `json:"longitude"`
	ContactPerson  *string    `json:"contact_person"`
	ContactPhone   *string    `json:"contact_phone"`
	OperatingHours *string    `json:"operating_hours"`
	IsActive       bool       `json:"is_active"`
	CreatedAt      *Timestamp `json:"created_at,omitempty"`
	UpdatedAt      *Timestamp `json:"updated_at,omitempty"`
	DefaultCapacities
}

// Capacity is the capacity of a location for one date and meal type.
// AvailableCapacity is derived by the backend.
type Capacity struct {
	LocationID        int      `json:"location_id"`
	Date              string   `json:"date"`
	MealType          MealType `json:"meal_type"`
	MaxCapacity       int      `json:"max_capacity"`
	CurrentBookings   int      `json:"current_bookings"`
	AvailableCapacity int      `json:"available_capacity"`
	IsManual          bool     `json:"is_manual"`
	Notes             string   `json:"notes,omitempty"`
}

// Utilization returns the booked share of the capacity, or 0 when no
// capacity is configured
func (c *Capacity) Utilization() float64 {
	if c == nil || c.MaxCapacity <= 0 {
		return 0
	}
	return float64(c.MaxCapacity-c.AvailableCapacity) / float64(c.MaxCapacity)
}

// NGOSearchResult is the read model of the proximity search: one NGO
// location with its distance, availability and aggregate rating
type NGOSearchResult struct {
	NGOID             int      `json:"ngo_id"`
	NGOName           string   `json:"ngo_name"`
	LocationID        int      `json:"location_id"`
	LocationName      string   `json:"location_name"`
	Address           string   `json:"address"`
	City              string   `json:"city"`
	State             string   `json:"state"`
	Latitude          float64  `json:"latitude"`
	Longitude         float64  `json:"longitude"`
	DistanceKM        float64  `json:"distance_km"`
	AvailableCapacity *int     `json:"available_capacity"`
	AverageRating     *float64 `json:"average_rating"`
	TotalRatings      int      `json:"total_ratings"`
	ContactPerson     string   `json:"contact_person,omitempty"`
	ContactPhone      string   `json:"contact_phone,omitempty"`
}

// Rating is the donor's rating of a completed donation
type Rating struct {
	ID         int       `json:"id"`
	DonationID int       `json:"donation_id"`
	DonorID    int       `json:"donor_id"`
	NGOID      int       `json:"ngo_id"`
	Rating     int       `json:"rating"`
	Feedback   *string   `json:"feedback"`
	CreatedAt  Timestamp `json:"created_at"`
	Donation   *Donation `json:"donation,omitempty"`
}

// RatingSummary aggregates the ratings of an NGO
type RatingSummary struct {
	NGOID              int            `json:"ngo_id"`
	NGOName            string         `json:"ngo_name"`
	AverageRating      float64        `json:"average_rating"`
	TotalRatings       int            `json:"total_ratings"`
	RatingDistribution map[string]int `json:"rating_distribution"`
	RecentRatings      []*Rating      `json:"recent_ratings"`
}
