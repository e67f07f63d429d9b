package models

// DonationStatus is the backend-owned state of a donation request
type DonationStatus string

const (
	StatusPending   DonationStatus = "pending"
	StatusConfirmed DonationStatus = "confirmed"
	StatusRejected  DonationStatus = "rejected"
	StatusCompleted DonationStatus = "completed"
	StatusCancelled DonationStatus = "cancelled"
)

// Valid reports whether s is a known status
func (s DonationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusRejected, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Donation represents a donation request.
// Transitions are only enacted by the backend.
type Donation struct {
	ID                  int            `json:"id"`
	DonorID             int            `json:"donor_id"`
	DonorName           *string        `json:"donor_name,omitempty"`
	NGOLocationID       int            `json:"ngo_location_id"`
	FoodType            string         `json:"food_type"`
	QuantityPlates      int            `json:"quantity_plates"`
	MealType            MealType       `json:"meal_type"`
	DonationDate        string         `json:"donation_date"`
	PickupTimeStart     string         `json:"pickup_time_start"`
	PickupTimeEnd       string         `json:"pickup_time_end"`
	Description         *string        `json:"description"`
	SpecialInstructions *string        `json:"special_instructions"`
	Status              DonationStatus `json:"status"`
	RejectionReason     *string        `json:"rejection_reason"`
	CreatedAt           Timestamp      `json:"created_at"`
	ConfirmedAt         *Timestamp     `json:"confirmed_at"`
	CompletedAt         *Timestamp     `json:"completed_at"`
	CancelledAt         *Timestamp     `json:"cancelled_at"`
	NGOName             *string        `json:"ngo_name,omitempty"`
	LocationName        *string        `json:"location_name,omitempty"`
}

// CanRate reports whether the donation may be rated by its donor
func (d *Donation) CanRate() bool {
	return d != nil && d.Status == StatusCompleted
}

// CanCancel reports whether the donor may still cancel the donation
func (d *Donation) CanCancel() bool {
	return d != nil && (d.Status == StatusPending || d.Status == StatusConfirmed)
}

// CreateDonationRequest is the body of a new donation request
type CreateDonationRequest struct {
	NGOLocationID       int      `json:"ngo_location_id" validate:"required,gt=0"`
	FoodType            string   `json:"food_type" validate:"required,max=255"`
	QuantityPlates      int      `json:"quantity_plates" validate:"required,gte=1"`
	MealType            MealType `json:"meal_type" validate:"required,mealtype"`
	DonationDate        string   `json:"donation_date" validate:"required,datetime=2006-01-02"`
	PickupTimeStart     string   `json:"pickup_time_start" validate:"required,datetime=15:04"`
	PickupTimeEnd       string   `json:"pickup_time_end" validate:"required,datetime=15:04"`
	Description         string   `json:"description,omitempty"`
	SpecialInstructions string   `json:"special_instructions,omitempty"`
}

// Transition is the backend's acknowledgement of a status change
type Transition struct {
	DonationID int            `json:"donation_id"`
	Status     DonationStatus `json:"status"`
	Message    string         `json:"message"`
}
