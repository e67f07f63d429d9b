package repository

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"plates-console/internal/models"

	"github.com/rs/zerolog/log"
)

// The backend spells several fields more than one way. The wire types
// below accept every spelling and produce the canonical models.

func firstInt(vals ...*int) (int, bool) {
	for _, v := range vals {
		if v != nil {
			return *v, true
		}
	}
	return 0, false
}

type capacityWire struct {
	LocationID        int             `json:"location_id"`
	Date              string          `json:"date"`
	MealType          models.MealType `json:"meal_type"`
	Capacity          *int            `json:"capacity"`
	MaxCapacity       *int            `json:"max_capacity"`
	TotalCapacity     *int            `json:"total_capacity"`
	Confirmed         *int            `json:"confirmed"`
	CurrentBookings   *int            `json:"current_bookings"`
	Available         *int            `json:"available"`
	AvailableCapacity *int            `json:"available_capacity"`
	CurrentCapacity   *int            `json:"current_capacity"`
	IsManual          bool            `json:"is_manual"`
	Notes             *string         `json:"notes"`
}

func (w *capacityWire) normalize() *models.Capacity {
	c := &models.Capacity{
		LocationID: w.LocationID,
		Date:       w.Date,
		MealType:   w.MealType,
		IsManual:   w.IsManual,
	}
	if w.Notes != nil {
		c.Notes = *w.Notes
	}
	c.MaxCapacity, _ = firstInt(w.Capacity, w.MaxCapacity, w.TotalCapacity)

	// current_capacity is the remaining capacity in the location tables
	avail, hasAvail := firstInt(w.Available, w.AvailableCapacity, w.CurrentCapacity)
	booked, hasBooked := firstInt(w.Confirmed, w.CurrentBookings)
	switch {
	case hasAvail && hasBooked:
		c.AvailableCapacity, c.CurrentBookings = avail, booked
	case hasAvail:
		c.AvailableCapacity, c.CurrentBookings = avail, c.MaxCapacity-avail
	case hasBooked:
		c.CurrentBookings, c.AvailableCapacity = booked, c.MaxCapacity-booked
	default:
		c.AvailableCapacity = c.MaxCapacity
	}
	return c
}

// decodeCapacities accepts a single record or a list
func decodeCapacities(data []byte) ([]*models.Capacity, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, nil
	}

	var wires []capacityWire
	if data[0] == '[' {
		if err := json.Unmarshal(data, &wires); err != nil {
			return nil, fmt.Errorf("failed to decode capacity list: %w", err)
		}
	} else {
		var w capacityWire
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, fmt.Errorf("failed to decode capacity: %w", err)
		}
		wires = append(wires, w)
	}

	out := make([]*models.Capacity, 0, len(wires))
	for i := range wires {
		out = append(out, wires[i].normalize())
	}
	return out, nil
}

type searchAddressWire struct {
	Line1   string  `json:"line1"`
	Line2   *string `json:"line2"`
	City    string  `json:"city"`
	State   string  `json:"state"`
	ZipCode string  `json:"zip_code"`
	Country string  `json:"country"`
}

type searchResultWire struct {
	NGOID             int             `json:"ngo_id"`
	NGOName           string          `json:"ngo_name"`
	OrganizationName  string          `json:"organization_name"`
	LocationID        int             `json:"location_id"`
	LocationName      string          `json:"location_name"`
	Address           json.RawMessage `json:"address"`
	City              string          `json:"city"`
	State             string          `json:"state"`
	Latitude          *json.Number    `json:"latitude"`
	Longitude         *json.Number    `json:"longitude"`
	Coordinates       *struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"coordinates"`
	DistanceKM        *float64 `json:"distance_km"`
	AvailableCapacity *int     `json:"available_capacity"`
	AverageRating     *float64 `json:"average_rating"`
	TotalRatings      int      `json:"total_ratings"`
	Contact           *struct {
		Person string `json:"person"`
		Phone  string `json:"phone"`
	} `json:"contact"`
}

func numberValue(n *json.Number) float64 {
	if n == nil {
		return 0
	}
	f, err := n.Float64()
	if err != nil {
		return 0
	}
	return f
}

func (w *searchResultWire) normalize() *models.NGOSearchResult {
	r := &models.NGOSearchResult{
		NGOID:             w.NGOID,
		NGOName:           w.NGOName,
		LocationID:        w.LocationID,
		LocationName:      w.LocationName,
		City:              w.City,
		State:             w.State,
		Latitude:          numberValue(w.Latitude),
		Longitude:         numberValue(w.Longitude),
		AvailableCapacity: w.AvailableCapacity,
		AverageRating:     w.AverageRating,
		TotalRatings:      w.TotalRatings,
	}
	if r.NGOName == "" {
		r.NGOName = w.OrganizationName
	}
	if w.DistanceKM != nil {
		r.DistanceKM = *w.DistanceKM
	}
	if w.Coordinates != nil {
		r.Latitude, r.Longitude = w.Coordinates.Latitude, w.Coordinates.Longitude
	}
	if w.Contact != nil {
		r.ContactPerson, r.ContactPhone = w.Contact.Person, w.Contact.Phone
	}

	if len(w.Address) > 0 {
		var flat string
		if err := json.Unmarshal(w.Address, &flat); err == nil {
			r.Address = flat
		} else {
			var addr searchAddressWire
			if err := json.Unmarshal(w.Address, &addr); err == nil {
				parts := []string{addr.Line1}
				if addr.Line2 != nil && *addr.Line2 != "" {
					parts = append(parts, *addr.Line2)
				}
				r.Address = strings.Join(parts, ", ")
				if r.City == "" {
					r.City = addr.City
				}
				if r.State == "" {
					r.State = addr.State
				}
			}
		}
	}
	return r
}

type searchResponseWire struct {
	Total int                `json:"total"`
	NGOs  []searchResultWire `json:"ngos"`
}

type notificationWire struct {
	ID                int                     `json:"id"`
	UserID            int                     `json:"user_id"`
	Type              models.NotificationType `json:"type"`
	NotificationType  models.NotificationType `json:"notification_type"`
	Title             string                  `json:"title"`
	Message           string                  `json:"message"`
	RelatedEntityType string                  `json:"related_entity_type"`
	RelatedID         *int                    `json:"related_id"`
	RelatedEntityID   *int                    `json:"related_entity_id"`
	IsRead            bool                    `json:"is_read"`
	CreatedAt         models.Timestamp        `json:"created_at"`
}

func (w *notificationWire) normalize() *models.Notification {
	n := &models.Notification{
		ID:                w.ID,
		UserID:            w.UserID,
		Type:              w.Type,
		Title:             w.Title,
		Message:           w.Message,
		RelatedEntityType: w.RelatedEntityType,
		RelatedEntityID:   w.RelatedEntityID,
		IsRead:            w.IsRead,
		CreatedAt:         w.CreatedAt,
	}
	if n.Type == "" {
		n.Type = w.NotificationType
	}
	if n.RelatedEntityID == nil {
		n.RelatedEntityID = w.RelatedID
	}
	return n
}

// decodeNotificationList accepts a bare array or the
// {total, unread_count, notifications} envelope
func decodeNotificationList(data []byte) (*models.NotificationList, error) {
	data = bytes.TrimSpace(data)
	var wires []notificationWire
	list := &models.NotificationList{}

	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		return list, nil
	case data[0] == '[':
		if err := json.Unmarshal(data, &wires); err != nil {
			return nil, fmt.Errorf("failed to decode notifications: %w", err)
		}
		list.Total = len(wires)
		for i := range wires {
			if !wires[i].IsRead {
				list.UnreadCount++
			}
		}
	default:
		var env struct {
			Total         int                `json:"total"`
			UnreadCount   int                `json:"unread_count"`
			Notifications []notificationWire `json:"notifications"`
		}
		if err := json.Unmarshal(data, &env); err != nil {
			return nil, fmt.Errorf("failed to decode notifications: %w", err)
		}
		wires = env.Notifications
		list.Total, list.UnreadCount = env.Total, env.UnreadCount
	}

	list.Notifications = make([]*models.Notification, 0, len(wires))
	for i := range wires {
		list.Notifications = append(list.Notifications, wires[i].normalize())
	}
	return list, nil
}

type ngoDashboardWire struct {
	VerificationStatus     models.VerificationStatus `json:"verification_status"`
	TotalRequests          *int                      `json:"total_requests"`
	TotalDonationsReceived *int                      `json:"total_donations_received"`
	PendingRequests        *int                      `json:"pending_requests"`
	PendingDonations       *int                      `json:"pending_donations"`
	CompletedRequests      *int                      `json:"completed_requests"`
	CompletedDonations     *int                      `json:"completed_donations"`
	RejectedDonations      *int                      `json:"rejected_donations"`
	AverageRating          *float64                  `json:"average_rating"`
	TotalPlatesReceived    *int                      `json:"total_plates_received"`
	TotalMealsReceived     *int                      `json:"total_meals_received"`
	RecentRequests         []*models.Donation        `json:"recent_requests"`
	RecentDonations        []*models.Donation        `json:"recent_donations"`
}

// normalize prefers the *_requests spelling. Disagreeing duplicates are
// logged; neither spelling is documented as canonical.
func (w *ngoDashboardWire) normalize() *models.NGODashboard {
	d := &models.NGODashboard{
		VerificationStatus: w.VerificationStatus,
		AverageRating:      w.AverageRating,
		RecentRequests:     w.RecentRequests,
	}
	d.TotalRequests, _ = firstInt(w.TotalRequests, w.TotalDonationsReceived)
	d.PendingRequests, _ = firstInt(w.PendingRequests, w.PendingDonations)
	d.CompletedRequests, _ = firstInt(w.CompletedRequests, w.CompletedDonations)
	d.RejectedRequests, _ = firstInt(w.RejectedDonations)
	d.TotalPlates, _ = firstInt(w.TotalPlatesReceived, w.TotalMealsReceived)
	if d.RecentRequests == nil {
		d.RecentRequests = w.RecentDonations
	}

	if w.TotalRequests != nil && w.TotalDonationsReceived != nil && *w.TotalRequests != *w.TotalDonationsReceived {
		log.Warn().
			Int("total_requests", *w.TotalRequests).
			Int("total_donations_received", *w.TotalDonationsReceived).
			Msg("NGO dashboard totals disagree")
	}
	return d
}

type adminDashboardWire struct {
	TotalUsers           *int `json:"total_users"`
	ActiveUsers          *int `json:"active_users"`
	TotalDonors          *int `json:"total_donors"`
	TotalNGOs            *int `json:"total_ngos"`
	PendingVerifications *int `json:"pending_verifications"`
	PendingNGOs          *int `json:"pending_ngos"`
	VerifiedNGOs         *int `json:"verified_ngos"`
	RejectedNGOs         *int `json:"rejected_ngos"`
	TotalDonations       *int `json:"total_donations"`
	CompletedDonations   *int `json:"completed_donations"`
	TotalPlatesDonated   *int `json:"total_plates_donated"`
}

func (w *adminDashboardWire) normalize() *models.AdminDashboard {
	d := &models.AdminDashboard{}
	d.TotalUsers, _ = firstInt(w.TotalUsers)
	d.ActiveUsers, _ = firstInt(w.ActiveUsers)
	d.TotalDonors, _ = firstInt(w.TotalDonors)
	d.TotalNGOs, _ = firstInt(w.TotalNGOs)
	d.PendingNGOs, _ = firstInt(w.PendingVerifications, w.PendingNGOs)
	d.VerifiedNGOs, _ = firstInt(w.VerifiedNGOs)
	d.RejectedNGOs, _ = firstInt(w.RejectedNGOs)
	d.TotalDonations, _ = firstInt(w.TotalDonations)
	d.CompletedDonations, _ = firstInt(w.CompletedDonations)
	d.TotalPlatesDonated, _ = firstInt(w.TotalPlatesDonated)
	return d
}
