package handlers

import (
	"time"

	"plates-console/internal/format"
	"plates-console/internal/models"
)

// DonationView is a donation with its display labels
type DonationView struct {
	*models.Donation
	StatusText   string `json:"status_text"`
	StatusColor  string `json:"status_color"`
	MealTypeText string `json:"meal_type_text"`
	PickupWindow string `json:"pickup_window"`
	CanCancel    bool   `json:"can_cancel"`
	CanRate      bool   `json:"can_rate"`
}

func donationView(d *models.Donation) *DonationView {
	return &DonationView{
		Donation:     d,
		StatusText:   format.StatusText(d.Status),
		StatusColor:  format.StatusColor(d.Status),
		MealTypeText: format.MealTypeText(d.MealType),
		PickupWindow: format.PickupWindow(d.PickupTimeStart, d.PickupTimeEnd),
		CanCancel:    d.CanCancel(),
		CanRate:      d.CanRate(),
	}
}

func donationViews(ds []*models.Donation) []*DonationView {
	out := make([]*DonationView, 0, len(ds))
	for _, d := range ds {
		out = append(out, donationView(d))
	}
	return out
}

// SearchResultView is a search result with its display labels
type SearchResultView struct {
	*models.NGOSearchResult
	DistanceText string `json:"distance_text"`
	RatingText   string `json:"rating_text"`
	ContactText  string `json:"contact_text,omitempty"`
}

func searchResultViews(rs []*models.NGOSearchResult) []*SearchResultView {
	out := make([]*SearchResultView, 0, len(rs))
	for _, r := range rs {
		v := &SearchResultView{
			NGOSearchResult: r,
			DistanceText:    format.Distance(r.DistanceKM),
			RatingText:      format.Rating(r.AverageRating),
		}
		if r.ContactPhone != "" {
			v.ContactText = format.Phone(r.ContactPhone)
		}
		out = append(out, v)
	}
	return out
}

// NotificationView is a notification with its display labels
type NotificationView struct {
	*models.Notification
	Color string `json:"color"`
	Age   string `json:"age"`
}

// NotificationListView is a notification page with display labels
type NotificationListView struct {
	Total         int                 `json:"total"`
	UnreadCount   int                 `json:"unread_count"`
	Notifications []*NotificationView `json:"notifications"`
}

func notificationListView(list *models.NotificationList, now time.Time) *NotificationListView {
	v := &NotificationListView{
		Total:         list.Total,
		UnreadCount:   list.UnreadCount,
		Notifications: make([]*NotificationView, 0, len(list.Notifications)),
	}
	for _, n := range list.Notifications {
		nv := &NotificationView{Notification: n, Color: format.NotificationColor(n.Type)}
		if !n.CreatedAt.IsZero() {
			nv.Age = format.RelativeTime(n.CreatedAt.Time, now)
		}
		v.Notifications = append(v.Notifications, nv)
	}
	return v
}

// UserView is a user with its role label
type UserView struct {
	*models.User
	RoleText string `json:"role_text"`
}

func userView(u *models.User) *UserView {
	return &UserView{User: u, RoleText: format.RoleText(u.Role)}
}
