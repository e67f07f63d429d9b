package models

// NotificationType is the kind of event a notification reports
type NotificationType string

const (
	NotificationDonationCreated   NotificationType = "donation_created"
	NotificationDonationConfirmed NotificationType = "donation_confirmed"
	NotificationDonationRejected  NotificationType = "donation_rejected"
	NotificationDonationCompleted NotificationType = "donation_completed"
	NotificationDonationCancelled NotificationType = "donation_cancelled"
	NotificationNGOVerified       NotificationType = "ngo_verified"
	NotificationNGORejected       NotificationType = "ngo_rejected"
	NotificationRatingReceived    NotificationType = "rating_received"
)

// Notification represents an in-app notification
type Notification struct {
	ID                int              `json:"id"`
	UserID            int              `json:"user_id"`
	Type              NotificationType `json:"type"`
	Title             string           `json:"title"`
	Message           string           `json:"message"`
	RelatedEntityType string           `json:"related_entity_type,omitempty"`
	RelatedEntityID   *int             `json:"related_entity_id,omitempty"`
	IsRead            bool             `json:"is_read"`
	CreatedAt         Timestamp        `json:"created_at"`
}

// NotificationList is a page of notifications with the unread counter
type NotificationList struct {
	Total         int             `json:"total"`
	UnreadCount   int             `json:"unread_count"`
	Notifications []*Notification `json:"notifications"`
}
