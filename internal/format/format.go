// Package format renders domain values as display text
package format

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"

	"plates-console/internal/models"
)

// StatusText returns the display label of a donation status
func StatusText(s models.DonationStatus) string {
	switch s {
	case models.StatusPending:
		return "Pending"
	case models.StatusConfirmed:
		return "Confirmed"
	case models.StatusRejected:
		return "Rejected"
	case models.StatusCompleted:
		return "Completed"
	case models.StatusCancelled:
		return "Cancelled"
	}
	return string(s)
}

// StatusColor returns the badge color of a donation status
func StatusColor(s models.DonationStatus) string {
	switch s {
	case models.StatusCompleted:
		return "success"
	case models.StatusConfirmed:
		return "primary"
	case models.StatusPending:
		return "warning"
	case models.StatusRejected, models.StatusCancelled:
		return "danger"
	}
	return "medium"
}

// MealTypeText returns the display label of a meal type
func MealTypeText(m models.MealType) string {
	switch m {
	case models.MealBreakfast:
		return "Breakfast"
	case models.MealLunch:
		return "Lunch"
	case models.MealSnacks:
		return "Snacks"
	case models.MealDinner:
		return "Dinner"
	}
	return string(m)
}

// RoleText returns the display label of a role
func RoleText(r models.Role) string {
	switch r {
	case models.RoleDonor:
		return "Donor"
	case models.RoleNGO:
		return "NGO"
	case models.RoleAdmin:
		return "Admin"
	}
	return string(r)
}

// NotificationColor returns the accent color of a notification type
func NotificationColor(t models.NotificationType) string {
	switch t {
	case models.NotificationDonationConfirmed, models.NotificationDonationCompleted, models.NotificationNGOVerified:
		return "success"
	case models.NotificationDonationRejected, models.NotificationDonationCancelled, models.NotificationNGORejected:
		return "danger"
	case models.NotificationDonationCreated, models.NotificationRatingReceived:
		return "primary"
	}
	return "medium"
}

// Distance renders meters below one kilometer, else kilometers with one
// decimal
func Distance(km float64) string {
	if km < 1 {
		return fmt.Sprintf("%dm", int(math.Round(km*1000)))
	}
	return fmt.Sprintf("%.1fkm", km)
}

// Rating renders an average rating, or "No ratings" when there is none
func Rating(avg *float64) string {
	if avg == nil {
		return "No ratings"
	}
	return fmt.Sprintf("%.1f", *avg)
}

// Phone renders a ten digit number as +91 XXXXX XXXXX and leaves anything
// else untouched
func Phone(phone string) string {
	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, phone)
	if len(digits) == 10 {
		return "+91 " + digits[:5] + " " + digits[5:]
	}
	return phone
}

// Truncate shortens text to max runes followed by an ellipsis
func Truncate(text string, max int) string {
	r := []rune(text)
	if len(r) <= max {
		return text
	}
	return string(r[:max]) + "..."
}

// ClockTime renders HH:MM as a 12-hour time such as "2:30 PM"
func ClockTime(hhmm string) string {
	hours, minutes, ok := strings.Cut(hhmm, ":")
	if !ok {
		return hhmm
	}
	h, err := strconv.Atoi(hours)
	if err != nil {
		return hhmm
	}
	if len(minutes) > 2 {
		minutes = minutes[:2]
	}

	suffix := "AM"
	if h >= 12 {
		suffix = "PM"
	}
	h %= 12
	if h == 0 {
		h = 12
	}
	return fmt.Sprintf("%d:%s %s", h, minutes, suffix)
}

// PickupWindow renders a pickup start and end as one range
func PickupWindow(start, end string) string {
	return ClockTime(start) + " - " + ClockTime(end)
}

// Date renders a date as "Jan 15, 2026"
func Date(t time.Time) string {
	return t.Format("Jan 2, 2006")
}

// RelativeTime renders how long ago t was, falling back to the date after a
// week
func RelativeTime(t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "Just now"
	case d < time.Hour:
		return plural(int(d/time.Minute), "minute") + " ago"
	case d < 24*time.Hour:
		return plural(int(d/time.Hour), "hour") + " ago"
	case d < 7*24*time.Hour:
		return plural(int(d/(24*time.Hour)), "day") + " ago"
	}
	return Date(t)
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
