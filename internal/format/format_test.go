package format

import (
	"testing"
	"time"

	"plates-console/internal/models"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		km   float64
		want string
	}{
		{0, "0m"},
		{0.45, "450m"},
		{0.999, "999m"},
		{1, "1.0km"},
		{2.34, "2.3km"},
		{12.06, "12.1km"},
	}
	for _, tt := range tests {
		if got := Distance(tt.km); got != tt.want {
			t.Errorf("Distance(%v) = %q, want %q", tt.km, got, tt.want)
		}
	}
}

func TestRating(t *testing.T) {
	if got := Rating(nil); got != "No ratings" {
		t.Errorf("Rating(nil) = %q", got)
	}
	avg := 4.25
	if got := Rating(&avg); got != "4.2" && got != "4.3" {
		t.Errorf("Rating(4.25) = %q", got)
	}
	five := 5.0
	if got := Rating(&five); got != "5.0" {
		t.Errorf("Rating(5) = %q", got)
	}
}

func TestPhone(t *testing.T) {
	tests := map[string]string{
		"9876543210":     "+91 98765 43210",
		"98765-43210":    "+91 98765 43210",
		"(987) 654 3210": "+91 98765 43210",
		"12345":          "12345",
		"+1 555 0100":    "+1 555 0100",
	}
	for in, want := range tests {
		if got := Phone(in); got != want {
			t.Errorf("Phone(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("short", 10); got != "short" {
		t.Errorf("got %q", got)
	}
	if got := Truncate("exactly10!", 10); got != "exactly10!" {
		t.Errorf("got %q", got)
	}
	if got := Truncate("a longer description", 8); got != "a longer..." {
		t.Errorf("got %q", got)
	}
	if got := Truncate("पुणे शहर", 4); got != "पुणे..." {
		t.Errorf("got %q, want rune-based cut", got)
	}
}

func TestClockTime(t *testing.T) {
	tests := map[string]string{
		"14:30":    "2:30 PM",
		"00:15":    "12:15 AM",
		"12:00":    "12:00 PM",
		"09:05":    "9:05 AM",
		"23:59:00": "11:59 PM",
		"noon":     "noon",
		"xx:30":    "xx:30",
	}
	for in, want := range tests {
		if got := ClockTime(in); got != want {
			t.Errorf("ClockTime(%q) = %q, want %q", in, got, want)
		}
	}
	if got := PickupWindow("10:00", "13:30"); got != "10:00 AM - 1:30 PM" {
		t.Errorf("PickupWindow = %q", got)
	}
}

func TestRelativeTime(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		ago  time.Duration
		want string
	}{
		{10 * time.Second, "Just now"},
		{time.Minute, "1 minute ago"},
		{45 * time.Minute, "45 minutes ago"},
		{time.Hour, "1 hour ago"},
		{5 * time.Hour, "5 hours ago"},
		{24 * time.Hour, "1 day ago"},
		{6 * 24 * time.Hour, "6 days ago"},
		{8 * 24 * time.Hour, "Mar 2, 2026"},
	}
	for _, tt := range tests {
		if got := RelativeTime(now.Add(-tt.ago), now); got != tt.want {
			t.Errorf("RelativeTime(-%v) = %q, want %q", tt.ago, got, tt.want)
		}
	}
}

func TestLabels(t *testing.T) {
	if got := StatusText(models.StatusCancelled); got != "Cancelled" {
		t.Errorf("StatusText = %q", got)
	}
	if got := StatusText("archived"); got != "archived" {
		t.Errorf("unknown status = %q", got)
	}
	if got := StatusColor(models.StatusPending); got != "warning" {
		t.Errorf("StatusColor = %q", got)
	}
	if got := MealTypeText(models.MealSnacks); got != "Snacks" {
		t.Errorf("MealTypeText = %q", got)
	}
	if got := RoleText(models.RoleNGO); got != "NGO" {
		t.Errorf("RoleText = %q", got)
	}
	if got := NotificationColor(models.NotificationNGORejected); got != "danger" {
		t.Errorf("NotificationColor = %q", got)
	}
	if got := NotificationColor("unknown"); got != "medium" {
		t.Errorf("unknown notification color = %q", got)
	}
}
