package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"plates-console/internal/apiclient"
	"plates-console/internal/models"
	"plates-console/internal/repository"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const (
	dateLayout    = "2006-01-02"
	calendarCells = 42
	// monthFetchWorkers bounds the concurrent per-day capacity lookups
	monthFetchWorkers = 4
)

// ErrPastDate is returned when capacity of a past date would be edited
var ErrPastDate = errors.New("cannot set capacity for past dates")

// CapacityLevel buckets the utilization of a capacity record
type CapacityLevel string

const (
	LevelNotSet CapacityLevel = "not-set"
	LevelLow    CapacityLevel = "low"
	LevelMedium CapacityLevel = "medium"
	LevelHigh   CapacityLevel = "high"
	LevelFull   CapacityLevel = "full"
)

// CapacityStatus returns the bucket of a capacity record
func CapacityStatus(c *models.Capacity) CapacityLevel {
	if c == nil || c.MaxCapacity <= 0 {
		return LevelNotSet
	}
	u := c.Utilization()
	switch {
	case u >= 1:
		return LevelFull
	case u >= 0.8:
		return LevelHigh
	case u >= 0.5:
		return LevelMedium
	}
	return LevelLow
}

// CalendarDay is one cell of the month grid
type CalendarDay struct {
	Date           time.Time        `json:"-"`
	DateString     string           `json:"date"`
	Day            int              `json:"day"`
	IsCurrentMonth bool             `json:"is_current_month"`
	IsToday        bool             `json:"is_today"`
	IsPast         bool             `json:"is_past"`
	Capacity       *models.Capacity `json:"capacity"`
	Status         CapacityLevel    `json:"status"`
}

// Calendar is the capacity grid of one location, meal type and month
type Calendar struct {
	LocationID int             `json:"location_id"`
	MealType   models.MealType `json:"meal_type"`
	Year       int             `json:"year"`
	Month      time.Month      `json:"month"`
	Days       []CalendarDay   `json:"days"`
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// GenerateCalendar lays out six Sunday-first weeks around the month.
// records are keyed by date string; today decides the today and past flags.
func GenerateCalendar(year int, month time.Month, records map[string]*models.Capacity, today time.Time) []CalendarDay {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	start := first.AddDate(0, 0, -int(first.Weekday()))
	todayDate := dateOf(today)

	days := make([]CalendarDay, 0, calendarCells)
	for i := 0; i < calendarCells; i++ {
		d := start.AddDate(0, 0, i)
		key := d.Format(dateLayout)
		rec := records[key]
		inMonth := d.Month() == month && d.Year() == year
		days = append(days, CalendarDay{
			Date:           d,
			DateString:     key,
			Day:            d.Day(),
			IsCurrentMonth: inMonth,
			IsToday:        inMonth && d.Equal(todayDate),
			IsPast:         d.Before(todayDate),
			Capacity:       rec,
			Status:         CapacityStatus(rec),
		})
	}
	return days
}

// SetCapacityForm is the capacity editor form
type SetCapacityForm struct {
	LocationID int             `json:"location_id" validate:"required,gt=0"`
	Date       string          `json:"date" validate:"required,datetime=2006-01-02"`
	MealType   models.MealType `json:"meal_type" validate:"required,mealtype"`
	Capacity   int             `json:"capacity" validate:"required,gt=0"`
	Notes      string          `json:"notes,omitempty" validate:"max=500"`
}

// CapacityService drives the NGO capacity calendar
type CapacityService struct {
	capacity  *repository.CapacityRepository
	validator *Validator
	now       func() time.Time
}

// NewCapacityService creates a new capacity service
func NewCapacityService(capacity *repository.CapacityRepository, v *Validator) *CapacityService {
	return &CapacityService{
		capacity:  capacity,
		validator: v,
		now:       time.Now,
	}
}

// Calendar fetches the records of every day of the month and lays out the
// grid. Days without a record are not set.
func (s *CapacityService) Calendar(ctx context.Context, locationID int, meal models.MealType, year int, month time.Month) (*Calendar, error) {
	if !meal.Valid() {
		return nil, fmt.Errorf("%w: unknown meal type %q", ErrValidation, meal)
	}
	if month < time.January || month > time.December {
		return nil, fmt.Errorf("%w: invalid month %d", ErrValidation, month)
	}

	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	daysInMonth := first.AddDate(0, 1, -1).Day()

	var (
		mu      sync.Mutex
		records = make(map[string]*models.Capacity, daysInMonth)
	)
	// the first real error cancels the days still queued
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(monthFetchWorkers)
	for d := 0; d < daysInMonth && gctx.Err() == nil; d++ {
		date := first.AddDate(0, 0, d).Format(dateLayout)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rec, err := s.capacity.Get(gctx, locationID, date, meal)
			switch {
			case apiclient.IsNotFound(err):
				return nil
			case err != nil:
				return err
			}
			mu.Lock()
			records[date] = rec
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return &Calendar{
		LocationID: locationID,
		MealType:   meal,
		Year:       year,
		Month:      month,
		Days:       GenerateCalendar(year, month, records, s.now()),
	}, nil
}

// Select reports whether a clicked day opens the editor. Days outside the
// month are ignored; past days fail with ErrPastDate.
func (s *CapacityService) Select(day CalendarDay) (bool, error) {
	if !day.IsCurrentMonth {
		return false, nil
	}
	if day.IsPast {
		return false, ErrPastDate
	}
	return true, nil
}

// Day returns the cell of date in the grid of the given month
func (s *CapacityService) Day(year int, month time.Month, date string) (CalendarDay, bool) {
	for _, d := range GenerateCalendar(year, month, nil, s.now()) {
		if d.DateString == date {
			return d, true
		}
	}
	return CalendarDay{}, false
}

// Get returns the record of one date and meal type
func (s *CapacityService) Get(ctx context.Context, locationID int, date string, meal models.MealType) (*models.Capacity, error) {
	if _, err := time.Parse(dateLayout, date); err != nil {
		return nil, fmt.Errorf("%w: date must match %s", ErrValidation, dateLayout)
	}
	if !meal.Valid() {
		return nil, fmt.Errorf("%w: unknown meal type %q", ErrValidation, meal)
	}
	return s.capacity.Get(ctx, locationID, date, meal)
}

// DayCapacities returns the records of every meal type of one date
func (s *CapacityService) DayCapacities(ctx context.Context, locationID int, date string) ([]*models.Capacity, error) {
	if _, err := time.Parse(dateLayout, date); err != nil {
		return nil, fmt.Errorf("%w: date must match %s", ErrValidation, dateLayout)
	}
	return s.capacity.GetDay(ctx, locationID, date)
}

// Set stores a manual override after checking the date is not past
func (s *CapacityService) Set(ctx context.Context, form *SetCapacityForm) (*models.Capacity, error) {
	if err := s.validator.Struct(form); err != nil {
		return nil, err
	}
	if err := s.checkNotPast(form.Date); err != nil {
		return nil, err
	}

	c, err := s.capacity.Set(ctx, &repository.SetCapacityRequest{
		LocationID: form.LocationID,
		Date:       form.Date,
		MealType:   form.MealType,
		Capacity:   form.Capacity,
		Notes:      form.Notes,
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Int("location_id", form.LocationID).
		Str("date", form.Date).
		Str("meal_type", string(form.MealType)).
		Int("capacity", form.Capacity).
		Msg("Capacity set")
	return c, nil
}

// Clear reverts a manual override to the location default
func (s *CapacityService) Clear(ctx context.Context, locationID int, date string, meal models.MealType) error {
	if _, err := time.Parse(dateLayout, date); err != nil {
		return fmt.Errorf("%w: date must match %s", ErrValidation, dateLayout)
	}
	if !meal.Valid() {
		return fmt.Errorf("%w: unknown meal type %q", ErrValidation, meal)
	}
	if err := s.checkNotPast(date); err != nil {
		return err
	}
	return s.capacity.Clear(ctx, locationID, date, meal)
}

// ListManual returns the manual overrides of a location
func (s *CapacityService) ListManual(ctx context.Context, locationID int) ([]*models.Capacity, error) {
	return s.capacity.ListManual(ctx, locationID)
}

func (s *CapacityService) checkNotPast(date string) error {
	d, err := time.Parse(dateLayout, date)
	if err != nil {
		return fmt.Errorf("%w: date must match %s", ErrValidation, dateLayout)
	}
	if d.Before(dateOf(s.now())) {
		return ErrPastDate
	}
	return nil
}
