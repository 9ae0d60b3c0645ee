// Package scheduling builds the bookable call-slot calendar: half-hour
// business-hours slots over the next two weeks, minus anything the CRM
// calendar already holds.
package scheduling

import (
	"context"
	"time"

	"github.com/swifthomeoffer/cashoffer-platform/internal/crm"
	"github.com/swifthomeoffer/cashoffer-platform/pkg/logging"
)

const (
	businessOpenHour  = 9
	businessCloseHour = 18
	slotLength        = 30 * time.Minute
	defaultWindowDays = 14
)

// AppointmentLister is the slice of the CRM client the scheduler needs.
type AppointmentLister interface {
	ListAppointments(ctx context.Context, start, end time.Time) ([]crm.Appointment, error)
}

// Slot is one bookable half-hour window, expressed in the caller's timezone.
type Slot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Day groups a calendar date's open slots.
type Day struct {
	Date  string `json:"date"`
	Slots []Slot `json:"slots"`
}

// Service computes available slots.
type Service struct {
	crm        AppointmentLister
	logger     *logging.Logger
	windowDays int
	slotLength time.Duration
	now        func() time.Time
}

// NewService creates a scheduling service. The CRM lister may be nil; the
// calendar is then fully open.
func NewService(lister AppointmentLister, windowDays int, slotMinutes int, logger *logging.Logger) *Service {
	if windowDays <= 0 {
		windowDays = defaultWindowDays
	}
	length := time.Duration(slotMinutes) * time.Minute
	if length <= 0 {
		length = slotLength
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		crm:        lister,
		logger:     logger,
		windowDays: windowDays,
		slotLength: length,
		now:        time.Now,
	}
}

// AvailableSlots returns open weekday slots for the next window, localized
// to loc. Slots in the past and slots overlapping booked CRM appointments
// are excluded. A CRM outage degrades to the full calendar rather than an
// empty one.
func (s *Service) AvailableSlots(ctx context.Context, loc *time.Location) []Day {
	if loc == nil {
		loc = time.UTC
	}
	now := s.now().In(loc)
	windowEnd := now.AddDate(0, 0, s.windowDays)

	booked := s.bookedAppointments(ctx, now, windowEnd)

	var days []Day
	for offset := 0; offset < s.windowDays; offset++ {
		date := now.AddDate(0, 0, offset)
		if date.Weekday() == time.Saturday || date.Weekday() == time.Sunday {
			continue
		}

		day := Day{Date: date.Format("2006-01-02")}
		open := time.Date(date.Year(), date.Month(), date.Day(), businessOpenHour, 0, 0, 0, loc)
		closing := time.Date(date.Year(), date.Month(), date.Day(), businessCloseHour, 0, 0, 0, loc)

		for start := open; !start.Add(s.slotLength).After(closing); start = start.Add(s.slotLength) {
			if !start.After(now) {
				continue
			}
			if overlapsAny(start, start.Add(s.slotLength), booked) {
				continue
			}
			day.Slots = append(day.Slots, Slot{Start: start, End: start.Add(s.slotLength)})
		}

		if len(day.Slots) > 0 {
			days = append(days, day)
		}
	}
	return days
}

func (s *Service) bookedAppointments(ctx context.Context, start, end time.Time) []crm.Appointment {
	if s.crm == nil {
		return nil
	}
	booked, err := s.crm.ListAppointments(ctx, start, end)
	if err != nil {
		s.logger.Warn("appointment listing failed, showing full calendar", "error", err)
		return nil
	}
	return booked
}

func overlapsAny(start, end time.Time, booked []crm.Appointment) bool {
	for _, appt := range booked {
		if start.Before(appt.EndTime) && appt.StartTime.Before(end) {
			return true
		}
	}
	return false
}
