package booking

import (
	"time"

	"github.com/lexconsult/marketplace/internal/availability"
)

// WindowDays is the span shown at once: two calendar weeks.
const WindowDays = 14

// ScheduleSource produces the day schedules for a window.
type ScheduleSource interface {
	Generate(start time.Time, days int) []availability.DaySchedule
}

// WeekPolicy decides what happens to a selection when the displayed weeks change.
type WeekPolicy string

const (
	// WeekPolicyClearOutside drops a selection whose day is no longer displayed,
	// and drops a selected time whose slot is no longer available.
	WeekPolicyClearOutside WeekPolicy = "clear"
	// WeekPolicyKeep leaves the selection untouched.
	WeekPolicyKeep WeekPolicy = "keep"
)

// ParseWeekPolicy maps a config value to a policy, defaulting to WeekPolicyClearOutside.
func ParseWeekPolicy(raw string) WeekPolicy {
	if WeekPolicy(raw) == WeekPolicyKeep {
		return WeekPolicyKeep
	}
	return WeekPolicyClearOutside
}

// Session is the state of one booking view: the displayed weeks and the
// visitor's selection.
type Session struct {
	ID               string                     `json:"id"`
	ConsultationType ConsultationType           `json:"consultation_type"`
	LawyerID         string                     `json:"lawyer_id,omitempty"`
	WeekOffset       int                        `json:"week_offset"`
	Anchor           time.Time                  `json:"anchor"`
	Days             []availability.DaySchedule `json:"days"`
	Selection        Selection                  `json:"selection"`
	CreatedAt        time.Time                  `json:"created_at"`
	Version          int                        `json:"version"`
}

// NewSession opens a session on the two weeks starting today with nothing selected.
func NewSession(id string, ct ConsultationType, lawyerID string, today time.Time, src ScheduleSource) *Session {
	anchor := availability.DateOnly(today)
	return &Session{
		ID:               id,
		ConsultationType: ct,
		LawyerID:         lawyerID,
		Anchor:           anchor,
		Days:             src.Generate(anchor, WindowDays),
		Selection:        NoSelection(),
		CreatedAt:        today,
	}
}

// SelectWeek regenerates the window anchored at today + offset*7 days.
func (s *Session) SelectWeek(offset int, today time.Time, src ScheduleSource, policy WeekPolicy) error {
	if offset < 0 {
		return ErrWeekOutOfRange
	}
	s.WeekOffset = offset
	s.Anchor = availability.DateOnly(today).AddDate(0, 0, offset*7)
	s.Days = src.Generate(s.Anchor, WindowDays)

	if policy == WeekPolicyKeep {
		return nil
	}
	date, ok := s.Selection.Date()
	if !ok {
		return nil
	}
	day, ok := s.day(date)
	if !ok || !day.HasAvailable() {
		s.Selection = NoSelection()
		return nil
	}
	if hhmm, ok := s.Selection.Time(); ok {
		if slot, found := day.Slot(hhmm); !found || !slot.Available {
			s.Selection = s.Selection.WithoutTime()
		}
	}
	return nil
}

// SelectDate moves to DateOnly(date). The previously selected time is dropped
// before any check, so it is cleared even when the new date is rejected.
func (s *Session) SelectDate(date, today time.Time) error {
	s.Selection = s.Selection.WithoutTime()

	if availability.DateOnly(date).Before(availability.DateOnly(today)) {
		return ErrDateInPast
	}
	day, ok := s.day(date)
	if !ok {
		return ErrDateNotVisible
	}
	if !day.HasAvailable() {
		return ErrNoAvailableSlots
	}
	s.Selection = DateOnly(day.Date)
	return nil
}

// SelectTime moves to DateAndTime when hhmm is an available slot of the selected day.
func (s *Session) SelectTime(hhmm string) error {
	date, ok := s.Selection.Date()
	if !ok {
		return ErrNoDateSelected
	}
	day, ok := s.day(date)
	if !ok {
		return ErrDateNotVisible
	}
	slot, ok := day.Slot(hhmm)
	if !ok || !slot.Available {
		return ErrSlotUnavailable
	}
	s.Selection = DateAndTime(day.Date, hhmm)
	return nil
}

// Continue returns the handoff once a date and time are chosen. The second
// result is false, and nothing happens, in any other state.
func (s *Session) Continue() (Handoff, bool) {
	hhmm, ok := s.Selection.Time()
	if !ok {
		return Handoff{}, false
	}
	date, _ := s.Selection.Date()
	return Handoff{
		ConsultationType: s.ConsultationType,
		LawyerID:         s.LawyerID,
		Date:             date.Format(ISODate),
		Time:             hhmm,
	}, true
}

// SelectedDay returns the schedule of the selected date when it is displayed.
func (s *Session) SelectedDay() (availability.DaySchedule, bool) {
	date, ok := s.Selection.Date()
	if !ok {
		return availability.DaySchedule{}, false
	}
	return s.day(date)
}

// HasAvailableDay is false when no displayed day can be booked.
func (s *Session) HasAvailableDay() bool {
	for _, day := range s.Days {
		if day.HasAvailable() {
			return true
		}
	}
	return false
}

func (s *Session) day(date time.Time) (availability.DaySchedule, bool) {
	for _, day := range s.Days {
		if availability.SameDay(day.Date, date) {
			return day, true
		}
	}
	return availability.DaySchedule{}, false
}
