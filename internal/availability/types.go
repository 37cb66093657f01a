// Package availability builds the synthetic weekday schedules shown by the booking flow.
package availability

import "time"

// TimeSlot is one bookable half hour on a day.
type TimeSlot struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
}

// DaySchedule lists the slots of a single business day in chronological order.
type DaySchedule struct {
	Date  time.Time  `json:"date"`
	Slots []TimeSlot `json:"slots"`
}

// HasAvailable reports whether at least one slot on the day can be booked.
func (d DaySchedule) HasAvailable() bool {
	for _, slot := range d.Slots {
		if slot.Available {
			return true
		}
	}
	return false
}

// AvailableCount returns the number of bookable slots.
func (d DaySchedule) AvailableCount() int {
	n := 0
	for _, slot := range d.Slots {
		if slot.Available {
			n++
		}
	}
	return n
}

// Slot returns the slot starting at hhmm.
func (d DaySchedule) Slot(hhmm string) (TimeSlot, bool) {
	for _, slot := range d.Slots {
		if slot.Time == hhmm {
			return slot, true
		}
	}
	return TimeSlot{}, false
}

// DateOnly truncates t to midnight in its own location.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// SameDay compares calendar dates, ignoring clock time.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// IsBusinessDay is false on Saturday and Sunday.
func IsBusinessDay(t time.Time) bool {
	wd := t.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}
