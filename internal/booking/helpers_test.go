package booking

import (
	"time"

	"github.com/lexconsult/marketplace/internal/availability"
)

// Wednesday, 10:00 UTC.
var testNow = time.Date(2026, 10, 21, 10, 0, 0, 0, time.UTC)

func day(d int) time.Time {
	return time.Date(2026, 10, d, 0, 0, 0, 0, time.UTC)
}

// fakeSchedules opens every slot except the closed days and blocked "YYYY-MM-DD HH:MM" slots.
// Blocked slots listed in blockedAfter only apply from the second Generate call on.
type fakeSchedules struct {
	closed       map[string]bool
	blocked      map[string]bool
	blockedAfter map[string]bool
	calls        int
}

func (f *fakeSchedules) Generate(start time.Time, days int) []availability.DaySchedule {
	f.calls++
	times := availability.DefaultTemplate().Times()
	out := make([]availability.DaySchedule, 0, days)
	first := availability.DateOnly(start)
	for i := 0; i < days; i++ {
		d := first.AddDate(0, 0, i)
		if !availability.IsBusinessDay(d) {
			continue
		}
		key := d.Format(ISODate)
		slots := make([]availability.TimeSlot, len(times))
		for j, hhmm := range times {
			open := !f.closed[key] && !f.blocked[key+" "+hhmm]
			if f.calls > 1 && f.blockedAfter[key+" "+hhmm] {
				open = false
			}
			slots[j] = availability.TimeSlot{Time: hhmm, Available: open}
		}
		out = append(out, availability.DaySchedule{Date: d, Slots: slots})
	}
	return out
}
