package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type constSource uint64

func (c constSource) Uint64() uint64 { return uint64(c) }

func TestDefaultTemplateTimes(t *testing.T) {
	times := DefaultTemplate().Times()
	want := []string{
		"09:00", "09:30", "10:00", "10:30", "11:00", "11:30",
		"14:00", "14:30", "15:00", "15:30", "16:00", "16:30", "17:00", "17:30",
	}
	assert.Equal(t, want, times)
	assert.Equal(t, 14, DefaultTemplate().Size())
}

func TestGenerateSkipsWeekends(t *testing.T) {
	gen := NewSeededGenerator(7)
	start := time.Date(2026, 1, 1, 15, 4, 0, 0, time.UTC)

	for offset := 0; offset < 30; offset++ {
		for _, days := range []int{1, 2, 5, 14, 31} {
			for _, day := range gen.Generate(start.AddDate(0, 0, offset), days) {
				wd := day.Date.Weekday()
				require.NotEqual(t, time.Saturday, wd, "saturday emitted for %s", day.Date)
				require.NotEqual(t, time.Sunday, wd, "sunday emitted for %s", day.Date)
			}
		}
	}
}

func TestGenerateSlotLayout(t *testing.T) {
	gen := NewSeededGenerator(11)
	template := DefaultTemplate().Times()

	// Monday 2026-10-19 through Sunday 2026-11-01: ten business days.
	days := gen.Generate(time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC), 14)
	require.Len(t, days, 10)

	for _, day := range days {
		require.Len(t, day.Slots, 14)
		assert.Equal(t, 0, day.Date.Hour(), "dates are truncated to midnight")
		for i, slot := range day.Slots {
			assert.Equal(t, template[i], slot.Time)
			if i > 0 {
				assert.Less(t, day.Slots[i-1].Time, slot.Time)
			}
		}
	}
}

func TestGenerateWeekendOnlyWindowIsEmpty(t *testing.T) {
	gen := NewSeededGenerator(1)
	saturday := time.Date(2026, 10, 24, 0, 0, 0, 0, time.UTC)

	days := gen.Generate(saturday, 2)
	require.NotNil(t, days)
	assert.Empty(t, days)
	assert.Empty(t, gen.Generate(saturday, 0))
}

func TestSeededGeneratorIsDeterministic(t *testing.T) {
	start := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	a := NewSeededGenerator(99).Generate(start, 14)
	b := NewSeededGenerator(99).Generate(start, 14)
	assert.Equal(t, a, b)
}

func TestGenerateUsesInjectedSource(t *testing.T) {
	monday := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

	allOpen := NewGenerator(constSource(0)).Generate(monday, 1)
	require.Len(t, allOpen, 1)
	assert.Equal(t, 14, allOpen[0].AvailableCount())
	assert.True(t, allOpen[0].HasAvailable())

	allClosed := NewGenerator(constSource(^uint64(0))).Generate(monday, 1)
	require.Len(t, allClosed, 1)
	assert.Equal(t, 0, allClosed[0].AvailableCount())
	assert.False(t, allClosed[0].HasAvailable())
}

func TestGenerateAvailabilityRate(t *testing.T) {
	gen := NewSeededGenerator(2024)
	days := gen.Generate(time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), 700)

	total, open := 0, 0
	for _, day := range days {
		total += len(day.Slots)
		open += day.AvailableCount()
	}
	rate := float64(open) / float64(total)
	assert.InDelta(t, DefaultAvailableProbability, rate, 0.05)
}

func TestDaySchedule_Slot(t *testing.T) {
	day := DaySchedule{Slots: []TimeSlot{{Time: "09:00", Available: true}, {Time: "09:30"}}}

	slot, ok := day.Slot("09:30")
	assert.True(t, ok)
	assert.False(t, slot.Available)

	_, ok = day.Slot("12:00")
	assert.False(t, ok)
}

func TestDateHelpers(t *testing.T) {
	paris, err := time.LoadLocation("Europe/Paris")
	require.NoError(t, err)

	ts := time.Date(2026, 3, 29, 23, 30, 0, 0, paris)
	assert.Equal(t, time.Date(2026, 3, 29, 0, 0, 0, 0, paris), DateOnly(ts))
	assert.True(t, SameDay(ts, DateOnly(ts)))
	assert.False(t, IsBusinessDay(ts), "2026-03-29 is a Sunday")
	assert.True(t, IsBusinessDay(ts.AddDate(0, 0, 1)))
}
