package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(src ScheduleSource) *Session {
	return NewSession("sess-1", ConsultationVisio, "lawyer-1", testNow, src)
}

func TestNewSessionStartsWithNoDate(t *testing.T) {
	s := newTestSession(&fakeSchedules{})

	assert.Equal(t, StateNoDate, s.Selection.State())
	assert.Equal(t, day(21), s.Anchor)
	assert.Equal(t, 0, s.WeekOffset)
	// 21 Oct through 3 Nov holds ten business days.
	assert.Len(t, s.Days, 10)

	_, ok := s.Continue()
	assert.False(t, ok)
}

func TestSelectDateThenTime(t *testing.T) {
	src := &fakeSchedules{
		closed:  map[string]bool{"2026-10-23": true},
		blocked: map[string]bool{"2026-10-22 10:30": true},
	}

	tests := []struct {
		name      string
		date      int
		time      string
		dateErr   error
		timeErr   error
		wantState State
	}{
		{name: "available date and slot", date: 22, time: "10:00", wantState: StateDateAndTime},
		{name: "same day is allowed", date: 21, time: "17:30", wantState: StateDateAndTime},
		{name: "unavailable slot", date: 22, time: "10:30", timeErr: ErrSlotUnavailable, wantState: StateDate},
		{name: "slot outside template", date: 22, time: "12:00", timeErr: ErrSlotUnavailable, wantState: StateDate},
		{name: "date without availability", date: 23, time: "10:00", dateErr: ErrNoAvailableSlots, timeErr: ErrNoDateSelected, wantState: StateNoDate},
		{name: "past date", date: 20, time: "10:00", dateErr: ErrDateInPast, timeErr: ErrNoDateSelected, wantState: StateNoDate},
		{name: "weekend is not displayed", date: 24, time: "10:00", dateErr: ErrDateNotVisible, timeErr: ErrNoDateSelected, wantState: StateNoDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSession(src)

			err := s.SelectDate(day(tt.date), testNow)
			if tt.dateErr != nil {
				require.ErrorIs(t, err, tt.dateErr)
			} else {
				require.NoError(t, err)
			}

			err = s.SelectTime(tt.time)
			if tt.timeErr != nil {
				require.ErrorIs(t, err, tt.timeErr)
			} else {
				require.NoError(t, err)
			}

			assert.Equal(t, tt.wantState, s.Selection.State())
			if tt.wantState == StateDateAndTime {
				date, _ := s.Selection.Date()
				hhmm, _ := s.Selection.Time()
				assert.Equal(t, day(tt.date), date)
				assert.Equal(t, tt.time, hhmm)
			}
		})
	}
}

func TestRejectedTimeKeepsPreviousSelection(t *testing.T) {
	src := &fakeSchedules{blocked: map[string]bool{"2026-10-22 11:00": true}}
	s := newTestSession(src)

	require.NoError(t, s.SelectDate(day(22), testNow))
	require.NoError(t, s.SelectTime("09:30"))
	require.ErrorIs(t, s.SelectTime("11:00"), ErrSlotUnavailable)

	hhmm, ok := s.Selection.Time()
	require.True(t, ok)
	assert.Equal(t, "09:30", hhmm)
}

func TestSelectDateAlwaysClearsTime(t *testing.T) {
	src := &fakeSchedules{closed: map[string]bool{"2026-10-27": true}}

	for _, next := range []int{20, 22, 23, 24, 27} {
		s := newTestSession(src)
		require.NoError(t, s.SelectDate(day(22), testNow))
		require.NoError(t, s.SelectTime("14:00"))

		_ = s.SelectDate(day(next), testNow)

		_, hasTime := s.Selection.Time()
		assert.False(t, hasTime, "time must be cleared after selecting %d", next)
		assert.NotEqual(t, StateDateAndTime, s.Selection.State())
	}

	s := newTestSession(src)
	require.NoError(t, s.SelectDate(day(22), testNow))
	require.NoError(t, s.SelectTime("14:00"))
	require.ErrorIs(t, s.SelectDate(day(27), testNow), ErrNoAvailableSlots)
	date, ok := s.Selection.Date()
	require.True(t, ok)
	assert.Equal(t, day(22), date, "a rejected date keeps the previous day")
}

func TestSelectWeekRejectsNegativeOffset(t *testing.T) {
	src := &fakeSchedules{}
	s := newTestSession(src)

	require.ErrorIs(t, s.SelectWeek(-1, testNow, src, WeekPolicyClearOutside), ErrWeekOutOfRange)
	assert.Equal(t, 0, s.WeekOffset)
	assert.Equal(t, 1, src.calls)
}

func TestSelectWeekClearPolicy(t *testing.T) {
	src := &fakeSchedules{}
	s := newTestSession(src)
	require.NoError(t, s.SelectDate(day(22), testNow))
	require.NoError(t, s.SelectTime("09:00"))

	require.NoError(t, s.SelectWeek(1, testNow, src, WeekPolicyClearOutside))
	assert.Equal(t, day(28), s.Anchor)
	assert.Equal(t, 1, s.WeekOffset)
	assert.Equal(t, StateNoDate, s.Selection.State(), "22 Oct is no longer displayed")
}

func TestSelectWeekClearPolicyKeepsVisibleSelection(t *testing.T) {
	src := &fakeSchedules{}
	s := newTestSession(src)
	require.NoError(t, s.SelectDate(day(29), testNow))
	require.NoError(t, s.SelectTime("16:00"))

	require.NoError(t, s.SelectWeek(1, testNow, src, WeekPolicyClearOutside))
	assert.Equal(t, StateDateAndTime, s.Selection.State())
}

func TestSelectWeekClearPolicyDropsRegeneratedSlot(t *testing.T) {
	src := &fakeSchedules{blockedAfter: map[string]bool{"2026-10-29 16:00": true}}
	s := newTestSession(src)
	require.NoError(t, s.SelectDate(day(29), testNow))
	require.NoError(t, s.SelectTime("16:00"))

	require.NoError(t, s.SelectWeek(1, testNow, src, WeekPolicyClearOutside))
	assert.Equal(t, StateDate, s.Selection.State())
	date, _ := s.Selection.Date()
	assert.Equal(t, day(29), date)
}

func TestSelectWeekKeepPolicy(t *testing.T) {
	src := &fakeSchedules{}
	s := newTestSession(src)
	require.NoError(t, s.SelectDate(day(22), testNow))
	require.NoError(t, s.SelectTime("09:00"))

	require.NoError(t, s.SelectWeek(2, testNow, src, WeekPolicyKeep))
	assert.Equal(t, day(21).AddDate(0, 0, 14), s.Anchor)
	assert.Equal(t, StateDateAndTime, s.Selection.State())

	_, visible := s.SelectedDay()
	assert.False(t, visible)

	handoff, ok := s.Continue()
	require.True(t, ok)
	assert.Equal(t, "2026-10-22", handoff.Date)
}

func TestContinueBuildsHandoff(t *testing.T) {
	s := newTestSession(&fakeSchedules{})
	require.NoError(t, s.SelectDate(day(22), testNow))

	_, ok := s.Continue()
	assert.False(t, ok, "continue needs a time")

	require.NoError(t, s.SelectTime("10:00"))
	handoff, ok := s.Continue()
	require.True(t, ok)
	assert.Equal(t, Handoff{
		ConsultationType: ConsultationVisio,
		LawyerID:         "lawyer-1",
		Date:             "2026-10-22",
		Time:             "10:00",
	}, handoff)
}

func TestHasAvailableDay(t *testing.T) {
	closed := map[string]bool{}
	for d := 21; d <= 31; d++ {
		closed[day(d).Format(ISODate)] = true
	}
	closed["2026-11-02"] = true
	closed["2026-11-03"] = true

	s := newTestSession(&fakeSchedules{closed: closed})
	assert.False(t, s.HasAvailableDay())
	assert.ErrorIs(t, s.SelectDate(day(22), testNow), ErrNoAvailableSlots)
}

func TestParseWeekPolicy(t *testing.T) {
	assert.Equal(t, WeekPolicyKeep, ParseWeekPolicy("keep"))
	assert.Equal(t, WeekPolicyClearOutside, ParseWeekPolicy("clear"))
	assert.Equal(t, WeekPolicyClearOutside, ParseWeekPolicy(""))
}
