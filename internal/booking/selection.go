package booking

import (
	"encoding/json"
	"fmt"
	"time"
)

// State names the three slot-selection states.
type State string

const (
	StateNoDate      State = "no_date_selected"
	StateDate        State = "date_selected"
	StateDateAndTime State = "date_and_time_selected"
)

// Selection is a tagged variant: NoDate, DateOnly(date) or DateAndTime(date, time).
// Its fields are unexported so a time can never exist without a date.
type Selection struct {
	state State
	date  time.Time
	time  string
}

// NoSelection is the initial state.
func NoSelection() Selection {
	return Selection{state: StateNoDate}
}

// DateOnly selects a day without a time.
func DateOnly(date time.Time) Selection {
	return Selection{state: StateDate, date: date}
}

// DateAndTime selects a day and one of its slots.
func DateAndTime(date time.Time, hhmm string) Selection {
	return Selection{state: StateDateAndTime, date: date, time: hhmm}
}

// State reports the variant. The zero Selection is NoDate.
func (s Selection) State() State {
	if s.state == "" {
		return StateNoDate
	}
	return s.state
}

// Date returns the selected day, if any.
func (s Selection) Date() (time.Time, bool) {
	if s.State() == StateNoDate {
		return time.Time{}, false
	}
	return s.date, true
}

// Time returns the selected slot, if any.
func (s Selection) Time() (string, bool) {
	if s.State() != StateDateAndTime {
		return "", false
	}
	return s.time, true
}

// WithoutTime drops the time component, keeping the date.
func (s Selection) WithoutTime() Selection {
	if s.State() == StateDateAndTime {
		return DateOnly(s.date)
	}
	return s
}

type selectionJSON struct {
	State State      `json:"state"`
	Date  *time.Time `json:"date,omitempty"`
	Time  string     `json:"time,omitempty"`
}

func (s Selection) MarshalJSON() ([]byte, error) {
	out := selectionJSON{State: s.State()}
	if d, ok := s.Date(); ok {
		out.Date = &d
	}
	if t, ok := s.Time(); ok {
		out.Time = t
	}
	return json.Marshal(out)
}

func (s *Selection) UnmarshalJSON(data []byte) error {
	var in selectionJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	switch in.State {
	case "", StateNoDate:
		*s = NoSelection()
	case StateDate:
		if in.Date == nil {
			return fmt.Errorf("booking: %s selection without date", in.State)
		}
		*s = DateOnly(*in.Date)
	case StateDateAndTime:
		if in.Date == nil || in.Time == "" {
			return fmt.Errorf("booking: %s selection missing date or time", in.State)
		}
		*s = DateAndTime(*in.Date, in.Time)
	default:
		return fmt.Errorf("booking: unknown selection state %q", in.State)
	}
	return nil
}
