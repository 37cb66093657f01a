package booking

import "errors"

var (
	// ErrInvalidConsultationType is returned for a consultation type outside cabinet/visio/telephone
	ErrInvalidConsultationType = errors.New("invalid consultation type")

	// ErrSessionNotFound is returned when a session id is unknown or expired
	ErrSessionNotFound = errors.New("booking session not found")

	// ErrSessionConflict is returned when a session changed between load and save
	ErrSessionConflict = errors.New("booking session was modified concurrently")

	ErrInvalidDate = errors.New("date must use the YYYY-MM-DD format")
	ErrInvalidTime = errors.New("time must use the HH:MM format")

	// Slot-selection rejections. The session keeps its previous selection,
	// except that a date change always drops the selected time.
	ErrWeekOutOfRange   = errors.New("week offset cannot be negative")
	ErrDateInPast       = errors.New("date is in the past")
	ErrDateNotVisible   = errors.New("date is not in the displayed weeks")
	ErrNoAvailableSlots = errors.New("date has no available slot")
	ErrNoDateSelected   = errors.New("select a date before choosing a time")
	ErrSlotUnavailable  = errors.New("time slot is not available")
)

// IsRejection reports whether err is a slot-selection rule violation rather
// than a lookup or storage failure.
func IsRejection(err error) bool {
	for _, target := range []error{
		ErrWeekOutOfRange, ErrDateInPast, ErrDateNotVisible,
		ErrNoAvailableSlots, ErrNoDateSelected, ErrSlotUnavailable,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
