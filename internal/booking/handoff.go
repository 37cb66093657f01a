package booking

import (
	"net/url"
	"strings"
)

// ISODate is the date layout carried by the handoff.
const ISODate = "2006-01-02"

// Handoff is what the booking form page receives once a date and time are chosen.
type Handoff struct {
	ConsultationType ConsultationType `json:"consultation_type"`
	LawyerID         string           `json:"lawyer_id,omitempty"`
	Date             string           `json:"date"`
	Time             string           `json:"time"`
}

// Query encodes the handoff as URL query parameters.
func (h Handoff) Query() url.Values {
	q := url.Values{}
	q.Set("type", string(h.ConsultationType))
	q.Set("date", h.Date)
	q.Set("time", h.Time)
	if h.LawyerID != "" {
		q.Set("lawyer", h.LawyerID)
	}
	return q
}

// URL appends the query to formPath.
func (h Handoff) URL(formPath string) string {
	sep := "?"
	if strings.Contains(formPath, "?") {
		sep = "&"
	}
	return formPath + sep + h.Query().Encode()
}
