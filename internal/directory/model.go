// Package directory serves the lawyer directory and its search filters.
package directory

import (
	"errors"
	"strings"
)

// ErrLawyerNotFound is returned when a lawyer id is unknown
var ErrLawyerNotFound = errors.New("lawyer not found")

// Lawyer is a directory entry. Entries are read-only.
type Lawyer struct {
	ID              string   `json:"id"`
	FirstName       string   `json:"first_name"`
	LastName        string   `json:"last_name"`
	City            string   `json:"city"`
	Specialties     []string `json:"specialties"`
	Rating          float64  `json:"rating"`
	ReviewCount     int      `json:"review_count"`
	ExperienceYears int      `json:"experience_years"`
	AcceptsLegalAid bool     `json:"accepts_legal_aid"`
}

// Filter describes the directory search form. Zero values impose no constraint.
type Filter struct {
	Query           string  `json:"q,omitempty"`
	City            string  `json:"city,omitempty"`
	Specialty       string  `json:"specialty,omitempty"`
	MinRating       float64 `json:"min_rating,omitempty"`
	RequireLegalAid bool    `json:"legal_aid,omitempty"`
}

// IsZero reports whether the filter matches everything.
func (f Filter) IsZero() bool {
	return strings.TrimSpace(f.Query) == "" &&
		strings.TrimSpace(f.City) == "" &&
		strings.TrimSpace(f.Specialty) == "" &&
		f.MinRating <= 0 &&
		!f.RequireLegalAid
}
