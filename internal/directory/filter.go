package directory

import (
	"sort"
	"strings"
)

// Apply returns the lawyers matching f in their original order.
//
// The free-text query matches, case-insensitively, a substring of any
// specialty, the last name or the first name. City, specialty, minimum rating
// and legal aid are ANDed with it.
func Apply(lawyers []Lawyer, f Filter) []Lawyer {
	query := strings.ToLower(strings.TrimSpace(f.Query))
	city := strings.TrimSpace(f.City)
	specialty := strings.TrimSpace(f.Specialty)

	out := make([]Lawyer, 0, len(lawyers))
	for _, l := range lawyers {
		if query != "" && !matchesQuery(l, query) {
			continue
		}
		if city != "" && !strings.EqualFold(l.City, city) {
			continue
		}
		if specialty != "" && !hasSpecialty(l, specialty) {
			continue
		}
		if f.MinRating > 0 && l.Rating < f.MinRating {
			continue
		}
		if f.RequireLegalAid && !l.AcceptsLegalAid {
			continue
		}
		out = append(out, l)
	}
	return out
}

func matchesQuery(l Lawyer, query string) bool {
	for _, s := range l.Specialties {
		if strings.Contains(strings.ToLower(s), query) {
			return true
		}
	}
	return strings.Contains(strings.ToLower(l.LastName), query) ||
		strings.Contains(strings.ToLower(l.FirstName), query)
}

func hasSpecialty(l Lawyer, specialty string) bool {
	for _, s := range l.Specialties {
		if strings.EqualFold(s, specialty) {
			return true
		}
	}
	return false
}

// SortKey orders a result list.
type SortKey string

const (
	SortNone       SortKey = ""
	SortRating     SortKey = "rating"
	SortExperience SortKey = "experience"
	SortReviews    SortKey = "reviews"
)

// ParseSortKey accepts the known keys and maps anything else to SortNone.
func ParseSortKey(raw string) SortKey {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(raw))); k {
	case SortRating, SortExperience, SortReviews:
		return k
	default:
		return SortNone
	}
}

// Sort returns a copy of lawyers ordered by key, highest first. Ties keep
// their input order. SortNone returns the input order.
func Sort(lawyers []Lawyer, key SortKey) []Lawyer {
	out := make([]Lawyer, len(lawyers))
	copy(out, lawyers)

	var less func(a, b Lawyer) bool
	switch key {
	case SortRating:
		less = func(a, b Lawyer) bool { return a.Rating > b.Rating }
	case SortExperience:
		less = func(a, b Lawyer) bool { return a.ExperienceYears > b.ExperienceYears }
	case SortReviews:
		less = func(a, b Lawyer) bool { return a.ReviewCount > b.ReviewCount }
	default:
		return out
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// Facets are the choices offered by the filter dropdowns.
type Facets struct {
	Cities      []string `json:"cities"`
	Specialties []string `json:"specialties"`
}

// BuildFacets collects the distinct cities and specialties, sorted.
func BuildFacets(lawyers []Lawyer) Facets {
	cities := map[string]struct{}{}
	specialties := map[string]struct{}{}
	for _, l := range lawyers {
		if l.City != "" {
			cities[l.City] = struct{}{}
		}
		for _, s := range l.Specialties {
			specialties[s] = struct{}{}
		}
	}
	return Facets{Cities: sortedKeys(cities), Specialties: sortedKeys(specialties)}
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
