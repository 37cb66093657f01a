package directory

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/lexconsult/marketplace/pkg/logging"
)

// Handler serves the directory search page.
type Handler struct {
	source Source
	logger *logging.Logger
}

// NewHandler creates a directory handler.
func NewHandler(source Source, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{source: source, logger: logger}
}

// Routes mounts the directory endpoints.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.Search)
	r.Get("/facets", h.Facets)
	r.Get("/{lawyerID}", h.GetLawyer)
	return r
}

// SearchResponse is the result list. Empty results carry a reset link instead of an error.
type SearchResponse struct {
	Lawyers []Lawyer `json:"lawyers"`
	Count   int      `json:"count"`
	Total   int      `json:"total"`
	Filter  Filter   `json:"filter"`
	Sort    SortKey  `json:"sort,omitempty"`
	Empty   bool     `json:"empty"`
	Reset   string   `json:"reset,omitempty"`
}

// Search handles GET /api/lawyers
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	filter, err := FilterFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	sortKey := ParseSortKey(r.URL.Query().Get("sort"))

	all, err := h.source.All(r.Context())
	if err != nil {
		h.logger.Error("failed to load directory", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load directory")
		return
	}

	matched := Sort(Apply(all, filter), sortKey)
	resp := SearchResponse{
		Lawyers: matched,
		Count:   len(matched),
		Total:   len(all),
		Filter:  filter,
		Sort:    sortKey,
		Empty:   len(matched) == 0,
	}
	if resp.Empty && !filter.IsZero() {
		resp.Reset = r.URL.Path
	}
	writeJSON(w, http.StatusOK, resp)
}

// Facets handles GET /api/lawyers/facets
func (h *Handler) Facets(w http.ResponseWriter, r *http.Request) {
	all, err := h.source.All(r.Context())
	if err != nil {
		h.logger.Error("failed to load directory", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load directory")
		return
	}
	writeJSON(w, http.StatusOK, BuildFacets(all))
}

// GetLawyer handles GET /api/lawyers/{lawyerID}
func (h *Handler) GetLawyer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "lawyerID")
	lawyer, err := h.source.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrLawyerNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		h.logger.Error("failed to load lawyer", "error", err, "lawyer_id", id)
		writeError(w, http.StatusInternalServerError, "failed to load lawyer")
		return
	}
	writeJSON(w, http.StatusOK, lawyer)
}

// FilterFromQuery reads q, city, specialty, min_rating and legal_aid.
func FilterFromQuery(r *http.Request) (Filter, error) {
	q := r.URL.Query()
	f := Filter{
		Query:     strings.TrimSpace(q.Get("q")),
		City:      strings.TrimSpace(q.Get("city")),
		Specialty: strings.TrimSpace(q.Get("specialty")),
	}
	if raw := strings.TrimSpace(q.Get("min_rating")); raw != "" {
		rating, err := strconv.ParseFloat(raw, 64)
		if err != nil || rating < 0 || rating > 5 {
			return Filter{}, errors.New("min_rating must be a number between 0 and 5")
		}
		f.MinRating = rating
	}
	switch strings.ToLower(strings.TrimSpace(q.Get("legal_aid"))) {
	case "1", "true", "on", "yes":
		f.RequireLegalAid = true
	}
	return f, nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
