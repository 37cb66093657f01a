package booking

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/lexconsult/marketplace/internal/availability"
	"github.com/lexconsult/marketplace/pkg/logging"
)

// Handler exposes the booking flow over HTTP.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates a booking handler.
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

// Routes mounts the session endpoints.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.StartSession)
	r.Route("/{sessionID}", func(r chi.Router) {
		r.Get("/", h.GetSession)
		r.Delete("/", h.AbandonSession)
		r.Post("/week", h.SelectWeek)
		r.Post("/date", h.SelectDate)
		r.Post("/time", h.SelectTime)
		r.Post("/continue", h.Continue)
	})
	return r
}

// DayView is one displayed day.
type DayView struct {
	Date       string                  `json:"date"`
	Weekday    string                  `json:"weekday"`
	Slots      []availability.TimeSlot `json:"slots"`
	Available  int                     `json:"available"`
	Selectable bool                    `json:"selectable"`
	Selected   bool                    `json:"selected"`
}

// SessionView is the JSON shape of a session as rendered by the booking page.
type SessionView struct {
	ID           string                  `json:"id"`
	Consultation Descriptor              `json:"consultation"`
	LawyerID     string                  `json:"lawyer_id,omitempty"`
	WeekOffset   int                     `json:"week_offset"`
	CanGoBack    bool                    `json:"can_go_back"`
	WindowStart  string                  `json:"window_start"`
	Days         []DayView               `json:"days"`
	Empty        bool                    `json:"empty"`
	State        State                   `json:"state"`
	SelectedDate string                  `json:"selected_date,omitempty"`
	SelectedTime string                  `json:"selected_time,omitempty"`
	DaySlots     []availability.TimeSlot `json:"day_slots,omitempty"`
	CanContinue  bool                    `json:"can_continue"`
}

// NewSessionView derives the view of a session.
func NewSessionView(session *Session, today string) SessionView {
	descriptor, _ := LookupDescriptor(session.ConsultationType)
	view := SessionView{
		ID:           session.ID,
		Consultation: descriptor,
		LawyerID:     session.LawyerID,
		WeekOffset:   session.WeekOffset,
		CanGoBack:    session.WeekOffset > 0,
		WindowStart:  session.Anchor.Format(ISODate),
		Days:         make([]DayView, 0, len(session.Days)),
		Empty:        !session.HasAvailableDay(),
		State:        session.Selection.State(),
	}

	selected, hasDate := session.Selection.Date()
	for _, day := range session.Days {
		date := day.Date.Format(ISODate)
		view.Days = append(view.Days, DayView{
			Date:       date,
			Weekday:    day.Date.Weekday().String(),
			Slots:      day.Slots,
			Available:  day.AvailableCount(),
			Selectable: day.HasAvailable() && date >= today,
			Selected:   hasDate && availability.SameDay(day.Date, selected),
		})
	}
	if hasDate {
		view.SelectedDate = selected.Format(ISODate)
	}
	if hhmm, ok := session.Selection.Time(); ok {
		view.SelectedTime = hhmm
		view.CanContinue = true
	}
	if day, ok := session.SelectedDay(); ok {
		view.DaySlots = day.Slots
	}
	return view
}

type startSessionRequest struct {
	ConsultationType string `json:"consultation_type"`
	LawyerID         string `json:"lawyer_id"`
}

// StartSession handles POST /api/booking/sessions
func (h *Handler) StartSession(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	session, err := h.service.Start(r.Context(), req.ConsultationType, req.LawyerID)
	if err != nil {
		h.handleError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, h.view(session))
}

// GetSession handles GET /api/booking/sessions/{sessionID}
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.service.Get(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		h.handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.view(session))
}

// AbandonSession handles DELETE /api/booking/sessions/{sessionID}
func (h *Handler) AbandonSession(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Abandon(r.Context(), chi.URLParam(r, "sessionID")); err != nil {
		h.handleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SelectWeek handles POST /api/booking/sessions/{sessionID}/week
func (h *Handler) SelectWeek(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Offset int `json:"offset"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	session, err := h.service.SelectWeek(r.Context(), chi.URLParam(r, "sessionID"), req.Offset)
	h.respondTransition(w, session, err)
}

// SelectDate handles POST /api/booking/sessions/{sessionID}/date
func (h *Handler) SelectDate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date string `json:"date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	session, err := h.service.SelectDate(r.Context(), chi.URLParam(r, "sessionID"), req.Date)
	h.respondTransition(w, session, err)
}

// SelectTime handles POST /api/booking/sessions/{sessionID}/time
func (h *Handler) SelectTime(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Time string `json:"time"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	session, err := h.service.SelectTime(r.Context(), chi.URLParam(r, "sessionID"), req.Time)
	h.respondTransition(w, session, err)
}

// ContinueResponse carries the navigation target for the booking form.
type ContinueResponse struct {
	Redirect string  `json:"redirect"`
	Handoff  Handoff `json:"handoff"`
}

// Continue handles POST /api/booking/sessions/{sessionID}/continue
func (h *Handler) Continue(w http.ResponseWriter, r *http.Request) {
	handoff, ok, err := h.service.Continue(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		h.handleError(w, err)
		return
	}
	if !ok {
		writeError(w, http.StatusConflict, "select a date and a time first")
		return
	}
	writeJSON(w, http.StatusOK, ContinueResponse{
		Redirect: handoff.URL(h.service.FormPath()),
		Handoff:  handoff,
	})
}

// ListConsultationTypes handles GET /api/consultation-types
func (h *Handler) ListConsultationTypes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"consultation_types": Descriptors()})
}

// GetConsultationType handles GET /api/consultation-types/{type}
func (h *Handler) GetConsultationType(w http.ResponseWriter, r *http.Request) {
	ct, err := ParseConsultationType(chi.URLParam(r, "type"))
	if err != nil {
		h.handleError(w, err)
		return
	}
	descriptor, _ := LookupDescriptor(ct)
	writeJSON(w, http.StatusOK, descriptor)
}

// respondTransition returns the view on success. A rejected transition still
// returns the (possibly updated) session so the page can re-render.
func (h *Handler) respondTransition(w http.ResponseWriter, session *Session, err error) {
	if err != nil && session != nil && IsRejection(err) {
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":   err.Error(),
			"session": h.view(session),
		})
		return
	}
	if err != nil {
		h.handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.view(session))
}

func (h *Handler) handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrSessionConflict):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, ErrInvalidConsultationType):
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":       ErrInvalidConsultationType.Error(),
			"valid_types": ConsultationTypes(),
		})
	case errors.Is(err, ErrInvalidDate), errors.Is(err, ErrInvalidTime):
		writeError(w, http.StatusBadRequest, err.Error())
	case IsRejection(err):
		writeError(w, http.StatusConflict, err.Error())
	default:
		h.logger.Error("booking request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func (h *Handler) view(session *Session) SessionView {
	return NewSessionView(session, h.service.Today().Format(ISODate))
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": strings.TrimSpace(message)})
}
