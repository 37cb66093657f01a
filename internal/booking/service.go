package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lexconsult/marketplace/internal/observability/metrics"
	"github.com/lexconsult/marketplace/pkg/logging"
)

// Options tunes a Service.
type Options struct {
	Policy     WeekPolicy
	SessionTTL time.Duration
	Location   *time.Location
	FormPath   string
	Now        func() time.Time
	Metrics    *metrics.BookingMetrics
}

// Service runs slot-selection transitions against stored sessions.
type Service struct {
	store     Store
	schedules ScheduleSource
	policy    WeekPolicy
	ttl       time.Duration
	loc       *time.Location
	formPath  string
	now       func() time.Time
	metrics   *metrics.BookingMetrics
	logger    *logging.Logger
	locks     *sessionLocks
}

// NewService constructs a booking service.
func NewService(store Store, schedules ScheduleSource, opts Options, logger *logging.Logger) *Service {
	if store == nil {
		panic("booking: store required")
	}
	if schedules == nil {
		panic("booking: schedule source required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Policy == "" {
		opts.Policy = WeekPolicyClearOutside
	}
	if opts.FormPath == "" {
		opts.FormPath = "/reservation/formulaire"
	}
	return &Service{
		store:     store,
		schedules: schedules,
		policy:    opts.Policy,
		ttl:       opts.SessionTTL,
		loc:       opts.Location,
		formPath:  opts.FormPath,
		now:       opts.Now,
		metrics:   opts.Metrics,
		logger:    logger,
		locks:     newSessionLocks(),
	}
}

// FormPath is the page that receives the handoff.
func (s *Service) FormPath() string {
	return s.formPath
}

// Today is the current date in the booking time zone.
func (s *Service) Today() time.Time {
	return s.now().In(s.loc)
}

// Start opens a session for a consultation type given as a raw value.
func (s *Service) Start(ctx context.Context, rawType, lawyerID string) (*Session, error) {
	ct, err := ParseConsultationType(rawType)
	if err != nil {
		return nil, err
	}
	session := NewSession(uuid.NewString(), ct, strings.TrimSpace(lawyerID), s.Today(), s.schedules)
	if err := s.store.Save(ctx, session, s.ttl); err != nil {
		return nil, err
	}
	s.metrics.ObserveSessionStarted(string(ct))
	s.logger.Info("booking session started",
		"session_id", session.ID,
		"consultation_type", ct,
		"available_days", countAvailableDays(session),
	)
	return session, nil
}

// Get loads a session.
func (s *Service) Get(ctx context.Context, id string) (*Session, error) {
	return s.store.Get(ctx, id)
}

// Abandon deletes a session when the visitor leaves the booking view.
func (s *Service) Abandon(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

// SelectWeek shows the two weeks starting offset weeks from today.
func (s *Service) SelectWeek(ctx context.Context, id string, offset int) (*Session, error) {
	return s.transition(ctx, id, "week", func(session *Session) error {
		return session.SelectWeek(offset, s.Today(), s.schedules, s.policy)
	})
}

// SelectDate selects a day given as YYYY-MM-DD.
func (s *Service) SelectDate(ctx context.Context, id, rawDate string) (*Session, error) {
	date, err := time.ParseInLocation(ISODate, strings.TrimSpace(rawDate), s.loc)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDate, rawDate)
	}
	return s.transition(ctx, id, "date", func(session *Session) error {
		return session.SelectDate(date, s.Today())
	})
}

// SelectTime selects a slot given as HH:MM on the selected day.
func (s *Service) SelectTime(ctx context.Context, id, rawTime string) (*Session, error) {
	hhmm := strings.TrimSpace(rawTime)
	if _, err := time.Parse("15:04", hhmm); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTime, rawTime)
	}
	return s.transition(ctx, id, "time", func(session *Session) error {
		return session.SelectTime(hhmm)
	})
}

// Continue returns the handoff for a complete selection; ok is false otherwise.
func (s *Service) Continue(ctx context.Context, id string) (Handoff, bool, error) {
	session, err := s.store.Get(ctx, id)
	if err != nil {
		return Handoff{}, false, err
	}
	handoff, ok := session.Continue()
	s.metrics.ObserveTransition("continue", ok)
	if !ok {
		return Handoff{}, false, nil
	}
	s.metrics.ObserveHandoff(string(handoff.ConsultationType))
	s.logger.Info("booking handoff",
		"session_id", id,
		"consultation_type", handoff.ConsultationType,
		"date", handoff.Date,
		"time", handoff.Time,
	)
	return handoff, true, nil
}

// transition applies fn and persists the session. The session is saved even
// when fn rejects the event because a date change may already have cleared
// the selected time. Transitions on one session run one at a time; a write
// from another process in between surfaces as ErrSessionConflict.
func (s *Service) transition(ctx context.Context, id, event string, fn func(*Session) error) (*Session, error) {
	unlock := s.locks.lock(id)
	defer unlock()

	session, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	applyErr := fn(session)
	s.metrics.ObserveTransition(event, applyErr == nil)
	if err := s.store.Save(ctx, session, s.ttl); err != nil {
		if errors.Is(err, ErrSessionConflict) {
			s.logger.Warn("booking session conflict", "session_id", id, "event", event)
		}
		return nil, err
	}
	if applyErr != nil {
		s.logger.Debug("booking transition rejected", "session_id", id, "event", event, "error", applyErr)
		return session, applyErr
	}
	return session, nil
}

func countAvailableDays(session *Session) int {
	n := 0
	for _, day := range session.Days {
		if day.HasAvailable() {
			n++
		}
	}
	return n
}
