package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "lexconsult"

// BookingMetrics exposes counters for the slot-selection flow.
type BookingMetrics struct {
	sessionsStarted *prometheus.CounterVec
	transitions     *prometheus.CounterVec
	handoffs        *prometheus.CounterVec
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		sessionsStarted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "booking",
			Name:      "sessions_started_total",
			Help:      "Booking sessions opened, by consultation type",
		}, []string{"consultation_type"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "booking",
			Name:      "transitions_total",
			Help:      "Slot-selection transitions, by event and result",
		}, []string{"event", "result"}),
		handoffs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "booking",
			Name:      "handoffs_total",
			Help:      "Completed selections handed to the booking form",
		}, []string{"consultation_type"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.sessionsStarted, m.transitions, m.handoffs)
	return m
}

func (m *BookingMetrics) ObserveSessionStarted(consultationType string) {
	if m == nil {
		return
	}
	m.sessionsStarted.WithLabelValues(consultationType).Inc()
}

// ObserveTransition records an event ("week", "date", "time", "continue") and
// whether it was accepted.
func (m *BookingMetrics) ObserveTransition(event string, accepted bool) {
	if m == nil {
		return
	}
	result := "rejected"
	if accepted {
		result = "accepted"
	}
	m.transitions.WithLabelValues(event, result).Inc()
}

func (m *BookingMetrics) ObserveHandoff(consultationType string) {
	if m == nil {
		return
	}
	m.handoffs.WithLabelValues(consultationType).Inc()
}

// BackendMetrics tracks calls to the marketplace REST backend.
type BackendMetrics struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

func NewBackendMetrics(reg prometheus.Registerer) *BackendMetrics {
	m := &BackendMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "backend",
			Name:      "requests_total",
			Help:      "Backend REST calls, by operation and outcome",
		}, []string{"operation", "outcome"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "backend",
			Name:      "request_duration_seconds",
			Help:      "Latency of backend REST calls",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.requests, m.latency)
	return m
}

// ObserveRequest records one call. outcome is one of ok, http_error, transport_error, error.
func (m *BackendMetrics) ObserveRequest(operation, outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(operation, outcome).Inc()
	m.latency.WithLabelValues(operation).Observe(seconds)
}

// PaymentMetrics tracks subscription completion outcomes.
type PaymentMetrics struct {
	completions *prometheus.CounterVec
}

func NewPaymentMetrics(reg prometheus.Registerer) *PaymentMetrics {
	m := &PaymentMetrics{
		completions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "payments",
			Name:      "completions_total",
			Help:      "GoCardless subscription completions, by outcome",
		}, []string{"outcome"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.completions)
	return m
}

func (m *PaymentMetrics) ObserveCompletion(outcome string) {
	if m == nil {
		return
	}
	m.completions.WithLabelValues(outcome).Inc()
}
