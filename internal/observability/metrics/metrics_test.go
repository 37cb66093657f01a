package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewBookingMetrics(reg)

	m.ObserveSessionStarted("visio")
	m.ObserveTransition("date", true)
	m.ObserveTransition("date", false)
	m.ObserveTransition("date", false)
	m.ObserveHandoff("visio")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.sessionsStarted.WithLabelValues("visio")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.transitions.WithLabelValues("date", "rejected")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.handoffs.WithLabelValues("visio")))
}

func TestBackendMetricsHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewBackendMetrics(reg)
	m.ObserveRequest("auth_confirm", "ok", 0.2)
	m.ObserveRequest("auth_confirm", "http_error", 0.4)

	families, err := reg.Gather()
	require.NoError(t, err)

	var hist *dto.MetricFamily
	for _, f := range families {
		if f.GetName() == "lexconsult_backend_request_duration_seconds" {
			hist = f
		}
	}
	require.NotNil(t, hist)
	require.Len(t, hist.GetMetric(), 1)
	assert.Equal(t, uint64(2), hist.GetMetric()[0].GetHistogram().GetSampleCount())
}

func TestMetricsNilSafe(t *testing.T) {
	var b *BookingMetrics
	b.ObserveSessionStarted("cabinet")
	b.ObserveTransition("week", true)
	b.ObserveHandoff("cabinet")

	var be *BackendMetrics
	be.ObserveRequest("op", "ok", 0.1)

	var p *PaymentMetrics
	p.ObserveCompletion("skipped")
}

func TestPaymentMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewPaymentMetrics(reg)
	m.ObserveCompletion("subscribed")
	m.ObserveCompletion("flow_failed")
	m.ObserveCompletion("subscribed")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.completions.WithLabelValues("subscribed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.completions.WithLabelValues("flow_failed")))
}
