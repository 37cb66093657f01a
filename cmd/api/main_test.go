package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSetupMetricsExposesMetrics(t *testing.T) {
	handler, m := setupMetrics()
	if handler == nil || m == nil {
		t.Fatalf("expected non-nil handler and metrics")
	}

	m.booking.ObserveSessionStarted("visio")
	m.backend.ObserveRequest("confirm_email", "ok", 0.05)
	m.payments.ObserveCompletion("subscribed")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	body := rr.Body.String()
	for _, name := range []string{
		"lexconsult_booking_sessions_started_total",
		"lexconsult_backend_requests_total",
		"lexconsult_payments_completions_total",
		"go_goroutines",
	} {
		if !strings.Contains(body, name) {
			t.Fatalf("expected %s to be exported", name)
		}
	}
}

func TestSetupMetricsUsesFreshRegistry(t *testing.T) {
	// MustRegister would panic on a shared registry.
	setupMetrics()
	setupMetrics()
}
