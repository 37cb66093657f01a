package accounts

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexconsult/marketplace/internal/backend"
	"github.com/lexconsult/marketplace/pkg/logging"
)

func newBackend(t *testing.T, handler http.HandlerFunc) (*backend.Client, *int32) {
	t.Helper()
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		handler(w, r)
	}))
	t.Cleanup(ts.Close)
	return backend.NewClient(ts.URL, time.Second, nil, logging.New("error")), &calls
}

func TestConfirm_SuccessIssuesSingleCall(t *testing.T) {
	client, calls := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/confirm", r.URL.Path)
		assert.Equal(t, "abc123", r.URL.Query().Get("token"))
		w.WriteHeader(http.StatusOK)
	})

	result := NewConfirmer(client, logging.New("error")).Confirm(context.Background(), "abc123")

	assert.True(t, result.Confirmed)
	assert.Equal(t, MessageEmailConfirmed, result.Message)
	assert.Empty(t, result.Error)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
}

func TestConfirm_SurfacesBackendDetail(t *testing.T) {
	client, calls := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"detail":"expired"}`))
	})

	result := NewConfirmer(client, logging.New("error")).Confirm(context.Background(), "abc123")

	assert.False(t, result.Confirmed)
	assert.Equal(t, "expired", result.Error)
	assert.Equal(t, http.StatusBadRequest, result.Status)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
}

func TestConfirm_GenericMessageWithoutDetail(t *testing.T) {
	client, _ := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	result := NewConfirmer(client, logging.New("error")).Confirm(context.Background(), "abc123")

	assert.False(t, result.Confirmed)
	assert.Equal(t, MessageConfirmationFailed, result.Error)
}

type countingConfirmer struct {
	calls int
	err   error
}

func (c *countingConfirmer) ConfirmEmail(context.Context, string) error {
	c.calls++
	return c.err
}

func TestConfirm_EmptyTokenMakesNoCall(t *testing.T) {
	fake := &countingConfirmer{}
	result := NewConfirmer(fake, nil).Confirm(context.Background(), "   ")

	assert.False(t, result.Confirmed)
	assert.Equal(t, MessageMissingToken, result.Error)
	assert.Zero(t, fake.calls)
}

func TestConfirm_TransportErrorUsesGenericMessage(t *testing.T) {
	fake := &countingConfirmer{err: errors.New("dial tcp: connection refused")}
	result := NewConfirmer(fake, nil).Confirm(context.Background(), "abc123")

	assert.Equal(t, MessageConfirmationFailed, result.Error)
	assert.Zero(t, result.Status)
	assert.Equal(t, 1, fake.calls)
}

func TestConfirmHandler_StatusCodes(t *testing.T) {
	cases := []struct {
		name   string
		query  string
		err    error
		status int
	}{
		{name: "confirmed", query: "?token=abc123", status: http.StatusOK},
		{name: "missing token", query: "", status: http.StatusBadRequest},
		{name: "expired", query: "?token=abc123", err: &backend.APIError{Status: 400, Detail: "expired"}, status: http.StatusBadRequest},
		{name: "gone", query: "?token=abc123", err: &backend.APIError{Status: 410}, status: http.StatusGone},
		{name: "backend down", query: "?token=abc123", err: errors.New("timeout"), status: http.StatusBadGateway},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fake := &countingConfirmer{err: tc.err}
			h := NewHandler(NewConfirmer(fake, nil), nil, nil)

			rec := httptest.NewRecorder()
			h.ConfirmEmail(rec, httptest.NewRequest(http.MethodGet, "/api/auth/confirm"+tc.query, nil))

			require.Equal(t, tc.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		})
	}
}
