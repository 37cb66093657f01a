// Package backend is the REST client for the marketplace backend that owns
// accounts and GoCardless subscriptions.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/lexconsult/marketplace/internal/observability/metrics"
	"github.com/lexconsult/marketplace/pkg/logging"
)

const (
	defaultBaseURL = "http://localhost:8000"
	defaultTimeout = 15 * time.Second
)

// APIError is a non-2xx backend response.
type APIError struct {
	Status int
	// Detail is the JSON "detail" field when the backend sent one as a string.
	Detail string
	Body   string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("backend returned %d: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("backend returned %d", e.Status)
}

// DetailOf returns the backend's detail message carried by err, if any.
func DetailOf(err error) (string, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail, true
	}
	return "", false
}

// Client calls the marketplace backend. It never retries.
type Client struct {
	httpClient *http.Client
	baseURL    string
	metrics    *metrics.BackendMetrics
	logger     *logging.Logger
}

// NewClient constructs a backend client. A zero timeout uses the default.
func NewClient(baseURL string, timeout time.Duration, m *metrics.BackendMetrics, logger *logging.Logger) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		metrics:    m,
		logger:     logger,
	}
}

// ConfirmEmail validates an email confirmation token.
func (c *Client) ConfirmEmail(ctx context.Context, token string) error {
	path := "/auth/confirm?" + url.Values{"token": {token}}.Encode()
	if err := c.doJSON(ctx, "confirm_email", http.MethodGet, path, "", nil, nil); err != nil {
		return fmt.Errorf("confirm email: %w", err)
	}
	return nil
}

// CompleteRedirectFlow finalizes a GoCardless redirect flow for the authenticated user.
func (c *Client) CompleteRedirectFlow(ctx context.Context, accessToken, flowID string) error {
	path := "/gocardless/complete?" + url.Values{"flow_id": {flowID}}.Encode()
	if err := c.doJSON(ctx, "gocardless_complete", http.MethodGet, path, accessToken, nil, nil); err != nil {
		return fmt.Errorf("complete redirect flow: %w", err)
	}
	return nil
}

// Subscribe starts the subscription for a plan once the mandate exists.
func (c *Client) Subscribe(ctx context.Context, accessToken, plan string) error {
	path := "/gocardless/subscribe?" + url.Values{"plan": {plan}}.Encode()
	if err := c.doJSON(ctx, "gocardless_subscribe", http.MethodPost, path, accessToken, nil, nil); err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}
	return nil
}

// RegisterRequest is forwarded to POST /auth/register.
type RegisterRequest struct {
	Role      string `json:"role"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Password  string `json:"password"`
	BarNumber string `json:"bar_number,omitempty"`
	BarCity   string `json:"bar_city,omitempty"`
}

// RegisterResponse is whatever the backend echoes back about the new account.
type RegisterResponse struct {
	ID      string `json:"id,omitempty"`
	Email   string `json:"email,omitempty"`
	Message string `json:"message,omitempty"`
}

// Register creates an account. The backend sends the confirmation email.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	var resp RegisterResponse
	if err := c.doJSON(ctx, "register", http.MethodPost, "/auth/register", "", req, &resp); err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	return &resp, nil
}

func (c *Client) doJSON(ctx context.Context, operation, method, path, bearer string, body interface{}, out interface{}) error {
	start := time.Now()
	outcome := "ok"
	defer func() {
		c.metrics.ObserveRequest(operation, outcome, time.Since(start).Seconds())
	}()

	endpoint := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			outcome = "error"
			return fmt.Errorf("marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, bodyReader)
	if err != nil {
		outcome = "error"
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		outcome = "transport_error"
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		outcome = "transport_error"
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		outcome = "http_error"
		msg := string(respBody)
		if len(msg) > 300 {
			msg = msg[:300]
		}
		c.logger.Warn("backend non-2xx response", "operation", operation, "status", resp.StatusCode, "body", msg)
		return &APIError{Status: resp.StatusCode, Detail: extractDetail(respBody), Body: msg}
	}

	if len(respBody) == 0 || out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		outcome = "error"
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// extractDetail reads {"detail": "..."}; any other shape yields "".
func extractDetail(body []byte) string {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Detail) == 0 {
		return ""
	}
	var detail string
	if err := json.Unmarshal(payload.Detail, &detail); err != nil {
		return ""
	}
	return strings.TrimSpace(detail)
}
