package payments

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/lexconsult/marketplace/pkg/logging"
)

const (
	accessTokenCookie = "access_token"
	planCookie        = "subscription_plan"
)

// CallbackHandler receives the browser back from GoCardless.
type CallbackHandler struct {
	completer     *Completer
	dashboardPath string
	logger        *logging.Logger
}

// NewCallbackHandler creates the GoCardless return handler.
func NewCallbackHandler(completer *Completer, dashboardPath string, logger *logging.Logger) *CallbackHandler {
	if logger == nil {
		logger = logging.Default()
	}
	if strings.TrimSpace(dashboardPath) == "" {
		dashboardPath = "/dashboard/avocat"
	}
	return &CallbackHandler{completer: completer, dashboardPath: dashboardPath, logger: logger}
}

// Handle serves GET /payments/gocardless/callback?redirect_flow_id=
// It always ends with a single redirect to the dashboard carrying the outcome.
func (h *CallbackHandler) Handle(w http.ResponseWriter, r *http.Request) {
	in := CompletionInput{
		AccessToken: accessToken(r),
		Plan:        plan(r),
		FlowID:      r.URL.Query().Get("redirect_flow_id"),
	}
	outcome := h.completer.Complete(r.Context(), in)
	http.Redirect(w, r, h.dashboardURL(outcome), http.StatusFound)
}

func (h *CallbackHandler) dashboardURL(outcome Outcome) string {
	sep := "?"
	if strings.Contains(h.dashboardPath, "?") {
		sep = "&"
	}
	return h.dashboardPath + sep + url.Values{"subscription": {string(outcome)}}.Encode()
}

// accessToken prefers an Authorization bearer header over the cookie.
func accessToken(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); auth != "" {
		if token, ok := strings.CutPrefix(auth, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	if c, err := r.Cookie(accessTokenCookie); err == nil {
		return c.Value
	}
	return ""
}

func plan(r *http.Request) string {
	if c, err := r.Cookie(planCookie); err == nil && c.Value != "" {
		return c.Value
	}
	return r.URL.Query().Get("plan")
}
