package accounts

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/lexconsult/marketplace/internal/backend"
	"github.com/lexconsult/marketplace/pkg/logging"
)

// Handler serves the confirmation and signup endpoints.
type Handler struct {
	confirmer *Confirmer
	signup    *Signup
	logger    *logging.Logger
}

// NewHandler creates an accounts handler.
func NewHandler(confirmer *Confirmer, signup *Signup, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{confirmer: confirmer, signup: signup, logger: logger}
}

// ConfirmEmail handles GET /api/auth/confirm?token=
func (h *Handler) ConfirmEmail(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	result := h.confirmer.Confirm(r.Context(), token)
	status := http.StatusOK
	switch {
	case result.Confirmed:
	case strings.TrimSpace(token) == "":
		status = http.StatusBadRequest
	case result.Status >= 400 && result.Status < 500:
		status = result.Status
	default:
		status = http.StatusBadGateway
	}
	writeJSON(w, status, result)
}

// SignupClient handles POST /api/signup/client
func (h *Handler) SignupClient(w http.ResponseWriter, r *http.Request) {
	var form ClientSignup
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	resp, err := h.signup.RegisterClient(r.Context(), form)
	h.respondSignup(w, resp, err)
}

// SignupLawyer handles POST /api/signup/lawyer
func (h *Handler) SignupLawyer(w http.ResponseWriter, r *http.Request) {
	var form LawyerSignup
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	resp, err := h.signup.RegisterLawyer(r.Context(), form)
	h.respondSignup(w, resp, err)
}

func (h *Handler) respondSignup(w http.ResponseWriter, resp *backend.RegisterResponse, err error) {
	if err == nil {
		writeJSON(w, http.StatusCreated, resp)
		return
	}
	var fe FieldErrors
	if errors.As(err, &fe) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":  "validation failed",
			"fields": fe,
		})
		return
	}
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500 {
		msg := apiErr.Detail
		if msg == "" {
			msg = "L'inscription a été refusée."
		}
		writeError(w, apiErr.Status, msg)
		return
	}
	h.logger.Error("signup failed", "error", err)
	writeError(w, http.StatusBadGateway, "L'inscription est momentanément indisponible.")
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
