// Package accounts handles the account pages that talk to the backend:
// email confirmation and signup.
package accounts

import (
	"context"
	"errors"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/lexconsult/marketplace/internal/backend"
	"github.com/lexconsult/marketplace/pkg/logging"
)

var accountsTracer = otel.Tracer("lexconsult.internal.accounts")

const (
	MessageEmailConfirmed     = "Votre adresse e-mail est confirmée."
	MessageConfirmationFailed = "La confirmation a échoué. Le lien est peut-être invalide ou expiré."
	MessageMissingToken       = "Lien de confirmation invalide : jeton manquant."
)

// EmailConfirmer is the backend call behind the confirmation page.
type EmailConfirmer interface {
	ConfirmEmail(ctx context.Context, token string) error
}

// ConfirmationResult is what the confirmation page shows.
type ConfirmationResult struct {
	Confirmed bool   `json:"confirmed"`
	Message   string `json:"message,omitempty"`
	Error     string `json:"error,omitempty"`
	// Status is the backend status on rejection, 0 otherwise.
	Status int `json:"-"`
}

// Confirmer verifies email confirmation tokens.
type Confirmer struct {
	backend EmailConfirmer
	logger  *logging.Logger
}

// NewConfirmer creates a Confirmer.
func NewConfirmer(backend EmailConfirmer, logger *logging.Logger) *Confirmer {
	if backend == nil {
		panic("accounts: email confirmer required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Confirmer{backend: backend, logger: logger}
}

// Confirm issues exactly one backend call for a non-empty token. The error
// text is the backend's detail when it sent one.
func (c *Confirmer) Confirm(ctx context.Context, token string) ConfirmationResult {
	token = strings.TrimSpace(token)
	if token == "" {
		return ConfirmationResult{Error: MessageMissingToken}
	}

	ctx, span := accountsTracer.Start(ctx, "accounts.confirm")
	defer span.End()

	err := c.backend.ConfirmEmail(ctx, token)
	if err == nil {
		span.SetAttributes(attribute.Bool("accounts.confirmed", true))
		return ConfirmationResult{Confirmed: true, Message: MessageEmailConfirmed}
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, "confirmation rejected")
	c.logger.Warn("email confirmation failed", "error", err)

	result := ConfirmationResult{Error: MessageConfirmationFailed}
	if detail, ok := backend.DetailOf(err); ok {
		result.Error = detail
	}
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		result.Status = apiErr.Status
	}
	return result
}
