package payments

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/lexconsult/marketplace/internal/observability/metrics"
	"github.com/lexconsult/marketplace/pkg/logging"
)

var paymentsTracer = otel.Tracer("lexconsult.internal.payments")

// Outcome is the result of a subscription completion attempt.
type Outcome string

const (
	// OutcomeSkipped means an input was missing and no call was made.
	OutcomeSkipped Outcome = "skipped"
	// OutcomeFlowFailed means the redirect flow could not be completed; no
	// subscription was attempted.
	OutcomeFlowFailed      Outcome = "flow_failed"
	OutcomeSubscribeFailed Outcome = "subscribe_failed"
	OutcomeSubscribed      Outcome = "subscribed"
)

// CompletionInput carries the values the callback page holds for the user.
type CompletionInput struct {
	AccessToken string
	Plan        string
	FlowID      string
}

func (in CompletionInput) normalized() CompletionInput {
	return CompletionInput{
		AccessToken: strings.TrimSpace(in.AccessToken),
		Plan:        strings.TrimSpace(in.Plan),
		FlowID:      strings.TrimSpace(in.FlowID),
	}
}

func (in CompletionInput) missing() []string {
	var out []string
	if in.AccessToken == "" {
		out = append(out, "access_token")
	}
	if in.Plan == "" {
		out = append(out, "plan")
	}
	if in.FlowID == "" {
		out = append(out, "flow_id")
	}
	return out
}

// GoCardless is the backend surface for mandate and subscription creation.
type GoCardless interface {
	CompleteRedirectFlow(ctx context.Context, accessToken, flowID string) error
	Subscribe(ctx context.Context, accessToken, plan string) error
}

// Completer finishes a GoCardless redirect flow and subscribes the user.
type Completer struct {
	gocardless GoCardless
	metrics    *metrics.PaymentMetrics
	logger     *logging.Logger
}

// NewCompleter creates a Completer.
func NewCompleter(gocardless GoCardless, m *metrics.PaymentMetrics, logger *logging.Logger) *Completer {
	if gocardless == nil {
		panic("payments: gocardless client required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Completer{gocardless: gocardless, metrics: m, logger: logger}
}

// Complete runs the two backend steps in order. The subscription is only
// requested once the redirect flow has been completed.
func (c *Completer) Complete(ctx context.Context, in CompletionInput) Outcome {
	in = in.normalized()
	if missing := in.missing(); len(missing) > 0 {
		c.logger.Info("subscription completion skipped", "missing", missing)
		c.metrics.ObserveCompletion(string(OutcomeSkipped))
		return OutcomeSkipped
	}

	ctx, span := paymentsTracer.Start(ctx, "payments.complete")
	defer span.End()
	span.SetAttributes(
		attribute.String("payments.plan", in.Plan),
		attribute.String("payments.flow_id", in.FlowID),
	)

	if err := c.gocardless.CompleteRedirectFlow(ctx, in.AccessToken, in.FlowID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "complete redirect flow")
		c.logger.Error("redirect flow completion failed", "flow_id", in.FlowID, "error", err)
		return c.finish(span, OutcomeFlowFailed)
	}

	if err := c.gocardless.Subscribe(ctx, in.AccessToken, in.Plan); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "subscribe")
		c.logger.Error("subscription failed", "flow_id", in.FlowID, "plan", in.Plan, "error", err)
		return c.finish(span, OutcomeSubscribeFailed)
	}

	c.logger.Info("subscription completed", "flow_id", in.FlowID, "plan", in.Plan)
	return c.finish(span, OutcomeSubscribed)
}

func (c *Completer) finish(span trace.Span, outcome Outcome) Outcome {
	c.metrics.ObserveCompletion(string(outcome))
	span.SetAttributes(attribute.String("payments.outcome", string(outcome)))
	return outcome
}
