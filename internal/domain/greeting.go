package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/davidbz/greeter/internal/observability"
)

// ErrorMessagePrefix starts every message returned in place of a greeting.
const ErrorMessagePrefix = "Error generating message: "

// GreetingService orchestrates prompt building and the completion call.
type GreetingService struct {
	client  CompletionClient
	params  InvocationParameters
	metrics *observability.Metrics
}

// NewGreetingService creates a new greeting service (DI constructor).
// metrics may be nil.
func NewGreetingService(
	client CompletionClient,
	params InvocationParameters,
	metrics *observability.Metrics,
) *GreetingService {
	return &GreetingService{
		client:  client,
		params:  params,
		metrics: metrics,
	}
}

// Greet returns a greeting for name, or an error description starting with
// ErrorMessagePrefix. It never fails.
func (g *GreetingService) Greet(ctx context.Context, name string) string {
	ctx, span := observability.StartGenerateMessageSpan(ctx)
	defer span.End()

	ctx = observability.WithDeployment(ctx, g.params.Deployment)
	logger := observability.FromContext(ctx)

	prompt := BuildPrompt(name)
	logger.Info("generating message",
		observability.String("name", name),
		observability.Any("messages", prompt.Messages),
	)

	start := time.Now()
	result := g.complete(ctx, prompt)
	if g.metrics != nil {
		g.metrics.CompletionDuration.Observe(time.Since(start).Seconds())
	}

	if result.Failed() {
		observability.RecordError(span, result.Err)
		logger.Error("error generating message",
			observability.Error(result.Err),
			observability.Elapsed(start),
		)
		g.countOutcome(observability.OutcomeError)
		return ErrorMessagePrefix + result.Err.Error()
	}

	logger.Info("message generated",
		observability.Int("total_tokens", result.Usage.TotalTokens),
		observability.Elapsed(start),
	)
	g.countOutcome(observability.OutcomeSuccess)

	return strings.TrimSpace(result.Text)
}

// complete shields the caller from a panicking client.
func (g *GreetingService) complete(ctx context.Context, prompt PromptRequest) (result CompletionResult) {
	if g.client == nil {
		return Failure(errors.New("no completion client configured"))
	}

	defer func() {
		if r := recover(); r != nil {
			result = Failure(fmt.Errorf("completion client panicked: %v", r))
		}
	}()

	return g.client.Complete(ctx, prompt, g.params)
}

func (g *GreetingService) countOutcome(outcome string) {
	if g.metrics != nil {
		g.metrics.GreetingsTotal.WithLabelValues(outcome).Inc()
	}
}
