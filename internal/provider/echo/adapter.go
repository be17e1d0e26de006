// Package echo provides an offline completion client that echoes back the prompt.
// It implements domain.CompletionClient without making external API calls,
// providing deterministic responses for local development and tests.
package echo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/davidbz/greeter/internal/domain"
	"github.com/davidbz/greeter/internal/observability"
)

const providerName = "echo"

// Provider implements domain.CompletionClient for offline use.
type Provider struct {
	name  string
	delay time.Duration
}

// NewProvider creates a new echo provider.
// delay simulates remote latency; zero answers immediately.
func NewProvider(delay time.Duration) *Provider {
	return &Provider{
		name:  providerName,
		delay: delay,
	}
}

// Complete echoes the prompt back as the completion text.
func (p *Provider) Complete(
	ctx context.Context,
	prompt domain.PromptRequest,
	params domain.InvocationParameters,
) domain.CompletionResult {
	ctx, span := observability.StartCompletionSpan(ctx,
		p.name, params.Deployment, params.MaxTokens, params.CandidateCount, params.Temperature)
	defer span.End()

	logger := observability.FromContext(ctx)
	logger.Debug("echoing request")

	if p.delay > 0 {
		timer := time.NewTimer(p.delay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			err := fmt.Errorf("echo interrupted: %w", ctx.Err())
			observability.RecordError(span, err)
			return domain.Failure(err)
		case <-timer.C:
		}
	}

	echoContent := buildEchoContent(prompt.Messages)
	if echoContent == "" {
		observability.RecordError(span, domain.ErrEmptyCompletion)
		return domain.Failure(domain.ErrEmptyCompletion)
	}

	// Count tokens (simple word-based counting)
	promptTokens := countTokens(echoContent)
	completionTokens := promptTokens // Echo returns same size
	observability.RecordCompletionUsage(span, promptTokens, completionTokens)

	logger.Debug("echo completed",
		observability.Int("prompt_tokens", promptTokens),
		observability.Int("completion_tokens", completionTokens),
	)

	return domain.Success(strings.TrimSpace(echoContent), domain.Usage{
		PromptTokens:     promptTokens,
		CompletionTokens: completionTokens,
		TotalTokens:      promptTokens + completionTokens,
	})
}

// Name returns the provider identifier.
func (p *Provider) Name() string {
	return p.name
}

// buildEchoContent constructs the echo response from prompt messages.
func buildEchoContent(messages []domain.ChatMessage) string {
	if len(messages) == 0 {
		return ""
	}

	var builder strings.Builder
	for _, msg := range messages {
		builder.WriteString(fmt.Sprintf("[%s]: %s\n", msg.Role, msg.Content))
	}
	return builder.String()
}

// countTokens performs simple word-based token counting.
func countTokens(content string) int {
	if content == "" {
		return 0
	}
	return len(strings.Fields(content))
}
