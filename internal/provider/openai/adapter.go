// Package openai provides a chat-completion client built on the official OpenAI SDK.
// It speaks to either OpenAI or an Azure OpenAI deployment and converts between
// domain types and SDK types.
package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/davidbz/greeter/internal/domain"
	"github.com/davidbz/greeter/internal/observability"
)

const providerName = "openai"

// Provider implements domain.CompletionClient for OpenAI and Azure OpenAI.
type Provider struct {
	client openai.Client
	name   string
}

// NewProvider creates a new OpenAI provider.
func NewProvider(config Config) (*Provider, error) {
	if config.APIKey == "" {
		return nil, errors.New("OpenAI API key is required")
	}

	opts, err := requestOptions(config)
	if err != nil {
		return nil, err
	}

	return &Provider{
		client: openai.NewClient(opts...),
		name:   providerName,
	}, nil
}

func requestOptions(config Config) ([]option.RequestOption, error) {
	// No retries: the first failure is returned to the caller.
	opts := []option.RequestOption{
		option.WithMaxRetries(0),
	}

	switch strings.ToLower(config.APIType) {
	case APITypeAzure:
		if config.BaseURL == "" {
			return nil, errors.New("OpenAI API base is required for azure")
		}
		if config.Deployment == "" {
			return nil, errors.New("deployment is required for azure")
		}
		opts = append(opts,
			option.WithBaseURL(azureDeploymentURL(config.BaseURL, config.Deployment)),
			option.WithQuery("api-version", config.APIVersion),
			option.WithHeaderDel("authorization"),
			option.WithHeader("api-key", config.APIKey),
		)
	case APITypeOpenAI, "":
		opts = append(opts, option.WithAPIKey(config.APIKey))
		if config.BaseURL != "" {
			opts = append(opts, option.WithBaseURL(config.BaseURL))
		}
	default:
		return nil, fmt.Errorf("unsupported API type %q", config.APIType)
	}

	if config.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(time.Duration(config.Timeout)*time.Second))
	}

	return opts, nil
}

// azureDeploymentURL returns the deployment-scoped base that chat/completions is resolved against.
func azureDeploymentURL(base, deployment string) string {
	return strings.TrimRight(base, "/") + "/openai/deployments/" + deployment + "/"
}

// Complete sends one chat-completion request and returns the first candidate's text.
func (p *Provider) Complete(
	ctx context.Context,
	prompt domain.PromptRequest,
	params domain.InvocationParameters,
) domain.CompletionResult {
	ctx, span := observability.StartCompletionSpan(ctx,
		p.name, params.Deployment, params.MaxTokens, params.CandidateCount, params.Temperature)
	defer span.End()

	logger := observability.FromContext(ctx)
	logger.Debug("calling chat completion API")

	resp, err := p.client.Chat.Completions.New(ctx, p.toSDKParams(prompt, params))
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			logger.Error("chat completion API returned an error",
				observability.Int("status", apiErr.StatusCode),
				observability.Error(err),
			)
		} else {
			logger.Error("chat completion API call failed", observability.Error(err))
		}
		observability.RecordError(span, err)
		return domain.Failure(fmt.Errorf("chat completion failed: %w", err))
	}

	observability.RecordCompletionUsage(span, int(resp.Usage.PromptTokens), int(resp.Usage.CompletionTokens))
	logger.Debug("chat completion API call succeeded",
		observability.Int("prompt_tokens", int(resp.Usage.PromptTokens)),
		observability.Int("completion_tokens", int(resp.Usage.CompletionTokens)),
	)

	result := p.toDomainResult(resp)
	if result.Failed() {
		observability.RecordError(span, result.Err)
	}
	return result
}

// Name returns the provider identifier.
func (p *Provider) Name() string {
	return p.name
}

// toSDKParams converts the domain prompt to SDK ChatCompletionNewParams.
func (p *Provider) toSDKParams(
	prompt domain.PromptRequest,
	params domain.InvocationParameters,
) openai.ChatCompletionNewParams {
	messages := make([]openai.ChatCompletionMessageParamUnion, len(prompt.Messages))
	for i, msg := range prompt.Messages {
		switch msg.Role {
		case domain.RoleSystem:
			messages[i] = openai.SystemMessage(msg.Content)
		case domain.RoleAssistant:
			messages[i] = openai.AssistantMessage(msg.Content)
		case domain.RoleUser:
			messages[i] = openai.UserMessage(msg.Content)
		default:
			// Fallback to user message if role is unknown
			messages[i] = openai.UserMessage(msg.Content)
		}
	}

	return openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(params.Deployment),
		Messages:    messages,
		MaxTokens:   openai.Int(int64(params.MaxTokens)),
		N:           openai.Int(int64(params.CandidateCount)),
		Temperature: openai.Float(params.Temperature),
	}
}

// toDomainResult converts the SDK response to a domain result.
func (p *Provider) toDomainResult(resp *openai.ChatCompletion) domain.CompletionResult {
	if resp == nil || len(resp.Choices) == 0 {
		return domain.Failure(domain.ErrEmptyCompletion)
	}

	return domain.Success(strings.TrimSpace(resp.Choices[0].Message.Content), domain.Usage{
		PromptTokens:     int(resp.Usage.PromptTokens),
		CompletionTokens: int(resp.Usage.CompletionTokens),
		TotalTokens:      int(resp.Usage.TotalTokens),
	})
}
