package services

import (
	"context"
	"fmt"
	"strings"

	appconfig "equity-insight/config"
	"equity-insight/observability"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

// completionFunc is the seam between OpenAIService and the SDK client.
// Tests swap in a fake; production wires client.Chat.Completions.New.
type completionFunc func(ctx context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error)

// OpenAIService estimates missing fundamentals via the OpenAI chat API.
type OpenAIService struct {
	complete  completionFunc
	model     string
	maxTokens int
}

// NewOpenAIService builds a service from config. The API key is mandatory,
// model and token limit fall back to config defaults.
func NewOpenAIService(cfg *appconfig.Config) (*OpenAIService, error) {
	if cfg.OpenAI.APIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}

	client := openai.NewClient(option.WithAPIKey(cfg.OpenAI.APIKey))
	return &OpenAIService{
		complete: func(ctx context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error) {
			return client.Chat.Completions.New(ctx, params)
		},
		model:     cfg.OpenAI.Model,
		maxTokens: cfg.OpenAI.MaxTokens,
	}, nil
}

// InvokeWithPrompt sends a system and user prompt pair and returns the raw
// completion text. Calls run through the openai breaker and are recorded in
// the provider metrics like any other upstream.
func (s *OpenAIService) InvokeWithPrompt(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	metrics := observability.GetMetrics()
	metrics.RecordProviderRequest(BreakerOpenAI, "invoke")
	timer := metrics.NewTimer()

	result, err := withBreaker(ctx, BreakerOpenAI, func() (string, error) {
		completion, err := s.complete(ctx, openai.ChatCompletionNewParams{
			Model:     shared.ChatModel(s.model),
			MaxTokens: openai.Int(int64(s.maxTokens)),
			Messages: []openai.ChatCompletionMessageParamUnion{
				openai.SystemMessage(systemPrompt),
				openai.UserMessage(userPrompt),
			},
		})
		if err != nil {
			return "", fmt.Errorf("failed to invoke OpenAI: %w", err)
		}
		if len(completion.Choices) == 0 {
			return "", fmt.Errorf("empty response from OpenAI")
		}
		return completion.Choices[0].Message.Content, nil
	})

	timer.ObserveProvider(BreakerOpenAI, "invoke")
	if err != nil {
		metrics.RecordProviderError(BreakerOpenAI, "invoke", apiErrorLabel(err))
	}
	return result, err
}

// apiErrorLabel buckets an upstream error into a low-cardinality metrics
// label.
func apiErrorLabel(err error) string {
	if err == nil {
		return "none"
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline"):
		return "timeout"
	case strings.Contains(msg, "rate limit") || strings.Contains(msg, "429"):
		return "rate_limit"
	case strings.Contains(msg, "unauthorized") || strings.Contains(msg, "401"):
		return "auth_error"
	case strings.Contains(msg, "connection") || strings.Contains(msg, "network"):
		return "connection_error"
	default:
		return "unknown"
	}
}
