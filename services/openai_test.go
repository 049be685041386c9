package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"equity-insight/config"

	"github.com/openai/openai-go"
)

func newTestOpenAIService(complete completionFunc) *OpenAIService {
	SetBreakers(NewBreakerRegistry(DefaultBreakerConfig))
	return &OpenAIService{complete: complete, model: "gpt-4o", maxTokens: 4096}
}

func TestNewOpenAIService_MissingAPIKey(t *testing.T) {
	cfg := config.NewTestConfig()
	cfg.OpenAI.APIKey = ""

	_, err := NewOpenAIService(cfg)
	if err == nil {
		t.Error("expected error when API key is missing")
	}
	if !strings.Contains(err.Error(), "OPENAI_API_KEY is required") {
		t.Errorf("unexpected error message: %v", err)
	}
}

func TestNewOpenAIService_WithAPIKey(t *testing.T) {
	cfg := config.NewTestConfig()
	cfg.OpenAI.APIKey = "test-api-key"
	cfg.OpenAI.Model = "gpt-4o-mini"
	cfg.OpenAI.MaxTokens = 2048

	service, err := NewOpenAIService(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if service.model != "gpt-4o-mini" {
		t.Errorf("model = %s, want gpt-4o-mini", service.model)
	}
	if service.maxTokens != 2048 {
		t.Errorf("maxTokens = %d, want 2048", service.maxTokens)
	}
}

func TestOpenAIInvokeWithPrompt_Success(t *testing.T) {
	service := newTestOpenAIService(func(ctx context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error) {
		if len(params.Messages) != 2 {
			t.Errorf("expected system plus user message, got %d", len(params.Messages))
		}
		return &openai.ChatCompletion{
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Content: `{"ROE": 46.9}`}},
			},
		}, nil
	})

	result, err := service.InvokeWithPrompt(context.Background(), "system", "user")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != `{"ROE": 46.9}` {
		t.Errorf("unexpected result: %s", result)
	}
}

func TestOpenAIInvokeWithPrompt_APIError(t *testing.T) {
	service := newTestOpenAIService(func(ctx context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error) {
		return nil, errors.New("API error")
	})

	_, err := service.InvokeWithPrompt(context.Background(), "system", "user")
	if err == nil {
		t.Error("expected error")
	}
	if !strings.Contains(err.Error(), "failed to invoke OpenAI") {
		t.Errorf("unexpected error message: %v", err)
	}
}

func TestOpenAIInvokeWithPrompt_EmptyChoices(t *testing.T) {
	service := newTestOpenAIService(func(ctx context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error) {
		return &openai.ChatCompletion{Choices: []openai.ChatCompletionChoice{}}, nil
	})

	_, err := service.InvokeWithPrompt(context.Background(), "system", "user")
	if err == nil {
		t.Error("expected error for empty choices")
	}
	if !strings.Contains(err.Error(), "empty response from OpenAI") {
		t.Errorf("unexpected error message: %v", err)
	}
}

func TestAPIErrorLabel(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, "none"},
		{"timeout", errors.New("context deadline exceeded"), "timeout"},
		{"rate limit", errors.New("429 Rate Limit reached"), "rate_limit"},
		{"auth", errors.New("401 Unauthorized"), "auth_error"},
		{"connection", errors.New("connection refused"), "connection_error"},
		{"other", errors.New("something odd"), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := apiErrorLabel(tt.err); got != tt.want {
				t.Errorf("apiErrorLabel() = %s, want %s", got, tt.want)
			}
		})
	}
}
