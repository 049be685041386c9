package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"equity-insight/observability"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
)

const (
	defaultBedrockMaxTokens = 4096
	defaultAnthropicVersion = "bedrock-2023-05-31"
)

// bedrockInvoker is the slice of the Bedrock runtime client we call. Tests
// substitute a fake.
type bedrockInvoker interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// BedrockService estimates missing fundamentals through Claude models on
// AWS Bedrock. It is the drop-in alternative to OpenAIService when
// ESTIMATOR_BACKEND=bedrock.
type BedrockService struct {
	client           bedrockInvoker
	model            string
	maxTokens        int
	anthropicVersion string
}

// ClaudeRequest is the Anthropic messages payload Bedrock expects.
type ClaudeRequest struct {
	AnthropicVersion string          `json:"anthropic_version"`
	MaxTokens        int             `json:"max_tokens"`
	System           string          `json:"system,omitempty"`
	Messages         []ClaudeMessage `json:"messages"`
}

type ClaudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ClaudeResponse mirrors the subset of the Bedrock response body we read.
type ClaudeResponse struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Role    string `json:"role"`
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
	Usage      struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

// NewBedrockService loads the default AWS credential chain for the given
// region. Token limit and anthropic version may be tuned through
// BEDROCK_MAX_TOKENS and BEDROCK_ANTHROPIC_VERSION.
func NewBedrockService(ctx context.Context, region, modelID string) (*BedrockService, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS SDK config: %w", err)
	}

	maxTokens := defaultBedrockMaxTokens
	if val := os.Getenv("BEDROCK_MAX_TOKENS"); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil && parsed > 0 {
			maxTokens = parsed
		}
	}
	version := os.Getenv("BEDROCK_ANTHROPIC_VERSION")
	if version == "" {
		version = defaultAnthropicVersion
	}

	return &BedrockService{
		client:           bedrockruntime.NewFromConfig(cfg),
		model:            modelID,
		maxTokens:        maxTokens,
		anthropicVersion: version,
	}, nil
}

// InvokeWithPrompt sends a system and user prompt pair to Claude and returns
// the first content block as text.
func (s *BedrockService) InvokeWithPrompt(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	maxTokens := s.maxTokens
	if maxTokens <= 0 {
		maxTokens = defaultBedrockMaxTokens
	}
	version := s.anthropicVersion
	if version == "" {
		version = defaultAnthropicVersion
	}

	metrics := observability.GetMetrics()
	metrics.RecordProviderRequest(BreakerBedrock, "invoke")
	timer := metrics.NewTimer()

	result, err := withBreaker(ctx, BreakerBedrock, func() (string, error) {
		reqBody, err := json.Marshal(ClaudeRequest{
			AnthropicVersion: version,
			MaxTokens:        maxTokens,
			System:           systemPrompt,
			Messages:         []ClaudeMessage{{Role: "user", Content: userPrompt}},
		})
		if err != nil {
			return "", fmt.Errorf("failed to marshal request: %w", err)
		}

		output, err := s.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
			ModelId:     aws.String(s.model),
			Body:        reqBody,
			ContentType: aws.String("application/json"),
		})
		if err != nil {
			return "", fmt.Errorf("failed to invoke model: %w", err)
		}

		var response ClaudeResponse
		if err := json.Unmarshal(output.Body, &response); err != nil {
			return "", fmt.Errorf("failed to unmarshal response: %w", err)
		}
		if len(response.Content) == 0 {
			return "", fmt.Errorf("empty response from model")
		}
		return response.Content[0].Text, nil
	})

	timer.ObserveProvider(BreakerBedrock, "invoke")
	if err != nil {
		metrics.RecordProviderError(BreakerBedrock, "invoke", apiErrorLabel(err))
	}
	return result, err
}
