package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"equity-insight/models"
	"equity-insight/observability"
)

const estimatorSystemPrompt = `You are a financial analyst covering Indian listed companies.
Estimate the requested financial metrics for the given stock based on your knowledge.
Respond with a single JSON object mapping each metric name to a number. Percentages
are plain numbers (15.2 means 15.2%). Use null for metrics you cannot estimate.
Do not include any text outside the JSON object.`

// Estimator fills metric gaps with model-estimated values. Results carry the
// AI_ESTIMATED provenance tier so any later direct reading replaces them.
type Estimator struct {
	llm LLMService
}

// NewEstimator creates a new Estimator instance
func NewEstimator(llm LLMService) *Estimator {
	return &Estimator{llm: llm}
}

// EstimateCategory requests estimates for the missing metrics of one category.
// The returned map contains only requested metrics with finite values.
func (e *Estimator) EstimateCategory(ctx context.Context, symbol string, category models.MetricCategory, missing []string) (map[string]float64, error) {
	if e == nil || e.llm == nil {
		return nil, fmt.Errorf("no estimation model configured: %w", ErrProviderUnavailable)
	}
	if len(missing) == 0 {
		return map[string]float64{}, nil
	}

	userPrompt := fmt.Sprintf(
		"Stock: %s (Indian equity)\nCategory: %s\nMetrics to estimate: %s",
		BareSymbol(symbol), category, strings.Join(missing, ", "))

	text, err := e.llm.InvokeWithPrompt(ctx, estimatorSystemPrompt, userPrompt)
	if err != nil {
		return nil, err
	}

	estimates, err := parseEstimates(text, missing)
	if err != nil {
		observability.WithSymbol(symbol).Warn("discarding estimation response",
			"category", category, "error", err)
		return nil, err
	}

	return estimates, nil
}

// parseEstimates pulls the first balanced JSON object out of the response
// text. Models wrap answers in code fences or prose often enough that a plain
// unmarshal of the whole body is not reliable.
func parseEstimates(text string, requested []string) (map[string]float64, error) {
	raw, ok := firstJSONObject(text)
	if !ok {
		return nil, fmt.Errorf("no JSON object in response: %w", ErrUnparseableAIResponse)
	}

	var parsed map[string]any
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, fmt.Errorf("invalid JSON object in response: %w", ErrUnparseableAIResponse)
	}

	wanted := make(map[string]bool, len(requested))
	for _, name := range requested {
		wanted[name] = true
	}

	estimates := make(map[string]float64)
	for name, value := range parsed {
		if !wanted[name] {
			continue
		}
		num, ok := value.(float64)
		if !ok || math.IsNaN(num) || math.IsInf(num, 0) {
			continue
		}
		estimates[name] = num
	}

	return estimates, nil
}

// firstJSONObject returns the first brace-balanced substring of text.
// Braces inside JSON strings are skipped.
func firstJSONObject(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}
