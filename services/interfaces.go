package services

import (
	"context"

	"equity-insight/models"
)

// RawPayload is an unvalidated provider response. Provider schemas change
// silently, so payloads stay loosely typed and only the Extract function is
// allowed to traverse them.
type RawPayload = map[string]any

// MarketDataProvider is the common surface of every real-data adapter. Each
// call either returns a payload or one of the sentinel errors from errors.go;
// adapters never panic and never leak transport errors.
//
// The endpoints are independent reads for the same symbol and are safe to
// fan out concurrently.
type MarketDataProvider interface {
	Name() string

	// Provenance is the trust tier attached to values extracted directly
	// from this provider's payloads.
	Provenance() models.Provenance

	FetchQuote(ctx context.Context, symbol string) (RawPayload, error)
	FetchStatistics(ctx context.Context, symbol string) (RawPayload, error)
	FetchFinancials(ctx context.Context, symbol string) (RawPayload, error)
	FetchBalanceSheet(ctx context.Context, symbol string) (RawPayload, error)
	FetchCashFlow(ctx context.Context, symbol string) (RawPayload, error)
	FetchProfile(ctx context.Context, symbol string) (RawPayload, error)

	// ParseStatements normalizes this provider's raw statement payloads
	// into statement series. Any argument may be nil.
	ParseStatements(financials, balance, cashflow RawPayload) *models.StatementSet
}

// ChartProvider is implemented by adapters that can also serve price
// history. The analyzer discovers it by type assertion, so providers without
// a chart endpoint stay untouched.
type ChartProvider interface {
	FetchChart(ctx context.Context, symbol, timeRange string) (*models.ChartData, error)
}

// LLMService is the narrow chat-completion surface the AI estimator needs.
type LLMService interface {
	InvokeWithPrompt(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Compile-time interface verification
var _ MarketDataProvider = (*YahooService)(nil)
var _ ChartProvider = (*YahooService)(nil)
var _ MarketDataProvider = (*AlphaVantageService)(nil)
var _ LLMService = (*OpenAIService)(nil)
var _ LLMService = (*BedrockService)(nil)
