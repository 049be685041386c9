package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"equity-insight/models"
	"equity-insight/observability"
)

// YahooService is the primary quote/statistics/statements provider. Symbols
// are qualified with their exchange suffix before each call.
type YahooService struct {
	httpClient *http.Client
	baseURL    string
	limiter    *RateLimiter
}

// NewYahooService creates a new YahooService instance
func NewYahooService(baseURL string, requestsPerMinute int) *YahooService {
	if baseURL == "" {
		baseURL = "https://query1.finance.yahoo.com"
	}
	return &YahooService{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    baseURL,
		limiter:    NewRateLimiter(BreakerYahoo, requestsPerMinute),
	}
}

// Name returns the provider name
func (s *YahooService) Name() string { return BreakerYahoo }

// Provenance returns the trust tier for directly extracted values
func (s *YahooService) Provenance() models.Provenance { return models.ProvenanceRealAPI }

// FetchQuote returns current price, day range, 52-week range and market cap
func (s *YahooService) FetchQuote(ctx context.Context, symbol string) (RawPayload, error) {
	return s.fetchModules(ctx, symbol, "quote", "price,summaryDetail")
}

// FetchStatistics returns valuation and profitability statistics
func (s *YahooService) FetchStatistics(ctx context.Context, symbol string) (RawPayload, error) {
	return s.fetchModules(ctx, symbol, "statistics", "defaultKeyStatistics,financialData,summaryDetail")
}

// FetchFinancials returns annual and quarterly income statement history
func (s *YahooService) FetchFinancials(ctx context.Context, symbol string) (RawPayload, error) {
	return s.fetchModules(ctx, symbol, "financials", "incomeStatementHistory,incomeStatementHistoryQuarterly")
}

// FetchBalanceSheet returns annual and quarterly balance sheet history
func (s *YahooService) FetchBalanceSheet(ctx context.Context, symbol string) (RawPayload, error) {
	return s.fetchModules(ctx, symbol, "balance_sheet", "balanceSheetHistory,balanceSheetHistoryQuarterly")
}

// FetchCashFlow returns annual cash flow statement history
func (s *YahooService) FetchCashFlow(ctx context.Context, symbol string) (RawPayload, error) {
	return s.fetchModules(ctx, symbol, "cash_flow", "cashflowStatementHistory")
}

// FetchProfile returns company name, sector, industry and description
func (s *YahooService) FetchProfile(ctx context.Context, symbol string) (RawPayload, error) {
	return s.fetchModules(ctx, symbol, "profile", "assetProfile,price")
}

// fetchModules calls the quoteSummary endpoint and unwraps the first result.
func (s *YahooService) fetchModules(ctx context.Context, symbol, endpoint, modules string) (RawPayload, error) {
	if err := s.limiter.Allow(); err != nil {
		return nil, err
	}

	metrics := observability.GetMetrics()
	metrics.RecordProviderRequest(s.Name(), endpoint)
	timer := metrics.NewTimer()
	defer timer.ObserveProvider(s.Name(), endpoint)

	payload, err := withBreaker(ctx, BreakerYahoo, func() (RawPayload, error) {
		var result RawPayload

		err := WithRetry(ctx, DefaultRetryConfig, func() error {
			params := url.Values{}
			params.Set("modules", modules)
			reqURL := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?%s",
				s.baseURL, url.PathEscape(QualifySymbol(symbol)), params.Encode())

			req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
			if err != nil {
				return fmt.Errorf("failed to create request: %w", ErrProviderUnavailable)
			}
			req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; equity-insight)")

			resp, err := s.httpClient.Do(req)
			if err != nil {
				return fmt.Errorf("quote summary request failed: %w", ErrProviderUnavailable)
			}
			defer resp.Body.Close()

			switch {
			case resp.StatusCode == http.StatusNotFound:
				return fmt.Errorf("symbol %s: %w", symbol, ErrNoDataForSymbol)
			case resp.StatusCode == http.StatusTooManyRequests:
				return fmt.Errorf("upstream throttled: %w", ErrRateLimited)
			case resp.StatusCode != http.StatusOK:
				return fmt.Errorf("quote summary returned status %d: %w", resp.StatusCode, ErrProviderUnavailable)
			}

			var doc RawPayload
			if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
				return fmt.Errorf("failed to decode quote summary: %w", ErrMalformedResponse)
			}

			result, err = unwrapQuoteSummary(doc, symbol)
			return err
		})

		return result, err
	})

	if err != nil {
		metrics.RecordProviderError(s.Name(), endpoint, errorType(err))
		observability.WithProvider(s.Name()).Warn("fetch failed",
			"endpoint", endpoint, "symbol", symbol, "error", err)
		return nil, err
	}

	return payload, nil
}

// unwrapQuoteSummary pulls result[0] out of the quoteSummary envelope.
func unwrapQuoteSummary(doc RawPayload, symbol string) (RawPayload, error) {
	qs, ok := doc["quoteSummary"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("missing quoteSummary envelope: %w", ErrMalformedResponse)
	}
	results, ok := qs["result"].([]any)
	if !ok || len(results) == 0 {
		return nil, fmt.Errorf("symbol %s: %w", symbol, ErrNoDataForSymbol)
	}
	first, ok := results[0].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("unexpected result shape: %w", ErrMalformedResponse)
	}
	return first, nil
}

// ParseStatements normalizes quoteSummary statement modules into series.
func (s *YahooService) ParseStatements(financials, balance, cashflow RawPayload) *models.StatementSet {
	set := &models.StatementSet{}

	if financials != nil {
		set.QuarterlyIncome = yahooIncomePeriods(financials, "incomeStatementHistoryQuarterly")
		set.AnnualIncome = yahooIncomePeriods(financials, "incomeStatementHistory")
	}
	if balance != nil {
		set.QuarterlyBalance = yahooBalancePeriods(balance, "balanceSheetHistoryQuarterly")
		set.AnnualBalance = yahooBalancePeriods(balance, "balanceSheetHistory")
	}
	if cashflow != nil {
		set.AnnualCashFlow = yahooCashFlowPeriods(cashflow, "cashflowStatementHistory")
	}

	return set
}

// yahooStatementEntries digs the per-period entry list out of a statement
// module. Both module wrappers reuse the inner list key of the annual module.
func yahooStatementEntries(payload RawPayload, module string) []any {
	mod, ok := payload[module].(map[string]any)
	if !ok {
		return nil
	}
	for _, key := range []string{"incomeStatementHistory", "balanceSheetStatements", "cashflowStatements"} {
		if entries, ok := mod[key].([]any); ok {
			return entries
		}
	}
	return nil
}

// yahooField reads one raw-or-plain numeric field from a statement entry.
func yahooField(entry any, field string) float64 {
	v, _ := Extract(entry, [][]string{{field, "raw"}, {field}})
	return v
}

func yahooEndDate(entry any) time.Time {
	if ts, ok := Extract(entry, [][]string{{"endDate", "raw"}}); ok {
		return time.Unix(int64(ts), 0).UTC()
	}
	return time.Time{}
}

func yahooIncomePeriods(payload RawPayload, module string) []models.StatementPeriod {
	entries := yahooStatementEntries(payload, module)
	periods := make([]models.StatementPeriod, 0, len(entries))
	for _, entry := range entries {
		periods = append(periods, models.StatementPeriod{
			EndDate:         yahooEndDate(entry),
			Revenue:         yahooField(entry, "totalRevenue"),
			GrossProfit:     yahooField(entry, "grossProfit"),
			OperatingIncome: yahooField(entry, "operatingIncome"),
			EBIT:            yahooField(entry, "ebit"),
			NetIncome:       yahooField(entry, "netIncome"),
			InterestExpense: yahooField(entry, "interestExpense"),
		})
	}
	return periods
}

func yahooBalancePeriods(payload RawPayload, module string) []models.StatementPeriod {
	entries := yahooStatementEntries(payload, module)
	periods := make([]models.StatementPeriod, 0, len(entries))
	for _, entry := range entries {
		periods = append(periods, models.StatementPeriod{
			EndDate:                 yahooEndDate(entry),
			TotalAssets:             yahooField(entry, "totalAssets"),
			TotalCurrentAssets:      yahooField(entry, "totalCurrentAssets"),
			TotalCurrentLiabilities: yahooField(entry, "totalCurrentLiabilities"),
			Inventory:               yahooField(entry, "inventory"),
			TotalEquity:             yahooField(entry, "totalStockholderEquity"),
			TotalDebt:               yahooField(entry, "shortLongTermDebt") + yahooField(entry, "longTermDebt"),
		})
	}
	return periods
}

func yahooCashFlowPeriods(payload RawPayload, module string) []models.StatementPeriod {
	entries := yahooStatementEntries(payload, module)
	periods := make([]models.StatementPeriod, 0, len(entries))
	for _, entry := range entries {
		operating := yahooField(entry, "totalCashFromOperatingActivities")
		capex := yahooField(entry, "capitalExpenditures")
		periods = append(periods, models.StatementPeriod{
			EndDate:           yahooEndDate(entry),
			OperatingCashFlow: operating,
			FreeCashFlow:      operating + capex, // capex is reported negative
		})
	}
	return periods
}

// errorType buckets a sentinel error for metrics labeling.
func errorType(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, ErrNoDataForSymbol):
		return "no_data"
	case errors.Is(err, ErrMalformedResponse):
		return "malformed"
	case errors.Is(err, ErrProviderUnavailable):
		return "unavailable"
	default:
		return "other"
	}
}
