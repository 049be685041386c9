package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"equity-insight/models"
	"equity-insight/observability"
)

// AlphaVantageService is the secondary data provider. It covers mostly the
// same ground as the primary with a flatter payload shape, and its statement
// endpoints make it the usual source for balance sheet gaps.
type AlphaVantageService struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	limiter    *RateLimiter
}

// NewAlphaVantageService creates a new AlphaVantageService instance
func NewAlphaVantageService(apiKey, baseURL string, requestsPerMinute int) *AlphaVantageService {
	if baseURL == "" {
		baseURL = "https://www.alphavantage.co/query"
	}
	return &AlphaVantageService{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    baseURL,
		limiter:    NewRateLimiter(BreakerAlphaVantage, requestsPerMinute),
	}
}

// Name returns the provider name
func (s *AlphaVantageService) Name() string { return BreakerAlphaVantage }

// Provenance returns the trust tier for directly extracted values
func (s *AlphaVantageService) Provenance() models.Provenance { return models.ProvenanceSecondaryAPI }

// avSymbol maps a ticker to Alpha Vantage's exchange-scoped form. Indian
// listings are served under the BSE suffix.
func avSymbol(symbol string) string {
	return BareSymbol(symbol) + ".BSE"
}

// FetchQuote returns the latest quote via GLOBAL_QUOTE
func (s *AlphaVantageService) FetchQuote(ctx context.Context, symbol string) (RawPayload, error) {
	return s.fetch(ctx, symbol, "quote", "GLOBAL_QUOTE")
}

// FetchStatistics returns fundamentals via the OVERVIEW function
func (s *AlphaVantageService) FetchStatistics(ctx context.Context, symbol string) (RawPayload, error) {
	return s.fetch(ctx, symbol, "statistics", "OVERVIEW")
}

// FetchFinancials returns income statement history
func (s *AlphaVantageService) FetchFinancials(ctx context.Context, symbol string) (RawPayload, error) {
	return s.fetch(ctx, symbol, "financials", "INCOME_STATEMENT")
}

// FetchBalanceSheet returns balance sheet history
func (s *AlphaVantageService) FetchBalanceSheet(ctx context.Context, symbol string) (RawPayload, error) {
	return s.fetch(ctx, symbol, "balance_sheet", "BALANCE_SHEET")
}

// FetchCashFlow returns cash flow statement history
func (s *AlphaVantageService) FetchCashFlow(ctx context.Context, symbol string) (RawPayload, error) {
	return s.fetch(ctx, symbol, "cash_flow", "CASH_FLOW")
}

// FetchProfile returns company identity fields (OVERVIEW carries them)
func (s *AlphaVantageService) FetchProfile(ctx context.Context, symbol string) (RawPayload, error) {
	return s.fetch(ctx, symbol, "profile", "OVERVIEW")
}

func (s *AlphaVantageService) fetch(ctx context.Context, symbol, endpoint, function string) (RawPayload, error) {
	if s.apiKey == "" {
		return nil, fmt.Errorf("missing API key: %w", ErrProviderUnavailable)
	}
	if err := s.limiter.Allow(); err != nil {
		return nil, err
	}

	metrics := observability.GetMetrics()
	metrics.RecordProviderRequest(s.Name(), endpoint)
	timer := metrics.NewTimer()
	defer timer.ObserveProvider(s.Name(), endpoint)

	payload, err := withBreaker(ctx, BreakerAlphaVantage, func() (RawPayload, error) {
		var result RawPayload

		err := WithRetry(ctx, DefaultRetryConfig, func() error {
			params := url.Values{}
			params.Set("function", function)
			params.Set("symbol", avSymbol(symbol))
			params.Set("apikey", s.apiKey)

			req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+params.Encode(), nil)
			if err != nil {
				return fmt.Errorf("failed to create request: %w", ErrProviderUnavailable)
			}

			resp, err := s.httpClient.Do(req)
			if err != nil {
				return fmt.Errorf("%s request failed: %w", function, ErrProviderUnavailable)
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("%s returned status %d: %w", function, resp.StatusCode, ErrProviderUnavailable)
			}

			var doc RawPayload
			if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
				return fmt.Errorf("failed to decode %s: %w", function, ErrMalformedResponse)
			}

			// The API reports throttling and errors inside a 200 body.
			if _, throttled := doc["Note"]; throttled {
				return fmt.Errorf("upstream throttled: %w", ErrRateLimited)
			}
			if _, throttled := doc["Information"]; throttled {
				return fmt.Errorf("upstream throttled: %w", ErrRateLimited)
			}
			if msg, bad := doc["Error Message"]; bad {
				return fmt.Errorf("upstream error %v: %w", msg, ErrNoDataForSymbol)
			}
			if len(doc) == 0 {
				return fmt.Errorf("empty %s body: %w", function, ErrNoDataForSymbol)
			}

			result = doc
			return nil
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

// ParseStatements normalizes annualReports/quarterlyReports series.
func (s *AlphaVantageService) ParseStatements(financials, balance, cashflow RawPayload) *models.StatementSet {
	set := &models.StatementSet{}

	if financials != nil {
		set.AnnualIncome = avIncomePeriods(financials, "annualReports")
		set.QuarterlyIncome = avIncomePeriods(financials, "quarterlyReports")
	}
	if balance != nil {
		set.AnnualBalance = avBalancePeriods(balance, "annualReports")
		set.QuarterlyBalance = avBalancePeriods(balance, "quarterlyReports")
	}
	if cashflow != nil {
		set.AnnualCashFlow = avCashFlowPeriods(cashflow, "annualReports")
	}

	return set
}

func avReports(payload RawPayload, key string) []any {
	reports, _ := payload[key].([]any)
	return reports
}

// avField reads one stringly-typed numeric field from a report entry.
func avField(entry any, field string) float64 {
	v, _ := Extract(entry, [][]string{{field}})
	return v
}

func avEndDate(entry any) time.Time {
	m, ok := entry.(map[string]any)
	if !ok {
		return time.Time{}
	}
	s, _ := m["fiscalDateEnding"].(string)
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func avIncomePeriods(payload RawPayload, key string) []models.StatementPeriod {
	reports := avReports(payload, key)
	periods := make([]models.StatementPeriod, 0, len(reports))
	for _, entry := range reports {
		periods = append(periods, models.StatementPeriod{
			EndDate:         avEndDate(entry),
			Revenue:         avField(entry, "totalRevenue"),
			GrossProfit:     avField(entry, "grossProfit"),
			OperatingIncome: avField(entry, "operatingIncome"),
			EBIT:            avField(entry, "ebit"),
			NetIncome:       avField(entry, "netIncome"),
			InterestExpense: avField(entry, "interestExpense"),
		})
	}
	return periods
}

func avBalancePeriods(payload RawPayload, key string) []models.StatementPeriod {
	reports := avReports(payload, key)
	periods := make([]models.StatementPeriod, 0, len(reports))
	for _, entry := range reports {
		periods = append(periods, models.StatementPeriod{
			EndDate:                 avEndDate(entry),
			TotalAssets:             avField(entry, "totalAssets"),
			TotalCurrentAssets:      avField(entry, "totalCurrentAssets"),
			TotalCurrentLiabilities: avField(entry, "totalCurrentLiabilities"),
			Inventory:               avField(entry, "inventory"),
			TotalEquity:             avField(entry, "totalShareholderEquity"),
			TotalDebt:               avField(entry, "shortLongTermDebtTotal"),
		})
	}
	return periods
}

func avCashFlowPeriods(payload RawPayload, key string) []models.StatementPeriod {
	reports := avReports(payload, key)
	periods := make([]models.StatementPeriod, 0, len(reports))
	for _, entry := range reports {
		operating := avField(entry, "operatingCashflow")
		capex := avField(entry, "capitalExpenditures")
		periods = append(periods, models.StatementPeriod{
			EndDate:           avEndDate(entry),
			OperatingCashFlow: operating,
			FreeCashFlow:      operating - capex,
		})
	}
	return periods
}
