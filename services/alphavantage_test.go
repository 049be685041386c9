package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestAlphaVantageService(baseURL string) *AlphaVantageService {
	SetBreakers(NewBreakerRegistry(DefaultBreakerConfig))
	return NewAlphaVantageService("test-api-key", baseURL, 0)
}

func TestNewAlphaVantageService_Defaults(t *testing.T) {
	service := NewAlphaVantageService("test-api-key", "", 5)
	if service.apiKey != "test-api-key" {
		t.Errorf("apiKey = %v, want 'test-api-key'", service.apiKey)
	}
	if service.baseURL != "https://www.alphavantage.co/query" {
		t.Errorf("baseURL = %v, want default", service.baseURL)
	}
	if service.Name() != "alphavantage" {
		t.Errorf("Name() = %v, want 'alphavantage'", service.Name())
	}
}

func TestAVSymbol(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"TCS", "TCS.BSE"},
		{"TCS.NS", "TCS.BSE"},
		{"SUVEN.BO", "SUVEN.BSE"},
		{"reliance", "RELIANCE.BSE"},
	}
	for _, tt := range tests {
		if got := avSymbol(tt.in); got != tt.want {
			t.Errorf("avSymbol(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestAlphaVantageFetchQuote_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("function"); got != "GLOBAL_QUOTE" {
			t.Errorf("function = %s, want GLOBAL_QUOTE", got)
		}
		if got := r.URL.Query().Get("symbol"); got != "TCS.BSE" {
			t.Errorf("symbol = %s, want TCS.BSE", got)
		}
		if got := r.URL.Query().Get("apikey"); got != "test-api-key" {
			t.Errorf("apikey = %s", got)
		}
		w.Write([]byte(`{"Global Quote": {"05. price": "3850.50", "06. volume": "1200000"}}`))
	}))
	defer server.Close()

	service := newTestAlphaVantageService(server.URL)
	payload, err := service.FetchQuote(context.Background(), "TCS")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	price, ok := Extract(payload, [][]string{{"Global Quote", "05. price"}})
	if !ok || price != 3850.5 {
		t.Errorf("price = %v (ok=%v), want 3850.5", price, ok)
	}
}

func TestAlphaVantageFetch_ThrottleNote(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Note": "Thank you for using Alpha Vantage! Our standard API rate limit is 25 requests per day."}`))
	}))
	defer server.Close()

	service := newTestAlphaVantageService(server.URL)
	_, err := service.FetchQuote(context.Background(), "TCS")
	if !errors.Is(err, ErrRateLimited) {
		t.Errorf("expected ErrRateLimited for Note body, got %v", err)
	}
}

func TestAlphaVantageFetch_EmptyBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	service := newTestAlphaVantageService(server.URL)
	_, err := service.FetchStatistics(context.Background(), "TCS")
	if !errors.Is(err, ErrNoDataForSymbol) {
		t.Errorf("expected ErrNoDataForSymbol for empty body, got %v", err)
	}
}

func TestAlphaVantageFetch_ErrorMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Error Message": "Invalid API call."}`))
	}))
	defer server.Close()

	service := newTestAlphaVantageService(server.URL)
	_, err := service.FetchQuote(context.Background(), "NOSUCH")
	if !errors.Is(err, ErrNoDataForSymbol) {
		t.Errorf("expected ErrNoDataForSymbol, got %v", err)
	}
}

func TestAlphaVantageFetch_MissingAPIKey(t *testing.T) {
	SetBreakers(NewBreakerRegistry(DefaultBreakerConfig))
	service := NewAlphaVantageService("", "", 0)

	_, err := service.FetchQuote(context.Background(), "TCS")
	if !errors.Is(err, ErrProviderUnavailable) {
		t.Errorf("expected ErrProviderUnavailable without an API key, got %v", err)
	}
}

func TestAlphaVantageParseStatements(t *testing.T) {
	financials := RawPayload{
		"annualReports": []any{
			map[string]any{
				"fiscalDateEnding": "2024-03-31",
				"totalRevenue":     "2408930000000",
				"operatingIncome":  "590000000000",
				"ebit":             "612000000000",
				"netIncome":        "459080000000",
				"interestExpense":  "7780000000",
			},
		},
		"quarterlyReports": []any{
			map[string]any{
				"fiscalDateEnding": "2024-06-30",
				"totalRevenue":     "626130000000",
				"netIncome":        "120400000000",
			},
		},
	}
	balance := RawPayload{
		"quarterlyReports": []any{
			map[string]any{
				"fiscalDateEnding":        "2024-06-30",
				"totalAssets":             "1500000000000",
				"totalCurrentLiabilities": "300000000000",
				"totalShareholderEquity":  "900000000000",
				"shortLongTermDebtTotal":  "80000000000",
				"inventory":               "None",
			},
		},
	}
	cashflow := RawPayload{
		"annualReports": []any{
			map[string]any{
				"fiscalDateEnding":    "2024-03-31",
				"operatingCashflow":   "441000000000",
				"capitalExpenditures": "31000000000",
			},
		},
	}

	service := NewAlphaVantageService("k", "", 0)
	set := service.ParseStatements(financials, balance, cashflow)

	if len(set.AnnualIncome) != 1 {
		t.Fatalf("AnnualIncome length = %d, want 1", len(set.AnnualIncome))
	}
	a := set.AnnualIncome[0]
	if a.Revenue != 2408930000000 {
		t.Errorf("Revenue = %v", a.Revenue)
	}
	if a.EBIT != 612000000000 {
		t.Errorf("EBIT = %v", a.EBIT)
	}
	if a.EndDate.Year() != 2024 || a.EndDate.Month() != 3 {
		t.Errorf("EndDate = %v, want 2024-03-31", a.EndDate)
	}

	if len(set.QuarterlyIncome) != 1 || set.QuarterlyIncome[0].Revenue != 626130000000 {
		t.Errorf("QuarterlyIncome = %+v", set.QuarterlyIncome)
	}

	if len(set.QuarterlyBalance) != 1 {
		t.Fatalf("QuarterlyBalance length = %d, want 1", len(set.QuarterlyBalance))
	}
	b := set.QuarterlyBalance[0]
	if b.TotalEquity != 900000000000 {
		t.Errorf("TotalEquity = %v", b.TotalEquity)
	}
	if b.Inventory != 0 {
		t.Errorf("Inventory = %v, want 0 for a None placeholder", b.Inventory)
	}

	if len(set.AnnualCashFlow) != 1 {
		t.Fatalf("AnnualCashFlow length = %d, want 1", len(set.AnnualCashFlow))
	}
	if set.AnnualCashFlow[0].FreeCashFlow != 410000000000 {
		t.Errorf("FreeCashFlow = %v, want operating minus capex", set.AnnualCashFlow[0].FreeCashFlow)
	}
}
