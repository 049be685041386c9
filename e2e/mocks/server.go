// Package mocks provides HTTP mock servers for the external market-data APIs
// used in E2E tests.
package mocks

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
)

// MockServer serves configurable fake responses for both upstream providers
// from a single httptest server. Yahoo-style requests route on the
// quoteSummary path, Alpha Vantage requests on the function query parameter.
type MockServer struct {
	mu     sync.RWMutex
	server *httptest.Server

	// Response configurations
	quoteSummary YahooQuoteSummary
	overview     AlphaVantageOverview
	avIncome     AVStatement
	avBalance    AVStatement
	avCashFlow   AVStatement

	// Error injection
	yahooStatus int  // non-zero forces this HTTP status on every Yahoo call
	avThrottled bool // respond with a throttle Note body
	avEmpty     bool // respond with an empty document (unknown symbol)

	// Request tracking for assertions
	requestLog []RequestLog
}

// RequestLog records incoming requests for test assertions.
type RequestLog struct {
	Method string
	Path   string
	Query  string
}

// NewMockServer creates a new mock server with default responses.
func NewMockServer() *MockServer {
	m := &MockServer{requestLog: make([]RequestLog, 0)}
	m.setDefaults()
	m.server = httptest.NewServer(m)
	return m
}

// YahooURL returns the base URL to hand the primary provider.
func (m *MockServer) YahooURL() string {
	return m.server.URL
}

// AlphaVantageURL returns the query URL to hand the secondary provider.
func (m *MockServer) AlphaVantageURL() string {
	return m.server.URL + "/query"
}

// Close shuts down the mock server.
func (m *MockServer) Close() {
	m.server.Close()
}

// ServeHTTP routes requests to the provider-specific handlers.
func (m *MockServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	m.requestLog = append(m.requestLog, RequestLog{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.RawQuery,
	})
	m.mu.Unlock()

	switch {
	case strings.HasPrefix(r.URL.Path, "/v10/finance/quoteSummary/"):
		m.handleYahoo(w, r)
	case strings.HasPrefix(r.URL.Path, "/v8/finance/chart/"):
		m.handleYahooChart(w, r)
	case r.URL.Path == "/query":
		m.handleAlphaVantage(w, r)
	default:
		http.Error(w, "not found", http.StatusNotFound)
	}
}

// GetRequestLog returns all logged requests for assertions.
func (m *MockServer) GetRequestLog() []RequestLog {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]RequestLog{}, m.requestLog...)
}

// ClearRequestLog clears the request log.
func (m *MockServer) ClearRequestLog() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestLog = m.requestLog[:0]
}

// SetYahooStatus forces every Yahoo call to return the given HTTP status.
// Zero restores normal responses.
func (m *MockServer) SetYahooStatus(status int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.yahooStatus = status
}

// SetAlphaVantageThrottled toggles the rate-limit Note body.
func (m *MockServer) SetAlphaVantageThrottled(throttled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.avThrottled = throttled
}

// SetAlphaVantageEmpty toggles empty unknown-symbol responses.
func (m *MockServer) SetAlphaVantageEmpty(empty bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.avEmpty = empty
}

// SetQuoteSummary replaces the Yahoo modules served on every endpoint.
func (m *MockServer) SetQuoteSummary(qs YahooQuoteSummary) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.quoteSummary = qs
}

func (m *MockServer) handleYahoo(w http.ResponseWriter, r *http.Request) {
	m.mu.RLock()
	status := m.yahooStatus
	qs := m.quoteSummary
	m.mu.RUnlock()

	if status != 0 {
		w.WriteHeader(status)
		return
	}

	// All modules are served regardless of the modules parameter; the
	// provider only reads the ones it asked for.
	envelope := map[string]any{
		"quoteSummary": map[string]any{
			"result": []any{qs},
			"error":  nil,
		},
	}
	writeJSON(w, envelope)
}

func (m *MockServer) handleYahooChart(w http.ResponseWriter, r *http.Request) {
	m.mu.RLock()
	status := m.yahooStatus
	m.mu.RUnlock()

	if status != 0 {
		w.WriteHeader(status)
		return
	}

	envelope := map[string]any{
		"chart": map[string]any{
			"result": []any{map[string]any{
				"meta":      map[string]any{"currency": "INR"},
				"timestamp": []any{1700000000, 1700086400, 1700172800},
				"indicators": map[string]any{
					"quote": []any{map[string]any{
						"open":   []any{3400.0, 3420.0, 3455.0},
						"high":   []any{3450.0, 3460.0, 3480.0},
						"low":    []any{3380.0, 3400.0, 3440.0},
						"close":  []any{3420.0, 3455.0, 3462.5},
						"volume": []any{2000000, 1800000, 1500000},
					}},
				},
			}},
			"error": nil,
		},
	}
	writeJSON(w, envelope)
}

func (m *MockServer) handleAlphaVantage(w http.ResponseWriter, r *http.Request) {
	m.mu.RLock()
	throttled := m.avThrottled
	empty := m.avEmpty
	m.mu.RUnlock()

	if throttled {
		writeJSON(w, map[string]string{
			"Note": "Thank you for using Alpha Vantage! Our standard API rate limit is 25 requests per day.",
		})
		return
	}
	if empty {
		writeJSON(w, map[string]any{})
		return
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	switch r.URL.Query().Get("function") {
	case "GLOBAL_QUOTE":
		writeJSON(w, map[string]any{
			"Global Quote": map[string]string{
				"01. symbol": m.overview.Symbol,
				"05. price":  "3500.00",
			},
		})
	case "OVERVIEW":
		writeJSON(w, m.overview)
	case "INCOME_STATEMENT":
		writeJSON(w, m.avIncome)
	case "BALANCE_SHEET":
		writeJSON(w, m.avBalance)
	case "CASH_FLOW":
		writeJSON(w, m.avCashFlow)
	default:
		writeJSON(w, map[string]string{"Error Message": "Invalid API call."})
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// setDefaults installs a consistent large-cap IT services dataset.
func (m *MockServer) setDefaults() {
	m.quoteSummary = YahooQuoteSummary{
		Price: map[string]any{
			"regularMarketPrice": map[string]any{"raw": 3500.0},
			"marketCap":          map[string]any{"raw": 1.26e13},
			"longName":           "Tata Consultancy Services Limited",
		},
		SummaryDetail: map[string]any{
			"trailingPE":       map[string]any{"raw": 28.5},
			"dividendYield":    map[string]any{"raw": 0.014},
			"fiftyTwoWeekHigh": map[string]any{"raw": 4250.0},
			"fiftyTwoWeekLow":  map[string]any{"raw": 3050.0},
		},
		FinancialData: map[string]any{
			"returnOnEquity":   map[string]any{"raw": 0.45},
			"grossMargins":     map[string]any{"raw": 0.42},
			"operatingMargins": map[string]any{"raw": 0.26},
			"profitMargins":    map[string]any{"raw": 0.19},
			"currentRatio":     map[string]any{"raw": 2.4},
			"quickRatio":       map[string]any{"raw": 2.2},
			"debtToEquity":     map[string]any{"raw": 8.5},
		},
		KeyStatistics: map[string]any{
			"priceToBook":        map[string]any{"raw": 12.8},
			"enterpriseToEbitda": map[string]any{"raw": 19.5},
		},
		AssetProfile: map[string]any{
			"sector":   "Technology",
			"industry": "Information Technology Services",
		},
		IncomeQuarterly: map[string]any{
			"incomeStatementHistory": []any{
				incomeEntry(1711843200, 611e9, 255e9, 159e9, 122e9, 2.1e9),
				incomeEntry(1703980800, 605e9, 251e9, 157e9, 118e9, 2.0e9),
				incomeEntry(1696032000, 596e9, 247e9, 153e9, 115e9, 1.9e9),
				incomeEntry(1687996800, 591e9, 244e9, 151e9, 113e9, 1.9e9),
			},
		},
		IncomeHistory: map[string]any{
			"incomeStatementHistory": []any{
				incomeEntry(1711843200, 2403e9, 997e9, 620e9, 468e9, 7.9e9),
				incomeEntry(1680220800, 2254e9, 931e9, 576e9, 423e9, 7.8e9),
				incomeEntry(1648684800, 1917e9, 798e9, 489e9, 383e9, 7.8e9),
				incomeEntry(1617148800, 1642e9, 690e9, 423e9, 324e9, 6.4e9),
			},
		},
		BalanceQuarterly: map[string]any{
			"balanceSheetStatements": []any{
				balanceEntry(1711843200, 1460e9, 980e9, 410e9, 0, 910e9, 78e9),
			},
		},
		CashFlowHistory: map[string]any{
			"cashflowStatements": []any{
				cashFlowEntry(1711843200, 446e9, -31e9),
			},
		},
	}

	m.overview = AlphaVantageOverview{
		Symbol:               "TCS.BSE",
		Name:                 "Tata Consultancy Services Limited",
		Sector:               "Technology",
		Industry:             "Information Technology Services",
		PERatio:              "28.5",
		PriceToBookRatio:     "12.8",
		PriceToSalesRatioTTM: "5.2",
		EVToEBITDA:           "19.5",
		DividendYield:        "0.014",
		ReturnOnEquityTTM:    "0.45",
		ReturnOnAssetsTTM:    "0.29",
		OperatingMarginTTM:   "0.26",
		ProfitMargin:         "0.19",
		MarketCapitalization: "12600000000000",
		FiftyTwoWeekHigh:     "4250",
		FiftyTwoWeekLow:      "3050",
	}

	m.avIncome = AVStatement{
		Symbol: "TCS.BSE",
		AnnualReports: []AVReport{
			{"fiscalDateEnding": "2024-03-31", "totalRevenue": "2403000000000", "grossProfit": "997000000000", "operatingIncome": "620000000000", "netIncome": "468000000000", "interestExpense": "7900000000"},
			{"fiscalDateEnding": "2023-03-31", "totalRevenue": "2254000000000", "grossProfit": "931000000000", "operatingIncome": "576000000000", "netIncome": "423000000000", "interestExpense": "7800000000"},
		},
	}
	m.avBalance = AVStatement{
		Symbol: "TCS.BSE",
		QuarterlyReports: []AVReport{
			{"fiscalDateEnding": "2024-03-31", "totalAssets": "1460000000000", "totalCurrentAssets": "980000000000", "totalCurrentLiabilities": "410000000000", "inventory": "None", "totalShareholderEquity": "910000000000", "shortLongTermDebtTotal": "78000000000"},
		},
	}
	m.avCashFlow = AVStatement{
		Symbol: "TCS.BSE",
		AnnualReports: []AVReport{
			{"fiscalDateEnding": "2024-03-31", "operatingCashflow": "446000000000", "capitalExpenditures": "31000000000"},
		},
	}
}

func incomeEntry(endDate int64, revenue, gross, operating, net, interest float64) map[string]any {
	return map[string]any{
		"endDate":         map[string]any{"raw": float64(endDate)},
		"totalRevenue":    map[string]any{"raw": revenue},
		"grossProfit":     map[string]any{"raw": gross},
		"operatingIncome": map[string]any{"raw": operating},
		"netIncome":       map[string]any{"raw": net},
		"interestExpense": map[string]any{"raw": interest},
	}
}

func balanceEntry(endDate int64, assets, currAssets, currLiab, inventory, equity, debt float64) map[string]any {
	return map[string]any{
		"endDate":                 map[string]any{"raw": float64(endDate)},
		"totalAssets":             map[string]any{"raw": assets},
		"totalCurrentAssets":      map[string]any{"raw": currAssets},
		"totalCurrentLiabilities": map[string]any{"raw": currLiab},
		"inventory":               map[string]any{"raw": inventory},
		"totalStockholderEquity":  map[string]any{"raw": equity},
		"longTermDebt":            map[string]any{"raw": debt},
	}
}

func cashFlowEntry(endDate int64, operating, capex float64) map[string]any {
	return map[string]any{
		"endDate":                          map[string]any{"raw": float64(endDate)},
		"totalCashFromOperatingActivities": map[string]any{"raw": operating},
		"capitalExpenditures":              map[string]any{"raw": capex},
	}
}
