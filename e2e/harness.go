// Package e2e provides end-to-end testing infrastructure: the full analysis
// pipeline and HTTP API wired against mock upstream providers.
package e2e

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"equity-insight/analysis"
	"equity-insight/cache"
	"equity-insight/config"
	"equity-insight/e2e/mocks"
	"equity-insight/internal/api"
	"equity-insight/services"
)

// TestHarness runs the real provider adapters, analyzer and router against a
// MockServer standing in for both upstream APIs.
type TestHarness struct {
	t          *testing.T
	MockServer *mocks.MockServer
	Analyzer   *analysis.Analyzer
	Store      *cache.Cache
	router     http.Handler
	config     *config.Config
}

// NewTestHarness creates a harness with all dependencies initialized.
// Teardown must be called when the test is done.
func NewTestHarness(t *testing.T) *TestHarness {
	t.Helper()

	h := &TestHarness{t: t}
	h.MockServer = mocks.NewMockServer()
	h.config = h.createTestConfig()

	// Fresh breaker registry per harness so breaker state never leaks
	// between tests.
	services.SetBreakers(services.NewBreakerRegistry(services.DefaultBreakerConfig))

	providers := []services.MarketDataProvider{
		services.NewYahooService(h.config.Yahoo.BaseURL, h.config.Yahoo.RequestsPerMinute),
		services.NewAlphaVantageService(h.config.AlphaVantage.APIKey, h.config.AlphaVantage.BaseURL, h.config.AlphaVantage.RequestsPerMinute),
	}

	h.Store = cache.New()
	h.Analyzer = analysis.NewAnalyzer(
		providers,
		nil, // no LLM in E2E; gaps stay N/A or fall to mock
		h.Store,
		time.Duration(h.config.Analysis.ProviderTimeoutSeconds)*time.Second,
		h.config.Analysis.AnalysisCacheTTL,
		h.config.Analysis.ChartCacheTTL,
	)

	handler := api.NewHandler(h.Analyzer, h.config)
	h.router = api.NewRouter(handler, h.config)
	return h
}

// Teardown stops the mock server.
func (h *TestHarness) Teardown() {
	h.MockServer.Close()
}

func (h *TestHarness) createTestConfig() *config.Config {
	cfg := config.NewTestConfig()
	cfg.Yahoo.BaseURL = h.MockServer.YahooURL()
	cfg.AlphaVantage.BaseURL = h.MockServer.AlphaVantageURL()
	cfg.AlphaVantage.APIKey = "test-key"
	// Generous per-minute budgets so rate limiting never interferes unless a
	// scenario wants it to.
	cfg.Yahoo.RequestsPerMinute = 600
	cfg.AlphaVantage.RequestsPerMinute = 600
	return cfg
}

// Router returns the HTTP router for making requests.
func (h *TestHarness) Router() http.Handler {
	return h.router
}

// DoRequest performs an HTTP request against the API router and returns the
// recorded response.
func (h *TestHarness) DoRequest(method, path string) *httptest.ResponseRecorder {
	h.t.Helper()
	req := httptest.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}
