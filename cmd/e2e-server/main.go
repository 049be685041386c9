// Package main provides a standalone HTTP server backed entirely by mock
// upstream providers. It runs the same routes and pipeline as the real
// server without any API keys, making it suitable for Playwright tests and
// frontend development.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"equity-insight/analysis"
	"equity-insight/cache"
	"equity-insight/config"
	"equity-insight/e2e/mocks"
	"equity-insight/internal/api"
	"equity-insight/observability"
	"equity-insight/services"
)

func main() {
	// Development mode logging for tests
	observability.InitLogger(false)

	port := os.Getenv("E2E_SERVER_PORT")
	if port == "" {
		port = "9090"
	}

	// Mock upstreams replace both real providers.
	upstream := mocks.NewMockServer()
	defer upstream.Close()

	cfg := config.NewTestConfig()
	cfg.Yahoo.BaseURL = upstream.YahooURL()
	cfg.AlphaVantage.BaseURL = upstream.AlphaVantageURL()
	cfg.AlphaVantage.APIKey = "e2e-test-key"

	providers := []services.MarketDataProvider{
		services.NewYahooService(cfg.Yahoo.BaseURL, 600),
		services.NewAlphaVantageService(cfg.AlphaVantage.APIKey, cfg.AlphaVantage.BaseURL, 600),
	}

	analyzer := analysis.NewAnalyzer(
		providers,
		nil,
		cache.New(),
		time.Duration(cfg.Analysis.ProviderTimeoutSeconds)*time.Second,
		cfg.Analysis.AnalysisCacheTTL,
		cfg.Analysis.ChartCacheTTL,
	)

	handler := api.NewHandler(analyzer, cfg)
	router := api.NewRouter(handler, cfg)

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		observability.Info("starting E2E test server", "port", port, "url", fmt.Sprintf("http://localhost:%s", port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			observability.Fatal("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	observability.Info("shutting down E2E test server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		observability.Fatal("server forced to shutdown", "error", err)
	}
	observability.Info("E2E test server stopped")
}
