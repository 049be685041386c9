// Package main runs the equity analysis HTTP server.
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
	"equity-insight/internal/api"
	"equity-insight/observability"
	"equity-insight/services"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using environment variables")
	}

	production := os.Getenv("APP_ENV") == "production"
	observability.InitLogger(production)

	cfg, err := config.Load()
	if err != nil {
		observability.Fatal("invalid configuration", "error", err)
	}

	ctx := context.Background()

	// Providers in trust order: primary first, then secondary.
	providers := []services.MarketDataProvider{
		services.NewYahooService(cfg.Yahoo.BaseURL, cfg.Yahoo.RequestsPerMinute),
	}
	if cfg.HasAlphaVantage() {
		providers = append(providers,
			services.NewAlphaVantageService(cfg.AlphaVantage.APIKey, cfg.AlphaVantage.BaseURL, cfg.AlphaVantage.RequestsPerMinute))
	} else {
		observability.Warn("ALPHA_VANTAGE_API_KEY not set, secondary provider disabled")
	}

	// One LLM backend feeds the estimator; OpenAI wins when both are configured.
	var estimator *services.Estimator
	switch {
	case cfg.HasOpenAI():
		llm, err := services.NewOpenAIService(cfg)
		if err != nil {
			observability.Fatal("failed to initialize OpenAI service", "error", err)
		}
		estimator = services.NewEstimator(llm)
	case cfg.HasBedrock():
		llm, err := services.NewBedrockService(ctx, cfg.Bedrock.Region, cfg.Bedrock.ModelID)
		if err != nil {
			observability.Fatal("failed to initialize Bedrock service", "error", err)
		}
		estimator = services.NewEstimator(llm)
	default:
		observability.Warn("no LLM backend configured, AI estimation disabled")
	}

	store := cache.New()
	analyzer := analysis.NewAnalyzer(
		providers,
		estimator,
		store,
		time.Duration(cfg.Analysis.ProviderTimeoutSeconds)*time.Second,
		cfg.Analysis.AnalysisCacheTTL,
		cfg.Analysis.ChartCacheTTL,
	)

	handler := api.NewHandler(analyzer, cfg)
	router := api.NewRouter(handler, cfg)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	go func() {
		observability.Info("starting server", "port", cfg.HTTP.Port, "providers", len(providers))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			observability.Fatal("server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	observability.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		observability.Fatal("server forced to shutdown", "error", err)
	}
	observability.Info("server stopped")
}
