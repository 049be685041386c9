package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Market data provider configurations
	Yahoo        YahooConfig
	AlphaVantage AlphaVantageConfig

	// AI estimation configurations
	OpenAI  OpenAIConfig
	Bedrock BedrockConfig

	// Analysis pipeline configuration
	Analysis AnalysisConfig

	// HTTP configuration
	HTTP HTTPConfig
}

// YahooConfig holds primary provider configuration
type YahooConfig struct {
	BaseURL           string
	RequestsPerMinute int
}

// AlphaVantageConfig holds Alpha Vantage API configuration
type AlphaVantageConfig struct {
	APIKey            string
	BaseURL           string
	RequestsPerMinute int
}

// OpenAIConfig holds OpenAI API configuration
type OpenAIConfig struct {
	APIKey    string
	Model     string
	MaxTokens int
}

// BedrockConfig holds AWS Bedrock configuration
type BedrockConfig struct {
	Region  string
	ModelID string
	Enabled bool
}

// AnalysisConfig holds aggregation pipeline configuration
type AnalysisConfig struct {
	ProviderTimeoutSeconds int
	AnalysisCacheTTL       time.Duration
	ChartCacheTTL          time.Duration
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	Port               int
	CORSAllowedOrigins string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Yahoo: YahooConfig{
			BaseURL:           getEnvString("YAHOO_BASE_URL", "https://query1.finance.yahoo.com"),
			RequestsPerMinute: getEnvInt("YAHOO_REQUESTS_PER_MINUTE", 60),
		},
		AlphaVantage: AlphaVantageConfig{
			APIKey:            os.Getenv("ALPHA_VANTAGE_API_KEY"),
			BaseURL:           getEnvString("ALPHA_VANTAGE_BASE_URL", "https://www.alphavantage.co/query"),
			RequestsPerMinute: getEnvInt("ALPHA_VANTAGE_REQUESTS_PER_MINUTE", 5),
		},
		OpenAI: OpenAIConfig{
			APIKey:    os.Getenv("OPENAI_API_KEY"),
			Model:     getEnvString("OPENAI_MODEL", "gpt-4o"),
			MaxTokens: getEnvInt("OPENAI_MAX_TOKENS", 4096),
		},
		Bedrock: BedrockConfig{
			Region:  getEnvString("BEDROCK_REGION", "us-east-1"),
			ModelID: getEnvString("BEDROCK_MODEL_ID", "anthropic.claude-3-5-sonnet-20241022-v2:0"),
			Enabled: getEnvBool("BEDROCK_ENABLED", false),
		},
		Analysis: AnalysisConfig{
			ProviderTimeoutSeconds: getEnvInt("PROVIDER_TIMEOUT_SECONDS", 20),
			AnalysisCacheTTL:       time.Duration(getEnvInt("ANALYSIS_CACHE_TTL_SECONDS", 7200)) * time.Second,
			ChartCacheTTL:          time.Duration(getEnvInt("CHART_CACHE_TTL_SECONDS", 300)) * time.Second,
		},
		HTTP: HTTPConfig{
			Port:               getEnvInt("PORT", 8080),
			CORSAllowedOrigins: getEnvString("CORS_ALLOWED_ORIGINS", "*"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Analysis.ProviderTimeoutSeconds <= 0 {
		return fmt.Errorf("PROVIDER_TIMEOUT_SECONDS must be positive, got %d", c.Analysis.ProviderTimeoutSeconds)
	}
	if c.Analysis.AnalysisCacheTTL <= 0 {
		return fmt.Errorf("ANALYSIS_CACHE_TTL_SECONDS must be positive, got %s", c.Analysis.AnalysisCacheTTL)
	}
	if c.Analysis.ChartCacheTTL <= 0 {
		return fmt.Errorf("CHART_CACHE_TTL_SECONDS must be positive, got %s", c.Analysis.ChartCacheTTL)
	}
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	return nil
}

// HasAlphaVantage returns true if Alpha Vantage configuration is available
func (c *Config) HasAlphaVantage() bool {
	return c.AlphaVantage.APIKey != ""
}

// HasOpenAI returns true if OpenAI configuration is available
func (c *Config) HasOpenAI() bool {
	return c.OpenAI.APIKey != ""
}

// HasBedrock returns true if Bedrock estimation is enabled
func (c *Config) HasBedrock() bool {
	return c.Bedrock.Enabled && c.Bedrock.Region != "" && c.Bedrock.ModelID != ""
}

func getEnvString(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// NewTestConfig creates a Config with default values for testing
func NewTestConfig() *Config {
	return &Config{
		Yahoo: YahooConfig{
			BaseURL:           "https://query1.finance.yahoo.com",
			RequestsPerMinute: 60,
		},
		AlphaVantage: AlphaVantageConfig{
			APIKey:            "",
			BaseURL:           "https://www.alphavantage.co/query",
			RequestsPerMinute: 5,
		},
		OpenAI: OpenAIConfig{
			APIKey:    "",
			Model:     "gpt-4o",
			MaxTokens: 4096,
		},
		Bedrock: BedrockConfig{
			Region:  "us-east-1",
			ModelID: "anthropic.claude-3-5-sonnet-20241022-v2:0",
			Enabled: false,
		},
		Analysis: AnalysisConfig{
			ProviderTimeoutSeconds: 20,
			AnalysisCacheTTL:       2 * time.Hour,
			ChartCacheTTL:          5 * time.Minute,
		},
		HTTP: HTTPConfig{
			Port:               8080,
			CORSAllowedOrigins: "*",
		},
	}
}
