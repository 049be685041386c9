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

// chartIntervals maps a requested range to the candle interval asked of the
// chart endpoint.
var chartIntervals = map[string]string{
	"1d":  "5m",
	"5d":  "15m",
	"1mo": "1d",
	"3mo": "1d",
	"6mo": "1d",
	"1y":  "1d",
	"2y":  "1wk",
	"5y":  "1wk",
}

// FetchChart returns price history for one symbol over the given range.
func (s *YahooService) FetchChart(ctx context.Context, symbol, timeRange string) (*models.ChartData, error) {
	if err := s.limiter.Allow(); err != nil {
		return nil, err
	}

	interval, ok := chartIntervals[timeRange]
	if !ok {
		interval = "1d"
	}

	metrics := observability.GetMetrics()
	metrics.RecordProviderRequest(s.Name(), "chart")
	timer := metrics.NewTimer()
	defer timer.ObserveProvider(s.Name(), "chart")

	chart, err := withBreaker(ctx, BreakerYahoo, func() (*models.ChartData, error) {
		var result *models.ChartData

		err := WithRetry(ctx, DefaultRetryConfig, func() error {
			params := url.Values{}
			params.Set("range", timeRange)
			params.Set("interval", interval)
			reqURL := fmt.Sprintf("%s/v8/finance/chart/%s?%s",
				s.baseURL, url.PathEscape(QualifySymbol(symbol)), params.Encode())

			req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
			if err != nil {
				return fmt.Errorf("failed to create request: %w", ErrProviderUnavailable)
			}
			req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; equity-insight)")

			resp, err := s.httpClient.Do(req)
			if err != nil {
				return fmt.Errorf("chart request failed: %w", ErrProviderUnavailable)
			}
			defer resp.Body.Close()

			switch {
			case resp.StatusCode == http.StatusNotFound:
				return fmt.Errorf("symbol %s: %w", symbol, ErrNoDataForSymbol)
			case resp.StatusCode == http.StatusTooManyRequests:
				return fmt.Errorf("upstream throttled: %w", ErrRateLimited)
			case resp.StatusCode != http.StatusOK:
				return fmt.Errorf("chart returned status %d: %w", resp.StatusCode, ErrProviderUnavailable)
			}

			var doc RawPayload
			if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
				return fmt.Errorf("failed to decode chart: %w", ErrMalformedResponse)
			}

			result, err = parseYahooChart(doc, symbol, timeRange)
			return err
		})

		return result, err
	})

	if err != nil {
		metrics.RecordProviderError(s.Name(), "chart", errorType(err))
		observability.WithProvider(s.Name()).Warn("fetch failed",
			"endpoint", "chart", "symbol", symbol, "error", err)
		return nil, err
	}
	return chart, nil
}

// parseYahooChart unwraps the v8 chart envelope into candles. Entries with a
// missing close are dropped; partial candles are common at the live edge.
func parseYahooChart(doc RawPayload, symbol, timeRange string) (*models.ChartData, error) {
	chart, ok := doc["chart"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("missing chart envelope: %w", ErrMalformedResponse)
	}
	results, ok := chart["result"].([]any)
	if !ok || len(results) == 0 {
		return nil, fmt.Errorf("symbol %s: %w", symbol, ErrNoDataForSymbol)
	}
	first, ok := results[0].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("unexpected result shape: %w", ErrMalformedResponse)
	}

	timestamps, _ := first["timestamp"].([]any)
	if len(timestamps) == 0 {
		return nil, fmt.Errorf("symbol %s: %w", symbol, ErrNoDataForSymbol)
	}

	quote := chartQuote(first)
	if quote == nil {
		return nil, fmt.Errorf("missing quote indicators: %w", ErrMalformedResponse)
	}

	data := &models.ChartData{
		Symbol:     symbol,
		Range:      timeRange,
		Provenance: models.ProvenanceRealAPI,
		Points:     make([]models.ChartPoint, 0, len(timestamps)),
	}
	if meta, ok := first["meta"].(map[string]any); ok {
		data.Currency, _ = meta["currency"].(string)
	}

	closes, _ := quote["close"].([]any)
	opens, _ := quote["open"].([]any)
	highs, _ := quote["high"].([]any)
	lows, _ := quote["low"].([]any)
	volumes, _ := quote["volume"].([]any)

	for i, raw := range timestamps {
		ts, ok := raw.(float64)
		if !ok {
			continue
		}
		closeV, ok := chartValue(closes, i)
		if !ok {
			continue
		}
		point := models.ChartPoint{
			Timestamp: time.Unix(int64(ts), 0).UTC(),
			Close:     closeV,
		}
		point.Open, _ = chartValue(opens, i)
		point.High, _ = chartValue(highs, i)
		point.Low, _ = chartValue(lows, i)
		point.Volume, _ = chartValue(volumes, i)
		data.Points = append(data.Points, point)
	}

	if len(data.Points) == 0 {
		return nil, fmt.Errorf("symbol %s: %w", symbol, ErrNoDataForSymbol)
	}
	return data, nil
}

func chartQuote(result map[string]any) map[string]any {
	indicators, ok := result["indicators"].(map[string]any)
	if !ok {
		return nil
	}
	quotes, ok := indicators["quote"].([]any)
	if !ok || len(quotes) == 0 {
		return nil
	}
	quote, _ := quotes[0].(map[string]any)
	return quote
}

// chartValue reads arr[i] as a number, tolerating short arrays and the JSON
// nulls the chart endpoint emits for unfilled candles.
func chartValue(arr []any, i int) (float64, bool) {
	if i >= len(arr) {
		return 0, false
	}
	v, ok := arr[i].(float64)
	return v, ok
}
