package analysis

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"equity-insight/cache"
	"equity-insight/models"
	"equity-insight/observability"
	"equity-insight/services"
)

// ErrInvalidRange rejects chart ranges outside the accepted vocabulary.
var ErrInvalidRange = errors.New("invalid chart range")

// Chart serves price history for a symbol. Like Analyze, a valid request
// never fails: when no provider can serve the range, a deterministic mock
// series is returned instead.
func (a *Analyzer) Chart(ctx context.Context, symbol, timeRange string) (*models.ChartData, error) {
	normalized := services.NormalizeSymbol(symbol)
	if !services.ValidSymbol(normalized) {
		return nil, ErrInvalidSymbol
	}
	if !models.ChartRanges[timeRange] {
		return nil, ErrInvalidRange
	}
	bare := services.BareSymbol(normalized)

	if a.store != nil {
		if cached, ok := a.store.Get("chart", cache.ChartKey(bare, timeRange)); ok {
			if chart, ok := cached.(*models.ChartData); ok {
				return chart, nil
			}
		}
	}

	chart := a.fetchChart(ctx, normalized, timeRange)
	if chart == nil {
		observability.WithSymbol(bare).Warn("no provider returned chart data, serving mock series",
			"range", timeRange)
		observability.GetMetrics().RecordMockFallback()
		chart = MockChart(bare, timeRange)
	}
	chart.Symbol = bare

	if a.store != nil {
		a.store.Set(cache.ChartKey(bare, timeRange), chart, a.chartTTL)
	}
	return chart, nil
}

// fetchChart asks chart-capable providers in trust order; first hit wins.
func (a *Analyzer) fetchChart(ctx context.Context, symbol, timeRange string) *models.ChartData {
	for _, p := range a.providers {
		cp, ok := p.(services.ChartProvider)
		if !ok {
			continue
		}
		callCtx, cancel := context.WithTimeout(ctx, a.timeout)
		chart, err := cp.FetchChart(callCtx, symbol, timeRange)
		cancel()
		if err != nil {
			observability.WithProvider(p.Name()).Warn("chart fetch failed",
				"symbol", symbol, "range", timeRange, "error", err)
			continue
		}
		if chart != nil && len(chart.Points) > 0 {
			return chart
		}
	}
	return nil
}

// chartPointCounts approximates the number of candles per range.
var chartPointCounts = map[string]int{
	"1d":  24,
	"5d":  40,
	"1mo": 22,
	"3mo": 66,
	"6mo": 126,
	"1y":  252,
	"2y":  104,
	"5y":  260,
}

// MockChart builds a synthetic random-walk series, seeded by the symbol so
// repeated calls within a session stay stable.
func MockChart(symbol, timeRange string) *models.ChartData {
	rng := rand.New(rand.NewSource(symbolSeed(symbol)))

	count := chartPointCounts[timeRange]
	if count == 0 {
		count = 252
	}

	price := 100 + rng.Float64()*2900
	end := time.Now().UTC().Truncate(time.Hour)
	step := chartRangeDuration(timeRange) / time.Duration(count)

	data := &models.ChartData{
		Symbol:     symbol,
		Range:      timeRange,
		Currency:   "INR",
		Provenance: models.ProvenanceMock,
		Points:     make([]models.ChartPoint, 0, count),
	}

	for i := count - 1; i >= 0; i-- {
		drift := 1 + (rng.Float64()-0.48)*0.04
		open := price
		price *= drift
		high := open
		low := open
		if price > high {
			high = price
		}
		if price < low {
			low = price
		}
		data.Points = append(data.Points, models.ChartPoint{
			Timestamp: end.Add(-time.Duration(i) * step),
			Open:      open,
			High:      high * 1.01,
			Low:       low * 0.99,
			Close:     price,
			Volume:    float64(rng.Intn(5_000_000) + 100_000),
		})
	}
	return data
}

func chartRangeDuration(timeRange string) time.Duration {
	day := 24 * time.Hour
	switch timeRange {
	case "1d":
		return day
	case "5d":
		return 5 * day
	case "1mo":
		return 30 * day
	case "3mo":
		return 91 * day
	case "6mo":
		return 182 * day
	case "2y":
		return 730 * day
	case "5y":
		return 1825 * day
	default:
		return 365 * day
	}
}
