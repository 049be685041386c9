package analysis

import (
	"context"
	"errors"
	"testing"

	"equity-insight/cache"
	"equity-insight/models"
	"equity-insight/services"
)

// fakeChartProvider layers chart capability onto fakeProvider.
type fakeChartProvider struct {
	fakeProvider
	chart      *models.ChartData
	chartErr   error
	chartCalls int
}

func (f *fakeChartProvider) FetchChart(ctx context.Context, symbol, timeRange string) (*models.ChartData, error) {
	f.chartCalls++
	if f.chartErr != nil {
		return nil, f.chartErr
	}
	return f.chart, nil
}

var _ services.ChartProvider = (*fakeChartProvider)(nil)

func TestChart_InvalidSymbol(t *testing.T) {
	analyzer := newTestAnalyzer(nil, nil, nil)
	if _, err := analyzer.Chart(context.Background(), "BAD SYMBOL", "1y"); !errors.Is(err, ErrInvalidSymbol) {
		t.Errorf("expected ErrInvalidSymbol, got %v", err)
	}
}

func TestChart_InvalidRange(t *testing.T) {
	analyzer := newTestAnalyzer(nil, nil, nil)
	if _, err := analyzer.Chart(context.Background(), "TCS", "7y"); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("expected ErrInvalidRange, got %v", err)
	}
}

func TestChart_ProviderData(t *testing.T) {
	provider := &fakeChartProvider{
		fakeProvider: fakeProvider{name: "yahoo", provenance: models.ProvenanceRealAPI},
		chart: &models.ChartData{
			Range:      "1mo",
			Provenance: models.ProvenanceRealAPI,
			Points:     []models.ChartPoint{{Close: 3500}},
		},
	}

	analyzer := newTestAnalyzer([]services.MarketDataProvider{provider}, nil, nil)
	chart, err := analyzer.Chart(context.Background(), "TCS", "1mo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if chart.Symbol != "TCS" {
		t.Errorf("Symbol = %s, want TCS", chart.Symbol)
	}
	if chart.Provenance != models.ProvenanceRealAPI {
		t.Errorf("Provenance = %s, want REAL_API", chart.Provenance)
	}
	if len(chart.Points) != 1 || chart.Points[0].Close != 3500 {
		t.Errorf("Points = %+v", chart.Points)
	}
}

func TestChart_MockFallback(t *testing.T) {
	// One provider without chart support, one failing.
	plain := &fakeProvider{name: "alphavantage", provenance: models.ProvenanceSecondaryAPI}
	broken := &fakeChartProvider{
		fakeProvider: fakeProvider{name: "yahoo", provenance: models.ProvenanceRealAPI},
		chartErr:     errors.New("upstream down"),
	}

	analyzer := newTestAnalyzer([]services.MarketDataProvider{broken, plain}, nil, nil)
	chart, err := analyzer.Chart(context.Background(), "TCS", "1y")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if chart.Provenance != models.ProvenanceMock {
		t.Errorf("Provenance = %s, want MOCK", chart.Provenance)
	}
	if len(chart.Points) == 0 {
		t.Error("mock chart must not be empty")
	}

	// Same symbol, same series.
	again := MockChart("TCS", "1y")
	if again.Points[0].Close != MockChart("TCS", "1y").Points[0].Close {
		t.Error("mock chart must be deterministic per symbol")
	}
}

func TestChart_CachesPerSymbolAndRange(t *testing.T) {
	provider := &fakeChartProvider{
		fakeProvider: fakeProvider{name: "yahoo", provenance: models.ProvenanceRealAPI},
		chart: &models.ChartData{
			Provenance: models.ProvenanceRealAPI,
			Points:     []models.ChartPoint{{Close: 3500}},
		},
	}
	store := cache.New()

	analyzer := newTestAnalyzer([]services.MarketDataProvider{provider}, nil, store)
	if _, err := analyzer.Chart(context.Background(), "TCS", "1y"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := analyzer.Chart(context.Background(), "TCS", "1y"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if provider.chartCalls != 1 {
		t.Errorf("chartCalls = %d, want 1 (second read served from cache)", provider.chartCalls)
	}

	// A different range is a distinct cache entry.
	if _, err := analyzer.Chart(context.Background(), "TCS", "1mo"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if provider.chartCalls != 2 {
		t.Errorf("chartCalls = %d, want 2", provider.chartCalls)
	}
}
