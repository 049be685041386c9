package analysis

import (
	"fmt"
	"math/rand"

	"equity-insight/models"
)

// Last-resort record generation for symbols no provider recognizes. Seeded
// by the symbol so repeated calls within a session stay stable, which keeps
// demo output and shape-asserting tests deterministic.

var mockSectors = []struct{ sector, industry string }{
	{"Information Technology", "IT Services & Consulting"},
	{"Financial Services", "Private Sector Bank"},
	{"Energy", "Oil & Gas Refining"},
	{"Consumer Goods", "FMCG"},
	{"Healthcare", "Pharmaceuticals"},
	{"Industrials", "Infrastructure & Construction"},
}

// symbolSeed hashes a ticker to a stable PRNG seed.
func symbolSeed(symbol string) int64 {
	var sum int64
	for _, c := range symbol {
		sum += int64(c)
	}
	return sum
}

// mockRange holds the plausible value band for one mock metric.
var mockRanges = map[string][2]float64{
	models.MetricROE:              {8, 35},
	models.MetricROA:              {4, 20},
	models.MetricROCE:             {8, 30},
	models.MetricGrossMargin:      {20, 60},
	models.MetricOperatingMargin:  {8, 30},
	models.MetricNetMargin:        {5, 25},
	models.MetricCurrentRatio:     {0.8, 3.5},
	models.MetricQuickRatio:       {0.5, 2.5},
	models.MetricDebtToEquity:     {0.05, 1.8},
	models.MetricInterestCoverage: {1, 12},
	models.MetricPERatio:          {10, 40},
	models.MetricPBRatio:          {1, 10},
	models.MetricPSRatio:          {1, 12},
	models.MetricEVEBITDA:         {5, 25},
	models.MetricDividendYield:    {0, 4},
	models.MetricRevenueCAGR:      {-5, 25},
	models.MetricEPSGrowth:        {-5, 25},
	models.MetricMarketShare:      {0, 10},
}

// MockAnalysis builds a complete, clearly tagged synthetic record.
func MockAnalysis(symbol string) *models.StockAnalysis {
	rng := rand.New(rand.NewSource(symbolSeed(symbol)))
	record := models.NewStockAnalysis(symbol)

	pick := mockSectors[rng.Intn(len(mockSectors))]
	record.CompanyName = symbol + " Limited"
	record.Sector = pick.sector
	record.Industry = pick.industry

	price := 100 + rng.Float64()*4900
	high52 := price * (1.05 + rng.Float64()*0.3)
	low52 := price * (0.6 + rng.Float64()*0.25)
	shares := 1e7 + rng.Float64()*9.9e8

	record.CurrentPrice = mockMetric(price, models.HealthNormal)
	record.MarketCap = mockMetric(price*shares, models.HealthNormal)

	for _, category := range models.Categories {
		for _, name := range models.CategoryMetrics[category] {
			band := mockRanges[name]
			value := band[0] + rng.Float64()*(band[1]-band[0])
			record.MergeMetric(category, name, mockMetric(value, Classify(value, KindForMetric(name))))
		}
	}

	record.Technical = BuildIndicators(price, high52, low52)
	record.SupportLevels, record.ResistanceLevels = BuildLevels(price, high52, low52)

	labels := []models.HealthLabel{models.HealthGood, models.HealthNormal, models.HealthBad}
	record.IncomeStatementHealth = labels[rng.Intn(len(labels))]
	record.BalanceSheetHealth = labels[rng.Intn(len(labels))]
	record.CashFlowHealth = labels[rng.Intn(len(labels))]
	record.ManagementHealth = models.HealthNormal
	record.IndustryHealth = labels[rng.Intn(len(labels))]
	record.RiskHealth = labels[rng.Intn(len(labels))]
	record.OutlookHealth = labels[rng.Intn(len(labels))]

	record.KeyPoints = []string{
		fmt.Sprintf("No live data available for %s; all figures are synthetic", symbol),
		"Values are deterministic per symbol and carry MOCK provenance",
	}
	record.Pros = []string{"Record shape is complete for presentation"}
	record.Cons = []string{"Every metric is synthetic and must not inform decisions"}

	return record
}

func mockMetric(value float64, health models.HealthLabel) models.Metric {
	m := models.NewMetric(value, models.ProvenanceMock)
	m.Health = health
	return m
}
