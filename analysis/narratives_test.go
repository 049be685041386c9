package analysis

import (
	"strings"
	"testing"

	"equity-insight/models"
)

func classified(value float64, health models.HealthLabel) models.Metric {
	m := models.NewMetric(value, models.ProvenanceRealAPI)
	m.Health = health
	return m
}

func TestCategoryHealth(t *testing.T) {
	tests := []struct {
		name    string
		metrics map[string]models.Metric
		want    models.HealthLabel
	}{
		{
			name:    "empty category reads neutral",
			metrics: map[string]models.Metric{},
			want:    models.HealthNormal,
		},
		{
			name: "unavailable metrics are ignored",
			metrics: map[string]models.Metric{
				"a": models.UnavailableMetric(),
				"b": classified(20, models.HealthBest),
			},
			want: models.HealthBest,
		},
		{
			name: "mixed ranks round to nearest",
			metrics: map[string]models.Metric{
				"a": classified(20, models.HealthBest),
				"b": classified(5, models.HealthBad),
			},
			want: models.HealthGood,
		},
		{
			name: "all weak stays weak",
			metrics: map[string]models.Metric{
				"a": classified(1, models.HealthWorse),
				"b": classified(2, models.HealthBad),
			},
			want: models.HealthBad,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := categoryHealth(tt.metrics); got != tt.want {
				t.Errorf("categoryHealth() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestApplyQualitative(t *testing.T) {
	record := models.NewStockAnalysis("TCS")
	record.Profitability[models.MetricROE] = classified(45, models.HealthBest)
	record.Liquidity[models.MetricDebtToEquity] = classified(2.5, models.HealthWorse)
	record.Growth[models.MetricRevenueCAGR] = classified(12, models.HealthGood)

	applyQualitative(record)

	if record.IncomeStatementHealth != models.HealthBest {
		t.Errorf("IncomeStatementHealth = %s", record.IncomeStatementHealth)
	}
	if record.CashFlowHealth != models.HealthBest {
		t.Errorf("CashFlowHealth = %s", record.CashFlowHealth)
	}
	if record.BalanceSheetHealth != models.HealthWorse {
		t.Errorf("BalanceSheetHealth = %s", record.BalanceSheetHealth)
	}
	if record.RiskHealth != models.HealthWorse {
		t.Errorf("RiskHealth = %s", record.RiskHealth)
	}
	if record.IndustryHealth != models.HealthGood {
		t.Errorf("IndustryHealth = %s", record.IndustryHealth)
	}
	if record.ManagementHealth != models.HealthNormal {
		t.Errorf("ManagementHealth = %s", record.ManagementHealth)
	}
	// (4 + 3 + 1) / 2 = 4
	if record.OutlookHealth != models.HealthBest {
		t.Errorf("OutlookHealth = %s", record.OutlookHealth)
	}
}

func TestApplyQualitative_EmptyRecord(t *testing.T) {
	record := models.NewStockAnalysis("TCS")
	applyQualitative(record)

	for label, got := range map[string]models.HealthLabel{
		"IncomeStatementHealth": record.IncomeStatementHealth,
		"BalanceSheetHealth":    record.BalanceSheetHealth,
		"CashFlowHealth":        record.CashFlowHealth,
		"OutlookHealth":         record.OutlookHealth,
	} {
		if got != models.HealthNormal {
			t.Errorf("%s = %s, want NORMAL on an empty record", label, got)
		}
	}
}

func TestBuildNarratives(t *testing.T) {
	record := models.NewStockAnalysis("TCS")
	record.Profitability[models.MetricROE] = classified(45, models.HealthBest)
	record.Profitability[models.MetricNetMargin] = classified(19, models.HealthGood)
	record.Liquidity[models.MetricDebtToEquity] = classified(2.5, models.HealthWorse)
	record.Valuation[models.MetricPERatio] = classified(40, models.HealthBad)

	estimate := models.NewMetric(8, models.ProvenanceAIEstimated)
	estimate.Health = models.HealthNormal
	record.Growth[models.MetricMarketShare] = estimate

	buildNarratives(record)

	if len(record.Pros) != 2 {
		t.Fatalf("Pros = %v, want 2 entries", record.Pros)
	}
	if !strings.Contains(record.Pros[0], models.MetricROE) {
		t.Errorf("Pros[0] = %q, want ROE first", record.Pros[0])
	}
	if len(record.Cons) != 2 {
		t.Fatalf("Cons = %v, want 2 entries", record.Cons)
	}

	if len(record.KeyPoints) < 2 {
		t.Fatalf("KeyPoints = %v", record.KeyPoints)
	}
	if !strings.Contains(record.KeyPoints[0], "4 of") {
		t.Errorf("KeyPoints[0] = %q, want 4 real metrics counted", record.KeyPoints[0])
	}
	if !strings.Contains(record.KeyPoints[1], "1 metrics are AI-estimated") {
		t.Errorf("KeyPoints[1] = %q", record.KeyPoints[1])
	}
}

func TestBuildNarratives_CapsLists(t *testing.T) {
	record := models.NewStockAnalysis("TCS")
	for _, category := range models.Categories {
		for _, name := range models.CategoryMetrics[category] {
			record.Category(category)[name] = classified(50, models.HealthBest)
		}
	}

	buildNarratives(record)

	if len(record.Pros) != 5 {
		t.Errorf("Pros length = %d, want capped at 5", len(record.Pros))
	}
	if len(record.Cons) != 0 {
		t.Errorf("Cons = %v, want none", record.Cons)
	}
}
