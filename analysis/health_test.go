package analysis

import (
	"testing"

	"equity-insight/models"
)

func TestClassify_AscendingPercentBoundaries(t *testing.T) {
	tests := []struct {
		value float64
		want  models.HealthLabel
	}{
		{25, models.HealthBest},
		{20.01, models.HealthBest},
		{20, models.HealthGood}, // threshold is strictly greater-than
		{15.5, models.HealthGood},
		{15, models.HealthNormal},
		{10.5, models.HealthNormal},
		{10, models.HealthBad},
		{0.1, models.HealthBad},
		{0, models.HealthWorse},
		{-3, models.HealthWorse},
	}
	for _, tt := range tests {
		if got := Classify(tt.value, KindAscendingPercent); got != tt.want {
			t.Errorf("Classify(%v, ascending) = %s, want %s", tt.value, got, tt.want)
		}
	}
}

func TestClassify_Coverage(t *testing.T) {
	tests := []struct {
		value float64
		want  models.HealthLabel
	}{
		{5, models.HealthBest}, // inclusive
		{4.9, models.HealthGood},
		{3, models.HealthGood},
		{2, models.HealthNormal},
		{1.5, models.HealthNormal},
		{1, models.HealthBad},
		{0, models.HealthWorse},
		{-1, models.HealthWorse},
	}
	for _, tt := range tests {
		if got := Classify(tt.value, KindCoverage); got != tt.want {
			t.Errorf("Classify(%v, coverage) = %s, want %s", tt.value, got, tt.want)
		}
	}
}

func TestClassify_DebtToEquity(t *testing.T) {
	tests := []struct {
		value float64
		want  models.HealthLabel
	}{
		{0, models.HealthBest},
		{0.29, models.HealthBest},
		{0.3, models.HealthGood},
		{0.5, models.HealthNormal},
		{0.99, models.HealthNormal},
		{1.0, models.HealthBad},
		{1.99, models.HealthBad},
		{2.0, models.HealthWorse},
	}
	for _, tt := range tests {
		if got := Classify(tt.value, KindDebtToEquity); got != tt.want {
			t.Errorf("Classify(%v, debt-to-equity) = %s, want %s", tt.value, got, tt.want)
		}
	}
}

func TestClassify_PERatioHasNoWorseTier(t *testing.T) {
	tests := []struct {
		value float64
		want  models.HealthLabel
	}{
		{14.99, models.HealthBest},
		{15, models.HealthGood},
		{24.99, models.HealthGood},
		{25, models.HealthNormal},
		{34.99, models.HealthNormal},
		{35, models.HealthBad},
		{500, models.HealthBad},
	}
	for _, tt := range tests {
		if got := Classify(tt.value, KindPERatio); got != tt.want {
			t.Errorf("Classify(%v, P/E) = %s, want %s", tt.value, got, tt.want)
		}
	}
}

func TestClassify_DividendYield(t *testing.T) {
	tests := []struct {
		value float64
		want  models.HealthLabel
	}{
		{3.1, models.HealthBest},
		{3, models.HealthGood},
		{2.1, models.HealthGood},
		{2, models.HealthNormal},
		{1.1, models.HealthNormal},
		{1, models.HealthBad},
		{0, models.HealthBad},
	}
	for _, tt := range tests {
		if got := Classify(tt.value, KindDividendYield); got != tt.want {
			t.Errorf("Classify(%v, dividend yield) = %s, want %s", tt.value, got, tt.want)
		}
	}
}

func TestClassify_Neutral(t *testing.T) {
	for _, v := range []float64{-100, 0, 3.5, 1e6} {
		if got := Classify(v, KindNeutral); got != models.HealthNormal {
			t.Errorf("Classify(%v, neutral) = %s, want NORMAL", v, got)
		}
	}
}

func TestKindForMetric(t *testing.T) {
	tests := []struct {
		name string
		want RatioKind
	}{
		{models.MetricInterestCoverage, KindCoverage},
		{models.MetricCurrentRatio, KindCoverage},
		{models.MetricDebtToEquity, KindDebtToEquity},
		{models.MetricPERatio, KindPERatio},
		{models.MetricDividendYield, KindDividendYield},
		{models.MetricPBRatio, KindNeutral},
		{models.MetricROE, KindAscendingPercent},
		{models.MetricRevenueCAGR, KindAscendingPercent},
		{"unknown metric", KindAscendingPercent},
	}
	for _, tt := range tests {
		if got := KindForMetric(tt.name); got != tt.want {
			t.Errorf("KindForMetric(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
