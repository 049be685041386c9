package analysis

import "equity-insight/models"

// RatioKind selects the threshold table used to classify a metric value.
type RatioKind int

const (
	// KindAscendingPercent covers margins, returns and growth rates, where
	// bigger is better and the value is a percentage.
	KindAscendingPercent RatioKind = iota

	// KindCoverage covers multiplier-style ratios like interest coverage.
	KindCoverage

	// KindDebtToEquity is lower-is-better.
	KindDebtToEquity

	// KindPERatio is lower-is-better with no failing tier: an expensive
	// stock is a caution, not a defect.
	KindPERatio

	// KindDividendYield is a percentage with modest expectations.
	KindDividendYield

	// KindNeutral covers ratios with no meaningful thresholds (P/B, P/S,
	// price levels); everything classifies as NORMAL.
	KindNeutral
)

// Classify maps a finite metric value to a health label. Pure and total;
// provenance plays no part here, the number is classified as given.
func Classify(value float64, kind RatioKind) models.HealthLabel {
	switch kind {
	case KindCoverage:
		switch {
		case value >= 5:
			return models.HealthBest
		case value >= 3:
			return models.HealthGood
		case value >= 1.5:
			return models.HealthNormal
		case value > 0:
			return models.HealthBad
		default:
			return models.HealthWorse
		}
	case KindDebtToEquity:
		switch {
		case value < 0.3:
			return models.HealthBest
		case value < 0.5:
			return models.HealthGood
		case value < 1.0:
			return models.HealthNormal
		case value < 2.0:
			return models.HealthBad
		default:
			return models.HealthWorse
		}
	case KindPERatio:
		switch {
		case value < 15:
			return models.HealthBest
		case value < 25:
			return models.HealthGood
		case value < 35:
			return models.HealthNormal
		default:
			return models.HealthBad
		}
	case KindDividendYield:
		switch {
		case value > 3:
			return models.HealthBest
		case value > 2:
			return models.HealthGood
		case value > 1:
			return models.HealthNormal
		default:
			return models.HealthBad
		}
	case KindNeutral:
		return models.HealthNormal
	default:
		switch {
		case value > 20:
			return models.HealthBest
		case value > 15:
			return models.HealthGood
		case value > 10:
			return models.HealthNormal
		case value > 0:
			return models.HealthBad
		default:
			return models.HealthWorse
		}
	}
}

// metricKinds maps each named metric to its threshold table. Metrics not
// listed here classify as ascending percentages.
var metricKinds = map[string]RatioKind{
	models.MetricInterestCoverage: KindCoverage,
	models.MetricCurrentRatio:     KindCoverage,
	models.MetricQuickRatio:       KindCoverage,
	models.MetricDebtToEquity:     KindDebtToEquity,
	models.MetricPERatio:          KindPERatio,
	models.MetricPBRatio:          KindNeutral,
	models.MetricPSRatio:          KindNeutral,
	models.MetricEVEBITDA:         KindNeutral,
	models.MetricDividendYield:    KindDividendYield,
}

// KindForMetric returns the threshold table for a named metric.
func KindForMetric(name string) RatioKind {
	if kind, ok := metricKinds[name]; ok {
		return kind
	}
	return KindAscendingPercent
}
