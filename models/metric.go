package models

import "time"

// Provenance describes how a metric's value was obtained, ordered by trust.
type Provenance string

const (
	ProvenanceRealAPI      Provenance = "REAL_API"
	ProvenanceSecondaryAPI Provenance = "SECONDARY_API"
	ProvenanceCalculated   Provenance = "CALCULATED"
	ProvenanceAIEstimated  Provenance = "AI_ESTIMATED"
	ProvenanceMock         Provenance = "MOCK"
)

// Trust returns the trust tier for a provenance value. Higher is more trusted.
// Unknown provenance ranks below MOCK so it can never displace a tagged value.
func (p Provenance) Trust() int {
	switch p {
	case ProvenanceRealAPI:
		return 4
	case ProvenanceSecondaryAPI:
		return 3
	case ProvenanceCalculated:
		return 2
	case ProvenanceAIEstimated:
		return 1
	case ProvenanceMock:
		return 0
	default:
		return -1
	}
}

// HealthLabel is the five-tier categorical rating derived from a metric value.
type HealthLabel string

const (
	HealthBest   HealthLabel = "BEST"
	HealthGood   HealthLabel = "GOOD"
	HealthNormal HealthLabel = "NORMAL"
	HealthBad    HealthLabel = "BAD"
	HealthWorse  HealthLabel = "WORSE"
)

// Metric is the atomic unit of the aggregation pipeline: a numeric reading
// tagged with availability, provenance and health.
//
// When Available is false the Value is meaningless and must be rendered as
// "N/A"; no code path may surface it as a real zero.
type Metric struct {
	Value      float64     `json:"value"`
	Available  bool        `json:"available"`
	Provenance Provenance  `json:"provenance"`
	Health     HealthLabel `json:"health"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// NewMetric returns an available metric tagged with the given provenance.
func NewMetric(value float64, provenance Provenance) Metric {
	return Metric{
		Value:      value,
		Available:  true,
		Provenance: provenance,
		UpdatedAt:  time.Now(),
	}
}

// UnavailableMetric returns the "N/A" metric.
func UnavailableMetric() Metric {
	return Metric{Available: false, UpdatedAt: time.Now()}
}

// Merge returns the higher-trust of the receiver and the candidate.
// An available value is never replaced by an equal- or lower-trust candidate,
// so provenance is monotonic across the whole pipeline.
func (m Metric) Merge(candidate Metric) Metric {
	if !candidate.Available {
		return m
	}
	if !m.Available {
		return candidate
	}
	if candidate.Provenance.Trust() > m.Provenance.Trust() {
		return candidate
	}
	return m
}

// MetricCategory identifies one of the four categorized metric maps.
type MetricCategory string

const (
	CategoryProfitability MetricCategory = "profitability"
	CategoryLiquidity     MetricCategory = "liquidity"
	CategoryValuation     MetricCategory = "valuation"
	CategoryGrowth        MetricCategory = "growth"
)

// Metric names, keyed the way the analysis record exposes them.
const (
	MetricROE              = "ROE"
	MetricROA              = "ROA"
	MetricROCE             = "ROCE"
	MetricGrossMargin      = "Gross Margin"
	MetricOperatingMargin  = "Operating Margin"
	MetricNetMargin        = "Net Margin"
	MetricCurrentRatio     = "Current Ratio"
	MetricQuickRatio       = "Quick Ratio"
	MetricDebtToEquity     = "Debt to Equity"
	MetricInterestCoverage = "Interest Coverage"
	MetricPERatio          = "P/E Ratio"
	MetricPBRatio          = "P/B Ratio"
	MetricPSRatio          = "P/S Ratio"
	MetricEVEBITDA         = "EV/EBITDA"
	MetricDividendYield    = "Dividend Yield"
	MetricRevenueCAGR      = "Revenue CAGR (3Y)"
	MetricEPSGrowth        = "EPS Growth (3Y)"
	MetricMarketShare      = "Market Share Growth"
)

// CategoryMetrics lists the metric names belonging to each category, in
// presentation order.
var CategoryMetrics = map[MetricCategory][]string{
	CategoryProfitability: {MetricROE, MetricROA, MetricROCE, MetricGrossMargin, MetricOperatingMargin, MetricNetMargin},
	CategoryLiquidity:     {MetricCurrentRatio, MetricQuickRatio, MetricDebtToEquity, MetricInterestCoverage},
	CategoryValuation:     {MetricPERatio, MetricPBRatio, MetricPSRatio, MetricEVEBITDA, MetricDividendYield},
	CategoryGrowth:        {MetricRevenueCAGR, MetricEPSGrowth, MetricMarketShare},
}

// Categories in a stable iteration order.
var Categories = []MetricCategory{CategoryProfitability, CategoryLiquidity, CategoryValuation, CategoryGrowth}

// ZeroIsReal reports whether a literal zero is a legitimate value for the
// metric. A 0% dividend yield or zero debt is real; a zero margin or return
// almost always means the provider left the field unset, so those fall
// through to derivation or estimation instead.
func ZeroIsReal(name string) bool {
	switch name {
	case MetricDividendYield, MetricDebtToEquity:
		return true
	default:
		return false
	}
}
