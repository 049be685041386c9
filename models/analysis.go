package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Signal is a technical indicator's trading signal.
type Signal string

const (
	SignalBuy  Signal = "BUY"
	SignalSell Signal = "SELL"
	SignalHold Signal = "HOLD"
)

// TechnicalIndicator is one synthetically derived technical study.
// Entry, Target and StopLoss are zero when the signal is HOLD.
type TechnicalIndicator struct {
	Name        string          `json:"name"`
	Value       float64         `json:"value"`
	Signal      Signal          `json:"signal"`
	Health      HealthLabel     `json:"health"`
	Entry       decimal.Decimal `json:"entry,omitempty"`
	Target      decimal.Decimal `json:"target,omitempty"`
	StopLoss    decimal.Decimal `json:"stop_loss,omitempty"`
	Description string          `json:"description"`
}

// StockAnalysis is the fully assembled analysis record for one symbol.
// It is always fully shaped: every metric map contains every named metric,
// degraded entries carry Available=false rather than being omitted.
type StockAnalysis struct {
	ID          uuid.UUID `json:"id"`
	Symbol      string    `json:"symbol"`
	CompanyName string    `json:"company_name"`
	Sector      string    `json:"sector"`
	Industry    string    `json:"industry"`

	CurrentPrice Metric `json:"current_price"`
	MarketCap    Metric `json:"market_cap"`

	Profitability map[string]Metric `json:"profitability"`
	Liquidity     map[string]Metric `json:"liquidity"`
	Valuation     map[string]Metric `json:"valuation"`
	Growth        map[string]Metric `json:"growth"`

	IncomeStatementHealth HealthLabel `json:"income_statement_health"`
	BalanceSheetHealth    HealthLabel `json:"balance_sheet_health"`
	CashFlowHealth        HealthLabel `json:"cash_flow_health"`
	ManagementHealth      HealthLabel `json:"management_health"`
	IndustryHealth        HealthLabel `json:"industry_health"`
	RiskHealth            HealthLabel `json:"risk_health"`
	OutlookHealth         HealthLabel `json:"outlook_health"`

	Technical        []TechnicalIndicator `json:"technical"`
	SupportLevels    []decimal.Decimal    `json:"support_levels"`
	ResistanceLevels []decimal.Decimal    `json:"resistance_levels"`

	KeyPoints []string `json:"key_points"`
	Pros      []string `json:"pros"`
	Cons      []string `json:"cons"`

	LastUpdated time.Time `json:"last_updated"`
}

// NewStockAnalysis returns a fully shaped record with every metric N/A.
func NewStockAnalysis(symbol string) *StockAnalysis {
	a := &StockAnalysis{
		ID:          uuid.New(),
		Symbol:      symbol,
		CompanyName: "N/A",
		Sector:      "N/A",
		Industry:    "N/A",

		CurrentPrice: UnavailableMetric(),
		MarketCap:    UnavailableMetric(),

		Profitability: make(map[string]Metric),
		Liquidity:     make(map[string]Metric),
		Valuation:     make(map[string]Metric),
		Growth:        make(map[string]Metric),

		IncomeStatementHealth: HealthNormal,
		BalanceSheetHealth:    HealthNormal,
		CashFlowHealth:        HealthNormal,
		ManagementHealth:      HealthNormal,
		IndustryHealth:        HealthNormal,
		RiskHealth:            HealthNormal,
		OutlookHealth:         HealthNormal,

		LastUpdated: time.Now(),
	}
	for category, names := range CategoryMetrics {
		m := a.Category(category)
		for _, name := range names {
			m[name] = UnavailableMetric()
		}
	}
	return a
}

// Category returns the metric map for the given category.
func (a *StockAnalysis) Category(category MetricCategory) map[string]Metric {
	switch category {
	case CategoryProfitability:
		return a.Profitability
	case CategoryLiquidity:
		return a.Liquidity
	case CategoryValuation:
		return a.Valuation
	case CategoryGrowth:
		return a.Growth
	default:
		return nil
	}
}

// MergeMetric merges a candidate into the named metric of a category,
// honoring provenance ordering.
func (a *StockAnalysis) MergeMetric(category MetricCategory, name string, candidate Metric) {
	m := a.Category(category)
	if m == nil {
		return
	}
	m[name] = m[name].Merge(candidate)
}

// MissingMetrics returns the names of metrics in a category that are still
// unavailable.
func (a *StockAnalysis) MissingMetrics(category MetricCategory) []string {
	var missing []string
	m := a.Category(category)
	for _, name := range CategoryMetrics[category] {
		if !m[name].Available {
			missing = append(missing, name)
		}
	}
	return missing
}
