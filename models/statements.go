package models

import "time"

// StatementPeriod is one normalized reporting period of raw statement line
// items, most-recent-first in any series. A zero field means the provider did
// not supply the line item; the ratio calculator treats zero as absent.
type StatementPeriod struct {
	EndDate time.Time `json:"end_date"`

	// Income statement
	Revenue         float64 `json:"revenue"`
	GrossProfit     float64 `json:"gross_profit"`
	OperatingIncome float64 `json:"operating_income"`
	EBIT            float64 `json:"ebit"`
	NetIncome       float64 `json:"net_income"`
	InterestExpense float64 `json:"interest_expense"`

	// Balance sheet
	TotalAssets             float64 `json:"total_assets"`
	TotalCurrentAssets      float64 `json:"total_current_assets"`
	TotalCurrentLiabilities float64 `json:"total_current_liabilities"`
	Inventory               float64 `json:"inventory"`
	TotalEquity             float64 `json:"total_equity"`
	TotalDebt               float64 `json:"total_debt"`

	// Cash flow
	OperatingCashFlow float64 `json:"operating_cash_flow"`
	FreeCashFlow      float64 `json:"free_cash_flow"`
}

// StatementSet groups the statement series a single provider supplied for a
// symbol. Quarterly series hold trailing quarters, annual series hold fiscal
// years, both most-recent-first. Any slice may be empty.
type StatementSet struct {
	QuarterlyIncome  []StatementPeriod
	AnnualIncome     []StatementPeriod
	QuarterlyBalance []StatementPeriod
	AnnualBalance    []StatementPeriod
	AnnualCashFlow   []StatementPeriod
}

// Empty reports whether the set carries no statement data at all.
func (s *StatementSet) Empty() bool {
	if s == nil {
		return true
	}
	return len(s.QuarterlyIncome) == 0 && len(s.AnnualIncome) == 0 &&
		len(s.QuarterlyBalance) == 0 && len(s.AnnualBalance) == 0 &&
		len(s.AnnualCashFlow) == 0
}

// LatestBalance returns the most recent balance sheet period, preferring the
// quarterly series, and false when neither series has one.
func (s *StatementSet) LatestBalance() (StatementPeriod, bool) {
	if s == nil {
		return StatementPeriod{}, false
	}
	if len(s.QuarterlyBalance) > 0 {
		return s.QuarterlyBalance[0], true
	}
	if len(s.AnnualBalance) > 0 {
		return s.AnnualBalance[0], true
	}
	return StatementPeriod{}, false
}
