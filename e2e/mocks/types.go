package mocks

// YahooQuoteSummary shapes the quoteSummary envelope the primary provider
// expects: result[0] carries the requested modules.
type YahooQuoteSummary struct {
	Price             map[string]any `json:"price,omitempty"`
	SummaryDetail     map[string]any `json:"summaryDetail,omitempty"`
	FinancialData     map[string]any `json:"financialData,omitempty"`
	KeyStatistics     map[string]any `json:"defaultKeyStatistics,omitempty"`
	AssetProfile      map[string]any `json:"assetProfile,omitempty"`
	IncomeHistory     map[string]any `json:"incomeStatementHistory,omitempty"`
	IncomeQuarterly   map[string]any `json:"incomeStatementHistoryQuarterly,omitempty"`
	BalanceHistory    map[string]any `json:"balanceSheetHistory,omitempty"`
	BalanceQuarterly  map[string]any `json:"balanceSheetHistoryQuarterly,omitempty"`
	CashFlowHistory   map[string]any `json:"cashflowStatementHistory,omitempty"`
	CashFlowQuarterly map[string]any `json:"cashflowStatementHistoryQuarterly,omitempty"`
}

// AlphaVantageOverview is the flat OVERVIEW document the secondary provider
// parses; every number arrives as a string.
type AlphaVantageOverview struct {
	Symbol               string `json:"Symbol"`
	Name                 string `json:"Name"`
	Sector               string `json:"Sector"`
	Industry             string `json:"Industry"`
	PERatio              string `json:"PERatio"`
	PriceToBookRatio     string `json:"PriceToBookRatio"`
	PriceToSalesRatioTTM string `json:"PriceToSalesRatioTTM"`
	EVToEBITDA           string `json:"EVToEBITDA"`
	DividendYield        string `json:"DividendYield"`
	ReturnOnEquityTTM    string `json:"ReturnOnEquityTTM"`
	ReturnOnAssetsTTM    string `json:"ReturnOnAssetsTTM"`
	OperatingMarginTTM   string `json:"OperatingMarginTTM"`
	ProfitMargin         string `json:"ProfitMargin"`
	MarketCapitalization string `json:"MarketCapitalization"`
	FiftyTwoWeekHigh     string `json:"52WeekHigh"`
	FiftyTwoWeekLow      string `json:"52WeekLow"`
}

// AVReport is one annual or quarterly statement report; values are strings,
// matching the Alpha Vantage wire format.
type AVReport map[string]string

// AVStatement is the report container for INCOME_STATEMENT, BALANCE_SHEET
// and CASH_FLOW responses.
type AVStatement struct {
	Symbol           string     `json:"symbol"`
	AnnualReports    []AVReport `json:"annualReports,omitempty"`
	QuarterlyReports []AVReport `json:"quarterlyReports,omitempty"`
}
