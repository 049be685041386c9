package analysis

import "equity-insight/models"

// fieldSpec maps one named metric to its candidate extraction paths within a
// provider's payloads. Scale converts the provider's unit to ours (1 when
// already aligned; 100 for fraction-to-percent).
type fieldSpec struct {
	category models.MetricCategory
	name     string
	paths    [][]string
	scale    float64
}

// providerFieldSpecs holds the direct-extraction tables keyed by provider
// name. Paths are tried against every endpoint payload the provider returned,
// so a spec does not care which endpoint carries the field.
var providerFieldSpecs = map[string][]fieldSpec{
	"yahoo": {
		{models.CategoryProfitability, models.MetricROE, [][]string{{"financialData", "returnOnEquity", "raw"}}, 100},
		{models.CategoryProfitability, models.MetricROA, [][]string{{"financialData", "returnOnAssets", "raw"}}, 100},
		{models.CategoryProfitability, models.MetricGrossMargin, [][]string{{"financialData", "grossMargins", "raw"}}, 100},
		{models.CategoryProfitability, models.MetricOperatingMargin, [][]string{{"financialData", "operatingMargins", "raw"}}, 100},
		{models.CategoryProfitability, models.MetricNetMargin, [][]string{{"financialData", "profitMargins", "raw"}, {"defaultKeyStatistics", "profitMargins", "raw"}}, 100},
		{models.CategoryLiquidity, models.MetricCurrentRatio, [][]string{{"financialData", "currentRatio", "raw"}}, 1},
		{models.CategoryLiquidity, models.MetricQuickRatio, [][]string{{"financialData", "quickRatio", "raw"}}, 1},
		// Yahoo reports debt-to-equity as a percentage.
		{models.CategoryLiquidity, models.MetricDebtToEquity, [][]string{{"financialData", "debtToEquity", "raw"}}, 0.01},
		{models.CategoryValuation, models.MetricPERatio, [][]string{{"summaryDetail", "trailingPE", "raw"}, {"defaultKeyStatistics", "trailingPE", "raw"}}, 1},
		{models.CategoryValuation, models.MetricPBRatio, [][]string{{"defaultKeyStatistics", "priceToBook", "raw"}}, 1},
		{models.CategoryValuation, models.MetricPSRatio, [][]string{{"summaryDetail", "priceToSalesTrailing12Months", "raw"}}, 1},
		{models.CategoryValuation, models.MetricEVEBITDA, [][]string{{"defaultKeyStatistics", "enterpriseToEbitda", "raw"}}, 1},
		{models.CategoryValuation, models.MetricDividendYield, [][]string{{"summaryDetail", "dividendYield", "raw"}}, 100},
	},
	"alphavantage": {
		{models.CategoryProfitability, models.MetricROE, [][]string{{"ReturnOnEquityTTM"}}, 100},
		{models.CategoryProfitability, models.MetricROA, [][]string{{"ReturnOnAssetsTTM"}}, 100},
		{models.CategoryProfitability, models.MetricOperatingMargin, [][]string{{"OperatingMarginTTM"}}, 100},
		{models.CategoryProfitability, models.MetricNetMargin, [][]string{{"ProfitMargin"}}, 100},
		{models.CategoryValuation, models.MetricPERatio, [][]string{{"PERatio"}}, 1},
		{models.CategoryValuation, models.MetricPBRatio, [][]string{{"PriceToBookRatio"}}, 1},
		{models.CategoryValuation, models.MetricPSRatio, [][]string{{"PriceToSalesRatioTTM"}}, 1},
		{models.CategoryValuation, models.MetricEVEBITDA, [][]string{{"EVToEBITDA"}}, 1},
		{models.CategoryValuation, models.MetricDividendYield, [][]string{{"DividendYield"}}, 100},
	},
}

// Price, range and market cap candidate paths per provider.
var pricePaths = map[string][][]string{
	"yahoo": {
		{"price", "regularMarketPrice", "raw"},
		{"financialData", "currentPrice", "raw"},
	},
	"alphavantage": {
		{"Global Quote", "05. price"},
	},
}

var marketCapPaths = map[string][][]string{
	"yahoo": {
		{"price", "marketCap", "raw"},
		{"summaryDetail", "marketCap", "raw"},
	},
	"alphavantage": {
		{"MarketCapitalization"},
	},
}

var high52Paths = map[string][][]string{
	"yahoo":        {{"summaryDetail", "fiftyTwoWeekHigh", "raw"}},
	"alphavantage": {{"52WeekHigh"}},
}

var low52Paths = map[string][][]string{
	"yahoo":        {{"summaryDetail", "fiftyTwoWeekLow", "raw"}},
	"alphavantage": {{"52WeekLow"}},
}

// Identity string paths per provider.
var companyNamePaths = map[string][][]string{
	"yahoo":        {{"price", "longName"}, {"price", "shortName"}},
	"alphavantage": {{"Name"}},
}

var sectorPaths = map[string][][]string{
	"yahoo":        {{"assetProfile", "sector"}},
	"alphavantage": {{"Sector"}},
}

var industryPaths = map[string][][]string{
	"yahoo":        {{"assetProfile", "industry"}},
	"alphavantage": {{"Industry"}},
}
