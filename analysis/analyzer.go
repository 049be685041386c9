package analysis

import (
	"context"
	"errors"
	"sync"
	"time"

	"equity-insight/cache"
	"equity-insight/models"
	"equity-insight/observability"
	"equity-insight/services"
)

// ErrInvalidSymbol is the only failure Analyze can return: a symbol that
// fails validation is rejected before any network call.
var ErrInvalidSymbol = errors.New("invalid symbol")

// Analyzer runs the aggregation pipeline: concurrent provider fan-out,
// provenance-ordered merge, ratio derivation from raw statements, per-category
// AI top-up, and full mock fallback when no provider knows the symbol.
type Analyzer struct {
	providers []services.MarketDataProvider
	estimator *services.Estimator
	store     *cache.Cache
	timeout   time.Duration
	cacheTTL  time.Duration
	chartTTL  time.Duration
}

// NewAnalyzer creates an Analyzer. Providers are tried in the given order,
// which must be highest-trust first. The estimator and store may be nil.
func NewAnalyzer(providers []services.MarketDataProvider, estimator *services.Estimator, store *cache.Cache, providerTimeout, cacheTTL, chartTTL time.Duration) *Analyzer {
	if providerTimeout <= 0 {
		providerTimeout = 20 * time.Second
	}
	if chartTTL <= 0 {
		chartTTL = cache.DefaultChartTTL
	}
	return &Analyzer{
		providers: providers,
		estimator: estimator,
		store:     store,
		timeout:   providerTimeout,
		cacheTTL:  cacheTTL,
		chartTTL:  chartTTL,
	}
}

// Endpoint slots within a providerResult payload set.
const (
	slotQuote = iota
	slotStatistics
	slotFinancials
	slotBalance
	slotCashFlow
	slotProfile
	slotCount
)

// providerResult carries whatever one provider managed to return. Failed
// endpoints leave nil payloads; the assembly steps skip them.
type providerResult struct {
	provider   services.MarketDataProvider
	payloads   [slotCount]services.RawPayload
	statements *models.StatementSet
}

func (r *providerResult) usable() bool {
	for _, p := range r.payloads {
		if p != nil {
			return true
		}
	}
	return false
}

// Analyze assembles the analysis record for a symbol. For a valid symbol it
// never fails: partial data degrades to N/A metrics, a fully unknown symbol
// degrades to a deterministic mock record.
func (a *Analyzer) Analyze(ctx context.Context, symbol string) (*models.StockAnalysis, error) {
	normalized := services.NormalizeSymbol(symbol)
	if !services.ValidSymbol(normalized) {
		return nil, ErrInvalidSymbol
	}
	bare := services.BareSymbol(normalized)

	if a.store != nil {
		if cached, ok := a.store.Get("analysis", cache.AnalysisKey(bare)); ok {
			if record, ok := cached.(*models.StockAnalysis); ok {
				return record, nil
			}
		}
	}

	metrics := observability.GetMetrics()
	metrics.RecordAnalysisRequest(bare)
	timer := metrics.NewTimer()

	results := a.collect(ctx, normalized)

	anyUsable := false
	for _, r := range results {
		if r.usable() {
			anyUsable = true
			break
		}
	}

	var record *models.StockAnalysis
	status := "ok"
	if !anyUsable {
		observability.WithSymbol(bare).Warn("no provider returned data, serving mock record")
		metrics.RecordMockFallback()
		record = MockAnalysis(bare)
		status = "mock"
	} else {
		record = a.assemble(ctx, bare, results)
	}

	recordFills(metrics, record)
	timer.ObserveAnalysis(bare, status)

	if a.store != nil {
		a.store.Set(cache.AnalysisKey(bare), record, a.cacheTTL)
	}
	return record, nil
}

// collect fans out to every provider concurrently and waits for all of them.
// A slow or failing provider costs at most the per-call timeout and never
// short-circuits the others.
func (a *Analyzer) collect(ctx context.Context, symbol string) []*providerResult {
	results := make([]*providerResult, len(a.providers))
	var wg sync.WaitGroup
	for i, p := range a.providers {
		wg.Add(1)
		go func(i int, p services.MarketDataProvider) {
			defer wg.Done()
			results[i] = a.fetchAll(ctx, p, symbol)
		}(i, p)
	}
	wg.Wait()
	return results
}

// fetchAll issues all endpoint reads of one provider concurrently.
func (a *Analyzer) fetchAll(ctx context.Context, p services.MarketDataProvider, symbol string) *providerResult {
	result := &providerResult{provider: p}

	fetches := [slotCount]func(context.Context, string) (services.RawPayload, error){
		slotQuote:      p.FetchQuote,
		slotStatistics: p.FetchStatistics,
		slotFinancials: p.FetchFinancials,
		slotBalance:    p.FetchBalanceSheet,
		slotCashFlow:   p.FetchCashFlow,
		slotProfile:    p.FetchProfile,
	}

	var wg sync.WaitGroup
	for slot, fetch := range fetches {
		wg.Add(1)
		go func(slot int, fetch func(context.Context, string) (services.RawPayload, error)) {
			defer wg.Done()
			callCtx, cancel := context.WithTimeout(ctx, a.timeout)
			defer cancel()

			payload, err := fetch(callCtx, symbol)
			if err != nil {
				logger := observability.WithProvider(p.Name())
				if services.Unavailable(err) {
					logger.Debug("endpoint unavailable", "symbol", symbol, "slot", slot, "error", err)
				} else {
					logger.Warn("endpoint failed", "symbol", symbol, "slot", slot, "error", err)
				}
				return
			}
			result.payloads[slot] = payload
		}(slot, fetch)
	}
	wg.Wait()

	result.statements = p.ParseStatements(
		result.payloads[slotFinancials],
		result.payloads[slotBalance],
		result.payloads[slotCashFlow],
	)
	return result
}

// assemble builds the record from collected provider data: identity, direct
// extraction, derivation, AI top-up, technicals and narratives, in that order.
func (a *Analyzer) assemble(ctx context.Context, bare string, results []*providerResult) *models.StockAnalysis {
	record := models.NewStockAnalysis(bare)

	a.fillIdentity(record, results)
	price, high52, low52 := a.fillScalars(record, results)
	a.fillDirect(record, results)
	a.deriveRatios(record, results)
	a.topUp(ctx, record, bare)

	if record.CurrentPrice.Available {
		if high52 == 0 {
			high52 = price * 1.25
		}
		if low52 == 0 {
			low52 = price * 0.75
		}
		record.Technical = BuildIndicators(price, high52, low52)
		record.SupportLevels, record.ResistanceLevels = BuildLevels(price, high52, low52)
	}

	applyQualitative(record)
	buildNarratives(record)
	record.LastUpdated = time.Now()
	return record
}

// extractFrom tries the paths against every payload a provider returned.
func extractFrom(r *providerResult, paths [][]string) (float64, bool) {
	if len(paths) == 0 {
		return 0, false
	}
	for _, payload := range r.payloads {
		if payload == nil {
			continue
		}
		if v, ok := services.Extract(payload, paths); ok {
			return v, true
		}
	}
	return 0, false
}

func extractStringFrom(r *providerResult, paths [][]string) (string, bool) {
	if len(paths) == 0 {
		return "", false
	}
	for _, payload := range r.payloads {
		if payload == nil {
			continue
		}
		if s, ok := services.ExtractString(payload, paths); ok {
			return s, true
		}
	}
	return "", false
}

// fillIdentity takes each identity field from the first provider that has it.
func (a *Analyzer) fillIdentity(record *models.StockAnalysis, results []*providerResult) {
	for _, r := range results {
		name := r.provider.Name()
		if record.CompanyName == "N/A" {
			if s, ok := extractStringFrom(r, companyNamePaths[name]); ok {
				record.CompanyName = s
			}
		}
		if record.Sector == "N/A" {
			if s, ok := extractStringFrom(r, sectorPaths[name]); ok {
				record.Sector = s
			}
		}
		if record.Industry == "N/A" {
			if s, ok := extractStringFrom(r, industryPaths[name]); ok {
				record.Industry = s
			}
		}
	}
}

// fillScalars resolves price and market cap, and returns the price plus
// 52-week range for the technical synthesis.
func (a *Analyzer) fillScalars(record *models.StockAnalysis, results []*providerResult) (price, high52, low52 float64) {
	for _, r := range results {
		name := r.provider.Name()
		if v, ok := extractFrom(r, pricePaths[name]); ok && v > 0 {
			m := models.NewMetric(v, r.provider.Provenance())
			m.Health = models.HealthNormal
			record.CurrentPrice = record.CurrentPrice.Merge(m)
			if price == 0 {
				price = v
			}
		}
		if v, ok := extractFrom(r, marketCapPaths[name]); ok && v > 0 {
			m := models.NewMetric(v, r.provider.Provenance())
			m.Health = models.HealthNormal
			record.MarketCap = record.MarketCap.Merge(m)
		}
		if v, ok := extractFrom(r, high52Paths[name]); ok && high52 == 0 {
			high52 = v
		}
		if v, ok := extractFrom(r, low52Paths[name]); ok && low52 == 0 {
			low52 = v
		}
	}
	return price, high52, low52
}

// fillDirect applies each provider's extraction table. A literal zero counts
// as present only for metrics whose zero policy says so; a zero margin is
// treated as absent and left to derivation or estimation.
func (a *Analyzer) fillDirect(record *models.StockAnalysis, results []*providerResult) {
	for _, r := range results {
		for _, spec := range providerFieldSpecs[r.provider.Name()] {
			v, ok := extractFrom(r, spec.paths)
			if !ok {
				continue
			}
			if v == 0 && !models.ZeroIsReal(spec.name) {
				continue
			}
			value := v * spec.scale
			m := models.NewMetric(value, r.provider.Provenance())
			m.Health = Classify(value, KindForMetric(spec.name))
			record.MergeMetric(spec.category, spec.name, m)
		}
	}
}

// combineStatements picks each statement series from the first provider that
// supplied it, preserving provider priority.
func combineStatements(results []*providerResult) *models.StatementSet {
	combined := &models.StatementSet{}
	for _, r := range results {
		s := r.statements
		if s == nil {
			continue
		}
		if len(combined.QuarterlyIncome) == 0 {
			combined.QuarterlyIncome = s.QuarterlyIncome
		}
		if len(combined.AnnualIncome) == 0 {
			combined.AnnualIncome = s.AnnualIncome
		}
		if len(combined.QuarterlyBalance) == 0 {
			combined.QuarterlyBalance = s.QuarterlyBalance
		}
		if len(combined.AnnualBalance) == 0 {
			combined.AnnualBalance = s.AnnualBalance
		}
		if len(combined.AnnualCashFlow) == 0 {
			combined.AnnualCashFlow = s.AnnualCashFlow
		}
	}
	return combined
}

// deriveRatios computes CALCULATED metrics from raw statement series. The
// provenance merge keeps any direct provider reading in place; derivations
// only fill what extraction missed.
func (a *Analyzer) deriveRatios(record *models.StockAnalysis, results []*providerResult) {
	set := combineStatements(results)
	if set.Empty() {
		return
	}

	merge := func(category models.MetricCategory, name string, value float64, ok bool) {
		if !ok {
			return
		}
		m := models.NewMetric(value, models.ProvenanceCalculated)
		m.Health = Classify(value, KindForMetric(name))
		record.MergeMetric(category, name, m)
	}

	revenue := FieldSeries(set.QuarterlyIncome, set.AnnualIncome, func(p models.StatementPeriod) float64 { return p.Revenue })
	grossProfit := FieldSeries(set.QuarterlyIncome, set.AnnualIncome, func(p models.StatementPeriod) float64 { return p.GrossProfit })
	operatingIncome := FieldSeries(set.QuarterlyIncome, set.AnnualIncome, func(p models.StatementPeriod) float64 { return p.OperatingIncome })
	netIncome := FieldSeries(set.QuarterlyIncome, set.AnnualIncome, func(p models.StatementPeriod) float64 { return p.NetIncome })
	ebit := FieldSeries(set.QuarterlyIncome, set.AnnualIncome, func(p models.StatementPeriod) float64 { return p.EBIT })

	v, ok := MarginRatio(grossProfit, revenue)
	merge(models.CategoryProfitability, models.MetricGrossMargin, v, ok)
	v, ok = MarginRatio(operatingIncome, revenue)
	merge(models.CategoryProfitability, models.MetricOperatingMargin, v, ok)
	v, ok = MarginRatio(netIncome, revenue)
	merge(models.CategoryProfitability, models.MetricNetMargin, v, ok)

	netTTM, netOK := netIncome.resolve()
	ebitTTM, ebitOK := ebit.resolve()
	if !ebitOK {
		ebitTTM, ebitOK = operatingIncome.resolve()
	}

	if balance, ok := set.LatestBalance(); ok {
		if balance.TotalCurrentLiabilities != 0 {
			merge(models.CategoryLiquidity, models.MetricCurrentRatio,
				balance.TotalCurrentAssets/balance.TotalCurrentLiabilities,
				balance.TotalCurrentAssets != 0)
			merge(models.CategoryLiquidity, models.MetricQuickRatio,
				(balance.TotalCurrentAssets-balance.Inventory)/balance.TotalCurrentLiabilities,
				balance.TotalCurrentAssets != 0)
		}
		if balance.TotalEquity != 0 {
			// A debt-free balance sheet is a real zero, not missing data.
			merge(models.CategoryLiquidity, models.MetricDebtToEquity,
				balance.TotalDebt/balance.TotalEquity, true)
			if netOK {
				merge(models.CategoryProfitability, models.MetricROE,
					netTTM/balance.TotalEquity*100, true)
			}
		}
		if netOK {
			roa, ok := ReturnOnAssetsTTM(netTTM, balance.TotalAssets)
			merge(models.CategoryProfitability, models.MetricROA, roa, ok)
		}
		if ebitOK {
			roce, ok := ReturnOnCapitalEmployedTTM(ebitTTM, balance.TotalAssets, balance.TotalCurrentLiabilities)
			merge(models.CategoryProfitability, models.MetricROCE, roce, ok)
		}
	}

	incomePeriods := append(append([]models.StatementPeriod{}, set.QuarterlyIncome...), set.AnnualIncome...)
	v, ok = InterestCoverage(incomePeriods)
	merge(models.CategoryLiquidity, models.MetricInterestCoverage, v, ok)

	v, ok = CAGR(chronological(set.AnnualIncome, func(p models.StatementPeriod) float64 { return p.Revenue }))
	merge(models.CategoryGrowth, models.MetricRevenueCAGR, v, ok)
	v, ok = CAGR(chronological(set.AnnualIncome, func(p models.StatementPeriod) float64 { return p.NetIncome }))
	merge(models.CategoryGrowth, models.MetricEPSGrowth, v, ok)

	if record.MarketCap.Available {
		if rev, ok := revenue.resolve(); ok && rev > 0 {
			merge(models.CategoryValuation, models.MetricPSRatio, record.MarketCap.Value/rev, true)
		}
	}
}

// chronological projects a line item from a most-recent-first annual series
// into oldest-first order, capped at four fiscal years.
func chronological(annual []models.StatementPeriod, pick func(models.StatementPeriod) float64) []float64 {
	n := len(annual)
	if n > 4 {
		n = 4
	}
	out := make([]float64, 0, n)
	for i := n - 1; i >= 0; i-- {
		out = append(out, pick(annual[i]))
	}
	return out
}

// topUp issues at most one estimation call per category that still has gaps.
// Estimates never displace real or calculated values; the merge sees to that.
func (a *Analyzer) topUp(ctx context.Context, record *models.StockAnalysis, bare string) {
	if a.estimator == nil {
		return
	}
	for _, category := range models.Categories {
		missing := record.MissingMetrics(category)
		if len(missing) == 0 {
			continue
		}
		estimates, err := a.estimator.EstimateCategory(ctx, bare, category, missing)
		if err != nil {
			observability.WithSymbol(bare).Warn("estimation failed, leaving category gaps",
				"category", category, "error", err)
			continue
		}
		for name, value := range estimates {
			m := models.NewMetric(value, models.ProvenanceAIEstimated)
			m.Health = Classify(value, KindForMetric(name))
			record.MergeMetric(category, name, m)
		}
	}
}

// recordFills counts the final provenance distribution across the record.
func recordFills(metrics *observability.Metrics, record *models.StockAnalysis) {
	for _, category := range models.Categories {
		for _, m := range record.Category(category) {
			if m.Available {
				metrics.RecordMetricFill(string(category), string(m.Provenance))
			}
		}
	}
}
