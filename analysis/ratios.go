package analysis

import (
	"math"

	"equity-insight/models"
)

// Series pairs the quarterly and annual views of one statement line item,
// both most-recent-first. Zero entries mean the provider did not supply the
// line item for that period.
type Series struct {
	Quarterly []float64
	Annual    []float64
}

// FieldSeries projects one line item out of a provider's statement periods.
func FieldSeries(quarterly, annual []models.StatementPeriod, pick func(models.StatementPeriod) float64) Series {
	s := Series{
		Quarterly: make([]float64, 0, len(quarterly)),
		Annual:    make([]float64, 0, len(annual)),
	}
	for _, p := range quarterly {
		s.Quarterly = append(s.Quarterly, pick(p))
	}
	for _, p := range annual {
		s.Annual = append(s.Annual, pick(p))
	}
	return s
}

// TTMSum sums up to the four most recent non-zero quarterly entries. Reports
// false when the series has no non-zero entries at all.
func TTMSum(quarterly []float64) (float64, bool) {
	sum := 0.0
	counted := 0
	for _, v := range quarterly {
		if v == 0 {
			continue
		}
		sum += v
		counted++
		if counted == 4 {
			break
		}
	}
	if counted == 0 {
		return 0, false
	}
	return sum, true
}

// resolve reduces a series to a single annualized figure: trailing-twelve-month
// sum when quarterly data exists, else the latest non-zero annual figure.
func (s Series) resolve() (float64, bool) {
	if v, ok := TTMSum(s.Quarterly); ok {
		return v, true
	}
	for _, v := range s.Annual {
		if v != 0 {
			return v, true
		}
	}
	return 0, false
}

// MarginRatio computes numerator/denominator as a percentage, preferring TTM
// sums over single periods. Not derivable when either side resolves to
// nothing: a missing line item must never masquerade as a 0% margin.
func MarginRatio(numerator, denominator Series) (float64, bool) {
	n, ok := numerator.resolve()
	if !ok {
		return 0, false
	}
	d, ok := denominator.resolve()
	if !ok || d == 0 {
		return 0, false
	}
	return finite(n / d * 100)
}

// InterestCoverage returns operating earnings over interest expense from the
// first statement period that carries both. EBIT is preferred; operating
// income is the fallback. Periods without interest expense are skipped, not
// treated as infinite coverage.
func InterestCoverage(periods []models.StatementPeriod) (float64, bool) {
	for _, p := range periods {
		earnings := p.EBIT
		if earnings == 0 {
			earnings = p.OperatingIncome
		}
		interest := math.Abs(p.InterestExpense)
		if earnings == 0 || interest == 0 {
			continue
		}
		return finite(earnings / interest)
	}
	return 0, false
}

// CAGR computes the compound annual growth rate of a chronologically ordered
// (oldest to newest) series, as a percentage. Requires at least two points
// and positive endpoints.
func CAGR(series []float64) (float64, bool) {
	if len(series) < 2 {
		return 0, false
	}
	first := series[0]
	last := series[len(series)-1]
	if first <= 0 || last <= 0 {
		return 0, false
	}
	years := float64(len(series) - 1)
	return finite((math.Pow(last/first, 1/years) - 1) * 100)
}

// ReturnOnAssetsTTM computes trailing net income over total assets as a
// percentage.
func ReturnOnAssetsTTM(trailingNetIncome, totalAssets float64) (float64, bool) {
	if trailingNetIncome == 0 || totalAssets == 0 {
		return 0, false
	}
	return finite(trailingNetIncome / totalAssets * 100)
}

// ReturnOnCapitalEmployedTTM computes trailing EBIT over capital employed
// (total assets minus total current liabilities) as a percentage.
func ReturnOnCapitalEmployedTTM(ebitTTM, totalAssets, totalCurrentLiabilities float64) (float64, bool) {
	if ebitTTM == 0 || totalAssets == 0 {
		return 0, false
	}
	employed := totalAssets - totalCurrentLiabilities
	if employed <= 0 {
		return 0, false
	}
	return finite(ebitTTM / employed * 100)
}

func finite(v float64) (float64, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
