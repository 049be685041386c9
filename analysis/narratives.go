package analysis

import (
	"fmt"

	"equity-insight/models"
)

func healthRank(h models.HealthLabel) int {
	switch h {
	case models.HealthBest:
		return 4
	case models.HealthGood:
		return 3
	case models.HealthNormal:
		return 2
	case models.HealthBad:
		return 1
	case models.HealthWorse:
		return 0
	default:
		return 2
	}
}

func rankToHealth(rank int) models.HealthLabel {
	switch {
	case rank >= 4:
		return models.HealthBest
	case rank == 3:
		return models.HealthGood
	case rank == 2:
		return models.HealthNormal
	case rank == 1:
		return models.HealthBad
	default:
		return models.HealthWorse
	}
}

// categoryHealth averages the health of the available metrics in a map.
// An empty or fully N/A category reads as NORMAL.
func categoryHealth(metrics map[string]models.Metric) models.HealthLabel {
	sum, count := 0, 0
	for _, m := range metrics {
		if !m.Available {
			continue
		}
		sum += healthRank(m.Health)
		count++
	}
	if count == 0 {
		return models.HealthNormal
	}
	return rankToHealth((sum + count/2) / count)
}

// applyQualitative assigns the heuristic statement and outlook labels from
// the assembled quantitative categories. These are summaries, not fresh
// signals; they carry no provenance of their own.
func applyQualitative(record *models.StockAnalysis) {
	profitability := categoryHealth(record.Profitability)
	liquidity := categoryHealth(record.Liquidity)
	growth := categoryHealth(record.Growth)

	record.IncomeStatementHealth = profitability
	record.BalanceSheetHealth = liquidity
	record.CashFlowHealth = profitability
	record.ManagementHealth = models.HealthNormal
	record.IndustryHealth = growth
	record.RiskHealth = liquidity
	record.OutlookHealth = rankToHealth((healthRank(profitability) + healthRank(growth) + 1) / 2)
}

// buildNarratives fills the key point, pro and con lists from the classified
// metrics. Presentation badges provenance separately; here we only spell out
// how much of the record is real.
func buildNarratives(record *models.StockAnalysis) {
	available, estimated := 0, 0
	var pros, cons []string

	for _, category := range models.Categories {
		for _, name := range models.CategoryMetrics[category] {
			m := record.Category(category)[name]
			if !m.Available {
				continue
			}
			available++
			if m.Provenance == models.ProvenanceAIEstimated || m.Provenance == models.ProvenanceMock {
				estimated++
			}
			switch m.Health {
			case models.HealthBest:
				pros = append(pros, fmt.Sprintf("%s of %.2f is excellent", name, m.Value))
			case models.HealthGood:
				pros = append(pros, fmt.Sprintf("%s of %.2f is healthy", name, m.Value))
			case models.HealthWorse:
				cons = append(cons, fmt.Sprintf("%s of %.2f is a serious concern", name, m.Value))
			case models.HealthBad:
				cons = append(cons, fmt.Sprintf("%s of %.2f is weak", name, m.Value))
			}
		}
	}

	record.KeyPoints = []string{
		fmt.Sprintf("%d of %d metrics resolved from real or derived data", available-estimated, totalMetricCount()),
	}
	if estimated > 0 {
		record.KeyPoints = append(record.KeyPoints,
			fmt.Sprintf("%d metrics are AI-estimated; treat them as approximations", estimated))
	}
	if record.CurrentPrice.Available && len(record.Technical) > 0 {
		record.KeyPoints = append(record.KeyPoints,
			fmt.Sprintf("Technical signal: %s based on 52-week range position", record.Technical[0].Signal))
	}

	if len(pros) > 5 {
		pros = pros[:5]
	}
	if len(cons) > 5 {
		cons = cons[:5]
	}
	record.Pros = pros
	record.Cons = cons
}

func totalMetricCount() int {
	total := 0
	for _, names := range models.CategoryMetrics {
		total += len(names)
	}
	return total
}
