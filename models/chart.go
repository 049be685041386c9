package models

import "time"

// ChartRanges lists the accepted time ranges for chart requests, matching
// Yahoo's range vocabulary.
var ChartRanges = map[string]bool{
	"1d":  true,
	"5d":  true,
	"1mo": true,
	"3mo": true,
	"6mo": true,
	"1y":  true,
	"2y":  true,
	"5y":  true,
}

// ChartPoint is one candle of price history.
type ChartPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    float64   `json:"volume"`
}

// ChartData is the price history payload served by the chart endpoint.
type ChartData struct {
	Symbol     string       `json:"symbol"`
	Range      string       `json:"range"`
	Currency   string       `json:"currency,omitempty"`
	Provenance Provenance   `json:"provenance"`
	Points     []ChartPoint `json:"points"`
}
