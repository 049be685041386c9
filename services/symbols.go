package services

import (
	"regexp"
	"strings"
)

// Exchange suffixes used when qualifying bare tickers for providers that
// expect exchange-scoped symbols.
const (
	SuffixNSE = ".NS"
	SuffixBSE = ".BO"
)

// bseOnlyTickers lists well-known tickers that trade on the BSE but not the
// NSE. Everything else defaults to the home exchange (NSE).
var bseOnlyTickers = map[string]bool{
	"ELCIDIN":    true,
	"BCLIND":     true,
	"KICL":       true,
	"LAKSHMIMIL": true,
}

var symbolPattern = regexp.MustCompile(`^[A-Z][A-Z0-9&\-]{0,19}(\.[A-Z]{2})?$`)

// NormalizeSymbol uppercases and trims a user-supplied ticker.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// ValidSymbol reports whether a normalized ticker is plausibly a listed
// Indian equity symbol. Validation happens before any network call.
func ValidSymbol(symbol string) bool {
	return symbolPattern.MatchString(symbol)
}

// QualifySymbol maps a bare ticker to its exchange-qualified form. Tickers
// that already carry an exchange suffix pass through untouched; unrecognized
// bare tickers default to the NSE.
func QualifySymbol(symbol string) string {
	symbol = NormalizeSymbol(symbol)
	if strings.Contains(symbol, ".") {
		return symbol
	}
	if bseOnlyTickers[symbol] {
		return symbol + SuffixBSE
	}
	return symbol + SuffixNSE
}

// BareSymbol strips any exchange suffix, returning the plain ticker used as
// the analysis record key.
func BareSymbol(symbol string) string {
	symbol = NormalizeSymbol(symbol)
	if i := strings.IndexByte(symbol, '.'); i > 0 {
		return symbol[:i]
	}
	return symbol
}
