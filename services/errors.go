package services

import "errors"

// Sentinel failures returned by provider adapters. Nothing else crosses the
// adapter boundary: HTTP errors, auth problems and schema surprises are all
// folded into one of these so the orchestrator only ever sees "got data" or
// a known flavor of unavailable.
var (
	// ErrProviderUnavailable covers network, HTTP and auth failures.
	ErrProviderUnavailable = errors.New("provider unavailable")

	// ErrRateLimited means the local limiter (or the provider itself)
	// rejected the call. Kept distinct from generic unavailability so the
	// orchestrator skips the provider instead of retrying it within the
	// same request.
	ErrRateLimited = errors.New("provider rate limited")

	// ErrMalformedResponse means the provider answered with a shape we
	// could not use. Treated like unavailability by callers.
	ErrMalformedResponse = errors.New("malformed provider response")

	// ErrNoDataForSymbol means the provider does not know the symbol.
	ErrNoDataForSymbol = errors.New("no data for symbol")

	// ErrUnparseableAIResponse means the completion carried no extractable
	// JSON. The affected metric category simply stays unavailable.
	ErrUnparseableAIResponse = errors.New("unparseable AI response")
)

// Unavailable reports whether err is any of the adapter sentinels, i.e. an
// expected degradation rather than a programming error.
func Unavailable(err error) bool {
	return errors.Is(err, ErrProviderUnavailable) ||
		errors.Is(err, ErrRateLimited) ||
		errors.Is(err, ErrMalformedResponse) ||
		errors.Is(err, ErrNoDataForSymbol)
}
