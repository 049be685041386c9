package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sony/gobreaker/v2"

	"equity-insight/observability"
)

// Breaker names, one per upstream service.
const (
	BreakerYahoo        = "yahoo"
	BreakerAlphaVantage = "alphavantage"
	BreakerOpenAI       = "openai"
	BreakerBedrock      = "bedrock"
)

// BreakerConfig tunes breaker behavior. A breaker trips once at least
// MinRequests calls landed in the current Interval and the failure ratio
// reached FailureRatio; after Timeout it lets up to MaxRequests probe calls
// through before deciding to close again.
type BreakerConfig struct {
	MaxRequests  uint32
	Interval     time.Duration
	Timeout      time.Duration
	MinRequests  uint32
	FailureRatio float64
}

// DefaultBreakerConfig suits slow, flaky finance APIs: trip fast, probe
// again after half a minute.
var DefaultBreakerConfig = BreakerConfig{
	MaxRequests:  5,
	Interval:     time.Minute,
	Timeout:      30 * time.Second,
	MinRequests:  5,
	FailureRatio: 0.5,
}

// BreakerRegistry lazily creates one circuit breaker per upstream, so a
// misbehaving provider is cut off without affecting the other adapters.
type BreakerRegistry struct {
	mu       sync.Mutex
	config   BreakerConfig
	breakers map[string]*gobreaker.CircuitBreaker[any]
}

// NewBreakerRegistry creates an empty registry with the given config.
func NewBreakerRegistry(config BreakerConfig) *BreakerRegistry {
	return &BreakerRegistry{
		config:   config,
		breakers: make(map[string]*gobreaker.CircuitBreaker[any]),
	}
}

func (r *BreakerRegistry) breaker(name string) *gobreaker.CircuitBreaker[any] {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cb, ok := r.breakers[name]; ok {
		return cb
	}

	cfg := r.config
	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.FailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			observability.Warn("circuit breaker state change",
				"breaker", name, "from", from.String(), "to", to.String())

			m := observability.GetMetrics()
			m.SetCircuitBreakerState(name, breakerStateValue(to))
			if to == gobreaker.StateOpen {
				m.RecordCircuitBreakerTrip(name)
			}
		},
	})
	r.breakers[name] = cb
	return cb
}

// Do runs fn through the named breaker. Rejections by an open or saturated
// breaker come back as ErrProviderUnavailable, so the orchestrator treats
// the provider as down rather than seeing breaker internals.
func (r *BreakerRegistry) Do(ctx context.Context, name string, fn func() (any, error)) (any, error) {
	result, err := r.breaker(name).Execute(func() (any, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return fn()
	})

	switch {
	case errors.Is(err, gobreaker.ErrOpenState):
		observability.Warn("circuit breaker open, rejecting request", "breaker", name)
		return nil, fmt.Errorf("%s circuit breaker open: %w", name, ErrProviderUnavailable)
	case errors.Is(err, gobreaker.ErrTooManyRequests):
		observability.Warn("circuit breaker half-open, shedding request", "breaker", name)
		return nil, fmt.Errorf("%s circuit breaker half-open: %w", name, ErrProviderUnavailable)
	}
	return result, err
}

// BreakerStatus is a point-in-time view of one breaker for the health
// endpoint.
type BreakerStatus struct {
	Name             string `json:"name"`
	State            string `json:"state"`
	Requests         uint32 `json:"requests"`
	TotalSuccesses   uint32 `json:"total_successes"`
	TotalFailures    uint32 `json:"total_failures"`
	ConsecutiveSucc  uint32 `json:"consecutive_successes"`
	ConsecutiveFails uint32 `json:"consecutive_failures"`
}

// Status reports every breaker created so far.
func (r *BreakerRegistry) Status() map[string]BreakerStatus {
	r.mu.Lock()
	defer r.mu.Unlock()

	status := make(map[string]BreakerStatus, len(r.breakers))
	for name, cb := range r.breakers {
		counts := cb.Counts()
		status[name] = BreakerStatus{
			Name:             name,
			State:            cb.State().String(),
			Requests:         counts.Requests,
			TotalSuccesses:   counts.TotalSuccesses,
			TotalFailures:    counts.TotalFailures,
			ConsecutiveSucc:  counts.ConsecutiveSuccesses,
			ConsecutiveFails: counts.ConsecutiveFailures,
		}
	}
	return status
}

// breakerStateValue maps a breaker state onto the metrics gauge:
// 0=closed, 1=half-open, 2=open.
func breakerStateValue(state gobreaker.State) int {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

var (
	globalBreakersMu sync.Mutex
	globalBreakers   *BreakerRegistry
)

// Breakers returns the process-wide registry, creating it on first use.
func Breakers() *BreakerRegistry {
	globalBreakersMu.Lock()
	defer globalBreakersMu.Unlock()
	if globalBreakers == nil {
		globalBreakers = NewBreakerRegistry(DefaultBreakerConfig)
	}
	return globalBreakers
}

// SetBreakers swaps the process-wide registry. Tests install a fresh one so
// tripped breakers never leak between runs.
func SetBreakers(r *BreakerRegistry) {
	globalBreakersMu.Lock()
	defer globalBreakersMu.Unlock()
	globalBreakers = r
}

// withBreaker adapts the untyped registry to a typed provider call.
func withBreaker[T any](ctx context.Context, name string, fn func() (T, error)) (T, error) {
	result, err := Breakers().Do(ctx, name, func() (any, error) {
		return fn()
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result.(T), nil
}
