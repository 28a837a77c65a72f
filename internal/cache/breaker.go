package cache

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"tunematch/internal/logger"
	"tunematch/internal/metrics"
	"tunematch/internal/models"
)

// BreakerOptions configures BreakerCache.
type BreakerOptions struct {
	Name string
	// FailureThreshold is the number of consecutive failures that opens the
	// circuit.
	FailureThreshold uint32
	// Timeout is how long the circuit stays open before a trial request.
	Timeout time.Duration
}

// DefaultBreakerOptions opens after five straight failures for thirty seconds.
func DefaultBreakerOptions() BreakerOptions {
	return BreakerOptions{Name: "redis-cache", FailureThreshold: 5, Timeout: 30 * time.Second}
}

type lookup struct {
	recs []models.Recommendation
	ok   bool
}

// BreakerCache stops calling an unhealthy cache for a while, so a Redis
// outage costs one fast error per request instead of a network timeout.
type BreakerCache struct {
	next RecommendationCache
	cb   *gobreaker.CircuitBreaker[lookup]
}

// NewBreakerCache wraps next with a circuit breaker.
func NewBreakerCache(next RecommendationCache, opts BreakerOptions) *BreakerCache {
	metrics.CacheBreakerState.WithLabelValues(opts.Name).Set(0)

	cb := gobreaker.NewCircuitBreaker[lookup](gobreaker.Settings{
		Name:        opts.Name,
		MaxRequests: 1,
		Timeout:     opts.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= opts.FailureThreshold
		},
		// A caller going away says nothing about the cache.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("cache circuit breaker state change",
				logger.String("name", name),
				logger.String("from", from.String()),
				logger.String("to", to.String()),
			)
			metrics.CacheBreakerState.WithLabelValues(name).Set(stateValue(to))
		},
	})
	return &BreakerCache{next: next, cb: cb}
}

// Get implements RecommendationCache.
func (b *BreakerCache) Get(ctx context.Context, key string) ([]models.Recommendation, bool, error) {
	res, err := b.cb.Execute(func() (lookup, error) {
		recs, ok, err := b.next.Get(ctx, key)
		return lookup{recs: recs, ok: ok}, err
	})
	if err != nil {
		return nil, false, err
	}
	return res.recs, res.ok, nil
}

// Set implements RecommendationCache.
func (b *BreakerCache) Set(ctx context.Context, key string, recs []models.Recommendation) error {
	_, err := b.cb.Execute(func() (lookup, error) {
		return lookup{}, b.next.Set(ctx, key, recs)
	})
	return err
}

// State reports the breaker state.
func (b *BreakerCache) State() gobreaker.State {
	return b.cb.State()
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
