// Package resilience wraps a store.QuadStore with a sony/gobreaker
// circuit breaker: it opens after a run of failures, rejects fast while
// open, and probes again half-open.
package resilience

import (
	"context"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"ldpstore/internal/apperrors"
	"ldpstore/internal/observability"
	"ldpstore/internal/rdf"
	"ldpstore/internal/store"
)

// Breaker decorates a store.QuadStore, tripping after repeated failures
// and recording every call against an observability.Collector.
type Breaker struct {
	next    store.QuadStore
	cb      *gobreaker.CircuitBreaker
	metrics *observability.Collector
	logger  *zap.Logger
}

// Config tunes the underlying gobreaker.CircuitBreaker.
type Config struct {
	Name             string
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	ConsecutiveTrips uint32
}

func DefaultConfig(name string) Config {
	return Config{
		Name:             name,
		MaxRequests:      1,
		Interval:         10 * time.Second,
		Timeout:          30 * time.Second,
		ConsecutiveTrips: 5,
	}
}

func NewBreaker(next store.QuadStore, cfg Config, metrics *observability.Collector, logger *zap.Logger) *Breaker {
	if logger == nil {
		logger = zap.NewNop()
	}
	b := &Breaker{next: next, metrics: metrics, logger: logger}
	b.cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.ConsecutiveTrips
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change", zap.String("breaker", name), zap.String("from", from.String()), zap.String("to", to.String()))
			if to == gobreaker.StateOpen && metrics != nil {
				metrics.BreakerTrips.Inc()
			}
		},
	})
	return b
}

func (b *Breaker) Select(ctx context.Context, q store.Query) ([]store.Row, error) {
	result, err := b.call(ctx, "select", func() (any, error) { return b.next.Select(ctx, q) })
	if err != nil {
		return nil, err
	}
	return result.([]store.Row), nil
}

func (b *Breaker) Update(ctx context.Context, req store.UpdateRequest) error {
	_, err := b.call(ctx, "update", func() (any, error) { return nil, b.next.Update(ctx, req) })
	return err
}

func (b *Breaker) LoadDataset(ctx context.Context, quads rdf.Dataset) error {
	_, err := b.call(ctx, "load_dataset", func() (any, error) { return nil, b.next.LoadDataset(ctx, quads) })
	return err
}

func (b *Breaker) Close(ctx context.Context) error { return b.next.Close(ctx) }
func (b *Breaker) IsOpen() bool                    { return b.next.IsOpen() }

func (b *Breaker) call(ctx context.Context, method string, fn func() (any, error)) (any, error) {
	start := time.Now()
	result, err := b.cb.Execute(fn)
	if b.metrics != nil {
		outcome := "success"
		if err != nil {
			outcome = "failure"
		}
		b.metrics.StoreCalls.WithLabelValues(method, outcome).Inc()
		b.metrics.StoreLatency.WithLabelValues(method).Observe(time.Since(start).Seconds())
	}
	if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
		return nil, apperrors.Internal("quad store circuit breaker is open", err)
	}
	if err != nil {
		return nil, apperrors.Internal(method+" failed", err)
	}
	return result, nil
}

var _ store.QuadStore = (*Breaker)(nil)
