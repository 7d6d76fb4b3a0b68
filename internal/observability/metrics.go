// Package observability holds the Prometheus metrics collector
// instrumenting quad-store calls: a namespaced CounterVec/HistogramVec
// set built on a private registry.
package observability

import "github.com/prometheus/client_golang/prometheus"

// Collector holds the metrics the resilience decorator and materializer
// record against every backend call.
type Collector struct {
	registry *prometheus.Registry

	StoreCalls   *prometheus.CounterVec
	StoreLatency *prometheus.HistogramVec
	BreakerTrips prometheus.Counter
}

// NewCollector builds a fresh, unregistered-elsewhere registry plus the
// fixed metric set this service needs. Each caller (normally
// internal/di.Container) owns its own Collector; there is no package
// singleton.
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	storeCalls := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "store_calls_total",
		Help:      "Total quad-store adapter calls by method and outcome.",
	}, []string{"method", "outcome"})

	storeLatency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "store_call_duration_seconds",
		Help:      "Quad-store adapter call duration in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method"})

	breakerTrips := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "store_breaker_trips_total",
		Help:      "Total times the circuit breaker around the quad store opened.",
	})

	registry.MustRegister(storeCalls, storeLatency, breakerTrips)

	return &Collector{
		registry:     registry,
		StoreCalls:   storeCalls,
		StoreLatency: storeLatency,
		BreakerTrips: breakerTrips,
	}
}

// Registry exposes the private registry for cmd/ldpstored to serve over
// /metrics alongside health.Probe's gauge.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }
