// Package di wires configuration, the quad-store adapter, resilience and
// observability decorators, the materializer, the planner, and the
// service facade into one Container: an explicit struct of constructed
// dependencies, built once at startup, with no package-level globals.
package di

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"ldpstore/internal/apperrors"
	"ldpstore/internal/concurrency"
	"ldpstore/internal/config"
	"ldpstore/internal/health"
	"ldpstore/internal/materializer"
	"ldpstore/internal/observability"
	"ldpstore/internal/planner"
	"ldpstore/internal/resilience"
	"ldpstore/internal/service"
	"ldpstore/internal/store"
	"ldpstore/internal/store/filestore"
	"ldpstore/internal/store/httpstore"
	"ldpstore/internal/store/memstore"
)

// Container holds every constructed dependency for the lifetime of the
// process.
type Container struct {
	Config       *config.Config
	Logger       *zap.Logger
	Metrics      *observability.Collector
	Store        store.QuadStore
	Materializer *materializer.Materializer
	Planner      *planner.Planner
	Pool         *concurrency.Pool
	Service      *service.ResourceService
	Health       *health.Probe
}

// New builds a Container from cfg. The quad-store adapter is dispatched
// by rdf-location: absent selects store/memstore, an
// http(s) URL selects store/httpstore, anything else selects
// store/filestore. Every adapter call is wrapped by a
// resilience.Breaker instrumented with Metrics.
func New(cfg *config.Config, logger *zap.Logger) (*Container, error) {
	if cfg == nil {
		return nil, apperrors.InvalidArgument("configuration is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	backend, err := newBackend(cfg.RdfLocation)
	if err != nil {
		return nil, err
	}

	metrics := observability.NewCollector("ldpstore")
	wrapped := resilience.NewBreaker(backend, resilience.DefaultConfig("quad_store"), metrics, logger)

	extensions := cfg.ParsedExtensionGraphs()
	mat := materializer.New(wrapped, extensions, cfg.IncludeLDPType)
	pl := planner.New(extensions)

	pool := concurrency.NewPool(cfg.WorkerPoolSize)

	svc, err := service.New(wrapped, mat, pl, pool, logger)
	if err != nil {
		return nil, err
	}

	probe := health.NewProbe(wrapped)
	metrics.Registry().MustRegister(probe.GaugeFunc())

	return &Container{
		Config:       cfg,
		Logger:       logger,
		Metrics:      metrics,
		Store:        wrapped,
		Materializer: mat,
		Planner:      pl,
		Pool:         pool,
		Service:      svc,
		Health:       probe,
	}, nil
}

// Shutdown drains the worker pool and closes the backend handle.
func (c *Container) Shutdown(ctx context.Context) error {
	if c.Pool != nil {
		c.Pool.Close()
	}
	return c.Store.Close(ctx)
}

func newBackend(rdfLocation string) (store.QuadStore, error) {
	if rdfLocation == "" {
		return memstore.New(), nil
	}
	if strings.HasPrefix(rdfLocation, "http://") || strings.HasPrefix(rdfLocation, "https://") {
		return httpstore.New(rdfLocation, http.DefaultClient), nil
	}
	return filestore.Open(rdfLocation)
}
