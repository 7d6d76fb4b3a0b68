// Package service implements ResourceService, the public asynchronous
// facade orchestrating the materializer, planner, and quad-store
// adapter.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ldpstore/internal/apperrors"
	"ldpstore/internal/bootstrap"
	"ldpstore/internal/concurrency"
	"ldpstore/internal/ldp"
	"ldpstore/internal/materializer"
	"ldpstore/internal/planner"
	"ldpstore/internal/rdf"
	"ldpstore/internal/store"
)

const timeLayout = "2006-01-02T15:04:05.000Z07:00"

// ResourceService is the single entry point mutating and reading
// resources. It is constructed once by internal/di.Container and passed
// down explicitly; there is no package-level singleton.
type ResourceService struct {
	store        store.QuadStore
	materializer *materializer.Materializer
	planner      *planner.Planner
	pool         *concurrency.Pool
	logger       *zap.Logger
	now          func() time.Time
}

func New(qs store.QuadStore, mat *materializer.Materializer, pl *planner.Planner, pool *concurrency.Pool, logger *zap.Logger) (*ResourceService, error) {
	if qs == nil {
		return nil, apperrors.InvalidArgument("quad store adapter is required")
	}
	if mat == nil || pl == nil {
		return nil, apperrors.InvalidArgument("materializer and planner are required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResourceService{
		store:        qs,
		materializer: mat,
		planner:      pl,
		pool:         pool,
		logger:       logger,
		now:          time.Now,
	}, nil
}

// Create preprocesses the dataset, plans a CREATE, and submits it.
func (s *ResourceService) Create(ctx context.Context, meta Meta, dataset rdf.Dataset) *concurrency.Future[struct{}] {
	return s.mutate(ctx, "create", meta.ID.String(), func(t time.Time) error {
		input := preprocess(meta, dataset)
		return s.store.Update(ctx, s.planner.Plan(meta.ID.String(), t, input, ldp.OpCreate))
	})
}

// Replace preprocesses the dataset, plans a REPLACE, and submits it.
func (s *ResourceService) Replace(ctx context.Context, meta Meta, dataset rdf.Dataset) *concurrency.Future[struct{}] {
	return s.mutate(ctx, "replace", meta.ID.String(), func(t time.Time) error {
		input := preprocess(meta, dataset)
		return s.store.Update(ctx, s.planner.Plan(meta.ID.String(), t, input, ldp.OpReplace))
	})
}

// Delete appends the tombstone pair to the caller's (optional) dataset,
// then plans a DELETE.
func (s *ResourceService) Delete(ctx context.Context, rid string, tombstone rdf.Dataset) *concurrency.Future[struct{}] {
	return s.mutate(ctx, "delete", rid, func(t time.Time) error {
		input := make(rdf.Dataset, len(tombstone))
		copy(input, tombstone)
		input = input.Append(rdf.NewQuad(rdf.PreferServerManaged, ldp.ServerGraph(),
			rdf.IRI(rid), rdf.IRI(ldp.DCType), rdf.IRI(ldp.TrellisDeleted)))
		input = input.Append(rdf.NewQuad(rdf.PreferServerManaged, ldp.ServerGraph(),
			rdf.IRI(rid), rdf.IRI(ldp.RDFType), rdf.IRI(ldp.LDPResource)))
		return s.store.Update(ctx, s.planner.Plan(rid, t, input, ldp.OpDelete))
	})
}

// Touch advances rid's own dc:modified with no other content change.
func (s *ResourceService) Touch(ctx context.Context, rid string) *concurrency.Future[struct{}] {
	return s.mutate(ctx, "touch", rid, func(t time.Time) error {
		return s.store.Update(ctx, s.planner.PlanTouch(rid, t))
	})
}

// Add appends audit quads without going through the planner's
// delete/insert/propagate sequence.
func (s *ResourceService) Add(ctx context.Context, rid string, auditQuads rdf.Dataset) *concurrency.Future[struct{}] {
	return s.mutate(ctx, "add", rid, func(time.Time) error {
		quads := make([]rdf.Quad, len(auditQuads))
		for i, q := range auditQuads {
			q.GraphCategory = rdf.PreferAudit
			q.Graph = ldp.AuditGraph(rid)
			quads[i] = q
		}
		return s.store.Update(ctx, store.UpdateRequest{Ops: []store.UpdateOp{
			{Kind: store.OpInsertData, Quads: quads},
		}})
	})
}

// Get is a non-future, eager metadata fetch returning the three-case
// FetchResult.
func (s *ResourceService) Get(ctx context.Context, rid string) (ldp.FetchResult, error) {
	return s.materializer.Fetch(ctx, rid)
}

// GenerateIdentifier returns a fresh unique string. Identifier strategy
// is treated as an external collaborator's choice; this default is what
// Initialize and tests use absent a caller-supplied one.
func (s *ResourceService) GenerateIdentifier() string {
	return uuid.New().String()
}

// SupportedInteractionModels returns the fixed set of interaction models
// the service understands.
func (s *ResourceService) SupportedInteractionModels() []ldp.InteractionModel {
	return ldp.SupportedInteractionModels()
}

// Initialize performs an idempotent root bootstrap.
func (s *ResourceService) Initialize(ctx context.Context) *concurrency.Future[struct{}] {
	return s.mutate(ctx, "initialize", ldp.RootID, func(t time.Time) error {
		return bootstrap.Run(ctx, s.store, t)
	})
}

// Purge always rejects: it is the one mutation Unsupported in this
// dialect.
func (s *ResourceService) Purge(ctx context.Context, rid string) *concurrency.Future[struct{}] {
	return concurrency.Completed[struct{}](struct{}{}, apperrors.Unsupported("purge is not supported by this store dialect"))
}

// mutate submits fn to the worker pool, capturing the wall-clock instant
// at submission time so the same timestamp flows through planning and
// propagation. If ctx is already cancelled when a worker dequeues the
// task, fn is skipped and the future resolves to ctx.Err(); once fn has
// started it runs to completion.
func (s *ResourceService) mutate(ctx context.Context, op, rid string, fn func(t time.Time) error) *concurrency.Future[struct{}] {
	t := s.now()
	s.logger.Debug("submitting mutation", zap.String("op", op), zap.String("rid", rid))
	if s.pool == nil {
		return concurrency.Completed[struct{}](struct{}{}, s.wrapErr(op, rid, fn(t)))
	}
	return concurrency.Submit(s.pool, func() (struct{}, error) {
		if err := ctx.Err(); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, s.wrapErr(op, rid, fn(t))
	})
}

func (s *ResourceService) wrapErr(op, rid string, err error) error {
	if err == nil {
		return nil
	}
	s.logger.Error("mutation failed", zap.String("op", op), zap.String("rid", rid), zap.Error(err))
	if _, ok := err.(*apperrors.Error); ok {
		return err
	}
	return apperrors.Internal(op+" failed for "+rid, err)
}
