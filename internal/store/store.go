// Package store defines the QuadStore contract: a thin, deliberately
// narrow interface over a transactional multi-graph RDF store. The core
// never reaches past this interface into a concrete backend; see
// store/memstore, store/httpstore, and store/filestore for the three
// dialects selected under rdf-location.
package store

import (
	"context"
	"fmt"
	"time"

	"ldpstore/internal/rdf"
)

// Row is a single SELECT result: a binding from SPARQL variable name
// (without the leading '?') to the RDF term it was bound to.
type Row map[string]rdf.Term

// QueryKind enumerates the fixed set of SELECT patterns the
// materializer issues.
// The core never constructs ad-hoc SPARQL; every query a backend must
// answer is one of these shapes.
type QueryKind string

const (
	QueryMetadataScan            QueryKind = "metadata_scan"
	QueryGraphScan               QueryKind = "graph_scan"
	QueryContainment             QueryKind = "containment"
	QueryIndirectMembership      QueryKind = "indirect_membership"
	QueryDirectForwardMembership QueryKind = "direct_forward_membership"
	QueryDirectInverseMembership QueryKind = "direct_inverse_membership"
)

// Query is a single SELECT request. Text carries the rendered SPARQL
// 1.1 text for logging and for backends that genuinely speak SPARQL
// over the wire (store/httpstore);
// Kind and its parameters are what in-process backends (store/memstore)
// dispatch on directly, avoiding a hand-rolled SPARQL parser for a
// fixed, closed set of shapes.
type Query struct {
	Kind  QueryKind
	RID   string // primary resource IRI parameter
	Graph string // target named graph, for QueryGraphScan
	Text  string
}

// UpdateOpKind enumerates the ordered step shapes the planner emits.
type UpdateOpKind string

const (
	OpDeleteWhereGraph         UpdateOpKind = "delete_where_graph"
	OpDeleteWhereBinaryGuarded UpdateOpKind = "delete_where_binary_guarded"
	OpDeleteWhereServerMeta    UpdateOpKind = "delete_where_server_meta"
	OpInsertData               UpdateOpKind = "insert_data"
	OpPropagateParentModified  UpdateOpKind = "propagate_parent_modified"
	OpPropagateDirectMember    UpdateOpKind = "propagate_direct_member"
	OpPropagateIndirectMember  UpdateOpKind = "propagate_indirect_member"
	OpSetModified              UpdateOpKind = "set_modified"
)

// UpdateOp is a single step of an UpdateRequest.
type UpdateOp struct {
	Kind  UpdateOpKind
	Graph string      // target graph for delete/insert ops
	Quads rdf.Dataset // payload for OpInsertData
	RID   string      // resource IRI parameter for propagation/delete ops
	Time  time.Time   // timestamp parameter for propagation/insert ops
	Text  string
}

// UpdateRequest is the ordered sequence of steps compiled by the update
// planner. The whole sequence MUST execute as a single transaction at
// the backend.
type UpdateRequest struct {
	Ops []UpdateOp
}

// QuadStore is the contract every backend (in-process, embedded
// on-disk, or remote) must satisfy.
type QuadStore interface {
	// Select executes q and returns its result rows.
	Select(ctx context.Context, q Query) ([]Row, error)
	// Update executes req atomically: either every op takes effect or
	// none does.
	Update(ctx context.Context, req UpdateRequest) error
	// LoadDataset bulk-installs quads, bypassing the planner. Used by
	// test seeding and by store/filestore when reloading a snapshot.
	LoadDataset(ctx context.Context, quads rdf.Dataset) error
	// Close releases the backend handle. Idempotent.
	Close(ctx context.Context) error
	// IsOpen reports whether the backend is still usable.
	IsOpen() bool
}

// ErrClosed is returned by operations on a closed store.
var ErrClosed = fmt.Errorf("quad store is closed")
