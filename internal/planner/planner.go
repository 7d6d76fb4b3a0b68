// Package planner implements the update planner: it
// compiles a (identifier, time, input dataset, operation) triple into an
// ordered store.UpdateRequest, including the propagation patterns that
// advance a parent's or membership resource's dc:modified.
package planner

import (
	"time"

	"ldpstore/internal/ldp"
	"ldpstore/internal/rdf"
	"ldpstore/internal/store"
)

const timeLayout = "2006-01-02T15:04:05.000Z07:00"

// Planner compiles mutation requests against a fixed extension registry.
// The registry decides which `?ext=k` graphs the delete sweep and the
// insert step both touch.
type Planner struct {
	extensions []ldp.ExtensionGraph
}

func New(extensions []ldp.ExtensionGraph) *Planner {
	return &Planner{extensions: extensions}
}

// Plan compiles the delete sweep, the insert block, and the propagation
// patterns into one ordered request. Propagation ops are positioned
// before the delete sweep for DELETE and after the insert block for
// CREATE/REPLACE, so a reader never observes a stale propagated
// timestamp alongside fresh content.
func (p *Planner) Plan(rid string, t time.Time, input rdf.Dataset, op ldp.MutationOp) store.UpdateRequest {
	stamped := input.Append(rdf.NewQuad(
		rdf.PreferServerManaged, ldp.ServerGraph(),
		rdf.IRI(rid), rdf.IRI(ldp.DCModified), stampedTime(t),
	))

	deletes := p.deleteOps(rid)
	insert := p.insertOp(rid, stamped, op)

	var ops []store.UpdateOp
	switch op {
	case ldp.OpCreate:
		ops = append(ops, deletes...)
		ops = append(ops, insert)
		ops = append(ops, propagateOp(store.OpPropagateParentModified, rid, t))
		ops = append(ops, propagateOp(store.OpPropagateDirectMember, rid, t))
	case ldp.OpReplace:
		ops = append(ops, deletes...)
		ops = append(ops, insert)
		ops = append(ops, propagateOp(store.OpPropagateIndirectMember, rid, t))
	case ldp.OpDelete:
		ops = append(ops, propagateOp(store.OpPropagateParentModified, rid, t))
		ops = append(ops, propagateOp(store.OpPropagateDirectMember, rid, t))
		ops = append(ops, deletes...)
		ops = append(ops, insert)
	}
	return store.UpdateRequest{Ops: ops}
}

// PlanTouch implements `touch`: the "parent modified date" propagation
// pattern specialized to a bare re-stamp of rid itself, with no delete or
// insert of any other state.
func (p *Planner) PlanTouch(rid string, t time.Time) store.UpdateRequest {
	return store.UpdateRequest{Ops: []store.UpdateOp{
		{Kind: store.OpSetModified, RID: rid, Time: t},
	}}
}

func propagateOp(kind store.UpdateOpKind, rid string, t time.Time) store.UpdateOp {
	return store.UpdateOp{Kind: kind, RID: rid, Time: t}
}

func stampedTime(t time.Time) rdf.Term {
	return rdf.DateTimeLiteral(t.UTC().Format(timeLayout))
}

// deleteOps clears the user graph, every registered extension graph
// (audit, acl, and configured extensions), the binary descriptor
// (self-guarded), and the resource's server-managed metadata, in that
// order.
func (p *Planner) deleteOps(rid string) []store.UpdateOp {
	ops := []store.UpdateOp{
		{Kind: store.OpDeleteWhereGraph, Graph: ldp.UserGraph(rid)},
	}
	for _, name := range p.registeredExtensionNames() {
		ops = append(ops, store.UpdateOp{Kind: store.OpDeleteWhereGraph, Graph: ldp.ExtGraph(rid, name)})
	}
	ops = append(ops,
		store.UpdateOp{Kind: store.OpDeleteWhereBinaryGuarded, RID: rid},
		store.UpdateOp{Kind: store.OpDeleteWhereServerMeta, RID: rid},
	)
	return ops
}

// registeredExtensionNames returns {audit, acl} plus every configured
// extension name.
func (p *Planner) registeredExtensionNames() []string {
	names := []string{ldp.ExtAudit, ldp.ExtACL}
	for _, ext := range p.extensions {
		names = append(names, ext.Name)
	}
	return names
}

// insertOp builds a single INSERT DATA block, its contents varying by op. Quads arrive from the caller tagged by GraphCategory;
// extension quads additionally carry the bare extension name in Graph so
// this step knows which `?ext=k` graph to rewrite them into.
func (p *Planner) insertOp(rid string, input rdf.Dataset, op ldp.MutationOp) store.UpdateOp {
	var quads []rdf.Quad
	quads = append(quads, rewriteGraph(input.ByCategory(rdf.PreferServerManaged), ldp.ServerGraph())...)

	if op == ldp.OpDelete {
		quads = append(quads, rewriteGraph(input.ByCategory(rdf.PreferAudit), ldp.AuditGraph(rid))...)
		return store.UpdateOp{Kind: store.OpInsertData, Quads: quads}
	}

	quads = append(quads, rewriteGraph(input.ByCategory(rdf.PreferUserManaged), ldp.UserGraph(rid))...)
	quads = append(quads, rewriteGraph(input.ByCategory(rdf.PreferAccessControl), ldp.ACLGraph(rid))...)
	quads = append(quads, rewriteGraph(input.ByCategory(rdf.PreferAudit), ldp.AuditGraph(rid))...)
	for _, q := range input.ByCategory(rdf.PreferExtensionGraph) {
		q.Graph = ldp.ExtGraph(rid, q.Graph)
		quads = append(quads, q)
	}
	return store.UpdateOp{Kind: store.OpInsertData, Quads: quads}
}

func rewriteGraph(quads rdf.Dataset, graph string) rdf.Dataset {
	out := make(rdf.Dataset, len(quads))
	for i, q := range quads {
		q.Graph = graph
		out[i] = q
	}
	return out
}
