// Package memstore is an in-process, transactional implementation of
// store.QuadStore. It is the default backend when rdf-location is
// absent, and the double most unit tests in this module run against.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"ldpstore/internal/ldp"
	"ldpstore/internal/rdf"
	"ldpstore/internal/store"
)

// Store is a mutex-guarded, copy-on-write quad store: every Update
// mutates a fresh copy of the graph index and swaps it in only once all
// ops succeed, giving all-or-nothing semantics without a real
// transaction log.
type Store struct {
	mu     sync.RWMutex
	graphs map[string][]rdf.Quad
	closed bool
}

func New() *Store {
	return &Store{graphs: make(map[string][]rdf.Quad)}
}

func (s *Store) IsOpen() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.closed
}

func (s *Store) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Dump returns every quad currently held, across all graphs. Used by
// store/filestore to snapshot an in-memory Store to disk after each
// Update.
func (s *Store) Dump() rdf.Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out rdf.Dataset
	for _, qs := range s.graphs {
		out = append(out, qs...)
	}
	return out
}

func (s *Store) LoadDataset(ctx context.Context, quads rdf.Dataset) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return store.ErrClosed
	}
	for _, q := range quads {
		s.graphs[q.Graph] = append(s.graphs[q.Graph], q)
	}
	return nil
}

// Select dispatches on q.Kind to one of the fixed pattern handlers.
func (s *Store) Select(ctx context.Context, q store.Query) ([]store.Row, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, store.ErrClosed
	}
	switch q.Kind {
	case store.QueryMetadataScan:
		return s.selectMetadataScan(q.RID), nil
	case store.QueryGraphScan:
		return s.selectGraphScan(q.Graph), nil
	case store.QueryContainment:
		return s.selectContainment(q.RID), nil
	case store.QueryIndirectMembership:
		return s.selectIndirectMembership(q.RID), nil
	case store.QueryDirectForwardMembership:
		return s.selectDirectForwardMembership(q.RID), nil
	case store.QueryDirectInverseMembership:
		return s.selectDirectInverseMembership(q.RID), nil
	default:
		return nil, store.ErrClosed
	}
}

func (s *Store) serverQuads() []rdf.Quad { return s.graphs[ldp.ServerGraph()] }

func (s *Store) selectMetadataScan(rid string) []store.Row {
	var rows []store.Row
	var binaryIRI string
	isNonRDF := false
	for _, q := range s.serverQuads() {
		subj, ok := q.Subject.AsIRI()
		if !ok || subj != rid {
			continue
		}
		rows = append(rows, store.Row{"p": q.Predicate, "o": q.Object})
		if pred, _ := q.Predicate.AsIRI(); pred == ldp.RDFType {
			if obj, _ := q.Object.AsIRI(); obj == ldp.LDPNonRDFSource {
				isNonRDF = true
			}
		}
		if pred, _ := q.Predicate.AsIRI(); pred == ldp.DCHasPart {
			binaryIRI, _ = q.Object.AsIRI()
		}
	}
	if isNonRDF && binaryIRI != "" {
		for _, q := range s.serverQuads() {
			subj, ok := q.Subject.AsIRI()
			if !ok || subj != binaryIRI {
				continue
			}
			rows = append(rows, store.Row{"b": q.Subject, "bp": q.Predicate, "bo": q.Object})
		}
	}
	return rows
}

func (s *Store) selectGraphScan(graph string) []store.Row {
	var rows []store.Row
	for _, q := range s.graphs[graph] {
		rows = append(rows, store.Row{"s": q.Subject, "p": q.Predicate, "o": q.Object})
	}
	return rows
}

func (s *Store) selectContainment(rid string) []store.Row {
	var rows []store.Row
	for _, q := range s.serverQuads() {
		pred, _ := q.Predicate.AsIRI()
		if pred != ldp.DCIsPartOf {
			continue
		}
		parent, _ := q.Object.AsIRI()
		if parent != rid {
			continue
		}
		object, _ := q.Subject.AsIRI()
		typ := s.typeOf(object)
		if typ.IsZero() {
			continue
		}
		rows = append(rows, store.Row{"object": q.Subject, "type": typ})
	}
	return rows
}

func (s *Store) typeOf(subject string) rdf.Term {
	for _, q := range s.serverQuads() {
		subj, _ := q.Subject.AsIRI()
		pred, _ := q.Predicate.AsIRI()
		if subj == subject && pred == ldp.RDFType {
			return q.Object
		}
	}
	return rdf.Term{}
}

func (s *Store) objectsOf(subject, predicate string) []rdf.Term {
	var out []rdf.Term
	for _, q := range s.serverQuads() {
		subj, _ := q.Subject.AsIRI()
		pred, _ := q.Predicate.AsIRI()
		if subj == subject && pred == predicate {
			out = append(out, q.Object)
		}
	}
	return out
}

func firstIRI(terms []rdf.Term) (string, bool) {
	if len(terms) == 0 {
		return "", false
	}
	return terms[0].AsIRI()
}

// childrenOf returns the IRIs of resources whose dc:isPartOf points at parent.
func (s *Store) childrenOf(parent string) []string {
	var out []string
	for _, q := range s.serverQuads() {
		pred, _ := q.Predicate.AsIRI()
		if pred != ldp.DCIsPartOf {
			continue
		}
		obj, _ := q.Object.AsIRI()
		if obj != parent {
			continue
		}
		subj, _ := q.Subject.AsIRI()
		out = append(out, subj)
	}
	sort.Strings(out)
	return out
}

// containersWithMember returns the IRIs of server-managed subjects s such
// that (s, ldp:member, rid) holds.
func (s *Store) containersWithMember(rid string) []string {
	var out []string
	for _, q := range s.serverQuads() {
		pred, _ := q.Predicate.AsIRI()
		if pred != ldp.LDPMember {
			continue
		}
		obj, _ := q.Object.AsIRI()
		if obj != rid {
			continue
		}
		subj, _ := q.Subject.AsIRI()
		out = append(out, subj)
	}
	return out
}

func (s *Store) selectIndirectMembership(rid string) []store.Row {
	var rows []store.Row
	for _, container := range s.containersWithMember(rid) {
		typ := s.typeOf(container)
		if t, ok := typ.AsIRI(); !ok || t != ldp.LDPIndirect {
			continue
		}
		subj, ok := firstIRI(s.objectsOf(container, ldp.LDPMembershipResource))
		if !ok {
			continue
		}
		pred, ok := firstIRI(s.objectsOf(container, ldp.LDPHasMemberRelation))
		if !ok {
			continue
		}
		icr, ok := firstIRI(s.objectsOf(container, ldp.LDPInsertedContentRelation))
		if !ok {
			icr = ldp.DefaultInsertedContentRelation
		}
		for _, child := range s.childrenOf(container) {
			for _, q := range s.graphs[child] {
				childSubj, _ := q.Subject.AsIRI()
				childPred, _ := q.Predicate.AsIRI()
				if childSubj != child || childPred != icr {
					continue
				}
				rows = append(rows, store.Row{
					"subj": rdf.IRI(subj),
					"pred": rdf.IRI(pred),
					"obj":  q.Object,
				})
			}
		}
	}
	return rows
}

func (s *Store) selectDirectForwardMembership(rid string) []store.Row {
	var rows []store.Row
	for _, container := range s.containersWithMember(rid) {
		subj, ok := firstIRI(s.objectsOf(container, ldp.LDPMembershipResource))
		if !ok {
			continue
		}
		pred, ok := firstIRI(s.objectsOf(container, ldp.LDPHasMemberRelation))
		if !ok {
			continue
		}
		icr, ok := firstIRI(s.objectsOf(container, ldp.LDPInsertedContentRelation))
		if !ok {
			icr = ldp.DefaultInsertedContentRelation
		}
		if icr != ldp.LDPMemberSubject {
			continue
		}
		for _, child := range s.childrenOf(container) {
			typ := s.typeOf(child)
			if typ.IsZero() {
				continue
			}
			rows = append(rows, store.Row{
				"subj":   rdf.IRI(subj),
				"pred":   rdf.IRI(pred),
				"object": rdf.IRI(child),
				"type":   typ,
			})
		}
	}
	return rows
}

func (s *Store) selectDirectInverseMembership(rid string) []store.Row {
	var rows []store.Row
	parents := s.objectsOf(rid, ldp.DCIsPartOf)
	for _, p := range parents {
		parent, ok := p.AsIRI()
		if !ok {
			continue
		}
		pred, ok := firstIRI(s.objectsOf(parent, ldp.LDPIsMemberOfRelation))
		if !ok {
			continue
		}
		obj, ok := firstIRI(s.objectsOf(parent, ldp.LDPMembershipResource))
		if !ok {
			continue
		}
		icr, ok := firstIRI(s.objectsOf(parent, ldp.LDPInsertedContentRelation))
		if !ok {
			icr = ldp.DefaultInsertedContentRelation
		}
		if icr != ldp.LDPMemberSubject {
			continue
		}
		if s.typeOf(obj).IsZero() {
			continue
		}
		rows = append(rows, store.Row{"pred": rdf.IRI(pred), "obj": rdf.IRI(obj)})
	}
	return rows
}

// Update applies req.Ops in order against a private copy of the graph
// index, installing it atomically only if every op succeeds.
func (s *Store) Update(ctx context.Context, req store.UpdateRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return store.ErrClosed
	}
	next := make(map[string][]rdf.Quad, len(s.graphs))
	for g, qs := range s.graphs {
		cp := make([]rdf.Quad, len(qs))
		copy(cp, qs)
		next[g] = cp
	}
	for _, op := range req.Ops {
		applyOp(next, op)
	}
	s.graphs = next
	return nil
}

func applyOp(graphs map[string][]rdf.Quad, op store.UpdateOp) {
	switch op.Kind {
	case store.OpDeleteWhereGraph:
		delete(graphs, op.Graph)
	case store.OpDeleteWhereServerMeta:
		graphs[ldp.ServerGraph()] = filterOutSubject(graphs[ldp.ServerGraph()], op.RID)
	case store.OpDeleteWhereBinaryGuarded:
		server := graphs[ldp.ServerGraph()]
		isNonRDF := false
		var binaryIRI string
		for _, q := range server {
			subj, _ := q.Subject.AsIRI()
			if subj != op.RID {
				continue
			}
			if pred, _ := q.Predicate.AsIRI(); pred == ldp.RDFType {
				if obj, _ := q.Object.AsIRI(); obj == ldp.LDPNonRDFSource {
					isNonRDF = true
				}
			}
			if pred, _ := q.Predicate.AsIRI(); pred == ldp.DCHasPart {
				binaryIRI, _ = q.Object.AsIRI()
			}
		}
		if isNonRDF && binaryIRI != "" {
			graphs[ldp.ServerGraph()] = filterOutSubject(server, binaryIRI)
		}
	case store.OpInsertData:
		for _, q := range op.Quads {
			graphs[q.Graph] = append(graphs[q.Graph], q)
		}
	case store.OpPropagateParentModified:
		propagateParentModified(graphs, op.RID, op.Time)
	case store.OpPropagateDirectMember:
		propagateDirectMember(graphs, op.RID, op.Time)
	case store.OpPropagateIndirectMember:
		propagateIndirectMember(graphs, op.RID, op.Time)
	case store.OpSetModified:
		setModified(graphs, op.RID, rdf.DateTimeLiteral(op.Time.UTC().Format(timeLayout)))
	}
}

func filterOutSubject(quads []rdf.Quad, subject string) []rdf.Quad {
	out := quads[:0:0]
	for _, q := range quads {
		if subj, ok := q.Subject.AsIRI(); ok && subj == subject {
			continue
		}
		out = append(out, q)
	}
	return out
}

func setModified(graphs map[string][]rdf.Quad, subject string, t rdf.Term) {
	server := graphs[ldp.ServerGraph()]
	out := server[:0:0]
	for _, q := range server {
		subj, _ := q.Subject.AsIRI()
		pred, _ := q.Predicate.AsIRI()
		if subj == subject && pred == ldp.DCModified {
			continue
		}
		out = append(out, q)
	}
	out = append(out, rdf.NewQuad(rdf.PreferServerManaged, ldp.ServerGraph(), rdf.IRI(subject), rdf.IRI(ldp.DCModified), t))
	graphs[ldp.ServerGraph()] = out
}

func typeOfSubject(graphs map[string][]rdf.Quad, subject string) (string, bool) {
	for _, q := range graphs[ldp.ServerGraph()] {
		subj, _ := q.Subject.AsIRI()
		pred, _ := q.Predicate.AsIRI()
		if subj == subject && pred == ldp.RDFType {
			return q.Object.AsIRI()
		}
	}
	return "", false
}

func objectsOfSubject(graphs map[string][]rdf.Quad, subject, predicate string) []string {
	var out []string
	for _, q := range graphs[ldp.ServerGraph()] {
		subj, _ := q.Subject.AsIRI()
		pred, _ := q.Predicate.AsIRI()
		if subj == subject && pred == predicate {
			if o, ok := q.Object.AsIRI(); ok {
				out = append(out, o)
			}
		}
	}
	return out
}

// propagateParentModified implements the CREATE/DELETE parent
// propagation pattern, suppressed for non-container
// parents via the two MINUS clauses.
func propagateParentModified(graphs map[string][]rdf.Quad, rid string, t time.Time) {
	parents := objectsOfSubject(graphs, rid, ldp.DCIsPartOf)
	for _, parent := range parents {
		typ, ok := typeOfSubject(graphs, parent)
		if !ok {
			continue
		}
		if typ == ldp.LDPRDFSource || typ == ldp.LDPNonRDFSource {
			continue
		}
		setModified(graphs, parent, rdf.DateTimeLiteral(t.UTC().Format(timeLayout)))
	}
}

// propagateDirectMember implements the CREATE/DELETE direct-container
// member propagation pattern.
func propagateDirectMember(graphs map[string][]rdf.Quad, rid string, t time.Time) {
	parents := objectsOfSubject(graphs, rid, ldp.DCIsPartOf)
	for _, parent := range parents {
		members := objectsOfSubject(graphs, parent, ldp.LDPMembershipResource)
		relations := objectsOfSubject(graphs, parent, ldp.LDPHasMemberRelation)
		if len(members) == 0 || len(relations) == 0 {
			continue
		}
		for _, member := range members {
			setModified(graphs, member, rdf.DateTimeLiteral(t.UTC().Format(timeLayout)))
		}
	}
}

// propagateIndirectMember implements the REPLACE-only indirect-container
// member propagation pattern: indirect members are always considered
// stale on any replace of one of the container's children.
//
// A literal WHERE clause joining purely on a shared dc:modified value
// between rid and the member would only fire on timestamp coincidence,
// with no dc:isPartOf link back to rid at all. We instead scope the
// touch to IndirectContainers that rid is actually a child of, which is
// what "indirect members are always considered stale" requires.
func propagateIndirectMember(graphs map[string][]rdf.Quad, rid string, t time.Time) {
	parents := objectsOfSubject(graphs, rid, ldp.DCIsPartOf)
	for _, parent := range parents {
		typ, ok := typeOfSubject(graphs, parent)
		if !ok || typ != ldp.LDPIndirect {
			continue
		}
		for _, member := range objectsOfSubject(graphs, parent, ldp.LDPMembershipResource) {
			setModified(graphs, member, rdf.DateTimeLiteral(t.UTC().Format(timeLayout)))
		}
	}
}

const timeLayout = "2006-01-02T15:04:05.000Z07:00"
