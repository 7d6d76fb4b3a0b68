package materializer

import (
	"context"

	"ldpstore/internal/apperrors"
	"ldpstore/internal/ldp"
	"ldpstore/internal/rdf"
	"ldpstore/internal/store"
)

// resourceStreamer is the lazy, re-query-on-every-call implementation of
// ldp.Streamer bound to one materialized resource.
type resourceStreamer struct {
	m   *Materializer
	rid string
	im  ldp.InteractionModel
}

// defaultCategories is the full producer set, in emission order.
var defaultCategories = []rdf.GraphCategory{
	rdf.PreferUserManaged,
	rdf.PreferServerManaged,
	rdf.PreferAudit,
	rdf.PreferAccessControl,
	rdf.PreferExtensionGraph,
	rdf.PreferContainment,
	rdf.PreferMembership,
}

func (rs *resourceStreamer) Stream(ctx context.Context, categories ...rdf.GraphCategory) ([]rdf.Quad, error) {
	want := categories
	if len(want) == 0 {
		want = defaultCategories
	}
	wanted := make(map[rdf.GraphCategory]bool, len(want))
	for _, c := range want {
		wanted[c] = true
	}

	var out []rdf.Quad
	for _, category := range defaultCategories {
		if !wanted[category] {
			continue
		}
		quads, err := rs.produce(ctx, category)
		if err != nil {
			return nil, err
		}
		out = append(out, quads...)
	}
	return out, nil
}

func (rs *resourceStreamer) HasMetadata(ctx context.Context, category rdf.GraphCategory) (bool, error) {
	quads, err := rs.produce(ctx, category)
	if err != nil {
		return false, err
	}
	return len(quads) > 0, nil
}

func (rs *resourceStreamer) produce(ctx context.Context, category rdf.GraphCategory) ([]rdf.Quad, error) {
	switch category {
	case rdf.PreferUserManaged:
		return rs.produceUserManaged(ctx)
	case rdf.PreferServerManaged:
		return rs.produceServerManagedSynthetic(), nil
	case rdf.PreferAudit:
		return rs.produceGraph(ctx, rdf.PreferAudit, ldp.AuditGraph(rs.rid))
	case rdf.PreferAccessControl:
		return rs.produceGraph(ctx, rdf.PreferAccessControl, ldp.ACLGraph(rs.rid))
	case rdf.PreferExtensionGraph:
		return rs.produceExtensions(ctx)
	case rdf.PreferContainment:
		return rs.produceContainment(ctx)
	case rdf.PreferMembership:
		return rs.produceMembership(ctx)
	default:
		return nil, apperrors.InvalidArgument("unknown graph category")
	}
}

func (rs *resourceStreamer) produceUserManaged(ctx context.Context) ([]rdf.Quad, error) {
	return rs.produceGraph(ctx, rdf.PreferUserManaged, ldp.UserGraph(rs.rid))
}

func (rs *resourceStreamer) produceGraph(ctx context.Context, category rdf.GraphCategory, graph string) ([]rdf.Quad, error) {
	rows, err := rs.m.store.Select(ctx, store.Query{Kind: store.QueryGraphScan, Graph: graph})
	if err != nil {
		return nil, apperrors.Internal("graph scan failed", err)
	}
	out := make([]rdf.Quad, 0, len(rows))
	for _, row := range rows {
		out = append(out, rdf.NewQuad(category, graph, row["s"], row["p"], row["o"]))
	}
	return out, nil
}

// produceServerManagedSynthetic emits the single rdf:type triple the
// server-managed graph implies rather than stores, gated by the
// include-ldp-type configuration flag.
func (rs *resourceStreamer) produceServerManagedSynthetic() []rdf.Quad {
	if !rs.m.includeLDPType {
		return nil
	}
	subject := ldp.AdjustContainerIRI(rs.rid, rs.im)
	return []rdf.Quad{
		rdf.NewQuad(rdf.PreferServerManaged, ldp.ServerGraph(), rdf.IRI(subject), rdf.IRI(ldp.RDFType), rdf.IRI(rs.im.IRI())),
	}
}

func (rs *resourceStreamer) produceExtensions(ctx context.Context) ([]rdf.Quad, error) {
	var out []rdf.Quad
	for _, ext := range rs.m.extensions {
		quads, err := rs.produceGraph(ctx, rdf.PreferExtensionGraph, ldp.ExtGraph(rs.rid, ext.Name))
		if err != nil {
			return nil, err
		}
		for i := range quads {
			quads[i].Graph = ext.IRI
		}
		out = append(out, quads...)
	}
	return out, nil
}

// produceContainment streams a container's direct children, each
// relabeled ldp:contains and IRI-adjusted by its own interaction model.
func (rs *resourceStreamer) produceContainment(ctx context.Context) ([]rdf.Quad, error) {
	if !rs.im.IsContainer() {
		return nil, nil
	}
	rows, err := rs.m.store.Select(ctx, store.Query{Kind: store.QueryContainment, RID: rs.rid})
	if err != nil {
		return nil, apperrors.Internal("containment query failed", err)
	}
	subject := rdf.IRI(ldp.AdjustContainerIRI(rs.rid, rs.im))
	out := make([]rdf.Quad, 0, len(rows))
	for _, row := range rows {
		childIRI, _ := row["object"].AsIRI()
		childTypeIRI, _ := row["type"].AsIRI()
		childIM, ok := ldp.ParseInteractionModel(childTypeIRI)
		if !ok {
			continue
		}
		object := rdf.IRI(ldp.AdjustContainerIRI(childIRI, childIM))
		out = append(out, rdf.NewQuad(rdf.PreferContainment, "", subject, rdf.IRI(ldp.LDPContains), object))
	}
	return out, nil
}

// produceMembership runs the three membership sub-queries: indirect,
// direct forward, and direct inverse.
func (rs *resourceStreamer) produceMembership(ctx context.Context) ([]rdf.Quad, error) {
	var out []rdf.Quad

	indirect, err := rs.m.store.Select(ctx, store.Query{Kind: store.QueryIndirectMembership, RID: rs.rid})
	if err != nil {
		return nil, apperrors.Internal("indirect membership query failed", err)
	}
	for _, row := range indirect {
		out = append(out, rdf.NewQuad(rdf.PreferMembership, "", row["subj"], row["pred"], row["obj"]))
	}

	forward, err := rs.m.store.Select(ctx, store.Query{Kind: store.QueryDirectForwardMembership, RID: rs.rid})
	if err != nil {
		return nil, apperrors.Internal("direct membership query failed", err)
	}
	for _, row := range forward {
		objectIRI, _ := row["object"].AsIRI()
		typeIRI, _ := row["type"].AsIRI()
		childIM, ok := ldp.ParseInteractionModel(typeIRI)
		if !ok {
			continue
		}
		object := rdf.IRI(ldp.AdjustContainerIRI(objectIRI, childIM))
		out = append(out, rdf.NewQuad(rdf.PreferMembership, "", row["subj"], row["pred"], object))
	}

	inverse, err := rs.m.store.Select(ctx, store.Query{Kind: store.QueryDirectInverseMembership, RID: rs.rid})
	if err != nil {
		return nil, apperrors.Internal("inverse membership query failed", err)
	}
	subject := rdf.IRI(ldp.AdjustContainerIRI(rs.rid, rs.im))
	for _, row := range inverse {
		out = append(out, rdf.NewQuad(rdf.PreferMembership, "", subject, row["pred"], row["obj"]))
	}

	return out, nil
}
