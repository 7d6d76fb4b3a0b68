package service

import (
	"strconv"

	"ldpstore/internal/ldp"
	"ldpstore/internal/rdf"
)

var membershipConfigPredicates = map[string]bool{
	ldp.LDPMembershipResource:      true,
	ldp.LDPHasMemberRelation:       true,
	ldp.LDPIsMemberOfRelation:      true,
	ldp.LDPInsertedContentRelation: true,
}

// preprocess augments the caller's dataset with the server-managed
// quads create/replace always imply: interaction model, promoted
// membership configuration, parent linkage, and binary descriptor —
// before the planner ever sees it.
func preprocess(meta Meta, dataset rdf.Dataset) rdf.Dataset {
	rid := meta.ID.String()
	out := make(rdf.Dataset, len(dataset))
	copy(out, dataset)

	out = out.Append(rdf.NewQuad(rdf.PreferServerManaged, ldp.ServerGraph(),
		rdf.IRI(rid), rdf.IRI(ldp.RDFType), rdf.IRI(meta.InteractionModel.IRI())))

	if meta.InteractionModel == ldp.DirectContainer || meta.InteractionModel == ldp.Indirect {
		out = promoteMembershipConfig(out, rid, dataset)
	}

	if meta.Parent != "" {
		out = out.Append(rdf.NewQuad(rdf.PreferServerManaged, ldp.ServerGraph(),
			rdf.IRI(rid), rdf.IRI(ldp.DCIsPartOf), rdf.IRI(meta.Parent)))
	}

	if meta.Binary != nil {
		out = appendBinaryDescriptor(out, rid, meta.Binary)
	}

	return out
}

// promoteMembershipConfig copies the container's membership config
// triples, as authored in the user-managed portion of dataset, into the
// server-managed graph, and additionally emits the convenience
// ldp:member edge.
func promoteMembershipConfig(out rdf.Dataset, rid string, dataset rdf.Dataset) rdf.Dataset {
	var membershipResource string
	var sawICR bool
	for _, q := range dataset.ByCategory(rdf.PreferUserManaged) {
		subj, ok := q.Subject.AsIRI()
		if !ok || subj != rid {
			continue
		}
		pred, ok := q.Predicate.AsIRI()
		if !ok || !membershipConfigPredicates[pred] {
			continue
		}
		out = out.Append(rdf.NewQuad(rdf.PreferServerManaged, ldp.ServerGraph(), q.Subject, q.Predicate, q.Object))
		if pred == ldp.LDPMembershipResource {
			membershipResource, _ = q.Object.AsIRI()
		}
		if pred == ldp.LDPInsertedContentRelation {
			sawICR = true
		}
	}
	if !sawICR {
		out = out.Append(rdf.NewQuad(rdf.PreferServerManaged, ldp.ServerGraph(),
			rdf.IRI(rid), rdf.IRI(ldp.LDPInsertedContentRelation), rdf.IRI(ldp.DefaultInsertedContentRelation)))
	}
	if membershipResource != "" {
		out = out.Append(rdf.NewQuad(rdf.PreferServerManaged, ldp.ServerGraph(),
			rdf.IRI(rid), rdf.IRI(ldp.LDPMember), rdf.IRI(ldp.Normalize(membershipResource))))
	}
	return out
}

func appendBinaryDescriptor(out rdf.Dataset, rid string, bin *ldp.BinaryDescriptor) rdf.Dataset {
	out = out.Append(rdf.NewQuad(rdf.PreferServerManaged, ldp.ServerGraph(),
		rdf.IRI(rid), rdf.IRI(ldp.DCHasPart), rdf.IRI(bin.BinaryIRI)))
	out = out.Append(rdf.NewQuad(rdf.PreferServerManaged, ldp.ServerGraph(),
		rdf.IRI(bin.BinaryIRI), rdf.IRI(ldp.DCFormat), rdf.PlainLiteral(bin.MimeType)))
	if bin.Size != nil {
		out = out.Append(rdf.NewQuad(rdf.PreferServerManaged, ldp.ServerGraph(),
			rdf.IRI(bin.BinaryIRI), rdf.IRI(ldp.DCExtent), rdf.LongLiteral(strconv.FormatInt(*bin.Size, 10))))
	}
	if bin.Modified != nil {
		out = out.Append(rdf.NewQuad(rdf.PreferServerManaged, ldp.ServerGraph(),
			rdf.IRI(bin.BinaryIRI), rdf.IRI(ldp.DCModified), rdf.DateTimeLiteral(bin.Modified.UTC().Format(timeLayout))))
	}
	return out
}
