// Package bootstrap implements the idempotent root-resource creation
// step, invoked once from ResourceService.Initialize.
package bootstrap

import (
	"context"
	"time"

	"ldpstore/internal/apperrors"
	"ldpstore/internal/ldp"
	"ldpstore/internal/rdf"
	"ldpstore/internal/store"
)

// Run checks whether the root resource already has an rdf:type in the
// server-managed graph; if not, it installs the root container and its
// default ACL in a single Update. Safe to call repeatedly.
func Run(ctx context.Context, qs store.QuadStore, now time.Time) error {
	rows, err := qs.Select(ctx, store.Query{Kind: store.QueryMetadataScan, RID: ldp.RootID})
	if err != nil {
		return apperrors.Internal("bootstrap metadata scan failed", err)
	}
	for _, row := range rows {
		if pred, ok := row["p"]; ok {
			if iri, ok := pred.AsIRI(); ok && iri == ldp.RDFType {
				return nil
			}
		}
	}

	modified := rdf.DateTimeLiteral(now.UTC().Format(timeLayout))
	aclGraph := ldp.ACLGraph(ldp.RootID)
	root := rdf.IRI(ldp.RootID)
	auth := rdf.BlankNode("rootAuthorization")

	quads := rdf.Dataset{
		rdf.NewQuad(rdf.PreferServerManaged, ldp.ServerGraph(), root, rdf.IRI(ldp.RDFType), rdf.IRI(ldp.LDPBasicContainer)),
		rdf.NewQuad(rdf.PreferServerManaged, ldp.ServerGraph(), root, rdf.IRI(ldp.DCModified), modified),
		rdf.NewQuad(rdf.PreferAccessControl, aclGraph, auth, rdf.IRI(ldp.ACLMode), rdf.IRI(ldp.ACLRead)),
		rdf.NewQuad(rdf.PreferAccessControl, aclGraph, auth, rdf.IRI(ldp.ACLMode), rdf.IRI(ldp.ACLWrite)),
		rdf.NewQuad(rdf.PreferAccessControl, aclGraph, auth, rdf.IRI(ldp.ACLMode), rdf.IRI(ldp.ACLControl)),
		rdf.NewQuad(rdf.PreferAccessControl, aclGraph, auth, rdf.IRI(ldp.ACLAgentClass), rdf.IRI(ldp.FOAFAgent)),
		rdf.NewQuad(rdf.PreferAccessControl, aclGraph, auth, rdf.IRI(ldp.ACLAccessTo), root),
	}

	req := store.UpdateRequest{Ops: []store.UpdateOp{{Kind: store.OpInsertData, Quads: quads}}}
	if err := qs.Update(ctx, req); err != nil {
		return apperrors.Internal("bootstrap insert failed", err)
	}
	return nil
}

const timeLayout = "2006-01-02T15:04:05.000Z07:00"
