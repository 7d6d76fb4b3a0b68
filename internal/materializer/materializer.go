// Package materializer implements the resource materializer: given an
// identifier, it issues the fixed set of SELECT patterns needed to
// assemble a Resource value, including the containment and membership
// inference queries.
package materializer

import (
	"context"
	"strconv"
	"time"

	"ldpstore/internal/apperrors"
	"ldpstore/internal/ldp"
	"ldpstore/internal/rdf"
	"ldpstore/internal/store"
)

// Materializer fetches and streams resources from a QuadStore.
type Materializer struct {
	store          store.QuadStore
	extensions     []ldp.ExtensionGraph
	includeLDPType bool
}

func New(qs store.QuadStore, extensions []ldp.ExtensionGraph, includeLDPType bool) *Materializer {
	return &Materializer{store: qs, extensions: extensions, includeLDPType: includeLDPType}
}

// Fetch scans the server-managed graph for rid's metadata and, if
// present, returns a lazy Resource handle; otherwise it reports MISSING
// or DELETED.
func (m *Materializer) Fetch(ctx context.Context, rid string) (ldp.FetchResult, error) {
	rid = ldp.Normalize(rid)
	rows, err := m.store.Select(ctx, store.Query{Kind: store.QueryMetadataScan, RID: rid})
	if err != nil {
		return ldp.FetchResult{}, apperrors.Internal("metadata scan failed", err)
	}

	predicates := map[string]rdf.Term{}
	binary := map[string]rdf.Term{}
	var binaryIRI string
	for _, row := range rows {
		if p, ok := row["p"]; ok {
			predicates[iriOf(p)] = row["o"]
		}
		if bp, ok := row["bp"]; ok {
			binary[iriOf(bp)] = row["bo"]
			if b, ok := row["b"]; ok {
				binaryIRI, _ = b.AsIRI()
			}
		}
	}

	typeTerm, hasType := predicates[ldp.RDFType]
	modifiedTerm, hasModified := predicates[ldp.DCModified]
	if !hasType || !hasModified {
		return ldp.Missing(), nil
	}

	if dcType, ok := predicates[ldp.DCType]; ok {
		if v, _ := dcType.AsIRI(); v == ldp.TrellisDeleted {
			return ldp.Deleted(), nil
		}
	}

	imIRI, _ := typeTerm.AsIRI()
	im, _ := ldp.ParseInteractionModel(imIRI)

	modified := parseDateTime(modifiedTerm)

	meta := ldp.Metadata{ID: ldp.NewResourceID(rid), InteractionModel: im, Modified: modified}
	if parent, ok := predicates[ldp.DCIsPartOf]; ok {
		meta.Parent, _ = parent.AsIRI()
	}

	if im == ldp.DirectContainer || im == ldp.Indirect {
		cfg := &ldp.MembershipConfig{InsertedContentRelation: ldp.DefaultInsertedContentRelation}
		if v, ok := predicates[ldp.LDPMembershipResource]; ok {
			cfg.MembershipResource, _ = v.AsIRI()
		}
		if v, ok := predicates[ldp.LDPHasMemberRelation]; ok {
			cfg.HasMemberRelation, _ = v.AsIRI()
		}
		if v, ok := predicates[ldp.LDPIsMemberOfRelation]; ok {
			cfg.IsMemberOfRelation, _ = v.AsIRI()
		}
		if v, ok := predicates[ldp.LDPInsertedContentRelation]; ok {
			cfg.InsertedContentRelation, _ = v.AsIRI()
		}
		meta.Membership = cfg
	}

	if im == ldp.NonRDFSource && binaryIRI != "" {
		bd := &ldp.BinaryDescriptor{BinaryIRI: binaryIRI}
		if v, ok := binary[ldp.DCFormat]; ok {
			bd.MimeType, _, _, _ = v.AsLiteral()
		}
		if v, ok := binary[ldp.DCExtent]; ok {
			if lex, _, _, ok := v.AsLiteral(); ok {
				if n, err := strconv.ParseInt(lex, 10, 64); err == nil {
					bd.Size = &n
				}
			}
		}
		if v, ok := binary[ldp.DCModified]; ok {
			t := parseDateTime(v)
			bd.Modified = &t
		}
		meta.Binary = bd
	}

	streamer := &resourceStreamer{m: m, rid: rid, im: im}
	return ldp.Present(ldp.NewResource(meta, streamer, m.includeLDPType)), nil
}

func iriOf(t rdf.Term) string {
	v, _ := t.AsIRI()
	return v
}

func parseDateTime(t rdf.Term) time.Time {
	lex, _, _, ok := t.AsLiteral()
	if !ok {
		return time.Time{}
	}
	parsed, err := time.Parse(memTimeLayout, lex)
	if err != nil {
		return time.Time{}
	}
	return parsed
}

const memTimeLayout = "2006-01-02T15:04:05.000Z07:00"
