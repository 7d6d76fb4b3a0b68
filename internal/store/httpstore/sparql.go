package httpstore

import (
	"fmt"
	"strings"
	"time"

	"ldpstore/internal/ldp"
	"ldpstore/internal/rdf"
	"ldpstore/internal/store"
)

const timeLayout = "2006-01-02T15:04:05.000Z07:00"

// renderQuery turns a store.Query into the literal SPARQL 1.1 Query text
// for its Kind. It always binds the same variable names the in-process
// backend uses for its Row keys, so both backends are interchangeable
// from the materializer's point of view.
func renderQuery(q store.Query) string {
	switch q.Kind {
	case store.QueryMetadataScan:
		return fmt.Sprintf(`SELECT ?p ?o ?b ?bp ?bo WHERE {
  GRAPH <%s> {
    <%s> ?p ?o .
    OPTIONAL {
      <%s> <%s> ?b .
      <%s> <%s> <%s> .
      ?b ?bp ?bo .
    }
  }
}`, ldp.ServerGraph(), q.RID, q.RID, ldp.DCHasPart, q.RID, ldp.RDFType, ldp.LDPNonRDFSource)

	case store.QueryGraphScan:
		return fmt.Sprintf(`SELECT ?s ?p ?o WHERE { GRAPH <%s> { ?s ?p ?o } }`, q.Graph)

	case store.QueryContainment:
		return fmt.Sprintf(`SELECT ?object ?type WHERE {
  GRAPH <%s> {
    ?object <%s> <%s> .
    ?object <%s> ?type .
  }
}`, ldp.ServerGraph(), ldp.DCIsPartOf, q.RID, ldp.RDFType)

	case store.QueryIndirectMembership:
		return fmt.Sprintf(`SELECT ?subj ?pred ?obj WHERE {
  GRAPH <%s> {
    ?s <%s> <%s> .
    ?s <%s> <%s> .
    ?s <%s> ?subj .
    ?s <%s> ?pred .
    OPTIONAL { ?s <%s> ?icrRaw }
    BIND(COALESCE(?icrRaw, <%s>) AS ?icr)
    ?res <%s> ?s .
  }
  GRAPH ?res { ?res ?icr ?obj }
}`, ldp.ServerGraph(), ldp.LDPMember, q.RID, ldp.RDFType, ldp.LDPIndirect,
			ldp.LDPMembershipResource, ldp.LDPHasMemberRelation, ldp.LDPInsertedContentRelation,
			ldp.DefaultInsertedContentRelation, ldp.DCIsPartOf)

	case store.QueryDirectForwardMembership:
		return fmt.Sprintf(`SELECT ?subj ?pred ?object ?type WHERE {
  GRAPH <%s> {
    ?s <%s> <%s> .
    ?s <%s> ?subj .
    ?s <%s> ?pred .
    OPTIONAL { ?s <%s> ?icrRaw }
    BIND(COALESCE(?icrRaw, <%s>) AS ?icr)
    FILTER(?icr = <%s>)
    ?object <%s> ?s .
    ?object <%s> ?type .
  }
}`, ldp.ServerGraph(), ldp.LDPMember, q.RID, ldp.LDPMembershipResource, ldp.LDPHasMemberRelation,
			ldp.LDPInsertedContentRelation, ldp.DefaultInsertedContentRelation, ldp.LDPMemberSubject,
			ldp.DCIsPartOf, ldp.RDFType)

	case store.QueryDirectInverseMembership:
		return fmt.Sprintf(`SELECT ?pred ?obj WHERE {
  GRAPH <%s> {
    <%s> <%s> ?s .
    ?s <%s> ?pred .
    ?s <%s> ?obj .
    OPTIONAL { ?s <%s> ?icrRaw }
    BIND(COALESCE(?icrRaw, <%s>) AS ?icr)
    FILTER(?icr = <%s>)
    ?obj <%s> ?type .
  }
}`, ldp.ServerGraph(), q.RID, ldp.DCIsPartOf, ldp.LDPIsMemberOfRelation, ldp.LDPMembershipResource,
			ldp.LDPInsertedContentRelation, ldp.DefaultInsertedContentRelation, ldp.LDPMemberSubject, ldp.RDFType)

	default:
		return q.Text
	}
}

// renderOp turns a single store.UpdateOp into literal SPARQL 1.1 Update
// text. The caller joins every op's text with ";\n" to submit the whole
// sequence as one request, since the whole sequence must execute as a
// single transaction.
func renderOp(op store.UpdateOp) string {
	switch op.Kind {
	case store.OpDeleteWhereGraph:
		return fmt.Sprintf(`DELETE WHERE { GRAPH <%s> { ?s ?p ?o } }`, op.Graph)

	case store.OpDeleteWhereServerMeta:
		return fmt.Sprintf(`DELETE WHERE { GRAPH <%s> { <%s> ?p ?o } }`, ldp.ServerGraph(), op.RID)

	case store.OpDeleteWhereBinaryGuarded:
		return fmt.Sprintf(`DELETE WHERE {
  GRAPH <%s> {
    <%s> <%s> <%s> .
    <%s> <%s> ?s .
    ?s ?p ?o .
  }
}`, ldp.ServerGraph(), op.RID, ldp.RDFType, ldp.LDPNonRDFSource, op.RID, ldp.DCHasPart)

	case store.OpInsertData:
		return fmt.Sprintf(`INSERT DATA {
%s
}`, renderQuadsByGraph(op.Quads))

	case store.OpPropagateParentModified:
		return fmt.Sprintf(`WITH <%s>
DELETE { ?parent <%s> ?m }
INSERT { ?parent <%s> %s }
WHERE  { <%s> <%s> ?parent .
         ?parent <%s> ?m .
         MINUS { ?parent <%s> <%s> }
         MINUS { ?parent <%s> <%s> } }`,
			ldp.ServerGraph(), ldp.DCModified, ldp.DCModified, timeTerm(op.Time),
			op.RID, ldp.DCIsPartOf, ldp.DCModified, ldp.RDFType, ldp.LDPRDFSource, ldp.RDFType, ldp.LDPNonRDFSource)

	case store.OpPropagateDirectMember:
		return fmt.Sprintf(`WITH <%s>
DELETE { ?member <%s> ?m }
INSERT { ?member <%s> %s }
WHERE  { <%s> <%s> ?parent .
         ?parent <%s> ?member .
         ?parent <%s> ?any .
         ?member <%s> ?m }`,
			ldp.ServerGraph(), ldp.DCModified, ldp.DCModified, timeTerm(op.Time),
			op.RID, ldp.DCIsPartOf, ldp.LDPMembershipResource, ldp.LDPHasMemberRelation, ldp.DCModified)

	case store.OpPropagateIndirectMember:
		return fmt.Sprintf(`WITH <%s>
DELETE { ?member <%s> ?m }
INSERT { ?member <%s> %s }
WHERE  { <%s> <%s> ?parent .
         ?parent <%s> <%s> .
         ?parent <%s> ?member . }`,
			ldp.ServerGraph(), ldp.DCModified, ldp.DCModified, timeTerm(op.Time),
			op.RID, ldp.DCIsPartOf, ldp.RDFType, ldp.LDPIndirect, ldp.LDPMembershipResource)

	case store.OpSetModified:
		return fmt.Sprintf(`WITH <%s>
DELETE { <%s> <%s> ?m }
INSERT { <%s> <%s> %s }
WHERE  { OPTIONAL { <%s> <%s> ?m } }`,
			ldp.ServerGraph(), op.RID, ldp.DCModified, op.RID, ldp.DCModified, timeTerm(op.Time), op.RID, ldp.DCModified)

	default:
		return op.Text
	}
}

func timeTerm(t time.Time) string {
	return rdf.DateTimeLiteral(t.UTC().Format(timeLayout)).String()
}

func renderQuadsByGraph(quads rdf.Dataset) string {
	byGraph := map[string][]rdf.Quad{}
	var order []string
	for _, q := range quads {
		if _, ok := byGraph[q.Graph]; !ok {
			order = append(order, q.Graph)
		}
		byGraph[q.Graph] = append(byGraph[q.Graph], q)
	}
	var b strings.Builder
	for _, g := range order {
		fmt.Fprintf(&b, "  GRAPH <%s> {\n", g)
		for _, q := range byGraph[g] {
			fmt.Fprintf(&b, "    %s %s %s .\n", q.Subject, q.Predicate, q.Object)
		}
		b.WriteString("  }\n")
	}
	return b.String()
}
