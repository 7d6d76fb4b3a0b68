package rdf

// GraphCategory labels which of the closed set of named-graph categories
// a Quad belongs to, so consumers can filter streams without re-parsing
// graph IRIs.
type GraphCategory string

const (
	PreferUserManaged    GraphCategory = "PreferUserManaged"
	PreferServerManaged  GraphCategory = "PreferServerManaged"
	PreferAudit          GraphCategory = "PreferAudit"
	PreferAccessControl  GraphCategory = "PreferAccessControl"
	PreferContainment    GraphCategory = "PreferContainment"
	PreferMembership     GraphCategory = "PreferMembership"
	PreferExtensionGraph GraphCategory = "PreferExtension"
)

// Quad is a single RDF statement tagged with the named graph it belongs
// to and the logical category of that graph.
type Quad struct {
	GraphCategory GraphCategory
	Graph         string
	Subject       Term
	Predicate     Term
	Object        Term
}

func NewQuad(category GraphCategory, graph string, s, p, o Term) Quad {
	return Quad{GraphCategory: category, Graph: graph, Subject: s, Predicate: p, Object: o}
}

// Dataset is an unordered, possibly-duplicated collection of quads
// partitioned implicitly by GraphCategory. It is the shape the planner
// consumes as input and the materializer produces as output.
type Dataset []Quad

// ByCategory returns the subset of quads tagged with any of the given
// categories.
func (d Dataset) ByCategory(categories ...GraphCategory) Dataset {
	want := make(map[GraphCategory]bool, len(categories))
	for _, c := range categories {
		want[c] = true
	}
	out := make(Dataset, 0, len(d))
	for _, q := range d {
		if want[q.GraphCategory] {
			out = append(out, q)
		}
	}
	return out
}

// Append adds a quad and returns the resulting dataset.
func (d Dataset) Append(q Quad) Dataset {
	return append(d, q)
}
