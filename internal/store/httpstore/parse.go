package httpstore

import (
	"encoding/json"
	"fmt"

	"ldpstore/internal/rdf"
	"ldpstore/internal/store"
)

// sparqlResults is the SPARQL 1.1 Query Results JSON Format
// (https://www.w3.org/TR/sparql11-results-json/), the wire shape every
// remote endpoint in the reference corpus returns for SELECT.
type sparqlResults struct {
	Head struct {
		Vars []string `json:"vars"`
	} `json:"head"`
	Results struct {
		Bindings []map[string]sparqlBinding `json:"bindings"`
	} `json:"results"`
}

type sparqlBinding struct {
	Type     string `json:"type"` // uri | literal | bnode
	Value    string `json:"value"`
	Datatype string `json:"datatype,omitempty"`
	Lang     string `json:"xml:lang,omitempty"`
}

func decodeResults(body []byte) ([]store.Row, error) {
	var parsed sparqlResults
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode sparql results: %w", err)
	}
	rows := make([]store.Row, 0, len(parsed.Results.Bindings))
	for _, binding := range parsed.Results.Bindings {
		row := store.Row{}
		for name, b := range binding {
			row[name] = toTerm(b)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func toTerm(b sparqlBinding) rdf.Term {
	switch b.Type {
	case "uri":
		return rdf.IRI(b.Value)
	case "bnode":
		return rdf.BlankNode(b.Value)
	default:
		if b.Lang != "" {
			return rdf.LangString(b.Value, b.Lang)
		}
		if b.Datatype != "" {
			return rdf.Literal(b.Value, b.Datatype)
		}
		return rdf.PlainLiteral(b.Value)
	}
}
