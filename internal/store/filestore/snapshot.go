package filestore

import (
	"encoding/json"
	"os"

	"ldpstore/internal/rdf"
)

type termRecord struct {
	Kind     string `json:"kind"` // iri | bnode | literal
	Value    string `json:"value"`
	Datatype string `json:"datatype,omitempty"`
	Lang     string `json:"lang,omitempty"`
}

type quadRecord struct {
	Category  rdf.GraphCategory `json:"category"`
	Graph     string            `json:"graph"`
	Subject   termRecord        `json:"subject"`
	Predicate termRecord        `json:"predicate"`
	Object    termRecord        `json:"object"`
}

func toTermRecord(t rdf.Term) termRecord {
	switch t.Kind() {
	case rdf.KindIRI:
		v, _ := t.AsIRI()
		return termRecord{Kind: "iri", Value: v}
	case rdf.KindBlankNode:
		v, _ := t.AsBlankNode()
		return termRecord{Kind: "bnode", Value: v}
	default:
		lex, dt, lang, _ := t.AsLiteral()
		return termRecord{Kind: "literal", Value: lex, Datatype: dt, Lang: lang}
	}
}

func fromTermRecord(r termRecord) rdf.Term {
	switch r.Kind {
	case "iri":
		return rdf.IRI(r.Value)
	case "bnode":
		return rdf.BlankNode(r.Value)
	default:
		if r.Lang != "" {
			return rdf.LangString(r.Value, r.Lang)
		}
		return rdf.Literal(r.Value, r.Datatype)
	}
}

func encodeDataset(quads rdf.Dataset) ([]byte, error) {
	records := make([]quadRecord, len(quads))
	for i, q := range quads {
		records[i] = quadRecord{
			Category:  q.GraphCategory,
			Graph:     q.Graph,
			Subject:   toTermRecord(q.Subject),
			Predicate: toTermRecord(q.Predicate),
			Object:    toTermRecord(q.Object),
		}
	}
	return json.MarshalIndent(records, "", "  ")
}

func decodeDataset(data []byte) (rdf.Dataset, error) {
	var records []quadRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	out := make(rdf.Dataset, len(records))
	for i, r := range records {
		out[i] = rdf.NewQuad(r.Category, r.Graph, fromTermRecord(r.Subject), fromTermRecord(r.Predicate), fromTermRecord(r.Object))
	}
	return out, nil
}

// writeSnapshot persists the dataset to path, via a temp-file-then-rename
// so a crash mid-write never leaves a truncated snapshot on disk.
func writeSnapshot(path string, quads rdf.Dataset) error {
	data, err := encodeDataset(quads)
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func readSnapshot(path string) (rdf.Dataset, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return decodeDataset(data)
}
