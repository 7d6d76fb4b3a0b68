// Package httpstore implements store.QuadStore over a remote SPARQL 1.1
// Protocol endpoint, used when rdf-location is an http(s):// URL.
package httpstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"ldpstore/internal/rdf"
	"ldpstore/internal/store"
)

// Store is a thin client over a SPARQL 1.1 Protocol endpoint: SELECT
// text goes to the query endpoint as `query=`, UPDATE text to the update
// endpoint as `update=`, both form-encoded POSTs per the protocol spec.
type Store struct {
	mu             sync.RWMutex
	queryEndpoint  string
	updateEndpoint string
	client         *http.Client
	closed         bool
}

// New builds a Store against a single endpoint used for both SELECT and
// UPDATE, the common case for embedded triplestore HTTP front ends. Pass
// distinct endpoints via NewWithEndpoints if the backend splits them.
func New(endpoint string, client *http.Client) *Store {
	return NewWithEndpoints(endpoint, endpoint, client)
}

func NewWithEndpoints(queryEndpoint, updateEndpoint string, client *http.Client) *Store {
	if client == nil {
		client = http.DefaultClient
	}
	return &Store{queryEndpoint: queryEndpoint, updateEndpoint: updateEndpoint, client: client}
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

func (s *Store) Select(ctx context.Context, q store.Query) ([]store.Row, error) {
	if !s.IsOpen() {
		return nil, store.ErrClosed
	}
	body, err := s.post(ctx, s.queryEndpoint, "query", renderQuery(q), "application/sparql-results+json")
	if err != nil {
		return nil, err
	}
	return decodeResults(body)
}

func (s *Store) Update(ctx context.Context, req store.UpdateRequest) error {
	if !s.IsOpen() {
		return store.ErrClosed
	}
	stmts := make([]string, 0, len(req.Ops))
	for _, op := range req.Ops {
		stmts = append(stmts, renderOp(op))
	}
	_, err := s.post(ctx, s.updateEndpoint, "update", strings.Join(stmts, " ;\n"), "")
	return err
}

// LoadDataset bulk-installs quads via a single INSERT DATA, bypassing the
// planner (used by test seeding, same contract as store/memstore).
func (s *Store) LoadDataset(ctx context.Context, quads rdf.Dataset) error {
	if !s.IsOpen() {
		return store.ErrClosed
	}
	op := store.UpdateOp{Kind: store.OpInsertData, Quads: quads}
	_, err := s.post(ctx, s.updateEndpoint, "update", renderOp(op), "")
	return err
}

func (s *Store) post(ctx context.Context, endpoint, param, body, accept string) ([]byte, error) {
	form := url.Values{param: {body}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBufferString(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build sparql request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sparql endpoint unreachable: %w", err)
	}
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read sparql response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("sparql endpoint returned %d: %s", resp.StatusCode, string(out))
	}
	return out, nil
}

var _ store.QuadStore = (*Store)(nil)
