// Package filestore implements store.QuadStore as an in-memory dataset
// backed by a JSON snapshot file: every Update and LoadDataset commits
// in memory first (via store/memstore), then flushes the full dataset to
// disk. Used when rdf-location names a filesystem path that is not a
// URL.
package filestore

import (
	"context"
	"sync"

	"ldpstore/internal/rdf"
	"ldpstore/internal/store"
	"ldpstore/internal/store/memstore"
)

// Store is memstore.Store plus snapshot-on-update persistence to a
// single JSON file at path.
type Store struct {
	mu    sync.Mutex
	path  string
	inner *memstore.Store
}

// Open loads any existing snapshot at path (absent is not an error,
// matching an empty dataset) and returns a ready Store.
func Open(path string) (*Store, error) {
	quads, err := readSnapshot(path)
	if err != nil {
		return nil, err
	}
	inner := memstore.New()
	if len(quads) > 0 {
		if err := inner.LoadDataset(context.Background(), quads); err != nil {
			return nil, err
		}
	}
	return &Store{path: path, inner: inner}, nil
}

func (s *Store) IsOpen() bool { return s.inner.IsOpen() }

func (s *Store) Close(ctx context.Context) error {
	return s.inner.Close(ctx)
}

func (s *Store) Select(ctx context.Context, q store.Query) ([]store.Row, error) {
	return s.inner.Select(ctx, q)
}

func (s *Store) Update(ctx context.Context, req store.UpdateRequest) error {
	if err := s.inner.Update(ctx, req); err != nil {
		return err
	}
	return s.flush()
}

func (s *Store) LoadDataset(ctx context.Context, quads rdf.Dataset) error {
	if err := s.inner.LoadDataset(ctx, quads); err != nil {
		return err
	}
	return s.flush()
}

func (s *Store) flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return writeSnapshot(s.path, s.inner.Dump())
}

var _ store.QuadStore = (*Store)(nil)
