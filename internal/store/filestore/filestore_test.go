package filestore_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ldpstore/internal/ldp"
	"ldpstore/internal/rdf"
	"ldpstore/internal/store"
	"ldpstore/internal/store/filestore"
)

func TestOpen_MissingFileStartsEmpty(t *testing.T) {
	// Arrange
	path := filepath.Join(t.TempDir(), "store.json")

	// Act
	st, err := filestore.Open(path)

	// Assert
	require.NoError(t, err)
	rows, err := st.Select(context.Background(), store.Query{Kind: store.QueryMetadataScan, RID: "trellis:r"})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestUpdate_PersistsAcrossReopen(t *testing.T) {
	// Arrange
	path := filepath.Join(t.TempDir(), "store.json")
	st, err := filestore.Open(path)
	require.NoError(t, err)

	quads := rdf.Dataset{
		rdf.NewQuad(rdf.PreferServerManaged, ldp.ServerGraph(), rdf.IRI("trellis:r"), rdf.IRI(ldp.RDFType), rdf.IRI(ldp.LDPRDFSource)),
		rdf.NewQuad(rdf.PreferServerManaged, ldp.ServerGraph(), rdf.IRI("trellis:r"), rdf.IRI(ldp.DCModified), rdf.DateTimeLiteral("2024-01-01T00:00:00.000Z")),
	}

	// Act
	err = st.Update(context.Background(), store.UpdateRequest{Ops: []store.UpdateOp{
		{Kind: store.OpInsertData, Quads: quads},
	}})
	require.NoError(t, err)

	reopened, err := filestore.Open(path)
	require.NoError(t, err)
	rows, err := reopened.Select(context.Background(), store.Query{Kind: store.QueryMetadataScan, RID: "trellis:r"})

	// Assert
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}
