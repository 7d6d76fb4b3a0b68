package materializer_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ldpstore/internal/ldp"
	"ldpstore/internal/materializer"
	"ldpstore/internal/rdf"
	"ldpstore/internal/store/memstore"
)

func seedServerQuad(t *testing.T, qs *memstore.Store, rid, pred string, obj rdf.Term) {
	t.Helper()
	err := qs.LoadDataset(context.Background(), rdf.Dataset{
		rdf.NewQuad(rdf.PreferServerManaged, ldp.ServerGraph(), rdf.IRI(rid), rdf.IRI(pred), obj),
	})
	require.NoError(t, err)
}

func TestFetch_MissingWhenNoTypeOrModified(t *testing.T) {
	// Arrange
	qs := memstore.New()
	m := materializer.New(qs, nil, true)

	// Act
	result, err := m.Fetch(context.Background(), "trellis:nothing")

	// Assert
	require.NoError(t, err)
	assert.True(t, result.IsMissing())
}

func TestFetch_MissingWhenOnlyTypePresent(t *testing.T) {
	// Arrange
	qs := memstore.New()
	seedServerQuad(t, qs, "trellis:partial", ldp.RDFType, rdf.IRI(ldp.LDPRDFSource))
	m := materializer.New(qs, nil, true)

	// Act
	result, err := m.Fetch(context.Background(), "trellis:partial")

	// Assert
	require.NoError(t, err)
	assert.True(t, result.IsMissing())
}

func TestFetch_DeletedSentinel(t *testing.T) {
	// Arrange
	qs := memstore.New()
	rid := "trellis:gone"
	seedServerQuad(t, qs, rid, ldp.RDFType, rdf.IRI(ldp.LDPResource))
	seedServerQuad(t, qs, rid, ldp.DCModified, rdf.DateTimeLiteral("2024-01-01T00:00:00.000Z"))
	seedServerQuad(t, qs, rid, ldp.DCType, rdf.IRI(ldp.TrellisDeleted))
	m := materializer.New(qs, nil, true)

	// Act
	result, err := m.Fetch(context.Background(), rid)

	// Assert
	require.NoError(t, err)
	assert.True(t, result.IsDeleted())
}

func TestFetch_PresentResourceExposesInteractionModelAndModified(t *testing.T) {
	// Arrange
	qs := memstore.New()
	rid := "trellis:present"
	seedServerQuad(t, qs, rid, ldp.RDFType, rdf.IRI(ldp.LDPRDFSource))
	seedServerQuad(t, qs, rid, ldp.DCModified, rdf.DateTimeLiteral("2024-03-02T10:00:00.000Z"))
	m := materializer.New(qs, nil, true)

	// Act
	result, err := m.Fetch(context.Background(), rid)

	// Assert
	require.NoError(t, err)
	require.True(t, result.IsPresent())
	assert.Equal(t, ldp.RDFSource, result.Resource.InteractionModel())
	expected, _ := time.Parse("2006-01-02T15:04:05.000Z07:00", "2024-03-02T10:00:00.000Z")
	assert.True(t, expected.Equal(result.Resource.Modified()))
}

func TestFetch_HasMetadataProbesSingleCategory(t *testing.T) {
	// Arrange
	qs := memstore.New()
	rid := "trellis:has-meta"
	seedServerQuad(t, qs, rid, ldp.RDFType, rdf.IRI(ldp.LDPRDFSource))
	seedServerQuad(t, qs, rid, ldp.DCModified, rdf.DateTimeLiteral("2024-01-01T00:00:00.000Z"))
	err := qs.LoadDataset(context.Background(), rdf.Dataset{
		rdf.NewQuad(rdf.PreferAccessControl, ldp.ACLGraph(rid), rdf.BlankNode("auth"), rdf.IRI(ldp.ACLMode), rdf.IRI(ldp.ACLRead)),
	})
	require.NoError(t, err)
	m := materializer.New(qs, nil, true)

	// Act
	result, err := m.Fetch(context.Background(), rid)
	require.NoError(t, err)
	hasACL, err := result.Resource.HasMetadata(context.Background(), rdf.PreferAccessControl)
	require.NoError(t, err)
	hasAudit, err := result.Resource.HasMetadata(context.Background(), rdf.PreferAudit)
	require.NoError(t, err)

	// Assert
	assert.True(t, hasACL)
	assert.False(t, hasAudit)
}

func TestFetch_IncludeLDPTypeFlagGatesSyntheticQuad(t *testing.T) {
	// Arrange
	qs := memstore.New()
	rid := "trellis:typed"
	seedServerQuad(t, qs, rid, ldp.RDFType, rdf.IRI(ldp.LDPBasicContainer))
	seedServerQuad(t, qs, rid, ldp.DCModified, rdf.DateTimeLiteral("2024-01-01T00:00:00.000Z"))

	withFlag := materializer.New(qs, nil, true)
	withoutFlag := materializer.New(qs, nil, false)

	// Act
	present, err := withFlag.Fetch(context.Background(), rid)
	require.NoError(t, err)
	withQuads, err := present.Resource.Stream(context.Background(), rdf.PreferServerManaged)
	require.NoError(t, err)

	absent, err := withoutFlag.Fetch(context.Background(), rid)
	require.NoError(t, err)
	withoutQuads, err := absent.Resource.Stream(context.Background(), rdf.PreferServerManaged)
	require.NoError(t, err)

	// Assert
	assert.Len(t, withQuads, 1)
	assert.Empty(t, withoutQuads)
}

func TestFetch_ContainmentStreamSkippedForNonContainers(t *testing.T) {
	// Arrange
	qs := memstore.New()
	rid := "trellis:leaf"
	seedServerQuad(t, qs, rid, ldp.RDFType, rdf.IRI(ldp.LDPRDFSource))
	seedServerQuad(t, qs, rid, ldp.DCModified, rdf.DateTimeLiteral("2024-01-01T00:00:00.000Z"))
	m := materializer.New(qs, nil, true)

	// Act
	result, err := m.Fetch(context.Background(), rid)
	require.NoError(t, err)
	quads, err := result.Resource.Stream(context.Background(), rdf.PreferContainment)

	// Assert
	require.NoError(t, err)
	assert.Empty(t, quads)
}
