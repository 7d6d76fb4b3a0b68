package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ldpstore/internal/ldp"
	"ldpstore/internal/materializer"
	"ldpstore/internal/planner"
	"ldpstore/internal/rdf"
	"ldpstore/internal/service"
	"ldpstore/internal/store"
	"ldpstore/internal/store/memstore"
)

func newTestService(t *testing.T, extensions []ldp.ExtensionGraph) *service.ResourceService {
	t.Helper()
	qs := memstore.New()
	mat := materializer.New(qs, extensions, true)
	pl := planner.New(extensions)
	svc, err := service.New(qs, mat, pl, nil, zap.NewNop())
	require.NoError(t, err)
	return svc
}

func await(t *testing.T, f interface {
	Await(context.Context) (struct{}, error)
}) {
	t.Helper()
	_, err := f.Await(context.Background())
	require.NoError(t, err)
}

func userQuad(rid, pred string, obj rdf.Term) rdf.Quad {
	return rdf.NewQuad(rdf.PreferUserManaged, rid, rdf.IRI(rid), rdf.IRI(pred), obj)
}

func TestService_RootBootstrap(t *testing.T) {
	// Arrange
	svc := newTestService(t, nil)
	ctx := context.Background()
	before := time.Now()

	// Act
	await(t, svc.Initialize(ctx))
	result, err := svc.Get(ctx, ldp.RootID)

	// Assert
	require.NoError(t, err)
	require.True(t, result.IsPresent())
	assert.Equal(t, ldp.BasicContainer, result.Resource.InteractionModel())
	assert.WithinDuration(t, before, result.Resource.Modified(), 5*time.Second)

	aclQuads, err := result.Resource.Stream(ctx, rdf.PreferAccessControl)
	require.NoError(t, err)
	assert.Len(t, aclQuads, 5)
}

func TestService_InitializeIsIdempotent(t *testing.T) {
	// Arrange
	svc := newTestService(t, nil)
	ctx := context.Background()

	// Act
	await(t, svc.Initialize(ctx))
	first, err := svc.Get(ctx, ldp.RootID)
	require.NoError(t, err)
	firstQuads, err := first.Resource.Stream(ctx)
	require.NoError(t, err)

	await(t, svc.Initialize(ctx))
	second, err := svc.Get(ctx, ldp.RootID)
	require.NoError(t, err)
	secondQuads, err := second.Resource.Stream(ctx)
	require.NoError(t, err)

	// Assert
	assert.Equal(t, first.Resource.Modified(), second.Resource.Modified())
	assert.ElementsMatch(t, firstQuads, secondQuads)
}

func TestService_CreateChildUnderRootAndTouchPropagates(t *testing.T) {
	// Arrange
	svc := newTestService(t, nil)
	ctx := context.Background()
	await(t, svc.Initialize(ctx))

	rid := ldp.RootID + "data/r"
	meta := service.Meta{ID: ldp.NewResourceID(rid), InteractionModel: ldp.RDFSource, Parent: ldp.RootID}
	dataset := rdf.Dataset{userQuad(rid, "http://purl.org/dc/terms/title", rdf.PlainLiteral("t"))}

	// Act
	await(t, svc.Create(ctx, meta, dataset))
	await(t, svc.Touch(ctx, ldp.RootID))

	got, err := svc.Get(ctx, rid)
	require.NoError(t, err)
	userStream, err := got.Resource.Stream(ctx, rdf.PreferUserManaged)
	require.NoError(t, err)

	root, err := svc.Get(ctx, ldp.RootID)
	require.NoError(t, err)
	containment, err := root.Resource.Stream(ctx, rdf.PreferContainment)
	require.NoError(t, err)

	// Assert
	require.Len(t, userStream, 1)
	obj, _ := userStream[0].Object.AsLiteral()
	assert.Equal(t, "t", obj)

	found := false
	for _, q := range containment {
		if o, ok := q.Object.AsIRI(); ok && o == rid {
			found = true
		}
	}
	assert.True(t, found, "expected containment stream to mention %s", rid)
}

func TestService_CreateChildAdvancesParentModified(t *testing.T) {
	// Arrange
	svc := newTestService(t, nil)
	ctx := context.Background()
	await(t, svc.Initialize(ctx))
	before, err := svc.Get(ctx, ldp.RootID)
	require.NoError(t, err)
	beforeModified := before.Resource.Modified()

	rid := ldp.RootID + "child"
	meta := service.Meta{ID: ldp.NewResourceID(rid), InteractionModel: ldp.RDFSource, Parent: ldp.RootID}

	// Act
	time.Sleep(time.Millisecond)
	await(t, svc.Create(ctx, meta, nil))
	after, err := svc.Get(ctx, ldp.RootID)
	require.NoError(t, err)

	// Assert
	assert.False(t, after.Resource.Modified().Before(beforeModified))
}

func TestService_CreateUnderNonContainerParentDoesNotAdvanceParent(t *testing.T) {
	// Arrange
	svc := newTestService(t, nil)
	ctx := context.Background()
	parentID := "trellis:leaf"
	parentMeta := service.Meta{ID: ldp.NewResourceID(parentID), InteractionModel: ldp.RDFSource}
	await(t, svc.Create(ctx, parentMeta, nil))

	before, err := svc.Get(ctx, parentID)
	require.NoError(t, err)
	beforeModified := before.Resource.Modified()

	childID := "trellis:leaf/child"
	childMeta := service.Meta{ID: ldp.NewResourceID(childID), InteractionModel: ldp.RDFSource, Parent: parentID}

	// Act
	time.Sleep(time.Millisecond)
	await(t, svc.Create(ctx, childMeta, nil))
	after, err := svc.Get(ctx, parentID)
	require.NoError(t, err)

	// Assert: an RDFSource parent is not a container, so propagation is suppressed.
	assert.Equal(t, beforeModified, after.Resource.Modified())
}

func TestService_CreateNonRDFSourceRoundTripsBinaryDescriptor(t *testing.T) {
	// Arrange
	svc := newTestService(t, nil)
	ctx := context.Background()
	modified := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	size := int64(10)
	rid := "trellis:r2"
	meta := service.Meta{
		ID:               ldp.NewResourceID(rid),
		InteractionModel: ldp.NonRDFSource,
		Binary: &ldp.BinaryDescriptor{
			BinaryIRI: "trellis:r2#binary",
			MimeType:  "text/plain",
			Size:      &size,
			Modified:  &modified,
		},
	}

	// Act
	await(t, svc.Create(ctx, meta, nil))
	got, err := svc.Get(ctx, rid)

	// Assert
	require.NoError(t, err)
	require.True(t, got.IsPresent())
	bin := got.Resource.Binary()
	require.NotNil(t, bin)
	assert.Equal(t, "trellis:r2#binary", bin.BinaryIRI)
	assert.Equal(t, "text/plain", bin.MimeType)
	require.NotNil(t, bin.Size)
	assert.Equal(t, int64(10), *bin.Size)
	require.NotNil(t, bin.Modified)
	assert.True(t, modified.Equal(*bin.Modified))
}

func TestService_DirectContainerMembership(t *testing.T) {
	// Arrange
	svc := newTestService(t, nil)
	ctx := context.Background()

	await(t, svc.Create(ctx, service.Meta{ID: ldp.NewResourceID("trellis:m"), InteractionModel: ldp.RDFSource}, nil))

	containerID := "trellis:c"
	containerDataset := rdf.Dataset{
		userQuad(containerID, ldp.LDPMembershipResource, rdf.IRI("trellis:m")),
		userQuad(containerID, ldp.LDPHasMemberRelation, rdf.IRI("http://purl.org/dc/terms/relation")),
		userQuad(containerID, ldp.LDPInsertedContentRelation, rdf.IRI(ldp.LDPMemberSubject)),
	}
	await(t, svc.Create(ctx, service.Meta{ID: ldp.NewResourceID(containerID), InteractionModel: ldp.DirectContainer}, containerDataset))

	childID := "trellis:c/x"
	await(t, svc.Create(ctx, service.Meta{ID: ldp.NewResourceID(childID), InteractionModel: ldp.RDFSource, Parent: containerID}, nil))

	// Act
	member, err := svc.Get(ctx, "trellis:m")
	require.NoError(t, err)
	membership, err := member.Resource.Stream(ctx, rdf.PreferMembership)
	require.NoError(t, err)

	// Assert
	found := false
	for _, q := range membership {
		subj, _ := q.Subject.AsIRI()
		pred, _ := q.Predicate.AsIRI()
		obj, _ := q.Object.AsIRI()
		if subj == "trellis:m" && pred == "http://purl.org/dc/terms/relation" && obj == childID {
			found = true
		}
	}
	assert.True(t, found, "expected direct membership triple for %s, got %v", childID, membership)
}

func TestService_DirectContainerMembership_DefaultsInsertedContentRelation(t *testing.T) {
	// Arrange
	svc := newTestService(t, nil)
	ctx := context.Background()

	await(t, svc.Create(ctx, service.Meta{ID: ldp.NewResourceID("trellis:m"), InteractionModel: ldp.RDFSource}, nil))

	containerID := "trellis:c"
	containerDataset := rdf.Dataset{
		userQuad(containerID, ldp.LDPMembershipResource, rdf.IRI("trellis:m")),
		userQuad(containerID, ldp.LDPHasMemberRelation, rdf.IRI("http://purl.org/dc/terms/relation")),
	}
	await(t, svc.Create(ctx, service.Meta{ID: ldp.NewResourceID(containerID), InteractionModel: ldp.DirectContainer}, containerDataset))

	childID := "trellis:c/x"
	await(t, svc.Create(ctx, service.Meta{ID: ldp.NewResourceID(childID), InteractionModel: ldp.RDFSource, Parent: containerID}, nil))

	// Act
	member, err := svc.Get(ctx, "trellis:m")
	require.NoError(t, err)
	membership, err := member.Resource.Stream(ctx, rdf.PreferMembership)
	require.NoError(t, err)

	// Assert
	found := false
	for _, q := range membership {
		subj, _ := q.Subject.AsIRI()
		pred, _ := q.Predicate.AsIRI()
		obj, _ := q.Object.AsIRI()
		if subj == "trellis:m" && pred == "http://purl.org/dc/terms/relation" && obj == childID {
			found = true
		}
	}
	assert.True(t, found, "expected direct membership triple for %s when ldp:insertedContentRelation is omitted, got %v", childID, membership)
}

func TestService_IndirectContainerMembership(t *testing.T) {
	// Arrange
	svc := newTestService(t, nil)
	ctx := context.Background()

	await(t, svc.Create(ctx, service.Meta{ID: ldp.NewResourceID("trellis:m"), InteractionModel: ldp.RDFSource}, nil))

	containerID := "trellis:c"
	containerDataset := rdf.Dataset{
		userQuad(containerID, ldp.LDPMembershipResource, rdf.IRI("trellis:m")),
		userQuad(containerID, ldp.LDPHasMemberRelation, rdf.IRI("http://www.w3.org/2000/01/rdf-schema#label")),
		userQuad(containerID, ldp.LDPInsertedContentRelation, rdf.IRI("http://www.w3.org/2004/02/skos/core#prefLabel")),
	}
	await(t, svc.Create(ctx, service.Meta{ID: ldp.NewResourceID(containerID), InteractionModel: ldp.Indirect}, containerDataset))

	childID := "trellis:c/x"
	childDataset := rdf.Dataset{
		userQuad(childID, "http://www.w3.org/2004/02/skos/core#prefLabel", rdf.LangString("L", "en")),
	}
	await(t, svc.Create(ctx, service.Meta{ID: ldp.NewResourceID(childID), InteractionModel: ldp.RDFSource, Parent: containerID}, childDataset))

	// Act
	member, err := svc.Get(ctx, "trellis:m")
	require.NoError(t, err)
	membership, err := member.Resource.Stream(ctx, rdf.PreferMembership)
	require.NoError(t, err)

	// Assert
	found := false
	for _, q := range membership {
		pred, _ := q.Predicate.AsIRI()
		lex, _, lang, ok := q.Object.AsLiteral()
		if pred == "http://www.w3.org/2000/01/rdf-schema#label" && ok && lex == "L" && lang == "en" {
			found = true
		}
	}
	assert.True(t, found, "expected indirect membership triple carrying the inserted-content value, got %v", membership)
}

func TestService_DeleteIsObservable(t *testing.T) {
	// Arrange
	qs := memstore.New()
	svc, err := service.New(qs, materializer.New(qs, nil, true), planner.New(nil), nil, zap.NewNop())
	require.NoError(t, err)
	ctx := context.Background()
	await(t, svc.Initialize(ctx))

	rid := ldp.RootID + "data/r"
	meta := service.Meta{ID: ldp.NewResourceID(rid), InteractionModel: ldp.RDFSource, Parent: ldp.RootID}
	await(t, svc.Create(ctx, meta, rdf.Dataset{userQuad(rid, "http://purl.org/dc/terms/title", rdf.PlainLiteral("t"))}))

	// Act
	await(t, svc.Delete(ctx, rid, nil))
	deleted, err := svc.Get(ctx, rid)
	require.NoError(t, err)

	root, err := svc.Get(ctx, ldp.RootID)
	require.NoError(t, err)
	containment, err := root.Resource.Stream(ctx, rdf.PreferContainment)
	require.NoError(t, err)

	// A DELETED result carries no Resource handle, so the user graph is
	// read from the store directly.
	userStream, err := qs.Select(ctx, store.Query{Kind: store.QueryGraphScan, Graph: ldp.UserGraph(rid)})
	require.NoError(t, err)

	// Assert
	assert.True(t, deleted.IsDeleted())
	assert.Empty(t, userStream)
	for _, q := range containment {
		o, _ := q.Object.AsIRI()
		assert.NotEqual(t, rid, o)
	}
}

func TestService_MonotonicTimestampsAcrossCreateReplaceTouch(t *testing.T) {
	// Arrange
	svc := newTestService(t, nil)
	ctx := context.Background()
	rid := "trellis:seq"

	// Act
	await(t, svc.Create(ctx, service.Meta{ID: ldp.NewResourceID(rid), InteractionModel: ldp.RDFSource}, nil))
	t1, err := svc.Get(ctx, rid)
	require.NoError(t, err)

	time.Sleep(time.Millisecond)
	await(t, svc.Replace(ctx, service.Meta{ID: ldp.NewResourceID(rid), InteractionModel: ldp.RDFSource}, nil))
	t2, err := svc.Get(ctx, rid)
	require.NoError(t, err)

	time.Sleep(time.Millisecond)
	await(t, svc.Touch(ctx, rid))
	t3, err := svc.Get(ctx, rid)
	require.NoError(t, err)

	// Assert
	assert.False(t, t2.Resource.Modified().Before(t1.Resource.Modified()))
	assert.False(t, t3.Resource.Modified().Before(t2.Resource.Modified()))
}

func TestService_Purge_IsUnsupported(t *testing.T) {
	// Arrange
	svc := newTestService(t, nil)

	// Act
	_, err := svc.Purge(context.Background(), "trellis:anything").Await(context.Background())

	// Assert
	require.Error(t, err)
}

func TestService_GetMissingResource(t *testing.T) {
	// Arrange
	svc := newTestService(t, nil)

	// Act
	result, err := svc.Get(context.Background(), "trellis:nowhere")

	// Assert
	require.NoError(t, err)
	assert.True(t, result.IsMissing())
}
