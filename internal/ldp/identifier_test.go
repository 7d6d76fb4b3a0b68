package ldp_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ldpstore/internal/ldp"
)

func TestNormalize_StripsTrailingSlash(t *testing.T) {
	assert.Equal(t, "http://example.org/a", ldp.Normalize("http://example.org/a/"))
	assert.Equal(t, "http://example.org/a", ldp.Normalize("http://example.org/a"))
	assert.Equal(t, "/", ldp.Normalize("/"))
}

func TestResourceID_EqualsOnNormalizedForm(t *testing.T) {
	// Arrange
	a := ldp.NewResourceID("http://example.org/a/")
	b := ldp.NewResourceID("http://example.org/a")

	// Act / Assert
	assert.True(t, a.Equals(b))
	assert.Equal(t, "http://example.org/a", a.String())
}

func TestResourceID_IsEmpty(t *testing.T) {
	assert.True(t, ldp.ResourceID{}.IsEmpty())
	assert.False(t, ldp.NewResourceID("http://example.org/a").IsEmpty())
}

func TestAdjustContainerIRI_AppendsSlashOnlyForContainers(t *testing.T) {
	assert.Equal(t, "http://example.org/c/", ldp.AdjustContainerIRI("http://example.org/c", ldp.BasicContainer))
	assert.Equal(t, "http://example.org/c/", ldp.AdjustContainerIRI("http://example.org/c/", ldp.BasicContainer))
	assert.Equal(t, "http://example.org/r", ldp.AdjustContainerIRI("http://example.org/r", ldp.RDFSource))
}
