package ldp

import "strings"

// ResourceID is a value object wrapping a resource's normalized IRI: the
// trailing-slash-free form is the only form ever stored or compared.
// Equality is string equality on that normalized form.
type ResourceID struct {
	value string
}

// NewResourceID normalizes and wraps rid.
func NewResourceID(rid string) ResourceID {
	return ResourceID{value: Normalize(rid)}
}

func (id ResourceID) String() string { return id.value }

func (id ResourceID) IsEmpty() bool { return id.value == "" }

func (id ResourceID) Equals(other ResourceID) bool { return id.value == other.value }

// WithTrailingSlash projects the identifier outward per adjust_container_iri,
// given the resource's interaction model.
func (id ResourceID) WithTrailingSlash(im InteractionModel) string {
	return AdjustContainerIRI(id.value, im)
}

// Normalize strips a single trailing "/" from rid. Total; safe on any
// input including the empty string.
func Normalize(rid string) string {
	if strings.HasSuffix(rid, "/") && rid != "/" {
		return strings.TrimSuffix(rid, "/")
	}
	return rid
}

// AdjustContainerIRI appends "/" to rid iff im is a container interaction
// model and rid does not already end in "/". Used when projecting stored
// identifiers outward in containment/membership streams.
func AdjustContainerIRI(rid string, im InteractionModel) string {
	if im.IsContainer() && !strings.HasSuffix(rid, "/") {
		return rid + "/"
	}
	return rid
}
