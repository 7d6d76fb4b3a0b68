package ldp

import (
	"context"
	"time"

	"ldpstore/internal/rdf"
)

// BinaryDescriptor is the server-managed metadata kept for a
// NonRDFSource, keyed off the binary IRI rather than the resource IRI.
type BinaryDescriptor struct {
	BinaryIRI string
	MimeType  string
	Size      *int64
	Modified  *time.Time
}

// MembershipConfig is the membership configuration carried by a
// DirectContainer or IndirectContainer. Exactly one of
// HasMemberRelation / IsMemberOfRelation is set.
type MembershipConfig struct {
	MembershipResource      string
	HasMemberRelation       string
	IsMemberOfRelation      string
	InsertedContentRelation string
}

// DefaultInsertedContentRelation is used when a container's configuration
// omits ldp:insertedContentRelation.
const DefaultInsertedContentRelation = LDPMemberSubject

// Direct reports whether membership is expressed via ldp:hasMemberRelation
// (as opposed to the inverse ldp:isMemberOfRelation).
func (c MembershipConfig) Direct() bool { return c.HasMemberRelation != "" }

// Metadata is the logical resource record materialized on demand from
// quads in the server-managed graph.
type Metadata struct {
	ID               ResourceID
	InteractionModel InteractionModel
	Modified         time.Time
	Parent           string
	Binary           *BinaryDescriptor
	Membership       *MembershipConfig
	Deleted          bool
}

// Streamer lazily produces the quads belonging to a resource, grouped by
// graph category; each invocation re-queries the store.
type Streamer interface {
	Stream(ctx context.Context, categories ...rdf.GraphCategory) ([]rdf.Quad, error)
	HasMetadata(ctx context.Context, category rdf.GraphCategory) (bool, error)
}

// Resource is a handle holding (rid, connection, extension-map,
// include-ldp-type-flag).
type Resource struct {
	meta           Metadata
	streamer       Streamer
	includeLDPType bool
}

func NewResource(meta Metadata, streamer Streamer, includeLDPType bool) *Resource {
	return &Resource{meta: meta, streamer: streamer, includeLDPType: includeLDPType}
}

func (r *Resource) ID() ResourceID                     { return r.meta.ID }
func (r *Resource) InteractionModel() InteractionModel { return r.meta.InteractionModel }
func (r *Resource) Modified() time.Time                { return r.meta.Modified }
func (r *Resource) Parent() (string, bool)             { return r.meta.Parent, r.meta.Parent != "" }
func (r *Resource) Binary() *BinaryDescriptor          { return r.meta.Binary }
func (r *Resource) Membership() *MembershipConfig      { return r.meta.Membership }
func (r *Resource) Metadata() Metadata                 { return r.meta }

// Stream concatenates the producers selected by categories (all, if none
// given) into a single quad slice.
func (r *Resource) Stream(ctx context.Context, categories ...rdf.GraphCategory) ([]rdf.Quad, error) {
	return r.streamer.Stream(ctx, categories...)
}

// HasMetadata probes a single category for any row without materializing
// the full stream.
func (r *Resource) HasMetadata(ctx context.Context, category rdf.GraphCategory) (bool, error) {
	return r.streamer.HasMetadata(ctx, category)
}

// FetchStatus is the three-case result of a fetch, replacing
// exception-for-control-flow.
type FetchStatus int

const (
	StatusPresent FetchStatus = iota
	StatusMissing
	StatusDeleted
)

// FetchResult is returned by materializer.Materializer.Fetch /
// ResourceService.Get. Only a present result carries a Resource; it is
// nil for MISSING and DELETED.
type FetchResult struct {
	Status   FetchStatus
	Resource *Resource
}

func Missing() FetchResult             { return FetchResult{Status: StatusMissing} }
func Deleted() FetchResult             { return FetchResult{Status: StatusDeleted} }
func Present(r *Resource) FetchResult  { return FetchResult{Status: StatusPresent, Resource: r} }

func (f FetchResult) IsMissing() bool { return f.Status == StatusMissing }
func (f FetchResult) IsDeleted() bool { return f.Status == StatusDeleted }
func (f FetchResult) IsPresent() bool { return f.Status == StatusPresent }
