package ldp

// Predicate and type IRIs the core reasons about directly. Kept as
// string constants rather than an enum: every one of these is dictated
// by an external vocabulary (LDP, Dublin Core, RDF, SKOS) the core must
// match byte-for-byte against store content.
const (
	RDFType = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"

	DCModified = "http://purl.org/dc/terms/modified"
	DCIsPartOf = "http://purl.org/dc/terms/isPartOf"
	DCHasPart  = "http://purl.org/dc/terms/hasPart"
	DCFormat   = "http://purl.org/dc/terms/format"
	DCExtent   = "http://purl.org/dc/terms/extent"
	DCType     = "http://purl.org/dc/terms/type"

	LDPContains                = "http://www.w3.org/ns/ldp#contains"
	LDPMember                  = "http://www.w3.org/ns/ldp#member"
	LDPMembershipResource      = "http://www.w3.org/ns/ldp#membershipResource"
	LDPHasMemberRelation       = "http://www.w3.org/ns/ldp#hasMemberRelation"
	LDPIsMemberOfRelation      = "http://www.w3.org/ns/ldp#isMemberOfRelation"
	LDPInsertedContentRelation = "http://www.w3.org/ns/ldp#insertedContentRelation"
	LDPMemberSubject           = "http://www.w3.org/ns/ldp#MemberSubject"

	LDPResource        = "http://www.w3.org/ns/ldp#Resource"
	LDPRDFSource       = "http://www.w3.org/ns/ldp#RDFSource"
	LDPNonRDFSource    = "http://www.w3.org/ns/ldp#NonRDFSource"
	LDPContainer       = "http://www.w3.org/ns/ldp#Container"
	LDPBasicContainer  = "http://www.w3.org/ns/ldp#BasicContainer"
	LDPDirectContainer = "http://www.w3.org/ns/ldp#DirectContainer"
	LDPIndirect        = "http://www.w3.org/ns/ldp#IndirectContainer"

	TrellisServerManaged = "trellis:PreferServerManaged"
	TrellisDeleted       = "trellis:DeletedResource"

	ACLAuthorization = "http://www.w3.org/ns/auth/acl#Authorization"
	ACLMode          = "http://www.w3.org/ns/auth/acl#mode"
	ACLRead          = "http://www.w3.org/ns/auth/acl#Read"
	ACLWrite         = "http://www.w3.org/ns/auth/acl#Write"
	ACLControl       = "http://www.w3.org/ns/auth/acl#Control"
	ACLAgentClass    = "http://www.w3.org/ns/auth/acl#agentClass"
	ACLAccessTo      = "http://www.w3.org/ns/auth/acl#accessTo"
	FOAFAgent        = "http://xmlns.com/foaf/0.1/Agent"
)

// RootID is the well-known identifier bootstrapped on first start.
const RootID = "trellis:"
