package ldp

// Graph-name calculus: pure, total functions mapping a resource
// identifier to the canonical named graphs that hold its data. None of
// these can fail.

// UserGraph returns the named graph holding rid's user-authored triples:
// the resource IRI itself.
func UserGraph(rid string) string { return rid }

// ServerGraph returns the single, process-wide named graph holding
// per-resource server-managed metadata.
func ServerGraph() string { return TrellisServerManaged }

// ExtGraph returns the named graph for extension name on rid (audit,
// acl, or a user-registered extension key).
func ExtGraph(rid, name string) string { return rid + "?ext=" + name }

const (
	ExtAudit = "audit"
	ExtACL   = "acl"
)

// AuditGraph returns rid's audit graph.
func AuditGraph(rid string) string { return ExtGraph(rid, ExtAudit) }

// ACLGraph returns rid's access-control graph.
func ACLGraph(rid string) string { return ExtGraph(rid, ExtACL) }
