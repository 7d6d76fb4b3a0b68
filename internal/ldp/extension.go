package ldp

// ExtensionGraph names a registered extension: a server-recognized
// `?ext=Name` suffix whose content is surfaced under the category IRI
// configured for it. audit and acl are built in and never appear in
// this list.
type ExtensionGraph struct {
	Name string
	IRI  string
}
