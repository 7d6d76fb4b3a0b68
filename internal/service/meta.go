package service

import "ldpstore/internal/ldp"

// Meta is the caller-supplied header accompanying a create/replace
// dataset: identifier, interaction model, optional parent, optional
// binary descriptor. Membership configuration is not carried here — it
// travels as ordinary quads in the dataset's PreferUserManaged portion
// and is promoted to server-managed by preprocessing.
type Meta struct {
	ID               ldp.ResourceID
	InteractionModel ldp.InteractionModel
	Parent           string
	Binary           *ldp.BinaryDescriptor
}
