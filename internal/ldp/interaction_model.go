package ldp

// InteractionModel is the LDP type tag controlling containment and
// membership semantics for a resource.
type InteractionModel string

const (
	ResourceModel   InteractionModel = "Resource"
	RDFSource       InteractionModel = "RDFSource"
	NonRDFSource    InteractionModel = "NonRDFSource"
	Container       InteractionModel = "Container"
	BasicContainer  InteractionModel = "BasicContainer"
	DirectContainer InteractionModel = "DirectContainer"
	Indirect        InteractionModel = "IndirectContainer"
)

// supportedModels is the fixed set ResourceService.SupportedInteractionModels returns.
var supportedModels = []InteractionModel{
	ResourceModel, RDFSource, NonRDFSource, Container, BasicContainer, DirectContainer, Indirect,
}

// SupportedInteractionModels returns the fixed set of interaction models
// the service understands.
func SupportedInteractionModels() []InteractionModel {
	out := make([]InteractionModel, len(supportedModels))
	copy(out, supportedModels)
	return out
}

// IsContainer reports whether im is any of the container variants.
func (im InteractionModel) IsContainer() bool {
	switch im {
	case Container, BasicContainer, DirectContainer, Indirect:
		return true
	default:
		return false
	}
}

// IRI returns the full LDP vocabulary IRI for im.
func (im InteractionModel) IRI() string {
	switch im {
	case ResourceModel:
		return LDPResource
	case RDFSource:
		return LDPRDFSource
	case NonRDFSource:
		return LDPNonRDFSource
	case Container:
		return LDPContainer
	case BasicContainer:
		return LDPBasicContainer
	case DirectContainer:
		return LDPDirectContainer
	case Indirect:
		return LDPIndirect
	default:
		return ""
	}
}

// ParseInteractionModel maps an LDP type IRI back to an InteractionModel.
// The zero value and false are returned for an unrecognized IRI.
func ParseInteractionModel(iri string) (InteractionModel, bool) {
	for _, im := range supportedModels {
		if im.IRI() == iri {
			return im, true
		}
	}
	return "", false
}
