package export

import (
	"github.com/c360studio/semstreams/message"
	"github.com/c360studio/semstreams/vocabulary"
	"github.com/c360studio/semstreams/vocabulary/bfo"
	"github.com/c360studio/semstreams/vocabulary/cco"

	"github.com/c360studio/sbolgraph/document"
	"github.com/c360studio/sbolgraph/rdf"
	"github.com/c360studio/sbolgraph/vocabulary/sbol2"
)

// Profile determines which ontology type assertions are added to an export.
type Profile string

const (
	// ProfileSBOL exports the SBOL triples unchanged. It is the only
	// profile whose output reads back into an equal document.
	ProfileSBOL Profile = "sbol"

	// ProfileMinimal adds PROV-O types to top-level entities.
	ProfileMinimal Profile = "minimal"

	// ProfileBFO includes BFO type assertions plus minimal profile.
	ProfileBFO Profile = "bfo"

	// ProfileCCO includes CCO type assertions plus BFO profile.
	ProfileCCO Profile = "cco"
)

// ProfileConfig contains configuration for an export profile.
type ProfileConfig struct {
	// Name is the profile identifier.
	Name Profile

	// Description describes the profile.
	Description string

	// IncludePROV adds prov:Entity to every top-level entity.
	IncludePROV bool

	// IncludeBFO adds BFO type assertions.
	IncludeBFO bool

	// IncludeCCO adds CCO type assertions.
	IncludeCCO bool
}

// Profiles contains the configuration for all available export profiles.
var Profiles = map[Profile]ProfileConfig{
	ProfileSBOL: {
		Name:        ProfileSBOL,
		Description: "SBOL2 triples only",
	},
	ProfileMinimal: {
		Name:        ProfileMinimal,
		Description: "SBOL2 plus PROV-O entity types",
		IncludePROV: true,
	},
	ProfileBFO: {
		Name:        ProfileBFO,
		Description: "BFO type assertions plus minimal profile",
		IncludePROV: true,
		IncludeBFO:  true,
	},
	ProfileCCO: {
		Name:        ProfileCCO,
		Description: "Full CCO/BFO/PROV-O alignment",
		IncludePROV: true,
		IncludeBFO:  true,
		IncludeCCO:  true,
	},
}

// GetProfileConfig returns the configuration for a profile. Unknown profiles
// fall back to ProfileSBOL.
func GetProfileConfig(profile Profile) ProfileConfig {
	if config, ok := Profiles[profile]; ok {
		return config
	}
	return Profiles[ProfileSBOL]
}

// bfoClassMap aligns SBOL kinds with BFO. Implementation is the only
// physical kind.
var bfoClassMap = map[document.Kind]string{
	document.KindComponentDefinition: bfo.GenericallyDependentContinuant,
	document.KindModuleDefinition:    bfo.GenericallyDependentContinuant,
	document.KindSequence:            bfo.GenericallyDependentContinuant,
	document.KindModel:               bfo.GenericallyDependentContinuant,
	document.KindCollection:          bfo.GenericallyDependentContinuant,
	document.KindAttachment:          bfo.GenericallyDependentContinuant,
	document.KindImplementation:      bfo.IndependentContinuant,
	document.KindInteraction:         bfo.Process,
	document.KindParticipation:       bfo.Role,
}

var ccoClassMap = map[document.Kind]string{
	document.KindComponentDefinition: cco.DirectiveInformationContentEntity,
	document.KindModuleDefinition:    cco.PlanSpecification,
	document.KindSequence:            cco.InformationContentEntity,
	document.KindModel:               cco.InformationContentEntity,
	document.KindCollection:          cco.InformationContentEntity,
	document.KindAttachment:          cco.InformationContentEntity,
}

// TypeAsserter generates type assertions for entities based on profile.
type TypeAsserter struct {
	profile ProfileConfig
}

// NewTypeAsserter creates a new type asserter for the given profile.
func NewTypeAsserter(profile Profile) *TypeAsserter {
	return &TypeAsserter{
		profile: GetProfileConfig(profile),
	}
}

// GetTypeIRIs returns the extra type IRIs for an entity kind. The SBOL class
// itself is never included; the serializer already emits it.
func (t *TypeAsserter) GetTypeIRIs(kind document.Kind) []string {
	types := make([]string, 0, 3)

	if t.profile.IncludePROV && kind.IsTopLevel() {
		types = append(types, vocabulary.ProvEntity)
	}
	if t.profile.IncludeBFO {
		if c, ok := bfoClassMap[kind]; ok {
			types = append(types, c)
		}
	}
	if t.profile.IncludeCCO {
		if c, ok := ccoClassMap[kind]; ok {
			types = append(types, c)
		}
	}
	return types
}

// Triples returns rdf:type triples for every entity of doc under the
// profile, in document order.
func (t *TypeAsserter) Triples(doc *document.Document) []rdf.Triple {
	var out []rdf.Triple
	for _, e := range doc.Entities() {
		for _, iri := range t.GetTypeIRIs(e.Kind()) {
			out = append(out, rdf.Triple{
				Subject:   e.ID().String(),
				Predicate: sbol2.RDFType.IRI(),
				Object:    rdf.IRI(iri),
			})
		}
	}
	return out
}

// TypeTriples returns rdf:type triples as []message.Triple for an entity
// based on its kind and the given profile.
func TypeTriples(entityID string, kind document.Kind, profile Profile) []message.Triple {
	asserter := NewTypeAsserter(profile)
	typeIRIs := asserter.GetTypeIRIs(kind)
	triples := make([]message.Triple, 0, len(typeIRIs))
	for _, typeIRI := range typeIRIs {
		triples = append(triples, message.Triple{
			Subject:    entityID,
			Predicate:  "rdf.syntax.type",
			Object:     typeIRI,
			Source:     "sbolgraph.rdf-export",
			Confidence: 1.0,
		})
	}
	return triples
}

// TypeHierarchy represents the ontology alignment of an SBOL kind.
type TypeHierarchy struct {
	SBOLClass string
	PROVClass string
	BFOClass  string
	CCOClass  string
}

// GetTypeHierarchy returns the full alignment for kind.
func GetTypeHierarchy(kind document.Kind) TypeHierarchy {
	h := TypeHierarchy{
		SBOLClass: kind.Type().IRI(),
		BFOClass:  bfoClassMap[kind],
		CCOClass:  ccoClassMap[kind],
	}
	if kind.IsTopLevel() {
		h.PROVClass = vocabulary.ProvEntity
	}
	return h
}
