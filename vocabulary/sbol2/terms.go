package sbol2

import "fmt"

// Term is a qualified vocabulary name: a namespace IRI plus a local name.
type Term struct {
	Namespace string
	Local     string
}

// IRI returns the full IRI of the term.
func (t Term) IRI() string { return t.Namespace + t.Local }

// String returns the compact prefix:local form, falling back to the IRI for
// namespaces outside the table.
func (t Term) String() string {
	if p := PrefixOf(t.Namespace); p != "" {
		return p + ":" + t.Local
	}
	return t.IRI()
}

// IsZero reports whether t is the zero Term.
func (t Term) IsZero() bool { return t.Namespace == "" && t.Local == "" }

// UnknownTermError is returned by Lookup for names outside the fixed table.
type UnknownTermError struct {
	NamespaceKey string
	Local        string
}

func (e *UnknownTermError) Error() string {
	return fmt.Sprintf("unknown term %s:%s", e.NamespaceKey, e.Local)
}

func sbol(local string) Term    { return Term{Namespace: SBOL2, Local: local} }
func rdf(local string) Term     { return Term{Namespace: RDF, Local: local} }
func dcterms(local string) Term { return Term{Namespace: DCTerms, Local: local} }
func prov(local string) Term    { return Term{Namespace: PROV, Local: local} }

// Class terms.
var (
	ModuleDefinitionType    = sbol("ModuleDefinition")
	ModuleType              = sbol("Module")
	MapsToType              = sbol("MapsTo")
	ComponentDefinitionType = sbol("ComponentDefinition")
	ComponentType           = sbol("Component")
	FunctionalComponentType = sbol("FunctionalComponent")
	SequenceType            = sbol("Sequence")
	SequenceAnnotationType  = sbol("SequenceAnnotation")
	SequenceConstraintType  = sbol("SequenceConstraint")
	InteractionType         = sbol("Interaction")
	ParticipationType       = sbol("Participation")
	RangeType               = sbol("Range")
	CutType                 = sbol("Cut")
	GenericLocationType     = sbol("GenericLocation")
	ModelType               = sbol("Model")
	CollectionType          = sbol("Collection")
	ImplementationType      = sbol("Implementation")
	AttachmentType          = sbol("Attachment")
)

// Identified properties, carried by every entity.
var (
	RDFType            = rdf("type")
	PersistentIdentity = sbol("persistentIdentity")
	DisplayID          = sbol("displayId")
	Version            = sbol("version")
	Title              = dcterms("title")
	Description        = dcterms("description")
	WasDerivedFrom     = prov("wasDerivedFrom")
	WasGeneratedBy     = prov("wasGeneratedBy")
	HasAttachment      = sbol("attachment")
)

// ModuleDefinition and Module terms.
var (
	HasModule              = sbol("module")
	HasInteraction         = sbol("interaction")
	HasFunctionalComponent = sbol("functionalComponent")
	HasModel               = sbol("model")
	HasMapsTo              = sbol("mapsTo")
	HasMapping             = sbol("mapping") // pre-release spelling of mapsTo
	HasDefinition          = sbol("definition")
)

// MapsTo terms.
var (
	HasRefinement = sbol("refinement")
	HasLocal      = sbol("local")
	HasRemote     = sbol("remote")
)

// ComponentDefinition and component instance terms.
var (
	HasType               = sbol("type")
	HasRole               = sbol("role")
	HasSequence           = sbol("sequence")
	HasComponent          = sbol("component")
	HasSequenceAnnotation = sbol("sequenceAnnotation")
	HasSequenceConstraint = sbol("sequenceConstraint")
	HasAccess             = sbol("access")
	HasDirection          = sbol("direction")
	HasRoleIntegration    = sbol("roleIntegration")
)

// Location and constraint terms.
var (
	HasLocation    = sbol("location")
	HasStart       = sbol("start")
	HasEnd         = sbol("end")
	HasAt          = sbol("at")
	HasOrientation = sbol("orientation")
	HasRestriction = sbol("restriction")
	HasSubject     = sbol("subject")
	HasObject      = sbol("object")
)

// Sequence terms.
var (
	HasElements = sbol("elements")
	HasEncoding = sbol("encoding")
)

// Interaction terms.
var (
	HasParticipation = sbol("participation")
	HasParticipant   = sbol("participant")
)

// Model, Collection, Implementation and Attachment terms.
var (
	HasSource    = sbol("source")
	HasLanguage  = sbol("language")
	HasFramework = sbol("framework")
	HasMember    = sbol("member")
	HasBuilt     = sbol("built")
	HasFormat    = sbol("format")
	HasSize      = sbol("size")
	HasHash      = sbol("hash")
)

// entry is one row of the vocabulary table.
type entry struct {
	term     Term
	group    string
	dataType string
	desc     string
}

// table is the complete vocabulary, in registration order.
var table = []entry{
	{ModuleDefinitionType, "class", "iri", "Class of module definitions"},
	{ModuleType, "class", "iri", "Class of module instances"},
	{MapsToType, "class", "iri", "Class of maps-to links"},
	{ComponentDefinitionType, "class", "iri", "Class of component definitions"},
	{ComponentType, "class", "iri", "Class of structural component instances"},
	{FunctionalComponentType, "class", "iri", "Class of functional component instances"},
	{SequenceType, "class", "iri", "Class of sequences"},
	{SequenceAnnotationType, "class", "iri", "Class of sequence annotations"},
	{SequenceConstraintType, "class", "iri", "Class of sequence constraints"},
	{InteractionType, "class", "iri", "Class of interactions"},
	{ParticipationType, "class", "iri", "Class of participations"},
	{RangeType, "class", "iri", "Class of range locations"},
	{CutType, "class", "iri", "Class of cut locations"},
	{GenericLocationType, "class", "iri", "Class of generic locations"},
	{ModelType, "class", "iri", "Class of computational models"},
	{CollectionType, "class", "iri", "Class of collections"},
	{ImplementationType, "class", "iri", "Class of built implementations"},
	{AttachmentType, "class", "iri", "Class of attachments"},

	{RDFType, "identified", "iri", "RDF class of the entity"},
	{PersistentIdentity, "identified", "iri", "URI shared by all versions of the entity"},
	{DisplayID, "identified", "string", "Compact local identifier"},
	{Version, "identified", "string", "Version in major.minor.patch form"},
	{Title, "identified", "string", "Human readable title"},
	{Description, "identified", "string", "Human readable description"},
	{WasDerivedFrom, "identified", "iri", "Entity this one was derived from"},
	{WasGeneratedBy, "identified", "iri", "Activity that generated the entity"},
	{HasAttachment, "toplevel", "entity_id", "Attachment linked to a top-level entity"},

	{HasModule, "module_definition", "entity_id", "Module instance owned by a module definition"},
	{HasInteraction, "module_definition", "entity_id", "Interaction owned by a module definition"},
	{HasFunctionalComponent, "module_definition", "entity_id", "Functional component owned by a module definition"},
	{HasModel, "module_definition", "entity_id", "Model describing a module definition"},
	{HasMapsTo, "module", "entity_id", "MapsTo owned by a module or component"},
	{HasMapping, "module", "entity_id", "Legacy spelling of mapsTo"},
	{HasDefinition, "module", "entity_id", "Definition instantiated by a module or component"},

	{HasRefinement, "maps_to", "iri", "How local and remote components are merged"},
	{HasLocal, "maps_to", "entity_id", "Component in the enclosing definition"},
	{HasRemote, "maps_to", "entity_id", "Component in the instantiated definition"},

	{HasType, "component_definition", "iri", "Molecule or interaction type"},
	{HasRole, "component_definition", "iri", "Role of a component or participant"},
	{HasSequence, "component_definition", "entity_id", "Sequence of a component definition"},
	{HasComponent, "component_definition", "entity_id", "Component owned by a component definition"},
	{HasSequenceAnnotation, "component_definition", "entity_id", "Sequence annotation owned by a component definition"},
	{HasSequenceConstraint, "component_definition", "entity_id", "Sequence constraint owned by a component definition"},
	{HasAccess, "component", "iri", "Public or private access"},
	{HasDirection, "component", "iri", "Direction of a functional component"},
	{HasRoleIntegration, "component", "iri", "How instance roles combine with definition roles"},

	{HasLocation, "location", "entity_id", "Location owned by a sequence annotation"},
	{HasStart, "location", "int", "One-based inclusive start of a range"},
	{HasEnd, "location", "int", "One-based inclusive end of a range"},
	{HasAt, "location", "int", "Position of a cut"},
	{HasOrientation, "location", "iri", "Strand orientation"},
	{HasRestriction, "constraint", "iri", "Kind of sequence constraint"},
	{HasSubject, "constraint", "entity_id", "Constrained subject component"},
	{HasObject, "constraint", "entity_id", "Constrained object component"},

	{HasElements, "sequence", "string", "Sequence elements"},
	{HasEncoding, "sequence", "iri", "Encoding of the sequence elements"},

	{HasParticipation, "interaction", "entity_id", "Participation owned by an interaction"},
	{HasParticipant, "interaction", "entity_id", "Functional component taking part"},

	{HasSource, "model", "iri", "Location of the model or attachment source"},
	{HasLanguage, "model", "iri", "Language the model is written in"},
	{HasFramework, "model", "iri", "Modeling framework"},
	{HasMember, "collection", "entity_id", "Member of a collection"},
	{HasBuilt, "implementation", "entity_id", "Design an implementation realises"},
	{HasFormat, "attachment", "iri", "Format of the attached file"},
	{HasSize, "attachment", "int", "Size of the attached file in bytes"},
	{HasHash, "attachment", "string", "Hash of the attached file"},
}

var (
	byIRI   = indexByIRI(table)
	byLocal = indexByLocal(table)
)

func indexByIRI(entries []entry) map[string]entry {
	m := make(map[string]entry, len(entries))
	for _, e := range entries {
		m[e.term.IRI()] = e
	}
	return m
}

func indexByLocal(entries []entry) map[string]Term {
	m := make(map[string]Term, len(entries))
	for _, e := range entries {
		m[PrefixOf(e.term.Namespace)+":"+e.term.Local] = e.term
	}
	return m
}

// Lookup returns the term named local within the namespace identified by
// key. It fails with *UnknownTermError for anything outside the table.
func Lookup(key, local string) (Term, error) {
	if t, ok := byLocal[key+":"+local]; ok {
		return t, nil
	}
	return Term{}, &UnknownTermError{NamespaceKey: key, Local: local}
}

// MustLookup is like Lookup but panics on unknown names.
func MustLookup(key, local string) Term {
	t, err := Lookup(key, local)
	if err != nil {
		panic(err)
	}
	return t
}

// ByIRI returns the term with the given full IRI.
func ByIRI(iri string) (Term, bool) {
	e, ok := byIRI[iri]
	return e.term, ok
}

// IsClass reports whether t names an SBOL class rather than a property.
func IsClass(t Term) bool {
	e, ok := byIRI[t.IRI()]
	return ok && e.group == "class"
}

// Terms returns every term in table order.
func Terms() []Term {
	out := make([]Term, len(table))
	for i, e := range table {
		out[i] = e.term
	}
	return out
}
